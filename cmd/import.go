/*
Copyright 2025 Google LLC

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ademuri/listen-insights/internal/insights"
	"github.com/ademuri/listen-insights/internal/store"
)

type songRecord struct {
	ID              string `json:"id"`
	Artist          string `json:"artist"`
	Title           string `json:"title"`
	Genre           string `json:"genre"`
	DurationSeconds int64  `json:"durationSeconds"`
}

type listenRecord struct {
	Listener  string `json:"listener,omitempty"`
	SongID    string `json:"songId"`
	Timestamp string `json:"timestamp"`
}

type listenArchive struct {
	Songs   []songRecord   `json:"songs"`
	Listens []listenRecord `json:"listens"`
}

// importCmd represents the import command
var importCmd = &cobra.Command{
	Use:   "import <file.json>",
	Short: "Imports play events and song metadata from a JSON file",
	Long: `The file holds a song catalog and a chronological list of listens:
  {"songs": [{"id", "artist", "title", "genre", "durationSeconds"}, ...],
   "listens": [{"listener", "songId", "timestamp"}, ...]}
Timestamps are RFC3339 or unix seconds. Listens without a listener field are
assigned to --listener.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		err := importFile(viper.GetString("database"), viper.GetString("listener"), args[0])
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
}

func importFile(dbPath string, defaultListener string, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening %q: %w", path, err)
	}
	defer f.Close()

	var archive listenArchive
	if err := json.NewDecoder(f).Decode(&archive); err != nil {
		return fmt.Errorf("decoding %q: %w", path, err)
	}

	db, err := store.New(dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	if err := importArchive(db, defaultListener, archive); err != nil {
		return err
	}

	fmt.Printf("Imported %d songs and %d listens from %s\n", len(archive.Songs), len(archive.Listens), path)
	return nil
}

// importArchive loads songs then listens, preserving the listens' order per
// listener. The aggregation's tie-break behavior depends on that order.
func importArchive(db *store.Store, defaultListener string, archive listenArchive) error {
	for _, song := range archive.Songs {
		info := insights.SongInfo{
			Artist:          song.Artist,
			Title:           song.Title,
			Genre:           song.Genre,
			DurationSeconds: song.DurationSeconds,
		}
		if err := db.UpsertSong(song.ID, info); err != nil {
			return err
		}
	}

	// Group listens by listener, keeping input order within each group.
	byListener := make(map[string][]store.ListenImport)
	var listenerOrder []string
	for _, listen := range archive.Listens {
		listener := listen.Listener
		if listener == "" {
			listener = defaultListener
		}
		if listener == "" {
			return fmt.Errorf("listen of song %q has no listener and --listener is not set", listen.SongID)
		}
		if _, seen := byListener[listener]; !seen {
			listenerOrder = append(listenerOrder, listener)
		}
		byListener[listener] = append(byListener[listener], store.ListenImport{
			SongID:    listen.SongID,
			Timestamp: listen.Timestamp,
		})
	}

	for _, listener := range listenerOrder {
		if err := db.CreateListener(listener); err != nil {
			return err
		}
		if err := db.AddListens(listener, byListener[listener]); err != nil {
			return fmt.Errorf("importing listens for %q: %w", listener, err)
		}
	}

	return nil
}
