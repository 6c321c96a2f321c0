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
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/avast/retry-go"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/time/rate"

	"github.com/ademuri/listen-insights/internal/store"
)

type SyncConfig struct {
	DbPath    string
	Listener  string
	SourceURL string
	Force     bool
}

// listensPage is one page of the listens endpoint. Songs referenced by the
// page's listens arrive inline.
type listensPage struct {
	Page       int            `json:"page"`
	TotalPages int            `json:"totalPages"`
	Songs      []songRecord   `json:"songs"`
	Listens    []listenRecord `json:"listens"`
}

// syncCmd represents the sync command
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Fetches play events from a remote listens API",
	Long:  `Stores data in a local SQLite database.`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		if viper.GetString("source_url") == "" {
			return fmt.Errorf("required flag \"source_url\" not set")
		}
		_, err := requireListener()
		return err
	},
	Run: func(cmd *cobra.Command, args []string) {
		config := SyncConfig{
			DbPath:    viper.GetString("database"),
			Listener:  viper.GetString("listener"),
			SourceURL: viper.GetString("source_url"),
			Force:     viper.GetBool("force"),
		}

		err := syncListener(config)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(syncCmd)

	var sourceURL string
	syncCmd.Flags().StringVar(&sourceURL, "source_url", "", "Base URL of the listens API")
	viper.BindPFlag("source_url", syncCmd.Flags().Lookup("source_url"))

	var force bool
	syncCmd.Flags().BoolVarP(&force, "force", "f", false, "Sync even if the listener was synced in the past 24 hours")
	viper.BindPFlag("force", syncCmd.Flags().Lookup("force"))
}

func syncListener(config SyncConfig) error {
	db, err := store.New(config.DbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	err = db.CreateListener(config.Listener)
	if err != nil {
		return fmt.Errorf("creating listener: %w", err)
	}

	lastSynced, err := db.GetLastSynced(config.Listener)
	if err != nil {
		return err
	}
	now := time.Now()
	if !lastSynced.IsZero() && now.Sub(lastSynced).Hours() < 24 && !config.Force {
		fmt.Printf("Listener data was already synced in the past 24 hours\n")
		return nil
	}

	fmt.Printf("Syncing listens for %q\n", config.Listener)
	client := &http.Client{Timeout: 30 * time.Second}
	limiter := rate.NewLimiter(rate.Every(1*time.Second), 1)
	page := 1 // First page is 1
	pages := 0
	totalListens := 0
	for {
		var payload listensPage
		err := retry.Do(
			func() error {
				return fetchListensPage(client, config.SourceURL, config.Listener, page, &payload)
			},
			retry.RetryIf(func(err error) bool {
				var serverErr *serverError
				if errors.As(err, &serverErr) {
					fmt.Printf("listens API errored, retrying: %v\n", serverErr)
					return true
				}
				return false
			}),
		)
		if err != nil {
			return fmt.Errorf("fetching listens (page %d): %w", page, err)
		}

		if pages == 0 {
			pages = payload.TotalPages
		}

		if err := importArchive(db, config.Listener, listenArchive{Songs: payload.Songs, Listens: payload.Listens}); err != nil {
			return fmt.Errorf("importing listens (page %d): %w", page, err)
		}
		totalListens += len(payload.Listens)

		fmt.Printf("Downloaded page %v of %v\n", page, pages)
		page += 1

		if page > pages {
			break
		}

		limiter.Wait(context.Background())
	}

	err = db.SetLastSynced(config.Listener, now)
	if err != nil {
		return err
	}

	fmt.Printf("Synced %d listens for %q\n", totalListens, config.Listener)
	return nil
}

// serverError marks HTTP 5xx responses, which are worth retrying.
type serverError struct {
	status int
}

func (e *serverError) Error() string {
	return fmt.Sprintf("server error: HTTP %d", e.status)
}

func fetchListensPage(client *http.Client, baseURL string, listener string, page int, payload *listensPage) error {
	endpoint, err := url.Parse(baseURL)
	if err != nil {
		return fmt.Errorf("parsing source_url: %w", err)
	}
	endpoint = endpoint.JoinPath("listeners", listener, "listens")
	query := endpoint.Query()
	query.Set("page", fmt.Sprintf("%d", page))
	endpoint.RawQuery = query.Encode()

	resp, err := client.Get(endpoint.String())
	if err != nil {
		return fmt.Errorf("fetching %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 == 5 {
		return &serverError{status: resp.StatusCode}
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fetching %s: HTTP %d", endpoint, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(payload); err != nil {
		return fmt.Errorf("decoding page %d: %w", page, err)
	}
	return nil
}
