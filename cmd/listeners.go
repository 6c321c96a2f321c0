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
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ademuri/listen-insights/internal/store"
)

// listenersCmd represents the listeners command
var listenersCmd = &cobra.Command{
	Use:   "listeners",
	Short: "Lists all known listeners",
	Long:  ``,
	Run: func(cmd *cobra.Command, args []string) {
		err := listListeners(os.Stdout, viper.GetString("database"))
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(listenersCmd)
}

func listListeners(out io.Writer, dbPath string) error {
	db, err := store.New(dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	listeners, err := db.ListListeners()
	if err != nil {
		return fmt.Errorf("listing listeners: %w", err)
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "LISTENER\tLISTENS")
	for _, listener := range listeners {
		fmt.Fprintf(w, "%s\t%d\n", listener.ID, listener.Listens)
	}

	return w.Flush()
}
