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

// listReportsCmd represents the listReports command
var listReportsCmd = &cobra.Command{
	Use:   "list-reports",
	Short: "Lists all reports configured for the listener",
	Long:  ``,
	Run: func(cmd *cobra.Command, args []string) {
		err := listReports(os.Stdout, viper.GetString("database"), viper.GetString("listener"))
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(listReportsCmd)
}

func listReports(out io.Writer, dbPath string, listener string) error {
	db, err := store.New(dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	reports, err := db.ListReports(listener)
	if err != nil {
		return fmt.Errorf("listing reports: %w", err)
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "LISTENER\tNAME\tEMAIL\tRUN DAY\tLAST SENT")
	for _, report := range reports {
		sent := ""
		if !report.Sent.IsZero() {
			sent = report.Sent.Format("2006-01-02")
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n", report.Listener, report.Name, report.Email, report.RunDay, sent)
	}

	return w.Flush()
}
