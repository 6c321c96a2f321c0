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
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ademuri/listen-insights/internal/store"
)

// addReportCmd represents the addReport command
var addReportCmd = &cobra.Command{
	Use:   "add-report",
	Short: "Adds an email report, to be sent periodically with `send-reports`",
	Long:  ``,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		_, err := requireListener()
		return err
	},
	Run: func(cmd *cobra.Command, args []string) {
		err := addReport(viper.GetString("database"), viper.GetString("listener"), viper.GetString("name"), viper.GetString("dest"), viper.GetInt("run_day"))
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(addReportCmd)

	var email string
	addReportCmd.Flags().StringVar(&email, "dest", "", "Destination email address")
	addReportCmd.MarkFlagRequired("dest")
	viper.BindPFlag("dest", addReportCmd.Flags().Lookup("dest"))

	var reportName string
	addReportCmd.Flags().StringVar(&reportName, "name", "", "Report name - included in the email title, and used for periodically sending")
	addReportCmd.MarkFlagRequired("name")
	viper.BindPFlag("name", addReportCmd.Flags().Lookup("name"))

	var runDay int
	addReportCmd.Flags().IntVar(&runDay, "run_day", 0, "Which day of the month to run this report on")
	addReportCmd.MarkFlagRequired("run_day")
	viper.BindPFlag("run_day", addReportCmd.Flags().Lookup("run_day"))
}

func addReport(dbPath string, listener string, name string, to string, runDay int) error {
	if runDay < 1 || runDay > 31 {
		return fmt.Errorf("run_day out of range: %d", runDay)
	}
	if len(to) == 0 {
		return fmt.Errorf("Must specify destination email")
	}

	db, err := store.New(dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	if err := db.CreateListener(listener); err != nil {
		return err
	}

	return db.AddReport(listener, name, to, runDay)
}
