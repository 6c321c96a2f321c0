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
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ademuri/listen-insights/internal/store"
)

type SendReportsConfig struct {
	DbPath         string
	From           string
	DryRun         bool
	SendgridApiKey string
}

var sendReportsCmd = &cobra.Command{
	Use:   "send-reports",
	Short: "Sends all email reports that are due",
	Long:  ``,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		if viper.GetString("from") == "" {
			return fmt.Errorf("required flag(s) \"from\" not set")
		}
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		config := SendReportsConfig{
			DbPath:         viper.GetString("database"),
			From:           viper.GetString("from"),
			DryRun:         viper.GetBool("dry_run"),
			SendgridApiKey: viper.GetString("sendgrid_api_key"),
		}
		err := sendReports(config)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(sendReportsCmd)

	var dryRun bool
	sendReportsCmd.Flags().BoolVarP(&dryRun, "dry_run", "n", false, "When true, just print instead of emailing")
	viper.BindPFlag("dry_run", sendReportsCmd.Flags().Lookup("dry_run"))
}

func sendReports(config SendReportsConfig) error {
	db, err := store.New(config.DbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}

	reports, err := db.ListReports("")
	if err != nil {
		db.Close()
		return fmt.Errorf("querying reports: %w", err)
	}
	db.Close()

	now := time.Now()
	var due []store.Report
	for _, report := range reports {
		if reportAlreadySent(report, now) {
			fmt.Printf("Report (%q, %q) was already sent on %s, not sending.\n",
				report.Listener, report.Name, report.Sent.Format("2006-01-02"))
			continue
		}
		due = append(due, report)
	}

	errOccurred := false
	for _, report := range due {
		fmt.Printf("Sending report (%q, %q)\n", report.Listener, report.Name)
		emailConfig := SendEmailConfig{
			DbPath:         config.DbPath,
			Listener:       report.Listener,
			From:           config.From,
			To:             report.Email,
			ReportName:     report.Name,
			DryRun:         config.DryRun,
			SendgridApiKey: config.SendgridApiKey,
		}
		if err := sendEmail(emailConfig); err != nil {
			errOccurred = true
			fmt.Printf("sendEmail: %v\n", err)
			continue
		}
		if config.DryRun {
			continue
		}
		if err := recordReportSent(config.DbPath, report.ID, time.Now()); err != nil {
			errOccurred = true
			fmt.Printf("recording send time: %v\n", err)
		}
	}

	if errOccurred {
		return fmt.Errorf("Error occurred while sending reports")
	}
	return nil
}

// reportAlreadySent reports whether the report was already sent for the
// current run-day window. A report scheduled for day N is due from day N of
// a month until day N of the next month.
func reportAlreadySent(report store.Report, now time.Time) bool {
	toSendThisMonth := time.Date(now.Year(), now.Month(), report.RunDay, 0, 0, 0, 0, now.Location())
	toSendLastMonth := time.Date(now.Year(), now.Month()-1, report.RunDay, 0, 0, 0, 0, now.Location())

	if report.Sent.After(toSendThisMonth) {
		return true
	}
	if now.Before(toSendThisMonth) && report.Sent.After(toSendLastMonth) {
		return true
	}
	return false
}

func recordReportSent(dbPath string, reportID int64, sent time.Time) error {
	db, err := store.New(dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	return db.MarkReportSent(reportID, sent)
}
