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
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ademuri/listen-insights/internal/insights"
	"github.com/ademuri/listen-insights/internal/store"
)

var insightsCmd = &cobra.Command{
	Use:   "insights",
	Short: "Shows listening insights for a listener",
	Long: `Scans the listener's full play history and prints a table of statistics:
most-played song and artist by count and by time, Friday night favorites,
longest play streak, every-day songs, and top genres.`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		_, err := requireListener()
		return err
	},
	Run: func(cmd *cobra.Command, args []string) {
		err := printInsights(os.Stdout, viper.GetString("database"), viper.GetString("listener"))
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(insightsCmd)
}

// listenerInsights opens the store and runs the aggregation for one listener.
func listenerInsights(dbPath string, listener string) ([]insights.Insight, error) {
	db, err := store.New(dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	return insights.New(db, db).Aggregate(listener)
}

func printInsights(out io.Writer, dbPath string, listener string) error {
	results, err := listenerInsights(dbPath, listener)
	if errors.Is(err, insights.ErrNoData) {
		fmt.Fprintf(out, "No listening data for %q\n", listener)
		return nil
	}
	if err != nil {
		return fmt.Errorf("aggregating insights: %w", err)
	}

	table := tablewriter.NewWriter(out)
	table.Header([]string{"Question", "Answer"})
	for _, insight := range results {
		if err := table.Append([]string{insight.Question, insight.Answer}); err != nil {
			return fmt.Errorf("rendering table: %w", err)
		}
	}
	if err := table.Render(); err != nil {
		return fmt.Errorf("rendering table: %w", err)
	}

	fmt.Fprintf(out, "%d insights for %q\n", len(results), listener)
	return nil
}
