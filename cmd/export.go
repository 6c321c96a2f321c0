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
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"

	"github.com/ademuri/listen-insights/internal/insights"
)

type insightsDocument struct {
	Listener  string             `yaml:"listener"`
	Generated string             `yaml:"generated"`
	Insights  []insights.Insight `yaml:"insights"`
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Exports listening insights to a file",
	Long: `Runs the insight aggregation for a listener and writes the results in the
chosen format. Supported formats: yaml, csv, xlsx, pdf.`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		_, err := requireListener()
		return err
	},
	Run: func(cmd *cobra.Command, args []string) {
		err := exportInsights(viper.GetString("database"), viper.GetString("listener"),
			viper.GetString("format"), viper.GetString("out"))
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)

	var format string
	var out string
	exportCmd.Flags().StringVar(&format, "format", "yaml", "Output format: yaml, csv, xlsx, or pdf")
	exportCmd.Flags().StringVarP(&out, "out", "o", "", "Output file (stdout for yaml and csv when empty)")
	viper.BindPFlag("format", exportCmd.Flags().Lookup("format"))
	viper.BindPFlag("out", exportCmd.Flags().Lookup("out"))
}

func exportInsights(dbPath string, listener string, format string, out string) error {
	results, err := listenerInsights(dbPath, listener)
	if errors.Is(err, insights.ErrNoData) {
		return fmt.Errorf("no listening data for %q", listener)
	}
	if err != nil {
		return fmt.Errorf("aggregating insights: %w", err)
	}

	doc := insightsDocument{
		Listener:  listener,
		Generated: time.Now().Format("2006-01-02"),
		Insights:  results,
	}

	switch format {
	case "yaml":
		return exportYaml(doc, out)
	case "csv":
		return exportCsv(doc, out)
	case "xlsx":
		if out == "" {
			return fmt.Errorf("xlsx export requires --out")
		}
		return exportXlsx(doc, out)
	case "pdf":
		if out == "" {
			return fmt.Errorf("pdf export requires --out")
		}
		return exportPdf(doc, out)
	}
	return fmt.Errorf("unknown format %q", format)
}

func exportYaml(doc insightsDocument, out string) error {
	f := os.Stdout
	if out != "" {
		var err error
		f, err = os.Create(out)
		if err != nil {
			return fmt.Errorf("creating %q: %w", out, err)
		}
		defer f.Close()
	}

	encoder := yaml.NewEncoder(f)
	encoder.SetIndent(2)
	if err := encoder.Encode(doc); err != nil {
		return fmt.Errorf("encoding insights: %w", err)
	}
	return encoder.Close()
}

func exportCsv(doc insightsDocument, out string) error {
	f := os.Stdout
	if out != "" {
		var err error
		f, err = os.Create(out)
		if err != nil {
			return fmt.Errorf("creating %q: %w", out, err)
		}
		defer f.Close()
	}

	writer := csv.NewWriter(f)
	if err := writer.Write([]string{"Question", "Answer"}); err != nil {
		return fmt.Errorf("writing csv: %w", err)
	}
	for _, insight := range doc.Insights {
		if err := writer.Write([]string{insight.Question, insight.Answer}); err != nil {
			return fmt.Errorf("writing csv: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}

func exportXlsx(doc insightsDocument, out string) error {
	f := excelize.NewFile()
	sheet := "insights"
	f.SetSheetName("Sheet1", sheet)

	_ = f.SetCellValue(sheet, "A1", "Listener")
	_ = f.SetCellValue(sheet, "B1", doc.Listener)
	_ = f.SetCellValue(sheet, "A2", "Generated")
	_ = f.SetCellValue(sheet, "B2", doc.Generated)

	_ = f.SetCellValue(sheet, "A4", "Question")
	_ = f.SetCellValue(sheet, "B4", "Answer")
	for i, insight := range doc.Insights {
		row := i + 5
		_ = f.SetCellValue(sheet, fmt.Sprintf("A%d", row), insight.Question)
		_ = f.SetCellValue(sheet, fmt.Sprintf("B%d", row), insight.Answer)
	}

	if err := f.SaveAs(out); err != nil {
		return fmt.Errorf("writing %q: %w", out, err)
	}
	return nil
}

func exportPdf(doc insightsDocument, out string) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Arial", "", 12)
	pdf.AddPage()

	pdf.Cell(0, 8, "Listening Insights")
	pdf.Ln(10)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Listener: %s", doc.Listener))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Generated: %s", doc.Generated))
	pdf.Ln(8)

	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(90, 6, "Question", "1", 0, "C", false, 0, "")
	pdf.CellFormat(100, 6, "Answer", "1", 0, "C", false, 0, "")
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 10)
	for _, insight := range doc.Insights {
		pdf.CellFormat(90, 6, insight.Question, "1", 0, "L", false, 0, "")
		pdf.CellFormat(100, 6, insight.Answer, "1", 0, "L", false, 0, "")
		pdf.Ln(-1)
	}

	if err := pdf.OutputFileAndClose(out); err != nil {
		return fmt.Errorf("writing %q: %w", out, err)
	}
	return nil
}
