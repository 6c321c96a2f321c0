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
	"html"
	"os"
	"strings"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ademuri/listen-insights/internal/insights"
)

type SendEmailConfig struct {
	DbPath         string
	Listener       string
	From           string
	To             string
	ReportName     string
	DryRun         bool
	SendgridApiKey string
}

var emailCmd = &cobra.Command{
	Use:   "email <address>",
	Short: "Sends the insight table as an email",
	Long:  `Emails the listener's insights to the specified address.`,
	Args:  cobra.ExactArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		if viper.GetString("from") == "" {
			return fmt.Errorf("required flag(s) \"from\" not set")
		}
		_, err := requireListener()
		return err
	},
	Run: func(cmd *cobra.Command, args []string) {
		config := SendEmailConfig{
			DbPath:         viper.GetString("database"),
			Listener:       viper.GetString("listener"),
			From:           viper.GetString("from"),
			To:             args[0],
			DryRun:         viper.GetBool("dryRun"),
			SendgridApiKey: viper.GetString("sendgrid_api_key"),
		}
		err := sendEmail(config)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(emailCmd)

	var dryRun bool
	emailCmd.Flags().BoolVarP(&dryRun, "dry_run", "n", false, "When true, just print instead of emailing")
	viper.BindPFlag("dryRun", emailCmd.Flags().Lookup("dry_run"))
}

func sendEmail(config SendEmailConfig) error {
	subject, body, err := generateEmailContent(config)
	if err != nil {
		return err
	}

	if config.DryRun {
		fmt.Printf("Would have sent email: \nsubject: %s\n%s\n", subject, body)
		return nil
	}

	if config.SendgridApiKey == "" {
		return fmt.Errorf("sendgrid_api_key must be set in order to send emails")
	}

	from := mail.NewEmail("listen-insights", config.From)
	to := mail.NewEmail(config.To, config.To)
	message := mail.NewSingleEmail(from, subject, to, body, body)
	client := sendgrid.NewSendClient(config.SendgridApiKey)
	if _, err := client.Send(message); err != nil {
		return fmt.Errorf("sendEmail: %w", err)
	}

	return nil
}

func generateEmailContent(config SendEmailConfig) (subject string, body string, err error) {
	results, err := listenerInsights(config.DbPath, config.Listener)
	if err != nil && !errors.Is(err, insights.ErrNoData) {
		return "", "", fmt.Errorf("getting insights for %q: %w", config.Listener, err)
	}

	var out strings.Builder
	out.WriteString(`
<html>
  <head>
<style>
td {
  padding: 0.1em 0.2em;
}
table, th, td {
  border: 1px solid black;
  border-collapse: collapse;
}
</style>
  </head>
  <body>
`)
	out.WriteString(fmt.Sprintf("<h2>Listening insights for %s:</h2>\n", html.EscapeString(config.Listener)))

	if len(results) == 0 {
		out.WriteString("<div>No listens found.</div>\n")
	} else {
		out.WriteString(`
	<table>
		<thead>
			<tr><th>Question</th><th>Answer</th></tr>
		</thead>
		<tbody>
`)
		for _, insight := range results {
			out.WriteString(fmt.Sprintf("<tr><td>%s</td><td>%s</td></tr>\n",
				html.EscapeString(insight.Question), html.EscapeString(insight.Answer)))
		}
		out.WriteString(`
		</tbody>
	</table>
`)
	}
	out.WriteString(`
  </body>
</html>
`)

	subjectSuffix := ""
	if len(config.ReportName) > 0 {
		subjectSuffix = ": " + config.ReportName
	}
	subject = fmt.Sprintf("Listening insights for %s%s", config.Listener, subjectSuffix)

	return subject, out.String(), nil
}
