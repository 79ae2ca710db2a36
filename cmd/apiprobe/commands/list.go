package commands

import (
	"apiprobe/lib/probe"
	"apiprobe/lib/serviceutil"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var listTarget targetFlags

func init() {
	listTarget = addTargetFlags(listCmd)
	rootCmd.AddCommand(listCmd)
}

var listCmd = &cobra.Command{
	Use:   "list [--env <environment>] [--base-url <url>]",
	Short: "Prints the endpoints a run would probe.",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(*configPath)
		if err != nil {
			serviceutil.Fatal("failed to read config", err)
		}
		baseUrl, err := cfg.ResolveBaseUrl(*listTarget.env, *listTarget.baseUrl)
		if err != nil {
			serviceutil.Fatal("failed to resolve base url", err)
		}

		t := NewTable()
		t.AppendHeader(table.Row{"Endpoint", "Method", "Url", "Body"})
		for _, e := range probe.DefaultEndpoints(baseUrl) {
			body := "-"
			if e.Body != nil {
				body = "json"
			}
			t.AppendRow(table.Row{e.Name, e.Method, e.Url, body})
		}
		t.Render()
	},
}
