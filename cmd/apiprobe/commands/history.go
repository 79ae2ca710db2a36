package commands

import (
	configlibsql "apiprobe/lib/configutil/libsql"
	"apiprobe/lib/probe"
	"apiprobe/lib/serviceutil"
	"apiprobe/lib/timezone"
	"errors"
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var historyDb *string
var historyLimit *int

func init() {
	historyDb = historyCmd.Flags().String("db", "", "The sqlite database runs were recorded into (default: database from the config).")
	historyLimit = historyCmd.Flags().Int("limit", 10, "How many runs to show.")
	rootCmd.AddCommand(historyCmd)
}

var historyCmd = &cobra.Command{
	Use:   "history [--db <path>] [--limit <n>] [run_id]",
	Short: "Prints recorded runs, or the results of a single run.",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(*configPath)
		if err != nil {
			serviceutil.Fatal("failed to read config", err)
		}
		if *historyDb != "" {
			cfg.Database = configlibsql.Struct{File: *historyDb}
		}
		if !cfg.Database.Enabled() {
			fmt.Fprintln(os.Stderr, "No database configured, pass --db or set database in the config.")
			os.Exit(1)
		}
		err = timezone.SetLocation(cfg.Timezone)
		if err != nil {
			serviceutil.Fatal("failed to load timezone", err)
		}

		database, err := cfg.Database.OpenDB()
		if err != nil {
			serviceutil.Fatal("failed to open database", err)
		}
		defer database.Close()

		history, err := probe.NewHistory(cmd.Context(), database)
		if err != nil {
			serviceutil.Fatal("failed to prepare database", err)
		}

		t := NewTable()
		if len(args) == 1 {
			results, err := history.Results(cmd.Context(), args[0])
			if errors.Is(err, probe.ErrUnknownRun) {
				fmt.Fprintf(os.Stderr, "No run with id %q was recorded.\n", args[0])
				os.Exit(1)
			}
			if err != nil {
				serviceutil.Fatal("failed to get run results", err)
			}
			t.AppendHeader(table.Row{"#", "Endpoint", "Method", "Status", "Success", "Failure", "Duration (ms)"})
			for _, r := range results {
				t.AppendRow(table.Row{r.Idx + 1, r.Endpoint, r.Method, r.StatusCode, r.Success, r.Failure, r.DurationMs})
			}
			t.Render()
			return
		}

		runs, err := history.Recent(cmd.Context(), *historyLimit)
		if err != nil {
			serviceutil.Fatal("failed to get recent runs", err)
		}
		t.AppendHeader(table.Row{"Run", "Executed at", "Base url", "Succeeded"})
		for _, r := range runs {
			t.AppendRow(table.Row{
				r.Id,
				timezone.Timestamp(r.StartedAt),
				r.BaseUrl,
				fmt.Sprintf("%d/%d", r.Succeeded, r.Total),
			})
		}
		t.Render()
	},
}
