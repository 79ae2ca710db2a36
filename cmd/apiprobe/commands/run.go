package commands

import (
	configlibsql "apiprobe/lib/configutil/libsql"
	"apiprobe/lib/mailutil"
	"apiprobe/lib/probe"
	"apiprobe/lib/restyutil"
	"apiprobe/lib/serviceutil"
	"apiprobe/lib/timezone"
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var runTarget targetFlags
var runOut *string
var runInsecure *bool
var runOnly *[]string
var runDb *string
var runDump *string

func init() {
	runTarget = addTargetFlags(runCmd)
	runOut = runCmd.Flags().String("out", "", "The file the report is written to (default: output from the config).")
	runInsecure = runCmd.Flags().Bool("insecure", false, "Skips certificate verification.")
	runOnly = runCmd.Flags().StringSlice("only", nil, "Probes only the named endpoints.")
	runDb = runCmd.Flags().String("db", "", "Records the run into this sqlite database (for ex. <dev_state>/history.db).")
	runDump = runCmd.Flags().String("dump", "", "Writes every raw http exchange into this directory.")
	rootCmd.AddCommand(runCmd)
}

func applyRunFlags(cfg *Config) {
	if *runOut != "" {
		cfg.Output = *runOut
	}
	if *runInsecure {
		cfg.Insecure = true
	}
	if *runDb != "" {
		cfg.Database = configlibsql.Struct{File: *runDb}
	}
}

var runCmd = &cobra.Command{
	Use:   "run [--env <environment>] [--base-url <url>] [--out <path>] [--insecure] [--only <endpoint>,...]",
	Short: "Probes the endpoints and writes the report to the console and the results file.",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		cfg, err := loadConfig(*configPath)
		if err != nil {
			serviceutil.Fatal("failed to read config", err)
		}
		applyRunFlags(&cfg)

		err = timezone.SetLocation(cfg.Timezone)
		if err != nil {
			serviceutil.Fatal("failed to load timezone", err)
		}

		baseUrl, err := cfg.ResolveBaseUrl(*runTarget.env, *runTarget.baseUrl)
		if err != nil {
			serviceutil.Fatal("failed to resolve base url", err)
		}
		endpoints, err := probe.Select(probe.DefaultEndpoints(baseUrl), *runOnly)
		if err != nil {
			serviceutil.Fatal("failed to select endpoints", err)
		}

		opts := probe.ClientOptions{
			Timeout:          cfg.Timeout(),
			Insecure:         cfg.Insecure,
			Headers:          cfg.Headers,
			Cookies:          cfg.Cookies,
			CloudflareBypass: cfg.CloudflareBypass,
		}
		if *runDump != "" {
			dump, err := restyutil.NewFilesystemOutput(*runDump)
			if err != nil {
				serviceutil.Fatal("failed to create dump directory", err)
			}
			slog.Info("dumping http exchanges", "dir", dump.Directory())
			opts.Dump = dump
		}
		if len(cfg.Cookies) == 0 {
			slog.Warn("no cookies configured, authenticated endpoints will likely be rejected")
		}

		report, err := probe.NewReport(os.Stdout, cfg.Output)
		if err != nil {
			serviceutil.Fatal("failed to open results file", err)
		}

		runner := probe.Runner{
			Title:     cfg.Name,
			Prober:    probe.NewClient(opts),
			Endpoints: endpoints,
			Headers:   cfg.Headers,
			Cookies:   cfg.Cookies,
			Insecure:  cfg.Insecure,
			Report:    report,
		}
		summary, err := runner.Run(ctx)
		closeErr := report.Close()
		if err != nil {
			serviceutil.Fatal("failed to write report", err)
		}
		if closeErr != nil {
			serviceutil.Fatal("failed to close results file", closeErr)
		}

		if cfg.Database.Enabled() {
			recordRun(ctx, cfg.Database, baseUrl, summary)
		}
		if cfg.Mail.Enabled() {
			mailReport(cfg.Mail, cfg.Output, baseUrl, summary)
		}
	},
}

// recordRun stores the run into the history database, failing to do so
// does not fail the run.
func recordRun(ctx context.Context, config configlibsql.Struct, baseUrl string, summary probe.Summary) {
	database, err := config.OpenDB()
	if err != nil {
		slog.Error("failed to open history database", "err", err)
		return
	}
	defer database.Close()

	history, err := probe.NewHistory(ctx, database)
	if err != nil {
		slog.Error("failed to prepare history database", "err", err)
		return
	}
	err = history.Record(ctx, baseUrl, summary)
	if err != nil {
		slog.Error("failed to record run", "run_id", summary.RunId, "err", err)
		return
	}
	slog.Info("recorded run", "run_id", summary.RunId)
}

func mailSummary(baseUrl string, summary probe.Summary) string {
	lines := []string{
		fmt.Sprintf("Run: %s", summary.RunId),
		fmt.Sprintf("Base url: %s", baseUrl),
		fmt.Sprintf("Executed at: %s", timezone.Timestamp(summary.StartedAt)),
		"",
	}
	for _, r := range summary.Results {
		outcome := "ok"
		switch {
		case r.Failure != probe.FailureNone:
			outcome = fmt.Sprintf("%s error: %s", r.Failure, r.Error)
		case !r.Success:
			outcome = fmt.Sprintf("status %d", r.StatusCode)
		}
		lines = append(lines, fmt.Sprintf("%s %s: %s", r.Endpoint.Method, r.Endpoint.Name, outcome))
	}
	return strings.Join(lines, "\n") + "\n"
}

func mailReport(config mailutil.Config, reportPath, baseUrl string, summary probe.Summary) {
	subject := fmt.Sprintf(
		"%s API endpoint tests: %d/%d succeeded",
		summary.Title, summary.Succeeded(), len(summary.Results),
	)
	mail, err := mailutil.NewReport(config, subject, mailSummary(baseUrl, summary), reportPath)
	if err != nil {
		slog.Error("failed to build report mail", "err", err)
		return
	}
	err = mailutil.Send(config, mail)
	if err != nil {
		slog.Error("failed to send report mail", "to", config.To, "err", err)
		return
	}
	slog.Info("mailed report", "to", config.To)
}
