package commands

import (
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func NewTable() table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(os.Stdout)
	return t
}

type targetFlags struct {
	env     *string
	baseUrl *string
}

func addTargetFlags(cmd *cobra.Command) targetFlags {
	return targetFlags{
		env:     cmd.Flags().String("env", "", "The environment to probe (development, production, or any configured one)."),
		baseUrl: cmd.Flags().String("base-url", "", "Probes this base url instead of the environment's."),
	}
}
