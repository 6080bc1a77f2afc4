package cmd

import (
	"github.com/spf13/cobra"

	"github.com/HershLalwani/qasm3circ/internal/tui"
)

func newViewCmd(a *app) *cobra.Command {
	var (
		src      sourceFlags
		inverse  bool
		savePath string
	)

	cmd := &cobra.Command{
		Use:   "view [file | -]",
		Short: "Edit a program next to a live circuit diagram",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := ""
			if src.expr != "" || len(args) > 0 {
				var err error
				if text, err = src.load(cmd, args); err != nil {
					return err
				}
			}
			if savePath == "" && len(args) > 0 && args[0] != "-" {
				savePath = args[0]
			}
			return tui.Run(text, tui.Options{
				CellWidth: a.cfg.Output.CellWidth,
				CacheSize: a.cfg.Interpreter.CacheSize,
				SavePath:  savePath,
				Inverse:   inverse,
				Logger:    a.logger,
			})
		},
	}

	src.register(cmd)
	cmd.Flags().BoolVar(&inverse, "inverse", false, "start on the inverse circuit")
	cmd.Flags().StringVarP(&savePath, "output", "o", "", "file written by ctrl+s (default: the input file, or circuit.qasm)")
	return cmd
}
