package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/HershLalwani/qasm3circ/internal/circuit"
)

type buildOptions struct {
	sourceFlags
	format string
	color  bool
}

// newBuildCmd returns `build`, or `invert` when inverse is set.
func newBuildCmd(a *app, inverse bool) *cobra.Command {
	o := &buildOptions{}

	cmd := &cobra.Command{
		Use:   "build [file | -]",
		Short: "Print the circuit a program builds",
		Long: `Interprets the program and prints the resulting circuit as OpenQASM 3,
a diagram, or a YAML/JSON listing of registers and operations.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.run(a, cmd, args, inverse)
		},
	}
	if inverse {
		cmd.Use = "invert [file | -]"
		cmd.Short = "Print the adjoint of the circuit a program builds"
		cmd.Long = `Builds the inverse circuit: instructions are replayed last to first
with s/t swapped for sdg/tdg and rotation angles negated.`
	}

	o.register(cmd)
	cmd.Flags().StringVarP(&o.format, "format", "f", "", "output format: qasm, diagram, yaml or json (default from config)")
	cmd.Flags().BoolVar(&o.color, "color", false, "colour the diagram")
	return cmd
}

func (o *buildOptions) run(a *app, cmd *cobra.Command, args []string, inverse bool) error {
	src, err := o.load(cmd, args)
	if err != nil {
		return err
	}

	format := o.format
	if format == "" {
		format = a.cfg.Output.Format
	}

	in := a.newInterpreter(src)
	var c *circuit.Circuit
	if inverse {
		c, err = in.InverseCircuit()
	} else {
		c, err = in.Circuit()
	}
	if err != nil {
		return err
	}
	a.logger.Debug("writing circuit",
		zap.String("format", format),
		zap.Int("ops", len(c.Ops)),
	)
	return writeCircuit(cmd.OutOrStdout(), c, format, a.cfg.Output.CellWidth, o.color)
}
