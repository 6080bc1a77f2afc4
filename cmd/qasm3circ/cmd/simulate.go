package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/HershLalwani/qasm3circ/internal/circuit"
	"github.com/HershLalwani/qasm3circ/internal/config"
)

type simulateOptions struct {
	sourceFlags
	inverse   bool
	format    string
	threshold float64
}

// simulation is the serialised result of a run.
type simulation struct {
	Qubits []circuit.QubitProbability `json:"qubits" yaml:"qubits"`
	States []circuit.BasisState       `json:"states" yaml:"states"`
}

func newSimulateCmd(a *app) *cobra.Command {
	o := &simulateOptions{}

	cmd := &cobra.Command{
		Use:   "simulate [file | -]",
		Short: "Run the circuit on a state-vector simulator",
		Long: `Runs the circuit from |0...0> and prints each qubit's marginal
probabilities and the basis states above the threshold. Measurements and
barriers leave the state untouched; resets project onto |0>.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.run(a, cmd, args)
		},
	}

	o.register(cmd)
	cmd.Flags().BoolVar(&o.inverse, "inverse", false, "simulate the adjoint circuit")
	cmd.Flags().StringVarP(&o.format, "format", "f", "text", "output format: text, yaml or json")
	cmd.Flags().Float64Var(&o.threshold, "threshold", 0, "hide basis states at or below this probability (default from config)")
	return cmd
}

func (o *simulateOptions) run(a *app, cmd *cobra.Command, args []string) error {
	src, err := o.load(cmd, args)
	if err != nil {
		return err
	}

	in := a.newInterpreter(src)
	var c *circuit.Circuit
	if o.inverse {
		c, err = in.InverseCircuit()
	} else {
		c, err = in.Circuit()
	}
	if err != nil {
		return err
	}

	if n := c.NumQubits(); n > a.cfg.Simulate.MaxQubits {
		return errors.Errorf("%d qubits exceeds simulate.max_qubits = %d", n, a.cfg.Simulate.MaxQubits)
	}
	state, err := circuit.Simulate(c)
	if err != nil {
		return err
	}

	threshold := a.cfg.Simulate.Threshold
	if cmd.Flags().Changed("threshold") {
		threshold = o.threshold
	}
	result := simulation{
		Qubits: state.QubitProbabilities(),
		States: state.BasisStates(threshold),
	}
	for i, label := range c.QubitLabels() {
		result.Qubits[i].Label = label
	}

	switch o.format {
	case "text":
		writeSimulation(cmd.OutOrStdout(), result)
		return nil
	case config.FormatYAML, config.FormatJSON:
		return encode(cmd.OutOrStdout(), o.format, result)
	default:
		return errors.Errorf("unknown format %q", o.format)
	}
}

func writeSimulation(w io.Writer, s simulation) {
	width := len("qubit")
	for _, q := range s.Qubits {
		width = max(width, len(q.Label))
	}

	fmt.Fprintf(w, "%-*s  %8s  %8s\n", width, "qubit", "P(0)", "P(1)")
	for _, q := range s.Qubits {
		fmt.Fprintf(w, "%-*s  %8.4f  %8.4f\n", width, q.Label, q.Prob0, q.Prob1)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "basis states:")
	for _, b := range s.States {
		fmt.Fprintf(w, "  |%s>  %.4f  phase %s\n", b.Bits, b.Prob, strings.ReplaceAll(circuit.FormatParam(b.Phase), "pi", "π"))
	}
}
