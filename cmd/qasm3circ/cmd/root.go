package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/HershLalwani/qasm3circ/internal/config"
	"github.com/HershLalwani/qasm3circ/internal/interp"
	"github.com/HershLalwani/qasm3circ/internal/logging"
)

// app is the state shared by every command of one invocation.
type app struct {
	cfgFile string
	verbose bool

	cfg       *config.Config
	logger    *zap.Logger
	logCloser io.Closer
}

// NewRootCmd assembles the command tree.
func NewRootCmd() *cobra.Command {
	a := &app{logger: zap.NewNop()}

	rootCmd := &cobra.Command{
		Use:   "qasm3circ",
		Short: "Build, invert and inspect OpenQASM 3 circuits",
		Long: `qasm3circ interprets line-oriented OpenQASM 3 programs into circuits.

Commands:
  build     - print the circuit a program builds
  invert    - print the adjoint circuit
  simulate  - run the circuit on a state-vector simulator
  view      - interactive editor with a live circuit diagram`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			a.close()
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default: $"+config.EnvVar+", ./qasm3circ.toml)")
	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "log every interpreted line")

	rootCmd.AddCommand(
		newBuildCmd(a, false),
		newBuildCmd(a, true),
		newSimulateCmd(a),
		newViewCmd(a),
		newVersionCmd(),
	)
	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(rootCmd.ErrOrStderr(), "error: %v\n", err)
		return err
	}
	return nil
}

// setup loads the configuration and builds the logger.
func (a *app) setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Discover(a.cfgFile)
	if err != nil {
		return err
	}
	if a.verbose {
		cfg.Log.Level = "debug"
	}

	logger, closer, err := logging.New(cfg.Log, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	a.cfg, a.logger, a.logCloser = cfg, logger, closer
	return nil
}

func (a *app) close() {
	_ = a.logger.Sync()
	if a.logCloser != nil {
		_ = a.logCloser.Close()
	}
}

func (a *app) newInterpreter(src string) *interp.Interpreter {
	return interp.New(src,
		interp.WithLogger(a.logger),
		interp.WithCacheSize(a.cfg.Interpreter.CacheSize),
	)
}

// sourceFlags are shared by every command that reads a program.
type sourceFlags struct {
	expr string
}

func (f *sourceFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.expr, "expr", "e", "", `program text given inline; \n separates lines`)
}

// load returns the program from --expr, a file argument, or stdin for "-".
func (f *sourceFlags) load(cmd *cobra.Command, args []string) (string, error) {
	switch {
	case f.expr != "" && len(args) > 0:
		return "", errors.New("give either a file or --expr, not both")
	case f.expr != "":
		return strings.ReplaceAll(f.expr, `\n`, "\n"), nil
	case len(args) == 0:
		return "", errors.New("no program: pass a file, - for stdin, or --expr")
	case args[0] == "-":
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", errors.Wrap(err, "read stdin")
		}
		return string(data), nil
	default:
		in, err := interp.FromFile(args[0])
		if err != nil {
			return "", err
		}
		return in.Source(), nil
	}
}
