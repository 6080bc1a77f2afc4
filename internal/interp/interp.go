// Package interp translates line-oriented OpenQASM 3 source into calls on a
// circuit Backend, either in program order or as the adjoint circuit.
//
// One statement per line is assumed. Registers and scalars must be declared
// before the first instruction that uses them.
package interp

import (
	"os"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/HershLalwani/qasm3circ/internal/circuit"
)

// Phase is the traversal state of a build.
type Phase int

const (
	ForwardBuild Phase = iota
	InverseScanPhase1
	InverseScanPhase2
	Done
)

func (p Phase) String() string {
	switch p {
	case ForwardBuild:
		return "forward"
	case InverseScanPhase1:
		return "inverse-scan"
	case InverseScanPhase2:
		return "inverse-build"
	default:
		return "done"
	}
}

// lineClass is what a tokenized line declares or does.
type lineClass int

const (
	classBlank lineClass = iota
	classPreamble
	classRegister
	classScalar
	classInstruction
)

func classify(tokens []string) lineClass {
	if len(tokens) == 0 {
		return classBlank
	}
	first := strings.ToLower(tokens[0])
	if _, ok := registerKeywords[first]; ok {
		return classRegister
	}
	switch {
	case first == "openqasm" || first == "include":
		return classPreamble
	case scalarKeywords[first]:
		return classScalar
	default:
		return classInstruction
	}
}

// Interpreter builds circuits from one source text. Build and BuildInverse
// each start from an empty symbol table; they must not run concurrently on
// the same Interpreter.
type Interpreter struct {
	src        string
	lineStarts []int
	logger     *zap.Logger
	cacheSize  int
	phase      Phase
}

// Option configures an Interpreter.
type Option func(*Interpreter)

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *zap.Logger) Option {
	return func(in *Interpreter) {
		if logger != nil {
			in.logger = logger
		}
	}
}

// WithCacheSize bounds the number of memoised scalar values per build.
func WithCacheSize(n int) Option {
	return func(in *Interpreter) {
		in.cacheSize = n
	}
}

// New returns an interpreter over src.
func New(src string, opts ...Option) *Interpreter {
	in := &Interpreter{
		src:        src,
		lineStarts: []int{0},
		logger:     zap.NewNop(),
		cacheSize:  defaultCacheSize,
		phase:      Done,
	}
	for i := 0; i < len(src); i++ {
		if src[i] == '\n' {
			in.lineStarts = append(in.lineStarts, i+1)
		}
	}
	for _, opt := range opts {
		opt(in)
	}
	return in
}

// FromFile reads the program at path.
func FromFile(path string, opts ...Option) (*Interpreter, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", path)
	}
	return New(string(data), opts...), nil
}

// Source returns the program text.
func (in *Interpreter) Source() string { return in.src }

// Phase reports the state of the most recent build.
func (in *Interpreter) Phase() Phase { return in.phase }

// lineNumber returns the 1-based line containing offset.
func (in *Interpreter) lineNumber(offset int) int {
	return sort.SearchInts(in.lineStarts, offset+1)
}

// run is the state of a single build.
type run struct {
	in *Interpreter
	dispatcher
	instructions int
}

func (in *Interpreter) newRun(b Backend) (*run, error) {
	if b == nil {
		return nil, errors.New("nil backend")
	}
	syms := NewSymbols()
	ev, err := NewEvaluator(syms, in.cacheSize)
	if err != nil {
		return nil, err
	}
	return &run{
		in:         in,
		dispatcher: dispatcher{symbols: syms, eval: ev, backend: b},
	}, nil
}

func (in *Interpreter) enter(p Phase) {
	in.phase = p
	in.logger.Debug("entering phase", zap.Stringer("phase", p))
}

// Build replays the program forward onto b.
func (in *Interpreter) Build(b Backend) error {
	r, err := in.newRun(b)
	if err != nil {
		return err
	}
	in.enter(ForwardBuild)
	if _, err := r.scanForward(true); err != nil {
		return err
	}
	in.enter(Done)
	in.logger.Info("built circuit",
		zap.Int("qubit_registers", len(r.symbols.Registers(circuit.Quantum))),
		zap.Int("bit_registers", len(r.symbols.Registers(circuit.Classical))),
		zap.Int("instructions", r.instructions),
	)
	return nil
}

// BuildInverse builds the adjoint of the program onto b: declarations are
// applied in a forward pass that also finds the first instruction, then the
// instructions are replayed last to first with every gate replaced by its
// adjoint.
func (in *Interpreter) BuildInverse(b Backend) error {
	r, err := in.newRun(b)
	if err != nil {
		return err
	}
	in.enter(InverseScanPhase1)
	split, err := r.scanForward(false)
	if err != nil {
		return err
	}

	in.enter(InverseScanPhase2)
	if err := r.scanBackward(split); err != nil {
		return err
	}
	in.enter(Done)
	in.logger.Info("built inverse circuit",
		zap.Int("qubit_registers", len(r.symbols.Registers(circuit.Quantum))),
		zap.Int("bit_registers", len(r.symbols.Registers(circuit.Classical))),
		zap.Int("split_point", split),
		zap.Int("instructions", r.instructions),
	)
	return nil
}

// Circuit builds the program into a new circuit.
func (in *Interpreter) Circuit() (*circuit.Circuit, error) {
	c := circuit.New()
	if err := in.Build(c); err != nil {
		return nil, err
	}
	return c, nil
}

// InverseCircuit builds the adjoint program into a new circuit.
func (in *Interpreter) InverseCircuit() (*circuit.Circuit, error) {
	c := circuit.New()
	if err := in.BuildInverse(c); err != nil {
		return nil, err
	}
	return c, nil
}

// scanForward walks the source from the start, applying declarations. With
// apply set, instructions are dispatched too; otherwise they are skipped.
// It returns the offset of the first instruction line, or len(src) if there
// is none.
func (r *run) scanForward(apply bool) (int, error) {
	src := r.in.src
	split := len(src)
	for pos := 0; pos < len(src); {
		start := pos
		var line string
		line, pos = NextLine(src, pos)

		tokens := Tokenize(line)
		class := classify(tokens)
		if class == classInstruction {
			split = min(split, start)
			if !apply {
				continue
			}
		}
		if err := r.handle(class, Instruction{Line: line, Tokens: tokens}, false); err != nil {
			return 0, atLine(err, r.in.lineNumber(start), strings.TrimSpace(line))
		}
	}
	return split, nil
}

// scanBackward walks from the end of the source down to split, dispatching
// every instruction in adjoint mode.
func (r *run) scanBackward(split int) error {
	src := r.in.src
	for pos := len(src); pos > split; {
		end := pos
		var line string
		line, pos = PrevLine(src, pos, split)
		start := end - len(line)

		tokens := Tokenize(line)
		class := classify(tokens)
		if class != classInstruction {
			// declarations were applied by the forward pass
			continue
		}
		if err := r.handle(class, Instruction{Line: line, Tokens: tokens}, true); err != nil {
			return atLine(err, r.in.lineNumber(start), strings.TrimSpace(line))
		}
	}
	return nil
}

func (r *run) handle(class lineClass, ins Instruction, adjoint bool) error {
	switch class {
	case classRegister:
		regs, err := declareRegisters(r.symbols, ins.Tokens)
		if err != nil {
			return err
		}
		for _, reg := range regs {
			if err := r.backend.CreateRegister(reg); err != nil {
				return err
			}
			r.in.logger.Debug("declared register",
				zap.String("name", reg.Name),
				zap.Stringer("kind", reg.Kind),
				zap.Int("size", reg.Size),
			)
		}
	case classScalar:
		if err := declareScalar(r.symbols, ins.Line); err != nil {
			return err
		}
	case classInstruction:
		r.in.logger.Debug("dispatch",
			zap.Stringer("phase", r.in.phase),
			zap.Strings("tokens", ins.Tokens),
			zap.Bool("adjoint", adjoint),
		)
		if err := r.dispatch(ins, adjoint); err != nil {
			return err
		}
		r.instructions++
	}
	return nil
}
