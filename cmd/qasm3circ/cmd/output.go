package cmd

import (
	"encoding/json"
	"io"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/HershLalwani/qasm3circ/internal/circuit"
	"github.com/HershLalwani/qasm3circ/internal/config"
	"github.com/HershLalwani/qasm3circ/internal/render"
)

type registerDoc struct {
	Name string `json:"name" yaml:"name"`
	Kind string `json:"kind" yaml:"kind"`
	Size int    `json:"size" yaml:"size"`
}

type opDoc struct {
	Op     string   `json:"op" yaml:"op"`
	Angle  *float64 `json:"angle,omitempty" yaml:"angle,omitempty"`
	Qubits []string `json:"qubits" yaml:"qubits,flow"`
	Bits   []string `json:"bits,omitempty" yaml:"bits,flow,omitempty"`
}

// circuitDoc is the serialised form of a circuit.
type circuitDoc struct {
	Registers []registerDoc `json:"registers" yaml:"registers"`
	Ops       []opDoc       `json:"ops" yaml:"ops"`
}

func refStrings(refs []circuit.Ref) []string {
	out := make([]string, len(refs))
	for i, r := range refs {
		out[i] = r.String()
	}
	return out
}

func newCircuitDoc(c *circuit.Circuit) circuitDoc {
	doc := circuitDoc{
		Registers: make([]registerDoc, 0, len(c.Registers)),
		Ops:       make([]opDoc, 0, len(c.Ops)),
	}
	for _, r := range c.Registers {
		doc.Registers = append(doc.Registers, registerDoc{Name: r.Name, Kind: r.Kind.String(), Size: r.Size})
	}
	for _, op := range c.Ops {
		d := opDoc{Op: op.Name(), Qubits: refStrings(op.Qubits)}
		if op.Kind == circuit.OpGate && op.Gate.Parametrized() {
			angle := op.Angle
			d.Angle = &angle
		}
		if len(op.Bits) > 0 {
			d.Bits = refStrings(op.Bits)
		}
		doc.Ops = append(doc.Ops, d)
	}
	return doc
}

// encode writes v as YAML or JSON.
func encode(w io.Writer, format string, v any) error {
	switch format {
	case config.FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return errors.Wrap(err, "encode yaml")
		}
		return enc.Close()
	case config.FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return errors.Wrap(enc.Encode(v), "encode json")
	default:
		return errors.Errorf("format %q cannot encode documents", format)
	}
}

// writeCircuit prints c in the requested format.
func writeCircuit(w io.Writer, c *circuit.Circuit, format string, cellWidth int, color bool) error {
	switch format {
	case config.FormatQASM:
		_, err := io.WriteString(w, c.ToQASM())
		return err
	case config.FormatDiagram:
		opts := render.Options{CellWidth: cellWidth}
		if !color {
			st := render.PlainStyles()
			opts.Styles = &st
		}
		_, err := io.WriteString(w, render.Diagram(c, opts))
		return err
	case config.FormatYAML, config.FormatJSON:
		return encode(w, format, newCircuitDoc(c))
	default:
		return errors.Errorf("unknown format %q", format)
	}
}
