package interp

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/HershLalwani/qasm3circ/internal/circuit"
)

var registerKeywords = map[string]circuit.RegisterKind{
	"qreg":  circuit.Quantum,
	"qubit": circuit.Quantum,
	"creg":  circuit.Classical,
	"bit":   circuit.Classical,
}

var scalarKeywords = map[string]bool{
	"const": true,
	"int":   true,
	"uint":  true,
	"float": true,
	"angle": true,
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if r == '_' || unicode.IsLetter(r) || (i > 0 && unicode.IsDigit(r)) {
			continue
		}
		return false
	}
	return true
}

func isInt(s string) bool {
	_, err := strconv.Atoi(s)
	return err == nil
}

func parseSize(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, newError(MalformedDeclaration, "register size %q is not a positive integer", s)
	}
	return n, nil
}

// declareRegisters handles the two register declaration forms
//
//	qreg q1[3], q2[5];   each name carries its own size
//	qubit[3] q1, q2;     one size shared by every name
//
// telling them apart by whether the token after the first name is an
// integer. `qubit q;` declares a single-element register. The new registers
// are defined in syms and returned in source order.
func declareRegisters(syms *Symbols, tokens []string) ([]*circuit.Register, error) {
	kind := registerKeywords[strings.ToLower(tokens[0])]
	args := tokens[1:]

	type decl struct {
		name string
		size int
	}
	var decls []decl

	switch {
	case len(args) == 0:
		return nil, newError(MalformedDeclaration, "%s declares no register", tokens[0])

	case len(args) == 1:
		decls = append(decls, decl{name: args[0], size: 1})

	case isInt(args[1]):
		if len(args)%2 != 0 {
			return nil, newError(MalformedDeclaration, "every register needs a size")
		}
		for i := 0; i < len(args); i += 2 {
			size, err := parseSize(args[i+1])
			if err != nil {
				return nil, err
			}
			decls = append(decls, decl{name: args[i], size: size})
		}

	default:
		size, err := parseSize(args[0])
		if err != nil {
			return nil, err
		}
		for _, name := range args[1:] {
			decls = append(decls, decl{name: name, size: size})
		}
	}

	regs := make([]*circuit.Register, 0, len(decls))
	for _, d := range decls {
		if !isIdentifier(d.name) {
			return nil, newError(MalformedDeclaration, "%q is not a valid register name", d.name)
		}
		reg := circuit.NewRegister(kind, d.size, d.name)
		if err := syms.DefineRegister(reg); err != nil {
			return nil, err
		}
		regs = append(regs, reg)
	}
	return regs, nil
}

// declareScalar binds `<kind>[<width>] <name> = <expression>;`, where a
// `const` may carry its own type (`const float[64] x = ...;`). The
// expression text is stored unevaluated.
func declareScalar(syms *Symbols, line string) error {
	line = strings.TrimSpace(stripComment(line))
	lhsText, rhs, ok := strings.Cut(line, "=")
	if !ok {
		return newError(MalformedDeclaration, "scalar declaration needs an initial value")
	}

	lhs := Tokenize(lhsText)
	if len(lhs) == 0 {
		return newError(MalformedDeclaration, "scalar declaration needs a type and a name")
	}
	kind := strings.ToLower(lhs[0])
	rest := lhs[1:]
	if kind == "const" && len(rest) > 0 && scalarKeywords[strings.ToLower(rest[0])] {
		rest = rest[1:]
	}
	if len(rest) == 2 && isInt(rest[0]) {
		rest = rest[1:]
	}
	if len(rest) != 1 {
		return newError(MalformedDeclaration, "expected <type> <name> = <expression>")
	}
	name := rest[0]
	if !isIdentifier(name) {
		return newError(MalformedDeclaration, "%q is not a valid name", name)
	}

	expr, tail, _ := strings.Cut(rhs, ";")
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return newError(MalformedDeclaration, "%s has an empty initial value", name)
	}
	if tail = strings.TrimSpace(tail); tail != "" {
		return newError(MalformedDeclaration, "unexpected %q after the declaration of %s", tail, name)
	}

	return syms.DefineScalar(name, Scalar{Kind: kind, Expr: expr})
}
