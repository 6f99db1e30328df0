// Package graph is the host computation graph handed to the rewriter: units
// made of functions, functions of blocks, blocks of operations in program
// order, and operations typed by statically shaped tensors.
package graph

import (
	"fmt"
	"strings"
)

// OpKind discriminates the operations the rewriter cares about.
type OpKind int

const (
	OpUnknown OpKind = iota
	OpDot
	OpConvolution
	OpAdd
	OpMultiply
	OpBroadcast
	OpReshape
	OpConstant
	OpReturn
)

var opKindNames = map[OpKind]string{
	OpUnknown:     "unknown",
	OpDot:         "dot",
	OpConvolution: "convolution",
	OpAdd:         "add",
	OpMultiply:    "multiply",
	OpBroadcast:   "broadcast",
	OpReshape:     "reshape",
	OpConstant:    "constant",
	OpReturn:      "return",
}

var opKindAliases = map[string]OpKind{
	"conv":        OpConvolution,
	"mul":         OpMultiply,
	"const":       OpConstant,
	"matmul":      OpDot,
	"dot_general": OpDot,
}

func (k OpKind) String() string {
	if name, ok := opKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("OpKind(%d)", int(k))
}

// ParseOpKind maps an operation name to its kind. Dialect prefixes such as
// "xla_hlo." are ignored. Names that are not recognized map to OpUnknown.
func ParseOpKind(name string) OpKind {
	name = strings.ToLower(strings.TrimSpace(name))
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		name = name[i+1:]
	}
	for kind, n := range opKindNames {
		if n == name {
			return kind
		}
	}
	if kind, ok := opKindAliases[name]; ok {
		return kind
	}
	return OpUnknown
}

// Op is a single operation.
type Op struct {
	Kind     OpKind
	Name     string
	Operands []TensorType
	Results  []TensorType
}

// Operand returns the i-th operand type and whether it exists.
func (o *Op) Operand(i int) (TensorType, bool) {
	if i < 0 || i >= len(o.Operands) {
		return TensorType{}, false
	}
	return o.Operands[i], true
}

func (o *Op) String() string {
	name := o.Name
	if name == "" {
		name = o.Kind.String()
	}
	operands := make([]string, len(o.Operands))
	for i, t := range o.Operands {
		operands[i] = t.String()
	}
	return fmt.Sprintf("%s(%s)", name, strings.Join(operands, ", "))
}

// Block is a straight-line list of operations.
type Block struct {
	Ops []*Op
}

// Func is a function body made of blocks.
type Func struct {
	Name   string
	Blocks []*Block
}

// Unit is one compilation unit considered for rewriting.
type Unit struct {
	Name  string
	Funcs []*Func

	diag Diagnostics
}

// NewUnit creates a unit that reports diagnostics to diag. A nil diag
// discards them.
func NewUnit(name string, diag Diagnostics, funcs ...*Func) *Unit {
	return &Unit{Name: name, Funcs: funcs, diag: diag}
}

// SetDiagnostics replaces the diagnostic channel of the unit.
func (u *Unit) SetDiagnostics(diag Diagnostics) {
	u.diag = diag
}

// EmitError reports an error attached to the unit.
func (u *Unit) EmitError(format string, args ...any) {
	if u.diag == nil {
		return
	}
	u.diag.Emit(Diagnostic{
		Unit:     u.Name,
		Severity: SeverityError,
		Message:  fmt.Sprintf(format, args...),
	})
}

// Walk calls fn for every operation of the unit in program order until fn
// returns false.
func (u *Unit) Walk(fn func(op *Op) bool) {
	for _, f := range u.Funcs {
		for _, b := range f.Blocks {
			for _, op := range b.Ops {
				if !fn(op) {
					return
				}
			}
		}
	}
}

// SingleOpUnit wraps op into a unit with one function and one block.
func SingleOpUnit(name string, diag Diagnostics, ops ...*Op) *Unit {
	return NewUnit(name, diag, &Func{
		Name:   "main",
		Blocks: []*Block{{Ops: ops}},
	})
}
