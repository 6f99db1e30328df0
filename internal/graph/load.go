package graph

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

type unitFile struct {
	Name      string     `yaml:"name"`
	Functions []funcFile `yaml:"functions"`
}

type funcFile struct {
	Name   string      `yaml:"name"`
	Blocks []blockFile `yaml:"blocks"`
}

type blockFile struct {
	Ops []opFile `yaml:"ops"`
}

type opFile struct {
	Op       string   `yaml:"op"`
	Operands []string `yaml:"operands"`
	Results  []string `yaml:"results"`
}

// LoadUnits reads every unit of a YAML file. A file may hold several units
// as separate YAML documents.
func LoadUnits(path string, diag Diagnostics) ([]*Unit, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	units, err := ParseUnits(data, diag)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return units, nil
}

// ParseUnits decodes YAML documents into units. Tensor types with dynamic
// dims must be quoted inside flow sequences, since YAML reads "?" there as a
// mapping key indicator.
func ParseUnits(data []byte, diag Diagnostics) ([]*Unit, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var units []*Unit
	for {
		var uf unitFile
		err := dec.Decode(&uf)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("document %d: %w", len(units)+1, err)
		}
		unit, err := uf.build(diag)
		if err != nil {
			return nil, err
		}
		units = append(units, unit)
	}
	if len(units) == 0 {
		return nil, errors.New("no units defined")
	}
	return units, nil
}

func (uf unitFile) build(diag Diagnostics) (*Unit, error) {
	if uf.Name == "" {
		return nil, errors.New("unit without a name")
	}
	if uf.Name == "." || uf.Name == ".." || strings.ContainsAny(uf.Name, `/\`) {
		return nil, fmt.Errorf("unit name %q must not contain path elements", uf.Name)
	}

	unit := NewUnit(uf.Name, diag)
	for _, ff := range uf.Functions {
		f := &Func{Name: ff.Name}
		for _, bf := range ff.Blocks {
			b := &Block{}
			for _, of := range bf.Ops {
				op, err := of.build()
				if err != nil {
					return nil, fmt.Errorf("unit %s: func %s: %w", uf.Name, ff.Name, err)
				}
				b.Ops = append(b.Ops, op)
			}
			f.Blocks = append(f.Blocks, b)
		}
		unit.Funcs = append(unit.Funcs, f)
	}
	return unit, nil
}

func (of opFile) build() (*Op, error) {
	op := &Op{Kind: ParseOpKind(of.Op), Name: of.Op}
	for _, s := range of.Operands {
		t, err := ParseTensorType(s)
		if err != nil {
			return nil, fmt.Errorf("op %s: %w", of.Op, err)
		}
		op.Operands = append(op.Operands, t)
	}
	for _, s := range of.Results {
		t, err := ParseTensorType(s)
		if err != nil {
			return nil, fmt.Errorf("op %s: %w", of.Op, err)
		}
		op.Results = append(op.Results, t)
	}
	return op, nil
}
