// Package assembler turns a matched graph operation into an executable
// definition that invokes one of the embedded kernels.
package assembler

import (
	"errors"
	"fmt"

	"github.com/fxnlabs/kernel-splat/internal/graph"
	"github.com/fxnlabs/kernel-splat/internal/metrics"
	"github.com/fxnlabs/kernel-splat/pkg/executable"
)

const (
	// MatMulTag marks executables produced from a dot operation.
	MatMulTag = "__matmul__"
	// MatMulKernel is the compiled name of kernels/src/matmul.comp.
	MatMulKernel = "matmul.spv"
	// EntryPoint is the entry symbol of every embedded kernel.
	EntryPoint = "main"
)

// Specialization constant IDs declared by matmul.comp.
const (
	ConstantMatrixM uint32 = 100
	ConstantMatrixK uint32 = 101
	ConstantMatrixN uint32 = 102
)

var (
	ErrKernelNotFound  = errors.New("embedded kernel not found")
	ErrMissingOperand  = errors.New("missing operand")
	ErrDynamicShape    = errors.New("operand shape is not static")
	ErrUnsupportedRank = errors.New("unsupported operand rank")
)

// KernelSource resolves kernel binaries by name.
type KernelSource interface {
	Lookup(name string) ([]uint32, bool)
}

// matmulDims are the extents of C[m,n] = A[m,k] * B[k,n].
type matmulDims struct {
	m, k, n uint32
}

// BuildMatMul builds the executable running dot through the embedded matmul
// kernel. Both [m,k]x[k,n] and batched [b,m,k]x[b,k,n] operands are
// accepted; the batch extent is not part of the specialization. The element
// type is not inspected.
func BuildMatMul(dot *graph.Op, kernels KernelSource) (*executable.Definition, error) {
	dims, err := matmulShape(dot)
	if err != nil {
		return nil, err
	}

	code, ok := kernels.Lookup(MatMulKernel)
	if !ok {
		metrics.EmbeddedKernelLookups.WithLabelValues(MatMulKernel, "miss").Inc()
		return nil, fmt.Errorf("%w: %s", ErrKernelNotFound, MatMulKernel)
	}
	metrics.EmbeddedKernelLookups.WithLabelValues(MatMulKernel, "hit").Inc()
	if len(code) == 0 {
		return nil, fmt.Errorf("%w: %s is empty", ErrKernelNotFound, MatMulKernel)
	}

	// arg0, arg1, ret0
	dsl := &executable.DescriptorSetLayout{}
	dsl.AddStorageBuffer(0)
	dsl.AddStorageBuffer(1)
	dsl.AddStorageBuffer(2)

	spec := &executable.SpecializationInfo{}
	spec.Add(ConstantMatrixM, dims.m)
	spec.Add(ConstantMatrixK, dims.k)
	spec.Add(ConstantMatrixN, dims.n)

	metrics.SpecializedDims.WithLabelValues("m").Observe(float64(dims.m))
	metrics.SpecializedDims.WithLabelValues("k").Observe(float64(dims.k))
	metrics.SpecializedDims.WithLabelValues("n").Observe(float64(dims.n))

	return &executable.Definition{
		Tag:         MatMulTag,
		EntryPoints: []string{EntryPoint},
		Code:        code,
		PipelineLayout: &executable.PipelineLayout{
			BufferBindingSet:     0,
			DescriptorSetLayouts: []*executable.DescriptorSetLayout{dsl},
		},
		SpecializationInfo: spec,
	}, nil
}

// matmulShape reads m, k and n from the operand types:
//
//	arg0 = [b, m, k] or [m, k]
//	arg1 = [b, k, n] or [k, n]
func matmulShape(dot *graph.Op) (matmulDims, error) {
	lhs, ok := dot.Operand(0)
	if !ok {
		return matmulDims{}, fmt.Errorf("%w: lhs", ErrMissingOperand)
	}
	rhs, ok := dot.Operand(1)
	if !ok {
		return matmulDims{}, fmt.Errorf("%w: rhs", ErrMissingOperand)
	}

	for _, t := range []graph.TensorType{lhs, rhs} {
		if r := t.Rank(); r != 2 && r != 3 {
			return matmulDims{}, fmt.Errorf("%w: %s has rank %d", ErrUnsupportedRank, t, r)
		}
		if !t.IsStatic() {
			return matmulDims{}, fmt.Errorf("%w: %s", ErrDynamicShape, t)
		}
	}

	lhsOff := lhs.Rank() - 2
	rhsOff := rhs.Rank() - 2
	return matmulDims{
		m: uint32(lhs.DimSize(lhsOff)),
		k: uint32(lhs.DimSize(lhsOff + 1)),
		n: uint32(rhs.DimSize(rhsOff + 1)),
	}, nil
}
