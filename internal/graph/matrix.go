package graph

import (
	"github.com/gomlx/gopjrt/dtypes"
	"gonum.org/v1/gonum/mat"
)

// MatrixType returns the rank-2 tensor type matching the dimensions of m.
func MatrixType(m mat.Matrix, dtype dtypes.DType) TensorType {
	r, c := m.Dims()
	return Tensor(dtype, int64(r), int64(c))
}

// BatchedMatrixType returns the rank-3 tensor type of batch matrices shaped
// like m.
func BatchedMatrixType(batch int, m mat.Matrix, dtype dtypes.DType) TensorType {
	r, c := m.Dims()
	return Tensor(dtype, int64(batch), int64(r), int64(c))
}

// NewDotOp builds a dot operation multiplying lhs by rhs. The result type is
// derived from the operands: [m,k]x[k,n] gives [m,n] and [b,m,k]x[b,k,n]
// gives [b,m,n].
func NewDotOp(lhs, rhs TensorType) *Op {
	var shape []int64
	switch {
	case lhs.Rank() == 3 && rhs.Rank() == 3:
		shape = []int64{lhs.Shape[0], lhs.Shape[1], rhs.Shape[2]}
	case lhs.Rank() == 2 && rhs.Rank() == 2:
		shape = []int64{lhs.Shape[0], rhs.Shape[1]}
	}

	op := &Op{
		Kind:     OpDot,
		Name:     "xla_hlo.dot",
		Operands: []TensorType{lhs, rhs},
	}
	if shape != nil {
		op.Results = []TensorType{{DType: lhs.DType, Shape: shape}}
	}
	return op
}

// MatMulOp builds a dot operation over two gonum matrices.
func MatMulOp(a, b mat.Matrix, dtype dtypes.DType) *Op {
	return NewDotOp(MatrixType(a, dtype), MatrixType(b, dtype))
}
