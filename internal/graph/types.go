package graph

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gomlx/gopjrt/dtypes"
)

// DynamicDim marks a dimension whose extent is only known at run time.
const DynamicDim int64 = -1

// TensorType is a ranked tensor type.
type TensorType struct {
	DType dtypes.DType
	Shape []int64
}

// Tensor is shorthand for a tensor type of the given element type and shape.
func Tensor(dtype dtypes.DType, shape ...int64) TensorType {
	return TensorType{DType: dtype, Shape: shape}
}

// Rank returns the number of dimensions.
func (t TensorType) Rank() int {
	return len(t.Shape)
}

// DimSize returns the extent of dimension i, DynamicDim if it is not known at
// compile time.
func (t TensorType) DimSize(i int) int64 {
	return t.Shape[i]
}

// IsStatic reports whether every dimension has a compile-time extent.
func (t TensorType) IsStatic() bool {
	for _, d := range t.Shape {
		if d < 0 {
			return false
		}
	}
	return true
}

// String renders the type in MLIR syntax, e.g. tensor<8x?x16xf32>.
func (t TensorType) String() string {
	var sb strings.Builder
	sb.WriteString("tensor<")
	for _, d := range t.Shape {
		if d < 0 {
			sb.WriteString("?")
		} else {
			sb.WriteString(strconv.FormatInt(d, 10))
		}
		sb.WriteString("x")
	}
	sb.WriteString(DTypeName(t.DType))
	sb.WriteString(">")
	return sb.String()
}

var dtypeNames = []struct {
	name  string
	dtype dtypes.DType
}{
	{"f16", dtypes.Float16},
	{"bf16", dtypes.BFloat16},
	{"f32", dtypes.Float32},
	{"f64", dtypes.Float64},
	{"i1", dtypes.Bool},
	{"i8", dtypes.Int8},
	{"i16", dtypes.Int16},
	{"i32", dtypes.Int32},
	{"i64", dtypes.Int64},
	{"ui8", dtypes.Uint8},
	{"ui16", dtypes.Uint16},
	{"ui32", dtypes.Uint32},
	{"ui64", dtypes.Uint64},
}

// DTypeName returns the MLIR element type name of dtype.
func DTypeName(dtype dtypes.DType) string {
	for _, n := range dtypeNames {
		if n.dtype == dtype {
			return n.name
		}
	}
	return "none"
}

// ParseDType parses an MLIR element type name such as "f32".
func ParseDType(name string) (dtypes.DType, error) {
	for _, n := range dtypeNames {
		if n.name == name {
			return n.dtype, nil
		}
	}
	return dtypes.InvalidDType, fmt.Errorf("unknown element type %q", name)
}

// ParseTensorType parses a ranked tensor type. Both the MLIR form
// "tensor<128x64xf32>" and the bare form "128x64xf32" are accepted, "?"
// denotes a dynamic dimension.
func ParseTensorType(s string) (TensorType, error) {
	body := strings.TrimSpace(s)
	if strings.HasPrefix(body, "tensor<") {
		if !strings.HasSuffix(body, ">") {
			return TensorType{}, fmt.Errorf("malformed tensor type %q", s)
		}
		body = body[len("tensor<") : len(body)-1]
	}

	parts := strings.Split(body, "x")
	elem := parts[len(parts)-1]
	dtype, err := ParseDType(elem)
	if err != nil {
		return TensorType{}, fmt.Errorf("tensor type %q: %w", s, err)
	}

	shape := make([]int64, 0, len(parts)-1)
	for _, p := range parts[:len(parts)-1] {
		if p == "?" {
			shape = append(shape, DynamicDim)
			continue
		}
		d, err := strconv.ParseInt(p, 10, 64)
		if err != nil || d < 0 {
			return TensorType{}, fmt.Errorf("tensor type %q: invalid dimension %q", s, p)
		}
		shape = append(shape, d)
	}
	return TensorType{DType: dtype, Shape: shape}, nil
}
