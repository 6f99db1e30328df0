package graph

import (
	"testing"

	"github.com/gomlx/gopjrt/dtypes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTensorType(t *testing.T) {
	t.Run("mlir form", func(t *testing.T) {
		tt, err := ParseTensorType("tensor<8x32x16xf32>")
		require.NoError(t, err)
		assert.Equal(t, dtypes.Float32, tt.DType)
		assert.Equal(t, []int64{8, 32, 16}, tt.Shape)
		assert.Equal(t, 3, tt.Rank())
		assert.True(t, tt.IsStatic())
	})

	t.Run("bare form", func(t *testing.T) {
		tt, err := ParseTensorType("128x64xf16")
		require.NoError(t, err)
		assert.Equal(t, dtypes.Float16, tt.DType)
		assert.Equal(t, []int64{128, 64}, tt.Shape)
	})

	t.Run("dynamic dimension", func(t *testing.T) {
		tt, err := ParseTensorType("tensor<?x64xf32>")
		require.NoError(t, err)
		assert.Equal(t, DynamicDim, tt.DimSize(0))
		assert.Equal(t, int64(64), tt.DimSize(1))
		assert.False(t, tt.IsStatic())
		assert.Equal(t, "tensor<?x64xf32>", tt.String())
	})

	t.Run("scalar", func(t *testing.T) {
		tt, err := ParseTensorType("tensor<i32>")
		require.NoError(t, err)
		assert.Equal(t, 0, tt.Rank())
		assert.Equal(t, dtypes.Int32, tt.DType)
	})

	t.Run("errors", func(t *testing.T) {
		for _, s := range []string{"tensor<4x4xf32", "tensor<4x4xq7>", "tensor<4xqxf32>", "tensor<-1x4xf32>", ""} {
			_, err := ParseTensorType(s)
			assert.Error(t, err, s)
		}
	})
}

func TestTensorType_String(t *testing.T) {
	assert.Equal(t, "tensor<128x64xf32>", Tensor(dtypes.Float32, 128, 64).String())
	assert.Equal(t, "tensor<2xbf16>", Tensor(dtypes.BFloat16, 2).String())
}

func TestParseDType(t *testing.T) {
	dt, err := ParseDType("ui8")
	require.NoError(t, err)
	assert.Equal(t, dtypes.Uint8, dt)
	assert.Equal(t, "ui8", DTypeName(dt))

	_, err = ParseDType("f8")
	assert.Error(t, err)
}
