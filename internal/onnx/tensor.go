package onnx

import "fmt"

// TensorDType identifies the element type of a Tensor.
type TensorDType string

const (
	DTypeFloat32 TensorDType = "float32"
	DTypeInt64   TensorDType = "int64"
)

// Tensor is a runtime-neutral dense tensor carrying either float32 or
// int64 elements. The pipeline only ever exchanges these two dtypes with
// the exported graphs.
type Tensor struct {
	dtype TensorDType
	shape []int64
	data  any
}

// NewTensor builds a Tensor from data and shape. The element count implied
// by shape must match len(data).
func NewTensor[T ~int64 | ~float32](data []T, shape []int64) (*Tensor, error) {
	count := int64(1)
	for _, dim := range shape {
		if dim < 0 {
			return nil, fmt.Errorf("negative dimension %d in shape %v", dim, shape)
		}
		count *= dim
	}
	if count != int64(len(data)) {
		return nil, fmt.Errorf("shape %v implies %d elements, data has %d", shape, count, len(data))
	}

	t := &Tensor{shape: append([]int64(nil), shape...)}

	switch any(data).(type) {
	case []float32:
		converted := make([]float32, len(data))
		for i, v := range data {
			converted[i] = float32(v)
		}
		t.dtype = DTypeFloat32
		t.data = converted
	case []int64:
		converted := make([]int64, len(data))
		for i, v := range data {
			converted[i] = int64(v)
		}
		t.dtype = DTypeInt64
		t.data = converted
	default:
		return nil, fmt.Errorf("unsupported tensor element type %T", data)
	}

	return t, nil
}

// DType returns the tensor's element type.
func (t *Tensor) DType() TensorDType {
	return t.dtype
}

// Shape returns a copy of the tensor's shape.
func (t *Tensor) Shape() []int64 {
	return append([]int64(nil), t.shape...)
}

// Data returns a copy of the tensor's backing slice as []float32 or []int64.
func (t *Tensor) Data() any {
	switch v := t.data.(type) {
	case []float32:
		return append([]float32(nil), v...)
	case []int64:
		return append([]int64(nil), v...)
	default:
		return nil
	}
}

// Float32Data returns the tensor's elements as float32, or an error when
// the tensor holds a different dtype.
func (t *Tensor) Float32Data() ([]float32, error) {
	data, ok := t.data.([]float32)
	if !ok {
		return nil, fmt.Errorf("tensor dtype is %s, want %s", t.dtype, DTypeFloat32)
	}

	return append([]float32(nil), data...), nil
}
