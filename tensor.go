package caterva

import (
	"context"
	"encoding/binary"
	"math"

	"github.com/gomlx/gomlx/pkg/core/tensors"
)

// ToTensor materializes a into a *tensors.Tensor, bridging the padded
// export pipeline (ToBuffer) into gomlx the way
// TuSKan-go-zarr/zarr/dataset.go's NextBatch builds a Tensor from a
// decoded batch (and TuSKan-go-zarr/reader.go decodes float32 chunk bytes
// with math.Float32frombits). This is enrichment beyond the buffer/chunk
// plumbing core, kept behind a single opt-in call so it does not touch the
// slicing/import/export semantics above. Only float32/float64/int32/int64
// itemsize/dtype combinations are supported; callers needing other
// element types should use ToBuffer directly and interpret the bytes
// themselves.
func (a *Array) ToTensor(ctx context.Context, dtype string) (*tensors.Tensor, error) {
	const op = "ToTensor"
	buf := make([]byte, a.nitems*int64(a.itemsize))
	if err := ToBuffer(ctx, a, buf); err != nil {
		return nil, err
	}
	shape := a.Shape()
	dims := make([]int, len(shape))
	for i, s := range shape {
		dims[i] = int(s)
	}

	switch dtype {
	case "float32":
		if a.itemsize != 4 {
			return nil, newErrf(InvalidArgument, op, "dtype float32 requires itemsize 4, array has %d", a.itemsize)
		}
		return tensors.FromFlatDataAndDimensions(bytesToFloat32(buf), dims...), nil
	case "float64":
		if a.itemsize != 8 {
			return nil, newErrf(InvalidArgument, op, "dtype float64 requires itemsize 8, array has %d", a.itemsize)
		}
		return tensors.FromFlatDataAndDimensions(bytesToFloat64(buf), dims...), nil
	case "int32":
		if a.itemsize != 4 {
			return nil, newErrf(InvalidArgument, op, "dtype int32 requires itemsize 4, array has %d", a.itemsize)
		}
		return tensors.FromFlatDataAndDimensions(bytesToInt32(buf), dims...), nil
	case "int64":
		if a.itemsize != 8 {
			return nil, newErrf(InvalidArgument, op, "dtype int64 requires itemsize 8, array has %d", a.itemsize)
		}
		return tensors.FromFlatDataAndDimensions(bytesToInt64(buf), dims...), nil
	default:
		return nil, newErrf(InvalidArgument, op, "unsupported dtype %q", dtype)
	}
}

func bytesToFloat32(b []byte) []float32 {
	out := make([]float32, len(b)/4)
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4 : i*4+4]))
	}
	return out
}

func bytesToFloat64(b []byte) []float64 {
	out := make([]float64, len(b)/8)
	for i := range out {
		out[i] = math.Float64frombits(binary.LittleEndian.Uint64(b[i*8 : i*8+8]))
	}
	return out
}

func bytesToInt32(b []byte) []int32 {
	out := make([]int32, len(b)/4)
	for i := range out {
		out[i] = int32(binary.LittleEndian.Uint32(b[i*4 : i*4+4]))
	}
	return out
}

func bytesToInt64(b []byte) []int64 {
	out := make([]int64, len(b)/8)
	for i := range out {
		out[i] = int64(binary.LittleEndian.Uint64(b[i*8 : i*8+8]))
	}
	return out
}
