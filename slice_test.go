package caterva_test

import (
	"context"
	"encoding/binary"
	"math"
	"testing"

	"github.com/caterva-go/caterva"
	"github.com/stretchr/testify/require"
)

// sequentialFloat64Buffer returns a row-major buffer where element i holds
// float64(i), matching the "buf[i] = i" source array used by the slice
// scenarios below.
func sequentialFloat64Buffer(nitems int64) []byte {
	buf := make([]byte, nitems*8)
	for i := int64(0); i < nitems; i++ {
		binary.LittleEndian.PutUint64(buf[i*8:i*8+8], math.Float64bits(float64(i)))
	}
	return buf
}

func decodeFloat64s(buf []byte) []float64 {
	out := make([]float64, len(buf)/8)
	for i := range out {
		out[i] = math.Float64frombits(binary.LittleEndian.Uint64(buf[i*8 : i*8+8]))
	}
	return out
}

func newFilledBloscArray(t *testing.T, shape, chunkShape []int64) (context.Context, *caterva.Array) {
	t.Helper()
	ctx := context.Background()
	gctx := caterva.NewContext()
	gctx.Comp.ItemSize = 8
	a, err := caterva.NewEmpty(ctx, gctx, caterva.StorageParams{Kind: caterva.KindBlosc}, shape, chunkShape)
	require.NoError(t, err)

	nitems := int64(1)
	for _, s := range shape {
		nitems *= s
	}
	require.NoError(t, caterva.FromBuffer(ctx, a, shape, sequentialFloat64Buffer(nitems)))
	return ctx, a
}

func TestGetSliceBuffer2D(t *testing.T) {
	ctx, a := newFilledBloscArray(t, []int64{10, 10}, []int64{3, 2})
	defer a.Close()

	start := []int64{5, 3}
	stop := []int64{9, 10}
	dPshape := []int64{4, 7}
	out := make([]byte, 28*8)
	require.NoError(t, caterva.GetSliceBuffer(ctx, out, a, start, stop, dPshape))

	want := []float64{53, 54, 55, 56, 57, 58, 59, 63, 64, 65, 66, 67, 68, 69, 73, 74, 75, 76, 77, 78, 79, 83, 84, 85, 86, 87, 88, 89}
	require.Equal(t, want, decodeFloat64s(out))
}

func TestGetSliceBuffer3D(t *testing.T) {
	ctx, a := newFilledBloscArray(t, []int64{10, 10, 10}, []int64{3, 5, 2})
	defer a.Close()

	start := []int64{3, 0, 3}
	stop := []int64{6, 7, 10}
	dPshape := []int64{3, 7, 7}
	out := make([]byte, 147*8)
	require.NoError(t, caterva.GetSliceBuffer(ctx, out, a, start, stop, dPshape))

	got := decodeFloat64s(out)
	require.Len(t, got, 147)
	require.Equal(t, []float64{303, 304, 305, 306, 307, 308, 309}, got[:7])
}

func TestGetSliceBuffer4D(t *testing.T) {
	ctx, a := newFilledBloscArray(t, []int64{10, 10, 10, 10}, []int64{3, 5, 2, 7})
	defer a.Close()

	start := []int64{5, 3, 9, 2}
	stop := []int64{9, 6, 10, 7}
	dPshape := []int64{4, 3, 1, 5}
	out := make([]byte, 60*8)
	require.NoError(t, caterva.GetSliceBuffer(ctx, out, a, start, stop, dPshape))

	got := decodeFloat64s(out)
	require.Len(t, got, 60)
	require.Equal(t, []float64{5392, 5393, 5394, 5395, 5396, 5492}, got[:6])
}

func TestGetSliceBuffer8D(t *testing.T) {
	shape := make([]int64, 8)
	for i := range shape {
		shape[i] = 10
	}
	chunkShape := []int64{2, 3, 4, 2, 3, 2, 4, 10}
	ctx, a := newFilledBloscArray(t, shape, chunkShape)
	defer a.Close()

	start := []int64{3, 5, 2, 4, 5, 1, 6, 0}
	stop := []int64{6, 6, 4, 6, 7, 3, 7, 3}
	dPshape := []int64{3, 1, 2, 2, 2, 2, 1, 3}
	out := make([]byte, 144*8)
	require.NoError(t, caterva.GetSliceBuffer(ctx, out, a, start, stop, dPshape))

	got := decodeFloat64s(out)
	require.Len(t, got, 144)
	require.Equal(t, []float64{35245160, 35245161, 35245162}, got[:3])
}

func TestGetSliceBufferEquivalentToSourceBufferSlice(t *testing.T) {
	shape := []int64{10, 10}
	ctx, a := newFilledBloscArray(t, shape, []int64{3, 2})
	defer a.Close()

	start := []int64{2, 1}
	stop := []int64{7, 9}
	dPshape := []int64{5, 8}
	out := make([]byte, 40*8)
	require.NoError(t, caterva.GetSliceBuffer(ctx, out, a, start, stop, dPshape))
	got := decodeFloat64s(out)

	var want []float64
	for r := start[0]; r < stop[0]; r++ {
		for c := start[1]; c < stop[1]; c++ {
			want = append(want, float64(r*10+c))
		}
	}
	require.Equal(t, want, got)
}

func TestGetSliceIntoArraySqueezesUnitAxes(t *testing.T) {
	ctx, src := newFilledBloscArray(t, []int64{10, 10}, []int64{3, 2})
	defer src.Close()

	gctx := caterva.NewContext()
	gctx.Comp.ItemSize = 8
	dest, err := caterva.NewEmpty(ctx, gctx, caterva.StorageParams{Kind: caterva.KindBlosc}, []int64{10, 10}, []int64{3, 2})
	require.NoError(t, err)
	defer dest.Close()

	require.NoError(t, caterva.GetSlice(ctx, dest, src, []int64{5, 3}, []int64{6, 10}))
	require.Equal(t, []int64{7}, dest.Shape())
}

func TestPlainBufferSliceMatchesBloscSlice(t *testing.T) {
	ctx := context.Background()
	gctx := caterva.NewContext()
	gctx.Comp.ItemSize = 8
	plain, err := caterva.NewEmpty(ctx, gctx, caterva.StorageParams{Kind: caterva.KindPlain}, []int64{10, 10}, []int64{10, 10})
	require.NoError(t, err)
	defer plain.Close()
	require.NoError(t, caterva.FromBuffer(ctx, plain, []int64{10, 10}, sequentialFloat64Buffer(100)))

	out := make([]byte, 28*8)
	require.NoError(t, caterva.GetSliceBuffer(ctx, out, plain, []int64{5, 3}, []int64{9, 10}, []int64{4, 7}))

	want := []float64{53, 54, 55, 56, 57, 58, 59, 63, 64, 65, 66, 67, 68, 69, 73, 74, 75, 76, 77, 78, 79, 83, 84, 85, 86, 87, 88, 89}
	require.Equal(t, want, decodeFloat64s(out))
}
