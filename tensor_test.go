package caterva_test

import (
	"context"
	"encoding/binary"
	"math"
	"testing"

	"github.com/caterva-go/caterva"
	"github.com/stretchr/testify/require"
)

func TestToTensorFloat32(t *testing.T) {
	ctx := context.Background()
	gctx := caterva.NewContext()
	gctx.Comp.ItemSize = 4
	a, err := caterva.NewEmpty(ctx, gctx, caterva.StorageParams{Kind: caterva.KindBlosc}, []int64{2, 2}, []int64{2, 2})
	require.NoError(t, err)
	defer a.Close()

	vals := []float32{1, 2, 3, 4}
	buf := make([]byte, 16)
	for i, v := range vals {
		binary.LittleEndian.PutUint32(buf[i*4:i*4+4], math.Float32bits(v))
	}
	require.NoError(t, caterva.FromBuffer(ctx, a, []int64{2, 2}, buf))

	tensor, err := a.ToTensor(ctx, "float32")
	require.NoError(t, err)
	require.NotNil(t, tensor)
}

func TestToTensorRejectsItemSizeMismatch(t *testing.T) {
	ctx := context.Background()
	gctx := caterva.NewContext()
	gctx.Comp.ItemSize = 8
	a, err := caterva.NewEmpty(ctx, gctx, caterva.StorageParams{Kind: caterva.KindBlosc}, []int64{2, 2}, []int64{2, 2})
	require.NoError(t, err)
	defer a.Close()
	require.NoError(t, caterva.Fill(ctx, a, []int64{2, 2}, make([]byte, 8)))

	_, err = a.ToTensor(ctx, "float32")
	require.Error(t, err)
	require.Equal(t, caterva.InvalidArgument, caterva.KindOf(err))
}
