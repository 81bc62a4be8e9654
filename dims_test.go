package caterva_test

import (
	"context"
	"testing"

	"github.com/caterva-go/caterva"
	"github.com/stretchr/testify/require"
)

func TestExtShapeRounding(t *testing.T) {
	ctx := context.Background()
	gctx := caterva.NewContext()
	a, err := caterva.NewEmpty(ctx, gctx, caterva.StorageParams{Kind: caterva.KindBlosc}, []int64{10, 10}, []int64{3, 2})
	require.NoError(t, err)
	defer a.Close()

	require.Equal(t, []int64{12, 10}, a.ExtShape())
	require.Equal(t, int64(100), a.NItems())
}

func TestChunkGridInvariant(t *testing.T) {
	ctx := context.Background()
	gctx := caterva.NewContext()
	a, err := caterva.NewEmpty(ctx, gctx, caterva.StorageParams{Kind: caterva.KindBlosc}, []int64{10, 10, 10}, []int64{3, 5, 2})
	require.NoError(t, err)
	defer a.Close()

	ext := a.ExtShape()
	chunk := a.ChunkShape()
	shape := a.Shape()
	for i := range ext {
		require.GreaterOrEqual(t, ext[i], shape[i])
		require.Zero(t, ext[i]%chunk[i])
	}
}

func TestExactMultipleShapeNeedsNoPadding(t *testing.T) {
	ctx := context.Background()
	gctx := caterva.NewContext()
	a, err := caterva.NewEmpty(ctx, gctx, caterva.StorageParams{Kind: caterva.KindBlosc}, []int64{9, 10}, []int64{3, 5})
	require.NoError(t, err)
	defer a.Close()

	require.Equal(t, a.Shape(), a.ExtShape())
}
