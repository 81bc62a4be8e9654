package caterva_test

import (
	"context"
	"math/rand"
	"testing"

	"github.com/caterva-go/caterva"
	"github.com/stretchr/testify/require"
)

func TestRepartPreservesContent(t *testing.T) {
	ctx := context.Background()
	gctx := caterva.NewContext()
	gctx.Comp.ItemSize = 8
	shape := []int64{12, 9}

	a1, err := caterva.NewEmpty(ctx, gctx, caterva.StorageParams{Kind: caterva.KindBlosc}, shape, []int64{4, 3})
	require.NoError(t, err)
	defer a1.Close()

	src := make([]byte, 12*9*8)
	rand.New(rand.NewSource(7)).Read(src)
	require.NoError(t, caterva.FromBuffer(ctx, a1, shape, src))

	a2, err := caterva.NewEmpty(ctx, gctx, caterva.StorageParams{Kind: caterva.KindBlosc}, shape, []int64{3, 9})
	require.NoError(t, err)
	defer a2.Close()

	require.NoError(t, caterva.Repart(ctx, a2, a1))

	out := make([]byte, len(src))
	require.NoError(t, caterva.ToBuffer(ctx, a2, out))
	require.Equal(t, src, out)
}
