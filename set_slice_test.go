package caterva_test

import (
	"context"
	"testing"

	"github.com/caterva-go/caterva"
	"github.com/stretchr/testify/require"
)

func TestSetSliceBufferWritesIntoPlainBuffer(t *testing.T) {
	ctx := context.Background()
	gctx := caterva.NewContext()
	gctx.Comp.ItemSize = 1
	a, err := caterva.NewEmpty(ctx, gctx, caterva.StorageParams{Kind: caterva.KindPlain}, []int64{4, 4}, []int64{4, 4})
	require.NoError(t, err)
	defer a.Close()

	patch := []byte{1, 2, 3, 4}
	require.NoError(t, caterva.SetSliceBuffer(a, []int64{1, 1}, []int64{3, 3}, patch))

	out := make([]byte, 16)
	require.NoError(t, caterva.ToBuffer(ctx, a, out))

	want := make([]byte, 16)
	want[1*4+1] = 1
	want[1*4+2] = 2
	want[2*4+1] = 3
	want[2*4+2] = 4
	require.Equal(t, want, out)
}

func TestSetSliceBufferRejectsBloscDestination(t *testing.T) {
	ctx := context.Background()
	a, err := caterva.NewEmpty(ctx, nil, caterva.StorageParams{Kind: caterva.KindBlosc}, []int64{4, 4}, []int64{2, 2})
	require.NoError(t, err)
	defer a.Close()

	err = caterva.SetSliceBuffer(a, []int64{0, 0}, []int64{1, 1}, []byte{1, 2, 3, 4, 5, 6, 7, 8})
	require.Error(t, err)
	require.Equal(t, caterva.InvalidState, caterva.KindOf(err))
}
