package caterva_test

import (
	"testing"

	"github.com/caterva-go/caterva"
	"github.com/stretchr/testify/require"
)

func TestSyncPoolBuffersZeroesReusedBuffers(t *testing.T) {
	pool := caterva.SyncPoolBuffers()
	b := pool.Get(16)
	for i := range b {
		b[i] = 0xFF
	}
	pool.Put(b)

	b2 := pool.Get(16)
	for _, v := range b2 {
		require.Zero(t, v)
	}
}

func TestNewContextDefaults(t *testing.T) {
	ctx := caterva.NewContext()
	require.Equal(t, caterva.CodecBlosc, ctx.Comp.Codec)
	require.Equal(t, 8, ctx.Comp.ItemSize)
}
