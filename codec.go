package caterva

import (
	"bytes"
	"io"

	blosc "github.com/mrjoshuak/go-blosc"
	"github.com/klauspost/compress/zstd"
)

// codec is the black-box compressor interface the SuperChunk storage
// back-end assumes: a chunk goes in as raw bytes, compressed bytes come
// out, and back.
type codec interface {
	compress(itemsize int, params CompParams, src []byte) ([]byte, error)
	decompress(dst []byte, src []byte) error
}

func codecFor(name CodecName) (codec, error) {
	switch name {
	case CodecBlosc, "":
		return bloscCodec{}, nil
	case CodecZstd:
		return zstdCodec{}, nil
	default:
		return nil, newErrf(InvalidArgument, "codecFor", "unsupported codec %q", name)
	}
}

// bloscCodec wraps github.com/mrjoshuak/go-blosc, the direct Go analogue
// of Blosc2 (TuSKan-go-zarr/reader.go dispatches blosc.Decompress the
// same way on its read path).
type bloscCodec struct{}

func (bloscCodec) compress(itemsize int, params CompParams, src []byte) ([]byte, error) {
	shuffle := blosc.NoShuffle
	if params.Shuffle {
		shuffle = blosc.ByteShuffle
	}
	level := params.Level
	if level <= 0 {
		level = 5
	}
	out, err := blosc.Compress(itemsize, level, shuffle, src)
	if err != nil {
		return nil, newErr(StorageError, "bloscCodec.compress", err)
	}
	return out, nil
}

func (bloscCodec) decompress(dst []byte, src []byte) error {
	out, err := blosc.Decompress(src)
	if err != nil {
		return newErr(StorageError, "bloscCodec.decompress", err)
	}
	if len(out) != len(dst) {
		return newErrf(StorageError, "bloscCodec.decompress", "decompressed %d bytes, expected %d", len(out), len(dst))
	}
	copy(dst, out)
	return nil
}

// zstdCodec wraps github.com/klauspost/compress/zstd, the second codec
// TuSKan-go-zarr/zarr/dataset.go selects on Compressor.ID == "zstd".
type zstdCodec struct{}

func (zstdCodec) compress(_ int, params CompParams, src []byte) ([]byte, error) {
	level := zstd.SpeedDefault
	switch {
	case params.Level <= 1:
		level = zstd.SpeedFastest
	case params.Level >= 9:
		level = zstd.SpeedBestCompression
	}
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(level))
	if err != nil {
		return nil, newErr(StorageError, "zstdCodec.compress", err)
	}
	defer enc.Close()
	return enc.EncodeAll(src, make([]byte, 0, len(src))), nil
}

func (zstdCodec) decompress(dst []byte, src []byte) error {
	dec, err := zstd.NewReader(bytes.NewReader(src))
	if err != nil {
		return newErr(StorageError, "zstdCodec.decompress", err)
	}
	defer dec.Close()
	n, err := io.ReadFull(dec, dst)
	if err != nil && err != io.ErrUnexpectedEOF {
		return newErr(StorageError, "zstdCodec.decompress", err)
	}
	if n != len(dst) {
		return newErrf(StorageError, "zstdCodec.decompress", "decompressed %d bytes, expected %d", n, len(dst))
	}
	return nil
}
