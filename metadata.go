package caterva

import (
	"encoding/binary"
	"fmt"
)

// Named slot holding the shape-metadata record inside a persisted frame.
const metadataSlotName = "caterva"

// Record tag bytes, closed vocabulary derived from MessagePack's fixarray
// and fixed-width integer tags. This is not a general encoding/msgpack
// use: the reader must be this exact codec, so there is no third-party
// encoder to reach for here — see DESIGN.md for why this stays
// hand-rolled on encoding/binary.
const (
	tagFixArray3 = 0x93 // outer 3-element record: (ndim, shape seq, chunk_shape seq)
	tagUint64    = 0xCF
	tagInt32     = 0xD2
	fixArrayMask = 0x90 // MessagePack fixarray header: 0x90 | count, count <= 15
)

// EncodeMetadata serializes (ndim, shape, chunkShape) into the
// self-describing record holding an array's shape and chunk_shape:
//
//	0x93  (ndim byte)  (0x90|ndim) (0xCF shape[0] …8 bytes)×ndim  (0x90|ndim) (0xD2 chunk_shape[0] …4 bytes)×ndim
//
// shape entries are unsigned 64-bit, chunk_shape entries signed 32-bit,
// each in host byte order — a known wart, preserved here rather than
// fixed; see DESIGN.md. Total length is 4 + 14·ndim bytes.
func EncodeMetadata(ndim int, shape, chunkShape []int64) ([]byte, error) {
	if ndim < 1 || ndim > MaxDim {
		return nil, newErrf(InvalidArgument, "EncodeMetadata", "ndim %d out of range [1,%d]", ndim, MaxDim)
	}
	if len(shape) != ndim || len(chunkShape) != ndim {
		return nil, newErrf(InvalidArgument, "EncodeMetadata", "shape/chunkShape length must equal ndim %d", ndim)
	}
	for i, cs := range chunkShape {
		if cs > 1<<31-1 || cs < -(1 << 31) {
			return nil, newErrf(InvalidArgument, "EncodeMetadata", "chunk_shape[%d]=%d does not fit in int32", i, cs)
		}
	}

	buf := make([]byte, 0, 4+ndim*9+ndim*5)
	buf = append(buf, tagFixArray3)
	buf = append(buf, byte(ndim))

	buf = append(buf, fixArrayMask|byte(ndim))
	for _, s := range shape {
		buf = append(buf, tagUint64)
		var b [8]byte
		binary.NativeEndian.PutUint64(b[:], uint64(s))
		buf = append(buf, b[:]...)
	}

	buf = append(buf, fixArrayMask|byte(ndim))
	for _, cs := range chunkShape {
		buf = append(buf, tagInt32)
		var b [4]byte
		binary.NativeEndian.PutUint32(b[:], uint32(int32(cs)))
		buf = append(buf, b[:]...)
	}
	return buf, nil
}

// DecodeMetadata is the inverse of EncodeMetadata. Every tag byte is
// verified; any mismatch or short read is a DecodeError.
func DecodeMetadata(data []byte) (ndim int, shape, chunkShape []int64, err error) {
	const op = "DecodeMetadata"
	if len(data) < 4 {
		return 0, nil, nil, newErr(DecodeError, op, fmt.Errorf("record too short: %d bytes", len(data)))
	}
	if data[0] != tagFixArray3 {
		return 0, nil, nil, newErr(DecodeError, op, fmt.Errorf("bad record header tag 0x%02X", data[0]))
	}
	n := int(data[1])
	if n < 1 || n > MaxDim {
		return 0, nil, nil, newErr(DecodeError, op, fmt.Errorf("ndim %d out of range [1,%d]", n, MaxDim))
	}

	want := 4 + n*9 + n*5
	if len(data) != want {
		return 0, nil, nil, newErr(DecodeError, op, fmt.Errorf("expected %d bytes, got %d", want, len(data)))
	}

	off := 2
	if data[off] != fixArrayMask|byte(n) {
		return 0, nil, nil, newErr(DecodeError, op, fmt.Errorf("bad shape-sequence header 0x%02X", data[off]))
	}
	off++

	shape = make([]int64, n)
	for i := 0; i < n; i++ {
		if data[off] != tagUint64 {
			return 0, nil, nil, newErr(DecodeError, op, fmt.Errorf("shape[%d]: bad tag 0x%02X", i, data[off]))
		}
		off++
		shape[i] = int64(binary.NativeEndian.Uint64(data[off : off+8]))
		off += 8
	}

	if data[off] != fixArrayMask|byte(n) {
		return 0, nil, nil, newErr(DecodeError, op, fmt.Errorf("bad chunk_shape-sequence header 0x%02X", data[off]))
	}
	off++

	chunkShape = make([]int64, n)
	for i := 0; i < n; i++ {
		if data[off] != tagInt32 {
			return 0, nil, nil, newErr(DecodeError, op, fmt.Errorf("chunk_shape[%d]: bad tag 0x%02X", i, data[off]))
		}
		off++
		chunkShape[i] = int64(int32(binary.NativeEndian.Uint32(data[off : off+4])))
		off += 4
	}
	return n, shape, chunkShape, nil
}
