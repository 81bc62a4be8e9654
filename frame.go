package caterva

import (
	"context"
	"fmt"

	"gocloud.dev/blob"
	"gocloud.dev/gcerrors"
)

// maxNamedSlots bounds the number of user-defined named slots a frame may
// carry; exceeding it fails the create. Chunks themselves are not named
// slots — only metadata records are — so this only limits auxiliary
// metadata, not array size.
const maxNamedSlots = 64

// frame is the persisted on-disk container backing an Array: a
// directory-like key/value store (here, a gocloud.dev/blob.Bucket, the
// same abstraction TuSKan-go-zarr/reader.go and zarr/dataset.go open with
// blob.OpenBucket) holding one blob per chunk (keyed by chunkKey) plus a
// small number of named metadata slots.
type frame struct {
	bucket *blob.Bucket
	slots  map[string]struct{}
}

// openFrame opens (or creates, for a fresh empty directory) the bucket at
// path as a frame.
func openFrame(ctx context.Context, path string) (*frame, error) {
	bucket, err := blob.OpenBucket(ctx, path)
	if err != nil {
		return nil, newErr(StorageError, "openFrame", err)
	}
	f := &frame{bucket: bucket, slots: make(map[string]struct{})}
	iter := bucket.List(&blob.ListOptions{})
	for {
		obj, err := iter.Next(ctx)
		if err != nil {
			break
		}
		if isSlotKey(obj.Key) {
			f.slots[obj.Key[len(".slot."):]] = struct{}{}
		}
	}
	return f, nil
}

func slotKey(name string) string { return ".slot." + name }

func isSlotKey(key string) bool {
	return len(key) > 6 && key[:6] == ".slot."
}

// addNamedSlot creates a new named slot, failing with ResourceExhausted if
// the frame's slot budget is already spent.
func (f *frame) addNamedSlot(ctx context.Context, name string, data []byte) error {
	if _, exists := f.slots[name]; !exists && len(f.slots) >= maxNamedSlots {
		return newErrf(ResourceExhausted, "addNamedSlot", "frame already carries %d named slots (limit %d)", len(f.slots), maxNamedSlots)
	}
	if err := f.bucket.WriteAll(ctx, slotKey(name), data, nil); err != nil {
		return newErr(StorageError, "addNamedSlot", err)
	}
	f.slots[name] = struct{}{}
	return nil
}

// updateNamedSlot overwrites an existing named slot's bytes.
func (f *frame) updateNamedSlot(ctx context.Context, name string, data []byte) error {
	if err := f.bucket.WriteAll(ctx, slotKey(name), data, nil); err != nil {
		return newErr(StorageError, "updateNamedSlot", err)
	}
	f.slots[name] = struct{}{}
	return nil
}

// getNamedSlot reads a named slot's bytes.
func (f *frame) getNamedSlot(ctx context.Context, name string) ([]byte, error) {
	data, err := f.bucket.ReadAll(ctx, slotKey(name))
	if err != nil {
		if gcerrors.Code(err) == gcerrors.NotFound {
			return nil, newErrf(InvalidState, "getNamedSlot", "named slot %q is absent", name)
		}
		return nil, newErr(StorageError, "getNamedSlot", err)
	}
	return data, nil
}

func (f *frame) writeChunk(ctx context.Context, key string, data []byte) error {
	if err := f.bucket.WriteAll(ctx, key, data, nil); err != nil {
		return newErr(StorageError, fmt.Sprintf("writeChunk(%s)", key), err)
	}
	return nil
}

func (f *frame) readChunk(ctx context.Context, key string) ([]byte, error) {
	data, err := f.bucket.ReadAll(ctx, key)
	if err != nil {
		return nil, newErr(StorageError, fmt.Sprintf("readChunk(%s)", key), err)
	}
	return data, nil
}

func (f *frame) close() error {
	return f.bucket.Close()
}
