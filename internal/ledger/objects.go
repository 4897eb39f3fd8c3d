package ledger

import (
	"bytes"
	"fmt"

	flatbuffers "github.com/google/flatbuffers/go"

	"Artfi/internal/types"
)

// objectKeyPrefix is the Pebble key prefix for object envelopes.
var objectKeyPrefix = []byte("o:")

// Object is a stored object envelope.
type Object struct {
	ID      ObjectID // ID is the object identifier
	Version uint64   // Version is bumped on every mutation
	Owner   Address  // Owner is the holder, zero for shared objects
	Kind    Kind     // Kind tags Content
	Content []byte   // Content is the kind-specific FlatBuffers table
}

// Shared reports whether the object has no owner.
func (o *Object) Shared() bool {
	return o.Owner.IsZero()
}

// Create allocates an id and stores a new object at version 1.
// Shared kinds take the zero owner, every other kind a real one.
func (tx *Tx) Create(kind Kind, owner Address, content []byte) (ObjectID, error) {
	if kind.Shared() != owner.IsZero() {
		if kind.Shared() {
			return ObjectID{}, fmt.Errorf("create %s: shared object cannot have owner %s", kind, owner)
		}

		return ObjectID{}, fmt.Errorf("%w: %s needs an owner", ErrInvalidRecipient, kind)
	}

	id := tx.NewID()

	obj := &Object{ID: id, Version: 1, Owner: owner, Kind: kind, Content: content}
	if err := tx.putObject(obj); err != nil {
		return ObjectID{}, fmt.Errorf("create %s:\n%w", kind, err)
	}

	return id, nil
}

// Object loads a live object.
func (tx *Tx) Object(id ObjectID) (*Object, error) {
	data, err := tx.Get(objectKey(id))
	if err != nil {
		return nil, err
	}

	if data == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	return decodeObject(data)
}

// ObjectOf loads a live object and checks its kind.
func (tx *Tx) ObjectOf(id ObjectID, kind Kind) (*Object, error) {
	obj, err := tx.Object(id)
	if err != nil {
		return nil, err
	}

	if obj.Kind != kind {
		return nil, fmt.Errorf("%w: %s is %s, want %s", ErrWrongKind, id, obj.Kind, kind)
	}

	return obj, nil
}

// Owned loads an object of the given kind that the sender owns.
// This is how a transaction proves possession of an object it passes in.
func (tx *Tx) Owned(id ObjectID, kind Kind) (*Object, error) {
	obj, err := tx.ObjectOf(id, kind)
	if err != nil {
		return nil, err
	}

	if obj.Shared() || obj.Owner != tx.sender {
		return nil, fmt.Errorf("%w: %s", ErrNotOwner, id)
	}

	return obj, nil
}

// SharedObject loads a shared object of the given kind.
func (tx *Tx) SharedObject(id ObjectID, kind Kind) (*Object, error) {
	obj, err := tx.ObjectOf(id, kind)
	if err != nil {
		return nil, err
	}

	if !obj.Shared() {
		return nil, fmt.Errorf("%w: %s", ErrNotShared, id)
	}

	return obj, nil
}

// Update replaces the content of a live object and bumps its version.
func (tx *Tx) Update(id ObjectID, content []byte) error {
	obj, err := tx.Object(id)
	if err != nil {
		return err
	}

	obj.Content = content
	obj.Version++

	return tx.putObject(obj)
}

// TransferObject hands a live object to newOwner and bumps its version.
// The previous owner loses the ability to pass it into any later transaction.
func (tx *Tx) TransferObject(id ObjectID, newOwner Address) error {
	if newOwner.IsZero() {
		return fmt.Errorf("%w: zero address", ErrInvalidRecipient)
	}

	obj, err := tx.Object(id)
	if err != nil {
		return err
	}

	if obj.Shared() {
		return fmt.Errorf("%w: %s", ErrNotOwner, id)
	}

	obj.Owner = newOwner
	obj.Version++

	return tx.putObject(obj)
}

// DeleteID destroys a live object. The id is never allocated again.
func (tx *Tx) DeleteID(id ObjectID) error {
	data, err := tx.Get(objectKey(id))
	if err != nil {
		return err
	}

	if data == nil {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	return tx.Delete(objectKey(id))
}

// ObjectsOwnedBy lists live objects of kind held by owner, in id order.
func (tx *Tx) ObjectsOwnedBy(owner Address, kind Kind) ([]*Object, error) {
	var objects []*Object

	err := tx.IteratePrefix(objectKeyPrefix, func(key, value []byte) error {
		obj, err := decodeObject(value)
		if err != nil {
			return err
		}

		if obj.Kind == kind && obj.Owner == owner {
			objects = append(objects, obj)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return objects, nil
}

// putObject stores an envelope under its id.
func (tx *Tx) putObject(obj *Object) error {
	return tx.Set(objectKey(obj.ID), encodeObject(obj))
}

// IsObjectKey reports whether a raw storage key holds an object envelope.
func IsObjectKey(key []byte) bool {
	return bytes.HasPrefix(key, objectKeyPrefix) && len(key) == len(objectKeyPrefix)+32
}

// objectKey builds the Pebble key for an object: "o:" + id.
func objectKey(id ObjectID) []byte {
	key := make([]byte, len(objectKeyPrefix)+len(id))
	copy(key, objectKeyPrefix)
	copy(key[len(objectKeyPrefix):], id[:])

	return key
}

// encodeObject serializes an envelope as a FlatBuffers Object table.
func encodeObject(obj *Object) []byte {
	builder := flatbuffers.NewBuilder(128 + len(obj.Content))

	idVec := builder.CreateByteVector(obj.ID[:])
	ownerVec := builder.CreateByteVector(obj.Owner[:])
	contentVec := builder.CreateByteVector(obj.Content)

	types.ObjectStart(builder)
	types.ObjectAddId(builder, idVec)
	types.ObjectAddVersion(builder, obj.Version)
	types.ObjectAddOwner(builder, ownerVec)
	types.ObjectAddKind(builder, byte(obj.Kind))
	types.ObjectAddContent(builder, contentVec)
	builder.Finish(types.ObjectEnd(builder))

	return builder.FinishedBytes()
}

// decodeObject parses an envelope. Content is copied out of data.
func decodeObject(data []byte) (obj *Object, err error) {
	// FlatBuffers panics on malformed data, recover gracefully
	defer func() {
		if r := recover(); r != nil {
			obj, err = nil, fmt.Errorf("%w: malformed object", ErrCorrupt)
		}
	}()

	if len(data) < 8 {
		return nil, fmt.Errorf("%w: object too short", ErrCorrupt)
	}

	fb := types.GetRootAsObject(data, 0)

	if len(fb.IdBytes()) != 32 || len(fb.OwnerBytes()) != 32 {
		return nil, fmt.Errorf("%w: invalid id or owner size", ErrCorrupt)
	}

	obj = &Object{
		Version: fb.Version(),
		Kind:    Kind(fb.Kind()),
		Content: append([]byte(nil), fb.ContentBytes()...),
	}
	copy(obj.ID[:], fb.IdBytes())
	copy(obj.Owner[:], fb.OwnerBytes())

	return obj, nil
}
