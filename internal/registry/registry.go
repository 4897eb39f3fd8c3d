package registry

import (
	"encoding/binary"
	"errors"
	"fmt"

	flatbuffers "github.com/google/flatbuffers/go"

	"Artfi/internal/ledger"
	"Artfi/internal/types"
)

var (
	// ErrAlreadyExists is returned when a fraction id already has a live trophy.
	ErrAlreadyExists = errors.New("fraction already redeemed")

	// ErrNotFound is returned when no entry exists for an object id.
	ErrNotFound = errors.New("registry entry not found")

	// ErrAlreadyCreated is returned when the singleton registry already exists.
	ErrAlreadyCreated = errors.New("registry already created")

	// ErrInconsistent is returned when the two mappings disagree.
	ErrInconsistent = errors.New("registry mappings inconsistent")

	// ErrInvalidHandle is returned when a Registry value was not obtained from
	// Create, Load or Default, or its object no longer exists.
	ErrInvalidHandle = errors.New("invalid registry handle")
)

// Pebble key prefixes for the registry singleton and its two mappings.
var (
	singletonKey        = []byte("r:id")
	attributesKeyPrefix = []byte("a:") // "a:" + object id -> Attributes
	fractionKeyPrefix   = []byte("f:") // "f:" + fraction id u64 BE -> object id
)

// Attributes is the per-trophy record kept by the registry.
type Attributes struct {
	FractionID     uint64 // FractionID is fixed at registration
	ShipmentStatus string // ShipmentStatus is set by admins
}

// Entry pairs an object id with its attributes.
type Entry struct {
	ObjectID   ledger.ObjectID
	Attributes Attributes
}

// Registry is the shared object linking live trophies to fraction ids.
// The object-id -> attributes and fraction-id -> object-id mappings are always
// written in the same transaction, so no committed state has one without the
// other. Serialization of concurrent mutations is the ledger's write lock.
type Registry struct {
	id          ledger.ObjectID // id is the shared registry object id
	name        string          // name is the collection name copied into new trophies
	description string          // description is the collection description
	display     ledger.ObjectID // display is the collection display object
}

// Create publishes the singleton registry as a shared object.
func Create(tx *ledger.Tx, name, description string, display ledger.ObjectID) (*Registry, error) {
	existing, err := tx.Get(singletonKey)
	if err != nil {
		return nil, err
	}

	if existing != nil {
		return nil, ErrAlreadyCreated
	}

	r := &Registry{name: name, description: description, display: display}

	id, err := tx.Create(ledger.KindRegistry, ledger.Address{}, r.encode())
	if err != nil {
		return nil, err
	}
	r.id = id

	if err := tx.Set(singletonKey, id[:]); err != nil {
		return nil, err
	}

	return r, nil
}

// Load reads the registry object with the given id.
func Load(tx *ledger.Tx, id ledger.ObjectID) (*Registry, error) {
	obj, err := tx.SharedObject(id, ledger.KindRegistry)
	if err != nil {
		return nil, err
	}

	r, err := decodeRegistry(obj.Content)
	if err != nil {
		return nil, err
	}
	r.id = id

	return r, nil
}

// Default loads the singleton registry.
func Default(tx *ledger.Tx) (*Registry, error) {
	value, err := tx.Get(singletonKey)
	if err != nil {
		return nil, err
	}

	if len(value) != 32 {
		return nil, fmt.Errorf("%w: registry not created", ledger.ErrNotFound)
	}

	var id ledger.ObjectID
	copy(id[:], value)

	return Load(tx, id)
}

// ID returns the registry object id.
func (r *Registry) ID() ledger.ObjectID {
	return r.id
}

// Name returns the collection name.
func (r *Registry) Name() string {
	return r.name
}

// Description returns the collection description.
func (r *Registry) Description() string {
	return r.description
}

// Display returns the collection display object id.
func (r *Registry) Display() ledger.ObjectID {
	return r.display
}

// SetMetadata replaces the collection name and description.
func (r *Registry) SetMetadata(tx *ledger.Tx, name, description string) error {
	if err := r.check(tx); err != nil {
		return err
	}

	r.name = name
	r.description = description

	return tx.Update(r.id, r.encode())
}

// Register links objID to fractionID in both mappings.
func (r *Registry) Register(tx *ledger.Tx, objID ledger.ObjectID, fractionID uint64) error {
	if err := r.check(tx); err != nil {
		return err
	}

	owner, found, err := r.LookupByFraction(tx, fractionID)
	if err != nil {
		return err
	}

	if found {
		return fmt.Errorf("%w: fraction %d held by %s", ErrAlreadyExists, fractionID, owner)
	}

	_, found, err = r.LookupByID(tx, objID)
	if err != nil {
		return err
	}

	if found {
		return fmt.Errorf("%w: object %s already registered", ErrAlreadyExists, objID)
	}

	attrs := Attributes{FractionID: fractionID}

	if err := tx.Set(attributesKey(objID), encodeAttributes(attrs)); err != nil {
		return err
	}

	return tx.Set(fractionKey(fractionID), objID[:])
}

// Unregister removes objID from the id mapping, then removes the fraction
// entry named by the removed attributes. It returns the removed attributes.
func (r *Registry) Unregister(tx *ledger.Tx, objID ledger.ObjectID) (Attributes, error) {
	if err := r.check(tx); err != nil {
		return Attributes{}, err
	}

	attrs, found, err := r.LookupByID(tx, objID)
	if err != nil {
		return Attributes{}, err
	}

	if !found {
		return Attributes{}, fmt.Errorf("%w: %s", ErrNotFound, objID)
	}

	owner, found, err := r.LookupByFraction(tx, attrs.FractionID)
	if err != nil {
		return Attributes{}, err
	}

	if !found || owner != objID {
		return Attributes{}, fmt.Errorf("%w: fraction %d does not point back to %s", ErrInconsistent, attrs.FractionID, objID)
	}

	if err := tx.Delete(attributesKey(objID)); err != nil {
		return Attributes{}, err
	}

	if err := tx.Delete(fractionKey(attrs.FractionID)); err != nil {
		return Attributes{}, err
	}

	return attrs, nil
}

// UpdateShipmentStatus sets the shipment status of a registered object.
// The fraction id is left untouched.
func (r *Registry) UpdateShipmentStatus(tx *ledger.Tx, objID ledger.ObjectID, status string) error {
	if err := r.check(tx); err != nil {
		return err
	}

	attrs, found, err := r.LookupByID(tx, objID)
	if err != nil {
		return err
	}

	if !found {
		return fmt.Errorf("%w: %s", ErrNotFound, objID)
	}

	attrs.ShipmentStatus = status

	return tx.Set(attributesKey(objID), encodeAttributes(attrs))
}

// LookupByFraction returns the live object registered for fractionID.
func (r *Registry) LookupByFraction(tx *ledger.Tx, fractionID uint64) (ledger.ObjectID, bool, error) {
	value, err := tx.Get(fractionKey(fractionID))
	if err != nil {
		return ledger.ObjectID{}, false, err
	}

	if value == nil {
		return ledger.ObjectID{}, false, nil
	}

	if len(value) != 32 {
		return ledger.ObjectID{}, false, fmt.Errorf("%w: fraction %d value has %d bytes", ledger.ErrCorrupt, fractionID, len(value))
	}

	var id ledger.ObjectID
	copy(id[:], value)

	return id, true, nil
}

// LookupByID returns the attributes registered for objID.
func (r *Registry) LookupByID(tx *ledger.Tx, objID ledger.ObjectID) (Attributes, bool, error) {
	value, err := tx.Get(attributesKey(objID))
	if err != nil {
		return Attributes{}, false, err
	}

	if value == nil {
		return Attributes{}, false, nil
	}

	attrs, err := decodeAttributes(value)
	if err != nil {
		return Attributes{}, false, err
	}

	return attrs, true, nil
}

// Entries returns every registered object in object id order.
func (r *Registry) Entries(tx *ledger.Tx) ([]Entry, error) {
	var entries []Entry

	err := tx.IteratePrefix(attributesKeyPrefix, func(key, value []byte) error {
		if len(key) != len(attributesKeyPrefix)+32 {
			return nil
		}

		attrs, err := decodeAttributes(value)
		if err != nil {
			return err
		}

		var id ledger.ObjectID
		copy(id[:], key[len(attributesKeyPrefix):])

		entries = append(entries, Entry{ObjectID: id, Attributes: attrs})

		return nil
	})
	if err != nil {
		return nil, err
	}

	return entries, nil
}

// Len returns the number of live registrations.
func (r *Registry) Len(tx *ledger.Tx) (int, error) {
	entries, err := r.Entries(tx)
	if err != nil {
		return 0, err
	}

	return len(entries), nil
}

// Verify checks that the two mappings are mutual inverses and that every
// registered object is a live trophy.
func (r *Registry) Verify(tx *ledger.Tx) error {
	entries, err := r.Entries(tx)
	if err != nil {
		return err
	}

	for _, e := range entries {
		owner, found, err := r.LookupByFraction(tx, e.Attributes.FractionID)
		if err != nil {
			return err
		}

		if !found || owner != e.ObjectID {
			return fmt.Errorf("%w: %s maps to fraction %d with no reverse entry", ErrInconsistent, e.ObjectID, e.Attributes.FractionID)
		}

		if _, err := tx.ObjectOf(e.ObjectID, ledger.KindTrophy); err != nil {
			return fmt.Errorf("%w: registered object %s:\n%w", ErrInconsistent, e.ObjectID, err)
		}
	}

	fractions := 0
	err = tx.IteratePrefix(fractionKeyPrefix, func(key, value []byte) error {
		fractions++

		if len(key) != len(fractionKeyPrefix)+8 || len(value) != 32 {
			return fmt.Errorf("%w: malformed fraction entry %x", ErrInconsistent, key)
		}

		return nil
	})
	if err != nil {
		return err
	}

	if fractions != len(entries) {
		return fmt.Errorf("%w: %d fraction entries for %d objects", ErrInconsistent, fractions, len(entries))
	}

	return nil
}

// check rejects handles that do not name the live shared registry object.
func (r *Registry) check(tx *ledger.Tx) error {
	if r == nil || r.id.IsZero() {
		return ErrInvalidHandle
	}

	if _, err := tx.SharedObject(r.id, ledger.KindRegistry); err != nil {
		return fmt.Errorf("%w: %s:\n%w", ErrInvalidHandle, r.id, err)
	}

	return nil
}

// encode serializes the registry content as a FlatBuffers Collection table.
func (r *Registry) encode() []byte {
	builder := flatbuffers.NewBuilder(128)

	nameOff := builder.CreateString(r.name)
	descOff := builder.CreateString(r.description)
	displayVec := builder.CreateByteVector(r.display[:])

	types.CollectionStart(builder)
	types.CollectionAddName(builder, nameOff)
	types.CollectionAddDescription(builder, descOff)
	types.CollectionAddDisplay(builder, displayVec)
	builder.Finish(types.CollectionEnd(builder))

	return builder.FinishedBytes()
}

// decodeRegistry parses registry content.
func decodeRegistry(data []byte) (r *Registry, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			r, err = nil, fmt.Errorf("%w: malformed registry", ledger.ErrCorrupt)
		}
	}()

	fb := types.GetRootAsCollection(data, 0)

	r = &Registry{
		name:        string(fb.Name()),
		description: string(fb.Description()),
	}
	copy(r.display[:], fb.DisplayBytes())

	return r, nil
}

// encodeAttributes serializes attributes as a FlatBuffers Attributes table.
func encodeAttributes(a Attributes) []byte {
	builder := flatbuffers.NewBuilder(64)

	statusOff := builder.CreateString(a.ShipmentStatus)

	types.AttributesStart(builder)
	types.AttributesAddFractionId(builder, a.FractionID)
	types.AttributesAddShipmentStatus(builder, statusOff)
	builder.Finish(types.AttributesEnd(builder))

	return builder.FinishedBytes()
}

// decodeAttributes parses bytes produced by encodeAttributes.
func decodeAttributes(data []byte) (a Attributes, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			a, err = Attributes{}, fmt.Errorf("%w: malformed attributes", ledger.ErrCorrupt)
		}
	}()

	fb := types.GetRootAsAttributes(data, 0)

	return Attributes{
		FractionID:     fb.FractionId(),
		ShipmentStatus: string(fb.ShipmentStatus()),
	}, nil
}

// attributesKey builds "a:" + object id.
func attributesKey(id ledger.ObjectID) []byte {
	key := make([]byte, len(attributesKeyPrefix)+len(id))
	copy(key, attributesKeyPrefix)
	copy(key[len(attributesKeyPrefix):], id[:])

	return key
}

// fractionKey builds "f:" + fraction id big-endian so keys sort numerically.
func fractionKey(fractionID uint64) []byte {
	key := make([]byte, len(fractionKeyPrefix)+8)
	copy(key, fractionKeyPrefix)
	binary.BigEndian.PutUint64(key[len(fractionKeyPrefix):], fractionID)

	return key
}
