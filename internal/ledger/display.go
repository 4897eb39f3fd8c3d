package ledger

import (
	"fmt"

	flatbuffers "github.com/google/flatbuffers/go"

	"Artfi/internal/types"
)

// EventDisplayUpdated is emitted each time a display's version is bumped.
const EventDisplayUpdated = "display_updated"

// DisplayField is one explorer-facing key/value pair.
type DisplayField struct {
	Key   string
	Value string
}

// Display holds the explorer metadata of one object kind. Every update bumps
// Version; earlier versions are not retained.
type Display struct {
	ID      ObjectID       // ID is the display object id
	Kind    string         // Kind names the described object type
	Version uint64         // Version counts published updates
	Fields  []DisplayField // Fields are kept in insertion order
}

// Field returns the value for key, or "" if unset.
func (d *Display) Field(key string) string {
	for _, f := range d.Fields {
		if f.Key == key {
			return f.Value
		}
	}

	return ""
}

// set overwrites key in place or appends it.
func (d *Display) set(key, value string) {
	for i := range d.Fields {
		if d.Fields[i].Key == key {
			d.Fields[i].Value = value
			return
		}
	}

	d.Fields = append(d.Fields, DisplayField{Key: key, Value: value})
}

// CreateDisplay publishes a shared display for kind at version 1.
func (tx *Tx) CreateDisplay(kind string, fields []DisplayField) (*Display, error) {
	d := &Display{Kind: kind, Version: 1}
	for _, f := range fields {
		d.set(f.Key, f.Value)
	}

	id, err := tx.Create(KindDisplay, Address{}, encodeDisplay(d))
	if err != nil {
		return nil, err
	}
	d.ID = id

	tx.Emit(EventDisplayUpdated, id, A("kind", kind), A("version", d.Version))

	return d, nil
}

// LoadDisplay reads a display object.
func (tx *Tx) LoadDisplay(id ObjectID) (*Display, error) {
	obj, err := tx.SharedObject(id, KindDisplay)
	if err != nil {
		return nil, err
	}

	d, err := decodeDisplay(obj.Content)
	if err != nil {
		return nil, err
	}
	d.ID = id

	return d, nil
}

// UpdateDisplay sets the given fields, keeping the others, and bumps the version.
// Authorization is the caller's responsibility.
func (tx *Tx) UpdateDisplay(id ObjectID, fields []DisplayField) (*Display, error) {
	d, err := tx.LoadDisplay(id)
	if err != nil {
		return nil, err
	}

	for _, f := range fields {
		d.set(f.Key, f.Value)
	}
	d.Version++

	if err := tx.Update(id, encodeDisplay(d)); err != nil {
		return nil, fmt.Errorf("update display:\n%w", err)
	}

	tx.Emit(EventDisplayUpdated, id, A("kind", d.Kind), A("version", d.Version))

	return d, nil
}

// encodeDisplay serializes a display as a FlatBuffers Display table.
func encodeDisplay(d *Display) []byte {
	builder := flatbuffers.NewBuilder(256)

	fieldOffsets := make([]flatbuffers.UOffsetT, len(d.Fields))
	for i, f := range d.Fields {
		keyOff := builder.CreateString(f.Key)
		valOff := builder.CreateString(f.Value)

		types.DisplayFieldStart(builder)
		types.DisplayFieldAddKey(builder, keyOff)
		types.DisplayFieldAddValue(builder, valOff)
		fieldOffsets[i] = types.DisplayFieldEnd(builder)
	}

	types.DisplayStartFieldsVector(builder, len(fieldOffsets))
	for i := len(fieldOffsets) - 1; i >= 0; i-- {
		builder.PrependUOffsetT(fieldOffsets[i])
	}
	fieldsVec := builder.EndVector(len(fieldOffsets))

	kindOff := builder.CreateString(d.Kind)

	types.DisplayStart(builder)
	types.DisplayAddKind(builder, kindOff)
	types.DisplayAddVersion(builder, d.Version)
	types.DisplayAddFields(builder, fieldsVec)
	builder.Finish(types.DisplayEnd(builder))

	return builder.FinishedBytes()
}

// decodeDisplay parses bytes produced by encodeDisplay.
func decodeDisplay(data []byte) (d *Display, err error) {
	defer func() {
		if r := recover(); r != nil {
			d, err = nil, fmt.Errorf("%w: malformed display", ErrCorrupt)
		}
	}()

	if len(data) < 8 {
		return nil, fmt.Errorf("%w: display too short", ErrCorrupt)
	}

	fb := types.GetRootAsDisplay(data, 0)

	d = &Display{
		Kind:    string(fb.Kind()),
		Version: fb.Version(),
	}

	var field types.DisplayField
	for i := 0; i < fb.FieldsLength(); i++ {
		if !fb.Fields(&field, i) {
			continue
		}

		d.Fields = append(d.Fields, DisplayField{Key: string(field.Key()), Value: string(field.Value())})
	}

	return d, nil
}
