package ledger

import (
	"fmt"

	flatbuffers "github.com/google/flatbuffers/go"

	"Artfi/internal/types"
)

// Attr is one key/value pair carried by an event.
type Attr struct {
	Key   string
	Value string
}

// A builds an Attr, formatting value with %v.
func A(key string, value any) Attr {
	switch v := value.(type) {
	case string:
		return Attr{Key: key, Value: v}
	case fmt.Stringer:
		return Attr{Key: key, Value: v.String()}
	default:
		return Attr{Key: key, Value: fmt.Sprint(v)}
	}
}

// Event is a notification emitted by a committed transaction.
type Event struct {
	Kind     string   // Kind names the event, e.g. "trophy_minted"
	Sequence uint64   // Sequence is the emitting transaction's sequence
	Index    uint32   // Index is the position within the transaction
	Sender   Address  // Sender is the transaction sender
	ObjectID ObjectID // ObjectID is the primary object concerned
	Attrs    []Attr   // Attrs carries kind-specific fields
}

// Attr returns the value of the named attribute, or "" if absent.
func (e Event) Attr(key string) string {
	for _, a := range e.Attrs {
		if a.Key == key {
			return a.Value
		}
	}

	return ""
}

// EncodeEvent serializes an event as a FlatBuffers Event table.
func EncodeEvent(e Event) []byte {
	builder := flatbuffers.NewBuilder(256)

	attrOffsets := make([]flatbuffers.UOffsetT, len(e.Attrs))
	for i, a := range e.Attrs {
		keyOff := builder.CreateString(a.Key)
		valOff := builder.CreateString(a.Value)

		types.EventAttrStart(builder)
		types.EventAttrAddKey(builder, keyOff)
		types.EventAttrAddValue(builder, valOff)
		attrOffsets[i] = types.EventAttrEnd(builder)
	}

	types.EventStartAttrsVector(builder, len(attrOffsets))
	for i := len(attrOffsets) - 1; i >= 0; i-- {
		builder.PrependUOffsetT(attrOffsets[i])
	}
	attrsVec := builder.EndVector(len(attrOffsets))

	kindOff := builder.CreateString(e.Kind)
	senderVec := builder.CreateByteVector(e.Sender[:])
	objectVec := builder.CreateByteVector(e.ObjectID[:])

	types.EventStart(builder)
	types.EventAddKind(builder, kindOff)
	types.EventAddSequence(builder, e.Sequence)
	types.EventAddIndex(builder, e.Index)
	types.EventAddSender(builder, senderVec)
	types.EventAddObjectId(builder, objectVec)
	types.EventAddAttrs(builder, attrsVec)
	builder.Finish(types.EventEnd(builder))

	return builder.FinishedBytes()
}

// DecodeEvent parses bytes produced by EncodeEvent.
func DecodeEvent(data []byte) (e Event, err error) {
	// FlatBuffers panics on malformed data, recover gracefully
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: malformed event", ErrCorrupt)
		}
	}()

	if len(data) < 8 {
		return Event{}, fmt.Errorf("%w: event too short", ErrCorrupt)
	}

	fb := types.GetRootAsEvent(data, 0)

	e = Event{
		Kind:     string(fb.Kind()),
		Sequence: fb.Sequence(),
		Index:    fb.Index(),
	}
	copy(e.Sender[:], fb.SenderBytes())
	copy(e.ObjectID[:], fb.ObjectIdBytes())

	var attr types.EventAttr
	for i := 0; i < fb.AttrsLength(); i++ {
		if !fb.Attrs(&attr, i) {
			continue
		}

		e.Attrs = append(e.Attrs, Attr{Key: string(attr.Key()), Value: string(attr.Value())})
	}

	return e, nil
}
