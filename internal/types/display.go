package types

import (
	flatbuffers "github.com/google/flatbuffers/go"
)

type DisplayField struct {
	_tab flatbuffers.Table
}

func GetRootAsDisplayField(buf []byte, offset flatbuffers.UOffsetT) *DisplayField {
	n := flatbuffers.GetUOffsetT(buf[offset:])
	x := &DisplayField{}
	x.Init(buf, n+offset)
	return x
}

func (rcv *DisplayField) Init(buf []byte, i flatbuffers.UOffsetT) {
	rcv._tab.Bytes = buf
	rcv._tab.Pos = i
}

func (rcv *DisplayField) Table() flatbuffers.Table {
	return rcv._tab
}

func (rcv *DisplayField) Key() []byte {
	o := flatbuffers.UOffsetT(rcv._tab.Offset(4))
	if o != 0 {
		return rcv._tab.ByteVector(o + rcv._tab.Pos)
	}
	return nil
}

func (rcv *DisplayField) Value() []byte {
	o := flatbuffers.UOffsetT(rcv._tab.Offset(6))
	if o != 0 {
		return rcv._tab.ByteVector(o + rcv._tab.Pos)
	}
	return nil
}

func DisplayFieldStart(builder *flatbuffers.Builder) {
	builder.StartObject(2)
}

func DisplayFieldAddKey(builder *flatbuffers.Builder, key flatbuffers.UOffsetT) {
	builder.PrependUOffsetTSlot(0, flatbuffers.UOffsetT(key), 0)
}

func DisplayFieldAddValue(builder *flatbuffers.Builder, value flatbuffers.UOffsetT) {
	builder.PrependUOffsetTSlot(1, flatbuffers.UOffsetT(value), 0)
}

func DisplayFieldEnd(builder *flatbuffers.Builder) flatbuffers.UOffsetT {
	return builder.EndObject()
}

type Display struct {
	_tab flatbuffers.Table
}

func GetRootAsDisplay(buf []byte, offset flatbuffers.UOffsetT) *Display {
	n := flatbuffers.GetUOffsetT(buf[offset:])
	x := &Display{}
	x.Init(buf, n+offset)
	return x
}

func (rcv *Display) Init(buf []byte, i flatbuffers.UOffsetT) {
	rcv._tab.Bytes = buf
	rcv._tab.Pos = i
}

func (rcv *Display) Table() flatbuffers.Table {
	return rcv._tab
}

func (rcv *Display) Kind() []byte {
	o := flatbuffers.UOffsetT(rcv._tab.Offset(4))
	if o != 0 {
		return rcv._tab.ByteVector(o + rcv._tab.Pos)
	}
	return nil
}

func (rcv *Display) Version() uint64 {
	o := flatbuffers.UOffsetT(rcv._tab.Offset(6))
	if o != 0 {
		return rcv._tab.GetUint64(o + rcv._tab.Pos)
	}
	return 0
}

func (rcv *Display) Fields(obj *DisplayField, j int) bool {
	o := flatbuffers.UOffsetT(rcv._tab.Offset(8))
	if o != 0 {
		x := rcv._tab.Vector(o)
		x += flatbuffers.UOffsetT(j) * 4
		x = rcv._tab.Indirect(x)
		obj.Init(rcv._tab.Bytes, x)
		return true
	}
	return false
}

func (rcv *Display) FieldsLength() int {
	o := flatbuffers.UOffsetT(rcv._tab.Offset(8))
	if o != 0 {
		return rcv._tab.VectorLen(o)
	}
	return 0
}

func DisplayStart(builder *flatbuffers.Builder) {
	builder.StartObject(3)
}

func DisplayAddKind(builder *flatbuffers.Builder, kind flatbuffers.UOffsetT) {
	builder.PrependUOffsetTSlot(0, flatbuffers.UOffsetT(kind), 0)
}

func DisplayAddVersion(builder *flatbuffers.Builder, version uint64) {
	builder.PrependUint64Slot(1, version, 0)
}

func DisplayAddFields(builder *flatbuffers.Builder, fields flatbuffers.UOffsetT) {
	builder.PrependUOffsetTSlot(2, flatbuffers.UOffsetT(fields), 0)
}

func DisplayStartFieldsVector(builder *flatbuffers.Builder, numElems int) flatbuffers.UOffsetT {
	return builder.StartVector(4, numElems, 4)
}

func DisplayEnd(builder *flatbuffers.Builder) flatbuffers.UOffsetT {
	return builder.EndObject()
}
