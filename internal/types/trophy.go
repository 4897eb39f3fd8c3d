package types

import (
	flatbuffers "github.com/google/flatbuffers/go"
)

type Trophy struct {
	_tab flatbuffers.Table
}

func GetRootAsTrophy(buf []byte, offset flatbuffers.UOffsetT) *Trophy {
	n := flatbuffers.GetUOffsetT(buf[offset:])
	x := &Trophy{}
	x.Init(buf, n+offset)
	return x
}

func (rcv *Trophy) Init(buf []byte, i flatbuffers.UOffsetT) {
	rcv._tab.Bytes = buf
	rcv._tab.Pos = i
}

func (rcv *Trophy) Table() flatbuffers.Table {
	return rcv._tab
}

func (rcv *Trophy) Name() []byte {
	o := flatbuffers.UOffsetT(rcv._tab.Offset(4))
	if o != 0 {
		return rcv._tab.ByteVector(o + rcv._tab.Pos)
	}
	return nil
}

func (rcv *Trophy) Url() []byte {
	o := flatbuffers.UOffsetT(rcv._tab.Offset(6))
	if o != 0 {
		return rcv._tab.ByteVector(o + rcv._tab.Pos)
	}
	return nil
}

func TrophyStart(builder *flatbuffers.Builder) {
	builder.StartObject(2)
}

func TrophyAddName(builder *flatbuffers.Builder, name flatbuffers.UOffsetT) {
	builder.PrependUOffsetTSlot(0, flatbuffers.UOffsetT(name), 0)
}

func TrophyAddUrl(builder *flatbuffers.Builder, url flatbuffers.UOffsetT) {
	builder.PrependUOffsetTSlot(1, flatbuffers.UOffsetT(url), 0)
}

func TrophyEnd(builder *flatbuffers.Builder) flatbuffers.UOffsetT {
	return builder.EndObject()
}

type Attributes struct {
	_tab flatbuffers.Table
}

func GetRootAsAttributes(buf []byte, offset flatbuffers.UOffsetT) *Attributes {
	n := flatbuffers.GetUOffsetT(buf[offset:])
	x := &Attributes{}
	x.Init(buf, n+offset)
	return x
}

func (rcv *Attributes) Init(buf []byte, i flatbuffers.UOffsetT) {
	rcv._tab.Bytes = buf
	rcv._tab.Pos = i
}

func (rcv *Attributes) Table() flatbuffers.Table {
	return rcv._tab
}

func (rcv *Attributes) FractionId() uint64 {
	o := flatbuffers.UOffsetT(rcv._tab.Offset(4))
	if o != 0 {
		return rcv._tab.GetUint64(o + rcv._tab.Pos)
	}
	return 0
}

func (rcv *Attributes) ShipmentStatus() []byte {
	o := flatbuffers.UOffsetT(rcv._tab.Offset(6))
	if o != 0 {
		return rcv._tab.ByteVector(o + rcv._tab.Pos)
	}
	return nil
}

func AttributesStart(builder *flatbuffers.Builder) {
	builder.StartObject(2)
}

func AttributesAddFractionId(builder *flatbuffers.Builder, fractionId uint64) {
	builder.PrependUint64Slot(0, fractionId, 0)
}

func AttributesAddShipmentStatus(builder *flatbuffers.Builder, shipmentStatus flatbuffers.UOffsetT) {
	builder.PrependUOffsetTSlot(1, flatbuffers.UOffsetT(shipmentStatus), 0)
}

func AttributesEnd(builder *flatbuffers.Builder) flatbuffers.UOffsetT {
	return builder.EndObject()
}

type Collection struct {
	_tab flatbuffers.Table
}

func GetRootAsCollection(buf []byte, offset flatbuffers.UOffsetT) *Collection {
	n := flatbuffers.GetUOffsetT(buf[offset:])
	x := &Collection{}
	x.Init(buf, n+offset)
	return x
}

func (rcv *Collection) Init(buf []byte, i flatbuffers.UOffsetT) {
	rcv._tab.Bytes = buf
	rcv._tab.Pos = i
}

func (rcv *Collection) Table() flatbuffers.Table {
	return rcv._tab
}

func (rcv *Collection) Name() []byte {
	o := flatbuffers.UOffsetT(rcv._tab.Offset(4))
	if o != 0 {
		return rcv._tab.ByteVector(o + rcv._tab.Pos)
	}
	return nil
}

func (rcv *Collection) Description() []byte {
	o := flatbuffers.UOffsetT(rcv._tab.Offset(6))
	if o != 0 {
		return rcv._tab.ByteVector(o + rcv._tab.Pos)
	}
	return nil
}

func (rcv *Collection) Display(j int) byte {
	o := flatbuffers.UOffsetT(rcv._tab.Offset(8))
	if o != 0 {
		a := rcv._tab.Vector(o)
		return rcv._tab.GetByte(a + flatbuffers.UOffsetT(j*1))
	}
	return 0
}

func (rcv *Collection) DisplayLength() int {
	o := flatbuffers.UOffsetT(rcv._tab.Offset(8))
	if o != 0 {
		return rcv._tab.VectorLen(o)
	}
	return 0
}

func (rcv *Collection) DisplayBytes() []byte {
	o := flatbuffers.UOffsetT(rcv._tab.Offset(8))
	if o != 0 {
		return rcv._tab.ByteVector(o + rcv._tab.Pos)
	}
	return nil
}

func CollectionStart(builder *flatbuffers.Builder) {
	builder.StartObject(3)
}

func CollectionAddName(builder *flatbuffers.Builder, name flatbuffers.UOffsetT) {
	builder.PrependUOffsetTSlot(0, flatbuffers.UOffsetT(name), 0)
}

func CollectionAddDescription(builder *flatbuffers.Builder, description flatbuffers.UOffsetT) {
	builder.PrependUOffsetTSlot(1, flatbuffers.UOffsetT(description), 0)
}

func CollectionAddDisplay(builder *flatbuffers.Builder, display flatbuffers.UOffsetT) {
	builder.PrependUOffsetTSlot(2, flatbuffers.UOffsetT(display), 0)
}

func CollectionStartDisplayVector(builder *flatbuffers.Builder, numElems int) flatbuffers.UOffsetT {
	return builder.StartVector(1, numElems, 1)
}

func CollectionEnd(builder *flatbuffers.Builder) flatbuffers.UOffsetT {
	return builder.EndObject()
}
