package types

import (
	flatbuffers "github.com/google/flatbuffers/go"
)

type Royalty struct {
	_tab flatbuffers.Table
}

func GetRootAsRoyalty(buf []byte, offset flatbuffers.UOffsetT) *Royalty {
	n := flatbuffers.GetUOffsetT(buf[offset:])
	x := &Royalty{}
	x.Init(buf, n+offset)
	return x
}

func (rcv *Royalty) Init(buf []byte, i flatbuffers.UOffsetT) {
	rcv._tab.Bytes = buf
	rcv._tab.Pos = i
}

func (rcv *Royalty) Table() flatbuffers.Table {
	return rcv._tab
}

func (rcv *Royalty) Artfi() uint64 {
	o := flatbuffers.UOffsetT(rcv._tab.Offset(4))
	if o != 0 {
		return rcv._tab.GetUint64(o + rcv._tab.Pos)
	}
	return 0
}

func (rcv *Royalty) Artist() uint64 {
	o := flatbuffers.UOffsetT(rcv._tab.Offset(6))
	if o != 0 {
		return rcv._tab.GetUint64(o + rcv._tab.Pos)
	}
	return 0
}

func (rcv *Royalty) StakingContract() uint64 {
	o := flatbuffers.UOffsetT(rcv._tab.Offset(8))
	if o != 0 {
		return rcv._tab.GetUint64(o + rcv._tab.Pos)
	}
	return 0
}

func RoyaltyStart(builder *flatbuffers.Builder) {
	builder.StartObject(3)
}

func RoyaltyAddArtfi(builder *flatbuffers.Builder, artfi uint64) {
	builder.PrependUint64Slot(0, artfi, 0)
}

func RoyaltyAddArtist(builder *flatbuffers.Builder, artist uint64) {
	builder.PrependUint64Slot(1, artist, 0)
}

func RoyaltyAddStakingContract(builder *flatbuffers.Builder, stakingContract uint64) {
	builder.PrependUint64Slot(2, stakingContract, 0)
}

func RoyaltyEnd(builder *flatbuffers.Builder) flatbuffers.UOffsetT {
	return builder.EndObject()
}

type Nft struct {
	_tab flatbuffers.Table
}

func GetRootAsNft(buf []byte, offset flatbuffers.UOffsetT) *Nft {
	n := flatbuffers.GetUOffsetT(buf[offset:])
	x := &Nft{}
	x.Init(buf, n+offset)
	return x
}

func (rcv *Nft) Init(buf []byte, i flatbuffers.UOffsetT) {
	rcv._tab.Bytes = buf
	rcv._tab.Pos = i
}

func (rcv *Nft) Table() flatbuffers.Table {
	return rcv._tab
}

func (rcv *Nft) FractionId() uint64 {
	o := flatbuffers.UOffsetT(rcv._tab.Offset(4))
	if o != 0 {
		return rcv._tab.GetUint64(o + rcv._tab.Pos)
	}
	return 0
}

func (rcv *Nft) Name() []byte {
	o := flatbuffers.UOffsetT(rcv._tab.Offset(6))
	if o != 0 {
		return rcv._tab.ByteVector(o + rcv._tab.Pos)
	}
	return nil
}

func (rcv *Nft) Description() []byte {
	o := flatbuffers.UOffsetT(rcv._tab.Offset(8))
	if o != 0 {
		return rcv._tab.ByteVector(o + rcv._tab.Pos)
	}
	return nil
}

func (rcv *Nft) Url() []byte {
	o := flatbuffers.UOffsetT(rcv._tab.Offset(10))
	if o != 0 {
		return rcv._tab.ByteVector(o + rcv._tab.Pos)
	}
	return nil
}

func (rcv *Nft) Royalty(obj *Royalty) *Royalty {
	o := flatbuffers.UOffsetT(rcv._tab.Offset(12))
	if o != 0 {
		x := rcv._tab.Indirect(o + rcv._tab.Pos)
		if obj == nil {
			obj = new(Royalty)
		}
		obj.Init(rcv._tab.Bytes, x)
		return obj
	}
	return nil
}

func (rcv *Nft) Creator(j int) byte {
	o := flatbuffers.UOffsetT(rcv._tab.Offset(14))
	if o != 0 {
		a := rcv._tab.Vector(o)
		return rcv._tab.GetByte(a + flatbuffers.UOffsetT(j*1))
	}
	return 0
}

func (rcv *Nft) CreatorLength() int {
	o := flatbuffers.UOffsetT(rcv._tab.Offset(14))
	if o != 0 {
		return rcv._tab.VectorLen(o)
	}
	return 0
}

func (rcv *Nft) CreatorBytes() []byte {
	o := flatbuffers.UOffsetT(rcv._tab.Offset(14))
	if o != 0 {
		return rcv._tab.ByteVector(o + rcv._tab.Pos)
	}
	return nil
}

func NftStart(builder *flatbuffers.Builder) {
	builder.StartObject(6)
}

func NftAddFractionId(builder *flatbuffers.Builder, fractionId uint64) {
	builder.PrependUint64Slot(0, fractionId, 0)
}

func NftAddName(builder *flatbuffers.Builder, name flatbuffers.UOffsetT) {
	builder.PrependUOffsetTSlot(1, flatbuffers.UOffsetT(name), 0)
}

func NftAddDescription(builder *flatbuffers.Builder, description flatbuffers.UOffsetT) {
	builder.PrependUOffsetTSlot(2, flatbuffers.UOffsetT(description), 0)
}

func NftAddUrl(builder *flatbuffers.Builder, url flatbuffers.UOffsetT) {
	builder.PrependUOffsetTSlot(3, flatbuffers.UOffsetT(url), 0)
}

func NftAddRoyalty(builder *flatbuffers.Builder, royalty flatbuffers.UOffsetT) {
	builder.PrependUOffsetTSlot(4, flatbuffers.UOffsetT(royalty), 0)
}

func NftAddCreator(builder *flatbuffers.Builder, creator flatbuffers.UOffsetT) {
	builder.PrependUOffsetTSlot(5, flatbuffers.UOffsetT(creator), 0)
}

func NftStartCreatorVector(builder *flatbuffers.Builder, numElems int) flatbuffers.UOffsetT {
	return builder.StartVector(1, numElems, 1)
}

func NftEnd(builder *flatbuffers.Builder) flatbuffers.UOffsetT {
	return builder.EndObject()
}
