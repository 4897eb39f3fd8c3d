package ledger

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"

	"github.com/zeebo/blake3"
)

// Address identifies a principal: the 32-byte Ed25519 public key of the sender.
// The zero address owns shared objects.
type Address [32]byte

// ObjectID is a 32-byte object identifier.
type ObjectID [32]byte

// String returns the hex encoding of the address.
func (a Address) String() string {
	return hex.EncodeToString(a[:])
}

// IsZero reports whether a is the zero (shared) address.
func (a Address) IsZero() bool {
	return a == Address{}
}

// String returns the hex encoding of the id.
func (id ObjectID) String() string {
	return hex.EncodeToString(id[:])
}

// IsZero reports whether id is unset.
func (id ObjectID) IsZero() bool {
	return id == ObjectID{}
}

// ParseAddress decodes a 64-character hex address.
func ParseAddress(s string) (Address, error) {
	var a Address
	if err := decodeHex32(s, a[:]); err != nil {
		return Address{}, fmt.Errorf("parse address:\n%w", err)
	}

	return a, nil
}

// ParseObjectID decodes a 64-character hex object id.
func ParseObjectID(s string) (ObjectID, error) {
	var id ObjectID
	if err := decodeHex32(s, id[:]); err != nil {
		return ObjectID{}, fmt.Errorf("parse object id:\n%w", err)
	}

	return id, nil
}

// decodeHex32 decodes exactly 32 bytes of hex into dst.
func decodeHex32(s string, dst []byte) error {
	b, err := hex.DecodeString(s)
	if err != nil {
		return err
	}

	if len(b) != 32 {
		return fmt.Errorf("invalid length: got %d bytes, want 32", len(b))
	}

	copy(dst, b)

	return nil
}

// Kind tags the content stored in an object envelope.
type Kind byte

const (
	KindUnknown Kind = iota
	KindAdminCap
	KindMinterCap
	KindNFT
	KindTrophy
	KindRegistry
	KindDisplay
)

// Shared reports whether objects of this kind have no owner.
// Every other kind has exactly one owner for its whole life.
func (k Kind) Shared() bool {
	return k == KindRegistry || k == KindDisplay
}

// String returns the lowercase kind name.
func (k Kind) String() string {
	switch k {
	case KindAdminCap:
		return "admin_cap"
	case KindMinterCap:
		return "minter_cap"
	case KindNFT:
		return "nft"
	case KindTrophy:
		return "trophy"
	case KindRegistry:
		return "registry"
	case KindDisplay:
		return "display"
	default:
		return "unknown"
	}
}

// computeDigest derives the transaction digest: blake3(sender || seq_u64_LE).
func computeDigest(sender Address, seq uint64) [32]byte {
	var buf [40]byte
	copy(buf[:32], sender[:])
	binary.LittleEndian.PutUint64(buf[32:], seq)

	return blake3.Sum256(buf[:])
}

// computeObjectID derives the id of the index-th object created by a transaction:
// blake3(digest || index_u32_LE).
func computeObjectID(digest [32]byte, index uint32) ObjectID {
	var buf [36]byte
	copy(buf[:32], digest[:])
	binary.LittleEndian.PutUint32(buf[32:], index)

	return blake3.Sum256(buf[:])
}
