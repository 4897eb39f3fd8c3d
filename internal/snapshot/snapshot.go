package snapshot

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"sort"

	flatbuffers "github.com/google/flatbuffers/go"
	"github.com/klauspost/compress/zstd"
	"github.com/zeebo/blake3"

	"Artfi/internal/events"
	"Artfi/internal/ledger"
	"Artfi/internal/registry"
	"Artfi/internal/storage"
	"Artfi/internal/types"
)

const (
	// snapshotVersion is the current snapshot format version.
	snapshotVersion = 1
)

var (
	// ErrChecksum is returned when a snapshot's checksum does not match its content.
	ErrChecksum = errors.New("snapshot checksum mismatch")

	// ErrVersion is returned for snapshots written by an unknown format version.
	ErrVersion = errors.New("unsupported snapshot version")
)

// Info describes a snapshot.
type Info struct {
	Version  uint32   // Version is the format version
	Sequence uint64   // Sequence is the ledger sequence at capture
	Entries  int      // Entries is the number of state keys
	Checksum [32]byte // Checksum is the blake3 digest over the canonical content
}

// entry holds one state key and its value.
type entry struct {
	key   []byte
	value []byte
}

// Create captures the committed ledger state as a compressed snapshot.
// The event journal is not part of the state and is skipped.
func Create(l *ledger.Ledger) ([]byte, *Info, error) {
	var (
		entries []entry
		seq     uint64
	)

	err := l.View(func(tx *ledger.Tx) error {
		seq = tx.Sequence()

		return tx.IteratePrefix(nil, func(key, value []byte) error {
			if events.IsJournalKey(key) {
				return nil
			}

			// Copy key and value to avoid iterator invalidation
			entries = append(entries, entry{
				key:   bytes.Clone(key),
				value: bytes.Clone(value),
			})

			return nil
		})
	})
	if err != nil {
		return nil, nil, fmt.Errorf("collect state:\n%w", err)
	}

	data, info := build(seq, entries)

	compressed, err := compress(data)
	if err != nil {
		return nil, nil, err
	}

	return compressed, info, nil
}

// Restore loads a compressed snapshot into an empty ledger. The checksum and
// the registry mappings are verified before anything is committed.
func Restore(l *ledger.Ledger, compressed []byte) (*Info, error) {
	entries, info, err := load(compressed)
	if err != nil {
		return nil, err
	}

	pairs := make([]storage.KeyValue, len(entries))
	for i, e := range entries {
		pairs[i] = storage.KeyValue{Key: e.key, Value: e.value}
	}

	if err := l.Import(pairs, verifyRegistry); err != nil {
		return nil, fmt.Errorf("import snapshot:\n%w", err)
	}

	return info, nil
}

// Inspect decompresses a snapshot and verifies its checksum.
func Inspect(compressed []byte) (*Info, error) {
	_, info, err := load(compressed)

	return info, err
}

// load decompresses a snapshot and returns its verified entries.
func load(compressed []byte) ([]entry, *Info, error) {
	data, err := decompress(compressed)
	if err != nil {
		return nil, nil, err
	}

	return parse(data)
}

// verifyRegistry checks the registry mappings of staged state, if a registry exists.
func verifyRegistry(tx *ledger.Tx) error {
	reg, err := registry.Default(tx)
	if errors.Is(err, ledger.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	return reg.Verify(tx)
}

// build sorts entries and encodes the FlatBuffers snapshot with its checksum.
func build(seq uint64, entries []entry) ([]byte, *Info) {
	sortEntries(entries)

	checksum := computeChecksum(snapshotVersion, seq, entries)

	info := &Info{
		Version:  snapshotVersion,
		Sequence: seq,
		Entries:  len(entries),
		Checksum: checksum,
	}

	return encode(snapshotVersion, seq, entries, checksum), info
}

// encode writes the FlatBuffers Snapshot table.
func encode(version uint32, seq uint64, entries []entry, checksum [32]byte) []byte {
	builder := flatbuffers.NewBuilder(1024)

	offsets := make([]flatbuffers.UOffsetT, len(entries))
	for i, e := range entries {
		keyOff := builder.CreateByteVector(e.key)
		valueOff := builder.CreateByteVector(e.value)

		types.SnapshotEntryStart(builder)
		types.SnapshotEntryAddKey(builder, keyOff)
		types.SnapshotEntryAddValue(builder, valueOff)
		offsets[i] = types.SnapshotEntryEnd(builder)
	}

	types.SnapshotStartEntriesVector(builder, len(offsets))
	for i := len(offsets) - 1; i >= 0; i-- {
		builder.PrependUOffsetT(offsets[i])
	}
	entriesVec := builder.EndVector(len(offsets))

	checksumOff := builder.CreateByteVector(checksum[:])

	types.SnapshotStart(builder)
	types.SnapshotAddVersion(builder, version)
	types.SnapshotAddSequence(builder, seq)
	types.SnapshotAddEntries(builder, entriesVec)
	types.SnapshotAddChecksum(builder, checksumOff)
	builder.Finish(types.SnapshotEnd(builder))

	return builder.FinishedBytes()
}

// parse decodes a snapshot and verifies its checksum.
func parse(data []byte) (entries []entry, info *Info, err error) {
	defer func() {
		if r := recover(); r != nil {
			entries, info, err = nil, nil, fmt.Errorf("%w: malformed snapshot", ledger.ErrCorrupt)
		}
	}()

	snap := types.GetRootAsSnapshot(data, 0)

	if snap.Version() != snapshotVersion {
		return nil, nil, fmt.Errorf("%w: %d", ErrVersion, snap.Version())
	}

	stored := snap.ChecksumBytes()
	if len(stored) != 32 {
		return nil, nil, fmt.Errorf("%w: checksum has %d bytes", ErrChecksum, len(stored))
	}

	entries = make([]entry, snap.EntriesLength())
	var e types.SnapshotEntry

	for i := range entries {
		if !snap.Entries(&e, i) {
			return nil, nil, fmt.Errorf("read entry %d", i)
		}

		// Copy bytes out of the FlatBuffers buffer
		entries[i] = entry{
			key:   bytes.Clone(e.KeyBytes()),
			value: bytes.Clone(e.ValueBytes()),
		}
	}

	sortEntries(entries)
	computed := computeChecksum(snap.Version(), snap.Sequence(), entries)

	if !bytes.Equal(computed[:], stored) {
		return nil, nil, ErrChecksum
	}

	info = &Info{
		Version:  snap.Version(),
		Sequence: snap.Sequence(),
		Entries:  len(entries),
		Checksum: computed,
	}

	return entries, info, nil
}

// sortEntries sorts entries by key for deterministic ordering.
func sortEntries(entries []entry) {
	sort.Slice(entries, func(i, j int) bool {
		return bytes.Compare(entries[i].key, entries[j].key) < 0
	})
}

// computeChecksum computes a blake3 checksum over canonical snapshot data.
// Format: version (4 bytes) + sequence (8 bytes) + for each entry:
// key_len (4 bytes) + key + value_len (4 bytes) + value
func computeChecksum(version uint32, seq uint64, entries []entry) [32]byte {
	hasher := blake3.New()

	var buf [8]byte
	binary.BigEndian.PutUint32(buf[:4], version)
	hasher.Write(buf[:4])

	binary.BigEndian.PutUint64(buf[:], seq)
	hasher.Write(buf[:])

	for _, e := range entries {
		binary.BigEndian.PutUint32(buf[:4], uint32(len(e.key)))
		hasher.Write(buf[:4])
		hasher.Write(e.key)

		binary.BigEndian.PutUint32(buf[:4], uint32(len(e.value)))
		hasher.Write(buf[:4])
		hasher.Write(e.value)
	}

	var checksum [32]byte
	hasher.Sum(checksum[:0])

	return checksum
}

// compress compresses snapshot data using zstd.
func compress(data []byte) ([]byte, error) {
	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("create encoder:\n%w", err)
	}
	defer encoder.Close()

	return encoder.EncodeAll(data, nil), nil
}

// decompress decompresses zstd-compressed snapshot data.
func decompress(data []byte) ([]byte, error) {
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("create decoder:\n%w", err)
	}
	defer decoder.Close()

	out, err := decoder.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("decompress:\n%w", err)
	}

	return out, nil
}
