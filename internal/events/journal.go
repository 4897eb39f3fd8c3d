package events

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"Artfi/internal/ledger"
	"Artfi/internal/logger"
	"Artfi/internal/storage"
)

// journalKeyPrefix is the Pebble key prefix for journal entries.
var journalKeyPrefix = []byte("e:")

// Journal persists committed events in Pebble, ordered by
// (sequence, index). Writes are fire-and-forget: a failed write is logged and
// never fails the transaction that emitted the event.
type Journal struct {
	db *storage.Storage // db is the underlying Pebble storage
}

// NewJournal creates a journal backed by the given storage.
func NewJournal(db *storage.Storage) *Journal {
	return &Journal{db: db}
}

// Emit stores one event.
func (j *Journal) Emit(ev ledger.Event) {
	if err := j.db.Set(journalKey(ev.Sequence, ev.Index), ledger.EncodeEvent(ev)); err != nil {
		logger.Warn("journal write failed", "seq", ev.Sequence, "kind", ev.Kind, "error", err)
	}
}

// Since returns every stored event emitted at or after sequence seq.
func (j *Journal) Since(seq uint64) ([]ledger.Event, error) {
	var out []ledger.Event

	err := j.db.IteratePrefix(journalKeyPrefix, func(key, value []byte) error {
		if len(key) != len(journalKeyPrefix)+12 {
			return nil
		}

		if binary.BigEndian.Uint64(key[len(journalKeyPrefix):]) < seq {
			return nil
		}

		ev, err := ledger.DecodeEvent(value)
		if err != nil {
			return fmt.Errorf("decode event %x:\n%w", key, err)
		}

		out = append(out, ev)

		return nil
	})
	if err != nil {
		return nil, err
	}

	return out, nil
}

// IsJournalKey reports whether a raw storage key belongs to the journal.
func IsJournalKey(key []byte) bool {
	return bytes.HasPrefix(key, journalKeyPrefix)
}

// journalKey builds "e:" + seq_u64_BE + index_u32_BE so keys sort in emit order.
func journalKey(seq uint64, index uint32) []byte {
	key := make([]byte, len(journalKeyPrefix)+12)
	copy(key, journalKeyPrefix)
	binary.BigEndian.PutUint64(key[len(journalKeyPrefix):], seq)
	binary.BigEndian.PutUint32(key[len(journalKeyPrefix)+8:], index)

	return key
}
