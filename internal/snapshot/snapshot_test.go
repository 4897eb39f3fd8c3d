package snapshot

import (
	"errors"
	"path/filepath"
	"testing"

	"Artfi/internal/events"
	"Artfi/internal/ledger"
	"Artfi/internal/nft"
	"Artfi/internal/registry"
	"Artfi/internal/storage"
	"Artfi/internal/trophy"
)

var (
	admin = ledger.Address{0xAD}
	alice = ledger.Address{0xA1}
)

// newTestLedger creates a ledger over a temporary Pebble store with a journal sink.
func newTestLedger(t *testing.T) *ledger.Ledger {
	t.Helper()

	db, err := storage.New(filepath.Join(t.TempDir(), "db"))
	if err != nil {
		t.Fatalf("failed to create storage: %v", err)
	}

	t.Cleanup(func() {
		db.Close()
	})

	return ledger.New(db, events.NewJournal(db))
}

// populate initializes a collection and redeems one trophy for fraction 42.
func populate(t *testing.T, l *ledger.Ledger) (regID, trophyID ledger.ObjectID) {
	t.Helper()

	var col *trophy.Collection
	err := l.Execute(admin, func(tx *ledger.Tx) error {
		var err error
		col, err = trophy.Init(tx, "Trophies", "Redeemed")
		if err != nil {
			return err
		}

		_, err = nft.Mint(tx, col.Minter, "Piece", "", "u", alice, 42, nft.Royalty{Artist: 100})
		return err
	})
	if err != nil {
		t.Fatalf("setup failed: %v", err)
	}

	err = l.Execute(alice, func(tx *ledger.Tx) error {
		owned, err := tx.ObjectsOwnedBy(alice, ledger.KindNFT)
		if err != nil {
			return err
		}

		tr, err := trophy.MintTrophy(tx, col.Registry, owned[0].ID, "t")
		if err != nil {
			return err
		}
		trophyID = tr.ID
		return nil
	})
	if err != nil {
		t.Fatalf("redeem failed: %v", err)
	}

	return col.Registry.ID(), trophyID
}

// TestCreateRestore verifies state and sequence survive a round trip into a fresh ledger.
func TestCreateRestore(t *testing.T) {
	src := newTestLedger(t)
	regID, trophyID := populate(t, src)

	data, info, err := Create(src)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if info.Sequence != 2 || info.Entries == 0 {
		t.Errorf("unexpected info: %+v", info)
	}

	inspected, err := Inspect(data)
	if err != nil {
		t.Fatalf("Inspect failed: %v", err)
	}
	if *inspected != *info {
		t.Errorf("Inspect: got %+v, want %+v", inspected, info)
	}

	dst := newTestLedger(t)
	if _, err := Restore(dst, data); err != nil {
		t.Fatalf("Restore failed: %v", err)
	}

	seq, err := dst.Sequence()
	if err != nil || seq != 2 {
		t.Errorf("restored sequence: got %d err=%v, want 2", seq, err)
	}

	err = dst.View(func(tx *ledger.Tx) error {
		reg, err := registry.Load(tx, regID)
		if err != nil {
			return err
		}

		got, found, err := reg.LookupByFraction(tx, 42)
		if err != nil {
			return err
		}
		if !found || got != trophyID {
			t.Errorf("fraction 42: got %s found=%v, want %s", got, found, trophyID)
		}

		return reg.Verify(tx)
	})
	if err != nil {
		t.Fatalf("View failed: %v", err)
	}

	// The next transaction in the restored ledger continues the sequence.
	if err := dst.Execute(alice, func(tx *ledger.Tx) error { return nil }); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if seq, _ := dst.Sequence(); seq != 3 {
		t.Errorf("sequence after restore + tx: got %d, want 3", seq)
	}
}

// TestCreateSkipsJournal verifies journal entries are not captured.
func TestCreateSkipsJournal(t *testing.T) {
	src := newTestLedger(t)
	populate(t, src)

	data, _, err := Create(src)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	entries, _, err := load(data)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	for _, e := range entries {
		if events.IsJournalKey(e.key) {
			t.Fatalf("journal key %x in snapshot", e.key)
		}
	}

	journal, err := events.NewJournal(src.Storage()).Since(0)
	if err != nil {
		t.Fatalf("Since failed: %v", err)
	}
	if len(journal) == 0 {
		t.Error("source journal should not be empty")
	}
}

// TestCreateDeterministic verifies two snapshots of the same state are identical.
func TestCreateDeterministic(t *testing.T) {
	src := newTestLedger(t)
	populate(t, src)

	_, a, err := Create(src)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	_, b, err := Create(src)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if a.Checksum != b.Checksum {
		t.Error("checksums of identical state differ")
	}
}

// TestParseRejectsTampering verifies a modified entry fails the checksum.
func TestParseRejectsTampering(t *testing.T) {
	entries := []entry{
		{key: []byte("a"), value: []byte("1")},
		{key: []byte("b"), value: []byte("2")},
	}

	data, info := build(1, entries)
	if _, _, err := parse(data); err != nil {
		t.Fatalf("parse of untouched snapshot failed: %v", err)
	}

	tampered := []entry{
		{key: []byte("a"), value: []byte("1")},
		{key: []byte("b"), value: []byte("3")},
	}

	data = encode(snapshotVersion, 1, tampered, info.Checksum)
	if _, _, err := parse(data); !errors.Is(err, ErrChecksum) {
		t.Errorf("expected ErrChecksum, got %v", err)
	}

	data = encode(snapshotVersion+1, 1, entries, info.Checksum)
	if _, _, err := parse(data); !errors.Is(err, ErrVersion) {
		t.Errorf("expected ErrVersion, got %v", err)
	}
}

// TestRestoreRejectsGarbage verifies non-zstd input fails cleanly.
func TestRestoreRejectsGarbage(t *testing.T) {
	dst := newTestLedger(t)

	if _, err := Restore(dst, []byte("not a snapshot")); err == nil {
		t.Error("expected error for garbage input")
	}
}

// TestRestoreRequiresEmpty verifies restoring over existing state fails.
func TestRestoreRequiresEmpty(t *testing.T) {
	src := newTestLedger(t)
	populate(t, src)

	data, _, err := Create(src)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if _, err := Restore(src, data); !errors.Is(err, ledger.ErrNotEmpty) {
		t.Errorf("expected ErrNotEmpty, got %v", err)
	}
}

// TestRestoreRejectsInconsistentRegistry verifies a broken mapping is never committed.
func TestRestoreRejectsInconsistentRegistry(t *testing.T) {
	src := newTestLedger(t)
	_, trophyID := populate(t, src)

	// Drop the trophy object but keep its registry entries.
	key := append([]byte("o:"), trophyID[:]...)
	if err := src.Storage().Delete(key); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	data, _, err := Create(src)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	dst := newTestLedger(t)
	if _, err := Restore(dst, data); !errors.Is(err, registry.ErrInconsistent) {
		t.Fatalf("expected ErrInconsistent, got %v", err)
	}

	if seq, _ := dst.Sequence(); seq != 0 {
		t.Errorf("failed restore left sequence %d", seq)
	}
}
