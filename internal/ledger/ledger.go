package ledger

import (
	"encoding/binary"
	"errors"
	"fmt"
	"time"

	"github.com/sasha-s/go-deadlock"

	"Artfi/internal/logger"
	"Artfi/internal/storage"
)

var (
	// ErrNotFound is returned when an object id is not live.
	ErrNotFound = errors.New("object not found")

	// ErrNotOwner is returned when the sender does not own the object it passes in.
	ErrNotOwner = errors.New("sender does not own object")

	// ErrWrongKind is returned when an object id refers to a different kind of object.
	ErrWrongKind = errors.New("object has unexpected kind")

	// ErrNotShared is returned when a shared object is expected but the object is owned.
	ErrNotShared = errors.New("object is not shared")

	// ErrReadOnly is returned when a view attempts a write.
	ErrReadOnly = errors.New("write in read-only transaction")

	// ErrCorrupt is returned when persisted bytes cannot be decoded.
	ErrCorrupt = errors.New("corrupt record")

	// ErrNotEmpty is returned when importing into a ledger that already has state.
	ErrNotEmpty = errors.New("ledger is not empty")

	// ErrInvalidSender is returned when a transaction is issued by the zero address.
	ErrInvalidSender = errors.New("invalid sender")

	// ErrInvalidRecipient is returned when an owned object would be given the zero address.
	ErrInvalidRecipient = errors.New("invalid recipient")
)

// sequenceKey holds the number of committed transactions.
var sequenceKey = []byte("m:seq")

// Sink receives committed events in emit order.
// Sinks are called with the ledger lock held and must not call back into the ledger.
type Sink interface {
	Emit(ev Event)
}

// SinkFunc adapts a function to a Sink.
type SinkFunc func(ev Event)

// Emit calls f(ev).
func (f SinkFunc) Emit(ev Event) {
	f(ev)
}

// Ledger is the single-writer owner of all object state.
// Execute runs one transaction at a time under the write lock and commits its
// writes atomically; View runs concurrently with other views.
type Ledger struct {
	db    *storage.Storage // db is the backing Pebble store
	mu    deadlock.RWMutex // mu serializes transactions
	sinks []Sink           // sinks receive events after commit
}

// New creates a ledger over db. Events of committed transactions go to sinks.
func New(db *storage.Storage, sinks ...Sink) *Ledger {
	return &Ledger{
		db:    db,
		sinks: sinks,
	}
}

// Subscribe adds a sink for events of subsequently committed transactions.
func (l *Ledger) Subscribe(s Sink) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.sinks = append(l.sinks, s)
}

// Storage returns the backing store.
func (l *Ledger) Storage() *storage.Storage {
	return l.db
}

// Sequence returns the number of committed transactions.
func (l *Ledger) Sequence() (uint64, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return readSequence(l.db.Get)
}

// Execute runs fn as one transaction issued by sender.
// If fn returns an error every write and event of the transaction is discarded
// and the error is returned unchanged.
func (l *Ledger) Execute(sender Address, fn func(tx *Tx) error) error {
	if sender.IsZero() {
		return ErrInvalidSender
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	start := time.Now()

	batch := l.db.NewBatch()
	defer batch.Close()

	seq, err := readSequence(batch.Get)
	if err != nil {
		return fmt.Errorf("read sequence:\n%w", err)
	}

	tx := newTx(batch, sender, seq+1, false)

	if err := fn(tx); err != nil {
		logger.Debug("tx aborted", "seq", seq+1, "sender", sender.String()[:16], "error", err)
		return err
	}

	if err := batch.Set(sequenceKey, encodeSequence(seq+1)); err != nil {
		return fmt.Errorf("write sequence:\n%w", err)
	}

	writes := batch.Len()

	if err := batch.Commit(); err != nil {
		return fmt.Errorf("commit:\n%w", err)
	}

	for _, ev := range tx.events {
		for _, s := range l.sinks {
			s.Emit(ev)
		}
	}

	logger.Debug("tx committed",
		"seq", seq+1,
		"writes", writes,
		"events", len(tx.events),
		logger.Timed(start),
	)

	return nil
}

// View runs fn against committed state. Writes inside fn fail with ErrReadOnly.
func (l *Ledger) View(fn func(tx *Tx) error) error {
	l.mu.RLock()
	defer l.mu.RUnlock()

	batch := l.db.NewBatch()
	defer batch.Close()

	seq, err := readSequence(batch.Get)
	if err != nil {
		return fmt.Errorf("read sequence:\n%w", err)
	}

	return fn(newTx(batch, Address{}, seq, true))
}

// Import writes pairs into an empty ledger in one batch. check runs read-only
// against the staged state before commit; if it fails nothing is written.
// The imported pairs carry their own sequence; no event is emitted.
func (l *Ledger) Import(pairs []storage.KeyValue, check func(tx *Tx) error) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	batch := l.db.NewBatch()
	defer batch.Close()

	current, err := readSequence(batch.Get)
	if err != nil {
		return fmt.Errorf("read sequence:\n%w", err)
	}

	if current != 0 {
		return fmt.Errorf("%w: %d transactions committed", ErrNotEmpty, current)
	}

	for _, kv := range pairs {
		if err := batch.Set(kv.Key, kv.Value); err != nil {
			return fmt.Errorf("stage %x:\n%w", kv.Key, err)
		}
	}

	seq, err := readSequence(batch.Get)
	if err != nil {
		return fmt.Errorf("read imported sequence:\n%w", err)
	}

	if check != nil {
		if err := check(newTx(batch, Address{}, seq, true)); err != nil {
			return err
		}
	}

	if err := batch.Commit(); err != nil {
		return fmt.Errorf("commit:\n%w", err)
	}

	logger.Info("state imported", "entries", len(pairs), "seq", seq)

	return nil
}

// readSequence loads the committed transaction count using get.
func readSequence(get func([]byte) ([]byte, error)) (uint64, error) {
	value, err := get(sequenceKey)
	if err != nil {
		return 0, err
	}

	if value == nil {
		return 0, nil
	}

	if len(value) != 8 {
		return 0, fmt.Errorf("%w: sequence has %d bytes", ErrCorrupt, len(value))
	}

	return binary.LittleEndian.Uint64(value), nil
}

// encodeSequence encodes seq as 8 bytes little-endian.
func encodeSequence(seq uint64) []byte {
	buf := make([]byte, 8)
	binary.LittleEndian.PutUint64(buf, seq)

	return buf
}
