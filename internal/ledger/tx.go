package ledger

import (
	"Artfi/internal/storage"
)

// Tx is the context of one transaction: the caller identity, the id allocator,
// the event buffer and the staged writes. A Tx is only valid inside the
// function passed to Execute or View.
type Tx struct {
	batch    *storage.Batch // batch stages writes until commit
	sender   Address        // sender is the invoking principal
	seq      uint64         // seq is this transaction's sequence number
	digest   [32]byte       // digest seeds object id derivation
	created  uint32         // created counts ids handed out so far
	events   []Event        // events are delivered to sinks after commit
	readOnly bool           // readOnly rejects writes (views)
}

// newTx creates a transaction context over batch.
func newTx(batch *storage.Batch, sender Address, seq uint64, readOnly bool) *Tx {
	return &Tx{
		batch:    batch,
		sender:   sender,
		seq:      seq,
		digest:   computeDigest(sender, seq),
		readOnly: readOnly,
	}
}

// Sender returns the address of the invoking principal.
func (tx *Tx) Sender() Address {
	return tx.sender
}

// Sequence returns the transaction's sequence number.
func (tx *Tx) Sequence() uint64 {
	return tx.seq
}

// Digest returns the transaction digest used to derive object ids.
func (tx *Tx) Digest() [32]byte {
	return tx.digest
}

// NewID allocates a fresh object id. Ids are never reused: they derive from the
// transaction digest and a per-transaction counter.
func (tx *Tx) NewID() ObjectID {
	id := computeObjectID(tx.digest, tx.created)
	tx.created++

	return id
}

// Emit appends an event. Events are published only if the transaction commits.
func (tx *Tx) Emit(kind string, id ObjectID, attrs ...Attr) {
	tx.events = append(tx.events, Event{
		Kind:     kind,
		Sequence: tx.seq,
		Index:    uint32(len(tx.events)),
		Sender:   tx.sender,
		ObjectID: id,
		Attrs:    attrs,
	})
}

// Events returns the events emitted so far.
func (tx *Tx) Events() []Event {
	out := make([]Event, len(tx.events))
	copy(out, tx.events)

	return out
}

// Get reads a raw key, observing this transaction's staged writes.
func (tx *Tx) Get(key []byte) ([]byte, error) {
	return tx.batch.Get(key)
}

// Set stages a raw key write.
func (tx *Tx) Set(key, value []byte) error {
	if tx.readOnly {
		return ErrReadOnly
	}

	return tx.batch.Set(key, value)
}

// Delete stages a raw key removal.
func (tx *Tx) Delete(key []byte) error {
	if tx.readOnly {
		return ErrReadOnly
	}

	return tx.batch.Delete(key)
}

// IteratePrefix visits raw keys under prefix in order. Key and value slices are
// only valid during the callback.
func (tx *Tx) IteratePrefix(prefix []byte, fn func(key, value []byte) error) error {
	return tx.batch.IteratePrefix(prefix, fn)
}
