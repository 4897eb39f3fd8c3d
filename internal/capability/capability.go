package capability

import (
	"errors"
	"fmt"

	"Artfi/internal/ledger"
)

var (
	// ErrUnauthorized is returned when a capability handle is missing, forged
	// or not held by the sender.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrAlreadyInitialized is returned by a second Init.
	ErrAlreadyInitialized = errors.New("capabilities already initialized")
)

const (
	// EventMinterIssued is emitted when an admin issues a minter capability.
	EventMinterIssued = "minter_issued"

	// EventTransferred is emitted when a capability changes hands.
	EventTransferred = "capability_transferred"
)

// initKey marks that the initial capabilities were issued.
var initKey = []byte("c:init")

// noCopy flags accidental copies of capability handles under go vet.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// AdminCap authorizes administrative operations. Handles are only produced by
// this package and are checked against object ownership on every use, so a
// handle whose object moved to another address no longer authorizes anything.
type AdminCap struct {
	noCopy noCopy
	id     ledger.ObjectID
}

// ID returns the capability object id.
func (c *AdminCap) ID() ledger.ObjectID {
	return c.id
}

// MinterCap authorizes minting NFTs.
type MinterCap struct {
	noCopy noCopy
	id     ledger.ObjectID
}

// ID returns the capability object id.
func (c *MinterCap) ID() ledger.ObjectID {
	return c.id
}

// Init issues the AdminCap and the first MinterCap to the sender. It succeeds
// once per ledger.
func Init(tx *ledger.Tx) (*AdminCap, *MinterCap, error) {
	done, err := tx.Get(initKey)
	if err != nil {
		return nil, nil, err
	}

	if done != nil {
		return nil, nil, ErrAlreadyInitialized
	}

	adminID, err := tx.Create(ledger.KindAdminCap, tx.Sender(), nil)
	if err != nil {
		return nil, nil, err
	}

	minterID, err := tx.Create(ledger.KindMinterCap, tx.Sender(), nil)
	if err != nil {
		return nil, nil, err
	}

	if err := tx.Set(initKey, adminID[:]); err != nil {
		return nil, nil, err
	}

	return &AdminCap{id: adminID}, &MinterCap{id: minterID}, nil
}

// LoadAdmin returns a handle for an AdminCap the sender holds.
func LoadAdmin(tx *ledger.Tx, id ledger.ObjectID) (*AdminCap, error) {
	if _, err := tx.Owned(id, ledger.KindAdminCap); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnauthorized, err)
	}

	return &AdminCap{id: id}, nil
}

// LoadMinter returns a handle for a MinterCap the sender holds.
func LoadMinter(tx *ledger.Tx, id ledger.ObjectID) (*MinterCap, error) {
	if _, err := tx.Owned(id, ledger.KindMinterCap); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnauthorized, err)
	}

	return &MinterCap{id: id}, nil
}

// FindAdmin returns a handle for the first AdminCap the sender holds.
func FindAdmin(tx *ledger.Tx) (*AdminCap, error) {
	id, err := findOwned(tx, ledger.KindAdminCap)
	if err != nil {
		return nil, err
	}

	return &AdminCap{id: id}, nil
}

// FindMinter returns a handle for the first MinterCap the sender holds.
func FindMinter(tx *ledger.Tx) (*MinterCap, error) {
	id, err := findOwned(tx, ledger.KindMinterCap)
	if err != nil {
		return nil, err
	}

	return &MinterCap{id: id}, nil
}

// RequireAdmin checks that c is a live AdminCap held by the sender.
func RequireAdmin(tx *ledger.Tx, c *AdminCap) error {
	if c == nil || c.id.IsZero() {
		return fmt.Errorf("%w: missing admin capability", ErrUnauthorized)
	}

	return require(tx, c.id, ledger.KindAdminCap)
}

// RequireMinter checks that c is a live MinterCap held by the sender.
func RequireMinter(tx *ledger.Tx, c *MinterCap) error {
	if c == nil || c.id.IsZero() {
		return fmt.Errorf("%w: missing minter capability", ErrUnauthorized)
	}

	return require(tx, c.id, ledger.KindMinterCap)
}

// IssueMinter creates a MinterCap owned by recipient.
func IssueMinter(tx *ledger.Tx, admin *AdminCap, recipient ledger.Address) (*MinterCap, error) {
	if err := RequireAdmin(tx, admin); err != nil {
		return nil, err
	}

	id, err := tx.Create(ledger.KindMinterCap, recipient, nil)
	if err != nil {
		return nil, err
	}

	tx.Emit(EventMinterIssued, id, ledger.A("recipient", recipient))

	return &MinterCap{id: id}, nil
}

// TransferAdmin moves an AdminCap to newOwner. The sender loses admin authority
// for every later transaction.
func TransferAdmin(tx *ledger.Tx, c *AdminCap, newOwner ledger.Address) error {
	if err := RequireAdmin(tx, c); err != nil {
		return err
	}

	return transfer(tx, c.id, ledger.KindAdminCap, newOwner)
}

// TransferMinter moves a MinterCap to newOwner.
func TransferMinter(tx *ledger.Tx, c *MinterCap, newOwner ledger.Address) error {
	if err := RequireMinter(tx, c); err != nil {
		return err
	}

	return transfer(tx, c.id, ledger.KindMinterCap, newOwner)
}

// require maps ownership failures to ErrUnauthorized.
func require(tx *ledger.Tx, id ledger.ObjectID, kind ledger.Kind) error {
	if _, err := tx.Owned(id, kind); err != nil {
		return fmt.Errorf("%w: %w", ErrUnauthorized, err)
	}

	return nil
}

// findOwned returns the lowest id of kind held by the sender.
func findOwned(tx *ledger.Tx, kind ledger.Kind) (ledger.ObjectID, error) {
	objs, err := tx.ObjectsOwnedBy(tx.Sender(), kind)
	if err != nil {
		return ledger.ObjectID{}, err
	}

	if len(objs) == 0 {
		return ledger.ObjectID{}, fmt.Errorf("%w: sender holds no %s", ErrUnauthorized, kind)
	}

	return objs[0].ID, nil
}

// transfer hands a capability object over and records the move.
func transfer(tx *ledger.Tx, id ledger.ObjectID, kind ledger.Kind, newOwner ledger.Address) error {
	if err := tx.TransferObject(id, newOwner); err != nil {
		return fmt.Errorf("transfer %s:\n%w", kind, err)
	}

	tx.Emit(EventTransferred, id,
		ledger.A("kind", kind),
		ledger.A("from", tx.Sender()),
		ledger.A("to", newOwner),
	)

	return nil
}
