package capability

import (
	"errors"
	"path/filepath"
	"testing"

	"Artfi/internal/ledger"
	"Artfi/internal/storage"
)

var (
	admin = ledger.Address{0xAD}
	carol = ledger.Address{0xC0}
)

// newTestLedger creates a ledger over a temporary Pebble store.
func newTestLedger(t *testing.T) *ledger.Ledger {
	t.Helper()

	db, err := storage.New(filepath.Join(t.TempDir(), "db"))
	if err != nil {
		t.Fatalf("failed to create storage: %v", err)
	}

	t.Cleanup(func() {
		db.Close()
	})

	return ledger.New(db)
}

// initCaps runs Init as admin and returns the capability ids.
func initCaps(t *testing.T, l *ledger.Ledger) (adminID, minterID ledger.ObjectID) {
	t.Helper()

	err := l.Execute(admin, func(tx *ledger.Tx) error {
		a, m, err := Init(tx)
		if err != nil {
			return err
		}
		adminID, minterID = a.ID(), m.ID()
		return nil
	})
	if err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	return adminID, minterID
}

// TestInitOnce verifies capabilities are issued once.
func TestInitOnce(t *testing.T) {
	l := newTestLedger(t)
	initCaps(t, l)

	err := l.Execute(admin, func(tx *ledger.Tx) error {
		_, _, err := Init(tx)
		return err
	})
	if !errors.Is(err, ErrAlreadyInitialized) {
		t.Errorf("expected ErrAlreadyInitialized, got %v", err)
	}
}

// TestRequireRejectsMissingOrForged verifies nil, zero and unknown handles fail.
func TestRequireRejectsMissingOrForged(t *testing.T) {
	l := newTestLedger(t)
	initCaps(t, l)

	_ = l.Execute(admin, func(tx *ledger.Tx) error {
		if err := RequireAdmin(tx, nil); !errors.Is(err, ErrUnauthorized) {
			t.Errorf("nil handle: expected ErrUnauthorized, got %v", err)
		}

		if err := RequireAdmin(tx, &AdminCap{}); !errors.Is(err, ErrUnauthorized) {
			t.Errorf("zero handle: expected ErrUnauthorized, got %v", err)
		}

		if err := RequireMinter(tx, &MinterCap{id: ledger.ObjectID{0x99}}); !errors.Is(err, ErrUnauthorized) {
			t.Errorf("forged handle: expected ErrUnauthorized, got %v", err)
		}

		return nil
	})
}

// TestRequireRejectsWrongKind verifies a minter id cannot pose as an admin id.
func TestRequireRejectsWrongKind(t *testing.T) {
	l := newTestLedger(t)
	_, minterID := initCaps(t, l)

	err := l.Execute(admin, func(tx *ledger.Tx) error {
		return RequireAdmin(tx, &AdminCap{id: minterID})
	})
	if !errors.Is(err, ErrUnauthorized) || !errors.Is(err, ledger.ErrWrongKind) {
		t.Errorf("expected ErrUnauthorized wrapping ErrWrongKind, got %v", err)
	}
}

// TestLoadAdminRequiresOwnership verifies only the holder can load a handle.
func TestLoadAdminRequiresOwnership(t *testing.T) {
	l := newTestLedger(t)
	adminID, _ := initCaps(t, l)

	err := l.Execute(carol, func(tx *ledger.Tx) error {
		_, err := LoadAdmin(tx, adminID)
		return err
	})
	if !errors.Is(err, ErrUnauthorized) || !errors.Is(err, ledger.ErrNotOwner) {
		t.Errorf("expected ErrUnauthorized wrapping ErrNotOwner, got %v", err)
	}
}

// TestIssueMinter verifies an admin can issue a minter cap usable by the recipient only.
func TestIssueMinter(t *testing.T) {
	l := newTestLedger(t)
	adminID, _ := initCaps(t, l)

	var issued ledger.ObjectID
	err := l.Execute(admin, func(tx *ledger.Tx) error {
		a, err := LoadAdmin(tx, adminID)
		if err != nil {
			return err
		}

		m, err := IssueMinter(tx, a, carol)
		if err != nil {
			return err
		}
		issued = m.ID()

		// The sender does not hold the issued cap.
		if err := RequireMinter(tx, m); !errors.Is(err, ErrUnauthorized) {
			t.Errorf("expected issuer to lack the issued cap, got %v", err)
		}

		return nil
	})
	if err != nil {
		t.Fatalf("IssueMinter failed: %v", err)
	}

	err = l.Execute(carol, func(tx *ledger.Tx) error {
		_, err := LoadMinter(tx, issued)
		return err
	})
	if err != nil {
		t.Errorf("recipient should hold the minter cap: %v", err)
	}
}

// TestTransferAdminRevokesSender verifies the old holder loses authority immediately.
func TestTransferAdminRevokesSender(t *testing.T) {
	l := newTestLedger(t)
	adminID, _ := initCaps(t, l)

	err := l.Execute(admin, func(tx *ledger.Tx) error {
		a, err := LoadAdmin(tx, adminID)
		if err != nil {
			return err
		}

		if err := TransferAdmin(tx, a, carol); err != nil {
			return err
		}

		// Same transaction, same handle: authority is already gone.
		if _, err := IssueMinter(tx, a, admin); !errors.Is(err, ErrUnauthorized) {
			t.Errorf("expected ErrUnauthorized after transfer, got %v", err)
		}

		return nil
	})
	if err != nil {
		t.Fatalf("TransferAdmin failed: %v", err)
	}

	err = l.Execute(carol, func(tx *ledger.Tx) error {
		a, err := LoadAdmin(tx, adminID)
		if err != nil {
			return err
		}

		_, err = IssueMinter(tx, a, carol)
		return err
	})
	if err != nil {
		t.Errorf("new holder should be admin: %v", err)
	}
}

// TestFindCaps verifies the sender's caps are located and other senders find none.
func TestFindCaps(t *testing.T) {
	l := newTestLedger(t)
	adminID, minterID := initCaps(t, l)

	err := l.View(func(tx *ledger.Tx) error {
		// Views have no sender, so nothing is found.
		if _, err := FindAdmin(tx); !errors.Is(err, ErrUnauthorized) {
			t.Errorf("view: expected ErrUnauthorized, got %v", err)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("View failed: %v", err)
	}

	err = l.Execute(admin, func(tx *ledger.Tx) error {
		a, err := FindAdmin(tx)
		if err != nil {
			return err
		}
		if a.ID() != adminID {
			t.Errorf("FindAdmin: got %s, want %s", a.ID(), adminID)
		}

		m, err := FindMinter(tx)
		if err != nil {
			return err
		}
		if m.ID() != minterID {
			t.Errorf("FindMinter: got %s, want %s", m.ID(), minterID)
		}

		return nil
	})
	if err != nil {
		t.Fatalf("Find failed: %v", err)
	}

	err = l.Execute(carol, func(tx *ledger.Tx) error {
		_, err := FindMinter(tx)
		return err
	})
	if !errors.Is(err, ErrUnauthorized) {
		t.Errorf("carol: expected ErrUnauthorized, got %v", err)
	}
}

// TestZeroRecipientRejected verifies capabilities are never issued or moved to the zero address.
func TestZeroRecipientRejected(t *testing.T) {
	l := newTestLedger(t)
	adminID, minterID := initCaps(t, l)

	err := l.Execute(admin, func(tx *ledger.Tx) error {
		a, err := LoadAdmin(tx, adminID)
		if err != nil {
			return err
		}

		_, err = IssueMinter(tx, a, ledger.Address{})
		return err
	})
	if !errors.Is(err, ledger.ErrInvalidRecipient) {
		t.Errorf("IssueMinter: expected ErrInvalidRecipient, got %v", err)
	}

	err = l.Execute(admin, func(tx *ledger.Tx) error {
		m, err := LoadMinter(tx, minterID)
		if err != nil {
			return err
		}

		return TransferMinter(tx, m, ledger.Address{})
	})
	if !errors.Is(err, ledger.ErrInvalidRecipient) {
		t.Errorf("TransferMinter: expected ErrInvalidRecipient, got %v", err)
	}

	err = l.Execute(admin, func(tx *ledger.Tx) error {
		_, err := FindMinter(tx)
		return err
	})
	if err != nil {
		t.Errorf("admin should still hold the minter cap: %v", err)
	}
}
