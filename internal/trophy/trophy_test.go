package trophy

import (
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"Artfi/internal/capability"
	"Artfi/internal/events"
	"Artfi/internal/ledger"
	"Artfi/internal/nft"
	"Artfi/internal/registry"
	"Artfi/internal/storage"
)

var (
	admin = ledger.Address{0xAD}
	alice = ledger.Address{0xA1}
	bob   = ledger.Address{0xB0}
)

// fixture is an initialized collection over a fresh ledger.
type fixture struct {
	l   *ledger.Ledger
	rec *events.Recorder
	col *Collection
}

// newFixture initializes a collection as admin.
func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, err := storage.New(filepath.Join(t.TempDir(), "db"))
	if err != nil {
		t.Fatalf("failed to create storage: %v", err)
	}

	t.Cleanup(func() {
		db.Close()
	})

	f := &fixture{rec: events.NewRecorder()}
	f.l = ledger.New(db, f.rec)

	err = f.l.Execute(admin, func(tx *ledger.Tx) error {
		f.col, err = Init(tx, "Artfi Trophies", "Physical redemptions")
		return err
	})
	if err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	return f
}

// mintNFT mints an NFT for owner carrying fraction.
func (f *fixture) mintNFT(t *testing.T, owner ledger.Address, fraction uint64) ledger.ObjectID {
	t.Helper()

	var id ledger.ObjectID
	err := f.l.Execute(admin, func(tx *ledger.Tx) error {
		n, err := nft.Mint(tx, f.col.Minter, "Piece", "", "https://artfi.example/p", owner, fraction, nft.Royalty{Artist: 500})
		if err != nil {
			return err
		}
		id = n.ID
		return nil
	})
	if err != nil {
		t.Fatalf("nft.Mint failed: %v", err)
	}

	return id
}

// redeem mints a trophy from source as sender.
func (f *fixture) redeem(sender ledger.Address, source ledger.ObjectID) (*Trophy, error) {
	var out *Trophy
	err := f.l.Execute(sender, func(tx *ledger.Tx) error {
		reg, err := LoadRegistry(tx, f.col.Registry.ID())
		if err != nil {
			return err
		}

		out, err = MintTrophy(tx, reg, source, "https://artfi.example/t")
		return err
	})

	return out, err
}

// burn burns a trophy as sender.
func (f *fixture) burn(sender ledger.Address, id ledger.ObjectID) error {
	return f.l.Execute(sender, func(tx *ledger.Tx) error {
		reg, err := LoadRegistry(tx, f.col.Registry.ID())
		if err != nil {
			return err
		}

		return BurnTrophy(tx, reg, id)
	})
}

// view runs fn with the committed registry.
func (f *fixture) view(t *testing.T, fn func(tx *ledger.Tx, reg *registry.Registry)) {
	t.Helper()

	err := f.l.View(func(tx *ledger.Tx) error {
		reg, err := LoadRegistry(tx, f.col.Registry.ID())
		if err != nil {
			return err
		}

		fn(tx, reg)

		return reg.Verify(tx)
	})
	if err != nil {
		t.Fatalf("View failed: %v", err)
	}
}

// --- init ---

// TestInitOnce verifies a second Init fails and leaves the first collection intact.
func TestInitOnce(t *testing.T) {
	f := newFixture(t)

	err := f.l.Execute(alice, func(tx *ledger.Tx) error {
		_, err := Init(tx, "Other", "")
		return err
	})
	if !errors.Is(err, capability.ErrAlreadyInitialized) {
		t.Errorf("expected ErrAlreadyInitialized, got %v", err)
	}

	f.view(t, func(tx *ledger.Tx, reg *registry.Registry) {
		if reg.Name() != "Artfi Trophies" || reg.Display() != f.col.Display.ID {
			t.Errorf("unexpected registry: %+v", reg)
		}
	})
}

// --- redemption ---

// TestFraction42Scenario walks mint, redeem, double redeem, burn and re-redeem.
func TestFraction42Scenario(t *testing.T) {
	f := newFixture(t)
	source := f.mintNFT(t, alice, 42)

	first, err := f.redeem(alice, source)
	if err != nil {
		t.Fatalf("first redeem failed: %v", err)
	}

	if first.Owner != alice || first.Name != "Artfi Trophies" {
		t.Errorf("unexpected trophy: %+v", first)
	}

	if _, err := f.redeem(alice, source); !errors.Is(err, ErrAlreadyRedeemed) {
		t.Fatalf("second redeem: expected ErrAlreadyRedeemed, got %v", err)
	}

	f.view(t, func(tx *ledger.Tx, reg *registry.Registry) {
		got, found, err := reg.LookupByFraction(tx, 42)
		if err != nil || !found || got != first.ID {
			t.Errorf("LookupByFraction(42): got %s found=%v err=%v", got, found, err)
		}

		// The source NFT is not consumed.
		if _, err := nft.Load(tx, source); err != nil {
			t.Errorf("source nft should survive redemption: %v", err)
		}
	})

	if err := f.burn(alice, first.ID); err != nil {
		t.Fatalf("burn failed: %v", err)
	}

	f.view(t, func(tx *ledger.Tx, reg *registry.Registry) {
		if _, found, _ := reg.LookupByFraction(tx, 42); found {
			t.Error("fraction 42 should be free after burn")
		}

		if _, found, _ := reg.LookupByID(tx, first.ID); found {
			t.Error("burned trophy should be unregistered")
		}

		if _, err := LoadTrophy(tx, first.ID); !errors.Is(err, ledger.ErrNotFound) {
			t.Errorf("burned trophy should be gone, got %v", err)
		}
	})

	second, err := f.redeem(alice, source)
	if err != nil {
		t.Fatalf("re-redeem failed: %v", err)
	}

	if second.ID == first.ID {
		t.Error("re-redeemed trophy must have a new id")
	}

	f.view(t, func(tx *ledger.Tx, reg *registry.Registry) {
		got, _, _ := reg.LookupByFraction(tx, 42)
		if got != second.ID {
			t.Errorf("fraction 42: got %s, want %s", got, second.ID)
		}
	})

	kinds := f.rec.Kinds()
	want := []string{EventMinted, EventBurned, EventMinted}
	var got []string
	for _, k := range kinds {
		if k == EventMinted || k == EventBurned {
			got = append(got, k)
		}
	}
	if len(got) != len(want) {
		t.Fatalf("trophy events: got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("event %d: got %s, want %s", i, got[i], want[i])
		}
	}
}

// TestRedeemSharedFraction verifies two NFTs with the same fraction yield one trophy.
func TestRedeemSharedFraction(t *testing.T) {
	f := newFixture(t)
	a := f.mintNFT(t, alice, 7)
	b := f.mintNFT(t, bob, 7)

	if _, err := f.redeem(alice, a); err != nil {
		t.Fatalf("alice redeem failed: %v", err)
	}

	if _, err := f.redeem(bob, b); !errors.Is(err, ErrAlreadyRedeemed) {
		t.Errorf("bob redeem: expected ErrAlreadyRedeemed, got %v", err)
	}
}

// TestRedeemRequiresOwnedNFT verifies a sender cannot redeem someone else's NFT.
func TestRedeemRequiresOwnedNFT(t *testing.T) {
	f := newFixture(t)
	source := f.mintNFT(t, alice, 3)

	if _, err := f.redeem(bob, source); !errors.Is(err, ledger.ErrNotOwner) {
		t.Errorf("expected ErrNotOwner, got %v", err)
	}
}

// TestBurnRequiresOwner verifies only the holder can burn and free the fraction.
func TestBurnRequiresOwner(t *testing.T) {
	f := newFixture(t)
	tr, err := f.redeem(alice, f.mintNFT(t, alice, 11))
	if err != nil {
		t.Fatalf("redeem failed: %v", err)
	}

	if err := f.burn(bob, tr.ID); !errors.Is(err, ledger.ErrNotOwner) {
		t.Errorf("expected ErrNotOwner, got %v", err)
	}

	f.view(t, func(tx *ledger.Tx, reg *registry.Registry) {
		if _, found, _ := reg.LookupByFraction(tx, 11); !found {
			t.Error("fraction 11 should still be held")
		}
	})
}

// TestTransferTrophy verifies the new holder can burn and the registry entry is kept.
func TestTransferTrophy(t *testing.T) {
	f := newFixture(t)
	tr, err := f.redeem(alice, f.mintNFT(t, alice, 12))
	if err != nil {
		t.Fatalf("redeem failed: %v", err)
	}

	err = f.l.Execute(alice, func(tx *ledger.Tx) error { return TransferTrophy(tx, tr.ID, bob) })
	if err != nil {
		t.Fatalf("TransferTrophy failed: %v", err)
	}

	f.view(t, func(tx *ledger.Tx, reg *registry.Registry) {
		got, err := LoadTrophy(tx, tr.ID)
		if err != nil {
			t.Fatalf("LoadTrophy failed: %v", err)
		}
		if got.Owner != bob || got.Version != 2 {
			t.Errorf("unexpected trophy after transfer: %+v", got)
		}

		if _, found, _ := reg.LookupByID(tx, tr.ID); !found {
			t.Error("transfer should keep the registry entry")
		}
	})

	if err := f.burn(alice, tr.ID); !errors.Is(err, ledger.ErrNotOwner) {
		t.Errorf("previous owner burn: expected ErrNotOwner, got %v", err)
	}

	if err := f.burn(bob, tr.ID); err != nil {
		t.Errorf("new owner burn failed: %v", err)
	}

	ev, ok := f.rec.Last(EventTransferred)
	if !ok || ev.Attr("from") != alice.String() || ev.Attr("to") != bob.String() {
		t.Errorf("unexpected transfer event: %+v", ev)
	}
}

// TestTransferTrophyToZeroAddress verifies a trophy cannot be made ownerless.
func TestTransferTrophyToZeroAddress(t *testing.T) {
	f := newFixture(t)
	tr, err := f.redeem(alice, f.mintNFT(t, alice, 13))
	if err != nil {
		t.Fatalf("redeem failed: %v", err)
	}

	err = f.l.Execute(alice, func(tx *ledger.Tx) error { return TransferTrophy(tx, tr.ID, ledger.Address{}) })
	if !errors.Is(err, ledger.ErrInvalidRecipient) {
		t.Fatalf("expected ErrInvalidRecipient, got %v", err)
	}

	if err := f.burn(alice, tr.ID); err != nil {
		t.Errorf("alice should still be able to burn: %v", err)
	}
}

// --- registry handle ---

// TestMintTrophyRejectsForgedRegistry verifies a handle not loaded from the ledger is refused.
func TestMintTrophyRejectsForgedRegistry(t *testing.T) {
	f := newFixture(t)
	source := f.mintNFT(t, alice, 14)

	err := f.l.Execute(alice, func(tx *ledger.Tx) error {
		_, err := MintTrophy(tx, &registry.Registry{}, source, "")
		return err
	})
	if !errors.Is(err, registry.ErrInvalidHandle) {
		t.Fatalf("expected ErrInvalidHandle, got %v", err)
	}

	f.view(t, func(tx *ledger.Tx, reg *registry.Registry) {
		if _, found, _ := reg.LookupByFraction(tx, 14); found {
			t.Error("forged handle should not register the fraction")
		}
	})
}

// TestMintTrophyNameFromStoredCollection verifies a stale handle still mints with the current name.
func TestMintTrophyNameFromStoredCollection(t *testing.T) {
	f := newFixture(t)
	source := f.mintNFT(t, admin, 15)

	var minted *Trophy
	err := f.l.Execute(admin, func(tx *ledger.Tx) error {
		stale, err := LoadRegistry(tx, f.col.Registry.ID())
		if err != nil {
			return err
		}

		fresh, err := LoadRegistry(tx, f.col.Registry.ID())
		if err != nil {
			return err
		}

		if err := UpdateMetadata(tx, f.col.Admin, f.col.Display.ID, fresh, "Renamed", ""); err != nil {
			return err
		}

		minted, err = MintTrophy(tx, stale, source, "")
		return err
	})
	if err != nil {
		t.Fatalf("mint failed: %v", err)
	}

	if minted.Name != "Renamed" {
		t.Errorf("trophy name: got %q, want %q", minted.Name, "Renamed")
	}
}

// --- concurrency ---

// TestConcurrentRedeemSameFraction verifies racing redeems of one fraction admit exactly one.
func TestConcurrentRedeemSameFraction(t *testing.T) {
	f := newFixture(t)

	const n = 16
	owners := make([]ledger.Address, n)
	sources := make([]ledger.ObjectID, n)
	for i := range owners {
		owners[i] = ledger.Address{0xC0, byte(i + 1)}
		sources[i] = f.mintNFT(t, owners[i], 77)
	}

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		ok   int
		dups int
	)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()

			_, err := f.redeem(owners[i], sources[i])

			mu.Lock()
			defer mu.Unlock()

			switch {
			case err == nil:
				ok++
			case errors.Is(err, ErrAlreadyRedeemed):
				dups++
			default:
				t.Errorf("redeem %d: unexpected error %v", i, err)
			}
		}(i)
	}

	wg.Wait()

	if ok != 1 || dups != n-1 {
		t.Fatalf("got %d successes and %d duplicates, want 1 and %d", ok, dups, n-1)
	}

	f.view(t, func(tx *ledger.Tx, reg *registry.Registry) {
		if count, _ := reg.Len(tx); count != 1 {
			t.Errorf("registry holds %d entries, want 1", count)
		}
	})
}

// --- admin ---

// TestUpdateAttribute verifies "shipped" is recorded and the fraction is untouched.
func TestUpdateAttribute(t *testing.T) {
	f := newFixture(t)
	tr, err := f.redeem(alice, f.mintNFT(t, alice, 42))
	if err != nil {
		t.Fatalf("redeem failed: %v", err)
	}

	err = f.l.Execute(admin, func(tx *ledger.Tx) error {
		reg, err := LoadRegistry(tx, f.col.Registry.ID())
		if err != nil {
			return err
		}

		return UpdateAttribute(tx, f.col.Admin, reg, tr.ID, "shipped")
	})
	if err != nil {
		t.Fatalf("UpdateAttribute failed: %v", err)
	}

	f.view(t, func(tx *ledger.Tx, reg *registry.Registry) {
		attrs, _, err := reg.LookupByID(tx, tr.ID)
		if err != nil {
			t.Fatalf("LookupByID failed: %v", err)
		}
		if attrs.FractionID != 42 || attrs.ShipmentStatus != "shipped" {
			t.Errorf("unexpected attributes: %+v", attrs)
		}
	})

	ev, ok := f.rec.Last(EventAttributeUpdated)
	if !ok || ev.ObjectID != tr.ID || ev.Attr("shipmentStatus") != "shipped" {
		t.Errorf("unexpected attribute event: %+v", ev)
	}
}

// TestUpdateAttributeUnknown verifies an unregistered id fails with NotFound.
func TestUpdateAttributeUnknown(t *testing.T) {
	f := newFixture(t)

	err := f.l.Execute(admin, func(tx *ledger.Tx) error {
		reg, err := LoadRegistry(tx, f.col.Registry.ID())
		if err != nil {
			return err
		}

		return UpdateAttribute(tx, f.col.Admin, reg, ledger.ObjectID{0x42}, "shipped")
	})
	if !errors.Is(err, registry.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

// TestAdminOperationsRequireCap verifies non-holders cannot run admin operations.
func TestAdminOperationsRequireCap(t *testing.T) {
	f := newFixture(t)
	tr, err := f.redeem(alice, f.mintNFT(t, alice, 1))
	if err != nil {
		t.Fatalf("redeem failed: %v", err)
	}

	err = f.l.Execute(alice, func(tx *ledger.Tx) error {
		reg, err := LoadRegistry(tx, f.col.Registry.ID())
		if err != nil {
			return err
		}

		return UpdateAttribute(tx, f.col.Admin, reg, tr.ID, "stolen")
	})
	if !errors.Is(err, capability.ErrUnauthorized) {
		t.Errorf("UpdateAttribute: expected ErrUnauthorized, got %v", err)
	}

	err = f.l.Execute(alice, func(tx *ledger.Tx) error {
		reg, err := LoadRegistry(tx, f.col.Registry.ID())
		if err != nil {
			return err
		}

		return UpdateMetadata(tx, nil, f.col.Display.ID, reg, "x", "y")
	})
	if !errors.Is(err, capability.ErrUnauthorized) {
		t.Errorf("UpdateMetadata: expected ErrUnauthorized, got %v", err)
	}
}

// TestAdminTransferRevokesAuthority verifies the previous admin loses access.
func TestAdminTransferRevokesAuthority(t *testing.T) {
	f := newFixture(t)
	tr, err := f.redeem(alice, f.mintNFT(t, alice, 2))
	if err != nil {
		t.Fatalf("redeem failed: %v", err)
	}

	err = f.l.Execute(admin, func(tx *ledger.Tx) error {
		return capability.TransferAdmin(tx, f.col.Admin, bob)
	})
	if err != nil {
		t.Fatalf("TransferAdmin failed: %v", err)
	}

	update := func(sender ledger.Address) error {
		return f.l.Execute(sender, func(tx *ledger.Tx) error {
			reg, err := LoadRegistry(tx, f.col.Registry.ID())
			if err != nil {
				return err
			}

			return UpdateAttribute(tx, f.col.Admin, reg, tr.ID, "in transit")
		})
	}

	if err := update(admin); !errors.Is(err, capability.ErrUnauthorized) {
		t.Errorf("old admin: expected ErrUnauthorized, got %v", err)
	}

	if err := update(bob); err != nil {
		t.Errorf("new admin update failed: %v", err)
	}
}

// TestUpdateMetadata verifies the display version bumps and minted names are copies.
func TestUpdateMetadata(t *testing.T) {
	f := newFixture(t)
	before, err := f.redeem(alice, f.mintNFT(t, alice, 1))
	if err != nil {
		t.Fatalf("redeem failed: %v", err)
	}

	err = f.l.Execute(admin, func(tx *ledger.Tx) error {
		reg, err := LoadRegistry(tx, f.col.Registry.ID())
		if err != nil {
			return err
		}

		return UpdateMetadata(tx, f.col.Admin, f.col.Display.ID, reg, "Season Two", "Second run")
	})
	if err != nil {
		t.Fatalf("UpdateMetadata failed: %v", err)
	}

	after, err := f.redeem(alice, f.mintNFT(t, alice, 2))
	if err != nil {
		t.Fatalf("redeem failed: %v", err)
	}

	f.view(t, func(tx *ledger.Tx, reg *registry.Registry) {
		if reg.Name() != "Season Two" || reg.Description() != "Second run" {
			t.Errorf("registry metadata not updated: %+v", reg)
		}

		d, err := tx.LoadDisplay(f.col.Display.ID)
		if err != nil {
			t.Fatalf("LoadDisplay failed: %v", err)
		}
		if d.Version != 2 || d.Field("name") != "Season Two" || d.Field("image_url") != "{url}" {
			t.Errorf("unexpected display: %+v", d)
		}

		old, err := LoadTrophy(tx, before.ID)
		if err != nil {
			t.Fatalf("LoadTrophy failed: %v", err)
		}
		if old.Name != "Artfi Trophies" {
			t.Errorf("existing trophy name changed to %q", old.Name)
		}
	})

	if after.Name != "Season Two" {
		t.Errorf("new trophy name: got %q, want %q", after.Name, "Season Two")
	}

	ev, ok := f.rec.Last(EventMetadataUpdated)
	if !ok || ev.Attr("name") != "Season Two" || ev.Attr("description") != "Second run" {
		t.Errorf("unexpected metadata event: %+v", ev)
	}
}

// TestUpdateMetadataWrongDisplay verifies a foreign display id is rejected.
func TestUpdateMetadataWrongDisplay(t *testing.T) {
	f := newFixture(t)

	err := f.l.Execute(admin, func(tx *ledger.Tx) error {
		reg, err := LoadRegistry(tx, f.col.Registry.ID())
		if err != nil {
			return err
		}

		return UpdateMetadata(tx, f.col.Admin, ledger.ObjectID{0x01}, reg, "x", "y")
	})
	if !errors.Is(err, ErrDisplayMismatch) {
		t.Errorf("expected ErrDisplayMismatch, got %v", err)
	}
}
