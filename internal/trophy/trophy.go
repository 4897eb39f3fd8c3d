package trophy

import (
	"errors"
	"fmt"

	flatbuffers "github.com/google/flatbuffers/go"

	"Artfi/internal/capability"
	"Artfi/internal/ledger"
	"Artfi/internal/logger"
	"Artfi/internal/nft"
	"Artfi/internal/registry"
	"Artfi/internal/types"
)

var (
	// ErrAlreadyRedeemed is returned when the source NFT's fraction already has a live trophy.
	ErrAlreadyRedeemed = registry.ErrAlreadyExists

	// ErrDisplayMismatch is returned when a display does not belong to the registry.
	ErrDisplayMismatch = errors.New("display does not belong to registry")
)

// Event kinds emitted by this package.
const (
	EventMinted           = "trophy_minted"
	EventBurned           = "trophy_burned"
	EventTransferred      = "trophy_transferred"
	EventMetadataUpdated  = "metadata_updated"
	EventAttributeUpdated = "attribute_updated"
)

// DisplayKind is the display kind published for trophies.
const DisplayKind = "trophy"

// Trophy is the collectible issued when a fraction is redeemed.
type Trophy struct {
	ID      ledger.ObjectID // ID is the object id
	Version uint64          // Version is the object version
	Owner   ledger.Address  // Owner is the current holder
	Name    string          // Name is the collection name at mint time
	URL     string          // URL points at the trophy artwork
}

// Collection groups what Init creates.
type Collection struct {
	Registry *registry.Registry
	Display  *ledger.Display
	Admin    *capability.AdminCap
	Minter   *capability.MinterCap
}

// Init creates the capabilities, the trophy display and the shared registry.
// The sender receives the AdminCap and the first MinterCap. It succeeds once.
func Init(tx *ledger.Tx, name, description string) (*Collection, error) {
	admin, minter, err := capability.Init(tx)
	if err != nil {
		return nil, err
	}

	display, err := tx.CreateDisplay(DisplayKind, []ledger.DisplayField{
		{Key: "name", Value: name},
		{Key: "description", Value: description},
		{Key: "image_url", Value: "{url}"},
	})
	if err != nil {
		return nil, fmt.Errorf("create display:\n%w", err)
	}

	reg, err := registry.Create(tx, name, description, display.ID)
	if err != nil {
		return nil, fmt.Errorf("create registry:\n%w", err)
	}

	logger.Debug("collection initialized", "registry", reg.ID(), "display", display.ID)

	return &Collection{Registry: reg, Display: display, Admin: admin, Minter: minter}, nil
}

// LoadRegistry reads the shared registry object.
func LoadRegistry(tx *ledger.Tx, id ledger.ObjectID) (*registry.Registry, error) {
	return registry.Load(tx, id)
}

// LoadTrophy reads a trophy regardless of owner.
func LoadTrophy(tx *ledger.Tx, id ledger.ObjectID) (*Trophy, error) {
	obj, err := tx.ObjectOf(id, ledger.KindTrophy)
	if err != nil {
		return nil, err
	}

	return fromObject(obj)
}

// MintTrophy redeems the fraction of an NFT held by the sender. The NFT is
// read, not consumed. The trophy is owned by the sender.
func MintTrophy(tx *ledger.Tx, reg *registry.Registry, sourceNFT ledger.ObjectID, url string) (*Trophy, error) {
	if reg == nil {
		return nil, registry.ErrInvalidHandle
	}

	// The name comes from the stored collection, not from the caller's handle.
	current, err := registry.Load(tx, reg.ID())
	if err != nil {
		return nil, fmt.Errorf("%w:\n%w", registry.ErrInvalidHandle, err)
	}

	src, err := nft.LoadOwned(tx, sourceNFT)
	if err != nil {
		return nil, err
	}

	holder, found, err := current.LookupByFraction(tx, src.FractionID)
	if err != nil {
		return nil, err
	}

	if found {
		return nil, fmt.Errorf("%w: fraction %d held by %s", ErrAlreadyRedeemed, src.FractionID, holder)
	}

	t := &Trophy{
		Version: 1,
		Owner:   tx.Sender(),
		Name:    current.Name(),
		URL:     url,
	}

	id, err := tx.Create(ledger.KindTrophy, t.Owner, encodeTrophy(t))
	if err != nil {
		return nil, err
	}
	t.ID = id

	if err := current.Register(tx, id, src.FractionID); err != nil {
		return nil, err
	}

	tx.Emit(EventMinted, id,
		ledger.A("fractionId", src.FractionID),
		ledger.A("owner", t.Owner),
	)

	return t, nil
}

// BurnTrophy destroys a trophy held by the sender and frees its fraction.
func BurnTrophy(tx *ledger.Tx, reg *registry.Registry, id ledger.ObjectID) error {
	if _, err := tx.Owned(id, ledger.KindTrophy); err != nil {
		return err
	}

	attrs, err := reg.Unregister(tx, id)
	if err != nil {
		return err
	}

	if err := tx.DeleteID(id); err != nil {
		return err
	}

	tx.Emit(EventBurned, id, ledger.A("fractionId", attrs.FractionID))

	return nil
}

// TransferTrophy hands a trophy held by the sender to recipient. The registry
// entry is unaffected.
func TransferTrophy(tx *ledger.Tx, id ledger.ObjectID, recipient ledger.Address) error {
	if _, err := tx.Owned(id, ledger.KindTrophy); err != nil {
		return err
	}

	if err := tx.TransferObject(id, recipient); err != nil {
		return err
	}

	tx.Emit(EventTransferred, id,
		ledger.A("from", tx.Sender()),
		ledger.A("to", recipient),
	)

	return nil
}

// UpdateMetadata sets the collection name and description on the display and
// the registry. Trophies already minted keep their name.
func UpdateMetadata(
	tx *ledger.Tx,
	admin *capability.AdminCap,
	displayID ledger.ObjectID,
	reg *registry.Registry,
	name, description string,
) error {
	if err := capability.RequireAdmin(tx, admin); err != nil {
		return err
	}

	if displayID != reg.Display() {
		return fmt.Errorf("%w: %s", ErrDisplayMismatch, displayID)
	}

	_, err := tx.UpdateDisplay(displayID, []ledger.DisplayField{
		{Key: "name", Value: name},
		{Key: "description", Value: description},
	})
	if err != nil {
		return err
	}

	if err := reg.SetMetadata(tx, name, description); err != nil {
		return err
	}

	tx.Emit(EventMetadataUpdated, reg.ID(),
		ledger.A("name", name),
		ledger.A("description", description),
	)

	return nil
}

// UpdateAttribute sets the shipment status recorded for a trophy.
func UpdateAttribute(tx *ledger.Tx, admin *capability.AdminCap, reg *registry.Registry, id ledger.ObjectID, status string) error {
	if err := capability.RequireAdmin(tx, admin); err != nil {
		return err
	}

	if err := reg.UpdateShipmentStatus(tx, id, status); err != nil {
		return err
	}

	tx.Emit(EventAttributeUpdated, id, ledger.A("shipmentStatus", status))

	return nil
}

// fromObject decodes the trophy content of obj.
func fromObject(obj *ledger.Object) (*Trophy, error) {
	t, err := decodeTrophy(obj.Content)
	if err != nil {
		return nil, fmt.Errorf("decode trophy %s:\n%w", obj.ID, err)
	}

	t.ID = obj.ID
	t.Version = obj.Version
	t.Owner = obj.Owner

	return t, nil
}

// encodeTrophy serializes the content fields as a FlatBuffers Trophy table.
func encodeTrophy(t *Trophy) []byte {
	builder := flatbuffers.NewBuilder(128)

	nameOff := builder.CreateString(t.Name)
	urlOff := builder.CreateString(t.URL)

	types.TrophyStart(builder)
	types.TrophyAddName(builder, nameOff)
	types.TrophyAddUrl(builder, urlOff)
	builder.Finish(types.TrophyEnd(builder))

	return builder.FinishedBytes()
}

// decodeTrophy parses bytes produced by encodeTrophy.
func decodeTrophy(data []byte) (t *Trophy, err error) {
	defer func() {
		if r := recover(); r != nil {
			t, err = nil, fmt.Errorf("%w: malformed trophy", ledger.ErrCorrupt)
		}
	}()

	fb := types.GetRootAsTrophy(data, 0)

	return &Trophy{
		Name: string(fb.Name()),
		URL:  string(fb.Url()),
	}, nil
}
