package nft

import (
	"errors"
	"fmt"

	flatbuffers "github.com/google/flatbuffers/go"

	"Artfi/internal/capability"
	"Artfi/internal/ledger"
	"Artfi/internal/logger"
	"Artfi/internal/types"
)

var (
	// ErrLengthMismatch is returned by MintBatch when the per-item slices differ in length.
	ErrLengthMismatch = errors.New("batch length mismatch")
)

// Event kinds emitted by this package.
const (
	EventMinted             = "nft_minted"
	EventBurned             = "nft_burned"
	EventTransferred        = "nft_transferred"
	EventDescriptionUpdated = "nft_description_updated"
)

// NFT is a fraction-bearing token with exactly one owner.
type NFT struct {
	ID          ledger.ObjectID // ID is the object id
	Version     uint64          // Version is the object version
	Owner       ledger.Address  // Owner is the current holder
	FractionID  uint64          // FractionID is fixed at mint
	Name        string          // Name is fixed at mint
	Description string          // Description is editable by the owner
	URL         string          // URL points at the artwork
	Royalty     Royalty         // Royalty is fixed at mint
	Creator     ledger.Address  // Creator is the minting sender
}

// Mint creates an NFT owned by recipient. Fraction ids are not checked for
// uniqueness here; several NFTs may carry the same fraction.
func Mint(
	tx *ledger.Tx,
	minter *capability.MinterCap,
	name, description, url string,
	recipient ledger.Address,
	fractionID uint64,
	royalty Royalty,
) (*NFT, error) {
	if err := capability.RequireMinter(tx, minter); err != nil {
		return nil, err
	}

	return mint(tx, name, description, url, recipient, fractionID, royalty)
}

// MintBatch mints one NFT per name, all sharing fractionID and recipient.
// names, descriptions, urls and royalties must have equal lengths; on mismatch
// nothing is created.
func MintBatch(
	tx *ledger.Tx,
	minter *capability.MinterCap,
	names, descriptions, urls []string,
	recipient ledger.Address,
	fractionID uint64,
	royalties []Royalty,
) ([]*NFT, error) {
	if err := capability.RequireMinter(tx, minter); err != nil {
		return nil, err
	}

	n := len(names)
	if len(descriptions) != n || len(urls) != n || len(royalties) != n {
		return nil, fmt.Errorf("%w: %d names, %d descriptions, %d urls, %d royalties",
			ErrLengthMismatch, n, len(descriptions), len(urls), len(royalties))
	}

	out := make([]*NFT, 0, n)
	for i := range names {
		nft, err := mint(tx, names[i], descriptions[i], urls[i], recipient, fractionID, royalties[i])
		if err != nil {
			return nil, fmt.Errorf("mint batch item %d:\n%w", i, err)
		}

		out = append(out, nft)
	}

	logger.Debug("batch minted", "count", n, "fraction", fractionID)

	return out, nil
}

// Load reads an NFT regardless of owner.
func Load(tx *ledger.Tx, id ledger.ObjectID) (*NFT, error) {
	obj, err := tx.ObjectOf(id, ledger.KindNFT)
	if err != nil {
		return nil, err
	}

	return fromObject(obj)
}

// LoadOwned reads an NFT held by the sender.
func LoadOwned(tx *ledger.Tx, id ledger.ObjectID) (*NFT, error) {
	obj, err := tx.Owned(id, ledger.KindNFT)
	if err != nil {
		return nil, err
	}

	return fromObject(obj)
}

// Transfer hands an NFT held by the sender to recipient.
func Transfer(tx *ledger.Tx, id ledger.ObjectID, recipient ledger.Address) error {
	if _, err := tx.Owned(id, ledger.KindNFT); err != nil {
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

// UpdateDescription replaces the description of an NFT held by the sender.
func UpdateDescription(tx *ledger.Tx, id ledger.ObjectID, description string) error {
	nft, err := LoadOwned(tx, id)
	if err != nil {
		return err
	}

	nft.Description = description

	if err := tx.Update(id, encodeNFT(nft)); err != nil {
		return err
	}

	tx.Emit(EventDescriptionUpdated, id, ledger.A("description", description))

	return nil
}

// Burn destroys an NFT held by the sender.
func Burn(tx *ledger.Tx, id ledger.ObjectID) error {
	nft, err := LoadOwned(tx, id)
	if err != nil {
		return err
	}

	if err := tx.DeleteID(id); err != nil {
		return err
	}

	tx.Emit(EventBurned, id, ledger.A("fractionId", nft.FractionID))

	return nil
}

// mint creates the object and records the event. Authorization is the caller's.
func mint(tx *ledger.Tx, name, description, url string, recipient ledger.Address, fractionID uint64, royalty Royalty) (*NFT, error) {
	nft := &NFT{
		Version:     1,
		Owner:       recipient,
		FractionID:  fractionID,
		Name:        name,
		Description: description,
		URL:         url,
		Royalty:     royalty,
		Creator:     tx.Sender(),
	}

	id, err := tx.Create(ledger.KindNFT, recipient, encodeNFT(nft))
	if err != nil {
		return nil, err
	}
	nft.ID = id

	tx.Emit(EventMinted, id,
		ledger.A("creator", nft.Creator),
		ledger.A("name", name),
	)

	return nft, nil
}

// fromObject decodes the NFT content of obj.
func fromObject(obj *ledger.Object) (*NFT, error) {
	nft, err := decodeNFT(obj.Content)
	if err != nil {
		return nil, fmt.Errorf("decode nft %s:\n%w", obj.ID, err)
	}

	nft.ID = obj.ID
	nft.Version = obj.Version
	nft.Owner = obj.Owner

	return nft, nil
}

// encodeNFT serializes the content fields as a FlatBuffers Nft table.
func encodeNFT(n *NFT) []byte {
	builder := flatbuffers.NewBuilder(256)

	nameOff := builder.CreateString(n.Name)
	descOff := builder.CreateString(n.Description)
	urlOff := builder.CreateString(n.URL)
	creatorVec := builder.CreateByteVector(n.Creator[:])

	types.RoyaltyStart(builder)
	types.RoyaltyAddArtfi(builder, n.Royalty.Artfi)
	types.RoyaltyAddArtist(builder, n.Royalty.Artist)
	types.RoyaltyAddStakingContract(builder, n.Royalty.StakingContract)
	royaltyOff := types.RoyaltyEnd(builder)

	types.NftStart(builder)
	types.NftAddFractionId(builder, n.FractionID)
	types.NftAddName(builder, nameOff)
	types.NftAddDescription(builder, descOff)
	types.NftAddUrl(builder, urlOff)
	types.NftAddRoyalty(builder, royaltyOff)
	types.NftAddCreator(builder, creatorVec)
	builder.Finish(types.NftEnd(builder))

	return builder.FinishedBytes()
}

// decodeNFT parses bytes produced by encodeNFT.
func decodeNFT(data []byte) (n *NFT, err error) {
	defer func() {
		if r := recover(); r != nil {
			n, err = nil, fmt.Errorf("%w: malformed nft", ledger.ErrCorrupt)
		}
	}()

	fb := types.GetRootAsNft(data, 0)

	n = &NFT{
		FractionID:  fb.FractionId(),
		Name:        string(fb.Name()),
		Description: string(fb.Description()),
		URL:         string(fb.Url()),
	}

	if r := fb.Royalty(nil); r != nil {
		n.Royalty = Royalty{
			Artfi:           r.Artfi(),
			Artist:          r.Artist(),
			StakingContract: r.StakingContract(),
		}
	}

	copy(n.Creator[:], fb.CreatorBytes())

	return n, nil
}
