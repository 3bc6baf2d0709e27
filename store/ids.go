package store

import (
	"encoding/hex"

	"github.com/google/uuid"
)

// IDSize is the byte width of an ArtistID on disk and in memory.
const IDSize = 16

// ArtistID is an opaque 128-bit artist identifier, carried by value. Only
// byte equality and ordering are meaningful to the store; the historical
// origin is a MusicBrainz UUID, so ArtistID round-trips through
// github.com/google/uuid for display and for human-supplied input (the
// compiler's fixtures, the CLI's build subcommand).
type ArtistID [IDSize]byte

// ZeroArtistID is the all-zero identifier (the zero value of ArtistID).
var ZeroArtistID ArtistID

// ParseArtistID parses a canonical UUID string into an ArtistID.
func ParseArtistID(s string) (ArtistID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return ArtistID{}, NewInvalidArgument("malformed artist id: " + s)
	}
	return ArtistID(u), nil
}

// UUID renders id as a github.com/google/uuid.UUID for display.
func (id ArtistID) UUID() uuid.UUID {
	return uuid.UUID(id)
}

// String renders id in canonical UUID form.
func (id ArtistID) String() string {
	return id.UUID().String()
}

// Hex renders id as a plain 32-character hex string, useful for log fields
// where the UUID dashes add noise.
func (id ArtistID) Hex() string {
	return hex.EncodeToString(id[:])
}

// Less orders two identifiers by byte value. The metadata table is required
// (§6.1) to be stored in this order, which is also the order binary search
// over the table relies on.
func (id ArtistID) Less(other ArtistID) bool {
	for i := 0; i < IDSize; i++ {
		if id[i] != other[i] {
			return id[i] < other[i]
		}
	}
	return false
}

// Compare returns -1, 0, or 1 the way bytes.Compare does.
func (id ArtistID) Compare(other ArtistID) int {
	for i := 0; i < IDSize; i++ {
		if id[i] != other[i] {
			if id[i] < other[i] {
				return -1
			}
			return 1
		}
	}
	return 0
}

// NewArtistIDFromUUID converts a github.com/google/uuid.UUID into an ArtistID.
func NewArtistIDFromUUID(u uuid.UUID) ArtistID {
	return ArtistID(u)
}
