package store

import "encoding/binary"

// On-disk layout (§6.1). All integers are little-endian. Offsets are 64-bit
// unsigned, counts are 32-bit unsigned, identifiers are IDSize raw bytes.
//
// Graph file (forward and reverse share this layout): a concatenation of
// per-artist adjacency blocks, each addressed only by an offset obtained
// from the metadata file, never by scanning:
//
//	count       : u32
//	repeated count times:
//	  neighbor_id : IDSize bytes
//	  similarity  : f32   // in [0.0, 1.0], descending within the block
//
// Metadata file: a header, a fixed-stride table of artist records sorted by
// id, then a variable-length string arena:
//
//	header:
//	  magic    : MagicSize bytes
//	  version  : u32
//	  count    : u32
//	records (Count of them, id-sorted):
//	  id             : IDSize bytes
//	  forward_offset : u64
//	  reverse_offset : u64
//	  name_offset    : u32 // into the string arena
//	  name_length    : u16
//	  url_offset     : u32
//	  url_length     : u16
const (
	// MagicSize is the width of the metadata file's magic prefix.
	MagicSize = 8

	// FormatVersion is the only metadata layout version this reader accepts.
	FormatVersion uint32 = 1

	// HeaderSize is MagicSize + version(u32) + count(u32).
	HeaderSize = MagicSize + 4 + 4

	// RecordSize is the fixed stride of one artist record in the metadata table:
	// id(16) + forward_offset(8) + reverse_offset(8) + name_offset(4) +
	// name_length(2) + url_offset(4) + url_length(2).
	RecordSize = IDSize + 8 + 8 + 4 + 2 + 4 + 2

	// AdjacencyEntrySize is neighbor_id(16) + similarity(f32, 4).
	AdjacencyEntrySize = IDSize + 4

	// AdjacencyCountSize is the width of the leading count field of a block.
	AdjacencyCountSize = 4
)

// Magic is the fixed byte prefix identifying a metadata file produced by
// this repository's compiler.
var Magic = [MagicSize]byte{'A', 'R', 'T', 'G', 'R', 'P', 'H', '1'}

// Canonical file names within a data directory (§6.4 "data directory path").
const (
	ForwardFileName = "forward.graph"
	ReverseFileName = "reverse.graph"
	MetaFileName    = "meta.bin"
)

// Direction selects which graph file an adjacency query reads from.
type Direction uint8

const (
	// Forward lists artists this artist points to (it considers them similar).
	Forward Direction = iota
	// Reverse lists artists that point to this artist.
	Reverse
)

func (d Direction) String() string {
	if d == Forward {
		return "forward"
	}
	return "reverse"
}

// Record is one parsed artist record from the metadata table.
type Record struct {
	ID            ArtistID
	ForwardOffset uint64
	ReverseOffset uint64
	NameOffset    uint32
	NameLength    uint16
	URLOffset     uint32
	URLLength     uint16
}

// EncodeRecord writes r into buf (which must be at least RecordSize long)
// in the on-disk layout. Exported for the compiler package, which writes
// metadata records; store.Reader only ever decodes them.
func EncodeRecord(buf []byte, r Record) {
	copy(buf[0:IDSize], r.ID[:])
	o := IDSize
	binary.LittleEndian.PutUint64(buf[o:], r.ForwardOffset)
	o += 8
	binary.LittleEndian.PutUint64(buf[o:], r.ReverseOffset)
	o += 8
	binary.LittleEndian.PutUint32(buf[o:], r.NameOffset)
	o += 4
	binary.LittleEndian.PutUint16(buf[o:], r.NameLength)
	o += 2
	binary.LittleEndian.PutUint32(buf[o:], r.URLOffset)
	o += 4
	binary.LittleEndian.PutUint16(buf[o:], r.URLLength)
}

// decodeRecord reads a Record out of buf (which must be at least RecordSize long).
func decodeRecord(buf []byte) Record {
	var r Record
	copy(r.ID[:], buf[0:IDSize])
	o := IDSize
	r.ForwardOffset = binary.LittleEndian.Uint64(buf[o:])
	o += 8
	r.ReverseOffset = binary.LittleEndian.Uint64(buf[o:])
	o += 8
	r.NameOffset = binary.LittleEndian.Uint32(buf[o:])
	o += 4
	r.NameLength = binary.LittleEndian.Uint16(buf[o:])
	o += 2
	r.URLOffset = binary.LittleEndian.Uint32(buf[o:])
	o += 4
	r.URLLength = binary.LittleEndian.Uint16(buf[o:])

	return r
}
