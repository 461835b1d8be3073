package tmj

// A raw GID packs three orientation flags into the top bits of a 32-bit
// value; the low 29 bits are the global tile id.
const (
	FlipHorizontalFlag uint32 = 0x80000000
	FlipVerticalFlag   uint32 = 0x40000000
	FlipDiagonalFlag   uint32 = 0x20000000

	// GIDMask isolates the tile id.
	GIDMask uint32 = 0x1fffffff
)

// DecodeGID splits a raw 32-bit tile value into the global tile id and its
// flip flags. Every input is valid; a raw value of 0 is the empty cell.
func DecodeGID(raw uint32) (gid uint32, flipX, flipY, flipD bool) {
	gid = raw & GIDMask
	flipX = raw&FlipHorizontalFlag != 0
	flipY = raw&FlipVerticalFlag != 0
	flipD = raw&FlipDiagonalFlag != 0
	return gid, flipX, flipY, flipD
}

// EncodeGID is the inverse of DecodeGID.
func EncodeGID(gid uint32, flipX, flipY, flipD bool) uint32 {
	raw := gid & GIDMask
	if flipX {
		raw |= FlipHorizontalFlag
	}
	if flipY {
		raw |= FlipVerticalFlag
	}
	if flipD {
		raw |= FlipDiagonalFlag
	}
	return raw
}

// TileRef is a single resolved cell of a tile layer: the owning tileset,
// the tileset-local tile id and the three flip flags.
type TileRef struct {
	ID      uint32
	Tileset *Tileset

	FlipX, FlipY, FlipD bool
}

// IsNil reports whether the cell is empty (raw GID 0). An empty cell has no
// tileset and must not be drawn.
func (t TileRef) IsNil() bool {
	return t.Tileset == nil
}
