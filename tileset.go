package tmj

import (
	"fmt"
	"sort"
	"time"
)

// Frame is one step of a tile animation.
type Frame struct {
	TileID   uint32
	Duration time.Duration
}

// TilesetTile is the optional per-tile metadata a tileset can attach to one
// of its local tile ids.
type TilesetTile struct {
	// Image is set for collection-of-images tilesets, where every tile has
	// its own image instead of a shared sheet.
	Image       string
	ImageWidth  int
	ImageHeight int

	Animation  []Frame
	Collision  []Object
	Properties Properties
}

// Tileset is a validated embedded tileset. It owns the half-open GID range
// [FirstGID, FirstGID+TileCount).
type Tileset struct {
	FirstGID uint32
	Name     string

	TileWidth  int
	TileHeight int
	TileCount  int
	Columns    int
	Spacing    int
	Margin     int

	// Image is the shared sheet, empty for collection-of-images tilesets.
	Image       string
	ImageWidth  int
	ImageHeight int

	Tiles      map[uint32]*TilesetTile
	Properties Properties
}

// Contains reports whether the bare (flag-stripped) gid falls inside this
// tileset's range.
func (t *Tileset) Contains(gid uint32) bool {
	return gid >= t.FirstGID && gid < t.FirstGID+uint32(t.TileCount)
}

// Tile returns the metadata for a local tile id, or nil when the tile has
// none.
func (t *Tileset) Tile(localID uint32) *TilesetTile {
	return t.Tiles[localID]
}

func newTileset(raw rawTileset) (*Tileset, error) {
	if raw.Source != "" {
		return nil, fmt.Errorf("%w: tileset %q references external file %q", ErrUnsupportedFeature, raw.Name, raw.Source)
	}
	if raw.FirstGID == 0 {
		return nil, fmt.Errorf("%w: tileset %q: firstgid must be at least 1", ErrInvalidTileset, raw.Name)
	}

	ts := &Tileset{
		FirstGID:    raw.FirstGID,
		Name:        raw.Name,
		TileWidth:   raw.TileWidth,
		TileHeight:  raw.TileHeight,
		TileCount:   raw.TileCount,
		Columns:     raw.Columns,
		Spacing:     raw.Spacing,
		Margin:      raw.Margin,
		Image:       raw.Image,
		ImageWidth:  raw.ImageWidth,
		ImageHeight: raw.ImageHeight,
	}

	if raw.Image != "" {
		if raw.ImageWidth <= 0 || raw.ImageHeight <= 0 {
			return nil, fmt.Errorf("%w: tileset %q: image %q has dimensions %dx%d", ErrInvalidTileset, raw.Name, raw.Image, raw.ImageWidth, raw.ImageHeight)
		}
		if raw.TileWidth <= 0 || raw.TileHeight <= 0 {
			return nil, fmt.Errorf("%w: tileset %q: tile size %dx%d", ErrInvalidTileset, raw.Name, raw.TileWidth, raw.TileHeight)
		}

		columns := raw.Columns
		if columns == 0 {
			columns = (raw.ImageWidth - 2*raw.Margin + raw.Spacing) / (raw.TileWidth + raw.Spacing)
		}
		rows := (raw.ImageHeight - 2*raw.Margin + raw.Spacing) / (raw.TileHeight + raw.Spacing)
		if columns <= 0 || rows <= 0 {
			return nil, fmt.Errorf("%w: tileset %q: image %q smaller than one tile", ErrInvalidTileset, raw.Name, raw.Image)
		}

		if ts.TileCount == 0 {
			ts.TileCount = columns * rows
		} else if ts.TileCount != columns*rows {
			return nil, fmt.Errorf("%w: tileset %q: tilecount %d does not match %d columns x %d rows", ErrInvalidTileset, raw.Name, ts.TileCount, columns, rows)
		}
		ts.Columns = columns
	}
	if ts.TileCount <= 0 {
		return nil, fmt.Errorf("%w: tileset %q: owns no tiles", ErrInvalidTileset, raw.Name)
	}

	for _, rt := range raw.Tiles {
		if rt.ID >= uint32(ts.TileCount) {
			return nil, fmt.Errorf("%w: tileset %q: tile id %d out of range (tilecount %d)", ErrInvalidTileset, raw.Name, rt.ID, ts.TileCount)
		}

		tile := &TilesetTile{
			Image:       rt.Image,
			ImageWidth:  rt.ImageWidth,
			ImageHeight: rt.ImageHeight,
		}

		for _, rf := range rt.Animation {
			if rf.TileID >= uint32(ts.TileCount) {
				return nil, fmt.Errorf("%w: tileset %q: animation frame id %d out of range (tilecount %d)", ErrInvalidTileset, raw.Name, rf.TileID, ts.TileCount)
			}
			tile.Animation = append(tile.Animation, Frame{
				TileID:   rf.TileID,
				Duration: time.Duration(rf.Duration) * time.Millisecond,
			})
		}

		if rt.ObjectGroup != nil {
			for _, ro := range rt.ObjectGroup.Objects {
				// Collision shapes carry plain geometry, never tile refs.
				obj, err := buildObject(ro, nil, raw.Name)
				if err != nil {
					return nil, fmt.Errorf("%w: tileset %q: tile %d: %v", ErrInvalidTileset, raw.Name, rt.ID, err)
				}
				tile.Collision = append(tile.Collision, obj)
			}
		}

		props, err := resolveProperties(rt.Properties)
		if err != nil {
			return nil, err
		}
		tile.Properties = props

		if ts.Tiles == nil {
			ts.Tiles = make(map[uint32]*TilesetTile)
		}
		ts.Tiles[rt.ID] = tile
	}

	props, err := resolveProperties(raw.Properties)
	if err != nil {
		return nil, err
	}
	ts.Properties = props

	return ts, nil
}

// tilesetIndex resolves bare gids to their owning tileset. It is kept
// sorted by FirstGID so lookup is a binary search; the map itself keeps
// declaration order.
type tilesetIndex []*Tileset

func newTilesetIndex(tilesets []*Tileset) (tilesetIndex, error) {
	idx := make(tilesetIndex, len(tilesets))
	copy(idx, tilesets)
	sort.Slice(idx, func(i, j int) bool { return idx[i].FirstGID < idx[j].FirstGID })

	for i := 1; i < len(idx); i++ {
		prev, cur := idx[i-1], idx[i]
		if prev.FirstGID+uint32(prev.TileCount) > cur.FirstGID {
			return nil, fmt.Errorf("%w: %q [%d,%d) and %q [%d,%d)",
				ErrOverlappingTilesets,
				prev.Name, prev.FirstGID, prev.FirstGID+uint32(prev.TileCount),
				cur.Name, cur.FirstGID, cur.FirstGID+uint32(cur.TileCount))
		}
	}
	return idx, nil
}

// resolve finds the tileset owning the bare gid: the one with the greatest
// FirstGID <= gid, provided gid is inside its range.
func (idx tilesetIndex) resolve(gid uint32) (*Tileset, uint32, bool) {
	i := sort.Search(len(idx), func(i int) bool { return idx[i].FirstGID > gid }) - 1
	if i < 0 {
		return nil, 0, false
	}
	ts := idx[i]
	if !ts.Contains(gid) {
		return nil, 0, false
	}
	return ts, gid - ts.FirstGID, true
}
