package tmj

import (
	"errors"
	"testing"
)

func TestNewTileset(t *testing.T) {
	raw := rawTileset{
		FirstGID:    1,
		Name:        "terrain",
		TileWidth:   16,
		TileHeight:  16,
		TileCount:   8,
		Columns:     4,
		Image:       "terrain.png",
		ImageWidth:  64,
		ImageHeight: 32,
		Tiles: []rawTilesetTile{
			{
				ID:         3,
				Animation:  []rawFrame{{TileID: 3, Duration: 100}, {TileID: 4, Duration: 250}},
				Properties: []rawProperty{prop("solid", "bool", `true`)},
			},
		},
	}

	ts, err := newTileset(raw)
	if err != nil {
		t.Fatalf("newTileset: %v", err)
	}
	if ts.TileCount != 8 || ts.Columns != 4 {
		t.Errorf("got tilecount %d columns %d", ts.TileCount, ts.Columns)
	}
	tile := ts.Tile(3)
	if tile == nil {
		t.Fatal("Tile(3) = nil")
	}
	if len(tile.Animation) != 2 || tile.Animation[1].Duration.Milliseconds() != 250 {
		t.Errorf("animation = %+v", tile.Animation)
	}
	if !tile.Properties.GetBool("solid") {
		t.Error("tile property solid not decoded")
	}
	if ts.Tile(0) != nil {
		t.Error("Tile(0) should have no metadata")
	}
}

func TestNewTilesetDerivesCount(t *testing.T) {
	ts, err := newTileset(rawTileset{
		FirstGID:    1,
		Name:        "sheet",
		TileWidth:   8,
		TileHeight:  8,
		Image:       "sheet.png",
		ImageWidth:  32,
		ImageHeight: 16,
	})
	if err != nil {
		t.Fatalf("newTileset: %v", err)
	}
	if ts.TileCount != 8 || ts.Columns != 4 {
		t.Errorf("derived tilecount %d columns %d, want 8 and 4", ts.TileCount, ts.Columns)
	}
}

func TestNewTilesetMarginSpacing(t *testing.T) {
	// 2px margin, 1px spacing: (37 - 4 + 1) / (16 + 1) = 2 columns.
	ts, err := newTileset(rawTileset{
		FirstGID:    1,
		Name:        "spaced",
		TileWidth:   16,
		TileHeight:  16,
		Spacing:     1,
		Margin:      2,
		Image:       "spaced.png",
		ImageWidth:  37,
		ImageHeight: 37,
	})
	if err != nil {
		t.Fatalf("newTileset: %v", err)
	}
	if ts.Columns != 2 || ts.TileCount != 4 {
		t.Errorf("got columns %d tilecount %d, want 2 and 4", ts.Columns, ts.TileCount)
	}
}

func TestNewTilesetInvalid(t *testing.T) {
	tests := []struct {
		name string
		raw  rawTileset
		want error
	}{
		{
			"external reference",
			rawTileset{FirstGID: 1, Source: "terrain.tsx"},
			ErrUnsupportedFeature,
		},
		{
			"zero firstgid",
			rawTileset{FirstGID: 0, Name: "t", TileCount: 4},
			ErrInvalidTileset,
		},
		{
			"tilecount mismatch",
			rawTileset{FirstGID: 1, Name: "t", TileWidth: 16, TileHeight: 16, TileCount: 9, Image: "t.png", ImageWidth: 64, ImageHeight: 32},
			ErrInvalidTileset,
		},
		{
			"non-positive image",
			rawTileset{FirstGID: 1, Name: "t", TileWidth: 16, TileHeight: 16, Image: "t.png", ImageWidth: 0, ImageHeight: 32},
			ErrInvalidTileset,
		},
		{
			"no tiles at all",
			rawTileset{FirstGID: 1, Name: "t"},
			ErrInvalidTileset,
		},
		{
			"tile id out of range",
			rawTileset{FirstGID: 1, Name: "t", TileCount: 4, Tiles: []rawTilesetTile{{ID: 4}}},
			ErrInvalidTileset,
		},
		{
			"animation frame out of range",
			rawTileset{FirstGID: 1, Name: "t", TileCount: 4, Tiles: []rawTilesetTile{{ID: 0, Animation: []rawFrame{{TileID: 9}}}}},
			ErrInvalidTileset,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newTileset(tt.raw)
			if !errors.Is(err, tt.want) {
				t.Errorf("got %v, want %v", err, tt.want)
			}
		})
	}
}

func TestTilesetIndexResolve(t *testing.T) {
	a := &Tileset{FirstGID: 1, TileCount: 4, Name: "a"}
	b := &Tileset{FirstGID: 5, TileCount: 8, Name: "b"}
	idx, err := newTilesetIndex([]*Tileset{a, b})
	if err != nil {
		t.Fatalf("newTilesetIndex: %v", err)
	}

	tests := []struct {
		gid   uint32
		ts    *Tileset
		local uint32
		ok    bool
	}{
		{1, a, 0, true},
		{2, a, 1, true},
		{4, a, 3, true},
		{5, b, 0, true},
		{6, b, 1, true},
		{12, b, 7, true},
		{13, nil, 0, false}, // one past the last range
		{0, nil, 0, false},  // below every range
	}
	for _, tt := range tests {
		ts, local, ok := idx.resolve(tt.gid)
		if ts != tt.ts || local != tt.local || ok != tt.ok {
			t.Errorf("resolve(%d) = (%v, %d, %v), want (%v, %d, %v)",
				tt.gid, ts, local, ok, tt.ts, tt.local, tt.ok)
		}
	}
}

func TestTilesetIndexOverlap(t *testing.T) {
	_, err := newTilesetIndex([]*Tileset{
		{FirstGID: 1, TileCount: 8, Name: "a"},
		{FirstGID: 5, TileCount: 4, Name: "b"},
	})
	if !errors.Is(err, ErrOverlappingTilesets) {
		t.Errorf("got %v, want ErrOverlappingTilesets", err)
	}

	// Declaration order must not matter for the check.
	_, err = newTilesetIndex([]*Tileset{
		{FirstGID: 5, TileCount: 4, Name: "b"},
		{FirstGID: 1, TileCount: 8, Name: "a"},
	})
	if !errors.Is(err, ErrOverlappingTilesets) {
		t.Errorf("got %v, want ErrOverlappingTilesets", err)
	}

	// Adjacent ranges are fine.
	if _, err := newTilesetIndex([]*Tileset{
		{FirstGID: 1, TileCount: 4, Name: "a"},
		{FirstGID: 5, TileCount: 4, Name: "b"},
	}); err != nil {
		t.Errorf("adjacent ranges: %v", err)
	}
}
