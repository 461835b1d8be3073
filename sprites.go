package tmj

import (
	"fmt"
	"image"
	_ "image/png" // tileset sheets are almost always png
	"os"
	"path/filepath"

	"github.com/hajimehoshi/ebiten/v2"
)

// Sprites holds the per-tile images of one tileset, indexed by local tile
// id. It is a loading helper for ebiten callers; the parser itself never
// touches image files.
type Sprites struct {
	Tileset *Tileset
	Tiles   []*ebiten.Image
}

// LoadSprites slices the tileset's image into per-tile ebiten images,
// honoring margin and spacing. Image paths are resolved relative to dir,
// the directory the map file was loaded from. Collection-of-images
// tilesets load each tile's own image instead; tiles without one stay nil.
func LoadSprites(ts *Tileset, dir string) (*Sprites, error) {
	sprites := &Sprites{
		Tileset: ts,
		Tiles:   make([]*ebiten.Image, ts.TileCount),
	}

	if ts.Image == "" {
		for id, tile := range ts.Tiles {
			if tile.Image == "" {
				continue
			}
			img, err := loadImage(filepath.Join(dir, tile.Image))
			if err != nil {
				return nil, fmt.Errorf("tileset %q tile %d: %w", ts.Name, id, err)
			}
			sprites.Tiles[id] = img
		}
		return sprites, nil
	}

	sheet, err := loadImage(filepath.Join(dir, ts.Image))
	if err != nil {
		return nil, fmt.Errorf("tileset %q: %w", ts.Name, err)
	}

	for id := 0; id < ts.TileCount; id++ {
		col := id % ts.Columns
		row := id / ts.Columns
		x := ts.Margin + col*(ts.TileWidth+ts.Spacing)
		y := ts.Margin + row*(ts.TileHeight+ts.Spacing)
		rect := image.Rect(x, y, x+ts.TileWidth, y+ts.TileHeight)
		sprites.Tiles[id] = sheet.SubImage(rect).(*ebiten.Image)
	}
	return sprites, nil
}

// Tile returns the image for a resolved tile reference, or nil for empty
// cells and references into other tilesets.
func (s *Sprites) Tile(ref TileRef) *ebiten.Image {
	if ref.IsNil() || ref.Tileset != s.Tileset || int(ref.ID) >= len(s.Tiles) {
		return nil
	}
	return s.Tiles[ref.ID]
}

func loadImage(path string) (*ebiten.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %v", path, err)
	}
	return ebiten.NewImageFromImage(img), nil
}
