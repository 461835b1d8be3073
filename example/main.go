// Command example renders the tile layers of a Tiled JSON map in an ebiten
// window. It is a demo driver for the tmj package, not part of the core.
package main

import (
	"flag"
	"math"
	"os"
	"path/filepath"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/retroblast-engine/tmj"
)

type game struct {
	m       *tmj.Map
	sprites map[*tmj.Tileset]*tmj.Sprites
}

func (g *game) Update() error { return nil }

func (g *game) Draw(screen *ebiten.Image) {
	if g.m.BackgroundColor != nil {
		screen.Fill(*g.m.BackgroundColor)
	}
	for _, layer := range g.m.Layers {
		g.drawLayer(screen, layer)
	}
}

func (g *game) drawLayer(screen *ebiten.Image, layer tmj.Layer) {
	if !layer.Common().Visible {
		return
	}
	switch l := layer.(type) {
	case *tmj.TileLayer:
		g.drawTileLayer(screen, l)
	case *tmj.GroupLayer:
		for _, child := range l.Layers {
			g.drawLayer(screen, child)
		}
	}
}

func (g *game) drawTileLayer(screen *ebiten.Image, l *tmj.TileLayer) {
	for y := 0; y < l.Height; y++ {
		for x := 0; x < l.Width; x++ {
			ref := l.At(x, y)
			if ref.IsNil() {
				continue
			}
			img := g.sprites[ref.Tileset].Tile(ref)
			if img == nil {
				continue
			}

			tw := float64(ref.Tileset.TileWidth)
			th := float64(ref.Tileset.TileHeight)
			op := &ebiten.DrawImageOptions{}
			op.GeoM.Translate(-tw/2, -th/2)
			if ref.FlipD {
				op.GeoM.Rotate(math.Pi / 2)
				op.GeoM.Scale(-1, 1)
			}
			if ref.FlipX {
				op.GeoM.Scale(-1, 1)
			}
			if ref.FlipY {
				op.GeoM.Scale(1, -1)
			}
			op.GeoM.Translate(tw/2, th/2)
			op.GeoM.Translate(
				float64(x*g.m.TileWidth)+l.OffsetX,
				float64(y*g.m.TileHeight)+l.OffsetY,
			)
			op.ColorScale.ScaleAlpha(float32(l.Opacity))
			screen.DrawImage(img, op)
		}
	}
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.m.Width * g.m.TileWidth, g.m.Height * g.m.TileHeight
}

func main() {
	mapPath := flag.String("map", "assets/map.json", "path to a Tiled JSON map with embedded tilesets")
	debug := flag.Bool("debug", false, "verbose logging")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	if *debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	m, err := tmj.ParseFile(*mapPath)
	if err != nil {
		log.Fatal().Err(err).Str("map", *mapPath).Msg("failed to parse map")
	}
	for _, w := range m.Warnings {
		log.Warn().Msg(w)
	}
	log.Info().
		Str("version", m.Version).
		Str("orientation", string(m.Orientation)).
		Int("width", m.Width).
		Int("height", m.Height).
		Int("tilesets", len(m.Tilesets)).
		Int("layers", len(m.Layers)).
		Msg("map loaded")

	dir := filepath.Dir(*mapPath)
	sprites := make(map[*tmj.Tileset]*tmj.Sprites, len(m.Tilesets))
	for _, ts := range m.Tilesets {
		s, err := tmj.LoadSprites(ts, dir)
		if err != nil {
			log.Fatal().Err(err).Str("tileset", ts.Name).Msg("failed to load tileset image")
		}
		log.Debug().Str("tileset", ts.Name).Int("tiles", ts.TileCount).Msg("tileset sliced")
		sprites[ts] = s
	}

	ebiten.SetWindowSize(m.Width*m.TileWidth, m.Height*m.TileHeight)
	ebiten.SetWindowTitle(filepath.Base(*mapPath))
	if err := ebiten.RunGame(&game{m: m, sprites: sprites}); err != nil {
		log.Fatal().Err(err).Msg("viewer exited")
	}
}
