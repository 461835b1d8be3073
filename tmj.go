// Package tmj decodes Tiled JSON map files (.tmj, .json) with embedded
// tilesets into a validated, immutable in-memory model. External tileset
// references, the XML formats and write support are out of scope.
package tmj

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
)

// Orientation is the map projection.
type Orientation string

const (
	Orthogonal Orientation = "orthogonal"
	Isometric  Orientation = "isometric"
	Staggered  Orientation = "staggered"
	Hexagonal  Orientation = "hexagonal"
)

// RenderOrder is the order in which tiles of a layer are drawn.
type RenderOrder string

const (
	RightDown RenderOrder = "right-down"
	RightUp   RenderOrder = "right-up"
	LeftDown  RenderOrder = "left-down"
	LeftUp    RenderOrder = "left-up"
)

// Map is a fully decoded and validated map. It is built in one pass by
// Parse and never mutated afterwards; the caller owns it outright.
type Map struct {
	// Version is the map format version, normalized to a string. Older
	// exports write it as a JSON number.
	Version      string
	TiledVersion string

	Orientation Orientation
	RenderOrder RenderOrder

	Width      int
	Height     int
	TileWidth  int
	TileHeight int

	Infinite bool

	// HexSideLength is only meaningful for hexagonal maps.
	HexSideLength int
	StaggerAxis   string
	StaggerIndex  string

	BackgroundColor *Color

	Tilesets   []*Tileset
	Layers     []Layer
	Properties Properties

	// Warnings are non-fatal notes gathered during the parse, such as a
	// format version newer than this package knows.
	Warnings []string
}

// Parse reads one Tiled JSON map document and returns the decoded map. The
// whole document is validated up front; on any failure no map is returned.
// Parse is pure: identical input always yields an identical result, and
// concurrent calls share no state.
func Parse(r io.Reader) (*Map, error) {
	var raw rawMap
	dec := json.NewDecoder(r)
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}
	return buildMap(raw)
}

// ParseFile opens path and parses it as a Tiled JSON map.
func ParseFile(path string) (*Map, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f)
}

func buildMap(raw rawMap) (*Map, error) {
	m := &Map{
		TiledVersion: raw.TiledVersion,
		Width:        raw.Width,
		Height:       raw.Height,
		TileWidth:    raw.TileWidth,
		TileHeight:   raw.TileHeight,
		Infinite:     raw.Infinite,
		StaggerAxis:  raw.StaggerAxis,
		StaggerIndex: raw.StaggerIndex,
	}

	m.Version = normalizeVersion(raw.Version)
	if m.Version != "" && !strings.HasPrefix(m.Version, "1.") {
		m.Warnings = append(m.Warnings,
			fmt.Sprintf("map format version %s is newer than this parser; continuing best-effort", m.Version))
	}

	switch Orientation(raw.Orientation) {
	case Orthogonal, Isometric, Staggered, Hexagonal:
		m.Orientation = Orientation(raw.Orientation)
	default:
		return nil, fmt.Errorf("%w: orientation %q", ErrUnsupportedFeature, raw.Orientation)
	}

	switch RenderOrder(raw.RenderOrder) {
	case RightDown, RightUp, LeftDown, LeftUp:
		m.RenderOrder = RenderOrder(raw.RenderOrder)
	case "":
		m.RenderOrder = RightDown
	default:
		return nil, fmt.Errorf("%w: render order %q", ErrUnsupportedFeature, raw.RenderOrder)
	}

	if raw.Width <= 0 || raw.Height <= 0 {
		return nil, fmt.Errorf("%w: map size %dx%d", ErrMalformedInput, raw.Width, raw.Height)
	}
	if raw.TileWidth <= 0 || raw.TileHeight <= 0 {
		return nil, fmt.Errorf("%w: tile size %dx%d", ErrMalformedInput, raw.TileWidth, raw.TileHeight)
	}

	if m.Orientation == Hexagonal {
		if raw.HexSideLength == nil {
			return nil, fmt.Errorf("%w: hexagonal map without hexsidelength", ErrMalformedInput)
		}
		if *raw.HexSideLength < 0 {
			return nil, fmt.Errorf("%w: hexsidelength %d", ErrMalformedInput, *raw.HexSideLength)
		}
		m.HexSideLength = *raw.HexSideLength
	}
	if m.Orientation == Staggered || m.Orientation == Hexagonal {
		switch raw.StaggerAxis {
		case "x", "y":
		case "":
			return nil, fmt.Errorf("%w: %s map without staggeraxis", ErrMalformedInput, m.Orientation)
		default:
			return nil, fmt.Errorf("%w: stagger axis %q", ErrUnsupportedFeature, raw.StaggerAxis)
		}
		switch raw.StaggerIndex {
		case "odd", "even":
		case "":
			return nil, fmt.Errorf("%w: %s map without staggerindex", ErrMalformedInput, m.Orientation)
		default:
			return nil, fmt.Errorf("%w: stagger index %q", ErrUnsupportedFeature, raw.StaggerIndex)
		}
	}

	if raw.BackgroundColor != "" {
		c, err := ParseColor(raw.BackgroundColor)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedInput, err)
		}
		m.BackgroundColor = &c
	}

	for _, rt := range raw.Tilesets {
		ts, err := newTileset(rt)
		if err != nil {
			return nil, err
		}
		m.Tilesets = append(m.Tilesets, ts)
	}
	idx, err := newTilesetIndex(m.Tilesets)
	if err != nil {
		return nil, err
	}

	for _, rl := range raw.Layers {
		layer, err := buildLayer(rl, idx, raw.Infinite)
		if err != nil {
			return nil, err
		}
		m.Layers = append(m.Layers, layer)
	}

	props, err := resolveProperties(raw.Properties)
	if err != nil {
		return nil, err
	}
	m.Properties = props

	return m, nil
}

// normalizeVersion accepts the version field as a JSON number (1.x exports)
// or a string (1.6 and later) and returns it as a string.
func normalizeVersion(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return string(raw)
}
