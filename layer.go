package tmj

import (
	"bytes"
	"compress/gzip"
	"compress/zlib"
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/klauspost/compress/zstd"
)

// LayerInfo holds the attributes shared by every layer kind.
type LayerInfo struct {
	Name    string
	Visible bool
	Opacity float64

	OffsetX   float64
	OffsetY   float64
	ParallaxX float64
	ParallaxY float64

	TintColor  *Color
	Properties Properties
}

// Common returns the shared layer attributes.
func (l *LayerInfo) Common() *LayerInfo { return l }

// Layer is one plane of the map. The concrete type is one of *TileLayer,
// *ObjectGroup, *ImageLayer or *GroupLayer; callers dispatch with a type
// switch. The set is closed: the format cannot grow a new kind without a
// version bump.
type Layer interface {
	Common() *LayerInfo
}

// Chunk is a fixed-size piece of an infinite tile layer, keyed by its
// origin in tile coordinates.
type Chunk struct {
	X, Y          int
	Width, Height int
	Tiles         []TileRef
}

// TileLayer is a grid of tile references. Finite maps fill Tiles row-major
// from the top-left; infinite maps leave Tiles empty and carry Chunks.
type TileLayer struct {
	LayerInfo

	Width  int
	Height int
	Tiles  []TileRef
	Chunks []Chunk
}

// At returns the cell at (x, y) of a finite tile layer.
func (l *TileLayer) At(x, y int) TileRef {
	return l.Tiles[y*l.Width+x]
}

// Object is a single placed object of an object group.
type Object struct {
	ID    int
	Name  string
	Class string

	Kind ObjectKind

	X, Y          float64
	Width, Height float64
	Rotation      float64
	Visible       bool

	// Points is set for polygons and polylines, relative to (X, Y).
	Points []Point
	// Tile is set for tile objects.
	Tile TileRef
	// Text is set for text objects.
	Text *Text

	Properties Properties
}

// ObjectKind discriminates the shape carried by an Object.
type ObjectKind int

const (
	ObjectRectangle ObjectKind = iota
	ObjectEllipse
	ObjectPoint
	ObjectPolygon
	ObjectPolyline
	ObjectTile
	ObjectText
)

// Point is a vertex of a polygon or polyline.
type Point struct {
	X, Y float64
}

// Text is the content of a text object.
type Text struct {
	Text       string
	Wrap       bool
	FontFamily string
	PixelSize  int
	Color      *Color
}

// ObjectGroup is an ordered collection of placed objects.
type ObjectGroup struct {
	LayerInfo

	Color     *Color
	DrawOrder string
	Objects   []Object
}

// ImageLayer is a single image drawn at the layer offset.
type ImageLayer struct {
	LayerInfo

	Image            string
	TransparentColor *Color
	RepeatX          bool
	RepeatY          bool
}

// GroupLayer nests other layers. A child belongs to exactly one group.
type GroupLayer struct {
	LayerInfo

	Layers []Layer
}

func buildLayer(raw rawLayer, idx tilesetIndex, infinite bool) (Layer, error) {
	info, err := buildLayerInfo(raw)
	if err != nil {
		return nil, err
	}

	switch raw.Type {
	case "tilelayer":
		return buildTileLayer(raw, info, idx, infinite)
	case "objectgroup":
		return buildObjectGroup(raw, info, idx)
	case "imagelayer":
		return buildImageLayer(raw, info)
	case "group":
		return buildGroupLayer(raw, info, idx, infinite)
	}
	return nil, fmt.Errorf("%w: layer %q has type %q", ErrUnknownLayerKind, raw.Name, raw.Type)
}

func buildLayerInfo(raw rawLayer) (LayerInfo, error) {
	info := LayerInfo{
		Name:      raw.Name,
		Visible:   true,
		Opacity:   1,
		OffsetX:   raw.OffsetX,
		OffsetY:   raw.OffsetY,
		ParallaxX: 1,
		ParallaxY: 1,
	}
	if raw.Visible != nil {
		info.Visible = *raw.Visible
	}
	if raw.Opacity != nil {
		info.Opacity = *raw.Opacity
	}
	if info.Opacity < 0 || info.Opacity > 1 {
		return LayerInfo{}, fmt.Errorf("%w: layer %q opacity %v outside [0,1]", ErrMalformedInput, raw.Name, info.Opacity)
	}
	if raw.ParallaxX != nil {
		info.ParallaxX = *raw.ParallaxX
	}
	if raw.ParallaxY != nil {
		info.ParallaxY = *raw.ParallaxY
	}
	if raw.TintColor != "" {
		c, err := ParseColor(raw.TintColor)
		if err != nil {
			return LayerInfo{}, fmt.Errorf("%w: layer %q: %v", ErrMalformedInput, raw.Name, err)
		}
		info.TintColor = &c
	}

	props, err := resolveProperties(raw.Properties)
	if err != nil {
		return LayerInfo{}, fmt.Errorf("layer %q: %w", raw.Name, err)
	}
	info.Properties = props
	return info, nil
}

func buildTileLayer(raw rawLayer, info LayerInfo, idx tilesetIndex, infinite bool) (*TileLayer, error) {
	layer := &TileLayer{
		LayerInfo: info,
		Width:     raw.Width,
		Height:    raw.Height,
	}

	if len(raw.Chunks) > 0 {
		if !infinite {
			return nil, fmt.Errorf("%w: layer %q has chunked data but the map is not infinite", ErrInconsistentLayerData, raw.Name)
		}
		for _, rc := range raw.Chunks {
			gids, err := decodeTileData(rc.Data, raw.Encoding, raw.Compression, rc.Width*rc.Height, raw.Name)
			if err != nil {
				return nil, err
			}
			tiles, err := resolveTiles(gids, idx, raw.Name)
			if err != nil {
				return nil, err
			}
			layer.Chunks = append(layer.Chunks, Chunk{
				X:      rc.X,
				Y:      rc.Y,
				Width:  rc.Width,
				Height: rc.Height,
				Tiles:  tiles,
			})
		}
		return layer, nil
	}

	if raw.Width <= 0 || raw.Height <= 0 {
		return nil, fmt.Errorf("%w: layer %q has size %dx%d", ErrMalformedInput, raw.Name, raw.Width, raw.Height)
	}
	gids, err := decodeTileData(raw.Data, raw.Encoding, raw.Compression, raw.Width*raw.Height, raw.Name)
	if err != nil {
		return nil, err
	}
	layer.Tiles, err = resolveTiles(gids, idx, raw.Name)
	if err != nil {
		return nil, err
	}
	return layer, nil
}

// decodeTileData decodes one data block into raw gids. The editor writes
// either a plain JSON array ("csv" or no encoding) or a base64 string of
// little-endian u32s, optionally compressed.
func decodeTileData(data json.RawMessage, encoding, compression string, want int, layer string) ([]uint32, error) {
	switch encoding {
	case "", "csv":
		if len(data) == 0 {
			return nil, fmt.Errorf("%w: layer %q has no tile data", ErrMalformedInput, layer)
		}
		var gids []uint32
		if err := json.Unmarshal(data, &gids); err != nil {
			return nil, fmt.Errorf("%w: layer %q tile data: %v", ErrMalformedInput, layer, err)
		}
		if len(gids) != want {
			return nil, fmt.Errorf("%w: layer %q has %d tiles, want %d", ErrInconsistentLayerData, layer, len(gids), want)
		}
		return gids, nil

	case "base64":
		var enc string
		if err := json.Unmarshal(data, &enc); err != nil {
			return nil, fmt.Errorf("%w: layer %q base64 data is not a string", ErrMalformedInput, layer)
		}
		raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(enc))
		if err != nil {
			return nil, fmt.Errorf("%w: layer %q: %v", ErrMalformedInput, layer, err)
		}
		raw, err = decompress(raw, compression)
		if err != nil {
			return nil, fmt.Errorf("layer %q: %w", layer, err)
		}
		if len(raw) != want*4 {
			return nil, fmt.Errorf("%w: layer %q has %d data bytes, want %d", ErrInconsistentLayerData, layer, len(raw), want*4)
		}
		gids := make([]uint32, want)
		for i := range gids {
			gids[i] = binary.LittleEndian.Uint32(raw[i*4:])
		}
		return gids, nil
	}
	return nil, fmt.Errorf("%w: tile data encoding %q", ErrUnsupportedFeature, encoding)
}

func decompress(data []byte, compression string) ([]byte, error) {
	switch compression {
	case "":
		return data, nil

	case "zlib":
		r, err := zlib.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("%w: zlib: %v", ErrMalformedInput, err)
		}
		defer r.Close()
		out, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("%w: zlib: %v", ErrMalformedInput, err)
		}
		return out, nil

	case "gzip":
		r, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("%w: gzip: %v", ErrMalformedInput, err)
		}
		defer r.Close()
		out, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("%w: gzip: %v", ErrMalformedInput, err)
		}
		return out, nil

	case "zstd":
		r, err := zstd.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("%w: zstd: %v", ErrMalformedInput, err)
		}
		defer r.Close()
		out, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("%w: zstd: %v", ErrMalformedInput, err)
		}
		return out, nil
	}
	return nil, fmt.Errorf("%w: tile data compression %q", ErrUnsupportedFeature, compression)
}

// resolveTiles decodes each raw gid and binds non-empty cells to their
// owning tileset.
func resolveTiles(gids []uint32, idx tilesetIndex, layer string) ([]TileRef, error) {
	tiles := make([]TileRef, len(gids))
	for i, raw := range gids {
		ref, err := resolveTileRef(raw, idx, layer)
		if err != nil {
			return nil, err
		}
		tiles[i] = ref
	}
	return tiles, nil
}

func resolveTileRef(raw uint32, idx tilesetIndex, layer string) (TileRef, error) {
	gid, flipX, flipY, flipD := DecodeGID(raw)
	if gid == 0 {
		// Empty cell, never resolved against a tileset.
		return TileRef{}, nil
	}
	ts, local, ok := idx.resolve(gid)
	if !ok {
		return TileRef{}, fmt.Errorf("%w: layer %q raw gid %d (tile id %d)", ErrUnresolvedTileRef, layer, raw, gid)
	}
	return TileRef{
		ID:      local,
		Tileset: ts,
		FlipX:   flipX,
		FlipY:   flipY,
		FlipD:   flipD,
	}, nil
}

func buildObjectGroup(raw rawLayer, info LayerInfo, idx tilesetIndex) (*ObjectGroup, error) {
	group := &ObjectGroup{
		LayerInfo: info,
		DrawOrder: raw.DrawOrder,
	}
	if raw.Color != "" {
		c, err := ParseColor(raw.Color)
		if err != nil {
			return nil, fmt.Errorf("%w: layer %q: %v", ErrMalformedInput, raw.Name, err)
		}
		group.Color = &c
	}

	for _, ro := range raw.Objects {
		obj, err := buildObject(ro, idx, raw.Name)
		if err != nil {
			return nil, err
		}
		group.Objects = append(group.Objects, obj)
	}
	return group, nil
}

// buildObject validates one object's shape fields against its kind. idx may
// be nil where tile objects cannot appear (tileset collision shapes).
func buildObject(raw rawObject, idx tilesetIndex, owner string) (Object, error) {
	obj := Object{
		ID:       raw.ID,
		Name:     raw.Name,
		Class:    raw.Class,
		X:        raw.X,
		Y:        raw.Y,
		Width:    raw.Width,
		Height:   raw.Height,
		Rotation: raw.Rotation,
		Visible:  true,
	}
	if obj.Class == "" {
		obj.Class = raw.Type
	}
	if raw.Visible != nil {
		obj.Visible = *raw.Visible
	}

	switch {
	case raw.GID != 0:
		obj.Kind = ObjectTile
		ref, err := resolveTileRef(raw.GID, idx, owner)
		if err != nil {
			return Object{}, err
		}
		if ref.IsNil() {
			return Object{}, fmt.Errorf("%w: layer %q object %d gid %d", ErrUnresolvedTileRef, owner, raw.ID, raw.GID)
		}
		obj.Tile = ref

	case raw.Point:
		obj.Kind = ObjectPoint

	case raw.Ellipse:
		obj.Kind = ObjectEllipse

	case raw.Polygon != nil:
		obj.Kind = ObjectPolygon
		if len(raw.Polygon) == 0 {
			return Object{}, fmt.Errorf("%w: layer %q object %d: polygon has no points", ErrMalformedInput, owner, raw.ID)
		}
		obj.Points = buildPoints(raw.Polygon)

	case raw.Polyline != nil:
		obj.Kind = ObjectPolyline
		if len(raw.Polyline) == 0 {
			return Object{}, fmt.Errorf("%w: layer %q object %d: polyline has no points", ErrMalformedInput, owner, raw.ID)
		}
		obj.Points = buildPoints(raw.Polyline)

	case raw.Text != nil:
		obj.Kind = ObjectText
		text := &Text{
			Text:       raw.Text.Text,
			Wrap:       raw.Text.Wrap,
			FontFamily: raw.Text.FontFamily,
			PixelSize:  raw.Text.PixelSize,
		}
		if raw.Text.Color != "" {
			c, err := ParseColor(raw.Text.Color)
			if err != nil {
				return Object{}, fmt.Errorf("%w: layer %q object %d: %v", ErrMalformedInput, owner, raw.ID, err)
			}
			text.Color = &c
		}
		obj.Text = text

	default:
		obj.Kind = ObjectRectangle
	}

	props, err := resolveProperties(raw.Properties)
	if err != nil {
		return Object{}, fmt.Errorf("layer %q object %d: %w", owner, raw.ID, err)
	}
	obj.Properties = props
	return obj, nil
}

func buildPoints(raw []rawPoint) []Point {
	points := make([]Point, len(raw))
	for i, p := range raw {
		points[i] = Point{X: p.X, Y: p.Y}
	}
	return points
}

func buildImageLayer(raw rawLayer, info LayerInfo) (*ImageLayer, error) {
	layer := &ImageLayer{
		LayerInfo: info,
		Image:     raw.Image,
		RepeatX:   raw.RepeatX,
		RepeatY:   raw.RepeatY,
	}
	if raw.TransparentColor != "" {
		c, err := ParseColor(raw.TransparentColor)
		if err != nil {
			return nil, fmt.Errorf("%w: layer %q: %v", ErrMalformedInput, raw.Name, err)
		}
		layer.TransparentColor = &c
	}
	return layer, nil
}

func buildGroupLayer(raw rawLayer, info LayerInfo, idx tilesetIndex, infinite bool) (*GroupLayer, error) {
	group := &GroupLayer{LayerInfo: info}
	for _, rl := range raw.Layers {
		child, err := buildLayer(rl, idx, infinite)
		if err != nil {
			return nil, err
		}
		group.Layers = append(group.Layers, child)
	}
	return group, nil
}
