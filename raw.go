package tmj

import "encoding/json"

// The raw* structs mirror the Tiled JSON schema as loosely as the editor
// writes it: optional fields stay pointers or zero values, enums stay
// strings, tile data stays an undecoded json.RawMessage. Validation happens
// in the builders, never here, so a malformed document is still rejected
// with a precise diagnostic instead of a generic decode error.

type rawMap struct {
	Version      json.RawMessage `json:"version"`
	TiledVersion string          `json:"tiledversion"`

	Orientation string `json:"orientation"`
	RenderOrder string `json:"renderorder"`

	Width      int `json:"width"`
	Height     int `json:"height"`
	TileWidth  int `json:"tilewidth"`
	TileHeight int `json:"tileheight"`

	Infinite bool `json:"infinite"`

	HexSideLength *int   `json:"hexsidelength"`
	StaggerAxis   string `json:"staggeraxis"`
	StaggerIndex  string `json:"staggerindex"`

	BackgroundColor string `json:"backgroundcolor"`

	Tilesets   []rawTileset  `json:"tilesets"`
	Layers     []rawLayer    `json:"layers"`
	Properties []rawProperty `json:"properties"`
}

type rawTileset struct {
	FirstGID uint32 `json:"firstgid"`
	// Source is only set for tileset-by-reference, which this package
	// rejects.
	Source string `json:"source"`

	Name       string `json:"name"`
	TileWidth  int    `json:"tilewidth"`
	TileHeight int    `json:"tileheight"`
	TileCount  int    `json:"tilecount"`
	Columns    int    `json:"columns"`
	Spacing    int    `json:"spacing"`
	Margin     int    `json:"margin"`

	Image       string `json:"image"`
	ImageWidth  int    `json:"imagewidth"`
	ImageHeight int    `json:"imageheight"`

	Tiles      []rawTilesetTile `json:"tiles"`
	Properties []rawProperty    `json:"properties"`
}

type rawTilesetTile struct {
	ID uint32 `json:"id"`

	Image       string `json:"image"`
	ImageWidth  int    `json:"imagewidth"`
	ImageHeight int    `json:"imageheight"`

	Animation   []rawFrame    `json:"animation"`
	ObjectGroup *rawLayer     `json:"objectgroup"`
	Properties  []rawProperty `json:"properties"`
}

type rawFrame struct {
	TileID   uint32 `json:"tileid"`
	Duration int    `json:"duration"` // milliseconds
}

type rawLayer struct {
	Type string `json:"type"`
	Name string `json:"name"`

	Visible   *bool    `json:"visible"`
	Opacity   *float64 `json:"opacity"`
	OffsetX   float64  `json:"offsetx"`
	OffsetY   float64  `json:"offsety"`
	ParallaxX *float64 `json:"parallaxx"`
	ParallaxY *float64 `json:"parallaxy"`
	TintColor string   `json:"tintcolor"`

	// Tile layer fields.
	Width       int             `json:"width"`
	Height      int             `json:"height"`
	Data        json.RawMessage `json:"data"`
	Chunks      []rawChunk      `json:"chunks"`
	Encoding    string          `json:"encoding"`
	Compression string          `json:"compression"`

	// Object group fields.
	DrawOrder string      `json:"draworder"`
	Color     string      `json:"color"`
	Objects   []rawObject `json:"objects"`

	// Image layer fields.
	Image            string `json:"image"`
	TransparentColor string `json:"transparentcolor"`
	RepeatX          bool   `json:"repeatx"`
	RepeatY          bool   `json:"repeaty"`

	// Group layer fields.
	Layers []rawLayer `json:"layers"`

	Properties []rawProperty `json:"properties"`
}

type rawChunk struct {
	X      int             `json:"x"`
	Y      int             `json:"y"`
	Width  int             `json:"width"`
	Height int             `json:"height"`
	Data   json.RawMessage `json:"data"`
}

type rawObject struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	// Type was renamed to Class in Tiled 1.9; either may be present.
	Type  string `json:"type"`
	Class string `json:"class"`

	GID uint32 `json:"gid"`

	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	Rotation float64 `json:"rotation"`
	Visible  *bool   `json:"visible"`

	Point    bool       `json:"point"`
	Ellipse  bool       `json:"ellipse"`
	Polygon  []rawPoint `json:"polygon"`
	Polyline []rawPoint `json:"polyline"`
	Text     *rawText   `json:"text"`

	Properties []rawProperty `json:"properties"`
}

type rawPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type rawText struct {
	Text       string `json:"text"`
	Wrap       bool   `json:"wrap"`
	FontFamily string `json:"fontfamily"`
	PixelSize  int    `json:"pixelsize"`
	Color      string `json:"color"`
}

type rawProperty struct {
	Name  string          `json:"name"`
	Type  string          `json:"type"`
	Value json.RawMessage `json:"value"`
}
