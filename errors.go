package tmj

import "errors"

// Parse failures are reported as one of these sentinels, wrapped with
// context (layer or tileset name, offending GID). Match with errors.Is.
var (
	ErrMalformedInput        = errors.New("tmj: malformed input")
	ErrUnsupportedFeature    = errors.New("tmj: unsupported feature")
	ErrInvalidTileset        = errors.New("tmj: invalid tileset")
	ErrInvalidProperty       = errors.New("tmj: invalid property")
	ErrUnknownLayerKind      = errors.New("tmj: unknown layer kind")
	ErrInconsistentLayerData = errors.New("tmj: inconsistent layer data")
	ErrUnresolvedTileRef     = errors.New("tmj: unresolved tile reference")
	ErrOverlappingTilesets   = errors.New("tmj: overlapping tileset ranges")
)
