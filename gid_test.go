package tmj

import "testing"

func TestDecodeGID(t *testing.T) {
	tests := []struct {
		name  string
		raw   uint32
		gid   uint32
		flipX bool
		flipY bool
		flipD bool
	}{
		{"empty cell", 0, 0, false, false, false},
		{"plain gid", 42, 42, false, false, false},
		{"horizontal flip", 0x80000005, 5, true, false, false},
		{"vertical flip", 0x40000005, 5, false, true, false},
		{"diagonal flip", 0x20000005, 5, false, false, true},
		{"all flips", 0xe0000001, 1, true, true, true},
		{"max gid", GIDMask, GIDMask, false, false, false},
		{"all bits", 0xffffffff, GIDMask, true, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gid, flipX, flipY, flipD := DecodeGID(tt.raw)
			if gid != tt.gid || flipX != tt.flipX || flipY != tt.flipY || flipD != tt.flipD {
				t.Errorf("DecodeGID(%#x) = (%d, %v, %v, %v), want (%d, %v, %v, %v)",
					tt.raw, gid, flipX, flipY, flipD, tt.gid, tt.flipX, tt.flipY, tt.flipD)
			}
		})
	}
}

func TestGIDRoundTrip(t *testing.T) {
	// Boundary values plus a spread across the 32-bit space.
	values := []uint32{
		0, 1, 2, 0x1ffffffe, GIDMask,
		FlipHorizontalFlag, FlipVerticalFlag, FlipDiagonalFlag,
		0x80000005, 0xe0000001, 0xffffffff,
	}
	for v := int64(0); v <= 0xffffffff; v += 0x01000193 {
		values = append(values, uint32(v))
	}

	for _, v := range values {
		gid, fx, fy, fd := DecodeGID(v)
		if got := EncodeGID(gid, fx, fy, fd); got != v {
			t.Fatalf("EncodeGID(DecodeGID(%#x)) = %#x", v, got)
		}
	}
}

func TestTileRefIsNil(t *testing.T) {
	if !(TileRef{}).IsNil() {
		t.Error("zero TileRef should be nil")
	}
	if (TileRef{Tileset: &Tileset{}}).IsNil() {
		t.Error("TileRef with a tileset should not be nil")
	}
}
