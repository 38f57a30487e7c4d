package gsla

// Geometry of the 320x200 16-color raster. Pixels are packed two per byte,
// so each row occupies 160 bytes.
const (
	ScreenWidthPixels = 320
	ScreenHeight      = 200
	PixelsPerByte     = 2
	BytesPerRow       = ScreenWidthPixels / PixelsPerByte
)

// PixelRegionSize is the number of bytes holding raster pixels at the start of
// every frame buffer.
const PixelRegionSize = BytesPerRow * ScreenHeight

// A full frame also carries 200 scanline-control bytes, 56 bytes of padding,
// and 16 palettes of 16 colors (two bytes each) after the pixels.
const (
	SCBOffset     = PixelRegionSize
	SCBSize       = ScreenHeight
	PaletteOffset = 0x7E00
	PaletteSize   = 16 * 16 * 2
	FrameSize     = PaletteOffset + PaletteSize
)
