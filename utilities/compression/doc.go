// Package compression implements LZB, the dictionary compressor used for
// animation frames.
//
// LZB is tuned for small, highly redundant raster buffers (a 320x200 frame is
// 32,768 bytes including its palettes) that must be expanded quickly by a
// slow target machine. The decompressor is a trivial opcode interpreter with
// no searching and no bit twiddling; all of the work happens when compressing.
//
// A compressed stream is a sequence of opcodes, each starting with a two-byte
// header:
//
//	byte 0: length & 0xFF
//	byte 1: (length >> 8) & 0x7F, with bit 7 set for a reference
//
// A literal (bit 7 clear) is followed by `length` raw bytes which are copied
// to the output verbatim. A reference (bit 7 set) is followed by a 16-bit
// little-endian offset; the decompressor copies `length` bytes starting at
// that absolute position in the output produced so far. The copy goes one
// byte at a time from front to back, so a reference may overlap the bytes it
// is producing. An offset one byte behind the current position with length
// 10 expands into ten copies of the previous byte.
//
// For example, the 11 bytes "xxxxxxxxxxx" can be stored as:
//
//	01 00 'x'         literal, 1 byte
//	0A 80 00 00       reference, 10 bytes from offset 0
//
// The stream does not record its decompressed size, so the caller has to
// supply it. Decoding stops as soon as that many bytes have been produced.
//
// The compressor keeps the bytes it has already consumed in a [Dictionary]
// capped at 32 KiB. Once the cap is reached it stops growing; it is not a
// sliding window, so data past the 32 KiB mark of one input can't be used as
// a match source. A reference is only emitted for matches of three bytes or
// more, since anything shorter costs less as a literal.
//
// [Decompress] and [DecompressInto] trust their input completely. A stream
// that refers outside the destination or runs off the end of the source
// panics. Use [Validate] or [DecompressChecked] for data that didn't come
// straight from [Compress].

package compression
