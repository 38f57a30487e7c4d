package compression

import (
	"encoding/binary"
)

// Compressor holds the state for LZB compression. The dictionary is reused
// between calls but reset at the start of each, so no data leaks from one
// input into the next.
//
// A Compressor must not be used by more than one goroutine at a time. Give
// each goroutine its own.
type Compressor struct {
	dict    *Dictionary
	matcher Matcher
}

// Option configures a [Compressor].
type Option func(*Compressor)

// WithMatcher replaces the default [BruteForceMatcher].
func WithMatcher(matcher Matcher) Option {
	return func(c *Compressor) {
		c.matcher = matcher
	}
}

// WithPatternRuns enables periodic-run detection on top of the current
// matcher. See [PatternRunMatcher].
func WithPatternRuns() Option {
	return func(c *Compressor) {
		c.matcher = PatternRunMatcher{Inner: c.matcher}
	}
}

// NewCompressor creates a compressor. Options are applied in order.
func NewCompressor(options ...Option) *Compressor {
	c := &Compressor{
		dict:    NewDictionary(),
		matcher: BruteForceMatcher{},
	}
	for _, option := range options {
		option(c)
	}
	return c
}

// MaxCompressedLen returns an upper bound on the size of the compressed form
// of `n` bytes of input.
func MaxCompressedLen(n int) int {
	if n <= 0 {
		return 0
	}
	return 2*n + referenceSize
}

// Compress compresses `src` with a new [Compressor] using default settings.
func Compress(src []byte) ([]byte, error) {
	return NewCompressor().Compress(src)
}

// Compress compresses `src` into a newly allocated slice.
func (c *Compressor) Compress(src []byte) ([]byte, error) {
	dest := make([]byte, MaxCompressedLen(len(src)))
	n, err := c.CompressInto(dest, src)
	if err != nil {
		return nil, err
	}
	return dest[:n], nil
}

// CompressInto compresses `src` into `dest` and returns the number of bytes
// written. If `dest` is too small the error wraps [gsla.ErrBufferTooSmall]
// and the contents of `dest` are undefined. A buffer of
// [MaxCompressedLen](len(src)) bytes is always large enough.
func (c *Compressor) CompressInto(dest, src []byte) (int, error) {
	c.dict.Reset()

	encoder := NewOpcodeEncoder(dest)
	pending := literalRun{encoder: encoder, source: src}

	// The candidate is src[candidateStart:i+1]. `previous` is the match found
	// for the candidate minus its last byte, if there was one.
	candidateStart := 0
	var previous Match
	havePrevious := false

	for i := range src {
		candidate := src[candidateStart : i+1]
		if len(candidate) < MinMatchLength {
			continue
		}

		var match Match
		var found bool
		if extender, ok := c.matcher.(matchExtender); ok && havePrevious {
			match, found = extender.ExtendMatch(c.dict, candidate, previous)
		} else {
			match, found = c.matcher.FindLongestMatch(c.dict, candidate, len(candidate))
		}

		if found {
			if len(candidate) < MaxMatchLength {
				// Keep growing the candidate to see if the match gets longer.
				previous = match
				havePrevious = true
				continue
			}

			// Can't grow any further, so emit it now.
			if err := c.emitReference(encoder, &pending, match, candidate); err != nil {
				return encoder.Len(), err
			}
			candidateStart = i + 1
			havePrevious = false
			continue
		}

		if havePrevious && previous.Length >= MinMatchLength {
			// The last byte broke the match. Emit everything before it and start
			// a new candidate with that byte.
			matched := src[candidateStart : candidateStart+previous.Length]
			if err := c.emitReference(encoder, &pending, previous, matched); err != nil {
				return encoder.Len(), err
			}
			candidateStart = i
			havePrevious = false
			continue
		}

		c.dict.Append(candidate)
		if err := pending.add(candidateStart, i+1); err != nil {
			return encoder.Len(), err
		}
		candidateStart = i + 1
		havePrevious = false
	}

	// Input ran out while the candidate was still matching. That match is
	// already confirmed, so use it instead of turning the tail into a literal.
	leftover := src[candidateStart:]
	if havePrevious && previous.Length == len(leftover) && len(leftover) >= MinMatchLength {
		if err := c.emitReference(encoder, &pending, previous, leftover); err != nil {
			return encoder.Len(), err
		}
		candidateStart = len(src)
	}

	if candidateStart < len(src) {
		c.dict.Append(src[candidateStart:])
		if err := pending.add(candidateStart, len(src)); err != nil {
			return encoder.Len(), err
		}
	}

	if err := pending.flush(); err != nil {
		return encoder.Len(), err
	}
	return encoder.Len(), nil
}

func (c *Compressor) emitReference(
	encoder *OpcodeEncoder, pending *literalRun, match Match, matched []byte,
) error {
	// Literals that came before this have to be written first.
	if err := pending.flush(); err != nil {
		return err
	}
	c.dict.Append(matched)
	_, err := encoder.EmitReference(match.Length, match.Offset)
	return err
}

// literalRun accumulates adjacent literal bytes so they can go out as one
// opcode instead of many small ones. Nothing is written until the run is
// flushed, so no header ever needs to be rewritten.
type literalRun struct {
	encoder *OpcodeEncoder
	source  []byte
	start   int
	end     int
}

func (r *literalRun) add(start, end int) error {
	if r.start == r.end {
		r.start = start
	} else if start != r.end {
		// Not adjacent to what we have; shouldn't happen since references
		// flush first, but don't silently reorder bytes if it does.
		if err := r.flush(); err != nil {
			return err
		}
		r.start = start
	}
	r.end = end

	// Write out full opcodes as soon as we have them.
	for r.end-r.start >= MaxOpcodeLength {
		if _, err := r.encoder.EmitLiteral(r.source[r.start : r.start+MaxOpcodeLength]); err != nil {
			return err
		}
		r.start += MaxOpcodeLength
	}
	return nil
}

func (r *literalRun) flush() error {
	for r.start < r.end {
		size := r.end - r.start
		if size > MaxOpcodeLength {
			size = MaxOpcodeLength
		}
		if _, err := r.encoder.EmitLiteral(r.source[r.start : r.start+size]); err != nil {
			return err
		}
		r.start += size
	}
	r.start = r.end
	return nil
}

////////////////////////////////////////////////////////////////////////////////

// Decompress expands `stream` into a new buffer of `destLength` bytes.
//
// The stream is not validated. Corrupt input makes this panic; see
// [DecompressChecked] for a variant that returns an error instead.
func Decompress(stream []byte, destLength int) []byte {
	dest := make([]byte, destLength)
	DecompressInto(dest, stream)
	return dest
}

// DecompressInto expands `stream` until `dest` is full and returns the number
// of stream bytes consumed. Anything in `stream` after that is ignored.
//
// The stream is not validated. Corrupt input makes this panic.
func DecompressInto(dest, stream []byte) int {
	produced := 0
	cursor := 0

	for produced < len(dest) {
		length, reference := decodeHeader(stream[cursor], stream[cursor+1])
		cursor += headerSize

		if reference {
			offset := int(binary.LittleEndian.Uint16(stream[cursor : cursor+2]))
			cursor += 2
			copyForward(dest, produced, offset, length)
		} else {
			copy(dest[produced:produced+length], stream[cursor:cursor+length])
			cursor += length
		}
		produced += length
	}
	return cursor
}

// copyForward copies `length` bytes within `buf` from `from` to `to`, one
// byte at a time from front to back. Unlike the builtin copy, if the ranges
// overlap then bytes written early in the copy are read again later, which
// turns a short pattern into a repeating run.
func copyForward(buf []byte, to, from, length int) {
	src := buf[from : from+length]
	dst := buf[to : to+length]
	for i := range dst {
		dst[i] = src[i]
	}
}
