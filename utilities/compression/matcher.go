package compression

const (
	// MinMatchLength is the shortest match worth encoding as a reference. A
	// reference costs four bytes, so anything shorter is cheaper as a literal.
	MinMatchLength = 3

	// MaxMatchLength is the longest match the compressor will look for.
	MaxMatchLength = 16384

	// MaxPatternPeriod is the longest repeating pattern [PatternRunMatcher]
	// checks for at the end of the dictionary.
	MaxPatternPeriod = 256
)

// Match describes a run of input bytes that also occurs in the dictionary.
type Match struct {
	// Offset is the absolute position of the first matching byte.
	Offset int
	// Length is the number of bytes that match.
	Length int
}

// Matcher finds the best earlier occurrence of the upcoming input bytes.
type Matcher interface {
	// FindLongestMatch returns the longest prefix of `src` that occurs in
	// `dict`. If several positions give the same length, the lowest offset
	// wins. The boolean is false if no match of at least `minLength` bytes
	// exists; this is an ordinary outcome, not an error.
	FindLongestMatch(dict *Dictionary, src []byte, minLength int) (Match, bool)
}

// BruteForceMatcher compares `src` against every starting position in the
// dictionary. It is slow (O(dictionary size * match length) per call) but has
// no state of its own.
type BruteForceMatcher struct{}

func (BruteForceMatcher) FindLongestMatch(
	dict *Dictionary, src []byte, minLength int,
) (Match, bool) {
	if minLength < 1 {
		minLength = 1
	}

	history := dict.Bytes()
	if len(src) == 0 || len(history) < minLength {
		return Match{}, false
	}
	if len(src) > MaxMatchLength {
		src = src[:MaxMatchLength]
	}

	best := Match{}
	for start := 0; start < len(history); start++ {
		// A match can't extend past the end of what's been retained.
		limit := len(history) - start
		if limit > len(src) {
			limit = len(src)
		}

		// `limit` only shrinks from here on, so once it can't beat the best
		// match no later position can either.
		if limit <= best.Length {
			break
		}

		n := 0
		for n < limit && history[start+n] == src[n] {
			n++
		}

		if n > best.Length {
			best = Match{Offset: start, Length: n}
			if n == len(src) {
				break
			}
		}
	}

	if best.Length < minLength {
		return Match{}, false
	}
	return best, true
}

// ExtendMatch returns the match for `src` given that `previous` is the match
// this matcher found for `src` minus its last byte.
//
// No offset below previous.Offset can match all of `src` (it would have
// matched the shorter prefix too), so if previous.Offset still matches with
// the extra byte it's the answer. Otherwise this falls back to a full search.
func (m BruteForceMatcher) ExtendMatch(
	dict *Dictionary, src []byte, previous Match,
) (Match, bool) {
	history := dict.Bytes()
	last := len(src) - 1
	if last > 0 &&
		len(src) <= MaxMatchLength &&
		previous.Length == last &&
		previous.Offset+len(src) <= len(history) &&
		history[previous.Offset+last] == src[last] {
		return Match{Offset: previous.Offset, Length: len(src)}, true
	}
	return m.FindLongestMatch(dict, src, len(src))
}

// matchExtender is implemented by matchers that can check whether a match
// grows by one byte faster than searching from scratch.
type matchExtender interface {
	ExtendMatch(dict *Dictionary, src []byte, previous Match) (Match, bool)
}

// PatternRunMatcher extends another matcher with periodic-run detection.
//
// Besides whatever `Inner` finds, it checks whether the input continues a
// repeating pattern of up to [MaxPatternPeriod] bytes ending at the tail of
// the dictionary. Such a match overlaps the bytes being produced, which is
// fine because the decompressor copies forward one byte at a time. A pattern
// match only wins if it's strictly longer than the inner result.
//
// This only works while the dictionary still ends at the current input
// position; once bytes start being dropped it defers to `Inner` entirely.
type PatternRunMatcher struct {
	Inner Matcher
}

func (m PatternRunMatcher) FindLongestMatch(
	dict *Dictionary, src []byte, minLength int,
) (Match, bool) {
	inner := m.Inner
	if inner == nil {
		inner = BruteForceMatcher{}
	}

	best, found := inner.FindLongestMatch(dict, src, minLength)
	if len(src) == 0 || !dict.Contiguous() {
		return best, found
	}
	if len(src) > MaxMatchLength {
		src = src[:MaxMatchLength]
	}
	if minLength < 1 {
		minLength = 1
	}

	history := dict.Bytes()
	maxPeriod := MaxPatternPeriod
	if maxPeriod > len(history) {
		maxPeriod = len(history)
	}
	if maxPeriod > len(src) {
		maxPeriod = len(src)
	}

	for period := 1; period <= maxPeriod; period++ {
		start := len(history) - period

		n := 0
		for n < len(src) && src[n] == history[start+n%period] {
			n++
		}

		if n > best.Length && n >= minLength {
			best = Match{Offset: start, Length: n}
			found = true
		}
		if n == len(src) {
			break
		}
	}
	return best, found
}
