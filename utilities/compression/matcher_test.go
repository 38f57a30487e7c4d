package compression_test

import (
	"bytes"
	"testing"

	c "github.com/dargueta/gsla/utilities/compression"
	"github.com/stretchr/testify/assert"
)

type matcherTestCase struct {
	Name       string
	Dictionary []byte
	Source     []byte
	MinLength  int
	Expected   c.Match
	Found      bool
}

func newDictionary(data []byte) *c.Dictionary {
	dict := c.NewDictionary()
	dict.Append(data)
	return dict
}

func TestBruteForceMatcher__Basic(t *testing.T) {
	tests := []matcherTestCase{
		{"empty dictionary", []byte{}, []byte("abc"), 1, c.Match{}, false},
		{"empty source", []byte("abc"), []byte{}, 1, c.Match{}, false},
		{"dictionary below minimum", []byte("ab"), []byte("abc"), 3, c.Match{}, false},
		{"no match", []byte("xyzxyz"), []byte("abc"), 1, c.Match{}, false},
		{"too short", []byte("abxyz"), []byte("abc"), 3, c.Match{}, false},
		{"exact", []byte("abc"), []byte("abc"), 3, c.Match{Offset: 0, Length: 3}, true},
		{"lowest offset wins ties", []byte("abcXabc"), []byte("abc"), 3, c.Match{Offset: 0, Length: 3}, true},
		{"longest wins", []byte("abXabcd"), []byte("abcd"), 2, c.Match{Offset: 3, Length: 4}, true},
		{"prefix only", []byte("QQabcQQ"), []byte("abcdef"), 3, c.Match{Offset: 2, Length: 3}, true},
		{"stops at dictionary end", []byte("QQab"), []byte("abc"), 1, c.Match{Offset: 2, Length: 2}, true},
	}

	for _, test := range tests {
		t.Run(
			test.Name,
			func(t *testing.T) {
				match, found := c.BruteForceMatcher{}.FindLongestMatch(
					newDictionary(test.Dictionary), test.Source, test.MinLength)
				assert.Equal(t, test.Found, found, "wrong found flag")
				assert.Equal(t, test.Expected, match, "wrong match")
			},
		)
	}
}

func TestBruteForceMatcher__CapsLength(t *testing.T) {
	zeros := make([]byte, c.MaxMatchLength+500)
	match, found := c.BruteForceMatcher{}.FindLongestMatch(newDictionary(zeros), zeros, 3)

	assert.True(t, found)
	assert.Equal(t, c.Match{Offset: 0, Length: c.MaxMatchLength}, match)
}

func TestPatternRunMatcher__Basic(t *testing.T) {
	tests := []matcherTestCase{
		{"period one", []byte("xyzz"), bytes.Repeat([]byte("z"), 6), 3, c.Match{Offset: 3, Length: 6}, true},
		{"period two", []byte("ab"), []byte("ababab"), 3, c.Match{Offset: 0, Length: 6}, true},
		{"period three partial", []byte("--abc"), []byte("abcabX"), 3, c.Match{Offset: 2, Length: 5}, true},
		{"inner wins ties", []byte("abcabc"), []byte("abc"), 3, c.Match{Offset: 0, Length: 3}, true},
		{"nothing", []byte("abc"), []byte("xyz"), 3, c.Match{}, false},
	}

	for _, test := range tests {
		t.Run(
			test.Name,
			func(t *testing.T) {
				match, found := c.PatternRunMatcher{}.FindLongestMatch(
					newDictionary(test.Dictionary), test.Source, test.MinLength)
				assert.Equal(t, test.Found, found, "wrong found flag")
				assert.Equal(t, test.Expected, match, "wrong match")
			},
		)
	}
}

func TestPatternRunMatcher__NotContiguous(t *testing.T) {
	// Once the dictionary has dropped bytes, its tail no longer sits next to
	// the input and runs can't be used.
	dict := newDictionary(bytes.Repeat([]byte{1, 2, 3, 4}, c.MaxDictionarySize/4))
	dict.Append([]byte{9})

	match, found := c.PatternRunMatcher{}.FindLongestMatch(dict, []byte{9, 9, 9, 9}, 3)
	assert.False(t, found)
	assert.Equal(t, c.Match{}, match)
}

func TestBruteForceMatcher__ExtendMatch(t *testing.T) {
	dict := newDictionary([]byte("abcdXabcde"))
	matcher := c.BruteForceMatcher{}

	previous, found := matcher.FindLongestMatch(dict, []byte("abcd"), 4)
	assert.True(t, found)
	assert.Equal(t, c.Match{Offset: 0, Length: 4}, previous)

	// Offset 0 can't be extended with "e", but offset 5 can; the result must
	// be the same as a search from scratch.
	extended, found := matcher.ExtendMatch(dict, []byte("abcde"), previous)
	assert.True(t, found)
	assert.Equal(t, c.Match{Offset: 5, Length: 5}, extended)

	scratch, _ := matcher.FindLongestMatch(dict, []byte("abcde"), 5)
	assert.Equal(t, scratch, extended)

	_, found = matcher.ExtendMatch(dict, []byte("abcdeQ"), extended)
	assert.False(t, found)
}
