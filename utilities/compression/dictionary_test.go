package compression_test

import (
	"bytes"
	"testing"

	c "github.com/dargueta/gsla/utilities/compression"
	"github.com/stretchr/testify/assert"
)

func TestDictionary__Append(t *testing.T) {
	dict := c.NewDictionary()
	assert.Zero(t, dict.Len())
	assert.True(t, dict.Contiguous())

	n := dict.Append([]byte("abc"))
	assert.Equal(t, 3, n)
	assert.Equal(t, []byte("abc"), dict.Bytes())
	assert.Equal(t, 3, dict.Consumed())
	assert.False(t, dict.Full())
}

func TestDictionary__StopsGrowingAtCapacity(t *testing.T) {
	dict := c.NewDictionary()

	n := dict.Append(bytes.Repeat([]byte{1}, c.MaxDictionarySize-2))
	assert.Equal(t, c.MaxDictionarySize-2, n)

	// Only two of these fit.
	n = dict.Append([]byte{2, 3, 4, 5})
	assert.Equal(t, 2, n, "wrong number of bytes retained at the boundary")
	assert.True(t, dict.Full())
	assert.False(t, dict.Contiguous())
	assert.Equal(t, c.MaxDictionarySize+2, dict.Consumed())

	n = dict.Append([]byte{6})
	assert.Zero(t, n, "a full dictionary must not retain anything")
	assert.Equal(t, c.MaxDictionarySize, dict.Len())

	// Oldest bytes are never evicted.
	assert.EqualValues(t, 1, dict.Bytes()[0])
	assert.Equal(t, []byte{2, 3}, dict.Bytes()[c.MaxDictionarySize-2:])
}

func TestDictionary__Reset(t *testing.T) {
	dict := c.NewDictionary()
	dict.Append(bytes.Repeat([]byte{9}, c.MaxDictionarySize+10))
	dict.Reset()

	assert.Zero(t, dict.Len())
	assert.Zero(t, dict.Consumed())
	assert.True(t, dict.Contiguous())
	assert.False(t, dict.Full())
}
