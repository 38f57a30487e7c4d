package compression

// MaxDictionarySize is the number of consumed bytes a [Dictionary] retains.
const MaxDictionarySize = 32 * 1024

// Dictionary is the history of bytes a [Compressor] has consumed during one
// call, addressed by absolute offset from the beginning of the input.
//
// A dictionary only ever grows. Once it holds [MaxDictionarySize] bytes any
// further bytes are counted but dropped, so offsets stay absolute and nothing
// is ever evicted.
type Dictionary struct {
	data     []byte
	consumed int
}

// NewDictionary creates an empty dictionary with its full capacity allocated
// up front.
func NewDictionary() *Dictionary {
	return &Dictionary{data: make([]byte, 0, MaxDictionarySize)}
}

// Append adds bytes to the end of the dictionary and returns the number that
// were actually retained.
func (d *Dictionary) Append(p []byte) int {
	d.consumed += len(p)

	room := MaxDictionarySize - len(d.data)
	if room <= 0 {
		return 0
	}
	if len(p) > room {
		p = p[:room]
	}
	d.data = append(d.data, p...)
	return len(p)
}

// Bytes returns the retained history. The slice aliases the dictionary's
// storage and is only valid until the next call to Append or Reset.
func (d *Dictionary) Bytes() []byte {
	return d.data
}

// Len returns the number of bytes retained.
func (d *Dictionary) Len() int {
	return len(d.data)
}

// Consumed returns the number of bytes passed to Append since the last Reset,
// including ones that were dropped.
func (d *Dictionary) Consumed() int {
	return d.consumed
}

// Full reports whether the dictionary has stopped growing.
func (d *Dictionary) Full() bool {
	return len(d.data) >= MaxDictionarySize
}

// Contiguous is true if the dictionary ends exactly where the next input byte
// begins, i.e. nothing has been dropped yet.
func (d *Dictionary) Contiguous() bool {
	return len(d.data) == d.consumed
}

// Reset empties the dictionary without releasing its storage.
func (d *Dictionary) Reset() {
	d.data = d.data[:0]
	d.consumed = 0
}
