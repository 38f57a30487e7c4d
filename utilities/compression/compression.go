package compression

import (
	"io"

	"github.com/dargueta/gsla"
)

// CompressStream reads all of `input`, compresses it as one LZB stream, and
// writes the result to `output`.
//
// The returned int64 gives the number of bytes written to the output stream. If
// an error occurred, the value is undefined and should not be used.
func CompressStream(input io.Reader, output io.Writer) (int64, error) {
	source, err := io.ReadAll(input)
	if err != nil {
		return 0, gsla.ErrIOFailed.Wrap(err)
	}

	compressed, err := Compress(source)
	if err != nil {
		return 0, err
	}
	if len(compressed) == 0 {
		return 0, nil
	}

	n, err := output.Write(compressed)
	if err != nil {
		return int64(n), gsla.ErrIOFailed.Wrap(err)
	}
	return int64(n), nil
}

// DecompressStream reads a complete LZB stream from `input` and writes the
// `destLength` bytes it expands to into `output`. Unlike [Decompress], the
// stream is validated first.
//
// The returned int64 gives the number of bytes written to the output (i.e. the
// decompressed size of the stream). If an error occurred, the value is
// undefined and should not be used.
func DecompressStream(input io.Reader, output io.Writer, destLength int) (int64, error) {
	stream, err := io.ReadAll(input)
	if err != nil {
		return 0, gsla.ErrIOFailed.Wrap(err)
	}

	expanded, err := DecompressChecked(stream, destLength)
	if err != nil {
		return 0, err
	}
	if len(expanded) == 0 {
		return 0, nil
	}

	n, err := output.Write(expanded)
	if err != nil {
		return int64(n), gsla.ErrIOFailed.Wrap(err)
	}
	return int64(n), nil
}
