package gsla

// FrameSource is the interface for container parsers that supply raw frame
// buffers to the conversion pipeline.
//
// A source that could not be parsed signals it by reporting zero frames.
type FrameSource interface {
	// FrameCount returns the number of frames in the animation.
	FrameCount() int
	// Frame returns the buffer for frame `index`. The pipeline may modify the
	// pixel region of the returned buffer in place when throttling, so sources
	// must not hand out buffers they need to keep pristine.
	Frame(index int) []byte
}

// TimedFrameSource is implemented by sources that carry per-frame playback
// timing. The value is passed through to the output container unchanged.
type TimedFrameSource interface {
	FrameSource
	Timing() uint32
}

// PayloadSink is the interface for container writers consuming compressed
// frames.
type PayloadSink interface {
	// WriteFrame stores the compressed payload for frame `index`. Frames are
	// always written in order, starting at 0. `rawLength` is the size of the
	// frame before compression, which the decompressor needs to know.
	WriteFrame(index int, payload []byte, rawLength int) error

	// Close finishes the container. The sink must not be used after this
	// function is called.
	Close() error
}
