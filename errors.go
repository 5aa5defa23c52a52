package asciivid

import "errors"

// Error kinds. Every failure of a run wraps exactly one of these.
var (
	// ErrSourceUnavailable - the video could not be opened or probed
	ErrSourceUnavailable = errors.New("source unavailable")
	// ErrConfigurationInvalid - bad font metrics or a degenerate grid
	ErrConfigurationInvalid = errors.New("configuration invalid")
	// ErrConversionFailure - a frame could not be converted
	ErrConversionFailure = errors.New("conversion failure")
	// ErrSinkWriteFailure - the output refused a frame
	ErrSinkWriteFailure = errors.New("sink write failure")
	// ErrAborted - a conversion did not finish within the collect timeout
	ErrAborted = errors.New("aborted")
)
