package mockup

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput reports an undecodable image, a bad dimension or a bad parameter.
	ErrInvalidInput = errors.New("mockup: invalid input")
	// ErrNumericFailure reports a non-finite value produced by a floating-point stage.
	ErrNumericFailure = errors.New("mockup: numeric failure")
	// ErrEncodingFailed reports a failure serializing the output image.
	ErrEncodingFailed = errors.New("mockup: encoding failed")
)

// StageError records the pipeline stage that aborted a render.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrInvalidInput}, args...)...)
}
