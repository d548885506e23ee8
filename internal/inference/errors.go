package inference

import (
	"errors"
	"net/http"
)

// Kind classifies a failed classification request.
type Kind int

const (
	// KindUnavailable means no predictor was loaded at startup.
	KindUnavailable Kind = iota + 1
	// KindBadInput covers shape, coercion and predictor failures alike.
	KindBadInput
)

// Step names the stage of a request that failed.
type Step string

const (
	StepReadiness Step = "readiness"
	StepDecode    Step = "decode"
	StepShape     Step = "shape"
	StepCoerce    Step = "coerce"
	StepPredict   Step = "predict"
)

// Error is returned by every failing Classifier call.
type Error struct {
	Kind    Kind
	Step    Step
	Message string
	Err     error
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Err }

// Status maps the error kind to an HTTP status. Predictor failures are
// reported as bad input: the caller cannot tell them apart from a malformed payload.
func (e *Error) Status() int {
	if e.Kind == KindUnavailable {
		return http.StatusInternalServerError
	}
	return http.StatusBadRequest
}

// ErrModelNotLoaded is returned for every request when the model failed to load.
var ErrModelNotLoaded = &Error{Kind: KindUnavailable, Step: StepReadiness, Message: "Model not loaded"}

const (
	msgNotArray   = "Invalid input format. Expected a JSON array."
	msgEmpty      = "Input JSON array cannot be empty."
	msgWrongShape = "Invalid input format. Expected a list of 768 pixel values or a list of lists of 768 pixel values."
)

func badInput(step Step, msg string, err error) *Error {
	return &Error{Kind: KindBadInput, Step: step, Message: msg, Err: err}
}

// AsError extracts an *Error from err, wrapping unknown errors as bad input.
func AsError(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return badInput(StepPredict, err.Error(), err)
}
