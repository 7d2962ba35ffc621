package engine

import "fmt"

// loadError signals that the model file is missing or the native constructor
// returned no handle. Fatal to session construction; never retried.
type loadError struct {
	path      string
	modelType string
	reason    string
}

func (e loadError) Error() string {
	return fmt.Sprintf("load model %q (type %s): %s", e.path, e.modelType, e.reason)
}

// ErrLoad constructs a loadError.
func ErrLoad(path, modelType, reason string) error {
	return loadError{path: path, modelType: modelType, reason: reason}
}

// IsLoad reports whether err indicates a failed model load.
func IsLoad(err error) bool {
	_, ok := err.(loadError)
	return ok
}

// evalError signals that a native batch-evaluate call reported failure.
type evalError struct{ n int }

func (e evalError) Error() string { return fmt.Sprintf("failed to evaluate %d tokens", e.n) }

// ErrEval constructs an evalError for a batch of n tokens.
func ErrEval(n int) error { return evalError{n: n} }

// IsEval reports whether err indicates a failed evaluation.
func IsEval(err error) bool {
	_, ok := err.(evalError)
	return ok
}

// unavailableError signals the binary was built without the native engine
// (no -tags ctransformers) so the HTTP layer can return 503 instead of 500.
type unavailableError struct{ msg string }

func (e unavailableError) Error() string { return e.msg }

// ErrUnavailable constructs an unavailableError.
func ErrUnavailable(msg string) error { return unavailableError{msg: msg} }

// IsUnavailable reports whether err indicates a missing native runtime.
func IsUnavailable(err error) bool {
	_, ok := err.(unavailableError)
	return ok
}
