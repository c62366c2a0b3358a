package types

import (
	"errors"
	"fmt"
)

// Sentinel errors for common failure modes.
var (
	ErrSessionUnavailable = errors.New("browser session unavailable")
	ErrNoReviewsView      = errors.New("reviews view could not be opened")
	ErrNoComments         = errors.New("no comments collected")
	ErrEmptyURL           = errors.New("product URL is empty")
	ErrEmptyCorpus        = errors.New("no documents left after segmentation")
	ErrModelFit           = errors.New("topic model fit failed")
	ErrNoRecords          = errors.New("no sentiment records to report")
	ErrMissingConfig      = errors.New("missing required configuration keys")
)

// StageError wraps a failure of one pipeline stage. The run continues past it,
// skipping only the artifacts that depend on that stage.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("stage %q failed: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// NavigationError wraps errors raised while driving the browser.
type NavigationError struct {
	URL string
	Err error
}

func (e *NavigationError) Error() string {
	return fmt.Sprintf("navigation error for %s: %v", e.URL, e.Err)
}

func (e *NavigationError) Unwrap() error { return e.Err }

// StorageError wraps errors that occur during storage/export.
type StorageError struct {
	Backend string
	Err     error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error (%s): %v", e.Backend, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// PipelineError wraps errors that occur in the comment processing pipeline.
type PipelineError struct {
	Stage   string
	Comment *Comment
	Err     error
}

func (e *PipelineError) Error() string {
	return fmt.Sprintf("pipeline error at stage %q: %v", e.Stage, e.Err)
}

func (e *PipelineError) Unwrap() error { return e.Err }
