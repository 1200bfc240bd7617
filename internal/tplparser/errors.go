package tplparser

import (
	"errors"
	"fmt"

	"github.com/samcharles93/promptlens/internal/profile"
)

// ErrUnknownModel is returned for model keys missing from the registry.
var ErrUnknownModel = profile.ErrUnknownModel

// TemplateLoadError reports a template that could not be found or parsed.
type TemplateLoadError struct {
	Ref string
	Err error
}

func (e *TemplateLoadError) Error() string {
	return fmt.Sprintf("Error loading template %s: %v", e.Ref, e.Err)
}

func (e *TemplateLoadError) Unwrap() error { return e.Err }

// TemplateRuntimeError reports a failure while executing a template,
// including errors raised by the template itself.
type TemplateRuntimeError struct {
	Ref string
	Err error
}

func (e *TemplateRuntimeError) Error() string {
	var raised *RaisedError
	if errors.As(e.Err, &raised) {
		return "Error rendering template: " + raised.Message
	}
	return fmt.Sprintf("Error rendering template: %v", e.Err)
}

func (e *TemplateRuntimeError) Unwrap() error { return e.Err }

// RaisedError is produced by raise_exception inside a template.
type RaisedError struct {
	Message string
}

func (e *RaisedError) Error() string { return e.Message }
