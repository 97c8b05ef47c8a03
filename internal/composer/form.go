// Package composer models the create/edit form: field values, pre-flight
// validation, and the submission lifecycle. Validation rejects bad content
// before any network call so feedback is instant and no round trip is
// wasted.
package composer

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pasteor/pasteor-cli/internal/model"
)

// State is the form's submission lifecycle.
type State int

const (
	// Idle: editable, possibly carrying the previous failure's message.
	Idle State = iota
	// Submitting: a request is in flight; the submit control is busy.
	Submitting
	// Succeeded: the mutation completed; the view navigates away.
	Succeeded
)

// Validation errors. ErrContentTooLarge carries the ceiling in its message.
var (
	ErrEmptyContent    = errors.New("content cannot be empty")
	ErrContentTooLarge = fmt.Errorf("content is too large (max %d KiB)", model.MaxContentBytes/1024)
)

// Form holds the composer's field values and lifecycle state. Field values
// survive a failed submission so work is never lost.
type Form struct {
	Content   string
	Title     string
	Language  string
	ExpiresIn string

	state   State
	lastErr string
}

// New returns an empty form with default language and expiry.
func New() *Form {
	return &Form{
		Language:  model.Languages[0],
		ExpiresIn: model.ExpiryOptions[0],
	}
}

// NewFromPaste prefills a form for editing an existing paste.
func NewFromPaste(p model.Paste) *Form {
	f := New()
	f.Content = p.Content
	f.Title = p.Title
	if p.Language != "" {
		f.Language = p.Language
	}
	return f
}

// Validate runs the pre-flight checks. Content at exactly the ceiling is
// accepted; one byte over is rejected.
func (f *Form) Validate() error {
	if strings.TrimSpace(f.Content) == "" {
		return ErrEmptyContent
	}
	if len(f.Content) > model.MaxContentBytes {
		return ErrContentTooLarge
	}
	return nil
}

// BeginSubmit validates and, on success, transitions to Submitting. A
// validation failure keeps the form Idle with the error recorded, and the
// caller must not issue a request.
func (f *Form) BeginSubmit() error {
	if f.state == Submitting {
		return errors.New("submission already in flight")
	}
	if err := f.Validate(); err != nil {
		f.lastErr = err.Error()
		return err
	}
	f.state = Submitting
	f.lastErr = ""
	return nil
}

// Complete records the submission outcome. Failure returns to Idle with the
// message set and every field value intact; the busy state clears on both
// paths.
func (f *Form) Complete(err error) {
	if err != nil {
		f.state = Idle
		f.lastErr = err.Error()
		return
	}
	f.state = Succeeded
	f.lastErr = ""
}

// State returns the current lifecycle state.
func (f *Form) State() State { return f.state }

// Busy reports whether a submission is in flight.
func (f *Form) Busy() bool { return f.state == Submitting }

// LastError returns the most recent validation or submission error message.
func (f *Form) LastError() string { return f.lastErr }

// ClearError drops the recorded error (e.g. when the user resumes typing).
func (f *Form) ClearError() { f.lastErr = "" }

// CreateRequest builds the creation payload from the current field values.
func (f *Form) CreateRequest() model.CreatePasteRequest {
	return model.CreatePasteRequest{
		Content:   f.Content,
		Title:     strings.TrimSpace(f.Title),
		Language:  f.Language,
		ExpiresIn: f.ExpiresIn,
	}
}

// UpdateRequest builds the edit payload from the current field values.
func (f *Form) UpdateRequest() model.UpdatePasteRequest {
	return model.UpdatePasteRequest{
		Content:  f.Content,
		Title:    strings.TrimSpace(f.Title),
		Language: f.Language,
	}
}

// SizeNote describes the content size for the counter line: "" while well
// under the ceiling, a warning when approaching it, an error when past it.
func (f *Form) SizeNote() string {
	switch n := len(f.Content); {
	case n > model.MaxContentBytes:
		return "exceeds 512KB limit"
	case n > model.ContentWarnBytes:
		return "approaching limit"
	}
	return ""
}

// CycleLanguage advances the language selector. A form prefilled from an
// existing paste can hold a tag outside the offered set; cycling from there
// restarts at the first option.
func (f *Form) CycleLanguage() {
	if !model.KnownLanguage(f.Language) {
		f.Language = model.Languages[0]
		return
	}
	f.Language = nextOption(model.Languages, f.Language)
}

// CycleExpiry advances the expiry selector.
func (f *Form) CycleExpiry() {
	f.ExpiresIn = nextOption(model.ExpiryOptions, f.ExpiresIn)
}

func nextOption(options []string, current string) string {
	for i, opt := range options {
		if opt == current {
			return options[(i+1)%len(options)]
		}
	}
	return options[0]
}
