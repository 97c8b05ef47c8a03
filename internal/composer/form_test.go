package composer

import (
	"errors"
	"strings"
	"testing"

	"github.com/pasteor/pasteor-cli/internal/model"
)

func TestValidateContentBoundary(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		wantErr error
	}{
		{"empty", "", ErrEmptyContent},
		{"whitespace only", "   \n\t", ErrEmptyContent},
		{"one byte", "x", nil},
		{"exactly at ceiling", strings.Repeat("a", 524288), nil},
		{"one past ceiling", strings.Repeat("a", 524289), ErrContentTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := New()
			f.Content = tt.content
			err := f.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestBeginSubmitRejectsBeforeAnyRequest(t *testing.T) {
	t.Parallel()

	f := New()
	f.Content = strings.Repeat("a", 524289)

	if err := f.BeginSubmit(); err == nil {
		t.Fatal("oversized content must be rejected client-side")
	}
	if f.Busy() {
		t.Fatal("form must stay Idle after a validation reject")
	}
	if f.LastError() == "" {
		t.Fatal("validation failure should record a user-visible message")
	}
}

func TestFailedSubmitPreservesFields(t *testing.T) {
	t.Parallel()

	f := New()
	f.Content = "print('hi')"
	f.Title = "my script"
	f.Language = "python"

	if err := f.BeginSubmit(); err != nil {
		t.Fatalf("BeginSubmit() = %v", err)
	}
	if !f.Busy() {
		t.Fatal("form should be Submitting")
	}

	f.Complete(errors.New("server exploded"))

	if f.Busy() {
		t.Fatal("busy state must clear on failure")
	}
	if f.State() != Idle {
		t.Fatalf("state = %v, want Idle", f.State())
	}
	if f.Content != "print('hi')" || f.Title != "my script" || f.Language != "python" {
		t.Fatal("failed submission must not clear the user's edits")
	}
	if f.LastError() != "server exploded" {
		t.Fatalf("last error = %q", f.LastError())
	}
}

func TestSuccessfulSubmitLifecycle(t *testing.T) {
	t.Parallel()

	f := New()
	f.Content = "hello"

	if err := f.BeginSubmit(); err != nil {
		t.Fatalf("BeginSubmit() = %v", err)
	}
	if err := f.BeginSubmit(); err == nil {
		t.Fatal("double submit must be rejected while in flight")
	}

	f.Complete(nil)
	if f.State() != Succeeded {
		t.Fatalf("state = %v, want Succeeded", f.State())
	}
}

func TestNewFromPastePrefills(t *testing.T) {
	t.Parallel()

	f := NewFromPaste(model.Paste{Content: "body", Title: "t", Language: "css"})
	if f.Content != "body" || f.Title != "t" || f.Language != "css" {
		t.Fatalf("prefill mismatch: %+v", f)
	}
}

func TestSizeNote(t *testing.T) {
	t.Parallel()

	f := New()
	f.Content = "small"
	if got := f.SizeNote(); got != "" {
		t.Fatalf("note = %q for small content, want empty", got)
	}
	f.Content = strings.Repeat("a", 400001)
	if got := f.SizeNote(); got != "approaching limit" {
		t.Fatalf("note = %q, want approaching limit", got)
	}
	f.Content = strings.Repeat("a", 524289)
	if got := f.SizeNote(); got != "exceeds 512KB limit" {
		t.Fatalf("note = %q, want exceeds 512KB limit", got)
	}
}

func TestCycleSelectors(t *testing.T) {
	t.Parallel()

	f := New()
	first := f.Language
	for range model.Languages {
		f.CycleLanguage()
	}
	if f.Language != first {
		t.Fatalf("language cycle did not wrap: %q", f.Language)
	}

	f.ExpiresIn = "30d"
	f.CycleExpiry()
	if f.ExpiresIn != "never" {
		t.Fatalf("expiry after 30d = %q, want never", f.ExpiresIn)
	}
}

func TestCycleLanguageFromForeignTag(t *testing.T) {
	t.Parallel()

	// A paste created through the API can carry a language the selector
	// does not offer; cycling from it restarts at the first option.
	f := NewFromPaste(model.Paste{Content: "x", Language: "cobol"})
	if f.Language != "cobol" {
		t.Fatalf("prefilled language = %q, want cobol", f.Language)
	}
	f.CycleLanguage()
	if f.Language != model.Languages[0] {
		t.Fatalf("language after cycle = %q, want %q", f.Language, model.Languages[0])
	}
}
