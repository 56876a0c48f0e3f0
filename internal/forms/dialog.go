// Package forms holds the admin dialogs: their open/closed lifecycle, their
// field values and the validation run before anything is sent to storage.
package forms

import (
	"errors"
	"fmt"

	"artfolio/pkg/file"
)

type State int

const (
	StateClosed State = iota
	StateOpen
	StateValidating
	StateSubmitting
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateValidating:
		return "validating"
	case StateSubmitting:
		return "submitting"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

type Mode int

const (
	ModeCreating Mode = iota
	ModeEditing
)

func (m Mode) String() string {
	if m == ModeEditing {
		return "editing"
	}
	return "creating"
}

var (
	ErrNotOpen           = errors.New("dialog is not open")
	ErrTooManyParameters = errors.New("parameter limit reached")
	ErrNoSuchParameter   = errors.New("no parameter at that position")
)

// FieldErrors maps a field name to its message. Empty means valid.
type FieldErrors map[string]string

// Upload is an image file picked in a dialog.
type Upload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// NewUpload sniffs data and fails if it is not a JPEG, PNG, GIF or WebP image.
func NewUpload(filename string, data []byte) (*Upload, error) {
	ct, ok := file.SniffImageType(data)
	if !ok {
		return nil, fmt.Errorf("unsupported image type %s", ct)
	}
	return &Upload{Filename: filename, ContentType: ct, Data: data}, nil
}
