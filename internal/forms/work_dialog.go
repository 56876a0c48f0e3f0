package forms

import (
	"context"
	"strings"

	"artfolio/pkg/constants"
	"artfolio/pkg/errors"
	"artfolio/pkg/helper"
)

const (
	ImageField        = "image"
	imageRequiredMsg  = "Please select an image file"
	imageBadFormatMsg = "Please select a valid image file (JPEG, PNG, GIF, or WebP)"
)

// WorkSubmitFunc receives the validated field map and, in create mode, the
// picked image. In edit mode image is nil.
type WorkSubmitFunc func(ctx context.Context, fields map[string]string, image *Upload) error

// WorkDialog is the per-work form: one text input per declared parameter and,
// when creating, an image picker.
type WorkDialog struct {
	parameters []string
	state      State
	mode       Mode
	values     map[string]string
	errors     FieldErrors
	image      *Upload
	notice     string
}

func NewWorkDialog(parameters []string) *WorkDialog {
	d := &WorkDialog{parameters: append([]string(nil), parameters...)}
	d.reset()
	return d
}

func (d *WorkDialog) OpenCreate() {
	d.reset()
	d.state = StateOpen
	d.mode = ModeCreating
}

// OpenEdit pre-fills every parameter from initial. The image cannot change in
// edit mode so there is no image input.
func (d *WorkDialog) OpenEdit(initial map[string]string) {
	d.reset()
	for _, p := range d.parameters {
		d.values[p] = initial[p]
	}
	d.state = StateOpen
	d.mode = ModeEditing
}

func (d *WorkDialog) Close() { d.reset() }

func (d *WorkDialog) State() State        { return d.state }
func (d *WorkDialog) Mode() Mode          { return d.mode }
func (d *WorkDialog) Errors() FieldErrors { return d.errors }
func (d *WorkDialog) Notice() string      { return d.notice }

func (d *WorkDialog) Values() map[string]string {
	out := make(map[string]string, len(d.values))
	for k, v := range d.values {
		out[k] = v
	}
	return out
}

// Set updates a declared parameter and clears its error. Unknown names are ignored.
func (d *WorkDialog) Set(param, value string) {
	if _, ok := d.values[param]; !ok {
		return
	}
	d.values[param] = value
	delete(d.errors, param)
}

// SetImage picks the image for a new work. data that is not an accepted image
// format is refused and marks the image field.
func (d *WorkDialog) SetImage(filename string, data []byte) {
	if d.mode == ModeEditing {
		return
	}
	up, err := NewUpload(filename, data)
	if err != nil {
		d.image = nil
		d.errors[ImageField] = imageBadFormatMsg
		return
	}
	d.image = up
	delete(d.errors, ImageField)
}

// Validate requires every parameter to be non-blank and, when creating, an
// image and a title usable as a work id.
func (d *WorkDialog) Validate() bool {
	errs := FieldErrors{}
	for _, p := range d.parameters {
		if strings.TrimSpace(d.values[p]) == "" {
			errs[p] = helper.Capitalize(p) + " is required"
		}
	}
	if d.mode == ModeCreating {
		if _, blank := errs[constants.TitleParameter]; !blank {
			if msg := InvalidWorkTitle(d.values[constants.TitleParameter]); msg != "" {
				errs[constants.TitleParameter] = msg
			}
		}
		if msg, bad := d.errors[ImageField]; bad {
			errs[ImageField] = msg
		} else if d.image == nil {
			errs[ImageField] = imageRequiredMsg
		}
	}
	d.errors = errs
	return len(errs) == 0
}

// Submit validates and hands the form to fn. Validation failures return an
// AppError with field messages and leave the dialog open without calling fn.
// A failing fn leaves the dialog open with a notice; success closes and resets it.
func (d *WorkDialog) Submit(ctx context.Context, fn WorkSubmitFunc) error {
	if d.state != StateOpen {
		return ErrNotOpen
	}
	d.notice = ""
	d.state = StateValidating
	if !d.Validate() {
		d.state = StateOpen
		return errors.ErrValidation(d.Errors())
	}

	d.state = StateSubmitting
	var image *Upload
	if d.mode == ModeCreating {
		image = d.image
	}
	if err := fn(ctx, d.Values(), image); err != nil {
		d.state = StateOpen
		d.notice = err.Error()
		return err
	}
	d.reset()
	return nil
}

// InvalidWorkTitle reports why title cannot identify a work, or "" when it can.
// The trimmed title becomes a path segment of the work's URLs.
func InvalidWorkTitle(title string) string {
	switch t := strings.TrimSpace(title); {
	case strings.Contains(t, "/"):
		return `Title cannot contain "/"`
	case t == "." || t == "..":
		return `Title cannot be "." or ".."`
	}
	return ""
}

func (d *WorkDialog) reset() {
	d.state = StateClosed
	d.mode = ModeCreating
	d.values = make(map[string]string, len(d.parameters))
	for _, p := range d.parameters {
		d.values[p] = ""
	}
	d.errors = FieldErrors{}
	d.image = nil
	d.notice = ""
}
