package forms

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"artfolio/internal/domain/dto"
	"artfolio/pkg/constants"
	"artfolio/pkg/errors"
	"artfolio/pkg/helper"
)

const (
	TitleField      = "title"
	CoverField      = "cover"
	ParametersField = "parameters"
)

// PortfolioDraft is a validated creation request.
type PortfolioDraft struct {
	ID         string
	Title      string
	Parameters []string
	Cover      *Upload
}

type PortfolioSubmitFunc func(ctx context.Context, draft PortfolioDraft) (*dto.Portfolio, error)

// PortfolioDialog is the portfolio creation form: a title, a cover image and
// a user-extensible list of parameter names.
type PortfolioDialog struct {
	state      State
	title      string
	cover      *Upload
	parameters []string
	errors     FieldErrors
	notice     string
}

func NewPortfolioDialog() *PortfolioDialog {
	d := &PortfolioDialog{}
	d.reset()
	return d
}

func (d *PortfolioDialog) Open() {
	d.reset()
	d.state = StateOpen
}

func (d *PortfolioDialog) Close() { d.reset() }

func (d *PortfolioDialog) State() State        { return d.state }
func (d *PortfolioDialog) Errors() FieldErrors { return d.errors }
func (d *PortfolioDialog) Notice() string      { return d.notice }

func (d *PortfolioDialog) SetTitle(title string) {
	d.title = title
	delete(d.errors, TitleField)
}

func (d *PortfolioDialog) SetCover(filename string, data []byte) {
	up, err := NewUpload(filename, data)
	if err != nil {
		d.cover = nil
		d.errors[CoverField] = "Cover image must be a JPEG, PNG, GIF or WebP file"
		return
	}
	d.cover = up
	delete(d.errors, CoverField)
}

// AddParameter appends an empty parameter input.
func (d *PortfolioDialog) AddParameter() error {
	if len(d.parameters) >= constants.MaxParameters {
		return ErrTooManyParameters
	}
	d.parameters = append(d.parameters, "")
	return nil
}

func (d *PortfolioDialog) SetParameter(i int, name string) error {
	if i < 0 || i >= len(d.parameters) {
		return ErrNoSuchParameter
	}
	d.parameters[i] = name
	return nil
}

func (d *PortfolioDialog) RemoveParameter(i int) error {
	if i < 0 || i >= len(d.parameters) {
		return ErrNoSuchParameter
	}
	d.parameters = append(d.parameters[:i], d.parameters[i+1:]...)
	return nil
}

// Parameters returns the raw parameter inputs.
func (d *PortfolioDialog) Parameters() []string {
	return append([]string(nil), d.parameters...)
}

// Remaining is how many more parameters can be added.
func (d *PortfolioDialog) Remaining() int {
	return constants.MaxParameters - len(d.parameters)
}

func (d *PortfolioDialog) Validate() bool {
	errs := FieldErrors{}
	title := strings.TrimSpace(d.title)
	switch {
	case title == "":
		errs[TitleField] = "Portfolio title is required"
	case utf8.RuneCountInString(title) < constants.MinTitleLength:
		errs[TitleField] = "Portfolio title must be at least 3 characters"
	case helper.Slugify(title) == "":
		errs[TitleField] = "Portfolio title must contain letters or digits"
	}
	for _, name := range d.parameters {
		if n := helper.NormalizeParameter(name); constants.ReservedParameters[n] {
			errs[ParametersField] = fmt.Sprintf("%q is a reserved parameter name", n)
			break
		}
	}
	if msg, bad := d.errors[CoverField]; bad {
		errs[CoverField] = msg
	} else if d.cover == nil {
		errs[CoverField] = "Cover image is required"
	}
	d.errors = errs
	return len(errs) == 0
}

// Draft builds the creation request from the current inputs. Call Validate first.
func (d *PortfolioDialog) Draft() PortfolioDraft {
	title := strings.TrimSpace(d.title)
	return PortfolioDraft{
		ID:         helper.Slugify(title),
		Title:      title,
		Parameters: NormalizeParameters(d.parameters),
		Cover:      d.cover,
	}
}

// Submit validates, then hands the draft to fn. It mirrors WorkDialog.Submit:
// field errors and remote failures keep the dialog open, success closes it.
func (d *PortfolioDialog) Submit(ctx context.Context, fn PortfolioSubmitFunc) (*dto.Portfolio, error) {
	if d.state != StateOpen {
		return nil, ErrNotOpen
	}
	d.notice = ""
	d.state = StateValidating
	if !d.Validate() {
		d.state = StateOpen
		return nil, errors.ErrValidation(d.Errors())
	}

	d.state = StateSubmitting
	created, err := fn(ctx, d.Draft())
	if err != nil {
		d.state = StateOpen
		d.notice = err.Error()
		return nil, err
	}
	d.reset()
	return created, nil
}

func (d *PortfolioDialog) reset() {
	d.state = StateClosed
	d.title = ""
	d.cover = nil
	d.parameters = nil
	d.errors = FieldErrors{}
	d.notice = ""
}

// NormalizeParameters normalizes each name, drops blanks and repeats, and
// puts "title" first exactly once.
func NormalizeParameters(raw []string) []string {
	out := []string{constants.TitleParameter}
	seen := map[string]bool{constants.TitleParameter: true}
	for _, name := range raw {
		n := helper.NormalizeParameter(name)
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}
