// Package formatters defines the abstractions used to properly format a
// verification Report for human or machine consumption.
package formatters

import (
	"context"
	"fmt"

	"github.com/ob-flow/dataprep/internal/verify"
)

// FormatterFunc describes a function that formats a verification report.
type FormatterFunc = func(context.Context, verify.Report) (response []byte, formattingError error)

// ResponseFormatter describes the expected methods a formatter
// must implement.
type ResponseFormatter interface {
	// PrettyName is the name used to represent this formatter.
	PrettyName() string
	// FileExtension represents the file extension one might use when creating
	// a file with the contents of this formatter.
	FileExtension() string
	// Format takes a Report, formats it as needed, and returns the formatted
	// report ready to write as a byte slice.
	Format(context.Context, verify.Report) (response []byte, formattingError error)
}

const DefaultFormat = "text"

// NewByName returns a predefined ResponseFormatter with the given name.
func NewByName(name string) (ResponseFormatter, error) {
	formatter, defined := availableFormatters[name]
	if !defined {
		return nil, fmt.Errorf("%s: %s",
			"The requested formatter is unknown",
			name,
		)
	}

	return formatter, nil
}

// New returns a new formatter with the provided name and FormatterFunc.
func New(name, extension string, fn FormatterFunc) (ResponseFormatter, error) {
	if len(name) == 0 {
		return nil, fmt.Errorf(
			"failed to create a new generic formatter: formatter name is required",
		)
	}

	gf := genericFormatter{
		name:          name,
		formatterFunc: fn,
		fileExtension: extension,
	}

	return &gf, nil
}

// genericFormatter represents a generic approach to formatting that implements the
// ResponseFormatter interface. Can be leveraged to build a custom formatter quickly.
type genericFormatter struct {
	name          string
	fileExtension string
	formatterFunc FormatterFunc
}

// PrettyName returns a string identification of the formatter that's in use.
func (f *genericFormatter) PrettyName() string {
	return f.name
}

// Format returns the formatted report as a byte slice.
func (f *genericFormatter) Format(ctx context.Context, r verify.Report) ([]byte, error) {
	return f.formatterFunc(ctx, r)
}

// FileExtension returns the extension a user might use when formatting
// a report with this formatter and writing that to disk.
func (f *genericFormatter) FileExtension() string {
	return f.fileExtension
}

// availableFormatters maps configuration-friendly values to pretty representations
// of the same value, and their corresponding Formatter included with this library.
var availableFormatters = map[string]ResponseFormatter{
	"json": &genericFormatter{"Generic JSON", "json", jsonFormatter},
	"text": &genericFormatter{"Plain Text", "txt", textFormatter},
}
