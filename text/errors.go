package text

import (
	"errors"
	"fmt"
)

// Sentinel errors for text package.
var (
	// ErrEmptyFontData is returned when font data is empty.
	ErrEmptyFontData = errors.New("text: empty font data")

	// ErrMissingCommon is returned when metrics lack the common block.
	ErrMissingCommon = errors.New("text: metrics have no common line")

	// ErrInvalidSheetSize is returned when the glyph sheet dimensions are not positive.
	ErrInvalidSheetSize = errors.New("text: invalid glyph sheet size")
)

// ParseError reports a malformed line in BMFont metrics.
type ParseError struct {
	Line int
	Tag  string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("text: metrics line %d (%s): %v", e.Line, e.Tag, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
