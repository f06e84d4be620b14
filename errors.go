package galley

import (
	"errors"
	"fmt"
)

// Sentinel errors for the galley package.
var (
	// ErrEmptyFontData is returned when font data is empty.
	ErrEmptyFontData = errors.New("galley: empty font data")

	// ErrNoReplacementGlyph is returned when a font family resolves neither
	// the primary replacement character nor the fallback '?'. This means the
	// font set is unusable for any text and is a configuration error.
	ErrNoReplacementGlyph = errors.New("galley: no replacement glyph in any font of the family")

	// ErrEmptyFamily is returned when a font family is bound to no fonts.
	ErrEmptyFamily = errors.New("galley: font family is bound to no fonts")
)

// UnknownFamilyError is returned when a LayoutJob references a FontFamily
// that is not present in the FontDefinitions.
type UnknownFamilyError struct {
	Family FontFamily
}

func (e *UnknownFamilyError) Error() string {
	return fmt.Sprintf("galley: font family %q is not bound to any fonts", e.Family)
}

// InvalidSectionsError is returned when a LayoutJob's sections are not
// contiguous, in order, and covering the whole text.
type InvalidSectionsError struct {
	Index  int
	Reason string
}

func (e *InvalidSectionsError) Error() string {
	return fmt.Sprintf("galley: invalid layout section %d: %s", e.Index, e.Reason)
}
