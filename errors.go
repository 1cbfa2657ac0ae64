package cqt

import (
	"errors"
	"fmt"

	"github.com/hupe1980/cqt/palette"
	"github.com/hupe1980/cqt/pixel"
	"github.com/hupe1980/cqt/quantization"
)

var (
	// ErrEmptyPalette is returned when a fixed palette has no entries.
	ErrEmptyPalette = palette.ErrEmptyPalette

	// ErrEmptyImage is returned for an image without pixels.
	ErrEmptyImage = errors.New("cqt: image has no pixels")
)

// ErrDimensionMismatch indicates a pixel buffer whose length differs from width×height.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type ErrDimensionMismatch struct {
	Width  int
	Height int
	Pixels int
	cause  error
}

func (e *ErrDimensionMismatch) Error() string {
	return fmt.Sprintf("dimension mismatch: %dx%d image with %d pixels", e.Width, e.Height, e.Pixels)
}

func (e *ErrDimensionMismatch) Unwrap() error { return e.cause }

// ErrInvalidColorCount indicates a target color count below one.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type ErrInvalidColorCount struct {
	Colors int
	cause  error
}

func (e *ErrInvalidColorCount) Error() string {
	return fmt.Sprintf("invalid color count: %d", e.Colors)
}

func (e *ErrInvalidColorCount) Unwrap() error { return e.cause }

func translateError(err error) error {
	if err == nil {
		return nil
	}

	var de *pixel.DimensionError
	if errors.As(err, &de) {
		return &ErrDimensionMismatch{Width: de.Width, Height: de.Height, Pixels: de.Len, cause: err}
	}
	if errors.Is(err, quantization.ErrEmptyInput) {
		return fmt.Errorf("%w: %w", ErrEmptyImage, err)
	}

	return err
}
