// Package sceneerr defines the error categories surfaced while loading and
// validating a scene: malformed scene text, unreadable asset files, and
// geometrically invalid constructions. Each wraps an underlying cause with
// github.com/pkg/errors so callers can still unwrap to the root error while
// getting a stable, typed category to switch on.
package sceneerr

import (
	"fmt"

	"github.com/pkg/errors"
)

// ParseError reports a malformed statement in the scene text format.
type ParseError struct {
	Line int
	Msg  string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("scene:%d: %s", e.Line, e.Msg)
}

func (e *ParseError) Unwrap() error { return e.Err }

// NewParseError builds a ParseError, wrapping cause (may be nil) with errors.Wrap.
func NewParseError(line int, msg string, cause error) *ParseError {
	var err error
	if cause != nil {
		err = errors.Wrap(cause, msg)
	}
	return &ParseError{Line: line, Msg: msg, Err: err}
}

// AssetError reports a texture, mesh, or other external file that could not
// be loaded (missing, unreadable, or in an unsupported format).
type AssetError struct {
	Path string
	Msg  string
	Err  error
}

func (e *AssetError) Error() string {
	return fmt.Sprintf("asset %q: %s", e.Path, e.Msg)
}

func (e *AssetError) Unwrap() error { return e.Err }

func NewAssetError(path, msg string, cause error) *AssetError {
	var err error
	if cause != nil {
		err = errors.Wrapf(cause, "asset %q: %s", path, msg)
	}
	return &AssetError{Path: path, Msg: msg, Err: err}
}

// GeometryError reports a primitive or transform that cannot be constructed,
// such as a non-invertible transform applied to a plane or quadric, or a
// camera whose lookat and up vectors are not perpendicular.
type GeometryError struct {
	Msg string
	Err error
}

func (e *GeometryError) Error() string {
	return fmt.Sprintf("geometry: %s", e.Msg)
}

func (e *GeometryError) Unwrap() error { return e.Err }

func NewGeometryError(msg string, cause error) *GeometryError {
	var err error
	if cause != nil {
		err = errors.Wrap(cause, msg)
	}
	return &GeometryError{Msg: msg, Err: err}
}
