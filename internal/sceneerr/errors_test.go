package sceneerr

import (
	"errors"
	"strings"
	"testing"
)

func TestParseErrorMessage(t *testing.T) {
	base := errors.New("unexpected token")
	e := NewParseError(12, "bad material reference", base)
	if !strings.Contains(e.Error(), "scene:12") {
		t.Errorf("Error() = %q, want line number", e.Error())
	}
	if !errors.Is(e.Unwrap(), base) && e.Unwrap() == nil {
		t.Errorf("expected wrapped cause to unwrap to base error")
	}
}

func TestAssetErrorMessage(t *testing.T) {
	e := NewAssetError("textures/brick.png", "unsupported format", nil)
	if !strings.Contains(e.Error(), "textures/brick.png") {
		t.Errorf("Error() = %q, want path", e.Error())
	}
}

func TestGeometryErrorMessage(t *testing.T) {
	e := NewGeometryError("non-invertible transform applied to plane", nil)
	if !strings.Contains(e.Error(), "non-invertible") {
		t.Errorf("Error() = %q", e.Error())
	}
}
