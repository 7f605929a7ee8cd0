package parser

import (
	"strings"
	"testing"

	"github.com/arcfire/phongtrace/internal/vec"
)

func TestParseFlatAttributes(t *testing.T) {
	src := `camera Pinhole
  width 16
  height 16
  fov 90
  position 0 0 0
  lookat 0 0 1
  up 0 1 0
`
	paragraphs, err := Parse(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(paragraphs) != 1 {
		t.Fatalf("expected 1 paragraph, got %d", len(paragraphs))
	}
	p := paragraphs[0]
	if p.Kind != "camera" || p.Class != "Pinhole" {
		t.Fatalf("unexpected header: %s %s", p.Kind, p.Class)
	}
	if got := p.Float("fov", -1); got != 90 {
		t.Errorf("fov = %v, want 90", got)
	}
	pos := p.Vector("position", vec.New(0, 0, 0))
	if pos.X != 0 || pos.Y != 0 || pos.Z != 0 {
		t.Errorf("position = %+v", pos)
	}
}

func TestParseNestedParagraph(t *testing.T) {
	src := `object Sphere
  center 0 0 5
  radius 1
  material Phong
    ambient 1
    diffuse 0
    colour 1 1 1
`
	paragraphs, err := Parse(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	p := paragraphs[0]
	mat, ok := p.Nested("material")
	if !ok {
		t.Fatal("expected nested material paragraph")
	}
	if mat.Kind != "material" || mat.Class != "Phong" {
		t.Fatalf("unexpected nested header: %s %s", mat.Kind, mat.Class)
	}
	if got := mat.Float("ambient", -1); got != 1 {
		t.Errorf("ambient = %v, want 1", got)
	}
}

func TestParseMultipleTopLevelParagraphs(t *testing.T) {
	src := `camera Pinhole
  width 1
  height 1

light Directional
  direction 0 -1 0
  intensity 1 1 1

object Sphere
  center 0 0 5
  radius 1
`
	paragraphs, err := Parse(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(paragraphs) != 3 {
		t.Fatalf("expected 3 paragraphs, got %d", len(paragraphs))
	}
	kinds := []string{paragraphs[0].Kind, paragraphs[1].Kind, paragraphs[2].Kind}
	want := []string{"camera", "light", "object"}
	for i := range want {
		if kinds[i] != want[i] {
			t.Errorf("paragraph %d kind = %s, want %s", i, kinds[i], want[i])
		}
	}
}

func TestParseRepeatedKeyCollectsAll(t *testing.T) {
	src := `material Compound
  child Phong
    ambient 1
  child Global
    reflect 0.5
`
	paragraphs, err := Parse(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	children := paragraphs[0].All("child")
	if len(children) != 2 {
		t.Fatalf("expected 2 children, got %d", len(children))
	}
	if children[0].Paragraph.Class != "Phong" || children[1].Paragraph.Class != "Global" {
		t.Errorf("unexpected child classes: %s, %s", children[0].Paragraph.Class, children[1].Paragraph.Class)
	}
}

func TestParseCommentsAndBlankLinesIgnored(t *testing.T) {
	src := `# a leading comment
camera Pinhole
  # an indented comment
  width 4

  height 4
`
	paragraphs, err := Parse(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	p := paragraphs[0]
	if got := p.Float("width", -1); got != 4 {
		t.Errorf("width = %v, want 4", got)
	}
	if got := p.Float("height", -1); got != 4 {
		t.Errorf("height = %v, want 4", got)
	}
}

func TestParseBadHeaderIsParseError(t *testing.T) {
	src := "object\n  radius 1\n"
	_, err := Parse(strings.NewReader(src))
	if err == nil {
		t.Fatal("expected parse error for malformed header")
	}
}

func TestParseBadVectorArityIsParseError(t *testing.T) {
	src := "object Sphere\n  center 0 0\n"
	_, err := Parse(strings.NewReader(src))
	if err == nil {
		t.Fatal("expected parse error for 2-component vector")
	}
}
