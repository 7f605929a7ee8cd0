package parser

import (
	"strings"
	"testing"

	"github.com/arcfire/phongtrace/internal/geom"
	"github.com/arcfire/phongtrace/internal/material"
	"github.com/arcfire/phongtrace/internal/rtlog"
	"github.com/arcfire/phongtrace/internal/vec"
)

func newBuilder() *builder {
	return &builder{materials: map[string]material.Material{}, logger: rtlog.Nop{}}
}

func TestBuildPrimitiveAppliesTranslate(t *testing.T) {
	src := `object Sphere
  center 0 0 0
  radius 1
  translate 5 0 0
  material Phong
    ambient 1
    diffuse 0
    colour 1 1 1
`
	paragraphs, err := Parse(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	prim, err := newBuilder().buildPrimitive(paragraphs[0])
	if err != nil {
		t.Fatalf("buildPrimitive: %v", err)
	}
	sphere, ok := prim.(*geom.Sphere)
	if !ok {
		t.Fatalf("expected *geom.Sphere, got %T", prim)
	}
	if !sphere.Center.Equals(vec.New(5, 0, 0)) {
		t.Errorf("translated centre = %v, want (5,0,0)", sphere.Center)
	}
}

func TestBuildPrimitiveWithoutTransformAttributesIsUnchanged(t *testing.T) {
	src := `object Sphere
  center 1 2 3
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

	prim, err := newBuilder().buildPrimitive(paragraphs[0])
	if err != nil {
		t.Fatalf("buildPrimitive: %v", err)
	}
	sphere, ok := prim.(*geom.Sphere)
	if !ok {
		t.Fatalf("expected *geom.Sphere, got %T", prim)
	}
	if !sphere.Center.Equals(vec.New(1, 2, 3)) {
		t.Errorf("untransformed centre = %v, want (1,2,3)", sphere.Center)
	}
}

func TestBuildPrimitiveRejectsNonInvertibleTransform(t *testing.T) {
	src := `object Plane
  point 0 0 0
  normal 0 1 0
  up 0 0 1
  scale 1 0 1
  material Phong
    ambient 1
    diffuse 0
    colour 1 1 1
`
	paragraphs, err := Parse(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if _, err := newBuilder().buildPrimitive(paragraphs[0]); err == nil {
		t.Error("expected an error for a non-invertible scale on a Plane")
	}
}

func TestBuildPrimitivePropagatesTransformThroughCSGChildren(t *testing.T) {
	src := `object CSG
  mode Union
  left Sphere
    center 0 0 0
    radius 1
    material Phong
      ambient 1
      diffuse 0
      colour 1 1 1
  right Sphere
    center 3 0 0
    radius 1
    material Phong
      ambient 1
      diffuse 0
      colour 1 1 1
  translate 10 0 0
`
	paragraphs, err := Parse(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	prim, err := newBuilder().buildPrimitive(paragraphs[0])
	if err != nil {
		t.Fatalf("buildPrimitive: %v", err)
	}
	csg, ok := prim.(*geom.CSG)
	if !ok {
		t.Fatalf("expected *geom.CSG, got %T", prim)
	}
	left, ok := csg.Left.(*geom.Sphere)
	if !ok {
		t.Fatalf("expected left child *geom.Sphere, got %T", csg.Left)
	}
	if !left.Center.Equals(vec.New(10, 0, 0)) {
		t.Errorf("left child centre = %v, want (10,0,0)", left.Center)
	}
	right, ok := csg.Right.(*geom.Sphere)
	if !ok {
		t.Fatalf("expected right child *geom.Sphere, got %T", csg.Right)
	}
	if !right.Center.Equals(vec.New(13, 0, 0)) {
		t.Errorf("right child centre = %v, want (13,0,0)", right.Center)
	}
}
