package parser

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/arcfire/phongtrace/internal/camera"
	"github.com/arcfire/phongtrace/internal/env"
	"github.com/arcfire/phongtrace/internal/geom"
	"github.com/arcfire/phongtrace/internal/light"
	"github.com/arcfire/phongtrace/internal/material"
	"github.com/arcfire/phongtrace/internal/meshio"
	"github.com/arcfire/phongtrace/internal/render"
	"github.com/arcfire/phongtrace/internal/rtlog"
	"github.com/arcfire/phongtrace/internal/sceneerr"
	"github.com/arcfire/phongtrace/internal/texture"
	"github.com/arcfire/phongtrace/internal/vec"
)

// Document is everything a render pass needs, assembled from one scene
// file's top-level paragraphs: a validated camera, an environment (either a
// Scene or a pre-rendered PhotonScene, both satisfying render.Environment).
// The image dimensions are carried by the camera's Width and Height.
type Document struct {
	Camera *camera.Camera
	Env    render.Environment
}

// builder accumulates named top-level materials so object paragraphs can
// reference them by name instead of declaring every material inline.
type builder struct {
	materials map[string]material.Material
	logger    rtlog.Logger
	baseDir   string // directory the scene file lives in, for relative asset paths
}

// Build assembles a Document from a parsed paragraph sequence. baseDir
// anchors texture and mesh paths (assets/... per section 6) that are
// relative rather than absolute.
func Build(paragraphs []*Paragraph, baseDir string, logger rtlog.Logger) (*Document, error) {
	if logger == nil {
		logger = rtlog.Nop{}
	}
	material.OverflowLogger = logger.Printf
	b := &builder{materials: map[string]material.Material{}, logger: logger, baseDir: baseDir}

	var camParagraph, sceneParagraph *Paragraph
	var lightParagraphs, objectParagraphs []*Paragraph

	for _, p := range paragraphs {
		switch p.Kind {
		case "camera":
			if camParagraph != nil {
				return nil, sceneerr.NewParseError(p.Line, "at most one camera paragraph is allowed", nil)
			}
			camParagraph = p
		case "scene":
			if sceneParagraph != nil {
				return nil, sceneerr.NewParseError(p.Line, "at most one scene paragraph is allowed", nil)
			}
			sceneParagraph = p
		case "light":
			lightParagraphs = append(lightParagraphs, p)
		case "object":
			objectParagraphs = append(objectParagraphs, p)
		case "material":
			name := p.Word("name", "")
			if name == "" {
				return nil, sceneerr.NewParseError(p.Line, "top-level material paragraph requires a name attribute", nil)
			}
			mat, err := b.buildMaterial(p)
			if err != nil {
				return nil, err
			}
			b.materials[name] = mat
		default:
			return nil, sceneerr.NewParseError(p.Line, fmt.Sprintf("unknown paragraph kind %q", p.Kind), nil)
		}
	}

	if camParagraph == nil {
		return nil, sceneerr.NewParseError(0, "scene file must contain exactly one camera paragraph", nil)
	}
	cam, err := b.buildCamera(camParagraph)
	if err != nil {
		return nil, err
	}

	var environment interface {
		render.Environment
		Add(geom.Primitive)
		AddLight(light.Light)
	}
	photons, causticPhotons, workers := 10000, 2000, 0
	isPhoton := false
	if sceneParagraph != nil {
		isPhoton = sceneParagraph.Class == "PhotonScene"
		photons = int(sceneParagraph.Float("photons", float64(photons)))
		causticPhotons = int(sceneParagraph.Float("caustic_photons", float64(causticPhotons)))
		workers = int(sceneParagraph.Float("workers", 0))
	}

	var photonScene *env.PhotonScene
	if isPhoton {
		photonScene = env.NewPhotonScene(photons, causticPhotons, logger)
		photonScene.Workers = workers
		environment = photonScene
	} else {
		environment = env.NewScene()
	}

	for _, lp := range lightParagraphs {
		l, err := b.buildLight(lp)
		if err != nil {
			return nil, err
		}
		environment.AddLight(l)
	}
	for _, op := range objectParagraphs {
		prim, err := b.buildPrimitive(op)
		if err != nil {
			return nil, err
		}
		environment.Add(prim)
	}

	if photonScene != nil {
		photonScene.PreRender()
	}

	return &Document{Camera: cam, Env: environment}, nil
}

func (b *builder) buildCamera(p *Paragraph) (*camera.Camera, error) {
	width := int(p.Float("width", 640))
	height := int(p.Float("height", 480))
	fov := p.Float("fov", 60)
	position := p.Vector("position", vec.New(0, 0, 0))
	lookAt := p.Vector("lookat", vec.New(0, 0, 1))
	up := p.Vector("up", vec.New(0, 1, 0))

	cam, err := camera.New(width, height, fov, position, lookAt, up)
	if err != nil {
		return nil, err
	}
	return cam, nil
}

func (b *builder) buildLight(p *Paragraph) (light.Light, error) {
	intensity := p.Vector("intensity", vec.New(1, 1, 1))
	switch p.Class {
	case "Directional":
		dir := p.Vector("direction", vec.New(0, -1, 0))
		return light.NewDirectional(dir, intensity), nil
	case "Point":
		pos := p.Vector("position", vec.New(0, 0, 0))
		return light.NewPoint(pos, intensity), nil
	case "DirectionalPoint":
		pos := p.Vector("position", vec.New(0, 0, 0))
		axis := p.Vector("axis", vec.New(0, -1, 0))
		return light.NewDirectionalPoint(pos, axis, intensity), nil
	default:
		return nil, sceneerr.NewParseError(p.Line, fmt.Sprintf("unknown light class %q", p.Class), nil)
	}
}

// resolveMaterial handles a "material" attribute that is either an inline
// nested paragraph or a bareword reference to a top-level named material.
func (b *builder) resolveMaterial(p *Paragraph) (material.Material, error) {
	if nested, ok := p.Nested("material"); ok {
		return b.buildMaterial(nested)
	}
	if a, ok := p.Get("material"); ok && a.Kind == AttrWord {
		mat, ok := b.materials[a.Word]
		if !ok {
			return nil, sceneerr.NewParseError(a.Line, fmt.Sprintf("no material named %q", a.Word), nil)
		}
		return mat, nil
	}
	return nil, sceneerr.NewParseError(p.Line, fmt.Sprintf("%s %s requires a material attribute", p.Kind, p.Class), nil)
}

func (b *builder) buildMaterial(p *Paragraph) (material.Material, error) {
	switch p.Class {
	case "Phong":
		base := p.Vector("colour", vec.New(1, 1, 1))
		return material.NewPhong(p.Float("ambient", 0), p.Float("diffuse", 1), p.Float("shininess", 32), base), nil

	case "Global":
		return material.NewGlobal(p.Float("reflect", 0), p.Float("refract", 0), p.Float("ior", 1.5)), nil

	case "Compound":
		children := p.All("child")
		if len(children) == 0 {
			return nil, sceneerr.NewParseError(p.Line, "Compound material requires at least one child", nil)
		}
		mats := make([]material.Material, 0, len(children))
		for _, c := range children {
			if c.Kind != AttrParagraph {
				return nil, sceneerr.NewParseError(c.Line, "Compound child must be a nested material paragraph", nil)
			}
			m, err := b.buildMaterial(c.Paragraph)
			if err != nil {
				return nil, err
			}
			mats = append(mats, m)
		}
		return material.NewCompound(mats...), nil

	case "Simple":
		phong := material.NewPhong(p.Float("ambient", 0), p.Float("diffuse", 1), p.Float("shininess", 32), p.Vector("colour", vec.New(1, 1, 1)))
		return material.NewSimpleCompound(phong, p.Float("reflect", 0.2), p.Float("ior", 1.5)), nil

	case "Translucent":
		phong := material.NewPhong(p.Float("ambient", 0), p.Float("diffuse", 1), p.Float("shininess", 32), p.Vector("colour", vec.New(1, 1, 1)))
		return material.NewTranslucentCompound(phong, p.Float("reflect", 0.05), p.Float("refract", 0.9), p.Float("ior", 1.5)), nil

	case "Texture":
		diffuseImg, normalImg, err := b.loadTextureSet(p)
		if err != nil {
			return nil, err
		}
		return material.NewTexturedPhong(p.Float("ambient", 0), p.Float("diffuse", 1), p.Float("shininess", 32), p.Float("scale", 1), diffuseImg, normalImg), nil

	case "TransparentTexture":
		diffuseImg, normalImg, err := b.loadTextureSet(p)
		if err != nil {
			return nil, err
		}
		return material.NewTransparentTexturedMaterial(p.Float("ambient", 0), p.Float("diffuse", 1), p.Float("shininess", 32), p.Float("scale", 1),
			p.Float("refract", 0.9), p.Float("ior", 1.5), diffuseImg, normalImg), nil

	default:
		return nil, sceneerr.NewParseError(p.Line, fmt.Sprintf("unknown material class %q", p.Class), nil)
	}
}

// maxTextureDim bounds how large a loaded texture is allowed to be before
// it is downsized, matching internal/texture.Load's resize-on-load contract.
const maxTextureDim = 2048

// loadTextureSet loads the diffuse/normal images for a Texture or
// TransparentTexture material paragraph. Only diffuse is required, per
// section 6.
func (b *builder) loadTextureSet(p *Paragraph) (diffuse, normal *texture.Image, err error) {
	name := p.Word("name", "")
	if name == "" {
		return nil, nil, sceneerr.NewParseError(p.Line, "Texture material requires a name attribute", nil)
	}
	dir := filepath.Join(b.baseDir, "assets", "textures", name)

	diffusePath := filepath.Join(dir, "diffuse.jpg")
	diffuse, err = texture.Load(diffusePath, maxTextureDim)
	if err != nil {
		return nil, nil, err
	}

	normalPath := filepath.Join(dir, "normal.jpg")
	if _, statErr := os.Stat(normalPath); statErr == nil {
		normal, err = texture.Load(normalPath, maxTextureDim)
		if err != nil {
			return nil, nil, err
		}
	}
	return diffuse, normal, nil
}

// buildPrimitive builds the primitive named by p's class, then applies any
// translate/rotate/scale attributes present on the same paragraph. CSG left
// and right children are built (and transformed) recursively by
// buildPrimitiveBare's own calls to buildPrimitive, so an outer transform on
// a CSG paragraph composes with, rather than replaces, each child's own.
func (b *builder) buildPrimitive(p *Paragraph) (geom.Primitive, error) {
	prim, err := b.buildPrimitiveBare(p)
	if err != nil {
		return nil, err
	}
	t, ok := b.primitiveTransform(p)
	if !ok {
		return prim, nil
	}
	transformed, err := geom.ApplyTransform(prim, t)
	if err != nil {
		return nil, sceneerr.NewGeometryError(fmt.Sprintf("line %d: %s", p.Line, err), err)
	}
	return transformed, nil
}

// primitiveTransform builds the combined transform from an object
// paragraph's optional translate/rotate/scale vector attributes, composed
// scale first, then rotation (X, then Y, then Z, matching vec.RotateX/Y/Z's
// own stated convention), then translation -- the usual object-placement
// order. Reports whether any of the three attributes was present at all.
func (b *builder) primitiveTransform(p *Paragraph) (vec.Transform, bool) {
	_, hasTranslate := p.Get("translate")
	_, hasRotate := p.Get("rotate")
	_, hasScale := p.Get("scale")
	if !hasTranslate && !hasRotate && !hasScale {
		return vec.Identity(), false
	}

	translate := p.Vector("translate", vec.New(0, 0, 0))
	rotate := p.Vector("rotate", vec.New(0, 0, 0))
	scale := p.Vector("scale", vec.New(1, 1, 1))

	t := vec.Translate(translate.X, translate.Y, translate.Z).
		Mul(vec.RotateZ(rotate.Z)).
		Mul(vec.RotateY(rotate.Y)).
		Mul(vec.RotateX(rotate.X)).
		Mul(vec.Scale3(scale.X, scale.Y, scale.Z))
	return t, true
}

func (b *builder) buildPrimitiveBare(p *Paragraph) (geom.Primitive, error) {
	switch p.Class {
	case "Sphere":
		mat, err := b.resolveMaterial(p)
		if err != nil {
			return nil, err
		}
		return geom.NewSphere(p.Vector("center", vec.New(0, 0, 0)), p.Float("radius", 1), mat), nil

	case "Cuboid":
		mat, err := b.resolveMaterial(p)
		if err != nil {
			return nil, err
		}
		return geom.NewCuboid(p.Vector("corner", vec.New(0, 0, 0)), p.Vector("size", vec.New(1, 1, 1)), mat), nil

	case "Plane":
		mat, err := b.resolveMaterial(p)
		if err != nil {
			return nil, err
		}
		return geom.NewPlane(p.Vector("point", vec.New(0, 0, 0)), p.Vector("normal", vec.New(0, 1, 0)), p.Vector("up", vec.New(0, 0, 1)), mat), nil

	case "Quadric":
		mat, err := b.resolveMaterial(p)
		if err != nil {
			return nil, err
		}
		return geom.NewQuadric(
			p.Float("a", 0), p.Float("b", 0), p.Float("c", 0), p.Float("d", 0), p.Float("e", 0),
			p.Float("f", 0), p.Float("g", 0), p.Float("h", 0), p.Float("i", 0), p.Float("j", 0), mat), nil

	case "Cylinder":
		mat, err := b.resolveMaterial(p)
		if err != nil {
			return nil, err
		}
		return geom.NewCylinder(p.Float("diameter", 1), mat), nil

	case "Triangle":
		mat, err := b.resolveMaterial(p)
		if err != nil {
			return nil, err
		}
		a := p.Vector("a", vec.New(0, 0, 0))
		c := p.Vector("b", vec.New(1, 0, 0))
		d := p.Vector("c", vec.New(0, 1, 0))
		smooth := p.Word("smooth", "false") == "true"
		return geom.NewTriangle(a, c, d, mat, smooth), nil

	case "Mesh":
		faces := p.All("face")
		if len(faces) == 0 {
			return nil, sceneerr.NewParseError(p.Line, "Mesh object requires at least one face", nil)
		}
		smooth := p.Word("smooth", "false") == "true"
		tris := make([]*geom.Triangle, 0, len(faces))
		for _, f := range faces {
			if f.Kind != AttrParagraph {
				return nil, sceneerr.NewParseError(f.Line, "Mesh face must be a nested triangle paragraph", nil)
			}
			mat, err := b.resolveMaterial(f.Paragraph)
			if err != nil {
				return nil, err
			}
			a := f.Paragraph.Vector("a", vec.New(0, 0, 0))
			bb := f.Paragraph.Vector("b", vec.New(1, 0, 0))
			c := f.Paragraph.Vector("c", vec.New(0, 1, 0))
			tris = append(tris, geom.NewTriangle(a, bb, c, mat, smooth))
		}
		return geom.NewTriangleMesh(tris, smooth), nil

	case "MeshFile":
		mat, err := b.resolveMaterial(p)
		if err != nil {
			return nil, err
		}
		name := p.Word("file", "")
		if name == "" {
			return nil, sceneerr.NewParseError(p.Line, "MeshFile object requires a file attribute", nil)
		}
		data, err := meshio.LoadPLY(filepath.Join(b.baseDir, name))
		if err != nil {
			return nil, err
		}
		smooth := p.Word("smooth", "false") == "true" && len(data.Normals) > 0
		tris := make([]*geom.Triangle, 0, len(data.Faces))
		for _, face := range data.Faces {
			a, bb, c := data.Vertices[face[0]], data.Vertices[face[1]], data.Vertices[face[2]]
			tri := geom.NewTriangle(a, bb, c, mat, smooth)
			if smooth {
				tri.SetVertexNormals(data.Normals[face[0]], data.Normals[face[1]], data.Normals[face[2]])
			}
			tris = append(tris, tri)
		}
		return geom.NewTriangleMesh(tris, smooth), nil

	case "CSG":
		mode, err := csgModeFromWord(p.Word("mode", "Union"), p.Line)
		if err != nil {
			return nil, err
		}
		leftP, ok := p.Nested("left")
		if !ok {
			return nil, sceneerr.NewParseError(p.Line, "CSG object requires a nested left paragraph", nil)
		}
		rightP, ok := p.Nested("right")
		if !ok {
			return nil, sceneerr.NewParseError(p.Line, "CSG object requires a nested right paragraph", nil)
		}
		left, err := b.buildPrimitive(leftP)
		if err != nil {
			return nil, err
		}
		right, err := b.buildPrimitive(rightP)
		if err != nil {
			return nil, err
		}
		return geom.NewCSG(mode, left, right), nil

	default:
		return nil, sceneerr.NewParseError(p.Line, fmt.Sprintf("unknown object class %q", p.Class), nil)
	}
}

func csgModeFromWord(w string, line int) (geom.CSGMode, error) {
	switch w {
	case "Union":
		return geom.Union, nil
	case "Intersection":
		return geom.Intersection, nil
	case "Difference":
		return geom.Difference, nil
	default:
		return 0, sceneerr.NewParseError(line, fmt.Sprintf("unknown CSG mode %q", w), nil)
	}
}
