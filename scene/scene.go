package scene

import (
	"embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/collision/body"
	"github.com/milk9111/collision/geom"
	"gopkg.in/yaml.v3"
)

var ErrInvalid = errors.New("scene: invalid")

//go:embed *.yaml
var ScenesFS embed.FS

// Scene describes bodies to create in a world.
type Scene struct {
	Name   string     `yaml:"name"`
	Bodies []BodySpec `yaml:"bodies"`
}

type BodySpec struct {
	Name            string      `yaml:"name"`
	Type            string      `yaml:"type"`
	Position        VectorSpec  `yaml:"position"`
	Angle           float64     `yaml:"angle"`
	Collision       *bool       `yaml:"collision"`
	Velocity        VectorSpec  `yaml:"velocity"`
	AngularVelocity float64     `yaml:"angular_velocity"`
	Shapes          []ShapeSpec `yaml:"shapes"`
}

type VectorSpec struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

func (v VectorSpec) Vector() cp.Vector {
	return cp.Vector{X: v.X, Y: v.Y}
}

// ShapeSpec holds exactly one geometry plus its placement on the body.
type ShapeSpec struct {
	Circle  *CircleSpec  `yaml:"circle"`
	Box     *BoxSpec     `yaml:"box"`
	Polygon *PolygonSpec `yaml:"polygon"`
	Segment *SegmentSpec `yaml:"segment"`

	Position VectorSpec `yaml:"position"`
	Angle    float64    `yaml:"angle"`
}

type CircleSpec struct {
	Radius float64    `yaml:"radius"`
	Offset VectorSpec `yaml:"offset"`
}

type BoxSpec struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

type PolygonSpec struct {
	Vertices []VectorSpec `yaml:"vertices"`
}

type SegmentSpec struct {
	A VectorSpec `yaml:"a"`
	B VectorSpec `yaml:"b"`
}

// Load reads a scene file from disk, falling back to the embedded scenes
// when no such file exists.
func Load(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		data, err = ScenesFS.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("scene: load %s: %w", path, err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("scene: load %s: %w", path, err)
	}
	return s, nil
}

// Default returns the embedded demo scene.
func Default() (*Scene, error) {
	return Load("default.yaml")
}

func Parse(data []byte) (*Scene, error) {
	var s Scene
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("scene: unmarshal: %w", err)
	}
	for i := range s.Bodies {
		if _, err := s.Bodies[i].BodyType(); err != nil {
			return nil, fmt.Errorf("scene: body %d: %w", i, err)
		}
		for j := range s.Bodies[i].Shapes {
			if _, err := s.Bodies[i].Shapes[j].Shape(); err != nil {
				return nil, fmt.Errorf("scene: body %d shape %d: %w", i, j, err)
			}
		}
	}
	return &s, nil
}

// BodyType maps the type name, defaulting to dynamic.
func (b BodySpec) BodyType() (body.Type, error) {
	switch strings.ToLower(b.Type) {
	case "", "dynamic":
		return body.Dynamic, nil
	case "static":
		return body.Static, nil
	case "kinematic":
		return body.Kinematic, nil
	default:
		return 0, fmt.Errorf("%w: body type %q", ErrInvalid, b.Type)
	}
}

func (b BodySpec) Transform() geom.Transform {
	return geom.NewTransform(b.Position.Vector(), b.Angle)
}

func (s ShapeSpec) Local() geom.Transform {
	return geom.NewTransform(s.Position.Vector(), s.Angle)
}

// Shape builds the geometry. It does not validate it; the catalog does.
func (s ShapeSpec) Shape() (geom.Shape, error) {
	var out []geom.Shape
	if s.Circle != nil {
		out = append(out, &geom.Circle{Radius: s.Circle.Radius, Offset: s.Circle.Offset.Vector()})
	}
	if s.Box != nil {
		out = append(out, geom.NewBox(s.Box.Width, s.Box.Height))
	}
	if s.Polygon != nil {
		verts := make([]cp.Vector, 0, len(s.Polygon.Vertices))
		for _, v := range s.Polygon.Vertices {
			verts = append(verts, v.Vector())
		}
		out = append(out, geom.NewPolygon(verts...))
	}
	if s.Segment != nil {
		out = append(out, geom.NewSegment(s.Segment.A.Vector(), s.Segment.B.Vector()))
	}
	if len(out) != 1 {
		return nil, fmt.Errorf("%w: shape needs exactly one geometry, got %d", ErrInvalid, len(out))
	}
	return out[0], nil
}
