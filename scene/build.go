package scene

import (
	"fmt"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/collision/body"
	"github.com/milk9111/collision/geom"
	"github.com/milk9111/collision/world"
)

// Instance is a body created from a scene together with its motion.
type Instance struct {
	Name            string
	Body            *body.Body
	Velocity        cp.Vector
	AngularVelocity float64
}

// Build creates every body of the scene in w. On error the bodies created
// so far are destroyed again.
func (s *Scene) Build(w *world.World) ([]*Instance, error) {
	if s == nil {
		return nil, fmt.Errorf("%w: nil scene", ErrInvalid)
	}
	if w == nil {
		return nil, fmt.Errorf("%w: nil world", ErrInvalid)
	}
	out := make([]*Instance, 0, len(s.Bodies))
	for i, spec := range s.Bodies {
		inst, err := buildBody(w, spec)
		if err != nil {
			for _, done := range out {
				_ = w.DestroyBody(done.Body.ID())
			}
			return nil, fmt.Errorf("scene: build body %d %q: %w", i, spec.Name, err)
		}
		out = append(out, inst)
	}
	return out, nil
}

func buildBody(w *world.World, spec BodySpec) (*Instance, error) {
	typ, err := spec.BodyType()
	if err != nil {
		return nil, err
	}
	b := w.CreateBody(spec.Transform())
	b.SetType(typ)
	b.UserData = spec.Name
	for _, ss := range spec.Shapes {
		shape, err := ss.Shape()
		if err == nil {
			_, err = b.AttachShape(shape, ss.Local())
		}
		if err != nil {
			_ = w.DestroyBody(b.ID())
			return nil, err
		}
	}
	if spec.Collision != nil {
		b.SetCollisionEnabled(*spec.Collision)
	}
	return &Instance{
		Name:            spec.Name,
		Body:            b,
		Velocity:        spec.Velocity.Vector(),
		AngularVelocity: spec.AngularVelocity,
	}, nil
}

// Advance moves a non-static instance by its velocities over dt. The
// previous transform keeps the pose from before the move.
func (in *Instance) Advance(dt float64) {
	if in == nil || in.Body == nil || in.Body.Type() == body.Static {
		return
	}
	xf := in.Body.Transform()
	in.Body.UpdatePreviousTransform()
	if in.Velocity == (cp.Vector{}) && in.AngularVelocity == 0 {
		return
	}
	pos := xf.Position.Add(in.Velocity.Mult(dt))
	in.Body.SetTransform(geom.NewTransform(pos, xf.Angle()+in.AngularVelocity*dt))
}
