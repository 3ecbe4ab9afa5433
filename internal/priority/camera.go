package priority

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Camera describes the viewer at one instant: position, orientation and
// projection parameters. Yaw/Pitch are degrees; yaw 0 looks down +X.
type Camera struct {
	Position mgl32.Vec3
	Yaw      float64
	Pitch    float64

	FOV    float32 // vertical, degrees
	Aspect float32
	Near   float32
	Far    float32
}

// NewCamera returns a camera with the usual projection defaults.
func NewCamera(position mgl32.Vec3) Camera {
	return Camera{
		Position: position,
		FOV:      60.0,
		Aspect:   16.0 / 9.0,
		Near:     0.1,
		Far:      1000.0,
	}
}

// Forward returns the unit view direction derived from yaw and pitch.
func (c Camera) Forward() mgl32.Vec3 {
	y := mgl32.DegToRad(float32(c.Yaw))
	pt := mgl32.DegToRad(float32(c.Pitch))
	fx := float32(math.Cos(float64(y)) * math.Cos(float64(pt)))
	fy := float32(math.Sin(float64(pt)))
	fz := float32(math.Sin(float64(y)) * math.Cos(float64(pt)))
	return mgl32.Vec3{fx, fy, fz}.Normalize()
}

// ViewProjection returns the combined projection*view matrix.
func (c Camera) ViewProjection() mgl32.Mat4 {
	proj := mgl32.Perspective(mgl32.DegToRad(c.FOV), c.Aspect, c.Near, c.Far)
	target := c.Position.Add(c.Forward())
	view := mgl32.LookAtV(c.Position, target, mgl32.Vec3{0, 1, 0})
	return proj.Mul4(view)
}
