// Package camera provides a perspective camera orbiting the world origin,
// where the active world places the view centre.
package camera

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Camera looks at the origin from Distance units away. Tilt is the angle
// from the +z axis and Rotation the heading around it, both in radians.
type Camera struct {
	FOV      float32 // vertical field of view in degrees
	Aspect   float32 // width / height
	Near     float32
	Far      float32
	Distance float32
	Tilt     float32
	Rotation float32
}

// New returns a camera looking straight down from distance.
func New(distance float32) *Camera {
	return &Camera{
		FOV:      45,
		Aspect:   1,
		Near:     distance / 100,
		Far:      distance * 100,
		Distance: distance,
	}
}

// SetAspect sets the aspect ratio from a viewport size in pixels.
// Degenerate sizes leave the ratio unchanged.
func (c *Camera) SetAspect(width, height int) {
	if width > 0 && height > 0 {
		c.Aspect = float32(width) / float32(height)
	}
}

// Position returns the eye position.
func (c *Camera) Position() mgl32.Vec3 {
	st, ct := math32.Sincos(c.Tilt)
	sr, cr := math32.Sincos(c.Rotation)
	return mgl32.Vec3{c.Distance * st * sr, -c.Distance * st * cr, c.Distance * ct}
}

// View returns the view matrix.
func (c *Camera) View() mgl32.Mat4 {
	sr, cr := math32.Sincos(c.Rotation)
	up := mgl32.Vec3{sr, cr, 0}
	return mgl32.LookAtV(c.Position(), mgl32.Vec3{}, up)
}

// Proj returns the perspective projection matrix.
func (c *Camera) Proj() mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(c.FOV), c.Aspect, c.Near, c.Far)
}

// ViewProj returns Proj * View.
func (c *Camera) ViewProj() mgl32.Mat4 {
	return c.Proj().Mul4(c.View())
}
