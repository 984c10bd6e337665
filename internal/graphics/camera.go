package graphics

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

const twoPi = 2 * math.Pi

// Direction is a logical camera input
type Direction int

const (
	DirectionNone Direction = iota
	DirectionUp
	DirectionDown
	DirectionLeft
	DirectionRight
	DirectionFarther
	DirectionNearer
)

// Range is a closed interval
type Range struct {
	Min float64
	Max float64
}

// Clamp limits v to the interval
func (r Range) Clamp(v float64) float64 {
	return math.Min(math.Max(v, r.Min), r.Max)
}

// OrbitSettings configures limits and input speeds of an OrbitCamera
type OrbitSettings struct {
	Elevation         Range
	Distance          Range
	AzimuthVelocity   float64 // rad/s
	ElevationVelocity float64 // rad/s
	DistanceVelocity  float64 // units/s
}

// DefaultOrbitSettings matches the stock viewer
func DefaultOrbitSettings() OrbitSettings {
	return OrbitSettings{
		Elevation:         Range{Min: -math.Pi / 2, Max: math.Pi / 2},
		Distance:          Range{Min: 1, Max: 100},
		AzimuthVelocity:   0.25 * math.Pi,
		ElevationVelocity: 0.25 * math.Pi,
		DistanceVelocity:  10,
	}
}

// OrbitCamera circles the origin at (azimuth, elevation, distance).
// Every setter leaves its value inside the legal range.
type OrbitCamera struct {
	settings OrbitSettings

	azimuth   float64
	elevation float64
	distance  float64

	velocityAzimuth   float64
	velocityElevation float64
	velocityDistance  float64
}

// NewOrbitCamera starts at azimuth 0, elevation 0 (clamped) and the maximum distance
func NewOrbitCamera(settings OrbitSettings) *OrbitCamera {
	c := &OrbitCamera{settings: settings}
	c.SetAzimuth(0)
	c.SetElevation(0)
	c.SetDistance(settings.Distance.Max)
	return c
}

// Azimuth returns the angle around the vertical axis, in [0, 2π)
func (c *OrbitCamera) Azimuth() float64 { return c.azimuth }

// Elevation returns the angle above the horizontal plane
func (c *OrbitCamera) Elevation() float64 { return c.elevation }

// Distance returns the eye's distance from the origin
func (c *OrbitCamera) Distance() float64 { return c.distance }

// Velocities returns the azimuth, elevation and distance velocities
func (c *OrbitCamera) Velocities() (azimuth, elevation, distance float64) {
	return c.velocityAzimuth, c.velocityElevation, c.velocityDistance
}

// SetAzimuth stores a with one wrap correction into [0, 2π).
// Deltas of 2π or more from the legal range are not fully folded back.
// Non-finite input is ignored.
func (c *OrbitCamera) SetAzimuth(a float64) {
	if math.IsNaN(a) || math.IsInf(a, 0) {
		return
	}
	c.azimuth = WrapAngle(a)
}

// SetElevation clamps e to the configured elevation range. NaN is ignored.
func (c *OrbitCamera) SetElevation(e float64) {
	if math.IsNaN(e) {
		return
	}
	c.elevation = c.settings.Elevation.Clamp(e)
}

// SetDistance clamps d to the configured distance range. NaN is ignored.
func (c *OrbitCamera) SetDistance(d float64) {
	if math.IsNaN(d) {
		return
	}
	c.distance = c.settings.Distance.Clamp(d)
}

// HandleDirection applies a key transition. Every transition stops all
// motion first; a press then starts motion along its own axis only, so a
// release of any key halts every axis.
func (c *OrbitCamera) HandleDirection(dir Direction, pressed bool) {
	c.velocityAzimuth = 0
	c.velocityElevation = 0
	c.velocityDistance = 0
	if !pressed {
		return
	}
	switch dir {
	case DirectionUp:
		c.velocityElevation = c.settings.ElevationVelocity
	case DirectionDown:
		c.velocityElevation = -c.settings.ElevationVelocity
	case DirectionLeft:
		c.velocityAzimuth = c.settings.AzimuthVelocity
	case DirectionRight:
		c.velocityAzimuth = -c.settings.AzimuthVelocity
	case DirectionFarther:
		c.velocityDistance = c.settings.DistanceVelocity
	case DirectionNearer:
		c.velocityDistance = -c.settings.DistanceVelocity
	}
}

// Integrate advances the state by dt seconds of the current velocities
func (c *OrbitCamera) Integrate(dt float64) {
	c.SetAzimuth(c.azimuth + c.velocityAzimuth*dt)
	c.SetElevation(c.elevation + c.velocityElevation*dt)
	c.SetDistance(c.distance + c.velocityDistance*dt)
}

// Projection returns a perspective projection for a vertical field of view in radians
func (c *OrbitCamera) Projection(fov, aspect, zNear, zFar float32) mgl32.Mat4 {
	return mgl32.Perspective(fov, aspect, zNear, zFar)
}

// Transform places the eye in world space:
// Ry(-azimuth) * Rx(-elevation) * T(0, 0, distance).
func (c *OrbitCamera) Transform() mgl32.Mat4 {
	return mgl32.HomogRotate3DY(float32(-c.azimuth)).
		Mul4(mgl32.HomogRotate3DX(float32(-c.elevation))).
		Mul4(mgl32.Translate3D(0, 0, float32(c.distance)))
}

// View maps world space into view space. It is the inverse of Transform.
func (c *OrbitCamera) View() mgl32.Mat4 {
	return mgl32.Translate3D(0, 0, float32(-c.distance)).
		Mul4(mgl32.HomogRotate3DX(float32(c.elevation))).
		Mul4(mgl32.HomogRotate3DY(float32(c.azimuth)))
}

// Eye returns the eye position in world space
func (c *OrbitCamera) Eye() mgl32.Vec3 {
	return c.Transform().Col(3).Vec3()
}

// WrapAngle folds a into [0, 2π) with a single correction
func WrapAngle(a float64) float64 {
	if a < 0 {
		a += twoPi
		// tiny negative inputs round up to exactly 2π
		if a >= twoPi {
			a = 0
		}
	} else if a >= twoPi {
		a -= twoPi
	}
	return a
}
