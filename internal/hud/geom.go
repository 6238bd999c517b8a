package hud

import "math"

const (
	// minForwardDist guards divisions when a target sits on the camera plane.
	minForwardDist = 1e-6
	// offscreenCoord marks screen positions that cannot be placed (behind camera).
	offscreenCoord = -10000.0
)

// Vec3 is a point in world space. Y is up; the ground plane is X/Z.
type Vec3 struct {
	X, Y, Z float64
}

// Pose is a world position plus a yaw about the vertical axis.
// Yaw 0 faces +X; yaw grows toward +Z (matching atan2 over the ground plane).
type Pose struct {
	Position Vec3
	Yaw      float64 // radians
}

// Viewport is the drawable screen area in pixels.
type Viewport struct {
	W, H int
}

// Valid reports whether the viewport has a usable area.
func (vp Viewport) Valid() bool {
	return vp.W > 0 && vp.H > 0
}

// Center returns the viewport centre in pixels.
func (vp Viewport) Center() (float64, float64) {
	return float64(vp.W) / 2, float64(vp.H) / 2
}

// ScreenPoint is a projected world position. Behind is set when the target
// lies behind the camera plane, in which case X/Y hold the off-screen sentinel.
type ScreenPoint struct {
	X, Y   float64
	Behind bool
}

// HorizontalDistance returns the distance between two points in the X/Z plane,
// ignoring height.
func HorizontalDistance(a, b Vec3) float64 {
	return math.Hypot(b.X-a.X, b.Z-a.Z)
}

// Distance returns the full 3D distance between two points.
func Distance(a, b Vec3) float64 {
	dx := b.X - a.X
	dy := b.Y - a.Y
	dz := b.Z - a.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// BearingTo returns the absolute ground-plane bearing from one point toward
// another, in radians.
func BearingTo(from, to Vec3) float64 {
	return math.Atan2(to.Z-from.Z, to.X-from.X)
}

// RelativeBearing returns the bearing toward a target relative to an
// observer's yaw, wrapped to [0, 2π). A target dead ahead yields 0.
func RelativeBearing(from Vec3, yaw float64, to Vec3) float64 {
	return wrapBearing(BearingTo(from, to) - yaw)
}

// RingPoint places an angle on a fixed circle around the viewport centre.
// The radius is radiusFrac times the smaller viewport dimension. Angle 0 maps
// to the right edge of the ring; angles grow counter-clockwise on screen.
func RingPoint(vp Viewport, angle, radiusFrac float64) (float64, float64) {
	cx, cy := vp.Center()
	r := radiusFrac * math.Min(float64(vp.W), float64(vp.H))
	return cx + math.Cos(angle)*r, cy - math.Sin(angle)*r
}

// ClampToMargin clamps a point into the viewport inset by margin on all
// sides. The third result reports whether the original point was outside the
// inset rectangle (and therefore needs an off-screen indicator).
func ClampToMargin(vp Viewport, margin, x, y float64) (float64, float64, bool) {
	minX, minY := margin, margin
	maxX := float64(vp.W) - margin
	maxY := float64(vp.H) - margin
	if maxX < minX {
		maxX = minX
	}
	if maxY < minY {
		maxY = minY
	}
	cx := math.Min(math.Max(x, minX), maxX)
	cy := math.Min(math.Max(y, minY), maxY)
	return cx, cy, cx != x || cy != y
}

// IndicatorAngle converts a ring angle into the rotation of a directional
// arrow glyph whose neutral orientation points up.
func IndicatorAngle(angle float64) float64 {
	return angle - math.Pi/2
}

// ProjectForward maps a world position into screen space using a simplified
// pinhole model: the world delta is rotated into the camera frame and the
// lateral/vertical components are divided by the forward component. Targets
// on or behind the camera plane come back with Behind set and sentinel
// coordinates. This deliberately isn't a full camera matrix; it only has to
// place flat HUD elements, and scale is tuned to the renderer's FOV.
func ProjectForward(cam Pose, target Vec3, vp Viewport, scale float64) ScreenPoint {
	dx := target.X - cam.Position.X
	dy := target.Y - cam.Position.Y
	dz := target.Z - cam.Position.Z

	sinYaw, cosYaw := math.Sincos(cam.Yaw)
	forward := dx*cosYaw + dz*sinYaw
	lateral := dz*cosYaw - dx*sinYaw
	if forward < minForwardDist {
		return ScreenPoint{X: offscreenCoord, Y: offscreenCoord, Behind: true}
	}

	cx, cy := vp.Center()
	return ScreenPoint{
		X: cx + (lateral/forward)*scale,
		Y: cy - (dy/forward)*scale,
	}
}

// wrapBearing wraps an angle to [0, 2π).
func wrapBearing(a float64) float64 {
	for a < 0 {
		a += 2 * math.Pi
	}
	for a >= 2*math.Pi {
		a -= 2 * math.Pi
	}
	return a
}

// normalizeAngle wraps an angle to [-pi, pi].
func normalizeAngle(a float64) float64 {
	for a > math.Pi {
		a -= 2 * math.Pi
	}
	for a < -math.Pi {
		a += 2 * math.Pi
	}
	return a
}

// fadeOpacity returns a 0..1 opacity for a value approaching a cutoff.
// Inside cutoff-band the result is 1; past the cutoff it is 0; within the
// band it falls off linearly. A zero or negative band disables fading.
func fadeOpacity(value, cutoff, band float64) float64 {
	if cutoff <= 0 {
		return 1
	}
	if value >= cutoff {
		return 0
	}
	if band <= 0 || value <= cutoff-band {
		return 1
	}
	return (cutoff - value) / band
}

// clamp01 clamps v into [0, 1].
func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// lerp linearly interpolates between a and b.
func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}
