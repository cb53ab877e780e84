package radial

import (
	"math"

	"github.com/matzehuels/radialtree/pkg/geom"
)

// Camera is an orthographic viewpoint. Angles are in degrees.
type Camera struct {
	Elevation float64 `json:"elevation"`
	Azimuth   float64 `json:"azimuth"`
}

// DefaultCamera looks down at 30° from an azimuth of 45°.
func DefaultCamera() Camera {
	return Camera{Elevation: 30, Azimuth: 45}
}

// Basis returns the screen right and up vectors and the unit vector pointing
// from the scene toward the viewer.
func (c Camera) Basis() (right, up, toward geom.Vec3) {
	e := c.Elevation * math.Pi / 180
	a := c.Azimuth * math.Pi / 180
	right = geom.V(-math.Sin(a), math.Cos(a), 0)
	up = geom.V(-math.Sin(e)*math.Cos(a), -math.Sin(e)*math.Sin(a), math.Cos(e))
	toward = geom.V(math.Cos(e)*math.Cos(a), math.Cos(e)*math.Sin(a), math.Sin(e))
	return right, up, toward
}

// viewport maps scene points to pixels.
type viewport struct {
	right, up, toward geom.Vec3

	scale            float64
	width, height    float64
	centerX, centerY float64 // screen-space center of the fitted bounds
}

// viewMargin is the blank border kept around fitted content, in pixels.
const viewMargin = 24

// newViewport fits bounds into a width×height image. A positive scale fixes
// the pixels per scene unit instead of fitting.
func newViewport(cam Camera, bounds []geom.Vec3, width, height int, scale float64) viewport {
	right, up, toward := cam.Basis()
	v := viewport{right: right, up: up, toward: toward, width: float64(width), height: float64(height)}

	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range bounds {
		x, y := p.Dot(right), p.Dot(up)
		minX, maxX = math.Min(minX, x), math.Max(maxX, x)
		minY, maxY = math.Min(minY, y), math.Max(maxY, y)
	}
	if len(bounds) == 0 {
		minX, maxX, minY, maxY = -1, 1, -1, 1
	}
	v.centerX, v.centerY = (minX+maxX)/2, (minY+maxY)/2

	v.scale = scale
	if v.scale <= 0 {
		spanX := math.Max(maxX-minX, 1e-9)
		spanY := math.Max(maxY-minY, 1e-9)
		v.scale = math.Min((v.width-2*viewMargin)/spanX, (v.height-2*viewMargin)/spanY)
		if v.scale <= 0 {
			v.scale = 1
		}
	}
	return v
}

// project returns pixel coordinates with y growing downward.
func (v viewport) project(p geom.Vec3) (x, y float64) {
	x = v.width/2 + (p.Dot(v.right)-v.centerX)*v.scale
	y = v.height/2 - (p.Dot(v.up)-v.centerY)*v.scale
	return x, y
}

// depth grows toward the viewer.
func (v viewport) depth(p geom.Vec3) float64 {
	return p.Dot(v.toward)
}
