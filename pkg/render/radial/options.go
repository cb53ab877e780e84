package radial

// Option configures [RenderSVG], [RenderPNG] and [RenderPDF].
type Option func(*renderer)

type renderer struct {
	width, height int
	camera        Camera
	scale         float64
	axes          bool
	labels        bool
	title         string
}

// Image size limits in pixels.
const (
	DefaultWidth  = 800
	DefaultHeight = 800

	// MaxDimension is the largest accepted width or height.
	MaxDimension = 8192
)

// WithSize sets the image size in pixels. Non-positive values are ignored.
func WithSize(width, height int) Option {
	return func(r *renderer) {
		if width > 0 {
			r.width = width
		}
		if height > 0 {
			r.height = height
		}
	}
}

// WithCamera sets the viewpoint.
func WithCamera(c Camera) Option { return func(r *renderer) { r.camera = c } }

// WithScale fixes the pixels per scene unit. Zero fits the view to the image.
func WithScale(s float64) Option { return func(r *renderer) { r.scale = s } }

// WithoutAxes omits the X/Y/Z axis arrows.
func WithoutAxes() Option { return func(r *renderer) { r.axes = false } }

// WithoutLabels omits node labels.
func WithoutLabels() Option { return func(r *renderer) { r.labels = false } }

// WithTitle sets the SVG document title.
func WithTitle(t string) Option { return func(r *renderer) { r.title = t } }

func newRenderer(opts ...Option) renderer {
	r := renderer{
		width:  DefaultWidth,
		height: DefaultHeight,
		camera: DefaultCamera(),
		axes:   true,
		labels: true,
		title:  "radialtree",
	}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}
