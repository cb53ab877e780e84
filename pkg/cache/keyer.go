package cache

// Keyer generates cache keys.
type Keyer interface {
	// SceneKey keys a computed scene by document hash and layout options.
	SceneKey(docHash string, opts SceneKeyOpts) string

	// ArtifactKey keys a rendered artifact by scene fingerprint and render
	// options.
	ArtifactKey(sceneHash string, opts ArtifactKeyOpts) string
}

// SceneKeyOpts holds the layout options that change a scene.
type SceneKeyOpts struct {
	RadiusScale float64 `json:"radius_scale"`
	Spread      float64 `json:"spread"`
	ArrowWidth  float64 `json:"arrow_width"`
	ArrowLength float64 `json:"arrow_length"`
	ArrowOffset float64 `json:"arrow_offset"`
}

// ArtifactKeyOpts holds the render options that change an artifact.
type ArtifactKeyOpts struct {
	Format    string  `json:"format"`
	Width     int     `json:"width"`
	Height    int     `json:"height"`
	Elevation float64 `json:"elevation"`
	Azimuth   float64 `json:"azimuth"`
	Scale     float64 `json:"scale"`
	Labels    bool    `json:"labels"`
	Axes      bool    `json:"axes"`
	Title     string  `json:"title,omitempty"`
}

// DefaultKeyer produces "scene:<sha256>" and "artifact:<sha256>" keys.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// SceneKey implements [Keyer].
func (DefaultKeyer) SceneKey(docHash string, opts SceneKeyOpts) string {
	return hashKey("scene", docHash, opts)
}

// ArtifactKey implements [Keyer].
func (DefaultKeyer) ArtifactKey(sceneHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", sceneHash, opts)
}
