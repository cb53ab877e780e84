package radial

import (
	"encoding/json"
	"fmt"

	"github.com/matzehuels/radialtree/pkg/layout"
)

// jsonOutput is the scene with its fingerprint, so consumers can detect
// changes without comparing coordinates.
type jsonOutput struct {
	Fingerprint string `json:"fingerprint"`
	*layout.Scene
}

// RenderJSON encodes the scene geometry as indented JSON.
func RenderJSON(s *layout.Scene) ([]byte, error) {
	data, err := json.MarshalIndent(jsonOutput{Fingerprint: s.Fingerprint(), Scene: s}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode scene: %w", err)
	}
	return append(data, '\n'), nil
}

// ReadJSON decodes output of [RenderJSON] back into a scene.
func ReadJSON(data []byte) (*layout.Scene, error) {
	var s layout.Scene
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode scene: %w", err)
	}
	return &s, nil
}
