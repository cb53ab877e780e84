package pipeline

import (
	"bytes"
	"context"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/radialtree/pkg/cache"
	"github.com/matzehuels/radialtree/pkg/config"
	errs "github.com/matzehuels/radialtree/pkg/errors"
	"github.com/matzehuels/radialtree/pkg/hierarchy"
	"github.com/matzehuels/radialtree/pkg/layout"
	"github.com/matzehuels/radialtree/pkg/observability"
	"github.com/matzehuels/radialtree/pkg/render/radial"
	"github.com/matzehuels/radialtree/pkg/store"
)

const sampleDoc = `{
  "A": {"parent": null, "children": ["B", "C"]},
  "B": {"parent": "A", "children": []},
  "C": {"parent": ["A"]}
}`

func writeDoc(t *testing.T, content string) *store.FileStore {
	t.Helper()
	path := filepath.Join(t.TempDir(), "hierarchy.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return store.NewFileStore(path)
}

func newFileRunner(t *testing.T) *Runner {
	t.Helper()
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	return NewRunner(c, nil, nil)
}

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"svg", false},
		{"png", false},
		{"pdf", false},
		{"json", false},
		{"dot", false},
		{"invalid", true},
		{"SVG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
		if err != nil && !errs.Is(err, errs.ErrCodeInvalidFormat) {
			t.Errorf("ValidateFormat(%q) code = %v", tt.format, errs.GetCode(err))
		}
	}
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{"svg", "png"}); err != nil {
		t.Errorf("Valid formats should pass: %v", err)
	}
	if err := ValidateFormats([]string{"svg", "invalid"}); err == nil {
		t.Error("Invalid format should fail")
	}
	// Empty slice is valid
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("Empty formats should pass: %v", err)
	}
}

func TestValidateAndSetDefaults(t *testing.T) {
	var o Options
	if err := o.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	if o.Layout != layout.DefaultOptions() {
		t.Errorf("Layout = %+v", o.Layout)
	}
	if len(o.Formats) != 1 || o.Formats[0] != FormatSVG {
		t.Errorf("Formats = %v", o.Formats)
	}
	if o.Width != 800 || o.Height != 800 || o.Camera.Elevation != 30 || o.Logger == nil {
		t.Errorf("defaults not applied: %+v", o)
	}

	o = Options{Formats: []string{"svg", "json", "svg"}}
	if err := o.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	if strings.Join(o.Formats, ",") != "svg,json" {
		t.Errorf("Formats = %v, want deduplicated", o.Formats)
	}

	for _, bad := range []Options{
		{Formats: []string{"gif"}},
		{Width: -1},
		{Scale: -2},
		{Width: 200000, Height: 200000},
		{Height: radial.MaxDimension + 1},
		{Camera: radial.Camera{Elevation: math.NaN(), Azimuth: 45}},
		{Camera: radial.Camera{Elevation: 30, Azimuth: math.Inf(-1)}},
		{Scale: math.Inf(1)},
	} {
		if err := bad.ValidateAndSetDefaults(); err == nil {
			t.Errorf("%+v: expected error", bad)
		}
	}
}

func TestFromConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Render.Formats = []string{"png", "dot"}
	cfg.Render.Azimuth = 10
	cfg.Layout.RadiusScale = 2

	o := FromConfig(cfg)
	if o.Layout.RadiusScale != 2 || o.Camera.Azimuth != 10 || o.Camera.Elevation != 30 {
		t.Errorf("FromConfig = %+v", o)
	}
	cfg.Render.Formats[0] = "svg"
	if o.Formats[0] != "png" {
		t.Error("FromConfig shares the formats slice with the config")
	}
}

func TestExecute(t *testing.T) {
	ctx := context.Background()
	st := writeDoc(t, sampleDoc)
	r := newFileRunner(t)

	res, err := r.Execute(ctx, st, Options{Formats: []string{"svg", "json", "dot"}})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if res.Stats.NodeCount != 3 || res.Stats.EdgeCount != 2 || res.Stats.PlacedCount != 3 {
		t.Errorf("Stats = %+v", res.Stats)
	}
	if res.CacheInfo.SceneHit || res.CacheInfo.RenderHit {
		t.Errorf("first run hit the cache: %+v", res.CacheInfo)
	}
	if !bytes.Contains(res.Artifacts["svg"], []byte("<svg")) {
		t.Error("svg artifact missing")
	}
	if !bytes.Contains(res.Artifacts["json"], []byte(res.Scene.Fingerprint())) {
		t.Error("json artifact missing fingerprint")
	}
	if !bytes.Contains(res.Artifacts["dot"], []byte(`"A" -> "B"`)) {
		t.Error("dot artifact missing edge")
	}

	again, err := r.Execute(ctx, st, Options{Formats: []string{"svg", "json"}})
	if err != nil {
		t.Fatal(err)
	}
	if !again.CacheInfo.SceneHit || !again.CacheInfo.RenderHit {
		t.Errorf("second run missed the cache: %+v", again.CacheInfo)
	}
	if again.Scene.Fingerprint() != res.Scene.Fingerprint() {
		t.Error("cached scene differs")
	}
	if !bytes.Equal(again.Artifacts["svg"], res.Artifacts["svg"]) {
		t.Error("cached svg differs")
	}
}

func TestExecuteRefresh(t *testing.T) {
	ctx := context.Background()
	st := writeDoc(t, sampleDoc)
	r := newFileRunner(t)

	if _, err := r.Execute(ctx, st, Options{}); err != nil {
		t.Fatal(err)
	}
	res, err := r.Execute(ctx, st, Options{Refresh: true})
	if err != nil {
		t.Fatal(err)
	}
	if res.CacheInfo.SceneHit || res.CacheInfo.RenderHit {
		t.Errorf("refresh hit the cache: %+v", res.CacheInfo)
	}
}

func TestExecuteOptionsChangeKeys(t *testing.T) {
	ctx := context.Background()
	st := writeDoc(t, sampleDoc)
	r := newFileRunner(t)

	first, err := r.Execute(ctx, st, Options{})
	if err != nil {
		t.Fatal(err)
	}
	opts := Options{Layout: layout.DefaultOptions()}
	opts.Layout.RadiusScale = 2
	second, err := r.Execute(ctx, st, opts)
	if err != nil {
		t.Fatal(err)
	}
	if second.CacheInfo.SceneHit {
		t.Error("different layout options reused the cached scene")
	}
	if first.Scene.Fingerprint() == second.Scene.Fingerprint() {
		t.Error("fingerprints equal for different radius scales")
	}

	third, err := r.Execute(ctx, st, Options{NoLabels: true})
	if err != nil {
		t.Fatal(err)
	}
	if !third.CacheInfo.SceneHit || third.CacheInfo.RenderHit {
		t.Errorf("label toggle: %+v, want scene hit and render miss", third.CacheInfo)
	}
}

func TestExecuteErrors(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name string
		doc  string
		code errs.Code
	}{
		{"malformed", `[1, 2]`, errs.ErrCodeMalformedSnapshot},
		{"dangling", `{"A": {"children": ["ghost"]}}`, errs.ErrCodeMalformedSnapshot},
		{"no root", `{"A": {"parent": "B"}, "B": {"parent": "A"}}`, errs.ErrCodeNoRoot},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRunner(nil, nil, nil).Execute(ctx, writeDoc(t, tt.doc), Options{})
			if !errs.Is(err, tt.code) {
				t.Errorf("err = %v, want code %s", err, tt.code)
			}
		})
	}

	if _, err := NewRunner(nil, nil, nil).Execute(ctx, writeDoc(t, sampleDoc), Options{Formats: []string{"bmp"}}); !errs.Is(err, errs.ErrCodeInvalidFormat) {
		t.Errorf("err = %v, want invalid format", err)
	}
}

func TestLoadHashIgnoresLegacyShapes(t *testing.T) {
	ctx := context.Background()
	r := NewRunner(nil, nil, nil)

	_, legacy, err := r.Load(ctx, writeDoc(t, `{"A": {"parent": null, "children": ["B"]}, "B": {"parent": "A"}}`))
	if err != nil {
		t.Fatal(err)
	}
	_, normal, err := r.Load(ctx, writeDoc(t, `{"A": {"parent": [], "children": ["B"]}, "B": {"parent": ["A"], "children": []}}`))
	if err != nil {
		t.Fatal(err)
	}
	if legacy != normal {
		t.Errorf("hashes differ: %s vs %s", legacy, normal)
	}
}

func TestRenderDOTNeedsHierarchy(t *testing.T) {
	s, err := layout.Build(mustLoad(t), layout.DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := Render(context.Background(), s, nil, []string{FormatDOT}, Options{}); err == nil {
		t.Error("expected error without hierarchy")
	}
}

type recordingHooks struct {
	observability.NoopPipelineHooks
	events []string
}

func (h *recordingHooks) OnLoadComplete(_ context.Context, backend string, _ int, _ time.Duration, _ error) {
	h.events = append(h.events, "load:"+backend)
}

func (h *recordingHooks) OnLayoutComplete(context.Context, int, time.Duration, error) {
	h.events = append(h.events, "layout")
}

func (h *recordingHooks) OnRenderComplete(_ context.Context, formats []string, _ time.Duration, _ error) {
	h.events = append(h.events, "render:"+strings.Join(formats, ","))
}

func TestExecuteReportsHooks(t *testing.T) {
	rec := &recordingHooks{}
	observability.SetPipelineHooks(rec)
	t.Cleanup(observability.Reset)

	if _, err := NewRunner(nil, nil, nil).Execute(context.Background(), writeDoc(t, sampleDoc), Options{Formats: []string{"json"}}); err != nil {
		t.Fatal(err)
	}
	want := "load:file layout render:json"
	if got := strings.Join(rec.events, " "); got != want {
		t.Errorf("events = %q, want %q", got, want)
	}
}

func TestContentType(t *testing.T) {
	for _, f := range ValidFormats {
		if ContentType(f) == "application/octet-stream" {
			t.Errorf("ContentType(%q) not set", f)
		}
	}
}

func mustLoad(t *testing.T) *hierarchy.Hierarchy {
	t.Helper()
	h, _, err := NewRunner(nil, nil, nil).Load(context.Background(), writeDoc(t, sampleDoc))
	if err != nil {
		t.Fatal(err)
	}
	return h
}
