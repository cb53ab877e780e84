package cli

import (
	"testing"

	"github.com/matzehuels/radialtree/pkg/cache"
)

func TestCacheLocation(t *testing.T) {
	tests := []struct {
		name string
		opts cache.Options
		want string
	}{
		{"file", cache.Options{Backend: cache.BackendFile, Dir: "/tmp/radialtree"}, "/tmp/radialtree"},
		{"redis", cache.Options{Backend: cache.BackendRedis, RedisAddr: "localhost:6379", RedisDB: 2}, "redis://localhost:6379/2"},
		{"none", cache.Options{Backend: cache.BackendNone}, "disabled"},
		{"empty", cache.Options{}, "disabled"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cacheLocation(tt.opts); got != tt.want {
				t.Errorf("cacheLocation() = %q, want %q", got, tt.want)
			}
		})
	}
}
