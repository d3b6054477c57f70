package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matzehuels/astviz/pkg/ast"
	"github.com/matzehuels/astviz/pkg/cache"
	"github.com/matzehuels/astviz/pkg/errors"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultIsValid(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	if err := Default().Validate(); err != nil {
		t.Errorf("Default().Validate() = %v", err)
	}
}

func TestLoadFile(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	path := writeFile(t, `
[ast]
type_key = "type"
ref_key = "ref-path"

[render]
formats = ["svg", "dot"]
scale = 3.0

[cache]
backend = "memory"
size = 64
ttl = "1h"

[server]
addr = "127.0.0.1:9000"

[watch]
url = "ws://localhost:3000/notify"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.AST.Type != "type" || cfg.AST.Ref != "ref-path" {
		t.Errorf("AST = %+v", cfg.AST)
	}
	// Unset keys keep their defaults.
	if cfg.AST.Container != ast.DefaultKeys.Container {
		t.Errorf("AST.Container = %q, want default", cfg.AST.Container)
	}
	if len(cfg.Render.Formats) != 2 || cfg.Render.Scale != 3 {
		t.Errorf("Render = %+v", cfg.Render)
	}
	if cfg.Cache.Backend != BackendMemory || cfg.Cache.Size != 64 || cfg.Cache.TTL != time.Hour {
		t.Errorf("Cache = %+v", cfg.Cache)
	}
	if cfg.Server.Addr != "127.0.0.1:9000" {
		t.Errorf("Server.Addr = %q", cfg.Server.Addr)
	}
	if cfg.Watch.URL != "ws://localhost:3000/notify" {
		t.Errorf("Watch.URL = %q", cfg.Watch.URL)
	}
}

func TestLoadErrors(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	tests := []struct {
		name    string
		content string
		code    errors.Code
	}{
		{"Syntax", `[render`, errors.ErrCodeInvalidConfig},
		{"UnknownKey", "[render]\ncolour = true", errors.ErrCodeInvalidConfig},
		{"BadFormat", "[render]\nformats = [\"gif\"]", errors.ErrCodeInvalidConfig},
		{"SameKeys", "[ast]\ntype_key = \"k\"\nref_key = \"k\"", errors.ErrCodeInvalidConfig},
		{"RedisWithoutURL", "[cache]\nbackend = \"redis\"", errors.ErrCodeInvalidConfig},
		{"HTTPWatchURL", "[watch]\nurl = \"http://localhost\"", errors.ErrCodeInvalidConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, tt.content))
			if !errors.Is(err, tt.code) {
				t.Errorf("Load() = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("Load(explicit missing) = %v, want FILE_NOT_FOUND", err)
	}

	// The default location may be absent.
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	if _, err := Load(""); err != nil {
		t.Errorf("Load(\"\") = %v", err)
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"ASTVIZ_TYPE_KEY":      "kind",
		"ASTVIZ_FORMATS":       "png, pdf,",
		"ASTVIZ_SCALE":         "1.5",
		"ASTVIZ_CACHE_BACKEND": "none",
		"ASTVIZ_CACHE_SIZE":    "10",
		"ASTVIZ_CACHE_TTL":     "90s",
		"ASTVIZ_SERVER_ADDR":   ":7000",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	cfg := Default()
	if err := cfg.ApplyEnv(lookup); err != nil {
		t.Fatalf("ApplyEnv() error: %v", err)
	}
	if cfg.AST.Type != "kind" || cfg.AST.Ref != "$ref" {
		t.Errorf("AST = %+v", cfg.AST)
	}
	if len(cfg.Render.Formats) != 2 || cfg.Render.Formats[0] != "png" || cfg.Render.Formats[1] != "pdf" {
		t.Errorf("Formats = %q", cfg.Render.Formats)
	}
	if cfg.Render.Scale != 1.5 || cfg.Cache.Backend != BackendNone || cfg.Cache.Size != 10 {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.Cache.TTL != 90*time.Second || cfg.Server.Addr != ":7000" {
		t.Errorf("TTL/Addr = %v/%q", cfg.Cache.TTL, cfg.Server.Addr)
	}

	env["ASTVIZ_SCALE"] = "big"
	if err := Default().ApplyEnv(lookup); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("ApplyEnv(bad scale) = %v, want INVALID_CONFIG", err)
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	t.Setenv("ASTVIZ_SERVER_ADDR", ":6000")
	cfg, err := Load(writeFile(t, "[server]\naddr = \":5000\""))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Server.Addr != ":6000" {
		t.Errorf("Server.Addr = %q, want env value", cfg.Server.Addr)
	}
}

func TestOpenCache(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name    string
		cfg     CacheConfig
		wantErr bool
	}{
		{"None", CacheConfig{Backend: BackendNone}, false},
		{"Memory", CacheConfig{Backend: BackendMemory, Size: 4}, false},
		{"File", CacheConfig{Backend: BackendFile, Dir: t.TempDir()}, false},
		{"Unknown", CacheConfig{Backend: "disk"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := tt.cfg.OpenCache(ctx)
			if (err != nil) != tt.wantErr {
				t.Fatalf("OpenCache() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			defer c.Close()
			if err := c.Set(ctx, "artifact:k", []byte("v"), cache.TTLArtifact); err != nil {
				t.Fatalf("Set() error: %v", err)
			}
			_, hit, err := c.Get(ctx, "artifact:k")
			if err != nil {
				t.Fatalf("Get() error: %v", err)
			}
			if want := tt.cfg.Backend != BackendNone; hit != want {
				t.Errorf("hit = %v, want %v", hit, want)
			}
		})
	}
}

func TestSplitList(t *testing.T) {
	got := SplitList(" svg ,, png ")
	if len(got) != 2 || got[0] != "svg" || got[1] != "png" {
		t.Errorf("SplitList() = %q", got)
	}
	if SplitList("") != nil {
		t.Error("SplitList(\"\") should be nil")
	}
}
