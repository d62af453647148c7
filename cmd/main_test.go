package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/lshigami/uteach/config"
)

type recordingExtractor struct {
	doc []byte
	url string
}

func (r *recordingExtractor) ExtractFromDocument(data []byte) (string, error) {
	r.doc = data
	return "from document", nil
}

func (r *recordingExtractor) ExtractFromURL(_ context.Context, rawURL string) (string, error) {
	r.url = rawURL
	return "from url", nil
}

func TestExtract_Dispatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.pdf")
	if err := os.WriteFile(path, []byte("%PDF-1.4"), 0o600); err != nil {
		t.Fatal(err)
	}

	r := &recordingExtractor{}
	if got, err := extract(context.Background(), r, path); err != nil || got != "from document" || string(r.doc) != "%PDF-1.4" {
		t.Errorf("file: got %q, %v", got, err)
	}
	if got, err := extract(context.Background(), r, "https://go.dev/doc"); err != nil || got != "from url" || r.url != "https://go.dev/doc" {
		t.Errorf("url: got %q, %v", got, err)
	}
	if _, err := extract(context.Background(), r, filepath.Join(t.TempDir(), "missing.pdf")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file err = %v", err)
	}
}

func TestCORSConfig(t *testing.T) {
	all := corsConfig([]string{"*"})
	if !all.AllowAllOrigins || all.AllowCredentials || len(all.AllowOrigins) != 0 {
		t.Errorf("wildcard config = %+v", all)
	}
	listed := corsConfig([]string{"https://app.test"})
	if listed.AllowAllOrigins || !listed.AllowCredentials || len(listed.AllowOrigins) != 1 {
		t.Errorf("listed config = %+v", listed)
	}
}

func TestNewVerifier_Disabled(t *testing.T) {
	if v := NewVerifier(&config.Config{}); v != nil {
		t.Errorf("verifier = %v, want nil when auth is disabled", v)
	}
	cfg := &config.Config{}
	cfg.Auth.Enabled = true
	cfg.Auth.Domain = "tenant.test"
	cfg.Auth.Audience = "api"
	if v := NewVerifier(cfg); v == nil {
		t.Error("verifier is nil with auth enabled")
	}
}
