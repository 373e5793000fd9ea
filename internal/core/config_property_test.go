package core

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"pgregory.net/rapid"
)

// Feature: ba-ai, Property: Config Round-Trip
// Any well-formed .baconfig file loads back exactly the values written.
func TestProperty_ConfigRoundTrip(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		model := rapid.SampledFrom([]string{"claude-sonnet-4-5", "claude-opus-4", "claude-haiku-4"}).Draw(rt, "model")
		timeout := rapid.IntRange(1, 600).Draw(rt, "timeout")
		itemPrefix := rapid.StringMatching(`[A-Z0-9]{1,10}`).Draw(rt, "itemPrefix")
		projectPrefix := rapid.StringMatching(`[A-Z0-9]{1,10}`).Draw(rt, "projectPrefix")
		language := rapid.SampledFrom([]string{"en", "pt-BR", "es", "de"}).Draw(rt, "language")

		dir, err := os.MkdirTemp("", "baconfig")
		if err != nil {
			t.Fatalf("temp dir: %v", err)
		}
		defer os.RemoveAll(dir)

		// Prefixes like "00" must stay strings, so every value is quoted.
		content := fmt.Sprintf(`generation:
  model: %q
  request_timeout_seconds: %d
ids:
  item_prefix: %q
  project_prefix: %q
defaults:
  language: %q
`, model, timeout, itemPrefix, projectPrefix, language)
		if err := os.WriteFile(filepath.Join(dir, ".baconfig.yaml"), []byte(content), 0644); err != nil {
			t.Fatalf("writing config: %v", err)
		}

		cm := NewConfigurationManager(dir)
		cfg, err := cm.LoadConfig()
		if err != nil {
			t.Fatalf("loading config: %v", err)
		}

		if cfg.Model != model || cfg.RequestTimeout != timeout {
			t.Fatalf("generation settings mismatch: %+v", cfg)
		}
		if cfg.ItemIDPrefix != itemPrefix || cfg.ProjectIDPrefix != projectPrefix {
			t.Fatalf("prefix mismatch: %+v", cfg)
		}
		if cfg.DefaultLanguage != language {
			t.Fatalf("language mismatch: %+v", cfg)
		}
	})
}

// Feature: ba-ai, Property: Well-Formed Configs Always Validate
func TestProperty_ValidConfigPassesValidation(t *testing.T) {
	cm := NewConfigurationManager(t.TempDir())

	rapid.Check(t, func(rt *rapid.T) {
		cfg, err := cm.LoadConfig()
		if err != nil {
			t.Fatalf("loading defaults: %v", err)
		}
		cfg.Model = rapid.StringMatching(`[a-z0-9-]{3,30}`).Draw(rt, "model")
		cfg.RequestTimeout = rapid.IntRange(1, 3600).Draw(rt, "timeout")
		cfg.ItemIDPrefix = rapid.StringMatching(`[A-Z0-9]{1,10}`).Draw(rt, "itemPrefix")
		cfg.ProjectIDPrefix = rapid.StringMatching(`[A-Z0-9]{1,10}`).Draw(rt, "projectPrefix")

		if err := cm.ValidateConfig(cfg); err != nil {
			t.Fatalf("valid config rejected: %v", err)
		}
	})
}

// Feature: ba-ai, Property: Invalid Prefixes Always Rejected
func TestProperty_InvalidPrefixFailsValidation(t *testing.T) {
	cm := NewConfigurationManager(t.TempDir())

	rapid.Check(t, func(rt *rapid.T) {
		cfg, err := cm.LoadConfig()
		if err != nil {
			t.Fatalf("loading defaults: %v", err)
		}
		// Lowercase letters are never valid in a prefix.
		cfg.ItemIDPrefix = rapid.StringMatching(`[a-z]{1,10}`).Draw(rt, "prefix")

		if err := cm.ValidateConfig(cfg); err == nil {
			t.Fatalf("invalid prefix %q accepted", cfg.ItemIDPrefix)
		}
	})
}
