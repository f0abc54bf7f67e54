package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("APP_PORT", "")
	t.Setenv("TICK_RATE_HZ", "")

	cfg := Load()
	if cfg.Port != "8080" || cfg.TickRateHz != 60 {
		t.Errorf("defaults: port=%q tick=%d", cfg.Port, cfg.TickRateHz)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("APP_PORT", "9090")
	t.Setenv("TICK_RATE_HZ", "120")
	t.Setenv("MATCH_IDLE_MINUTES", "not-a-number")

	cfg := Load()
	if cfg.Port != "9090" || cfg.TickRateHz != 120 {
		t.Errorf("env not applied: port=%q tick=%d", cfg.Port, cfg.TickRateHz)
	}
	if cfg.MatchIdleMinutes != 30 {
		t.Errorf("bad int should fall back to the default, got %d", cfg.MatchIdleMinutes)
	}
}

func TestParseVariant(t *testing.T) {
	cases := map[string]Variant{
		"":         VariantPool,
		"Pool":     VariantPool,
		"snooker":  VariantSnooker,
		"freeplay": VariantSandbox,
		" demo ":   VariantDemoPool,
	}
	for in, want := range cases {
		got, err := ParseVariant(in)
		if err != nil || got != want {
			t.Errorf("ParseVariant(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := ParseVariant("carom"); err == nil {
		t.Errorf("unknown variant accepted")
	}
}

func TestLoadMatchConfigYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "table.yaml", "variant: snooker\nfriction: 0.98\nwidth: 1200\n")

	cfg, err := LoadMatchConfig(path)
	if err != nil {
		t.Fatalf("LoadMatchConfig: %v", err)
	}
	if cfg.Variant != VariantSnooker || cfg.Friction != 0.98 || cfg.Width != 1200 {
		t.Errorf("overrides not applied: %+v", cfg)
	}
	// untouched fields keep the snooker defaults
	if cfg.BallRadius != 12 || cfg.Height != 500 {
		t.Errorf("defaults lost: radius=%.1f height=%.1f", cfg.BallRadius, cfg.Height)
	}
}

func TestLoadMatchConfigTOML(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "table.toml", "variant = \"pool\"\nrestitution = 0.8\nseed = 42\n")

	cfg, err := LoadMatchConfig(path)
	if err != nil {
		t.Fatalf("LoadMatchConfig: %v", err)
	}
	if cfg.Restitution != 0.8 || cfg.Seed != 42 {
		t.Errorf("overrides not applied: %+v", cfg)
	}
}

func TestLoadMatchConfigRejectsBadValues(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "bad.yaml", "friction: 1.5\nball_radius: -2\n")

	_, err := LoadMatchConfig(path)
	if err == nil {
		t.Fatalf("invalid config accepted")
	}
	for _, want := range []string{"friction", "ball_radius"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %s", err, want)
		}
	}
}

func TestValidateRejectsNarrowTable(t *testing.T) {
	cfg := DefaultMatchConfig(VariantSandbox)
	cfg.Width = 1

	err := ValidateMatchConfig(cfg)
	if err == nil || !strings.Contains(err.Error(), "too narrow") {
		t.Errorf("narrow table: err = %v", err)
	}
	if err := ValidateMatchConfig(DefaultMatchConfig(VariantSnooker)); err != nil {
		t.Errorf("default snooker table rejected: %v", err)
	}
}

func TestLoadMatchConfigUnknownExtension(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "table.json", "{}")

	if _, err := LoadMatchConfig(path); err == nil {
		t.Errorf("json config accepted")
	}
}

func TestMatchConfigForFallsBack(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "pool.toml", "cue_length = 300\n")

	pool, err := MatchConfigFor(dir, VariantPool)
	if err != nil {
		t.Fatalf("MatchConfigFor(pool): %v", err)
	}
	if pool.CueLength != 300 || pool.Variant != VariantPool {
		t.Errorf("pool file not used: %+v", pool)
	}

	snooker, err := MatchConfigFor(dir, VariantSnooker)
	if err != nil {
		t.Fatalf("MatchConfigFor(snooker): %v", err)
	}
	if snooker != DefaultMatchConfig(VariantSnooker) {
		t.Errorf("missing file should give defaults, got %+v", snooker)
	}
}
