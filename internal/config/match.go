package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Variant selects the rule set and layout of a match.
type Variant string

const (
	VariantPool     Variant = "pool"
	VariantSnooker  Variant = "snooker"
	VariantSandbox  Variant = "sandbox"
	VariantDemoPool Variant = "demo"
)

// ParseVariant accepts the variant names used in config files and API requests.
func ParseVariant(s string) (Variant, error) {
	switch v := Variant(strings.ToLower(strings.TrimSpace(s))); v {
	case VariantPool, VariantSnooker, VariantSandbox, VariantDemoPool:
		return v, nil
	case "":
		return VariantPool, nil
	case "freeplay":
		return VariantSandbox, nil
	default:
		return "", fmt.Errorf("unknown variant %q", s)
	}
}

// MatchConfig holds the table and physics parameters of one match.
type MatchConfig struct {
	Variant          Variant `json:"variant"`
	Width            float64 `json:"width"`
	Height           float64 `json:"height"`
	CushionThickness float64 `json:"cushion_thickness"`
	PocketRadius     float64 `json:"pocket_radius"`
	BallRadius       float64 `json:"ball_radius"`
	Friction         float64 `json:"friction"`     // per-tick speed multiplier
	Restitution      float64 `json:"restitution"`  // cushion speed multiplier
	BallDamping      float64 `json:"ball_damping"` // ball-ball own-speed retention
	StopThreshold    float64 `json:"stop_threshold"`
	CueLength        float64 `json:"cue_length"`
	MaxShotSpeed     float64 `json:"max_shot_speed"`
	Seed             int64   `json:"seed"` // sandbox scatter
}

// DefaultMatchConfig returns the stock table for a variant.
func DefaultMatchConfig(v Variant) MatchConfig {
	cfg := MatchConfig{
		Variant:          v,
		Width:            1000,
		Height:           500,
		CushionThickness: 20,
		PocketRadius:     24,
		BallRadius:       14,
		Friction:         0.99,
		Restitution:      0.7,
		BallDamping:      0.7,
		StopThreshold:    0.2,
		CueLength:        400,
		MaxShotSpeed:     30,
		Seed:             1,
	}
	switch v {
	case VariantSnooker:
		cfg.BallRadius = 12
		cfg.Friction = 0.993
	case VariantSandbox:
		cfg.Friction = 0.985
	}
	return cfg
}

// RawMatchConfig mirrors the file schema; nil fields fall back to defaults.
type RawMatchConfig struct {
	Variant          string   `yaml:"variant" toml:"variant" json:"variant,omitempty"`
	Width            *float64 `yaml:"width" toml:"width" json:"width,omitempty"`
	Height           *float64 `yaml:"height" toml:"height" json:"height,omitempty"`
	CushionThickness *float64 `yaml:"cushion_thickness" toml:"cushion_thickness" json:"cushion_thickness,omitempty"`
	PocketRadius     *float64 `yaml:"pocket_radius" toml:"pocket_radius" json:"pocket_radius,omitempty"`
	BallRadius       *float64 `yaml:"ball_radius" toml:"ball_radius" json:"ball_radius,omitempty"`
	Friction         *float64 `yaml:"friction" toml:"friction" json:"friction,omitempty"`
	Restitution      *float64 `yaml:"restitution" toml:"restitution" json:"restitution,omitempty"`
	BallDamping      *float64 `yaml:"ball_damping" toml:"ball_damping" json:"ball_damping,omitempty"`
	StopThreshold    *float64 `yaml:"stop_threshold" toml:"stop_threshold" json:"stop_threshold,omitempty"`
	CueLength        *float64 `yaml:"cue_length" toml:"cue_length" json:"cue_length,omitempty"`
	MaxShotSpeed     *float64 `yaml:"max_shot_speed" toml:"max_shot_speed" json:"max_shot_speed,omitempty"`
	Seed             *int64   `yaml:"seed" toml:"seed" json:"seed,omitempty"`
}

// LoadMatchConfig reads a YAML or TOML match file, merges it over the
// variant defaults and validates the result.
func LoadMatchConfig(path string) (MatchConfig, error) {
	raw, err := readRaw(path)
	if err != nil {
		return MatchConfig{}, fmt.Errorf("read %s: %w", path, err)
	}
	variant, err := ParseVariant(raw.Variant)
	if err != nil {
		return MatchConfig{}, err
	}
	cfg := MergeMatchConfig(DefaultMatchConfig(variant), raw)
	if err := ValidateMatchConfig(cfg); err != nil {
		return MatchConfig{}, err
	}
	return cfg, nil
}

// MatchConfigFor looks for <dir>/<variant>.yaml, .yml or .toml and falls back
// to the defaults when dir is empty or no file exists.
func MatchConfigFor(dir string, v Variant) (MatchConfig, error) {
	if dir == "" {
		return DefaultMatchConfig(v), nil
	}
	for _, ext := range []string{".yaml", ".yml", ".toml"} {
		path := filepath.Join(dir, string(v)+ext)
		if _, err := os.Stat(path); err == nil {
			cfg, err := LoadMatchConfig(path)
			if err != nil {
				return MatchConfig{}, err
			}
			// the file name decides the variant
			cfg.Variant = v
			return cfg, nil
		}
	}
	return DefaultMatchConfig(v), nil
}

func readRaw(path string) (RawMatchConfig, error) {
	var raw RawMatchConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return raw, err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(b, &raw)
	case ".toml":
		_, err = toml.Decode(string(b), &raw)
	default:
		err = errors.New("unsupported config format (want .yaml, .yml or .toml)")
	}
	return raw, err
}

// MergeMatchConfig overrides base with every non-nil field of raw.
func MergeMatchConfig(base MatchConfig, raw RawMatchConfig) MatchConfig {
	out := base
	setF := func(dst *float64, src *float64) {
		if src != nil {
			*dst = *src
		}
	}
	setF(&out.Width, raw.Width)
	setF(&out.Height, raw.Height)
	setF(&out.CushionThickness, raw.CushionThickness)
	setF(&out.PocketRadius, raw.PocketRadius)
	setF(&out.BallRadius, raw.BallRadius)
	setF(&out.Friction, raw.Friction)
	setF(&out.Restitution, raw.Restitution)
	setF(&out.BallDamping, raw.BallDamping)
	setF(&out.StopThreshold, raw.StopThreshold)
	setF(&out.CueLength, raw.CueLength)
	setF(&out.MaxShotSpeed, raw.MaxShotSpeed)
	if raw.Seed != nil {
		out.Seed = *raw.Seed
	}
	return out
}

// ValidateMatchConfig checks semantic constraints and reports all of them at once.
func ValidateMatchConfig(cfg MatchConfig) error {
	var errs []string

	if cfg.Width <= 0 || cfg.Height <= 0 {
		errs = append(errs, "width and height must be > 0")
	}
	if cfg.CushionThickness < 0 {
		errs = append(errs, "cushion_thickness must be >= 0")
	}
	if cfg.BallRadius <= 0 {
		errs = append(errs, "ball_radius must be > 0")
	}
	if cfg.PocketRadius <= 0 {
		errs = append(errs, "pocket_radius must be > 0")
	}
	// the playing area must fit at least a rack of balls across its height
	if cfg.Height-2*cfg.CushionThickness < 10*cfg.BallRadius {
		errs = append(errs, "table too small for the ball radius")
	}
	if cfg.Width-2*cfg.CushionThickness < 20*cfg.BallRadius {
		errs = append(errs, "table too narrow for the ball radius")
	}
	if cfg.Friction <= 0 || cfg.Friction > 1 {
		errs = append(errs, "friction must be in (0,1]")
	}
	if cfg.Restitution <= 0 || cfg.Restitution > 1 {
		errs = append(errs, "restitution must be in (0,1]")
	}
	if cfg.BallDamping <= 0 || cfg.BallDamping > 1 {
		errs = append(errs, "ball_damping must be in (0,1]")
	}
	if cfg.StopThreshold < 0 {
		errs = append(errs, "stop_threshold must be >= 0")
	}
	if cfg.CueLength <= 0 || cfg.MaxShotSpeed <= 0 {
		errs = append(errs, "cue_length and max_shot_speed must be > 0")
	}

	if len(errs) > 0 {
		return errors.New("invalid match config: " + strings.Join(errs, "; "))
	}
	return nil
}
