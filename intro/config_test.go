package intro

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfigSane(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Movement.Speed <= 0 {
		t.Errorf("default speed: expected positive, got %v", cfg.Movement.Speed)
	}
	if cfg.Portal.AutoEnterThreshold > cfg.Portal.NearThreshold {
		t.Errorf("default thresholds inverted: auto %v > near %v",
			cfg.Portal.AutoEnterThreshold, cfg.Portal.NearThreshold)
	}
	if cfg.Post.Style != PostStyleRetro {
		t.Errorf("default post style: expected %q, got %q", PostStyleRetro, cfg.Post.Style)
	}
}

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("missing file should not error: %v", err)
	}
	if cfg != DefaultConfig() {
		t.Error("missing file should yield the defaults")
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "intro.yaml")
	data := []byte(`movement:
  speed: 5.5
  allow_strafe: false
portal:
  near_threshold: 14
post:
  style: hdr
`)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Movement.Speed != 5.5 {
		t.Errorf("speed: expected 5.5, got %v", cfg.Movement.Speed)
	}
	if cfg.Movement.AllowStrafe {
		t.Error("allow_strafe override lost")
	}
	if cfg.Portal.NearThreshold != 14 {
		t.Errorf("near_threshold: expected 14, got %v", cfg.Portal.NearThreshold)
	}
	if cfg.Post.Style != PostStyleHDR {
		t.Errorf("post style: expected hdr, got %q", cfg.Post.Style)
	}
	// Fields the file omits keep their defaults
	if cfg.Movement.Damping != 10 {
		t.Errorf("damping should stay at default 10, got %v", cfg.Movement.Damping)
	}
}

func TestLoadConfigMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "intro.yaml")
	if err := os.WriteFile(path, []byte("movement: ["), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err == nil {
		t.Error("malformed YAML should report an error")
	}
	if cfg != DefaultConfig() {
		t.Error("malformed YAML should fall back to the defaults")
	}
}

func TestValidateClamps(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Movement.Speed = -3
	cfg.Movement.Deadzone = 2
	cfg.Movement.EyeHeight = 0
	cfg.Portal.NearThreshold = 5
	cfg.Portal.AutoEnterThreshold = 9
	cfg.Post.Style = "vhs"
	cfg.Post.PixelSize = 0
	cfg.Validate()

	if cfg.Movement.Speed != 0.1 {
		t.Errorf("speed clamp: expected 0.1, got %v", cfg.Movement.Speed)
	}
	if cfg.Movement.Deadzone != 0.9 {
		t.Errorf("deadzone clamp: expected 0.9, got %v", cfg.Movement.Deadzone)
	}
	if cfg.Movement.EyeHeight != 1.6 {
		t.Errorf("eye height fallback: expected 1.6, got %v", cfg.Movement.EyeHeight)
	}
	if cfg.Portal.AutoEnterThreshold != cfg.Portal.NearThreshold {
		t.Errorf("auto-enter must not exceed near: %v > %v",
			cfg.Portal.AutoEnterThreshold, cfg.Portal.NearThreshold)
	}
	if cfg.Post.Style != PostStyleHDR {
		t.Errorf("unknown style fallback: expected hdr, got %q", cfg.Post.Style)
	}
	if cfg.Post.PixelSize != 1 {
		t.Errorf("pixel size clamp: expected 1, got %v", cfg.Post.PixelSize)
	}
}

func TestSkyPaletteConfig(t *testing.T) {
	def := DefaultConfig()
	if def.Sky.Horizon == (ColorConfig{}) {
		t.Fatal("default sky horizon is black; the night palette is missing")
	}
	if def.Sky.FogDensity <= 0 {
		t.Errorf("default fog density: expected positive, got %v", def.Sky.FogDensity)
	}

	path := filepath.Join(t.TempDir(), "intro.yaml")
	data := []byte(`sky:
  horizon:
    r: 0.3
    g: 0.1
    b: 0.5
  fog_density: 0.04
`)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Sky.Horizon != (ColorConfig{R: 0.3, G: 0.1, B: 0.5}) {
		t.Errorf("horizon override: got %+v", cfg.Sky.Horizon)
	}
	if cfg.Sky.FogDensity != 0.04 {
		t.Errorf("fog density override: expected 0.04, got %v", cfg.Sky.FogDensity)
	}
	// Stops the file omits keep their defaults
	if cfg.Sky.Zenith != def.Sky.Zenith {
		t.Errorf("zenith should stay at default, got %+v", cfg.Sky.Zenith)
	}

	// Out-of-range values clamp instead of rejecting the file
	cfg.Sky.Ground = ColorConfig{R: -1, G: 0.2, B: 99}
	cfg.Sky.FogDensity = 3
	cfg.Validate()
	if cfg.Sky.Ground != (ColorConfig{R: 0, G: 0.2, B: 10}) {
		t.Errorf("ground clamp: got %+v", cfg.Sky.Ground)
	}
	if cfg.Sky.FogDensity != 0.5 {
		t.Errorf("fog density clamp: expected 0.5, got %v", cfg.Sky.FogDensity)
	}

	c := cfg.Sky.Horizon.Color()
	if c.A != 1 {
		t.Errorf("ColorConfig.Color alpha: expected 1, got %v", c.A)
	}
}
