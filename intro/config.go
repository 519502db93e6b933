package intro

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"portalwalk/core"
	"portalwalk/math"
)

// Config collapses the intro's tuning surface into one struct: movement
// permissions, speeds, thresholds, fade durations, and post-process style.
type Config struct {
	Movement MovementConfig `yaml:"movement"`
	Look     LookConfig     `yaml:"look"`
	Joystick JoystickConfig `yaml:"joystick"`
	Portal   PortalConfig   `yaml:"portal"`
	Fade     FadeConfig     `yaml:"fade"`
	Sky      SkyConfig      `yaml:"sky"`
	Post     PostConfig     `yaml:"post"`
}

type MovementConfig struct {
	Speed         float32 `yaml:"speed"`           // units/s at full intent
	AllowStrafe   bool    `yaml:"allow_strafe"`    // false = forward-only locomotion
	AllowBackward bool    `yaml:"allow_backward"`  // false = no reverse
	Damping       float32 `yaml:"damping"`         // exponential damping constant k
	Deadzone      float32 `yaml:"deadzone"`        // intent magnitude below which no accumulation happens
	EyeHeight     float32 `yaml:"eye_height"`      // camera Y is clamped here every step
	MaxFrameDelta float32 `yaml:"max_frame_delta"` // dt clamp (seconds) against stalled-frame spikes
}

type LookConfig struct {
	MouseSensitivity float32 `yaml:"mouse_sensitivity"` // rad per pixel
	TouchSensitivity float32 `yaml:"touch_sensitivity"` // rad per pixel
}

type JoystickConfig struct {
	Radius float32 `yaml:"radius"` // max displacement in pixels before clamping
}

type PortalConfig struct {
	Position           math.Vec3 `yaml:"position"`
	NearThreshold      float32   `yaml:"near_threshold"`       // show the enter hint below this distance
	AutoEnterThreshold float32   `yaml:"auto_enter_threshold"` // fire the transition below this distance
	Model              string    `yaml:"model"`                // optional glTF centerpiece path
}

type FadeConfig struct {
	OutSeconds float32 `yaml:"out_seconds"` // intro fade-out after entering
	InSeconds  float32 `yaml:"in_seconds"`  // content fade-in after the swap
}

// ColorConfig is an RGB triple in the tuning file; alpha is always 1.
type ColorConfig struct {
	R float32 `yaml:"r"`
	G float32 `yaml:"g"`
	B float32 `yaml:"b"`
}

func (c ColorConfig) Color() core.Color {
	return core.Color{R: c.R, G: c.G, B: c.B, A: 1}
}

type SkyConfig struct {
	Zenith     ColorConfig `yaml:"zenith"`      // overhead
	Horizon    ColorConfig `yaml:"horizon"`     // eye level; also the fog color
	Ground     ColorConfig `yaml:"ground"`      // below the horizon
	FogDensity float32     `yaml:"fog_density"` // exponential depth fog; 0 disables
}

// PostStyle selects the post-process pipeline.
const (
	PostStyleOff   = "off"
	PostStyleHDR   = "hdr"
	PostStyleRetro = "retro"
)

type PostConfig struct {
	Style             string  `yaml:"style"` // off | hdr | retro
	Exposure          float32 `yaml:"exposure"`
	BloomThreshold    float32 `yaml:"bloom_threshold"`
	BloomStrength     float32 `yaml:"bloom_strength"`
	PixelSize         float32 `yaml:"pixel_size"`         // retro: pixelation block size
	ScanlineIntensity float32 `yaml:"scanline_intensity"` // retro: 0..1
	VignetteStrength  float32 `yaml:"vignette_strength"`  // retro: 0..1
	ChromaticOffset   float32 `yaml:"chromatic_offset"`   // retro: UV offset
	QuantizeLevels    float32 `yaml:"quantize_levels"`    // retro: color levels per channel
	GrainStrength     float32 `yaml:"grain_strength"`     // retro: animated noise amount
}

func DefaultConfig() Config {
	return Config{
		Movement: MovementConfig{
			Speed:         8.0,
			AllowStrafe:   true,
			AllowBackward: true,
			Damping:       10.0,
			Deadzone:      0.1,
			EyeHeight:     1.6,
			MaxFrameDelta: 0.1,
		},
		Look: LookConfig{
			MouseSensitivity: 0.002,
			TouchSensitivity: 0.004,
		},
		Joystick: JoystickConfig{
			Radius: 40,
		},
		Portal: PortalConfig{
			Position:           math.Vec3{X: 0, Y: 2, Z: -30},
			NearThreshold:      10,
			AutoEnterThreshold: 4,
		},
		Fade: FadeConfig{
			OutSeconds: 1.5,
			InSeconds:  1.0,
		},
		Sky: SkyConfig{
			// Deep night: near-black zenith, violet horizon glow, dark ground
			Zenith:     ColorConfig{R: 0.01, G: 0.01, B: 0.04},
			Horizon:    ColorConfig{R: 0.10, G: 0.06, B: 0.20},
			Ground:     ColorConfig{R: 0.02, G: 0.02, B: 0.04},
			FogDensity: 0.018,
		},
		Post: PostConfig{
			Style:             PostStyleRetro,
			Exposure:          1.0,
			BloomThreshold:    1.0,
			BloomStrength:     0.6,
			PixelSize:         3,
			ScanlineIntensity: 0.15,
			VignetteStrength:  0.35,
			ChromaticOffset:   0.0015,
			QuantizeLevels:    24,
			GrainStrength:     0.05,
		},
	}
}

// LoadConfig reads a YAML tuning file. A missing file is not an error: the
// defaults are returned so the intro always starts.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			fmt.Printf("[Config] %s not found, using defaults\n", path)
			return DefaultConfig(), nil
		}
		return DefaultConfig(), fmt.Errorf("config read %s: %w", path, err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("config unmarshal %s: %w", path, err)
	}
	cfg.Validate()
	return cfg, nil
}

// Validate clamps out-of-range values instead of rejecting the file, so a
// half-edited tuning config never kills a hot-reload session.
func (c *Config) Validate() {
	c.Movement.Speed = clamp(c.Movement.Speed, 0.1, 50)
	c.Movement.Damping = clamp(c.Movement.Damping, 0.1, 100)
	c.Movement.Deadzone = clamp(c.Movement.Deadzone, 0, 0.9)
	if c.Movement.EyeHeight <= 0 {
		c.Movement.EyeHeight = 1.6
	}
	c.Movement.MaxFrameDelta = clamp(c.Movement.MaxFrameDelta, 0.001, 1)

	if c.Look.MouseSensitivity <= 0 {
		c.Look.MouseSensitivity = 0.002
	}
	if c.Look.TouchSensitivity <= 0 {
		c.Look.TouchSensitivity = 0.004
	}
	if c.Joystick.Radius < 1 {
		c.Joystick.Radius = 40
	}

	if c.Portal.NearThreshold <= 0 {
		c.Portal.NearThreshold = 10
	}
	if c.Portal.AutoEnterThreshold <= 0 {
		c.Portal.AutoEnterThreshold = 4
	}
	// The hint must always appear before the auto-enter fires
	if c.Portal.AutoEnterThreshold > c.Portal.NearThreshold {
		c.Portal.AutoEnterThreshold = c.Portal.NearThreshold
	}

	if c.Fade.OutSeconds < 0 {
		c.Fade.OutSeconds = 0
	}
	if c.Fade.InSeconds < 0 {
		c.Fade.InSeconds = 0
	}

	c.Sky.Zenith = clampColor(c.Sky.Zenith)
	c.Sky.Horizon = clampColor(c.Sky.Horizon)
	c.Sky.Ground = clampColor(c.Sky.Ground)
	c.Sky.FogDensity = clamp(c.Sky.FogDensity, 0, 0.5)

	switch c.Post.Style {
	case PostStyleOff, PostStyleHDR, PostStyleRetro:
	default:
		fmt.Printf("[Config] unknown post style %q, using %q\n", c.Post.Style, PostStyleHDR)
		c.Post.Style = PostStyleHDR
	}
	if c.Post.PixelSize < 1 {
		c.Post.PixelSize = 1
	}
	if c.Post.QuantizeLevels < 2 {
		c.Post.QuantizeLevels = 2
	}
}

func clampColor(c ColorConfig) ColorConfig {
	c.R = clamp(c.R, 0, 10)
	c.G = clamp(c.G, 0, 10)
	c.B = clamp(c.B, 0, 10)
	return c
}

func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
