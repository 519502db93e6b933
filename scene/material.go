package scene

import "portalwalk/core"

// Material describes surface appearance properties for a mesh.
type Material struct {
	Name          string
	Albedo        core.Color // base diffuse color
	Specular      core.Color // Phong specular highlight color
	Shininess     float32    // Phong shininess exponent (1–256+)
	Unlit         bool       // skip lighting calculation — output raw albedo
	EmissiveColor core.Color // self-emitted radiance (additive; bright values bloom in HDR)
}

// DefaultMaterial returns a plain white matte material.
func DefaultMaterial() *Material {
	return &Material{
		Name:      "Default",
		Albedo:    core.ColorWhite,
		Specular:  core.Color{R: 0.3, G: 0.3, B: 0.3, A: 1},
		Shininess: 32,
	}
}

// NewMaterial creates a material with the given albedo color.
func NewMaterial(name string, albedo core.Color) *Material {
	return &Material{
		Name:      name,
		Albedo:    albedo,
		Specular:  core.Color{R: 0.5, G: 0.5, B: 0.5, A: 1},
		Shininess: 32,
	}
}

// NewEmissiveMaterial creates an unlit glowing material.
// Values above 1.0 push the surface past the bloom threshold.
func NewEmissiveMaterial(name string, emissive core.Color) *Material {
	return &Material{
		Name:          name,
		Albedo:        core.ColorBlack,
		EmissiveColor: emissive,
		Unlit:         true,
	}
}
