package prefabs

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

// SceneSpec lists the entities of one scene. Parents are referenced by name
// and may be declared after their children.
type SceneSpec struct {
	Name     string       `yaml:"name"`
	Entities []EntitySpec `yaml:"entities"`
}

func LoadSceneSpec(filename string) (SceneSpec, error) {
	return LoadSpec[SceneSpec](filename)
}

type EntitySpec struct {
	Name       string         `yaml:"name"`
	Parent     string         `yaml:"parent"`
	Inactive   bool           `yaml:"inactive"`
	Components map[string]any `yaml:"components"`
}

func DecodeComponentSpec[T any](raw any) (T, error) {
	var zero T
	if raw == nil {
		return zero, nil
	}
	b, err := yaml.Marshal(raw)
	if err != nil {
		return zero, err
	}
	var out T
	if err := yaml.Unmarshal(b, &out); err != nil {
		return zero, err
	}
	return out, nil
}

type TransformComponentSpec struct {
	X         float64 `yaml:"x"`
	Y         float64 `yaml:"y"`
	ScaleX    float64 `yaml:"scale_x"`
	ScaleY    float64 `yaml:"scale_y"`
	Rotation  float64 `yaml:"rotation"`
	RotationX float64 `yaml:"rotation_x"`
	RotationY float64 `yaml:"rotation_y"`
}

type SpriteRendererComponentSpec struct {
	Image   string  `yaml:"image"`
	FlipX   bool    `yaml:"flip_x"`
	FlipY   bool    `yaml:"flip_y"`
	Layer   int     `yaml:"layer"`
	OriginX float64 `yaml:"origin_x"`
	OriginY float64 `yaml:"origin_y"`
}

type AnimatorComponentSpec struct {
	// Animations are asset paths inside the prefabs file system.
	Animations  []string `yaml:"animations"`
	Renderer    string   `yaml:"renderer"`
	PlayOnStart bool     `yaml:"play_on_start"`
	Speed       *float64 `yaml:"speed"`
}

type CompositeComponentSpec struct {
	Children        []string `yaml:"children"`
	DetectChildren  bool     `yaml:"detect_children"`
	IncludeInactive bool     `yaml:"include_inactive"`
	AutoRefresh     bool     `yaml:"auto_refresh"`
	// RefreshDelay is in seconds.
	RefreshDelay float64  `yaml:"refresh_delay"`
	FlipPolicy   string   `yaml:"flip_policy"`
	PlayOnStart  bool     `yaml:"play_on_start"`
	Speed        *float64 `yaml:"speed"`
}

type ScriptComponentSpec struct {
	Path string `yaml:"path"`
}

type CameraComponentSpec struct {
	Target     string  `yaml:"target"`
	Zoom       float64 `yaml:"zoom"`
	Smoothness float64 `yaml:"smoothness"`
}
