package animation

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// UpdateMode selects whether the engine time scale applies to playback.
type UpdateMode int

const (
	Scaled UpdateMode = iota
	Unscaled
)

func (m UpdateMode) String() string {
	switch m {
	case Scaled:
		return "scaled"
	case Unscaled:
		return "unscaled"
	default:
		return fmt.Sprintf("UpdateMode(%d)", int(m))
	}
}

func ParseUpdateMode(s string) (UpdateMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "scaled", "normal":
		return Scaled, nil
	case "unscaled", "unscaled_time":
		return Unscaled, nil
	default:
		return Scaled, fmt.Errorf("animation: unknown update mode %q", s)
	}
}

func (m UpdateMode) MarshalYAML() (any, error) {
	return m.String(), nil
}

func (m *UpdateMode) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	parsed, err := ParseUpdateMode(s)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
