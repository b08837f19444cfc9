package importer

import (
	"encoding/json"
	"fmt"

	"github.com/quasilyte/gdata"

	"github.com/milk9111/spriteanimator/animation"
)

const settingsKey = "importer_settings"

// Settings are the import tool's last used inputs.
type Settings struct {
	Source   string  `json:"source"`
	Rows     int     `json:"rows"`
	Cols     int     `json:"cols"`
	Order    string  `json:"order"`
	Duration float64 `json:"duration"`
	Loop     bool    `json:"loop"`
	Unscaled bool    `json:"unscaled"`
	Output   string  `json:"output"`
}

func DefaultSettings() Settings {
	return Settings{Rows: 1, Cols: 1, Order: RowMajor.String(), Duration: 0.1}
}

// Request turns the settings into an import request.
func (s Settings) Request() (Request, error) {
	order, err := ParseOrder(s.Order)
	if err != nil {
		return Request{}, err
	}
	mode := animation.Scaled
	if s.Unscaled {
		mode = animation.Unscaled
	}
	return Request{
		Source:     s.Source,
		Rows:       s.Rows,
		Cols:       s.Cols,
		Order:      order,
		Duration:   s.Duration,
		Loop:       s.Loop,
		UpdateMode: mode,
		Output:     s.Output,
	}, nil
}

// SettingsStore persists Settings between runs of the tool.
type SettingsStore struct {
	m *gdata.Manager
}

func OpenSettings(appName string) (*SettingsStore, error) {
	m, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		return nil, fmt.Errorf("importer: open settings: %w", err)
	}
	return &SettingsStore{m: m}, nil
}

// Load returns the saved settings, or the defaults when none were saved.
func (s *SettingsStore) Load() (Settings, error) {
	out := DefaultSettings()
	if s == nil || s.m == nil {
		return out, nil
	}
	data, err := s.m.LoadItem(settingsKey)
	if err != nil {
		return out, fmt.Errorf("importer: load settings: %w", err)
	}
	if data == nil {
		return out, nil
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return DefaultSettings(), fmt.Errorf("importer: parse settings: %w", err)
	}
	return out, nil
}

func (s *SettingsStore) Save(v Settings) error {
	if s == nil || s.m == nil {
		return nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("importer: encode settings: %w", err)
	}
	if err := s.m.SaveItem(settingsKey, data); err != nil {
		return fmt.Errorf("importer: save settings: %w", err)
	}
	return nil
}
