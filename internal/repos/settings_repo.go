package repos

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/ruruk/palcofon/internal/domain"
)

// SettingsRepo persists the single settings object in settings.json.
// Missing file yields the defaults.
type SettingsRepo struct {
	mu   sync.Mutex
	path string
}

func NewSettingsRepo(dir string) *SettingsRepo {
	return &SettingsRepo{path: filepath.Join(dir, "settings.json")}
}

func DefaultSettings() domain.Settings {
	return domain.Settings{
		SiteName:        "Palcofon Lighting",
		SiteDescription: "High-Quality Lighting Solutions for Every Space",
		ContactEmail:    "info@palcofon.co.za",
		ContactPhone:    "067 690 6707 / 082 331 7877",
		EnableInquiries: true,
	}
}

func (r *SettingsRepo) Load() (domain.Settings, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	raw, err := os.ReadFile(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultSettings(), nil
		}
		return domain.Settings{}, fmt.Errorf("read %s: %w", r.path, err)
	}
	s := DefaultSettings()
	if err := json.Unmarshal(raw, &s); err != nil {
		return domain.Settings{}, fmt.Errorf("decode %s: %w", r.path, err)
	}
	return s, nil
}

func (r *SettingsRepo) Save(s domain.Settings) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	raw, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", r.path, err)
	}
	raw = append(raw, '\n')
	if err := os.WriteFile(r.path, raw, 0644); err != nil {
		return fmt.Errorf("write %s: %w", r.path, err)
	}
	return nil
}
