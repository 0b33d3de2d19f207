package repos_test

import (
	"testing"

	"github.com/ruruk/palcofon/internal/repos"
)

func TestSettingsMissingFileYieldsDefaults(t *testing.T) {
	repo := repos.NewSettingsRepo(t.TempDir())
	s, err := repo.Load()
	if err != nil {
		t.Fatal(err)
	}
	if s.SiteName != "Palcofon Lighting" || !s.EnableInquiries {
		t.Fatalf("unexpected defaults: %+v", s)
	}
}

func TestSettingsSaveThenLoad(t *testing.T) {
	repo := repos.NewSettingsRepo(t.TempDir())
	s := repos.DefaultSettings()
	s.SiteName = "Renamed"
	s.MaintenanceMode = true
	if err := repo.Save(s); err != nil {
		t.Fatal(err)
	}
	got, err := repo.Load()
	if err != nil {
		t.Fatal(err)
	}
	if got.SiteName != "Renamed" || !got.MaintenanceMode {
		t.Fatalf("round trip lost data: %+v", got)
	}
}
