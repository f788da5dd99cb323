package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/ini.v1"
)

const profilesFileName = ".veyacfg"

// Profile names an analytics backend and the tenant to read from it.
type Profile struct {
	Name     string
	Host     string
	TenantID string
}

type Registry interface {
	GetProfiles(ctx context.Context) ([]string, error)
	GetProfile(ctx context.Context, name string) (*Profile, error)
}

type iniRegistry struct {
	cfg *ini.File
}

// DefaultProfilesPath returns ~/.veyacfg.
func DefaultProfilesPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return profilesFileName
	}
	return filepath.Join(home, profilesFileName)
}

func NewRegistry(path string) (Registry, error) {
	cfg, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load profiles from %s: %w", path, err)
	}
	return &iniRegistry{cfg: cfg}, nil
}

func (r *iniRegistry) GetProfiles(_ context.Context) ([]string, error) {
	var profiles []string
	for _, section := range r.cfg.Sections() {
		if len(section.Keys()) > 0 {
			profiles = append(profiles, section.Name())
		}
	}
	return profiles, nil
}

func (r *iniRegistry) GetProfile(_ context.Context, name string) (*Profile, error) {
	section, err := r.cfg.GetSection(name)
	if err != nil || len(section.Keys()) == 0 {
		return nil, fmt.Errorf("profile %s not found", name)
	}

	host := section.Key("host").String()
	if host == "" {
		return nil, fmt.Errorf("profile %s has no host", name)
	}

	return &Profile{
		Name:     name,
		Host:     host,
		TenantID: section.Key("tenant_id").String(),
	}, nil
}

// ApplyProfile overlays the named profile from the ini file at path onto
// settings. An empty name leaves settings unchanged.
func ApplyProfile(ctx context.Context, settings *Settings, path, name string) error {
	if name == "" {
		return nil
	}
	if path == "" {
		path = DefaultProfilesPath()
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("profile %s requested but %s does not exist", name, path)
	}

	registry, err := NewRegistry(path)
	if err != nil {
		return err
	}
	profile, err := registry.GetProfile(ctx, name)
	if err != nil {
		return err
	}

	settings.Analytics.BaseURL = profile.Host
	if profile.TenantID != "" {
		settings.Analytics.TenantID = profile.TenantID
	}
	return nil
}
