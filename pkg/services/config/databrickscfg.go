package config

import (
	"context"
	"errors"
	"fmt"

	"github.com/databricks/databricks-sdk-go/config"
	"gopkg.in/ini.v1"
)

var ErrProfileNotFound = errors.New("profile not found")

// ProfileRegistry reads workspace credentials from a .databrickscfg file.
// They back Unity Catalog column discovery.
type ProfileRegistry interface {
	GetProfiles(ctx context.Context) ([]string, error)
	GetConfig(ctx context.Context, profile string) (*config.Config, error)
}

type cfgRegistry struct {
	cfg *ini.File
}

func NewProfileRegistry(path string) (ProfileRegistry, error) {
	cfg, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load profiles from %s: %w", path, err)
	}
	return &cfgRegistry{cfg: cfg}, nil
}

func (cr *cfgRegistry) GetProfiles(_ context.Context) ([]string, error) {
	var profiles []string
	for _, section := range cr.cfg.Sections() {
		if len(section.Keys()) > 0 {
			profiles = append(profiles, section.Name())
		}
	}
	return profiles, nil
}

func (cr *cfgRegistry) GetConfig(_ context.Context, profile string) (*config.Config, error) {
	section, err := cr.cfg.GetSection(profile)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrProfileNotFound, profile)
	}

	host := section.Key("host").String()
	if host == "" {
		return nil, fmt.Errorf("profile %s has no host", profile)
	}

	return &config.Config{
		Profile: profile,
		Host:    host,
		Token:   section.Key("token").String(),
	}, nil
}
