package config

import (
	"context"
	"fmt"
	"strings"

	"github.com/databricks/databricks-sdk-go/config"
	"gopkg.in/ini.v1"
)

// Profile is one store connection section from the profiles file.
type Profile struct {
	Name   string
	Driver string
	DSN    string
	Keys   map[string]string
}

func (p Profile) Get(key string) string {
	return p.Keys[key]
}

// Databricks returns the workspace config of a databricks profile.
func (p Profile) Databricks() *config.Config {
	return &config.Config{
		Host:  p.Get("host"),
		Token: p.Get("token"),
	}
}

type ProfileRegistry interface {
	GetProfiles(ctx context.Context) ([]string, error)
	GetProfile(ctx context.Context, name string) (Profile, error)
}

type iniRegistry struct {
	cfg *ini.File
}

func NewProfileRegistry(path string) (ProfileRegistry, error) {
	cfg, err := ini.Load(path)
	if err != nil {
		return nil, err
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

func (r *iniRegistry) GetProfile(_ context.Context, name string) (Profile, error) {
	section, err := r.cfg.GetSection(name)
	if err != nil || len(section.Keys()) == 0 {
		return Profile{}, fmt.Errorf("profile %s not found", name)
	}

	keys := make(map[string]string, len(section.Keys()))
	for _, k := range section.Keys() {
		keys[k.Name()] = k.String()
	}

	driver := strings.ToLower(section.Key("driver").String())
	if driver == "" {
		return Profile{}, fmt.Errorf("profile %s has no driver", name)
	}

	return Profile{
		Name:   name,
		Driver: driver,
		DSN:    section.Key("dsn").String(),
		Keys:   keys,
	}, nil
}
