// Package seed loads predeclared device entries from a YAML file at
// startup, standing in for the host platform's configuration wizard.
package seed

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/frostdev-ops/virtual-device-sim/internal/core/devices"
	"github.com/frostdev-ops/virtual-device-sim/internal/database/repositories"
)

// File is the on-disk shape of the seed file.
type File struct {
	Devices []Entry `yaml:"devices"`
}

// Entry is one predeclared device.
type Entry struct {
	Name     string                   `yaml:"name"`
	Type     string                   `yaml:"device_type"`
	Entities []map[string]interface{} `yaml:"entities"`
}

// Load parses the seed file at path.
func Load(path string) (*File, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}

	var f File
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("failed to parse seed file: %w", err)
	}
	return &f, nil
}

// Apply creates any seed device that does not exist yet (matched by name
// and type) and returns the created entries.
func Apply(ctx context.Context, f *File, repo repositories.DeviceRepository, log *logrus.Logger) ([]*devices.DeviceEntry, error) {
	existing, err := repo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list devices: %w", err)
	}

	seen := make(map[string]bool, len(existing))
	for _, d := range existing {
		seen[string(d.Type)+"/"+d.Name] = true
	}

	var created []*devices.DeviceEntry
	for _, e := range f.Devices {
		if seen[e.Type+"/"+e.Name] {
			continue
		}
		entities := make([]devices.EntityConfig, 0, len(e.Entities))
		for _, cfg := range e.Entities {
			entities = append(entities, devices.EntityConfig(cfg))
		}
		entry := &devices.DeviceEntry{
			ID:       uuid.New().String(),
			Name:     e.Name,
			Type:     devices.Tag(e.Type),
			Entities: entities,
		}
		if err := repo.Create(ctx, entry); err != nil {
			log.WithError(err).WithField("name", e.Name).Error("Failed to create seed device")
			continue
		}
		created = append(created, entry)
		log.WithFields(logrus.Fields{
			"name":        e.Name,
			"device_type": e.Type,
			"entities":    len(entities),
		}).Info("Created seed device")
	}
	return created, nil
}
