package devices

import (
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"
)

// DomainService owns entity construction for a fixed set of device-type
// tags.
type DomainService interface {
	Name() string
	Tags() []Tag
	// Build constructs one entity per EntityConfig in entry order.
	// Construction failure of one entity is logged and skipped; the rest
	// of the batch is still built.
	Build(ec *EntryContext) []*Entity
}

// Registry maps device-type tags to the domain service that constructs
// their entities.
type Registry struct {
	services map[Tag]DomainService
	log      *logrus.Logger
}

// NewRegistry creates an empty registry.
func NewRegistry(log *logrus.Logger) *Registry {
	return &Registry{
		services: make(map[Tag]DomainService),
		log:      log,
	}
}

// Register associates a service with the tags it claims. Two services
// claiming the same tag is a configuration error and fails registration
// at startup, before any dispatch.
func (r *Registry) Register(svc DomainService) error {
	for _, tag := range svc.Tags() {
		if prev, ok := r.services[tag]; ok {
			return fmt.Errorf("%w: %q claimed by both %s and %s", ErrTagClaimed, tag, prev.Name(), svc.Name())
		}
	}
	for _, tag := range svc.Tags() {
		r.services[tag] = svc
	}
	r.log.WithFields(logrus.Fields{
		"service": svc.Name(),
		"tags":    svc.Tags(),
	}).Info("Registered domain service")
	return nil
}

// Dispatch constructs the entities for a device entry. An unsupported tag
// yields an empty slice without error; the per-platform setup functions
// this models always early-returned on a type they did not own.
func (r *Registry) Dispatch(ec *EntryContext) []*Entity {
	svc, ok := r.services[ec.Entry.Type]
	if !ok {
		r.log.WithField("device_type", ec.Entry.Type).Debug("No service registered for device type, skipping")
		return nil
	}
	return svc.Build(ec)
}

// Tags returns every registered tag in sorted order.
func (r *Registry) Tags() []Tag {
	tags := make([]Tag, 0, len(r.services))
	for tag := range r.services {
		tags = append(tags, tag)
	}
	sort.Slice(tags, func(i, j int) bool { return tags[i] < tags[j] })
	return tags
}
