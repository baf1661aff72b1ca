// SPDX-License-Identifier: EPL-2.0

package device

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/ik5/soundcore/audio"
)

// Factory creates an unopened device.
type Factory func() Device

type backend struct {
	name     string
	priority int
	factory  Factory
}

// Registry maps backend names to factories.
type Registry struct {
	backends map[string]backend

	mtx *sync.Mutex
}

func NewRegistry() *Registry {
	return &Registry{
		backends: make(map[string]backend),
		mtx:      &sync.Mutex{},
	}
}

// Register adds a backend. Higher priority backends are probed first.
func (r *Registry) Register(name string, priority int, f Factory) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	r.backends[name] = backend{name: name, priority: priority, factory: f}
}

// Names returns backend names in probe order.
func (r *Registry) Names() []string {
	r.mtx.Lock()
	list := make([]backend, 0, len(r.backends))
	for _, b := range r.backends {
		list = append(list, b)
	}
	r.mtx.Unlock()

	sort.Slice(list, func(i, j int) bool {
		if list[i].priority != list[j].priority {
			return list[i].priority > list[j].priority
		}
		return list[i].name < list[j].name
	})

	names := make([]string, len(list))
	for i, b := range list {
		names[i] = b.name
	}
	return names
}

// Open opens the named backend, or probes every backend in order when name
// is empty and returns the first that opens.
func (r *Registry) Open(name string, cfg Config) (Device, Info, error) {
	if err := cfg.Validate(); err != nil {
		return nil, Info{}, err
	}

	names := []string{name}
	if name == "" {
		names = r.Names()
	}

	var errs []error
	for _, n := range names {
		r.mtx.Lock()
		b, ok := r.backends[n]
		r.mtx.Unlock()
		if !ok {
			errs = append(errs, fmt.Errorf("device %q: %w", n, audio.ErrUnsupported))
			continue
		}

		dev := b.factory()
		if err := dev.Probe(); err != nil {
			log.Debugf("Backend %s unavailable: %v", n, err)
			errs = append(errs, fmt.Errorf("probe %s: %w", n, err))
			continue
		}
		info, err := dev.Open(cfg)
		if err != nil {
			log.Warnf("Backend %s failed to open: %v", n, err)
			errs = append(errs, fmt.Errorf("open %s: %w", n, err))
			continue
		}

		log.Infof("Opened %s (%s): %d Hz %s %s, %d x %d frames", info.Name, info.Driver,
			info.Config.Rate, info.Config.Mode, info.Config.Format, info.Config.Periods, info.Config.PeriodFrames)
		return dev, info, nil
	}

	if len(errs) == 0 {
		return nil, Info{}, fmt.Errorf("no output device registered: %w", audio.ErrUnsupported)
	}
	return nil, Info{}, errors.Join(errs...)
}

var defaultRegistry = NewRegistry()

// Register adds a backend to the default registry.
func Register(name string, priority int, f Factory) {
	defaultRegistry.Register(name, priority, f)
}

// Names lists the backends of the default registry in probe order.
func Names() []string { return defaultRegistry.Names() }

// Open opens a device from the default registry.
func Open(name string, cfg Config) (Device, Info, error) {
	return defaultRegistry.Open(name, cfg)
}
