package scene

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"Poolside/internal/config"
	"Poolside/internal/engine"
)

var ErrUnknownVariant = errors.New("scene: unknown variant")

// Constructor builds an app for a preset.
type Constructor func(preset config.Preset) (engine.App, error)

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Constructor)
)

// Register makes a variant available by name. Registering the same name
// twice panics.
func Register(name string, ctor Constructor) {
	registryMu.Lock()
	defer registryMu.Unlock()
	if ctor == nil {
		panic("scene: Register constructor is nil")
	}
	if _, dup := registry[name]; dup {
		panic("scene: Register called twice for " + name)
	}
	registry[name] = ctor
}

// Names returns the registered variant names, sorted.
func Names() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// New builds the named variant.
func New(name string, preset config.Preset) (engine.App, error) {
	registryMu.RLock()
	ctor, ok := registry[name]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q (have %v)", ErrUnknownVariant, name, Names())
	}
	return ctor(preset)
}

func init() {
	for _, v := range Variants() {
		v := v
		Register(v.Name, func(preset config.Preset) (engine.App, error) {
			pool, err := NewPool(v, preset)
			if err != nil {
				return nil, err
			}
			return pool, nil
		})
	}
}

// EngineOptions derives the window settings for a preset.
func EngineOptions(preset config.Preset) engine.Options {
	return engine.Options{
		Title:  preset.Window.Title,
		Width:  preset.Window.Width,
		Height: preset.Window.Height,
		VSync:  preset.Window.VSync,
	}
}
