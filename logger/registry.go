package logger

import (
	"fmt"
	"sync"
)

// registry maps logger names to instances, mirroring the usual
// get-by-name pattern of logging front ends.
var (
	registryMu sync.RWMutex
	registry   = make(map[string]*Logger)
)

// Register adds a logger under its name. Registering a second logger
// with the same name is an error.
func Register(l *Logger) error {
	registryMu.Lock()
	defer registryMu.Unlock()

	if _, ok := registry[l.name]; ok {
		return fmt.Errorf("logger: name %q already registered", l.name)
	}
	registry[l.name] = l
	return nil
}

// Get returns the logger registered under name, or false when none exists.
func Get(name string) (*Logger, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	l, ok := registry[name]
	return l, ok
}

// Drop removes the logger registered under name.
func Drop(name string) {
	registryMu.Lock()
	defer registryMu.Unlock()

	delete(registry, name)
}
