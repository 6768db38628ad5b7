// Package props implements the property table behind the
// org.freedesktop.DBus.Properties surface of each simulator object.
//
// Properties are registered as lazy getters so Get always reads the
// current value at call time. GetAll returns a curated snapshot: the
// set of published keys may be smaller than the set Get can answer,
// mirroring services that only broadcast a subset of their readable
// properties. That asymmetry is part of the protocol contract and is
// kept deliberately.
package props

import (
	"fmt"

	"github.com/godbus/dbus/v5"
)

// A Getter produces the current value of one property.
type Getter func() dbus.Variant

// NotFoundError is returned by Get for an unknown property name. The
// bus layer maps it to org.freedesktop.DBus.Error.InvalidArgs.
type NotFoundError struct {
	Property string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("property %v not found", e.Property)
}

// Store is the property table of a single object. It is not safe for
// concurrent use; all access runs on the service event loop.
type Store struct {
	order     []string
	getters   map[string]Getter
	published []string
}

// NewStore returns an empty property table.
func NewStore() *Store {
	return &Store{getters: make(map[string]Getter)}
}

// Add registers a property getter. Registering the same name twice
// replaces the getter but keeps the original position.
func (s *Store) Add(name string, g Getter) {
	if _, ok := s.getters[name]; !ok {
		s.order = append(s.order, name)
	}
	s.getters[name] = g
}

// AddConst registers a property whose value never changes.
func (s *Store) AddConst(name string, value interface{}) {
	v := dbus.MakeVariant(value)
	s.Add(name, func() dbus.Variant { return v })
}

// Publish curates the GetAll snapshot to exactly the given names. If
// Publish is never called, GetAll returns every registered property.
func (s *Store) Publish(names ...string) {
	s.published = names
}

// Get returns the current value of the named property, or a
// NotFoundError carrying the name. The interface name is accepted for
// protocol compatibility but does not partition the table; each
// object owns one table.
func (s *Store) Get(iface, name string) (dbus.Variant, error) {
	g, ok := s.getters[name]
	if !ok {
		return dbus.Variant{}, &NotFoundError{Property: name}
	}
	return g(), nil
}

// GetAll returns the published property snapshot. It never fails for
// a live object.
func (s *Store) GetAll(iface string) map[string]dbus.Variant {
	names := s.published
	if names == nil {
		names = s.order
	}
	out := make(map[string]dbus.Variant, len(names))
	for _, name := range names {
		if g, ok := s.getters[name]; ok {
			out[name] = g()
		}
	}
	return out
}

// Names returns the registered property names in registration order.
func (s *Store) Names() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}
