package service

import "github.com/godbus/dbus/v5"

// SignalBus delivers asynchronous notifications to whoever is
// listening. The bus layer implements it over a D-Bus connection;
// tests substitute a recorder. Name is the fully qualified signal
// name (interface dot member).
type SignalBus interface {
	Emit(path dbus.ObjectPath, name string, values ...interface{})
}

// NopBus discards all signals. Used when the simulator core runs
// without a bus connection.
type NopBus struct{}

// Emit discards the signal.
func (NopBus) Emit(dbus.ObjectPath, string, ...interface{}) {}
