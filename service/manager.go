// Package service implements the simulator core: the manager registry,
// the modem state machine with its SIM and bearers, the property
// tables behind each object, and the single-threaded event loop that
// serializes method calls and timer callbacks.
//
// The core knows nothing about D-Bus message plumbing; it only
// depends on the SignalBus and Scheduler contracts, which the bus
// layer satisfies in production and tests satisfy with recorders and
// manual clocks.
package service

import (
	"log"
	"os"

	"github.com/godbus/dbus/v5"

	"github.com/mmsim/mmsim/mm"
	"github.com/mmsim/mmsim/props"
)

// Manager is the registry of simulated modems and the top-level
// dispatch target. Modem order is creation order; modem paths are
// stable for the process lifetime.
type Manager struct {
	log       *log.Logger
	version   string
	delays    Delays
	sched     Scheduler
	signals   SignalBus
	modems    []*Modem
	inhibited map[string]bool
	props     *props.Store
}

// NewManager builds the registry and the modems the fixture defines.
func NewManager(cfg Config, sched Scheduler, signals SignalBus) *Manager {
	m := &Manager{
		log:       log.New(os.Stderr, "manager: ", log.LstdFlags|log.Lmsgprefix),
		version:   cfg.Version,
		delays:    cfg.Delays,
		sched:     sched,
		signals:   signals,
		inhibited: make(map[string]bool),
		props:     props.NewStore(),
	}
	m.props.Add("Version", func() dbus.Variant {
		return dbus.MakeVariant(m.version)
	})

	for _, mc := range cfg.Modems {
		m.AddModem(mc)
	}
	m.log.Printf("service ready at %v, %v modem(s)", mm.RootPath, len(m.modems))

	return m
}

// Path returns the manager's object path.
func (m *Manager) Path() dbus.ObjectPath {
	return mm.RootPath
}

// Props returns the manager's property table.
func (m *Manager) Props() *props.Store {
	return m.props
}

// AddModem creates a modem at the next index and registers it.
func (m *Manager) AddModem(cfg ModemConfig) *Modem {
	modem := newModem(len(m.modems), cfg, m.delays, m.sched, m.signals)
	m.modems = append(m.modems, modem)
	return modem
}

// Modems returns the registered modems in creation order.
func (m *Manager) Modems() []*Modem {
	out := make([]*Modem, len(m.modems))
	copy(out, m.modems)
	return out
}

// ModemPaths returns the object paths of the registered modems.
func (m *Manager) ModemPaths() []dbus.ObjectPath {
	out := make([]dbus.ObjectPath, len(m.modems))
	for i, modem := range m.modems {
		out[i] = modem.Path()
	}
	return out
}

// GetVersion returns the version string reported to clients.
func (m *Manager) GetVersion() string {
	return m.version
}

// ScanDevices is a placeholder for hardware discovery; the simulator
// has nothing to find.
func (m *Manager) ScanDevices() {
	m.log.Println("ScanDevices() called")
}

// SetLogging accepts a logging level and ignores it.
func (m *Manager) SetLogging(level string) {
	m.log.Printf("SetLogging(%v) called", level)
}

// InhibitDevice records the inhibit flag for a device uid. No modem
// behavior changes; the simulated hardware cannot be hot-unplugged.
func (m *Manager) InhibitDevice(uid string, inhibit bool) {
	m.log.Printf("InhibitDevice(%v, %v) called", uid, inhibit)
	if inhibit {
		m.inhibited[uid] = true
	} else {
		delete(m.inhibited, uid)
	}
}

// Inhibited reports whether a device uid is currently inhibited.
func (m *Manager) Inhibited(uid string) bool {
	return m.inhibited[uid]
}
