package service

import (
	"log"
	"os"

	"github.com/godbus/dbus/v5"

	"github.com/mmsim/mmsim/mm"
	"github.com/mmsim/mmsim/props"
)

// Modem is the simulated modem state machine. It owns one Sim and any
// number of Bearers, and walks through the power/registration states
// on scheduled callbacks, emitting StateChanged on every transition.
//
// All methods must run on the service event loop; the Modem itself
// holds no locks.
type Modem struct {
	log     *log.Logger
	path    dbus.ObjectPath
	sched   Scheduler
	signals SignalBus
	delays  Delays
	cfg     ModemConfig

	state   mm.ModemState
	enabled bool

	// gen is bumped by every Enable and Reset. Scheduled callbacks
	// capture the value at arm time and no-op if the modem has moved
	// on, so a re-armed chain replaces the old one instead of racing
	// it.
	gen uint64

	sim        *Sim
	bearers    []*Bearer
	nextBearer int

	props *props.Store
}

func newModem(index int, cfg ModemConfig, delays Delays, sched Scheduler, signals SignalBus) *Modem {
	path := mm.ModemPath(index)
	m := &Modem{
		log:     log.New(os.Stderr, "modem: ", log.LstdFlags|log.Lmsgprefix),
		path:    path,
		sched:   sched,
		signals: signals,
		delays:  delays,
		cfg:     cfg,
		state:   mm.ModemStateDisabled,
		sim:     newSim(mm.SimPath(path), cfg.Sim),
		props:   props.NewStore(),
	}
	m.registerProps()
	m.log.Printf("created at %v", path)
	return m
}

func (m *Modem) registerProps() {
	p := m.props

	p.Add("State", func() dbus.Variant {
		return dbus.MakeVariant(int32(m.state))
	})
	p.AddConst("Manufacturer", m.cfg.Manufacturer)
	p.AddConst("Model", m.cfg.Model)
	p.AddConst("Revision", m.cfg.Revision)
	p.AddConst("DeviceIdentifier", m.cfg.DeviceIdentifier)
	p.AddConst("EquipmentIdentifier", m.cfg.EquipmentIdentifier)
	p.AddConst("Device", "/sys/devices/mock")
	p.AddConst("Drivers", []string{"mock_driver"})
	p.AddConst("Plugin", "Mock")
	p.AddConst("PrimaryPort", "ttyUSB0")
	p.AddConst("Ports", []mm.Port{
		{Name: "ttyUSB0", Type: 1},
		{Name: "ttyUSB1", Type: 2},
	})
	p.AddConst("Sim", m.sim.Path())
	p.Add("Bearers", func() dbus.Variant {
		return dbus.MakeVariant(m.BearerPaths())
	})
	p.AddConst("SupportedCapabilities", []uint32{
		uint32(mm.CapabilityGsmUmts | mm.CapabilityLte),
	})
	p.AddConst("CurrentCapabilities", uint32(mm.CapabilityLte))
	p.AddConst("MaxBearers", uint32(1))
	p.AddConst("MaxActiveBearers", uint32(1))
	p.AddConst("OwnNumbers", m.cfg.OwnNumbers)
	p.AddConst("UnlockRequired", uint32(mm.LockNone))
	p.AddConst("PowerState", uint32(mm.PowerStateOn))
	p.AddConst("SignalQuality", mm.SignalQuality{
		Percent: m.cfg.SignalQuality,
		Recent:  true,
	})
	p.AddConst("AccessTechnologies", uint32(mm.AccessTechnologyLte))
	p.AddConst("SupportedModes", []mm.Mode{{Allowed: 519, Preferred: 0}})
	p.AddConst("CurrentModes", mm.Mode{Allowed: 519, Preferred: 0})
	p.AddConst("SupportedBands", m.cfg.SupportedBands)
	p.AddConst("CurrentBands", m.cfg.CurrentBands)
	p.AddConst("SupportedIpFamilies",
		uint32(mm.IPFamilyIPv4|mm.IPFamilyIPv6|mm.IPFamilyIPv4v6))
	p.AddConst("OperatorCode", m.cfg.OperatorCode)
	p.AddConst("OperatorName", m.cfg.OperatorName)
	p.AddConst("RegistrationState", uint32(mm.RegistrationHome))

	// GetAll exposes the identity subset only; clients needing the
	// rest ask property by property. Compatibility tests depend on
	// this being narrower than Get.
	p.Publish("State", "Manufacturer", "Model", "Revision",
		"DeviceIdentifier", "EquipmentIdentifier")
}

// Path returns the modem's object path.
func (m *Modem) Path() dbus.ObjectPath {
	return m.path
}

// Props returns the modem's property table.
func (m *Modem) Props() *props.Store {
	return m.props
}

// Sim returns the modem's SIM, fixed for the modem's lifetime.
func (m *Modem) Sim() *Sim {
	return m.sim
}

// State returns the current lifecycle state.
func (m *Modem) State() mm.ModemState {
	return m.state
}

// Enabled returns the tracked enabled flag. Note Reset leaves this
// flag alone; only Enable writes it.
func (m *Modem) Enabled() bool {
	return m.enabled
}

func (m *Modem) setState(s mm.ModemState, reason mm.StateChangeReason) {
	old := m.state
	m.state = s
	m.log.Printf("%v: state %v -> %v", m.path, old, s)
	m.signals.Emit(m.path, mm.ModemInterface+"."+mm.StateChangedSignal,
		int32(old), int32(s), uint32(reason))
}

// Enable starts the modem power-up or power-down sequence. The state
// flips to Enabling/Disabling immediately; completion and (on the
// enable path) network registration follow on scheduled callbacks.
// Calling Enable mid-transition re-arms the sequence from scratch.
func (m *Modem) Enable(enable bool) {
	m.log.Printf("%v: Enable(%v)", m.path, enable)
	m.gen++
	gen := m.gen
	m.enabled = enable
	if enable {
		m.setState(mm.ModemStateEnabling, mm.ReasonUserRequested)
		m.sched.After(m.delays.Enable.D(), func() { m.finishEnable(gen) })
	} else {
		m.setState(mm.ModemStateDisabling, mm.ReasonUserRequested)
		m.sched.After(m.delays.Disable.D(), func() { m.finishDisable(gen) })
	}
}

func (m *Modem) finishEnable(gen uint64) {
	if gen != m.gen {
		return
	}
	m.setState(mm.ModemStateEnabled, mm.ReasonUserRequested)
	m.sched.After(m.delays.Search.D(), func() { m.search(gen) })
}

func (m *Modem) search(gen uint64) {
	if gen != m.gen {
		return
	}
	m.setState(mm.ModemStateSearching, mm.ReasonUserRequested)
	m.sched.After(m.delays.Register.D(), func() { m.finishRegister(gen) })
}

func (m *Modem) finishRegister(gen uint64) {
	if gen != m.gen {
		return
	}
	m.setState(mm.ModemStateRegistered, mm.ReasonUserRequested)
}

func (m *Modem) finishDisable(gen uint64) {
	if gen != m.gen {
		return
	}
	m.setState(mm.ModemStateDisabled, mm.ReasonUserRequested)
}

// Reset forces the modem back to Disabled synchronously. Pending
// transition callbacks become stale and fire as no-ops.
func (m *Modem) Reset() {
	m.log.Printf("%v: Reset()", m.path)
	m.gen++
	m.setState(mm.ModemStateDisabled, mm.ReasonUserRequested)
}

// Command accepts an arbitrary AT command and acknowledges it. No
// command is interpreted; there is no firmware behind it.
func (m *Modem) Command(cmd string) string {
	m.log.Printf("%v: Command(%q)", m.path, cmd)
	return "OK"
}

// CreateBearer builds a bearer from the given creation properties and
// appends it to the modem's bearer list. Bearer indexes come from a
// monotonic counter so object paths stay unique even after deletes.
func (m *Modem) CreateBearer(properties map[string]dbus.Variant) *Bearer {
	path := mm.BearerPath(m.path, m.nextBearer)
	m.nextBearer++
	b := newBearer(path, properties)
	m.bearers = append(m.bearers, b)
	m.log.Printf("%v: created bearer %v (apn=%v ipType=%v)",
		m.path, path, b.Apn(), b.IPType())
	return b
}

// DeleteBearer removes the bearer with the given path. Deleting an
// unknown path is a no-op.
func (m *Modem) DeleteBearer(path dbus.ObjectPath) {
	for i, b := range m.bearers {
		if b.Path() == path {
			m.bearers = append(m.bearers[:i], m.bearers[i+1:]...)
			m.log.Printf("%v: deleted bearer %v", m.path, path)
			return
		}
	}
}

// Bearers returns the live bearers in creation order.
func (m *Modem) Bearers() []*Bearer {
	out := make([]*Bearer, len(m.bearers))
	copy(out, m.bearers)
	return out
}

// BearerPaths returns the object paths of the live bearers.
func (m *Modem) BearerPaths() []dbus.ObjectPath {
	out := make([]dbus.ObjectPath, len(m.bearers))
	for i, b := range m.bearers {
		out[i] = b.Path()
	}
	return out
}
