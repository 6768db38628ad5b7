package bus

import (
	"log"
	"os"

	"github.com/godbus/dbus/v5"
	"github.com/godbus/dbus/v5/introspect"
	"github.com/pkg/errors"

	"github.com/mmsim/mmsim/mm"
	"github.com/mmsim/mmsim/props"
	"github.com/mmsim/mmsim/service"
)

const introspectableInterface = "org.freedesktop.DBus.Introspectable"

// Service exports the simulator objects on a bus connection and
// carries their signals. It implements service.SignalBus.
type Service struct {
	log  *log.Logger
	conn *dbus.Conn
	loop *service.Loop
}

// New wraps a connection. The manager is exported later via Export so
// the Service can be handed to service.NewManager as its SignalBus
// first.
func New(conn *dbus.Conn, loop *service.Loop) *Service {
	return &Service{
		log:  log.New(os.Stderr, "bus: ", log.LstdFlags|log.Lmsgprefix),
		conn: conn,
		loop: loop,
	}
}

// Emit sends a signal on the bus. Emission failures are logged, not
// surfaced; the core treats signals as fire-and-forget.
func (s *Service) Emit(path dbus.ObjectPath, name string, values ...interface{}) {
	if err := s.conn.Emit(path, name, values...); err != nil {
		s.log.Printf("emit %v on %v: %v", name, path, err)
	}
}

// Export registers the manager, its modems, and their SIMs on the
// bus. Bearers are exported as they are created.
func (s *Service) Export(mgr *service.Manager) error {
	if err := s.exportObject(mgr.Path(), mm.ManagerInterface,
		managerHandler{s, mgr}, mgr.Props()); err != nil {
		return err
	}
	for _, modem := range mgr.Modems() {
		if err := s.exportObject(modem.Path(), mm.ModemInterface,
			modemHandler{s, modem}, modem.Props()); err != nil {
			return err
		}
		sim := modem.Sim()
		if err := s.exportObject(sim.Path(), mm.SimInterface,
			simHandler{s, sim}, sim.Props()); err != nil {
			return err
		}
	}
	return nil
}

// exportObject puts one object on the bus: its ModemManager
// interface, the Properties interface over its property table, and
// introspection data for both.
func (s *Service) exportObject(path dbus.ObjectPath, iface string,
	handler interface{}, store *props.Store) error {

	if err := s.conn.Export(handler, path, iface); err != nil {
		return errors.Wrapf(err, "exporting %v", path)
	}

	ph := propsHandler{loop: s.loop, store: store}
	if err := s.conn.Export(ph, path, mm.PropertiesInterface); err != nil {
		return errors.Wrapf(err, "exporting properties of %v", path)
	}

	node := &introspect.Node{
		Interfaces: []introspect.Interface{
			introspect.IntrospectData,
			{Name: iface, Methods: introspect.Methods(handler)},
			{Name: mm.PropertiesInterface, Methods: introspect.Methods(ph)},
		},
	}
	err := s.conn.Export(introspect.NewIntrospectable(node), path,
		introspectableInterface)
	return errors.Wrapf(err, "exporting introspection of %v", path)
}

func (s *Service) unexportObject(path dbus.ObjectPath, iface string) {
	// Export(nil) removes a previously exported handler.
	_ = s.conn.Export(nil, path, iface)
	_ = s.conn.Export(nil, path, mm.PropertiesInterface)
	_ = s.conn.Export(nil, path, introspectableInterface)
}

// invalidArgs converts a property lookup failure to the D-Bus error
// clients expect, carrying the offending property name in the body.
func invalidArgs(err error) *dbus.Error {
	return dbus.NewError("org.freedesktop.DBus.Error.InvalidArgs",
		[]interface{}{err.Error()})
}

// propsHandler serves org.freedesktop.DBus.Properties for one object.
// Reads hop onto the event loop so property values are consistent
// with in-flight transitions.
type propsHandler struct {
	loop  *service.Loop
	store *props.Store
}

func (h propsHandler) Get(iface, name string) (dbus.Variant, *dbus.Error) {
	var v dbus.Variant
	var err error
	h.loop.Call(func() {
		v, err = h.store.Get(iface, name)
	})
	if err != nil {
		return dbus.Variant{}, invalidArgs(err)
	}
	return v, nil
}

func (h propsHandler) GetAll(iface string) (map[string]dbus.Variant, *dbus.Error) {
	var out map[string]dbus.Variant
	h.loop.Call(func() {
		out = h.store.GetAll(iface)
	})
	return out, nil
}

type managerHandler struct {
	s   *Service
	mgr *service.Manager
}

func (h managerHandler) GetVersion() (string, *dbus.Error) {
	var v string
	h.s.loop.Call(func() { v = h.mgr.GetVersion() })
	return v, nil
}

func (h managerHandler) ScanDevices() *dbus.Error {
	h.s.loop.Call(h.mgr.ScanDevices)
	return nil
}

func (h managerHandler) SetLogging(level string) *dbus.Error {
	h.s.loop.Call(func() { h.mgr.SetLogging(level) })
	return nil
}

func (h managerHandler) InhibitDevice(uid string, inhibit bool) *dbus.Error {
	h.s.loop.Call(func() { h.mgr.InhibitDevice(uid, inhibit) })
	return nil
}

type modemHandler struct {
	s *Service
	m *service.Modem
}

func (h modemHandler) Enable(enable bool) *dbus.Error {
	h.s.loop.Call(func() { h.m.Enable(enable) })
	return nil
}

func (h modemHandler) Reset() *dbus.Error {
	h.s.loop.Call(h.m.Reset)
	return nil
}

func (h modemHandler) Command(cmd string) (string, *dbus.Error) {
	var out string
	h.s.loop.Call(func() { out = h.m.Command(cmd) })
	return out, nil
}

func (h modemHandler) CreateBearer(properties map[string]dbus.Variant) (dbus.ObjectPath, *dbus.Error) {
	var b *service.Bearer
	h.s.loop.Call(func() { b = h.m.CreateBearer(properties) })
	if b == nil {
		// Loop already stopped; the service is shutting down.
		return "/", dbus.NewError("org.freedesktop.DBus.Error.ServiceUnknown", nil)
	}
	if err := h.s.exportObject(b.Path(), mm.BearerInterface,
		bearerHandler{h.s, b}, b.Props()); err != nil {
		h.s.log.Printf("exporting bearer %v: %v", b.Path(), err)
	}
	return b.Path(), nil
}

func (h modemHandler) DeleteBearer(path dbus.ObjectPath) *dbus.Error {
	h.s.loop.Call(func() { h.m.DeleteBearer(path) })
	h.s.unexportObject(path, mm.BearerInterface)
	return nil
}

type simHandler struct {
	s   *Service
	sim *service.Sim
}

func (h simHandler) SendPin(pin string) *dbus.Error {
	h.s.loop.Call(func() { h.sim.SendPin(pin) })
	return nil
}

func (h simHandler) SendPuk(puk, pin string) *dbus.Error {
	h.s.loop.Call(func() { h.sim.SendPuk(puk, pin) })
	return nil
}

type bearerHandler struct {
	s *Service
	b *service.Bearer
}

func (h bearerHandler) Connect() *dbus.Error {
	h.s.loop.Call(h.b.Connect)
	return nil
}

func (h bearerHandler) Disconnect() *dbus.Error {
	h.s.loop.Call(h.b.Disconnect)
	return nil
}
