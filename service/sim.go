package service

import (
	"log"
	"os"

	"github.com/godbus/dbus/v5"

	"github.com/mmsim/mmsim/props"
)

// Sim is the identity card attached to a modem. It is created with
// the modem, immutable for the modem's lifetime, and destroyed with
// it. PIN/PUK submissions are accepted and ignored; the simulated SIM
// is never locked.
type Sim struct {
	log   *log.Logger
	path  dbus.ObjectPath
	props *props.Store
}

func newSim(path dbus.ObjectPath, cfg SimConfig) *Sim {
	s := &Sim{
		log:   log.New(os.Stderr, "sim: ", log.LstdFlags|log.Lmsgprefix),
		path:  path,
		props: props.NewStore(),
	}
	s.props.AddConst("SimIdentifier", cfg.Identifier)
	s.props.AddConst("Imsi", cfg.Imsi)
	s.props.AddConst("OperatorIdentifier", cfg.OperatorIdentifier)
	s.props.AddConst("OperatorName", cfg.OperatorName)
	return s
}

// Path returns the SIM's object path.
func (s *Sim) Path() dbus.ObjectPath {
	return s.path
}

// Props returns the SIM's property table.
func (s *Sim) Props() *props.Store {
	return s.props
}

// SendPin accepts a PIN.
func (s *Sim) SendPin(pin string) {
	s.log.Printf("%v: SendPin", s.path)
}

// SendPuk accepts a PUK plus new PIN.
func (s *Sim) SendPuk(puk, pin string) {
	s.log.Printf("%v: SendPuk", s.path)
}
