// Package bus puts the simulator core on D-Bus: it owns the
// connection, the well-known name, the exported objects, and signal
// emission. Method handlers hop onto the service event loop, so
// everything above this package stays single-threaded.
package bus

import (
	"log"

	"github.com/godbus/dbus/v5"
	"github.com/pkg/errors"

	"github.com/mmsim/mmsim/mm"
)

// Mode selects which message bus the simulator connects to.
type Mode string

// Bus modes. Auto tries the system bus first and falls back to the
// session bus once, which keeps unprivileged test sandboxes working.
const (
	ModeAuto    Mode = "auto"
	ModeSystem  Mode = "system"
	ModeSession Mode = "session"
)

// Connect opens a bus connection per mode.
func Connect(mode Mode) (*dbus.Conn, error) {
	switch mode {
	case ModeSystem:
		conn, err := dbus.ConnectSystemBus()
		return conn, errors.Wrap(err, "connecting to system bus")
	case ModeSession:
		conn, err := dbus.ConnectSessionBus()
		return conn, errors.Wrap(err, "connecting to session bus")
	case ModeAuto, "":
		conn, err := dbus.ConnectSystemBus()
		if err == nil {
			return conn, nil
		}
		log.Printf("system bus unavailable (%v), trying session bus", err)
		conn, err = dbus.ConnectSessionBus()
		return conn, errors.Wrap(err, "connecting to session bus")
	}
	return nil, errors.Errorf("unknown bus mode %q", mode)
}

// RequestName claims the well-known ModemManager name. Not becoming
// the primary owner is an error; the caller is expected to treat it
// as fatal (the real ModemManager is probably running).
func RequestName(conn *dbus.Conn) error {
	reply, err := conn.RequestName(mm.BusName, dbus.NameFlagDoNotQueue)
	if err != nil {
		return errors.Wrap(err, "requesting bus name")
	}
	if reply != dbus.RequestNameReplyPrimaryOwner {
		return errors.Errorf("name %v already taken (is ModemManager running?)",
			mm.BusName)
	}
	return nil
}
