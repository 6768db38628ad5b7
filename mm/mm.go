// Package mm holds the wire-level constants of the ModemManager D-Bus
// API that the simulator speaks: bus/interface names, object path
// layout, and the numeric enumerations and bitmasks used in property
// values and signals. Values match the public ModemManager API so
// real clients (mmcli, go-modemmanager) interoperate unchanged.
package mm

import (
	"fmt"

	"github.com/godbus/dbus/v5"
)

// Well-known name and object path root.
const (
	BusName  = "org.freedesktop.ModemManager1"
	RootPath = dbus.ObjectPath("/org/freedesktop/ModemManager1")
)

// Interface names exported by the simulator.
const (
	ManagerInterface   = "org.freedesktop.ModemManager1"
	ModemInterface     = "org.freedesktop.ModemManager1.Modem"
	Modem3gppInterface = "org.freedesktop.ModemManager1.Modem.Modem3gpp"
	SimInterface       = "org.freedesktop.ModemManager1.Sim"
	BearerInterface    = "org.freedesktop.ModemManager1.Bearer"

	PropertiesInterface = "org.freedesktop.DBus.Properties"
)

// StateChangedSignal is the member name of the modem state-change
// signal, emitted with payload (old int32, new int32, reason uint32).
const StateChangedSignal = "StateChanged"

// ModemPath returns the object path of the modem with the given index.
func ModemPath(index int) dbus.ObjectPath {
	return dbus.ObjectPath(fmt.Sprintf("%s/Modem/%d", RootPath, index))
}

// SimPath returns the object path of a modem's SIM. Each modem owns
// exactly one SIM, always at slot 0.
func SimPath(modem dbus.ObjectPath) dbus.ObjectPath {
	return modem + "/Sim/0"
}

// BearerPath returns the object path of a bearer under a modem.
func BearerPath(modem dbus.ObjectPath, index int) dbus.ObjectPath {
	return dbus.ObjectPath(fmt.Sprintf("%s/Bearer/%d", modem, index))
}

// ModemState is the modem lifecycle state. The wire type is a signed
// 32-bit integer; Failed is the single negative sentinel.
type ModemState int32

// Modem states.
const (
	ModemStateFailed        ModemState = -1
	ModemStateUnknown       ModemState = 0
	ModemStateInitializing  ModemState = 1
	ModemStateLocked        ModemState = 2
	ModemStateDisabled      ModemState = 3
	ModemStateDisabling     ModemState = 4
	ModemStateEnabling      ModemState = 5
	ModemStateEnabled       ModemState = 6
	ModemStateSearching     ModemState = 7
	ModemStateRegistered    ModemState = 8
	ModemStateDisconnecting ModemState = 9
	ModemStateConnecting    ModemState = 10
	ModemStateConnected     ModemState = 11
)

func (s ModemState) String() string {
	switch s {
	case ModemStateFailed:
		return "failed"
	case ModemStateUnknown:
		return "unknown"
	case ModemStateInitializing:
		return "initializing"
	case ModemStateLocked:
		return "locked"
	case ModemStateDisabled:
		return "disabled"
	case ModemStateDisabling:
		return "disabling"
	case ModemStateEnabling:
		return "enabling"
	case ModemStateEnabled:
		return "enabled"
	case ModemStateSearching:
		return "searching"
	case ModemStateRegistered:
		return "registered"
	case ModemStateDisconnecting:
		return "disconnecting"
	case ModemStateConnecting:
		return "connecting"
	case ModemStateConnected:
		return "connected"
	}
	return fmt.Sprintf("ModemState(%d)", int32(s))
}

// Enabled reports whether s belongs to the enabled family of states,
// i.e. the modem has been powered up and not (yet) powered down.
func (s ModemState) Enabled() bool {
	switch s {
	case ModemStateEnabling, ModemStateEnabled, ModemStateSearching,
		ModemStateRegistered, ModemStateDisconnecting,
		ModemStateConnecting, ModemStateConnected:
		return true
	}
	return false
}

// StateChangeReason is the reason code carried in StateChanged. The
// simulator always reports ReasonUserRequested; real ModemManager
// distinguishes user from network initiated changes.
type StateChangeReason uint32

// State change reasons.
const (
	ReasonUnknown       StateChangeReason = 0
	ReasonUserRequested StateChangeReason = 1
	ReasonSuspend       StateChangeReason = 2
	ReasonFailure       StateChangeReason = 3
)

// Capability is a bitmask of radio access families a modem supports.
type Capability uint32

// Modem capabilities.
const (
	CapabilityNone        Capability = 0
	CapabilityPots        Capability = 1 << 0
	CapabilityCdmaEvdo    Capability = 1 << 1
	CapabilityGsmUmts     Capability = 1 << 2
	CapabilityLte         Capability = 1 << 3
	CapabilityLteAdvanced Capability = 1 << 4
)

// AccessTechnology is a bitmask of radio access technologies in use.
type AccessTechnology uint32

// Access technologies (subset used by the simulator).
const (
	AccessTechnologyUnknown AccessTechnology = 0
	AccessTechnologyGsm     AccessTechnology = 1 << 1
	AccessTechnologyUmts    AccessTechnology = 1 << 5
	AccessTechnologyLte     AccessTechnology = 1 << 14
)

// IPFamily is a bitmask of supported bearer IP families.
type IPFamily uint32

// IP families.
const (
	IPFamilyNone   IPFamily = 0
	IPFamilyIPv4   IPFamily = 1 << 0
	IPFamilyIPv6   IPFamily = 1 << 1
	IPFamilyIPv4v6 IPFamily = 1 << 3
)

// PowerState of the modem radio.
type PowerState uint32

// Power states.
const (
	PowerStateUnknown PowerState = 0
	PowerStateOff     PowerState = 1
	PowerStateLow     PowerState = 2
	PowerStateOn      PowerState = 3
)

// Lock requirement reported by UnlockRequired.
type Lock uint32

// Lock values (subset).
const (
	LockUnknown Lock = 0
	LockNone    Lock = 1
	LockSimPin  Lock = 2
	LockSimPuk  Lock = 3
)

// RegistrationState is the 3GPP network registration state.
type RegistrationState uint32

// 3GPP registration states.
const (
	RegistrationIdle      RegistrationState = 0
	RegistrationHome      RegistrationState = 1
	RegistrationSearching RegistrationState = 2
	RegistrationDenied    RegistrationState = 3
	RegistrationUnknown   RegistrationState = 4
	RegistrationRoaming   RegistrationState = 5
)

// Port is one physical or virtual port of a modem, wire type (su).
type Port struct {
	Name string
	Type uint32
}

// Mode is an allowed-modes/preferred-mode pair, wire type (uu).
type Mode struct {
	Allowed   uint32
	Preferred uint32
}

// SignalQuality is the quality percentage plus a flag telling whether
// the value was recently refreshed, wire type (ub).
type SignalQuality struct {
	Percent uint32
	Recent  bool
}
