package service

import (
	"log"
	"os"

	"github.com/godbus/dbus/v5"

	"github.com/mmsim/mmsim/props"
)

// Bearer default creation properties.
const (
	DefaultIPType = "ipv4"
	DefaultApn    = "internet"
)

// bearerIface is the network interface every simulated bearer claims
// to be bound to. Nothing is actually brought up.
const bearerIface = "wwan0"

// Bearer is one data-connection handle owned by a modem. Connect and
// Disconnect just flip the Connected flag; there is deliberately no
// coupling to the owning modem's registration state.
type Bearer struct {
	log       *log.Logger
	path      dbus.ObjectPath
	ipType    string
	apn       string
	connected bool
	props     *props.Store
}

func newBearer(path dbus.ObjectPath, creation map[string]dbus.Variant) *Bearer {
	b := &Bearer{
		log:    log.New(os.Stderr, "bearer: ", log.LstdFlags|log.Lmsgprefix),
		path:   path,
		ipType: stringProp(creation, "ip-type", DefaultIPType),
		apn:    stringProp(creation, "apn", DefaultApn),
		props:  props.NewStore(),
	}

	p := b.props
	p.Add("Connected", func() dbus.Variant {
		return dbus.MakeVariant(b.connected)
	})
	p.AddConst("Interface", bearerIface)
	p.AddConst("IpType", b.ipType)
	p.AddConst("Apn", b.apn)
	p.Publish("Connected", "Interface", "IpType")

	return b
}

func stringProp(m map[string]dbus.Variant, key, def string) string {
	if v, ok := m[key]; ok {
		if s, ok := v.Value().(string); ok {
			return s
		}
	}
	return def
}

// Path returns the bearer's object path.
func (b *Bearer) Path() dbus.ObjectPath {
	return b.path
}

// Props returns the bearer's property table.
func (b *Bearer) Props() *props.Store {
	return b.props
}

// Connected reports whether the bearer is up.
func (b *Bearer) Connected() bool {
	return b.connected
}

// IPType returns the bearer's IP type ("ipv4" unless overridden at
// creation).
func (b *Bearer) IPType() string {
	return b.ipType
}

// Apn returns the bearer's access point name.
func (b *Bearer) Apn() string {
	return b.apn
}

// Connect brings the bearer up.
func (b *Bearer) Connect() {
	b.log.Printf("%v: Connect()", b.path)
	b.connected = true
}

// Disconnect takes the bearer down.
func (b *Bearer) Disconnect() {
	b.log.Printf("%v: Disconnect()", b.path)
	b.connected = false
}
