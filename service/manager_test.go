package service

import (
	"testing"

	"github.com/godbus/dbus/v5"

	"github.com/mmsim/mmsim/mm"
)

func TestManagerVersion(t *testing.T) {
	mgr, _, _ := newTestManager()

	if got := mgr.GetVersion(); got != "1.12.8-mock" {
		t.Fatal("Unexpected version: ", got)
	}

	v, err := mgr.Props().Get(mm.ManagerInterface, "Version")
	if err != nil {
		t.Fatal("Error: ", err)
	}
	if v.Value().(string) != "1.12.8-mock" {
		t.Fatal("Unexpected Version property: ", v.Value())
	}
}

func TestManagerModemRegistry(t *testing.T) {
	mgr, _, _ := newTestManager()

	paths := mgr.ModemPaths()
	if len(paths) != 1 {
		t.Fatal("Expected one modem, got: ", len(paths))
	}
	if paths[0] != mm.RootPath+"/Modem/0" {
		t.Fatal("Unexpected modem path: ", paths[0])
	}

	m2 := mgr.AddModem(DefaultModemConfig(1))
	if m2.Path() != mm.RootPath+"/Modem/1" {
		t.Fatal("Unexpected second modem path: ", m2.Path())
	}
	if len(mgr.Modems()) != 2 {
		t.Fatal("Expected two modems")
	}
}

func TestManagerInhibitDevice(t *testing.T) {
	mgr, _, _ := newTestManager()

	mgr.InhibitDevice("mock-0000", true)
	if !mgr.Inhibited("mock-0000") {
		t.Fatal("Expected device inhibited")
	}
	mgr.InhibitDevice("mock-0000", false)
	if mgr.Inhibited("mock-0000") {
		t.Fatal("Expected device released")
	}

	// accepted, no state effect
	mgr.ScanDevices()
	mgr.SetLogging("DEBUG")
}

func TestGetAllNonEmptyEverywhere(t *testing.T) {
	mgr, _, _ := newTestManager()
	m := mgr.Modems()[0]
	b := m.CreateBearer(nil)

	stores := map[string]interface {
		GetAll(string) map[string]dbus.Variant
	}{
		"manager": mgr.Props(),
		"modem":   m.Props(),
		"sim":     m.Sim().Props(),
		"bearer":  b.Props(),
	}

	for name, s := range stores {
		if len(s.GetAll("any.Interface")) == 0 {
			t.Fatal("GetAll empty for ", name)
		}
	}
}

func TestSimProperties(t *testing.T) {
	mgr, _, _ := newTestManager()
	sim := mgr.Modems()[0].Sim()

	for name, want := range map[string]string{
		"SimIdentifier":      "89012345678901234567",
		"Imsi":               "310260123456789",
		"OperatorIdentifier": "310260",
		"OperatorName":       "T-Mobile",
	} {
		v, err := sim.Props().Get(mm.SimInterface, name)
		if err != nil {
			t.Fatal("Error: ", err)
		}
		if v.Value().(string) != want {
			t.Fatalf("%v: expected %v, got %v", name, want, v.Value())
		}
	}

	if _, err := sim.Props().Get(mm.SimInterface, "UnknownProp"); err == nil {
		t.Fatal("Expected error for unknown property")
	}

	// accepted no-ops
	sim.SendPin("1234")
	sim.SendPuk("12345678", "1234")
}

// End-to-end walk of the documented client scenario: version check,
// state read, enable, wait out the transitions, read again.
func TestClientScenario(t *testing.T) {
	mgr, sched, _ := newTestManager()
	m := mgr.Modems()[0]

	if mgr.GetVersion() != "1.12.8-mock" {
		t.Fatal("Unexpected version")
	}

	v, _ := m.Props().Get(mm.ModemInterface, "State")
	if v.Value().(int32) != 3 {
		t.Fatal("Expected Disabled (3), got: ", v.Value())
	}

	m.Enable(true)

	v, _ = m.Props().Get(mm.ModemInterface, "State")
	if v.Value().(int32) != 5 {
		t.Fatal("Expected Enabling (5), got: ", v.Value())
	}

	sched.fireAll()

	v, _ = m.Props().Get(mm.ModemInterface, "State")
	if v.Value().(int32) != 8 {
		t.Fatal("Expected Registered (8), got: ", v.Value())
	}
}
