package service

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Version != "1.12.8-mock" {
		t.Fatal("Unexpected version: ", cfg.Version)
	}
	if cfg.Delays.Enable.D() != time.Second {
		t.Fatal("Unexpected enable delay: ", cfg.Delays.Enable.D())
	}
	if cfg.Delays.Search.D() != 500*time.Millisecond {
		t.Fatal("Unexpected search delay: ", cfg.Delays.Search.D())
	}
	if len(cfg.Modems) != 1 {
		t.Fatal("Expected one stock modem")
	}

	want := ModemConfig{
		Manufacturer:        "MockModem Inc.",
		Model:               "MockModem X1000",
		Revision:            "1.0.0",
		DeviceIdentifier:    "mock-0000",
		EquipmentIdentifier: "IMEI123456789012345",
		OwnNumbers:          []string{"+1234567890"},
		OperatorCode:        "310260",
		OperatorName:        "T-Mobile",
		SignalQuality:       75,
		SupportedBands:      []uint32{0, 1, 2, 3},
		CurrentBands:        []uint32{0, 1, 2},
		Sim: SimConfig{
			Identifier:         "89012345678901234567",
			Imsi:               "310260123456789",
			OperatorIdentifier: "310260",
			OperatorName:       "T-Mobile",
		},
	}
	if diff := cmp.Diff(want, cfg.Modems[0]); diff != "" {
		t.Fatal("Stock modem mismatch (-want +got):\n", diff)
	}
}

func TestLoadConfigEmptyPath(t *testing.T) {
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatal("Error: ", err)
	}
	if diff := cmp.Diff(DefaultConfig(), cfg); diff != "" {
		t.Fatal("Expected stock fixture (-want +got):\n", diff)
	}
}

func TestLoadConfigFile(t *testing.T) {
	yml := `
version: "1.20.0-test"
delays:
  enable: 10ms
  search: 5ms
  register: 10ms
  disable: 10ms
modems:
  - model: TestModem 9
    operatorName: TestNet
  - deviceIdentifier: fixed-id
`
	path := filepath.Join(t.TempDir(), "fixture.yaml")
	if err := os.WriteFile(path, []byte(yml), 0644); err != nil {
		t.Fatal("Error: ", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatal("Error: ", err)
	}

	if cfg.Version != "1.20.0-test" {
		t.Fatal("Unexpected version: ", cfg.Version)
	}
	if cfg.Delays.Enable.D() != 10*time.Millisecond {
		t.Fatal("Unexpected enable delay: ", cfg.Delays.Enable.D())
	}
	if len(cfg.Modems) != 2 {
		t.Fatal("Expected two modems, got: ", len(cfg.Modems))
	}

	m0 := cfg.Modems[0]
	if m0.Model != "TestModem 9" {
		t.Fatal("Override lost: ", m0.Model)
	}
	if m0.OperatorName != "TestNet" {
		t.Fatal("Override lost: ", m0.OperatorName)
	}
	// gaps filled from the stock definition
	if m0.Manufacturer != "MockModem Inc." {
		t.Fatal("Default not applied: ", m0.Manufacturer)
	}
	if m0.Sim.Imsi == "" {
		t.Fatal("SIM defaults not applied")
	}
	// entries without a device identifier get a generated one
	if m0.DeviceIdentifier == "" {
		t.Fatal("Expected generated device identifier")
	}
	if cfg.Modems[1].DeviceIdentifier != "fixed-id" {
		t.Fatal("Explicit identifier lost: ", cfg.Modems[1].DeviceIdentifier)
	}
	if m0.DeviceIdentifier == cfg.Modems[1].DeviceIdentifier {
		t.Fatal("Device identifiers must be unique")
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig("/no/such/fixture.yaml"); err == nil {
		t.Fatal("Expected error for missing file")
	}
}

func TestLoadConfigDelayDefaults(t *testing.T) {
	// file that sets nothing but the version keeps stock delays and
	// the stock modem
	path := filepath.Join(t.TempDir(), "fixture.yaml")
	if err := os.WriteFile(path, []byte("version: x\n"), 0644); err != nil {
		t.Fatal("Error: ", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatal("Error: ", err)
	}
	if cfg.Delays.Register.D() != time.Second {
		t.Fatal("Stock delay lost: ", cfg.Delays.Register.D())
	}
	if len(cfg.Modems) != 1 || cfg.Modems[0].DeviceIdentifier != "mock-0000" {
		t.Fatal("Stock modem lost")
	}
}
