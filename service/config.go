package service

import (
	"fmt"
	"os"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Duration decodes YAML strings like "500ms" into a time.Duration.
type Duration time.Duration

// UnmarshalYAML implements yaml.BytesUnmarshaler.
func (d *Duration) UnmarshalYAML(b []byte) error {
	var s string
	if err := yaml.Unmarshal(b, &s); err != nil {
		return err
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// D returns the wrapped time.Duration.
func (d Duration) D() time.Duration {
	return time.Duration(d)
}

// Delays are the simulated transition times of the modem state
// machine: Enable covers Enabling->Enabled, Search Enabled->Searching,
// Register Searching->Registered, Disable Disabling->Disabled.
type Delays struct {
	Enable   Duration `yaml:"enable"`
	Search   Duration `yaml:"search"`
	Register Duration `yaml:"register"`
	Disable  Duration `yaml:"disable"`
}

// SimConfig is the identity of a modem's SIM card.
type SimConfig struct {
	Identifier         string `yaml:"identifier"`
	Imsi               string `yaml:"imsi"`
	OperatorIdentifier string `yaml:"operatorIdentifier"`
	OperatorName       string `yaml:"operatorName"`
}

// ModemConfig describes one simulated modem.
type ModemConfig struct {
	Manufacturer        string    `yaml:"manufacturer"`
	Model               string    `yaml:"model"`
	Revision            string    `yaml:"revision"`
	DeviceIdentifier    string    `yaml:"deviceIdentifier"`
	EquipmentIdentifier string    `yaml:"equipmentIdentifier"`
	OwnNumbers          []string  `yaml:"ownNumbers"`
	OperatorCode        string    `yaml:"operatorCode"`
	OperatorName        string    `yaml:"operatorName"`
	SignalQuality       uint32    `yaml:"signalQuality"`
	SupportedBands      []uint32  `yaml:"supportedBands"`
	CurrentBands        []uint32  `yaml:"currentBands"`
	Sim                 SimConfig `yaml:"sim"`
}

// Config is the simulator fixture: the version string reported to
// clients, the transition delays, and the modems to create at
// startup.
type Config struct {
	Version string        `yaml:"version"`
	Delays  Delays        `yaml:"delays"`
	Modems  []ModemConfig `yaml:"modems"`
}

// DefaultModemConfig returns the stock modem definition for the given
// index: a GSM/LTE device registered on a mock home network.
func DefaultModemConfig(index int) ModemConfig {
	return ModemConfig{
		Manufacturer:        "MockModem Inc.",
		Model:               "MockModem X1000",
		Revision:            "1.0.0",
		DeviceIdentifier:    fmt.Sprintf("mock-%04d", index),
		EquipmentIdentifier: fmt.Sprintf("IMEI%d", 123456789012345+index),
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
}

// DefaultConfig returns the stock fixture: one modem at index 0 and
// the standard transition delays.
func DefaultConfig() Config {
	return Config{
		Version: "1.12.8-mock",
		Delays: Delays{
			Enable:   Duration(1000 * time.Millisecond),
			Search:   Duration(500 * time.Millisecond),
			Register: Duration(1000 * time.Millisecond),
			Disable:  Duration(1000 * time.Millisecond),
		},
		Modems: []ModemConfig{DefaultModemConfig(0)},
	}
}

// LoadConfig reads a YAML fixture and fills the gaps with defaults.
// An empty path returns the stock fixture.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrap(err, "reading config")
	}

	// Keep stock delays unless the file overrides them, but a file
	// that lists modems replaces the stock modem list.
	cfg.Modems = nil
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrap(err, "parsing config")
	}
	if len(cfg.Modems) == 0 {
		cfg.Modems = []ModemConfig{DefaultModemConfig(0)}
	}

	for i := range cfg.Modems {
		normalizeModemConfig(&cfg.Modems[i], i)
	}

	return cfg, nil
}

// normalizeModemConfig fills unset fields of a user-supplied modem
// definition from the stock one. A missing device identifier gets a
// generated one so every modem stays uniquely addressable.
func normalizeModemConfig(m *ModemConfig, index int) {
	def := DefaultModemConfig(index)

	if m.Manufacturer == "" {
		m.Manufacturer = def.Manufacturer
	}
	if m.Model == "" {
		m.Model = def.Model
	}
	if m.Revision == "" {
		m.Revision = def.Revision
	}
	if m.DeviceIdentifier == "" {
		m.DeviceIdentifier = "mock-" + uuid.NewString()[:8]
	}
	if m.EquipmentIdentifier == "" {
		m.EquipmentIdentifier = def.EquipmentIdentifier
	}
	if len(m.OwnNumbers) == 0 {
		m.OwnNumbers = def.OwnNumbers
	}
	if m.OperatorCode == "" {
		m.OperatorCode = def.OperatorCode
	}
	if m.OperatorName == "" {
		m.OperatorName = def.OperatorName
	}
	if m.SignalQuality == 0 {
		m.SignalQuality = def.SignalQuality
	}
	if len(m.SupportedBands) == 0 {
		m.SupportedBands = def.SupportedBands
	}
	if len(m.CurrentBands) == 0 {
		m.CurrentBands = def.CurrentBands
	}
	if m.Sim == (SimConfig{}) {
		m.Sim = def.Sim
	}
}
