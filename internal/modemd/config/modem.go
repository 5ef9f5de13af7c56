package config

import (
	"errors"
	"time"
)

const (
	// Management tty of the onboard SARA-R4
	DefaultModemPort     = "/dev/ttyMDM0"
	DefaultModemBaudRate = 115200

	DefaultProbeTimeout = time.Second
	DefaultUsbWait      = 30 * time.Second
)

type ModemConfig struct {
	Port        string `toml:"port,omitempty"`
	BaudRate    int    `toml:"baud_rate,omitempty"`
	FlowControl bool   `toml:"flow_control" comment:"enable RTS/CTS handshaking on the management port"`

	// Autostart controls whether the daemon powers the modem on at boot,
	// one-shot tooling flips this at run-time
	Autostart AtomicBoolean `toml:"autostart"`

	ProbeTimeout TOMLDuration `toml:"probe_timeout,omitempty" comment:"read timeout for the AT liveness probe"`
	UsbWait      TOMLDuration `toml:"usb_wait,omitempty" comment:"how long to wait for usb enumeration after power up"`
}

type ModemConfigManager struct {
	BaseConfigManager[ModemConfig]
}

// Verify verifies the "hard" conditions that the rest of the code relies on
// and fills in the board defaults for omitted fields
func (a *ModemConfigManager) Verify() error {
	if a.conf.Port == "" {
		a.conf.Port = DefaultModemPort
	}

	if a.conf.BaudRate == 0 {
		a.conf.BaudRate = DefaultModemBaudRate
	}

	if a.conf.BaudRate < 0 {
		return errors.New("modem baud rate must be positive")
	}

	if a.conf.ProbeTimeout.Value() == 0 {
		a.conf.ProbeTimeout = TOMLDuration(DefaultProbeTimeout)
	}

	if a.conf.UsbWait.Value() == 0 {
		a.conf.UsbWait = TOMLDuration(DefaultUsbWait)
	}

	return nil
}

func NewModemConfigManager(config *ModemConfig, mgr *Manager) *ModemConfigManager {
	m := ModemConfigManager{}
	m.conf = config
	m.mgr = mgr

	return &m
}
