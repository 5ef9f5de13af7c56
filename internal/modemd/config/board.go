package config

import (
	"fmt"
	"slices"
	"time"
)

// BoardDriver selects how the modem power-control entry points reach the
// hardware
type BoardDriver string

const (
	// Keep these names synced up with the toml below
	BoardDriverHooks BoardDriver = "hooks"
	BoardDriverGPIO  BoardDriver = "gpio"
	BoardDriverStub  BoardDriver = "stub"
)

// SupportedOptions lists the options for the config parser
func (b BoardDriver) SupportedOptions() []BoardDriver {
	return []BoardDriver{
		BoardDriverHooks,
		BoardDriverGPIO,
		BoardDriverStub,
	}
}

type GPIOSettings struct {
	BasePath string `toml:"base_path,omitempty" comment:"sysfs gpio root, defaults to /sys/class/gpio"`
	// PWR_ON line of the SARA-R4 module
	PowerLine int `toml:"power_line,omitempty"`
	// RESET_N line, 0 means not wired up
	ResetLine int `toml:"reset_line,omitempty"`

	PowerOnPulse  TOMLDuration `toml:"power_on_pulse,omitempty" comment:"PWR_ON low time for power up"`
	PowerOffPulse TOMLDuration `toml:"power_off_pulse,omitempty" comment:"PWR_ON low time for power down"`
}

type HookSettings struct {
	Init      []string `toml:"init,omitempty" comment:"argv of the vendor init helper"`
	PowerUp   []string `toml:"power_up,omitempty"`
	PowerDown []string `toml:"power_down,omitempty"`
	Deinit    []string `toml:"deinit,omitempty"`
}

// Config contains the board power-control configuration options
type BoardConfig struct {
	Driver BoardDriver   `toml:"driver,omitempty"`
	GPIO   *GPIOSettings `toml:"gpio,omitempty"`
	Hooks  *HookSettings `toml:"hooks,omitempty"`
}

type BoardConfigManager struct {
	BaseConfigManager[BoardConfig]
}

// Verify verifies the "hard" conditions that the rest of the code relies on
func (a *BoardConfigManager) Verify() error {
	if a.conf.Driver == "" {
		a.conf.Driver = BoardDriverStub
	}

	if !slices.Contains(a.conf.Driver.SupportedOptions(), a.conf.Driver) {
		return fmt.Errorf("unsupported board driver %q", a.conf.Driver)
	}

	if a.conf.Driver == BoardDriverGPIO {
		if a.conf.GPIO == nil || a.conf.GPIO.PowerLine <= 0 {
			return fmt.Errorf("gpio board driver requires a power_line")
		}

		if a.conf.GPIO.BasePath == "" {
			a.conf.GPIO.BasePath = "/sys/class/gpio"
		}

		// SARA-R4 power key timings, see the module system integration manual
		if a.conf.GPIO.PowerOnPulse.Value() == 0 {
			a.conf.GPIO.PowerOnPulse = TOMLDuration(200 * time.Millisecond)
		}
		if a.conf.GPIO.PowerOffPulse.Value() == 0 {
			a.conf.GPIO.PowerOffPulse = TOMLDuration(1600 * time.Millisecond)
		}
	}

	if a.conf.Driver == BoardDriverHooks {
		if a.conf.Hooks == nil || len(a.conf.Hooks.Init) == 0 || len(a.conf.Hooks.PowerUp) == 0 {
			return fmt.Errorf("hooks board driver requires at least init and power_up commands")
		}
	}

	return nil
}

func NewBoardConfigManager(config *BoardConfig, mgr *Manager) *BoardConfigManager {
	b := BoardConfigManager{}
	b.conf = config
	b.mgr = mgr

	return &b
}
