// Package board is the boundary to the vendor power-control layer. The
// four entry points energize and de-energize the onboard modem module,
// they take no arguments and their ordering is owned by the caller.
package board

import (
	"fmt"

	"github.com/dragonfly-cell/modemd/internal/modemd/config"
)

type PowerController interface {
	// Init prepares the board side (regulators, lines) for the modem
	Init() error
	// PowerUp energizes the modem module
	PowerUp() error
	// PowerDown de-energizes the modem module
	PowerDown() error
	// Deinit releases the board side resources again
	Deinit() error

	// Name identifies the driver in logs
	Name() string
}

// NewPowerController builds the controller selected by the board config.
// The config manager already verified the section, unknown drivers only
// show up when callers bypass it.
func NewPowerController(conf config.BoardConfig) (PowerController, error) {
	switch conf.Driver {
	case config.BoardDriverHooks:
		return newHookController(conf.Hooks), nil
	case config.BoardDriverGPIO:
		return newGPIOController(conf.GPIO), nil
	case config.BoardDriverStub, "":
		return &stubController{}, nil
	}

	return nil, fmt.Errorf("unknown board driver %q", conf.Driver)
}
