// Package wwan toggles the cellular radio through NetworkManager once
// the modem has power. Bearer and connection management stay with
// NetworkManager, this only flips the global switch and reports device
// presence.
package wwan

import (
	"fmt"

	"github.com/dragonfly-cell/modemd/pkg/log"
	"go.uber.org/zap"
)

type BackendType int32

const (
	// STUB implementation
	STUB BackendType = -1

	// NetworkManager dbus based
	DBUS BackendType = 0
)

func (e BackendType) String() string {
	switch e {
	case STUB:
		return "StubImplementation"
	case DBUS:
		return "NetworkManagerDbus"
	default:
		return fmt.Sprintf("%d", int(e))
	}
}

// Service interface methods
type Service interface {
	initialize() error

	// SetRadioEnabled flips the global WWAN switch
	SetRadioEnabled(enabled bool) error
	// RadioEnabled returns the current state of the WWAN switch
	RadioEnabled() (bool, error)
	// ModemPresent reports whether a modem-class network device exists
	ModemPresent() (bool, error)

	Shutdown()
}

func NewService(backend BackendType) (Service, error) {
	var service Service

	switch backend {
	case DBUS:
		service = &wwanDbusService{}
	case STUB:
		service = &wwanStubService{}
	}

	// Initialize service
	err := service.initialize()

	if err != nil {
		return nil, err
	}

	log.Info("WWAN backend selected:", zap.String("name", backend.String()))

	return service, nil
}
