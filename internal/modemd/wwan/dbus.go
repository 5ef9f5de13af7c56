package wwan

import (
	"errors"

	gonm "github.com/Wifx/gonetworkmanager/v2"
	"github.com/dragonfly-cell/modemd/pkg/log"
	"github.com/godbus/dbus/v5"
	"go.uber.org/zap"
)

const networkManagerBusName = "org.freedesktop.NetworkManager"

type wwanDbusService struct {
	conn *dbus.Conn
	nm   gonm.NetworkManager
}

func (n *wwanDbusService) initialize() error {
	conn, err := dbus.SystemBus()
	if err != nil {
		return err
	}
	n.conn = conn

	// Bail out early when NetworkManager is not on the bus, gonm calls
	// would only fail later with less helpful errors
	var hasOwner bool
	err = conn.BusObject().Call("org.freedesktop.DBus.NameHasOwner", 0, networkManagerBusName).Store(&hasOwner)
	if err != nil {
		return err
	}
	if !hasOwner {
		return errors.New("NetworkManager is not available on the system bus")
	}

	n.nm, err = gonm.NewNetworkManager()
	if err != nil {
		return err
	}

	return nil
}

func (n *wwanDbusService) SetRadioEnabled(enabled bool) error {
	log.Info("setting WWAN radio state", zap.Bool("enabled", enabled))
	return n.nm.SetPropertyWwanEnabled(enabled)
}

func (n *wwanDbusService) RadioEnabled() (bool, error) {
	return n.nm.GetPropertyWwanEnabled()
}

// ModemPresent checks whether NetworkManager sees a modem-class device,
// that is the observable outcome of a successful power up
func (n *wwanDbusService) ModemPresent() (bool, error) {
	devices, err := n.nm.GetAllDevices()
	if err != nil {
		return false, err
	}

	for _, dev := range devices {
		devType, err := dev.GetPropertyDeviceType()
		if err != nil {
			log.Error("failed to retrieve device type for device", zap.Error(err), zap.String("device", string(dev.GetPath())))
			continue
		}

		if devType == gonm.NmDeviceTypeModem {
			return true, nil
		}
	}

	return false, nil
}

func (n *wwanDbusService) Shutdown() {
	if n.conn != nil {
		_ = n.conn.Close()
		n.conn = nil
	}
}
