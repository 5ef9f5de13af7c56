package config

// If you want to modify any field at run-time here, make sure to lock it using a mutex
type ClientConfig struct {
	// DeviceName identifies this gateway towards the fleet, falls back to
	// the hostname when empty
	DeviceName string `toml:"device_name,omitempty"`
	Debug      bool   `toml:"debug"`
}

type ClientConfigManager struct {
	BaseConfigManager[ClientConfig]
}

// Verify verifies the "hard" conditions that the rest of the code relies on
func (a *ClientConfigManager) Verify() error {
	return nil
}

func NewClientConfigManager(config *ClientConfig, mgr *Manager) *ClientConfigManager {
	c := ClientConfigManager{}
	c.conf = config
	c.mgr = mgr

	return &c
}
