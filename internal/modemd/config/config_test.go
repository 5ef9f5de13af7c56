package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dragonfly-cell/modemd/pkg/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `
[client]
device_name = "dragonfly-gw-01"
debug = true

[modem]
port = "/dev/serial/by-id/usb-u-blox_SARA-R4-if02-port0"
baud_rate = 115200
flow_control = true
autostart = true
usb_wait = "45s"

[board]
driver = "hooks"

[board.hooks]
init = ["mdm-helper", "init"]
power_up = ["mdm-helper", "up"]
power_down = ["mdm-helper", "down"]
deinit = ["mdm-helper", "deinit"]

[reporting]
url = "https://fleet.example.com/api/"
interval = "1m"

[reporting.auth.basic]
username = "gw"
password = "secret"
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestMain(m *testing.M) {
	log.Init(true)
	os.Exit(m.Run())
}

func TestLoadFullConfig(t *testing.T) {
	mgr := NewManager()
	require.NoError(t, mgr.Load(writeConfig(t, sampleConfig), false))

	assert.Equal(t, "dragonfly-gw-01", mgr.DeviceName())
	assert.Equal(t, "/dev/serial/by-id/usb-u-blox_SARA-R4-if02-port0", mgr.ModemPort())

	modem := mgr.Modem().C()
	assert.Equal(t, 115200, modem.BaudRate)
	assert.True(t, modem.FlowControl)
	assert.True(t, modem.Autostart.Load())
	assert.Equal(t, 45*time.Second, modem.UsbWait.Value())
	// omitted field got its default
	assert.Equal(t, DefaultProbeTimeout, modem.ProbeTimeout.Value())

	board := mgr.Board().C()
	assert.Equal(t, BoardDriverHooks, board.Driver)
	require.NotNil(t, board.Hooks)
	assert.Equal(t, []string{"mdm-helper", "up"}, board.Hooks.PowerUp)

	reporting := mgr.Reporting().C()
	assert.Equal(t, "https://fleet.example.com/api/", reporting.Url)
	assert.Equal(t, time.Minute, reporting.Interval.Value())
	require.NotNil(t, reporting.Auth.Basic)
	user, pass := reporting.Auth.Basic.Credentials()
	assert.Equal(t, "gw", user)
	assert.Equal(t, "secret", pass)
}

func TestLoadEmptyConfigDefaults(t *testing.T) {
	mgr := NewManager()
	require.NoError(t, mgr.Load(filepath.Join(t.TempDir(), "missing.toml"), true))

	modem := mgr.Modem().C()
	assert.Equal(t, DefaultModemPort, modem.Port)
	assert.Equal(t, DefaultModemBaudRate, modem.BaudRate)
	assert.False(t, modem.Autostart.Load())

	// no power control configured means the stub driver
	assert.Equal(t, BoardDriverStub, mgr.Board().C().Driver)

	// no endpoint means reporting is off
	assert.True(t, mgr.Reporting().C().Disabled)
}

func TestLoadMissingConfigRejected(t *testing.T) {
	mgr := NewManager()
	assert.Error(t, mgr.Load(filepath.Join(t.TempDir(), "missing.toml"), false))
}

func TestVerifyFailures(t *testing.T) {
	tests := []struct {
		name   string
		config string
	}{
		{
			name:   "unsupported board driver",
			config: "[board]\ndriver = \"i2c\"\n",
		},
		{
			name:   "gpio driver without power line",
			config: "[board]\ndriver = \"gpio\"\n",
		},
		{
			name:   "hooks driver without commands",
			config: "[board]\ndriver = \"hooks\"\n",
		},
		{
			name:   "negative baud rate",
			config: "[modem]\nbaud_rate = -1\n",
		},
		{
			name:   "basic auth without password",
			config: "[reporting]\nurl = \"https://fleet.example.com\"\n[reporting.auth.basic]\nusername = \"gw\"\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mgr := NewManager()
			assert.Error(t, mgr.Load(writeConfig(t, tt.config), false))
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := writeConfig(t, sampleConfig)

	mgr := NewManager()
	require.NoError(t, mgr.Load(path, false))

	// Flip a runtime flag and persist it
	require.NoError(t, mgr.SetAutostart(false))

	reloaded := NewManager()
	require.NoError(t, reloaded.Load(path, false))
	modem := reloaded.Modem().C()
	assert.False(t, modem.Autostart.Load())

	// Unrelated sections survived the round trip
	assert.Equal(t, "dragonfly-gw-01", reloaded.DeviceName())
	assert.Equal(t, BoardDriverHooks, reloaded.Board().C().Driver)
}

func TestGPIODefaultsApplied(t *testing.T) {
	mgr := NewManager()
	require.NoError(t, mgr.Load(writeConfig(t, "[board]\ndriver = \"gpio\"\n[board.gpio]\npower_line = 42\n"), false))

	gpio := mgr.Board().C().GPIO
	require.NotNil(t, gpio)
	assert.Equal(t, "/sys/class/gpio", gpio.BasePath)
	assert.Equal(t, 200*time.Millisecond, gpio.PowerOnPulse.Value())
	assert.Equal(t, 1600*time.Millisecond, gpio.PowerOffPulse.Value())
}
