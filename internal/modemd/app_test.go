package modemd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupInstrumentation(t *testing.T) {
	app, err := Setup(true)
	require.NoError(t, err)
	require.NotNil(t, app)
	defer app.Shutdown()

	assert.True(t, app.TestRunning)
	assert.NotNil(t, app.Conf)
	assert.NotNil(t, app.Modem)
	assert.NotNil(t, app.WwanService)
	assert.NotNil(t, app.UsbWatcher)

	// Reporting is not wired up during tests
	assert.Nil(t, app.Reporter)

	// Test setups run on the stub board, the power sequence is a no-op
	// that still honors the silent-success contract
	assert.NoError(t, app.Modem.PowerOn())
	assert.NoError(t, app.Modem.LastBoardError())
	assert.NoError(t, app.Modem.PowerOff())
}

func TestSetupReturnsSingletonModem(t *testing.T) {
	first, err := Setup(true)
	require.NoError(t, err)
	defer first.Shutdown()

	second, err := Setup(true)
	require.NoError(t, err)
	defer second.Shutdown()

	assert.Same(t, first.Modem, second.Modem)
}
