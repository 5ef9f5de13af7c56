package sara4

import (
	"errors"
	"os"
	"sync"
	"testing"

	"github.com/dragonfly-cell/modemd/pkg/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	log.Init(true)
	os.Exit(m.Run())
}

// recorderController captures the order of board entry point invocations
type recorderController struct {
	calls []string
	fail  map[string]error
}

func (r *recorderController) record(step string) error {
	r.calls = append(r.calls, step)
	if r.fail != nil {
		return r.fail[step]
	}
	return nil
}

func (r *recorderController) Name() string     { return "recorder" }
func (r *recorderController) Init() error      { return r.record("init") }
func (r *recorderController) PowerUp() error   { return r.record("power_up") }
func (r *recorderController) PowerDown() error { return r.record("power_down") }
func (r *recorderController) Deinit() error    { return r.record("deinit") }

func TestPowerOnSequence(t *testing.T) {
	rec := &recorderController{}
	m := Create(rec, Options{})

	require.NoError(t, m.PowerOn())
	assert.Equal(t, []string{"init", "power_up"}, rec.calls)

	// Every call runs the full sequence again, exactly once each
	require.NoError(t, m.PowerOn())
	assert.Equal(t, []string{"init", "power_up", "init", "power_up"}, rec.calls)

	assert.NoError(t, m.LastBoardError())
}

func TestPowerOffSequence(t *testing.T) {
	rec := &recorderController{}
	m := Create(rec, Options{})

	require.NoError(t, m.PowerOff())
	assert.Equal(t, []string{"power_down", "deinit"}, rec.calls)
}

func TestPowerOnSilentSuccess(t *testing.T) {
	bang := errors.New("regulator fault")
	rec := &recorderController{fail: map[string]error{"init": bang}}
	m := Create(rec, Options{})

	// The failure stays invisible to the caller but the sequence still
	// runs in full order
	assert.NoError(t, m.PowerOn())
	assert.Equal(t, []string{"init", "power_up"}, rec.calls)
	assert.ErrorIs(t, m.LastBoardError(), bang)
}

func TestPowerOffSilentSuccess(t *testing.T) {
	bang := errors.New("deinit fault")
	rec := &recorderController{fail: map[string]error{"deinit": bang}}
	m := Create(rec, Options{})

	assert.NoError(t, m.PowerOff())
	assert.Equal(t, []string{"power_down", "deinit"}, rec.calls)
	assert.ErrorIs(t, m.LastBoardError(), bang)
}

func TestCreateDefaults(t *testing.T) {
	m := Create(&recorderController{}, Options{})

	assert.Equal(t, MgmtTty, m.portName)
	assert.Equal(t, MgmtBaudrate, m.serConf.BaudRate)
	assert.Equal(t, DefaultProbeTimeout, m.probeTimeout)
}

func TestPingRequiresOpenPort(t *testing.T) {
	m := Create(&recorderController{}, Options{})
	assert.Error(t, m.Ping())
}

func TestOpenMissingPort(t *testing.T) {
	m := Create(&recorderController{}, Options{Port: "/dev/nonexistent-mdm-tty"})
	assert.Error(t, m.Open())

	// Close without a port is a no-op
	assert.NoError(t, m.Close())
}

func TestDefaultDeviceSingletonIdentity(t *testing.T) {
	defer goleak.VerifyNone(t)

	const callers = 16

	results := make([]*Modem, callers)
	var wg sync.WaitGroup

	// Racing first calls must all observe the same construction
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(slot int) {
			defer wg.Done()
			results[slot] = DefaultDevice(&recorderController{}, Options{})
		}(i)
	}
	wg.Wait()

	for i := 1; i < callers; i++ {
		assert.Same(t, results[0], results[i])
	}

	// And the factory keeps returning that instance
	assert.Same(t, results[0], DefaultDevice(&recorderController{}, Options{Port: "/dev/ignored"}))
}
