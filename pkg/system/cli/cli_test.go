package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSttyFlowControlArgs(t *testing.T) {
	assert.Equal(t, []string{"-F", "/dev/ttyMDM0", "crtscts"},
		sttyFlowControlArgs("/dev/ttyMDM0", true))
	assert.Equal(t, []string{"-F", "/dev/ttyMDM0", "-crtscts"},
		sttyFlowControlArgs("/dev/ttyMDM0", false))
}

func TestRunHookEmpty(t *testing.T) {
	out, err := RunHook(nil)
	assert.NoError(t, err)
	assert.Nil(t, out)
}

func TestRunHook(t *testing.T) {
	out, err := RunHook([]string{"echo", "-n", "powered"})
	assert.NoError(t, err)
	assert.Equal(t, "powered", string(out))
}
