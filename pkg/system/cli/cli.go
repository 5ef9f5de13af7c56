package cli

import (
	"os/exec"

	"github.com/dragonfly-cell/modemd/pkg/log"
	"go.uber.org/zap"
)

// sttyFlowControlArgs builds the stty invocation that toggles RTS/CTS
// handshaking on a tty device
func sttyFlowControlArgs(device string, enable bool) []string {
	mode := "crtscts"
	if !enable {
		mode = "-crtscts"
	}

	return []string{"-F", device, mode}
}

// SetHardwareFlowControl enables or disables RTS/CTS handshaking on the
// given tty. The serial library offers no flow control knob, so this goes
// through stty like the rest of the platform tooling does.
func SetHardwareFlowControl(device string, enable bool) error {
	args := sttyFlowControlArgs(device, enable)

	out, err := exec.Command("stty", args...).CombinedOutput()
	if err != nil {
		log.Error("stty flow control failed", zap.String("device", device), zap.ByteString("output", out), zap.Error(err))
		return err
	}

	return nil
}

// RunHook executes a vendor supplied helper command and returns its
// combined output, argv[0] is the binary
func RunHook(argv []string) ([]byte, error) {
	if len(argv) == 0 {
		return nil, nil
	}

	return exec.Command(argv[0], argv[1:]...).CombinedOutput()
}
