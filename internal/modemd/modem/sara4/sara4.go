// Package sara4 drives the onboard u-blox SARA-R4 module. Power
// sequencing is delegated to the board power-control entry points, the
// management tty is only used for a liveness probe.
package sara4

import (
	"errors"
	"sync"
	"time"

	"github.com/dragonfly-cell/modemd/internal/modemd/board"
	"github.com/dragonfly-cell/modemd/internal/modemd/modem"
	"github.com/dragonfly-cell/modemd/pkg/log"
	"github.com/dragonfly-cell/modemd/pkg/system/cli"
	"go.bug.st/serial"
	"go.uber.org/zap"
)

const (
	MgmtTty      = "/dev/ttyMDM0"
	MgmtBaudrate = 115200

	AtProbe = "AT"

	AtReplyOk    = "OK"
	AtReplyError = "ERROR"

	DefaultProbeTimeout = time.Second
)

type Options struct {
	Port         string
	BaudRate     int
	FlowControl  bool
	ProbeTimeout time.Duration
}

type Modem struct {
	board board.PowerController

	serConf *serial.Mode
	serPort serial.Port

	portName     string
	flowControl  bool
	probeTimeout time.Duration

	mu           sync.Mutex
	lastBoardErr error
}

func Create(boardCtl board.PowerController, opts Options) *Modem {
	m := new(Modem)
	m.board = boardCtl

	m.portName = opts.Port
	if m.portName == "" {
		m.portName = MgmtTty
	}

	baud := opts.BaudRate
	if baud == 0 {
		baud = MgmtBaudrate
	}
	m.serConf = &serial.Mode{
		BaudRate: baud,
	}

	m.flowControl = opts.FlowControl

	m.probeTimeout = opts.ProbeTimeout
	if m.probeTimeout == 0 {
		m.probeTimeout = DefaultProbeTimeout
	}

	return m
}

// recordBoardError keeps the silent-success contract of the power
// entry points intact while still surfacing failures
func (m *Modem) recordBoardError(step string, err error) {
	if err == nil {
		return
	}

	log.Error("board power-control step failed", zap.String("step", step), zap.Error(err))

	m.mu.Lock()
	m.lastBoardErr = err
	m.mu.Unlock()
}

// LastBoardError returns the most recent board failure swallowed by
// PowerOn/PowerOff, nil if all steps succeeded so far
func (m *Modem) LastBoardError() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastBoardErr
}

// PowerOn runs board init followed by power up, in that fixed order.
// The vendor contract reports success unconditionally, callers verify
// the outcome with Ping or the usb watcher.
func (m *Modem) PowerOn() error {
	m.recordBoardError("init", m.board.Init())
	m.recordBoardError("power_up", m.board.PowerUp())
	return nil
}

// PowerOff runs board power down followed by deinit, in that fixed order,
// and reports success unconditionally like PowerOn.
func (m *Modem) PowerOff() error {
	m.recordBoardError("power_down", m.board.PowerDown())
	m.recordBoardError("deinit", m.board.Deinit())
	return nil
}

func (m *Modem) Open() error {
	if m.flowControl {
		// The serial library has no RTS/CTS mode so the tty gets
		// configured before the port is opened
		log.Info("Modem flow control: RTS/CTS enabled", zap.String("port", m.portName))
		if err := cli.SetHardwareFlowControl(m.portName, true); err != nil {
			log.Warn("could not enable flow control, continuing without", zap.Error(err))
		}
	}

	s, err := serial.Open(m.portName, m.serConf)
	if err != nil {
		log.Error("error while opening serial device", zap.String("port", m.portName), zap.Error(err))
		return err
	}

	// Set read timeout
	_ = s.SetReadTimeout(m.probeTimeout)

	// Assign serial port
	m.serPort = s

	return nil
}

func (m *Modem) Close() error {
	if m.serPort == nil {
		return nil
	}

	err := m.serPort.Close()
	m.serPort = nil
	return err
}

func (m *Modem) initialized() error {
	if m.serPort == nil {
		return errors.New("serial port not ready")
	}

	return nil
}

// readSerial
func (m *Modem) readSerial(n int) (string, error) {
	buf := make([]byte, n)
	_, readRes := m.serPort.Read(buf)
	if readRes != nil {
		log.Error("serial read failed", zap.Int("n", n))
		return "", readRes
	}

	return modem.MSTR(buf), nil
}

// writeSerial
func (m *Modem) writeSerial(data string) error {
	_, err := m.serPort.Write([]byte(data + "\r\n"))
	return err
}

// writeSerialWithResult
func (m *Modem) writeSerialWithResult(data string, expectedResult string) error {
	log.Debug("Writing serial data with result", zap.String("data", data))
	writeRes := m.writeSerial(data)
	if writeRes != nil {
		return writeRes
	}

	// Read 128 bytes, the result reader is for basic stuff like ERROR or OK
	strBuf, readRes := m.readSerial(128)
	if readRes != nil {
		return errors.New("serial reading failed")
	}

	if expectedResult != strBuf {
		log.Error("serial write with result failed", zap.String("expected", expectedResult), zap.String("received", strBuf))
		return errors.New("serial write with result failed")
	}

	return nil
}

// Ping probes the management port, a single liveness check and not a
// protocol conversation
func (m *Modem) Ping() error {
	if err := m.initialized(); err != nil {
		return err
	}

	return m.writeSerialWithResult(AtProbe, AtReplyOk)
}
