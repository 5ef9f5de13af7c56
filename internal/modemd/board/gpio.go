package board

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/dragonfly-cell/modemd/internal/modemd/config"
	"github.com/dragonfly-cell/modemd/pkg/log"
	"go.uber.org/zap"
)

// gpioController drives the modem PWR_ON line through the kernel sysfs
// gpio interface. The PWR_ON key of the SARA-R4 is pulsed low, pulse
// length decides between power up and power down.
type gpioController struct {
	gpio *config.GPIOSettings
}

func newGPIOController(gpio *config.GPIOSettings) *gpioController {
	return &gpioController{gpio: gpio}
}

func (g *gpioController) Name() string {
	return "gpio"
}

func (g *gpioController) linePath(line int, file string) string {
	return filepath.Join(g.gpio.BasePath, fmt.Sprintf("gpio%d", line), file)
}

func (g *gpioController) writeFile(path string, value string) error {
	if err := os.WriteFile(path, []byte(value), 0644); err != nil {
		return NewLineUnavailableError(fmt.Sprintf("writing %q to %s: %s", value, path, err))
	}
	return nil
}

// exportLine makes the line available and configures it as output high,
// PWR_ON is active low
func (g *gpioController) exportLine(line int) error {
	exportPath := filepath.Join(g.gpio.BasePath, "export")

	if err := g.writeFile(exportPath, strconv.Itoa(line)); err != nil {
		// Already exported lines report EBUSY, thats okay
		if _, statErr := os.Stat(g.linePath(line, "value")); statErr != nil {
			return err
		}
	}

	return g.writeFile(g.linePath(line, "direction"), "high")
}

func (g *gpioController) unexportLine(line int) error {
	return g.writeFile(filepath.Join(g.gpio.BasePath, "unexport"), strconv.Itoa(line))
}

// pulse drives the line low for the given duration and releases it again
func (g *gpioController) pulse(line int, duration time.Duration) error {
	valuePath := g.linePath(line, "value")

	if err := g.writeFile(valuePath, "0"); err != nil {
		return err
	}

	time.Sleep(duration)

	return g.writeFile(valuePath, "1")
}

func (g *gpioController) Init() error {
	if err := g.exportLine(g.gpio.PowerLine); err != nil {
		return err
	}

	// The reset line is optional
	if g.gpio.ResetLine > 0 {
		if err := g.exportLine(g.gpio.ResetLine); err != nil {
			return err
		}
	}

	log.Debug("board gpio lines exported", zap.Int("power_line", g.gpio.PowerLine))
	return nil
}

func (g *gpioController) PowerUp() error {
	log.Info("pulsing modem power key for power up",
		zap.Int("line", g.gpio.PowerLine),
		zap.Duration("pulse", g.gpio.PowerOnPulse.Value()))

	return g.pulse(g.gpio.PowerLine, g.gpio.PowerOnPulse.Value())
}

func (g *gpioController) PowerDown() error {
	log.Info("pulsing modem power key for power down",
		zap.Int("line", g.gpio.PowerLine),
		zap.Duration("pulse", g.gpio.PowerOffPulse.Value()))

	return g.pulse(g.gpio.PowerLine, g.gpio.PowerOffPulse.Value())
}

func (g *gpioController) Deinit() error {
	if g.gpio.ResetLine > 0 {
		if err := g.unexportLine(g.gpio.ResetLine); err != nil {
			return err
		}
	}

	return g.unexportLine(g.gpio.PowerLine)
}
