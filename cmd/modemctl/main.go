// modemctl is a one-shot bring-up tool, it runs a single power or probe
// operation against the onboard modem and exits.
package main

import (
	"flag"
	"os"

	"github.com/dragonfly-cell/modemd/internal/modemd/board"
	"github.com/dragonfly-cell/modemd/internal/modemd/config"
	"github.com/dragonfly-cell/modemd/internal/modemd/modem/sara4"
	"github.com/dragonfly-cell/modemd/internal/modemd/usbwatch"
	"github.com/dragonfly-cell/modemd/pkg/log"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", config.DefaultConfigPath, "relative or absolute path to the config file")
	debug := flag.Bool("debug", true, "true if the debug logging should be enabled")
	op := flag.String("op", "status", "operation to run: on, off, probe, status")
	flag.Parse()

	log.Init(*debug)

	conf := config.NewManager()
	if err := conf.Load(*configPath, true); err != nil {
		log.Fatal("could not load configuration", zap.String("path", *configPath), zap.Error(err))
	}

	boardCtl, err := board.NewPowerController(conf.Board().C())
	if err != nil {
		log.Fatal("could not build the board power controller", zap.Error(err))
	}

	modemConf := conf.Modem().C()
	dev := sara4.DefaultDevice(boardCtl, sara4.Options{
		Port:         modemConf.Port,
		BaudRate:     modemConf.BaudRate,
		FlowControl:  modemConf.FlowControl,
		ProbeTimeout: modemConf.ProbeTimeout.Value(),
	})

	switch *op {
	case "on":
		_ = dev.PowerOn()
		if err := dev.LastBoardError(); err != nil {
			log.Warn("power on sequence ran but a board step failed", zap.Error(err))
		} else {
			log.Info("power on sequence completed")
		}

	case "off":
		_ = dev.PowerOff()
		if err := dev.LastBoardError(); err != nil {
			log.Warn("power off sequence ran but a board step failed", zap.Error(err))
		} else {
			log.Info("power off sequence completed")
		}

	case "probe":
		if err := dev.Open(); err != nil {
			log.Fatal("could not open the management port", zap.Error(err))
		}
		defer dev.Close()

		if err := dev.Ping(); err != nil {
			log.Error("modem did not respond", zap.Error(err))
			os.Exit(1)
		}
		log.Info("modem is responding")

	case "status":
		watcher := usbwatch.NewWatcher()
		defer watcher.Shutdown()

		attached := watcher.FindSupportedDevices()
		if len(attached) == 0 {
			log.Info("no supported modem enumerated on usb")
			return
		}

		for _, d := range attached {
			log.Info("modem attached", zap.String("device", d.String()))
		}

	default:
		log.Fatal("unknown operation", zap.String("op", *op))
	}
}
