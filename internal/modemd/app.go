package modemd

import (
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dragonfly-cell/modemd/internal/modemd/board"
	"github.com/dragonfly-cell/modemd/internal/modemd/config"
	"github.com/dragonfly-cell/modemd/internal/modemd/modem/sara4"
	"github.com/dragonfly-cell/modemd/internal/modemd/report"
	"github.com/dragonfly-cell/modemd/internal/modemd/usbwatch"
	"github.com/dragonfly-cell/modemd/internal/modemd/wwan"
	"github.com/dragonfly-cell/modemd/pkg/log"
	"go.uber.org/zap"
)

// App global app struct that contains all services
type App struct {
	// A global wait group, all go routines that should
	// terminate when the application ends should be registered here
	WG sync.WaitGroup

	ReloadSignal chan os.Signal
	ExitSignal   chan os.Signal

	Conf *config.Manager

	// The fleet reporter, nil when reporting is disabled
	Reporter *report.Reporter

	WwanService wwan.Service
	UsbWatcher  *usbwatch.Watcher

	// The process lifetime modem handle
	Modem *sara4.Modem

	TestRunning bool
}

func (a *App) Shutdown() {
	if a.Modem != nil {
		_ = a.Modem.Close()
	}

	if a.WwanService != nil {
		a.WwanService.Shutdown()
	}

	if a.UsbWatcher != nil {
		a.UsbWatcher.Shutdown()
	}

	log.Sync()
}

func (a *App) loadConfiguration(configPath string, rootCert string, acceptEmptyConfig bool) error {
	// Create the new config manager and load the configuration
	a.Conf = config.NewManager()
	if err := a.Conf.Load(configPath, acceptEmptyConfig); err != nil {
		log.Error("an error occurred while trying to load the config file, trying default path", zap.String("path", configPath), zap.Error(err))
		err = a.Conf.Load(config.DefaultConfigPath, acceptEmptyConfig)
		if err != nil {
			// Only terminate if empty configs are not okay
			if !acceptEmptyConfig {
				return err
			}
		}
	}

	// Allow overwriting the root certificate
	if len(rootCert) != 0 {
		a.Conf.Reporting().Set(func(param *config.ReportingConfig) {
			param.RootCertificate = rootCert
		})
	}

	return nil
}

func startWwanService(app *App) {
	// Use the NetworkManager backend, fall back to the stub if the bus
	// or the daemon is unavailable
	svc, err := wwan.NewService(wwan.DBUS)
	if err != nil {
		log.Error("Could not initialize NetworkManager backend, falling back to stub", zap.Error(err))
		svc, _ = wwan.NewService(wwan.STUB)
	}

	app.WwanService = svc
}

func setupModem(app *App) error {
	boardCtl, err := board.NewPowerController(app.Conf.Board().C())
	if err != nil {
		return err
	}

	log.Info("board power-control driver selected", zap.String("driver", boardCtl.Name()))

	modemConf := app.Conf.Modem().C()
	app.Modem = sara4.DefaultDevice(boardCtl, sara4.Options{
		Port:         modemConf.Port,
		BaudRate:     modemConf.BaudRate,
		FlowControl:  modemConf.FlowControl,
		ProbeTimeout: modemConf.ProbeTimeout.Value(),
	})

	return nil
}

func Setup(instrumentation bool) (*App, error) {
	app := App{}

	// Skip cli flag parsing on testing
	var flags config.CLIFlags
	if !instrumentation {
		flags = config.ParseCLIFlags()
	} else {
		flags = config.CLIFlags{Debug: true}
		app.TestRunning = instrumentation
	}

	// Register a quit signal
	app.ExitSignal = make(chan os.Signal, 1)
	signal.Notify(app.ExitSignal, os.Interrupt, syscall.SIGTERM)

	// Register the reload signal
	app.ReloadSignal = make(chan os.Signal, 1)
	signal.Notify(app.ReloadSignal, syscall.SIGUSR1, syscall.SIGUSR2)

	// Initialize logger
	log.Init(flags.Debug)

	log.Info("modemd starting")

	// Load the configuration file
	err := app.loadConfiguration(flags.ConfigPath, flags.RootCert, instrumentation)
	if err != nil {
		if !instrumentation {
			app.Shutdown()
			return nil, err
		}

		// reset the error if we are running a test
		err = nil
	}

	// Dont connect to dbus when testing
	if !instrumentation {
		startWwanService(&app)
	} else {
		app.WwanService, _ = wwan.NewService(wwan.STUB)
	}

	// Build the board controller and the device singleton
	if err := setupModem(&app); err != nil {
		app.Shutdown()
		log.Error("Could not set up the modem device, aborting", zap.Error(err))
		return nil, err
	}

	if !instrumentation && !app.Conf.Reporting().C().Disabled {
		// Set up the fleet reporter
		app.Reporter, err = report.NewReporter(app.Conf, flags.Debug)
		if err != nil {
			app.Shutdown()
			log.Error("Could not initialize the fleet reporter, aborting", zap.Error(err))
			return &app, err
		}
	}

	// Setup usb and run the device scan to get startup output
	app.UsbWatcher = usbwatch.NewWatcher()
	app.UsbWatcher.FindSupportedDevices()

	return &app, err
}
