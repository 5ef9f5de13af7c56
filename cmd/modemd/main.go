package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/dragonfly-cell/modemd/internal/modemd"
	"github.com/dragonfly-cell/modemd/internal/modemd/report"
	"github.com/dragonfly-cell/modemd/internal/modemd/usbwatch"
	"github.com/dragonfly-cell/modemd/pkg/log"
	"github.com/dragonfly-cell/modemd/pkg/misc"
	"github.com/dragonfly-cell/modemd/pkg/systemd"
	"go.uber.org/zap"
)

const (
	MODEM_START_RETRY_COUNT = 5               // Try 5 times
	MODEM_START_RETRY_WAIT  = 5 * time.Second // Wait time between each try

	// The module populated on this board
	OnboardModem = usbwatch.ModemSARAR410M
)

// reportStatus pushes the current modem state to the fleet, a nil
// reporter (reporting disabled) makes this a no-op
func reportStatus(app *modemd.App, state report.PowerState) {
	if app.Reporter == nil {
		return
	}

	status := app.Reporter.NewStatus(state)
	status.UsbAttached = app.UsbWatcher.DeviceAttached(OnboardModem)

	if enabled, err := app.WwanService.RadioEnabled(); err == nil {
		status.RadioEnabled = enabled
	}

	if err := app.Modem.LastBoardError(); err != nil {
		status.LastBoardError = err.Error()
	}

	if err := app.Reporter.PutModemStatus(status); err != nil {
		log.Error("unable to push modem status to the fleet", zap.Error(err))
	}
}

// startModem powers the module on and verifies the outcome, the power
// entry points report success unconditionally so enumeration and the
// liveness probe are the real signal
func startModem(app *modemd.App) error {
	usbWait := app.Conf.Modem().C().UsbWait.Value()

	for attempts := 0; attempts < MODEM_START_RETRY_COUNT; attempts++ {
		if attempts > 0 {
			time.Sleep(MODEM_START_RETRY_WAIT)
		}

		_ = app.Modem.PowerOn()

		ctx, cancel := context.WithTimeout(context.Background(), usbWait+time.Second)
		err := app.UsbWatcher.WaitForDevice(ctx, OnboardModem, usbWait)
		cancel()
		if err != nil {
			log.Warn("modem did not enumerate after power up", zap.Error(err))
			continue
		}

		if err = app.Modem.Open(); err != nil {
			log.Error("Failed to open modem management port", zap.Error(err))
			continue
		}

		if err = app.Modem.Ping(); err != nil {
			log.Error("modem liveness probe failed", zap.Error(err))
			_ = app.Modem.Close()
			continue
		}

		log.Info("modem powered on and responding")
		return nil
	}

	return misc.NewRetriesExhaustedError("modem power on", MODEM_START_RETRY_COUNT)
}

func main() {
	app, err := modemd.Setup(false)
	if err != nil || app == nil {
		fmt.Printf("Initialization failed, error: %s\n", err)
		os.Exit(1)
	}

	EXIT_CODE := 0
	powerState := report.PowerStateOff

	if app.Conf.Modem().C().Autostart.Load() {
		if err := startModem(app); err != nil {
			log.Error("could not bring up the modem, exiting", zap.Error(err))
			reportStatus(app, report.PowerStateUnknown)
			app.Shutdown()
			os.Exit(1)
		}

		powerState = report.PowerStateOn

		if err := app.WwanService.SetRadioEnabled(true); err != nil {
			log.Error("could not enable the WWAN radio", zap.Error(err))
		}
	} else {
		log.Info("autostart disabled, leaving the modem powered off")
	}

	// Not running under systemd is fine, the notify socket is optional
	_ = systemd.MarkReady()

	reportStatus(app, powerState)

	interval := app.Conf.Reporting().C().Interval.Value()
	if interval == 0 {
		interval = 30 * time.Second
	}

	statusTicker := time.NewTicker(interval)
	app.WG.Add(1)

	go func() {
		TerminateLoop := func() {
			statusTicker.Stop()
			app.WG.Done()
		}

		for {
			select {
			case <-statusTicker.C:
				_ = systemd.EntertainWatchdog()

				reportStatus(app, powerState)

			case <-app.ReloadSignal:
				log.Info("reload signal received, refreshing status")

				_ = systemd.EntertainWatchdog()
				reportStatus(app, powerState)

			case <-app.ExitSignal:
				log.Info("exit signal received - shutting down")

				_ = systemd.EntertainWatchdog()
				TerminateLoop()
				return
			}
		}
	}()

	// Wait until everything terminates
	app.WG.Wait()

	_ = systemd.MarkStopping()

	// Ordered teardown: radio off, then the board power-down sequence
	if powerState == report.PowerStateOn {
		if err := app.WwanService.SetRadioEnabled(false); err != nil {
			log.Error("could not disable the WWAN radio", zap.Error(err))
		}

		_ = app.Modem.PowerOff()
		reportStatus(app, report.PowerStateOff)
	}

	// Shutdown everything
	app.Shutdown()

	log.Info("modem supervisor stopped")

	os.Exit(EXIT_CODE)
}
