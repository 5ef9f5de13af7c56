// sample_conf writes a fully populated config.toml to seed new boards.
package main

import (
	"os"
	"time"

	"github.com/dragonfly-cell/modemd/internal/modemd/config"
	"github.com/dragonfly-cell/modemd/pkg/log"
	"github.com/pelletier/go-toml/v2"
	"go.uber.org/zap"
)

func defaultConfig() *config.MainConfig {
	cf := config.New()

	cf.Client = config.ClientConfig{
		DeviceName: "dragonfly-gw",
		Debug:      false,
	}

	cf.Modem = config.ModemConfig{
		Port:         config.DefaultModemPort,
		BaudRate:     config.DefaultModemBaudRate,
		FlowControl:  true,
		ProbeTimeout: config.TOMLDuration(config.DefaultProbeTimeout),
		UsbWait:      config.TOMLDuration(config.DefaultUsbWait),
	}
	cf.Modem.Autostart.Store(true)

	cf.Board = config.BoardConfig{
		Driver: config.BoardDriverGPIO,
		GPIO: &config.GPIOSettings{
			BasePath:      "/sys/class/gpio",
			PowerLine:     42,
			PowerOnPulse:  config.TOMLDuration(200 * time.Millisecond),
			PowerOffPulse: config.TOMLDuration(1600 * time.Millisecond),
		},
		Hooks: &config.HookSettings{
			Init:      []string{"mdm-helper", "init"},
			PowerUp:   []string{"mdm-helper", "up"},
			PowerDown: []string{"mdm-helper", "down"},
			Deinit:    []string{"mdm-helper", "deinit"},
		},
	}

	cf.Reporting = config.ReportingConfig{
		Url:      "https://fleet.example.com/api/",
		Interval: config.TOMLDuration(config.DefaultReportingInterval),
		Auth: config.AuthSettings{
			Basic: &config.AuthBasicSettings{
				Username: "dragonfly-gw",
				Password: "changeme",
			},
		},
	}

	return cf
}

func main() {
	log.Init(true)

	defaultConfigBytes, err := toml.Marshal(defaultConfig())
	if err != nil {
		panic(err)
	}

	if err := os.WriteFile("./config.toml", defaultConfigBytes, 0644); err != nil {
		log.Error("Failed to write config file", zap.Error(err))
		panic(err)
	}

	log.Info("sample configuration written", zap.String("path", "./config.toml"))
}
