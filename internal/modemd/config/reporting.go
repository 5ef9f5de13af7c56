package config

import (
	"errors"
	"net/url"
	"time"
)

const DefaultReportingInterval = 30 * time.Second

type AuthBasicSettings struct {
	Username string `toml:"username,omitempty"`
	Password string `toml:"password" comment:"required for basic authentication"`
}

func (a *AuthBasicSettings) Credentials() (string, string) {
	return a.Username, a.Password
}

type AuthBearerSettings struct {
	Token string `toml:"token" comment:"bearer token presented to the fleet endpoint"`
}

type AuthSettings struct {
	Basic  *AuthBasicSettings  `toml:"basic,omitempty"`
	Bearer *AuthBearerSettings `toml:"bearer,omitempty" comment:"Bearer authentication settings"`
}

// Config contains the fleet status reporting options
type ReportingConfig struct {
	Auth            AuthSettings `toml:"auth"`
	RootCertificate string       `toml:"root_certificate,omitempty"`
	Url             string       `toml:"url"`
	Interval        TOMLDuration `toml:"interval,omitempty"`
	AllowInsecure   bool         `toml:"allow_insecure,omitempty"`
	Disabled        bool         `toml:"disabled,omitempty"`
}

type ReportingConfigManager struct {
	BaseConfigManager[ReportingConfig]
}

// Verify verifies the "hard" conditions that the rest of the code relies on
func (a *ReportingConfigManager) Verify() error {
	// Nothing to check when reporting is off
	if a.conf.Disabled {
		return nil
	}

	// No endpoint configured means reporting stays off
	if a.conf.Url == "" {
		a.conf.Disabled = true
		return nil
	}

	if _, err := url.Parse(a.conf.Url); err != nil {
		return err
	}

	// Verify that auth basic contains a password
	if a.conf.Auth.Basic != nil && a.conf.Auth.Basic.Password == "" {
		return errors.New("empty password for auth basic")
	}

	if a.conf.Auth.Bearer != nil && a.conf.Auth.Bearer.Token == "" {
		return errors.New("bearer auth enabled but no token specified")
	}

	if a.conf.Interval.Value() == 0 {
		a.conf.Interval = TOMLDuration(DefaultReportingInterval)
	}

	return nil
}

func NewReportingConfigManager(config *ReportingConfig, mgr *Manager) *ReportingConfigManager {
	r := ReportingConfigManager{}
	r.conf = config
	r.mgr = mgr

	return &r
}
