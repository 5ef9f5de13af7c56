// Package report pushes modem status documents to the fleet endpoint.
package report

import (
	"crypto/tls"
	"fmt"
	"time"

	"github.com/dragonfly-cell/modemd/internal/modemd/config"
	"github.com/dragonfly-cell/modemd/pkg/log"
	"github.com/google/uuid"
	"github.com/imroc/req/v3"
	"go.uber.org/zap"
)

const (
	RequestTimeout          = 30 * time.Second
	RequestRetryMinWaitTime = 1 * time.Second
	RequestRetryMaxWaitTime = 10 * time.Second
)

type Reporter struct {
	client *req.Client

	// Fixed for the daemon lifetime, lets the fleet correlate reports
	sessionID string

	conf *config.Manager
	cm   *config.ReportingConfigManager
}

func NewReporter(conf *config.Manager, debug bool) (*Reporter, error) {
	r := Reporter{}
	r.conf = conf
	r.cm = conf.Reporting()
	r.sessionID = uuid.NewString()

	//set up the connection
	r.client = req.C()

	if debug {
		r.client.EnableDebugLog()
	}

	// Get a copy of the reporting config
	repConf := r.cm.C()

	// Set up the api base-url
	r.client.SetBaseURL(repConf.Url)

	// Set up the certificate and authentication
	rootCert := repConf.RootCertificate
	if len(rootCert) > 0 {
		r.client.SetRootCertsFromFile(rootCert)
	}

	if repConf.Auth.Bearer != nil {
		// Reject tokens that are already expired, the server would only
		// bounce every request
		if err := ValidateToken(repConf.Auth.Bearer.Token); err != nil {
			log.Error("bearer token validation failed", zap.NamedError("reason", err))
			return nil, fmt.Errorf("trying to use bearer authentication with an invalid token")
		}

		log.Info("using bearer authorization")
		r.client.SetCommonBearerAuthToken(repConf.Auth.Bearer.Token)
	} else if repConf.Auth.Basic != nil {
		username, password := repConf.Auth.Basic.Credentials()
		log.Info("using basic auth mechanism", zap.String("username", username))
		r.client.SetCommonBasicAuth(username, password)
	} else {
		log.Warn("no/invalid reporting authentication scheme specified")
	}

	if repConf.AllowInsecure {
		// Skip TLS verification upon request
		r.client.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})

		log.Warn("!WARNING WARNING WARNING! DISABLED TLS CERTIFICATE VERIFICATION! !WARNING WARNING WARNING!")
	}

	// Some connection configurations
	r.client.SetTimeout(RequestTimeout)
	r.client.SetCommonRetryCount(3)
	r.client.SetCommonRetryBackoffInterval(RequestRetryMinWaitTime, RequestRetryMaxWaitTime)

	return &r, nil
}

func (r *Reporter) GetBaseURL() string {
	if r.client == nil {
		log.Panic("no client, cant get base url")
	}

	return r.client.BaseURL
}

// GetClient Use this for tests to set the transport to mock
func (r *Reporter) GetClient() *req.Client {
	return r.client
}

func (r *Reporter) SessionID() string {
	return r.sessionID
}

// NewStatus pre-fills the identity fields of a status document
func (r *Reporter) NewStatus(state PowerState) ModemStatus {
	return ModemStatus{
		DeviceName: r.conf.DeviceName(),
		SessionID:  r.sessionID,
		State:      state,
		Timestamp:  time.Now().UTC(),
	}
}

// PutModemStatus uploads the status document for this device
func (r *Reporter) PutModemStatus(status ModemStatus) error {
	resp, err := r.client.R().
		SetHeader("Content-Type", "application/json").
		SetBody(status).
		Put("modems/update/" + r.conf.DeviceName())

	return ErrorFromResponse(err, resp)
}
