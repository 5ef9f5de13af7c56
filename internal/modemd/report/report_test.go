package report

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dragonfly-cell/modemd/internal/modemd/config"
	"github.com/dragonfly-cell/modemd/pkg/log"
	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	log.Init(true)
	os.Exit(m.Run())
}

func signedToken(t *testing.T, claims gojwt.RegisteredClaims) string {
	t.Helper()
	token, err := gojwt.NewWithClaims(gojwt.SigningMethodHS256, claims).SignedString([]byte("test-key"))
	require.NoError(t, err)
	return token
}

func setupConfig(t *testing.T, auth string) *config.Manager {
	t.Helper()

	content := `
[client]
device_name = "dragonfly-gw-01"

[reporting]
url = "https://fleet.example.com/api/"
` + auth

	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	mgr := config.NewManager()
	require.NoError(t, mgr.Load(path, false))
	return mgr
}

func setupReporter(t *testing.T) *Reporter {
	t.Helper()

	conf := setupConfig(t, "[reporting.auth.basic]\nusername = \"gw\"\npassword = \"secret\"\n")

	reporter, err := NewReporter(conf, true)
	require.NoError(t, err)

	httpmock.ActivateNonDefault(reporter.GetClient().GetClient())
	t.Cleanup(httpmock.DeactivateAndReset)

	return reporter
}

func TestPutModemStatus(t *testing.T) {
	reporter := setupReporter(t)

	var received ModemStatus
	httpmock.RegisterResponder("PUT", reporter.GetBaseURL()+"modems/update/dragonfly-gw-01",
		func(req *http.Request) (*http.Response, error) {
			require.NoError(t, json.NewDecoder(req.Body).Decode(&received))
			return httpmock.NewStringResponse(200, ""), nil
		})

	status := reporter.NewStatus(PowerStateOn)
	status.UsbAttached = true
	status.RadioEnabled = true

	require.NoError(t, reporter.PutModemStatus(status))

	assert.Equal(t, "dragonfly-gw-01", received.DeviceName)
	assert.Equal(t, reporter.SessionID(), received.SessionID)
	assert.Equal(t, PowerStateOn, received.State)
	assert.True(t, received.UsbAttached)
	assert.True(t, received.RadioEnabled)
	assert.Empty(t, received.LastBoardError)
	assert.False(t, received.Timestamp.IsZero())
}

func TestPutModemStatusServerError(t *testing.T) {
	reporter := setupReporter(t)

	httpmock.RegisterResponder("PUT", reporter.GetBaseURL()+"modems/update/dragonfly-gw-01",
		httpmock.NewStringResponder(500, "boom"))

	err := reporter.PutModemStatus(reporter.NewStatus(PowerStateOff))
	assert.ErrorIs(t, err, &ResponseError{})
}

func TestNewReporterRejectsExpiredBearer(t *testing.T) {
	expired := signedToken(t, gojwt.RegisteredClaims{
		ExpiresAt: gojwt.NewNumericDate(time.Now().Add(-time.Hour)),
	})

	conf := setupConfig(t, "[reporting.auth.bearer]\ntoken = \""+expired+"\"\n")

	_, err := NewReporter(conf, true)
	assert.Error(t, err)
}

func TestNewReporterAcceptsValidBearer(t *testing.T) {
	token := signedToken(t, gojwt.RegisteredClaims{
		ExpiresAt: gojwt.NewNumericDate(time.Now().Add(time.Hour)),
	})

	conf := setupConfig(t, "[reporting.auth.bearer]\ntoken = \""+token+"\"\n")

	reporter, err := NewReporter(conf, true)
	require.NoError(t, err)
	assert.NotEmpty(t, reporter.SessionID())
}

func TestValidateToken(t *testing.T) {
	tests := []struct {
		name    string
		token   func(t *testing.T) string
		wantErr error
	}{
		{
			name:    "missing token",
			token:   func(t *testing.T) string { return "" },
			wantErr: ErrTokenMissing,
		},
		{
			name: "expired token",
			token: func(t *testing.T) string {
				return signedToken(t, gojwt.RegisteredClaims{
					ExpiresAt: gojwt.NewNumericDate(time.Now().Add(-time.Minute)),
				})
			},
			wantErr: gojwt.ErrTokenExpired,
		},
		{
			name: "not yet valid token",
			token: func(t *testing.T) string {
				return signedToken(t, gojwt.RegisteredClaims{
					NotBefore: gojwt.NewNumericDate(time.Now().Add(time.Hour)),
					ExpiresAt: gojwt.NewNumericDate(time.Now().Add(2 * time.Hour)),
				})
			},
			wantErr: gojwt.ErrTokenNotValidYet,
		},
		{
			name: "valid token",
			token: func(t *testing.T) string {
				return signedToken(t, gojwt.RegisteredClaims{
					ExpiresAt: gojwt.NewNumericDate(time.Now().Add(time.Hour)),
				})
			},
			wantErr: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateToken(tt.token(t))
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestValidateTokenGarbage(t *testing.T) {
	assert.Error(t, ValidateToken("not-a-jwt"))
}
