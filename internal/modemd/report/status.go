package report

import "time"

// PowerState of the modem as seen by the supervisor
type PowerState string

const (
	PowerStateUnknown PowerState = "unknown"
	PowerStateOn      PowerState = "powered_on"
	PowerStateOff     PowerState = "powered_off"
)

// ModemStatus is the document pushed to the fleet endpoint
type ModemStatus struct {
	// DeviceName identifies the gateway
	DeviceName string `json:"device_name"`
	// SessionID is fixed for one daemon lifetime
	SessionID string `json:"session_id"`

	State PowerState `json:"state"`
	// UsbAttached reports whether the modem enumerated on the usb bus
	UsbAttached bool `json:"usb_attached"`
	// RadioEnabled mirrors the NetworkManager WWAN switch
	RadioEnabled bool `json:"radio_enabled"`

	// LastBoardError carries the most recent swallowed power-control
	// failure, empty when the sequence was clean
	LastBoardError string `json:"last_board_error,omitempty"`

	Timestamp time.Time `json:"timestamp"`
}
