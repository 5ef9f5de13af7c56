package modem

import (
	"bytes"
	"strings"
)

// Device is the surface the daemon works against, one implementation per
// modem module family
type Device interface {
	// PowerOn runs the board power-up sequence
	PowerOn() error
	// PowerOff runs the board power-down sequence
	PowerOff() error

	// Open the modem management connection
	Open() error
	// Close tears down the management connection
	Close() error

	// Ping probes the management port for liveness
	Ping() error
}

// ByteSliceToStr converts a byte slice to string
func ByteSliceToStr(s []byte) string {
	n := bytes.IndexByte(s, 0)
	if n >= 0 {
		s = s[:n]
	}
	return string(s)
}

func TrimCRLF(s string) string {
	return strings.Trim(s, "\r\n")
}

func MSTR(b []byte) string {
	return TrimCRLF(ByteSliceToStr(b))
}
