package config

import (
	"strconv"

	"go.uber.org/atomic"
)

// AtomicBoolean wraps an atomic bool for toml marshaling so it can be
// flipped at run-time without taking the section lock. It marshals to the
// native toml bool (= true|false without quotes).
type AtomicBoolean struct {
	b *atomic.Bool
}

func (x AtomicBoolean) MarshalText() ([]byte, error) {
	if x.Load() {
		return []byte("true"), nil
	}

	return []byte("false"), nil
}

func (x *AtomicBoolean) UnmarshalText(in []byte) error {
	b, err := strconv.ParseBool(string(in))
	if err != nil {
		return err
	}

	x.b = atomic.NewBool(b)
	return nil
}

func (x *AtomicBoolean) Store(value bool) {
	if x.b == nil {
		x.b = atomic.NewBool(value)
		return
	}

	x.b.Store(value)
}

// Load returns the value, an unset boolean reads as false
func (x *AtomicBoolean) Load() bool {
	if x.b == nil {
		return false
	}

	return x.b.Load()
}
