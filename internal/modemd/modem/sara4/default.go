package sara4

import (
	"sync"

	"github.com/dragonfly-cell/modemd/internal/modemd/board"
)

var (
	defaultOnce   sync.Once
	defaultDevice *Modem
)

// DefaultDevice returns the process-lifetime device handle. The instance
// is constructed lazily on the first call, concurrent first calls are
// safe, and every later call returns the identical handle with its
// arguments ignored. The handle is never destroyed.
func DefaultDevice(boardCtl board.PowerController, opts Options) *Modem {
	defaultOnce.Do(func() {
		defaultDevice = Create(boardCtl, opts)
	})

	return defaultDevice
}
