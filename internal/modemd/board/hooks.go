package board

import (
	"fmt"
	"strings"

	"github.com/dragonfly-cell/modemd/internal/modemd/config"
	"github.com/dragonfly-cell/modemd/pkg/log"
	"github.com/dragonfly-cell/modemd/pkg/system/cli"
	"go.uber.org/zap"
)

// hookController calls into vendor supplied helper binaries, the direct
// equivalent of linking against the board support package
type hookController struct {
	hooks *config.HookSettings
}

func newHookController(hooks *config.HookSettings) *hookController {
	return &hookController{hooks: hooks}
}

func (h *hookController) Name() string {
	return "hooks"
}

func (h *hookController) run(step string, argv []string) error {
	// A missing optional hook is not an error, some boards only wire
	// init and power_up
	if len(argv) == 0 {
		log.Debug("no vendor hook configured, skipping", zap.String("step", step))
		return nil
	}

	out, err := cli.RunHook(argv)
	if err != nil {
		log.Error("vendor hook failed",
			zap.String("step", step),
			zap.String("cmd", strings.Join(argv, " ")),
			zap.ByteString("output", out),
			zap.Error(err))
		return NewHookFailedError(fmt.Sprintf("%s hook failed: %s", step, err))
	}

	log.Debug("vendor hook completed", zap.String("step", step))
	return nil
}

func (h *hookController) Init() error {
	return h.run("init", h.hooks.Init)
}

func (h *hookController) PowerUp() error {
	return h.run("power_up", h.hooks.PowerUp)
}

func (h *hookController) PowerDown() error {
	return h.run("power_down", h.hooks.PowerDown)
}

func (h *hookController) Deinit() error {
	return h.run("deinit", h.hooks.Deinit)
}
