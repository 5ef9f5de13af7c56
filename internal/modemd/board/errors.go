package board

type HookFailedError struct {
	msg string
}

func (h *HookFailedError) Error() string {
	return h.msg
}

func (h *HookFailedError) Is(e error) bool {
	_, ok := e.(*HookFailedError)
	return ok
}

func NewHookFailedError(msg string) error {
	return &HookFailedError{msg}
}

type LineUnavailableError struct {
	msg string
}

func (l *LineUnavailableError) Error() string {
	return l.msg
}

func (l *LineUnavailableError) Is(e error) bool {
	_, ok := e.(*LineUnavailableError)
	return ok
}

func NewLineUnavailableError(msg string) error {
	return &LineUnavailableError{msg}
}
