package board

// stubController is used on boards without modem power control and by
// tests, every entry point succeeds without touching hardware
type stubController struct{}

func (s *stubController) Name() string {
	return "stub"
}

func (s *stubController) Init() error {
	return nil
}

func (s *stubController) PowerUp() error {
	return nil
}

func (s *stubController) PowerDown() error {
	return nil
}

func (s *stubController) Deinit() error {
	return nil
}
