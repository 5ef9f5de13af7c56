package wwan

// wwanStubService keeps the daemon functional on systems without
// NetworkManager, it pretends the radio follows every request
type wwanStubService struct {
	enabled bool
}

func (s *wwanStubService) initialize() error {
	return nil
}

func (s *wwanStubService) SetRadioEnabled(enabled bool) error {
	s.enabled = enabled
	return nil
}

func (s *wwanStubService) RadioEnabled() (bool, error) {
	return s.enabled, nil
}

func (s *wwanStubService) ModemPresent() (bool, error) {
	return false, nil
}

func (s *wwanStubService) Shutdown() {}
