package config

type SessionConfig interface {
	GetStoragePath() string
	GetDiagnosticMirror() bool
}

type Session struct{}

var _ SessionConfig = Session{}

func (Session) GetStoragePath() string {
	return GetEnv("STORAGE_PATH", "./data/session.db")
}

// GetDiagnosticMirror controls whether renewed access tokens are also written to the
// legacy diagnostic slot.
func (Session) GetDiagnosticMirror() bool {
	return GetBool("DIAGNOSTIC_MIRROR", true)
}
