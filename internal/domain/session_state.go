package domain

// SessionState modela el ciclo de vida de una sesion.
type SessionState int

const (
	// SessionLoading: la restauracion desde el slot durable no termino.
	SessionLoading SessionState = iota
	SessionUnauthenticated
	SessionAuthenticated
)

func (s SessionState) String() string {
	switch s {
	case SessionLoading:
		return "loading"
	case SessionUnauthenticated:
		return "unauthenticated"
	case SessionAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}
