package api_common

// Debuggable decides whether responses carry internal error detail. config.C satisfies it.
type Debuggable interface {
	IsDebugMode() bool
}

type staticDebuggable bool

func (d staticDebuggable) IsDebugMode() bool { return bool(d) }

// NewDebuggable returns a Debuggable with a fixed answer. Mostly useful in tests.
func NewDebuggable(debug bool) Debuggable {
	return staticDebuggable(debug)
}
