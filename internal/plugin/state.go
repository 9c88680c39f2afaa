package plugin

// State is a check status. The numeric value is the process exit code.
type State int

const (
	OK State = iota
	Warning
	Critical
	Unknown
)

func (s State) String() string {
	switch s {
	case OK:
		return "OK"
	case Warning:
		return "WARNING"
	case Critical:
		return "CRITICAL"
	default:
		return "UNKNOWN"
	}
}

// Worst returns the state with the highest code. UNKNOWN outranks CRITICAL.
func Worst(states ...State) State {
	w := OK
	for _, s := range states {
		if s > w {
			w = s
		}
	}
	return w
}
