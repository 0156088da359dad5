package rules

import "fmt"

// Severity ranks how urgently an issue needs attention.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityStyle
	SeverityWarning
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityStyle:
		return "style"
	default:
		return "info"
	}
}

// ParseSeverity maps a configuration name to a severity level.
func ParseSeverity(name string) (Severity, error) {
	switch name {
	case "info":
		return SeverityInfo, nil
	case "style":
		return SeverityStyle, nil
	case "warning":
		return SeverityWarning, nil
	case "error":
		return SeverityError, nil
	}
	return SeverityInfo, fmt.Errorf("unknown severity %q", name)
}
