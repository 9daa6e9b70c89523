package core

// Process exit codes. Signal-based exits follow the Unix 128+signal
// convention. Partial completion is a reported outcome, not an error, so
// it still exits 0.
const (
	// ExitCodeSuccess: run finished (complete or partial completion)
	ExitCodeSuccess = 0

	// ExitCodeError: startup or wiring failure before the run could start
	ExitCodeError = 1

	// ExitCodeSIGINT: interrupted by Ctrl+C (128 + 2)
	ExitCodeSIGINT = 130

	// ExitCodeSIGTERM: terminated (128 + 15)
	ExitCodeSIGTERM = 143
)

// ExitCodeName returns a human-readable name for an exit code.
func ExitCodeName(code int) string {
	switch code {
	case ExitCodeSuccess:
		return "success"
	case ExitCodeError:
		return "error"
	case ExitCodeSIGINT:
		return "interrupted (SIGINT)"
	case ExitCodeSIGTERM:
		return "terminated (SIGTERM)"
	default:
		return "unknown"
	}
}

// IsSignalExit reports whether the exit code came from a signal.
func IsSignalExit(code int) bool {
	return code == ExitCodeSIGINT || code == ExitCodeSIGTERM
}
