package timing

// DiagnosticFlags are the arguments that turn timing output on.
var DiagnosticFlags = []string{"-show-timings", "--timers"}

// Enabled reports whether timings should print for an invocation with args.
func Enabled(args []string) bool {
	if BuildVariant {
		return true
	}
	for _, a := range args {
		for _, f := range DiagnosticFlags {
			if a == f {
				return true
			}
		}
	}
	return false
}
