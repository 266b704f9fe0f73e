package cli

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// Exiter is the single place a tool terminates the process. Hooks registered
// with OnExit run exactly once, whichever path requested termination.
type Exiter struct {
	once  sync.Once
	hooks []func()
	exit  func(int)
}

// NewExiter creates an Exiter that terminates through exit (normally os.Exit).
func NewExiter(exit func(int)) *Exiter {
	if exit == nil {
		exit = os.Exit
	}
	return &Exiter{exit: exit}
}

// OnExit registers fn to run before termination. Hooks run in reverse
// registration order.
func (e *Exiter) OnExit(fn func()) {
	e.hooks = append(e.hooks, fn)
}

// Exit runs the hooks once and terminates with code.
func (e *Exiter) Exit(code int) {
	e.once.Do(func() {
		for i := len(e.hooks) - 1; i >= 0; i-- {
			e.hooks[i]()
		}
	})
	e.exit(code)
}

// Run calls main and exits with its status. A panic is reported on stderr
// and exits with status 1; set DEBUG=1 to let it propagate instead.
func (e *Exiter) Run(stderr io.Writer, main func() int) {
	code := 1
	defer func() {
		if r := recover(); r != nil {
			if os.Getenv("DEBUG") == "1" {
				panic(r)
			}
			fmt.Fprintf(stderr, "Internal error: %v\n", r)
			fmt.Fprintln(stderr, "This is a bug. Please report it.")
			code = 1
		}
		e.Exit(code)
	}()

	code = main()
}
