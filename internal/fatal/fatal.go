// Package fatal records errors that end the process. It observes; it never
// recovers.
package fatal

import (
	"encoding/json"
	"fmt"
	"os"
	"runtime/debug"
	"sync"
)

// Tag marks records written for panics and fatal errors.
const Tag = "[err-main]"

// Sink receives one record per fatal error.
type Sink interface {
	Fatal(tag, message, stack string)
}

var (
	mu   sync.Mutex
	sink Sink
)

// Install sets the sink. When crashFile is non-nil, the runtime also writes
// crash reports for panics on goroutines without a Guard to it.
func Install(s Sink, crashFile *os.File) error {
	mu.Lock()
	sink = s
	mu.Unlock()

	if crashFile != nil {
		if err := debug.SetCrashOutput(crashFile, debug.CrashOptions{}); err != nil {
			return fmt.Errorf("failed to set crash output: %w", err)
		}
	}
	return nil
}

// Guard must be deferred directly. It reports a panic to the sink and then
// panics again with the same value.
func Guard() {
	r := recover()
	if r == nil {
		return
	}
	report(Tag, panicMessage(r), debug.Stack())
	panic(r)
}

// Report records err without panicking.
func Report(tag string, err error) {
	if err == nil {
		return
	}
	report(tag, err.Error(), debug.Stack())
}

func report(tag, message string, stack []byte) {
	mu.Lock()
	s := sink
	mu.Unlock()

	if s == nil {
		fmt.Fprintf(os.Stderr, "%s %s\n", tag, message)
		return
	}
	s.Fatal(tag, message, serializeStack(stack))
}

func panicMessage(r any) string {
	switch v := r.(type) {
	case error:
		return v.Error()
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

// serializeStack returns the stack as a single JSON string literal.
func serializeStack(stack []byte) string {
	data, err := json.Marshal(string(stack))
	if err != nil {
		return fmt.Sprintf("%q", stack)
	}
	return string(data)
}
