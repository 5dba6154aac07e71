package debug

import (
	"io"
	"os"
	"sync"

	"github.com/hashicorp/go-hclog"
)

var (
	mu      sync.RWMutex
	enabled bool
	noColor bool
	output  io.Writer = os.Stderr
	root    hclog.Logger
)

// SetDebug enables or disables debug mode
func SetDebug(enable bool) {
	mu.Lock()
	defer mu.Unlock()
	enabled = enable
	root = nil
}

// IsEnabled returns whether debug mode is enabled
func IsEnabled() bool {
	mu.RLock()
	defer mu.RUnlock()
	return enabled
}

// SetNoColor enables or disables colored output
func SetNoColor(disable bool) {
	mu.Lock()
	defer mu.Unlock()
	noColor = disable
	root = nil
}

// SetOutput redirects debug output. Used by tests.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	if w == nil {
		w = os.Stderr
	}
	output = w
	root = nil
}

// Logger returns the shared debug logger. When debug mode is off the
// logger is silenced but still safe to use.
func Logger() hclog.Logger {
	mu.RLock()
	l := root
	mu.RUnlock()
	if l != nil {
		return l
	}

	mu.Lock()
	defer mu.Unlock()
	if root != nil {
		return root
	}

	level := hclog.Off
	if enabled {
		level = hclog.Debug
	}
	color := hclog.AutoColor
	if noColor {
		color = hclog.ColorOff
	}
	root = hclog.New(&hclog.LoggerOptions{
		Name:       "dottmpl",
		Level:      level,
		Output:     output,
		Color:      color,
		TimeFormat: "15:04:05.000",
	})
	return root
}

// Named returns a sub-logger for a component, e.g. Named("parser").
func Named(component string) hclog.Logger {
	return Logger().Named(component)
}
