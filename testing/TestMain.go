// Package testing switches the process into test mode when blank-imported
// by a test binary.
package testing

import (
	"os"
	"sync"
	stdtesting "testing"
)

var once sync.Once

func ensureTestMode() {
	once.Do(func() {
		_ = os.Setenv("TODO_TEST_MODE", "1")
		if os.Getenv("JWT_KEY") == "" {
			_ = os.Setenv("JWT_KEY", "test-signing-key-0123456789abcdef")
		}
		if os.Getenv("ALLOWED_ORIGINS") == "" {
			_ = os.Setenv("ALLOWED_ORIGINS", "http://localhost:3000")
		}
	})
}

func init() {
	ensureTestMode()
}

func TestMain(m *stdtesting.M) {
	ensureTestMode()
	os.Exit(m.Run())
}
