// Package guard forces test mode on for any test binary that imports it,
// so the server entrypoint refuses to start against real infrastructure.
package guard

import (
	"os"
	"sync"
)

var once sync.Once

func init() {
	once.Do(func() {
		if os.Getenv("ORDERDESK_TEST_MODE") == "" {
			_ = os.Setenv("ORDERDESK_TEST_MODE", "1")
		}
	})
}
