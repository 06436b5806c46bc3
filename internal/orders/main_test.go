package orders

import (
	"os"
	"testing"

	_ "github.com/orderdesk/orderdesk/internal/testing/guard"
)

func TestMain(m *testing.M) {
	os.Exit(m.Run())
}
