package services

import (
	"context"
	"fmt"
	"os"
	"testing"

	"storefront/config"
	"storefront/db"
)

// TestMain connects to the configured database when STOREFRONT_TEST_DB=1 so
// the integration tests run; otherwise they skip.
func TestMain(m *testing.M) {
	if os.Getenv("STOREFRONT_TEST_DB") == "1" {
		cfg, err := config.Load()
		if err == nil {
			err = db.Init(context.Background(), cfg.DB)
		}
		if err != nil {
			fmt.Fprintln(os.Stderr, "test db:", err)
		}
	}
	code := m.Run()
	db.Close()
	os.Exit(code)
}
