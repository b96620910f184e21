package app

import (
	"context"
	"testing"

	"github.com/Berguit/topical-map-app/internal/data/repos/testutil"
)

func TestHealthChecksOnlyCoverConfiguredClients(t *testing.T) {
	db := testutil.DB(t)

	checks := healthChecks(db, Clients{})
	if len(checks) != 1 {
		t.Fatalf("checks = %d, want only the database", len(checks))
	}
	check, ok := checks["database"]
	if !ok {
		t.Fatalf("database check missing")
	}
	if err := check(context.Background()); err != nil {
		t.Fatalf("database check: %v", err)
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	a := &App{Log: testutil.Logger(t)}
	a.Close()
	a.Close()
}
