package envutil

import (
	"testing"
	"time"
)

func TestBool(t *testing.T) {
	t.Setenv("TM_FLAG", "off")
	if Bool("TM_FLAG", true) {
		t.Fatalf("expected false")
	}
	t.Setenv("TM_FLAG", "maybe")
	if !Bool("TM_FLAG", true) {
		t.Fatalf("unknown value should fall back to default")
	}
}

func TestDuration(t *testing.T) {
	t.Setenv("TM_DUR", "90")
	if got := Duration("TM_DUR", time.Second); got != 90*time.Second {
		t.Fatalf("got=%s", got)
	}
	t.Setenv("TM_DUR", "250ms")
	if got := Duration("TM_DUR", time.Second); got != 250*time.Millisecond {
		t.Fatalf("got=%s", got)
	}
}

func TestIntAndFloatFallbacks(t *testing.T) {
	t.Setenv("TM_INT", "x")
	if Int("TM_INT", 7) != 7 {
		t.Fatalf("expected default")
	}
	t.Setenv("TM_FLOAT", "0.25")
	if Float("TM_FLOAT", 1) != 0.25 {
		t.Fatalf("expected 0.25")
	}
}
