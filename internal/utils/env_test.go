package utils

import (
	"testing"
	"time"
)

func TestSafeEnv(t *testing.T) {
	const key = "_NEUROSCREEN_TEST_SAFEENV"
	t.Setenv(key, "")
	if got := SafeEnv(key, "fallback"); got != "fallback" {
		t.Fatalf("expected fallback, got %q", got)
	}
	t.Setenv(key, "value")
	if got := SafeEnv(key, "fallback"); got != "value" {
		t.Fatalf("expected 'value', got %q", got)
	}
}

func TestTypedEnv(t *testing.T) {
	t.Setenv("_NS_INT", "42")
	t.Setenv("_NS_BAD_INT", "forty")
	t.Setenv("_NS_BOOL", "true")
	t.Setenv("_NS_DUR", "90s")
	if got := EnvInt("_NS_INT", 1); got != 42 {
		t.Fatalf("EnvInt = %d", got)
	}
	if got := EnvInt("_NS_BAD_INT", 7); got != 7 {
		t.Fatalf("EnvInt should fall back on garbage, got %d", got)
	}
	if !EnvBool("_NS_BOOL", false) {
		t.Fatalf("EnvBool")
	}
	if got := EnvDuration("_NS_DUR", time.Second); got != 90*time.Second {
		t.Fatalf("EnvDuration = %v", got)
	}
	if got := EnvDuration("_NS_MISSING", time.Second); got != time.Second {
		t.Fatalf("EnvDuration fallback = %v", got)
	}
}
