package utils

import "testing"

func TestT_Fallback(t *testing.T) {
	if got := T("fr", "health.ok"); got != "ok" {
		t.Fatalf("fallback to en failed: %s", got)
	}
	if got := T("hi", "no.such.key"); got != "no.such.key" {
		t.Fatalf("unknown key should echo, got %s", got)
	}
}

func TestT_HindiKeysComplete(t *testing.T) {
	for key := range translations["en"] {
		if _, ok := translations["hi"][key]; !ok {
			t.Fatalf("hi is missing %q", key)
		}
	}
}
