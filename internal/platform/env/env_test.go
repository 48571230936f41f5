package env

import (
	"testing"
	"time"
)

func TestString_Default(t *testing.T) {
	got := String("KALIBRA_ENV_STRING_MISSING", "fallback")
	if got != "fallback" {
		t.Fatalf("String()=%q, want fallback", got)
	}
}

func TestString_Override(t *testing.T) {
	t.Setenv("KALIBRA_ENV_STRING_KEY", "value")
	got := String("KALIBRA_ENV_STRING_KEY", "fallback")
	if got != "value" {
		t.Fatalf("String()=%q, want value", got)
	}
}

func TestBool_Default(t *testing.T) {
	got, err := Bool("KALIBRA_ENV_BOOL_MISSING", true)
	if err != nil {
		t.Fatalf("Bool() err=%v", err)
	}
	if !got {
		t.Fatalf("Bool()=%v, want true", got)
	}
}

func TestBool_Invalid(t *testing.T) {
	t.Setenv("KALIBRA_ENV_BOOL_KEY", "nope")
	if _, err := Bool("KALIBRA_ENV_BOOL_KEY", false); err == nil {
		t.Fatalf("Bool() expected error")
	}
}

func TestInt_Override(t *testing.T) {
	t.Setenv("KALIBRA_ENV_INT_KEY", "17")
	got, err := Int("KALIBRA_ENV_INT_KEY", 42)
	if err != nil {
		t.Fatalf("Int() err=%v", err)
	}
	if got != 17 {
		t.Fatalf("Int()=%v, want 17", got)
	}
}

func TestDuration_Override(t *testing.T) {
	t.Setenv("KALIBRA_ENV_DURATION_KEY", "250ms")
	got, err := Duration("KALIBRA_ENV_DURATION_KEY", 5*time.Second)
	if err != nil {
		t.Fatalf("Duration() err=%v", err)
	}
	if got != 250*time.Millisecond {
		t.Fatalf("Duration()=%v, want 250ms", got)
	}
}

func TestDuration_Invalid(t *testing.T) {
	t.Setenv("KALIBRA_ENV_DURATION_KEY_INVALID", "not-a-duration")
	if _, err := Duration("KALIBRA_ENV_DURATION_KEY_INVALID", 5*time.Second); err == nil {
		t.Fatalf("Duration() expected error")
	}
}
