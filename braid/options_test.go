package braid

import (
	"testing"
	"time"
)

func TestNewConfigDefaults(t *testing.T) {
	c := newConfig(nil)
	if c.interval != DefaultInterval || c.timeout != DefaultTimeout || c.throttle != DefaultThrottle {
		t.Fatalf("defaults = %+v", c)
	}
}

func TestOptionsOverrideDefaults(t *testing.T) {
	c := newConfig([]Option{
		WithInterval(5 * time.Millisecond),
		WithTimeout(10 * time.Second),
		WithThrottle(3),
	})
	if c.interval != 5*time.Millisecond || c.timeout != 10*time.Second || c.throttle != 3 {
		t.Fatalf("options did not apply: %+v", c)
	}
}
