package coro_test

import (
	"testing"

	"github.com/outbound-coro/coro"
)

func TestAlertFlag(t *testing.T) {
	var flag coro.AlertFlag

	if flag.IsSet() {
		t.Fatal("a fresh AlertFlag should not be set")
	}

	flag.Set()
	if !flag.IsSet() {
		t.Fatal("IsSet should report true after Set")
	}

	if !flag.TestAndReset() {
		t.Fatal("TestAndReset should report the prior state")
	}
	if flag.IsSet() {
		t.Fatal("TestAndReset should have cleared the flag")
	}
	if flag.TestAndReset() {
		t.Fatal("TestAndReset should report false once already reset")
	}

	flag.Set()
	flag.Reset()
	if flag.IsSet() {
		t.Fatal("Reset should clear the flag")
	}
}
