package main

import (
	"testing"

	"github.com/wayne-enterprises/bidash/internal/app"
	_ "github.com/wayne-enterprises/bidash/internal/testing/guard"
)

func TestMainReturnsInTestMode(t *testing.T) {
	if !app.InTestMode() {
		t.Fatal("guard did not enable test mode")
	}
	main()
}
