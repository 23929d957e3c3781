//go:build !windows

package terminal

import "testing"

func TestSupportsDoubleResolution(t *testing.T) {
	t.Setenv("TERM", "xterm-256color")
	if !SupportsDoubleResolution() {
		t.Error("xterm should support half blocks")
	}
	t.Setenv("TERM", "dumb")
	if SupportsDoubleResolution() {
		t.Error("dumb terminal should not support half blocks")
	}
}
