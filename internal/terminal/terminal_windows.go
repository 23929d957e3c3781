//go:build windows

package terminal

import "golang.org/x/sys/windows"

const codePageUTF8 = 65001

// SupportsDoubleResolution switches the console to virtual terminal
// processing and UTF-8 output, reporting whether both succeeded.
func SupportsDoubleResolution() bool {
	h, err := windows.GetStdHandle(windows.STD_OUTPUT_HANDLE)
	if err != nil {
		return false
	}
	var mode uint32
	if err := windows.GetConsoleMode(h, &mode); err != nil {
		return false
	}
	if err := windows.SetConsoleMode(h, mode|windows.ENABLE_VIRTUAL_TERMINAL_PROCESSING); err != nil {
		return false
	}
	return windows.SetConsoleOutputCP(codePageUTF8) == nil
}
