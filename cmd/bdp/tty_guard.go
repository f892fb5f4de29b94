package main

import (
	"os"
	"strings"
)

// init runs before Bubble Tea acquires the terminal.
//
// In some PTY/TTY capture environments (notably agent runners), Bubble Tea's
// init triggers Lipgloss/Termenv background detection, which can emit OSC/DSR
// control sequences to stdout. Those sequences are harmless in a real terminal
// but break JSON parsers consuming robot-mode output.
//
// Robot-mode invocations are treated as non-interactive by setting CI=1 early;
// Termenv uses CI to disable TTY probing.
func init() {
	if os.Getenv("CI") != "" {
		return
	}
	if !shouldSuppressTTYQueries(os.Args, os.Getenv("BDP_ROBOT") == "1") {
		return
	}
	_ = os.Setenv("CI", "1")
}

func shouldSuppressTTYQueries(args []string, envRobot bool) bool {
	if envRobot {
		return true
	}
	for _, arg := range args {
		if strings.HasPrefix(arg, "--robot-") {
			return true
		}
		switch arg {
		case "--version", "--help", "-h":
			return true
		}
	}
	return false
}
