//go:build windows

package main

// registerQuitHandler is a no-op: SIGQUIT does not exist on Windows.
func registerQuitHandler() {}
