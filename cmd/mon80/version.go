package main

import "fmt"

// Application name and version constants.
const (
	AppName    = "mon80"
	AppVersion = "1.0.0"
)

// Version returns the application version string.
func Version() string {
	return fmt.Sprintf("%s %s", AppName, AppVersion)
}
