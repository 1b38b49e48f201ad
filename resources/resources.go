// Package resources holds files embedded into the binary.
package resources

import (
	_ "embed"

	"fyne.io/fyne/v2"
)

//go:embed icons/app.svg
var iconData []byte

// GetAppIcon returns the application icon.
func GetAppIcon() fyne.Resource {
	return &fyne.StaticResource{
		StaticName:    "app.svg",
		StaticContent: iconData,
	}
}

// DefaultConfig is the built-in configuration document.
//
//go:embed config/defaults.yaml
var DefaultConfig []byte
