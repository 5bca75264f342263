// Package worksheet provides the version information for worksheet-go.
package worksheet

// Version is the current version of worksheet-go.
const Version = "0.1.0"

// GetVersion returns the current version string.
func GetVersion() string {
	return Version
}
