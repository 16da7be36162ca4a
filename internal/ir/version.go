package ir

// Version constants for the loader.
const (
	// DefaultExtension is the script extension appended to extension-less
	// references.
	DefaultExtension = ".js"

	// Version is the scload tool version.
	Version = "0.1.0"
)
