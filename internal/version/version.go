// internal/version/version.go
package version

// Version is overridden at release time via -ldflags "-X abnum/internal/version.Version=...".
var Version = "dev"
