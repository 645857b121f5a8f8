package version

// Version is the application version, overridable at build time via
// -ldflags "-X railsetu/pkg/version.Version=...".
var Version = "0.4.0-dev"
