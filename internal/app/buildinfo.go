package app

// Build information populated via -ldflags at build time.
var (
	// BuildVersion is the semantic version of the built binary. It also
	// forms the default User-Agent.
	BuildVersion = "0.0.0-dev"
	// BuildCommit is the VCS commit SHA associated with the build.
	BuildCommit = "unknown"
)

// VersionString is printed by the -version flag.
func VersionString() string {
	return "gohabr " + BuildVersion + " (" + BuildCommit + ")"
}
