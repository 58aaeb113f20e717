package handlers

var version = "dev"

// SetVersion records the build version logged at startup.
func SetVersion(v string) {
	version = v
}
