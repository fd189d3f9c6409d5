package version // import "github.com/maktaba-io/maktaba/version"

var (
	// Version is the semver of the current build.
	Version = "0.2.0"
	// DevVersion is the suffix appended to non-release builds.
	DevVersion = "dev"
)

func GetCurrentVersion() string {
	if DevVersion == "" {
		return Version
	}
	return Version + "-" + DevVersion
}
