package buildinfo

import "fmt"

// These variables are intended to be set via -ldflags at build time:
//
//	-X 'github.com/sinharzs2k26/QR-Code-Generator-Scanner-Bot/core/buildinfo.Version=v1.2.3'
//	-X 'github.com/sinharzs2k26/QR-Code-Generator-Scanner-Bot/core/buildinfo.Commit=abcdef0'
//	-X 'github.com/sinharzs2k26/QR-Code-Generator-Scanner-Bot/core/buildinfo.Date=2025-08-30T12:00:00Z'
var (
	// Version reports the semantic version or tag of the build.
	Version = "dev"
	// Commit reports the source control commit used for the build.
	Commit = "local"
	// Date reports the build timestamp in RFC3339 format.
	Date = ""
)

// String renders the build identity in one line.
func String() string {
	if Date == "" {
		return fmt.Sprintf("%s (%s)", Version, Commit)
	}
	return fmt.Sprintf("%s (%s, %s)", Version, Commit, Date)
}
