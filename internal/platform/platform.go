package platform

import (
	"fmt"
	"regexp"
	"strings"

	goversion "github.com/hashicorp/go-version"
)

// DefaultBaseURL is the CDN root all candidate URLs are built against.
const DefaultBaseURL = "https://upgrade.scdn.co/upgrade/client/"

// Platform identifies one build target of the desktop client.
type Platform int

const (
	WinX86 Platform = iota
	WinX64
	WinARM64
	MacIntel
	MacARM64
)

var names = [...]string{
	WinX86:   "Win-x86",
	WinX64:   "Win-x64",
	WinARM64: "Win-arm64",
	MacIntel: "macOS-intel",
	MacARM64: "macOS-arm64",
}

func (p Platform) String() string {
	if int(p) < 0 || int(p) >= len(names) {
		return fmt.Sprintf("Platform(%d)", int(p))
	}
	return names[p]
}

// pathTemplates holds the CDN path suffix per platform. The verbs are the
// version string and the build number, in that order.
var pathTemplates = [...]string{
	WinX86:   "win32-x86/spotify_installer-%s-%d.exe",
	WinX64:   "win32-x86_64/spotify_installer-%s-%d.exe",
	WinARM64: "win32-arm64/spotify_installer-%s-%d.exe",
	MacIntel: "osx-x86_64/spotify-autoupdate-%s-%d.tbz",
	MacARM64: "osx-arm64/spotify-autoupdate-%s-%d.tbz",
}

// Ext returns the artifact file extension for the platform.
func (p Platform) Ext() string {
	switch p {
	case MacIntel, MacARM64:
		return "tbz"
	default:
		return "exe"
	}
}

// All returns every known platform in menu order.
func All() []Platform {
	return []Platform{WinX86, WinX64, WinARM64, MacIntel, MacARM64}
}

// legacyCutoff is the last base version that still shipped 32-bit Windows
// builds.
var legacyCutoff = goversion.Must(goversion.NewVersion("1.2.53"))

// Default returns the platforms worth searching for the given version.
// Versions past the 32-bit cutoff drop Win-x86; an unparseable version keeps
// the full set.
func Default(version string) []Platform {
	base, err := goversion.NewVersion(BaseVersion(version))
	if err != nil {
		return All()
	}
	if base.LessThanOrEqual(legacyCutoff) {
		return All()
	}
	all := All()
	platforms := make([]Platform, 0, len(all)-1)
	for _, p := range all {
		if p != WinX86 {
			platforms = append(platforms, p)
		}
	}
	return platforms
}

// BaseVersion reduces a version string to its first three dotted segments.
func BaseVersion(version string) string {
	parts := strings.Split(version, ".")
	if len(parts) < 3 {
		return version
	}
	return strings.Join(parts[:3], ".")
}

var (
	fullVersionRe  = regexp.MustCompile(`^\d+\.\d+\.\d+\.\d+\.g[0-9a-f]{8}$`)
	shortVersionRe = regexp.MustCompile(`^\d+\.\d+\.\d+\.\d+(\.g[0-9a-f]+)?$`)
)

// ValidVersion reports whether version names a full installer build, e.g.
// "1.1.68.632.g2b11de83".
func ValidVersion(version string) bool {
	return fullVersionRe.MatchString(version)
}

// ValidShortVersion reports whether version has the four numeric segments the
// batch flow accepts; the commit suffix is optional there.
func ValidShortVersion(version string) bool {
	return shortVersionRe.MatchString(version)
}

// URLBuilder formats candidate URLs for probing.
type URLBuilder struct {
	baseURL string
}

// NewURLBuilder creates a URLBuilder rooted at baseURL. An empty baseURL
// falls back to DefaultBaseURL.
func NewURLBuilder(baseURL string) URLBuilder {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return URLBuilder{baseURL: baseURL}
}

// BuildURL returns the candidate URL for one (platform, version, number)
// triple. Pure and deterministic; the number is rendered unpadded.
func (b URLBuilder) BuildURL(p Platform, version string, number int) string {
	return b.baseURL + fmt.Sprintf(pathTemplates[p], version, number)
}
