package manifest

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// APIVersion is the plugin protocol version implemented by this host.
const APIVersion = "1.0.0"

// CheckAPI reports whether the manifest's api constraint admits the host
// version. An empty constraint admits every version.
func (m *PluginManifest) CheckAPI(hostVersion string) error {
	if strings.TrimSpace(m.API) == "" {
		return nil
	}
	constraint, err := semver.NewConstraint(m.API)
	if err != nil {
		return fmt.Errorf("parsing api constraint %q: %w", m.API, err)
	}
	host, err := parseSemver(hostVersion)
	if err != nil {
		return fmt.Errorf("parsing host api version %q: %w", hostVersion, err)
	}
	if ok, errs := constraint.Validate(host); !ok {
		reasons := make([]string, 0, len(errs))
		for _, e := range errs {
			reasons = append(reasons, e.Error())
		}
		return fmt.Errorf("plugin %q requires api %s: %s", m.Name, m.API, strings.Join(reasons, "; "))
	}
	return nil
}

// parseSemver strips a leading "v" and parses the version string.
func parseSemver(version string) (*semver.Version, error) {
	version = strings.TrimPrefix(version, "v")
	return semver.NewVersion(version)
}
