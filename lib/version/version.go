/*package version holds the version of the parkit suite. Version can be
overridden at build time with
	-ldflags "-X github.com/phil-mansfield/parkit/lib/version.Version=1.2.3"
*/
package version

import (
	"fmt"

	"github.com/Masterminds/semver/v3"
)

var (
	// Version is the semantic version of the software. Changes to the major
	// version mean the table or archive formats have changed.
	Version = "0.1.0"
	// GitCommit is the commit the binary was built from, if known.
	GitCommit = "unknown"
)

// Semantic parses Version.
func Semantic() (*semver.Version, error) {
	v, err := semver.NewVersion(Version)
	if err != nil {
		return nil, fmt.Errorf("version string '%s' is not a semantic " +
			"version: %w", Version, err)
	}
	return v, nil
}

// String returns the text printed by "parkit version".
func String() string {
	v, err := Semantic()
	if err != nil { return fmt.Sprintf("parkit %s (invalid)", Version) }
	if GitCommit == "unknown" { return fmt.Sprintf("parkit v%s", v) }
	return fmt.Sprintf("parkit v%s (%s)", v, GitCommit)
}

// Compatible returns true if an archive written by version other can be
// read by this version of the software. Only the major version matters.
func Compatible(other string) (bool, error) {
	v, err := Semantic()
	if err != nil { return false, err }
	c, err := semver.NewConstraint(fmt.Sprintf("^%d", v.Major()))
	if err != nil { return false, err }
	o, err := semver.NewVersion(other)
	if err != nil { return false, err }
	return c.Check(o), nil
}
