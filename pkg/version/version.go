// Package version provides the server build version and message spec
// version checks.
package version

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Current is the server build version reported in ServerInfo.
const Current = "0.3.0"

// MessageVersion is the newest message spec version this server speaks.
const MessageVersion uint32 = 1

// ErrIncompatibleVersion is returned when a client needs a newer message spec.
var ErrIncompatibleVersion = errors.New("incompatible message version")

// BuildVersion represents a parsed "major.minor.build" version.
type BuildVersion struct {
	Major uint32
	Minor uint32
	Build uint32
}

// Parse parses a "major.minor.build" version string.
func Parse(s string) (BuildVersion, error) {
	parts := strings.Split(s, ".")
	if len(parts) != 3 {
		return BuildVersion{}, fmt.Errorf("invalid version %q: expected major.minor.build", s)
	}

	var out [3]uint32
	for i, name := range []string{"major", "minor", "build"} {
		if parts[i] == "" {
			return BuildVersion{}, fmt.Errorf("invalid version %q: bad %s component", s, name)
		}
		n, err := strconv.ParseUint(parts[i], 10, 32)
		if err != nil {
			return BuildVersion{}, fmt.Errorf("invalid version %q: bad %s component", s, name)
		}
		out[i] = uint32(n)
	}
	return BuildVersion{Major: out[0], Minor: out[1], Build: out[2]}, nil
}

// MustParse is like Parse but panics on malformed input.
func MustParse(s string) BuildVersion {
	v, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return v
}

// String returns the version as "major.minor.build".
func (v BuildVersion) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Build)
}

// CheckMessageVersion accepts clients speaking MessageVersion or older.
func CheckMessageVersion(client uint32) error {
	if client > MessageVersion {
		return fmt.Errorf("%w: client=%d, server=%d", ErrIncompatibleVersion, client, MessageVersion)
	}
	return nil
}
