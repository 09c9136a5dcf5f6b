package availability

import (
	"fmt"
	"strconv"
	"strings"
)

// Version is a platform version triple.
type Version struct {
	Major int `json:"major"`
	Minor int `json:"minor"`
	Patch int `json:"patch"`
}

// ParseVersion parses "major[.minor[.patch]]".
func ParseVersion(s string) (Version, error) {
	parts := strings.SplitN(s, ".", 3)
	var v Version
	fields := []*int{&v.Major, &v.Minor, &v.Patch}
	for i, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil {
			return Version{}, fmt.Errorf("parsing version %q: %w", s, err)
		}
		*fields[i] = n
	}
	return v, nil
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// Compare returns -1, 0, or 1 ordering versions numerically.
func (v Version) Compare(other Version) int {
	pairs := [3][2]int{{v.Major, other.Major}, {v.Minor, other.Minor}, {v.Patch, other.Patch}}
	for _, p := range pairs {
		if p[0] < p[1] {
			return -1
		}
		if p[0] > p[1] {
			return 1
		}
	}
	return 0
}

// Packed returns the compact 32-bit form used for dense storage: minor and
// patch take the low two bytes, the remaining high bits hold the major.
func (v Version) Packed() uint32 {
	return uint32(v.Major)<<16 | uint32(v.Minor&0xFF)<<8 | uint32(v.Patch&0xFF)
}

// VersionFromPacked is the inverse of Packed.
func VersionFromPacked(packed uint32) Version {
	return Version{
		Major: int(packed >> 16),
		Minor: int(packed >> 8 & 0xFF),
		Patch: int(packed & 0xFF),
	}
}
