// Package versioning orders the dotted version strings release sources
// publish, tolerating variable arity ("18", "18.0", "17.7.6") and channel
// suffixes ("18.1 beta 3", "18.1 RC").
package versioning

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	versionExpr = regexp.MustCompile(`\d+(?:\.\d+){0,3}`)
	majorExpr   = regexp.MustCompile(`\d+`)
)

// Compare orders two version strings. It returns -1 when a < b, 0 when they
// describe the same version, and +1 when a > b. Missing trailing components
// count as zero, so "18" equals "18.0" equals "18.0.0". Strings without any
// digits compare as all-zero.
func Compare(a, b string) int {
	ca := components(a)
	cb := components(b)
	n := len(ca)
	if len(cb) > n {
		n = len(cb)
	}
	for i := 0; i < n; i++ {
		var ai, bi int
		if i < len(ca) {
			ai = ca[i]
		}
		if i < len(cb) {
			bi = cb[i]
		}
		if ai != bi {
			if ai > bi {
				return 1
			}
			return -1
		}
	}
	return 0
}

// ExtractMajor returns the first numeric run in the raw version string.
// The second result is false when the string has no digits.
func ExtractMajor(version string) (int, bool) {
	match := majorExpr.FindString(version)
	if match == "" {
		return 0, false
	}
	major, err := strconv.Atoi(match)
	if err != nil {
		return 0, false
	}
	return major, true
}

// Normalize lowercases a version and strips channel words so that
// "18.1 Beta 3" and "18.1 RC" key to the same timeline slot.
func Normalize(version string) string {
	s := strings.ToLower(version)
	s = strings.ReplaceAll(s, "beta", "")
	s = strings.ReplaceAll(s, "rc", "")
	return strings.TrimSpace(s)
}

func components(version string) []int {
	normalized := strings.ToLower(version)
	normalized = strings.ReplaceAll(normalized, "beta", "")
	normalized = strings.ReplaceAll(normalized, "rc", "")

	run := versionExpr.FindString(normalized)
	if run == "" {
		run = normalized
	}

	parts := strings.Split(run, ".")
	out := make([]int, 0, len(parts))
	for _, part := range parts {
		value, err := strconv.Atoi(part)
		if err != nil {
			continue
		}
		out = append(out, value)
	}
	return out
}
