// Package classify assigns changed file paths to commit categories using
// ordered path heuristics. Classification looks only at the path string,
// never at file content, so it is a pure function: the same path always
// lands in the same category.
package classify

import (
	"fmt"
	"strings"
)

// Category is one of the fixed commit buckets a changed file belongs to.
type Category string

const (
	DTS     Category = "dts"
	Config  Category = "config"
	Drivers Category = "drivers"
	Script  Category = "script"
	Patch   Category = "patch"
	Other   Category = "other"
)

// Order is the fixed sequence in which category buckets are processed.
var Order = []Category{DTS, Config, Drivers, Script, Patch, Other}

// Classify maps a repo-relative path to its category. Rules are ordered;
// the first match wins, so "dts_config.dts" is dts, not config. Extension
// checks are case-sensitive; substring checks are not.
func Classify(path string) Category {
	lower := strings.ToLower(path)
	switch {
	case strings.HasSuffix(path, ".dts") || strings.HasSuffix(path, ".dtsi"):
		return DTS
	case strings.Contains(lower, "config"): // "kconfig" contains "config"
		return Config
	case strings.HasPrefix(path, "drivers/") || strings.HasSuffix(path, ".c") || strings.HasSuffix(path, ".h"):
		return Drivers
	case strings.HasSuffix(path, ".sh") || strings.HasSuffix(path, ".py") || strings.HasSuffix(path, ".pl") ||
		strings.Contains(lower, "build") || strings.Contains(lower, "script"):
		return Script
	case strings.HasSuffix(path, ".patch"):
		return Patch
	default:
		return Other
	}
}

// Partition buckets every path by Classify. Each path lands in exactly one
// bucket; within a bucket, input order is preserved.
func Partition(paths []string) map[Category][]string {
	buckets := make(map[Category][]string)
	for _, p := range paths {
		c := Classify(p)
		buckets[c] = append(buckets[c], p)
	}
	return buckets
}

// Policy selects which categories are committed. The minimal policy leaves
// patch and other buckets uncommitted; they are still enumerated so the
// caller can report them instead of dropping files silently.
type Policy string

const (
	PolicyFull    Policy = "full"
	PolicyMinimal Policy = "minimal"
)

// ParsePolicy validates a policy name (case-insensitive). Empty means full.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(PolicyFull):
		return PolicyFull, nil
	case string(PolicyMinimal):
		return PolicyMinimal, nil
	default:
		return "", fmt.Errorf("invalid policy %q; use full or minimal", s)
	}
}

// Committable reports whether the policy commits the given category.
func (p Policy) Committable(c Category) bool {
	if p == PolicyMinimal {
		return c != Patch && c != Other
	}
	return true
}
