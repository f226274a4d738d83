// Package device derives stable device fingerprints from client metadata.
//
// Fingerprints feed the fraud device signal: the same physical device
// claiming many rewards per day is the most common abuse pattern. Hashing is
// tolerant of browser auto-updates; only a major version change produces a
// new fingerprint.
package device

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"

	"github.com/mssola/useragent"
)

// Service computes and compares device fingerprints. Disabled instances
// return empty fingerprints, which downstream signals treat as an unknown
// device.
type Service struct {
	enabled bool
}

// NewService creates a device service. Fingerprinting can be disabled for
// deployments that must not track devices.
func NewService(enabled bool) *Service {
	return &Service{enabled: enabled}
}

// ComputeFingerprint hashes the browser identity into a stable hex digest.
// Minor browser version changes keep the fingerprint; a major version bump
// changes it.
func (s *Service) ComputeFingerprint(userAgent string) string {
	if !s.enabled || strings.TrimSpace(userAgent) == "" {
		return ""
	}

	ua := useragent.New(userAgent)
	name, version := ua.Browser()
	canonical := strings.Join([]string{
		name,
		majorVersion(version),
		ua.OS(),
		ua.Platform(),
		strconv.FormatBool(ua.Mobile()),
	}, "|")

	sum := sha256.Sum256([]byte(canonical))
	return hex.EncodeToString(sum[:])
}

// CompareFingerprints reports whether a stored fingerprint still matches and
// whether the device has drifted.
func (s *Service) CompareFingerprints(expected, actual string) (matched, drift bool) {
	matched = expected != "" && expected == actual
	return matched, !matched
}

// ParseUserAgent renders a human-readable device name for event payloads and
// review queues, e.g. "Chrome on Mac OS X".
func ParseUserAgent(userAgent string) string {
	if strings.TrimSpace(userAgent) == "" {
		return "Unknown Device"
	}

	ua := useragent.New(userAgent)
	name, _ := ua.Browser()
	if name == "" {
		name = "Unknown Browser"
	}
	os := ua.OS()
	if os == "" {
		os = ua.Platform()
	}
	if os == "" {
		os = "Unknown OS"
	}
	return strings.TrimSpace(name + " on " + os)
}

func majorVersion(version string) string {
	if i := strings.IndexByte(version, '.'); i > 0 {
		return version[:i]
	}
	return version
}
