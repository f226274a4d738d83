package fraud

import (
	"context"
	"fmt"
	"math"

	"vocilia/internal/fraud/device"
	"vocilia/pkg/requestcontext"
)

// DeviceLimits are the per-period session counts a single fingerprint can
// reach before the device signal starts rising. Usage at a cap scores 0.5;
// double the cap scores 1.0.
type DeviceLimits struct {
	Daily   int
	Weekly  int
	Monthly int
}

// DefaultDeviceLimits returns the platform-default fingerprint caps.
func DefaultDeviceLimits() DeviceLimits {
	return DeviceLimits{Daily: 3, Weekly: 10, Monthly: 20}
}

// DeviceSignal scores fingerprint reuse across sessions.
type DeviceSignal struct {
	usage   DeviceUsageStore
	devices *device.Service
	limits  DeviceLimits
}

// NewDeviceSignal creates the device signal source.
func NewDeviceSignal(usage DeviceUsageStore, devices *device.Service, limits DeviceLimits) (*DeviceSignal, error) {
	if usage == nil {
		return nil, fmt.Errorf("device usage store is required")
	}
	if devices == nil {
		return nil, fmt.Errorf("device service is required")
	}
	if limits.Daily <= 0 || limits.Weekly <= 0 || limits.Monthly <= 0 {
		limits = DefaultDeviceLimits()
	}
	return &DeviceSignal{usage: usage, devices: devices, limits: limits}, nil
}

func (s *DeviceSignal) Type() SignalType { return SignalDevice }

func (s *DeviceSignal) Evaluate(ctx context.Context, in Input) (SignalResult, error) {
	fingerprint := in.DeviceFingerprint
	if fingerprint == "" {
		fingerprint = s.devices.ComputeFingerprint(requestcontext.UserAgent(ctx))
	}
	if fingerprint == "" {
		// Unknown devices are mildly suspicious but never block on their own.
		return SignalResult{
			Type:       SignalDevice,
			Score:      0.25,
			Confidence: 0.4,
			Detail:     "no device fingerprint",
		}, nil
	}

	usage, err := s.usage.Touch(ctx, fingerprint, requestcontext.Now(ctx))
	if err != nil {
		return SignalResult{}, fmt.Errorf("device usage lookup: %w", err)
	}

	score, detail := s.worstPeriod(usage)
	return SignalResult{
		Type:       SignalDevice,
		Score:      score,
		Confidence: 1,
		Detail:     detail,
	}, nil
}

func (s *DeviceSignal) worstPeriod(usage DeviceUsage) (float64, string) {
	type period struct {
		name  string
		count int
		limit int
	}
	periods := []period{
		{"daily", usage.Daily, s.limits.Daily},
		{"weekly", usage.Weekly, s.limits.Weekly},
		{"monthly", usage.Monthly, s.limits.Monthly},
	}

	var worst float64
	detail := "device within limits"
	for _, p := range periods {
		score := usageScore(p.count, p.limit)
		if score > worst {
			worst = score
			detail = fmt.Sprintf("%d sessions from this device (%s limit %d)", p.count, p.name, p.limit)
		}
	}
	return worst, detail
}

// usageScore maps a count against its limit: below half the limit is clean,
// the cap scores 0.5, twice the cap scores 1.0.
func usageScore(count, limit int) float64 {
	if limit <= 0 || count <= 0 {
		return 0
	}
	ratio := float64(count) / float64(limit)
	switch {
	case ratio <= 0.5:
		return 0
	case ratio <= 1:
		return ratio - 0.5
	default:
		return math.Min(1, 0.5+(ratio-1))
	}
}
