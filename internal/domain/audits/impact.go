package audits

import (
	"fmt"
	"math"
)

// CWV impact coefficients: estimated visitor-behavior deltas from published
// field studies, applied linearly to the excess over each metric's threshold.
const (
	lcpBouncePctPerSecond     = 12.0
	lcpConversionPctPerSecond = 7.0

	clsCriticalBouncePct     = 15.0
	clsCriticalConversionPct = 8.0
	clsWarningBouncePct      = 8.0
	clsWarningConversionPct  = 4.0

	tbtCriticalBouncePct     = 10.0
	tbtCriticalConversionPct = 5.0
	tbtWarningBouncePct      = 5.0
	tbtWarningConversionPct  = 2.5
)

// BusinessImpact estimates how the measured CWV regressions translate into
// visitor behavior.
type BusinessImpact struct {
	BounceRateIncreasePct    float64 `json:"bounce_rate_increase_pct"`
	ConversionRateDecreasePct float64 `json:"conversion_rate_decrease_pct"`
	Summary                  string  `json:"summary"`
}

// EstimateBusinessImpact converts LCP/CLS/TBT excess-over-threshold into
// bounce-rate and conversion-rate percentage deltas and sums them.
func EstimateBusinessImpact(m *AuditMetrics) BusinessImpact {
	var bounce, conversion float64

	if m.LCPMs > lcpWarningMs {
		excessSeconds := (m.LCPMs - lcpWarningMs) / 1000
		bounce += lcpBouncePctPerSecond * excessSeconds
		conversion += lcpConversionPctPerSecond * excessSeconds
	}

	switch {
	case m.CLS > clsCritical:
		bounce += clsCriticalBouncePct
		conversion += clsCriticalConversionPct
	case m.CLS > clsWarning:
		bounce += clsWarningBouncePct
		conversion += clsWarningConversionPct
	}

	switch {
	case m.TBTMs > tbtCriticalMs:
		bounce += tbtCriticalBouncePct
		conversion += tbtCriticalConversionPct
	case m.TBTMs > tbtWarningMs:
		bounce += tbtWarningBouncePct
		conversion += tbtWarningConversionPct
	}

	bounce = round1(bounce)
	conversion = round1(conversion)

	impact := BusinessImpact{
		BounceRateIncreasePct:     bounce,
		ConversionRateDecreasePct: conversion,
	}
	if bounce > 0 || conversion > 0 {
		impact.Summary = fmt.Sprintf(
			"Current Core Web Vitals are estimated to increase bounce rate by %.1f%% and reduce conversions by %.1f%% versus a site meeting the thresholds.",
			bounce, conversion)
	} else {
		impact.Summary = "Core Web Vitals are within recommended thresholds; no measurable revenue impact from page experience is expected."
	}
	return impact
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
