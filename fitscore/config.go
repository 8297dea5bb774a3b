/*
Package fitscore scores and ranks candidate people against an open staffing
request.

PURPOSE:
  Ranking is a pure read: enumerate eligible people, score each against the
  request's required skills, window, level, and the person's workload, order
  deterministically, truncate. Optionally a rate preview is attached per
  candidate by delegating to the rate resolver; a preview failure never
  fails the ranking call.

KEY CONCEPTS IN THIS FILE (config.go):
  - ScoringConfig: the versioned weight set. Weights are explicit
    configuration, never hidden constants, so ranking behavior changes are
    auditable by config version.

SEE ALSO:
  - calculator.go: the ranking algorithm
  - factory/scoring.go: loads ScoringConfig from YAML/env
*/
package fitscore

import (
	"github.com/warp/staffing-engine/staffing"
)

// =============================================================================
// SCORING CONFIG - Versioned, explicit factor weights
// =============================================================================

// FactorWeights weight the four scoring factors. Each factor is computed in
// [0, 1]; the final score is the weighted sum normalized by the weight total,
// so it also lands in [0, 1].
type FactorWeights struct {
	// SkillOverlap: share of the request's required skills the person has.
	SkillOverlap float64 `koanf:"skill_overlap"`

	// Availability: share of the request window covered by the person's
	// availability window.
	Availability float64 `koanf:"availability"`

	// LevelMatch: seniority proximity between request and person.
	LevelMatch float64 `koanf:"level_match"`

	// WorkloadHeadroom: remaining share of the person's concurrency cap.
	WorkloadHeadroom float64 `koanf:"workload_headroom"`
}

// ScoringConfig is the versioned ranking configuration.
type ScoringConfig struct {
	// Version identifies the weight set (e.g. "v1"). Recorded so that a
	// ranking produced under one config is distinguishable from another.
	Version string `koanf:"version"`

	Weights FactorWeights `koanf:"weights"`

	// PreviewParallelism bounds the rate-preview fan-out.
	PreviewParallelism int `koanf:"preview_parallelism"`
}

// DefaultScoringConfig is the built-in v1 weight set: skills dominate,
// then availability, level, workload.
func DefaultScoringConfig() ScoringConfig {
	return ScoringConfig{
		Version: "v1",
		Weights: FactorWeights{
			SkillOverlap:     0.40,
			Availability:     0.25,
			LevelMatch:       0.20,
			WorkloadHeadroom: 0.15,
		},
		PreviewParallelism: 4,
	}
}

// Validate rejects configs that cannot produce a meaningful ranking.
func (c ScoringConfig) Validate() error {
	if c.Version == "" {
		return &staffing.ValidationError{Field: "version", Message: "scoring config version required"}
	}
	w := c.Weights
	for field, v := range map[string]float64{
		"weights.skill_overlap":     w.SkillOverlap,
		"weights.availability":      w.Availability,
		"weights.level_match":       w.LevelMatch,
		"weights.workload_headroom": w.WorkloadHeadroom,
	} {
		if v < 0 {
			return &staffing.ValidationError{Field: field, Message: "weight must not be negative"}
		}
	}
	if w.SkillOverlap+w.Availability+w.LevelMatch+w.WorkloadHeadroom <= 0 {
		return &staffing.ValidationError{Field: "weights", Message: "weights must sum to a positive value"}
	}
	if c.PreviewParallelism < 1 {
		return &staffing.ValidationError{Field: "preview_parallelism", Message: "must be at least 1"}
	}
	return nil
}

func (c ScoringConfig) weightTotal() float64 {
	w := c.Weights
	return w.SkillOverlap + w.Availability + w.LevelMatch + w.WorkloadHeadroom
}
