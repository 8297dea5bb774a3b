/*
Package factory loads the versioned ranking configuration.

PURPOSE:
  Scoring weights and scarcity multipliers are explicit, versioned
  configuration, never hidden constants: a ranking behavior change must be
  traceable to a config version. This package layers built-in defaults, an
  optional YAML file, and environment variables (prefix STAFFING_) into a
  validated fitscore.ScoringConfig plus a rates.StaticScarcity table.

YAML SCHEMA:
  version: v2
  weights:
    skill_overlap: 0.5
    availability: 0.2
    level_match: 0.2
    workload_headroom: 0.1
  preview_parallelism: 8
  scarcity:
    "42": 1.35      # skill ID -> multiplier
    "77": 1.10

ENV OVERRIDES:
  STAFFING_VERSION, STAFFING_PREVIEW_PARALLELISM, ... (flat keys mapped the
  same way the file keys are).

SEE ALSO:
  - fitscore/config.go: the config type and its validation
  - rates/scarcity.go: the scarcity source the table feeds
*/
package factory

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/shopspring/decimal"

	"github.com/warp/staffing-engine/fitscore"
	"github.com/warp/staffing-engine/rates"
	"github.com/warp/staffing-engine/staffing"
)

const envPrefix = "STAFFING_"

// rankingFile is the on-disk shape: the scoring config plus the scarcity
// table keyed by stringified skill ID.
type rankingFile struct {
	Version            string                 `koanf:"version"`
	Weights            fitscore.FactorWeights `koanf:"weights"`
	PreviewParallelism int                    `koanf:"preview_parallelism"`
	Scarcity           map[string]float64     `koanf:"scarcity"`
}

// LoadRankingConfig builds the scoring config and scarcity table.
// Precedence (low -> high): defaults, YAML file (if path != ""), env vars.
func LoadRankingConfig(path string) (fitscore.ScoringConfig, *rates.StaticScarcity, error) {
	defaults := fitscore.DefaultScoringConfig()
	raw := rankingFile{
		Version:            defaults.Version,
		Weights:            defaults.Weights,
		PreviewParallelism: defaults.PreviewParallelism,
	}

	k := koanf.New(".")
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return fitscore.ScoringConfig{}, nil, fmt.Errorf("load ranking config %s: %w", path, err)
		}
	}
	envProvider := env.Provider(envPrefix, ".", func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, envPrefix))
		// Nested sections keep using _ in the variable name:
		// STAFFING_WEIGHTS_SKILL_OVERLAP must land on weights.skill_overlap,
		// not on a flat weights_skill_overlap key nothing reads.
		for _, section := range []string{"weights", "scarcity"} {
			prefix := section + "_"
			if strings.HasPrefix(key, prefix) {
				return section + "." + strings.TrimPrefix(key, prefix)
			}
		}
		return key
	})
	if err := k.Load(envProvider, nil); err != nil {
		return fitscore.ScoringConfig{}, nil, fmt.Errorf("load ranking env: %w", err)
	}
	if err := k.UnmarshalWithConf("", &raw, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return fitscore.ScoringConfig{}, nil, fmt.Errorf("parse ranking config: %w", err)
	}

	config := fitscore.ScoringConfig{
		Version:            raw.Version,
		Weights:            raw.Weights,
		PreviewParallelism: raw.PreviewParallelism,
	}
	if err := config.Validate(); err != nil {
		return fitscore.ScoringConfig{}, nil, err
	}

	scarcity, err := parseScarcity(raw.Scarcity)
	if err != nil {
		return fitscore.ScoringConfig{}, nil, err
	}
	return config, scarcity, nil
}

func parseScarcity(table map[string]float64) (*rates.StaticScarcity, error) {
	multipliers := make(map[staffing.SkillID]decimal.Decimal, len(table))
	for key, value := range table {
		id, err := strconv.ParseInt(key, 10, 64)
		if err != nil {
			return nil, &staffing.ValidationError{
				Field:   "scarcity",
				Message: fmt.Sprintf("skill ID %q is not an integer", key),
			}
		}
		if value < 0 {
			return nil, &staffing.ValidationError{
				Field:   "scarcity",
				Message: fmt.Sprintf("multiplier for skill %s must not be negative", key),
			}
		}
		multipliers[staffing.SkillID(id)] = decimal.NewFromFloat(value)
	}
	return &rates.StaticScarcity{Multipliers: multipliers}, nil
}
