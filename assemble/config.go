package assemble

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfig is returned for out-of-range budgets or an unknown
	// reference policy.
	ErrInvalidConfig = errors.New("assemble: invalid config")
	// ErrSinkWrite wraps the error of a failed shard write.
	ErrSinkWrite = errors.New("assemble: shard write failed")
)

// Unbounded disables a budget.
const Unbounded = -1

// ReferencePolicy decides which resolved link targets may become doc:<id>
// references.
type ReferencePolicy string

const (
	// Backward allows targets emitted at or before the current position.
	// Every reference then points into the same or an earlier shard.
	Backward ReferencePolicy = "backward"
	// OutputSet allows any target in the output set of the run, so forward
	// references survive. The ID sequence is materialized up front.
	OutputSet ReferencePolicy = "output_set"
)

// ParseReferencePolicy converts a configuration string.
func ParseReferencePolicy(s string) (ReferencePolicy, error) {
	switch p := ReferencePolicy(s); p {
	case Backward, OutputSet:
		return p, nil
	}
	return "", fmt.Errorf("%w: unknown reference policy %q", ErrInvalidConfig, s)
}

// Config bounds shard sizes.
type Config struct {
	// TokenBudget is the largest token total of a shard.
	TokenBudget int `yaml:"shard_token_budget"`
	// DocBudget is the largest document count of a shard.
	DocBudget int `yaml:"shard_doc_budget"`
	// Policy defaults to Backward.
	Policy ReferencePolicy `yaml:"reference_policy"`
}

// DefaultConfig returns 1000-document shards without a token budget and
// backward references.
func DefaultConfig() Config {
	return Config{
		TokenBudget: Unbounded,
		DocBudget:   1000,
		Policy:      Backward,
	}
}

// Validate rejects zero or negative budgets other than Unbounded.
func (c Config) Validate() error {
	if c.TokenBudget == 0 || c.TokenBudget < Unbounded {
		return fmt.Errorf("%w: shard token budget %d", ErrInvalidConfig, c.TokenBudget)
	}
	if c.DocBudget == 0 || c.DocBudget < Unbounded {
		return fmt.Errorf("%w: shard doc budget %d", ErrInvalidConfig, c.DocBudget)
	}
	if c.Policy != "" {
		if _, err := ParseReferencePolicy(string(c.Policy)); err != nil {
			return err
		}
	}
	return nil
}

func (c Config) policy() ReferencePolicy {
	if c.Policy == "" {
		return Backward
	}
	return c.Policy
}
