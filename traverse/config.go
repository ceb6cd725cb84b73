package traverse

import (
	"errors"
	"fmt"

	"github.com/hupe1980/linkweave/model"
)

// ErrInvalidConfig is returned for contradictory or out-of-range settings.
var ErrInvalidConfig = errors.New("traverse: invalid config")

// Unbounded disables MaxDepth or MaxNodes.
const Unbounded = -1

// Strategy selects the visitation order.
type Strategy string

const (
	BreadthFirst Strategy = "breadth_first"
	DepthFirst   Strategy = "depth_first"
	RandomWalk   Strategy = "random_walk"
)

// ParseStrategy converts a configuration string into a Strategy.
func ParseStrategy(s string) (Strategy, error) {
	switch st := Strategy(s); st {
	case BreadthFirst, DepthFirst, RandomWalk:
		return st, nil
	case "bfs":
		return BreadthFirst, nil
	case "dfs":
		return DepthFirst, nil
	}
	return "", fmt.Errorf("%w: unknown strategy %q", ErrInvalidConfig, s)
}

// StartRule selects how start nodes are chosen.
type StartRule string

const (
	// StartExplicit uses StartIDs in the given order.
	StartExplicit StartRule = "explicit"
	// StartHighestInDegree orders StartIDs, or every node when StartIDs is
	// empty, by descending in-degree with ascending ID as tie-break.
	StartHighestInDegree StartRule = "highest_in_degree"
)

// Config describes one traversal run.
type Config struct {
	Strategy Strategy   `yaml:"strategy"`
	StartIDs []model.ID `yaml:"start_ids"`
	// StartRule defaults to StartExplicit when StartIDs is set and to
	// StartHighestInDegree otherwise.
	StartRule StartRule `yaml:"start_rule"`
	// MaxDepth is the largest depth yielded; 0 yields only start nodes.
	MaxDepth int `yaml:"max_depth"`
	// MaxNodes caps the number of yielded nodes.
	MaxNodes int   `yaml:"max_nodes"`
	Seed     int64 `yaml:"seed"`
}

// DefaultConfig returns an unbounded breadth-first traversal seeded at the
// highest in-degree documents.
func DefaultConfig() Config {
	return Config{
		Strategy:  BreadthFirst,
		StartRule: StartHighestInDegree,
		MaxDepth:  Unbounded,
		MaxNodes:  Unbounded,
	}
}

func (c Config) startRule() StartRule {
	if c.StartRule != "" {
		return c.StartRule
	}
	if len(c.StartIDs) > 0 {
		return StartExplicit
	}
	return StartHighestInDegree
}

// Validate checks the configuration without touching any graph.
func (c Config) Validate() error {
	if _, err := ParseStrategy(string(c.Strategy)); err != nil {
		return err
	}
	switch c.startRule() {
	case StartExplicit:
		if len(c.StartIDs) == 0 {
			return fmt.Errorf("%w: explicit start rule requires start ids", ErrInvalidConfig)
		}
	case StartHighestInDegree:
	default:
		return fmt.Errorf("%w: unknown start rule %q", ErrInvalidConfig, c.StartRule)
	}
	if c.MaxDepth < Unbounded {
		return fmt.Errorf("%w: max depth %d", ErrInvalidConfig, c.MaxDepth)
	}
	if c.MaxNodes == 0 || c.MaxNodes < Unbounded {
		return fmt.Errorf("%w: max nodes %d", ErrInvalidConfig, c.MaxNodes)
	}
	return nil
}
