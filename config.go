package linkweave

import (
	"fmt"
	"strings"

	"github.com/hupe1980/linkweave/assemble"
	"github.com/hupe1980/linkweave/traverse"
)

// Unbounded disables a depth, node or shard budget.
const Unbounded = -1

// Tokenizer names a built-in token length function.
type Tokenizer string

const (
	// Whitespace counts whitespace-separated words.
	Whitespace Tokenizer = "whitespace"
	// Approx estimates one token per four bytes.
	Approx Tokenizer = "approx"
)

// Config describes one traversal run and its shard layout. It decodes from
// YAML as a flat document:
//
//	strategy: random_walk
//	start_ids: [12, 7]
//	max_depth: 3
//	max_nodes: 50000
//	seed: 42
//	shard_token_budget: 2000000
//	shard_doc_budget: -1
//	tokenizer: approx
type Config struct {
	Traversal traverse.Config `yaml:",inline" json:"traversal"`
	Assembly  assemble.Config `yaml:",inline" json:"assembly"`
	Tokenizer Tokenizer       `yaml:"tokenizer" json:"tokenizer"`
}

// DefaultConfig returns an unbounded breadth-first run from the highest
// in-degree documents into 1000-document shards.
func DefaultConfig() Config {
	a := assemble.DefaultConfig()
	// Chosen per strategy by ReferencePolicy.
	a.Policy = ""
	return Config{
		Traversal: traverse.DefaultConfig(),
		Assembly:  a,
		Tokenizer: Whitespace,
	}
}

// Validate rejects the configuration before any processing. Errors match
// ErrInvalidConfig.
func (c Config) Validate() error {
	if err := c.Traversal.Validate(); err != nil {
		return translateError(err)
	}
	if err := c.Assembly.Validate(); err != nil {
		return translateError(err)
	}
	if _, err := c.tokenLength(); err != nil {
		return err
	}
	return nil
}

// ReferencePolicy returns the effective reference policy. Unless set
// explicitly, random walks use assemble.OutputSet and the other strategies
// assemble.Backward.
func (c Config) ReferencePolicy() assemble.ReferencePolicy {
	if c.Assembly.Policy != "" {
		return c.Assembly.Policy
	}
	if c.Traversal.Strategy == traverse.RandomWalk {
		return assemble.OutputSet
	}
	return assemble.Backward
}

func (c Config) assembly() assemble.Config {
	a := c.Assembly
	a.Policy = c.ReferencePolicy()
	return a
}

func (c Config) tokenLength() (assemble.TokenLengthFunc, error) {
	switch Tokenizer(strings.ToLower(string(c.Tokenizer))) {
	case "", Whitespace:
		return assemble.WhitespaceTokens, nil
	case Approx:
		return assemble.ApproxTokens, nil
	}
	return nil, fmt.Errorf("%w: unknown tokenizer %q", ErrInvalidConfig, c.Tokenizer)
}
