package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/hupe1980/linkweave"
	"github.com/hupe1980/linkweave/assemble"
	"github.com/hupe1980/linkweave/model"
	"github.com/hupe1980/linkweave/traverse"
)

// loadConfig decodes a YAML run configuration over the defaults. Unknown
// keys are rejected. An empty path returns the defaults.
func loadConfig(path string) (linkweave.Config, error) {
	cfg := linkweave.DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// traversalFlags are the run settings that may override the config file.
type traversalFlags struct {
	strategy    string
	starts      []string
	startRule   string
	maxDepth    int
	maxNodes    int
	seed        int64
	tokenBudget int
	docBudget   int
	policy      string
	tokenizer   string
}

func (f *traversalFlags) addFlags(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVar(&f.strategy, "strategy", "", "breadth_first, depth_first or random_walk")
	fl.StringSliceVar(&f.starts, "start", nil, "start document ids, in order")
	fl.StringVar(&f.startRule, "start-rule", "", "explicit or highest_in_degree")
	fl.IntVar(&f.maxDepth, "max-depth", linkweave.Unbounded, "largest traversal depth (-1 unbounded)")
	fl.IntVar(&f.maxNodes, "max-nodes", linkweave.Unbounded, "largest number of emitted documents (-1 unbounded)")
	fl.Int64Var(&f.seed, "seed", 0, "random walk seed")
	fl.IntVar(&f.tokenBudget, "token-budget", linkweave.Unbounded, "shard token budget (-1 unbounded)")
	fl.IntVar(&f.docBudget, "doc-budget", 1000, "shard document budget (-1 unbounded)")
	fl.StringVar(&f.policy, "reference-policy", "", "backward or output_set (default depends on strategy)")
	fl.StringVar(&f.tokenizer, "tokenizer", "", "whitespace or approx")
}

// apply overrides cfg with the flags set on cmd.
func (f *traversalFlags) apply(cmd *cobra.Command, cfg *linkweave.Config) error {
	changed := cmd.Flags().Changed
	if changed("strategy") {
		st, err := traverse.ParseStrategy(f.strategy)
		if err != nil {
			return err
		}
		cfg.Traversal.Strategy = st
	}
	if changed("start") {
		ids := make([]model.ID, 0, len(f.starts))
		for _, s := range f.starts {
			id, err := strconv.ParseUint(strings.TrimSpace(s), 10, 64)
			if err != nil {
				return fmt.Errorf("invalid start id %q", s)
			}
			ids = append(ids, model.ID(id))
		}
		cfg.Traversal.StartIDs = ids
		if !changed("start-rule") {
			cfg.Traversal.StartRule = traverse.StartExplicit
		}
	}
	if changed("start-rule") {
		cfg.Traversal.StartRule = traverse.StartRule(f.startRule)
	}
	if changed("max-depth") {
		cfg.Traversal.MaxDepth = f.maxDepth
	}
	if changed("max-nodes") {
		cfg.Traversal.MaxNodes = f.maxNodes
	}
	if changed("seed") {
		cfg.Traversal.Seed = f.seed
	}
	if changed("token-budget") {
		cfg.Assembly.TokenBudget = f.tokenBudget
	}
	if changed("doc-budget") {
		cfg.Assembly.DocBudget = f.docBudget
	}
	if changed("reference-policy") {
		cfg.Assembly.Policy = assemble.ReferencePolicy(f.policy)
	}
	if changed("tokenizer") {
		cfg.Tokenizer = linkweave.Tokenizer(f.tokenizer)
	}
	return cfg.Validate()
}
