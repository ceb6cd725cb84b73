package linkweave

import (
	"time"

	"github.com/hupe1980/linkweave/model"
	"github.com/hupe1980/linkweave/titleindex"
)

// Summary accompanies every successful run. It is recorded in the shard
// manifest.
type Summary struct {
	RunID string `json:"run_id,omitempty"`

	// Corpus.
	Documents         int                    `json:"documents"`
	Edges             int                    `json:"edges"`
	Titles            int                    `json:"titles"`
	Aliases           int                    `json:"aliases"`
	TitleCollisions   []titleindex.Collision `json:"title_collisions,omitempty"`
	DanglingRedirects int                    `json:"dangling_redirects"`
	DanglingLinks     int                    `json:"dangling_links"`
	SelfLoops         int                    `json:"self_loops"`
	DuplicateLinks    int                    `json:"duplicate_links"`

	// Traversal.
	Strategy      string     `json:"strategy"`
	Starts        int        `json:"starts"`
	SkippedStarts []model.ID `json:"skipped_starts,omitempty"`
	Visited       int        `json:"visited"`
	Truncated     bool       `json:"truncated"`

	// Assembly.
	ReferencePolicy   string `json:"reference_policy"`
	Shards            int    `json:"shards"`
	Emitted           int    `json:"emitted"`
	Tokens            int    `json:"tokens"`
	RewrittenLinks    int    `json:"rewritten_links"`
	PlainLinks        int    `json:"plain_links"`
	DeferredLinks     int    `json:"deferred_links"`
	ExternalLinks     int    `json:"external_links"`
	MissingDocuments  int    `json:"missing_documents"`
	OversizeDocuments int    `json:"oversize_documents"`

	Elapsed time.Duration `json:"elapsed_ns"`
}

// DroppedLinks counts raw outgoing titles that did not become graph edges.
func (s *Summary) DroppedLinks() int {
	return s.DanglingLinks + s.SelfLoops + s.DuplicateLinks
}
