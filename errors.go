package linkweave

import (
	"errors"
	"fmt"

	"github.com/hupe1980/linkweave/assemble"
	"github.com/hupe1980/linkweave/blobstore/s3"
	"github.com/hupe1980/linkweave/corpus"
	"github.com/hupe1980/linkweave/graph"
	"github.com/hupe1980/linkweave/model"
	"github.com/hupe1980/linkweave/shard"
	"github.com/hupe1980/linkweave/traverse"
)

// Error categories. Every error returned by this package matches at most
// one of them with errors.Is and still unwraps to its cause.
var (
	// ErrIntegrity reports input that cannot form a corpus, such as two
	// documents sharing an ID. It is raised before any output is written.
	ErrIntegrity = errors.New("linkweave: integrity violation")
	// ErrInvalidConfig reports a rejected configuration.
	ErrInvalidConfig = errors.New("linkweave: invalid config")
	// ErrIO reports a failed shard or manifest write. The run is not
	// committed.
	ErrIO = errors.New("linkweave: i/o failure")
)

// GraphMismatchError is returned when a prebuilt graph does not describe
// the given documents. Missing is the first document absent from the graph,
// or 0 when only the sizes differ.
type GraphMismatchError struct {
	Documents int
	Nodes     int
	Missing   model.ID
}

func (e *GraphMismatchError) Error() string {
	if e.Missing != 0 {
		return fmt.Sprintf("graph has no node for document %d", e.Missing)
	}
	return fmt.Sprintf("graph has %d nodes for %d documents", e.Nodes, e.Documents)
}

func translateError(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, ErrIntegrity), errors.Is(err, ErrInvalidConfig), errors.Is(err, ErrIO):
		return err
	case errors.Is(err, graph.ErrDuplicateID),
		errors.Is(err, graph.ErrCorruptSnapshot),
		errors.Is(err, corpus.ErrMalformed):
		return fmt.Errorf("%w: %w", ErrIntegrity, err)
	case errors.Is(err, traverse.ErrInvalidConfig),
		errors.Is(err, assemble.ErrInvalidConfig):
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	case errors.Is(err, assemble.ErrSinkWrite),
		errors.Is(err, shard.ErrChecksum),
		errors.Is(err, s3.ErrAlreadyCommitted):
		return fmt.Errorf("%w: %w", ErrIO, err)
	}
	var mm *GraphMismatchError
	if errors.As(err, &mm) {
		return fmt.Errorf("%w: %w", ErrIntegrity, err)
	}
	return err
}
