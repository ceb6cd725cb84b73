// Command linkweave builds graph-coherent training shards from an extracted
// article corpus.
//
//	linkweave run --input articles.jsonl.zst --redirects redirects.jsonl.zst \
//	    --output s3://datasets/wiki/bfs --config run.yaml
//	linkweave stats --input articles.jsonl.zst --top 20
//	linkweave snapshot --input articles.jsonl.zst --out wiki.lwg
//	linkweave verify --output s3://datasets/wiki/bfs
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "linkweave: %v\n", err)
		stop()
		os.Exit(1)
	}
}
