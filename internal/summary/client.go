package summary

import "context"

// Client is a text-in, text-out completion provider. Replies are opaque
// free text; any structure is recovered by the caller.
type Client interface {
	Complete(ctx context.Context, prompt string, temperature float64) (string, error)
}
