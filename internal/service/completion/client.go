// Package completion talks to the remote text-completion service that answers
// free-form questions. Two backends satisfy Client: a plain HTTP completer and
// an Ark chat-model completer; the dispatcher treats both identically and maps
// any failure to a fixed fallback reply.
package completion

import "context"

// Client generates a text continuation for a prompt. One attempt per call,
// no retries, no caching; callers own the fallback behavior.
type Client interface {
	Complete(ctx context.Context, prompt string) (string, error)
}
