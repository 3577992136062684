package llm

import "context"

// ChatCompleter sends one system + user exchange to a chat model and
// returns the raw text of the first reply. Implementations request JSON
// output where the provider supports it and map HTTP 429 to ErrRateLimited.
type ChatCompleter interface {
	CompleteJSON(ctx context.Context, system, user string) (string, error)
	GetModel() string
}
