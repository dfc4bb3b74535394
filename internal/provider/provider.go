package provider

import "context"

// FallbackResponse is returned to the caller and persisted in the ledger
// whenever the provider fails for any reason.
const FallbackResponse = "I'm sorry, but I encountered an error while processing your question."

// AnswerProvider answers a question through the external managed retrieval
// service. Implementations never return an error: any internal failure is
// absorbed and surfaces as FallbackResponse.
type AnswerProvider interface {
	Ask(ctx context.Context, question string) string
}
