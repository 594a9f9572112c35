// Package assist turns a user's tasks into language-model prompts and decodes
// the model output into typed results: a summary of pending work, suggested
// priorities (optionally written back to the tasks) and a completed
// description for a title.
//
// The package does not choose a backend. It is given a generation.Provider,
// usually a guarded Gemini or OpenAI-compatible provider built in cmd/server.
// Every failure to obtain or decode model output is reported as a
// *generation.ProviderError; errors from the task service pass through as is.
package assist
