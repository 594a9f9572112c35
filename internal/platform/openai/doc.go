// Package openai implements generation.Provider against any server speaking
// the OpenAI chat-completions protocol, using the go-openai client.
package openai
