// Package gemini implements generation.Provider on top of Google's Gemini API
// using the google.golang.org/genai client.
package gemini
