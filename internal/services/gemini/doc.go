// Package gemini answers observations through the Gemini API using the genai
// SDK. Audio clips are sent inline so the model transcribes and classifies in
// one call.
package gemini
