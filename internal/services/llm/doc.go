// Package llm provides an OpenRouter chat client that acts as the external
// model collaborator for observations.
//
// Client.Respond sends the shared observation prompt plus the inspector's
// text (or an input_audio part for recordings) and returns the model's raw
// reply. The reply is not decoded here; the pipeline decides whether it holds
// a structured payload.
//
// # Retry Behaviour
//
// The client retries on HTTP 408/429/5xx, empty content, and network
// timeouts with exponential backoff (base 1s, max 10s, 3 attempts by
// default). Retry-After headers are honoured. An optional rate.Limiter
// throttles every attempt. Context cancellation aborts retries immediately.
package llm
