// Package imageapi provides a client for OpenAI-compatible image generation
// endpoints (OpenAI DALL-E and xAI Grok share the same wire shape).
//
// # Request
//
// Client.Generate POSTs {model, prompt, size, quality[, n]} to
// {base_url}/images/generations with Bearer authentication and returns the
// bytes of the first image. Providers either inline the image as b64_json or
// return a short-lived URL, which is downloaded with its own timeout.
//
// # Retry Behaviour
//
// Generation and download each retry on HTTP 408/429/5xx and network
// timeouts with exponential backoff (base 1s, max 10s, 3 attempts by
// default), honouring Retry-After. Other 4xx responses fail immediately.
// Context cancellation aborts retries immediately.
package imageapi
