// Package config loads, normalizes, and validates storevisit configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, applies STOREVISIT_* environment overrides,
// and honours provider key fallbacks such as OPENROUTER_API_KEY and
// GEMINI_API_KEY.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
