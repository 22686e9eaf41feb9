// Package services orchestrates the two analytics pipelines: loading the
// raw exports, running the engines, recording run metrics, and exporting
// the results. Handlers and CLI commands depend on this layer rather
// than on the engines directly.
package services
