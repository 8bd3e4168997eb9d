// Package pipeline orchestrates notification ingestion: validation,
// storage, the forwarding decision, delivery or its audit-log fallback, and
// the one-shot outcome annotation on the stored record.
package pipeline
