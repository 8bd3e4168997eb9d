// Package forward implements webhook delivery of Warning notifications to
// a Microsoft Teams incoming webhook. Every failure mode of the outbound
// call — transport error, non-2xx status, timeout — maps to a single false
// result, so callers never branch on the failure cause.
package forward
