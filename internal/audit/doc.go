// Package audit implements the fallback audit log: a durable, append-only
// record of Warning notifications that had no webhook to go to.
package audit
