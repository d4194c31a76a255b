// Package profile contains concrete ProfileStore implementations. The store
// interface and Profile type reside in the core package; select an
// implementation (like the file store below) at wiring time.
package profile
