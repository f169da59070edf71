// Package gitrepo contains helpers for interrogating and manipulating Git working copies.
//
// RepositoryManager exposes stateless branch, status, fetch, and pull
// operations built on execshell. RepositorySession wraps one working copy as a
// scoped resource: it records the checked-out branch on open and restores it
// on close regardless of how the intervening operations fared.
package gitrepo
