package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Document is the value held at a store path. Field values are the JSON
// scalar types; nested documents are not used by this application.
type Document map[string]any

var (
	// ErrNotFound is returned when no value exists at the requested path.
	ErrNotFound = errors.New("store: not found")
	// ErrExists is returned by Create when the path is already taken.
	ErrExists = errors.New("store: already exists")
	// ErrGuardFailed is returned by UpdateIf when the document exists but
	// the guard fields no longer match their expected values.
	ErrGuardFailed = errors.New("store: guard failed")
)

// Store is the remote document store: values addressed by "tree/key"
// paths, each operation a single round trip. UpdateIf is the one
// conditional primitive; it is what keeps two writers from claiming the
// same document.
type Store interface {
	// Get returns the document at path, or ErrNotFound.
	Get(ctx context.Context, path string) (Document, error)
	// GetAll returns every document under tree, keyed by document key.
	// An empty tree yields an empty map, not an error.
	GetAll(ctx context.Context, tree string) (map[string]Document, error)
	// Set replaces the document at path wholesale, creating it if absent.
	Set(ctx context.Context, path string, doc Document) error
	// SetAll writes every given document under tree.
	SetAll(ctx context.Context, tree string, docs map[string]Document) error
	// Create writes the document at path only if nothing is there yet.
	Create(ctx context.Context, path string, doc Document) error
	// Update merges fields into the document at path. ErrNotFound if the
	// document does not exist.
	Update(ctx context.Context, path string, fields Document) error
	// UpdateIf merges fields into the document at path only while every
	// guard field still holds its expected value. ErrNotFound if the
	// document is gone, ErrGuardFailed if the guard no longer matches.
	UpdateIf(ctx context.Context, path string, guard Document, fields Document) error
	// Remove deletes the document at path. Removing an absent document
	// is a no-op.
	Remove(ctx context.Context, path string) error
}

// splitPath parses a "tree/key" path into its two segments.
func splitPath(path string) (tree, key string, err error) {
	parts := strings.SplitN(path, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("store: invalid path %q, want \"tree/key\"", path)
	}
	return parts[0], parts[1], nil
}
