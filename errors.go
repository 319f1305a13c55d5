package ahocorasick

import "errors"

// Sentinel errors returned by this package. Callers should compare with
// errors.Is, since wrapped variants (e.g. "ahocorasick: compile: %w")
// are common at call boundaries.
var (
	// ErrEmptyKeyword is returned when Add/Set is called with a zero-length keyword.
	ErrEmptyKeyword = errors.New("ahocorasick: keyword must not be empty")

	// ErrAlreadyCompiled is returned by Builder methods that mutate the
	// trie (Add, Set) once Compile has succeeded.
	ErrAlreadyCompiled = errors.New("ahocorasick: builder already compiled")

	// ErrNotCompiled is not returned by any function in this package:
	// search methods exist only on Trie and Mapped, which are always
	// compiled.
	ErrNotCompiled = errors.New("ahocorasick: trie not compiled")

	// ErrKeyNotFound is not returned by any function in this package;
	// Builder.Get reports a keyword that was never added with ok=false.
	ErrKeyNotFound = errors.New("ahocorasick: keyword not found")

	// ErrInvalidImage is returned when a byte image fails the magic/BOM
	// or size checks during Open/OpenMapped.
	ErrInvalidImage = errors.New("ahocorasick: invalid trie image")

	// ErrClosed is returned by Mapped operations after Close.
	ErrClosed = errors.New("ahocorasick: mapped trie is closed")
)
