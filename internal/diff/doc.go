// Package diff parses unified diff text into a queryable index of the
// lines each file gained on its new revision.
//
// The index answers one question in O(1): was this (file, line) pair
// introduced or modified by the diff? That is what decides whether an
// analyzer finding can carry an inline review comment at all.
//
// The per-line scan also records the legacy 1-indexed diff position
// (counted from the first @@ header, across context, additions, and
// deletions) for comment stores that only address comments by position.
package diff
