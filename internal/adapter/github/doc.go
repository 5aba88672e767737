// Package github implements the comment store and diff source on top of
// the GitHub REST API.
//
// The client deliberately uses net/http directly rather than an SDK:
// the surface needed here is six comment endpoints plus the pull-request
// diff, and the typed error mapping feeds the shared httpx retry logic.
//
// Review comments use the line schema: comments address the
// new-revision line number with side=RIGHT, never the legacy diff
// position counter.
package github
