package store_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/bkyoung/diff-annotate/internal/store"
)

func TestGenerateRunID(t *testing.T) {
	ts := time.Date(2026, 8, 29, 14, 30, 52, 0, time.UTC)

	id := store.GenerateRunID(ts, "acme/app", 7)

	assert.True(t, strings.HasPrefix(id, "run-20260829T143052Z-"))
	assert.Len(t, id, len("run-20260829T143052Z-")+6)
}

func TestGenerateRunID_UniquePerInstant(t *testing.T) {
	a := store.GenerateRunID(time.Now(), "acme/app", 7)
	b := store.GenerateRunID(time.Now(), "acme/app", 7)

	assert.NotEqual(t, a, b)
}
