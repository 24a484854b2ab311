package masm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestEveryOpHasAName iterates the closed Op enum (spec.md §3) and checks
// every member renders to something other than the "invalid" fallback,
// catching an Op added without a matching opStrings entry.
func TestEveryOpHasAName(t *testing.T) {
	for op := OpPush; op <= OpAssert; op++ {
		assert.NotEqual(t, "invalid", op.String(), "Op %d has no name", op)
	}
}
