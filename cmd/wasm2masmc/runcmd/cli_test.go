package runcmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunAddFixturePrintsFinalStack(t *testing.T) {
	cmd := Command()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"add"})

	require.NoError(t, cmd.Execute())
	assert.Equal(t, "stack: 5\n", out.String())
}
