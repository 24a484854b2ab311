package compilecmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompileAddFixturePrintsMASM(t *testing.T) {
	cmd := Command()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"add"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "begin\n")
	assert.Contains(t, out.String(), "exec.f0")
}

func TestCompileUnknownFixtureErrors(t *testing.T) {
	cmd := Command()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"nope"})

	assert.Error(t, cmd.Execute())
}
