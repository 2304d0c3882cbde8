package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePolicy(t *testing.T) {
	tests := []struct {
		input string
		want  Policy
	}{
		{"skip", PolicySkip},
		{"overwrite", PolicyOverwrite},
		{"copy", PolicyCopy},
		{"merge", PolicyMerge},
		{"SKIP", PolicySkip},
		{"  Merge  ", PolicyMerge},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, ParsePolicy(tt.input))
		})
	}
}

func TestParsePolicy_UnknownDefaultsToCopy(t *testing.T) {
	assert.Equal(t, PolicyCopy, ParsePolicy("rename"))
	assert.Equal(t, PolicyCopy, ParsePolicy(""))
	assert.Equal(t, PolicyCopy, ParsePolicy("bogus"))
}

func TestParseOperation(t *testing.T) {
	op, err := ParseOperation("copy")
	require.NoError(t, err)
	assert.Equal(t, OpCopy, op)

	op, err = ParseOperation("  CUT ")
	require.NoError(t, err)
	assert.Equal(t, OpCut, op)

	op, err = ParseOperation("rename")
	require.NoError(t, err)
	assert.Equal(t, OpRename, op)
}

func TestParseOperation_Unknown(t *testing.T) {
	_, err := ParseOperation("delete")
	assert.ErrorIs(t, err, ErrUnknownOperation)
}

func TestDestructive(t *testing.T) {
	assert.False(t, OpCopy.Destructive())
	assert.True(t, OpCut.Destructive())
	assert.True(t, OpRename.Destructive())
}

func TestTransferOp(t *testing.T) {
	assert.Equal(t, OpCopy, TransferOp(false))
	assert.Equal(t, OpCut, TransferOp(true))
}

func TestPolicies_CoversAllVariants(t *testing.T) {
	for _, p := range []Policy{PolicySkip, PolicyOverwrite, PolicyCopy, PolicyMerge} {
		assert.Contains(t, Policies, p)
	}
}
