package policyerrors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompileErrorMessage(t *testing.T) {
	err := New(KindMissingMandatory, "FileClass", "name", "mandatory parameter is missing")
	assert.Equal(t, "FileClass::name: mandatory parameter is missing", err.Error())

	withLine := err.WithLine(42)
	assert.Equal(t, "FileClass::name: mandatory parameter is missing, line 42", withLine.Error())
	// WithLine must not mutate the receiver.
	assert.Equal(t, 0, err.Line)
}

func TestCompileErrorNoVar(t *testing.T) {
	err := New(KindUnknownItem, "Migration_Policy", "", "unexpected item")
	assert.Equal(t, "Migration_Policy: unexpected item", err.Error())
}

func TestCompileErrorWrapUnwrap(t *testing.T) {
	sentinel := errors.New("boom")
	err := Wrap(KindTypeMismatch, "General", "max_depth", sentinel)
	require.ErrorIs(t, err, sentinel)
}

func TestMultiErrorFiltersNil(t *testing.T) {
	e1 := New(KindModule, "general", "", "read failed")
	err := NewMultiError([]error{nil, e1, nil})
	require.Error(t, err)
	var me *MultiError
	require.ErrorAs(t, err, &me)
	assert.Len(t, me.Errors, 1)
}

func TestMultiErrorEmptyIsNil(t *testing.T) {
	assert.NoError(t, NewMultiError(nil))
	assert.NoError(t, NewMultiError([]error{nil, nil}))
}

func TestMultiErrorSingleMessagePassthrough(t *testing.T) {
	e1 := New(KindModule, "general", "", "read failed")
	err := NewMultiError([]error{e1})
	assert.Equal(t, e1.Error(), err.Error())
}
