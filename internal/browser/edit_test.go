package browser

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEditWorkflow_Begin(t *testing.T) {
	var w EditWorkflow

	assert.ErrorIs(t, w.Begin(EditRenaming, "", "/docs/"), ErrNoSelection)
	assert.Equal(t, EditIdle, w.State())

	require.NoError(t, w.Begin(EditRenaming, "/docs/a.txt", "/docs/"))
	assert.Equal(t, EditRenaming, w.State())
	assert.Equal(t, "a.txt", w.Buffer())

	err := w.Begin(EditSearching, "", "/docs/")
	assert.ErrorIs(t, err, ErrEditInProgress)
	assert.Equal(t, EditRenaming, w.State())

	w.Reset()
	assert.Equal(t, EditIdle, w.State())
	assert.Empty(t, w.Buffer())

	require.NoError(t, w.Begin(EditCreatingFolder, "", "/"))
	assert.Equal(t, DefaultFolderName, w.Buffer())
}

func TestEditWorkflow_FocusIsConsumedOnce(t *testing.T) {
	var w EditWorkflow
	assert.False(t, w.TakeFocus())

	require.NoError(t, w.Begin(EditSearching, "", "/"))
	assert.True(t, w.Active(), "state is entered before focus is taken")
	assert.True(t, w.TakeFocus())
	assert.False(t, w.TakeFocus())
}

func TestEditWorkflow_SetBufferIgnoredWhenIdle(t *testing.T) {
	var w EditWorkflow
	w.SetBuffer("x")
	assert.Empty(t, w.Buffer())

	require.NoError(t, w.Begin(EditSearching, "", "/"))
	w.SetBuffer("report")
	assert.Equal(t, "report", w.Buffer())
}

func TestValidateName(t *testing.T) {
	assert.NoError(t, ValidateName("report.txt"))
	assert.NoError(t, ValidateName(strings.Repeat("a", 255)))

	for _, bad := range []string{"", "   ", "a/b", `a\b`, "..", strings.Repeat("a", 256)} {
		err := ValidateName(bad)
		assert.True(t, IsValidation(err), "expected validation error for %q", bad)
	}
}
