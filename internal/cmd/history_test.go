package cmd

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/steveyegge/pakeforge/internal/exitcode"
	"github.com/steveyegge/pakeforge/internal/history"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const twoRecords = `[
    {"name": "WeRead", "url": "https://weread.qq.com", "identifier": "Default", "date": "2024-05-01 10:00:00"},
    {"name": "X", "url": "https://x.com", "identifier": "com.x.app", "date": "2024-05-02 11:30:00"}
]`

func TestHistory_List(t *testing.T) {
	dir := newProject(t, map[string]string{"pake_history.json": twoRecords})

	out, err := executeCmd(t, "-C", dir, "history")
	require.NoError(t, err)
	assert.Contains(t, out, "NAME")
	assert.Contains(t, out, "WeRead")
	assert.Contains(t, out, "com.x.app")
	assert.Contains(t, out, "2024-05-02 11:30:00")
}

func TestHistory_ListEmpty(t *testing.T) {
	dir := newProject(t, nil)

	out, err := executeCmd(t, "-C", dir, "history")
	require.NoError(t, err)
	assert.Contains(t, out, "No builds recorded yet.")
}

func TestHistory_ListJSON(t *testing.T) {
	dir := newProject(t, map[string]string{"pake_history.json": twoRecords})

	out, err := executeCmd(t, "-C", dir, "history", "--json")
	require.NoError(t, err)

	var records []history.Record
	require.NoError(t, json.Unmarshal([]byte(out), &records))
	require.Len(t, records, 2)
	assert.Equal(t, "https://x.com", records[1].URL)
}

func TestHistory_ListJSONEmptyIsArray(t *testing.T) {
	dir := newProject(t, nil)

	out, err := executeCmd(t, "-C", dir, "history", "--json")
	require.NoError(t, err)
	assert.JSONEq(t, "[]", out)
}

func TestHistory_Remove(t *testing.T) {
	dir := newProject(t, map[string]string{"pake_history.json": twoRecords})

	out, err := executeCmd(t, "-C", dir, "history", "rm", "WeRead", "https://weread.qq.com")
	require.NoError(t, err)
	assert.Contains(t, out, "Removed WeRead")

	records := history.NewFileStore(filepath.Join(dir, "pake_history.json"), nil).Load()
	require.Len(t, records, 1)
	assert.Equal(t, "X", records[0].Name)
}

func TestHistory_RemoveUnknown(t *testing.T) {
	dir := newProject(t, map[string]string{"pake_history.json": twoRecords})

	_, err := executeCmd(t, "-C", dir, "history", "rm", "WeRead", "https://other.example")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no history entry")
}

func TestHistory_RemoveNeedsTwoArgs(t *testing.T) {
	dir := newProject(t, nil)

	_, err := executeCmd(t, "-C", dir, "history", "rm", "WeRead")
	assert.Equal(t, exitcode.ErrUsage, exitcode.Code(err))
}

func TestHistory_ClearRequiresForce(t *testing.T) {
	dir := newProject(t, map[string]string{"pake_history.json": twoRecords})

	_, err := executeCmd(t, "-C", dir, "history", "clear")
	assert.Equal(t, exitcode.ErrUsage, exitcode.Code(err))

	out, err := executeCmd(t, "-C", dir, "history", "clear", "--force")
	require.NoError(t, err)
	assert.Contains(t, out, "Cleared 2 build(s)")

	data, err := os.ReadFile(filepath.Join(dir, "pake_history.json"))
	require.NoError(t, err)
	assert.JSONEq(t, "[]", string(data))
}
