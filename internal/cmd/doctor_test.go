package cmd

import (
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"

	"github.com/steveyegge/pakeforge/internal/doctor"
	"github.com/steveyegge/pakeforge/internal/exitcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// toolbox answers LookPath/--version for the named tools only.
type toolbox map[string]string

func (tb toolbox) LookPath(name string) (string, error) {
	if _, ok := tb[name]; ok {
		return "/usr/bin/" + name, nil
	}
	return "", errors.New("not found")
}

func (tb toolbox) Output(name string, args ...string) (string, error) {
	if v, ok := tb[name]; ok {
		return v, nil
	}
	return "", errors.New("not found")
}

func stubDoctorTools(t *testing.T, tb toolbox) {
	t.Helper()
	prev := doctorCommander
	doctorCommander = tb
	t.Cleanup(func() { doctorCommander = prev })
}

func TestDoctor_HealthyProject(t *testing.T) {
	stubDoctorTools(t, toolbox{"sh": "v20.11.1"})
	dir := newProject(t, map[string]string{
		"node_modules/.keep": "",
		"cli.sh":             "",
	})

	out, err := executeCmd(t, "-C", dir, "doctor")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Ready to build")
}

func TestDoctor_MissingDepsFails(t *testing.T) {
	stubDoctorTools(t, toolbox{"sh": "v20.11.1"})
	dir := newProject(t, nil)

	out, err := executeCmd(t, "-C", dir, "doctor")
	require.Error(t, err)
	assert.Equal(t, exitcode.ErrGeneral, exitcode.Code(err))
	assert.Contains(t, out, "node_modules not found")
	assert.Contains(t, out, "pakeforge install")
}

func TestDoctor_OldRuntime(t *testing.T) {
	stubDoctorTools(t, toolbox{"sh": "v16.3.0"})
	dir := newProject(t, map[string]string{"node_modules/.keep": "", "cli.sh": ""})

	out, err := executeCmd(t, "-C", dir, "doctor", "runtime-version")
	require.Error(t, err)
	assert.Contains(t, out, "older than 18.0.0")
}

func TestDoctor_CategoryFilter(t *testing.T) {
	stubDoctorTools(t, toolbox{})
	dir := newProject(t, map[string]string{"pake_history.json": "[]"})

	out, err := executeCmd(t, "-C", dir, "doctor", "data")
	require.NoError(t, err, out)
	assert.Contains(t, out, "history")
	assert.NotContains(t, out, "package-manager")
}

func TestDoctor_UnknownCheckSuggests(t *testing.T) {
	stubDoctorTools(t, toolbox{})
	dir := newProject(t, nil)

	_, err := executeCmd(t, "-C", dir, "doctor", "histroy")
	require.Error(t, err)
	assert.Equal(t, exitcode.ErrUsage, exitcode.Code(err))
	assert.Contains(t, err.Error(), "Did you mean: history?")
}

func TestDoctor_JSON(t *testing.T) {
	stubDoctorTools(t, toolbox{"sh": "v20.11.1"})
	dir := newProject(t, map[string]string{"node_modules/.keep": "", "cli.sh": ""})

	out, err := executeCmd(t, "-C", dir, "doctor", "--json", "toolchain")
	require.NoError(t, err, out)

	var report struct {
		Summary doctor.ReportSummary `json:"summary"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, 2, report.Summary.Total)
	assert.Equal(t, 2, report.Summary.OK)
}

func TestDoctor_FixWritesConfig(t *testing.T) {
	stubDoctorTools(t, toolbox{})
	dir := t.TempDir()

	out, err := executeCmd(t, "-C", dir, "doctor", "config-file", "--fix")
	require.NoError(t, err, out)
	assert.Contains(t, out, "(fixed)")
	assert.FileExists(t, filepath.Join(dir, ".pakeforge", "config.toml"))
}

func TestDoctor_VerboseShowsDetails(t *testing.T) {
	stubDoctorTools(t, toolbox{"sh": "v20.11.1"})
	dir := newProject(t, map[string]string{"node_modules/.keep": "", "cli.sh": ""})
	marker := filepath.Join(dir, "node_modules")

	out, err := executeCmd(t, "-C", dir, "doctor", "dependencies")
	require.NoError(t, err, out)
	assert.NotContains(t, out, marker)

	out, err = executeCmd(t, "-C", dir, "doctor", "dependencies", "--verbose")
	require.NoError(t, err, out)
	assert.Contains(t, out, marker)
}

func TestDoctorLong_PlainFixMarker(t *testing.T) {
	t.Setenv("PAKEFORGE_NO_EMOJI", "1")

	long := buildDoctorLong()
	assert.Contains(t, long, "Checks marked * can be fixed")
	assert.Regexp(t, `config-file\s+\* `, long)
	assert.NotContains(t, long, "🔧")
}
