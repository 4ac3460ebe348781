package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kaltura/kal-metadata-utils/internal/config"
	"github.com/kaltura/kal-metadata-utils/internal/metadata"
	"github.com/kaltura/kal-metadata-utils/pkg/kmeta"
)

func newLocalStore(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, dir, "1234.xsd", profileXSD)
	return dir
}

func TestApplyCmd_LocalStoreCreatesThenSkipsUnchanged(t *testing.T) {
	dir := newLocalStore(t)
	args := []string{"apply", "--store", dir, "--profile", "1234", "--entry", "0_abc", "--set", "Format=Phone", "--yes"}

	out, err := executeCommand(t, args...)
	require.NoError(t, err)
	assert.Contains(t, out, "0_abc: created")

	doc := mustParse(t, readFile(t, filepath.Join(dir, "1234", "0_abc.xml")))
	assert.Equal(t, []metadata.FieldInstance{{Name: "Format", Value: "Phone"}}, doc.Fields)

	out, err = executeCommand(t, args...)
	require.NoError(t, err)
	assert.Contains(t, out, "0_abc: unchanged")
}

func TestApplyCmd_LocalStoreUpdatesExisting(t *testing.T) {
	dir := newLocalStore(t)
	writeFile(t, dir, filepath.Join("1234", "0_abc.xml"), `<metadata><Format>Phone</Format><Notes>old</Notes></metadata>`)

	out, err := executeCommand(t, "apply", "--store", dir, "--profile", "1234",
		"--entry", "0_abc", "--set", "Notes=new", "--set", "Email=a@test.com", "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "0_abc: updated")

	doc := mustParse(t, readFile(t, filepath.Join(dir, "1234", "0_abc.xml")))
	assert.Equal(t, []metadata.FieldInstance{
		{Name: "Email", Value: "a@test.com"},
		{Name: "Format", Value: "Phone"},
		{Name: "Notes", Value: "new"},
	}, doc.Fields)
}

func TestApplyCmd_DryRunWritesNothing(t *testing.T) {
	dir := newLocalStore(t)

	out, err := executeCommand(t, "apply", "--store", dir, "--profile", "1234",
		"--entry", "0_abc", "--set", "Format=Phone", "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, out, "dry run")
	assert.Contains(t, out, "<Format>Phone</Format>")

	_, statErr := os.Stat(filepath.Join(dir, "1234", "0_abc.xml"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestApplyCmd_MultipleEntriesWithRejectedEdit(t *testing.T) {
	dir := newLocalStore(t)

	out, err := executeCommand(t, "apply", "--store", dir, "--profile", "1234",
		"--entry", "0_a,0_b", "--set", "Format=Drone", "--set", "Notes=x", "--yes")
	require.Error(t, err)
	assert.Equal(t, kmeta.ExitInvalidValue, kmeta.ExitCodeForError(err))
	assert.Contains(t, out, "0_a: created")
	assert.Contains(t, out, "0_b: created")
	assert.Contains(t, out, "rejected edits")

	for _, id := range []string{"0_a", "0_b"} {
		doc := mustParse(t, readFile(t, filepath.Join(dir, "1234", id+".xml")))
		v, ok := doc.Value("Notes")
		assert.True(t, ok)
		assert.Equal(t, "x", v)
	}
}

func TestApplyCmd_UnknownProfile(t *testing.T) {
	dir := newLocalStore(t)

	_, err := executeCommand(t, "apply", "--store", dir, "--profile", "999", "--entry", "0_abc", "--yes")
	require.Error(t, err)
	assert.Equal(t, kmeta.ExitStoreError, kmeta.ExitCodeForError(err))
}

func TestApplyCmd_UsageErrors(t *testing.T) {
	dir := newLocalStore(t)

	tests := []struct {
		name string
		args []string
	}{
		{"missing profile", []string{"apply", "--store", dir, "--entry", "0_abc", "--yes"}},
		{"missing entry", []string{"apply", "--store", dir, "--profile", "1234", "--yes"}},
		{"no terminal without --yes", []string{"apply", "--store", dir, "--profile", "1234", "--entry", "0_abc"}},
		{"positional argument", []string{"apply", "extra"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := executeCommand(t, tt.args...)
			require.Error(t, err)
			assert.Equal(t, kmeta.ExitUsageError, kmeta.ExitCodeForError(err), err.Error())
		})
	}
}

func TestApplyCmd_RemoteRequiresCredentials(t *testing.T) {
	t.Setenv(config.EnvPartnerID, "")
	t.Setenv(config.EnvAdminSecret, "")
	dir := t.TempDir()
	cfgPath := writeFile(t, dir, "kmeta.yaml", "timeout: 5s\n")

	_, err := executeCommand(t, "apply", "--config", cfgPath, "--profile", "1234", "--entry", "0_abc", "--yes")
	require.Error(t, err)
	assert.Equal(t, kmeta.ExitConfigError, kmeta.ExitCodeForError(err))
	assert.Contains(t, err.Error(), config.EnvPartnerID)
}

func TestApplyCmd_LocalStoreFromConfig(t *testing.T) {
	dir := newLocalStore(t)
	cfgPath := writeFile(t, t.TempDir(), "kmeta.yaml", "local_store: "+dir+"\n")

	out, err := executeCommand(t, "apply", "--config", cfgPath, "--profile", "1234",
		"--entry", "0_abc", "--set", "Format=Phone", "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "0_abc: created")
}
