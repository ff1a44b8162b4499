package docker

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, root, rel string) {
	t.Helper()
	path := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(rel), 0o644))
}

func TestStageDatasetSkipsVersionControlAtEveryDepth(t *testing.T) {
	src := t.TempDir()
	for _, rel := range []string{
		"dataset_description.json",
		"sub-02/anat/sub-02_T1w.nii.gz",
		".git/HEAD",
		".gitattributes",
		".datalad/config",
		"sub-02/.git",
		"derivatives/.datalad/config",
		"derivatives/README",
	} {
		writeFile(t, src, rel)
	}

	dst, err := StageDataset(src)
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(dst) })

	for _, rel := range []string{"dataset_description.json", "sub-02/anat/sub-02_T1w.nii.gz", "derivatives/README"} {
		assert.FileExists(t, filepath.Join(dst, rel))
	}
	for _, rel := range []string{".git", ".gitattributes", ".datalad", "sub-02/.git", "derivatives/.datalad"} {
		assert.NoFileExists(t, filepath.Join(dst, rel))
		assert.NoDirExists(t, filepath.Join(dst, rel))
	}
}

func TestStageDatasetGivesFreshCopies(t *testing.T) {
	src := t.TempDir()
	writeFile(t, src, "participants.tsv")

	first, err := StageDataset(src)
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(first) })
	second, err := StageDataset(src)
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(second) })

	assert.NotEqual(t, first, second)
	require.NoError(t, os.Remove(filepath.Join(first, "participants.tsv")))
	assert.FileExists(t, filepath.Join(second, "participants.tsv"))
	assert.FileExists(t, filepath.Join(src, "participants.tsv"))
}

func TestStageDatasetMissingSource(t *testing.T) {
	_, err := StageDataset(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}
