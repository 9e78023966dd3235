package corpus

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/yojana/internal/model"
)

func TestFileNames(t *testing.T) {
	assert.Equal(t, "processed_schemes.json", CanonicalFileName)
	assert.Equal(t, "processed_schemes_hindi.json", TranslatedFileName("hindi"))
	assert.Equal(t, "processed_schemes_marathi.json", TranslatedFileName("marathi"))
}

func TestWriteCorpus_Layout(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out", TranslatedFileName("hindi"))

	corpus := model.Corpus{
		model.LevelCentral: {
			"central_scheme_01": {
				SchemeName:  strPtr("प्रधानमंत्री किसान सम्मान निधि"),
				SchemeLevel: model.LevelCentral,
				SourceLink:  "https://agriwelfare.gov.in/en/Major/a.pdf?x=1&y=2",
			},
		},
	}

	require.NoError(t, WriteCorpus(path, corpus))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)

	assert.Contains(t, text, "प्रधानमंत्री किसान सम्मान निधि", "non-ASCII text should be written unescaped")
	assert.Contains(t, text, "a.pdf?x=1&y=2", "HTML characters should not be escaped")
	assert.Contains(t, text, `"description": null`, "absent fields are explicit nulls")
	assert.True(t, strings.HasPrefix(text, "{\n  \"central\""), "output should be indented")

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files should be left behind")
}

func TestReadCorpus_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), CanonicalFileName)
	corpus := GroupAndIdentify([]model.SchemeRecord{
		{SchemeName: strPtr("A"), SchemeLevel: model.LevelCentral, SourceLink: "a"},
		{SchemeLevel: model.LevelUnspecified, SourceLink: "b"},
	})

	require.NoError(t, WriteCorpus(path, corpus))

	loaded, err := ReadCorpus(path)
	require.NoError(t, err)
	assert.Equal(t, corpus, loaded)
	assert.Nil(t, loaded[model.LevelUnspecified]["unspecified_scheme_01"].SchemeName)
}

func TestReadCorpus_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := ReadCorpus(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{not json"), 0644))
	_, err = ReadCorpus(bad)
	assert.Error(t, err)

	empty := filepath.Join(dir, "null.json")
	require.NoError(t, os.WriteFile(empty, []byte("null"), 0644))
	loaded, err := ReadCorpus(empty)
	require.NoError(t, err)
	assert.NotNil(t, loaded)
}

func TestManifest(t *testing.T) {
	dir := t.TempDir()

	summary := NewRunSummary("process")
	summary.Documents = 3
	summary.Processed = 2
	summary.Fail("broken.pdf", model.StageExtract, assert.AnError)

	corpus := GroupAndIdentify([]model.SchemeRecord{
		{SchemeLevel: model.LevelCentral},
		{SchemeLevel: model.LevelCentral},
	})
	Finish(summary, corpus)

	require.NoError(t, WriteManifest(dir, summary))

	loaded, err := ReadManifest(dir)
	require.NoError(t, err)
	assert.Equal(t, summary.RunID, loaded.RunID)
	assert.Len(t, loaded.RunID, 36)
	assert.Equal(t, 2, loaded.Counts[model.LevelCentral])
	assert.NotContains(t, loaded.Counts, model.LevelState)
	require.Len(t, loaded.Failures, 1)
	assert.Equal(t, model.StageExtract, loaded.Failures[0].Stage)
	assert.False(t, loaded.FinishedAt.Before(loaded.StartedAt))
}
