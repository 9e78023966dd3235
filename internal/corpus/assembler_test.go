package corpus

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/yojana/internal/model"
)

func strPtr(s string) *string { return &s }

func newTestAssembler() *Assembler {
	return NewDefaultAssembler(model.DefaultConfig().Extract)
}

func TestAssembler_PMKisan(t *testing.T) {
	text := "Scheme Name: PM-KISAN Samman Nidhi\n" +
		"Eligibility: All landholding farmer families\n\n" +
		"Benefits: Rs 6000 per year in three instalments"

	rec := newTestAssembler().Assemble(text, "pm_kisan.pdf")

	require.NotNil(t, rec.SchemeName)
	assert.Equal(t, "PM-KISAN Samman Nidhi", *rec.SchemeName)
	require.NotNil(t, rec.Eligibility)
	assert.Equal(t, "All landholding farmer families", *rec.Eligibility)
	require.NotNil(t, rec.Benefits)
	assert.Equal(t, "Rs 6000 per year in three instalments", *rec.Benefits)
	assert.Nil(t, rec.Deadline)
	assert.Nil(t, rec.Category)
	assert.Nil(t, rec.ApplicationProcess)

	require.NotNil(t, rec.Description)
	assert.Equal(t, "Eligibility: All landholding farmer families Benefits: Rs 6000 per year in three instalments", *rec.Description)

	assert.Equal(t, model.LevelCentral, rec.SchemeLevel)
	assert.Equal(t, "https://agriwelfare.gov.in/en/Major/pm_kisan.pdf", rec.SourceLink)
}

func TestAssembler_NoNameNoDescription(t *testing.T) {
	text := "Some circular text. The State Government will notify details. Contact the state department."

	rec := newTestAssembler().Assemble(text, "circular.pdf")

	assert.Nil(t, rec.SchemeName)
	assert.Nil(t, rec.Description)
	assert.Equal(t, model.LevelState, rec.SchemeLevel)
}

func TestAssembler_ConcurrentUse(t *testing.T) {
	a := newTestAssembler()
	text := "Scheme Name: Kisan Credit Card\nCategory: Credit"

	var wg sync.WaitGroup
	results := make([]model.SchemeRecord, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = a.Assemble(text, "kcc.pdf")
		}(i)
	}
	wg.Wait()

	for _, rec := range results {
		assert.Equal(t, results[0], rec)
	}
}

func TestSourceLinker_Link(t *testing.T) {
	tests := []struct {
		name string
		base string
		ref  string
		want string
	}{
		{"file name", DefaultSourceBaseURL, "pm_kisan.pdf", "https://agriwelfare.gov.in/en/Major/pm_kisan.pdf"},
		{"local path", DefaultSourceBaseURL + "/", "data/raw_pdfs/smam.pdf", "https://agriwelfare.gov.in/en/Major/smam.pdf"},
		{"escapes spaces", DefaultSourceBaseURL, "Scheme Guidelines.pdf", "https://agriwelfare.gov.in/en/Major/Scheme%20Guidelines.pdf"},
		{"already a URL", DefaultSourceBaseURL, "https://pmkisan.gov.in/doc.pdf", "https://pmkisan.gov.in/doc.pdf"},
		{"no base", "", "x.pdf", "x.pdf"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NewSourceLinker(tt.base).Link(tt.ref))
		})
	}
}

func TestGroupAndIdentify(t *testing.T) {
	records := []model.SchemeRecord{
		{SchemeName: strPtr("A"), SchemeLevel: model.LevelCentral},
		{SchemeName: strPtr("B"), SchemeLevel: model.LevelState},
		{SchemeName: strPtr("C"), SchemeLevel: model.LevelCentral},
	}

	corpus := GroupAndIdentify(records)

	require.Len(t, corpus, 2)
	assert.NotContains(t, corpus, model.LevelUnspecified)

	require.Len(t, corpus[model.LevelCentral], 2)
	assert.Equal(t, "A", *corpus[model.LevelCentral]["central_scheme_01"].SchemeName)
	assert.Equal(t, "C", *corpus[model.LevelCentral]["central_scheme_02"].SchemeName)

	require.Len(t, corpus[model.LevelState], 1)
	assert.Equal(t, "B", *corpus[model.LevelState]["state_scheme_01"].SchemeName)

	assert.Equal(t, []string{"central_scheme_01", "central_scheme_02"}, corpus.IDs(model.LevelCentral))
}

func TestGroupAndIdentify_Empty(t *testing.T) {
	corpus := GroupAndIdentify(nil)
	assert.Empty(t, corpus)
	assert.Equal(t, 0, corpus.Count())
}

func TestGroupAndIdentify_PreservesCountAndOrder(t *testing.T) {
	var records []model.SchemeRecord
	levels := []model.Level{model.LevelUnspecified, model.LevelCentral, model.LevelState}
	for i := 0; i < 120; i++ {
		name := string(rune('a' + i%26))
		records = append(records, model.SchemeRecord{SchemeName: strPtr(name), SchemeLevel: levels[i%3]})
	}

	corpus := GroupAndIdentify(records)
	assert.Equal(t, len(records), corpus.Count())

	for _, level := range levels {
		ids := corpus.IDs(level)
		require.Len(t, ids, 40)
		assert.Equal(t, model.SchemeID(level, 1), ids[0])
		assert.Equal(t, model.SchemeID(level, 40), ids[39])
	}

	// Record k of a level is the k-th input record with that level
	assert.Equal(t, *records[4].SchemeName, *corpus[model.LevelCentral]["central_scheme_02"].SchemeName)
}
