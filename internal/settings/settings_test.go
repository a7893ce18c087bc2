package settings

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	s := Default()

	assert.Equal(t, BlockCodeblock, s.BlockType)
	assert.Empty(t, s.PreferredLanguages)
	assert.Equal(t, "en", s.TargetLanguage)
	assert.Equal(t, AutoDetect, s.SourceHint())
}

func TestParseLanguageList(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{name: "empty", input: "", expected: []string{}},
		{name: "only separators", input: " , ,, ", expected: []string{}},
		{name: "trimmed", input: " de , fr,ja ", expected: []string{"de", "fr", "ja"}},
		{name: "order kept", input: "zh-CN,en", expected: []string{"zh-CN", "en"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseLanguageList(tt.input))
		})
	}
}

func TestSourceHintUsesFirstPreferredLanguage(t *testing.T) {
	s := Default()
	s.PreferredLanguages = []string{"de", "fr"}

	assert.Equal(t, "de", s.SourceHint())
}

func TestNormalize(t *testing.T) {
	s := Settings{
		BlockType:          BlockType("table"),
		PreferredLanguages: []string{" de ", "", "  "},
		TargetLanguage:     "   ",
	}
	s.Normalize()

	assert.Equal(t, BlockCodeblock, s.BlockType)
	assert.Equal(t, []string{"de"}, s.PreferredLanguages)
	assert.Equal(t, "en", s.TargetLanguage)
}

func TestParseBlockType(t *testing.T) {
	b, ok := ParseBlockType(" Quotation ")
	assert.True(t, ok)
	assert.Equal(t, BlockQuotation, b)

	b, ok = ParseBlockType("fenced")
	assert.False(t, ok)
	assert.Equal(t, DefaultBlockType, b)
}

func TestFileStoreFirstRun(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "missing", "settings.yaml"))

	partial, err := store.Load()
	require.NoError(t, err)
	assert.Nil(t, partial)
}

func TestFileStoreRoundTrip(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "nested", "settings.yaml"))

	saved := Settings{
		BlockType:          BlockCallout,
		PreferredLanguages: []string{"ja", "de"},
		TargetLanguage:     "fr",
	}
	require.NoError(t, store.Save(saved))

	partial, err := store.Load()
	require.NoError(t, err)
	require.NotNil(t, partial)

	assert.Equal(t, saved, partial.Apply(Default()))
}

func TestFileStorePartialOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte("target_language: de\n"), 0o644))

	partial, err := NewFileStore(path).Load()
	require.NoError(t, err)

	s := partial.Apply(Default())
	assert.Equal(t, "de", s.TargetLanguage)
	assert.Equal(t, BlockCodeblock, s.BlockType)
	assert.Empty(t, s.PreferredLanguages)
}

func TestFileStoreCommaSeparatedLanguages(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte("preferred_languages: \"es, pt\"\nblock_type: quotation\n"), 0o644))

	partial, err := NewFileStore(path).Load()
	require.NoError(t, err)

	s := partial.Apply(Default())
	assert.Equal(t, []string{"es", "pt"}, s.PreferredLanguages)
	assert.Equal(t, BlockQuotation, s.BlockType)
}

func TestFileStoreUnknownBlockTypeFallsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte("block_type: table\n"), 0o644))

	partial, err := NewFileStore(path).Load()
	require.NoError(t, err)
	assert.Equal(t, BlockCodeblock, partial.Apply(Default()).BlockType)
}

func TestManagerLoadMalformedFileUsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte("block_type: [unclosed\n"), 0o644))

	m := NewManager(NewFileStore(path), nil)
	assert.Equal(t, Default(), m.Load())
}

func TestManagerMutationsPersist(t *testing.T) {
	store := NewMemoryStore(nil)
	m := NewManager(store, nil)
	m.Load()

	require.NoError(t, m.SetBlockType(BlockQuotation))
	require.NoError(t, m.SetPreferredLanguages(" de, ,fr "))
	require.NoError(t, m.SetTargetLanguage(""))

	saved := store.Saved()
	require.Len(t, saved, 3)
	assert.Equal(t, BlockQuotation, saved[0].BlockType)
	assert.Equal(t, []string{"de", "fr"}, saved[1].PreferredLanguages)
	assert.Equal(t, "en", saved[2].TargetLanguage)

	assert.Equal(t, saved[2], m.Current())
}

func TestManagerRejectsInvalidBlockType(t *testing.T) {
	store := NewMemoryStore(nil)
	m := NewManager(store, nil)

	assert.Error(t, m.SetBlockType(BlockType("table")))
	assert.Empty(t, store.Saved())
}

func TestManagerCurrentIsACopy(t *testing.T) {
	m := NewManager(NewMemoryStore(nil), nil)
	require.NoError(t, m.SetPreferredLanguages("de"))

	s := m.Current()
	s.PreferredLanguages[0] = "xx"

	assert.Equal(t, []string{"de"}, m.Current().PreferredLanguages)
}

func TestManagerSaveThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")

	first := NewManager(NewFileStore(path), nil)
	first.Load()
	require.NoError(t, first.SetBlockType(BlockCallout))
	require.NoError(t, first.SetPreferredLanguages("ko"))
	require.NoError(t, first.SetTargetLanguage("zh-CN"))

	second := NewManager(NewFileStore(path), nil)
	assert.Equal(t, first.Current(), second.Load())
}
