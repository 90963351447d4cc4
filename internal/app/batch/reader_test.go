package batch

import (
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DDMAL/CantusDB-sub000/internal/config"
	"github.com/DDMAL/CantusDB-sub000/internal/domain"
)

func testdataPath(t *testing.T, name string) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("cannot determine test file path")
	}
	return filepath.Join(filepath.Dir(file), "testdata", name)
}

func TestReadFile_CSV(t *testing.T) {
	t.Parallel()

	chants, err := ReadFile(testdataPath(t, "chants.csv"), "")
	require.NoError(t, err)
	require.Len(t, chants, 6)

	assert.Equal(t, domain.Chant{ID: "219427", Text: "an{#}", Volpiano: "1---a--6------6---4"}, chants[0])
	assert.Equal(t, "Sanctus sanctus sanctus", chants[1].Text)
	assert.False(t, chants[1].PreSyllabified)
	assert.True(t, chants[2].PreSyllabified)
	assert.Equal(t, domain.Chant{ID: "3"}, chants[3])
	assert.Equal(t, "4", chants[4].ID)
	assert.Equal(t, "", chants[5].ID)
}

func TestReadFile_JSONL(t *testing.T) {
	t.Parallel()

	chants, err := ReadFile(testdataPath(t, "chants.jsonl"), "")
	require.NoError(t, err)
	require.Len(t, chants, 3)

	assert.Equal(t, "619450", chants[0].ID)
	assert.Equal(t, "| ~Ipsum dixit dominus | ad", chants[1].Text)
	assert.Equal(t, "1---f---g---h---4---", chants[2].Volpiano)
}

func TestReadFile_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		file    string
		format  string
		wantErr string
	}{
		{"unterminated quote", "broken.csv", "", "read row"},
		{"malformed json", "broken.jsonl", "", "line 2"},
		{"missing id column", "no_id.csv", "", "missing id column"},
		{"bad bool", "bad_bool.csv", "", "pre_syllabified"},
		{"missing file", "nope.csv", "", "open input"},
		{"unknown extension", "chants.txt", "", "cannot detect input format"},
		{"unknown format", "chants.csv", "xml", "unknown input format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := ReadFile(testdataPath(t, tt.file), tt.format)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestReadFile_ExplicitFormat(t *testing.T) {
	t.Parallel()

	// A .csv extension is ignored when the format is given.
	_, err := ReadFile(testdataPath(t, "chants.csv"), config.FormatJSONL)
	assert.Error(t, err)
}

func TestReadCSV_EmptyInput(t *testing.T) {
	t.Parallel()

	chants, err := ReadCSV(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, chants)
}

func TestReadCSV_HeaderWithBOMAndCase(t *testing.T) {
	t.Parallel()

	in := "\ufeffID,Volpiano,Text\n7,1---f---4,alleluia\n"
	chants, err := ReadCSV(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, chants, 1)
	assert.Equal(t, domain.Chant{ID: "7", Text: "alleluia", Volpiano: "1---f---4"}, chants[0])
}

func TestDetectFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path, format, want string
	}{
		{"in.csv", "", config.FormatCSV},
		{"IN.CSV", "", config.FormatCSV},
		{"in.jsonl", "", config.FormatJSONL},
		{"in.ndjson", "", config.FormatJSONL},
		{"in.txt", config.FormatCSV, config.FormatCSV},
	}
	for _, tt := range tests {
		got, err := DetectFormat(tt.path, tt.format)
		require.NoError(t, err, tt.path)
		assert.Equal(t, tt.want, got, tt.path)
	}
}
