package analyzer

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/andybalholm/brotli"
	"github.com/pfrederiksen/qguide/internal/identity"
	"github.com/pfrederiksen/qguide/internal/record"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixturePath = "../../testdata/fixtures/report.html"

func strPtr(s string) *string { return &s }

func testTable() identity.Table {
	return identity.Table{
		"101": {
			CourseCodes:  []string{"COMPSCI 50"},
			CourseTitles: []string{"Introduction to Computer Science"},
			Offerings: []identity.Offering{
				{SemesterYear: "2024Fall", Professor: "David J. Malan", CourseCode: strPtr("CS 50"), CourseTitle: strPtr("Intro CS")},
			},
		},
	}
}

func copyFixture(t *testing.T, dir, name string) string {
	t.Helper()
	data, err := os.ReadFile(fixturePath)
	require.NoError(t, err)
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0644))
	return path
}

func TestAnalyze(t *testing.T) {
	dir := t.TempDir()
	a := New(testTable())

	t.Run("matched offering", func(t *testing.T) {
		got, err := a.Analyze(copyFixture(t, dir, "101_2024Fall_David_J._Malan.html"))
		require.NoError(t, err)

		assert.Equal(t, record.Record{
			FasID:        "101",
			Semester:     "2024Fall",
			Professor:    "David_J._Malan",
			CourseCode:   "CS 50",
			CourseTitle:  "Intro CS",
			NumStudents:  42,
			CourseRating: 4.17,
			HoursPerWeek: 7.25,
		}, got)
	})

	t.Run("fallback to first code", func(t *testing.T) {
		got, err := a.Analyze(copyFixture(t, dir, "101_2022Spring_Someone_Else.html"))
		require.NoError(t, err)
		assert.Equal(t, "COMPSCI 50", got.CourseCode)
		assert.Equal(t, "Introduction to Computer Science", got.CourseTitle)
		assert.Equal(t, "Someone_Else", got.Professor)
	})

	t.Run("unknown course id", func(t *testing.T) {
		got, err := a.Analyze(copyFixture(t, dir, "555_2024Fall_Nobody.html"))
		require.NoError(t, err)
		assert.Equal(t, record.UnknownCode, got.CourseCode)
		assert.Empty(t, got.CourseTitle)
	})

	t.Run("malformed filename", func(t *testing.T) {
		_, err := a.Analyze(copyFixture(t, dir, "101_2024Fall.html"))
		assert.True(t, errors.Is(err, ErrMalformedFilename))
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := a.Analyze(filepath.Join(dir, "101_2024Fall_Ghost.html"))
		assert.True(t, errors.Is(err, ErrUnreadable))
	})
}

func TestAnalyze_TooFewTables(t *testing.T) {
	page := `<html><body>
		<table><tbody><tr><th>Invited</th></tr><tr><td>42</td></tr></tbody></table>
		<table><tbody><tr><th>Hours per week</th></tr><tr><td>5</td></tr></tbody></table>
	</body></html>`

	_, err := New(testTable()).AnalyzeReader("101_2024Fall_David_J._Malan.html", strings.NewReader(page))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTooFewTables))
}

func TestAnalyze_EmptyStatsStillAnalyzable(t *testing.T) {
	page := `<html><body>
		<table><tbody><tr><td>a</td></tr></tbody></table>
		<table><tbody><tr><td>b</td></tr></tbody></table>
		<table><tbody><tr><td>c</td></tr></tbody></table>
	</body></html>`

	got, err := New(testTable()).AnalyzeReader("101_2024Fall_David_J._Malan.html", strings.NewReader(page))
	require.NoError(t, err)
	assert.Zero(t, got.NumStudents)
	assert.Zero(t, got.CourseRating)
	assert.Zero(t, got.HoursPerWeek)
	assert.Equal(t, "CS 50", got.CourseCode)
}

func TestAnalyze_Brotli(t *testing.T) {
	data, err := os.ReadFile(fixturePath)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "101_2024Fall_David_J._Malan.html.br")
	f, err := os.Create(path)
	require.NoError(t, err)
	w := brotli.NewWriter(f)
	_, err = w.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	require.NoError(t, f.Close())

	got, err := New(testTable()).Analyze(path)
	require.NoError(t, err)
	assert.Equal(t, "David_J._Malan", got.Professor)
	assert.InDelta(t, 4.17, got.CourseRating, 1e-9)
}

func TestDiscover(t *testing.T) {
	root := t.TempDir()
	sub := filepath.Join(root, "2024Fall")
	require.NoError(t, os.MkdirAll(sub, 0755))

	for _, name := range []string{
		filepath.Join(sub, "2_2024Fall_B.html"),
		filepath.Join(root, "1_2023Fall_A.html.br"),
		filepath.Join(root, "notes.txt"),
	} {
		require.NoError(t, os.WriteFile(name, []byte("x"), 0644))
	}

	paths, err := Discover(root)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(root, "1_2023Fall_A.html.br"),
		filepath.Join(sub, "2_2024Fall_B.html"),
	}, paths)

	_, err = Discover(filepath.Join(root, "missing"))
	assert.True(t, errors.Is(err, ErrNoDocumentsDir))
}
