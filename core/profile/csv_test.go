package profile_test

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"

	"github.com/mealmatch/mealmatch/core/profile"
)

func Test_ExportFilename(t *testing.T) {
	now := time.Date(2026, 8, 29, 15, 4, 5, 0, time.UTC)
	assert.Equal(t, "profiles_export_2026-08-29.csv", profile.ExportFilename(now))
}

func Test_WriteCSV_empty(t *testing.T) {
	var buf bytes.Buffer
	err := profile.WriteCSV(&buf, nil)
	assert.ErrorIs(t, err, profile.ErrNoProfiles)
	assert.Zero(t, buf.Len())
}

func Test_WriteCSV(t *testing.T) {
	p1 := profile.Profile{
		Name:       `Jo "J" Lee`,
		Email:      "jlee@brandeis.edu",
		Majors:     pq.StringArray{"CS", "Art"},
		ClassLevel: profile.ClassSenior,
	}
	p2 := profile.Profile{
		Name:          "Sam Cho",
		Email:         "scho@brandeis.edu",
		Majors:        pq.StringArray{"History"},
		ClassLevel:    profile.ClassJunior,
		HPHouse:       null.StringFrom("ravenclaw"),
		MealTimesJSON: []byte(`{"monday":{"dinner":["6:00-6:30 PM"]}}`),
	}

	var buf bytes.Buffer
	require.NoError(t, profile.WriteCSV(&buf, []profile.Profile{p1, p2}))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)

	// header is the union of observed fields in first-seen order: p1's fields
	// first, then p2's extras.
	header := strings.Split(lines[0], ",")
	assert.Equal(t, "id", header[0])
	idx := func(name string) int {
		for i, h := range header {
			if h == name {
				return i
			}
		}
		t.Fatalf("column %q missing from header %v", name, header)
		return -1
	}
	assert.Less(t, idx("name"), idx("hp_house"))
	assert.Less(t, idx("class_level"), idx("meal_times_json"))

	// null fields contribute no column
	for _, h := range header {
		assert.NotEqual(t, "personality_type", h)
		assert.NotEqual(t, "phone", h)
	}

	// sets are quoted and semicolon-joined; quotes inside strings are doubled
	assert.Contains(t, lines[1], `"CS;Art"`)
	assert.Contains(t, lines[1], `"Jo ""J"" Lee"`)

	// nested objects serialize as quoted JSON text
	assert.Contains(t, lines[2], `"{""monday"":{""dinner"":[""6:00-6:30 PM""]}}"`)

	// a row without a column's field leaves the cell empty
	row1 := strings.Split(lines[1], ",")
	assert.Equal(t, "", row1[idx("hp_house")])
}
