package runner

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jwebster45206/adventure-engine/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestCheckExpectations(t *testing.T) {
	sum := &session.GameSummary{
		Location:  "Kitchen",
		Score:     10,
		Moves:     4,
		Inventory: []string{"leaflet", "brass lantern"},
	}
	narration := "Kitchen\nYou are in the kitchen of the white house."

	tests := []struct {
		name    string
		exp     Expectations
		wantErr string
	}{
		{name: "empty", exp: Expectations{}},
		{name: "matching fields", exp: Expectations{Location: ptr("Kitchen"), Score: ptr(10), Moves: ptr(4), Deaths: ptr(0), Ended: ptr(false)}},
		{name: "wrong location", exp: Expectations{Location: ptr("Cellar")}, wantErr: "expected location Cellar"},
		{name: "wrong score", exp: Expectations{Score: ptr(5)}, wantErr: "expected score 5"},
		{name: "inventory any order", exp: Expectations{Inventory: []string{"brass lantern", "leaflet"}}},
		{name: "inventory missing", exp: Expectations{Inventory: []string{"leaflet", "brass lantern", "sword"}}, wantErr: "missing"},
		{name: "inventory extra", exp: Expectations{Inventory: []string{"leaflet"}}, wantErr: "unexpected item 'brass lantern'"},
		{name: "contains ignores case", exp: Expectations{NarrationContains: []string{"WHITE HOUSE"}}},
		{name: "contains missing", exp: Expectations{NarrationContains: []string{"grue"}}, wantErr: "to contain 'grue'"},
		{name: "not contains", exp: Expectations{NarrationNotContains: []string{"kitchen"}}, wantErr: "NOT contain"},
		{name: "regex", exp: Expectations{NarrationRegex: `^Kitchen\n`}},
		{name: "regex mismatch", exp: Expectations{NarrationRegex: `^Cellar`}, wantErr: "didn't match"},
		{name: "bad regex", exp: Expectations{NarrationRegex: `(`}, wantErr: "invalid regex"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckExpectations(tt.exp, sum, narration)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadTestSuiteWithExpansion(t *testing.T) {
	dir := t.TempDir()
	write := func(name, body string) string {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
		return path
	}

	write("a.yaml", `
name: mailbox
story: zork
steps:
  - input: open mailbox
    expect:
      narration_contains: [leaflet]
      moves: 1
  - input: look
    async: true
`)
	write("b.yaml", `
steps:
  - input: north
    expect:
      location: North of House
`)
	seq := write("all.yaml", `
name: everything
cases: [a.yaml, b.yaml]
`)

	jobs, err := LoadTestSuiteWithExpansion(seq, dir)
	require.NoError(t, err)
	require.Len(t, jobs, 2)

	assert.Equal(t, "mailbox", jobs[0].Name)
	assert.Equal(t, "zork", jobs[0].Suite.Story)
	require.Len(t, jobs[0].Suite.Steps, 2)
	assert.Equal(t, []string{"leaflet"}, jobs[0].Suite.Steps[0].Expectations.NarrationContains)
	assert.Equal(t, 1, *jobs[0].Suite.Steps[0].Expectations.Moves)
	assert.True(t, jobs[0].Suite.Steps[1].Async)

	assert.Equal(t, "b", jobs[1].Name, "name defaults to the file name")
	assert.Equal(t, "North of House", *jobs[1].Suite.Steps[0].Expectations.Location)

	_, err = LoadTestSuiteWithExpansion(write("broken.yaml", "cases: [missing.yaml]"), dir)
	assert.ErrorContains(t, err, "missing.yaml")
}
