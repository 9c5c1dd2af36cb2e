package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		wantNil   bool
		wantIDs   []string
		wantEdges int
	}{
		{name: "malformed json", raw: `{ bad json`, wantNil: true},
		{name: "not an object", raw: `[1,2,3]`, wantNil: true},
		{name: "null", raw: `null`, wantNil: true},
		{name: "missing skills", raw: `{"prereqs": []}`, wantNil: true},
		{name: "skills not array", raw: `{"skills": {}, "prereqs": []}`, wantNil: true},
		{name: "prereqs not array", raw: `{"skills": [{"id":"a","data":{"name":"A","description":"d"}}], "prereqs": "x"}`, wantNil: true},
		{name: "no skills survive", raw: `{"skills": [{"id": 5}], "prereqs": []}`, wantNil: true},
		{
			name:    "level out of range dropped",
			raw:     `{"skills": [{"id":"a","data":{"name":"A","description":"d","level":2000}}, {"id":"b","data":{"name":"B","description":"d","level":999}}], "prereqs": []}`,
			wantIDs: []string{"b"},
		},
		{
			name:    "fractional level dropped",
			raw:     `{"skills": [{"id":"a","data":{"name":"A","description":"d","level":1.5}}, {"id":"b","data":{"name":"B","description":"d"}}]}`,
			wantIDs: []string{"b"},
		},
		{
			name:    "negative level dropped",
			raw:     `{"skills": [{"id":"a","data":{"name":"A","description":"d","level":-1}}, {"id":"b","data":{"name":"B","description":"d","level":null}}]}`,
			wantIDs: []string{"b"},
		},
		{
			name:    "wrong field types dropped",
			raw:     `{"skills": [{"id":"a","data":{"name":3,"description":"d"}}, {"id":"b","data":{"name":"B","description":"d","isUnlocked":"yes"}}, {"id":"c","data":{"name":"C","description":"d"}}]}`,
			wantIDs: []string{"c"},
		},
		{
			name:    "markup-only name dropped",
			raw:     `{"skills": [{"id":"a","data":{"name":"<script>x</script>","description":"d"}}, {"id":"b","data":{"name":"B","description":"d"}}]}`,
			wantIDs: []string{"b"},
		},
		{
			name:    "duplicate ids keep first",
			raw:     `{"skills": [{"id":"a","data":{"name":"A","description":"d"}}, {"id":"a","data":{"name":"A2","description":"d"}}]}`,
			wantIDs: []string{"a"},
		},
		{
			name:      "invalid edges dropped",
			raw:       `{"skills": [{"id":"a","data":{"name":"A","description":"d"}}, {"id":"b","data":{"name":"B","description":"d"}}], "prereqs": [{"id":"a->b","source":"a","target":"b"}, {"id":"x","source":"a"}, 7]}`,
			wantIDs:   []string{"a", "b"},
			wantEdges: 1,
		},
		{
			name:    "extra fields ignored",
			raw:     `{"version": 2, "skills": [{"id":"a","type":"skill","data":{"name":"A","description":"d","color":"red"}}]}`,
			wantIDs: []string{"a"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Decode([]byte(tt.raw))
			if tt.wantNil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			var ids []string
			for _, s := range got.Skills {
				ids = append(ids, s.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
			assert.Len(t, got.Edges, tt.wantEdges)
		})
	}
}

func TestDecodeSanitizesText(t *testing.T) {
	raw := `{"skills": [{"id":"a","position":{"x":1,"y":2},"data":{"name":"  <b>Bold</b> move ","description":"use {{magic}}","level":3,"isUnlocked":true}}], "prereqs": null}`

	got := Decode([]byte(raw))
	require.NotNil(t, got)
	require.Len(t, got.Skills, 1)

	s := got.Skills[0]
	assert.Equal(t, "Bold move", s.Data.Name)
	assert.Equal(t, "use", s.Data.Description)
	require.NotNil(t, s.Data.Level)
	assert.Equal(t, 3, *s.Data.Level)
	assert.True(t, s.Data.Unlocked)
	assert.Equal(t, 1.0, s.Position.X)
	assert.Nil(t, got.Edges)
}
