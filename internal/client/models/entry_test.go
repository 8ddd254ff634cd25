package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(s string) *string { return &s }

func TestNormalizeTitle(t *testing.T) {
	assert.Nil(t, NormalizeTitle(""))
	assert.Nil(t, NormalizeTitle("   \t"))
	require.NotNil(t, NormalizeTitle("  Monday "))
	assert.Equal(t, "Monday", *NormalizeTitle("  Monday "))
}

func TestEntry_DisplayTitle(t *testing.T) {
	assert.Equal(t, "(untitled)", Entry{}.DisplayTitle())
	assert.Equal(t, "(untitled)", Entry{Title: ptr("")}.DisplayTitle())
	assert.Equal(t, "Day one", Entry{Title: ptr("Day one")}.DisplayTitle())
}

func TestEntryCreate_NullTitleIsSent(t *testing.T) {
	b, err := json.Marshal(EntryCreate{Title: NormalizeTitle(""), Body: "hello"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"title":null,"body":"hello"}`, string(b))
}

func TestEntryUpdate_Fields(t *testing.T) {
	tests := []struct {
		name string
		in   EntryUpdate
		want string
	}{
		{name: "nothing", in: EntryUpdate{}, want: `{}`},
		{name: "title only", in: EntryUpdate{Title: ptr("t")}, want: `{"title":"t"}`},
		{name: "body only", in: EntryUpdate{Body: ptr("b")}, want: `{"body":"b"}`},
		{name: "clear title wins", in: EntryUpdate{Title: ptr("t"), Body: ptr("b"), ClearTitle: true}, want: `{"title":null,"body":"b"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := json.Marshal(tt.in.Fields())
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(b))
		})
	}
}
