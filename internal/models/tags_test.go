package models

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTagsToText(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want *string
	}{
		{name: "nil", in: nil, want: nil},
		{name: "only blanks", in: []string{"", "  ", "\t"}, want: nil},
		{name: "trims", in: []string{" go ", "sql"}, want: strPtr("go,sql")},
		{name: "keeps duplicates", in: []string{"go", " go", "  "}, want: strPtr("go,go")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TagsToText(tt.in))
		})
	}
}

func TestTagsFromText(t *testing.T) {
	assert.Equal(t, []string{}, TagsFromText(nil))
	assert.Equal(t, []string{}, TagsFromText(strPtr("")))
	assert.Equal(t, []string{"a", "b"}, TagsFromText(strPtr(" a ,, b ,")))
}

func TestTagsRoundTrip(t *testing.T) {
	lists := [][]string{
		{"go"},
		{"go", "go"},
		{"robotics", "drones", "automation"},
		{" padded ", "", "x"},
	}
	for _, l := range lists {
		var want []string
		for _, tag := range l {
			if s := strings.TrimSpace(tag); s != "" {
				want = append(want, s)
			}
		}
		got := TagsFromText(TagsToText(l))
		require.Len(t, got, len(want))
		for i := range want {
			assert.Equal(t, want[i], got[i])
		}
	}
}

func TestWishItemPublic(t *testing.T) {
	item := &WishItem{ID: 3, Title: "Dron"}
	pub := item.Public("/data")
	assert.False(t, pub.Reserved)
	assert.Nil(t, pub.ImageURL)

	item.ImagePath = strPtr("wishlist/abc.png")
	item.ReservedBy = strPtr("Anna")
	pub = item.Public("/data")
	assert.True(t, pub.Reserved)
	require.NotNil(t, pub.ImageURL)
	assert.Equal(t, "/data/wishlist/abc.png", *pub.ImageURL)
}

func TestPostPublicTagsNeverNil(t *testing.T) {
	p := &Post{Title: "t"}
	assert.NotNil(t, p.Public().Tags)
}

func strPtr(s string) *string { return &s }

