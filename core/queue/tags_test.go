package queue

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTagsSaveResolveDelete(t *testing.T) {
	tags := NewTags()

	_, ok := tags.Resolve("welcome")
	require.False(t, ok)

	tags.Save("welcome", 101)
	id, ok := tags.Resolve("welcome")
	require.True(t, ok)
	require.Equal(t, 101, id)

	// Saving again replaces the entry.
	tags.Save("welcome", 202)
	id, _ = tags.Resolve("welcome")
	require.Equal(t, 202, id)

	tags.Delete("welcome")
	_, ok = tags.Resolve("welcome")
	require.False(t, ok)
	require.Equal(t, 0, tags.Len())
}

func TestTagsIgnoreEmptyTag(t *testing.T) {
	tags := NewTags()
	tags.Save("", 5)
	require.Equal(t, 0, tags.Len())
}
