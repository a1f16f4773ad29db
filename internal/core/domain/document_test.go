package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHashBytes(t *testing.T) {
	// Known SHA-256 of the empty input.
	assert.Equal(t,
		"e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855",
		HashBytes(nil))

	a := HashBytes([]byte("hello"))
	b := HashBytes([]byte("hello"))
	c := HashBytes([]byte("hello "))
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Len(t, a, 64)
}

func TestDocument_HasContent(t *testing.T) {
	doc := &Document{NormalizedText: "some words"}
	assert.True(t, doc.HasContent())

	empty := &Document{RawText: "...!!!", NormalizedText: ""}
	assert.False(t, empty.HasContent())
}
