package sync

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeywordClassifier_CreationVerbWithFileName(t *testing.T) {
	c := NewKeywordClassifier()

	intent, ok := c.Classify(&ChatMessage{OwnerID: "u1", Text: "please create hello.py for me"})
	require.True(t, ok)
	assert.Equal(t, "hello.py", intent.FileName)
	assert.False(t, intent.Upload)
}

func TestKeywordClassifier_ExtensionOnly(t *testing.T) {
	c := NewKeywordClassifier()

	intent, ok := c.Classify(&ChatMessage{OwnerID: "u1", Text: "what is in report.md?"})
	require.True(t, ok)
	assert.Equal(t, "report.md", intent.FileName)
}

func TestKeywordClassifier_QuotedName(t *testing.T) {
	c := NewKeywordClassifier()

	intent, ok := c.Classify(&ChatMessage{OwnerID: "u1", Text: `create "weekly notes" please`})
	require.True(t, ok)
	assert.Equal(t, "weekly notes", intent.FileName)
}

func TestKeywordClassifier_DocumentAttachment(t *testing.T) {
	c := NewKeywordClassifier()

	intent, ok := c.Classify(&ChatMessage{OwnerID: "u1", DocumentName: "homework.pdf"})
	require.True(t, ok)
	assert.True(t, intent.Upload)
	assert.Equal(t, "homework.pdf", intent.FileName)
}

func TestKeywordClassifier_NoIntent(t *testing.T) {
	c := NewKeywordClassifier()

	_, ok := c.Classify(&ChatMessage{OwnerID: "u1", Text: "how is the weather today"})
	assert.False(t, ok)

	_, ok = c.Classify(&ChatMessage{OwnerID: "u1"})
	assert.False(t, ok)
}

func TestKeywordClassifier_CaseInsensitive(t *testing.T) {
	c := NewKeywordClassifier()

	_, ok := c.Classify(&ChatMessage{OwnerID: "u1", Text: "CREATE Main.GO now"})
	assert.True(t, ok)
}
