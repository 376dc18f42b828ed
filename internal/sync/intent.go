package sync

import (
	"regexp"
	"strings"
)

// ChatMessage is the pipeline's view of an incoming chat message, already
// stripped of provider-specific framing by the webhook handler.
type ChatMessage struct {
	OwnerID      string
	Text         string
	DocumentName string
}

// Intent is the outcome of classifying a chat message.
type Intent struct {
	// FileName the message refers to, best effort.
	FileName string

	// Upload is true when the message carries a file attachment rather than
	// a textual creation request.
	Upload bool
}

// IntentClassifier detects file intents in free-form chat text. This is a
// heuristic signal, not a correctness guarantee: it may miss real intents
// and fire on false positives.
type IntentClassifier interface {
	Classify(msg *ChatMessage) (*Intent, bool)
}

// creation verbs and known file extensions scanned for in chat text
var (
	intentKeywords = []string{
		"create", "make", "new file", "edit", "modify", "delete", "copy", "move",
	}
	intentExtensions = []string{
		".py", ".js", ".html", ".css", ".md", ".json", ".txt", ".go",
	}
	fileNamePatterns = []*regexp.Regexp{
		regexp.MustCompile(`([a-zA-Z0-9_\-]+\.[a-zA-Z]+)`), // filename.ext
		regexp.MustCompile(`"([^"]+)"`),                    // "filename"
		regexp.MustCompile(`'([^']+)'`),                    // 'filename'
	}
)

// KeywordClassifier is the default IntentClassifier: a fixed-vocabulary
// keyword and extension match with simple filename extraction.
type KeywordClassifier struct{}

// NewKeywordClassifier creates the default classifier.
func NewKeywordClassifier() *KeywordClassifier {
	return &KeywordClassifier{}
}

// Classify returns a file intent when the message has an attachment or its
// text matches the vocabulary. Returns false when nothing matched.
func (c *KeywordClassifier) Classify(msg *ChatMessage) (*Intent, bool) {
	if msg.DocumentName != "" {
		return &Intent{FileName: msg.DocumentName, Upload: true}, true
	}

	text := strings.ToLower(msg.Text)
	if text == "" {
		return nil, false
	}

	matched := false
	for _, kw := range intentKeywords {
		if strings.Contains(text, kw) {
			matched = true
			break
		}
	}
	if !matched {
		for _, ext := range intentExtensions {
			if strings.Contains(text, ext) {
				matched = true
				break
			}
		}
	}
	if !matched {
		return nil, false
	}

	return &Intent{FileName: extractFileName(msg.Text)}, true
}

// extractFileName pulls a plausible file name out of the message text.
// Empty when no pattern matched.
func extractFileName(text string) string {
	for _, pattern := range fileNamePatterns {
		if m := pattern.FindStringSubmatch(text); m != nil {
			return m[1]
		}
	}
	return ""
}
