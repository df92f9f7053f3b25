package prompt

import (
	_ "embed"
	"strings"
)

//go:embed template/classifier.txt
var classifierRaw string

const userMessagePlaceholder = "{user_message}"

// Classifier returns the trimmed classification prompt template.
func Classifier() string {
	return strings.TrimSpace(classifierRaw)
}

// RenderClassifier substitutes the user message into the template. Plain
// string substitution; the template carries no other placeholders.
func RenderClassifier(userMessage string) string {
	return strings.ReplaceAll(Classifier(), userMessagePlaceholder, userMessage)
}
