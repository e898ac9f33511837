// Package normalize turns raw model output into usable commit messages and
// PR content.
package normalize

import (
	"strings"
	"unicode/utf8"

	"github.com/thomas-vilte/dash/internal/ai"
	"github.com/thomas-vilte/dash/internal/regex"
)

const (
	// MinMessageLength is the shortest candidate worth offering.
	MinMessageLength = 10

	ellipsis = "..."
)

var conventionalTypes = []string{
	"feat", "fix", "docs", "style", "refactor", "perf", "test", "build", "ci", "chore", "revert",
}

// Sanitize trims, drops wrapping quotes and line breaks, and removes one
// trailing period after a word character. Sanitize(Sanitize(x)) == Sanitize(x).
func Sanitize(msg string) string {
	for {
		next := sanitizeOnce(msg)
		if next == msg {
			return next
		}
		msg = next
	}
}

func sanitizeOnce(msg string) string {
	msg = strings.TrimSpace(msg)
	msg = regex.WrappingQuote.ReplaceAllString(msg, "")
	msg = regex.LineBreaks.ReplaceAllString(msg, "")
	return regex.TrailingPeriod.ReplaceAllString(msg, "$1")
}

// EnforceMaxLength returns msg unchanged when it fits, otherwise a prefix of
// at most maxLength characters cut at the best sentence, clause or word
// boundary.
func EnforceMaxLength(msg string, maxLength int) string {
	runes := []rune(msg)
	if maxLength <= 0 || len(runes) <= maxLength {
		return msg
	}
	cut := string(runes[:maxLength])
	limit := float64(maxLength)

	sentenceEnd := max(lastRuneIndex(cut, ". "), lastRuneIndex(cut, "! "), lastRuneIndex(cut, "? "))
	if float64(sentenceEnd) > limit*0.7 {
		return string(runes[:sentenceEnd+1])
	}

	clauseEnd := max(lastRuneIndex(cut, ", "), lastRuneIndex(cut, "; "))
	if float64(clauseEnd) > limit*0.6 {
		return string(runes[:clauseEnd+1])
	}

	if lastSpace := lastRuneIndex(cut, " "); float64(lastSpace) > limit*0.5 {
		return string(runes[:lastSpace])
	}

	if len(runes) > maxLength+10 && maxLength > len(ellipsis) {
		return string(runes[:maxLength-len(ellipsis)]) + ellipsis
	}
	return cut
}

func lastRuneIndex(s, sep string) int {
	i := strings.LastIndex(s, sep)
	if i < 0 {
		return -1
	}
	return utf8.RuneCountInString(s[:i])
}

func length(s string) int {
	return utf8.RuneCountInString(s)
}

// Deduplicate keeps the first occurrence of each message.
func Deduplicate(msgs []string) []string {
	seen := make(map[string]struct{}, len(msgs))
	out := make([]string, 0, len(msgs))
	for _, m := range msgs {
		if _, ok := seen[m]; ok {
			continue
		}
		seen[m] = struct{}{}
		out = append(out, m)
	}
	return out
}

// Candidates normalizes commit message completions. When every answer is
// unusable, one message is salvaged from the reasoning text if possible.
// An empty result means generation failed.
func Candidates(choices []ai.Choice, maxLength int) []string {
	msgs := make([]string, 0, len(choices))
	for _, c := range choices {
		msg := Sanitize(c.Content)
		if msg == "" {
			continue
		}
		if float64(length(msg)) > float64(maxLength)*1.1 {
			msg = EnforceMaxLength(msg, maxLength)
		}
		if length(msg) < MinMessageLength {
			continue
		}
		msgs = append(msgs, msg)
	}
	if len(msgs) > 0 {
		return Deduplicate(msgs)
	}

	for _, c := range choices {
		if c.Reasoning == "" {
			continue
		}
		if derived, ok := FromReasoning(c.Reasoning, maxLength); ok {
			return []string{derived}
		}
	}
	return []string{}
}

// FromReasoning salvages a commit line from free-form thinking text: the
// first "type: clause" mention, else the first sentence longer than
// MinMessageLength.
func FromReasoning(text string, maxLength int) (string, bool) {
	cleaned := strings.TrimSpace(regex.Whitespace.ReplaceAllString(text, " "))
	if cleaned == "" {
		return "", false
	}

	candidate := regex.ReasoningCommit.FindString(cleaned)
	if candidate == "" {
		for _, sentence := range regex.SentenceSplit.Split(cleaned, -1) {
			if s := strings.TrimSpace(sentence); length(s) > MinMessageLength {
				candidate = s
				break
			}
		}
	}
	if candidate == "" {
		return "", false
	}

	candidate = addTypeColon(candidate)
	candidate = Sanitize(candidate)
	if length(candidate) < MinMessageLength {
		return "", false
	}
	if float64(length(candidate)) > float64(maxLength)*1.2 {
		candidate = EnforceMaxLength(candidate, maxLength)
	}
	return candidate, true
}

// addTypeColon rewrites "feat add x" into "feat: add x".
func addTypeColon(candidate string) string {
	lower := strings.ToLower(candidate)
	for _, t := range conventionalTypes {
		if strings.HasPrefix(lower, t+" ") {
			return t + ": " + strings.TrimLeft(candidate[len(t)+1:], " ")
		}
	}
	return candidate
}
