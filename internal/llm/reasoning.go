package llm

import "strings"

// SplitReasoning separates a <think>...</think> block from the final
// answer text. Reasoning-tuned models (DeepSeek-R1 family and friends)
// emit their trace inside the tag; everything after it is the answer.
// Content with no tag comes back unchanged as text.
func SplitReasoning(content string) (text, reasoning string) {
	const open, close = "<think>", "</think>"

	start := strings.Index(content, open)
	if start < 0 {
		return strings.TrimSpace(content), ""
	}
	end := strings.Index(content[start:], close)
	if end < 0 {
		// Unterminated trace: the whole remainder is reasoning,
		// typically a completion cut off by the token budget.
		return "", strings.TrimSpace(content[start+len(open):])
	}
	end += start

	reasoning = strings.TrimSpace(content[start+len(open) : end])
	text = strings.TrimSpace(content[:start] + content[end+len(close):])
	return text, reasoning
}
