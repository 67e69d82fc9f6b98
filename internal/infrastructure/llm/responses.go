package llm

type responsesEnvelope struct {
	Output []responsesOutputItem `json:"output"`
}

type responsesOutputItem struct {
	Type    string                 `json:"type"`
	Role    string                 `json:"role"`
	Content []responsesContentPart `json:"content"`
}

type responsesContentPart struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// outputText prefers output_text parts of assistant messages, then the first
// text part of any item typed text/output_text.
func (e *responsesEnvelope) outputText() (string, bool) {
	for _, item := range e.Output {
		if item.Type != "message" || item.Role != "assistant" {
			continue
		}
		for _, part := range item.Content {
			if part.Type == "output_text" && part.Text != "" {
				return part.Text, true
			}
		}
	}

	for _, item := range e.Output {
		if item.Type != "text" && item.Type != "output_text" {
			continue
		}
		if len(item.Content) > 0 && item.Content[0].Text != "" {
			return item.Content[0].Text, true
		}
	}
	return "", false
}
