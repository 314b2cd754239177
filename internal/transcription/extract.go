package transcription

// extractor pulls transcript text out of one response shape
type extractor func(*generateResponse) string

// defaultExtractors are tried in order; the first non-empty result wins
var defaultExtractors = []extractor{
	candidateText,
	flatText,
}

// candidateText reads candidates[0].content.parts[0].text
func candidateText(r *generateResponse) string {
	if len(r.Candidates) == 0 || r.Candidates[0] == nil {
		return ""
	}
	content := r.Candidates[0].Content
	if content == nil || len(content.Parts) == 0 || content.Parts[0] == nil {
		return ""
	}
	return content.Parts[0].Text
}

func flatText(r *generateResponse) string {
	return r.Text
}
