package models

// SummarizeRequest is the body of POST /summarize.
type SummarizeRequest struct {
	YouTubeURL string `json:"youtube_url"`
	TargetLang string `json:"target_lang"`
}

type SummarizeResponse struct {
	Summary           string `json:"summary"`
	TranslatedSummary string `json:"translated_summary"`
	Mode              string `json:"mode"`
	Source            string `json:"source"`
}

func NewSummarizeResponse(s *Summary) *SummarizeResponse {
	return &SummarizeResponse{
		Summary:           s.Summary,
		TranslatedSummary: s.TranslatedSummary,
		Mode:              s.Mode,
		Source:            s.Source,
	}
}

type TranslateRequest struct {
	Text       string `json:"text"`
	TargetLang string `json:"target_lang"`
}

type TranslateResponse struct {
	TranslatedText string `json:"translated_text"`
}

// TranscriptResponse is the body of GET /get_transcript. Error is null when
// a transcript was found.
type TranscriptResponse struct {
	Transcript string  `json:"transcript"`
	Error      *string `json:"error"`
}

func NewTranscriptResponse(t *Transcript) *TranscriptResponse {
	if t.Available {
		return &TranscriptResponse{Transcript: t.Text}
	}
	msg := t.Text
	return &TranscriptResponse{Error: &msg}
}
