package models

// ModeTranscript marks summaries built from real transcript text.
const ModeTranscript = "transcript"

type Summary struct {
	VideoID           string `json:"video_id"`
	Source            string `json:"source"`
	Summary           string `json:"summary"`
	TranslatedSummary string `json:"translated_summary"`
	TargetLang        string `json:"target_lang"`
	Mode              string `json:"mode"`
}

type Transcript struct {
	VideoID   string `json:"video_id"`
	Text      string `json:"text"`
	Source    string `json:"source"`
	Available bool   `json:"available"`
}
