package mockapi

import (
	"context"
	"strings"

	"github.com/MrSnakeDoc/gompa/internal/errs"
)

// MockConfidence is reported for every answer that went through the phrase
// table, matched or not.
const MockConfidence = 0.95

type TranslateRequest struct {
	Text           string `json:"text"`
	TargetLanguage string `json:"targetLanguage"`
	SourceLanguage string `json:"sourceLanguage"`
}

type TranslateResponse struct {
	TranslatedText string  `json:"translatedText"`
	SourceLanguage string  `json:"sourceLanguage"`
	TargetLanguage string  `json:"targetLanguage"`
	Confidence     float64 `json:"confidence"`
}

// phrases maps target language -> English phrase -> translation.
var phrases = map[string]map[string]string{
	"zh": {
		"Monastery":  "寺院",
		"Temple":     "寺庙",
		"Meditation": "冥想",
		"Buddha":     "佛陀",
		"Welcome":    "欢迎",
		"Prayer":     "祈祷",
		"Pilgrimage": "朝圣",
	},
	"bo": {
		"Monastery":  "དགོན་པ།",
		"Buddha":     "སངས་རྒྱས།",
		"Welcome":    "བྱོན་པ་ལེགས་སོ།",
		"Meditation": "སྒོམ།",
	},
	"fr": {
		"Monastery":  "Monastère",
		"Temple":     "Temple",
		"Meditation": "Méditation",
		"Welcome":    "Bienvenue",
		"Pilgrimage": "Pèlerinage",
	},
	"ja": {
		"Monastery":  "僧院",
		"Temple":     "寺",
		"Meditation": "瞑想",
		"Welcome":    "ようこそ",
	},
}

// Translate validates req and, after the configured delay, looks the text up
// in the phrase table. Same-language requests echo the text with full
// confidence; unknown phrases fall back to the original text.
func (s *Service) Translate(ctx context.Context, req TranslateRequest) (TranslateResponse, error) {
	if strings.TrimSpace(req.Text) == "" {
		return TranslateResponse{}, &ValidationError{Field: "text", Code: errs.MissingText}
	}
	target := normalizeLang(req.TargetLanguage)
	if target == "" {
		return TranslateResponse{}, &ValidationError{Field: "targetLanguage", Code: errs.MissingTarget}
	}
	source := normalizeLang(req.SourceLanguage)
	if source == "" {
		source = "en"
	}

	if err := wait(ctx, s.translateWait()); err != nil {
		return TranslateResponse{}, err
	}

	resp := TranslateResponse{
		TranslatedText: req.Text,
		SourceLanguage: source,
		TargetLanguage: target,
		Confidence:     1.0,
	}
	if target == source {
		return resp, nil
	}

	resp.Confidence = MockConfidence
	if table, ok := phrases[target]; ok {
		if out, ok := table[strings.TrimSpace(req.Text)]; ok {
			resp.TranslatedText = out
		}
	}
	return resp, nil
}
