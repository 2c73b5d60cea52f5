package relevance

import (
	"strings"

	"github.com/pemistahl/lingua-go"
)

// LanguageDetector identifies the language of a text. ok is false when the
// text is too short or ambiguous to classify.
type LanguageDetector interface {
	Detect(text string) (isoCode string, ok bool)
}

type linguaDetector struct {
	detector lingua.LanguageDetector
}

// NewLanguageDetector builds a detector over all spoken languages.
// Construction is not cheap (the models are loaded lazily per language),
// so build one detector per process and share it.
func NewLanguageDetector() LanguageDetector {
	return &linguaDetector{
		detector: lingua.NewLanguageDetectorBuilder().
			FromAllSpokenLanguages().
			Build(),
	}
}

// Detect returns the ISO 639-1 code of the most likely language.
func (d *linguaDetector) Detect(text string) (string, bool) {
	lang, ok := d.detector.DetectLanguageOf(text)
	if !ok {
		return "", false
	}
	return strings.ToLower(lang.IsoCode639_1().String()), true
}
