// Package domain defines the core types flowing through the pipeline.
package domain

// RawComment is a comment as received from a content source, before
// normalization. Every field may be empty; Engagement is kept as a string
// because sources report it under varying names and formats.
type RawComment struct {
	Source     string `json:"source"`
	Timestamp  string `json:"timestamp"`
	Username   string `json:"username"`
	Content    string `json:"content"`
	URL        string `json:"url"`
	Engagement string `json:"engagement"`
}

// Comment is the canonical normalized record. Content is cleaned (URLs
// stripped, whitespace collapsed) and guaranteed non-empty; all other
// fields default to their zero value when the source omitted them.
// A Comment is never mutated after creation.
type Comment struct {
	Source     string `db:"source"     json:"source"`
	Timestamp  string `db:"timestamp"  json:"timestamp"`
	Username   string `db:"username"   json:"username"`
	Content    string `db:"content"    json:"content"`
	URL        string `db:"url"        json:"url"`
	Engagement int    `db:"engagement" json:"engagement"`
}

// DedupKey is the key under which duplicate comments are detected: the
// cleaned content, compared byte-for-byte.
func (c Comment) DedupKey() string {
	return c.Content
}

// Sentiment is a three-way sentiment label.
type Sentiment string

// Sentiment labels, in the fixed class order used by probabilistic models.
const (
	SentimentNegative Sentiment = "negative"
	SentimentNeutral  Sentiment = "neutral"
	SentimentPositive Sentiment = "positive"
)

// SentimentClasses lists the labels in model class order. Argmax ties
// resolve to the lowest index of this slice.
var SentimentClasses = []Sentiment{SentimentNegative, SentimentNeutral, SentimentPositive}

// AnnotatedComment is a Comment plus sentiment and topic annotations.
// This is the terminal state of a record: built once by the sentiment and
// classification stages, then written to the result store.
type AnnotatedComment struct {
	Comment

	Sentiment Sentiment `db:"sentiment" json:"sentiment"`
	// SentimentScore is the signed lexicon strength or, for delegated
	// scoring, the winning class probability.
	SentimentScore float64 `db:"sentiment_score" json:"sentiment_score"`

	Category1 string `db:"category1" json:"category1"`
	Category2 string `db:"category2" json:"category2"`
	Category3 string `db:"category3" json:"category3"`
}
