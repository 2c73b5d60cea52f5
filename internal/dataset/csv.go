// Package dataset reads raw comment exports and writes annotated results.
//
// Input files are CSV with a header row. Column names are resolved through
// the alias table in the normalize package, so exports from different
// platforms (score, likeCount, author, text, ...) load without preprocessing.
package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/signalyze/sentinel/internal/domain"
	"github.com/signalyze/sentinel/internal/normalize"
)

// OutputColumns is the header of the annotated results file: the canonical
// input columns followed by the analysis columns.
var OutputColumns = []string{
	"source", "timestamp", "username", "content", "url", "engagement",
	"sentiment", "sentiment_score", "category1", "category2", "category3",
}

// ReadFile loads one CSV export into raw comments.
func ReadFile(path string) ([]domain.RawComment, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset %s: %w", path, err)
	}
	defer f.Close()

	comments, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("read dataset %s: %w", path, err)
	}
	return comments, nil
}

// ReadFiles loads multiple exports and concatenates them in argument order.
func ReadFiles(paths ...string) ([]domain.RawComment, error) {
	var all []domain.RawComment
	for _, path := range paths {
		comments, err := ReadFile(path)
		if err != nil {
			return nil, err
		}
		all = append(all, comments...)
	}
	return all, nil
}

// Read parses CSV rows from r into raw comments. The first row is the
// header. Rows with fewer or more fields than the header are still loaded:
// missing columns default to empty and extra fields are ignored, so one
// ragged export row does not lose the rest of the file.
func Read(r io.Reader) ([]domain.RawComment, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	var comments []domain.RawComment
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		rec := make(map[string]string, len(header))
		for i, name := range header {
			if i < len(row) {
				rec[name] = row[i]
			} else {
				rec[name] = ""
			}
		}
		comments = append(comments, normalize.FromRecord(rec))
	}
	return comments, nil
}

// WriteFile writes annotated comments to path, creating or truncating it.
func WriteFile(path string, comments []domain.AnnotatedComment) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create results %s: %w", path, err)
	}
	if err := Write(f, comments); err != nil {
		f.Close()
		return fmt.Errorf("write results %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close results %s: %w", path, err)
	}
	return nil
}

// Write emits annotated comments as CSV with the OutputColumns header.
func Write(w io.Writer, comments []domain.AnnotatedComment) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(OutputColumns); err != nil {
		return err
	}
	for _, c := range comments {
		row := []string{
			c.Source,
			c.Timestamp,
			c.Username,
			c.Content,
			c.URL,
			strconv.Itoa(c.Engagement),
			string(c.Sentiment),
			strconv.FormatFloat(c.SentimentScore, 'f', -1, 64),
			c.Category1,
			c.Category2,
			c.Category3,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
