package services

import (
	"bytes"
	"encoding/csv"
	"strconv"
	"strings"
	"time"
)

func formatFloat(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }

// ExportAssessmentsCSV renders a visitor's results, in the order given, one
// row per assessment.
func ExportAssessmentsCSV(list []Assessment) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	_ = w.Write([]string{"assessment_id", "taken_at", "score", "max_score", "risk_level"})
	for _, a := range list {
		taken := ""
		if !a.CreatedAt.IsZero() {
			taken = a.CreatedAt.UTC().Format(time.RFC3339)
		}
		if err := w.Write([]string{a.ID, taken, formatFloat(a.Score), formatFloat(a.MaxScore), a.Risk()}); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

// ExportQuestionsCSV renders the question bank. List cells use "|" so that
// commas inside option text survive.
func ExportQuestionsCSV(qs []Question) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	_ = w.Write([]string{"_id", "questionId", "category", "question_en", "question_hi", "options_en", "options_hi", "weightage", "ageGroup"})
	for _, q := range qs {
		weights := make([]string, 0, len(q.Weightage))
		for _, v := range q.Weightage {
			weights = append(weights, formatFloat(v))
		}
		rec := []string{
			q.ID,
			strconv.Itoa(q.QuestionID),
			q.Category,
			q.TextEN,
			q.TextHI,
			strings.Join(q.OptionsEN, "|"),
			strings.Join(q.OptionsHI, "|"),
			strings.Join(weights, "|"),
			strings.Join(q.AgeGroups, "|"),
		}
		if err := w.Write(rec); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
