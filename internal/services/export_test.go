package services

import (
	"encoding/csv"
	"strings"
	"testing"
	"time"
)

func readCSV(b []byte) ([][]string, error) {
	r := csv.NewReader(strings.NewReader(string(b)))
	return r.ReadAll()
}

func TestExportAssessmentsCSV(t *testing.T) {
	list := []Assessment{
		{ID: "a2", Score: 7.5, MaxScore: 10, RiskLevel: RiskLevel{Label: RiskHigh}, CreatedAt: time.Date(2025, 2, 1, 10, 0, 0, 0, time.UTC)},
		{ID: "a1", Score: 2, MaxScore: 10},
	}
	b, err := ExportAssessmentsCSV(list)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	recs, err := readCSV(b)
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	if len(recs) != 3 {
		t.Fatalf("want 3 rows, got %d", len(recs))
	}
	if got := strings.Join(recs[1], ","); got != "a2,2025-02-01T10:00:00Z,7.5,10,High Risk" {
		t.Fatalf("bad row: %s", got)
	}
	if recs[2][1] != "" || recs[2][4] != RiskUnknown {
		t.Fatalf("missing date and risk should be blank and %q: %v", RiskUnknown, recs[2])
	}
}

func TestExportQuestionsCSV(t *testing.T) {
	qs := []Question{{
		ID: "q1", QuestionID: 4, Category: "speech",
		TextEN: "Says words, like \"mama\"?", TextHI: "शब्द",
		OptionsEN: []string{"Yes, often", "No"}, OptionsHI: []string{"हाँ", "नहीं"},
		Weightage: []float64{0, 1.5}, AgeGroups: []string{"2-5", "5-12"},
	}}
	b, err := ExportQuestionsCSV(qs)
	if err != nil {
		t.Fatal(err)
	}
	recs, err := readCSV(b)
	if err != nil {
		t.Fatal(err)
	}
	row := recs[1]
	if row[3] != `Says words, like "mama"?` || row[5] != "Yes, often|No" || row[7] != "0|1.5" || row[8] != "2-5|5-12" {
		t.Fatalf("unexpected row %q", row)
	}
}
