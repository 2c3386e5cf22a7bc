package services

import (
	"context"
	"errors"
	"testing"
	"time"
)

type stubLister struct {
	list []Assessment
	err  error
}

func (s *stubLister) ListAssessments(context.Context) ([]Assessment, error) {
	return s.list, s.err
}

func TestDashboardSummary(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2025, 3, d, 10, 0, 0, 0, time.UTC) }
	lister := &stubLister{list: []Assessment{
		{ID: "a3", Score: 14, MaxScore: 20, RiskLevel: RiskLevel{Label: RiskHigh}, CreatedAt: day(3)},
		{ID: "a2", Score: 9, MaxScore: 20, RiskLevel: RiskLevel{Label: RiskModerate}, CreatedAt: day(2)},
		{ID: "a1", Score: 4, MaxScore: 20, RiskLevel: RiskLevel{Label: RiskLow}, CreatedAt: day(1)},
	}}
	sum, err := NewDashboardService(lister).Summary(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if sum.Count != 3 || sum.Latest == nil || sum.Latest.ID != "a3" {
		t.Fatalf("unexpected summary %+v", sum)
	}
	if sum.Risk != RiskHigh || sum.RiskTone != "high" {
		t.Fatalf("risk=%q tone=%q", sum.Risk, sum.RiskTone)
	}
	if len(sum.Chart) != 3 || sum.Chart[0].Label != "2025-03-01" || sum.Chart[2].Score != 14 {
		t.Fatalf("chart should run oldest first: %+v", sum.Chart)
	}
}

func TestDashboardSummaryEmptyAndErrors(t *testing.T) {
	sum, err := NewDashboardService(&stubLister{err: errors.New("down")}).Summary(context.Background())
	if err != nil {
		t.Fatalf("transport failure should render the empty state, got %v", err)
	}
	if sum.Count != 0 || sum.Latest != nil || sum.Risk != RiskUnknown || sum.RiskTone != "none" {
		t.Fatalf("unexpected empty summary %+v", sum)
	}
	sum = Summarize([]Assessment{{Score: 1, RiskLevel: RiskLevel{Label: "Something else"}}})
	if sum.Risk != RiskUnknown {
		t.Fatalf("unknown label should render as %q, got %q", RiskUnknown, sum.Risk)
	}
}

func TestDashboardSummaryUnauthorized(t *testing.T) {
	_, err := NewDashboardService(&stubLister{err: &fakeStatusError{status: 401, msg: "Not authorized"}}).Summary(context.Background())
	wantCode(t, err, ErrorUnauthorized)
}
