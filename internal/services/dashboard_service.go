package services

import (
	"context"
	"log"
)

const MsgFetchAssessments = "Failed to fetch assessments."

// AssessmentLister returns the visitor's past results, newest first.
type AssessmentLister interface {
	ListAssessments(ctx context.Context) ([]Assessment, error)
}

type ChartPoint struct {
	Label string
	Score float64
}

// DashboardSummary backs the summary cards and the progress chart.
type DashboardSummary struct {
	Count    int
	Latest   *Assessment
	Risk     string
	RiskTone string
	Chart    []ChartPoint
}

type DashboardService struct {
	lister AssessmentLister
}

func NewDashboardService(lister AssessmentLister) *DashboardService {
	return &DashboardService{lister: lister}
}

// Summary fails only when the backend rejects the session token; any other
// fetch error is logged and the empty state is shown.
func (s *DashboardService) Summary(ctx context.Context) (DashboardSummary, error) {
	list, err := s.lister.ListAssessments(ctx)
	if err != nil {
		if se, ok := AsServiceError(remoteError(err, MsgFetchAssessments, false)); ok && se.Code == ErrorUnauthorized {
			return DashboardSummary{}, se
		}
		log.Printf("dashboard: list assessments: %v", err)
		list = nil
	}
	return Summarize(list), nil
}

// Summarize builds the summary from results ordered newest first. The chart
// runs oldest to newest.
func Summarize(list []Assessment) DashboardSummary {
	sum := DashboardSummary{Count: len(list), Risk: RiskUnknown, RiskTone: riskTone(RiskUnknown)}
	if len(list) == 0 {
		return sum
	}
	latest := list[0]
	sum.Latest = &latest
	sum.Risk = latest.Risk()
	sum.RiskTone = riskTone(sum.Risk)
	sum.Chart = make([]ChartPoint, 0, len(list))
	for i := len(list) - 1; i >= 0; i-- {
		a := list[i]
		label := ""
		if !a.CreatedAt.IsZero() {
			label = a.CreatedAt.Format("2006-01-02")
		}
		sum.Chart = append(sum.Chart, ChartPoint{Label: label, Score: a.Score})
	}
	return sum
}

func riskTone(label string) string {
	switch label {
	case RiskLow:
		return "low"
	case RiskModerate:
		return "moderate"
	case RiskHigh:
		return "high"
	default:
		return "none"
	}
}
