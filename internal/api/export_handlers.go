package api

import (
	"net/http"

	"github.com/neuroscreen/portal/internal/services"
)

func writeCSV(w http.ResponseWriter, filename string, b []byte) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", "attachment; filename="+filename)
	_, _ = w.Write(b)
}

// GET /dashboard/export.csv
func (rt *Router) handleResultsExport(w http.ResponseWriter, r *http.Request) {
	list, err := rt.clientFor(r).ListAssessments(r.Context())
	if err != nil {
		rt.fail(w, r, services.AsRemoteError(err, services.MsgFetchAssessments), "/dashboard")
		return
	}
	b, err := services.ExportAssessmentsCSV(list)
	if err != nil {
		rt.fail(w, r, err, "/dashboard")
		return
	}
	writeCSV(w, "assessments.csv", b)
}

// GET /admin/questions.csv
func (rt *Router) handleQuestionsExport(w http.ResponseWriter, r *http.Request) {
	qs, err := rt.clientFor(r).ListQuestions(r.Context())
	if err != nil {
		rt.fail(w, r, services.AsRemoteError(err, services.MsgFetchAdminData), "/admin")
		return
	}
	b, err := services.ExportQuestionsCSV(qs)
	if err != nil {
		rt.fail(w, r, err, "/admin")
		return
	}
	writeCSV(w, "questions.csv", b)
}
