package api

import (
	"net/http"
	"strconv"

	"github.com/neuroscreen/portal/internal/middleware"
	"github.com/neuroscreen/portal/internal/services"
)

type assessmentPage struct {
	View        services.WizardView
	OnSubject   bool
	OnLanguage  bool
	OnQuestions bool
	IsLast      bool
}

func (rt *Router) wizardFor(r *http.Request) *services.Wizard {
	return rt.state.wizard(sessionID(r), middleware.LocaleFromContext(r.Context()))
}

func (rt *Router) handleAssessmentPage(w http.ResponseWriter, r *http.Request) {
	v := rt.wizardFor(r).View()
	rt.render(w, r, http.StatusOK, "assessment.html", "assessment", "Assessment", assessmentPage{
		View:        v,
		OnSubject:   v.Step == services.StepSubject,
		OnLanguage:  v.Step == services.StepLanguage,
		OnQuestions: v.Step == services.StepQuestions,
		IsLast:      v.Step == services.StepQuestions && v.Index == v.Total-1,
	})
}

// handleAssessmentStep applies the form of the current step, then moves
// the wizard forward or back depending on the pressed button.
func (rt *Router) handleAssessmentStep(w http.ResponseWriter, r *http.Request) {
	wiz := rt.wizardFor(r)
	before := wiz.View().Step

	if r.PostFormValue("action") == "prev" {
		if err := wiz.Prev(); err != nil {
			rt.fail(w, r, err, "/assessment")
			return
		}
		http.Redirect(w, r, "/assessment", http.StatusSeeOther)
		return
	}

	var err error
	switch before {
	case services.StepSubject:
		err = wiz.SetSubject(r.PostFormValue("userType"), r.PostFormValue("age"))
	case services.StepLanguage:
		if lang := r.PostFormValue("language"); lang != "" {
			err = wiz.SetLanguage(lang)
		}
	case services.StepQuestions:
		if raw := r.PostFormValue("option"); raw != "" {
			opt, convErr := strconv.Atoi(raw)
			if convErr != nil {
				err = services.NewInvalidError(services.MsgSelectOption)
			} else {
				err = wiz.Select(r.PostFormValue("questionKey"), opt)
			}
		}
	}
	if err != nil {
		rt.fail(w, r, err, "/assessment")
		return
	}

	client := rt.clientFor(r)
	res, err := wiz.Next(r.Context(), client, client)
	if err != nil {
		rt.fail(w, r, err, "/assessment")
		return
	}
	if res.Submitted {
		rt.metrics.IncrementAssessmentsSubmitted()
		redirectWithFlash(w, r, "/dashboard", flashSuccess, services.MsgAssessmentSent)
		return
	}
	if before == services.StepSubject {
		rt.metrics.IncrementWizardsStarted()
	}
	http.Redirect(w, r, "/assessment", http.StatusSeeOther)
}

func (rt *Router) handleAssessmentReset(w http.ResponseWriter, r *http.Request) {
	if err := rt.wizardFor(r).Reset(); err != nil {
		rt.fail(w, r, err, "/assessment")
		return
	}
	http.Redirect(w, r, "/assessment", http.StatusSeeOther)
}
