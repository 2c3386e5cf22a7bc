package api

import (
	"log"
	"net/http"

	"github.com/neuroscreen/portal/internal/services"
)

const MsgEditUserUnavailable = "Edit user not implemented yet."

type adminPage struct {
	Overview *services.AdminOverview
	Error    string
}

type questionFormPage struct {
	ID     string
	Form   services.QuestionForm
	Errors map[string]string
	Bands  []string
}

type confirmPage struct {
	Kind   string
	Label  string
	Action string
}

func (rt *Router) adminService(r *http.Request) *services.AdminService {
	return services.NewAdminService(rt.clientFor(r))
}

func (rt *Router) handleAdmin(w http.ResponseWriter, r *http.Request) {
	overview, err := rt.adminService(r).Overview(r.Context())
	if err != nil {
		if se, ok := services.AsServiceError(err); ok && se.Code == services.ErrorUnauthorized {
			rt.fail(w, r, err, "/admin")
			return
		}
		rt.render(w, r, http.StatusBadGateway, "admin.html", "admin", "Admin", adminPage{
			Overview: &services.AdminOverview{},
			Error:    services.MsgFetchAdminData,
		})
		return
	}
	rt.render(w, r, http.StatusOK, "admin.html", "admin", "Admin", adminPage{Overview: overview})
}

func questionFormFromRequest(r *http.Request) services.QuestionForm {
	return services.QuestionForm{
		QuestionID: r.PostFormValue(services.FieldQuestionID),
		Category:   r.PostFormValue(services.FieldCategory),
		TextEN:     r.PostFormValue(services.FieldTextEN),
		TextHI:     r.PostFormValue(services.FieldTextHI),
		OptionsEN:  r.PostFormValue(services.FieldOptionsEN),
		OptionsHI:  r.PostFormValue(services.FieldOptionsHI),
		Weightage:  r.PostFormValue(services.FieldWeightage),
		AgeGroups:  r.PostFormValue(services.FieldAgeGroups),
	}
}

func (rt *Router) renderQuestionForm(w http.ResponseWriter, r *http.Request, status int, page questionFormPage, f *flash) {
	page.Bands = services.AgeBands()
	title := "Add question"
	if page.ID != "" {
		title = "Edit question"
	}
	rt.renderFlash(w, r, status, "question_form.html", "admin", title, page, f)
}

func (rt *Router) handleQuestionNew(w http.ResponseWriter, r *http.Request) {
	rt.renderQuestionForm(w, r, http.StatusOK, questionFormPage{}, nil)
}

func (rt *Router) handleQuestionEdit(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	overview, err := rt.adminService(r).Overview(r.Context())
	if err != nil {
		rt.fail(w, r, err, "/admin")
		return
	}
	q, ok := overview.Question(id)
	if !ok {
		redirectWithFlash(w, r, "/admin", flashError, "Question not found.")
		return
	}
	rt.renderQuestionForm(w, r, http.StatusOK, questionFormPage{ID: id, Form: services.FormatQuestionForm(q)}, nil)
}

func (rt *Router) handleQuestionCreate(w http.ResponseWriter, r *http.Request) {
	rt.saveQuestion(w, r, "")
}

func (rt *Router) handleQuestionUpdate(w http.ResponseWriter, r *http.Request) {
	rt.saveQuestion(w, r, r.PathValue("id"))
}

// saveQuestion keeps the modal-form behavior: on any failure the form is
// shown again with what was typed.
func (rt *Router) saveQuestion(w http.ResponseWriter, r *http.Request, id string) {
	form := questionFormFromRequest(r)
	msg, _, err := rt.adminService(r).SaveQuestion(r.Context(), id, form)
	if err == nil {
		redirectWithFlash(w, r, "/admin", flashSuccess, msg)
		return
	}
	page := questionFormPage{ID: id, Form: form}
	if verr, ok := services.AsValidationError(err); ok {
		page.Errors = verr.Fields
		rt.renderQuestionForm(w, r, http.StatusUnprocessableEntity, page, &flash{Kind: flashError, Message: "Please correct the highlighted fields."})
		return
	}
	se, ok := services.AsServiceError(err)
	if ok && se.Code == services.ErrorUnauthorized {
		rt.fail(w, r, err, "/admin")
		return
	}
	msg = services.MsgSubmitQuestion
	if ok {
		msg = se.Message
	}
	rt.renderQuestionForm(w, r, http.StatusBadGateway, page, &flash{Kind: flashError, Message: msg})
}

// overviewOrNil is used for display only; a failed fetch is logged and the
// caller falls back to the raw id.
func (rt *Router) overviewOrNil(r *http.Request) *services.AdminOverview {
	ov, err := rt.adminService(r).Overview(r.Context())
	if err != nil {
		log.Printf("api: admin overview for confirm page: %v", err)
		return nil
	}
	return ov
}

func (rt *Router) handleQuestionDeleteConfirm(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	label := id
	if ov := rt.overviewOrNil(r); ov != nil {
		q, ok := ov.Question(id)
		if !ok {
			redirectWithFlash(w, r, "/admin", flashError, "Question not found.")
			return
		}
		label = q.TextEN
	}
	rt.render(w, r, http.StatusOK, "confirm.html", "admin", "Delete question", confirmPage{
		Kind:   "question",
		Label:  label,
		Action: "/admin/questions/" + id + "/delete",
	})
}

func (rt *Router) handleQuestionDelete(w http.ResponseWriter, r *http.Request) {
	_, err := rt.adminService(r).DeleteQuestion(r.Context(), r.PathValue("id"), r.PostFormValue("confirm") == "yes")
	rt.afterDelete(w, r, err, services.MsgQuestionDeleted)
}

func (rt *Router) handleUserDeleteConfirm(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	label := id
	if ov := rt.overviewOrNil(r); ov != nil {
		u, ok := ov.User(id)
		if !ok {
			redirectWithFlash(w, r, "/admin", flashError, "User not found.")
			return
		}
		label = u.Name + " (" + u.Email + ")"
	}
	rt.render(w, r, http.StatusOK, "confirm.html", "admin", "Delete user", confirmPage{
		Kind:   "user",
		Label:  label,
		Action: "/admin/users/" + id + "/delete",
	})
}

func (rt *Router) handleUserDelete(w http.ResponseWriter, r *http.Request) {
	_, err := rt.adminService(r).DeleteUser(r.Context(), r.PathValue("id"), r.PostFormValue("confirm") == "yes")
	rt.afterDelete(w, r, err, services.MsgUserDeleted)
}

func (rt *Router) afterDelete(w http.ResponseWriter, r *http.Request, err error, okMsg string) {
	if err != nil {
		rt.fail(w, r, err, "/admin")
		return
	}
	redirectWithFlash(w, r, "/admin", flashSuccess, okMsg)
}

func (rt *Router) handleUserEdit(w http.ResponseWriter, r *http.Request) {
	redirectWithFlash(w, r, "/admin", flashInfo, MsgEditUserUnavailable)
}
