package api

import (
	"net/http"

	"github.com/neuroscreen/portal/internal/services"
)

type assistantPage struct {
	Entries []services.TranscriptEntry
	Pending bool
}

func (rt *Router) handleAssistantPage(w http.ResponseWriter, r *http.Request) {
	t := rt.state.transcript(sessionID(r))
	// Entries includes the tentative user turn while the model is answering.
	rt.render(w, r, http.StatusOK, "assistant.html", "assistant", "AI Assistant", assistantPage{Entries: t.Entries(), Pending: t.Pending()})
}

func (rt *Router) handleAssistantSend(w http.ResponseWriter, r *http.Request) {
	t := rt.state.transcript(sessionID(r))
	_, err := rt.assistant.Send(r.Context(), t, r.PostFormValue("prompt"))
	if reachedModel(err) {
		rt.metrics.IncrementAssistantTurn(err == nil)
	}
	if err != nil {
		rt.fail(w, r, err, "/ai-assistant#bottom")
		return
	}
	http.Redirect(w, r, "/ai-assistant#bottom", http.StatusSeeOther)
}

func (rt *Router) handleAssistantReset(w http.ResponseWriter, r *http.Request) {
	rt.state.transcript(sessionID(r)).Reset()
	http.Redirect(w, r, "/ai-assistant", http.StatusSeeOther)
}

// reachedModel is false for turns rejected before any call was made.
func reachedModel(err error) bool {
	se, ok := services.AsServiceError(err)
	return !ok || (se.Code != services.ErrorInvalid && se.Code != services.ErrorConflict)
}
