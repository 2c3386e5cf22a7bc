package api

import (
	"sync"
	"time"

	"github.com/neuroscreen/portal/internal/services"
)

// visitorState is the client-side state of one logged-in session: the
// assessment in progress and the assistant conversation.
type visitorState struct {
	wizard     *services.Wizard
	transcript *services.Transcript
	lastSeen   time.Time
}

type stateRegistry struct {
	mu    sync.Mutex
	bySID map[string]*visitorState
	now   func() time.Time
}

func newStateRegistry() *stateRegistry {
	return &stateRegistry{bySID: map[string]*visitorState{}, now: time.Now}
}

func (s *stateRegistry) get(sid, language string) *visitorState {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.bySID[sid]
	if !ok {
		st = &visitorState{wizard: services.NewWizard(language), transcript: services.NewTranscript()}
		s.bySID[sid] = st
	}
	st.lastSeen = s.now()
	return st
}

func (s *stateRegistry) wizard(sid, language string) *services.Wizard {
	return s.get(sid, language).wizard
}

func (s *stateRegistry) transcript(sid string) *services.Transcript {
	return s.get(sid, services.LanguageEnglish).transcript
}

func (s *stateRegistry) drop(sid string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.bySID, sid)
}

// cleanupBefore evicts state not touched since cutoff and reports how many
// sessions were evicted.
func (s *stateRegistry) cleanupBefore(cutoff time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for sid, st := range s.bySID {
		if st.lastSeen.Before(cutoff) {
			delete(s.bySID, sid)
			n++
		}
	}
	return n
}

func (s *stateRegistry) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.bySID)
}
