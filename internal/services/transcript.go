package services

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

const AssistantGreeting = "Hello! I'm your AI assistant. Ask me anything about autism, developmental milestones, or coping strategies."

// EntryState tracks the two-phase life of a user turn.
type EntryState int

const (
	EntryCommitted EntryState = iota
	EntryTentative
)

// TranscriptEntry is one chat turn with a stable identifier.
type TranscriptEntry struct {
	ID       string
	Role     string
	Text     string
	State    EntryState
	Greeting bool
	At       time.Time
}

// Transcript is the in-memory, append-only conversation of one session.
// A user turn is appended tentatively by Begin and then either committed
// together with the model reply or reverted.
type Transcript struct {
	mu      sync.Mutex
	entries []TranscriptEntry
	pending string
	now     func() time.Time
	newID   func() string
}

func NewTranscript() *Transcript {
	t := &Transcript{
		now:   func() time.Time { return time.Now().UTC() },
		newID: uuid.NewString,
	}
	t.entries = []TranscriptEntry{t.greeting()}
	return t
}

func (t *Transcript) greeting() TranscriptEntry {
	return TranscriptEntry{ID: t.newID(), Role: ChatRoleModel, Text: AssistantGreeting, State: EntryCommitted, Greeting: true, At: t.now()}
}

// Begin appends a tentative user entry and returns its id together with the
// committed history that precedes it, greeting included. Only one turn may be
// tentative at a time.
func (t *Transcript) Begin(text string) (string, []ChatMessage, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.pending != "" {
		return "", nil, NewConflictError(MsgRequestInProgress)
	}
	history := make([]ChatMessage, 0, len(t.entries))
	for _, e := range t.entries {
		if e.State != EntryCommitted {
			continue
		}
		history = append(history, NewChatMessage(e.Role, e.Text))
	}
	id := t.newID()
	t.entries = append(t.entries, TranscriptEntry{ID: id, Role: ChatRoleUser, Text: text, State: EntryTentative, At: t.now()})
	t.pending = id
	return id, history, nil
}

// Commit finalizes the tentative entry id and appends the model reply.
func (t *Transcript) Commit(id, reply string) (TranscriptEntry, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if id == "" || t.pending != id {
		return TranscriptEntry{}, NewNotFoundError("no pending message " + id)
	}
	for i := range t.entries {
		if t.entries[i].ID == id {
			t.entries[i].State = EntryCommitted
			break
		}
	}
	t.pending = ""
	entry := TranscriptEntry{ID: t.newID(), Role: ChatRoleModel, Text: reply, State: EntryCommitted, At: t.now()}
	t.entries = append(t.entries, entry)
	return entry, nil
}

// Revert removes the tentative entry id, leaving the transcript as if the
// turn never happened.
func (t *Transcript) Revert(id string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if id == "" || t.pending != id {
		return NewNotFoundError("no pending message " + id)
	}
	for i := range t.entries {
		if t.entries[i].ID == id {
			t.entries = append(t.entries[:i], t.entries[i+1:]...)
			break
		}
	}
	t.pending = ""
	return nil
}

// Entries returns a copy of every entry, tentative ones included.
func (t *Transcript) Entries() []TranscriptEntry {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]TranscriptEntry(nil), t.entries...)
}

func (t *Transcript) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.entries)
}

// Pending reports whether a turn is waiting for the model.
func (t *Transcript) Pending() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.pending != ""
}

// Reset discards the conversation. A tentative turn in flight is dropped and
// its later Commit/Revert becomes a no-op error.
func (t *Transcript) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries = []TranscriptEntry{t.greeting()}
	t.pending = ""
}
