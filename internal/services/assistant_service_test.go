package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
)

type stubGenerator struct {
	reply   string
	err     error
	history []ChatMessage
	prompt  string
	calls   int
}

func (g *stubGenerator) Generate(_ context.Context, history []ChatMessage, prompt string) (string, error) {
	g.calls++
	g.history = history
	g.prompt = prompt
	if g.err != nil {
		return "", g.err
	}
	return g.reply, nil
}

func TestAssistantSendAppendsTurn(t *testing.T) {
	gen := &stubGenerator{reply: "Early signs include..."}
	svc := NewAssistantService(gen)
	tr := NewTranscript()

	entry, err := svc.Send(context.Background(), tr, "What are early signs?")
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if entry.Role != ChatRoleModel || entry.Text != "Early signs include..." {
		t.Fatalf("unexpected reply entry %+v", entry)
	}
	if len(gen.history) != 1 || gen.history[0].Role != ChatRoleModel || gen.history[0].Text() != AssistantGreeting {
		t.Fatalf("first turn should carry the greeting, got history %+v", gen.history)
	}
	entries := tr.Entries()
	if len(entries) != 3 {
		t.Fatalf("expected greeting + user + model, got %d", len(entries))
	}
	if entries[1].Role != ChatRoleUser || entries[1].State != EntryCommitted {
		t.Fatalf("user entry not committed: %+v", entries[1])
	}

	gen.reply = "Sure."
	if _, err := svc.Send(context.Background(), tr, "Tell me more"); err != nil {
		t.Fatal(err)
	}
	if len(gen.history) != 3 || gen.history[0].Text() != AssistantGreeting || gen.history[1].Role != ChatRoleUser || gen.history[2].Text() != "Early signs include..." {
		t.Fatalf("unexpected history %+v", gen.history)
	}
	if gen.prompt != "Tell me more" {
		t.Fatalf("unexpected prompt %q", gen.prompt)
	}
}

func TestAssistantRollbackOnFailure(t *testing.T) {
	gen := &stubGenerator{reply: "ok"}
	svc := NewAssistantService(gen)
	tr := NewTranscript()
	if _, err := svc.Send(context.Background(), tr, "first"); err != nil {
		t.Fatal(err)
	}
	before := tr.Len()

	gen.err = errors.New("status 500")
	_, err := svc.Send(context.Background(), tr, "second")
	se, ok := AsServiceError(err)
	if !ok || se.Message != MsgAssistantFailed {
		t.Fatalf("expected assistant failure, got %v", err)
	}
	if tr.Len() != before {
		t.Fatalf("transcript length %d, want %d", tr.Len(), before)
	}
	if tr.Pending() {
		t.Fatalf("no turn should be pending after rollback")
	}
	for _, e := range tr.Entries() {
		if e.Text == "second" {
			t.Fatalf("failed turn still present")
		}
	}
}

func TestAssistantRejectsEmptyPrompt(t *testing.T) {
	gen := &stubGenerator{}
	svc := NewAssistantService(gen)
	tr := NewTranscript()
	_, err := svc.Send(context.Background(), tr, "   ")
	wantCode(t, err, ErrorInvalid)
	if gen.calls != 0 || tr.Len() != 1 {
		t.Fatalf("empty prompt must not be sent")
	}
}

func TestTranscriptRevertUsesIdentifier(t *testing.T) {
	tr := NewTranscript()
	n := 0
	tr.newID = func() string { n++; return fmt.Sprintf("id-%d", n) }

	id, _, err := tr.Begin("same text")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := tr.Commit(id, "reply"); err != nil {
		t.Fatal(err)
	}
	id2, _, err := tr.Begin("same text")
	if err != nil {
		t.Fatal(err)
	}
	if err := tr.Revert(id2); err != nil {
		t.Fatal(err)
	}
	count := 0
	for _, e := range tr.Entries() {
		if e.Text == "same text" {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("revert removed %d identical messages, want exactly the tentative one", 2-count)
	}
	if err := tr.Revert(id2); err == nil {
		t.Fatalf("second revert should fail")
	}
}

func TestTranscriptSingleTentativeTurn(t *testing.T) {
	tr := NewTranscript()
	id, _, err := tr.Begin("a")
	if err != nil {
		t.Fatal(err)
	}
	if _, _, err := tr.Begin("b"); err == nil {
		t.Fatalf("second Begin should be rejected while a turn is pending")
	}
	if _, err := tr.Commit("other", "x"); err == nil {
		t.Fatalf("commit with wrong id should fail")
	}
	if _, err := tr.Commit(id, "x"); err != nil {
		t.Fatal(err)
	}
	tr.Reset()
	if tr.Len() != 1 || !tr.Entries()[0].Greeting {
		t.Fatalf("reset should leave only the greeting")
	}
}

type resettingGenerator struct {
	tr *Transcript
}

func (g resettingGenerator) Generate(context.Context, []ChatMessage, string) (string, error) {
	g.tr.Reset()
	return "late reply", nil
}

func TestAssistantReplyAfterResetIsDropped(t *testing.T) {
	tr := NewTranscript()
	tr.newID = func() string { return "turn-id-123" }
	svc := NewAssistantService(resettingGenerator{tr: tr})

	_, err := svc.Send(context.Background(), tr, "hello")
	se, ok := AsServiceError(err)
	if !ok || se.Message != MsgAssistantFailed {
		t.Fatalf("expected generic assistant failure, got %v", err)
	}
	if strings.Contains(se.Message, "turn-id-123") {
		t.Fatalf("internal id shown to the user: %q", se.Message)
	}
	if tr.Len() != 1 || tr.Pending() {
		t.Fatalf("reset transcript should hold only the greeting")
	}
}
