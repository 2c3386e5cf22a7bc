package services

import (
	"context"
	"log"
	"strings"
)

const (
	MsgAssistantFailed = "Sorry, I couldn't get a response. Please try again."
	MsgEmptyPrompt     = "Please type a message."
)

// Generator produces the model reply for prompt given the prior conversation.
type Generator interface {
	Generate(ctx context.Context, history []ChatMessage, prompt string) (string, error)
}

type AssistantService struct {
	gen Generator
}

func NewAssistantService(gen Generator) *AssistantService {
	return &AssistantService{gen: gen}
}

// Send runs one turn. On failure the tentative user entry is reverted and a
// generic error is returned; there is no retry.
func (s *AssistantService) Send(ctx context.Context, t *Transcript, prompt string) (TranscriptEntry, error) {
	if strings.TrimSpace(prompt) == "" {
		return TranscriptEntry{}, NewInvalidError(MsgEmptyPrompt)
	}
	if s.gen == nil {
		return TranscriptEntry{}, NewBadGatewayError(MsgAssistantFailed)
	}
	id, history, err := t.Begin(prompt)
	if err != nil {
		return TranscriptEntry{}, err
	}
	reply, err := s.gen.Generate(ctx, history, prompt)
	if err != nil {
		log.Printf("assistant: generate: %v", err)
		if rerr := t.Revert(id); rerr != nil {
			log.Printf("assistant: revert %s: %v", id, rerr)
		}
		return TranscriptEntry{}, &ServiceError{Code: ErrorBadGateway, Message: MsgAssistantFailed, Err: err}
	}
	entry, err := t.Commit(id, reply)
	if err != nil {
		// The transcript was reset while the model was answering.
		log.Printf("assistant: drop reply for %s: %v", id, err)
		return TranscriptEntry{}, &ServiceError{Code: ErrorBadGateway, Message: MsgAssistantFailed, Err: err}
	}
	return entry, nil
}
