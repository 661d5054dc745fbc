package rewrite

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"google.golang.org/adk/agent"
	"google.golang.org/adk/runner"
	"google.golang.org/adk/session"
	"google.golang.org/genai"
)

const agentUserID = "resume-cleaner"

// AgentService runs the rewrite through an ADK agent runner. Every call gets a
// fresh session that is deleted afterwards, so nothing carries over between resumes.
type AgentService struct {
	Runner   *runner.Runner
	Sessions session.Service
	AppName  string
}

func (s *AgentService) Rewrite(ctx context.Context, text string) (string, error) {
	created, err := s.Sessions.Create(ctx, &session.CreateRequest{
		AppName:   s.AppName,
		UserID:    agentUserID,
		SessionID: uuid.NewString(),
	})
	if err != nil {
		return "", fmt.Errorf("failed to create agent session: %w", err)
	}
	agentSession := created.Session
	defer func() {
		err := s.Sessions.Delete(context.WithoutCancel(ctx), &session.DeleteRequest{
			AppName:   agentSession.AppName(),
			UserID:    agentSession.UserID(),
			SessionID: agentSession.ID(),
		})
		if err != nil {
			slog.Warn("Failed to delete agent session.", "sessionId", agentSession.ID(), "error", err)
		}
	}()

	stream := s.Runner.Run(ctx, agentSession.UserID(), agentSession.ID(), &genai.Content{
		Role: "user",
		Parts: []*genai.Part{
			{Text: userMessage(text)},
		},
	}, agent.RunConfig{})

	var output string
	for event, err := range stream {
		if err != nil {
			return "", err
		}
		if event != nil && event.IsFinalResponse() && event.Content != nil {
			output = partsText(event.Content.Parts)
		}
	}
	if output == "" {
		return "", fmt.Errorf("empty agent response")
	}
	return output, nil
}

func partsText(parts []*genai.Part) string {
	var b strings.Builder
	for _, p := range parts {
		if p != nil && !p.Thought {
			b.WriteString(p.Text)
		}
	}
	return b.String()
}
