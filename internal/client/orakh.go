package client

import (
	"context"
	"errors"
	"log/slog"
)

// HistoryMessage is one prior conversation turn, trimmed to role and
// content only. Ids and timestamps stay local.
type HistoryMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ConverseRequest struct {
	Message string           `json:"message"`
	History []HistoryMessage `json:"history,omitempty"`
}

type ElaborateRequest struct {
	RespuestaAnterior string `json:"respuesta_anterior"`
	MensajeUsuario    string `json:"mensaje_usuario"`
}

type ConversationResponse struct {
	Response  string `json:"response"`
	MessageID string `json:"message_id,omitempty"`
}

// Converse sends a user message plus trimmed history and returns the
// assistant's reply.
func (c *Client) Converse(ctx context.Context, message string, history []HistoryMessage) (string, error) {
	resp := ConversationResponse{}
	req := ConverseRequest{Message: message, History: history}
	if err := c.postJSON(ctx, "/api/orakh", req, &resp); err != nil {
		slog.Error("Failed to send conversation request", "error", err)
		return "", err
	}
	if resp.Response == "" {
		return "", errors.New("conversation response is empty")
	}
	return resp.Response, nil
}

// Elaborate asks the backend to expand on one of its previous replies.
func (c *Client) Elaborate(ctx context.Context, priorResponse, userMessage string) (string, error) {
	resp := ConversationResponse{}
	req := ElaborateRequest{RespuestaAnterior: priorResponse, MensajeUsuario: userMessage}
	if err := c.postJSON(ctx, "/api/profundizar", req, &resp); err != nil {
		slog.Error("Failed to send elaborate request", "error", err)
		return "", err
	}
	if resp.Response == "" {
		return "", errors.New("elaborate response is empty")
	}
	return resp.Response, nil
}

// ClearMemory resets the server-side conversation memory.
func (c *Client) ClearMemory(ctx context.Context) error {
	if err := c.postJSON(ctx, "/api/clear_memory", nil, nil); err != nil {
		slog.Error("Failed to clear server memory", "error", err)
		return err
	}
	return nil
}
