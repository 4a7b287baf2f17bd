package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/loboot/vote-system/internal/models"
	"github.com/loboot/vote-system/internal/session"
	"go.uber.org/zap"
)

// Envelope is the backend's response wrapper. Application success is
// Code == 200 regardless of the HTTP status. Login answers carry the token
// at the top level instead of inside Data.
type Envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Token   string          `json:"token"`
	Expired string          `json:"expire"`
}

type Gateway struct {
	base    string
	client  *http.Client
	session *session.Store
	reqID   string
	l       *zap.Logger
}

func New(baseURL string, timeout time.Duration, sess *session.Store, l *zap.Logger) *Gateway {
	return &Gateway{
		base:    strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		session: sess,
		reqID:   uuid.New().String()[:8],
		l:       l,
	}
}

// DoRaw performs one request and returns the response body after HTTP-level
// error handling. A 401 clears the session before the rejection propagates,
// so the UI drops back to the unauthenticated state.
func (g *Gateway) DoRaw(ctx context.Context, method, path string, body any) ([]byte, error) {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("gateway: json marshal error: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, g.base+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("gateway: failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", g.reqID)
	if token := g.session.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		g.l.Warn("transport failure",
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err))
		return nil, fmt.Errorf("gateway: %v: %w", err, models.ErrNetwork)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("gateway: %v: %w", err, models.ErrNetwork)
	}
	g.l.Debug("api response",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status_code", resp.StatusCode))

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		if err = g.session.Clear(); err != nil {
			g.l.Error("failed to clear session after 401", zap.Error(err))
		}
		return nil, fmt.Errorf("gateway: %s %s: %w", method, path, models.ErrUnauthorized)
	case resp.StatusCode == http.StatusForbidden:
		g.l.Warn("forbidden", zap.String("method", method), zap.String("path", path))
		return nil, fmt.Errorf("gateway: %s %s: %w", method, path, models.ErrForbidden)
	case resp.StatusCode >= 400:
		return nil, &models.APIError{
			Code:    resp.StatusCode,
			Message: serverMessage(respBody),
		}
	}
	return respBody, nil
}

// Do performs one request and unwraps the envelope; a non-200 application
// code becomes an APIError carrying the server's message verbatim.
func (g *Gateway) Do(ctx context.Context, method, path string, body any) (*Envelope, error) {
	respBody, err := g.DoRaw(ctx, method, path, body)
	if err != nil {
		return nil, err
	}
	// DELETE answers with an empty body
	if len(respBody) == 0 {
		return &Envelope{Code: 200}, nil
	}

	var env Envelope
	if err = json.Unmarshal(respBody, &env); err != nil {
		return nil, fmt.Errorf("gateway: failed to unmarshal response: %w", err)
	}
	if env.Code != 200 {
		g.l.Warn("application-level failure",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("code", env.Code),
			zap.String("message", env.Message))
		return nil, &models.APIError{Code: env.Code, Message: env.Message}
	}
	return &env, nil
}

func serverMessage(body []byte) string {
	var env Envelope
	if err := json.Unmarshal(body, &env); err == nil && env.Message != "" {
		return env.Message
	}
	return ""
}
