package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"clearscrub-admin/internal/domain"
)

// HTTPAuthenticator delega la verificacion en un backend remoto (POST /auth/verify).
type HTTPAuthenticator struct {
	baseURL string
	apiKey  string
	timeout time.Duration
	client  *http.Client
	logger  *zap.Logger
}

// NewHTTPAuthenticator construye el cliente con un timeout por llamada.
func NewHTTPAuthenticator(baseURL, apiKey string, timeout time.Duration, logger *zap.Logger) *HTTPAuthenticator {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HTTPAuthenticator{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		timeout: timeout,
		client:  &http.Client{},
		logger:  logger,
	}
}

type verifyRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type verifyResponse struct {
	User *domain.Identity `json:"user"`
}

func (a *HTTPAuthenticator) Authenticate(ctx context.Context, email, password string) (domain.Identity, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return domain.Identity{}, ErrInvalidCredentials
	}

	body, err := json.Marshal(verifyRequest{Email: email, Password: password})
	if err != nil {
		return domain.Identity{}, fmt.Errorf("marshal request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/auth/verify", bytes.NewReader(body))
	if err != nil {
		return domain.Identity{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if a.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+a.apiKey)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return domain.Identity{}, ErrTimeout
		}
		a.logger.Warn("auth backend request failed", zap.Error(err))
		return domain.Identity{}, fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return domain.Identity{}, ErrTimeout
		}
		return domain.Identity{}, fmt.Errorf("%w: read response: %v", ErrUnreachable, err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return domain.Identity{}, ErrInvalidCredentials
	case resp.StatusCode >= 500:
		a.logger.Warn("auth backend error", zap.Int("status", resp.StatusCode))
		return domain.Identity{}, fmt.Errorf("%w: status=%d", ErrUnreachable, resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return domain.Identity{}, fmt.Errorf("auth backend http error: status=%d", resp.StatusCode)
	}

	var vr verifyResponse
	if err := json.Unmarshal(respBody, &vr); err != nil {
		return domain.Identity{}, fmt.Errorf("unmarshal response: %w", err)
	}
	if vr.User == nil || !vr.User.Valid() {
		return domain.Identity{}, fmt.Errorf("auth backend returned incomplete identity")
	}
	return *vr.User, nil
}
