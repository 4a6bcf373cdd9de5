// Package client is a Go rendition of the dashboard: a Session owns the
// bearer token and every API call goes through it.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"blogcms/models"
	"blogcms/utils"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrUnreachable wraps failures where no response came back at all.
	ErrUnreachable = errors.New("backend not reachable")
	ErrNotLoggedIn = errors.New("not logged in")
)

// APIError is an error response from the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%d %s: %s", e.StatusCode, http.StatusText(e.StatusCode), e.Message)
}

func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

type Session struct {
	baseURL    string
	httpClient *http.Client
	store      TokenStore
	token      string
}

// NewSession does not touch the store; call Init to pick up a saved token.
func NewSession(baseURL string, store TokenStore, httpClient *http.Client) *Session {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Session{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		store:      store,
	}
}

func (s *Session) Init() error {
	token, err := s.store.Load()
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}
	s.token = token
	return nil
}

// Teardown forgets the token in memory and in the store.
func (s *Session) Teardown() error {
	s.token = ""
	if err := s.store.Clear(); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

func (s *Session) Authenticated() bool {
	return s.token != ""
}

// DisplayUserID decodes the token payload without verifying it. It is only
// fit for display; the server decides ownership from its own validation.
func (s *Session) DisplayUserID() uint {
	if s.token == "" {
		return 0
	}
	claims := &utils.Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(s.token, claims); err != nil {
		return 0
	}
	id, err := strconv.ParseUint(claims.NameID, 10, 64)
	if err != nil {
		return 0
	}
	return uint(id)
}

func (s *Session) Register(ctx context.Context, name, email, password string) (*models.User, error) {
	var user models.User
	req := models.RegisterRequest{Name: name, Email: email, Password: password}
	if err := s.do(ctx, http.MethodPost, "/auth/register", req, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *Session) Login(ctx context.Context, email, password string) error {
	var resp models.LoginResponse
	req := models.LoginRequest{Email: email, Password: password}
	if err := s.do(ctx, http.MethodPost, "/auth/login", req, &resp); err != nil {
		return err
	}

	if err := s.store.Save(resp.Token); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	s.token = resp.Token
	return nil
}

func (s *Session) Me(ctx context.Context) (*models.User, error) {
	if !s.Authenticated() {
		return nil, ErrNotLoggedIn
	}
	var user models.User
	if err := s.do(ctx, http.MethodGet, "/auth/me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *Session) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnreachable, err)
	}

	if resp.StatusCode >= 400 {
		return &APIError{StatusCode: resp.StatusCode, Message: errorMessage(data)}
	}

	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// errorMessage accepts both {"error": "..."} bodies and bare strings.
func errorMessage(data []byte) string {
	var envelope struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(data, &envelope); err == nil && envelope.Error != "" {
		return envelope.Error
	}
	var plain string
	if err := json.Unmarshal(data, &plain); err == nil && plain != "" {
		return plain
	}
	return strings.TrimSpace(string(data))
}
