package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"

	"allma-client/internal/model"
)

// ErrMalformedResponse is returned when a 2xx body cannot be decoded.
var ErrMalformedResponse = errors.New("backend returned a malformed response")

// StatusError is returned for any non-2xx reply.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("api returned non-2xx status %d: %s", e.Code, e.Body)
}

// Client talks to the remote RAG backend. Every call takes the base URL so the
// current settings decide where requests go.
type Client interface {
	Chat(ctx context.Context, baseURL string, req *ChatRequest) (*ChatResponse, error)
	Ingest(ctx context.Context, baseURL, filename string, content io.Reader) (*IngestResponse, error)
	Health(ctx context.Context, baseURL string) (*HealthResponse, error)
	ListModels(ctx context.Context, baseURL string) (*ModelsResponse, error)
	DeleteConversation(ctx context.Context, baseURL, conversationID string) error
}

type ChatRequest struct {
	Message        string `json:"message"`
	ConversationID string `json:"conversation_id"`
	UseRAG         bool   `json:"use_rag"`
	Model          string `json:"model"`
}

type ChatResponse struct {
	Response string                `json:"response"`
	Context  *model.MessageContext `json:"context,omitempty"`
}

type IngestResponse struct {
	Success       bool   `json:"success"`
	Source        string `json:"source"`
	ChunksCreated int    `json:"chunks_created"`
	Message       string `json:"message"`
}

type ServiceStatus struct {
	Name      string   `json:"name"`
	Status    string   `json:"status"`
	LatencyMs *float64 `json:"latency_ms,omitempty"`
}

type HealthResponse struct {
	Status    string          `json:"status"`
	Version   string          `json:"version"`
	Services  []ServiceStatus `json:"services"`
	Timestamp string          `json:"timestamp"`
}

type ModelInfo struct {
	Name       string `json:"name"`
	Size       int64  `json:"size,omitempty"`
	ModifiedAt string `json:"modified_at,omitempty"`
	Digest     string `json:"digest,omitempty"`
}

type ModelsResponse struct {
	Models       []ModelInfo `json:"models"`
	CurrentModel string      `json:"current_model"`
}

type DeleteConversationResponse struct {
	Status         string `json:"status"`
	ConversationID string `json:"conversation_id"`
}

type httpClient struct {
	client *http.Client
}

// NewHTTPClient returns a Client using c, or a client without a timeout if c
// is nil.
func NewHTTPClient(c *http.Client) Client {
	if c == nil {
		c = &http.Client{}
	}
	return &httpClient{client: c}
}

func endpoint(baseURL, path string) string {
	return strings.TrimRight(baseURL, "/") + path
}

func (p *httpClient) Chat(ctx context.Context, baseURL string, req *ChatRequest) (*ChatResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("could not marshal request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint(baseURL, "/chat/"), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("could not create http request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	var resp ChatResponse
	if err := p.do(httpReq, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (p *httpClient) Ingest(ctx context.Context, baseURL, filename string, content io.Reader) (*IngestResponse, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("could not create form file: %w", err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return nil, fmt.Errorf("could not read %s: %w", filename, err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("could not finish multipart body: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint(baseURL, "/rag/ingest"), &buf)
	if err != nil {
		return nil, fmt.Errorf("could not create http request: %w", err)
	}
	httpReq.Header.Set("Content-Type", mw.FormDataContentType())

	var resp IngestResponse
	if err := p.do(httpReq, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (p *httpClient) Health(ctx context.Context, baseURL string) (*HealthResponse, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint(baseURL, "/health/"), nil)
	if err != nil {
		return nil, fmt.Errorf("could not create http request: %w", err)
	}
	var resp HealthResponse
	if err := p.do(httpReq, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (p *httpClient) ListModels(ctx context.Context, baseURL string) (*ModelsResponse, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint(baseURL, "/models/"), nil)
	if err != nil {
		return nil, fmt.Errorf("could not create http request: %w", err)
	}
	var resp ModelsResponse
	if err := p.do(httpReq, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// DeleteConversation clears the backend's history for conversationID. A
// backend that never saw the conversation answers with a 404 StatusError.
func (p *httpClient) DeleteConversation(ctx context.Context, baseURL, conversationID string) error {
	path := "/chat/conversation/" + url.PathEscape(conversationID)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodDelete, endpoint(baseURL, path), nil)
	if err != nil {
		return fmt.Errorf("could not create http request: %w", err)
	}
	var resp DeleteConversationResponse
	return p.do(httpReq, &resp)
}

// do sends req and decodes a 2xx JSON body into out.
func (p *httpClient) do(req *http.Request, out any) error {
	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("http request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("could not read response body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{Code: resp.StatusCode, Body: string(bodyBytes)}
	}
	if err := json.Unmarshal(bodyBytes, out); err != nil {
		return fmt.Errorf("%w: %s", ErrMalformedResponse, err.Error())
	}
	return nil
}
