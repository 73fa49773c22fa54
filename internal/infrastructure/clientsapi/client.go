// Package clientsapi talks to the remote clients service.
package clientsapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	domain "github.com/geritapp/gerit/internal/domain/fieldservice"
)

var ErrUnexpectedStatus = errors.New("unexpected status from clients api")

type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
}

// New builds a client for baseURL, e.g. http://localhost:3001/api.
func New(baseURL string, httpClient *http.Client) (*Client, error) {
	u, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid clients api url: %q", baseURL)
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{baseURL: u, httpClient: httpClient}, nil
}

type wireClient struct {
	ID            int64  `json:"id"`
	Nome          string `json:"nome"`
	Email         string `json:"email,omitempty"`
	Telefone      string `json:"telefone,omitempty"`
	NIF           string `json:"nif,omitempty"`
	Morada        string `json:"morada,omitempty"`
	Consentimento string `json:"consentimento"`
	CriadoEm      string `json:"criadoEm,omitempty"`
}

type createRequest struct {
	Nome          string  `json:"nome"`
	Morada        *string `json:"morada"`
	NIF           *string `json:"nif"`
	Telefone      *string `json:"telefone"`
	Email         *string `json:"email"`
	Consentimento string  `json:"consentimento"`
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func (w wireClient) toDomain() domain.Client {
	c := domain.Client{
		ID:      w.ID,
		Name:    w.Nome,
		Email:   w.Email,
		Phone:   w.Telefone,
		TaxID:   w.NIF,
		Address: w.Morada,
		Consent: domain.ConsentStatus(w.Consentimento),
	}
	if consent, ok := domain.ParseStatus(w.Consentimento, domain.ConsentStatuses); ok {
		c.Consent = consent
	}
	if t, err := time.Parse(time.RFC3339, w.CriadoEm); err == nil {
		c.CreatedAt = t
	}
	return c
}

func (c *Client) ListClients(ctx context.Context) ([]domain.Client, error) {
	var out []wireClient
	if err := c.doJSON(ctx, http.MethodGet, "/clientes", nil, &out); err != nil {
		return nil, err
	}

	clients := make([]domain.Client, 0, len(out))
	for _, w := range out {
		clients = append(clients, w.toDomain())
	}
	return clients, nil
}

func (c *Client) CreateClient(ctx context.Context, cl domain.Client) (domain.Client, error) {
	req := createRequest{
		Nome:          cl.Name,
		Morada:        optional(cl.Address),
		NIF:           optional(cl.TaxID),
		Telefone:      optional(cl.Phone),
		Email:         optional(cl.Email),
		Consentimento: string(cl.Consent),
	}

	var out wireClient
	if err := c.doJSON(ctx, http.MethodPost, "/clientes", req, &out); err != nil {
		return domain.Client{}, err
	}

	created := out.toDomain()
	if created.CreatedAt.IsZero() {
		created.CreatedAt = cl.CreatedAt
	}
	return created, nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, reqBody any, out any) error {
	u := *c.baseURL
	u.Path = strings.TrimRight(u.Path, "/") + path

	var body io.Reader
	if reqBody != nil {
		b, err := json.Marshal(reqBody)
		if err != nil {
			return fmt.Errorf("json marshal request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return fmt.Errorf("http request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if reqBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("http do: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("http read: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: %s %s status=%d body=%s", ErrUnexpectedStatus, method, path, resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("json unmarshal response: %w", err)
	}
	return nil
}
