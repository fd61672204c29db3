// Package client is a Go client for the Salt API: a typed HTTP client, a shared
// in-memory store that mirrors the server's collections, and view helpers.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sistema-salt/salt-backend/internal/domain"
)

// DefaultTimeout bounds every request made by a Client built without an HTTPClient
const DefaultTimeout = 15 * time.Second

// maxResponseSize caps how much of a response body is read
const maxResponseSize = 10 << 20

// Config holds configuration for creating a Client
type Config struct {
	// BaseURL is the API root, e.g. "http://localhost:8080"
	BaseURL string
	// HTTPClient is used for all requests. If nil, a client with Timeout is used.
	HTTPClient *http.Client
	Timeout    time.Duration
}

// Client is a typed HTTP client over the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client

	mu    sync.RWMutex
	token string
}

// NewClient creates a new Client
func NewClient(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("salt: BaseURL is required")
	}
	if _, err := url.Parse(cfg.BaseURL); err != nil {
		return nil, fmt.Errorf("salt: invalid BaseURL %q: %w", cfg.BaseURL, err)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: httpClient,
	}, nil
}

// SetToken sets the bearer token attached to subsequent requests
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// Token returns the current bearer token
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// AuthResult is returned by Register and Login
type AuthResult struct {
	User  *domain.User `json:"user"`
	Token string       `json:"token"`
}

// RegisterInput is the body of POST /register
type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role,omitempty"`
}

// CategoryInput creates or updates a category. Nil fields are left unchanged on update.
type CategoryInput struct {
	Name     *string          `json:"name,omitempty"`
	Location *domain.Location `json:"location,omitempty"`
}

// ProductInput creates or updates a product
type ProductInput struct {
	Name     *string `json:"name,omitempty"`
	Quantity *int32  `json:"quantity,omitempty"`
	Category *string `json:"category,omitempty"`
	Unit     *string `json:"unit,omitempty"`
	MinStock *int32  `json:"minStock,omitempty"`
}

// CommunicationInput creates or updates a communication
type CommunicationInput struct {
	Title   *string `json:"title,omitempty"`
	Content *string `json:"content,omitempty"`
}

// FinancialInput creates or updates a financial record
type FinancialInput struct {
	Description *string               `json:"description,omitempty"`
	Amount      *decimal.Decimal      `json:"amount,omitempty"`
	Type        *domain.FinancialType `json:"type,omitempty"`
}

// ProjectInput creates or updates a project
type ProjectInput struct {
	Name   *string        `json:"name,omitempty"`
	Status *domain.Status `json:"status,omitempty"`
}

// TaskInput creates or updates a task. Setting ProjectID on update moves the task.
type TaskInput struct {
	Title     *string        `json:"title,omitempty"`
	ProjectID *int32         `json:"project_id,omitempty"`
	Status    *domain.Status `json:"status,omitempty"`
}

// Register creates an account
func (c *Client) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	var result AuthResult
	if err := c.do(ctx, http.MethodPost, "/register", input, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Login exchanges credentials for a token. The token is not stored on the client.
func (c *Client) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	body := map[string]string{"email": email, "password": password}
	var result AuthResult
	if err := c.do(ctx, http.MethodPost, "/login", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Me returns the user the current token belongs to
func (c *Client) Me(ctx context.Context) (*domain.User, error) {
	var user domain.User
	if err := c.do(ctx, http.MethodGet, "/me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Users lists all users
func (c *Client) Users(ctx context.Context) ([]*domain.User, error) {
	return fetch[[]*domain.User](ctx, c, http.MethodGet, "/users", nil)
}

// DeleteUser removes a user (admin only)
func (c *Client) DeleteUser(ctx context.Context, id int32) error {
	return c.do(ctx, http.MethodDelete, resourcePath("/users", id), nil, nil)
}

// Categories lists all categories
func (c *Client) Categories(ctx context.Context) ([]*domain.Category, error) {
	return fetch[[]*domain.Category](ctx, c, http.MethodGet, "/categories", nil)
}

// CreateCategory creates a category
func (c *Client) CreateCategory(ctx context.Context, input CategoryInput) (*domain.Category, error) {
	return fetch[*domain.Category](ctx, c, http.MethodPost, "/categories", input)
}

// UpdateCategory changes the given fields of a category
func (c *Client) UpdateCategory(ctx context.Context, id int32, input CategoryInput) (*domain.Category, error) {
	return fetch[*domain.Category](ctx, c, http.MethodPut, resourcePath("/categories", id), input)
}

// DeleteCategory removes a category
func (c *Client) DeleteCategory(ctx context.Context, id int32) error {
	return c.do(ctx, http.MethodDelete, resourcePath("/categories", id), nil, nil)
}

// Products lists all products
func (c *Client) Products(ctx context.Context) ([]*domain.Product, error) {
	return fetch[[]*domain.Product](ctx, c, http.MethodGet, "/products", nil)
}

// CreateProduct creates a product
func (c *Client) CreateProduct(ctx context.Context, input ProductInput) (*domain.Product, error) {
	return fetch[*domain.Product](ctx, c, http.MethodPost, "/products", input)
}

// UpdateProduct changes the given fields of a product
func (c *Client) UpdateProduct(ctx context.Context, id int32, input ProductInput) (*domain.Product, error) {
	return fetch[*domain.Product](ctx, c, http.MethodPut, resourcePath("/products", id), input)
}

// DeleteProduct removes a product
func (c *Client) DeleteProduct(ctx context.Context, id int32) error {
	return c.do(ctx, http.MethodDelete, resourcePath("/products", id), nil, nil)
}

// Communications lists all communications, newest first
func (c *Client) Communications(ctx context.Context) ([]*domain.Communication, error) {
	return fetch[[]*domain.Communication](ctx, c, http.MethodGet, "/communications", nil)
}

// CreateCommunication posts a communication authored by the current user
func (c *Client) CreateCommunication(ctx context.Context, input CommunicationInput) (*domain.Communication, error) {
	return fetch[*domain.Communication](ctx, c, http.MethodPost, "/communications", input)
}

// UpdateCommunication changes the given fields of a communication
func (c *Client) UpdateCommunication(ctx context.Context, id int32, input CommunicationInput) (*domain.Communication, error) {
	return fetch[*domain.Communication](ctx, c, http.MethodPut, resourcePath("/communications", id), input)
}

// DeleteCommunication removes a communication
func (c *Client) DeleteCommunication(ctx context.Context, id int32) error {
	return c.do(ctx, http.MethodDelete, resourcePath("/communications", id), nil, nil)
}

// Financials lists all financial records, newest first
func (c *Client) Financials(ctx context.Context) ([]*domain.Financial, error) {
	return fetch[[]*domain.Financial](ctx, c, http.MethodGet, "/financials", nil)
}

// FinancialSummary returns server-side totals over every financial record
func (c *Client) FinancialSummary(ctx context.Context) (*domain.FinancialSummary, error) {
	return fetch[*domain.FinancialSummary](ctx, c, http.MethodGet, "/financials/summary", nil)
}

// CreateFinancial records an income or expense authored by the current user
func (c *Client) CreateFinancial(ctx context.Context, input FinancialInput) (*domain.Financial, error) {
	return fetch[*domain.Financial](ctx, c, http.MethodPost, "/financials", input)
}

// UpdateFinancial changes the given fields of a financial record
func (c *Client) UpdateFinancial(ctx context.Context, id int32, input FinancialInput) (*domain.Financial, error) {
	return fetch[*domain.Financial](ctx, c, http.MethodPut, resourcePath("/financials", id), input)
}

// DeleteFinancial removes a financial record
func (c *Client) DeleteFinancial(ctx context.Context, id int32) error {
	return c.do(ctx, http.MethodDelete, resourcePath("/financials", id), nil, nil)
}

// Projects lists all projects, newest first
func (c *Client) Projects(ctx context.Context) ([]*domain.Project, error) {
	return fetch[[]*domain.Project](ctx, c, http.MethodGet, "/projects", nil)
}

// CreateProject creates a project
func (c *Client) CreateProject(ctx context.Context, input ProjectInput) (*domain.Project, error) {
	return fetch[*domain.Project](ctx, c, http.MethodPost, "/projects", input)
}

// UpdateProject changes the given fields of a project
func (c *Client) UpdateProject(ctx context.Context, id int32, input ProjectInput) (*domain.Project, error) {
	return fetch[*domain.Project](ctx, c, http.MethodPut, resourcePath("/projects", id), input)
}

// DeleteProject removes a project and, server-side, its tasks
func (c *Client) DeleteProject(ctx context.Context, id int32) error {
	return c.do(ctx, http.MethodDelete, resourcePath("/projects", id), nil, nil)
}

// Tasks lists all tasks, newest first
func (c *Client) Tasks(ctx context.Context) ([]*domain.Task, error) {
	return fetch[[]*domain.Task](ctx, c, http.MethodGet, "/tasks", nil)
}

// CreateTask creates a task authored by the current user
func (c *Client) CreateTask(ctx context.Context, input TaskInput) (*domain.Task, error) {
	return fetch[*domain.Task](ctx, c, http.MethodPost, "/tasks", input)
}

// UpdateTask changes the given fields of a task
func (c *Client) UpdateTask(ctx context.Context, id int32, input TaskInput) (*domain.Task, error) {
	return fetch[*domain.Task](ctx, c, http.MethodPut, resourcePath("/tasks", id), input)
}

// DeleteTask removes a task
func (c *Client) DeleteTask(ctx context.Context, id int32) error {
	return c.do(ctx, http.MethodDelete, resourcePath("/tasks", id), nil, nil)
}

// fetch performs a request and decodes the response into a fresh T
func fetch[T any](ctx context.Context, c *Client, method, path string, requestBody any) (T, error) {
	var out T
	if err := c.do(ctx, method, path, requestBody, &out); err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}

func resourcePath(collection string, id int32) string {
	return collection + "/" + strconv.Itoa(int(id))
}

// do sends a JSON request and decodes a 2xx response into out (when non-nil)
func (c *Client) do(ctx context.Context, method, path string, requestBody, out any) error {
	var bodyReader io.Reader
	if requestBody != nil {
		encoded, err := json.Marshal(requestBody)
		if err != nil {
			return fmt.Errorf("salt: failed to encode request body: %w", err)
		}
		bodyReader = bytes.NewReader(encoded)
	}

	request, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("salt: failed to create request: %w", err)
	}
	request.Header.Set("Accept", "application/json")
	if requestBody != nil {
		request.Header.Set("Content-Type", "application/json")
	}
	if token := c.Token(); token != "" {
		request.Header.Set("Authorization", "Bearer "+token)
	}

	response, err := c.httpClient.Do(request)
	if err != nil {
		return fmt.Errorf("salt: request to %s %s failed: %w", method, path, err)
	}
	defer response.Body.Close()

	responseBody, err := io.ReadAll(io.LimitReader(response.Body, maxResponseSize))
	if err != nil {
		return fmt.Errorf("salt: failed to read response body: %w", err)
	}

	if response.StatusCode < 200 || response.StatusCode >= 300 {
		apiErr := &APIError{Status: response.StatusCode}
		if jsonErr := json.Unmarshal(responseBody, apiErr); jsonErr != nil || apiErr.Message == "" {
			apiErr.Message = http.StatusText(response.StatusCode)
		}
		return apiErr
	}

	if out == nil || len(responseBody) == 0 {
		return nil
	}
	if err := json.Unmarshal(responseBody, out); err != nil {
		return fmt.Errorf("salt: failed to decode %s %s response: %w", method, path, err)
	}
	return nil
}
