package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"kitchenops/internal/inventory"
	"kitchenops/internal/models"
	"kitchenops/internal/pantry"
)

const defaultBaseURL = "http://localhost:8080"

// ApiClient handles requests to the KitchenOps API
type ApiClient struct {
	httpClient *http.Client
	BaseURL    string
	token      string
	StaffID    string
}

// NewApiClient creates a new API client for baseURL, falling back to KITCHENOPS_API_URL
func NewApiClient(baseURL string) *ApiClient {
	if baseURL == "" {
		baseURL = os.Getenv("KITCHENOPS_API_URL")
	}
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	return &ApiClient{
		// AI calls can take a while
		httpClient: &http.Client{Timeout: 90 * time.Second},
		BaseURL:    baseURL,
	}
}

// apiError carries the server's error message
type apiError struct {
	Status  int
	Message string
}

func (e *apiError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("request failed with status code: %d", e.Status)
	}
	return fmt.Sprintf("%s (status %d)", e.Message, e.Status)
}

func (c *ApiClient) do(ctx context.Context, method, path string, body io.Reader, contentType string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode >= 300 {
		var payload struct {
			Error string `json:"error"`
		}
		_ = json.Unmarshal(data, &payload)
		return &apiError{Status: resp.StatusCode, Message: payload.Error}
	}

	if out == nil || len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, out)
}

func (c *ApiClient) doJSON(ctx context.Context, method, path string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}
	return c.do(ctx, method, path, body, "application/json", out)
}

// CheckHealth checks if the API is up and running
func (c *ApiClient) CheckHealth(ctx context.Context) error {
	return c.doJSON(ctx, http.MethodGet, "/health", nil, nil)
}

// Login opens a session. The server accepts any credentials.
func (c *ApiClient) Login(ctx context.Context, staffID, passcode string) error {
	var resp struct {
		Token   string `json:"token"`
		StaffID string `json:"staffId"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/api/v1/auth/login", map[string]string{
		"staffId":  staffID,
		"passcode": passcode,
	}, &resp); err != nil {
		return err
	}
	c.token = resp.Token
	c.StaffID = resp.StaffID
	return nil
}

// GetDashboard retrieves the Kitchen Ops summary
func (c *ApiClient) GetDashboard(ctx context.Context) (*inventory.Dashboard, error) {
	var dash inventory.Dashboard
	if err := c.doJSON(ctx, http.MethodGet, "/api/v1/dashboard", nil, &dash); err != nil {
		return nil, err
	}
	return &dash, nil
}

// ItemList is one page of the stock list
type ItemList struct {
	Items []inventory.ItemStatus `json:"items"`
	Count int                    `json:"count"`
	Total int                    `json:"total"`
}

// ListItems retrieves the filtered and sorted stock list
func (c *ApiClient) ListItems(ctx context.Context, q inventory.Query) (*ItemList, error) {
	params := url.Values{}
	if q.Search != "" {
		params.Set("search", q.Search)
	}
	if q.Category != "" {
		params.Set("category", q.Category)
	}
	if q.Sort != "" {
		params.Set("sort", string(q.Sort))
	}

	path := "/api/v1/items"
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	var list ItemList
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// DeleteItem removes an item by ID
func (c *ApiClient) DeleteItem(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/api/v1/items/"+url.PathEscape(id), nil, nil)
}

// AddItem creates a manual entry
func (c *ApiClient) AddItem(ctx context.Context, in pantry.NewItemInput) (*models.InventoryItem, error) {
	var item models.InventoryItem
	if err := c.doJSON(ctx, http.MethodPost, "/api/v1/items", in, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// ScanItem adds the item behind a barcode; an empty code scans a random one
func (c *ApiClient) ScanItem(ctx context.Context, code string) (*models.InventoryItem, error) {
	var item models.InventoryItem
	if err := c.doJSON(ctx, http.MethodPost, "/api/v1/items/scan", map[string]string{"code": code}, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// IntakeResult is the outcome of a photo upload
type IntakeResult struct {
	Items   []models.InventoryItem `json:"items"`
	Message string                 `json:"message"`
}

// UploadImage sends a pantry photo for AI analysis
func (c *ApiClient) UploadImage(ctx context.Context, path string) (*IntakeResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("image", filepath.Base(path))
	if err != nil {
		return nil, err
	}
	if _, err := fw.Write(data); err != nil {
		return nil, err
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	var result IntakeResult
	if err := c.do(ctx, http.MethodPost, "/api/v1/intake/image", &buf, mw.FormDataContentType(), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// SuggestSpecials asks for recipes using soon-to-expire stock
func (c *ApiClient) SuggestSpecials(ctx context.Context) (*pantry.Specials, error) {
	var specials pantry.Specials
	if err := c.doJSON(ctx, http.MethodPost, "/api/v1/specials", nil, &specials); err != nil {
		return nil, err
	}
	return &specials, nil
}

// GetReports retrieves the analytics report
func (c *ApiClient) GetReports(ctx context.Context) (*inventory.Report, error) {
	var report inventory.Report
	if err := c.doJSON(ctx, http.MethodGet, "/api/v1/reports", nil, &report); err != nil {
		return nil, err
	}
	return &report, nil
}
