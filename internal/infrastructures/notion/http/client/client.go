package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	derr "github.com/ozzus/club-sanctions/internal/domain/errors"
	"github.com/ozzus/club-sanctions/internal/infrastructures/notion/dto"
)

const (
	DefaultBaseURL = "https://api.notion.com/v1"
	DefaultVersion = "2022-06-28"

	versionHeader = "Notion-Version"
)

// Config is built once at start-up and owned by the Client.
type Config struct {
	BaseURL string
	Token   string
	Version string
	Timeout time.Duration
}

type Client struct {
	http *resty.Client
}

func NewClient(cfg Config) (*Client, error) {
	token := strings.TrimSpace(cfg.Token)
	if token == "" {
		return nil, fmt.Errorf("notion token is empty")
	}

	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	version := strings.TrimSpace(cfg.Version)
	if version == "" {
		version = DefaultVersion
	}

	httpClient := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetAuthToken(token).
		SetHeader(versionHeader, version).
		SetHeader("Content-Type", "application/json").
		SetTimeout(cfg.Timeout)
	instrument(httpClient, "club-sanctions/notion")

	return &Client{http: httpClient}, nil
}

// QueryDatabase returns every page of the database, following next_cursor until the server
// reports the last page. A non-200 answer on any page discards what was collected so far.
func (c *Client) QueryDatabase(ctx context.Context, databaseID string) ([]dto.Page, error) {
	var (
		pages  []dto.Page
		cursor string
	)

	for {
		body, err := c.do(ctx, http.MethodPost, "/databases/{id}/query", databaseID, dto.QueryDatabaseRequest{StartCursor: cursor})
		if err != nil {
			return nil, fmt.Errorf("query database %s: %w", databaseID, err)
		}

		var resp dto.QueryDatabaseResponse
		if err := json.Unmarshal(body, &resp); err != nil {
			return nil, fmt.Errorf("decode query response: %w", err)
		}

		pages = append(pages, resp.Results...)
		if resp.NextCursor == nil || *resp.NextCursor == "" {
			break
		}
		cursor = *resp.NextCursor
	}

	if pages == nil {
		pages = []dto.Page{}
	}
	return pages, nil
}

func (c *Client) CreatePage(ctx context.Context, databaseID string, props dto.Properties) (dto.Page, error) {
	reqBody := dto.CreatePageRequest{
		Parent:     dto.Parent{DatabaseID: databaseID},
		Properties: props,
	}

	body, err := c.do(ctx, http.MethodPost, "/pages", "", reqBody)
	if err != nil {
		return dto.Page{}, fmt.Errorf("create page in %s: %w", databaseID, err)
	}

	return decodePage(body)
}

func (c *Client) UpdatePage(ctx context.Context, pageID string, props dto.Properties) (dto.Page, error) {
	body, err := c.do(ctx, http.MethodPatch, "/pages/{id}", pageID, dto.UpdatePageRequest{Properties: props})
	if err != nil {
		return dto.Page{}, fmt.Errorf("update page %s: %w", pageID, err)
	}

	return decodePage(body)
}

func (c *Client) do(ctx context.Context, method, path, id string, payload any) ([]byte, error) {
	req := c.http.R().SetContext(ctx).SetBody(payload)
	if id != "" {
		req.SetPathParam("id", id)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: do request: %v", derr.ErrSourceUnavailable, err)
	}

	if resp.StatusCode() != http.StatusOK {
		return nil, &derr.APIError{StatusCode: resp.StatusCode(), Body: resp.Body()}
	}

	return resp.Body(), nil
}

func decodePage(body []byte) (dto.Page, error) {
	var page dto.Page
	if err := json.Unmarshal(body, &page); err != nil {
		return dto.Page{}, fmt.Errorf("decode page: %w", err)
	}
	return page, nil
}
