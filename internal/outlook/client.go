package outlook

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

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/fremdrift-as/inquiry-api/internal/config"
	"github.com/fremdrift-as/inquiry-api/internal/domain"
	"github.com/fremdrift-as/inquiry-api/internal/repository"
)

// ErrAuthExpired is returned when the stored refresh token no longer works.
// The stored token pair is removed before this surfaces, so the user must
// log in to Microsoft again.
var ErrAuthExpired = errors.New("microsoft session expired, please login again")

// ErrNoSession is returned when no token pair is stored for the user
var ErrNoSession = errors.New("no microsoft session for user")

const graphBaseURL = "https://graph.microsoft.com/v1.0"

// Client mirrors calendar events to Outlook via Microsoft Graph
type Client struct {
	httpClient *http.Client
	config     *config.MicrosoftConfig
	tokenRepo  *repository.TokenRepository
	logger     *zap.Logger
}

// NewClient creates a new Graph calendar client
func NewClient(cfg *config.MicrosoftConfig, tokenRepo *repository.TokenRepository, logger *zap.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		config:    cfg,
		tokenRepo: tokenRepo,
		logger:    logger,
	}
}

// graphEvent is the Graph API event payload
type graphEvent struct {
	ID       string         `json:"id,omitempty"`
	Subject  string         `json:"subject"`
	Body     *graphItemBody `json:"body,omitempty"`
	Start    graphDateTime  `json:"start"`
	End      graphDateTime  `json:"end"`
	Location *graphLocation `json:"location,omitempty"`
}

type graphItemBody struct {
	ContentType string `json:"contentType"`
	Content     string `json:"content"`
}

type graphDateTime struct {
	DateTime string `json:"dateTime"`
	TimeZone string `json:"timeZone"`
}

type graphLocation struct {
	DisplayName string `json:"displayName"`
}

// CreateEvent mirrors a local event to the user's Outlook calendar and
// returns the Graph event id.
func (c *Client) CreateEvent(ctx context.Context, userEmail string, event *domain.CalendarEvent) (string, error) {
	payload := graphEvent{
		Subject: event.Title,
		Start:   graphDateTime{DateTime: event.StartTime.UTC().Format("2006-01-02T15:04:05"), TimeZone: "UTC"},
		End:     graphDateTime{DateTime: event.EndTime.UTC().Format("2006-01-02T15:04:05"), TimeZone: "UTC"},
	}
	if event.Description != "" {
		payload.Body = &graphItemBody{ContentType: "text", Content: event.Description}
	}
	if event.Location != "" {
		payload.Location = &graphLocation{DisplayName: event.Location}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to encode event: %w", err)
	}

	respBody, err := c.withRefresh(ctx, userEmail, func(accessToken string) (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, graphBaseURL+"/me/events", bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", "Bearer "+accessToken)
		req.Header.Set("Content-Type", "application/json")
		return c.httpClient.Do(req)
	})
	if err != nil {
		return "", err
	}

	var created graphEvent
	if err := json.Unmarshal(respBody, &created); err != nil {
		return "", fmt.Errorf("failed to decode Graph response: %w", err)
	}
	return created.ID, nil
}

// DeleteEvent removes the Outlook mirror of a local event
func (c *Client) DeleteEvent(ctx context.Context, userEmail string, outlookEventID string) error {
	_, err := c.withRefresh(ctx, userEmail, func(accessToken string) (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodDelete, graphBaseURL+"/me/events/"+url.PathEscape(outlookEventID), nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", "Bearer "+accessToken)
		return c.httpClient.Do(req)
	})
	return err
}

// withRefresh runs a Graph call with the stored access token. On 401 it
// refreshes the token pair once and retries; when the refresh itself fails
// the stored session is destroyed and ErrAuthExpired surfaces.
func (c *Client) withRefresh(ctx context.Context, userEmail string, call func(accessToken string) (*http.Response, error)) ([]byte, error) {
	token, err := c.tokenRepo.GetByUserEmail(ctx, userEmail)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoSession
		}
		return nil, fmt.Errorf("failed to load microsoft token: %w", err)
	}

	body, status, err := c.do(call, token.AccessToken)
	if err != nil {
		return nil, err
	}
	if status != http.StatusUnauthorized {
		return body, nil
	}

	refreshed, err := c.refreshToken(ctx, token)
	if err != nil {
		c.logger.Warn("microsoft token refresh failed, destroying session",
			zap.String("userEmail", userEmail),
			zap.Error(err))
		if delErr := c.tokenRepo.DeleteByUserEmail(ctx, userEmail); delErr != nil {
			c.logger.Error("failed to delete expired microsoft token", zap.Error(delErr))
		}
		return nil, ErrAuthExpired
	}

	body, status, err = c.do(call, refreshed.AccessToken)
	if err != nil {
		return nil, err
	}
	if status == http.StatusUnauthorized {
		return nil, ErrAuthExpired
	}
	return body, nil
}

func (c *Client) do(call func(accessToken string) (*http.Response, error), accessToken string) ([]byte, int, error) {
	resp, err := call(accessToken)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to call Graph API: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read Graph response: %w", err)
	}

	if resp.StatusCode >= 400 && resp.StatusCode != http.StatusUnauthorized {
		var errorResp struct {
			Error struct {
				Code    string `json:"code"`
				Message string `json:"message"`
			} `json:"error"`
		}
		if err := json.Unmarshal(body, &errorResp); err == nil && errorResp.Error.Message != "" {
			return nil, resp.StatusCode, fmt.Errorf("Graph API error (%d): %s - %s", resp.StatusCode, errorResp.Error.Code, errorResp.Error.Message)
		}
		return nil, resp.StatusCode, fmt.Errorf("Graph API returned status %d", resp.StatusCode)
	}

	return body, resp.StatusCode, nil
}

// refreshToken exchanges the stored refresh token for a new pair and
// persists it.
func (c *Client) refreshToken(ctx context.Context, token *domain.MicrosoftToken) (*domain.MicrosoftToken, error) {
	tokenURL := fmt.Sprintf("%s%s/oauth2/v2.0/token", c.config.InstanceUrl, c.config.TenantId)

	data := url.Values{}
	data.Set("grant_type", "refresh_token")
	data.Set("client_id", c.config.ClientId)
	data.Set("client_secret", c.config.ClientSecret)
	data.Set("refresh_token", token.RefreshToken)
	data.Set("scope", "https://graph.microsoft.com/Calendars.ReadWrite offline_access")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tokenURL, strings.NewReader(data.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call token endpoint: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var errorResp struct {
			Error            string `json:"error"`
			ErrorDescription string `json:"error_description"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&errorResp); err == nil && errorResp.ErrorDescription != "" {
			return nil, fmt.Errorf("token refresh failed (%d): %s - %s", resp.StatusCode, errorResp.Error, errorResp.ErrorDescription)
		}
		return nil, fmt.Errorf("token refresh failed with status %d", resp.StatusCode)
	}

	var tokenResp struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
		ExpiresIn    int    `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&tokenResp); err != nil {
		return nil, fmt.Errorf("failed to decode token response: %w", err)
	}

	token.AccessToken = tokenResp.AccessToken
	if tokenResp.RefreshToken != "" {
		token.RefreshToken = tokenResp.RefreshToken
	}
	if err := c.tokenRepo.Upsert(ctx, token); err != nil {
		return nil, fmt.Errorf("failed to persist refreshed token: %w", err)
	}

	return token, nil
}
