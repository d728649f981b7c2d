package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"magnate/internal/auth"
)

type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (c *Client) Signup(ctx context.Context, email, password, username string) (auth.Session, error) {
	var out auth.Session
	err := c.jsonRequest(ctx, http.MethodPost, "/v1/auth/signup", "", map[string]any{
		"email":    email,
		"password": password,
		"username": username,
	}, &out)
	return out, err
}

func (c *Client) Login(ctx context.Context, email, password string) (auth.Session, error) {
	var out auth.Session
	err := c.jsonRequest(ctx, http.MethodPost, "/v1/auth/login", "", map[string]any{
		"email":    email,
		"password": password,
	}, &out)
	return out, err
}

func (c *Client) CreateGame(ctx context.Context, accessToken, name, mode string, timerless bool, turnLimit int) (map[string]any, error) {
	var out map[string]any
	err := c.jsonRequest(ctx, http.MethodPost, "/v1/games", accessToken, map[string]any{
		"name":       name,
		"mode":       mode,
		"timerless":  timerless,
		"turn_limit": turnLimit,
	}, &out)
	return out, err
}

func (c *Client) JoinGame(ctx context.Context, accessToken string, gameID int64) (map[string]any, error) {
	var out map[string]any
	err := c.jsonRequest(ctx, http.MethodPost, fmt.Sprintf("/v1/games/%d/join", gameID), accessToken, map[string]any{}, &out)
	return out, err
}

func (c *Client) CurrentPhase(ctx context.Context, accessToken string, gameID int64) (map[string]any, error) {
	var out map[string]any
	err := c.jsonRequest(ctx, http.MethodGet, fmt.Sprintf("/v1/games/%d/phase", gameID), accessToken, nil, &out)
	return out, err
}

func (c *Client) Track(ctx context.Context, accessToken string, gameID int64, resourceType string) (map[string]any, error) {
	var out map[string]any
	path := fmt.Sprintf("/v1/games/%d/tracks/%s", gameID, url.PathEscape(resourceType))
	err := c.jsonRequest(ctx, http.MethodGet, path, accessToken, nil, &out)
	return out, err
}

func (c *Client) CompanyEconomics(ctx context.Context, accessToken string, companyID int64) (map[string]any, error) {
	var out map[string]any
	err := c.jsonRequest(ctx, http.MethodGet, fmt.Sprintf("/v1/companies/%d/economics", companyID), accessToken, nil, &out)
	return out, err
}

func (c *Client) ResearchOrders(ctx context.Context, accessToken string, companyID, turnID int64) (map[string]any, error) {
	var out map[string]any
	path := fmt.Sprintf("/v1/companies/%d/research-orders?turn_id=%d", companyID, turnID)
	err := c.jsonRequest(ctx, http.MethodGet, path, accessToken, nil, &out)
	return out, err
}

func (c *Client) BuildFactory(ctx context.Context, accessToken string, gameID, companyID, actorID int64, size int, resourceTypes []string, upgradeFactoryID *int64) (map[string]any, error) {
	body := map[string]any{
		"game_id":        gameID,
		"actor_id":       actorID,
		"size":           size,
		"resource_types": resourceTypes,
	}
	if upgradeFactoryID != nil {
		body["upgrade_factory_id"] = *upgradeFactoryID
	}
	var out map[string]any
	err := c.jsonRequest(ctx, http.MethodPost, fmt.Sprintf("/v1/companies/%d/factories", companyID), accessToken, body, &out)
	return out, err
}

func (c *Client) StartCampaign(ctx context.Context, accessToken string, gameID, companyID, actorID int64, tier, slot int) (map[string]any, error) {
	var out map[string]any
	err := c.jsonRequest(ctx, http.MethodPost, fmt.Sprintf("/v1/companies/%d/campaigns", companyID), accessToken, map[string]any{
		"game_id":  gameID,
		"actor_id": actorID,
		"tier":     tier,
		"slot":     slot,
	}, &out)
	return out, err
}

func (c *Client) SubmitResearch(ctx context.Context, accessToken string, gameID, companyID, actorID, sectorID int64) (map[string]any, error) {
	var out map[string]any
	err := c.jsonRequest(ctx, http.MethodPost, fmt.Sprintf("/v1/companies/%d/research", companyID), accessToken, map[string]any{
		"game_id":   gameID,
		"actor_id":  actorID,
		"sector_id": sectorID,
	}, &out)
	return out, err
}

func (c *Client) CastVote(ctx context.Context, accessToken string, gameID, companyID, gameTurnID, actorID int64, outcome string) (map[string]any, error) {
	var out map[string]any
	err := c.jsonRequest(ctx, http.MethodPost, fmt.Sprintf("/v1/companies/%d/dividend-votes", companyID), accessToken, map[string]any{
		"game_id":      gameID,
		"game_turn_id": gameTurnID,
		"actor_id":     actorID,
		"outcome":      outcome,
	}, &out)
	return out, err
}

func (c *Client) Ready(ctx context.Context, accessToken string, gameID, actorID int64) (map[string]any, error) {
	var out map[string]any
	err := c.jsonRequest(ctx, http.MethodPost, fmt.Sprintf("/v1/games/%d/ready", gameID), accessToken, map[string]any{
		"actor_id": actorID,
	}, &out)
	return out, err
}

func (c *Client) Advance(ctx context.Context, accessToken string, gameID int64) (map[string]any, error) {
	var out map[string]any
	err := c.jsonRequest(ctx, http.MethodPost, fmt.Sprintf("/v1/games/%d/advance", gameID), accessToken, nil, &out)
	return out, err
}

func (c *Client) jsonRequest(ctx context.Context, method, path, accessToken string, in any, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("api status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
