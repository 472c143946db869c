// Package mojang resolves Minecraft usernames to account UUIDs.
package mojang

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"craftwiz/internal/fetch"
	"craftwiz/internal/logging"
)

const DefaultBaseURL = "https://api.mojang.com"

var ErrPlayerNotFound = errors.New("mojang: no player with that name")

type profileResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Client struct {
	fetch   *fetch.Client
	baseURL string
}

func NewClient(f *fetch.Client, baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{fetch: f, baseURL: strings.TrimRight(baseURL, "/")}
}

// UUID looks up the account id for username.
func (c *Client) UUID(ctx context.Context, username string) (uuid.UUID, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return uuid.Nil, fmt.Errorf("%w: empty username", ErrPlayerNotFound)
	}
	endpoint := c.baseURL + "/users/profiles/minecraft/" + url.PathEscape(username)

	var resp profileResponse
	err := c.fetch.GetJSON(ctx, endpoint, nil, &resp)
	if fetch.IsStatus(err, http.StatusNoContent, http.StatusNotFound) {
		return uuid.Nil, fmt.Errorf("%w: %s", ErrPlayerNotFound, username)
	}
	if err != nil {
		return uuid.Nil, err
	}
	id, err := uuid.Parse(resp.ID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("mojang: bad id %q for %s: %w", resp.ID, username, err)
	}
	logging.Debugf("mojang: %s is %s", resp.Name, Undashed(id))
	return id, nil
}

// Undashed is the 32 hex digit form Hypixel uses for member keys.
func Undashed(id uuid.UUID) string {
	return strings.ReplaceAll(id.String(), "-", "")
}
