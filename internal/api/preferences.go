package api

import (
	"context"
	"net/http"
)

// SubmitPreferences saves the user's preference weights, replacing any
// previous submission.
func (c *Client) SubmitPreferences(ctx context.Context, prefs Preferences) (*Preferences, error) {
	req, err := c.newRequest(ctx, http.MethodPost, "/api/preferences/preferences-form/", prefs, true)
	if err != nil {
		return nil, err
	}
	var out Preferences
	if err := c.do(req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UserPreferences fetches the authenticated user's stored preferences.
// The backend returns a list; at most one entry exists per user.
func (c *Client) UserPreferences(ctx context.Context) ([]Preferences, error) {
	var out []Preferences
	if err := c.get(ctx, "/api/preferences/user-preferences/", &out, true); err != nil {
		return nil, err
	}
	return out, nil
}
