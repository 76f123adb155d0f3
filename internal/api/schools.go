package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// Schools fetches the public school list.
func (c *Client) Schools(ctx context.Context) ([]School, error) {
	var out []School
	if err := c.get(ctx, "/api/public/schools/", &out, false); err != nil {
		return nil, err
	}
	return out, nil
}

// School fetches a single school by ID from the public endpoint.
func (c *Client) School(ctx context.Context, id int) (*School, error) {
	var out School
	if err := c.get(ctx, fmt.Sprintf("/api/public/schools/%d/", id), &out, false); err != nil {
		return nil, err
	}
	return &out, nil
}

// ReviewSummary fetches the generated review digest for a school and sport.
func (c *Client) ReviewSummary(ctx context.Context, schoolID int, sport string) (*ReviewSummary, error) {
	path := fmt.Sprintf("/api/public/schools/%d/reviews/summary/?sport=%s", schoolID, url.QueryEscape(sport))
	var out ReviewSummary
	if err := c.get(ctx, path, &out, false); err != nil {
		return nil, err
	}
	return &out, nil
}

// FilterSchools runs the server-side school filter. Rating fields are
// minimum thresholds; the server ignores values it cannot parse.
func (c *Client) FilterSchools(ctx context.Context, filter SchoolFilter) ([]School, error) {
	q := url.Values{}
	setStr := func(key, val string) {
		if val != "" {
			q.Set(key, val)
		}
	}
	setMin := func(key string, val int) {
		if val > 0 {
			q.Set(key, strconv.Itoa(val))
		}
	}

	setStr("school_name", filter.SchoolName)
	setStr("coach", filter.Coach)
	setStr("sport", filter.Sport)
	setMin("head_coach", filter.HeadCoach)
	setMin("assistant_coaches", filter.AssistantCoaches)
	setMin("team_culture", filter.TeamCulture)
	setMin("campus_life", filter.CampusLife)
	setMin("athletic_facilities", filter.AthleticFacilities)
	setMin("athletic_department", filter.AthleticDepartment)
	setMin("player_development", filter.PlayerDevelopment)
	setMin("nil_opportunity", filter.NILOpportunity)

	path := "/api/filter/"
	if encoded := q.Encode(); encoded != "" {
		path += "?" + encoded
	}

	var out []School
	if err := c.get(ctx, path, &out, true); err != nil {
		return nil, err
	}
	return out, nil
}

// Recommendations fetches preference-driven school recommendations for the
// authenticated user.
func (c *Client) Recommendations(ctx context.Context) (*Recommendations, error) {
	var out Recommendations
	if err := c.get(ctx, "/api/recommendations/", &out, true); err != nil {
		return nil, err
	}
	return &out, nil
}
