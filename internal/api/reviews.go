package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// CreateReview submits a new review for a school's program.
func (c *Client) CreateReview(ctx context.Context, review Review) (*Review, error) {
	req, err := c.newRequest(ctx, http.MethodPost, "/api/reviews/review-form/", review, true)
	if err != nil {
		return nil, err
	}
	var out Review
	if err := c.do(req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// MyReviews lists the authenticated user's own reviews.
func (c *Client) MyReviews(ctx context.Context) ([]Review, error) {
	var out []Review
	if err := c.get(ctx, "/api/reviews/user-reviews/", &out, true); err != nil {
		return nil, err
	}
	return out, nil
}

// SchoolReviews lists reviews for one school and sport.
func (c *Client) SchoolReviews(ctx context.Context, schoolID int, sport string) ([]Review, error) {
	path := fmt.Sprintf("/api/reviews/school/%d/?sport=%s", schoolID, url.QueryEscape(sport))
	var out []Review
	if err := c.get(ctx, path, &out, true); err != nil {
		return nil, err
	}
	return out, nil
}

// VoteReview casts a helpful (1) or unhelpful (0) vote on a review.
// Voting the same value twice toggles the vote off.
func (c *Client) VoteReview(ctx context.Context, reviewID string, vote int) (*VoteResponse, error) {
	body := map[string]int{"vote": vote}
	req, err := c.newRequest(ctx, http.MethodPost, fmt.Sprintf("/api/reviews/%s/vote/", reviewID), body, true)
	if err != nil {
		return nil, err
	}
	var out VoteResponse
	if err := c.do(req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
