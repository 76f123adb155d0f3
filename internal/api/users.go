package api

import (
	"context"
	"net/http"
)

// Login exchanges credentials for a token pair. The caller is responsible
// for persisting the access token.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	req, err := c.newRequest(ctx, http.MethodPost, "/users/login/", LoginRequest{Email: email, Password: password}, false)
	if err != nil {
		return nil, err
	}
	var out LoginResponse
	if err := c.do(req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Signup registers a new account. The server responds with the created user.
func (c *Client) Signup(ctx context.Context, signup SignupRequest) (*User, error) {
	req, err := c.newRequest(ctx, http.MethodPost, "/users/signup/", signup, false)
	if err != nil {
		return nil, err
	}
	var out User
	if err := c.do(req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CurrentUser fetches the authenticated user's profile.
func (c *Client) CurrentUser(ctx context.Context) (*User, error) {
	var out User
	if err := c.get(ctx, "/users/user/", &out, true); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateUser partially updates the authenticated user's profile.
func (c *Client) UpdateUser(ctx context.Context, update UserUpdate) (*User, error) {
	req, err := c.newRequest(ctx, http.MethodPatch, "/users/user/", update, true)
	if err != nil {
		return nil, err
	}
	var out User
	if err := c.do(req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateProfilePicture sets the user's preset profile picture filename.
// The response body carries no information the caller needs.
func (c *Client) UpdateProfilePicture(ctx context.Context, filename string) error {
	body := map[string]string{"profile_picture": filename}
	req, err := c.newRequest(ctx, http.MethodPatch, "/users/update-profile-picture/", body, true)
	if err != nil {
		return err
	}
	return c.do(req, nil)
}

// ChangePassword changes the authenticated user's password.
func (c *Client) ChangePassword(ctx context.Context, current, next string) error {
	body := map[string]string{"current_password": current, "new_password": next}
	req, err := c.newRequest(ctx, http.MethodPost, "/users/change-password/", body, true)
	if err != nil {
		return err
	}
	return c.do(req, nil)
}

// ForgotPassword requests a password reset email.
func (c *Client) ForgotPassword(ctx context.Context, email string) error {
	body := map[string]string{"email": email}
	req, err := c.newRequest(ctx, http.MethodPost, "/users/forgot-password/", body, false)
	if err != nil {
		return err
	}
	return c.do(req, nil)
}

// ResetPassword completes a password reset with the emailed token.
func (c *Client) ResetPassword(ctx context.Context, token, newPassword string) error {
	body := map[string]string{"token": token, "new_password": newPassword}
	req, err := c.newRequest(ctx, http.MethodPost, "/users/reset-password/", body, false)
	if err != nil {
		return err
	}
	return c.do(req, nil)
}
