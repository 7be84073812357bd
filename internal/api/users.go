package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
)

// Me returns the signed-in user
func (c *Client) Me(ctx context.Context) (UserInfo, error) {
	var u UserInfo
	if err := c.getJSON(ctx, "/api/usr", nil, &u); err != nil {
		return UserInfo{}, err
	}
	return u, nil
}

// SysConfig fetches the server configuration
func (c *Client) SysConfig(ctx context.Context) (SysConfig, error) {
	var conf SysConfig
	if err := c.getJSON(ctx, "/api/conf", nil, &conf); err != nil {
		return SysConfig{}, err
	}
	return conf, nil
}

// Login signs in and stores the session cookies in the client jar
func (c *Client) Login(ctx context.Context, form LoginForm) error {
	values := url.Values{
		"Name":     {form.Name},
		"Password": {form.Password},
	}
	if form.Captcha != "" {
		values.Set("Captcha", form.Captcha)
	}
	if _, err := c.send(ctx, http.MethodPost, "/api/login", values); err != nil {
		return fmt.Errorf("login failed: %w", err)
	}
	return nil
}

// Logout ends the session
func (c *Client) Logout(ctx context.Context) error {
	if _, err := c.send(ctx, http.MethodGet, "/api/logout", nil); err != nil {
		return fmt.Errorf("logout failed: %w", err)
	}
	return nil
}

// Captcha downloads a fresh CAPTCHA image
func (c *Client) Captcha(ctx context.Context) ([]byte, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	s, err := c.Fetch(ctx, "/api/captcha")
	if err != nil {
		return nil, err
	}
	defer s.Close()

	data, err := io.ReadAll(io.LimitReader(s, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read captcha: %w", err)
	}
	return data, nil
}

// ResetPassword changes the password of the signed-in user
func (c *Client) ResetPassword(ctx context.Context, oldPassword, newPassword, captcha string) error {
	values := url.Values{
		"OldPassword": {oldPassword},
		"NewPassword": {newPassword},
	}
	if captcha != "" {
		values.Set("Captcha", captcha)
	}
	if _, err := c.send(ctx, http.MethodPut, "/api/usr", values); err != nil {
		return fmt.Errorf("failed to reset password: %w", err)
	}
	return nil
}

// AddUser registers a user on behalf of an administrator
func (c *Client) AddUser(ctx context.Context, form RegisterForm) error {
	values := url.Values{
		"Name":       {form.Name},
		"Password":   {form.Password},
		"RealName":   {form.RealName},
		"Department": {form.Department},
	}
	if form.Class != "" {
		values.Set("Class", form.Class)
	}
	if _, err := c.send(ctx, http.MethodPost, "/api/usrs", values); err != nil {
		return fmt.Errorf("failed to add user %s: %w", form.Name, err)
	}
	return nil
}

// RemoveUsers deletes users by id
func (c *Client) RemoveUsers(ctx context.Context, uids []int64) error {
	values := url.Values{}
	for _, uid := range uids {
		values.Add("UidList", strconv.FormatInt(uid, 10))
	}
	if _, err := c.send(ctx, http.MethodDelete, "/api/usrs", values); err != nil {
		return fmt.Errorf("failed to remove users: %w", err)
	}
	return nil
}

// ListPage fetches one page of a paginated endpoint and returns the total
// row count plus the raw list stored under listKey.
func (c *Client) ListPage(ctx context.Context, endpoint, listKey string, query url.Values) (int64, json.RawMessage, error) {
	var envelope map[string]json.RawMessage
	if err := c.getJSON(ctx, endpoint, query, &envelope); err != nil {
		return 0, nil, err
	}

	var sum int64
	if raw, ok := envelope["Sum"]; ok {
		if err := json.Unmarshal(raw, &sum); err != nil {
			return 0, nil, fmt.Errorf("failed to decode Sum of %s: %w", endpoint, err)
		}
	}
	return sum, envelope[listKey], nil
}

// Graph fetches download statistics for a chart
func (c *Client) Graph(ctx context.Context, dir string, q GraphQuery) (Graph, error) {
	values := url.Values{"Flag": {q.Flag}}
	if q.Year > 0 {
		values.Set("Year", strconv.Itoa(q.Year))
	}
	if q.Day > 0 {
		values.Set("Day", strconv.Itoa(q.Day))
	}
	if q.Limit > 0 {
		values.Set("Limit", strconv.Itoa(q.Limit))
	}

	var g Graph
	if err := c.getJSON(ctx, GraphEndpoint(dir), values, &g); err != nil {
		return Graph{}, err
	}
	return g, nil
}
