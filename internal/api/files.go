package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// Endpoint builders. Paths and keys are absolute and start with "/".

func DirEndpoint(dir string) string { return "/api/dir" + dir }
func SearchEndpoint(dir string) string { return "/api/files" + dir }
func FileEndpoint(key string) string { return "/api/file" + key }
func ArchiveEndpoint(key string) string { return "/api/archive" + key }
func CountEndpoint(dir string) string { return "/api/cnt" + dir }
func DownloadsEndpoint(dir string) string { return "/api/downloads" + dir }
func GraphEndpoint(dir string) string { return "/api/graph" + dir }

// ListDir lists the contents of a directory
func (c *Client) ListDir(ctx context.Context, dir string) ([]Entry, error) {
	var entries []Entry
	if err := c.getJSON(ctx, DirEndpoint(dir), nil, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// Search returns entries under dir matching expr
func (c *Client) Search(ctx context.Context, dir, expr string) ([]Entry, error) {
	var entries []Entry
	if err := c.getJSON(ctx, SearchEndpoint(dir), url.Values{"Expr": {expr}}, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// CreateDir creates the directory at target
func (c *Client) CreateDir(ctx context.Context, target string) error {
	if _, err := c.send(ctx, http.MethodPost, DirEndpoint(target), nil); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", target, err)
	}
	return nil
}

// DeleteDir removes a directory and its contents
func (c *Client) DeleteDir(ctx context.Context, key string) error {
	if _, err := c.send(ctx, http.MethodDelete, DirEndpoint(key), nil); err != nil {
		return fmt.Errorf("failed to delete directory %s: %w", key, err)
	}
	return nil
}

// DeleteFile removes a single file
func (c *Client) DeleteFile(ctx context.Context, key string) error {
	if _, err := c.send(ctx, http.MethodDelete, FileEndpoint(key), nil); err != nil {
		return fmt.Errorf("failed to delete file %s: %w", key, err)
	}
	return nil
}

// Rename gives the entry at key a new name within the same directory
func (c *Client) Rename(ctx context.Context, key, newName string) error {
	if _, err := c.send(ctx, http.MethodPut, FileEndpoint(key), url.Values{"NewName": {newName}}); err != nil {
		return fmt.Errorf("failed to rename %s: %w", key, err)
	}
	return nil
}
