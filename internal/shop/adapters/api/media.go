package api

import "strings"

// ResolveMediaURL turns a relative media path into an absolute URL under
// the media root. Absolute URLs pass through untouched.
func (c *Client) ResolveMediaURL(path string) string {
	if path == "" {
		return ""
	}
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	return c.mediaBaseURL + "/storage/" + strings.TrimPrefix(path, "/")
}
