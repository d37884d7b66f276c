package pagination

import (
	"encoding/base64"
	"encoding/json"
	"strings"
)

// Pagination binds cursor paging params from a query string.
type Pagination struct {
	PageToken string `form:"page_token" json:"page_token"`
	PageSize  int    `form:"page_size" json:"page_size"`
}

// PageInfo describes the page returned by a list call.
type PageInfo struct {
	NextPageToken string `json:"next_page_token,omitempty"`
	HasMore       bool   `json:"has_more"`
}

// Cursor is the opaque token payload for keyset pagination.
type Cursor struct {
	ID        string `json:"id"`
	CreatedAt string `json:"created_at"`
}

// EncodeCursor serializes a cursor into an opaque page token.
func EncodeCursor(cursor Cursor) (string, error) {
	raw, err := json.Marshal(cursor)
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}

// DecodeCursor parses a page token produced by EncodeCursor.
func DecodeCursor(token string) (Cursor, error) {
	var cursor Cursor
	token = strings.TrimSpace(token)
	if token == "" {
		return cursor, nil
	}
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return cursor, err
	}
	if err := json.Unmarshal(raw, &cursor); err != nil {
		return cursor, err
	}
	return cursor, nil
}

// BuildCursorPageInfo computes page info for a result set fetched with pageSize+1 rows.
func BuildCursorPageInfo[T any](items []T, pageSize int32, token func(T) string) *PageInfo {
	info := &PageInfo{}
	if pageSize <= 0 || len(items) <= int(pageSize) {
		return info
	}
	info.HasMore = true
	last := items[pageSize-1]
	info.NextPageToken = token(last)
	return info
}
