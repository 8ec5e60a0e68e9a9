package query

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"time"
)

// Cursor marks a stable position in a listing.
type Cursor struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"ts"`
	Offset    int       `json:"off,omitempty"`
}

// NewCursor creates a cursor from an ID and timestamp.
func NewCursor(id string, timestamp time.Time) *Cursor {
	return &Cursor{
		ID:        id,
		Timestamp: timestamp,
	}
}

// NewOffsetCursor creates an offset-based cursor.
func NewOffsetCursor(offset int) *Cursor {
	return &Cursor{
		Offset: offset,
	}
}

// Encode encodes the cursor to an opaque string.
func (c *Cursor) Encode() string {
	data, err := json.Marshal(c)
	if err != nil {
		return ""
	}
	return base64.URLEncoding.EncodeToString(data)
}

// DecodeCursor decodes a cursor string. An empty string decodes to nil.
func DecodeCursor(s string) (*Cursor, error) {
	if s == "" {
		return nil, nil
	}

	data, err := base64.URLEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid cursor encoding: %w", err)
	}

	var cursor Cursor
	if err := json.Unmarshal(data, &cursor); err != nil {
		return nil, fmt.Errorf("invalid cursor format: %w", err)
	}

	return &cursor, nil
}
