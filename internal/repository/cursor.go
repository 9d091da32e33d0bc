package repository

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Cursor is the opaque keyset-pagination token handed to admin listing
// queries. It pins the (timestamp, id) position of the last row of the
// previous page, so pages stay stable under concurrent inserts. Offsets are
// deliberately not supported.
type Cursor struct {
	At time.Time
	ID uint
}

// Encode returns the wire form of the cursor.
func (c Cursor) Encode() string {
	raw := fmt.Sprintf("%d:%d", c.At.UnixNano(), c.ID)
	return base64.RawURLEncoding.EncodeToString([]byte(raw))
}

// DecodeCursor parses a wire cursor. An empty string means "first page".
func DecodeCursor(s string) (*Cursor, error) {
	if s == "" {
		return nil, nil
	}
	raw, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid cursor: %w", err)
	}
	parts := strings.SplitN(string(raw), ":", 2)
	if len(parts) != 2 {
		return nil, fmt.Errorf("invalid cursor format")
	}
	nanos, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid cursor timestamp: %w", err)
	}
	id, err := strconv.ParseUint(parts[1], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid cursor id: %w", err)
	}
	return &Cursor{At: time.Unix(0, nanos), ID: uint(id)}, nil
}
