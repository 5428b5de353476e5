package pagination

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrInvalidCursor marks a cursor the client sent that cannot be decoded to a
// position. It is a client error and is rejected before any backend call.
var ErrInvalidCursor = errors.New("invalid cursor")

// cursor is the wire shape of a pagination cursor: a 1-based position within
// the ordered result set. Decoding never requires re-running the query.
type cursor struct {
	Position int `json:"p"`
}

// EncodeCursor converts a 1-based position to an opaque cursor string.
func EncodeCursor(position int) string {
	b, _ := json.Marshal(cursor{Position: position})
	return base64.URLEncoding.EncodeToString(b)
}

// DecodeCursor parses an opaque cursor string back to its position.
func DecodeCursor(s string) (int, error) {
	b, err := base64.URLEncoding.DecodeString(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %s", ErrInvalidCursor, s)
	}

	var c cursor
	if err := json.Unmarshal(b, &c); err != nil {
		return 0, fmt.Errorf("%w: %s", ErrInvalidCursor, s)
	}

	if c.Position < 0 {
		return 0, fmt.Errorf("%w: negative position %d", ErrInvalidCursor, c.Position)
	}

	return c.Position, nil
}
