package postgres

import (
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/and161185/lexinote/internal/errs"
	"github.com/and161185/lexinote/internal/model"
)

// cursor references the last row of a page. It is bound to the ordering it was issued for.
type cursor struct {
	Value string              `json:"v"`
	ID    string              `json:"id"`
	Field model.SortField     `json:"f"`
	Dir   model.SortDirection `json:"d"`
}

func encodeCursor(c cursor) string {
	b, _ := json.Marshal(c)
	return base64.RawURLEncoding.EncodeToString(b)
}

func decodeCursor(s string, field model.SortField, dir model.SortDirection) (cursor, error) {
	raw, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return cursor{}, fmt.Errorf("%w: malformed cursor", errs.ErrInvalidArgument)
	}
	var c cursor
	if err := json.Unmarshal(raw, &c); err != nil || c.ID == "" {
		return cursor{}, fmt.Errorf("%w: malformed cursor", errs.ErrInvalidArgument)
	}
	if c.Field != field || c.Dir != dir {
		return cursor{}, fmt.Errorf("%w: cursor issued for another ordering", errs.ErrInvalidArgument)
	}
	return c, nil
}
