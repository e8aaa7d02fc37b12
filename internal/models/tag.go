package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// Tag is a single category label attached to a post. Path carries the
// category breadcrumb from broad to narrow (1 to 3 levels).
type Tag struct {
	ID    string   `json:"id"`
	Label string   `json:"label"`
	Path  []string `json:"path"`
}

// TagList is an ordered list of tags persisted as a JSON text column.
type TagList []Tag

// Value implements driver.Valuer.
func (t TagList) Value() (driver.Value, error) {
	if len(t) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal(t)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (t *TagList) Scan(value any) error {
	if value == nil {
		*t = nil
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported tags column type %T", value)
	}
	if len(data) == 0 {
		*t = nil
		return nil
	}
	return json.Unmarshal(data, t)
}

const (
	maxTagsPerPost  = 30
	maxTagPathDepth = 3
)

// Validate checks the tag list at the API boundary. Tag order is
// preserved as submitted.
func (t TagList) Validate() error {
	if len(t) > maxTagsPerPost {
		return NewValidationError(fmt.Sprintf("Too many tags (max %d)", maxTagsPerPost))
	}
	for i, tag := range t {
		if strings.TrimSpace(tag.ID) == "" {
			return NewValidationError(fmt.Sprintf("Tag %d is missing an id", i))
		}
		if strings.TrimSpace(tag.Label) == "" {
			return NewValidationError(fmt.Sprintf("Tag %d is missing a label", i))
		}
		if len(tag.Path) < 1 || len(tag.Path) > maxTagPathDepth {
			return NewValidationError(fmt.Sprintf("Tag %d path must have 1 to %d levels", i, maxTagPathDepth))
		}
		for _, level := range tag.Path {
			if strings.TrimSpace(level) == "" {
				return NewValidationError(fmt.Sprintf("Tag %d has an empty path level", i))
			}
		}
	}
	return nil
}
