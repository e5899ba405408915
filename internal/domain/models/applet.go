// File: internal/domain/models/applet.go
package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// ConfigDoc is an arbitrary key/value configuration document attached to an
// applet's action or reaction. It is persisted as JSONB and parsed back at
// the storage boundary; pipeline code only ever sees the typed map.
type ConfigDoc map[string]any

// GetString returns the value for key if it is a non-empty string.
func (d ConfigDoc) GetString(key string) (string, bool) {
	if d == nil {
		return "", false
	}
	v, ok := d[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		return "", false
	}
	return s, true
}

// GetBool returns the value for key if it is a bool, defaulting to def.
func (d ConfigDoc) GetBool(key string, def bool) bool {
	if d == nil {
		return def
	}
	if v, ok := d[key].(bool); ok {
		return v
	}
	return def
}

// GetInt returns the value for key as an int, defaulting to def.
// JSON numbers decode as float64, so both are accepted.
func (d ConfigDoc) GetInt(key string, def int) int {
	if d == nil {
		return def
	}
	switch v := d[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return int(n)
		}
	}
	return def
}

// Applet is one automation rule: a trigger on one service wired to an
// effect on another. ActionKind and ReactionKind come from the fixed
// enumeration registered in the provider registry.
type Applet struct {
	ID               uuid.UUID `json:"id" db:"id"`
	UserID           uuid.UUID `json:"user_id" db:"user_id"`
	Name             string    `json:"name" db:"name"`
	ActionProvider   string    `json:"action_provider" db:"action_provider"`
	ActionKind       string    `json:"action_kind" db:"action_kind"`
	ReactionProvider string    `json:"reaction_provider" db:"reaction_provider"`
	ReactionKind     string    `json:"reaction_kind" db:"reaction_kind"`
	ActionConfig     ConfigDoc `json:"action_config" db:"action_config"`
	ReactionConfig   ConfigDoc `json:"reaction_config" db:"reaction_config"`
	Active           bool      `json:"active" db:"active"`
	// LastActionMarker is strictly a dedup cursor, never business data.
	// It is advanced at most once per detected event, and only after the
	// reaction's primary call succeeded.
	LastActionMarker *string   `json:"last_action_marker,omitempty" db:"last_action_marker"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
}
