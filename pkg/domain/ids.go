// Package domain holds shared domain primitives: typed identifiers that make
// it impossible to pass a user ID where a recommendation ID is expected.
package domain

import (
	"github.com/google/uuid"

	dErrors "covera/pkg/domain-errors"
)

// UserID identifies a registered user.
type UserID uuid.UUID

// RecommendationID identifies a persisted recommendation record.
type RecommendationID uuid.UUID

// NewUserID generates a fresh user ID.
func NewUserID() UserID {
	return UserID(uuid.New())
}

// NewRecommendationID generates a fresh recommendation ID.
func NewRecommendationID() RecommendationID {
	return RecommendationID(uuid.New())
}

// ParseUserID validates and parses a user ID string.
// Rejects empty strings, malformed UUIDs, and the nil UUID.
func ParseUserID(s string) (UserID, error) {
	u, err := parseUUID(s, "user id")
	return UserID(u), err
}

// ParseRecommendationID validates and parses a recommendation ID string.
func ParseRecommendationID(s string) (RecommendationID, error) {
	u, err := parseUUID(s, "recommendation id")
	return RecommendationID(u), err
}

func parseUUID(s, label string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.Newf(dErrors.CodeInvalidInput, "%s is required", label)
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.Newf(dErrors.CodeInvalidInput, "%s is not a valid UUID", label)
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.Newf(dErrors.CodeInvalidInput, "%s must not be the nil UUID", label)
	}
	return u, nil
}

func (id UserID) String() string { return uuid.UUID(id).String() }

// IsNil reports whether the ID is unset.
func (id UserID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }

func (id RecommendationID) String() string { return uuid.UUID(id).String() }

// IsNil reports whether the ID is unset.
func (id RecommendationID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
