package shared

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDomainError_Error(t *testing.T) {
	err := NewDomainError("EXTERNAL_SOURCE_UNAVAILABLE", "external source unreachable")

	assert.Equal(t, "external source unreachable", err.Error())
	assert.Equal(t, "EXTERNAL_SOURCE_UNAVAILABLE", err.Code)
}

func TestDomainError_Is_MatchesByCode(t *testing.T) {
	custom := NewDomainError(ErrNotFound.Code, "vendor V-001 not found")

	assert.ErrorIs(t, custom, ErrNotFound)
	assert.NotErrorIs(t, custom, ErrInvalidState)
}

func TestDomainError_Is_ThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("loading vendor: %w", ErrConcurrencyConflict)

	assert.ErrorIs(t, wrapped, ErrConcurrencyConflict)

	var domainErr *DomainError
	assert.True(t, errors.As(wrapped, &domainErr))
	assert.Equal(t, ErrConcurrencyConflict.Code, domainErr.Code)
}

func TestDomainError_Is_NonDomainTarget(t *testing.T) {
	assert.NotErrorIs(t, ErrNotFound, errors.New("NOT_FOUND"))
}
