package util

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToDomainErrorPassesThroughWrapped(t *testing.T) {
	wrapped := fmt.Errorf("lookup: %w", NewNotFound("Lead"))

	de := ToDomainError(wrapped)
	assert.Equal(t, http.StatusNotFound, de.HTTPStatus)
	assert.Equal(t, "Lead not found", de.Message)
}

func TestToDomainErrorDefaultsToInternal(t *testing.T) {
	cause := errors.New("connection reset")

	de := ToDomainError(cause)
	assert.Equal(t, CodeInternal, de.Code)
	assert.Equal(t, http.StatusInternalServerError, de.HTTPStatus)
	assert.ErrorIs(t, de, cause)
}

func TestToDomainErrorNil(t *testing.T) {
	assert.Nil(t, ToDomainError(nil))
}
