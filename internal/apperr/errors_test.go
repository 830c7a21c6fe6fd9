package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		err  *Error
		want int
	}{
		{InvalidInput("bad"), http.StatusBadRequest},
		{NoConceptsFound(), http.StatusUnprocessableEntity},
		{EmbeddingUnavailable(errors.New("down")), http.StatusServiceUnavailable},
		{NotFound("mindmap"), http.StatusNotFound},
		{RateLimited(), http.StatusTooManyRequests},
		{Internal(errors.New("boom")), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(string(tt.err.Kind), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.HTTPStatus())
		})
	}
}

func TestKindThroughWrapping(t *testing.T) {
	cause := errors.New("connection refused")
	wrapped := fmt.Errorf("embedding batch 2: %w", EmbeddingUnavailable(cause))

	assert.True(t, Is(wrapped, KindEmbeddingUnavailable))
	assert.Equal(t, KindEmbeddingUnavailable, KindOf(wrapped))
	assert.ErrorIs(t, wrapped, cause)

	assert.Equal(t, KindInternal, KindOf(errors.New("plain")))
	assert.Equal(t, KindInternal, As(errors.New("plain")).Kind)
	assert.Equal(t, "mindmap not found", As(NotFound("mindmap")).Message)
}

func TestInternalNilCause(t *testing.T) {
	err := Internal(nil)
	assert.Error(t, err.Cause)
	assert.Contains(t, err.Error(), "INTERNAL")
}
