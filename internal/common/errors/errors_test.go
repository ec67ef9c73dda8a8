package errors

import (
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatusMapping(t *testing.T) {
	tests := []struct {
		name string
		err  *StandardError
		want int
	}{
		{"configuration", NewConfigurationError("set the key"), http.StatusInternalServerError},
		{"validation", NewValidationError("bad input", "fix it"), http.StatusBadRequest},
		{"method not allowed", NewMethodNotAllowedError("GET"), http.StatusMethodNotAllowed},
		{"search failed", NewSearchFailedError("quota exceeded"), http.StatusInternalServerError},
		{"internal", NewInternalError(errors.New("boom")), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.HTTPStatus())
		})
	}
}

func TestSearchFailedTruncatesProviderMessage(t *testing.T) {
	long := strings.Repeat("x", 2000)
	err := NewSearchFailedError(long)

	assert.Contains(t, err.Message, "Places search failed: ")
	assert.LessOrEqual(t, len(err.Message), len("Places search failed: ")+MaxProviderMessageLen)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short"))

	long := strings.Repeat("a", MaxProviderMessageLen+100)
	assert.Len(t, Truncate(long), MaxProviderMessageLen)
}

func TestNormalize(t *testing.T) {
	t.Run("nil stays nil", func(t *testing.T) {
		assert.Nil(t, Normalize(nil))
	})

	t.Run("standard error passes through", func(t *testing.T) {
		orig := NewValidationError("bad", "")
		assert.Same(t, orig, Normalize(orig))
	})

	t.Run("plain error becomes internal", func(t *testing.T) {
		got := Normalize(errors.New("something broke"))
		assert.Equal(t, ErrCodeInternal, got.Code)
		assert.Equal(t, "Server error", got.Message)
		assert.Equal(t, "something broke", got.Details)
	})
}

func TestValidationErrorWithExample(t *testing.T) {
	example := map[string]interface{}{"businessType": "plumber", "city": "Auckland"}
	err := NewValidationErrorWithExample("businessType and city are required", example)

	assert.Equal(t, ErrCodeValidation, err.Code)
	assert.Equal(t, example, err.Example)
	assert.Equal(t, http.StatusBadRequest, err.HTTPStatus())
}
