package common

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrapError(t *testing.T) {
	tests := []struct {
		name            string
		originalError   error
		message         string
		expectedMessage string
	}{
		{
			name:            "wrap simple error",
			originalError:   errors.New("original error"),
			message:         "wrapper message",
			expectedMessage: "wrapper message: original error",
		},
		{
			name:            "empty wrapper message",
			originalError:   errors.New("original error"),
			message:         "",
			expectedMessage: ": original error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrappedError := WrapError(tt.originalError, tt.message)
			assert.Error(t, wrappedError)
			assert.Equal(t, tt.expectedMessage, wrappedError.Error())
			assert.True(t, errors.Is(wrappedError, tt.originalError))
		})
	}
}

func TestWrapError_NilError(t *testing.T) {
	assert.NoError(t, WrapError(nil, "wrapper message"))
	assert.NoError(t, WrapErrorf(nil, "wrapper %s", "message"))
}

func TestNewError(t *testing.T) {
	tests := []struct {
		name            string
		format          string
		args            []interface{}
		expectedMessage string
	}{
		{
			name:            "simple message",
			format:          "simple error message",
			args:            nil,
			expectedMessage: "simple error message",
		},
		{
			name:            "formatted message",
			format:          "error with value: %d",
			args:            []interface{}{42},
			expectedMessage: "error with value: 42",
		},
		{
			name:            "multiple arguments",
			format:          "error: %s occurred at %s",
			args:            []interface{}{"connection failed", "localhost:8080"},
			expectedMessage: "error: connection failed occurred at localhost:8080",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewError(tt.format, tt.args...)
			assert.Error(t, err)
			assert.Equal(t, tt.expectedMessage, err.Error())
		})
	}
}

func TestValidationError(t *testing.T) {
	tests := []struct {
		name            string
		field           string
		value           interface{}
		message         string
		expectedMessage string
	}{
		{
			name:            "string field validation",
			field:           "check_interval_seconds",
			value:           "abc",
			message:         "must be a positive integer",
			expectedMessage: "validation failed for field 'check_interval_seconds': must be a positive integer (value: abc)",
		},
		{
			name:            "numeric field validation",
			field:           "similarity_threshold",
			value:           -5,
			message:         "must be between 0 and 1",
			expectedMessage: "validation failed for field 'similarity_threshold': must be between 0 and 1 (value: -5)",
		},
		{
			name:            "nil value validation",
			field:           "target_url",
			value:           nil,
			message:         "cannot be nil",
			expectedMessage: "validation failed for field 'target_url': cannot be nil (value: <nil>)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			validationErr := NewValidationError(tt.field, tt.value, tt.message)

			assert.Error(t, validationErr)
			assert.Equal(t, tt.expectedMessage, validationErr.Error())
			assert.Equal(t, tt.field, validationErr.Field)
			assert.Equal(t, tt.value, validationErr.Value)
			assert.Equal(t, tt.message, validationErr.Message)
		})
	}
}

func TestConfigurationError(t *testing.T) {
	tests := []struct {
		name            string
		section         string
		field           string
		reason          string
		expectedMessage string
	}{
		{
			name:            "section and field",
			section:         "comparator",
			field:           "similarity_threshold",
			reason:          "must be between 0 and 1",
			expectedMessage: "configuration error in section 'comparator', field 'similarity_threshold': must be between 0 and 1",
		},
		{
			name:            "section only",
			section:         "monitor",
			field:           "",
			reason:          "missing required settings",
			expectedMessage: "configuration error in section 'monitor': missing required settings",
		},
		{
			name:            "reason only",
			section:         "",
			field:           "",
			reason:          "config file not found",
			expectedMessage: "configuration error: config file not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			configErr := NewConfigurationError(tt.section, tt.field, tt.reason)

			assert.Error(t, configErr)
			assert.Equal(t, tt.expectedMessage, configErr.Error())
			assert.True(t, errors.Is(configErr, ErrInvalidConfiguration))
		})
	}
}

func TestNetworkError(t *testing.T) {
	tests := []struct {
		name            string
		url             string
		reason          string
		wrappedError    error
		expectedMessage string
	}{
		{
			name:            "simple network error",
			url:             "https://example.com",
			reason:          "connection timeout",
			wrappedError:    nil,
			expectedMessage: "network error for 'https://example.com': connection timeout",
		},
		{
			name:            "network error with wrapped error",
			url:             "https://api.example.com/data",
			reason:          "DNS resolution failed",
			wrappedError:    errors.New("no such host"),
			expectedMessage: "network error for 'https://api.example.com/data': DNS resolution failed: no such host",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			networkErr := NewNetworkError(tt.url, tt.reason, tt.wrappedError)

			assert.Error(t, networkErr)
			assert.Equal(t, tt.expectedMessage, networkErr.Error())
			assert.Equal(t, tt.url, networkErr.URL)
			assert.Equal(t, tt.reason, networkErr.Reason)
			assert.Equal(t, tt.wrappedError, networkErr.Unwrap())
		})
	}
}

func TestHTTPError(t *testing.T) {
	tests := []struct {
		name            string
		statusCode      int
		message         string
		url             string
		expectedMessage string
	}{
		{
			name:            "not found error",
			statusCode:      http.StatusNotFound,
			message:         "resource not found",
			url:             "https://example.com/pricing",
			expectedMessage: "HTTP 404 error for 'https://example.com/pricing': resource not found",
		},
		{
			name:            "server error",
			statusCode:      http.StatusInternalServerError,
			message:         "internal server error",
			url:             "https://api.example.com/data",
			expectedMessage: "HTTP 500 error for 'https://api.example.com/data': internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			httpErr := NewHTTPErrorWithURL(tt.statusCode, tt.message, tt.url)

			assert.Error(t, httpErr)
			assert.Equal(t, tt.expectedMessage, httpErr.Error())
			assert.Equal(t, tt.statusCode, httpErr.StatusCode)
			assert.Equal(t, tt.message, httpErr.Message)
			assert.Equal(t, tt.url, httpErr.URL)
		})
	}
}

func TestHTTPError_WithoutURL(t *testing.T) {
	httpErr := NewHTTPError(http.StatusBadGateway, "bad gateway")
	assert.Equal(t, "HTTP 502 error: bad gateway", httpErr.Error())
}

func TestErrorChaining(t *testing.T) {
	originalErr := errors.New("connection refused")
	networkErr := NewNetworkError("https://example.com", "fetch failed", originalErr)
	wrappedErr := WrapError(networkErr, "failed to check target")

	assert.Error(t, wrappedErr)
	assert.Contains(t, wrappedErr.Error(), "failed to check target")
	assert.Contains(t, wrappedErr.Error(), "network error")

	var netErr *NetworkError
	assert.True(t, errors.As(wrappedErr, &netErr))
	assert.Equal(t, "https://example.com", netErr.URL)
	assert.Equal(t, originalErr, netErr.Unwrap())
	assert.True(t, errors.Is(wrappedErr, originalErr))
}

func TestCombineErrors(t *testing.T) {
	t.Run("no errors returns nil", func(t *testing.T) {
		assert.NoError(t, CombineErrors(nil))
		assert.NoError(t, CombineErrors([]error{}))
	})

	t.Run("single error returned as-is", func(t *testing.T) {
		err := errors.New("only error")
		assert.Equal(t, err, CombineErrors([]error{err}))
	})

	t.Run("multiple errors joined", func(t *testing.T) {
		combined := CombineErrors([]error{errors.New("first"), errors.New("second")})
		assert.Error(t, combined)
		assert.Contains(t, combined.Error(), "first")
		assert.Contains(t, combined.Error(), "second")
		assert.Contains(t, combined.Error(), "multiple errors occurred")
	})
}

func TestErrorCollector(t *testing.T) {
	var collector ErrorCollector

	assert.False(t, collector.HasErrors())
	assert.NoError(t, collector.Error())

	collector.Add(nil)
	assert.False(t, collector.HasErrors())

	collector.Add(errors.New("first failure"))
	collector.AddWithContext(errors.New("second failure"), "while processing target")

	assert.True(t, collector.HasErrors())
	assert.Equal(t, 2, collector.Count())
	assert.Len(t, collector.Errors(), 2)

	combined := collector.Error()
	assert.Error(t, combined)
	assert.Contains(t, combined.Error(), "first failure")
	assert.Contains(t, combined.Error(), "while processing target: second failure")

	collector.Clear()
	assert.False(t, collector.HasErrors())
	assert.Equal(t, 0, collector.Count())
}
