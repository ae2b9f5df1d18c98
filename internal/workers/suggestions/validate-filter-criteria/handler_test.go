// internal/workers/suggestions/validate-filter-criteria/handler_test.go
package validatefiltercriteria

import (
	"encoding/json"
	"testing"
	"time"

	"suggestion-workers/internal/common/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestHandler(t *testing.T) *Handler {
	t.Helper()
	return NewHandler(&Config{Timeout: time.Second}, logger.NewTestLogger(t))
}

func TestHandler_Execute(t *testing.T) {
	tests := []struct {
		name       string
		variables  string
		wantValid  bool
		wantErrors int
	}{
		{name: "valid", variables: `{"criteria": {"radiusMeters": 1500, "limit": 20}}`, wantValid: true},
		{name: "null criteria", variables: `{"criteria": null}`, wantValid: true},
		{
			name:       "every rule broken",
			variables:  `{"criteria": {"radiusMeters": 0, "minRating": 5.1, "maxRating": 2, "limit": 101}}`,
			wantErrors: 4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Empty(t, schema.Validate(tt.variables))

			var input Input
			require.NoError(t, json.Unmarshal([]byte(tt.variables), &input))

			output := createTestHandler(t).Execute(&input)

			assert.Equal(t, tt.wantValid, output.Valid)
			assert.Len(t, output.Errors, tt.wantErrors)
			assert.NotNil(t, output.Errors)
		})
	}
}

func TestInputSchema_RejectsMalformedVariables(t *testing.T) {
	assert.NotEmpty(t, schema.Validate(`{}`))
	assert.NotEmpty(t, schema.Validate(`{"criteria": {"limit": "ten"}}`))
	assert.NotEmpty(t, schema.Validate(`{"criteria": {"limit": 1.5}}`))
}
