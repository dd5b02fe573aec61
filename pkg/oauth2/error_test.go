package oauth2

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError_Error(t *testing.T) {
	assert.Equal(t, "invalid_client: client authentication failed", ErrInvalidClient.Error())
	assert.Equal(t, "server_error", (&Error{Code: ErrorCodeServerError}).Error())
}

func TestError_Is(t *testing.T) {
	err := fmt.Errorf("token endpoint: %w", NewError(ErrorCodeInvalidClient, "other text"))
	assert.True(t, errors.Is(err, ErrInvalidClient))
	assert.False(t, errors.Is(err, NewError(ErrorCodeInvalidGrant, "")))
	assert.False(t, errors.Is(err, errors.New("invalid_client")))
}

func TestError_JSON(t *testing.T) {
	data, err := json.Marshal(ErrInvalidClient)
	require.NoError(t, err)
	assert.JSONEq(t, `{"error":"invalid_client","error_description":"client authentication failed"}`, string(data))
}
