// internal/common/camunda/client_test.go
package camunda

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"placement-analytics/internal/common/config"
	"placement-analytics/internal/common/errors"
)

func testClient() *Client {
	return &Client{config: &ClientConfig{
		RetryConfig: &RetryConfig{MaxRetries: 2, BaseDelay: time.Millisecond, MaxDelay: 2 * time.Millisecond},
	}}
}

func TestExecuteWithRetry(t *testing.T) {
	tests := []struct {
		name          string
		failures      []error
		expectedCalls int
		validate      func(t *testing.T, result interface{}, err error)
	}{
		{
			name:          "succeeds first time",
			expectedCalls: 1,
			validate: func(t *testing.T, result interface{}, err error) {
				require.NoError(t, err)
				assert.Equal(t, "ok", result)
			},
		},
		{
			name:          "recovers after transient failures",
			failures:      []error{stderrors.New("rpc error: code = Unavailable"), stderrors.New("connection refused")},
			expectedCalls: 3,
			validate: func(t *testing.T, result interface{}, err error) {
				require.NoError(t, err)
				assert.Equal(t, "ok", result)
			},
		},
		{
			name: "gives up after max retries",
			failures: []error{
				stderrors.New("deadline exceeded"),
				stderrors.New("deadline exceeded"),
				stderrors.New("deadline exceeded"),
			},
			expectedCalls: 3,
			validate: func(t *testing.T, result interface{}, err error) {
				require.Error(t, err)
				assert.True(t, errors.HasCode(err, errors.ErrCodeWorkflowEngineUnavailable))
			},
		},
		{
			name:          "permanent error is not retried",
			failures:      []error{stderrors.New("process definition not found")},
			expectedCalls: 1,
			validate: func(t *testing.T, result interface{}, err error) {
				assert.True(t, errors.HasCode(err, errors.ErrCodeResourceNotFound))
			},
		},
		{
			name:          "unknown error maps to internal",
			failures:      []error{stderrors.New("invalid argument")},
			expectedCalls: 1,
			validate: func(t *testing.T, result interface{}, err error) {
				assert.True(t, errors.HasCode(err, errors.ErrCodeInternal))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			result, err := testClient().ExecuteWithRetry(context.Background(), func(context.Context) (interface{}, error) {
				calls++
				if calls <= len(tt.failures) {
					return nil, tt.failures[calls-1]
				}
				return "ok", nil
			}, "test")

			assert.Equal(t, tt.expectedCalls, calls)
			tt.validate(t, result, err)
		})
	}
}

func TestExecuteWithRetry_ContextCancelled(t *testing.T) {
	c := &Client{config: &ClientConfig{
		RetryConfig: &RetryConfig{MaxRetries: 5, BaseDelay: time.Hour, MaxDelay: time.Hour},
	}}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.ExecuteWithRetry(ctx, func(context.Context) (interface{}, error) {
		return nil, stderrors.New("unavailable")
	}, "test")

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestConfigFrom(t *testing.T) {
	cfg := ConfigFrom(config.CamundaConfig{BrokerAddress: "zeebe:26500", RequestTimeout: 5000})
	assert.Equal(t, "zeebe:26500", cfg.GatewayAddress)
	assert.Equal(t, 5*time.Second, cfg.RequestTimeout)

	cfg = ConfigFrom(config.CamundaConfig{BrokerAddress: "zeebe:26500"})
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
}
