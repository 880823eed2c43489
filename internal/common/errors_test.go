package common

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsRecoverable(t *testing.T) {
	tests := []struct {
		err  error
		name string
		want bool
	}{
		{name: "invalid input", err: fmt.Errorf("age: %w", ErrInvalidInput), want: true},
		{name: "customer not found", err: fmt.Errorf("id 9: %w", ErrCustomerNotFound), want: true},
		{name: "unknown item", err: ErrUnknownItem, want: true},
		{name: "clustering missing", err: ErrClusteringNotPerformed, want: true},
		{name: "missing column is fatal", err: fmt.Errorf("%w: Age", ErrMissingColumn), want: false},
		{name: "config is fatal", err: ErrInvalidConfig, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsRecoverable(tt.err))
		})
	}
}

func TestUserError(t *testing.T) {
	err := NewUserError("Customer ID 7 not found.", ErrCustomerNotFound)

	assert.True(t, errors.Is(err, ErrCustomerNotFound))
	assert.Equal(t, "Customer ID 7 not found.", UserMessage(err))
	assert.Contains(t, err.Error(), "customer not found")

	plain := errors.New("boom")
	assert.Equal(t, "boom", UserMessage(plain))
}

func TestParseLevel(t *testing.T) {
	level, err := ParseLevel("debug")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)

	_, err = ParseLevel("loud")
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestNewHandler(t *testing.T) {
	var buf strings.Builder

	handler, err := NewHandler(&buf, slog.LevelInfo, "json")
	require.NoError(t, err)
	slog.New(handler).Info("clustered", "k", 4)
	assert.Contains(t, buf.String(), `"k":4`)

	_, err = NewHandler(&buf, slog.LevelInfo, "xml")
	assert.ErrorIs(t, err, ErrInvalidConfig)
}
