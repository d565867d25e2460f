package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSeverity(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in      string
		want    Severity
		wantErr bool
	}{
		{"error", SeverityError, false},
		{"WARNING", SeverityWarning, false},
		{"warn", SeverityWarning, false},
		{" info ", SeverityInfo, false},
		{"off", SeverityOff, false},
		{"fatal", SeverityError, true},
	}
	for _, tt := range tests {
		got, err := ParseSeverity(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}
}

func TestSeverityText(t *testing.T) {
	t.Parallel()

	b, err := SeverityWarning.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "warning", string(b))

	var s Severity
	require.NoError(t, s.UnmarshalText([]byte("info")))
	assert.Equal(t, SeverityInfo, s)
	assert.Error(t, s.UnmarshalText([]byte("loud")))
}
