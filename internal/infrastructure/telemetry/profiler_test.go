package telemetry_test

import (
	"testing"

	"github.com/erp/backoffice/internal/infrastructure/telemetry"
	"github.com/grafana/pyroscope-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestNewProfiler_Disabled(t *testing.T) {
	p, err := telemetry.NewProfiler(telemetry.ProfilerConfig{Enabled: false}, zaptest.NewLogger(t))
	require.NoError(t, err)
	assert.False(t, p.IsEnabled())

	assert.NoError(t, p.Stop())
	assert.NoError(t, p.Stop())
}

func TestNewProfiler_Validation(t *testing.T) {
	tests := []struct {
		name    string
		cfg     telemetry.ProfilerConfig
		wantErr string
	}{
		{
			name:    "missing server address",
			cfg:     telemetry.ProfilerConfig{Enabled: true, ApplicationName: "backoffice"},
			wantErr: "server address",
		},
		{
			name:    "missing application name",
			cfg:     telemetry.ProfilerConfig{Enabled: true, ServerAddress: "http://localhost:4040"},
			wantErr: "application name",
		},
		{
			name: "unknown profile type",
			cfg: telemetry.ProfilerConfig{
				Enabled:         true,
				ServerAddress:   "http://localhost:4040",
				ApplicationName: "backoffice",
				ProfileTypes:    []string{"cpu", "heap"},
			},
			wantErr: `"heap"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := telemetry.NewProfiler(tt.cfg, zaptest.NewLogger(t))
			require.Error(t, err)
			assert.Nil(t, p)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestParseProfileTypes(t *testing.T) {
	types, err := telemetry.ParseProfileTypes([]string{"cpu", " Inuse_Space ", "cpu", "mutex_count"})
	require.NoError(t, err)
	assert.Equal(t, []pyroscope.ProfileType{
		pyroscope.ProfileCPU,
		pyroscope.ProfileInuseSpace,
		pyroscope.ProfileMutexCount,
	}, types)

	types, err = telemetry.ParseProfileTypes(nil)
	require.NoError(t, err)
	assert.Empty(t, types)
}

func TestNewProfiler_Enabled(t *testing.T) {
	if testing.Short() {
		t.Skip("pushes to a pyroscope server")
	}
	// uploads happen in the background, so start succeeds without a server
	p, err := telemetry.NewProfiler(telemetry.ProfilerConfig{
		Enabled:         true,
		ServerAddress:   "http://127.0.0.1:4040",
		ApplicationName: "backoffice-test",
		ServiceVersion:  "test",
		ProfileTypes:    []string{"cpu", "goroutines"},
	}, zaptest.NewLogger(t))
	require.NoError(t, err)
	assert.True(t, p.IsEnabled())

	assert.NoError(t, p.Stop())
	assert.NoError(t, p.Stop())
}
