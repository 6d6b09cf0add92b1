package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDefaultPolicy(t *testing.T) {
	p := DefaultPolicy()
	require.Equal(t, Linear, p.Mode)
	require.Equal(t, time.Second, p.Initial)
	require.Equal(t, 30*time.Second, p.Max)
	require.Equal(t, 2, p.MaxRetries)
}

func TestNewPolicyClampsInitial(t *testing.T) {
	p := NewPolicy(Fixed, 5*time.Second, 2*time.Second, 5)
	require.Equal(t, 2*time.Second, p.Initial)
	require.Equal(t, Fixed, p.Mode)
	require.Equal(t, 5, p.MaxRetries)

	require.Equal(t, Linear, NewPolicy("bogus", 0, 0, -1).Mode)
}

func TestDelayModes(t *testing.T) {
	ms := time.Millisecond
	tests := []struct {
		name string
		p    Policy
		want []time.Duration
	}{
		{"fixed", NewPolicy(Fixed, 100*ms, 500*ms, 3), []time.Duration{100 * ms, 100 * ms, 100 * ms}},
		{"linear", NewPolicy(Linear, 100*ms, 250*ms, 5), []time.Duration{100 * ms, 200 * ms, 250 * ms, 250 * ms}},
		{"exponential", NewPolicy(Exponential, 50*ms, 160*ms, 5), []time.Duration{50 * ms, 100 * ms, 160 * ms, 160 * ms}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for i, want := range tt.want {
				require.Equal(t, want, tt.p.Delay(i+1), "retry %d", i+1)
			}
		})
	}
	require.Zero(t, DefaultPolicy().Delay(0))
	require.Zero(t, DefaultPolicy().Delay(-1))
	require.Equal(t, time.Second, NewPolicy(Exponential, time.Millisecond, time.Second, 100).Delay(80))
}

func TestValidate(t *testing.T) {
	require.Error(t, Policy{Mode: Linear, Max: time.Second, MaxRetries: 1}.Validate())
	require.Error(t, Policy{Mode: Linear, Initial: time.Second, MaxRetries: 1}.Validate())
	require.Error(t, Policy{Mode: Linear, Initial: time.Second, Max: time.Second, MaxRetries: -1}.Validate())
	require.NoError(t, DefaultPolicy().Validate())
}

func TestDoRetriesUntilSuccess(t *testing.T) {
	p := NewPolicy(Fixed, time.Millisecond, time.Millisecond, 3)
	calls := 0
	err := Do(context.Background(), p, func(int) error {
		calls++
		if calls < 3 {
			return errors.New("flaky")
		}
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, 3, calls)
}

func TestDoGivesUp(t *testing.T) {
	p := NewPolicy(Fixed, time.Millisecond, time.Millisecond, 2)
	calls := 0
	boom := errors.New("down")
	err := Do(context.Background(), p, func(int) error { calls++; return boom })
	require.ErrorIs(t, err, boom)
	require.Equal(t, 3, calls)
}

func TestDoPermanent(t *testing.T) {
	calls := 0
	boom := errors.New("bad payload")
	err := Do(context.Background(), DefaultPolicy(), func(int) error { calls++; return Permanent(boom) })
	require.Equal(t, boom, err)
	require.Equal(t, 1, calls)
	require.NoError(t, Permanent(nil))
}

func TestDoStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	calls := 0
	err := Do(ctx, NewPolicy(Fixed, time.Hour, time.Hour, 5), func(int) error { calls++; return errors.New("x") })
	require.Error(t, err)
	require.Equal(t, 1, calls)
}
