// ==============================================================================
// RUN CONTROLLER TESTS - internal/pipeline/controller_test.go
// ==============================================================================
package pipeline

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"verid/internal/domain"
	"verid/internal/session"
	veriderrors "verid/pkg/errors"
	"verid/pkg/logger"
)

type funcGateway struct {
	generate func(ctx context.Context) (map[string]interface{}, error)
}

func (g *funcGateway) GenerateProfile(ctx context.Context, tier domain.Tier, payload map[string]interface{}) (map[string]interface{}, error) {
	return g.generate(ctx)
}

func (g *funcGateway) VerifyDL(ctx context.Context, payload map[string]interface{}) (map[string]interface{}, error) {
	return map[string]interface{}{}, nil
}

func (g *funcGateway) VerifyRC(ctx context.Context, payload map[string]interface{}) (map[string]interface{}, error) {
	return map[string]interface{}{}, nil
}

func (g *funcGateway) CourtCases(ctx context.Context, name string, profile *domain.CanonicalProfile) (map[string]interface{}, error) {
	return map[string]interface{}{}, nil
}

func (g *funcGateway) GeneratePDF(ctx context.Context, profile *domain.CanonicalProfile) ([]byte, error) {
	return nil, nil
}

func TestControllerSequentialSubmits(t *testing.T) {
	gw := &funcGateway{generate: func(context.Context) (map[string]interface{}, error) {
		return map[string]interface{}{"full_name": "Asha Rao"}, nil
	}}
	ctrl := NewController(New(gw, nil, nil, nil, logger.NewNop()))

	for i := 0; i < 2; i++ {
		outcome, err := ctrl.Submit(context.Background(), "s1", domain.TierLite, liteDraft(), session.Context{}, nil)
		require.NoError(t, err)
		require.NotNil(t, outcome.Profile)
	}
}

func TestControllerResubmitSupersedesInFlightRun(t *testing.T) {
	started := make(chan struct{})
	var calls int32

	gw := &funcGateway{generate: func(ctx context.Context) (map[string]interface{}, error) {
		if atomic.AddInt32(&calls, 1) == 1 {
			close(started)
			// First run hangs until its context is cancelled by the resubmit.
			<-ctx.Done()
			return nil, ctx.Err()
		}
		return map[string]interface{}{"full_name": "Asha Rao"}, nil
	}}
	ctrl := NewController(New(gw, nil, nil, nil, logger.NewNop()))

	firstDone := make(chan error, 1)
	go func() {
		_, err := ctrl.Submit(context.Background(), "s1", domain.TierLite, liteDraft(), session.Context{}, nil)
		firstDone <- err
	}()

	<-started
	outcome, err := ctrl.Submit(context.Background(), "s1", domain.TierLite, liteDraft(), session.Context{}, nil)
	require.NoError(t, err)
	require.NotNil(t, outcome.Profile)

	assert.ErrorIs(t, <-firstDone, veriderrors.ErrRunSuperseded)
}

func TestControllerSessionsAreIsolated(t *testing.T) {
	started := make(chan struct{})
	unblock := make(chan struct{})
	var calls int32

	gw := &funcGateway{generate: func(ctx context.Context) (map[string]interface{}, error) {
		if atomic.AddInt32(&calls, 1) == 1 {
			close(started)
			<-unblock
		}
		return map[string]interface{}{"full_name": "Asha Rao"}, nil
	}}
	ctrl := NewController(New(gw, nil, nil, nil, logger.NewNop()))

	firstDone := make(chan error, 1)
	go func() {
		_, err := ctrl.Submit(context.Background(), "s1", domain.TierLite, liteDraft(), session.Context{}, nil)
		firstDone <- err
	}()

	<-started
	// A different session never cancels s1's in-flight run.
	_, err := ctrl.Submit(context.Background(), "s2", domain.TierLite, liteDraft(), session.Context{}, nil)
	require.NoError(t, err)

	close(unblock)
	assert.NoError(t, <-firstDone)
}
