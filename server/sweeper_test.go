package server

import (
	"context"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/hushbox/hushbox/server/logger"
	"github.com/hushbox/hushbox/server/store"
)

// Ensure the sweeper removes expired records in the background.
func TestSweeperRemovesExpired(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	rec, err := svc.Create(ctx, testEnvelope())
	require.NoError(t, err)

	svc.now = func() time.Time { return rec.ExpiresAt.Add(time.Minute) }

	sw := newSweeper(svc, logger.NewLogger(uint32(logrus.ErrorLevel)), 10*time.Millisecond)
	sw.start()
	defer sw.stop()

	require.Eventually(t, func() bool {
		_, err := svc.store.Get(ctx, rec.ID)
		return err == store.ErrNotFound
	}, 2*time.Second, 10*time.Millisecond)
}

// Ensure stop is safe without a prior start.
func TestSweeperStopWithoutStart(t *testing.T) {
	sw := newSweeper(newTestService(), logger.NewLogger(uint32(logrus.ErrorLevel)), time.Minute)
	sw.stop()
}

// Ensure stop is idempotent.
func TestSweeperDoubleStop(t *testing.T) {
	sw := newSweeper(newTestService(), logger.NewLogger(uint32(logrus.ErrorLevel)), time.Minute)
	sw.start()
	sw.stop()
	sw.stop()
}
