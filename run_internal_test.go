package lumen

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rangka/lumen/pkg/logger"
	"github.com/rangka/lumen/pkg/queue"
)

func TestRunReportsWorkerFailure(t *testing.T) {
	t.Parallel()

	app, err := New(WithConfig(Config{Name: "lumen"}), WithLogger(logger.Discard()))
	require.NoError(t, err)
	app.queueStorage = nil

	assert.Nil(t, app.Worker())
	assert.NotNil(t, app.Scheduler())

	err = app.Run(context.Background(), WithoutSignals(), WithoutHTTP())
	require.ErrorIs(t, err, queue.ErrNilStorage)
}
