package logger

import (
	"context"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetLogger_FallsBackToGlobal(t *testing.T) {
	entry := GetLogger(context.Background())
	require.NotNil(t, entry)
	assert.Equal(t, L.Logger, entry.Logger)
}

func TestWithLogger_RoundTrip(t *testing.T) {
	base := logrus.NewEntry(logrus.New()).WithField("component", "test")
	ctx := WithLogger(context.Background(), base)

	entry := GetLogger(ctx)
	assert.Equal(t, "test", entry.Data["component"])
}

func TestSetLogLevel(t *testing.T) {
	require.NoError(t, SetLogLevel("debug"))
	assert.Equal(t, logrus.DebugLevel, L.Logger.GetLevel())

	require.NoError(t, SetLogLevel("info"))
	assert.Error(t, SetLogLevel("not-a-level"))
}
