package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestHelpersWriteToGlobalLogger(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	prev := L()
	Set(zap.New(core))
	t.Cleanup(func() { Set(prev) })

	Info("post created", zap.Int("post_id", 7))
	Warn("cache miss")

	entries := logs.All()
	if assert.Len(t, entries, 2) {
		assert.Equal(t, "post created", entries[0].Message)
		assert.Equal(t, int64(7), entries[0].ContextMap()["post_id"])
		assert.Equal(t, zap.WarnLevel, entries[1].Level)
	}
}

func TestStdLogBridgesToZap(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	prev := L()
	Set(zap.New(core))
	t.Cleanup(func() { Set(prev) })

	StdLog().Printf("slow query %d", 3)

	assert.Equal(t, 1, logs.FilterMessage("slow query 3").Len())
}
