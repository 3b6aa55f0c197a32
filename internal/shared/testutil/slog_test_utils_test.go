package testutil

import (
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBufferedSlogHandler(t *testing.T) {
	t.Run("captures records and derived attrs", func(t *testing.T) {
		logger, handler := NewTestLogger(t)
		logger = logger.With(slog.String("component", "analyzer"))

		logger.Info("analysis completed", slog.String("company", "Tata"))
		logger.Error("analysis failed", slog.Int("code", 500))

		assert.Equal(t, 2, handler.Count())
		assert.True(t, handler.ContainsMessage("completed"))
		assert.True(t, handler.ContainsAttr("company", "Tata"))
		assert.True(t, handler.ContainsAttr("component", "analyzer"))
	})

	t.Run("groups prefix keys", func(t *testing.T) {
		logger, handler := NewTestLogger(t)

		logger.WithGroup("cache").Info("stats", slog.Int64("hits", 3))

		assert.True(t, handler.ContainsAttr("cache.hits", int64(3)))
	})

	t.Run("filters by level", func(t *testing.T) {
		logger, handler := NewTestLogger(t)

		logger.Debug("debug msg")
		logger.Info("info msg")
		logger.Warn("warn msg")
		logger.Error("error msg")

		assert.Len(t, handler.GetRecordsByLevel(slog.LevelInfo), 1)
		assert.Len(t, handler.GetRecordsByLevel(slog.LevelDebug), 1)
		AssertLogContains(t, handler, slog.LevelWarn, "warn")
	})

	t.Run("clear", func(t *testing.T) {
		logger, handler := NewTestLogger(t)

		logger.Info("message 1")
		logger.Info("message 2")
		assert.Equal(t, 2, handler.Count())

		handler.Clear()
		assert.Equal(t, 0, handler.Count())
		AssertNoErrors(t, handler)
	})

	t.Run("concurrent logging", func(t *testing.T) {
		logger, handler := NewTestLogger(nil)

		var wg sync.WaitGroup
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func(n int) {
				defer wg.Done()
				logger.With(slog.Int("goroutine", n)).Info("concurrent log")
			}(i)
		}
		wg.Wait()

		assert.Equal(t, 10, handler.Count())
	})
}

func TestDatasetFixtures(t *testing.T) {
	ds := SyntheticDataset(t)
	assert.Equal(t, 540, ds.Len())

	withBad := WithUnusableCompany(ds, "Infosys", 3)
	assert.Equal(t, 543, withBad.Len())
	assert.Equal(t, 540, ds.Len())
	assert.Contains(t, withBad.Companies(), "Infosys")

	dropped := WithDroppedRows(ds, "Tata", 5)
	incomplete := 0
	for _, r := range dropped.Filter("Tata") {
		if !r.Complete() {
			incomplete++
		}
	}
	assert.Equal(t, 5, incomplete)
	assert.True(t, ds.Records[0].Complete())
}
