package services_test

import (
	"sync"
	"testing"

	"github.com/felixgeelhaar/workday/internal/gamification/application/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestXPLedger(t *testing.T) {
	t.Run("apply shows optimistic total", func(t *testing.T) {
		l := services.NewXPLedger(90)

		l.Apply(75, "Completed: Deep Work")

		s := l.State()
		assert.Equal(t, 165, s.TotalXP)
		assert.Equal(t, 2, s.Level)
		assert.Equal(t, 90, s.Confirmed)
		require.Len(t, s.Pending, 1)
	})

	t.Run("rollback restores the previous total", func(t *testing.T) {
		l := services.NewXPLedger(90)
		p := l.Apply(75, "Completed: Deep Work")

		s := l.Rollback(p)

		assert.Equal(t, 90, s.TotalXP)
		assert.Equal(t, 1, s.Level)
		assert.Empty(t, s.Pending)
	})

	t.Run("commit reconciles to the server total", func(t *testing.T) {
		l := services.NewXPLedger(90)
		first := l.Apply(75, "a")
		l.Apply(10, "b")

		s := l.Commit(first, 100)

		assert.Equal(t, 100, s.Confirmed)
		assert.Equal(t, 110, s.TotalXP)
		assert.Len(t, s.Pending, 1)
	})

	t.Run("rollback after commit of another entry", func(t *testing.T) {
		l := services.NewXPLedger(0)
		a := l.Apply(50, "a")
		b := l.Apply(50, "b")
		l.Commit(a, 10)

		s := l.Rollback(b)

		assert.Equal(t, 10, s.TotalXP)
	})

	t.Run("reset", func(t *testing.T) {
		l := services.NewXPLedger(0)
		l.Apply(50, "a")

		l.Reset(400)

		s := l.State()
		assert.Equal(t, 400, s.TotalXP)
		assert.Equal(t, 3, s.Level)
		assert.Empty(t, s.Pending)
	})

	t.Run("concurrent use", func(t *testing.T) {
		l := services.NewXPLedger(0)
		var wg sync.WaitGroup
		for range 50 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				l.Rollback(l.Apply(10, "x"))
			}()
		}
		wg.Wait()

		assert.Zero(t, l.State().TotalXP)
	})
}
