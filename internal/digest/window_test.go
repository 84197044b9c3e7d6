package digest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateWindow(t *testing.T) {
	week := 7 * 24 * time.Hour
	cutoff := testNow.Add(-week)

	newer := make([]Event, 10)
	for i := range newer {
		newer[i] = Event{CreatedAt: cutoff.Add(time.Duration(i+1) * time.Hour)}
	}

	t.Run("all events newer than cutoff fails", func(t *testing.T) {
		err := ValidateWindow(newer, cutoff, 10, week)
		var tooNarrow *WindowTooNarrowError
		require.ErrorAs(t, err, &tooNarrow)
		assert.Equal(t, 10, tooNarrow.NEvents)
		assert.Equal(t, week, tooNarrow.Window)
		assert.Contains(t, err.Error(), "event limit")
	})

	t.Run("one older event passes", func(t *testing.T) {
		events := append([]Event{{CreatedAt: testNow.Add(-8 * 24 * time.Hour)}}, newer...)
		assert.NoError(t, ValidateWindow(events, cutoff, 10, week))
	})

	t.Run("exactly at cutoff is not older", func(t *testing.T) {
		err := ValidateWindow([]Event{{CreatedAt: cutoff}}, cutoff, 1, week)
		assert.Error(t, err)
	})

	t.Run("empty page fails", func(t *testing.T) {
		assert.Error(t, ValidateWindow(nil, cutoff, 0, week))
	})
}
