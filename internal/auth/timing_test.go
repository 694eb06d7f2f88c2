package auth_test

import (
	"testing"
	"time"

	"github.com/BradenHooton/loginlab/internal/auth"
	"github.com/stretchr/testify/assert"
)

type recordingSleeper struct {
	slept   []time.Duration
	elapsed time.Duration
}

func (r *recordingSleeper) sleep(d time.Duration) { r.slept = append(r.slept, d) }

func (r *recordingSleeper) since(time.Time) time.Duration { return r.elapsed }

func (r *recordingSleeper) delay(cfg auth.TimingConfig) *auth.TimingDelay {
	return auth.NewTimingDelayWithSleeper(cfg, r.sleep, r.since)
}

func TestTimingDelay_WaitFrom_OnFailure(t *testing.T) {
	rec := &recordingSleeper{elapsed: 20 * time.Millisecond}
	timing := rec.delay(auth.TimingConfig{BaseDelay: 100 * time.Millisecond})

	timing.WaitFrom(time.Now(), false)

	// Only the remainder of the target is slept
	assert.Equal(t, []time.Duration{80 * time.Millisecond}, rec.slept)
}

func TestTimingDelay_WaitFrom_OnSuccess_NoDelay(t *testing.T) {
	rec := &recordingSleeper{}
	timing := rec.delay(auth.TimingConfig{BaseDelay: 100 * time.Millisecond})

	timing.WaitFrom(time.Now(), true)

	assert.Empty(t, rec.slept)
}

func TestTimingDelay_WaitFrom_OnSuccess_WithDelay(t *testing.T) {
	rec := &recordingSleeper{}
	timing := rec.delay(auth.TimingConfig{BaseDelay: 100 * time.Millisecond, DelayOnSuccess: true})

	timing.WaitFrom(time.Now(), true)

	assert.Equal(t, []time.Duration{100 * time.Millisecond}, rec.slept)
}

func TestTimingDelay_WaitFrom_NoWaitIfAlreadyExceeded(t *testing.T) {
	rec := &recordingSleeper{elapsed: 150 * time.Millisecond}
	timing := rec.delay(auth.TimingConfig{BaseDelay: 50 * time.Millisecond})

	timing.WaitFrom(time.Now(), false)

	assert.Empty(t, rec.slept)
}

func TestTimingDelay_Target_StaysWithinJitter(t *testing.T) {
	timing := auth.NewTimingDelay(auth.TimingConfig{
		BaseDelay:   10 * time.Millisecond,
		RandomDelay: 5 * time.Millisecond,
	})

	for i := 0; i < 100; i++ {
		target := timing.Target()
		assert.GreaterOrEqual(t, target, 10*time.Millisecond)
		assert.Less(t, target, 15*time.Millisecond)
	}
}

func TestTimingDelay_RealSleep(t *testing.T) {
	timing := auth.NewTimingDelay(auth.TimingConfig{BaseDelay: 30 * time.Millisecond})
	start := time.Now()

	timing.WaitFrom(start, false)

	assert.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)
}
