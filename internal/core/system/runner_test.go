package system

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type recorder struct {
	name  string
	stage Stage
	log   *[]string
	dt    time.Duration
}

func (r *recorder) Stage() Stage { return r.stage }
func (r *recorder) Update(dt time.Duration) {
	r.dt = dt
	*r.log = append(*r.log, r.name)
}

func TestRunnerOrdersByStageThenRegistration(t *testing.T) {
	var log []string
	r := NewRunner()
	r.Register(&recorder{name: "cleanup", stage: StageCleanup, log: &log})
	r.Register(&recorder{name: "enemies", stage: StageUpdate, log: &log})
	r.Register(&recorder{name: "input", stage: StageInput, log: &log})
	r.Register(&recorder{name: "phase", stage: StageUpdate, log: &log})
	r.Register(&recorder{name: "bus", stage: StagePreUpdate, log: &log})

	r.Tick(50 * time.Millisecond)
	assert.Equal(t, []string{"input", "bus", "enemies", "phase", "cleanup"}, log)
	assert.Equal(t, uint64(1), r.Ticks())
}

func TestRunnerPassesDelta(t *testing.T) {
	var log []string
	rec := &recorder{name: "a", stage: StageUpdate, log: &log}
	r := NewRunner()
	r.Register(rec)
	r.Tick(16 * time.Millisecond)
	assert.Equal(t, 16*time.Millisecond, rec.dt)
}

func TestStageString(t *testing.T) {
	assert.Equal(t, "post-update", StagePostUpdate.String())
	assert.Equal(t, "unknown", Stage(42).String())
}
