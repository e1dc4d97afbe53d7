// Package testutils holds deterministic stand-ins shared by package tests.
package testutils

import (
	"fmt"
	"sync"
)

// ScriptedRoller satisfies the rpg-toolkit dice.Roller interface by handing
// out a fixed sequence of face values. It fails once the script runs out or
// when a scripted value cannot appear on the requested die.
type ScriptedRoller struct {
	mu     sync.Mutex
	values []int
	sizes  []int
}

// NewScriptedRoller returns a roller that yields values in order.
func NewScriptedRoller(values ...int) *ScriptedRoller {
	return &ScriptedRoller{values: values}
}

// Push appends more values to the script.
func (r *ScriptedRoller) Push(values ...int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.values = append(r.values, values...)
}

// Remaining reports how many scripted values are left.
func (r *ScriptedRoller) Remaining() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.values)
}

// Sizes lists the die sizes requested so far, one entry per die.
func (r *ScriptedRoller) Sizes() []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]int(nil), r.sizes...)
}

// Roll returns the next scripted value.
func (r *ScriptedRoller) Roll(size int) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.next(size)
}

// RollN returns the next count scripted values.
func (r *ScriptedRoller) RollN(count, size int) ([]int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]int, count)
	for i := range out {
		v, err := r.next(size)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (r *ScriptedRoller) next(size int) (int, error) {
	if len(r.values) == 0 {
		return 0, fmt.Errorf("scripted roller exhausted (d%d requested)", size)
	}
	v := r.values[0]
	if v < 1 || v > size {
		return 0, fmt.Errorf("scripted value %d does not fit a d%d", v, size)
	}
	r.values = r.values[1:]
	r.sizes = append(r.sizes, size)
	return v, nil
}

// FailingRoller fails every roll with Err.
type FailingRoller struct {
	Err error
}

// Roll fails.
func (r FailingRoller) Roll(int) (int, error) { return 0, r.Err }

// RollN fails.
func (r FailingRoller) RollN(int, int) ([]int, error) { return nil, r.Err }
