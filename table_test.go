package kernel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTCB(priority uint8, name string) *TCB {
	t := &TCB{priority: priority}
	setTaskName(t, name)
	return t
}

func TestTaskTable_InsertAndSort(t *testing.T) {
	tt := newTaskTable(4)
	b := newTestTCB(2, "b")
	a := newTestTCB(1, "a")
	c := newTestTCB(1, "c")

	require.True(t, tt.insert(b))
	require.True(t, tt.insert(a))
	require.True(t, tt.insert(c))
	tt.sort()

	assert.Equal(t, 3, tt.count())
	assert.Equal(t, a, tt.at(0))
	// a and c are equal priority; adjacent-swap bubble sort must not
	// reorder them relative to each other (round-robin order
	// preservation, spec.md §4.B).
	assert.Equal(t, c, tt.at(1))
	assert.Equal(t, b, tt.at(2))
}

func TestTaskTable_CapacityEnforced(t *testing.T) {
	tt := newTaskTable(1)
	assert.True(t, tt.insert(newTestTCB(1, "only")))
	assert.False(t, tt.insert(newTestTCB(2, "overflow")))
	assert.Equal(t, 1, tt.count())
}

func TestTaskTable_AtOutOfRange(t *testing.T) {
	tt := newTaskTable(2)
	tt.insert(newTestTCB(1, "a"))
	assert.Nil(t, tt.at(-1))
	assert.Nil(t, tt.at(5))
}

func TestTaskTable_IdleAlwaysSortsLast(t *testing.T) {
	tt := newTaskTable(3)
	idle := newTestTCB(IdlePriority, "idle")
	t1 := newTestTCB(1, "t1")
	t2 := newTestTCB(10, "t2")
	tt.insert(idle)
	tt.insert(t2)
	tt.insert(t1)
	tt.sort()

	assert.Equal(t, idle, tt.at(2))
}
