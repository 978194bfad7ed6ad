// Package schedule holds the due-task agendas that drive automatic
// transitions from the per-block hooks.
package schedule

import (
	"container/heap"

	"github.com/louisbranch/fairsquares/internal/services/estate/domain/primitive"
)

// Task is a keyed entry due at a block. Seq breaks ties between tasks due at
// the same block in scheduling order.
type Task struct {
	Key string
	Due primitive.BlockNumber
	Seq uint64
}

// Agenda is a keyed min-heap of tasks ordered by (Due, Seq). Scheduling an
// existing key moves it.
type Agenda struct {
	tasks   taskHeap
	index   map[string]int
	nextSeq uint64
}

// Schedule adds or moves the task for key and returns it.
func (a *Agenda) Schedule(key string, due primitive.BlockNumber) Task {
	if a.index == nil {
		a.index = make(map[string]int)
	}
	a.nextSeq++
	task := Task{Key: key, Due: due, Seq: a.nextSeq}
	if i, ok := a.index[key]; ok {
		a.tasks[i] = task
		heap.Fix(a, i)
		return task
	}
	heap.Push(a, task)
	return task
}

// Remove drops the task for key and reports whether it existed.
func (a *Agenda) Remove(key string) bool {
	i, ok := a.index[key]
	if !ok {
		return false
	}
	heap.Remove(a, i)
	return true
}

// Get returns the task scheduled for key.
func (a *Agenda) Get(key string) (Task, bool) {
	i, ok := a.index[key]
	if !ok {
		return Task{}, false
	}
	return a.tasks[i], true
}

// Peek returns the earliest task.
func (a *Agenda) Peek() (Task, bool) {
	if len(a.tasks) == 0 {
		return Task{}, false
	}
	return a.tasks[0], true
}

// NextDue returns the earliest task due at or before block.
func (a *Agenda) NextDue(block primitive.BlockNumber) (Task, bool) {
	task, ok := a.Peek()
	if !ok || task.Due > block {
		return Task{}, false
	}
	return task, true
}

// Tasks returns every task in (Due, Seq) order.
func (a *Agenda) Tasks() []Task {
	clone := a.Clone()
	out := make([]Task, 0, clone.Len())
	for clone.Len() > 0 {
		out = append(out, heap.Pop(&clone).(Task))
	}
	return out
}

// Clone returns an independent copy.
func (a Agenda) Clone() Agenda {
	clone := Agenda{
		tasks:   append(taskHeap(nil), a.tasks...),
		index:   make(map[string]int, len(a.index)),
		nextSeq: a.nextSeq,
	}
	for key, i := range a.index {
		clone.index[key] = i
	}
	return clone
}

// Len implements heap.Interface.
func (a *Agenda) Len() int { return len(a.tasks) }

// Less implements heap.Interface.
func (a *Agenda) Less(i, j int) bool {
	if a.tasks[i].Due != a.tasks[j].Due {
		return a.tasks[i].Due < a.tasks[j].Due
	}
	return a.tasks[i].Seq < a.tasks[j].Seq
}

// Swap implements heap.Interface.
func (a *Agenda) Swap(i, j int) {
	a.tasks[i], a.tasks[j] = a.tasks[j], a.tasks[i]
	a.index[a.tasks[i].Key] = i
	a.index[a.tasks[j].Key] = j
}

// Push implements heap.Interface.
func (a *Agenda) Push(x any) {
	task := x.(Task)
	if a.index == nil {
		a.index = make(map[string]int)
	}
	a.index[task.Key] = len(a.tasks)
	a.tasks = append(a.tasks, task)
}

// Pop implements heap.Interface.
func (a *Agenda) Pop() any {
	n := len(a.tasks)
	task := a.tasks[n-1]
	a.tasks = a.tasks[:n-1]
	delete(a.index, task.Key)
	return task
}

type taskHeap []Task
