// Package sched is a single-threaded cooperative scheduler. Work is queued as
// continuations that run a whole number of steps in the future; the owner
// advances time by calling Step once per frame or turn.
package sched

import "sort"

// Task is a scheduled continuation.
type Task struct {
	Name string

	seq       uint64
	due       uint64
	interval  uint64 // 0 = one-shot
	fn        func()
	cancelled bool
}

// Cancel prevents any future run of the task. Safe to call more than once.
func (t *Task) Cancel() {
	if t != nil {
		t.cancelled = true
	}
}

// Cancelled reports whether Cancel was called.
func (t *Task) Cancelled() bool { return t == nil || t.cancelled }

// Scheduler runs tasks in step order. Tasks queued while a step is running
// never run in that same step.
type Scheduler struct {
	now   uint64
	seq   uint64
	tasks []*Task
}

// New creates a scheduler at step 0.
func New() *Scheduler {
	return &Scheduler{tasks: make([]*Task, 0, 16)}
}

// After runs fn once, n steps from now. n < 1 is treated as 1.
func (s *Scheduler) After(n int, name string, fn func()) *Task {
	return s.add(name, steps(n), 0, fn)
}

// Every runs fn first steps from now and then every interval steps until
// cancelled.
func (s *Scheduler) Every(first, interval int, name string, fn func()) *Task {
	return s.add(name, steps(first), steps(interval), fn)
}

func (s *Scheduler) add(name string, delay, interval uint64, fn func()) *Task {
	s.seq++
	t := &Task{
		Name:     name,
		seq:      s.seq,
		due:      s.now + delay,
		interval: interval,
		fn:       fn,
	}
	s.tasks = append(s.tasks, t)
	return t
}

// Step advances time by one step and runs every task due at the new step.
// Returns the number of tasks run.
func (s *Scheduler) Step() int {
	s.now++

	var due []*Task
	kept := s.tasks[:0]
	for _, t := range s.tasks {
		if t.cancelled {
			continue
		}
		kept = append(kept, t)
		if t.due <= s.now {
			due = append(due, t)
		}
	}
	s.tasks = kept

	sort.Slice(due, func(i, j int) bool {
		if due[i].due != due[j].due {
			return due[i].due < due[j].due
		}
		return due[i].seq < due[j].seq
	})

	ran := 0
	for _, t := range due {
		// An earlier task in this step may have cancelled this one.
		if t.cancelled {
			continue
		}
		if t.interval > 0 {
			t.due = s.now + t.interval
		} else {
			t.cancelled = true
		}
		t.fn()
		ran++
	}
	return ran
}

// Run advances n steps.
func (s *Scheduler) Run(n int) {
	for i := 0; i < n; i++ {
		s.Step()
	}
}

// CancelAll cancels every pending task.
func (s *Scheduler) CancelAll() {
	for _, t := range s.tasks {
		t.cancelled = true
	}
	s.tasks = s.tasks[:0]
}

// Now returns the current step number.
func (s *Scheduler) Now() uint64 { return s.now }

// Pending returns the names of tasks that have not run or been cancelled,
// in queue order.
func (s *Scheduler) Pending() []string {
	var names []string
	for _, t := range s.tasks {
		if !t.cancelled {
			names = append(names, t.Name)
		}
	}
	return names
}

func steps(n int) uint64 {
	if n < 1 {
		return 1
	}
	return uint64(n)
}
