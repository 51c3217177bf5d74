package arena

import (
	"container/heap"
	"sort"
	"time"
)

// TaskKind labels a scheduled transition.
type TaskKind int

const (
	TaskDetonate TaskKind = iota
	TaskClearFire
	TaskRespawn
)

func (k TaskKind) String() string {
	switch k {
	case TaskDetonate:
		return "detonate"
	case TaskClearFire:
		return "clear-fire"
	case TaskRespawn:
		return "respawn"
	default:
		return "unknown"
	}
}

// task is a deferred transition. Tasks are ordered by due time, then by the
// order they were scheduled in.
type task struct {
	kind  TaskKind
	due   time.Duration
	seq   uint64
	run   func()
	index int
}

type taskQueue []*task

func (q taskQueue) Len() int { return len(q) }

func (q taskQueue) Less(i, j int) bool {
	if q[i].due != q[j].due {
		return q[i].due < q[j].due
	}
	return q[i].seq < q[j].seq
}

func (q taskQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}

func (q *taskQueue) Push(x any) {
	t := x.(*task)
	t.index = len(*q)
	*q = append(*q, t)
}

func (q *taskQueue) Pop() any {
	old := *q
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	t.index = -1
	*q = old[:n-1]
	return t
}

// Scheduler is a single-threaded logical clock with a time-ordered queue of
// deferred transitions. Scheduled tasks are never cancelled.
type Scheduler struct {
	now   time.Duration
	seq   uint64
	queue taskQueue
}

// NewScheduler returns a scheduler whose clock starts at zero.
func NewScheduler() *Scheduler {
	s := &Scheduler{}
	heap.Init(&s.queue)
	return s
}

// Now returns the current logical time.
func (s *Scheduler) Now() time.Duration {
	return s.now
}

// Len returns the number of pending tasks.
func (s *Scheduler) Len() int {
	return s.queue.Len()
}

// Schedule queues fn to run delay after the current logical time.
func (s *Scheduler) Schedule(delay time.Duration, kind TaskKind, fn func()) {
	if delay < 0 {
		delay = 0
	}
	s.seq++
	heap.Push(&s.queue, &task{
		kind: kind,
		due:  s.now + delay,
		seq:  s.seq,
		run:  fn,
	})
}

// Next returns the due time of the earliest pending task.
func (s *Scheduler) Next() (time.Duration, bool) {
	if s.queue.Len() == 0 {
		return 0, false
	}
	return s.queue[0].due, true
}

// AdvanceTo moves the clock to t, running every task due at or before t in
// order. While a task runs the clock reads its due time, so follow-up tasks
// are scheduled relative to the transition that produced them. Returns the
// number of tasks run. Moving backwards is a no-op.
func (s *Scheduler) AdvanceTo(t time.Duration) int {
	if t < s.now {
		return 0
	}
	ran := 0
	for s.queue.Len() > 0 && s.queue[0].due <= t {
		next := heap.Pop(&s.queue).(*task)
		s.now = next.due
		next.run()
		ran++
	}
	s.now = t
	return ran
}

// Pending lists pending tasks as (kind, due) pairs in firing order.
func (s *Scheduler) Pending() []PendingTask {
	cp := make([]*task, len(s.queue))
	copy(cp, s.queue)
	sort.Slice(cp, func(i, j int) bool {
		if cp[i].due != cp[j].due {
			return cp[i].due < cp[j].due
		}
		return cp[i].seq < cp[j].seq
	})
	out := make([]PendingTask, len(cp))
	for i, t := range cp {
		out[i] = PendingTask{Kind: t.kind, Due: t.due}
	}
	return out
}

// PendingTask describes a queued transition.
type PendingTask struct {
	Kind TaskKind
	Due  time.Duration
}
