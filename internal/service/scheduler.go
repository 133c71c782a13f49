package service

import (
	"container/heap"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"github.com/yola1107/kratos/v2/log"
)

// delayTask is one pending delivery.
type delayTask struct {
	id     int64
	execAt time.Time
	fn     func()
	index  int
}

// taskQueue is a min-heap on (execAt, id), so tasks due at the same instant
// run in scheduling order.
type taskQueue struct {
	mu   sync.Mutex
	heap []*delayTask
}

func (q *taskQueue) Len() int { return len(q.heap) }
func (q *taskQueue) Less(i, j int) bool {
	a, b := q.heap[i], q.heap[j]
	if a.execAt.Equal(b.execAt) {
		return a.id < b.id
	}
	return a.execAt.Before(b.execAt)
}
func (q *taskQueue) Swap(i, j int) {
	q.heap[i], q.heap[j] = q.heap[j], q.heap[i]
	q.heap[i].index = i
	q.heap[j].index = j
}
func (q *taskQueue) Push(x any) {
	t := x.(*delayTask)
	t.index = len(q.heap)
	q.heap = append(q.heap, t)
}
func (q *taskQueue) Pop() any {
	n := len(q.heap)
	t := q.heap[n-1]
	t.index = -1
	q.heap = q.heap[:n-1]
	return t
}

// add queues t and reports whether it became the earliest task.
func (q *taskQueue) add(t *delayTask) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	heap.Push(q, t)
	return t.index == 0
}

func (q *taskQueue) popExpired(now time.Time) []*delayTask {
	q.mu.Lock()
	defer q.mu.Unlock()
	var expired []*delayTask
	for len(q.heap) > 0 && !q.heap[0].execAt.After(now) {
		expired = append(expired, heap.Pop(q).(*delayTask))
	}
	return expired
}

func (q *taskQueue) next(now time.Time) time.Duration {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.heap) == 0 {
		return time.Hour
	}
	if d := q.heap[0].execAt.Sub(now); d > 0 {
		return d
	}
	return 0
}

func (q *taskQueue) clear() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	n := len(q.heap)
	q.heap = nil
	return n
}

// Scheduler runs one-shot delayed tasks on a single worker goroutine, in the
// order their delays elapse.
type Scheduler struct {
	queue    taskQueue
	nextID   atomic.Int64
	shutdown atomic.Bool
	wakeup   chan struct{}
	done     chan struct{}
	exited   chan struct{}
	worker   *serialWorker
}

func NewScheduler() *Scheduler {
	s := &Scheduler{
		wakeup: make(chan struct{}, 1),
		done:   make(chan struct{}),
		exited: make(chan struct{}),
		worker: newSerialWorker(1024),
	}
	go s.loop()
	return s
}

func (s *Scheduler) loop() {
	defer close(s.exited)
	timer := time.NewTimer(time.Hour)
	defer timer.Stop()
	for {
		for _, t := range s.queue.popExpired(time.Now()) {
			s.worker.submit(t.fn)
		}

		d := s.queue.next(time.Now())
		if d <= 0 {
			d = time.Millisecond
		}
		if !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}
		timer.Reset(d)

		select {
		case <-timer.C:
		case <-s.wakeup:
		case <-s.done:
			return
		}
	}
}

// Once runs f after delay. It returns the task id, or -1 once the scheduler
// is stopped.
func (s *Scheduler) Once(delay time.Duration, f func()) int64 {
	if f == nil || s.shutdown.Load() {
		return -1
	}
	t := &delayTask{id: s.nextID.Add(1), execAt: time.Now().Add(delay), fn: f}
	if s.queue.add(t) {
		select {
		case s.wakeup <- struct{}{}:
		default:
		}
	}
	return t.id
}

// Pending is the number of tasks not yet handed to the worker.
func (s *Scheduler) Pending() int {
	s.queue.mu.Lock()
	defer s.queue.mu.Unlock()
	return len(s.queue.heap)
}

// Stop drops the tasks still waiting, lets the worker finish what it was
// handed and returns how many tasks were dropped.
func (s *Scheduler) Stop() int {
	if !s.shutdown.CompareAndSwap(false, true) {
		return 0
	}
	close(s.done)
	<-s.exited
	dropped := s.queue.clear()
	s.worker.stop(3 * time.Second)
	return dropped
}

// serialWorker runs submitted functions one at a time in submission order.
type serialWorker struct {
	tasks    chan func()
	stopOnce sync.Once
	wg       sync.WaitGroup
}

func newSerialWorker(queueSize int) *serialWorker {
	w := &serialWorker{tasks: make(chan func(), queueSize)}
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		for fn := range w.tasks {
			safeCall(fn)
		}
	}()
	return w
}

// submit blocks while the queue is full so that order is kept.
func (w *serialWorker) submit(fn func()) {
	w.tasks <- fn
}

func (w *serialWorker) stop(timeout time.Duration) {
	w.stopOnce.Do(func() {
		close(w.tasks)
		done := make(chan struct{})
		go func() {
			w.wg.Wait()
			close(done)
		}()
		select {
		case <-done:
		case <-time.After(timeout):
			log.Warnf("[scheduler] worker still busy after %v", timeout)
		}
	})
}

func safeCall(fn func()) {
	defer recoverFromError(nil)
	fn()
}

// recoverFromError logs a recovered panic with its stack.
func recoverFromError(cb func(e any)) {
	if e := recover(); e != nil {
		log.Errorf("Recover => %v\n%s\n", e, debug.Stack())
		if cb != nil {
			cb(e)
		}
	}
}
