package tasks

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/magicesim/storefront/services/monitoring/logging"
)

// Task represents a scheduled task
type Task struct {
	ID       string
	Name     string
	Fn       func(context.Context) error
	Interval time.Duration // Zero means run once
	LastRun  time.Time
	LastErr  error
	Runs     int
}

// TaskScheduler runs background jobs such as catalog cache warming.
type TaskScheduler struct {
	tasks  map[string]*Task
	mu     sync.RWMutex
	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc
	logger *logging.Logger
}

func NewTaskScheduler(logger *logging.Logger) *TaskScheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &TaskScheduler{
		tasks:  make(map[string]*Task),
		ctx:    ctx,
		cancel: cancel,
		logger: logger,
	}
}

// AddTask registers a task without running it.
func (ts *TaskScheduler) AddTask(id, name string, fn func(context.Context) error, interval time.Duration) (*Task, error) {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	if _, exists := ts.tasks[id]; exists {
		return nil, fmt.Errorf("task with ID %s already exists", id)
	}

	task := &Task{
		ID:       id,
		Name:     name,
		Fn:       fn,
		Interval: interval,
	}
	ts.tasks[id] = task
	ts.logger.Info(fmt.Sprintf("Added task %s to scheduler", id))
	return task, nil
}

func (ts *TaskScheduler) execute(task *Task) {
	err := task.Fn(ts.ctx)
	if err != nil {
		ts.logger.Error(fmt.Sprintf("Task %s failed: %v", task.Name, err))
	}

	ts.mu.Lock()
	task.LastRun = time.Now()
	task.LastErr = err
	task.Runs++
	ts.mu.Unlock()
}

// RunTask immediately executes a task in the background.
func (ts *TaskScheduler) RunTask(id string) error {
	ts.mu.RLock()
	task, exists := ts.tasks[id]
	ts.mu.RUnlock()

	if !exists {
		return fmt.Errorf("task with ID %s not found", id)
	}

	ts.logger.Info(fmt.Sprintf("Running task %s", id))
	ts.wg.Add(1)
	go func() {
		defer ts.wg.Done()
		ts.execute(task)
	}()
	return nil
}

// Start runs a task now and then once per Interval until Stop.
func (ts *TaskScheduler) Start(id string) error {
	ts.mu.RLock()
	task, exists := ts.tasks[id]
	ts.mu.RUnlock()

	if !exists {
		return fmt.Errorf("task with ID %s not found", id)
	}
	if task.Interval <= 0 {
		return ts.RunTask(id)
	}

	ts.logger.Info(fmt.Sprintf("Scheduling task %s every %s", id, task.Interval))
	ts.wg.Add(1)
	go func() {
		defer ts.wg.Done()
		ticker := time.NewTicker(task.Interval)
		defer ticker.Stop()

		ts.execute(task)
		for {
			select {
			case <-ts.ctx.Done():
				ts.logger.Info(fmt.Sprintf("Task %s context cancelled", id))
				return
			case <-ticker.C:
				ts.execute(task)
			}
		}
	}()
	return nil
}

// Snapshot returns a copy of the task's bookkeeping.
func (ts *TaskScheduler) Snapshot(id string) (Task, bool) {
	ts.mu.RLock()
	defer ts.mu.RUnlock()
	task, exists := ts.tasks[id]
	if !exists {
		return Task{}, false
	}
	return *task, true
}

// Stop cancels every task and waits for running ones to return.
func (ts *TaskScheduler) Stop() {
	ts.cancel()
	ts.wg.Wait()
}
