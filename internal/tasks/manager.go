package tasks

import (
	"context"
	"sort"
	"sync"
	"time"
)

const defaultTaskTimeout = 5 * time.Minute

// Manager mantém as tarefas registradas e seus agendadores.
type Manager struct {
	mu      sync.Mutex
	tasks   map[string]*RunnableTask
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	started bool
}

func NewManager() *Manager {
	return &Manager{tasks: make(map[string]*RunnableTask)}
}

// Register adds a task. Tasks registered after Start are only run through RunNow.
func (m *Manager) Register(name string, interval time.Duration, fn TaskFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.tasks[name] = &RunnableTask{
		Name:         name,
		Interval:     interval,
		Timeout:      defaultTaskTimeout,
		Handler:      fn,
		registeredAt: time.Now(),
	}
}

// Start launches a scheduler per periodic task. The schedulers stop when ctx
// is cancelled or Stop is called.
func (m *Manager) Start(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.started {
		return
	}
	m.started = true

	ctx, m.cancel = context.WithCancel(ctx)
	for _, task := range m.tasks {
		if task.Interval <= 0 {
			continue
		}
		m.wg.Add(1)
		go m.scheduler(ctx, task)
	}
}

// Stop cancels the schedulers and waits for running tasks to return.
func (m *Manager) Stop() {
	m.mu.Lock()
	cancel := m.cancel
	m.cancel = nil
	m.started = false
	m.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	m.wg.Wait()
}

// RunNow executes the task synchronously and returns its error.
func (m *Manager) RunNow(ctx context.Context, name string) error {
	m.mu.Lock()
	task, ok := m.tasks[name]
	m.mu.Unlock()
	if !ok {
		return TaskNotFoundError{Name: name}
	}
	return task.Run(ctx)
}

func (m *Manager) ListStatus() []TaskStatus {
	m.mu.Lock()
	defer m.mu.Unlock()

	list := make([]TaskStatus, 0, len(m.tasks))
	for _, task := range m.tasks {
		list = append(list, task.Status())
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list
}

func (m *Manager) scheduler(ctx context.Context, task *RunnableTask) {
	defer m.wg.Done()

	ticker := time.NewTicker(task.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_ = task.Run(ctx)
		}
	}
}
