//go:build !production

package testutil

import (
	"sync"
	"time"
)

// ManualScheduler 手动触发的调度器，测试中代替 time.AfterFunc
type ManualScheduler struct {
	mu     sync.Mutex
	tasks  map[string]func()
	delays map[string]time.Duration
}

// NewManualScheduler 创建 ManualScheduler
func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{
		tasks:  make(map[string]func()),
		delays: make(map[string]time.Duration),
	}
}

func (s *ManualScheduler) Schedule(key string, delay time.Duration, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks[key] = fn
	s.delays[key] = delay
}

func (s *ManualScheduler) Cancel(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tasks, key)
	delete(s.delays, key)
}

func (s *ManualScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.tasks)
	clear(s.delays)
}

// Pending key 上是否有待执行的任务
func (s *ManualScheduler) Pending(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.tasks[key]
	return ok
}

// Delay 返回 key 上任务的延时
func (s *ManualScheduler) Delay(key string) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.delays[key]
}

// Fire 立即执行 key 上的任务，没有任务时返回 false
func (s *ManualScheduler) Fire(key string) bool {
	s.mu.Lock()
	fn, ok := s.tasks[key]
	delete(s.tasks, key)
	delete(s.delays, key)
	s.mu.Unlock()

	if ok {
		fn()
	}
	return ok
}

// Take 取出 key 上的任务但不执行，用于模拟过期的定时器
func (s *ManualScheduler) Take(key string) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn := s.tasks[key]
	delete(s.tasks, key)
	delete(s.delays, key)
	return fn
}
