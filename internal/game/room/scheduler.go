package room

import (
	"sync"
	"time"
)

// Scheduler 按房间号管理延时任务，同一个 key 同时只保留一个任务
type Scheduler interface {
	Schedule(key string, delay time.Duration, fn func())
	Cancel(key string)
	Stop()
}

// TimerScheduler 基于 time.AfterFunc 的调度器
type TimerScheduler struct {
	timers map[string]*time.Timer
	mu     sync.Mutex
}

// NewTimerScheduler 创建调度器
func NewTimerScheduler() *TimerScheduler {
	return &TimerScheduler{timers: make(map[string]*time.Timer)}
}

// Schedule 在 delay 之后执行 fn，替换同一 key 上尚未执行的任务
func (s *TimerScheduler) Schedule(key string, delay time.Duration, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if old, ok := s.timers[key]; ok {
		old.Stop()
	}

	var t *time.Timer
	t = time.AfterFunc(delay, func() {
		s.mu.Lock()
		current := s.timers[key] == t
		if current {
			delete(s.timers, key)
		}
		s.mu.Unlock()

		if current {
			fn()
		}
	})
	s.timers[key] = t
}

// Cancel 取消 key 上尚未执行的任务
func (s *TimerScheduler) Cancel(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t, ok := s.timers[key]; ok {
		t.Stop()
		delete(s.timers, key)
	}
}

// Stop 取消所有任务
func (s *TimerScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key, t := range s.timers {
		t.Stop()
		delete(s.timers, key)
	}
}

// Pending 尚未执行的任务数
func (s *TimerScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}
