package scheduler

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// JobFunc одна итерация периодической задачи
type JobFunc func(ctx context.Context) error

type job struct {
	name     string
	interval time.Duration
	fn       JobFunc
	running  atomic.Bool
}

// Scheduler запускает задачи по тикеру, пока не отменен контекст
// Если предыдущий запуск задачи еще идет, очередной тик пропускается
type Scheduler struct {
	jobs   []*job
	logger Logger
	wg     sync.WaitGroup
}

// New создает пустой планировщик
func New(logger Logger) *Scheduler {
	return &Scheduler{logger: logger}
}

// Add регистрирует задачу. Задачи с неположительным интервалом игнорируются
func (s *Scheduler) Add(name string, interval time.Duration, fn JobFunc) {
	if interval <= 0 {
		s.logger.Warn("Scheduler: job %s has non-positive interval %s, skipped", name, interval)
		return
	}
	s.jobs = append(s.jobs, &job{name: name, interval: interval, fn: fn})
}

// Start запускает по горутине на задачу и сразу возвращается
func (s *Scheduler) Start(ctx context.Context) {
	for _, j := range s.jobs {
		s.logger.Info("Scheduler: starting job %s every %s", j.name, j.interval)
		s.wg.Add(1)
		go s.loop(ctx, j)
	}
}

// Wait ждет остановки всех циклов и завершения текущих запусков
func (s *Scheduler) Wait() {
	s.wg.Wait()
}

func (s *Scheduler) loop(ctx context.Context, j *job) {
	defer s.wg.Done()

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Scheduler: job %s stopped", j.name)
			return
		case <-ticker.C:
			s.trigger(ctx, j)
		}
	}
}

// trigger запускает задачу в фоне, если она не выполняется. Возвращает false, если тик пропущен
func (s *Scheduler) trigger(ctx context.Context, j *job) bool {
	if !j.running.CompareAndSwap(false, true) {
		s.logger.Warn("Scheduler: job %s is still running, tick skipped", j.name)
		return false
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer j.running.Store(false)

		start := time.Now()
		if err := j.fn(ctx); err != nil {
			s.logger.Error("Scheduler: job %s failed after %s: %v", j.name, time.Since(start), err)
			return
		}
		s.logger.Info("Scheduler: job %s done in %s", j.name, time.Since(start))
	}()
	return true
}
