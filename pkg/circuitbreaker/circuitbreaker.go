// Package circuitbreaker 熔断器
//
// 状态转换:
//
//	Closed --连续失败达到阈值--> Open --Timeout到期--> HalfOpen
//	HalfOpen --探测成功--> Closed
//	HalfOpen --探测失败--> Open
//
// Open状态下Execute直接返回ErrOpenState,不调用被保护的函数。
package circuitbreaker

import (
	"errors"
	"sync"
	"time"
)

// State 熔断器状态
type State int

const (
	StateClosed State = iota
	StateOpen
	StateHalfOpen
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// ErrOpenState 熔断器打开,请求被拒绝
var ErrOpenState = errors.New("circuit breaker is open")

// Settings 熔断器配置
type Settings struct {
	// Name 名称,出现在状态变化回调中
	Name string

	// MaxFailures 连续失败多少次后打开,默认5
	MaxFailures uint32

	// Timeout Open状态持续时间,到期后进入HalfOpen,默认10s
	Timeout time.Duration

	// MaxProbes HalfOpen状态允许同时通过的探测请求数,默认1
	MaxProbes uint32

	// IsFailure 判断错误是否计为失败,默认非nil即失败
	IsFailure func(err error) bool

	// OnStateChange 状态变化回调(持锁调用,不要在回调中访问熔断器)
	OnStateChange func(name string, from, to State)
}

// Counts 当前状态下的统计
type Counts struct {
	Requests            uint32
	Failures            uint32
	ConsecutiveFailures uint32
}

// CircuitBreaker 熔断器,并发安全
type CircuitBreaker struct {
	settings Settings

	mu         sync.Mutex
	state      State
	generation uint64
	counts     Counts
	openUntil  time.Time
	now        func() time.Time
}

// New 创建熔断器,初始状态为Closed
func New(s Settings) *CircuitBreaker {
	if s.MaxFailures == 0 {
		s.MaxFailures = 5
	}
	if s.Timeout <= 0 {
		s.Timeout = 10 * time.Second
	}
	if s.MaxProbes == 0 {
		s.MaxProbes = 1
	}
	if s.IsFailure == nil {
		s.IsFailure = func(err error) bool { return err != nil }
	}
	return &CircuitBreaker{settings: s, now: time.Now}
}

// Execute 在熔断器保护下执行fn
// 熔断器打开时不执行fn,返回ErrOpenState
func (cb *CircuitBreaker) Execute(fn func() error) error {
	generation, err := cb.before()
	if err != nil {
		return err
	}

	err = fn()
	cb.after(generation, cb.settings.IsFailure(err))
	return err
}

// State 当前状态
func (cb *CircuitBreaker) State() State {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	state, _ := cb.current()
	return state
}

// Counts 当前状态下的统计
func (cb *CircuitBreaker) Counts() Counts {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	return cb.counts
}

func (cb *CircuitBreaker) before() (uint64, error) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	state, generation := cb.current()
	switch {
	case state == StateOpen:
		return generation, ErrOpenState
	case state == StateHalfOpen && cb.counts.Requests >= cb.settings.MaxProbes:
		return generation, ErrOpenState
	}

	cb.counts.Requests++
	return generation, nil
}

func (cb *CircuitBreaker) after(generation uint64, failed bool) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	state, current := cb.current()
	// 执行期间状态已经切换,结果属于上一代,丢弃
	if current != generation {
		return
	}

	if !failed {
		cb.counts.ConsecutiveFailures = 0
		if state == StateHalfOpen {
			cb.setState(StateClosed)
		}
		return
	}

	cb.counts.Failures++
	cb.counts.ConsecutiveFailures++
	switch state {
	case StateClosed:
		if cb.counts.ConsecutiveFailures >= cb.settings.MaxFailures {
			cb.setState(StateOpen)
		}
	case StateHalfOpen:
		cb.setState(StateOpen)
	}
}

// current 返回当前状态,Open到期时切换为HalfOpen
func (cb *CircuitBreaker) current() (State, uint64) {
	if cb.state == StateOpen && !cb.now().Before(cb.openUntil) {
		cb.setState(StateHalfOpen)
	}
	return cb.state, cb.generation
}

func (cb *CircuitBreaker) setState(to State) {
	if cb.state == to {
		return
	}

	from := cb.state
	cb.state = to
	cb.generation++
	cb.counts = Counts{}
	if to == StateOpen {
		cb.openUntil = cb.now().Add(cb.settings.Timeout)
	}

	if cb.settings.OnStateChange != nil {
		cb.settings.OnStateChange(cb.settings.Name, from, to)
	}
}
