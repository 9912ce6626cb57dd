// Package shutdown cancels in-flight work on SIGINT/SIGTERM and releases
// registered resources in reverse order.
package shutdown

import (
	"context"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"color-transfer/internal/logger"
)

const (
	component = "ShutdownManager"

	DefaultTimeout = 10 * time.Second
)

type Closer = io.Closer

// CloserFunc adapts a plain function to Closer.
type CloserFunc func() error

func (f CloserFunc) Close() error { return f() }

type Manager struct {
	mu         sync.Mutex
	components []namedCloser
	logger     logger.Logger
	timeout    time.Duration
	done       chan struct{}
	ctx        context.Context
	cancel     context.CancelFunc
	stopSignal func()
}

type namedCloser struct {
	name   string
	closer Closer
}

func NewManager(parent context.Context, log logger.Logger) *Manager {
	if log == nil {
		log = logger.Nop()
	}
	ctx, cancel := context.WithCancel(parent)

	return &Manager{
		logger:  log,
		timeout: DefaultTimeout,
		done:    make(chan struct{}),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// SetTimeout bounds how long each component may take to close.
func (m *Manager) SetTimeout(timeout time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.timeout = timeout
}

func (m *Manager) Register(name string, closer Closer) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.components = append(m.components, namedCloser{name: name, closer: closer})
}

// Listen starts shutdown on the first interrupt or termination signal.
func (m *Manager) Listen() {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	m.mu.Lock()
	m.stopSignal = func() { signal.Stop(sigChan) }
	m.mu.Unlock()

	go func() {
		select {
		case sig := <-sigChan:
			m.logger.Info(component, "shutdown signal received", map[string]interface{}{
				"signal": sig.String(),
			})
			m.Shutdown()
		case <-m.done:
		}
	}()
}

// Shutdown cancels Context and closes components newest first. Only the
// first call has any effect.
func (m *Manager) Shutdown() {
	m.mu.Lock()
	defer m.mu.Unlock()

	select {
	case <-m.done:
		return
	default:
		close(m.done)
	}

	if m.stopSignal != nil {
		m.stopSignal()
	}

	m.logger.Debug(component, "shutdown sequence initiated", map[string]interface{}{
		"components": len(m.components),
	})

	m.cancel()

	for i := len(m.components) - 1; i >= 0; i-- {
		c := m.components[i]

		errCh := make(chan error, 1)
		go func() {
			errCh <- c.closer.Close()
		}()

		select {
		case err := <-errCh:
			if err != nil {
				m.logger.Error(component, err, map[string]interface{}{
					"component": c.name,
				})
			}
		case <-time.After(m.timeout):
			m.logger.Warning(component, "component shutdown timeout", map[string]interface{}{
				"component": c.name,
			})
		}
	}
	m.components = nil

	m.logger.Debug(component, "shutdown sequence completed", nil)
}

func (m *Manager) Context() context.Context {
	return m.ctx
}

func (m *Manager) Done() <-chan struct{} {
	return m.done
}
