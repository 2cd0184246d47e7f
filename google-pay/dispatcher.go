package gpay

import (
	"sync"

	"github.com/pkg/errors"
)

// ResultHandler consumes a host result addressed to its request code
type ResultHandler func(resultCode int, data *ResultData) error

// Dispatcher routes host results to the handler registered for the request code
type Dispatcher struct {
	handlers map[int]ResultHandler
	mu       sync.RWMutex
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{handlers: make(map[int]ResultHandler)}
}

func (d *Dispatcher) Register(requestCode int, handler ResultHandler) error {
	if handler == nil {
		return errors.New("handler is nil")
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.handlers[requestCode]; ok {
		return errors.Errorf("handler for request code %#x already registered", requestCode)
	}
	d.handlers[requestCode] = handler
	return nil
}

func (d *Dispatcher) Unregister(requestCode int) {
	d.mu.Lock()
	delete(d.handlers, requestCode)
	d.mu.Unlock()
}

// Dispatch reports whether a handler for the request code exists and returns its error
func (d *Dispatcher) Dispatch(requestCode int, resultCode int, data *ResultData) (bool, error) {
	d.mu.RLock()
	handler, ok := d.handlers[requestCode]
	d.mu.RUnlock()
	if !ok {
		return false, nil
	}
	return true, handler(resultCode, data)
}
