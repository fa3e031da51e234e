package goroutine

import (
	"runtime/debug"

	"github.com/x-xyz/listings/base/log"
)

type PanicEvent struct {
	Panic interface{}
	Stack []byte
}

type options struct {
	name           string
	beforeStart    func()
	afterEnded     func()
	afterRecovered func(p interface{}, stack []byte)
}

type Option func(*options)

// WithName tags the panic log of the goroutine
func WithName(name string) Option {
	return func(o *options) { o.name = name }
}

func WithBeforeStart(f func()) Option {
	return func(o *options) { o.beforeStart = f }
}

func WithAfterEnded(f func()) Option {
	return func(o *options) { o.afterEnded = f }
}

func WithAfterRecovered(f func(p interface{}, stack []byte)) Option {
	return func(o *options) { o.afterRecovered = f }
}

// RecoverableGo runs f in a goroutine. The returned channel carries the panic if f panicked and is
// closed without a value otherwise.
func RecoverableGo(f func(), fns ...Option) <-chan *PanicEvent {
	opts := options{name: "anonymous"}
	for _, fn := range fns {
		fn(&opts)
	}

	panicChan := make(chan *PanicEvent, 1)
	go func() {
		defer func() {
			if opts.afterEnded != nil {
				opts.afterEnded()
			}

			if p := recover(); p != nil {
				stack := debug.Stack()
				log.Log().WithFields(log.Fields{
					"goroutine": opts.name,
					"err":       p,
					"stack":     string(stack),
				}).Error("panic")

				if opts.afterRecovered != nil {
					opts.afterRecovered(p, stack)
				}
				panicChan <- &PanicEvent{p, stack}
			}
			close(panicChan)
		}()

		if opts.beforeStart != nil {
			opts.beforeStart()
		}
		f()
	}()
	return panicChan
}
