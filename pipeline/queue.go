package pipeline

import (
	"sync"

	"github.com/mielpeeters/breaker/parameter"
)

// Queue is the bounded hand-off between the producer loop and the audio
// output. Samples travel strict FIFO, one per logical sample tick; the
// producer blocks when the queue is full, which is the sole backpressure
// pacing production to real-time consumption.
type Queue struct {
	// C delivers mixed samples to the consumer.
	C <-chan float32

	ch   chan float32
	done chan struct{}
	once sync.Once
}

func newQueue() *Queue {
	ch := make(chan float32, parameter.QueueCapacity)
	return &Queue{
		C:    ch,
		ch:   ch,
		done: make(chan struct{}),
	}
}

// Close disconnects the consumer. The next blocked or attempted send
// fails with ErrQueueClosed, terminating the producer loop.
func (q *Queue) Close() {
	q.once.Do(func() {
		close(q.done)
	})
}

// Done is closed once the consumer has disconnected.
func (q *Queue) Done() <-chan struct{} {
	return q.done
}
