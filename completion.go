package staging

import (
	"github.com/sirupsen/logrus"
)

// CompletionQueue bridges the execution environment's "work unit finished"
// notifications to the tracker. Completion callbacks fire on arbitrary threads; they
// enqueue here and a single run loop performs the clears.
//
type CompletionQueue struct {
	tracker *TokenTracker
	queue   chan Token
	done    chan struct{}
}

func NewCompletionQueue(tracker *TokenTracker, queueLen int) *CompletionQueue {
	cq := &CompletionQueue{
		tracker: tracker,
		queue:   make(chan Token, queueLen),
		done:    make(chan struct{}),
	}
	go cq.run()
	return cq
}

// Complete notifies that token's work unit has finished. Call once per token.
//
func (self *CompletionQueue) Complete(token Token) {
	self.queue <- token
}

// Close drains outstanding completions and stops the run loop. After Close returns,
// every signaled token has been cleared.
//
func (self *CompletionQueue) Close() {
	close(self.queue)
	<-self.done
}

func (self *CompletionQueue) run() {
	logrus.Debugf("started")
	defer logrus.Debugf("exited")
	defer close(self.done)

	for token := range self.queue {
		self.tracker.Clear(token)
	}
}
