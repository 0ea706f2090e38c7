package progress

import (
	"sync"

	"github.com/tarunb-0127/minilms/core/feedback"
)

// Gate decides when the end-of-course feedback form is offered:
// on the last module, as long as the learner has not left feedback.
// Once feedback is known it stays closed for the session.
type Gate struct {
	mu           sync.RWMutex
	lastModuleID int
	hasFeedback  bool
}

func NewGate() *Gate {
	return &Gate{}
}

func (g *Gate) SetLastModule(moduleID int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.lastModuleID = moduleID
}

// Observe closes the gate if feedbacks holds one from learnerID.
func (g *Gate) Observe(feedbacks []feedback.Feedback, learnerID int) {
	if !feedback.HasLearner(feedbacks, learnerID) {
		return
	}
	g.MarkSubmitted()
}

func (g *Gate) MarkSubmitted() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.hasFeedback = true
}

func (g *Gate) HasFeedback() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.hasFeedback
}

func (g *Gate) Open(selectedModuleID int) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return !g.hasFeedback && g.lastModuleID != 0 && selectedModuleID == g.lastModuleID
}
