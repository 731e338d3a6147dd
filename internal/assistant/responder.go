package assistant

import (
	"math/rand/v2"
	"sync"
)

// Responder produces the assistant's reply to a user message.
type Responder interface {
	Respond(prompt string) string
}

// CannedResponses are the fixed replies the simulated assistant picks from.
var CannedResponses = []string{
	"Based on your location and crop type, I recommend checking for aphids during this season. Here are some organic solutions...",
	"The weather looks good for the next 3 days with moderate rainfall. This is perfect timing for your irrigation schedule.",
	"For your tomato crop, I suggest using organic neem oil spray. Apply it early morning or evening for best results.",
	"Your soil analysis indicates low nitrogen levels. Consider using compost or organic fertilizer in the next few days.",
}

// CannedResponder ignores the prompt and picks one of its responses
// uniformly at random.
type CannedResponder struct {
	mu        sync.Mutex
	rng       *rand.Rand
	responses []string
}

// NewCannedResponder returns a responder over CannedResponses.
// A nil rng uses a randomly seeded source.
func NewCannedResponder(rng *rand.Rand) *CannedResponder {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &CannedResponder{rng: rng, responses: CannedResponses}
}

func (c *CannedResponder) Respond(string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.responses[c.rng.IntN(len(c.responses))]
}
