package assistant

import "time"

// Sender identifies who wrote a message.
type Sender string

const (
	User      Sender = "user"
	Assistant Sender = "assistant"
)

// Message is one entry of a session transcript.
type Message struct {
	ID     string    `json:"id"`
	Sender Sender    `json:"sender"`
	Text   string    `json:"text"`
	SentAt time.Time `json:"sent_at"`
}

// State is a point-in-time copy of a session.
type State struct {
	Messages  []Message `json:"messages"`
	Input     string    `json:"input"`
	Pending   bool      `json:"pending"`
	Listening bool      `json:"listening"`
}

// QuickAction is a preset question offered next to the input box.
type QuickAction struct {
	Label string `json:"label"`
	Icon  string `json:"icon"`
	Query string `json:"query"`
}

// Greeting opens every session.
const Greeting = "Hello! I'm your AI farming assistant. I can help you with crop management, " +
	"weather advice, pest control, and more. How can I assist you today?"

// VoiceTranscript is what the voice capture stub types into the input box.
// There is no speech recognition behind it.
const VoiceTranscript = "Help me identify pest problems in my tomato plants"

// QuickActions are the preset questions, in display order.
var QuickActions = []QuickAction{
	{Label: "Crop Health Check", Icon: "leaf", Query: "How is my crop health?"},
	{Label: "Weather Advice", Icon: "cloud", Query: "What's the weather forecast for farming?"},
	{Label: "Pest Control", Icon: "zap", Query: "Help me with pest control solutions"},
	{Label: "Fertilizer Tips", Icon: "lightbulb", Query: "What fertilizer should I use?"},
}

const (
	DefaultReplyDelay = 1500 * time.Millisecond
	DefaultVoiceDelay = 3000 * time.Millisecond
)
