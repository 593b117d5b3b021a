package routing

// Action is the terminal outcome of one routing pass.
type Action string

const (
	ActionReply   Action = "reply"
	ActionSilence Action = "silence"
)

// Path records which branch of the state machine produced the decision.
type Path string

const (
	PathControl    Path = "control"    // manual-mode toggle phrase
	PathManual     Path = "manual"     // silenced by human takeover
	PathVector     Path = "vector"     // semantic knowledge matches
	PathStructured Path = "structured" // vehicle listing fallback
	PathFallback   Path = "fallback"   // canned reply, no usable context
)

// Decision is the result of routing one inbound message.
type Decision struct {
	Action    Action
	ReplyText string // present iff Action == ActionReply
	Path      Path
	Matches   int     // usable snippets on the vector path
	TopScore  float64 // best similarity on the vector path
}

// Snippet is one retrieved knowledge candidate. Score is a cosine
// similarity in [0,1] on the vector path; the structured path carries none.
type Snippet struct {
	Text  string
	Score float64
}
