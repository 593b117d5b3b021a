package routing

import (
	"context"
	"strings"

	"car-support-be/internal/pkg/logger"
	"car-support-be/pkg/embedding"
	"car-support-be/pkg/llm"
	"car-support-be/pkg/routing/prompt"
	"car-support-be/pkg/routing/session"
	"car-support-be/pkg/store"
)

// VectorSearcher returns ranked knowledge snippets for a query vector.
type VectorSearcher interface {
	Search(ctx context.Context, vector []float32, topK int) ([]Snippet, error)
}

// StructuredSearcher performs a keyword lookup against the vehicle listing
// store and renders matches into text blocks. found is false when no record
// matches.
type StructuredSearcher interface {
	Lookup(ctx context.Context, query string) (text string, found bool, err error)
}

// Config holds the tunable parameters of the router. Zero values fall back
// to the operational defaults.
type Config struct {
	TopK           int
	ScoreThreshold float64
	HistoryLimit   int

	Marker        string
	FallbackReply string

	ManualOnPhrase  string
	ManualOffPhrase string
	ManualOnAck     string // empty means the toggle happens silently
	ManualOffAck    string

	PrimarySystemPrompt    string
	StructuredSystemPrompt string
}

// Router decides, per inbound message, whether to answer automatically or
// stay silent, and produces the policy-compliant reply text.
//
// External gateways (embedding, vector search, structured lookup,
// completion) are all treated as fallible: a retrieval failure degrades to
// "no matches" and falls through to the next tier, a completion failure
// degrades to the canned fallback. The customer never sees a raw error.
type Router struct {
	cfg        Config
	sessions   *session.Manager
	embedder   embedding.Provider
	vector     VectorSearcher
	structured StructuredSearcher
	llm        llm.Provider
	logger     logger.ILogger
}

func NewRouter(
	cfg Config,
	sessions *session.Manager,
	embedder embedding.Provider,
	vector VectorSearcher,
	structured StructuredSearcher,
	llmProvider llm.Provider,
	log logger.ILogger,
) *Router {
	if cfg.TopK <= 0 {
		cfg.TopK = 5
	}
	if cfg.ScoreThreshold <= 0 {
		cfg.ScoreThreshold = 0.2
	}
	return &Router{
		cfg:        cfg,
		sessions:   sessions,
		embedder:   embedder,
		vector:     vector,
		structured: structured,
		llm:        llmProvider,
		logger:     log,
	}
}

// Sessions exposes the session manager for callers that need to inspect
// state (operator endpoints, tests).
func (r *Router) Sessions() *session.Manager {
	return r.sessions
}

// Route runs one message through the state machine. The whole pass holds
// the user's session lock, so messages from the same user are handled in
// arrival order while distinct users proceed in parallel.
func (r *Router) Route(ctx context.Context, userID, text string) Decision {
	query := strings.TrimSpace(text)

	r.sessions.Lock(userID)
	defer r.sessions.Unlock(userID)

	// The inbound message is recorded regardless of which branch wins, so
	// a human operator reading the transcript sees the full exchange.
	r.sessions.AppendMessage(userID, store.RoleUser, query)

	switch query {
	case r.cfg.ManualOnPhrase:
		r.sessions.SetManualMode(userID, true)
		r.logger.Info("Router", "Manual mode enabled", map[string]interface{}{"user_id": userID})
		return r.ackDecision(userID, r.cfg.ManualOnAck)
	case r.cfg.ManualOffPhrase:
		r.sessions.SetManualMode(userID, false)
		r.logger.Info("Router", "Manual mode disabled", map[string]interface{}{"user_id": userID})
		return r.ackDecision(userID, r.cfg.ManualOffAck)
	}

	if r.sessions.IsManualMode(userID) {
		return Decision{Action: ActionSilence, Path: PathManual}
	}

	return r.answer(ctx, userID, query)
}

func (r *Router) ackDecision(userID, ack string) Decision {
	if ack == "" {
		return Decision{Action: ActionSilence, Path: PathControl}
	}
	r.sessions.AppendMessage(userID, store.RoleAssistant, ack)
	return Decision{Action: ActionReply, ReplyText: ack, Path: PathControl}
}

// answer runs the two-tier retrieval and the completion call.
func (r *Router) answer(ctx context.Context, userID, query string) Decision {
	contextText, path, matches, topScore := r.retrieveContext(ctx, query)

	if path == PathFallback {
		// No usable context on either tier: canned reply, no completion call.
		r.sessions.AppendMessage(userID, store.RoleAssistant, r.cfg.FallbackReply)
		return Decision{Action: ActionReply, ReplyText: r.cfg.FallbackReply, Path: PathFallback}
	}

	systemPrompt := r.cfg.PrimarySystemPrompt
	if path == PathStructured {
		systemPrompt = r.cfg.StructuredSystemPrompt
	}

	history := r.sessions.History(userID)
	messages := prompt.NewBuilder(systemPrompt, history, query, contextText).Build()

	answer, err := r.llm.Chat(ctx, messages)
	if err != nil {
		r.logger.Error("Router", "Completion failed, degrading to fallback", map[string]interface{}{
			"user_id": userID,
			"error":   err.Error(),
		})
		answer = r.cfg.FallbackReply
	} else {
		answer = EnsureMarker(r.cfg.Marker, answer)
	}

	// The assistant turn enters the window only once the reply is final.
	r.sessions.AppendMessage(userID, store.RoleAssistant, answer)

	return Decision{
		Action:    ActionReply,
		ReplyText: answer,
		Path:      path,
		Matches:   matches,
		TopScore:  topScore,
	}
}

// retrieveContext walks the two retrieval tiers. Failures on any tier are
// logged and treated as "no matches"; they never surface to the caller.
func (r *Router) retrieveContext(ctx context.Context, query string) (string, Path, int, float64) {
	if vector, err := r.embedder.Generate(ctx, query); err != nil {
		r.logger.Warn("Router", "Embedding failed, skipping vector tier", map[string]interface{}{"error": err.Error()})
	} else {
		snippets, err := r.vector.Search(ctx, vector, r.cfg.TopK)
		if err != nil {
			r.logger.Warn("Router", "Vector search failed, skipping vector tier", map[string]interface{}{"error": err.Error()})
		} else {
			kept := make([]string, 0, len(snippets))
			topScore := 0.0
			for _, s := range snippets {
				if s.Score >= r.cfg.ScoreThreshold {
					kept = append(kept, s.Text)
					if s.Score > topScore {
						topScore = s.Score
					}
				}
			}
			if len(kept) > 0 {
				return strings.Join(kept, "\n"), PathVector, len(kept), topScore
			}
		}
	}

	text, found, err := r.structured.Lookup(ctx, query)
	if err != nil {
		r.logger.Warn("Router", "Structured lookup failed", map[string]interface{}{"error": err.Error()})
	} else if found {
		return text, PathStructured, 0, 0
	}

	return "", PathFallback, 0, 0
}

// EnsureMarker prepends the identity marker unless the text already starts
// with it. Applying it twice yields the same string as applying it once.
func EnsureMarker(marker, text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, marker) {
		text = marker + text
	}
	return text
}
