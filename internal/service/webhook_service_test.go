package service

import (
	"context"
	"errors"
	"testing"

	"car-support-be/internal/constant"
	"car-support-be/internal/entity"
	"car-support-be/internal/pkg/logger"
	"car-support-be/internal/repository/contract"
	"car-support-be/internal/repository/memory"
	"car-support-be/internal/repository/specification"
	"car-support-be/internal/repository/unitofwork"
	"car-support-be/pkg/events"
	"car-support-be/pkg/line"
	"car-support-be/pkg/llm"
	"car-support-be/pkg/routing"
	"car-support-be/pkg/routing/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- fakes ---

type fakeChatLogRepo struct {
	rows []*entity.ChatLog
	err  error
}

func (f *fakeChatLogRepo) Create(ctx context.Context, log *entity.ChatLog) error {
	if f.err != nil {
		return f.err
	}
	f.rows = append(f.rows, log)
	return nil
}

func (f *fakeChatLogRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatLog, error) {
	return f.rows, nil
}

func (f *fakeChatLogRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return int64(len(f.rows)), nil
}

type fakeUow struct {
	chatLogs *fakeChatLogRepo
}

func (f *fakeUow) Begin(ctx context.Context) error { return nil }
func (f *fakeUow) Commit() error                   { return nil }
func (f *fakeUow) Rollback() error                 { return nil }
func (f *fakeUow) KnowledgeEmbeddingRepository() contract.KnowledgeEmbeddingRepository {
	return nil
}
func (f *fakeUow) VehicleListingRepository() contract.VehicleListingRepository { return nil }
func (f *fakeUow) ChatLogRepository() contract.ChatLogRepository              { return f.chatLogs }

type fakeUowFactory struct {
	uow *fakeUow
}

func (f *fakeUowFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork { return f.uow }

type fakeReplier struct {
	tokens []string
	texts  []string
	err    error
}

func (f *fakeReplier) ReplyText(ctx context.Context, replyToken string, text string) error {
	if f.err != nil {
		return f.err
	}
	f.tokens = append(f.tokens, replyToken)
	f.texts = append(f.texts, text)
	return nil
}

type fakeBus struct {
	published []events.Event
}

func (f *fakeBus) Publish(ctx context.Context, event events.Event) error {
	f.published = append(f.published, event)
	return nil
}

type stubEmbedder struct{}

func (stubEmbedder) Generate(ctx context.Context, text string) ([]float32, error) {
	return []float32{0.1, 0.2}, nil
}

type stubVector struct {
	snippets []routing.Snippet
}

func (s stubVector) Search(ctx context.Context, vector []float32, topK int) ([]routing.Snippet, error) {
	return s.snippets, nil
}

type stubStructured struct{}

func (stubStructured) Lookup(ctx context.Context, query string) (string, bool, error) {
	return "", false, nil
}

type routerLLM struct {
	reply string
}

func (s routerLLM) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	return s.reply, nil
}

// --- helpers ---

func textEvent(userId, text string) line.Event {
	return line.Event{
		Type:       line.EventTypeMessage,
		ReplyToken: "rt-" + userId,
		Source:     line.EventSource{Type: "user", UserId: userId},
		Message:    line.EventMessage{Id: "m1", Type: line.MessageTypeText, Text: text},
	}
}

func newTestService(t *testing.T, vector stubVector, llmReply string) (IWebhookService, *fakeReplier, *fakeBus, *fakeChatLogRepo) {
	t.Helper()

	chatLogs := &fakeChatLogRepo{}
	factory := &fakeUowFactory{uow: &fakeUow{chatLogs: chatLogs}}
	replier := &fakeReplier{}
	bus := &fakeBus{}

	sessions := session.NewManager(memory.NewSessionRepository(), constant.DefaultHistoryLimit)
	router := routing.NewRouter(
		routing.Config{
			Marker:                 constant.ReplyMarker,
			FallbackReply:          constant.FallbackReply,
			ManualOnPhrase:         constant.ManualModeOnPhrase,
			ManualOffPhrase:        constant.ManualModeOffPhrase,
			ManualOnAck:            constant.ManualModeOnAck,
			ManualOffAck:           constant.ManualModeOffAck,
			PrimarySystemPrompt:    constant.PrimarySystemPrompt,
			StructuredSystemPrompt: constant.StructuredSystemPrompt,
		},
		sessions,
		stubEmbedder{},
		vector,
		stubStructured{},
		routerLLM{reply: llmReply},
		logger.NewNopLogger(),
	)

	svc := NewWebhookService(
		router,
		replier,
		factory,
		bus,
		constant.ManualModeOnPhrase,
		constant.ManualModeOffPhrase,
		logger.NewNopLogger(),
	)
	return svc, replier, bus, chatLogs
}

// --- tests ---

func TestHandleEventRepliesAndPersists(t *testing.T) {
	vector := stubVector{snippets: []routing.Snippet{{Text: "CR-V 78萬", Score: 0.9}}}
	svc, replier, bus, chatLogs := newTestService(t, vector, "CR-V 目前售價78萬")

	err := svc.HandleEvent(context.Background(), textEvent("U123", "CR-V多少錢"))
	require.NoError(t, err)

	require.Len(t, replier.texts, 1)
	assert.Equal(t, "rt-U123", replier.tokens[0])
	assert.Equal(t, constant.ReplyMarker+"CR-V 目前售價78萬", replier.texts[0])

	// One user row and one assistant row
	require.Len(t, chatLogs.rows, 2)
	assert.Equal(t, "user", chatLogs.rows[0].Role)
	assert.Equal(t, "CR-V多少錢", chatLogs.rows[0].Content)
	assert.Equal(t, "assistant", chatLogs.rows[1].Role)
	assert.Equal(t, "vector", chatLogs.rows[1].Metadata["path"])

	// Both turns reach the operator bus
	require.Len(t, bus.published, 2)
	assert.Equal(t, events.TypeTranscriptMessage, bus.published[0].EventType())
	assert.Equal(t, events.TypeTranscriptMessage, bus.published[1].EventType())
}

func TestHandleEventManualTakeover(t *testing.T) {
	svc, replier, bus, chatLogs := newTestService(t, stubVector{}, "unused")

	err := svc.HandleEvent(context.Background(), textEvent("U456", constant.ManualModeOnPhrase))
	require.NoError(t, err)

	// Ack reply goes out, then the user message while in manual mode is silent.
	require.Len(t, replier.texts, 1)
	assert.Equal(t, constant.ManualModeOnAck, replier.texts[0])

	var types []string
	for _, ev := range bus.published {
		types = append(types, ev.EventType())
	}
	assert.Contains(t, types, events.TypeTakeoverStarted)

	err = svc.HandleEvent(context.Background(), textEvent("U456", "請幫我處理"))
	require.NoError(t, err)
	assert.Len(t, replier.texts, 1, "no bot reply while an operator owns the conversation")

	// The silent message is still in the transcript.
	assert.Equal(t, "請幫我處理", chatLogs.rows[len(chatLogs.rows)-1].Content)
}

func TestHandleEventTakeoverRoundTrip(t *testing.T) {
	svc, replier, bus, _ := newTestService(t, stubVector{}, "unused")
	ctx := context.Background()

	require.NoError(t, svc.HandleEvent(ctx, textEvent("U789", constant.ManualModeOnPhrase)))
	require.NoError(t, svc.HandleEvent(ctx, textEvent("U789", constant.ManualModeOffPhrase)))

	var types []string
	for _, ev := range bus.published {
		types = append(types, ev.EventType())
	}
	assert.Contains(t, types, events.TypeTakeoverStarted)
	assert.Contains(t, types, events.TypeTakeoverEnded)

	// After ending manual mode, the bot answers again (fallback here since
	// retrieval is empty).
	require.NoError(t, svc.HandleEvent(ctx, textEvent("U789", "還有車嗎")))
	assert.Equal(t, constant.FallbackReply, replier.texts[len(replier.texts)-1])
}

func TestHandleEventIgnoresNonText(t *testing.T) {
	svc, replier, bus, chatLogs := newTestService(t, stubVector{}, "unused")

	sticker := line.Event{
		Type:    line.EventTypeMessage,
		Source:  line.EventSource{UserId: "U1"},
		Message: line.EventMessage{Type: "sticker"},
	}
	follow := line.Event{Type: "follow", Source: line.EventSource{UserId: "U1"}}

	require.NoError(t, svc.HandleEvent(context.Background(), sticker))
	require.NoError(t, svc.HandleEvent(context.Background(), follow))

	assert.Empty(t, replier.texts)
	assert.Empty(t, bus.published)
	assert.Empty(t, chatLogs.rows)
}

func TestHandleEventReplyFailureSurfaces(t *testing.T) {
	vector := stubVector{snippets: []routing.Snippet{{Text: "snippet", Score: 0.9}}}
	svc, replier, _, chatLogs := newTestService(t, vector, "answer")
	replier.err = errors.New("line api down")

	err := svc.HandleEvent(context.Background(), textEvent("U1", "問題"))
	require.Error(t, err)

	// The user turn is persisted, the undelivered assistant turn is not.
	require.Len(t, chatLogs.rows, 1)
	assert.Equal(t, "user", chatLogs.rows[0].Role)
}
