package voice

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/fieldpulse/fieldcrm-backend-go/internal/domain/attendance"
	"github.com/fieldpulse/fieldcrm-backend-go/internal/domain/profile"
	"github.com/fieldpulse/fieldcrm-backend-go/internal/domain/reminder"
	"github.com/fieldpulse/fieldcrm-backend-go/internal/domain/report"
	"github.com/fieldpulse/fieldcrm-backend-go/internal/domain/user"
	"github.com/fieldpulse/fieldcrm-backend-go/internal/pkg/audio"
	"github.com/fieldpulse/fieldcrm-backend-go/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTransport struct {
	mu       sync.Mutex
	sent     []ClientMessage
	sendErr  error
	incoming chan ServerMessage
	closed   chan struct{}
	once     sync.Once
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{
		incoming: make(chan ServerMessage, 16),
		closed:   make(chan struct{}),
	}
}

func (t *fakeTransport) Send(msg ClientMessage) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.sendErr != nil {
		return t.sendErr
	}
	t.sent = append(t.sent, msg)
	return nil
}

func (t *fakeTransport) Receive() (ServerMessage, error) {
	select {
	case msg := <-t.incoming:
		return msg, nil
	case <-t.closed:
		return ServerMessage{}, errors.New("transport closed")
	}
}

func (t *fakeTransport) Close() error {
	t.once.Do(func() { close(t.closed) })
	return nil
}

func (t *fakeTransport) sentMessages() []ClientMessage {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]ClientMessage, len(t.sent))
	copy(out, t.sent)
	return out
}

type fakeDialer struct {
	transport *fakeTransport
	setup     SetupMessage
	apiKey    string
	err       error
}

func (d *fakeDialer) Dial(ctx context.Context, apiKey string, setup SetupMessage) (Transport, error) {
	d.apiKey = apiKey
	d.setup = setup
	if d.err != nil {
		return nil, d.err
	}
	return d.transport, nil
}

type fakeAttendance struct {
	checkoutErr  error
	interactions []string
}

func (f *fakeAttendance) AddInteraction(ctx context.Context, userID, location, customerName, summary string) error {
	f.interactions = append(f.interactions, location+"/"+customerName)
	return nil
}

func (f *fakeAttendance) FinalizeCheckout(ctx context.Context, userID string) (attendance.AttendanceDay, error) {
	if f.checkoutErr != nil {
		return attendance.AttendanceDay{}, f.checkoutErr
	}
	return attendance.AttendanceDay{UserID: userID, Date: "2026-09-01"}, nil
}

func (f *fakeAttendance) TodayContext(ctx context.Context, userID string) (attendance.TodayContext, error) {
	return attendance.TodayContext{Date: "2026-09-01", CheckedIn: true}, nil
}

type fakeReminders struct{ created []reminder.CreateRequest }

func (f *fakeReminders) Create(ctx context.Context, userID string, req reminder.CreateRequest) (reminder.Reminder, error) {
	f.created = append(f.created, req)
	return reminder.Reminder{ID: "rem-1", UserID: userID, Title: req.Title}, nil
}

type fakeContacts struct{ added []profile.AddCustomerRequest }

func (f *fakeContacts) AddCustomer(ctx context.Context, userID string, req profile.AddCustomerRequest) error {
	f.added = append(f.added, req)
	return nil
}

type fakeReports struct{}

func (f *fakeReports) Create(ctx context.Context, actor user.Actor, req report.CreateRequest) (report.ManagementReport, error) {
	return report.ManagementReport{ID: 1, Title: req.Title, AuthorID: actor.ID}, nil
}

func (f *fakeReports) SalesIntelligence(ctx context.Context, actor user.Actor) (report.SalesIntelligence, error) {
	return report.SalesIntelligence{TotalDeals: 3}, nil
}

func newTestService(t *testing.T, transport *fakeTransport, att *fakeAttendance, now func() time.Time) (*Service, *fakeDialer, string) {
	t.Helper()

	profiles := memory.NewProfileRepository()
	p, err := profiles.Create(context.Background(), profile.UserProfile{
		Email:    "rep@fieldpulse.io",
		Name:     "Dewi",
		Role:     user.RoleUser,
		Approved: true,
	})
	require.NoError(t, err)

	if att == nil {
		att = &fakeAttendance{}
	}
	dispatcher := NewToolDispatcher(att, &fakeReminders{}, &fakeContacts{}, &fakeReports{})
	dialer := &fakeDialer{transport: transport}
	svc := NewVoiceService(profiles, dispatcher, dialer, "default-key", now)
	return svc, dialer, p.ID
}

func waitForChunks(t *testing.T, sess *Session, n int) []OutputEvent {
	t.Helper()

	var chunks []OutputEvent
	deadline := time.After(2 * time.Second)
	for len(chunks) < n {
		select {
		case ev := <-sess.Output():
			if ev.Chunk != nil {
				chunks = append(chunks, ev)
			}
		case <-deadline:
			t.Fatalf("timed out waiting for %d chunks, got %d", n, len(chunks))
		}
	}
	return chunks
}

func TestOpenDeclaresGrammarAndRole(t *testing.T) {
	transport := newFakeTransport()
	svc, dialer, userID := newTestService(t, transport, nil, nil)

	sess, err := svc.Open(context.Background(), userID)
	require.NoError(t, err)
	defer sess.Close(nil)

	assert.Equal(t, StateListening, sess.State())
	assert.Equal(t, "default-key", dialer.apiKey)
	assert.Equal(t, audio.InputSampleRate, dialer.setup.InputSampleRate)
	assert.Contains(t, dialer.setup.SystemInstruction, "role: user")

	names := make([]string, 0, len(dialer.setup.Tools))
	for _, decl := range dialer.setup.Tools {
		names = append(names, decl.Name)
	}
	assert.ElementsMatch(t, []string{
		ToolAddInteraction, ToolAddReminder, ToolCreateNewContact,
		ToolFinalizeCheckout, ToolGetTodayContext,
		ToolSalesIntelligence, ToolSaveManagementRept,
	}, names)
}

func TestOpenUsesProfileKeyOverride(t *testing.T) {
	transport := newFakeTransport()
	profiles := memory.NewProfileRepository()
	p, err := profiles.Create(context.Background(), profile.UserProfile{
		Email:       "rep@fieldpulse.io",
		Name:        "Dewi",
		Role:        user.RoleUser,
		Approved:    true,
		VoiceAPIKey: "personal-key",
	})
	require.NoError(t, err)

	dialer := &fakeDialer{transport: transport}
	svc := NewVoiceService(profiles, NewToolDispatcher(&fakeAttendance{}, &fakeReminders{}, &fakeContacts{}, &fakeReports{}), dialer, "default-key", nil)

	sess, err := svc.Open(context.Background(), p.ID)
	require.NoError(t, err)
	defer sess.Close(nil)

	assert.Equal(t, "personal-key", dialer.apiKey)
}

func TestOpenRejectsUnapprovedAccount(t *testing.T) {
	transport := newFakeTransport()
	profiles := memory.NewProfileRepository()
	p, err := profiles.Create(context.Background(), profile.UserProfile{
		Email: "new@fieldpulse.io",
		Name:  "Baru",
		Role:  user.RoleUser,
	})
	require.NoError(t, err)

	svc := NewVoiceService(profiles, NewToolDispatcher(&fakeAttendance{}, &fakeReminders{}, &fakeContacts{}, &fakeReports{}), &fakeDialer{transport: transport}, "k", nil)

	_, err = svc.Open(context.Background(), p.ID)
	assert.ErrorIs(t, err, profile.ErrNotApproved)
}

func TestOpenDialFailureLeavesNoSession(t *testing.T) {
	svc, dialer, userID := newTestService(t, newFakeTransport(), nil, nil)
	dialer.err = errors.New("handshake refused")

	sess, err := svc.Open(context.Background(), userID)
	assert.Error(t, err)
	assert.Nil(t, sess)
}

func TestToolResultsPreserveCallOrderAndGateRoles(t *testing.T) {
	transport := newFakeTransport()
	svc, _, userID := newTestService(t, transport, nil, nil)

	sess, err := svc.Open(context.Background(), userID)
	require.NoError(t, err)
	defer sess.Close(nil)

	transport.incoming <- ServerMessage{ToolCall: &ToolCall{FunctionCalls: []FunctionCall{
		{ID: "call-1", Name: ToolGetTodayContext},
		{ID: "call-2", Name: ToolSalesIntelligence},
		{ID: "call-3", Name: ToolFinalizeCheckout},
	}}}

	var resp *ToolResponse
	require.Eventually(t, func() bool {
		for _, msg := range transport.sentMessages() {
			if msg.ToolResponse != nil {
				resp = msg.ToolResponse
				return true
			}
		}
		return false
	}, 2*time.Second, 10*time.Millisecond)

	require.Len(t, resp.Results, 3)
	assert.Equal(t, "call-1", resp.Results[0].CallID)
	assert.Equal(t, "call-2", resp.Results[1].CallID)
	assert.Equal(t, "call-3", resp.Results[2].CallID)

	assert.NotNil(t, resp.Results[0].Payload)
	require.NotNil(t, resp.Results[1].Refusal, "rep must be refused sales intelligence")
	assert.Nil(t, resp.Results[1].Error)
	assert.NotNil(t, resp.Results[2].Payload)

	// A refusal is a result, not a failure: the session stays up.
	assert.NotEqual(t, StateClosed, sess.State())
	assert.NotEqual(t, StateError, sess.State())
}

func TestStoreErrorBecomesToolResult(t *testing.T) {
	transport := newFakeTransport()
	att := &fakeAttendance{checkoutErr: attendance.ErrNotCheckedIn}
	svc, _, userID := newTestService(t, transport, att, nil)

	sess, err := svc.Open(context.Background(), userID)
	require.NoError(t, err)
	defer sess.Close(nil)

	transport.incoming <- ServerMessage{ToolCall: &ToolCall{FunctionCalls: []FunctionCall{
		{ID: "call-1", Name: ToolFinalizeCheckout},
	}}}

	require.Eventually(t, func() bool {
		for _, msg := range transport.sentMessages() {
			if msg.ToolResponse != nil {
				require.Len(t, msg.ToolResponse.Results, 1)
				assert.NotNil(t, msg.ToolResponse.Results[0].Error)
				return true
			}
		}
		return false
	}, 2*time.Second, 10*time.Millisecond)

	assert.NotEqual(t, StateError, sess.State())
	assert.NotEqual(t, StateClosed, sess.State())
}

func TestAudioChunksScheduleGapFree(t *testing.T) {
	t0 := time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)
	transport := newFakeTransport()
	svc, _, userID := newTestService(t, transport, nil, func() time.Time { return t0 })

	sess, err := svc.Open(context.Background(), userID)
	require.NoError(t, err)
	defer sess.Close(nil)

	// 0.5s, 0.3s and 0.2s of 24kHz audio arriving in a burst.
	for _, secs := range []float64{0.5, 0.3, 0.2} {
		samples := make([]float32, int(secs*audio.OutputSampleRate))
		transport.incoming <- ServerMessage{ServerContent: &ServerContent{
			Audio: audio.EncodeFrame(audio.Float32ToPCM16(samples)),
		}}
	}

	chunks := waitForChunks(t, sess, 3)
	assert.Equal(t, t0, chunks[0].Chunk.Start)
	assert.Equal(t, t0.Add(500*time.Millisecond), chunks[1].Chunk.Start)
	assert.Equal(t, t0.Add(800*time.Millisecond), chunks[2].Chunk.Start)
}

func TestInterruptionResetsPlayback(t *testing.T) {
	t0 := time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)
	transport := newFakeTransport()
	svc, _, userID := newTestService(t, transport, nil, func() time.Time { return t0 })

	sess, err := svc.Open(context.Background(), userID)
	require.NoError(t, err)
	defer sess.Close(nil)

	samples := make([]float32, audio.OutputSampleRate) // 1s
	transport.incoming <- ServerMessage{ServerContent: &ServerContent{
		Audio: audio.EncodeFrame(audio.Float32ToPCM16(samples)),
	}}
	waitForChunks(t, sess, 1)

	transport.incoming <- ServerMessage{ServerContent: &ServerContent{Interrupted: true}}

	deadline := time.After(2 * time.Second)
	for {
		select {
		case ev := <-sess.Output():
			if ev.Interrupted {
				goto interrupted
			}
		case <-deadline:
			t.Fatal("timed out waiting for interruption event")
		}
	}

interrupted:
	// The next chunk starts at "now", not behind the stale 1s of audio.
	transport.incoming <- ServerMessage{ServerContent: &ServerContent{
		Audio: audio.EncodeFrame(audio.Float32ToPCM16(samples)),
	}}
	chunks := waitForChunks(t, sess, 1)
	assert.Equal(t, t0, chunks[0].Chunk.Start)
}

func TestInputQueueDropsOldestWhenFull(t *testing.T) {
	sess := &Session{
		state: StateListening,
		input: make(chan string, 2),
	}

	sess.SendAudio([]byte{1, 0})
	sess.SendAudio([]byte{2, 0})
	sess.SendAudio([]byte{3, 0}) // evicts the first frame

	assert.Len(t, sess.input, 2)
	assert.Equal(t, audio.EncodeFrame([]byte{2, 0}), <-sess.input)
	assert.Equal(t, audio.EncodeFrame([]byte{3, 0}), <-sess.input)
}

func TestSendAudioDroppedWhenNotOpen(t *testing.T) {
	sess := &Session{
		state: StateClosed,
		input: make(chan string, 2),
	}
	sess.SendAudio([]byte{1, 0})
	assert.Len(t, sess.input, 0)
}

func TestCloseIsIdempotent(t *testing.T) {
	transport := newFakeTransport()
	svc, _, userID := newTestService(t, transport, nil, nil)

	sess, err := svc.Open(context.Background(), userID)
	require.NoError(t, err)

	sess.Close(nil)
	sess.Close(nil)
	sess.Close(errors.New("late reason is ignored"))

	assert.Equal(t, StateClosed, sess.State())
	assert.NoError(t, sess.Err())
	select {
	case <-sess.Done():
	case <-time.After(time.Second):
		t.Fatal("Done not closed after Close")
	}

	// Frames offered after close are silently dropped.
	sess.SendAudio([]byte{1, 0})
}

func TestTransportFailureForcesErrorState(t *testing.T) {
	transport := newFakeTransport()
	svc, _, userID := newTestService(t, transport, nil, nil)

	sess, err := svc.Open(context.Background(), userID)
	require.NoError(t, err)

	transport.Close() // the receive loop sees a read error

	select {
	case <-sess.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("session did not shut down on transport failure")
	}
	assert.Equal(t, StateError, sess.State())
	assert.Error(t, sess.Err())
}
