package voice

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/fieldpulse/fieldcrm-backend-go/internal/domain/profile"
	"github.com/fieldpulse/fieldcrm-backend-go/internal/domain/user"
	"github.com/fieldpulse/fieldcrm-backend-go/internal/pkg/audio"
)

// State is the session lifecycle position.
type State string

const (
	StateIdle       State = "idle"
	StateConnecting State = "connecting"
	StateListening  State = "listening"
	StateSpeaking   State = "speaking"
	StateClosed     State = "closed"
	StateError      State = "error"
)

// DefaultInputQueueSize bounds buffered microphone frames. When the queue
// is full the oldest frame is dropped, never the caller blocked.
const DefaultInputQueueSize = 32

// PlaybackChunk is one scheduled piece of synthesized audio. Start times
// are strictly ordered and gap-free within a turn.
type PlaybackChunk struct {
	Start   time.Time
	Samples []float32
}

// OutputEvent is what the session emits toward the caller's speaker.
// Exactly one field is meaningful per event.
type OutputEvent struct {
	Chunk       *PlaybackChunk
	Interrupted bool
	State       State
}

// Service builds voice sessions. One session per call to Open; the
// bridge holds no global session state.
type Service struct {
	profiles   profile.Repository
	dispatcher *ToolDispatcher
	dialer     Dialer
	apiKey     string
	queueSize  int
	now        func() time.Time
}

func NewVoiceService(profiles profile.Repository, dispatcher *ToolDispatcher, dialer Dialer, apiKey string, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{
		profiles:   profiles,
		dispatcher: dispatcher,
		dialer:     dialer,
		apiKey:     apiKey,
		queueSize:  DefaultInputQueueSize,
		now:        now,
	}
}

// Open resolves the caller's profile, dials the speech model with the
// role-conditioned instruction and the fixed tool grammar, and starts the
// session pumps. On dial failure no session exists and nothing leaks.
func (s *Service) Open(ctx context.Context, userID string) (*Session, error) {
	p, err := s.profiles.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve caller profile: %w", err)
	}
	if !p.Approved {
		return nil, profile.ErrNotApproved
	}

	apiKey := s.apiKey
	if p.VoiceAPIKey != "" {
		apiKey = p.VoiceAPIKey
	}

	setup := SetupMessage{
		SystemInstruction: systemInstruction(p.Actor(), s.now()),
		Tools:             ToolDeclarations(),
		InputSampleRate:   audio.InputSampleRate,
		OutputSampleRate:  audio.OutputSampleRate,
	}

	sessCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	sess := &Session{
		actor:      p.Actor(),
		dispatcher: s.dispatcher,
		scheduler:  audio.NewScheduler(s.now),
		now:        s.now,
		state:      StateIdle,
		input:      make(chan string, s.queueSize),
		output:     make(chan OutputEvent, 256),
		done:       make(chan struct{}),
		ctx:        sessCtx,
		cancel:     cancel,
	}

	sess.setState(StateConnecting)
	transport, err := s.dialer.Dial(ctx, apiKey, setup)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to open speech session: %w", err)
	}
	sess.transport = transport
	sess.setState(StateListening)

	go sess.inputPump()
	go sess.receiveLoop()
	return sess, nil
}

// systemInstruction conditions the model on the caller's role and clock.
// Privileged figures stay off-limits to reps and are never volunteered.
func systemInstruction(actor user.Actor, now time.Time) string {
	base := fmt.Sprintf(
		"You are a field-sales assistant for %s (role: %s). Current time: %s. "+
			"Use the provided tools to read and write attendance, contacts, reminders and reports. "+
			"Never volunteer aggregate sales figures unless explicitly asked.",
		actor.Name, actor.Role, now.Format(time.RFC3339),
	)
	if !actor.IsPrivileged() {
		base += " The caller may not access team-wide sales intelligence or management reports; refuse politely."
	}
	return base
}

// Session is one live bridge between a caller and the speech model.
type Session struct {
	actor      user.Actor
	transport  Transport
	dispatcher *ToolDispatcher
	scheduler  *audio.Scheduler
	now        func() time.Time

	mu       sync.Mutex
	state    State
	closeErr error

	input  chan string
	output chan OutputEvent
	done   chan struct{}

	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once

	// Receive-loop local: whether the current turn has produced audio.
	turnOpen bool
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Err returns the transport error that forced the session down, if any.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closeErr
}

// Output delivers playback chunks, interruptions and state changes.
func (s *Session) Output() <-chan OutputEvent {
	return s.output
}

// Done is closed when the session has fully shut down.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// SendAudio offers one PCM16 microphone frame. Frames are dropped when
// the session is not open; when the queue is full the oldest frame is
// evicted so the newest audio wins. Never blocks.
func (s *Session) SendAudio(pcm []byte) {
	switch s.State() {
	case StateListening, StateSpeaking:
	default:
		return
	}

	frame := audio.EncodeFrame(pcm)
	for {
		select {
		case s.input <- frame:
			return
		default:
		}
		select {
		case <-s.input: // evict oldest
		default:
		}
	}
}

// Close shuts the session down. Idempotent and safe from any state,
// including error. A non-closed reason records why.
func (s *Session) Close(reason error) {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		if reason != nil {
			s.state = StateError
			s.closeErr = reason
		} else {
			s.state = StateClosed
		}
		final := s.state
		s.mu.Unlock()

		s.cancel()
		s.scheduler.Reset()
		s.transport.Close()
		s.emit(OutputEvent{State: final})
		close(s.done)
	})
}

func (s *Session) setState(next State) {
	s.mu.Lock()
	if s.state == StateClosed || s.state == StateError || s.state == next {
		s.mu.Unlock()
		return
	}
	s.state = next
	s.mu.Unlock()
	s.emit(OutputEvent{State: next})
}

// emit is best-effort: a stalled consumer drops events rather than
// wedging the receive loop.
func (s *Session) emit(ev OutputEvent) {
	select {
	case s.output <- ev:
	default:
	}
}

func (s *Session) inputPump() {
	for {
		select {
		case <-s.ctx.Done():
			return
		case frame := <-s.input:
			if err := s.transport.Send(ClientMessage{RealtimeInput: &RealtimeInput{Audio: frame}}); err != nil {
				s.Close(fmt.Errorf("input send failed: %w", err))
				return
			}
		}
	}
}

func (s *Session) receiveLoop() {
	for {
		msg, err := s.transport.Receive()
		if err != nil {
			select {
			case <-s.ctx.Done(): // caller-initiated close
			default:
				s.Close(fmt.Errorf("transport receive failed: %w", err))
			}
			return
		}

		switch {
		case msg.ServerContent != nil:
			s.handleContent(msg.ServerContent)
		case msg.ToolCall != nil:
			s.handleToolCall(msg.ToolCall)
		}
	}
}

func (s *Session) handleContent(content *ServerContent) {
	if content.Interrupted {
		s.scheduler.Reset()
		s.turnOpen = false
		s.emit(OutputEvent{Interrupted: true})
		s.setState(StateListening)
		return
	}

	if content.Audio != "" {
		samples, err := audio.DecodeChunk(content.Audio)
		if err != nil {
			// A malformed chunk is skipped; the stream continues.
			return
		}
		dur := audio.ChunkDuration(len(samples), audio.OutputSampleRate)
		start := s.scheduler.Schedule(dur)

		if !s.turnOpen {
			s.turnOpen = true
			s.setState(StateSpeaking)
		}
		s.emit(OutputEvent{Chunk: &PlaybackChunk{Start: start, Samples: samples}})

		end := start.Add(dur)
		time.AfterFunc(end.Sub(s.now()), func() {
			if s.scheduler.Done() == 0 {
				s.setState(StateListening)
			}
		})
	}

	if content.TurnComplete {
		s.turnOpen = false
		if s.scheduler.Outstanding() == 0 {
			s.setState(StateListening)
		}
	}
}

// handleToolCall dispatches the turn's calls sequentially and returns the
// results in call order. Store failures become tool results; only a
// transport failure ends the session.
func (s *Session) handleToolCall(call *ToolCall) {
	results := s.dispatcher.Dispatch(s.ctx, s.actor, call.FunctionCalls)
	if len(results) == 0 {
		return
	}
	if err := s.transport.Send(ClientMessage{ToolResponse: &ToolResponse{Results: results}}); err != nil {
		s.Close(fmt.Errorf("tool response send failed: %w", err))
	}
}
