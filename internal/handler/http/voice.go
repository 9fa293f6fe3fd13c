package http

import (
	"encoding/base64"
	"log/slog"
	"net/http"
	"time"

	"github.com/fieldpulse/fieldcrm-backend-go/internal/pkg/audio"
	"github.com/fieldpulse/fieldcrm-backend-go/internal/pkg/jwt"
	voiceService "github.com/fieldpulse/fieldcrm-backend-go/internal/service/voice"
	"github.com/gorilla/websocket"
)

type VoiceHandler interface {
	Connect(w http.ResponseWriter, r *http.Request)
}

type VoiceHandlerImpl struct {
	voiceService *voiceService.Service
	jwtService   jwt.Service
	upgrader     websocket.Upgrader
}

func NewVoiceHandler(svc *voiceService.Service, jwtService jwt.Service) VoiceHandler {
	return &VoiceHandlerImpl{
		voiceService: svc,
		jwtService:   jwtService,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// clientFrame is one message from the browser microphone pump.
type clientFrame struct {
	Audio string `json:"audio,omitempty"` // base64 PCM16 at 16kHz
	Close bool   `json:"close,omitempty"`
}

// serverFrame is one message toward the browser speaker.
type serverFrame struct {
	Audio       string `json:"audio,omitempty"` // base64 PCM16 at 24kHz
	StartAt     string `json:"start_at,omitempty"`
	Interrupted bool   `json:"interrupted,omitempty"`
	State       string `json:"state,omitempty"`
}

// Connect upgrades the browser connection and bridges it to a voice
// session. Browsers cannot set the Authorization header on websockets, so
// the short-lived stream token rides the query string.
func (h *VoiceHandlerImpl) Connect(w http.ResponseWriter, r *http.Request) {
	tokenStr := r.URL.Query().Get("token")
	if tokenStr == "" {
		http.Error(w, "Missing token", http.StatusUnauthorized)
		return
	}
	userID, err := h.jwtService.ValidateSSEToken(tokenStr)
	if err != nil {
		http.Error(w, "Invalid token", http.StatusUnauthorized)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("Voice upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	sess, err := h.voiceService.Open(r.Context(), userID)
	if err != nil {
		slog.Error("Voice session open failed", "error", err, "user_id", userID)
		conn.WriteJSON(serverFrame{State: string(voiceService.StateError)})
		return
	}
	defer sess.Close(nil)

	slog.Info("Voice session opened", "user_id", userID)

	// Session → browser.
	go func() {
		for {
			select {
			case ev := <-sess.Output():
				frame := serverFrame{}
				switch {
				case ev.Chunk != nil:
					frame.Audio = base64.StdEncoding.EncodeToString(audio.Float32ToPCM16(ev.Chunk.Samples))
					frame.StartAt = ev.Chunk.Start.Format(time.RFC3339Nano)
				case ev.Interrupted:
					frame.Interrupted = true
				case ev.State != "":
					frame.State = string(ev.State)
				default:
					continue
				}
				if err := conn.WriteJSON(frame); err != nil {
					sess.Close(nil)
					return
				}
			case <-sess.Done():
				return
			}
		}
	}()

	// Browser → session.
	for {
		var frame clientFrame
		if err := conn.ReadJSON(&frame); err != nil {
			return
		}
		if frame.Close {
			return
		}
		if frame.Audio == "" {
			continue
		}
		pcm, err := base64.StdEncoding.DecodeString(frame.Audio)
		if err != nil {
			continue
		}
		sess.SendAudio(pcm)
	}
}
