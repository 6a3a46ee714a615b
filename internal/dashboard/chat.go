package dashboard

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/ziadkadry99/cdp-assistant/internal/chat"
	"github.com/ziadkadry99/cdp-assistant/internal/render"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// chatRequest is the incoming WebSocket message format.
type chatRequest struct {
	Type    string `json:"type"` // "message"
	Content string `json:"content"`
}

// messageFrame is a chat message plus its rendered HTML.
type messageFrame struct {
	chat.Message
	HTML string `json:"html,omitempty"`
}

// chatResponse is the outgoing WebSocket message format. Exactly one of
// Message, Thinking or Content is set, according to Type.
type chatResponse struct {
	Type     string        `json:"type"` // "message", "thinking" or "error"
	Message  *messageFrame `json:"message,omitempty"`
	Thinking *bool         `json:"thinking,omitempty"`
	Content  string        `json:"content,omitempty"`
}

func (d *Dashboard) messageResponse(m chat.Message) chatResponse {
	frame := &messageFrame{Message: m}
	if m.Role == chat.RoleBot {
		html, err := render.Markdown(m.Content)
		if err != nil {
			d.log.Warn("render_failed", slog.Int("message_id", m.ID), slog.String("error", err.Error()))
		}
		frame.HTML = html
	}
	return chatResponse{Type: "message", Message: frame}
}

func thinkingResponse(thinking bool) chatResponse {
	return chatResponse{Type: "thinking", Thinking: &thinking}
}

func errorResponse(message string) chatResponse {
	return chatResponse{Type: "error", Content: message}
}

// outbox feeds the single websocket writer. Sends give up once the
// connection is closing or the writer has stopped, so a session subscriber
// never blocks on a dead connection.
type outbox struct {
	out        chan chatResponse
	done       chan struct{}
	writerDone chan struct{}
}

func newOutbox(size int) *outbox {
	return &outbox{
		out:        make(chan chatResponse, size),
		done:       make(chan struct{}),
		writerDone: make(chan struct{}),
	}
}

// enqueue reports whether resp was queued.
func (o *outbox) enqueue(resp chatResponse) bool {
	select {
	case <-o.done:
		return false
	case <-o.writerDone:
		return false
	default:
	}
	select {
	case o.out <- resp:
		return true
	case <-o.done:
		return false
	case <-o.writerDone:
		return false
	}
}

// run writes queued responses until close is called or write fails.
func (o *outbox) run(write func(chatResponse) error) {
	defer close(o.writerDone)
	for {
		select {
		case resp := <-o.out:
			if err := write(resp); err != nil {
				return
			}
		case <-o.done:
			return
		}
	}
}

// close stops the writer and waits for it.
func (o *outbox) close() {
	close(o.done)
	<-o.writerDone
}

// handleWebSocket gives every connection its own chat session. Session
// events and replies to bad frames go through one writer goroutine, since
// a websocket connection allows a single concurrent writer.
func (d *Dashboard) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		d.log.Warn("websocket_upgrade_failed", slog.String("error", err.Error()))
		return
	}
	defer conn.Close()

	sess := chat.NewSession(chat.Options{
		Responder: d.assistant.Responder(Source),
		Greeting:  d.opts.Greeting,
		Delay:     d.opts.ThinkingDelay,
	})

	box := newOutbox(64)
	go box.run(func(resp chatResponse) error {
		if err := conn.WriteJSON(resp); err != nil {
			d.log.Debug("websocket_write_failed", slog.String("error", err.Error()))
			// Unblocks ReadMessage so the read loop ends too.
			conn.Close()
			return err
		}
		return nil
	})

	for _, m := range sess.Messages() {
		box.enqueue(d.messageResponse(m))
	}
	unsubscribe := sess.Subscribe(func(ev chat.Event) {
		switch ev.Type {
		case chat.EventMessageAdded, chat.EventMessageUpdated:
			box.enqueue(d.messageResponse(ev.Message))
		case chat.EventThinking:
			box.enqueue(thinkingResponse(ev.Thinking))
		}
	})

	d.log.Debug("chat_connected", slog.String("remote", r.RemoteAddr))
	defer func() {
		box.close()
		unsubscribe()
		sess.Close()
		d.log.Debug("chat_disconnected", slog.String("remote", r.RemoteAddr))
	}()

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				d.log.Warn("websocket_read_failed", slog.String("error", err.Error()))
			}
			return
		}

		var req chatRequest
		if err := json.Unmarshal(msg, &req); err != nil {
			box.enqueue(errorResponse("invalid message format"))
			continue
		}

		switch req.Type {
		case "message":
			if _, err := sess.Send(req.Content); err != nil {
				box.enqueue(errorResponse(err.Error()))
			}
		default:
			box.enqueue(errorResponse("unknown message type: " + req.Type))
		}
	}
}
