package bots

import (
	"context"
	"log/slog"

	"github.com/ziadkadry99/cdp-assistant/internal/logging"
)

// MessageHandler processes incoming messages and produces responses.
type MessageHandler interface {
	HandleMessage(ctx context.Context, msg IncomingMessage) (*OutgoingMessage, error)
}

// Gateway is the platform-agnostic bot gateway that routes messages
// to a handler for processing. When a per-minute limit is set, each
// channel gets its own budget and over-limit messages are answered with
// SlowDownText without reaching the handler.
type Gateway struct {
	handler MessageHandler
	limiter *channelLimiter
	log     *slog.Logger
}

// NewGateway creates a new Gateway with the given message handler.
// messagesPerMinute <= 0 disables rate limiting.
func NewGateway(handler MessageHandler, messagesPerMinute int) *Gateway {
	g := &Gateway{
		handler: handler,
		log:     logging.ForComponent(logging.CompBots),
	}
	if messagesPerMinute > 0 {
		g.limiter = newChannelLimiter(messagesPerMinute)
	}
	return g
}

// Process routes an incoming message through the handler.
func (g *Gateway) Process(ctx context.Context, msg IncomingMessage) (*OutgoingMessage, error) {
	if g.limiter != nil && !g.limiter.allow(string(msg.Platform)+":"+msg.ChannelID) {
		g.log.Warn("rate_limited",
			slog.String("platform", string(msg.Platform)),
			slog.String("channel", msg.ChannelID),
		)
		return reply(msg, SlowDownText), nil
	}
	return g.handler.HandleMessage(ctx, msg)
}
