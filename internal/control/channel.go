// Package control is the side channel through which the hosting application
// clears the session, sets the account role and asks whether it is signed in.
package control

import (
	"context"
	"io"
	"log/slog"

	"github.com/vitistack/authproxy/internal/credentials"
)

type envelope struct {
	msg   Message
	reply chan *AuthStatus // nil for Post
}

type Channel struct {
	store  *credentials.Store
	logger *slog.Logger
	inbox  chan envelope
}

type channelOption func(c *Channel)

func WithLogger(logger *slog.Logger) channelOption {
	return func(c *Channel) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithInboxSize sets how many posted messages may wait for Run before Post blocks.
func WithInboxSize(size int) channelOption {
	return func(c *Channel) {
		if size >= 0 {
			c.inbox = make(chan envelope, size)
		}
	}
}

func New(store *credentials.Store, opts ...channelOption) *Channel {
	c := &Channel{
		store:  store,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		inbox:  make(chan envelope, 16),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Handle applies msg to the session. Only AuthCheck produces a reply, signalled by the bool.
func (c *Channel) Handle(msg Message) (*AuthStatus, bool) {
	switch m := msg.(type) {
	case Clear:
		c.store.Clear()
		c.logger.Info("session cleared by control message")
	case SetAccountType:
		c.store.SetRole(m.Role)
		c.logger.Debug("account type set", slog.String("account_type", string(m.Role)))
	case AuthCheck:
		snap := c.store.Snapshot()
		return &AuthStatus{
			Authenticated: snap.Pair.AccessToken != "",
			AccountType:   snap.Role,
		}, true
	default:
		c.logger.Debug("ignoring unrecognized control message")
	}
	return nil, false
}

// Run serves posted messages in arrival order until ctx ends.
func (c *Channel) Run(ctx context.Context) {
	c.logger.Debug("control channel started")
	for {
		select {
		case env := <-c.inbox:
			status, _ := c.Handle(env.msg)
			if env.reply != nil {
				env.reply <- status
			}
		case <-ctx.Done():
			c.logger.Debug("control channel stopped")
			return
		}
	}
}

// Post queues msg without waiting for it to be applied.
func (c *Channel) Post(ctx context.Context, msg Message) error {
	select {
	case c.inbox <- envelope{msg: msg}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Ask queues msg and waits until Run has applied it. The status is nil unless msg is AuthCheck.
func (c *Channel) Ask(ctx context.Context, msg Message) (*AuthStatus, error) {
	reply := make(chan *AuthStatus, 1)

	select {
	case c.inbox <- envelope{msg: msg, reply: reply}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	c.logger.Debug("control message queued", slog.String("message", describe(msg)))

	select {
	case status := <-reply:
		return status, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
