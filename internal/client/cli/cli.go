// Package cli implements the sidenotes terminal client on top of the
// sidebar state machine.
package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/iudanet/sidenotes/internal/client/iocli"
	"github.com/iudanet/sidenotes/internal/client/sidebar"
	"github.com/iudanet/sidenotes/pkg/api"
)

//go:generate moq -out session_mock.go . Session

// Session is a live connection to the relay with a loaded note collection.
type Session interface {
	Send(ctx context.Context, cmd api.Command) error
	Observe(fn func(api.Event)) (remove func())
	Machine() *sidebar.Machine
}

// DefaultTimeout bounds the wait for a relay reply.
const DefaultTimeout = 10 * time.Second

var (
	// ErrRelay wraps error events returned for a command
	ErrRelay = errors.New("relay rejected command")

	// ErrNoteNotFound indicates an unknown note id
	ErrNoteNotFound = errors.New("note not found")

	// ErrEmptyContent indicates that no content was given
	ErrEmptyContent = errors.New("content cannot be empty")
)

type Cli struct {
	io      iocli.IO
	session Session
	timeout time.Duration
}

// New creates a Cli. A non-positive timeout falls back to DefaultTimeout.
func New(io iocli.IO, session Session, timeout time.Duration) *Cli {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Cli{
		io:      io,
		session: session,
		timeout: timeout,
	}
}

// matcher решает, является ли событие ответом на команду
type matcher func(ev api.Event) (done bool, err error)

// request отправляет команду и ждет первое подходящее событие
func (c *Cli) request(ctx context.Context, cmd api.Command, match matcher) (api.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	type reply struct {
		err error
		ev  api.Event
	}
	replies := make(chan reply, 1)

	// подписка до отправки, иначе быстрый ответ может потеряться
	remove := c.session.Observe(func(ev api.Event) {
		done, err := match(ev)
		if !done && err == nil {
			return
		}
		select {
		case replies <- reply{ev: ev, err: err}:
		default:
		}
	})
	defer remove()

	if err := c.session.Send(ctx, cmd); err != nil {
		return api.Event{}, fmt.Errorf("failed to send %s: %w", cmd.Action, err)
	}

	select {
	case r := <-replies:
		return r.ev, r.err
	case <-ctx.Done():
		return api.Event{}, fmt.Errorf("no reply to %s: %w", cmd.Action, ctx.Err())
	}
}

// replyTo принимает событие action по id и ошибку для того же id
func replyTo(action, id string) matcher {
	return func(ev api.Event) (bool, error) {
		if ev.ID != id {
			return false, nil
		}
		switch ev.Action {
		case action:
			return true, nil
		case api.EventError:
			return true, fmt.Errorf("%w: %s", ErrRelay, ev.Message)
		}
		return false, nil
	}
}

func (c *Cli) readContent(given, prompt string) (string, error) {
	if given != "" {
		return given, nil
	}

	content, err := c.io.ReadInput(prompt)
	if err != nil {
		return "", fmt.Errorf("failed to read content: %w", err)
	}
	if content == "" {
		return "", ErrEmptyContent
	}
	return content, nil
}
