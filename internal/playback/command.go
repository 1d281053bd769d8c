package playback

import (
	"context"
)

// Command результат асинхронной команды аудиоустройству
type Command struct {
	op     string
	cancel context.CancelFunc
	done   chan struct{}
	err    error
}

func newCommand(op string, cancel context.CancelFunc) *Command {
	return &Command{
		op:     op,
		cancel: cancel,
		done:   make(chan struct{}),
	}
}

// completedCommand возвращает уже завершенную команду
func completedCommand(op string, err error) *Command {
	c := newCommand(op, func() {})
	c.finish(err)
	return c
}

func (c *Command) finish(err error) {
	c.err = err
	close(c.done)
}

// Op возвращает название операции: load, play, pause или seek
func (c *Command) Op() string {
	return c.op
}

// Done возвращает канал, который закрывается по завершении команды
func (c *Command) Done() <-chan struct{} {
	return c.done
}

// Err возвращает ошибку команды. Значение определено после закрытия Done.
func (c *Command) Err() error {
	select {
	case <-c.done:
		return c.err
	default:
		return nil
	}
}

// Wait ждет завершения команды или отмены контекста
func (c *Command) Wait(ctx context.Context) error {
	select {
	case <-c.done:
		return c.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Cancel отменяет команду, если она еще выполняется
func (c *Command) Cancel() {
	c.cancel()
}
