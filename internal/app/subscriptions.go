package app

import (
	"context"
	"errors"

	"github.com/dshills/keycalc/internal/engine"
	"github.com/dshills/keycalc/internal/engine/history"
	"github.com/dshills/keycalc/internal/event"
	"github.com/dshills/keycalc/internal/event/topic"
)

// subscribe connects the history tape and the log to the event bus.
func (app *Application) subscribe() error {
	log := app.logger.WithComponent("calc")

	handlers := []struct {
		pattern topic.Topic
		handler event.Handler
	}{
		{event.TopicResult, func(_ context.Context, ev event.Event) error {
			p, ok := ev.Payload.(event.ResultPayload)
			if !ok {
				return nil
			}
			app.tape.Record(history.Entry{
				Left:   p.Left,
				Symbol: p.Operator,
				Right:  p.Right,
				Result: p.Result,
			})
			log.Debug("%s %s %s = %s", p.Left, p.Operator, p.Right, p.Result)
			return nil
		}},
		{event.TopicError, func(_ context.Context, ev event.Event) error {
			p, ok := ev.Payload.(event.ErrorPayload)
			if !ok {
				return nil
			}
			// A broken invariant is a bug, not a user mistake.
			if errors.Is(p.Err, engine.ErrInvariant) {
				log.Error("%s: %v", p.Action, p.Err)
			} else {
				log.Warn("%s: %v", p.Action, p.Err)
			}
			return nil
		}},
		{event.TopicCleared, func(context.Context, event.Event) error {
			log.Debug("cleared")
			return nil
		}},
		{event.TopicConfigReloaded, func(_ context.Context, ev event.Event) error {
			p, ok := ev.Payload.(event.ConfigPayload)
			if !ok {
				return nil
			}
			if p.Err != nil {
				app.logger.Warn("config reload %s: %v", p.Path, p.Err)
			} else {
				app.logger.Info("config reloaded from %s", p.Path)
			}
			return nil
		}},
	}

	for _, h := range handlers {
		sub, err := app.bus.Subscribe(h.pattern, h.handler)
		if err != nil {
			return err
		}
		app.subs = append(app.subs, sub)
	}
	return nil
}
