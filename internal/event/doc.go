// Package event provides the publish/subscribe bus that connects the
// calculator to its observers.
//
// Events are published on dotted topics (see package topic). Subscribers
// register a topic pattern that may contain wildcards and receive every
// matching event synchronously, in priority order, on the publisher's
// goroutine. A panicking handler is recovered and counted; it never stops
// delivery to the remaining subscribers.
//
// # Topics
//
//	calc.result      an evaluation completed (ResultPayload)
//	calc.error       an action failed (ErrorPayload)
//	calc.cleared     the calculator was reset
//	config.reloaded  the configuration file changed (ConfigPayload)
//
// # Usage
//
//	bus := event.NewBus()
//	sub, _ := bus.Subscribe("calc.*", func(ctx context.Context, ev event.Event) error {
//	    log.Printf("%s: %v", ev.Topic, ev.Payload)
//	    return nil
//	})
//	defer bus.Unsubscribe(sub)
//
//	bus.Publish(ctx, event.New(event.TopicResult, payload, "calc"))
package event
