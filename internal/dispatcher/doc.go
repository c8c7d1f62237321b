// Package dispatcher routes input actions to their handlers.
//
// Key presses, button clicks and scripts all reach the calculator as
// input.Action values. An action name is "namespace.verb" and the
// dispatcher hands it to the handler registered for the namespace, so
// "calc.digit" goes to the calculator handler and "app.quit" to the
// application handler. An action no handler accepts fails with
// ErrNoHandler.
//
// Each dispatch runs the pre-dispatch hooks, which may rewrite or veto the
// action, then the handler, then the post-dispatch hooks. With
// RecoverFromPanic set, a panicking handler yields an ErrPanic result.
// With EnableMetrics set, per-action counts and timings are kept.
//
//	d := dispatcher.New(dispatcher.DefaultConfig().WithMetrics())
//	d.RegisterNamespace(calc.NewHandler(eng))
//	d.RegisterPreHook(dispatcher.NewLoggingHook(logger))
//
//	result := d.Dispatch(ctx, input.DigitAction('7'))
//	if result.IsError() {
//	    showNotice(result.Message)
//	}
package dispatcher
