package app

import (
	"fmt"
	"strings"

	"github.com/dshills/keycalc/internal/input/keymap"
)

// dispatchStatsTop is how many actions the debug shutdown report lists.
const dispatchStatsTop = 5

// helpLines renders the key help panel: a title line per category, then
// one indented line per description with every key that triggers it.
func helpLines(bindings []keymap.Binding) []string {
	var lines []string
	for _, sec := range keymap.Sections(bindings) {
		lines = append(lines, sec.Title)

		var order []string
		keys := make(map[string][]string)
		for _, b := range sec.Bindings {
			desc := b.Description
			if desc == "" {
				desc = b.Action
			}
			if _, seen := keys[desc]; !seen {
				order = append(order, desc)
			}
			keys[desc] = append(keys[desc], b.Keys)
		}
		for _, desc := range order {
			lines = append(lines, fmt.Sprintf("  %-9s %s", strings.Join(keys[desc], " "), desc))
		}
	}
	return lines
}

// checkBindings warns about bindings whose action no handler accepts.
// Such keys would fail with a "no handler" error when pressed.
func (app *Application) checkBindings() {
	for _, b := range app.keymaps.AllBindings() {
		if !app.dispatcher.Handles(b.Action) {
			app.logger.Warn("keymap: %s is bound to unknown action %s", b.Keys, b.Action)
		}
	}
}

// logDispatchStats reports dispatch counts and timings. Metrics are only
// collected in debug mode.
func (app *Application) logDispatchStats() {
	if app.dispatcher == nil || app.dispatcher.Metrics() == nil {
		return
	}
	m := app.dispatcher.Metrics()
	log := app.logger.WithComponent("dispatcher")

	snap := m.Snapshot()
	log.Info("dispatched %d actions (%d errors, %d panics), average %s",
		snap.Dispatches, snap.Errors, snap.Panics, snap.Average())
	for _, s := range m.TopActions(dispatchStatsTop) {
		log.Info("%s: %d calls, %d errors, average %s, last %s",
			s.Name, s.Count, s.Errors, s.Average(), s.Last)
	}
}
