// Package lua hosts calculator scripts in a sandboxed gopher-lua runtime.
//
// # State
//
// State opens only the base, table, string and math libraries and
// strips globals that load code or reach the file system. Each
// outermost call runs under a deadline:
//
//	state := lua.NewState(lua.WithTimeout(time.Second))
//	defer state.Close()
//	err := state.DoString(ctx, `x = 1 + 1`)
//
// # Host
//
// Host installs the calc module over a dispatcher, the engine and the
// event bus:
//
//	host, _ := lua.NewHost(lua.HostConfig{
//	    Dispatcher: d,
//	    Calculator: eng,
//	    Bus:        bus,
//	})
//	defer host.Close()
//	host.RunString(ctx, `
//	    calc.digits("12")
//	    calc.press("operator", "add")
//	    calc.digits("3")
//	    calc.press("equals")
//	    calc.log(calc.display())  -- 15
//	`)
//
// Event handlers registered with calc.on run synchronously inside
// Bus.Publish, so a script that presses equals sees its own calc.result
// handler run before calc.press returns.
package lua
