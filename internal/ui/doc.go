// Package ui contains the Bubble Tea program that hosts extension views.
// The package is structured so the Model type focuses on message orchestration,
// while dedicated helpers own navigation, input, rendering, and state updates.
//
// Message flow:
//   - Bubble Tea invokes Model.Update with incoming messages, which are routed
//     through a typed handler registry so each tea.Msg is handled by a focused
//     function.
//   - Keys pass a fixed priority chain (internal/ui/keys.go): global bindings,
//     the open modal, a visible toast, action shortcuts, the primary action on
//     enter and finally the focused view's own keys.
//   - Navigation helpers (internal/ui/navigation.go) push and pop frames on the
//     stack and tear down everything a popped frame owned. Filter/input helpers
//     (internal/ui/input.go) keep search bar editing, including controlled
//     search, isolated from the event loop.
//
// State ownership:
//   - Per-frame state lives in internal/ui/state.Level, which tracks items,
//     filtering, selection, and viewport calculations. View-specific state hangs
//     off Level.Data.
//   - Toasts, HUDs and modals are owned by internal/ui/overlay.Coordinator.
//   - Action handlers run through the internal/ui/command bus. They record
//     intents on an ext.Context; the model applies them once the handler
//     returns.
//
// Backend interactions:
//   - List loaders run as tea.Cmd values tagged with a load generation. The
//     dispatcher (internal/data/dispatcher) applies only current generations
//     for frames still on the stack.
//   - Lists with a refresh interval are polled by a backend.Watcher; Update
//     waits for its events and hands them to the same dispatcher.
package ui
