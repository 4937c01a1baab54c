package events

import "github.com/atomicstack/termext/internal/logging"

type AppTracer struct{}

var App = AppTracer{}

func (AppTracer) Start(payload map[string]interface{}) {
	logging.Trace("app.start", payload)
}

func (AppTracer) Recovered(where string, recovered interface{}) {
	logging.Trace("app.recovered", map[string]interface{}{"where": where, "recovered": recovered})
}

func (AppTracer) Theme(name string) {
	logging.Trace("app.theme", map[string]interface{}{"theme": name})
}
