package events

import "github.com/atomicstack/termext/internal/logging"

type OverlayTracer struct{}

type LoadTracer struct{}

var (
	Overlay = OverlayTracer{}
	Load    = LoadTracer{}
)

func (OverlayTracer) Toast(kind, style, title string, seq int) {
	logging.Trace("overlay.toast", map[string]interface{}{"kind": kind, "style": style, "title": title, "seq": seq})
}

func (OverlayTracer) Dismiss(reason string, seq int) {
	logging.Trace("overlay.dismiss", map[string]interface{}{"reason": reason, "seq": seq})
}

func (OverlayTracer) ModalOpen(kind, frameID string, replaced string) {
	payload := map[string]interface{}{"kind": kind, "frame": frameID}
	if replaced != "" {
		payload["replaced"] = replaced
	}
	logging.Trace("overlay.modal-open", payload)
}

func (OverlayTracer) ModalClose(kind, reason string) {
	logging.Trace("overlay.modal-close", map[string]interface{}{"kind": kind, "reason": reason})
}

func (LoadTracer) Start(frameID string, generation int) {
	logging.Trace("load.start", map[string]interface{}{"frame": frameID, "generation": generation})
}

func (LoadTracer) Applied(frameID string, generation, items int) {
	logging.Trace("load.applied", map[string]interface{}{"frame": frameID, "generation": generation, "items": items})
}

func (LoadTracer) Discarded(frameID string, generation int, reason string) {
	logging.Trace("load.discard", map[string]interface{}{"frame": frameID, "generation": generation, "reason": reason})
}
