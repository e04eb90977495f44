package server

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"keeper-client/internal/client"
	"keeper-client/internal/world"
)

// DebugHandler предоставляет доступ к состоянию сессии и реплики
type DebugHandler struct {
	Session *client.Session
}

func NewDebugHandler(s *client.Session) *DebugHandler {
	return &DebugHandler{Session: s}
}

// RegisterRoutes регистрирует debug-эндпоинты
func (h *DebugHandler) RegisterRoutes(r chi.Router) {
	r.Route("/debug", func(r chi.Router) {
		r.Get("/replica", h.handleReplica)
		r.Get("/replica.msgpack", h.handleReplicaMsgpack)
		r.Get("/outbound", h.handleOutbound)
	})
}

type replicaView struct {
	State   string        `json:"state"`
	Level   string        `json:"level"`
	Turn    int64         `json:"turn"`
	Summary world.Summary `json:"summary"`
}

// /debug/replica - счётчики коллекций и состояние соединения
func (h *DebugHandler) handleReplica(w http.ResponseWriter, r *http.Request) {
	var (
		view  replicaView
		found bool
	)
	h.Session.View(func(rep *world.Replica) {
		if rep == nil {
			return
		}
		found = true
		view = replicaView{Level: rep.LevelName, Turn: rep.Turn(), Summary: rep.Summary()}
	})
	if !found {
		http.Error(w, "no replica yet", http.StatusNotFound)
		return
	}
	view.State = h.Session.State().String()
	writeJSON(w, view)
}

// /debug/replica.msgpack - полный снимок реплики
func (h *DebugHandler) handleReplicaMsgpack(w http.ResponseWriter, r *http.Request) {
	var (
		data  []byte
		err   error
		found bool
	)
	h.Session.View(func(rep *world.Replica) {
		if rep == nil {
			return
		}
		found = true
		data, err = rep.MarshalSnapshot()
	})
	if !found {
		http.Error(w, "no replica yet", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/msgpack")
	w.Write(data)
}

// /debug/outbound - сколько намерений ждут отправки
func (h *DebugHandler) handleOutbound(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{
		"state":   h.Session.State().String(),
		"pending": h.Session.Outbound().Len(),
	})
}

func writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(data)
}
