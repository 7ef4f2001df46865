package moonraker

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Emulator is a minimal Moonraker-compatible endpoint serving object queries
// over HTTP and WebSocket from a settable Snapshot.
type Emulator struct {
	mu         sync.RWMutex
	snap       Snapshot
	failStatus int
	queries    int
	lastQuery  map[string][]string

	router *mux.Router
}

// NewEmulator creates an emulator reporting an idle printer.
func NewEmulator() *Emulator {
	e := &Emulator{
		snap: Snapshot{State: "standby"},
	}

	e.router = mux.NewRouter()
	e.router.HandleFunc("/printer/objects/query", e.handleObjectsQuery).Methods(http.MethodGet, http.MethodPost)
	e.router.HandleFunc("/printer/info", e.handlePrinterInfo).Methods(http.MethodGet)
	e.router.HandleFunc("/websocket", e.handleWebSocket).Methods(http.MethodGet)

	return e
}

// SetSnapshot replaces the reported printer state.
func (e *Emulator) SetSnapshot(s Snapshot) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.snap = s
}

// SetFailure makes HTTP queries answer with the given status code.
// Zero restores normal responses.
func (e *Emulator) SetFailure(code int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.failStatus = code
}

// Queries returns how many object queries were served.
func (e *Emulator) Queries() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.queries
}

// LastQuery returns the object/field set of the most recent query.
func (e *Emulator) LastQuery() map[string][]string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.lastQuery
}

func (e *Emulator) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	e.router.ServeHTTP(w, r)
}

// status records the query and returns the filtered object tree.
func (e *Emulator) status(requested map[string][]string) map[string]interface{} {
	e.mu.Lock()
	e.queries++
	e.lastQuery = requested
	snap := e.snap
	e.mu.Unlock()

	objects := &printerObjects{}
	return objects.query(snap, requested)
}

func (e *Emulator) handleObjectsQuery(w http.ResponseWriter, r *http.Request) {
	e.mu.RLock()
	fail := e.failStatus
	e.mu.RUnlock()
	if fail != 0 {
		writeJSONError(w, fail, http.StatusText(fail))
		return
	}

	requested := make(map[string][]string)
	if r.Method == http.MethodGet {
		// Query string format: ?toolhead&extruder=temperature,target
		for key, values := range r.URL.Query() {
			if len(values) > 0 {
				requested[key] = splitFields(values[0])
			} else {
				requested[key] = nil
			}
		}
	} else {
		var body objectsQueryParams
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid body")
			return
		}
		requested = body.Objects
	}

	writeJSON(w, map[string]interface{}{
		"result": map[string]interface{}{
			"eventtime": 0.0,
			"status":    e.status(requested),
		},
	})
}

func (e *Emulator) handlePrinterInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]interface{}{
		"result": map[string]interface{}{
			"state":            "ready",
			"state_message":    "",
			"hostname":         "moonraker-emulator",
			"software_version": "v0.12.0",
		},
	})
}

// handleWebSocket answers printer.objects.query calls. Every query is
// preceded by a notify_proc_stat_update notification, as a real Moonraker
// instance interleaves them.
func (e *Emulator) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	for {
		var req struct {
			JSONRPC string             `json:"jsonrpc"`
			Method  string             `json:"method"`
			Params  objectsQueryParams `json:"params"`
			ID      int64              `json:"id"`
		}
		if err := conn.ReadJSON(&req); err != nil {
			return
		}

		_ = conn.WriteJSON(map[string]interface{}{
			"jsonrpc": "2.0",
			"method":  "notify_proc_stat_update",
			"params":  []interface{}{map[string]interface{}{"cpu_temp": 45.2}},
		})

		resp := map[string]interface{}{"jsonrpc": "2.0", "id": req.ID}
		switch req.Method {
		case "printer.objects.query":
			resp["result"] = map[string]interface{}{
				"eventtime": 0.0,
				"status":    e.status(req.Params.Objects),
			}
		default:
			resp["error"] = rpcError{Code: -32601, Message: "Method not found"}
		}

		if err := conn.WriteJSON(resp); err != nil {
			return
		}
	}
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"error": map[string]interface{}{
			"code":    status,
			"message": message,
		},
	})
}
