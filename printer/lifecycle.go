package printer

// GCodeState is the lifecycle state reported to the aggregation service.
type GCodeState string

const (
	StateIdle    GCodeState = "IDLE"
	StateRunning GCodeState = "RUNNING"
	StatePause   GCodeState = "PAUSE"
	StateFinish  GCodeState = "FINISH"
	StateFailed  GCodeState = "FAILED"
)

// Klipper print_stats.state values.
const (
	KlipperStandby   = "standby"
	KlipperPrinting  = "printing"
	KlipperPaused    = "paused"
	KlipperComplete  = "complete"
	KlipperError     = "error"
	KlipperCancelled = "cancelled"
)

var stateMap = map[string]GCodeState{
	KlipperStandby:   StateIdle,
	KlipperPrinting:  StateRunning,
	KlipperPaused:    StatePause,
	KlipperComplete:  StateFinish,
	KlipperError:     StateFailed,
	KlipperCancelled: StateIdle,
}

// MapState translates a Klipper state token. Unknown tokens map to IDLE.
func MapState(klipperState string) GCodeState {
	if s, ok := stateMap[klipperState]; ok {
		return s
	}
	return StateIdle
}
