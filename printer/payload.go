package printer

import (
	"math"
	"strconv"
)

// Payload is the per-printer record sent to the aggregation service. Every
// observed field is a pointer serialized as null when absent so the service
// always receives the same shape.
type Payload struct {
	SerialNumber string `json:"serial_number"`
	Name         string `json:"name"`
	Model        string `json:"model"`
	Online       bool   `json:"online"`

	GCodeState       *GCodeState `json:"gcode_state"`
	PrintPercent     *int        `json:"print_percent"`
	RemainingMinutes *int        `json:"remaining_minutes"`
	CurrentFile      *string     `json:"current_file"`
	LayerCurrent     *int        `json:"layer_current"`
	LayerTotal       *int        `json:"layer_total"`

	NozzleTemp   *float64 `json:"nozzle_temp"`
	NozzleTarget *float64 `json:"nozzle_target"`
	BedTemp      *float64 `json:"bed_temp"`
	BedTarget    *float64 `json:"bed_target"`
	ChamberTemp  *float64 `json:"chamber_temp"`

	SpeedLevel *int     `json:"speed_level"`
	FanSpeed   *float64 `json:"fan_speed"`
	PrintError int      `json:"print_error"`
}

// Batch holds one payload per registry entry, in registry order.
type Batch []Payload

// Normalize maps a printer's status into a Payload. A nil status yields an
// offline record carrying only the identity fields.
func Normalize(cfg Config, st *Status) Payload {
	p := Payload{
		SerialNumber: cfg.Serial,
		Name:         cfg.Name,
		Model:        cfg.Model,
	}
	if st == nil {
		return p
	}

	ps := st.PrintStats

	klipperState := KlipperStandby
	if ps.State != nil {
		klipperState = *ps.State
	}

	progress := 0.0
	if st.DisplayStatus.Progress != nil {
		progress = *st.DisplayStatus.Progress
	}
	duration := 0.0
	if ps.PrintDuration != nil {
		duration = *ps.PrintDuration
	}

	state := MapState(klipperState)
	percent := int(math.RoundToEven(progress * 100))

	p.Online = true
	p.GCodeState = &state
	p.PrintPercent = &percent
	p.RemainingMinutes = EstimateRemaining(&progress, &duration)

	if ps.Filename != nil && *ps.Filename != "" {
		name := *ps.Filename
		p.CurrentFile = &name
	}
	if ps.Info != nil {
		p.LayerCurrent = ps.Info.CurrentLayer
		p.LayerTotal = ps.Info.TotalLayer
	}

	// A reported 0 is indistinguishable from a missing sensor and is sent as
	// null, so a genuinely 0.0°C reading is lost.
	p.NozzleTemp = reportedTemp(st.Extruder.Temperature)
	p.NozzleTarget = reportedTemp(st.Extruder.Target)
	p.BedTemp = reportedTemp(st.HeaterBed.Temperature)
	p.BedTarget = reportedTemp(st.HeaterBed.Target)

	if klipperState == KlipperError {
		p.PrintError = 1
	}

	return p
}

// NormalizeBatch normalizes every registry entry in order using fetch to
// obtain each status.
func NormalizeBatch(reg Registry, fetch func(Config) *Status) Batch {
	batch := make(Batch, 0, len(reg))
	for _, cfg := range reg {
		batch = append(batch, Normalize(cfg, fetch(cfg)))
	}
	return batch
}

// Summary counts online printers and printers in the error state.
func (b Batch) Summary() (online, failed int) {
	for _, p := range b {
		if p.Online {
			online++
		}
		if p.PrintError != 0 {
			failed++
		}
	}
	return online, failed
}

func reportedTemp(v *float64) *float64 {
	if v == nil || *v == 0 {
		return nil
	}
	return roundTenth(*v)
}

// roundTenth rounds the exact binary value of v to one decimal, ties to even.
func roundTenth(v float64) *float64 {
	r, err := strconv.ParseFloat(strconv.FormatFloat(v, 'f', 1, 64), 64)
	if err != nil {
		return &v
	}
	return &r
}
