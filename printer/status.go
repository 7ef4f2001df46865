package printer

// Status is the subset of Klipper printer objects the hub reads from a
// Moonraker object query. Every leaf is a pointer: nil means the device did
// not report the field (missing key or JSON null).
type Status struct {
	PrintStats    PrintStats    `json:"print_stats"`
	DisplayStatus DisplayStatus `json:"display_status"`
	Extruder      Heater        `json:"extruder"`
	HeaterBed     Heater        `json:"heater_bed"`
}

type PrintStats struct {
	State         *string    `json:"state"`
	Filename      *string    `json:"filename"`
	PrintDuration *float64   `json:"print_duration"` // seconds
	Info          *PrintInfo `json:"info"`
}

type PrintInfo struct {
	CurrentLayer *int `json:"current_layer"`
	TotalLayer   *int `json:"total_layer"`
}

type DisplayStatus struct {
	Progress *float64 `json:"progress"` // 0.0 - 1.0
}

type Heater struct {
	Temperature *float64 `json:"temperature"`
	Target      *float64 `json:"target"`
}
