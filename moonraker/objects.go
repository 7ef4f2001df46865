package moonraker

import (
	"strings"

	"github.com/john/elegoo_hub/printer"
)

// StatusObjects is the object/field set the hub requests from every printer.
var StatusObjects = []ObjectFields{
	{Name: "print_stats", Fields: []string{"state", "filename", "print_duration", "info"}},
	{Name: "display_status", Fields: []string{"progress"}},
	{Name: "extruder", Fields: []string{"temperature", "target"}},
	{Name: "heater_bed", Fields: []string{"temperature", "target"}},
}

// ObjectFields names a Klipper printer object and the fields to return.
type ObjectFields struct {
	Name   string
	Fields []string
}

// queryString renders objects in Moonraker's GET form:
// print_stats=state,filename&extruder=temperature,target
func queryString(objects []ObjectFields) string {
	parts := make([]string, 0, len(objects))
	for _, o := range objects {
		parts = append(parts, o.Name+"="+strings.Join(o.Fields, ","))
	}
	return strings.Join(parts, "&")
}

// rpcObjects renders objects as the params.objects member of a
// printer.objects.query JSON-RPC call.
func rpcObjects(objects []ObjectFields) map[string][]string {
	m := make(map[string][]string, len(objects))
	for _, o := range objects {
		m[o.Name] = o.Fields
	}
	return m
}

// Snapshot is the printer state an Emulator reports.
type Snapshot struct {
	State         string // Klipper print_stats.state, e.g. "printing"
	FileName      string
	PrintDuration float64 // seconds
	Progress      float64 // 0.0 - 1.0
	CurrentLayer  *int
	TotalLayer    *int

	ExtruderTemp   float64
	ExtruderTarget float64
	BedTemp        float64
	BedTarget      float64
}

// printerObjects builds the Klipper object tree served by the emulator.
type printerObjects struct{}

func (po *printerObjects) buildAll(s Snapshot) map[string]map[string]interface{} {
	return map[string]map[string]interface{}{
		"print_stats":    po.printStats(s),
		"display_status": po.displayStatus(s),
		"extruder":       po.heater(s.ExtruderTemp, s.ExtruderTarget),
		"heater_bed":     po.heater(s.BedTemp, s.BedTarget),
		"webhooks":       {"state": "ready", "state_message": ""},
	}
}

// query returns only the requested objects/fields. A nil or empty field list
// returns the whole object.
func (po *printerObjects) query(s Snapshot, requested map[string][]string) map[string]interface{} {
	all := po.buildAll(s)
	result := make(map[string]interface{})

	for name, fields := range requested {
		obj, ok := all[name]
		if !ok {
			continue
		}
		if len(fields) == 0 {
			result[name] = obj
			continue
		}

		filtered := make(map[string]interface{})
		for _, f := range fields {
			if val, exists := obj[f]; exists {
				filtered[f] = val
			}
		}
		result[name] = filtered
	}

	return result
}

func (po *printerObjects) printStats(s Snapshot) map[string]interface{} {
	state := s.State
	if state == "" {
		state = printer.KlipperStandby
	}

	return map[string]interface{}{
		"state":          state,
		"print_duration": s.PrintDuration,
		"total_duration": s.PrintDuration,
		"filament_used":  0.0,
		"filename":       s.FileName,
		"message":        "",
		"info": map[string]interface{}{
			"total_layer":   s.TotalLayer,
			"current_layer": s.CurrentLayer,
		},
	}
}

func (po *printerObjects) displayStatus(s Snapshot) map[string]interface{} {
	message := ""
	if s.State == printer.KlipperPrinting && s.FileName != "" {
		message = "Printing: " + s.FileName
	}
	return map[string]interface{}{
		"progress": s.Progress,
		"message":  message,
	}
}

func (po *printerObjects) heater(temp, target float64) map[string]interface{} {
	power := 0.0
	if target > 0 && temp < target {
		power = 1.0
	}
	return map[string]interface{}{
		"temperature": temp,
		"target":      target,
		"power":       power,
	}
}

// splitFields splits a comma-separated field list, dropping empty entries.
func splitFields(s string) []string {
	var fields []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			fields = append(fields, f)
		}
	}
	return fields
}
