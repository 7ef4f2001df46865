package printer

import (
	"errors"
	"fmt"
	"strings"
)

// Transport selects how a printer's Moonraker instance is queried.
type Transport string

const (
	TransportHTTP      Transport = "http"
	TransportWebSocket Transport = "websocket"
)

var (
	ErrEmptyRegistry   = errors.New("no printers configured")
	ErrInvalidPrinter  = errors.New("invalid printer")
	ErrDuplicateSerial = errors.New("duplicate serial number")
)

// Config describes one polled printer. The serial number is the stable key
// the aggregation service upserts on.
type Config struct {
	IP        string    `yaml:"ip"`
	Serial    string    `yaml:"serial"`
	Name      string    `yaml:"name"`
	Model     string    `yaml:"model"`
	Transport Transport `yaml:"transport"`
}

// Registry is the ordered list of printers polled each cycle.
type Registry []Config

// DefaultRegistry returns the compiled-in printer list.
func DefaultRegistry() Registry {
	return Registry{
		{IP: "192.168.1.56", Serial: "ELEGOO-N4M-1", Name: "Neptune 4 Max 1", Model: "Neptune 4 Max"},
		{IP: "192.168.1.57", Serial: "ELEGOO-N4M-2", Name: "Neptune 4 Max 2", Model: "Neptune 4 Max"},
		{IP: "192.168.1.58", Serial: "ELEGOO-N4M-3", Name: "Neptune 4 Max 3", Model: "Neptune 4 Max"},
		{IP: "192.168.1.59", Serial: "ELEGOO-N4M-4", Name: "Neptune 4 Max 4", Model: "Neptune 4 Max"},
		{IP: "192.168.1.60", Serial: "ELEGOO-GIGA-1", Name: "OrangeStorm Giga", Model: "OrangeStorm Giga"},
	}
}

// Validate checks that every entry is usable and serials are unique.
// Missing names fall back to the serial and a missing transport to HTTP.
func (r Registry) Validate() error {
	if len(r) == 0 {
		return ErrEmptyRegistry
	}

	seen := make(map[string]int, len(r))
	for i := range r {
		p := &r[i]
		p.IP = strings.TrimSpace(p.IP)
		p.Serial = strings.TrimSpace(p.Serial)

		if p.Serial == "" {
			return fmt.Errorf("%w: entry %d has no serial", ErrInvalidPrinter, i)
		}
		if p.IP == "" {
			return fmt.Errorf("%w: %s has no address", ErrInvalidPrinter, p.Serial)
		}
		if prev, ok := seen[p.Serial]; ok {
			return fmt.Errorf("%w: %s (entries %d and %d)", ErrDuplicateSerial, p.Serial, prev, i)
		}
		seen[p.Serial] = i

		if p.Name == "" {
			p.Name = p.Serial
		}

		switch p.Transport {
		case "":
			p.Transport = TransportHTTP
		case TransportHTTP, TransportWebSocket:
		default:
			return fmt.Errorf("%w: %s has unknown transport %q", ErrInvalidPrinter, p.Serial, p.Transport)
		}
	}

	return nil
}
