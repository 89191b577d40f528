package analytics

import "github.com/kle310/EV-ChargeMate/internal/models"

// portStatusOffline is the vendor's physical port state for a dead charger.
// The logical OCPP status is meaningless while the hardware is offline.
const portStatusOffline = "OFFLINE"

// ArbitratePorts resolves the one or two physical plug readings of a station
// into a single logical status. Rules, first match wins:
//  1. first port physically offline -> the whole station reads Offline
//  2. a single reading is returned unchanged
//  3. a port that is Busy or Faulted wins, in input order
//  4. otherwise the first port (covers the both-Available tie; ties never
//     distinguish ports for the caller)
//
// The second return is false only when no readings exist at all; a malformed
// second port is treated as absent upstream and lands here as one reading.
func ArbitratePorts(ports []models.PortReading) (models.PortReading, bool) {
	if len(ports) == 0 {
		return models.PortReading{}, false
	}

	first := ports[0]
	if first.PortStatus == portStatusOffline {
		first.OcppStatus = models.StatusOffline
		return first, true
	}

	if len(ports) == 1 {
		return first, true
	}

	for _, p := range ports[:2] {
		if p.OcppStatus == models.StatusBusy || p.OcppStatus == models.StatusFaulted {
			return p, true
		}
	}

	return first, true
}
