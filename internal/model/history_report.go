package model

import "time"

// HistoryReport aggregates recorded loop incidents for presentation.
// It is the input to the report writers and is derived entirely from the
// incident list, newest first.
type HistoryReport struct {
	// GeneratedAt is the time the report was assembled.
	GeneratedAt time.Time `json:"generatedAt"`

	// Incidents holds the incidents included in the report, newest first.
	Incidents []Incident `json:"incidents"`

	// Total is the number of incidents in the report.
	Total int `json:"total"`

	// Diagnosed is the number of incidents whose initiator was identified.
	Diagnosed int `json:"diagnosed"`

	// ByHost counts incidents per HTTP host.
	ByHost map[string]int `json:"byHost,omitempty"`
}

// NewHistoryReport builds a HistoryReport from a list of incidents.
// The incident order is preserved; callers are expected to pass
// newest-first slices as returned by the incident store.
func NewHistoryReport(incidents []Incident) *HistoryReport {
	r := &HistoryReport{
		GeneratedAt: time.Now(),
		Incidents:   incidents,
		Total:       len(incidents),
		ByHost:      make(map[string]int),
	}

	for _, inc := range incidents {
		if inc.HasSource() {
			r.Diagnosed++
		}
		if inc.Host != "" {
			r.ByHost[inc.Host]++
		}
	}

	return r
}

// HasIncidents reports whether the report contains any incidents.
func (r *HistoryReport) HasIncidents() bool {
	return r.Total > 0
}

// DiagnosisRate returns the fraction of incidents with an identified
// initiator, in the range [0, 1]. Returns 0 for an empty report.
func (r *HistoryReport) DiagnosisRate() float64 {
	if r.Total == 0 {
		return 0
	}
	return float64(r.Diagnosed) / float64(r.Total)
}
