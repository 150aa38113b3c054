package domain

import "time"

// MaxScanCount is how many times one invitation may be scanned: the guest plus a companion.
const MaxScanCount = 2

type Attendance struct {
	ID            uint                   `json:"id"`
	EventID       uint                   `json:"event_id"`
	GuestID       uint                   `json:"guest_id"`
	ScannedAt     time.Time              `json:"scanned_at"`
	ScannedBy     string                 `json:"scanned_by"`
	ScanCount     int                    `json:"scan_count"`
	LastScannedAt time.Time              `json:"last_scanned_at"`
	ScanMetadata  map[string]interface{} `json:"scan_metadata,omitempty"`
	Guest         *Guest                 `json:"guest,omitempty"`
}

// ScanResult is returned for every accepted scan.
type ScanResult struct {
	Attendance  Attendance `json:"attendance"`
	Guest       Guest      `json:"guest"`
	FirstScan   bool       `json:"first_scan"`
	AutoEntries int        `json:"auto_entries"`
}
