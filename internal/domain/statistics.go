package domain

import "math"

type AttendanceStats struct {
	TotalGuests      int64   `json:"total_guests"`
	TotalAttendances int64   `json:"total_attendances"`
	PendingGuests    int64   `json:"pending_guests"`
	AttendanceRate   float64 `json:"attendance_rate"`
}

// StatsSnapshot is the event dashboard, recomputed on every read.
type StatsSnapshot struct {
	EventID             uint             `json:"event_id"`
	Attendance          AttendanceStats  `json:"attendance"`
	TotalWinners        int64            `json:"total_winners"`
	TotalParticipants   int64            `json:"total_participants"`
	TotalPrizes         int64            `json:"total_prizes"`
	ActiveRaffleEntries int64            `json:"active_raffle_entries"`
	PrizesByCategory    map[string]int64 `json:"prizes_by_category"`
	HourlyAttendance    map[string]int64 `json:"hourly_attendance"`
	ByJobLevel          map[string]int64 `json:"attendance_by_job_level"`
	ByWorkArea          map[string]int64 `json:"attendance_by_work_area"`
}

type RaffleOverview struct {
	TotalPrizes      int64   `json:"total_prizes"`
	ActivePrizes     int64   `json:"active_prizes"`
	TotalStock       int64   `json:"total_stock"`
	DistributedStock int64   `json:"distributed_stock"`
	DistributionRate float64 `json:"distribution_rate"`
}

type RaffleParticipation struct {
	TotalEntries   int64   `json:"total_entries"`
	PendingEntries int64   `json:"pending_entries"`
	TotalWinners   int64   `json:"total_winners"`
	CompletionRate float64 `json:"completion_rate"`
}

type CategoryStock struct {
	Name        string `json:"name"`
	PrizesCount int64  `json:"prizes_count"`
	TotalStock  int64  `json:"total_stock"`
}

type RaffleStatistics struct {
	Overview      RaffleOverview      `json:"overview"`
	Participation RaffleParticipation `json:"participation"`
	Categories    []CategoryStock     `json:"categories"`
}

type PrizeResultSummary struct {
	TotalEntries   int  `json:"total_entries"`
	Winners        int  `json:"winners"`
	Losers         int  `json:"losers"`
	Pending        int  `json:"pending"`
	StockRemaining int  `json:"stock_remaining"`
	IsComplete     bool `json:"is_complete"`
}

type PrizeWinner struct {
	GuestName      string                 `json:"guest_name"`
	EmployeeNumber string                 `json:"employee_number"`
	WonAt          *string                `json:"won_at"`
	Delivered      bool                   `json:"prize_delivered"`
	Metadata       map[string]interface{} `json:"metadata,omitempty"`
}

type PrizeResults struct {
	Prize    Prize              `json:"prize"`
	Summary  PrizeResultSummary `json:"summary"`
	Winners  []PrizeWinner      `json:"winners_list"`
	Timeline map[string]int     `json:"participation_timeline"`
}

// Percentage returns part/total*100 rounded to two decimals, or 0 when total is 0.
func Percentage(part, total int64) float64 {
	if total <= 0 {
		return 0
	}
	return math.Round(float64(part)/float64(total)*100*100) / 100
}
