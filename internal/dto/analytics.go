package dto

type TravelStats struct {
	TotalTrips      int64   `json:"total_trips"`
	Countries       int     `json:"countries"`
	Cities          int     `json:"cities"`
	TotalBudget     float64 `json:"total_budget"`
	AvgDurationDays float64 `json:"avg_duration_days"`
}

type MonthlySpendBucket struct {
	Month  string  `json:"month"` // YYYY-MM
	Amount float64 `json:"amount"`
	Trips  int     `json:"trips"`
}

type UserGrowthBucket struct {
	Month string `json:"month"` // YYYY-MM
	Users int    `json:"users"`
}

type DestinationCount struct {
	Destination string `json:"destination"`
	Trips       int64  `json:"trips"`
}
