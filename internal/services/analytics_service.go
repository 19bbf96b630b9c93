package services

import (
	"strings"
	"time"

	"github.com/globetrotterhq/globetrotter-backend/internal/dto"
	"github.com/globetrotterhq/globetrotter-backend/internal/httperr"
	"github.com/globetrotterhq/globetrotter-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AnalyticsService computes aggregations on demand; it never writes.
// All date bucketing is done in UTC so the results are deterministic.
type AnalyticsService struct {
	db *gorm.DB
}

func NewAnalyticsService(db *gorm.DB) *AnalyticsService {
	return &AnalyticsService{db: db}
}

func (s *AnalyticsService) TravelStats(userID uuid.UUID) (*dto.TravelStats, error) {
	trips, err := s.ownedTrips(userID)
	if err != nil {
		return nil, err
	}

	costByTrip, err := s.itemCostByTrip(userID)
	if err != nil {
		return nil, err
	}

	countries := map[string]struct{}{}
	cities := map[string]struct{}{}
	var totalBudget float64
	var durationDays float64
	var datedTrips int

	for i := range trips {
		t := &trips[i]
		city, country := splitDestination(t.Destination)
		if country != "" {
			countries[strings.ToLower(country)] = struct{}{}
		}
		if city != "" {
			cities[strings.ToLower(city)] = struct{}{}
		}
		totalBudget += tripSpend(t, costByTrip)
		if t.StartDate != nil && t.EndDate != nil {
			durationDays += t.EndDate.Sub(*t.StartDate).Hours()/24 + 1
			datedTrips++
		}
	}

	stats := &dto.TravelStats{
		TotalTrips:  int64(len(trips)),
		Countries:   len(countries),
		Cities:      len(cities),
		TotalBudget: totalBudget,
	}
	if datedTrips > 0 {
		stats.AvgDurationDays = durationDays / float64(datedTrips)
	}
	return stats, nil
}

// MonthlySpending returns the last 12 year-month buckets by start_date.
func (s *AnalyticsService) MonthlySpending(userID uuid.UUID) ([]dto.MonthlySpendBucket, error) {
	trips, err := s.ownedTrips(userID)
	if err != nil {
		return nil, err
	}
	costByTrip, err := s.itemCostByTrip(userID)
	if err != nil {
		return nil, err
	}

	months := lastNMonths(time.Now().UTC(), 12)
	byMonth := make(map[string]*dto.MonthlySpendBucket, len(months))
	buckets := make([]dto.MonthlySpendBucket, len(months))
	for i, m := range months {
		buckets[i] = dto.MonthlySpendBucket{Month: m}
		byMonth[m] = &buckets[i]
	}

	for i := range trips {
		t := &trips[i]
		if t.StartDate == nil {
			continue
		}
		if b, ok := byMonth[monthKey(*t.StartDate)]; ok {
			b.Amount += tripSpend(t, costByTrip)
			b.Trips++
		}
	}
	return buckets, nil
}

func (s *AnalyticsService) CategoryBreakdown(userID uuid.UUID) (map[string]float64, error) {
	items, err := s.ownedItems(userID)
	if err != nil {
		return nil, err
	}
	return CostBreakdown(items), nil
}

// SeasonalTrends partitions trips by meteorological season of start_date.
func (s *AnalyticsService) SeasonalTrends(userID uuid.UUID) (map[string]int, error) {
	trips, err := s.ownedTrips(userID)
	if err != nil {
		return nil, err
	}

	out := map[string]int{"spring": 0, "summer": 0, "fall": 0, "winter": 0}
	for i := range trips {
		if trips[i].StartDate != nil {
			out[seasonOf(*trips[i].StartDate)]++
		}
	}
	return out, nil
}

func (s *AnalyticsService) StatusRollup(userID uuid.UUID) (map[string]int, error) {
	trips, err := s.ownedTrips(userID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	out := map[string]int{
		models.StatusPlanning:   0,
		models.StatusUpcoming:   0,
		models.StatusInProgress: 0,
		models.StatusCompleted:  0,
	}
	for i := range trips {
		out[DeriveStatus(&trips[i], now)]++
	}
	return out, nil
}

// --- admin variants, computed over all users ---

func (s *AnalyticsService) UserGrowth() ([]dto.UserGrowthBucket, error) {
	var users []models.User
	if err := s.db.Select("created_at").Find(&users).Error; err != nil {
		return nil, httperr.Internal(err)
	}

	months := lastNMonths(time.Now().UTC(), 12)
	byMonth := make(map[string]*dto.UserGrowthBucket, len(months))
	buckets := make([]dto.UserGrowthBucket, len(months))
	for i, m := range months {
		buckets[i] = dto.UserGrowthBucket{Month: m}
		byMonth[m] = &buckets[i]
	}

	for i := range users {
		if b, ok := byMonth[monthKey(users[i].CreatedAt)]; ok {
			b.Users++
		}
	}
	return buckets, nil
}

func (s *AnalyticsService) PopularDestinations(limit int) ([]dto.DestinationCount, error) {
	if limit <= 0 {
		limit = 10
	}
	var counts []dto.DestinationCount
	err := s.db.Model(&models.Trip{}).
		Select("destination, COUNT(*) AS trips").
		Where("destination <> ''").
		Group("destination").
		Order("trips DESC").
		Limit(limit).
		Scan(&counts).Error
	if err != nil {
		return nil, httperr.Internal(err)
	}
	return counts, nil
}

// --- fetch helpers ---

// ownedTrips fetches trips for one user, or for all users when userID is
// uuid.Nil (admin variants).
func (s *AnalyticsService) ownedTrips(userID uuid.UUID) ([]models.Trip, error) {
	q := s.db.Model(&models.Trip{})
	if userID != uuid.Nil {
		q = q.Where("owner_id = ?", userID)
	}
	var trips []models.Trip
	if err := q.Find(&trips).Error; err != nil {
		return nil, httperr.Internal(err)
	}
	return trips, nil
}

func (s *AnalyticsService) ownedItems(userID uuid.UUID) ([]models.ItineraryItem, error) {
	q := s.db.Model(&models.ItineraryItem{})
	if userID != uuid.Nil {
		q = q.Where("trip_id IN (?)", s.db.Model(&models.Trip{}).Select("id").Where("owner_id = ?", userID))
	}
	var items []models.ItineraryItem
	if err := q.Find(&items).Error; err != nil {
		return nil, httperr.Internal(err)
	}
	return items, nil
}

func (s *AnalyticsService) itemCostByTrip(userID uuid.UUID) (map[uuid.UUID]float64, error) {
	items, err := s.ownedItems(userID)
	if err != nil {
		return nil, err
	}
	out := make(map[uuid.UUID]float64)
	for _, it := range items {
		if it.Cost != nil {
			out[it.TripID] += *it.Cost
		}
	}
	return out, nil
}

// tripSpend is the trip budget, falling back to summed itinerary costs
// when no budget is set.
func tripSpend(t *models.Trip, costByTrip map[uuid.UUID]float64) float64 {
	if t.Budget != nil {
		return *t.Budget
	}
	return costByTrip[t.ID]
}

// splitDestination parses "City, Country" free text: city is the prefix
// before the first comma, country the suffix after the last one.
func splitDestination(destination string) (city, country string) {
	destination = strings.TrimSpace(destination)
	if destination == "" {
		return "", ""
	}
	first := strings.Index(destination, ",")
	if first < 0 {
		return destination, ""
	}
	last := strings.LastIndex(destination, ",")
	return strings.TrimSpace(destination[:first]), strings.TrimSpace(destination[last+1:])
}

// seasonOf maps a UTC instant to its meteorological season.
func seasonOf(t time.Time) string {
	switch t.UTC().Month() {
	case time.March, time.April, time.May:
		return "spring"
	case time.June, time.July, time.August:
		return "summer"
	case time.September, time.October, time.November:
		return "fall"
	default:
		return "winter"
	}
}

func monthKey(t time.Time) string {
	return t.UTC().Format("2006-01")
}

// lastNMonths returns the n month keys ending at now's month, oldest first.
func lastNMonths(now time.Time, n int) []string {
	out := make([]string, 0, n)
	year, month, _ := now.UTC().Date()
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).AddDate(0, -(n - 1), 0)
	for i := 0; i < n; i++ {
		out = append(out, start.AddDate(0, i, 0).Format("2006-01"))
	}
	return out
}
