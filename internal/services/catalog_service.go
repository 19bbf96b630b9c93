package services

import (
	"errors"
	"sort"
	"strings"

	"github.com/globetrotterhq/globetrotter-backend/internal/dto"
	"github.com/globetrotterhq/globetrotter-backend/internal/httperr"
	"github.com/globetrotterhq/globetrotter-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CatalogService serves the read-mostly city/activity catalog. Writes only
// happen through the admin surface.
type CatalogService struct {
	db *gorm.DB
}

func NewCatalogService(db *gorm.DB) *CatalogService {
	return &CatalogService{db: db}
}

// SearchCities matches the query case-insensitively against name and
// country, ranked by earliest match position, then popularity.
func (s *CatalogService) SearchCities(query, country string, limit int) ([]models.City, error) {
	if limit == 0 {
		return []models.City{}, nil
	}

	q := s.db.Model(&models.City{})
	if query != "" {
		pat := "%" + query + "%"
		q = q.Where("name ILIKE ? OR country ILIKE ?", pat, pat)
	}
	if country != "" {
		q = q.Where("LOWER(country) = LOWER(?)", country)
	}

	var cities []models.City
	if err := q.Find(&cities).Error; err != nil {
		return nil, httperr.Internal(err)
	}

	rankCities(cities, query)
	if len(cities) > limit {
		cities = cities[:limit]
	}
	return cities, nil
}

func (s *CatalogService) PopularCities(limit int) ([]models.City, error) {
	if limit == 0 {
		return []models.City{}, nil
	}
	var cities []models.City
	if err := s.db.Order("popularity_score DESC").Limit(limit).Find(&cities).Error; err != nil {
		return nil, httperr.Internal(err)
	}
	return cities, nil
}

func (s *CatalogService) GetCity(id uuid.UUID) (*models.City, error) {
	var city models.City
	if err := s.db.First(&city, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.NotFound("city not found")
		}
		return nil, httperr.Internal(err)
	}
	return &city, nil
}

func (s *CatalogService) Countries() ([]dto.CountryCount, error) {
	var counts []dto.CountryCount
	err := s.db.Model(&models.City{}).
		Select("country, COUNT(*) AS cities").
		Group("country").
		Order("country ASC").
		Scan(&counts).Error
	if err != nil {
		return nil, httperr.Internal(err)
	}
	return counts, nil
}

func (s *CatalogService) SearchActivities(query string, f dto.ActivityFilters) ([]models.Activity, error) {
	if f.Limit == 0 {
		return []models.Activity{}, nil
	}

	q := s.db.Model(&models.Activity{}).Preload("City")
	if query != "" {
		pat := "%" + query + "%"
		q = q.Where("name ILIKE ? OR description ILIKE ?", pat, pat)
	}
	q = applyActivityFilters(q, f)

	var activities []models.Activity
	if err := q.Find(&activities).Error; err != nil {
		return nil, httperr.Internal(err)
	}

	rankActivities(activities, query)
	if len(activities) > f.Limit {
		activities = activities[:f.Limit]
	}
	return activities, nil
}

func (s *CatalogService) PopularActivities(limit int) ([]models.Activity, error) {
	if limit == 0 {
		return []models.Activity{}, nil
	}
	var activities []models.Activity
	err := s.db.Preload("City").Order("popularity_score DESC").Limit(limit).Find(&activities).Error
	if err != nil {
		return nil, httperr.Internal(err)
	}
	return activities, nil
}

func (s *CatalogService) ActivitiesForCity(cityID uuid.UUID, f dto.ActivityFilters) ([]models.Activity, error) {
	if _, err := s.GetCity(cityID); err != nil {
		return nil, err
	}

	q := s.db.Model(&models.Activity{}).Where("city_id = ?", cityID)
	q = applyActivityFilters(q, f)

	var activities []models.Activity
	if err := q.Order("popularity_score DESC").Limit(f.Limit).Find(&activities).Error; err != nil {
		return nil, httperr.Internal(err)
	}
	return activities, nil
}

func (s *CatalogService) Categories() []string {
	return models.ActivityCategories
}

// --- Admin writes ---

func (s *CatalogService) CreateCity(in *dto.CityInput) (*models.City, error) {
	city := models.City{
		ID:              uuid.New(),
		Name:            strings.TrimSpace(in.Name),
		Country:         strings.TrimSpace(in.Country),
		Description:     in.Description,
		ImageURL:        in.ImageURL,
		CostIndex:       in.CostIndex,
		PopularityScore: in.PopularityScore,
		Latitude:        in.Latitude,
		Longitude:       in.Longitude,
	}
	if city.CostIndex == 0 {
		city.CostIndex = 5
	}
	if err := s.db.Create(&city).Error; err != nil {
		return nil, httperr.Internal(err)
	}
	return &city, nil
}

func (s *CatalogService) UpdateCity(id uuid.UUID, in *dto.CityInput) (*models.City, error) {
	city, err := s.GetCity(id)
	if err != nil {
		return nil, err
	}

	city.Name = strings.TrimSpace(in.Name)
	city.Country = strings.TrimSpace(in.Country)
	city.Description = in.Description
	city.ImageURL = in.ImageURL
	if in.CostIndex != 0 {
		city.CostIndex = in.CostIndex
	}
	city.PopularityScore = in.PopularityScore
	city.Latitude = in.Latitude
	city.Longitude = in.Longitude

	if err := s.db.Save(city).Error; err != nil {
		return nil, httperr.Internal(err)
	}
	return city, nil
}

func (s *CatalogService) DeleteCity(id uuid.UUID) error {
	res := s.db.Delete(&models.City{}, "id = ?", id)
	if res.Error != nil {
		return httperr.Internal(res.Error)
	}
	if res.RowsAffected == 0 {
		return httperr.NotFound("city not found")
	}
	return nil
}

func (s *CatalogService) GetActivity(id uuid.UUID) (*models.Activity, error) {
	var activity models.Activity
	if err := s.db.Preload("City").First(&activity, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.NotFound("activity not found")
		}
		return nil, httperr.Internal(err)
	}
	return &activity, nil
}

func (s *CatalogService) CreateActivity(in *dto.ActivityInput) (*models.Activity, error) {
	if in.CityID != nil {
		if _, err := s.GetCity(*in.CityID); err != nil {
			return nil, httperr.Validation("city_id does not reference a catalog city")
		}
	}

	activity := models.Activity{
		ID:              uuid.New(),
		CityID:          in.CityID,
		Name:            strings.TrimSpace(in.Name),
		Category:        in.Category,
		Description:     in.Description,
		CostMin:         in.CostMin,
		CostMax:         in.CostMax,
		Rating:          in.Rating,
		DurationHours:   in.DurationHours,
		PopularityScore: in.PopularityScore,
	}
	if activity.DurationHours == 0 {
		activity.DurationHours = 1
	}
	if err := s.db.Create(&activity).Error; err != nil {
		return nil, httperr.Internal(err)
	}
	return &activity, nil
}

func (s *CatalogService) UpdateActivity(id uuid.UUID, in *dto.ActivityInput) (*models.Activity, error) {
	activity, err := s.GetActivity(id)
	if err != nil {
		return nil, err
	}
	if in.CityID != nil {
		if _, err := s.GetCity(*in.CityID); err != nil {
			return nil, httperr.Validation("city_id does not reference a catalog city")
		}
	}

	activity.CityID = in.CityID
	activity.Name = strings.TrimSpace(in.Name)
	activity.Category = in.Category
	activity.Description = in.Description
	activity.CostMin = in.CostMin
	activity.CostMax = in.CostMax
	activity.Rating = in.Rating
	if in.DurationHours != 0 {
		activity.DurationHours = in.DurationHours
	}
	activity.PopularityScore = in.PopularityScore

	if err := s.db.Save(activity).Error; err != nil {
		return nil, httperr.Internal(err)
	}
	return activity, nil
}

func (s *CatalogService) DeleteActivity(id uuid.UUID) error {
	res := s.db.Delete(&models.Activity{}, "id = ?", id)
	if res.Error != nil {
		return httperr.Internal(res.Error)
	}
	if res.RowsAffected == 0 {
		return httperr.NotFound("activity not found")
	}
	return nil
}

// --- ranking ---

func applyActivityFilters(q *gorm.DB, f dto.ActivityFilters) *gorm.DB {
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	if f.CostMin != nil {
		q = q.Where("cost_max >= ?", *f.CostMin)
	}
	if f.CostMax != nil {
		q = q.Where("cost_min <= ?", *f.CostMax)
	}
	if f.MinRating != nil {
		q = q.Where("rating >= ?", *f.MinRating)
	}
	return q
}

// matchPosition returns the earliest case-insensitive index of query in
// any of the fields, or -1 when nothing matches.
func matchPosition(query string, fields ...string) int {
	if query == "" {
		return 0
	}
	q := strings.ToLower(query)
	best := -1
	for _, f := range fields {
		if i := strings.Index(strings.ToLower(f), q); i >= 0 {
			if best == -1 || i < best {
				best = i
			}
		}
	}
	return best
}

func rankCities(cities []models.City, query string) {
	sort.SliceStable(cities, func(i, j int) bool {
		pi := matchPosition(query, cities[i].Name, cities[i].Country)
		pj := matchPosition(query, cities[j].Name, cities[j].Country)
		if pi != pj {
			return betterPosition(pi, pj)
		}
		return cities[i].PopularityScore > cities[j].PopularityScore
	})
}

func rankActivities(activities []models.Activity, query string) {
	sort.SliceStable(activities, func(i, j int) bool {
		pi := matchPosition(query, activities[i].Name, activities[i].Description)
		pj := matchPosition(query, activities[j].Name, activities[j].Description)
		if pi != pj {
			return betterPosition(pi, pj)
		}
		return activities[i].Rating > activities[j].Rating
	})
}

// betterPosition prefers earlier matches; non-matches sort last.
func betterPosition(a, b int) bool {
	if a == -1 {
		return false
	}
	if b == -1 {
		return true
	}
	return a < b
}
