package services

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/globetrotterhq/globetrotter-backend/internal/config"
	"github.com/globetrotterhq/globetrotter-backend/internal/dto"
	"github.com/globetrotterhq/globetrotter-backend/internal/httperr"
	"github.com/globetrotterhq/globetrotter-backend/internal/models"
	"github.com/globetrotterhq/globetrotter-backend/internal/realtime"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TripService owns trip CRUD, sharing, trip-city membership and the
// trip-scoped aggregations. Every mutation publishes a realtime event
// after its transaction commits.
type TripService struct {
	db      *gorm.DB
	media   *MediaService
	bus     realtime.Publisher
	baseURL string
}

func NewTripService(db *gorm.DB, media *MediaService, bus realtime.Publisher, cfg *config.Config) *TripService {
	return &TripService{db: db, media: media, bus: bus, baseURL: strings.TrimRight(cfg.APIBaseURL, "/")}
}

func (s *TripService) publish(evt realtime.Event) {
	if s.bus != nil {
		s.bus.Publish(evt)
	}
}

func (s *TripService) Create(ownerID uuid.UUID, in *dto.CreateTripInput, coverPath *string) (*dto.TripView, error) {
	if err := validateDateRange(in.StartDate, in.EndDate); err != nil {
		return nil, err
	}

	trip := models.Trip{
		ID:             uuid.New(),
		OwnerID:        ownerID,
		Title:          strings.TrimSpace(in.Title),
		Description:    in.Description,
		Destination:    strings.TrimSpace(in.Destination),
		StartDate:      in.StartDate,
		EndDate:        in.EndDate,
		Budget:         in.Budget,
		Currency:       in.Currency,
		TravelStyle:    in.TravelStyle,
		GroupSize:      in.GroupSize,
		Privacy:        in.Privacy,
		CoverPhotoPath: coverPath,
		Status:         models.StatusPlanning,
	}
	if trip.Currency == "" {
		trip.Currency = "USD"
	}
	if trip.TravelStyle == "" {
		trip.TravelStyle = "leisure"
	}
	if trip.GroupSize < 1 {
		trip.GroupSize = 1
	}
	if trip.Privacy == "" {
		trip.Privacy = models.PrivacyPrivate
	}

	release := tripLocks.Acquire(trip.ID)
	defer release()

	if err := s.db.Create(&trip).Error; err != nil {
		return nil, httperr.Internal(err)
	}

	view := TripView(&trip)
	s.publish(realtime.NewEvent(realtime.EventTripCreated, trip.ID, ownerID, view))
	return &view, nil
}

// List returns the requester's own trips, newest first, with optional
// derived-status and free-text filters. limit=0 returns an empty page
// while still reporting the total.
func (s *TripService) List(ownerID uuid.UUID, limit, offset int, status, search string) (*dto.TripListResponse, error) {
	q := s.db.Where("owner_id = ?", ownerID).Order("created_at DESC")
	if search != "" {
		pat := "%" + search + "%"
		q = q.Where("title ILIKE ? OR destination ILIKE ?", pat, pat)
	}

	var trips []models.Trip
	if err := q.Find(&trips).Error; err != nil {
		return nil, httperr.Internal(err)
	}

	// Status is derived, so the filter runs after the fetch.
	now := time.Now()
	filtered := trips[:0]
	for i := range trips {
		if status != "" && DeriveStatus(&trips[i], now) != status {
			continue
		}
		filtered = append(filtered, trips[i])
	}

	total := int64(len(filtered))
	views := []dto.TripView{}
	if limit > 0 && offset < len(filtered) {
		end := offset + limit
		if end > len(filtered) {
			end = len(filtered)
		}
		for i := offset; i < end; i++ {
			views = append(views, TripView(&filtered[i]))
		}
	}

	return &dto.TripListResponse{Trips: views, Total: total, Limit: limit, Offset: offset}, nil
}

func (s *TripService) Get(tripID, requesterID uuid.UUID, role, shareToken string) (*dto.TripView, error) {
	trip, err := s.findTrip(tripID)
	if err != nil {
		return nil, err
	}
	if err := authorizeTripView(trip, requesterID, role, shareToken); err != nil {
		return nil, err
	}
	view := TripView(trip)
	return &view, nil
}

func (s *TripService) Update(tripID, requesterID uuid.UUID, role string, req *dto.UpdateTripRequest) (*dto.TripView, error) {
	trip, err := s.findTrip(tripID)
	if err != nil {
		return nil, err
	}
	if err := authorizeTripOwner(trip, requesterID, role); err != nil {
		return nil, err
	}

	changed := map[string]interface{}{}
	if req.Title != nil {
		trip.Title = strings.TrimSpace(*req.Title)
		changed["title"] = trip.Title
	}
	if req.Description != nil {
		trip.Description = *req.Description
		changed["description"] = trip.Description
	}
	if req.Destination != nil {
		trip.Destination = strings.TrimSpace(*req.Destination)
		changed["destination"] = trip.Destination
	}
	if req.StartDate != nil {
		d, err := parseDate(*req.StartDate)
		if err != nil {
			return nil, err
		}
		trip.StartDate = d
		changed["start_date"] = d
	}
	if req.EndDate != nil {
		d, err := parseDate(*req.EndDate)
		if err != nil {
			return nil, err
		}
		trip.EndDate = d
		changed["end_date"] = d
	}
	if err := validateDateRange(trip.StartDate, trip.EndDate); err != nil {
		return nil, err
	}
	if req.Budget != nil {
		trip.Budget = req.Budget
		changed["budget"] = *req.Budget
	}
	if req.Currency != nil {
		trip.Currency = *req.Currency
		changed["currency"] = trip.Currency
	}
	if req.TravelStyle != nil {
		trip.TravelStyle = *req.TravelStyle
		changed["travel_style"] = trip.TravelStyle
	}
	if req.GroupSize != nil {
		trip.GroupSize = *req.GroupSize
		changed["group_size"] = trip.GroupSize
	}
	if req.Privacy != nil {
		trip.Privacy = *req.Privacy
		changed["privacy"] = trip.Privacy
	}
	if req.Status != nil {
		// Only an explicit "completed" is stored; anything else falls
		// back to derivation.
		if *req.Status == models.StatusCompleted {
			trip.Status = models.StatusCompleted
		} else {
			trip.Status = models.StatusPlanning
		}
		changed["status"] = *req.Status
	}

	if len(changed) == 0 {
		view := TripView(trip)
		return &view, nil
	}

	release := tripLocks.Acquire(tripID)
	defer release()

	if err := s.db.Save(trip).Error; err != nil {
		return nil, httperr.Internal(err)
	}

	view := TripView(trip)
	s.publish(realtime.NewEvent(realtime.EventTripUpdated, trip.ID, requesterID, changed))
	return &view, nil
}

func (s *TripService) Delete(tripID, requesterID uuid.UUID, role string) error {
	trip, err := s.findTrip(tripID)
	if err != nil {
		return err
	}
	if err := authorizeTripOwner(trip, requesterID, role); err != nil {
		return err
	}

	release := tripLocks.Acquire(tripID)
	defer release()

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("trip_id = ?", tripID).Delete(&models.ItineraryItem{}).Error; err != nil {
			return err
		}
		if err := tx.Where("trip_id = ?", tripID).Delete(&models.TripCity{}).Error; err != nil {
			return err
		}
		return tx.Unscoped().Delete(trip).Error
	})
	if err != nil {
		return httperr.Internal(err)
	}

	if trip.CoverPhotoPath != nil {
		s.media.Remove(*trip.CoverPhotoPath)
	}

	s.publish(realtime.NewEvent(realtime.EventTripDeleted, tripID, requesterID, nil))
	return nil
}

// Share (re)issues the share token. Rotation invalidates the previous one.
func (s *TripService) Share(tripID, requesterID uuid.UUID, role string) (*dto.ShareResponse, error) {
	trip, err := s.findTrip(tripID)
	if err != nil {
		return nil, err
	}
	if err := authorizeTripOwner(trip, requesterID, role); err != nil {
		return nil, err
	}

	token, err := generateShareToken()
	if err != nil {
		return nil, httperr.Internal(err)
	}

	release := tripLocks.Acquire(tripID)
	defer release()

	if err := s.db.Model(trip).Update("share_token", token).Error; err != nil {
		return nil, httperr.Internal(err)
	}

	// Old-link holders learn the token died; the new token itself goes
	// only to the owner in the response.
	s.publish(shareRotatedEvent(tripID, requesterID))

	return &dto.ShareResponse{
		ShareToken: token,
		ShareURL:   fmt.Sprintf("%s/api/trips/shared/%s", s.baseURL, token),
	}, nil
}

func (s *TripService) GetShared(token string) (*dto.TripView, error) {
	if token == "" {
		return nil, httperr.NotFound("trip not found")
	}
	var trip models.Trip
	if err := s.db.Where("share_token = ?", token).First(&trip).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.NotFound("trip not found")
		}
		return nil, httperr.Internal(err)
	}
	view := TripView(&trip)
	return &view, nil
}

func (s *TripService) Summary(tripID, requesterID uuid.UUID, role string) (*dto.TripSummary, error) {
	trip, err := s.findTrip(tripID)
	if err != nil {
		return nil, err
	}
	if err := authorizeTripOwner(trip, requesterID, role); err != nil {
		return nil, err
	}

	items, err := s.tripItems(tripID)
	if err != nil {
		return nil, err
	}

	byCategory := make(map[string]int, len(models.ItemCategories))
	for _, c := range models.ItemCategories {
		byCategory[c] = 0
	}
	var total float64
	for _, it := range items {
		byCategory[it.Category]++
		if it.Cost != nil {
			total += *it.Cost
		}
	}

	return &dto.TripSummary{
		Cities:          trip.CityCount,
		Items:           len(items),
		ItemsByCategory: byCategory,
		Total:           total,
	}, nil
}

// CostBreakdown sums item costs per category; every category appears even
// when zero, plus a "total" key.
func (s *TripService) CostBreakdown(tripID, requesterID uuid.UUID, role string) (map[string]float64, error) {
	trip, err := s.findTrip(tripID)
	if err != nil {
		return nil, err
	}
	if err := authorizeTripOwner(trip, requesterID, role); err != nil {
		return nil, err
	}

	items, err := s.tripItems(tripID)
	if err != nil {
		return nil, err
	}
	return CostBreakdown(items), nil
}

// --- trip cities ---

func (s *TripService) ListCities(tripID, requesterID uuid.UUID, role, shareToken string) ([]models.TripCity, error) {
	trip, err := s.findTrip(tripID)
	if err != nil {
		return nil, err
	}
	if err := authorizeTripView(trip, requesterID, role, shareToken); err != nil {
		return nil, err
	}

	var cities []models.TripCity
	err = s.db.Preload("City").Where("trip_id = ?", tripID).Order("arrival_order ASC").Find(&cities).Error
	if err != nil {
		return nil, httperr.Internal(err)
	}
	return cities, nil
}

func (s *TripService) AddCity(tripID, requesterID uuid.UUID, role string, cityID uuid.UUID) (*models.TripCity, error) {
	var city models.City
	if err := s.db.First(&city, "id = ?", cityID).Error; err != nil {
		return nil, httperr.Validation("city_id does not reference a catalog city")
	}

	release := tripLocks.Acquire(tripID)
	defer release()

	var created models.TripCity
	err := s.db.Transaction(func(tx *gorm.DB) error {
		trip, err := lockTrip(tx, tripID)
		if err != nil {
			return err
		}
		if err := authorizeTripOwner(trip, requesterID, role); err != nil {
			return err
		}

		var count int64
		if err := tx.Model(&models.TripCity{}).Where("trip_id = ? AND city_id = ?", tripID, cityID).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return httperr.Conflict("city already on this trip")
		}

		var order int64
		if err := tx.Model(&models.TripCity{}).Where("trip_id = ?", tripID).Count(&order).Error; err != nil {
			return err
		}

		created = models.TripCity{
			ID:           uuid.New(),
			TripID:       tripID,
			CityID:       cityID,
			ArrivalOrder: int(order),
		}
		if err := tx.Create(&created).Error; err != nil {
			return err
		}
		return refreshTripRollups(tx, tripID)
	})
	if err != nil {
		return nil, asServiceError(err)
	}

	created.City = city
	s.publish(realtime.NewEvent(realtime.EventTripUpdated, tripID, requesterID, map[string]interface{}{"cities": "added", "city_id": cityID}))
	return &created, nil
}

func (s *TripService) RemoveCity(tripID, requesterID uuid.UUID, role string, cityID uuid.UUID) error {
	release := tripLocks.Acquire(tripID)
	defer release()

	err := s.db.Transaction(func(tx *gorm.DB) error {
		trip, err := lockTrip(tx, tripID)
		if err != nil {
			return err
		}
		if err := authorizeTripOwner(trip, requesterID, role); err != nil {
			return err
		}

		res := tx.Where("trip_id = ? AND city_id = ?", tripID, cityID).Delete(&models.TripCity{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return httperr.NotFound("city is not on this trip")
		}

		// Close the gap so arrival_order stays 0..N-1.
		var rest []models.TripCity
		if err := tx.Where("trip_id = ?", tripID).Order("arrival_order ASC").Find(&rest).Error; err != nil {
			return err
		}
		for i := range rest {
			if rest[i].ArrivalOrder != i {
				if err := tx.Model(&rest[i]).Update("arrival_order", i).Error; err != nil {
					return err
				}
			}
		}
		return refreshTripRollups(tx, tripID)
	})
	if err != nil {
		return asServiceError(err)
	}

	s.publish(realtime.NewEvent(realtime.EventTripUpdated, tripID, requesterID, map[string]interface{}{"cities": "removed", "city_id": cityID}))
	return nil
}

// CanSubscribe implements realtime.Authorizer.
func (s *TripService) CanSubscribe(userID uuid.UUID, role string, tripID uuid.UUID, shareToken string) error {
	trip, err := s.findTrip(tripID)
	if err != nil {
		return err
	}
	return authorizeTripView(trip, userID, role, shareToken)
}

// --- shared helpers ---

func (s *TripService) findTrip(tripID uuid.UUID) (*models.Trip, error) {
	var trip models.Trip
	if err := s.db.First(&trip, "id = ?", tripID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.NotFound("trip not found")
		}
		return nil, httperr.Internal(err)
	}
	return &trip, nil
}

func (s *TripService) tripItems(tripID uuid.UUID) ([]models.ItineraryItem, error) {
	var items []models.ItineraryItem
	if err := s.db.Where("trip_id = ?", tripID).Order("order_index ASC").Find(&items).Error; err != nil {
		return nil, httperr.Internal(err)
	}
	return items, nil
}

// lockTrip takes the row-level hold that serializes concurrent mutators of
// one trip.
func lockTrip(tx *gorm.DB, tripID uuid.UUID) (*models.Trip, error) {
	var trip models.Trip
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&trip, "id = ?", tripID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.NotFound("trip not found")
		}
		return nil, err
	}
	return &trip, nil
}

// refreshTripRollups recomputes the cached totals inside the caller's
// transaction.
func refreshTripRollups(tx *gorm.DB, tripID uuid.UUID) error {
	var agg struct {
		Total float64
		Count int64
	}
	err := tx.Model(&models.ItineraryItem{}).
		Select("COALESCE(SUM(cost), 0) AS total, COUNT(*) AS count").
		Where("trip_id = ?", tripID).
		Scan(&agg).Error
	if err != nil {
		return err
	}

	var cityCount int64
	if err := tx.Model(&models.TripCity{}).Where("trip_id = ?", tripID).Count(&cityCount).Error; err != nil {
		return err
	}

	return tx.Model(&models.Trip{}).Where("id = ?", tripID).Updates(map[string]interface{}{
		"total_cost": agg.Total,
		"item_count": agg.Count,
		"city_count": cityCount,
	}).Error
}

// authorizeTripView: owner, admin, public trip, or a matching share token.
func authorizeTripView(trip *models.Trip, requesterID uuid.UUID, role, shareToken string) error {
	if trip.OwnerID == requesterID || role == models.RoleAdmin {
		return nil
	}
	if trip.Privacy == models.PrivacyPublic {
		return nil
	}
	if shareToken != "" && trip.ShareToken != nil && *trip.ShareToken == shareToken {
		return nil
	}
	// Hide existence from everyone else.
	return httperr.NotFound("trip not found")
}

func authorizeTripOwner(trip *models.Trip, requesterID uuid.UUID, role string) error {
	if trip.OwnerID == requesterID || role == models.RoleAdmin {
		return nil
	}
	return httperr.Forbidden("not the trip owner")
}

// CostBreakdown sums item costs per category, with zeros for categories
// that have no items and a "total" key.
func CostBreakdown(items []models.ItineraryItem) map[string]float64 {
	out := make(map[string]float64, len(models.ItemCategories)+1)
	for _, c := range models.ItemCategories {
		out[c] = 0
	}
	var total float64
	for _, it := range items {
		if it.Cost != nil {
			out[it.Category] += *it.Cost
			total += *it.Cost
		}
	}
	out["total"] = total
	return out
}

// TripView renders a trip with its derived status.
func TripView(t *models.Trip) dto.TripView {
	return dto.TripView{
		ID:             t.ID,
		OwnerID:        t.OwnerID,
		Title:          t.Title,
		Description:    t.Description,
		Destination:    t.Destination,
		StartDate:      t.StartDate,
		EndDate:        t.EndDate,
		Budget:         t.Budget,
		Currency:       t.Currency,
		TravelStyle:    t.TravelStyle,
		GroupSize:      t.GroupSize,
		Privacy:        t.Privacy,
		CoverPhotoPath: t.CoverPhotoPath,
		Status:         DeriveStatus(t, time.Now()),
		Featured:       t.Featured,
		TotalCost:      t.TotalCost,
		ItemCount:      t.ItemCount,
		CityCount:      t.CityCount,
		CreatedAt:      t.CreatedAt,
		UpdatedAt:      t.UpdatedAt,
	}
}

func validateDateRange(start, end *time.Time) error {
	if start != nil && end != nil && end.Before(*start) {
		return httperr.Validation("end_date must not be before start_date")
	}
	return nil
}

func parseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, httperr.Validation("dates must use the YYYY-MM-DD format")
	}
	d = d.UTC()
	return &d, nil
}

// shareRotatedEvent names the changed field without carrying the token.
func shareRotatedEvent(tripID, actorID uuid.UUID) realtime.Event {
	return realtime.NewEvent(realtime.EventTripUpdated, tripID, actorID, map[string]interface{}{"share_token": "rotated"})
}

func generateShareToken() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// asServiceError passes typed errors through and wraps the rest.
func asServiceError(err error) error {
	var e *httperr.Error
	if errors.As(err, &e) {
		return e
	}
	return httperr.Internal(err)
}
