package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/globetrotterhq/globetrotter-backend/internal/dto"
	"github.com/globetrotterhq/globetrotter-backend/internal/httperr"
	"github.com/globetrotterhq/globetrotter-backend/internal/models"
	"github.com/globetrotterhq/globetrotter-backend/internal/realtime"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	maxMutationRetries = 3
	retryBaseDelay     = 50 * time.Millisecond
)

// ItineraryService maintains the ordered item sequence of each trip.
// Every mutation runs in one transaction that locks the trip row, applies
// the change, restores contiguous order_index values, refreshes the trip
// rollups and, after commit, emits the realtime event.
type ItineraryService struct {
	db  *gorm.DB
	bus realtime.Publisher
}

func NewItineraryService(db *gorm.DB, bus realtime.Publisher) *ItineraryService {
	return &ItineraryService{db: db, bus: bus}
}

func (s *ItineraryService) publish(evt realtime.Event) {
	if s.bus != nil {
		s.bus.Publish(evt)
	}
}

func (s *ItineraryService) List(tripID, requesterID uuid.UUID, role, shareToken string) ([]models.ItineraryItem, error) {
	trip, err := s.findTrip(tripID)
	if err != nil {
		return nil, err
	}
	if err := authorizeTripView(trip, requesterID, role, shareToken); err != nil {
		return nil, err
	}

	var items []models.ItineraryItem
	if err := s.db.Where("trip_id = ?", tripID).Order("order_index ASC").Find(&items).Error; err != nil {
		return nil, httperr.Internal(err)
	}
	return items, nil
}

// Insert appends the item at the end of the sequence.
func (s *ItineraryService) Insert(tripID, requesterID uuid.UUID, role string, req *dto.CreateItemRequest) (*models.ItineraryItem, error) {
	if err := validateItemTimes(req.StartTime, req.EndTime); err != nil {
		return nil, err
	}

	release := tripLocks.Acquire(tripID)
	defer release()

	var item models.ItineraryItem
	err := s.inTripTx(tripID, requesterID, role, func(tx *gorm.DB, trip *models.Trip) error {
		var count int64
		if err := tx.Model(&models.ItineraryItem{}).Where("trip_id = ?", tripID).Count(&count).Error; err != nil {
			return err
		}

		item = models.ItineraryItem{
			ID:               uuid.New(),
			TripID:           tripID,
			Category:         req.Category,
			Title:            strings.TrimSpace(req.Title),
			Description:      req.Description,
			Location:         req.Location,
			StartTime:        req.StartTime,
			EndTime:          req.EndTime,
			Cost:             req.Cost,
			Notes:            req.Notes,
			BookingReference: req.BookingReference,
			OrderIndex:       int(count),
		}
		if err := tx.Create(&item).Error; err != nil {
			return err
		}
		return refreshTripRollups(tx, tripID)
	})
	if err != nil {
		return nil, err
	}

	s.publish(realtime.NewEvent(realtime.EventItineraryAdd, tripID, requesterID, item))
	return &item, nil
}

func (s *ItineraryService) Update(itemID, requesterID uuid.UUID, role string, req *dto.UpdateItemRequest) (*models.ItineraryItem, error) {
	existing, err := s.findItem(itemID)
	if err != nil {
		return nil, err
	}

	release := tripLocks.Acquire(existing.TripID)
	defer release()

	var item models.ItineraryItem
	err = s.inTripTx(existing.TripID, requesterID, role, func(tx *gorm.DB, trip *models.Trip) error {
		// Re-read under the lock; the pre-check row may be stale.
		if err := tx.First(&item, "id = ?", itemID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return httperr.NotFound("itinerary item not found")
			}
			return err
		}

		if req.Category != nil {
			item.Category = *req.Category
		}
		if req.Title != nil {
			item.Title = strings.TrimSpace(*req.Title)
			if item.Title == "" {
				return httperr.Validation("title must not be empty")
			}
		}
		if req.Description != nil {
			item.Description = *req.Description
		}
		if req.Location != nil {
			item.Location = *req.Location
		}
		if req.StartTime != nil {
			item.StartTime = req.StartTime
		}
		if req.EndTime != nil {
			item.EndTime = req.EndTime
		}
		if err := validateItemTimes(item.StartTime, item.EndTime); err != nil {
			return err
		}
		if req.Cost != nil {
			item.Cost = req.Cost
		}
		if req.Notes != nil {
			item.Notes = *req.Notes
		}
		if req.BookingReference != nil {
			item.BookingReference = *req.BookingReference
		}

		if err := tx.Save(&item).Error; err != nil {
			return err
		}
		return refreshTripRollups(tx, item.TripID)
	})
	if err != nil {
		return nil, err
	}

	s.publish(realtime.NewEvent(realtime.EventItineraryUpdate, item.TripID, requesterID, item))
	return &item, nil
}

// Delete removes the item and shifts everything after it down one slot.
func (s *ItineraryService) Delete(itemID, requesterID uuid.UUID, role string) error {
	existing, err := s.findItem(itemID)
	if err != nil {
		return err
	}
	tripID := existing.TripID

	release := tripLocks.Acquire(tripID)
	defer release()

	err = s.inTripTx(tripID, requesterID, role, func(tx *gorm.DB, trip *models.Trip) error {
		res := tx.Delete(&models.ItineraryItem{}, "id = ?", itemID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return httperr.NotFound("itinerary item not found")
		}

		var rest []models.ItineraryItem
		if err := tx.Where("trip_id = ?", tripID).Order("order_index ASC").Find(&rest).Error; err != nil {
			return err
		}
		for i := range rest {
			if rest[i].OrderIndex != i {
				if err := tx.Model(&rest[i]).Update("order_index", i).Error; err != nil {
					return err
				}
			}
		}
		return refreshTripRollups(tx, tripID)
	})
	if err != nil {
		return err
	}

	s.publish(realtime.NewEvent(realtime.EventItineraryDelete, tripID, requesterID, map[string]interface{}{"item_id": itemID}))
	return nil
}

// Reorder atomically reassigns order_index so that order[k] sits at k.
// The list must be a complete permutation of the trip's item ids.
func (s *ItineraryService) Reorder(tripID, requesterID uuid.UUID, role string, order []uuid.UUID) ([]models.ItineraryItem, error) {
	release := tripLocks.Acquire(tripID)
	defer release()

	var items []models.ItineraryItem
	err := s.inTripTx(tripID, requesterID, role, func(tx *gorm.DB, trip *models.Trip) error {
		var existing []models.ItineraryItem
		if err := tx.Where("trip_id = ?", tripID).Order("order_index ASC").Find(&existing).Error; err != nil {
			return err
		}

		existingIDs := make([]uuid.UUID, len(existing))
		for i, it := range existing {
			existingIDs[i] = it.ID
		}
		if err := validatePermutation(existingIDs, order); err != nil {
			return err
		}

		positions := resequenced(order)
		for i := range existing {
			want := positions[existing[i].ID]
			if existing[i].OrderIndex != want {
				if err := tx.Model(&existing[i]).Update("order_index", want).Error; err != nil {
					return err
				}
			}
			existing[i].OrderIndex = want
		}

		items = make([]models.ItineraryItem, len(existing))
		for _, it := range existing {
			items[it.OrderIndex] = it
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(realtime.NewEvent(realtime.EventItineraryReorder, tripID, requesterID, map[string]interface{}{"order": order}))
	return items, nil
}

// AddFromActivity materializes a catalog activity as an itinerary item,
// inheriting its cost, location and duration unless overridden.
func (s *ItineraryService) AddFromActivity(tripID, requesterID uuid.UUID, role string, req *dto.AddFromActivityRequest) (*models.ItineraryItem, error) {
	var activity models.Activity
	if err := s.db.Preload("City").First(&activity, "id = ?", req.ActivityID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.NotFound("activity not found")
		}
		return nil, httperr.Internal(err)
	}

	create := dto.CreateItemRequest{
		Category:    "activity",
		Title:       activity.Name,
		Description: activity.Description,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Notes:       fmt.Sprintf("From catalog (rating %.1f)", activity.Rating),
	}
	if activity.City != nil {
		create.Location = activity.City.Name + ", " + activity.City.Country
	}

	cost := (activity.CostMin + activity.CostMax) / 2
	create.Cost = &cost

	if req.Title != nil && *req.Title != "" {
		create.Title = *req.Title
	}
	if req.Cost != nil {
		create.Cost = req.Cost
	}
	if req.Notes != nil {
		create.Notes = *req.Notes
	}
	if create.StartTime != nil && create.EndTime == nil && activity.DurationHours > 0 {
		end := create.StartTime.Add(time.Duration(activity.DurationHours * float64(time.Hour)))
		create.EndTime = &end
	}

	return s.Insert(tripID, requesterID, role, &create)
}

// --- internals ---

func (s *ItineraryService) findTrip(tripID uuid.UUID) (*models.Trip, error) {
	var trip models.Trip
	if err := s.db.First(&trip, "id = ?", tripID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.NotFound("trip not found")
		}
		return nil, httperr.Internal(err)
	}
	return &trip, nil
}

func (s *ItineraryService) findItem(itemID uuid.UUID) (*models.ItineraryItem, error) {
	var item models.ItineraryItem
	if err := s.db.First(&item, "id = ?", itemID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.NotFound("itinerary item not found")
		}
		return nil, httperr.Internal(err)
	}
	return &item, nil
}

// inTripTx runs fn inside a transaction holding the trip row lock, with
// ownership checked under the lock. Serialization failures are retried
// with exponential backoff before surfacing as a conflict.
func (s *ItineraryService) inTripTx(tripID, requesterID uuid.UUID, role string, fn func(tx *gorm.DB, trip *models.Trip) error) error {
	var lastErr error
	for attempt := 0; attempt < maxMutationRetries; attempt++ {
		if attempt > 0 {
			time.Sleep(retryBaseDelay << (attempt - 1))
		}

		lastErr = s.db.Transaction(func(tx *gorm.DB) error {
			trip, err := lockTrip(tx, tripID)
			if err != nil {
				return err
			}
			if err := authorizeTripOwner(trip, requesterID, role); err != nil {
				return err
			}
			return fn(tx, trip)
		})
		if lastErr == nil {
			return nil
		}
		if !isRetryableDBError(lastErr) {
			return asServiceError(lastErr)
		}
	}
	return httperr.Conflict("concurrent itinerary mutation; please retry")
}

func isRetryableDBError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "40001") || // serialization_failure
		strings.Contains(msg, "40P01") || // deadlock_detected
		strings.Contains(msg, "could not serialize")
}

func validateItemTimes(start, end *time.Time) error {
	if start != nil && end != nil && end.Before(*start) {
		return httperr.Validation("end_time must not be before start_time")
	}
	return nil
}
