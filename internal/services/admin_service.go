package services

import (
	"errors"

	"github.com/globetrotterhq/globetrotter-backend/internal/dto"
	"github.com/globetrotterhq/globetrotter-backend/internal/httperr"
	"github.com/globetrotterhq/globetrotter-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AdminService backs the elevated endpoints. Bulk operations iterate
// per-entity and are deliberately not transactional; the response reports
// which entities succeeded.
type AdminService struct {
	db        *gorm.DB
	media     *MediaService
	catalog   *CatalogService
	analytics *AnalyticsService
}

func NewAdminService(db *gorm.DB, media *MediaService, catalog *CatalogService, analytics *AnalyticsService) *AdminService {
	return &AdminService{db: db, media: media, catalog: catalog, analytics: analytics}
}

func (s *AdminService) ListUsers(limit, offset int) ([]dto.UserView, int64, error) {
	var total int64
	if err := s.db.Model(&models.User{}).Count(&total).Error; err != nil {
		return nil, 0, httperr.Internal(err)
	}

	var users []models.User
	if err := s.db.Order("created_at DESC").Limit(limit).Offset(offset).Find(&users).Error; err != nil {
		return nil, 0, httperr.Internal(err)
	}

	views := make([]dto.UserView, len(users))
	for i := range users {
		views[i] = UserView(&users[i])
	}
	return views, total, nil
}

func (s *AdminService) UpdateUser(id uuid.UUID, req *dto.UpdateUserRequest) (*dto.UserView, error) {
	var user models.User
	if err := s.db.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.NotFound("user not found")
		}
		return nil, httperr.Internal(err)
	}

	if req.FullName != nil {
		user.FullName = *req.FullName
	}
	if req.Role != nil {
		user.Role = *req.Role
	}
	if err := s.db.Save(&user).Error; err != nil {
		return nil, httperr.Internal(err)
	}

	view := UserView(&user)
	return &view, nil
}

// DeleteUser removes the account and everything it owns: trips with their
// itineraries and city links, revoked tokens, and stored media.
func (s *AdminService) DeleteUser(id uuid.UUID) error {
	var user models.User
	if err := s.db.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return httperr.NotFound("user not found")
		}
		return httperr.Internal(err)
	}

	var trips []models.Trip
	if err := s.db.Where("owner_id = ?", id).Find(&trips).Error; err != nil {
		return httperr.Internal(err)
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		for i := range trips {
			if err := tx.Where("trip_id = ?", trips[i].ID).Delete(&models.ItineraryItem{}).Error; err != nil {
				return err
			}
			if err := tx.Where("trip_id = ?", trips[i].ID).Delete(&models.TripCity{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Unscoped().Where("owner_id = ?", id).Delete(&models.Trip{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.RevokedToken{}).Error; err != nil {
			return err
		}
		return tx.Unscoped().Delete(&user).Error
	})
	if err != nil {
		return httperr.Internal(err)
	}

	if user.AvatarPath != nil {
		s.media.Remove(*user.AvatarPath)
	}
	for i := range trips {
		if trips[i].CoverPhotoPath != nil {
			s.media.Remove(*trips[i].CoverPhotoPath)
		}
	}
	return nil
}

func (s *AdminService) ListTrips(limit, offset int) ([]dto.TripView, int64, error) {
	var total int64
	if err := s.db.Model(&models.Trip{}).Count(&total).Error; err != nil {
		return nil, 0, httperr.Internal(err)
	}

	var trips []models.Trip
	if err := s.db.Order("created_at DESC").Limit(limit).Offset(offset).Find(&trips).Error; err != nil {
		return nil, 0, httperr.Internal(err)
	}

	views := make([]dto.TripView, len(trips))
	for i := range trips {
		views[i] = TripView(&trips[i])
	}
	return views, total, nil
}

func (s *AdminService) FeatureTrip(id uuid.UUID, featured bool) (*dto.TripView, error) {
	var trip models.Trip
	if err := s.db.First(&trip, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.NotFound("trip not found")
		}
		return nil, httperr.Internal(err)
	}

	if err := s.db.Model(&trip).Update("featured", featured).Error; err != nil {
		return nil, httperr.Internal(err)
	}
	trip.Featured = featured

	view := TripView(&trip)
	return &view, nil
}

func (s *AdminService) BulkDeleteCities(ids []uuid.UUID) []dto.BulkResult {
	results := make([]dto.BulkResult, 0, len(ids))
	for _, id := range ids {
		res := dto.BulkResult{ID: id, OK: true}
		if err := s.catalog.DeleteCity(id); err != nil {
			res.OK = false
			res.Error = err.Error()
		}
		results = append(results, res)
	}
	return results
}

func (s *AdminService) BulkDeleteActivities(ids []uuid.UUID) []dto.BulkResult {
	results := make([]dto.BulkResult, 0, len(ids))
	for _, id := range ids {
		res := dto.BulkResult{ID: id, OK: true}
		if err := s.catalog.DeleteActivity(id); err != nil {
			res.OK = false
			res.Error = err.Error()
		}
		results = append(results, res)
	}
	return results
}

func (s *AdminService) Dashboard() (*dto.DashboardResponse, error) {
	resp := &dto.DashboardResponse{}

	counts := []struct {
		model interface{}
		dest  *int64
	}{
		{&models.User{}, &resp.TotalUsers},
		{&models.Trip{}, &resp.TotalTrips},
		{&models.City{}, &resp.TotalCities},
		{&models.Activity{}, &resp.TotalActivities},
	}
	for _, c := range counts {
		if err := s.db.Model(c.model).Count(c.dest).Error; err != nil {
			return nil, httperr.Internal(err)
		}
	}

	destinations, err := s.analytics.PopularDestinations(10)
	if err != nil {
		return nil, err
	}
	resp.PopularDestinations = destinations

	growth, err := s.analytics.UserGrowth()
	if err != nil {
		return nil, err
	}
	resp.UserGrowth = growth

	return resp, nil
}

func (s *AdminService) ListLogs(limit int, level string) ([]models.SystemLog, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	q := s.db.Order("timestamp DESC").Limit(limit)
	if level != "" {
		q = q.Where("level = ?", level)
	}
	var logs []models.SystemLog
	if err := q.Find(&logs).Error; err != nil {
		return nil, httperr.Internal(err)
	}
	return logs, nil
}
