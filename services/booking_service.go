package services

import (
	"context"
	"errors"
	"time"

	"salonbook-backend/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type BookingService struct {
	db *gorm.DB
}

func NewBookingService(db *gorm.DB) *BookingService {
	return &BookingService{db: db}
}

type CreateBookingInput struct {
	ClientID    uuid.UUID
	StaffID     uuid.UUID
	ServiceID   uuid.UUID
	ScheduledAt time.Time
	Status      string
	// TotalPrice overrides the catalogue price when set.
	TotalPrice *decimal.Decimal
	Notes      string
}

// Create books a service. Only PENDING and CONFIRMED are valid starting states.
func (s *BookingService) Create(ctx context.Context, salonID uuid.UUID, in CreateBookingInput) (*models.Booking, error) {
	if in.Status == "" {
		in.Status = models.BookingPending
	}
	if in.Status != models.BookingPending && in.Status != models.BookingConfirmed {
		return nil, ErrInvalidInput
	}
	if in.ScheduledAt.IsZero() {
		return nil, ErrInvalidInput
	}
	if in.TotalPrice != nil && in.TotalPrice.IsNegative() {
		return nil, ErrInvalidInput
	}

	db := s.db.WithContext(ctx)
	if err := db.Where("salon_id = ? AND id = ?", salonID, in.ClientID).First(&models.Client{}).Error; err != nil {
		return nil, notFoundAs(err, ErrClientNotFound)
	}
	if err := db.Where("salon_id = ? AND id = ?", salonID, in.StaffID).First(&models.Staff{}).Error; err != nil {
		return nil, notFoundAs(err, ErrStaffNotFound)
	}
	var service models.Service
	if err := db.Where("salon_id = ? AND id = ?", salonID, in.ServiceID).First(&service).Error; err != nil {
		return nil, notFoundAs(err, ErrServiceNotFound)
	}

	price := service.Price
	if in.TotalPrice != nil {
		price = in.TotalPrice.Round(2)
	}

	booking := models.Booking{
		ID:          uuid.New(),
		SalonID:     salonID,
		ClientID:    in.ClientID,
		StaffID:     in.StaffID,
		ServiceID:   in.ServiceID,
		ScheduledAt: in.ScheduledAt,
		Status:      in.Status,
		TotalPrice:  price,
		Notes:       in.Notes,
	}
	if err := db.Create(&booking).Error; err != nil {
		return nil, err
	}
	return s.Get(ctx, salonID, booking.ID)
}

func (s *BookingService) Get(ctx context.Context, salonID, bookingID uuid.UUID) (*models.Booking, error) {
	var booking models.Booking
	if err := s.db.WithContext(ctx).
		Preload("Client", unscoped).Preload("Staff", unscoped).Preload("Service", unscoped).
		Where("salon_id = ? AND id = ?", salonID, bookingID).
		First(&booking).Error; err != nil {
		return nil, notFoundAs(err, ErrBookingNotFound)
	}
	return &booking, nil
}

type BookingFilter struct {
	Status   string
	ClientID *uuid.UUID
	StaffID  *uuid.UUID
	From     *time.Time
	To       *time.Time
}

func (s *BookingService) List(ctx context.Context, salonID uuid.UUID, filter BookingFilter) ([]models.Booking, error) {
	query := s.db.WithContext(ctx).
		Preload("Client", unscoped).Preload("Staff", unscoped).Preload("Service", unscoped).
		Where("salon_id = ?", salonID)
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.ClientID != nil {
		query = query.Where("client_id = ?", *filter.ClientID)
	}
	if filter.StaffID != nil {
		query = query.Where("staff_id = ?", *filter.StaffID)
	}
	if filter.From != nil {
		query = query.Where("scheduled_at >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("scheduled_at <= ?", *filter.To)
	}

	var bookings []models.Booking
	if err := query.Order("scheduled_at ASC").Find(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}

// UpdateStatus applies a manual status change. COMPLETED is only reachable
// through settlement, and a booking sitting on an OPEN tab cannot be cancelled.
func (s *BookingService) UpdateStatus(ctx context.Context, salonID, bookingID uuid.UUID, status string) (*models.Booking, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var booking models.Booking
		if err := tx.Where("salon_id = ? AND id = ?", salonID, bookingID).First(&booking).Error; err != nil {
			return notFoundAs(err, ErrBookingNotFound)
		}
		if !models.CanTransitionBooking(booking.Status, status) {
			return ErrInvalidStatusTransition
		}

		inTab, err := countInOpenTabs(tx, booking.ID)
		if err != nil {
			return err
		}
		if inTab > 0 {
			return ErrBookingAlreadyInTab
		}

		result := tx.Model(&models.Booking{}).
			Where("id = ? AND status = ?", booking.ID, booking.Status).
			Update("status", status)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrInvalidStatusTransition
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, salonID, bookingID)
}

func notFoundAs(err, notFound error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound
	}
	return err
}
