package memory

import (
	"context"
	"sort"

	"github.com/m04kA/SMC-AllotmentService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-AllotmentService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-AllotmentService/pkg/types"
)

// BookingRepository репозиторий бронирований в памяти.
// Повторяет контракт и ошибки booking.Repository.
type BookingRepository struct {
	s *Store
}

// Create создает бронирование, присваивая ID и время создания
func (r *BookingRepository) Create(_ context.Context, booking *domain.Booking) (*domain.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.nextBookingID++
	now := r.s.now()

	booking.ID = r.s.nextBookingID
	booking.CreatedAt = now
	booking.UpdatedAt = now
	r.s.bookings[booking.ID] = cloneBooking(booking)

	return booking, nil
}

// GetByID получает бронирование по ID
func (r *BookingRepository) GetByID(_ context.Context, id int64) (*domain.Booking, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	b, ok := r.s.bookings[id]
	if !ok {
		return nil, bookingRepo.ErrBookingNotFound
	}
	return cloneBooking(b), nil
}

// GetChildren получает бронирования, распространённые от родительского
func (r *BookingRepository) GetChildren(_ context.Context, parentID int64) ([]*domain.Booking, error) {
	return r.filter(func(b *domain.Booking) bool {
		return b.ParentBookingID != nil && *b.ParentBookingID == parentID
	}), nil
}

// GetByHouse получает бронирования дома с фильтрацией по периоду и статусу
func (r *BookingRepository) GetByHouse(_ context.Context, filter domain.HouseBookingsFilter) ([]*domain.Booking, error) {
	out := r.filter(func(b *domain.Booking) bool {
		if b.HouseID != filter.HouseID {
			return false
		}
		if filter.StartDate != nil && !b.DtEnd.After(*filter.StartDate) {
			return false
		}
		if filter.EndDate != nil && b.DtStart.After(*filter.EndDate) {
			return false
		}
		if filter.Status != nil && b.Status != *filter.Status {
			return false
		}
		return !filter.RootsOnly || !b.IsChild()
	})

	sort.SliceStable(out, func(i, j int) bool { return out[i].DtStart.Before(out[j].DtStart) })
	return out, nil
}

// FindByStatus получает бронирования дома в указанных статусах
func (r *BookingRepository) FindByStatus(_ context.Context, houseID int64, statuses []domain.BookingStatus, assignment domain.BookingAssignment) ([]*domain.Booking, error) {
	return r.filter(func(b *domain.Booking) bool {
		if b.HouseID != houseID || !assignment.Matches(b) {
			return false
		}
		if len(statuses) == 0 {
			return true
		}
		for _, s := range statuses {
			if b.Status == s {
				return true
			}
		}
		return false
	}), nil
}

// FindInRange получает бронирования, занимающие хотя бы один день окна [Start, End]
func (r *BookingRepository) FindInRange(_ context.Context, filter domain.BookingRangeFilter) ([]*domain.Booking, error) {
	return r.filter(filter.Matches), nil
}

// FindConflicting получает бронирования на юнитах, пересекающиеся с диапазоном
func (r *BookingRepository) FindConflicting(_ context.Context, filter domain.BookingConflictFilter) ([]*domain.Booking, error) {
	if len(filter.UnitIDs) == 0 {
		return []*domain.Booking{}, nil
	}
	return r.filter(filter.Matches), nil
}

// UpdateDates переносит бронирование на новые даты и выставляет статус
func (r *BookingRepository) UpdateDates(_ context.Context, id int64, dtStart, dtEnd types.Date, status domain.BookingStatus) error {
	return r.update(id, func(b *domain.Booking) {
		b.DtStart = dtStart
		b.DtEnd = dtEnd
		b.Status = status
	})
}

// UpdateStatus обновляет статус бронирования
func (r *BookingRepository) UpdateStatus(_ context.Context, id int64, status domain.BookingStatus) error {
	return r.update(id, func(b *domain.Booking) {
		b.Status = status
	})
}

// AssignRoom закрепляет за бронированием номер
func (r *BookingRepository) AssignRoom(_ context.Context, id int64, roomID int64, status domain.BookingStatus) error {
	return r.update(id, func(b *domain.Booking) {
		b.RoomID = &roomID
		b.Status = status
	})
}

// Delete удаляет бронирование без каскада
func (r *BookingRepository) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.bookings[id]; !ok {
		return bookingRepo.ErrBookingNotFound
	}
	delete(r.s.bookings, id)
	return nil
}

func (r *BookingRepository) update(id int64, fn func(b *domain.Booking)) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	b, ok := r.s.bookings[id]
	if !ok {
		return bookingRepo.ErrBookingNotFound
	}
	fn(b)
	b.UpdatedAt = r.s.now()
	return nil
}

// filter возвращает копии подходящих бронирований в порядке ID
func (r *BookingRepository) filter(match func(b *domain.Booking) bool) []*domain.Booking {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*domain.Booking, 0)
	for _, b := range r.s.bookings {
		if match(b) {
			out = append(out, cloneBooking(b))
		}
	}
	sortByID(out)
	return out
}
