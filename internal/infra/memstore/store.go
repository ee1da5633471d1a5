// Package memstore is an in-process implementation of the persistence ports,
// backed by the per-spot booking.Schedule index. It mirrors the Postgres
// repositories' atomicity contract (conflict check and insert under one
// per-store lock) and is what the engine tests run against.
package memstore

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"smart-parking/internal/domain/booking"
	"smart-parking/internal/domain/spot"
	"smart-parking/internal/domain/user"
	"smart-parking/internal/infra"
	"smart-parking/internal/pkg/clock"
	"smart-parking/internal/usecase"
	"smart-parking/internal/usecase/readmodel"

	"github.com/google/uuid"
)

type Event struct {
	Kind      string
	BookingID uuid.UUID
}

type Store struct {
	mu        sync.Mutex
	clk       clock.Clock
	spots     map[uuid.UUID]*spot.Spot
	bookings  map[uuid.UUID]*booking.Booking
	schedules map[uuid.UUID]*booking.Schedule
	users     map[uuid.UUID]*user.User
	passwords map[uuid.UUID]string
	events    []Event
}

func New(clk clock.Clock) *Store {
	return &Store{
		clk:       clk,
		spots:     make(map[uuid.UUID]*spot.Spot),
		bookings:  make(map[uuid.UUID]*booking.Booking),
		schedules: make(map[uuid.UUID]*booking.Schedule),
		users:     make(map[uuid.UUID]*user.User),
		passwords: make(map[uuid.UUID]string),
	}
}

// Events returns the outbox writes in order.
func (s *Store) Events() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Event, len(s.events))
	copy(out, s.events)
	return out
}

// ---------------------------------------------------------------------------
// BookingRepository
// ---------------------------------------------------------------------------

func (s *Store) Create(_ context.Context, b *booking.Booking, event string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sched := s.scheduleFor(b.SpotID())
	if sched.HasConflict(b.Slot(), nil) {
		return infra.WrapRepoErr("booking overlaps an active booking", nil, infra.KindConflict)
	}

	s.bookings[b.ID()] = snapshotBooking(b)
	sched.Add(b.ID(), b.Slot())
	s.events = append(s.events, Event{Kind: event, BookingID: b.ID()})
	return nil
}

func (s *Store) Update(_ context.Context, b *booking.Booking, event string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.bookings[b.ID()]; !ok {
		return infra.WrapRepoErr("booking not found", nil, infra.KindNotFound)
	}

	s.bookings[b.ID()] = snapshotBooking(b)
	if !b.IsActive() {
		s.scheduleFor(b.SpotID()).Remove(b.ID())
	}
	s.events = append(s.events, Event{Kind: event, BookingID: b.ID()})
	return nil
}

func (s *Store) FindByID(_ context.Context, id uuid.UUID) (*booking.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.bookings[id]
	if !ok {
		return nil, infra.WrapRepoErr("booking not found", nil, infra.KindNotFound)
	}
	return snapshotBooking(b), nil
}

func (s *Store) HasConflict(_ context.Context, spotID uuid.UUID, start, end time.Time, excludeBookingID *uuid.UUID) (bool, error) {
	slot, err := booking.NewTimeSlot(start, end)
	if err != nil {
		return false, infra.WrapRepoErr("invalid probe interval", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scheduleFor(spotID).HasConflict(slot, excludeBookingID), nil
}

func (s *Store) GetView(_ context.Context, id uuid.UUID) (*readmodel.BookingRM, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.bookings[id]
	if !ok {
		return nil, infra.WrapRepoErr("booking not found", nil, infra.KindNotFound)
	}
	return s.bookingView(b), nil
}

func (s *Store) ListByUser(_ context.Context, userID uuid.UUID) ([]*readmodel.BookingRM, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	views := []*readmodel.BookingRM{}
	for _, b := range s.bookings {
		if b.UserID() == userID {
			views = append(views, s.bookingView(b))
		}
	}
	sortViews(views)
	return views, nil
}

func (s *Store) ListAll(_ context.Context) ([]*readmodel.BookingRM, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	views := []*readmodel.BookingRM{}
	for _, b := range s.bookings {
		views = append(views, s.bookingView(b))
	}
	sortViews(views)
	return views, nil
}

// ---------------------------------------------------------------------------
// SpotRepository
// ---------------------------------------------------------------------------

// SpotRepo exposes the spot side of the store under the repository port's
// method set, which collides with the booking methods on Store itself.
type SpotRepo struct {
	s *Store
}

func (s *Store) Spots() *SpotRepo { return &SpotRepo{s: s} }

func (r *SpotRepo) Create(ctx context.Context, sp *spot.Spot) error { return r.s.createSpot(ctx, sp) }
func (r *SpotRepo) Update(ctx context.Context, sp *spot.Spot) error { return r.s.updateSpot(ctx, sp) }
func (r *SpotRepo) Delete(ctx context.Context, id uuid.UUID) error  { return r.s.deleteSpot(ctx, id) }
func (r *SpotRepo) FindByID(ctx context.Context, id uuid.UUID) (*spot.Spot, error) {
	return r.s.findSpotByID(ctx, id)
}
func (r *SpotRepo) GetView(ctx context.Context, id uuid.UUID) (*readmodel.SpotRM, error) {
	return r.s.getSpotView(ctx, id)
}
func (r *SpotRepo) List(ctx context.Context, filter usecase.SpotFilter) ([]*readmodel.SpotRM, error) {
	return r.s.listSpots(ctx, filter)
}

func (s *Store) createSpot(_ context.Context, sp *spot.Spot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.spots {
		if existing.SpotNumber() == sp.SpotNumber() {
			return infra.WrapRepoErr("spot number already exists", nil, infra.KindDuplicateKey)
		}
	}
	s.spots[sp.ID()] = sp
	return nil
}

func (s *Store) updateSpot(_ context.Context, sp *spot.Spot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.spots[sp.ID()]; !ok {
		return infra.WrapRepoErr("spot not found", nil, infra.KindNotFound)
	}
	for id, existing := range s.spots {
		if id != sp.ID() && existing.SpotNumber() == sp.SpotNumber() {
			return infra.WrapRepoErr("spot number already exists", nil, infra.KindDuplicateKey)
		}
	}
	s.spots[sp.ID()] = sp
	return nil
}

func (s *Store) deleteSpot(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.spots[id]; !ok {
		return infra.WrapRepoErr("spot not found", nil, infra.KindNotFound)
	}
	for _, b := range s.bookings {
		if b.SpotID() == id && b.IsActive() {
			return infra.WrapRepoErr("spot has active bookings", nil, infra.KindConflict)
		}
	}
	delete(s.spots, id)
	return nil
}

func (s *Store) findSpotByID(_ context.Context, id uuid.UUID) (*spot.Spot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sp, ok := s.spots[id]
	if !ok {
		return nil, infra.WrapRepoErr("spot not found", nil, infra.KindNotFound)
	}
	return sp, nil
}

func (s *Store) getSpotView(_ context.Context, id uuid.UUID) (*readmodel.SpotRM, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sp, ok := s.spots[id]
	if !ok {
		return nil, infra.WrapRepoErr("spot not found", nil, infra.KindNotFound)
	}
	return s.spotView(sp), nil
}

func (s *Store) listSpots(_ context.Context, filter usecase.SpotFilter) ([]*readmodel.SpotRM, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	views := []*readmodel.SpotRM{}
	for _, sp := range s.spots {
		view := s.spotView(sp)
		if filter.Floor != nil && view.Floor != *filter.Floor {
			continue
		}
		if filter.Zone != nil && view.Zone != strings.ToUpper(*filter.Zone) {
			continue
		}
		if filter.Type != nil && view.Type != *filter.Type {
			continue
		}
		if filter.Status != nil && view.Status != *filter.Status {
			continue
		}
		views = append(views, view)
	}
	return views, nil
}

// ---------------------------------------------------------------------------
// UserRepository
// ---------------------------------------------------------------------------

type UserRepo struct {
	s *Store
}

func (s *Store) Users() *UserRepo { return &UserRepo{s: s} }

func (r *UserRepo) Create(ctx context.Context, u *user.User) error { return r.s.createUser(ctx, u) }
func (r *UserRepo) FindByEmail(ctx context.Context, email user.Email) (*readmodel.AuthorizedUserRM, string, error) {
	return r.s.findUserByEmail(ctx, email)
}
func (r *UserRepo) FindByID(ctx context.Context, id uuid.UUID) (*readmodel.AuthorizedUserRM, error) {
	return r.s.findUserByID(ctx, id)
}
func (r *UserRepo) UpdateLastLogin(ctx context.Context, userID uuid.UUID) error {
	return r.s.updateLastLogin(ctx, userID)
}

func (s *Store) createUser(_ context.Context, u *user.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if existing.Email().Value() == u.Email().Value() {
			return infra.WrapRepoErr("email already exists", nil, infra.KindDuplicateKey)
		}
	}
	s.users[u.ID()] = u
	s.passwords[u.ID()] = u.PasswordHash()
	return nil
}

func (s *Store) findUserByEmail(_ context.Context, email user.Email) (*readmodel.AuthorizedUserRM, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Email().Value() == email.Value() {
			return userView(u), s.passwords[u.ID()], nil
		}
	}
	return nil, "", infra.WrapRepoErr("user not found", nil, infra.KindNotFound)
}

func (s *Store) findUserByID(_ context.Context, id uuid.UUID) (*readmodel.AuthorizedUserRM, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return nil, infra.WrapRepoErr("user not found", nil, infra.KindNotFound)
	}
	return userView(u), nil
}

func (s *Store) updateLastLogin(_ context.Context, _ uuid.UUID) error {
	return nil
}

// ---------------------------------------------------------------------------
// helpers
// ---------------------------------------------------------------------------

func (s *Store) scheduleFor(spotID uuid.UUID) *booking.Schedule {
	sched, ok := s.schedules[spotID]
	if !ok {
		sched = booking.NewSchedule()
		s.schedules[spotID] = sched
	}
	return sched
}

func (s *Store) bookingView(b *booking.Booking) *readmodel.BookingRM {
	view := &readmodel.BookingRM{
		ID:            b.ID(),
		SpotID:        b.SpotID(),
		UserID:        b.UserID(),
		VehicleNumber: b.VehicleNumber().String(),
		StartTime:     b.Slot().Start(),
		EndTime:       b.Slot().End(),
		DurationHours: b.DurationHours(),
		PriceCents:    b.Price().Cents(),
		Status:        b.Status().String(),
		CheckInAt:     b.CheckInAt(),
		CheckOutAt:    b.CheckOutAt(),
		CreatedAt:     b.CreatedAt(),
		UpdatedAt:     b.UpdatedAt(),
	}
	if sp, ok := s.spots[b.SpotID()]; ok {
		view.SpotNumber = sp.SpotNumber()
	}
	if u, ok := s.users[b.UserID()]; ok {
		view.UserName = u.Name()
		view.UserEmail = u.Email().Value()
	}
	return view
}

func (s *Store) spotView(sp *spot.Spot) *readmodel.SpotRM {
	now := s.clk.Now()
	var active []spot.Occupancy
	for _, b := range s.bookings {
		if b.SpotID() == sp.ID() && b.IsActive() {
			active = append(active, spot.Occupancy{
				Start:      b.Slot().Start(),
				End:        b.Slot().End(),
				CheckedIn:  b.CheckInAt() != nil,
				CheckedOut: b.CheckOutAt() != nil,
			})
		}
	}
	return &readmodel.SpotRM{
		ID:               sp.ID(),
		SpotNumber:       sp.SpotNumber(),
		Floor:            sp.Floor(),
		Zone:             sp.Zone(),
		Type:             sp.SpotType().String(),
		RateCentsPerHour: sp.RateCentsPerHour(),
		Status:           spot.DeriveStatus(sp.UnderMaintenance(), now, active).String(),
		Maintenance:      sp.UnderMaintenance(),
		CreatedAt:        sp.CreatedAt(),
		UpdatedAt:        sp.UpdatedAt(),
	}
}

func userView(u *user.User) *readmodel.AuthorizedUserRM {
	return &readmodel.AuthorizedUserRM{
		ID:            u.ID(),
		Name:          u.Name(),
		Email:         u.Email().Value(),
		Role:          u.Role().String(),
		Phone:         u.Phone(),
		VehicleNumber: u.VehicleNumber(),
		IsActive:      u.IsActive(),
		LastLogin:     u.LastLogin(),
		CreatedAt:     u.CreatedAt(),
	}
}

func snapshotBooking(b *booking.Booking) *booking.Booking {
	return booking.ReconstructBooking(
		b.ID(), b.SpotID(), b.UserID(),
		b.VehicleNumber(),
		b.Slot(),
		b.DurationHours(),
		b.Price(),
		b.Status(),
		copyTime(b.CheckInAt()), copyTime(b.CheckOutAt()),
		b.CreatedAt(), b.UpdatedAt(),
	)
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}

func sortViews(views []*readmodel.BookingRM) {
	// Newest first, on creation time then start time.
	sort.Slice(views, func(i, j int) bool {
		return laterThan(views[i], views[j])
	})
}

func laterThan(a, b *readmodel.BookingRM) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return a.StartTime.After(b.StartTime)
}
