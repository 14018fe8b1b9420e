package appointment

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/bookline/bookline/internal/domain/availability"
	"github.com/bookline/bookline/internal/domain/catalog"
	"github.com/bookline/bookline/internal/domain/client"
	"github.com/bookline/bookline/internal/domain/provider"
	"github.com/bookline/bookline/internal/platform/activity"
	"github.com/bookline/bookline/internal/platform/auth"
	"github.com/bookline/bookline/internal/platform/cache"
	"github.com/bookline/bookline/internal/platform/calendar"
	"github.com/bookline/bookline/internal/platform/locking"
	"github.com/bookline/bookline/pkg/apperr"
	"github.com/bookline/bookline/pkg/timeutil"
)

// Config carries the time-window knobs for lifecycle transitions.
type Config struct {
	Location     *time.Location
	CheckinEarly time.Duration
	CheckinLate  time.Duration
	NoShowGrace  time.Duration
}

// Deps wires the booking engine's collaborators. InTx and Now default to
// a passthrough and time.Now when nil.
type Deps struct {
	Appointments Repository
	Clients      client.Repository
	Providers    provider.Repository
	Catalog      catalog.Repository
	Resolver     *availability.Resolver
	Activity     activity.Recorder
	Calendar     calendar.Sync
	Locks        *locking.KeyedMutex
	Cache        cache.DayCache
	InTx         func(ctx context.Context, fn func(context.Context) error) error
	Config       Config
	Logger       zerolog.Logger
	Now          func() time.Time
}

// Service validates and commits bookings and drives lifecycle
// transitions. The per-provider lock covers only the availability check
// and the record write, never collaborator I/O.
type Service struct {
	d Deps
}

func NewService(d Deps) *Service {
	if d.InTx == nil {
		d.InTx = func(ctx context.Context, fn func(context.Context) error) error { return fn(ctx) }
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.Calendar == nil {
		d.Calendar = calendar.NoopSync{}
	}
	if d.Cache == nil {
		d.Cache = cache.NoopCache{}
	}
	if d.Locks == nil {
		d.Locks = locking.NewKeyedMutex()
	}
	return &Service{d: d}
}

// Book validates a booking request and commits it. Collaborator failures
// after the record write come back as warnings, never as errors.
func (s *Service) Book(ctx context.Context, req BookingRequest) (*Appointment, []string, error) {
	switch {
	case req.ClientID == uuid.Nil:
		return nil, nil, apperr.New(apperr.KindMissingField, "client_id is required")
	case req.ProviderID == uuid.Nil:
		return nil, nil, apperr.New(apperr.KindMissingField, "provider_id is required")
	case req.ServiceID == uuid.Nil:
		return nil, nil, apperr.New(apperr.KindMissingField, "service_id is required")
	case req.Date == "":
		return nil, nil, apperr.New(apperr.KindMissingField, "date is required")
	case req.Start == "":
		return nil, nil, apperr.New(apperr.KindMissingField, "start is required")
	case req.DurationMinutes == 0:
		return nil, nil, apperr.New(apperr.KindMissingField, "duration_minutes is required")
	}

	date, err := timeutil.ParseDate(req.Date, s.d.Config.Location)
	if err != nil {
		return nil, nil, err
	}
	startMin, err := timeutil.ParseClock(req.Start)
	if err != nil {
		return nil, nil, err
	}

	cl, err := s.d.Clients.GetByID(ctx, req.ClientID)
	if err != nil {
		return nil, nil, err
	}
	prov, err := s.d.Providers.GetByID(ctx, req.ProviderID)
	if err != nil {
		return nil, nil, err
	}
	svcType, err := s.d.Catalog.GetByID(ctx, req.ServiceID)
	if err != nil {
		return nil, nil, err
	}

	if !prov.Active || !prov.Offers(req.ServiceID) {
		return nil, nil, apperr.New(apperr.KindServiceNotOffered, "provider %s does not offer this service", prov.Name)
	}
	if timeutil.AtMinutes(date, startMin, s.d.Config.Location).Before(s.d.Now()) {
		return nil, nil, apperr.New(apperr.KindPastDateTime, "cannot book in the past")
	}
	if !svcType.AllowsDuration(req.DurationMinutes) {
		return nil, nil, apperr.New(apperr.KindInvalidDuration, "duration %d is not allowed for %s", req.DurationMinutes, svcType.Name)
	}

	appt := &Appointment{
		ClientID:        req.ClientID,
		ProviderID:      req.ProviderID,
		ServiceID:       req.ServiceID,
		Date:            date,
		Start:           req.Start,
		DurationMinutes: req.DurationMinutes,
		Status:          StatusBooked,
		Notes:           req.Notes,
	}

	err = s.withProviderLock(req.ProviderID, func() error {
		available, err := s.d.Resolver.IsSlotAvailable(ctx, req.ProviderID, date, startMin, req.DurationMinutes)
		if err != nil {
			return err
		}
		if !available {
			return apperr.New(apperr.KindSlotUnavailable, "slot %s is not available on %s", req.Start, req.Date)
		}
		return s.d.InTx(ctx, func(ctx context.Context) error {
			if err := s.d.Appointments.Create(ctx, appt); err != nil {
				return err
			}
			return s.d.Clients.RecordFirstVisit(ctx, cl.ID, date)
		})
	})
	if err != nil {
		return nil, nil, err
	}
	s.invalidate(ctx, req.ProviderID)

	warnings := s.record(ctx, appt, "book", "", StatusBooked, "")
	ref, err := s.d.Calendar.CreateEvent(ctx, s.calendarEvent(appt, svcType.Name, cl.Name))
	if err != nil {
		s.d.Logger.Warn().Err(err).Str("appointment_id", appt.ID.String()).Msg("calendar event creation failed")
		warnings = append(warnings, "calendar sync failed")
	} else if ref != "" {
		appt.CalendarRef = &ref
		if err := s.d.Appointments.Update(ctx, appt); err != nil {
			s.d.Logger.Warn().Err(err).Str("appointment_id", appt.ID.String()).Msg("storing calendar ref failed")
			warnings = append(warnings, "calendar reference not stored")
		}
	}
	return appt, warnings, nil
}

// Confirm moves a booked appointment to confirmed.
func (s *Service) Confirm(ctx context.Context, id uuid.UUID) (*Appointment, []string, error) {
	a, err := s.d.Appointments.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if !CanTransition(a.Status, StatusConfirmed) {
		return nil, nil, apperr.New(apperr.KindIllegalTransition, "cannot confirm from %s", a.Status)
	}
	from := a.Status
	a.Status = StatusConfirmed
	if err := s.updateLocked(ctx, a); err != nil {
		return nil, nil, err
	}
	return a, s.record(ctx, a, "confirm", from, a.Status, ""), nil
}

// CheckIn admits the client. Only allowed inside the window around the
// scheduled start.
func (s *Service) CheckIn(ctx context.Context, id uuid.UUID) (*Appointment, []string, error) {
	a, err := s.d.Appointments.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if !CanTransition(a.Status, StatusCheckedIn) {
		return nil, nil, apperr.New(apperr.KindIllegalTransition, "cannot check in from %s", a.Status)
	}
	start, err := a.StartsAt(s.d.Config.Location)
	if err != nil {
		return nil, nil, err
	}
	now := s.d.Now()
	if now.Before(start.Add(-s.d.Config.CheckinEarly)) {
		return nil, nil, apperr.New(apperr.KindTooEarly, "check-in opens %s before the appointment", s.d.Config.CheckinEarly)
	}
	if now.After(start.Add(s.d.Config.CheckinLate)) {
		return nil, nil, apperr.New(apperr.KindTooLate, "check-in closed %s after the start time", s.d.Config.CheckinLate)
	}

	from := a.Status
	a.Status = StatusCheckedIn
	if err := s.updateLocked(ctx, a); err != nil {
		return nil, nil, err
	}
	return a, s.record(ctx, a, "check_in", from, a.Status, ""), nil
}

// MarkNoShow records a missed appointment once the grace period after the
// scheduled start has elapsed, incrementing the client's no-show count.
func (s *Service) MarkNoShow(ctx context.Context, id uuid.UUID) (*Appointment, []string, error) {
	a, err := s.d.Appointments.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if !CanTransition(a.Status, StatusNoShow) {
		return nil, nil, apperr.New(apperr.KindIllegalTransition, "cannot mark no-show from %s", a.Status)
	}
	start, err := a.StartsAt(s.d.Config.Location)
	if err != nil {
		return nil, nil, err
	}
	now := s.d.Now()
	if now.Before(start) {
		return nil, nil, apperr.New(apperr.KindTooEarly, "appointment has not started yet")
	}
	if now.Before(start.Add(s.d.Config.NoShowGrace)) {
		return nil, nil, apperr.New(apperr.KindWithinGracePeriod, "grace period of %s has not elapsed", s.d.Config.NoShowGrace)
	}

	from := a.Status
	a.Status = StatusNoShow
	err = s.withProviderLock(a.ProviderID, func() error {
		return s.d.InTx(ctx, func(ctx context.Context) error {
			if err := s.d.Appointments.Update(ctx, a); err != nil {
				return err
			}
			return s.d.Clients.IncrementNoShow(ctx, a.ClientID)
		})
	})
	if err != nil {
		return nil, nil, err
	}
	s.invalidate(ctx, a.ProviderID)
	return a, s.record(ctx, a, "no_show", from, a.Status, ""), nil
}

// Cancel ends the appointment from any non-terminal state and releases
// its calendar event.
func (s *Service) Cancel(ctx context.Context, id uuid.UUID, reason string) (*Appointment, []string, error) {
	a, err := s.d.Appointments.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if !CanTransition(a.Status, StatusCancelled) {
		return nil, nil, apperr.New(apperr.KindIllegalTransition, "cannot cancel from %s", a.Status)
	}

	from := a.Status
	var oldRef string
	if a.CalendarRef != nil {
		oldRef = *a.CalendarRef
	}
	a.Status = StatusCancelled
	if reason != "" {
		a.CancelReason = &reason
	}
	a.CalendarRef = nil
	if err := s.updateLocked(ctx, a); err != nil {
		return nil, nil, err
	}
	s.invalidate(ctx, a.ProviderID)

	warnings := s.record(ctx, a, "cancel", from, a.Status, reason)
	if oldRef != "" {
		if err := s.d.Calendar.DeleteEvent(ctx, oldRef); err != nil {
			s.d.Logger.Warn().Err(err).Str("appointment_id", a.ID.String()).Msg("calendar event deletion failed")
			warnings = append(warnings, "calendar sync failed")
		}
	}
	return a, warnings, nil
}

// Reschedule moves the appointment to a new slot, provider or service.
// The slot check excludes the appointment's own current booking.
func (s *Service) Reschedule(ctx context.Context, id uuid.UUID, req RescheduleRequest) (*Appointment, []string, error) {
	a, err := s.d.Appointments.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if !CanTransition(a.Status, StatusRescheduled) {
		return nil, nil, apperr.New(apperr.KindIllegalTransition, "cannot reschedule from %s", a.Status)
	}

	from := a.Status
	oldProviderID := a.ProviderID
	prior := fmt.Sprintf("provider=%s service=%s date=%s start=%s duration=%d",
		a.ProviderID, a.ServiceID, timeutil.NormalizeDate(a.Date, s.d.Config.Location), a.Start, a.DurationMinutes)

	targetDate := a.Date
	if req.NewDate != nil {
		targetDate, err = timeutil.ParseDate(*req.NewDate, s.d.Config.Location)
		if err != nil {
			return nil, nil, err
		}
	}
	targetStart := a.Start
	if req.NewStart != nil {
		targetStart = *req.NewStart
	}
	startMin, err := timeutil.ParseClock(targetStart)
	if err != nil {
		return nil, nil, err
	}
	targetDuration := a.DurationMinutes
	if req.NewDuration != nil {
		targetDuration = *req.NewDuration
	}
	targetProviderID := a.ProviderID
	if req.NewProviderID != nil {
		targetProviderID = *req.NewProviderID
	}
	targetServiceID := a.ServiceID
	if req.NewServiceID != nil {
		targetServiceID = *req.NewServiceID
	}

	if req.NewProviderID != nil || req.NewServiceID != nil {
		prov, err := s.d.Providers.GetByID(ctx, targetProviderID)
		if err != nil {
			return nil, nil, err
		}
		if !prov.Offers(targetServiceID) {
			return nil, nil, apperr.New(apperr.KindServiceNotOffered, "provider %s does not offer this service", prov.Name)
		}
	}
	if req.NewDuration != nil || req.NewServiceID != nil {
		svcType, err := s.d.Catalog.GetByID(ctx, targetServiceID)
		if err != nil {
			return nil, nil, err
		}
		if !svcType.AllowsDuration(targetDuration) {
			return nil, nil, apperr.New(apperr.KindInvalidDuration, "duration %d is not allowed for %s", targetDuration, svcType.Name)
		}
	}

	err = s.withProviderLock(targetProviderID, func() error {
		available, err := s.d.Resolver.IsSlotAvailableExcluding(ctx, targetProviderID, targetDate, startMin, targetDuration, a.ID)
		if err != nil {
			return err
		}
		if !available {
			return apperr.New(apperr.KindSlotUnavailable, "slot %s is not available", targetStart)
		}
		a.ProviderID = targetProviderID
		a.ServiceID = targetServiceID
		a.Date = targetDate
		a.Start = targetStart
		a.DurationMinutes = targetDuration
		a.Status = StatusRescheduled
		return s.d.InTx(ctx, func(ctx context.Context) error {
			return s.d.Appointments.Update(ctx, a)
		})
	})
	if err != nil {
		return nil, nil, err
	}
	s.invalidate(ctx, oldProviderID)
	if targetProviderID != oldProviderID {
		s.invalidate(ctx, targetProviderID)
	}

	detail := "was " + prior
	if req.Reason != nil {
		detail += "; reason: " + *req.Reason
	}
	warnings := s.record(ctx, a, "reschedule", from, a.Status, detail)
	if a.CalendarRef != nil {
		if err := s.d.Calendar.UpdateEvent(ctx, *a.CalendarRef, s.calendarEvent(a, "", "")); err != nil {
			s.d.Logger.Warn().Err(err).Str("appointment_id", a.ID.String()).Msg("calendar event update failed")
			warnings = append(warnings, "calendar sync failed")
		}
	}
	return a, warnings, nil
}

// Complete closes out a checked-in appointment and stamps the client's
// last visit.
func (s *Service) Complete(ctx context.Context, id uuid.UUID) (*Appointment, []string, error) {
	a, err := s.d.Appointments.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if !CanTransition(a.Status, StatusCompleted) {
		return nil, nil, apperr.New(apperr.KindIllegalTransition, "cannot complete from %s", a.Status)
	}

	from := a.Status
	a.Status = StatusCompleted
	err = s.withProviderLock(a.ProviderID, func() error {
		return s.d.InTx(ctx, func(ctx context.Context) error {
			if err := s.d.Appointments.Update(ctx, a); err != nil {
				return err
			}
			return s.d.Clients.RecordLastVisit(ctx, a.ClientID, a.Date)
		})
	})
	if err != nil {
		return nil, nil, err
	}
	s.invalidate(ctx, a.ProviderID)
	return a, s.record(ctx, a, "complete", from, a.Status, ""), nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	return s.d.Appointments.GetByID(ctx, id)
}

// DaySchedule lists a provider's appointments for a date ordered by
// start time.
func (s *Service) DaySchedule(ctx context.Context, providerID uuid.UUID, date time.Time) ([]*Appointment, error) {
	return s.d.Appointments.ListByProviderDate(ctx, providerID, date)
}

func (s *Service) ClientHistory(ctx context.Context, clientID uuid.UUID, limit, offset int) ([]*Appointment, int, error) {
	return s.d.Appointments.ListByClient(ctx, clientID, limit, offset)
}

func (s *Service) withProviderLock(providerID uuid.UUID, fn func() error) error {
	key := providerID.String()
	s.d.Locks.Lock(key)
	defer s.d.Locks.Unlock(key)
	return fn()
}

func (s *Service) updateLocked(ctx context.Context, a *Appointment) error {
	return s.withProviderLock(a.ProviderID, func() error {
		return s.d.Appointments.Update(ctx, a)
	})
}

func (s *Service) invalidate(ctx context.Context, providerID uuid.UUID) {
	if err := s.d.Cache.Invalidate(ctx, providerID.String()); err != nil {
		s.d.Logger.Warn().Err(err).Str("provider_id", providerID.String()).Msg("availability cache invalidation failed")
	}
}

// record writes an activity entry. Failures are logged and surfaced as a
// warning; they never fail the transition that triggered them.
func (s *Service) record(ctx context.Context, a *Appointment, action string, from, to Status, detail string) []string {
	entry := &activity.Entry{
		AppointmentID: a.ID,
		ProviderID:    a.ProviderID,
		ClientID:      a.ClientID,
		Action:        action,
		FromStatus:    string(from),
		ToStatus:      string(to),
		Actor:         auth.UserIDFromContext(ctx),
		Detail:        detail,
	}
	if err := s.d.Activity.Record(ctx, entry); err != nil {
		s.d.Logger.Warn().Err(err).Str("appointment_id", a.ID.String()).Str("action", action).Msg("activity log write failed")
		return []string{"activity log write failed"}
	}
	return nil
}

func (s *Service) calendarEvent(a *Appointment, serviceName, clientName string) calendar.Event {
	summary := "Appointment"
	if serviceName != "" {
		summary = serviceName
	}
	if clientName != "" {
		summary += " with " + clientName
	}
	startMin, _ := timeutil.ParseClock(a.Start)
	start := timeutil.AtMinutes(a.Date, startMin, s.d.Config.Location)
	ev := calendar.Event{
		AppointmentID: a.ID.String(),
		Summary:       summary,
		Start:         start,
		End:           start.Add(time.Duration(a.DurationMinutes) * time.Minute),
	}
	if a.Notes != nil {
		ev.Description = *a.Notes
	}
	return ev
}
