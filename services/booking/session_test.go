package booking

import (
	"context"
	"fmt"
	"testing"
	"time"

	appointmentRepo "barberbook/database/repository/appointment"
	"barberbook/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 2026-01-05 is a Monday.
const testDate = "2026-01-05"

type fakeCatalog struct {
	services   map[string]models.Service
	hours      map[time.Weekday]models.DayHours
	hoursCalls int
}

func (f *fakeCatalog) ListServices(ctx context.Context) ([]models.Service, error) {
	out := make([]models.Service, 0, len(f.services))
	for _, svc := range f.services {
		out = append(out, svc)
	}
	return out, nil
}

func (f *fakeCatalog) GetServiceByID(ctx context.Context, serviceID string) (*models.Service, error) {
	svc, ok := f.services[serviceID]
	if !ok {
		return nil, fmt.Errorf("service %s not found", serviceID)
	}
	return &svc, nil
}

func (f *fakeCatalog) GetDayHours(ctx context.Context, weekday time.Weekday) (*models.DayHours, error) {
	f.hoursCalls++
	if h, ok := f.hours[weekday]; ok {
		return &h, nil
	}
	return &models.DayHours{Weekday: weekday, Closed: true}, nil
}

func (f *fakeCatalog) ListWeekHours(ctx context.Context) ([]models.DayHours, error) {
	out := make([]models.DayHours, 0, len(f.hours))
	for _, h := range f.hours {
		out = append(out, h)
	}
	return out, nil
}

type fakeAppointments struct {
	intervals map[string][]models.BookedInterval
	created   []models.Appointment
}

func (f *fakeAppointments) Create(ctx context.Context, appt *models.Appointment) error {
	for _, b := range f.intervals[appt.Date] {
		if Overlaps(appt.Start, appt.End(), b.Start, b.End()) {
			return appointmentRepo.ErrSlotConflict
		}
	}
	appt.ID = fmt.Sprintf("appt-%d", len(f.created)+1)
	f.created = append(f.created, *appt)
	f.intervals[appt.Date] = append(f.intervals[appt.Date], models.BookedInterval{Start: appt.Start, Duration: appt.Duration})
	return nil
}

func (f *fakeAppointments) GetByID(ctx context.Context, id string) (*models.Appointment, error) {
	for i := range f.created {
		if f.created[i].ID == id {
			return &f.created[i], nil
		}
	}
	return nil, fmt.Errorf("appointment %s not found", id)
}

func (f *fakeAppointments) ListByDate(ctx context.Context, date string) ([]models.Appointment, error) {
	return nil, nil
}

func (f *fakeAppointments) ListByClient(ctx context.Context, clientID string) ([]models.Appointment, error) {
	return nil, nil
}

func (f *fakeAppointments) ListBookedIntervals(ctx context.Context, date string) ([]models.BookedInterval, error) {
	return f.intervals[date], nil
}

func (f *fakeAppointments) UpdateStatus(ctx context.Context, id, status string) error { return nil }
func (f *fakeAppointments) MarkCompleted(ctx context.Context, id string) error        { return nil }

type fakeFamily struct {
	members map[string]models.FamilyMember // memberID -> member
}

func (f *fakeFamily) ListByUser(ctx context.Context, userID string) ([]models.FamilyMember, error) {
	return nil, nil
}

func (f *fakeFamily) GetByID(ctx context.Context, userID, memberID string) (*models.FamilyMember, error) {
	m, ok := f.members[memberID]
	if !ok || m.UserID != userID {
		return nil, fmt.Errorf("family member %s not found", memberID)
	}
	return &m, nil
}

func (f *fakeFamily) Create(ctx context.Context, member *models.FamilyMember) error { return nil }
func (f *fakeFamily) Update(ctx context.Context, member *models.FamilyMember) error { return nil }
func (f *fakeFamily) Delete(ctx context.Context, userID, memberID string) error     { return nil }

type fakeScheduler struct {
	scheduled []models.Appointment
}

func (f *fakeScheduler) ScheduleCompletion(ctx context.Context, appt models.Appointment) error {
	f.scheduled = append(f.scheduled, appt)
	return nil
}

type testFixture struct {
	svc          *DefaultBookingSessionService
	catalog      *fakeCatalog
	appointments *fakeAppointments
	family       *fakeFamily
	completions  *fakeScheduler
	redis        *miniredis.Miniredis
}

func newFixture(t *testing.T) *testFixture {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	catalog := &fakeCatalog{
		services: map[string]models.Service{
			"svc-haircut": {ID: "svc-haircut", Name: "Haircut", Duration: 45, Price: 120},
			"svc-beard":   {ID: "svc-beard", Name: "Beard Trim", Duration: 20, Price: 60},
		},
		hours: map[time.Weekday]models.DayHours{
			time.Monday:  {Weekday: time.Monday, Open: 540, Close: 1140},
			time.Tuesday: {Weekday: time.Tuesday, Open: 540, Close: 1140},
		},
	}
	appointments := &fakeAppointments{intervals: make(map[string][]models.BookedInterval)}
	family := &fakeFamily{members: map[string]models.FamilyMember{
		"fam-1": {ID: "fam-1", UserID: "user-1", Name: "Yoav", Relation: "son"},
	}}
	completions := &fakeScheduler{}

	return &testFixture{
		svc: &DefaultBookingSessionService{
			Catalog:      catalog,
			Appointments: appointments,
			Family:       family,
			Cache:        client,
			Completions:  completions,
		},
		catalog:      catalog,
		appointments: appointments,
		family:       family,
		completions:  completions,
		redis:        mr,
	}
}

// advanceToTimeSelect walks a fresh session through service and date
// selection so the availability grid is populated.
func (f *testFixture) advanceToTimeSelect(t *testing.T, userID string) *models.BookingSession {
	t.Helper()
	ctx := context.Background()

	session, err := f.svc.StartSession(ctx, userID)
	require.NoError(t, err)

	session, res, err := f.svc.SelectService(ctx, session.SessionID, "svc-haircut")
	require.NoError(t, err)
	require.True(t, res.OK)

	session, res, err = f.svc.SelectDate(ctx, session.SessionID, testDate)
	require.NoError(t, err)
	require.True(t, res.OK)
	require.Equal(t, models.StepTimeSelect, session.Step)
	require.NotEmpty(t, session.Availability)
	return session
}

func TestStartSession(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	session, err := f.svc.StartSession(ctx, "")
	require.NoError(t, err)
	assert.NotEmpty(t, session.SessionID)
	assert.Equal(t, models.StepServiceSelect, session.Step)
	assert.False(t, session.Authenticated())

	loaded, err := f.svc.GetSession(ctx, session.SessionID)
	require.NoError(t, err)
	assert.Equal(t, session.SessionID, loaded.SessionID)

	assert.True(t, f.redis.Exists("booking:session:"+session.SessionID))
	ttl := f.redis.TTL("booking:session:" + session.SessionID)
	assert.Equal(t, 30*time.Minute, ttl)
}

func TestGetSession_NotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.GetSession(context.Background(), "no-such-session")
	require.Error(t, err)
	assert.Equal(t, CodeSessionNotFound, CodeOf(err))
}

func TestGetSession_Expired(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	session, err := f.svc.StartSession(ctx, "")
	require.NoError(t, err)

	f.redis.FastForward(31 * time.Minute)

	_, err = f.svc.GetSession(ctx, session.SessionID)
	require.Error(t, err)
	assert.Equal(t, CodeSessionNotFound, CodeOf(err))
}

func TestSelectDate_PopulatesAvailability(t *testing.T) {
	f := newFixture(t)
	f.appointments.intervals[testDate] = []models.BookedInterval{{Start: 600, Duration: 45}}

	session := f.advanceToTimeSelect(t, "")

	assert.Equal(t, models.AvailabilityKey{Date: testDate, ServiceID: "svc-haircut"}, session.AvailabilityFor)
	assert.Contains(t, session.Availability, 540)
	assert.NotContains(t, session.Availability, 600, "booked slot must not be offered")
	assert.Contains(t, session.Availability, 645)
}

func TestSelectDate_InvalidFormat(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	session, err := f.svc.StartSession(ctx, "")
	require.NoError(t, err)
	_, res, err := f.svc.SelectService(ctx, session.SessionID, "svc-haircut")
	require.NoError(t, err)
	require.True(t, res.OK)

	_, _, err = f.svc.SelectDate(ctx, session.SessionID, "05/01/2026")
	require.Error(t, err)
	assert.Equal(t, CodeValidationError, CodeOf(err))
}

func TestSelectDate_ClosedDay(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	session, err := f.svc.StartSession(ctx, "")
	require.NoError(t, err)
	_, _, err = f.svc.SelectService(ctx, session.SessionID, "svc-haircut")
	require.NoError(t, err)

	// 2026-01-04 is a Sunday, which has no configured hours.
	session, res, err := f.svc.SelectDate(ctx, session.SessionID, "2026-01-04")
	require.NoError(t, err)
	require.True(t, res.OK)
	assert.Empty(t, session.Availability)
}

func TestAvailability_CachedPerDateAndService(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	session := f.advanceToTimeSelect(t, "")
	require.Equal(t, 1, f.catalog.hoursCalls)

	// Re-picking the same date lands on time selection again but reuses
	// the cached grid.
	session, res, err := f.svc.SelectDate(ctx, session.SessionID, testDate)
	require.NoError(t, err)
	require.True(t, res.OK)
	assert.Equal(t, 1, f.catalog.hoursCalls)

	// A different date is a different key and triggers a fresh fetch.
	session, res, err = f.svc.SelectDate(ctx, session.SessionID, "2026-01-06")
	require.NoError(t, err)
	require.True(t, res.OK)
	assert.Equal(t, 2, f.catalog.hoursCalls)
	assert.Equal(t, models.AvailabilityKey{Date: "2026-01-06", ServiceID: "svc-haircut"}, session.AvailabilityFor)
}

func TestAvailability_InvalidatedOnServiceChange(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	session := f.advanceToTimeSelect(t, "")
	seqBefore := session.AvailabilitySeq

	// Changing the service drops the grid; the wizard returns to date
	// selection so no refetch happens until a date is picked again.
	session, res, err := f.svc.SelectService(ctx, session.SessionID, "svc-beard")
	require.NoError(t, err)
	require.True(t, res.OK)
	assert.Equal(t, models.StepDateSelect, session.Step)
	assert.Empty(t, session.Availability)
	assert.Equal(t, models.AvailabilityKey{}, session.AvailabilityFor)
	assert.Greater(t, session.AvailabilitySeq, seqBefore)

	// The date survives the service change, so re-picking it recomputes
	// the grid for the new duration.
	session, res, err = f.svc.SelectDate(ctx, session.SessionID, testDate)
	require.NoError(t, err)
	require.True(t, res.OK)
	assert.Contains(t, session.Availability, 1110, "a 20-minute service fits a later last slot")
}

func TestApplyAvailability_DiscardsStaleResult(t *testing.T) {
	f := newFixture(t)
	session := &models.BookingSession{AvailabilitySeq: 2}
	key := models.AvailabilityKey{Date: testDate, ServiceID: "svc-haircut"}

	installed := f.svc.applyAvailability(session, 1, key, []int{540, 555})
	assert.False(t, installed, "a result from an older fetch must be discarded")
	assert.Nil(t, session.Availability)
	assert.Equal(t, models.AvailabilityKey{}, session.AvailabilityFor)

	installed = f.svc.applyAvailability(session, 2, key, []int{540, 555})
	assert.True(t, installed)
	assert.Equal(t, []int{540, 555}, session.Availability)
	assert.Equal(t, key, session.AvailabilityFor)
}

func TestSelectTime_MustBeOffered(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	session := f.advanceToTimeSelect(t, "")

	session, res, err := f.svc.SelectTime(ctx, session.SessionID, 601)
	require.NoError(t, err)
	assert.False(t, res.OK)
	assert.Equal(t, ReasonMissingTime, res.Reason)
	assert.Contains(t, res.FieldErrors, "time")
	assert.Equal(t, models.StepTimeSelect, session.Step)
	assert.Nil(t, session.Selection.Start)
}

func TestSelectTime_GuestGoesToContactInfo(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	session := f.advanceToTimeSelect(t, "")
	session, res, err := f.svc.SelectTime(ctx, session.SessionID, 600)
	require.NoError(t, err)
	require.True(t, res.OK)
	assert.Equal(t, models.StepContactInfo, session.Step)
}

func TestSelectSubject_AuthenticatedFlow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	session := f.advanceToTimeSelect(t, "user-1")
	session, res, err := f.svc.SelectTime(ctx, session.SessionID, 600)
	require.NoError(t, err)
	require.True(t, res.OK)
	require.Equal(t, models.StepSubjectSelect, session.Step)

	session, res, err = f.svc.SelectSubject(ctx, session.SessionID, "fam-1", false)
	require.NoError(t, err)
	require.True(t, res.OK)
	assert.Equal(t, models.StepConfirm, session.Step)
	require.NotNil(t, session.Selection.FamilyMember)
	assert.Equal(t, "Yoav", session.Selection.FamilyMember.Name)
}

func TestSelectSubject_GuestRejected(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	session := f.advanceToTimeSelect(t, "")
	session, _, err := f.svc.SelectTime(ctx, session.SessionID, 600)
	require.NoError(t, err)

	session, _, err = f.svc.SelectSubject(ctx, session.SessionID, "", true)
	require.Error(t, err)
	assert.Equal(t, CodeUnauthenticated, CodeOf(err))

	// The selection stays intact so the user can sign in and resume.
	loaded, err := f.svc.GetSession(ctx, session.SessionID)
	require.NoError(t, err)
	require.NotNil(t, loaded.Selection.Start)
	assert.Equal(t, 600, *loaded.Selection.Start)
}

func TestConfirm_GuestBooking(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	session := f.advanceToTimeSelect(t, "")
	_, _, err := f.svc.SelectTime(ctx, session.SessionID, 600)
	require.NoError(t, err)
	_, res, err := f.svc.SetContactInfo(ctx, session.SessionID, models.ContactInfo{
		Name: "Dana", Email: "dana@example.com", Phone: "0501234567",
	})
	require.NoError(t, err)
	require.True(t, res.OK)

	session, res, err = f.svc.Confirm(ctx, session.SessionID)
	require.NoError(t, err)
	require.True(t, res.OK)
	assert.Equal(t, models.StepCompleted, session.Step)
	assert.NotEmpty(t, session.BookingRef)

	require.Len(t, f.appointments.created, 1)
	appt := f.appointments.created[0]
	assert.Equal(t, models.StatusPending, appt.Status)
	assert.Equal(t, "svc-haircut", appt.ServiceID)
	assert.Equal(t, testDate, appt.Date)
	assert.Equal(t, 600, appt.Start)
	assert.Empty(t, appt.ClientID)
	require.NotNil(t, appt.ClientInfo)
	assert.Equal(t, "Dana", appt.ClientInfo.Name)

	require.Len(t, f.completions.scheduled, 1)
	assert.Equal(t, session.BookingRef, f.completions.scheduled[0].ID)
}

func TestConfirm_AuthenticatedBookingForSelf(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	session := f.advanceToTimeSelect(t, "user-1")
	_, _, err := f.svc.SelectTime(ctx, session.SessionID, 600)
	require.NoError(t, err)
	_, res, err := f.svc.SelectSubject(ctx, session.SessionID, "", true)
	require.NoError(t, err)
	require.True(t, res.OK)

	session, res, err = f.svc.Confirm(ctx, session.SessionID)
	require.NoError(t, err)
	require.True(t, res.OK)

	require.Len(t, f.appointments.created, 1)
	appt := f.appointments.created[0]
	assert.Equal(t, "user-1", appt.ClientID)
	assert.Nil(t, appt.FamilyMember)
	assert.Nil(t, appt.ClientInfo)
}

func TestConfirm_BeforeConfirmStep(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	session := f.advanceToTimeSelect(t, "")
	session, res, err := f.svc.Confirm(ctx, session.SessionID)
	require.NoError(t, err)
	assert.False(t, res.OK)
	assert.Equal(t, ReasonInvalidStep, res.Reason)
	assert.Equal(t, models.StepTimeSelect, session.Step)
}

func TestConfirm_SlotConflict(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	session := f.advanceToTimeSelect(t, "")
	_, _, err := f.svc.SelectTime(ctx, session.SessionID, 600)
	require.NoError(t, err)
	_, _, err = f.svc.SetContactInfo(ctx, session.SessionID, models.ContactInfo{
		Name: "Dana", Email: "dana@example.com", Phone: "0501234567",
	})
	require.NoError(t, err)

	// Someone else books the slot between grid fetch and confirm.
	f.appointments.intervals[testDate] = []models.BookedInterval{{Start: 600, Duration: 45}}

	session, res, err := f.svc.Confirm(ctx, session.SessionID)
	require.Error(t, err)
	assert.Equal(t, CodeSlotConflict, CodeOf(err))
	assert.False(t, res.OK)

	// The session survives on the confirm step with its selections, and
	// the stale grid is dropped so the caller re-fetches.
	assert.Equal(t, models.StepConfirm, session.Step)
	require.NotNil(t, session.Selection.Start)
	assert.Equal(t, 600, *session.Selection.Start)
	assert.Empty(t, session.Availability)

	loaded, err := f.svc.GetSession(ctx, session.SessionID)
	require.NoError(t, err)
	assert.Equal(t, models.StepConfirm, loaded.Step)
	assert.Empty(t, loaded.Availability)

	assert.Empty(t, f.appointments.created)
	assert.Empty(t, f.completions.scheduled)
}

func TestConfirm_RetryAfterConflict(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	session := f.advanceToTimeSelect(t, "")
	_, _, err := f.svc.SelectTime(ctx, session.SessionID, 600)
	require.NoError(t, err)
	_, _, err = f.svc.SetContactInfo(ctx, session.SessionID, models.ContactInfo{
		Name: "Dana", Email: "dana@example.com", Phone: "0501234567",
	})
	require.NoError(t, err)

	f.appointments.intervals[testDate] = []models.BookedInterval{{Start: 600, Duration: 45}}
	_, _, err = f.svc.Confirm(ctx, session.SessionID)
	require.Error(t, err)

	// Step back to the time grid, pick a free slot, confirm again.
	session, res, err := f.svc.Back(ctx, session.SessionID, models.StepTimeSelect)
	require.NoError(t, err)
	require.True(t, res.OK)
	assert.NotContains(t, session.Availability, 600, "re-entered grid reflects the competing booking")
	assert.Contains(t, session.Availability, 645)

	_, res, err = f.svc.SelectTime(ctx, session.SessionID, 645)
	require.NoError(t, err)
	require.True(t, res.OK)
	_, res, err = f.svc.SetContactInfo(ctx, session.SessionID, models.ContactInfo{
		Name: "Dana", Email: "dana@example.com", Phone: "0501234567",
	})
	require.NoError(t, err)
	require.True(t, res.OK)

	session, res, err = f.svc.Confirm(ctx, session.SessionID)
	require.NoError(t, err)
	require.True(t, res.OK)
	assert.Equal(t, models.StepCompleted, session.Step)
	require.Len(t, f.appointments.created, 1)
	assert.Equal(t, 645, f.appointments.created[0].Start)
}

func TestBack_RefreshesGridOnTimeSelect(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	session := f.advanceToTimeSelect(t, "")
	_, _, err := f.svc.SelectTime(ctx, session.SessionID, 600)
	require.NoError(t, err)
	require.Equal(t, 1, f.catalog.hoursCalls)

	// Going back to the grid with the cached key intact is a cache hit.
	session, res, err := f.svc.Back(ctx, session.SessionID, models.StepTimeSelect)
	require.NoError(t, err)
	require.True(t, res.OK)
	assert.Equal(t, 1, f.catalog.hoursCalls)
	assert.NotEmpty(t, session.Availability)
}

func TestCancelSession(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	session, err := f.svc.StartSession(ctx, "")
	require.NoError(t, err)

	require.NoError(t, f.svc.CancelSession(ctx, session.SessionID))

	_, err = f.svc.GetSession(ctx, session.SessionID)
	require.Error(t, err)
	assert.Equal(t, CodeSessionNotFound, CodeOf(err))
}
