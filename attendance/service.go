package attendance

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"prayer-attendance-server/models"
)

var ErrInvalidMark = errors.New("invalid attendance mark")

// SaveInput is one teacher submission for a class and prayer.
type SaveInput struct {
	Prayer    models.Prayer
	ClassID   string
	ClassName string
	// Marks maps student ID to present/absent. Students without a mark are present.
	Marks  map[string]models.Mark
	Roster []models.Student
	// Reasons maps student ID to a free-text absence reason.
	Reasons map[string]string
}

// BuildClassAttendance turns a submission into the record stored for the
// (prayer, class) pair. Absentees keep roster order.
func BuildClassAttendance(in SaveInput, at time.Time) (models.ClassAttendance, error) {
	for id, mark := range in.Marks {
		if mark != models.MarkPresent && mark != models.MarkAbsent {
			return models.ClassAttendance{}, fmt.Errorf("%w %q for student %s", ErrInvalidMark, mark, id)
		}
	}

	absent := make([]models.AbsentStudent, 0)
	present := 0
	for _, s := range in.Roster {
		if in.Marks[s.ID] != models.MarkAbsent {
			present++
			continue
		}
		absent = append(absent, models.AbsentStudent{
			Name:   s.Name,
			RollNo: s.RollNo,
			Reason: strings.TrimSpace(in.Reasons[s.ID]),
		})
	}

	return models.ClassAttendance{
		ClassID:        in.ClassID,
		ClassName:      in.ClassName,
		TotalStudents:  len(in.Roster),
		PresentCount:   present,
		AbsentStudents: absent,
		Timestamp:      at.UnixMilli(),
	}, nil
}

type Option func(*Service)

// WithClock overrides the time source used for record timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// Service records attendance and reads the store back for aggregation.
type Service struct {
	repo Repository
	log  zerolog.Logger
	now  func() time.Time
}

func NewService(repo Repository, log zerolog.Logger, opts ...Option) *Service {
	s := &Service{
		repo: repo,
		log:  log.With().Str("component", "attendance").Logger(),
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Now returns the service clock reading.
func (s *Service) Now() time.Time { return s.now() }

// SaveClassAttendance stores the record for (prayer, class), replacing any earlier one.
func (s *Service) SaveClassAttendance(ctx context.Context, in SaveInput) (models.ClassAttendance, error) {
	if in.ClassID == "" {
		return models.ClassAttendance{}, errors.New("class ID is required")
	}
	record, err := BuildClassAttendance(in, s.now())
	if err != nil {
		return models.ClassAttendance{}, err
	}

	err = s.repo.Update(ctx, func(store models.AttendanceStore) error {
		if store[in.Prayer] == nil {
			store[in.Prayer] = models.PrayerAttendance{}
		}
		store[in.Prayer][in.ClassID] = record
		return nil
	})
	if err != nil {
		return models.ClassAttendance{}, fmt.Errorf("failed to save attendance for %s/%s: %w", in.Prayer, in.ClassID, err)
	}

	s.log.Info().
		Str("prayer", string(in.Prayer)).
		Str("class_id", in.ClassID).
		Int("present", record.PresentCount).
		Int("absent", record.AbsentCount()).
		Msg("attendance saved")
	return record, nil
}

// Store returns the full store. Storage failures yield an empty store.
func (s *Service) Store(ctx context.Context) models.AttendanceStore {
	store, err := s.repo.Load(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("attendance store unreadable, using empty store")
		return models.AttendanceStore{}
	}
	if store == nil {
		return models.AttendanceStore{}
	}
	return store
}

// PrayerAttendance returns the records of one prayer, empty when none exist.
func (s *Service) PrayerAttendance(ctx context.Context, p models.Prayer) models.PrayerAttendance {
	if pa := s.Store(ctx)[p]; pa != nil {
		return pa
	}
	return models.PrayerAttendance{}
}

// ClearPrayer drops one prayer's records and leaves the others untouched.
func (s *Service) ClearPrayer(ctx context.Context, p models.Prayer) error {
	err := s.repo.Update(ctx, func(store models.AttendanceStore) error {
		delete(store, p)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to clear %s attendance: %w", p, err)
	}
	s.log.Info().Str("prayer", string(p)).Msg("prayer attendance cleared")
	return nil
}

func (s *Service) ClearAll(ctx context.Context) error {
	if err := s.repo.Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear attendance store: %w", err)
	}
	s.log.Info().Msg("attendance store cleared")
	return nil
}
