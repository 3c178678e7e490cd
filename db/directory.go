package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"prayer-attendance-server/models"
)

const (
	// MaxTeachers is the number of teacher accounts the school may register.
	MaxTeachers = 5

	// teacherRegistrationLock is the advisory lock key that serializes
	// registrations so the capacity check cannot be raced.
	teacherRegistrationLock int64 = 0x7072617965720001
)

// DirectoryService handles teachers, classes and students in PostgreSQL
type DirectoryService struct {
	DB  *gorm.DB
	log zerolog.Logger
}

// NewDirectoryService creates a new DirectoryService instance
func NewDirectoryService(gdb *gorm.DB, log zerolog.Logger) *DirectoryService {
	return &DirectoryService{
		DB:  gdb,
		log: log.With().Str("component", "directory").Logger(),
	}
}

// translate maps GORM errors onto the package sentinels.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: %v", ErrDuplicate, err)
	}
	return err
}

// --- Teacher Operations ---

func (s *DirectoryService) CountTeachers(ctx context.Context) (int64, error) {
	var n int64
	if err := s.DB.WithContext(ctx).Model(&models.Teacher{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count teachers: %w", err)
	}
	return n, nil
}

func (s *DirectoryService) GetTeacherByEmail(ctx context.Context, email string) (*models.Teacher, error) {
	var t models.Teacher
	if err := s.DB.WithContext(ctx).Where("email = ?", email).First(&t).Error; err != nil {
		return nil, translate(err)
	}
	return &t, nil
}

// CreateTeacher registers a teacher. The password must already be hashed.
func (s *DirectoryService) CreateTeacher(ctx context.Context, t *models.Teacher) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	t.IsActive = true

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("SELECT pg_advisory_xact_lock(?)", teacherRegistrationLock).Error; err != nil {
			return err
		}
		var n int64
		if err := tx.Model(&models.Teacher{}).Count(&n).Error; err != nil {
			return err
		}
		if n >= MaxTeachers {
			return ErrTeacherLimit
		}
		var dup int64
		if err := tx.Model(&models.Teacher{}).Where("email = ?", t.Email).Count(&dup).Error; err != nil {
			return err
		}
		if dup > 0 {
			return fmt.Errorf("%w: email %s", ErrDuplicate, t.Email)
		}
		return tx.Create(t).Error
	})
	if err != nil {
		return translate(err)
	}
	s.log.Info().Str("teacher_id", t.ID).Msg("teacher registered")
	return nil
}

// --- Class Operations ---

// ListClasses returns every class with its current student count.
func (s *DirectoryService) ListClasses(ctx context.Context) ([]models.ClassGroup, error) {
	classes := make([]models.ClassGroup, 0)
	err := s.DB.WithContext(ctx).
		Table("classes").
		Select("classes.id, classes.name, classes.created_at, COUNT(students.id) AS students").
		Joins("LEFT JOIN students ON students.class_id = classes.id").
		Group("classes.id, classes.name, classes.created_at").
		Order("classes.created_at, classes.id").
		Scan(&classes).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list classes: %w", err)
	}
	return classes, nil
}

func (s *DirectoryService) GetClass(ctx context.Context, id string) (*models.Clazz, error) {
	var c models.Clazz
	if err := s.DB.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

func (s *DirectoryService) CreateClass(ctx context.Context, c *models.Clazz) error {
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&models.Clazz{}).Where("id = ?", c.ID).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return fmt.Errorf("%w: class %s", ErrDuplicate, c.ID)
		}
		return tx.Create(c).Error
	})
	if err != nil {
		return translate(err)
	}
	s.log.Info().Str("class_id", c.ID).Str("name", c.Name).Msg("class created")
	return nil
}

func (s *DirectoryService) UpdateClass(ctx context.Context, id, name string) (*models.Clazz, error) {
	res := s.DB.WithContext(ctx).Model(&models.Clazz{}).Where("id = ?", id).Update("name", name)
	if res.Error != nil {
		return nil, translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return s.GetClass(ctx, id)
}

// DeleteClass removes a class and all of its students.
func (s *DirectoryService) DeleteClass(ctx context.Context, id string) error {
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("class_id = ?", id).Delete(&models.Student{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&models.Clazz{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
	if err != nil {
		return translate(err)
	}
	s.log.Info().Str("class_id", id).Msg("class deleted")
	return nil
}

// --- Student Operations ---

func (s *DirectoryService) ListStudents(ctx context.Context) ([]models.Student, error) {
	students := make([]models.Student, 0)
	if err := s.DB.WithContext(ctx).Order("class_id, roll_no").Find(&students).Error; err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}
	return students, nil
}

func (s *DirectoryService) ListStudentsByClass(ctx context.Context, classID string) ([]models.Student, error) {
	students := make([]models.Student, 0)
	if err := s.DB.WithContext(ctx).Where("class_id = ?", classID).Order("roll_no").Find(&students).Error; err != nil {
		return nil, fmt.Errorf("failed to list students of class %s: %w", classID, err)
	}
	return students, nil
}

func (s *DirectoryService) GetStudent(ctx context.Context, id string) (*models.Student, error) {
	var st models.Student
	if err := s.DB.WithContext(ctx).First(&st, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &st, nil
}

func maxRollNo(tx *gorm.DB, classID string) (int, error) {
	var highest int
	err := tx.Model(&models.Student{}).
		Where("class_id = ?", classID).
		Select("COALESCE(MAX(roll_no), 0)").
		Scan(&highest).Error
	return highest, err
}

// lockClass takes a row lock on the class for the rest of the transaction.
// Writers that number students hold it, so two inserts never compute the
// same next roll number.
func lockClass(tx *gorm.DB, classID string) error {
	var c models.Clazz
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Select("id").First(&c, "id = ?", classID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: class %s", ErrNotFound, classID)
	}
	return err
}

// CreateStudent adds a student with the next roll number of its class.
func (s *DirectoryService) CreateStudent(ctx context.Context, st *models.Student) error {
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockClass(tx, st.ClassID); err != nil {
			return err
		}
		highest, err := maxRollNo(tx, st.ClassID)
		if err != nil {
			return err
		}
		if st.ID == "" {
			st.ID = uuid.NewString()
		}
		st.RollNo = highest + 1
		return tx.Create(st).Error
	})
	if err != nil {
		return translate(err)
	}
	s.log.Info().Str("student_id", st.ID).Str("class_id", st.ClassID).Int("roll_no", st.RollNo).Msg("student created")
	return nil
}

// assignRollNumbers numbers students without a roll number after the
// highest number already in use, in input order.
func assignRollNumbers(existingMax int, students []models.Student) {
	next := existingMax
	for _, st := range students {
		if st.RollNo > next {
			next = st.RollNo
		}
	}
	for i := range students {
		if students[i].RollNo <= 0 {
			next++
			students[i].RollNo = next
		}
	}
}

// CreateStudentsBulk inserts students into one class with a single statement.
func (s *DirectoryService) CreateStudentsBulk(ctx context.Context, classID string, students []models.Student) ([]models.Student, error) {
	if len(students) == 0 {
		return []models.Student{}, nil
	}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockClass(tx, classID); err != nil {
			return err
		}
		highest, err := maxRollNo(tx, classID)
		if err != nil {
			return err
		}
		for i := range students {
			students[i].ClassID = classID
			if students[i].ID == "" {
				students[i].ID = uuid.NewString()
			}
		}
		assignRollNumbers(highest, students)
		return tx.Create(&students).Error
	})
	if err != nil {
		return nil, translate(err)
	}
	s.log.Info().Str("class_id", classID).Int("count", len(students)).Msg("students created in bulk")
	return students, nil
}

func (s *DirectoryService) UpdateStudent(ctx context.Context, id string, patch models.StudentPatch) (*models.Student, error) {
	updates := map[string]interface{}{}
	if patch.Name != nil {
		updates["name"] = *patch.Name
	}
	if patch.RollNo != nil {
		updates["roll_no"] = *patch.RollNo
	}
	if patch.ClassID != nil {
		updates["class_id"] = *patch.ClassID
	}
	if patch.Gender != nil {
		updates["gender"] = *patch.Gender
	}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var st models.Student
		if err := tx.First(&st, "id = ?", id).Error; err != nil {
			return err
		}
		if patch.ClassID != nil && *patch.ClassID != st.ClassID {
			if err := lockClass(tx, *patch.ClassID); err != nil {
				return err
			}
		}
		if len(updates) == 0 {
			return nil
		}
		return tx.Model(&st).Updates(updates).Error
	})
	if err != nil {
		return nil, translate(err)
	}
	return s.GetStudent(ctx, id)
}

func (s *DirectoryService) DeleteStudent(ctx context.Context, id string) error {
	res := s.DB.WithContext(ctx).Where("id = ?", id).Delete(&models.Student{})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// RosterByClass groups every student under its class ID.
func (s *DirectoryService) RosterByClass(ctx context.Context) (map[string][]models.Student, error) {
	students, err := s.ListStudents(ctx)
	if err != nil {
		return nil, err
	}
	roster := make(map[string][]models.Student)
	for _, st := range students {
		roster[st.ClassID] = append(roster[st.ClassID], st)
	}
	return roster, nil
}
