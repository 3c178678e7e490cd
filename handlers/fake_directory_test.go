package handlers

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"prayer-attendance-server/db"
	"prayer-attendance-server/models"
)

// fakeDirectory is an in-memory Directory with the same error contract as
// db.DirectoryService.
type fakeDirectory struct {
	mu       sync.Mutex
	teachers []models.Teacher
	classes  []models.Clazz
	students []models.Student
	fail     error
}

func (f *fakeDirectory) CountTeachers(context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail != nil {
		return 0, f.fail
	}
	return int64(len(f.teachers)), nil
}

func (f *fakeDirectory) GetTeacherByEmail(_ context.Context, email string) (*models.Teacher, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.teachers {
		if t.Email == email {
			t := t
			return &t, nil
		}
	}
	return nil, db.ErrNotFound
}

func (f *fakeDirectory) CreateTeacher(_ context.Context, t *models.Teacher) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.teachers) >= db.MaxTeachers {
		return db.ErrTeacherLimit
	}
	for _, existing := range f.teachers {
		if existing.Email == t.Email {
			return fmt.Errorf("%w: email %s", db.ErrDuplicate, t.Email)
		}
	}
	t.ID = uuid.NewString()
	t.IsActive = true
	f.teachers = append(f.teachers, *t)
	return nil
}

func (f *fakeDirectory) ListClasses(context.Context) ([]models.ClassGroup, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail != nil {
		return nil, f.fail
	}
	out := make([]models.ClassGroup, 0, len(f.classes))
	for _, c := range f.classes {
		n := 0
		for _, s := range f.students {
			if s.ClassID == c.ID {
				n++
			}
		}
		out = append(out, models.ClassGroup{ID: c.ID, Name: c.Name, Students: n})
	}
	return out, nil
}

func (f *fakeDirectory) GetClass(_ context.Context, id string) (*models.Clazz, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.classes {
		if c.ID == id {
			c := c
			return &c, nil
		}
	}
	return nil, fmt.Errorf("%w: class %s", db.ErrNotFound, id)
}

func (f *fakeDirectory) CreateClass(_ context.Context, c *models.Clazz) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.classes {
		if existing.ID == c.ID {
			return fmt.Errorf("%w: class %s", db.ErrDuplicate, c.ID)
		}
	}
	f.classes = append(f.classes, *c)
	return nil
}

func (f *fakeDirectory) UpdateClass(_ context.Context, id, name string) (*models.Clazz, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.classes {
		if f.classes[i].ID == id {
			f.classes[i].Name = name
			c := f.classes[i]
			return &c, nil
		}
	}
	return nil, db.ErrNotFound
}

func (f *fakeDirectory) DeleteClass(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	idx := -1
	for i, c := range f.classes {
		if c.ID == id {
			idx = i
		}
	}
	if idx < 0 {
		return db.ErrNotFound
	}
	f.classes = append(f.classes[:idx], f.classes[idx+1:]...)
	kept := f.students[:0]
	for _, s := range f.students {
		if s.ClassID != id {
			kept = append(kept, s)
		}
	}
	f.students = kept
	return nil
}

func (f *fakeDirectory) ListStudents(context.Context) ([]models.Student, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := append([]models.Student(nil), f.students...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].ClassID != out[j].ClassID {
			return out[i].ClassID < out[j].ClassID
		}
		return out[i].RollNo < out[j].RollNo
	})
	return out, nil
}

func (f *fakeDirectory) ListStudentsByClass(ctx context.Context, classID string) ([]models.Student, error) {
	all, _ := f.ListStudents(ctx)
	out := make([]models.Student, 0)
	for _, s := range all {
		if s.ClassID == classID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeDirectory) GetStudent(_ context.Context, id string) (*models.Student, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.students {
		if s.ID == id {
			s := s
			return &s, nil
		}
	}
	return nil, db.ErrNotFound
}

func (f *fakeDirectory) hasClass(id string) bool {
	for _, c := range f.classes {
		if c.ID == id {
			return true
		}
	}
	return false
}

func (f *fakeDirectory) nextRollNo(classID string) int {
	highest := 0
	for _, s := range f.students {
		if s.ClassID == classID && s.RollNo > highest {
			highest = s.RollNo
		}
	}
	return highest + 1
}

func (f *fakeDirectory) CreateStudent(_ context.Context, st *models.Student) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.hasClass(st.ClassID) {
		return fmt.Errorf("%w: class %s", db.ErrNotFound, st.ClassID)
	}
	st.ID = uuid.NewString()
	st.RollNo = f.nextRollNo(st.ClassID)
	f.students = append(f.students, *st)
	return nil
}

func (f *fakeDirectory) CreateStudentsBulk(_ context.Context, classID string, students []models.Student) ([]models.Student, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.hasClass(classID) {
		return nil, fmt.Errorf("%w: class %s", db.ErrNotFound, classID)
	}
	for i := range students {
		students[i].ID = uuid.NewString()
		students[i].ClassID = classID
		if students[i].RollNo <= 0 {
			students[i].RollNo = f.nextRollNo(classID)
		}
		f.students = append(f.students, students[i])
	}
	return students, nil
}

func (f *fakeDirectory) UpdateStudent(_ context.Context, id string, patch models.StudentPatch) (*models.Student, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.students {
		if f.students[i].ID != id {
			continue
		}
		if patch.ClassID != nil && !f.hasClass(*patch.ClassID) {
			return nil, fmt.Errorf("%w: class %s", db.ErrNotFound, *patch.ClassID)
		}
		if patch.Name != nil {
			f.students[i].Name = *patch.Name
		}
		if patch.RollNo != nil {
			f.students[i].RollNo = *patch.RollNo
		}
		if patch.ClassID != nil {
			f.students[i].ClassID = *patch.ClassID
		}
		if patch.Gender != nil {
			f.students[i].Gender = *patch.Gender
		}
		s := f.students[i]
		return &s, nil
	}
	return nil, db.ErrNotFound
}

func (f *fakeDirectory) DeleteStudent(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, s := range f.students {
		if s.ID == id {
			f.students = append(f.students[:i], f.students[i+1:]...)
			return nil
		}
	}
	return db.ErrNotFound
}

func (f *fakeDirectory) RosterByClass(ctx context.Context) (map[string][]models.Student, error) {
	all, _ := f.ListStudents(ctx)
	roster := make(map[string][]models.Student)
	for _, s := range all {
		roster[s.ClassID] = append(roster[s.ClassID], s)
	}
	return roster, nil
}
