package models

import "time"

// Clazz represents a class
type Clazz struct {
	ID        string    `gorm:"primaryKey;size:50" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

func (Clazz) TableName() string { return "classes" }

// ClassGroup is a class together with its current student count.
// The count is derived from the students table and is not authoritative.
type ClassGroup struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Students  int       `json:"students"`
	CreatedAt time.Time `json:"createdAt"`
}

// Student represents a student
type Student struct {
	ID        string    `gorm:"primaryKey;size:100" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	RollNo    int       `gorm:"not null;uniqueIndex:idx_students_class_roll" json:"rollNo"` // Sequential within the class
	ClassID   string    `gorm:"size:50;not null;index;uniqueIndex:idx_students_class_roll" json:"classId"`
	Gender    string    `gorm:"size:1;not null" json:"gender"`
	CreatedAt time.Time `json:"createdAt"`
}

func (Student) TableName() string { return "students" }

// StudentPatch carries the fields of a partial student update. Nil fields are left untouched.
type StudentPatch struct {
	Name    *string `json:"name" binding:"omitempty,min=1"`
	RollNo  *int    `json:"rollNo" binding:"omitempty,gt=0"`
	ClassID *string `json:"classId" binding:"omitempty,min=1"`
	Gender  *string `json:"gender" binding:"omitempty,oneof=M F"`
}

// Teacher is an account allowed to take attendance.
type Teacher struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	Email     string    `gorm:"not null;uniqueIndex" json:"email"`
	Password  string    `gorm:"not null" json:"-"`
	IsActive  bool      `gorm:"not null;default:true" json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
}

func (Teacher) TableName() string { return "teachers" }
