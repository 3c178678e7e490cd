package models

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Prayer is one of the tracked daily prayer slots.
type Prayer string

const (
	Fajr    Prayer = "Fajr"
	Dhuhr   Prayer = "Dhuhr"
	Asr     Prayer = "Asr"
	Maghrib Prayer = "Maghrib"
	Isha    Prayer = "Isha"
	Other   Prayer = "Other"
)

// DailyPrayers lists the five canonical prayers in the order of the day.
var DailyPrayers = []Prayer{Fajr, Dhuhr, Asr, Maghrib, Isha}

// AllPrayers is DailyPrayers followed by the Other slot.
var AllPrayers = []Prayer{Fajr, Dhuhr, Asr, Maghrib, Isha, Other}

var ErrUnknownPrayer = errors.New("unknown prayer")

// ParsePrayer resolves a prayer name case-insensitively.
func ParsePrayer(name string) (Prayer, error) {
	name = strings.TrimSpace(name)
	for _, p := range AllPrayers {
		if strings.EqualFold(string(p), name) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownPrayer, name)
}

// Mark is the attendance state of one student.
type Mark string

const (
	MarkPresent Mark = "present"
	MarkAbsent  Mark = "absent"
)

// AbsentStudent is an absentee snapshot inside a ClassAttendance record.
type AbsentStudent struct {
	Name   string `json:"name"`
	RollNo int    `json:"rollNo"`
	Reason string `json:"reason,omitempty"`
}

// Key returns the "<rollNo>-<name>" composite key used to match a student across records.
func (a AbsentStudent) Key() string {
	return StudentKey(a.RollNo, a.Name)
}

func StudentKey(rollNo int, name string) string {
	return fmt.Sprintf("%d-%s", rollNo, name)
}

// ClassAttendance is the outcome of one class for one prayer.
// ClassName and TotalStudents are captured at save time and never refreshed.
type ClassAttendance struct {
	ClassID        string          `json:"classId"`
	ClassName      string          `json:"className"`
	TotalStudents  int             `json:"totalStudents"`
	PresentCount   int             `json:"presentCount"`
	AbsentStudents []AbsentStudent `json:"absentStudents"`
	Timestamp      int64           `json:"timestamp"` // Unix milliseconds
}

func (c ClassAttendance) AbsentCount() int { return len(c.AbsentStudents) }

func (c ClassAttendance) RecordedAt() time.Time { return time.UnixMilli(c.Timestamp) }

// PrayerAttendance maps class ID to its record for one prayer.
type PrayerAttendance map[string]ClassAttendance

// AttendanceStore maps each prayer to its per-class records.
type AttendanceStore map[Prayer]PrayerAttendance

// Records returns the number of class records across all prayers.
func (s AttendanceStore) Records() int {
	n := 0
	for _, pa := range s {
		n += len(pa)
	}
	return n
}
