package attendance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prayer-attendance-server/models"
)

func TestStudentSummaryAbsentTwiceInFive(t *testing.T) {
	absentee := models.AbsentStudent{Name: "Umar", RollNo: 3, Reason: "travel"}
	store := models.AttendanceStore{}
	for i, p := range models.DailyPrayers {
		var absent []models.AbsentStudent
		if p == models.Dhuhr || p == models.Isha {
			absent = append(absent, absentee)
		}
		store[p] = models.PrayerAttendance{"S1A": record("S1A", "S1-A", 10, int64(1000+i), absent...)}
	}
	// Same display name, different class: must not be counted.
	store[models.Other] = models.PrayerAttendance{"S1A-OLD": record("S1A-OLD", "S1-A", 10, 5000, absentee)}

	summary := StudentSummaryOf(store, "S1A", 3, "Umar")

	assert.Equal(t, 3, summary.PresentCount)
	assert.Equal(t, 2, summary.AbsentCount)
	assert.Equal(t, Percentage(5-2, 5), summary.Percentage)
	assert.Equal(t, 60, summary.Percentage)

	require.Len(t, summary.Records, 5)
	assert.Equal(t, models.Isha, summary.Records[0].Prayer)
	assert.Equal(t, models.MarkAbsent, summary.Records[0].Status)
	assert.Equal(t, "travel", summary.Records[0].Reason)
	assert.Equal(t, models.Fajr, summary.Records[4].Prayer)
	assert.Equal(t, models.MarkPresent, summary.Records[4].Status)
}

func TestStudentSummaryMatchesOnRollNoAndName(t *testing.T) {
	store := models.AttendanceStore{
		models.Fajr: {"S1A": record("S1A", "S1-A", 10, 1, models.AbsentStudent{Name: "Umar", RollNo: 4})},
	}

	summary := StudentSummaryOf(store, "S1A", 3, "Umar")
	assert.Equal(t, 1, summary.PresentCount)
	assert.Equal(t, 100, summary.Percentage)

	empty := StudentSummaryOf(store, "S9Z", 3, "Umar")
	assert.Zero(t, empty.Percentage)
	assert.Empty(t, empty.Records)
}

func TestClassStandings(t *testing.T) {
	students := []models.Student{
		{ID: "b", Name: "Bilal", RollNo: 2, ClassID: "S1A"},
		{ID: "a", Name: "Ali", RollNo: 1, ClassID: "S1A"},
	}
	store := models.AttendanceStore{
		models.Fajr: {"S1A": record("S1A", "S1-A", 2, 1, models.AbsentStudent{Name: "Bilal", RollNo: 2})},
		models.Asr:  {"S1A": record("S1A", "S1-A", 2, 2)},
	}
	classes := []models.ClassGroup{{ID: "S1A", Name: "S1-A", Students: 2}, {ID: "S1B", Name: "S1-B"}}

	standings := ClassStandings(store, classes, map[string][]models.Student{"S1A": students})
	require.Len(t, standings, 2)
	assert.Equal(t, []StudentStanding{
		{StudentID: "a", Name: "Ali", RollNo: 1, AbsentCount: 0, Percentage: 100},
		{StudentID: "b", Name: "Bilal", RollNo: 2, AbsentCount: 1, Percentage: 50},
	}, standings[0].Students)
	assert.Empty(t, standings[1].Students)
}
