package attendance

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"prayer-attendance-server/models"
)

// RecentLogLimit caps DailySummary.RecentLogs.
const RecentLogLimit = 10

// PrayerTotals aggregates one prayer over every known class.
type PrayerTotals struct {
	Name    models.Prayer `json:"name"`
	Present int           `json:"present"`
	Absent  int           `json:"absent"`
	Total   int           `json:"total"`
	// Unmarked counts the classes without a record. Their students are
	// included in Present and Total.
	Unmarked int `json:"unmarked"`
}

type LogEntry struct {
	ID            string        `json:"id"`
	Prayer        models.Prayer `json:"prayer"`
	ClassID       string        `json:"classId"`
	ClassName     string        `json:"className"`
	PresentCount  int           `json:"presentCount"`
	TotalStudents int           `json:"totalStudents"`
	AbsentCount   int           `json:"absentCount"`
	Timestamp     int64         `json:"timestamp"`
}

type AbsenceEntry struct {
	Prayer    models.Prayer `json:"prayer"`
	ClassName string        `json:"className"`
	Name      string        `json:"name"`
	RollNo    int           `json:"rollNo"`
	Reason    string        `json:"reason,omitempty"`
}

type DailySummary struct {
	TotalPresent      int            `json:"totalPresent"`
	TotalAbsent       int            `json:"totalAbsent"`
	TotalStudents     int            `json:"totalStudents"`
	PresentPercentage int            `json:"presentPercentage"`
	PrayerData        []PrayerTotals `json:"prayerData"`
	RecentLogs        []LogEntry     `json:"recentLogs"`
	AllAbsentStudents []AbsenceEntry `json:"allAbsentStudents"`
}

// Percentage returns round(100*part/total), or 0 when total is not positive.
func Percentage(part, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(100 * float64(part) / float64(total)))
}

// DailySummaryOf rolls the store up over the five daily prayers and the
// given classes. A class with no record for a prayer counts as fully present
// with its current student count.
func DailySummaryOf(store models.AttendanceStore, classes []models.ClassGroup) DailySummary {
	summary := DailySummary{
		PrayerData:        make([]PrayerTotals, 0, len(models.DailyPrayers)),
		RecentLogs:        make([]LogEntry, 0),
		AllAbsentStudents: make([]AbsenceEntry, 0),
	}

	for _, prayer := range models.DailyPrayers {
		bucket := store[prayer]
		totals := PrayerTotals{Name: prayer}

		for _, cls := range classes {
			record, ok := bucket[cls.ID]
			if !ok {
				totals.Present += cls.Students
				totals.Total += cls.Students
				totals.Unmarked++
				continue
			}

			totals.Present += record.PresentCount
			totals.Total += record.TotalStudents
			totals.Absent += record.AbsentCount()

			summary.RecentLogs = append(summary.RecentLogs, LogEntry{
				ID:            fmt.Sprintf("%s-%s", prayer, record.ClassID),
				Prayer:        prayer,
				ClassID:       record.ClassID,
				ClassName:     record.ClassName,
				PresentCount:  record.PresentCount,
				TotalStudents: record.TotalStudents,
				AbsentCount:   record.AbsentCount(),
				Timestamp:     record.Timestamp,
			})
			for _, a := range record.AbsentStudents {
				summary.AllAbsentStudents = append(summary.AllAbsentStudents, AbsenceEntry{
					Prayer:    prayer,
					ClassName: record.ClassName,
					Name:      a.Name,
					RollNo:    a.RollNo,
					Reason:    a.Reason,
				})
			}
		}

		summary.TotalPresent += totals.Present
		summary.TotalAbsent += totals.Absent
		summary.TotalStudents += totals.Total
		summary.PrayerData = append(summary.PrayerData, totals)
	}

	sort.SliceStable(summary.RecentLogs, func(i, j int) bool {
		return summary.RecentLogs[i].Timestamp > summary.RecentLogs[j].Timestamp
	})
	if len(summary.RecentLogs) > RecentLogLimit {
		summary.RecentLogs = summary.RecentLogs[:RecentLogLimit]
	}
	summary.PresentPercentage = Percentage(summary.TotalPresent, summary.TotalStudents)
	return summary
}

type ClassPercentage struct {
	ClassID    string `json:"classId"`
	ClassName  string `json:"className"`
	Percentage int    `json:"percentage"`
	Present    int    `json:"present"`
	Total      int    `json:"total"`
}

type PrayerClassSummary struct {
	Prayer  models.Prayer     `json:"prayer"`
	Classes []ClassPercentage `json:"classes"`
}

// ClassSummariesByPrayer lists, per daily prayer, the recorded classes with
// their attendance rate. Prayers without any record are left out.
func ClassSummariesByPrayer(store models.AttendanceStore, classes []models.ClassGroup) []PrayerClassSummary {
	out := make([]PrayerClassSummary, 0)
	for _, prayer := range models.DailyPrayers {
		bucket := store[prayer]
		var rows []ClassPercentage
		for _, cls := range classes {
			record, ok := bucket[cls.ID]
			if !ok {
				continue
			}
			rows = append(rows, ClassPercentage{
				ClassID:    record.ClassID,
				ClassName:  record.ClassName,
				Percentage: Percentage(record.PresentCount, record.TotalStudents),
				Present:    record.PresentCount,
				Total:      record.TotalStudents,
			})
		}
		if len(rows) > 0 {
			out = append(out, PrayerClassSummary{Prayer: prayer, Classes: rows})
		}
	}
	return out
}

type SummaryLine struct {
	ClassID      string                 `json:"classId"`
	ClassName    string                 `json:"className"`
	Status       string                 `json:"status"`
	IsAllPresent bool                   `json:"isAllPresent"`
	AbsentDetail []models.AbsentStudent `json:"absentDetails"`
}

// SummaryLinesOf describes each class record of one prayer in save order.
func SummaryLinesOf(bucket models.PrayerAttendance) []SummaryLine {
	records := OrderedRecords(bucket)
	lines := make([]SummaryLine, 0, len(records))
	for _, r := range records {
		line := SummaryLine{
			ClassID:      r.ClassID,
			ClassName:    r.ClassName,
			IsAllPresent: r.AbsentCount() == 0,
			AbsentDetail: r.AbsentStudents,
		}
		if line.IsAllPresent {
			line.Status = "All present"
		} else {
			names := make([]string, 0, len(r.AbsentStudents))
			for _, a := range r.AbsentStudents {
				names = append(names, NameWithReason(a))
			}
			line.Status = strings.Join(names, ", ")
		}
		lines = append(lines, line)
	}
	return lines
}

// NameWithReason renders "name (reason)", or just the name without a reason.
func NameWithReason(a models.AbsentStudent) string {
	if a.Reason == "" {
		return a.Name
	}
	return fmt.Sprintf("%s (%s)", a.Name, a.Reason)
}

// OrderedRecords returns a prayer's records oldest first, ties broken by class ID.
func OrderedRecords(bucket models.PrayerAttendance) []models.ClassAttendance {
	records := make([]models.ClassAttendance, 0, len(bucket))
	for _, r := range bucket {
		records = append(records, r)
	}
	sort.Slice(records, func(i, j int) bool {
		if records[i].Timestamp != records[j].Timestamp {
			return records[i].Timestamp < records[j].Timestamp
		}
		return records[i].ClassID < records[j].ClassID
	})
	return records
}
