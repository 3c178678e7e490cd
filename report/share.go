package report

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"prayer-attendance-server/attendance"
	"prayer-attendance-server/models"
)

const (
	// NoAttendanceText replaces the class list of a share message when nothing was recorded.
	NoAttendanceText = "No attendance recorded yet."

	whatsAppBase = "https://wa.me/?text="
)

// FormatDay renders a report date, e.g. "19 Oct 2026".
func FormatDay(t time.Time) string {
	return t.Format("02 Jan 2006")
}

// PrayerSummaryMessage builds the share text of one prayer: a line per class,
// either an all-present marker or the absentees with their reasons.
func PrayerSummaryMessage(prayer models.Prayer, bucket models.PrayerAttendance, day time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📿 *%s*\n", prayer)
	fmt.Fprintf(&b, "📅 %s\n\n", FormatDay(day))

	records := attendance.OrderedRecords(bucket)
	if len(records) == 0 {
		b.WriteString(NoAttendanceText)
		return b.String()
	}

	for _, r := range records {
		if r.AbsentCount() == 0 {
			fmt.Fprintf(&b, "✅ %s: All present\n", r.ClassName)
			continue
		}
		fmt.Fprintf(&b, "📋 %s:\n", r.ClassName)
		for _, a := range r.AbsentStudents {
			reason := ""
			if a.Reason != "" {
				reason = fmt.Sprintf(" (%s)", a.Reason)
			}
			fmt.Fprintf(&b, "   ❌ %d. %s%s\n", a.RollNo, a.Name, reason)
		}
	}
	return strings.TrimSpace(b.String())
}

// FullDailyReport lists, per class, every student absent in at least one
// of the five daily prayers. Records kept under Other are left out.
func FullDailyReport(store models.AttendanceStore, day time.Time) string {
	var b strings.Builder
	b.WriteString("📊 *Daily Attendance Report*\n")
	fmt.Fprintf(&b, "📅 %s\n\n", FormatDay(day))

	type classReport struct {
		name   string
		absent []string
		seen   map[string]bool
	}
	var order []string
	reports := map[string]*classReport{}

	for _, prayer := range models.DailyPrayers {
		for _, r := range attendance.OrderedRecords(store[prayer]) {
			cr, ok := reports[r.ClassID]
			if !ok {
				cr = &classReport{name: r.ClassName, seen: map[string]bool{}}
				reports[r.ClassID] = cr
				order = append(order, r.ClassID)
			}
			for _, a := range r.AbsentStudents {
				if key := a.Key(); !cr.seen[key] {
					cr.seen[key] = true
					cr.absent = append(cr.absent, key)
				}
			}
		}
	}

	if len(order) == 0 {
		b.WriteString(NoAttendanceText)
		return b.String()
	}

	for _, id := range order {
		cr := reports[id]
		fmt.Fprintf(&b, "*%s*\n", cr.name)
		if len(cr.absent) == 0 {
			b.WriteString("All present\n")
		}
		for _, key := range cr.absent {
			b.WriteString(key + "\n")
		}
		b.WriteString("\n")
	}
	return strings.TrimSpace(b.String())
}

// WhatsAppURL returns the wa.me deep link that pre-fills message.
func WhatsAppURL(message string) string {
	// QueryEscape turns spaces into "+"; wa.me expects %20 like encodeURIComponent.
	return whatsAppBase + strings.ReplaceAll(url.QueryEscape(message), "+", "%20")
}
