package attendance

import (
	"sort"

	"prayer-attendance-server/models"
)

type StudentRecord struct {
	Prayer    models.Prayer `json:"prayer"`
	Date      string        `json:"date"` // dd/mm/yyyy
	Timestamp int64         `json:"timestamp"`
	Status    models.Mark   `json:"status"`
	Reason    string        `json:"reason,omitempty"`
}

type StudentSummary struct {
	PresentCount int             `json:"presentCount"`
	AbsentCount  int             `json:"absentCount"`
	Percentage   int             `json:"percentage"`
	Records      []StudentRecord `json:"records"`
}

// StudentSummaryOf reports one student's attendance across every recorded
// prayer of their class. The student is identified by roll number and name,
// the same composite key stored with absentees; records are matched on the
// class ID so classes sharing a display name stay apart.
func StudentSummaryOf(store models.AttendanceStore, classID string, rollNo int, name string) StudentSummary {
	key := models.StudentKey(rollNo, name)
	summary := StudentSummary{Records: make([]StudentRecord, 0)}

	for _, prayer := range models.AllPrayers {
		record, ok := store[prayer][classID]
		if !ok {
			continue
		}
		entry := StudentRecord{
			Prayer:    prayer,
			Date:      record.RecordedAt().Format("02/01/2006"),
			Timestamp: record.Timestamp,
			Status:    models.MarkPresent,
		}
		for _, a := range record.AbsentStudents {
			if a.Key() == key {
				entry.Status = models.MarkAbsent
				entry.Reason = a.Reason
				break
			}
		}
		if entry.Status == models.MarkAbsent {
			summary.AbsentCount++
		} else {
			summary.PresentCount++
		}
		summary.Records = append(summary.Records, entry)
	}

	sort.SliceStable(summary.Records, func(i, j int) bool {
		return summary.Records[i].Timestamp > summary.Records[j].Timestamp
	})
	summary.Percentage = Percentage(summary.PresentCount, len(summary.Records))
	return summary
}

type StudentStanding struct {
	StudentID   string `json:"studentId"`
	Name        string `json:"name"`
	RollNo      int    `json:"rollNo"`
	AbsentCount int    `json:"absentCount"`
	Percentage  int    `json:"percentage"`
}

type ClassStanding struct {
	ClassID  string            `json:"classId"`
	Name     string            `json:"name"`
	Students []StudentStanding `json:"students"`
}

// ClassStandings builds the per-student overview of every class. Students
// with nothing recorded yet stand at 100%.
func ClassStandings(store models.AttendanceStore, classes []models.ClassGroup, roster map[string][]models.Student) []ClassStanding {
	out := make([]ClassStanding, 0, len(classes))
	for _, cls := range classes {
		students := append([]models.Student(nil), roster[cls.ID]...)
		sort.SliceStable(students, func(i, j int) bool { return students[i].RollNo < students[j].RollNo })

		standing := ClassStanding{ClassID: cls.ID, Name: cls.Name, Students: make([]StudentStanding, 0, len(students))}
		for _, st := range students {
			s := StudentSummaryOf(store, cls.ID, st.RollNo, st.Name)
			pct := s.Percentage
			if len(s.Records) == 0 {
				pct = 100
			}
			standing.Students = append(standing.Students, StudentStanding{
				StudentID:   st.ID,
				Name:        st.Name,
				RollNo:      st.RollNo,
				AbsentCount: s.AbsentCount,
				Percentage:  pct,
			})
		}
		out = append(out, standing)
	}
	return out
}
