package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePrayer(t *testing.T) {
	for in, want := range map[string]Prayer{
		"Fajr":    Fajr,
		"dhuhr":   Dhuhr,
		" ASR ":   Asr,
		"maghrib": Maghrib,
		"Isha":    Isha,
		"other":   Other,
	} {
		got, err := ParsePrayer(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}

	_, err := ParsePrayer("Tahajjud")
	assert.ErrorIs(t, err, ErrUnknownPrayer)
}

func TestAttendanceStoreJSONShape(t *testing.T) {
	store := AttendanceStore{
		Fajr: PrayerAttendance{
			"S1A": {
				ClassID:        "S1A",
				ClassName:      "S1-A",
				TotalStudents:  2,
				PresentCount:   1,
				AbsentStudents: []AbsentStudent{{Name: "Bilal", RollNo: 2}},
				Timestamp:      1700000000000,
			},
		},
	}

	raw, err := json.Marshal(store)
	require.NoError(t, err)
	assert.JSONEq(t, `{"Fajr":{"S1A":{"classId":"S1A","className":"S1-A","totalStudents":2,
		"presentCount":1,"absentStudents":[{"name":"Bilal","rollNo":2}],"timestamp":1700000000000}}}`, string(raw))

	assert.Equal(t, 1, store.Records())
	assert.Equal(t, "2-Bilal", store[Fajr]["S1A"].AbsentStudents[0].Key())
}
