package timecalc_test

import (
	"testing"
	"time"

	"todoflow/pkg/timecalc"
)

func TestNew(t *testing.T) {
	if _, err := timecalc.New("Asia/Shanghai"); err != nil {
		t.Fatalf("unexpected error creating valid calculator: %v", err)
	}
	if _, err := timecalc.New("Invalid/Timezone"); err == nil {
		t.Fatalf("expected error for invalid timezone")
	}
}

func TestCompute(t *testing.T) {
	calc, _ := timecalc.New("UTC")

	tests := []struct {
		name      string
		now       time.Time
		dayOffset int
		hour      int
		minute    int
		wantDate  string
		wantTime  string
	}{
		{
			name:     "today afternoon",
			now:      time.Date(2026, 2, 18, 10, 0, 0, 0, time.UTC),
			hour:     15,
			wantDate: "2026-02-18",
			wantTime: "15:00",
		},
		{
			name:      "tomorrow morning",
			now:       time.Date(2026, 2, 18, 10, 0, 0, 0, time.UTC),
			dayOffset: 1,
			hour:      9,
			wantDate:  "2026-02-19",
			wantTime:  "09:00",
		},
		{
			name:      "three days out with minutes",
			now:       time.Date(2026, 2, 18, 10, 0, 0, 0, time.UTC),
			dayOffset: 3,
			hour:      14,
			minute:    30,
			wantDate:  "2026-02-21",
			wantTime:  "14:30",
		},
		{
			// hour is absolute on the target date: a late reference
			// instant must not push the result into the next day.
			name:     "late now does not roll over",
			now:      time.Date(2026, 2, 18, 23, 30, 0, 0, time.UTC),
			hour:     15,
			wantDate: "2026-02-18",
			wantTime: "15:00",
		},
		{
			name:      "month boundary",
			now:       time.Date(2026, 2, 27, 8, 0, 0, 0, time.UTC),
			dayOffset: 3,
			hour:      9,
			wantDate:  "2026-03-02",
			wantTime:  "09:00",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotDate, gotTime := calc.Compute(tt.now, tt.dayOffset, tt.hour, tt.minute)
			if gotDate != tt.wantDate || gotTime != tt.wantTime {
				t.Errorf("Compute() = (%s, %s), want (%s, %s)", gotDate, gotTime, tt.wantDate, tt.wantTime)
			}
		})
	}
}

func TestComputeIndependentOfTimeOfDay(t *testing.T) {
	calc, _ := timecalc.New("UTC")
	base := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	wantDate, wantTime := calc.Compute(base, 2, 11, 45)
	for hour := 0; hour < 24; hour++ {
		now := base.Add(time.Duration(hour) * time.Hour)
		gotDate, gotTime := calc.Compute(now, 2, 11, 45)
		if gotDate != wantDate || gotTime != wantTime {
			t.Fatalf("Compute at now=%v = (%s, %s), want (%s, %s)", now, gotDate, gotTime, wantDate, wantTime)
		}
	}
}

func TestParseDateTimeRoundTrip(t *testing.T) {
	calc, _ := timecalc.New("UTC")

	instant, err := calc.ParseDateTime("2026-04-01", "14:00")
	if err != nil {
		t.Fatalf("ParseDateTime() error: %v", err)
	}
	date, clock := calc.Split(instant)
	if date != "2026-04-01" || clock != "14:00" {
		t.Errorf("Split() = (%s, %s), want (2026-04-01, 14:00)", date, clock)
	}

	if _, err := calc.ParseDateTime("not-a-date", "14:00"); err == nil {
		t.Errorf("expected error for malformed date")
	}
}

func TestToUTCISO(t *testing.T) {
	calc, err := timecalc.New("Asia/Shanghai")
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	got, err := calc.ToUTCISO("2026-02-18", "15:00")
	if err != nil {
		t.Fatalf("ToUTCISO() error: %v", err)
	}
	// Asia/Shanghai is UTC+8 year-round.
	if got != "2026-02-18T07:00:00.000Z" {
		t.Errorf("ToUTCISO() = %s, want 2026-02-18T07:00:00.000Z", got)
	}

	got, err = calc.ToUTCISO("2026-02-18", "")
	if err != nil {
		t.Fatalf("ToUTCISO() empty clock error: %v", err)
	}
	if got != "2026-02-17T16:00:00.000Z" {
		t.Errorf("ToUTCISO() midnight = %s, want 2026-02-17T16:00:00.000Z", got)
	}

	if _, err := calc.ToUTCISO("bad", "15:00"); err == nil {
		t.Errorf("expected error for malformed date")
	}
}
