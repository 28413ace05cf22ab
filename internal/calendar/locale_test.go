package calendar

import (
	"testing"
	"time"
)

func TestLocaleNames(t *testing.T) {
	tests := []struct {
		locale  *Locale
		weekday time.Weekday
		month   time.Month
		wantDay string
		wantMon string
	}{
		{English(), time.Monday, time.January, "Monday", "January"},
		{English(), time.Sunday, time.December, "Sunday", "December"},
		{Spanish(), time.Wednesday, time.September, "miércoles", "septiembre"},
		{Spanish(), time.Saturday, time.January, "sábado", "enero"},
	}

	for _, tt := range tests {
		if got := tt.locale.WeekdayName(tt.weekday); got != tt.wantDay {
			t.Errorf("%s WeekdayName(%v) = %q, want %q",
				tt.locale.Name(), tt.weekday, got, tt.wantDay)
		}
		if got := tt.locale.MonthName(tt.month); got != tt.wantMon {
			t.Errorf("%s MonthName(%v) = %q, want %q",
				tt.locale.Name(), tt.month, got, tt.wantMon)
		}
	}
}

func TestByName(t *testing.T) {
	if l, err := ByName("english"); err != nil || l.Name() != "english" {
		t.Errorf("ByName(english): %v %v", l, err)
	}
	if l, err := ByName("spanish"); err != nil || l.Name() != "spanish" {
		t.Errorf("ByName(spanish): %v %v", l, err)
	}
	if _, err := ByName("french"); err == nil {
		t.Error("Expected error for unsupported locale")
	}
}
