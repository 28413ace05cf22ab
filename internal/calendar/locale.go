//-------------------------------------------------------------------------
//
// martctl Warehouse Builder
//
// Copyright (c) 2025 - 2026, OpenMart Data, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package calendar provides weekday and month naming for calendar
// dimensions. The locale is injected into builders rather than read from
// process-global state, so two marts in one run can name dates differently.
package calendar

import (
	"fmt"
	"time"
)

// Locale maps weekdays and months to display names.
type Locale struct {
	name     string
	weekdays [7]string
	months   [12]string
}

// English returns the English locale.
func English() *Locale {
	return &Locale{
		name: "english",
		weekdays: [7]string{
			"Sunday", "Monday", "Tuesday", "Wednesday",
			"Thursday", "Friday", "Saturday",
		},
		months: [12]string{
			"January", "February", "March", "April", "May", "June",
			"July", "August", "September", "October", "November", "December",
		},
	}
}

// Spanish returns the Spanish locale.
func Spanish() *Locale {
	return &Locale{
		name: "spanish",
		weekdays: [7]string{
			"domingo", "lunes", "martes", "miércoles",
			"jueves", "viernes", "sábado",
		},
		months: [12]string{
			"enero", "febrero", "marzo", "abril", "mayo", "junio",
			"julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre",
		},
	}
}

// ByName returns the locale for a configuration value.
func ByName(name string) (*Locale, error) {
	switch name {
	case "english":
		return English(), nil
	case "spanish":
		return Spanish(), nil
	default:
		return nil, fmt.Errorf("unknown locale: %s", name)
	}
}

// Name returns the locale's configuration name.
func (l *Locale) Name() string { return l.name }

// WeekdayName returns the display name for a weekday.
func (l *Locale) WeekdayName(d time.Weekday) string {
	return l.weekdays[int(d)]
}

// MonthName returns the display name for a month.
func (l *Locale) MonthName(m time.Month) string {
	return l.months[int(m)-1]
}
