package service

import (
	"time"

	"github.com/vbncursed/vkr/delegation-service/internal/models"
)

// Окна квот — календарные, UTC: день с полуночи, неделя с понедельника,
// месяц с первого числа. Счётчик вне своего окна читается как ноль.

func dayStart(now time.Time) time.Time {
	now = now.UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

func weekStart(now time.Time) time.Time {
	d := dayStart(now)
	wd := int(d.Weekday())
	if wd == 0 { // воскресенье
		wd = 7
	}
	return d.AddDate(0, 0, -(wd - 1))
}

func monthStart(now time.Time) time.Time {
	now = now.UTC()
	return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// rollWindows возвращает счётчики, приведённые к окнам момента now
func rollWindows(u models.QuotaUsage, now time.Time) models.QuotaUsage {
	if ds := dayStart(now); !u.DailyStart.Equal(ds) {
		u.Daily = 0
		u.DailyStart = ds
	}
	if ws := weekStart(now); !u.WeeklyStart.Equal(ws) {
		u.Weekly = 0
		u.WeeklyStart = ws
	}
	if ms := monthStart(now); !u.MonthlyStart.Equal(ms) {
		u.Monthly = 0
		u.MonthlyStart = ms
	}
	return u
}

// addUsage прибавляет amount к счётчику окна period
func addUsage(u models.QuotaUsage, period models.QuotaPeriod, amount uint64) models.QuotaUsage {
	switch period {
	case models.PeriodDaily:
		u.Daily += amount
	case models.PeriodWeekly:
		u.Weekly += amount
	case models.PeriodMonthly:
		u.Monthly += amount
	}
	return u
}

// exceeded — превышение хотя бы одного измерения; месячное проверяется
// только при заданном месячном лимите
func exceeded(u models.QuotaUsage, limits models.Limits) bool {
	if u.Daily >= limits.Daily {
		return true
	}
	if u.Weekly >= limits.Weekly {
		return true
	}
	if limits.Monthly > 0 && u.Monthly >= limits.Monthly {
		return true
	}
	return false
}
