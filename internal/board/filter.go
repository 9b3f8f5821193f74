package board

import (
	"strings"
	"time"

	"jobboard/internal/domain"
)

const DefaultRecentDays = 7

const msPerDay = int64(24 * time.Hour / time.Millisecond)

// DaysSince is the whole-day age of a posting, floored. A record without a
// posting date counts as posted now (0). ok is false for an unparseable date.
func DaysSince(j domain.JobRecord, now time.Time) (days int64, ok bool) {
	if !j.HasPostingDate() {
		return 0, true
	}
	posted, ok := j.PostedAt()
	if !ok {
		return 0, false
	}
	ms := now.Sub(posted).Milliseconds()
	days = ms / msPerDay
	if ms%msPerDay != 0 && ms < 0 {
		days--
	}
	return days, true
}

// IsRecent reports whether j was posted within the last `days` days, inclusive.
func IsRecent(j domain.JobRecord, now time.Time, days int) bool {
	d, ok := DaysSince(j, now)
	return ok && d <= int64(days)
}

// RecentJobs keeps the jobs posted within the last `days` days. Order is preserved.
func RecentJobs(jobs []domain.JobRecord, now time.Time, days int) []domain.JobRecord {
	out := make([]domain.JobRecord, 0, len(jobs))
	for _, j := range jobs {
		if IsRecent(j, now, days) {
			out = append(out, j)
		}
	}
	return out
}

// MatchesCompany is a case-insensitive substring match; an empty term matches everything.
func MatchesCompany(j domain.JobRecord, term string) bool {
	return strings.Contains(strings.ToLower(j.CompanyName), strings.ToLower(term))
}

// FilterByCompany keeps the jobs whose company name contains term. Order is preserved.
func FilterByCompany(jobs []domain.JobRecord, term string) []domain.JobRecord {
	out := make([]domain.JobRecord, 0, len(jobs))
	for _, j := range jobs {
		if MatchesCompany(j, term) {
			out = append(out, j)
		}
	}
	return out
}
