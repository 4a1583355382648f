package selector

import (
	"time"

	"github.com/ecopilot/ecopilot-backend/internal/content"
)

// ChallengesPerDay is the number of challenges shown each day.
const ChallengesPerDay = 2

// DailyChallenges builds the challenge selection for date. createdAt is
// supplied by the caller so the result stays a function of its inputs.
func DailyChallenges(date time.Time, pool *content.Pool, createdAt time.Time) content.DailyChallenges {
	return content.DailyChallenges{
		Date:       content.FormatDate(date),
		Challenges: Shuffle(date, pool.Flatten(), ChallengesPerDay),
		CreatedAt:  createdAt,
	}
}

// DailyTip builds the tip for date using the modulo mode.
func DailyTip(date time.Time, pool *content.Pool, createdAt time.Time) (content.DailyTip, bool) {
	e, ok := Pick(date, pool.Flatten())
	if !ok {
		return content.DailyTip{}, false
	}
	return content.DailyTip{
		Date:      content.FormatDate(date),
		ID:        e.ID,
		Tip:       e.Title,
		Category:  e.Category,
		Emoji:     e.Icon,
		CreatedAt: createdAt,
	}, true
}
