package content

import "time"

// DateLayout is the ISO calendar date used as document key for daily content.
const DateLayout = "2006-01-02"

// DailyChallenges is the persisted selection for one date
// (collection "challenges", document id = Date).
type DailyChallenges struct {
	Date       string         `json:"date" firestore:"date"`
	Challenges []ContentEntry `json:"challenges" firestore:"challenges"`
	CreatedAt  time.Time      `json:"createdAt" firestore:"createdAt"`
}

// DailyTip is the persisted tip for one date
// (collection "daily_tips", document id = Date).
type DailyTip struct {
	Date      string    `json:"date" firestore:"date"`
	ID        string    `json:"id" firestore:"id"`
	Tip       string    `json:"tip" firestore:"tip"`
	Category  string    `json:"category" firestore:"category"`
	Emoji     string    `json:"emoji" firestore:"emoji"`
	CreatedAt time.Time `json:"createdAt" firestore:"createdAt"`
}

// FormatDate renders the UTC calendar date of t as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.UTC().Format(DateLayout)
}

// ParseDate parses YYYY-MM-DD as a UTC midnight.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, time.UTC)
}
