package notifications

import (
	"fmt"
	"strconv"
)

// newMessage fills in the data keys every message carries.
func newMessage(kind Kind, category, title, body string, data map[string]string) Message {
	if data == nil {
		data = make(map[string]string, 3)
	}
	data["type"] = string(kind)
	data["category"] = category
	data["clickAction"] = clickAction
	return Message{Kind: kind, Category: category, Title: title, Body: body, Data: data}
}

// --------------------------------------------------------------------------
// Milestones
// --------------------------------------------------------------------------

type celebration struct {
	title string
	body  string
}

var streakCelebrations = map[int]celebration{
	7:   {"🔥 7-Day Streak Milestone!", "One week of eco-consciousness! You're building an amazing habit!"},
	14:  {"🌟 2-Week Streak Achieved!", "Two weeks strong! You're making a real environmental impact!"},
	30:  {"🏆 1-Month Streak Champion!", "A full month! You're officially an eco champion! Keep going!"},
	50:  {"💎 50-Day Streak Legend!", "50 days of consistency! You're absolutely unstoppable!"},
	100: {"👑 100-DAY STREAK MASTERY!", "LEGENDARY! 100 days of dedication! You're inspiring the planet!"},
	200: {"🌍 200-DAY WORLD-CLASS STREAK!", "PHENOMENAL! 200 days! You're a true eco warrior and role model!"},
}

var streakBadges = map[int]string{
	3:   "🌱 Green Starter",
	7:   "🔥 Week Warrior",
	30:  "🏆 Eco Champion",
	100: "👑 Eco Legend",
}

// StreakBadge returns the badge label awarded at a streak milestone.
func StreakBadge(milestone int) string {
	if b, ok := streakBadges[milestone]; ok {
		return b
	}
	return fmt.Sprintf("🌟 %d-Day Streak", milestone)
}

// BuildStreakMilestone builds the celebration for crossing a streak
// milestone. streak is the user's new streak value.
func BuildStreakMilestone(milestone, streak int) Message {
	badge := StreakBadge(milestone)
	title := fmt.Sprintf("🎉 %d-Day Streak!", milestone)
	body := fmt.Sprintf("🎉 Amazing! You've earned the \"%s\" badge. Keep going!", badge)
	if c, ok := streakCelebrations[milestone]; ok {
		title, body = c.title, c.body
	}
	return newMessage(KindStreakMilestone, CategoryMilestone, title, body, map[string]string{
		"streak":    strconv.Itoa(streak),
		"milestone": strconv.Itoa(milestone),
		"badge":     badge,
	})
}

// BuildPointsMilestone builds the message for crossing a points milestone.
func BuildPointsMilestone(milestone, points int) Message {
	return newMessage(KindPointsMilestone, CategoryMilestone,
		fmt.Sprintf("%d Points Milestone! 🎯", milestone),
		fmt.Sprintf("🌟 Incredible! You've reached %d EcoPoints. You're making a real difference!", milestone),
		map[string]string{
			"points":    strconv.Itoa(points),
			"milestone": strconv.Itoa(milestone),
		})
}

// BuildRankUp builds the message for a rank label change.
func BuildRankUp(oldRank, newRank string) Message {
	return newMessage(KindRankUp, CategoryMilestone,
		"Rank Up! 🎖️",
		fmt.Sprintf("Congratulations! You've advanced to %s! Keep up the amazing work!", newRank),
		map[string]string{
			"oldRank": oldRank,
			"newRank": newRank,
			"rank":    newRank,
		})
}

// --------------------------------------------------------------------------
// Scan insight
// --------------------------------------------------------------------------

// Score band lower bounds, inclusive.
const (
	scoreExcellent = 80
	scoreGood      = 60
	scoreFair      = 40
)

// BuildScanInsight builds feedback for a scanned product's eco-score.
func BuildScanInsight(productID, productName string, score int) Message {
	var title, body string
	switch {
	case score >= scoreExcellent:
		title = "Excellent Choice! 🌟"
		body = fmt.Sprintf("%s has a fantastic eco-score of %d/100! You're making sustainable choices!", productName, score)
	case score >= scoreGood:
		title = "Good Pick! ✅"
		body = fmt.Sprintf("%s scored %d/100. Check out eco-friendly alternatives to score higher!", productName, score)
	case score >= scoreFair:
		title = "Room for Improvement 💡"
		body = fmt.Sprintf("%s scored %d/100. Consider greener options for a better planet!", productName, score)
	default:
		title = "Low Eco-Score ⚠️"
		body = fmt.Sprintf("%s has an eco-score of %d/100. Let's find a more sustainable alternative!", productName, score)
	}
	return newMessage(KindScanInsight, CategoryScanInsight, title, body, map[string]string{
		"productId":   productID,
		"productName": productName,
		"ecoScore":    strconv.Itoa(score),
	})
}

// --------------------------------------------------------------------------
// Streak reminders
// --------------------------------------------------------------------------

// BuildStreakWarning warns a user whose streak ends at midnight.
func BuildStreakWarning(streak int) Message {
	var title, body string
	switch {
	case streak <= 0:
		title = "🌱 Start Your Eco Journey"
		body = "Complete your first daily challenge and begin your streak!"
	case streak == 1:
		title = "⚠️ Don't Lose Your Streak!"
		body = "Your 1-day streak is waiting! Complete today's challenge now!"
	case streak < 7:
		title = "🔥 Your Streak Is At Risk!"
		body = fmt.Sprintf("Don't lose your %d-day streak! You have until midnight to complete today's challenge!", streak)
	case streak < 30:
		title = "🚨 URGENT: Streak Warning!"
		body = fmt.Sprintf("Your amazing %d-day streak is about to end! Take action now!", streak)
	default:
		title = "👑 LEGENDARY STREAK AT RISK!"
		body = fmt.Sprintf("Don't let your epic %d-day streak die! You've come so far - finish today's challenge!", streak)
	}
	return newMessage(KindStreakWarning, CategoryStreak, title, body, map[string]string{
		"streak": strconv.Itoa(streak),
	})
}

// BuildReEngagement nudges an inactive user. oldStreak is the streak they
// last had.
func BuildReEngagement(oldStreak int) Message {
	var title, body string
	switch {
	case oldStreak <= 0:
		title = "🌱 Ready to Start?"
		body = "Begin your eco journey today! Complete your first daily challenge and earn points!"
	case oldStreak < 7:
		title = "💚 We Miss You!"
		body = fmt.Sprintf("You had a %d-day streak going! Come back and restart your eco journey!", oldStreak)
	default:
		title = fmt.Sprintf("🔥 Your %d-Day Streak Awaits!", oldStreak)
		body = "You were doing amazing! Come back and rebuild your streak - the planet needs you!"
	}
	return newMessage(KindReEngagement, CategoryStreak, title, body, map[string]string{
		"oldStreak": strconv.Itoa(oldStreak),
	})
}

// --------------------------------------------------------------------------
// Scheduled and manual
// --------------------------------------------------------------------------

// BuildDailyReminder is the morning challenge reminder.
func BuildDailyReminder(date string) Message {
	return newMessage(KindDailyReminder, CategoryDailyChallenge,
		"Today's Eco Challenge! 🌞",
		"Good morning! Complete today's eco challenge and earn bonus points!",
		map[string]string{"date": date})
}

// BuildEcoTip is the eco tip of the day push.
func BuildEcoTip(date, tip string) Message {
	return newMessage(KindEcoTip, CategoryEcoTip,
		"Eco Tip of the Day 💡", tip,
		map[string]string{"date": date, "tip": tip})
}

// BuildBroadcast wraps an operator supplied announcement. An empty category
// falls back to general.
func BuildBroadcast(title, body, category string) Message {
	if category == "" {
		category = CategoryGeneral
	}
	return newMessage(KindBroadcast, category, title, body, nil)
}
