package browser

import (
	"strings"
	"time"

	"github.com/znz-systems/linkboard/internal/models"
)

// PreviewLength is how many characters of message content the list shows.
const PreviewLength = 150

const dateLayout = "Jan 2, 2006 03:04 PM"

// NormalizeChannel maps unknown selector values to "all".
func NormalizeChannel(channel string) string {
	switch channel {
	case models.ChannelEmail, models.ChannelLinkedIn:
		return channel
	default:
		return models.ChannelAll
	}
}

// FilterPeople keeps people whose name or email contains term (case-insensitive)
// and who have been seen on channel, unless channel is "all".
func FilterPeople(people []models.Person, term, channel string) []models.Person {
	term = strings.ToLower(strings.TrimSpace(term))
	channel = NormalizeChannel(channel)

	out := make([]models.Person, 0, len(people))
	for _, p := range people {
		if term != "" &&
			!strings.Contains(strings.ToLower(p.Name), term) &&
			!strings.Contains(strings.ToLower(p.Email), term) {
			continue
		}
		if channel != models.ChannelAll && !p.HasChannel(channel) {
			continue
		}
		out = append(out, p)
	}
	return out
}

func FilterMessages(messages []models.Message, channel string) []models.Message {
	channel = NormalizeChannel(channel)
	if channel == models.ChannelAll {
		return messages
	}
	out := make([]models.Message, 0, len(messages))
	for _, m := range messages {
		if m.Channel == channel {
			out = append(out, m)
		}
	}
	return out
}

// CountChannel counts people seen on channel.
func CountChannel(people []models.Person, channel string) int {
	n := 0
	for _, p := range people {
		if p.HasChannel(channel) {
			n++
		}
	}
	return n
}

// Truncate shortens content to max runes, appending "..." when cut.
func Truncate(content string, max int) string {
	r := []rune(content)
	if len(r) <= max {
		return content
	}
	return string(r[:max]) + "..."
}

func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format(dateLayout)
}

// ChannelLabel is the filter button text for a channel.
func ChannelLabel(channel string) string {
	switch channel {
	case models.ChannelEmail:
		return "Gmail"
	case models.ChannelLinkedIn:
		return "LinkedIn"
	default:
		return "All"
	}
}
