// package formatter renders track, account and review listings as plain text, CSV, Markdown or JSON
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/desertthunder/trackrate/internal/models"
	"github.com/desertthunder/trackrate/internal/shared"
	"github.com/dustin/go-humanize"
)

// Format names an output encoding.
type Format string

const (
	FormatText     Format = "text"
	FormatJSON     Format = "json"
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "markdown"
)

// Formats lists the supported formats.
var Formats = []Format{FormatText, FormatJSON, FormatCSV, FormatMarkdown}

// ParseFormat matches s against the supported formats. "md" and "txt" are accepted as aliases.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text", "txt":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	case "csv":
		return FormatCSV, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	}
	return "", fmt.Errorf("%w: unknown format %q", shared.ErrInvalidArgument, s)
}

// Ext returns the file extension for the format.
func (f Format) Ext() string {
	switch f {
	case FormatJSON:
		return ".json"
	case FormatCSV:
		return ".csv"
	case FormatMarkdown:
		return ".md"
	default:
		return ".txt"
	}
}

// Render encodes a slice of track summaries, user profiles or review summaries.
//
// now anchors the relative review dates in text output.
func Render(format Format, v any, now time.Time) ([]byte, error) {
	if format == FormatJSON {
		return shared.MarshalJSON(v, true)
	}

	switch rows := v.(type) {
	case []models.TrackSummary:
		switch format {
		case FormatCSV:
			return TracksToCSV(rows)
		case FormatMarkdown:
			return TracksToMarkdown(rows), nil
		default:
			return TracksToText(rows), nil
		}
	case []models.UserProfile:
		switch format {
		case FormatCSV:
			return UsersToCSV(rows)
		case FormatMarkdown:
			return UsersToMarkdown(rows), nil
		default:
			return UsersToText(rows), nil
		}
	case []models.ReviewSummary:
		switch format {
		case FormatCSV:
			return ReviewsToCSV(rows)
		case FormatMarkdown:
			return ReviewsToMarkdown(rows), nil
		default:
			return ReviewsToText(rows, now), nil
		}
	}
	return nil, fmt.Errorf("%w: cannot render %T", shared.ErrInvalidArgument, v)
}

// TracksToCSV converts track summaries to CSV with columns: ID, Title, Duration, Age Restricted, Singer, Composer, Average Rating
func TracksToCSV(tracks []models.TrackSummary) ([]byte, error) {
	headers := []string{"ID", "Title", "Duration", "Age Restricted", "Singer", "Composer", "Average Rating"}
	records := make([][]string, 0, len(tracks))
	for _, track := range tracks {
		records = append(records, []string{
			strconv.FormatInt(track.ID, 10),
			track.Title,
			strconv.Itoa(track.Duration),
			strconv.FormatBool(track.AgeRestriction),
			track.SingerName,
			track.ComposerName,
			strconv.FormatFloat(track.AvgRating, 'f', 2, 64),
		})
	}
	return writeCSV(headers, records)
}

// UsersToCSV converts user profiles to CSV with columns: Login, First Name, Last Name, Email, Role
func UsersToCSV(users []models.UserProfile) ([]byte, error) {
	headers := []string{"Login", "First Name", "Last Name", "Email", "Role"}
	records := make([][]string, 0, len(users))
	for _, user := range users {
		records = append(records, []string{user.Login, user.FirstName, user.LastName, user.Email, user.Role.String()})
	}
	return writeCSV(headers, records)
}

// ReviewsToCSV converts review summaries to CSV with columns: ID, Track, Rating, Customer Login, Customer Name, Date, Content
func ReviewsToCSV(reviews []models.ReviewSummary) ([]byte, error) {
	headers := []string{"ID", "Track", "Rating", "Customer Login", "Customer Name", "Date", "Content"}
	records := make([][]string, 0, len(reviews))
	for _, review := range reviews {
		records = append(records, []string{
			strconv.FormatInt(review.ID, 10),
			review.TrackTitle,
			strconv.Itoa(review.Rating),
			review.CustomerLogin,
			review.CustomerName,
			review.ReviewDate.String(),
			review.Content,
		})
	}
	return writeCSV(headers, records)
}

func writeCSV(headers []string, records [][]string) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}
	if err := writer.WriteAll(records); err != nil {
		return nil, fmt.Errorf("failed to write CSV records: %w", err)
	}

	return buf.Bytes(), nil
}

// TracksToMarkdown renders track summaries as a Markdown table
func TracksToMarkdown(tracks []models.TrackSummary) []byte {
	var buf bytes.Buffer

	buf.WriteString("# Tracks\n\n")
	buf.WriteString(fmt.Sprintf("**Tracks**: %s\n\n", humanize.Comma(int64(len(tracks)))))
	buf.WriteString("| ID | Title | Duration | Singer | Composer | Rating |\n")
	buf.WriteString("|---:|---|---:|---|---|---:|\n")
	for _, track := range tracks {
		title := mdEscape(track.Title)
		if track.AgeRestriction {
			title += " (18+)"
		}
		buf.WriteString(fmt.Sprintf("| %d | %s | %s | %s | %s | %.2f |\n",
			track.ID, title, shared.FormatDuration(track.Duration),
			mdEscape(track.SingerName), mdEscape(track.ComposerName), track.AvgRating))
	}

	return buf.Bytes()
}

// UsersToMarkdown renders user profiles as a Markdown table
func UsersToMarkdown(users []models.UserProfile) []byte {
	var buf bytes.Buffer

	buf.WriteString("# Users\n\n")
	buf.WriteString("| Login | Name | Email | Role |\n")
	buf.WriteString("|---|---|---|---|\n")
	for _, user := range users {
		buf.WriteString(fmt.Sprintf("| %s | %s %s | %s | %s |\n",
			mdEscape(user.Login), mdEscape(user.FirstName), mdEscape(user.LastName), mdEscape(user.Email), user.Role))
	}

	return buf.Bytes()
}

// ReviewsToMarkdown renders review summaries as a Markdown list, one section per review
func ReviewsToMarkdown(reviews []models.ReviewSummary) []byte {
	var buf bytes.Buffer

	buf.WriteString("# Reviews\n\n")
	for _, review := range reviews {
		buf.WriteString(fmt.Sprintf("## %s %s\n\n", review.TrackTitle, stars(review.Rating)))
		buf.WriteString(fmt.Sprintf("**By**: %s (%s) on %s\n\n", review.CustomerName, review.CustomerLogin, review.ReviewDate))
		if review.Content != "" {
			buf.WriteString(fmt.Sprintf("> %s\n\n", strings.ReplaceAll(review.Content, "\n", "\n> ")))
		}
	}

	return buf.Bytes()
}

// TracksToText renders one line per track
func TracksToText(tracks []models.TrackSummary) []byte {
	var buf bytes.Buffer

	for _, track := range tracks {
		restricted := ""
		if track.AgeRestriction {
			restricted = " (18+)"
		}
		buf.WriteString(fmt.Sprintf("%d. %s - %s / %s [%s] avg %.2f%s\n",
			track.ID, track.Title, track.SingerName, track.ComposerName,
			shared.FormatDuration(track.Duration), track.AvgRating, restricted))
	}

	return buf.Bytes()
}

// UsersToText renders one line per account
func UsersToText(users []models.UserProfile) []byte {
	var buf bytes.Buffer

	for _, user := range users {
		email := ""
		if user.Email != "" {
			email = fmt.Sprintf(" <%s>", user.Email)
		}
		buf.WriteString(fmt.Sprintf("%-8s %s (%s %s)%s\n", user.Role, user.Login, user.FirstName, user.LastName, email))
	}

	return buf.Bytes()
}

// ReviewsToText renders each review with a relative date and its content indented below it
func ReviewsToText(reviews []models.ReviewSummary, now time.Time) []byte {
	var buf bytes.Buffer

	for _, review := range reviews {
		buf.WriteString(fmt.Sprintf("#%d %s %s by %s (%s), %s\n",
			review.ID, review.TrackTitle, stars(review.Rating), review.CustomerName, review.CustomerLogin,
			RelativeDate(review.ReviewDate, now)))
		if review.Content != "" {
			buf.WriteString(fmt.Sprintf("    %s\n", review.Content))
		}
	}

	return buf.Bytes()
}

// RelativeDate describes d relative to the calendar day of now, e.g. "today" or "3 days ago".
func RelativeDate(d models.Date, now time.Time) string {
	if d.IsZero() {
		return "undated"
	}
	today := models.NewDate(now)
	if d.Equal(today.Time) {
		return "today"
	}
	return humanize.RelTime(d.Time, today.Time, "ago", "from now")
}

func stars(rating int) string {
	if rating < 0 {
		rating = 0
	}
	if rating > 5 {
		rating = 5
	}
	return strings.Repeat("★", rating) + strings.Repeat("☆", 5-rating)
}

func mdEscape(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

// WriteFile writes rendered output to path.
func WriteFile(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
