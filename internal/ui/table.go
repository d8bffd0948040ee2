package ui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/desertthunder/trackrate/internal/formatter"
	"github.com/desertthunder/trackrate/internal/models"
	"github.com/desertthunder/trackrate/internal/shared"
)

func trackColumns() []table.Column {
	return []table.Column{
		{Title: "ID", Width: 5},
		{Title: "Title", Width: 28},
		{Title: "Length", Width: 8},
		{Title: "Singer", Width: 20},
		{Title: "Composer", Width: 20},
		{Title: "Rating", Width: 6},
	}
}

func userColumns() []table.Column {
	return []table.Column{
		{Title: "Login", Width: 16},
		{Title: "Name", Width: 24},
		{Title: "Email", Width: 28},
		{Title: "Role", Width: 10},
	}
}

func reviewColumns() []table.Column {
	return []table.Column{
		{Title: "ID", Width: 5},
		{Title: "Track", Width: 24},
		{Title: "Rating", Width: 7},
		{Title: "Customer", Width: 20},
		{Title: "Date", Width: 14},
	}
}

func trackRows(tracks []models.TrackSummary) []table.Row {
	rows := make([]table.Row, len(tracks))
	for i, t := range tracks {
		title := t.Title
		if t.AgeRestriction {
			title += " (18+)"
		}
		rows[i] = table.Row{
			strconv.FormatInt(t.ID, 10),
			title,
			shared.FormatDuration(t.Duration),
			t.SingerName,
			t.ComposerName,
			fmt.Sprintf("%.2f", t.AvgRating),
		}
	}
	return rows
}

func userRows(users []models.UserProfile) []table.Row {
	rows := make([]table.Row, len(users))
	for i, u := range users {
		rows[i] = table.Row{u.Login, u.FirstName + " " + u.LastName, u.Email, u.Role.String()}
	}
	return rows
}

func reviewRows(reviews []models.ReviewSummary, now time.Time) []table.Row {
	rows := make([]table.Row, len(reviews))
	for i, r := range reviews {
		rows[i] = table.Row{
			strconv.FormatInt(r.ID, 10),
			r.TrackTitle,
			strings.Repeat("★", r.Rating),
			r.CustomerName,
			formatter.RelativeDate(r.ReviewDate, now),
		}
	}
	return rows
}

func newTable(columns []table.Column) table.Model {
	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(10),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.Bold(true)
	s.Selected = s.Selected.Foreground(styles.activeTab.GetForeground()).Bold(true)
	t.SetStyles(s)
	return t
}

// detail renders label/value pairs, one per line.
func detail(pairs ...string) string {
	var b strings.Builder
	for i := 0; i+1 < len(pairs); i += 2 {
		b.WriteString(styles.label.Render(pairs[i]))
		b.WriteString(pairs[i+1])
		b.WriteString("\n")
	}
	return b.String()
}

func trackDetail(t models.TrackSummary) string {
	restricted := "no"
	if t.AgeRestriction {
		restricted = "yes"
	}
	return detail(
		"Title", t.Title,
		"Singer", t.SingerName,
		"Composer", t.ComposerName,
		"Length", shared.FormatDuration(t.Duration),
		"18+", restricted,
		"Rating", fmt.Sprintf("%.2f", t.AvgRating),
	)
}

func userDetail(u models.UserProfile) string {
	email := u.Email
	if email == "" {
		email = "-"
	}
	return detail(
		"Login", u.Login,
		"Name", u.FirstName+" "+u.LastName,
		"Email", email,
		"Role", u.Role.String(),
	)
}

func reviewDetail(r models.ReviewSummary, now time.Time) string {
	content := r.Content
	if content == "" {
		content = "(no comment)"
	}
	return detail(
		"Track", r.TrackTitle,
		"Rating", fmt.Sprintf("%d/5", r.Rating),
		"Customer", fmt.Sprintf("%s (%s)", r.CustomerName, r.CustomerLogin),
		"Date", fmt.Sprintf("%s, %s", r.ReviewDate, formatter.RelativeDate(r.ReviewDate, now)),
		"Review", content,
	)
}
