package ui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/trackrate/internal/models"
)

// Source provides the listings shown by the browser. The store satisfies it.
type Source interface {
	ListTracks(ctx context.Context) ([]models.TrackSummary, error)
	FindTracks(ctx context.Context, q string) ([]models.TrackSummary, error)
	ListUsers(ctx context.Context) ([]models.UserProfile, error)
	ListReviews(ctx context.Context) ([]models.ReviewSummary, error)
}

type tracksLoadedMsg struct {
	query  string
	tracks []models.TrackSummary
	err    error
}

type usersLoadedMsg struct {
	users []models.UserProfile
	err   error
}

type reviewsLoadedMsg struct {
	reviews []models.ReviewSummary
	err     error
}

// loadTracks lists every track, or searches when query is set.
func loadTracks(ctx context.Context, src Source, query string) tea.Cmd {
	return func() tea.Msg {
		var (
			tracks []models.TrackSummary
			err    error
		)
		if query == "" {
			tracks, err = src.ListTracks(ctx)
		} else {
			tracks, err = src.FindTracks(ctx, query)
		}
		return tracksLoadedMsg{query: query, tracks: tracks, err: err}
	}
}

func loadUsers(ctx context.Context, src Source) tea.Cmd {
	return func() tea.Msg {
		users, err := src.ListUsers(ctx)
		return usersLoadedMsg{users: users, err: err}
	}
}

func loadReviews(ctx context.Context, src Source) tea.Cmd {
	return func() tea.Msg {
		reviews, err := src.ListReviews(ctx)
		return reviewsLoadedMsg{reviews: reviews, err: err}
	}
}
