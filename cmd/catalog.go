package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/desertthunder/trackrate/internal/formatter"
	"github.com/desertthunder/trackrate/internal/models"
	"github.com/desertthunder/trackrate/internal/shared"
	"github.com/desertthunder/trackrate/internal/store"
	"github.com/urfave/cli/v3"
)

// listing fetches rows from the store and renders them. An empty listing renders as no rows.
func listing[T any](ctx context.Context, r *Runner, cmd *cli.Command, what string,
	fetch func(context.Context, store.Service) ([]T, error),
) error {
	svc, err := r.service(ctx)
	if err != nil {
		return err
	}

	rows, err := fetch(ctx, svc)
	switch {
	case errors.Is(err, shared.ErrNotFound):
		rows = []T{}
	case err != nil:
		return err
	}

	if f, _ := formatter.ParseFormat(cmd.String("format")); len(rows) == 0 && f == formatter.FormatText {
		return r.writePlain("No %s found\n", what)
	}
	return r.render(cmd, rows)
}

// Login checks the given credentials.
func (r *Runner) Login(ctx context.Context, cmd *cli.Command) error {
	svc, err := r.service(ctx)
	if err != nil {
		return err
	}

	session, err := svc.CheckLogin(ctx, cmd.String("login"), cmd.String("password"))
	if errors.Is(err, shared.ErrNotFound) {
		return fmt.Errorf("%w: invalid login or password", shared.ErrInvalidArgument)
	} else if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(session, true)
	}
	return r.writePlain("✓ Logged in as %s %s (%s, %s)\n", session.FirstName, session.LastName, session.Login, session.Role)
}

// TracksList lists every track.
func (r *Runner) TracksList(ctx context.Context, cmd *cli.Command) error {
	return listing(ctx, r, cmd, "tracks", func(ctx context.Context, svc store.Service) ([]models.TrackSummary, error) {
		return svc.ListTracks(ctx)
	})
}

// TracksFind searches tracks by title, singer or composer name.
func (r *Runner) TracksFind(ctx context.Context, cmd *cli.Command) error {
	query := cmd.StringArg("query")
	r.logger.Debug("searching tracks", "query", query)

	return listing(ctx, r, cmd, "matching tracks", func(ctx context.Context, svc store.Service) ([]models.TrackSummary, error) {
		return svc.FindTracks(ctx, query)
	})
}

// TracksUpdate replaces a track's details.
func (r *Runner) TracksUpdate(ctx context.Context, cmd *cli.Command) error {
	svc, err := r.service(ctx)
	if err != nil {
		return err
	}

	update := models.TrackUpdate{
		ID:             int64(cmd.Int("id")),
		Title:          cmd.String("title"),
		Duration:       int(cmd.Int("duration")),
		AgeRestriction: cmd.Bool("age-restricted"),
		SingerLogin:    cmd.String("singer"),
		ComposerLogin:  cmd.String("composer"),
	}
	if err := svc.UpdateTrack(ctx, update); err != nil {
		return err
	}
	return r.writePlain("✓ Track %d updated\n", update.ID)
}

// UsersList lists every account.
func (r *Runner) UsersList(ctx context.Context, cmd *cli.Command) error {
	return listing(ctx, r, cmd, "users", func(ctx context.Context, svc store.Service) ([]models.UserProfile, error) {
		return svc.ListUsers(ctx)
	})
}

// UsersAdd registers an account.
func (r *Runner) UsersAdd(ctx context.Context, cmd *cli.Command) error {
	svc, err := r.service(ctx)
	if err != nil {
		return err
	}

	role, err := models.ParseRole(cmd.String("role"))
	if err != nil {
		return err
	}

	account := models.NewAccount{
		Login:     cmd.String("login"),
		FirstName: cmd.String("firstname"),
		LastName:  cmd.String("lastname"),
		Password:  cmd.String("password"),
		Email:     cmd.String("email"),
		Role:      role,
	}
	if err := svc.AddUser(ctx, account); err != nil {
		return err
	}
	return r.writePlain("✓ Account %s created (%s)\n", account.Login, account.Role)
}

// UsersUpdate changes an account's names and email.
func (r *Runner) UsersUpdate(ctx context.Context, cmd *cli.Command) error {
	svc, err := r.service(ctx)
	if err != nil {
		return err
	}

	update := models.AccountUpdate{
		Login:     cmd.String("login"),
		FirstName: cmd.String("firstname"),
		LastName:  cmd.String("lastname"),
		Email:     cmd.String("email"),
	}
	if err := svc.UpdateUser(ctx, update); err != nil {
		return err
	}
	return r.writePlain("✓ Account %s updated\n", update.Login)
}

// ReviewsList lists every review, newest first.
func (r *Runner) ReviewsList(ctx context.Context, cmd *cli.Command) error {
	return listing(ctx, r, cmd, "reviews", func(ctx context.Context, svc store.Service) ([]models.ReviewSummary, error) {
		return svc.ListReviews(ctx)
	})
}

// ReviewsAdd writes a customer's review of a track.
func (r *Runner) ReviewsAdd(ctx context.Context, cmd *cli.Command) error {
	svc, err := r.service(ctx)
	if err != nil {
		return err
	}

	review := models.NewReview{
		TrackID:       int64(cmd.Int("track")),
		Rating:        int(cmd.Int("rating")),
		CustomerLogin: cmd.String("customer"),
		Content:       cmd.String("content"),
	}
	if s := cmd.String("date"); s != "" {
		if review.ReviewDate, err = models.ParseDate(s); err != nil {
			return err
		}
	}

	id, err := svc.AddReview(ctx, review)
	if err != nil {
		return err
	}
	return r.writePlain("✓ Review %d added\n", id)
}

// ReviewsUpdate changes a review's rating and content.
func (r *Runner) ReviewsUpdate(ctx context.Context, cmd *cli.Command) error {
	svc, err := r.service(ctx)
	if err != nil {
		return err
	}

	update := models.ReviewUpdate{
		ID:      int64(cmd.Int("id")),
		Rating:  int(cmd.Int("rating")),
		Content: cmd.String("content"),
	}
	if err := svc.UpdateReview(ctx, update); err != nil {
		return err
	}
	return r.writePlain("✓ Review %d updated\n", update.ID)
}
