package repositories

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/desertthunder/trackrate/internal/models"
	"github.com/desertthunder/trackrate/internal/shared"
	tu "github.com/desertthunder/trackrate/internal/testing"
)

func TestAccountRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("CheckLogin", func(t *testing.T) {
		db := tu.NewSeededDB(t)
		repo := NewAccountRepository(db)

		session, err := repo.CheckLogin(ctx, tu.CustomerLogin, tu.CustomerPass)
		if err != nil {
			t.Fatalf("failed to check login: %v", err)
		}

		if session.Login != tu.CustomerLogin {
			t.Errorf("expected login %s, got %s", tu.CustomerLogin, session.Login)
		}
		if session.FirstName != "Alice" || session.LastName != "Smith" {
			t.Errorf("unexpected name %s %s", session.FirstName, session.LastName)
		}
		if session.Role != models.RoleCustomer {
			t.Errorf("expected role Customer, got %s", session.Role)
		}
	})

	t.Run("CheckLoginIgnoresLoginCase", func(t *testing.T) {
		db := tu.NewSeededDB(t)
		repo := NewAccountRepository(db)

		session, err := repo.CheckLogin(ctx, "ALICE", tu.CustomerPass)
		if err != nil {
			t.Fatalf("expected case-insensitive login match: %v", err)
		}
		if session.Login != tu.CustomerLogin {
			t.Errorf("expected stored login %s, got %s", tu.CustomerLogin, session.Login)
		}
	})

	t.Run("CheckLoginPasswordIsCaseSensitive", func(t *testing.T) {
		db := tu.NewSeededDB(t)
		repo := NewAccountRepository(db)

		_, err := repo.CheckLogin(ctx, tu.CustomerLogin, "SECRET")
		if !errors.Is(err, shared.ErrNotFound) {
			t.Fatalf("expected ErrNotFound for wrong password case, got %v", err)
		}
	})

	t.Run("List", func(t *testing.T) {
		db := tu.NewSeededDB(t)
		repo := NewAccountRepository(db)

		users, err := repo.List(ctx)
		if err != nil {
			t.Fatalf("failed to list accounts: %v", err)
		}

		expected := []string{tu.ArtistLogin, tu.Artist2Login, tu.CustomerLogin, tu.Customer2Login, tu.StaffLogin}
		if len(users) != len(expected) {
			t.Fatalf("expected %d users, got %d", len(expected), len(users))
		}
		for i, login := range expected {
			if users[i].Login != login {
				t.Errorf("position %d: expected %s, got %s", i, login, users[i].Login)
			}
		}

		if users[3].Email != "" {
			t.Errorf("expected empty email for NULL column, got %q", users[3].Email)
		}
		if users[2].Email != "alice@example.com" {
			t.Errorf("expected alice@example.com, got %q", users[2].Email)
		}
	})

	t.Run("ListEmpty", func(t *testing.T) {
		db := tu.NewTestDB(t)
		repo := NewAccountRepository(db)

		users, err := repo.List(ctx)
		if err != nil {
			t.Fatalf("failed to list accounts: %v", err)
		}
		if len(users) != 0 {
			t.Errorf("expected no users, got %d", len(users))
		}
	})

	t.Run("Create", func(t *testing.T) {
		db := tu.NewSeededDB(t)
		repo := NewAccountRepository(db)

		account := models.NewAccount{
			Login:     "erin",
			FirstName: "Erin",
			LastName:  "Moss",
			Password:  "pw",
			Role:      "staff",
		}
		if err := repo.Create(ctx, account); err != nil {
			t.Fatalf("failed to create account: %v", err)
		}

		users, err := repo.List(ctx)
		if err != nil {
			t.Fatalf("failed to list accounts: %v", err)
		}

		var found *models.UserProfile
		for i := range users {
			if users[i].Login == "erin" {
				found = &users[i]
			}
		}
		if found == nil {
			t.Fatal("created account missing from list")
		}
		if found.Role != models.RoleStaff {
			t.Errorf("expected canonical role Staff, got %s", found.Role)
		}
		if found.Email != "" {
			t.Errorf("expected empty email, got %q", found.Email)
		}

		if _, err := repo.CheckLogin(ctx, "Erin", "pw"); err != nil {
			t.Errorf("expected new account to log in: %v", err)
		}
	})

	t.Run("Update", func(t *testing.T) {
		db := tu.NewSeededDB(t)
		repo := NewAccountRepository(db)

		update := models.AccountUpdate{Login: "BOB", FirstName: "Robert", LastName: "Jones", Email: "rob@example.com"}
		if err := repo.Update(ctx, update); err != nil {
			t.Fatalf("failed to update account: %v", err)
		}

		// applying the same update twice leaves the same state
		if err := repo.Update(ctx, update); err != nil {
			t.Fatalf("failed to repeat update: %v", err)
		}

		session, err := repo.CheckLogin(ctx, tu.Customer2Login, "hunter2")
		if err != nil {
			t.Fatalf("failed to check login: %v", err)
		}
		if session.FirstName != "Robert" {
			t.Errorf("expected Robert, got %s", session.FirstName)
		}
	})

	t.Run("ResolveRole", func(t *testing.T) {
		db := tu.NewSeededDB(t)
		repo := NewAccountRepository(db)

		login, err := repo.ResolveRole(ctx, "CAROL", models.RoleArtist)
		if err != nil {
			t.Fatalf("failed to resolve artist: %v", err)
		}
		if login != tu.ArtistLogin {
			t.Errorf("expected stored login %s, got %s", tu.ArtistLogin, login)
		}
	})
}

func TestTrackRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("List", func(t *testing.T) {
		db := tu.NewSeededDB(t)
		repo := NewTrackRepository(db)

		tracks, err := repo.List(ctx)
		if err != nil {
			t.Fatalf("failed to list tracks: %v", err)
		}
		if len(tracks) != tu.FixtureTracks {
			t.Fatalf("expected %d tracks, got %d", tu.FixtureTracks, len(tracks))
		}

		for i := 1; i < len(tracks); i++ {
			if tracks[i-1].ID >= tracks[i].ID {
				t.Errorf("tracks not ordered by id: %d before %d", tracks[i-1].ID, tracks[i].ID)
			}
		}

		first := tracks[0]
		if first.Title != "Blue Morning" {
			t.Errorf("expected Blue Morning, got %s", first.Title)
		}
		if first.SingerName != "Carol King" {
			t.Errorf("expected singer Carol King, got %q", first.SingerName)
		}
		if first.ComposerName != "Dave Grohl" {
			t.Errorf("expected composer Dave Grohl, got %q", first.ComposerName)
		}
		if !tracks[1].AgeRestriction {
			t.Error("expected Night Drive to be age restricted")
		}
	})

	t.Run("AverageRating", func(t *testing.T) {
		db := tu.NewSeededDB(t)
		repo := NewTrackRepository(db)

		tracks, err := repo.List(ctx)
		if err != nil {
			t.Fatalf("failed to list tracks: %v", err)
		}

		tests := []struct {
			id       int64
			expected float64
		}{
			{tu.TrackBlueMorning, 3.5},
			{tu.TrackNightDrive, 4.5},
			{tu.TrackQuietSong, 0},
			{tu.TrackLongForm, 1.67},
		}

		byID := make(map[int64]models.TrackSummary, len(tracks))
		for _, track := range tracks {
			byID[track.ID] = track
		}

		for _, tt := range tests {
			if got := byID[tt.id].AvgRating; math.Abs(got-tt.expected) > 1e-9 {
				t.Errorf("track %d: expected average %v, got %v", tt.id, tt.expected, got)
			}
		}
	})

	t.Run("Find", func(t *testing.T) {
		db := tu.NewSeededDB(t)
		repo := NewTrackRepository(db)

		tests := []struct {
			name     string
			query    string
			expected []int64
		}{
			{"TitleSubstring", "drive", []int64{tu.TrackNightDrive}},
			{"SingerName", "CAROL", []int64{tu.TrackBlueMorning, tu.TrackNightDrive, tu.TrackQuietSong}},
			{"ArtistLastName", "grohl", []int64{tu.TrackBlueMorning, tu.TrackNightDrive, tu.TrackLongForm}},
			{"Empty", "", []int64{1, 2, 3, 4}},
			{"NoMatch", "polka", nil},
			{"Wildcard", "%", nil},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				tracks, err := repo.Find(ctx, tt.query)
				if err != nil {
					t.Fatalf("failed to find tracks: %v", err)
				}
				if len(tracks) != len(tt.expected) {
					t.Fatalf("expected %d tracks, got %d", len(tt.expected), len(tracks))
				}
				for i, id := range tt.expected {
					if tracks[i].ID != id {
						t.Errorf("position %d: expected track %d, got %d", i, id, tracks[i].ID)
					}
				}
			})
		}
	})

	t.Run("FindKeepsAverage", func(t *testing.T) {
		db := tu.NewSeededDB(t)
		repo := NewTrackRepository(db)

		tracks, err := repo.Find(ctx, "blue")
		if err != nil {
			t.Fatalf("failed to find tracks: %v", err)
		}
		if len(tracks) != 1 || tracks[0].AvgRating != 3.5 {
			t.Errorf("expected Blue Morning with average 3.5, got %+v", tracks)
		}
	})

	t.Run("Exists", func(t *testing.T) {
		db := tu.NewSeededDB(t)
		repo := NewTrackRepository(db)

		ok, err := repo.Exists(ctx, tu.TrackQuietSong)
		if err != nil {
			t.Fatalf("failed to check track: %v", err)
		}
		if !ok {
			t.Error("expected track to exist")
		}

		ok, err = repo.Exists(ctx, 99)
		if err != nil {
			t.Fatalf("failed to check track: %v", err)
		}
		if ok {
			t.Error("expected track 99 to be missing")
		}
	})

	t.Run("Update", func(t *testing.T) {
		db := tu.NewSeededDB(t)
		repo := NewTrackRepository(db)

		update := models.TrackUpdate{
			ID:             tu.TrackQuietSong,
			Title:          "Louder Song",
			Duration:       250,
			AgeRestriction: true,
			SingerLogin:    tu.Artist2Login,
			ComposerLogin:  tu.ArtistLogin,
		}
		if err := repo.Update(ctx, update, tu.Artist2Login, tu.ArtistLogin); err != nil {
			t.Fatalf("failed to update track: %v", err)
		}

		tracks, err := repo.Find(ctx, "louder")
		if err != nil {
			t.Fatalf("failed to find tracks: %v", err)
		}
		if len(tracks) != 1 {
			t.Fatalf("expected 1 track, got %d", len(tracks))
		}
		got := tracks[0]
		if got.Duration != 250 || !got.AgeRestriction || got.SingerName != "Dave Grohl" {
			t.Errorf("unexpected track after update: %+v", got)
		}
	})
}

func TestReviewRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("List", func(t *testing.T) {
		db := tu.NewSeededDB(t)
		repo := NewReviewRepository(db)

		reviews, err := repo.List(ctx)
		if err != nil {
			t.Fatalf("failed to list reviews: %v", err)
		}
		if len(reviews) != len(tu.FixtureReviewOrder) {
			t.Fatalf("expected %d reviews, got %d", len(tu.FixtureReviewOrder), len(reviews))
		}
		for i, id := range tu.FixtureReviewOrder {
			if reviews[i].ID != id {
				t.Errorf("position %d: expected review %d, got %d", i, id, reviews[i].ID)
			}
		}

		first := reviews[0]
		if first.TrackTitle != "Blue Morning" {
			t.Errorf("expected Blue Morning, got %s", first.TrackTitle)
		}
		if first.CustomerName != "Bob Jones" || first.CustomerLogin != tu.Customer2Login {
			t.Errorf("unexpected reviewer %s (%s)", first.CustomerName, first.CustomerLogin)
		}
		if first.ReviewDate.String() != "2024-05-03" {
			t.Errorf("expected 2024-05-03, got %s", first.ReviewDate)
		}
		if reviews[1].Content != "" {
			t.Errorf("expected empty content for NULL column, got %q", reviews[1].Content)
		}
	})

	t.Run("Create", func(t *testing.T) {
		db := tu.NewSeededDB(t)
		repo := NewReviewRepository(db)

		review := models.NewReview{
			TrackID:       tu.TrackQuietSong,
			Rating:        5,
			CustomerLogin: tu.CustomerLogin,
			Content:       "Lovely",
			ReviewDate:    tu.Day(2025, 1, 2),
		}
		id, err := repo.Create(ctx, review, tu.CustomerLogin)
		if err != nil {
			t.Fatalf("failed to create review: %v", err)
		}
		if id != tu.FixtureReviews+1 {
			t.Errorf("expected id %d, got %d", tu.FixtureReviews+1, id)
		}

		reviews, err := repo.List(ctx)
		if err != nil {
			t.Fatalf("failed to list reviews: %v", err)
		}
		if reviews[0].ID != id {
			t.Errorf("expected newest review first, got %d", reviews[0].ID)
		}
		if reviews[0].ReviewDate.String() != "2025-01-02" {
			t.Errorf("expected 2025-01-02, got %s", reviews[0].ReviewDate)
		}
	})

	t.Run("CreateDefaultsDateToToday", func(t *testing.T) {
		db := tu.NewSeededDB(t)
		repo := NewReviewRepository(db)

		review := models.NewReview{TrackID: tu.TrackQuietSong, Rating: 2, CustomerLogin: tu.CustomerLogin}
		id, err := repo.Create(ctx, review, tu.CustomerLogin)
		if err != nil {
			t.Fatalf("failed to create review: %v", err)
		}

		reviews, err := repo.List(ctx)
		if err != nil {
			t.Fatalf("failed to list reviews: %v", err)
		}
		if reviews[0].ID != id || reviews[0].ReviewDate.String() != models.Today().String() {
			t.Errorf("expected review %d dated today, got %d on %s", id, reviews[0].ID, reviews[0].ReviewDate)
		}
	})

	t.Run("Update", func(t *testing.T) {
		db := tu.NewSeededDB(t)
		repo := NewReviewRepository(db)

		date := tu.Day(2025, 6, 1)
		update := models.ReviewUpdate{ID: 4, Rating: 1, Content: "Changed my mind"}
		if err := repo.Update(ctx, update, date); err != nil {
			t.Fatalf("failed to update review: %v", err)
		}

		reviews, err := repo.List(ctx)
		if err != nil {
			t.Fatalf("failed to list reviews: %v", err)
		}
		got := reviews[0]
		if got.ID != 4 || got.Rating != 1 || got.Content != "Changed my mind" || got.ReviewDate.String() != date.String() {
			t.Errorf("unexpected review after update: %+v", got)
		}
	})
}
