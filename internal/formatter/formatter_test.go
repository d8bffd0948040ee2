package formatter

import (
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/trackrate/internal/models"
	"github.com/desertthunder/trackrate/internal/shared"
	th "github.com/desertthunder/trackrate/internal/testing"
)

var (
	testTracks = []models.TrackSummary{
		{ID: 1, Title: "Blue Morning", Duration: 215, SingerName: "Carol King", ComposerName: "Dave Grohl", AvgRating: 3.5},
		{ID: 2, Title: "Night | Drive", Duration: 184, AgeRestriction: true, SingerName: "Dave Grohl", ComposerName: "Carol King", AvgRating: 4.5},
	}
	testUsers = []models.UserProfile{
		{Login: "carol", FirstName: "Carol", LastName: "King", Email: "carol@example.com", Role: models.RoleArtist},
		{Login: "bob", FirstName: "Bob", LastName: "Jones", Role: models.RoleCustomer},
	}
	testReviews = []models.ReviewSummary{
		{ID: 2, TrackTitle: "Blue Morning", Rating: 4, Content: "Great, really", CustomerLogin: "bob", CustomerName: "Bob Jones", ReviewDate: th.Day(2024, 5, 3)},
		{ID: 1, TrackTitle: "Blue Morning", Rating: 3, CustomerLogin: "alice", CustomerName: "Alice Smith", ReviewDate: th.Day(2024, 5, 1)},
	}
	testNow = time.Date(2024, 5, 4, 15, 30, 0, 0, time.UTC)
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input    string
		expected Format
	}{
		{"", FormatText},
		{"txt", FormatText},
		{"JSON", FormatJSON},
		{"csv", FormatCSV},
		{"md", FormatMarkdown},
		{"markdown", FormatMarkdown},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseFormat(tt.input)
			if err != nil {
				t.Fatalf("ParseFormat(%q) failed: %v", tt.input, err)
			}
			if got != tt.expected {
				t.Errorf("expected %s, got %s", tt.expected, got)
			}
		})
	}

	t.Run("Unknown", func(t *testing.T) {
		if _, err := ParseFormat("xml"); !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})
}

func TestCSV(t *testing.T) {
	t.Run("Tracks", func(t *testing.T) {
		data, err := TracksToCSV(testTracks)
		if err != nil {
			t.Fatalf("TracksToCSV failed: %v", err)
		}

		records, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
		if err != nil {
			t.Fatalf("output is not valid CSV: %v", err)
		}
		if len(records) != 3 {
			t.Fatalf("expected header and 2 rows, got %d", len(records))
		}
		if strings.Join(records[0], ",") != "ID,Title,Duration,Age Restricted,Singer,Composer,Average Rating" {
			t.Errorf("unexpected headers: %v", records[0])
		}
		if records[2][3] != "true" || records[2][6] != "4.50" {
			t.Errorf("unexpected second row: %v", records[2])
		}
	})

	t.Run("Users", func(t *testing.T) {
		data, err := UsersToCSV(testUsers)
		if err != nil {
			t.Fatalf("UsersToCSV failed: %v", err)
		}
		output := string(data)
		if !strings.Contains(output, "carol,Carol,King,carol@example.com,Artist") {
			t.Errorf("CSV missing carol row, got: %s", output)
		}
		if !strings.Contains(output, "bob,Bob,Jones,,Customer") {
			t.Errorf("CSV missing bob row with empty email, got: %s", output)
		}
	})

	t.Run("Reviews", func(t *testing.T) {
		data, err := ReviewsToCSV(testReviews)
		if err != nil {
			t.Fatalf("ReviewsToCSV failed: %v", err)
		}
		if !strings.Contains(string(data), `2,Blue Morning,4,bob,Bob Jones,2024-05-03,"Great, really"`) {
			t.Errorf("CSV missing quoted content, got: %s", data)
		}
	})
}

func TestMarkdown(t *testing.T) {
	t.Run("Tracks", func(t *testing.T) {
		output := string(TracksToMarkdown(testTracks))

		if !strings.HasPrefix(output, "# Tracks") {
			t.Errorf("markdown missing title")
		}
		if !strings.Contains(output, "| 1 | Blue Morning | 3:35 | Carol King | Dave Grohl | 3.50 |") {
			t.Errorf("markdown missing first row, got: %s", output)
		}
		if !strings.Contains(output, `Night \| Drive (18+)`) {
			t.Errorf("markdown should escape pipes and mark restricted tracks, got: %s", output)
		}
	})

	t.Run("Users", func(t *testing.T) {
		output := string(UsersToMarkdown(testUsers))
		if !strings.Contains(output, "| bob | Bob Jones |  | Customer |") {
			t.Errorf("markdown missing bob row, got: %s", output)
		}
	})

	t.Run("Reviews", func(t *testing.T) {
		output := string(ReviewsToMarkdown(testReviews))
		if !strings.Contains(output, "## Blue Morning ★★★★☆") {
			t.Errorf("markdown missing rating heading, got: %s", output)
		}
		if !strings.Contains(output, "> Great, really") {
			t.Errorf("markdown missing quoted content")
		}
		if strings.Count(output, ">") != 1 {
			t.Errorf("empty content should not be quoted, got: %s", output)
		}
	})
}

func TestText(t *testing.T) {
	t.Run("Tracks", func(t *testing.T) {
		output := string(TracksToText(testTracks))
		expected := "1. Blue Morning - Carol King / Dave Grohl [3:35] avg 3.50\n" +
			"2. Night | Drive - Dave Grohl / Carol King [3:04] avg 4.50 (18+)\n"
		if output != expected {
			t.Errorf("expected:\n%s\ngot:\n%s", expected, output)
		}
	})

	t.Run("Users", func(t *testing.T) {
		output := string(UsersToText(testUsers))
		if !strings.Contains(output, "Artist   carol (Carol King) <carol@example.com>") {
			t.Errorf("unexpected output: %s", output)
		}
		if strings.Contains(output, "<>") {
			t.Errorf("empty email should be omitted, got: %s", output)
		}
	})

	t.Run("Reviews", func(t *testing.T) {
		output := string(ReviewsToText(testReviews, testNow))
		if !strings.Contains(output, "#2 Blue Morning ★★★★☆ by Bob Jones (bob), 1 day ago") {
			t.Errorf("unexpected first review: %s", output)
		}
		if !strings.Contains(output, "#1 Blue Morning ★★★☆☆ by Alice Smith (alice), 3 days ago") {
			t.Errorf("unexpected second review: %s", output)
		}
	})
}

func TestRelativeDate(t *testing.T) {
	tests := []struct {
		name     string
		date     models.Date
		expected string
	}{
		{"Today", th.Day(2024, 5, 4), "today"},
		{"Yesterday", th.Day(2024, 5, 3), "1 day ago"},
		{"Future", th.Day(2024, 5, 7), "3 days from now"},
		{"Zero", models.Date{}, "undated"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RelativeDate(tt.date, testNow); got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestRender(t *testing.T) {
	t.Run("JSON", func(t *testing.T) {
		data, err := Render(FormatJSON, testReviews, testNow)
		if err != nil {
			t.Fatalf("Render failed: %v", err)
		}
		if !strings.Contains(string(data), `"review_date": "2024-05-03"`) {
			t.Errorf("expected date as YYYY-MM-DD, got: %s", data)
		}
	})

	t.Run("Dispatch", func(t *testing.T) {
		for _, v := range []any{testTracks, testUsers, testReviews} {
			for _, f := range Formats {
				if _, err := Render(f, v, testNow); err != nil {
					t.Errorf("Render(%s, %T) failed: %v", f, v, err)
				}
			}
		}
	})

	t.Run("UnsupportedType", func(t *testing.T) {
		if _, err := Render(FormatText, 42, testNow); !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})
}

func TestWriteFile(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "tracks"+FormatCSV.Ext())
		if err := WriteFile(path, []byte("ID\n")); err != nil {
			t.Fatalf("WriteFile failed: %v", err)
		}
		th.AssertFileExists(t, path)
		if got := th.MustReadFile(t, path); got != "ID\n" {
			t.Errorf("unexpected content %q", got)
		}
	})

	t.Run("MissingDirectory", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "missing", "out.txt")
		if err := WriteFile(path, nil); err == nil {
			t.Error("expected error for missing directory")
		}
		if _, err := os.Stat(path); err == nil {
			t.Error("file should not exist")
		}
	})
}
