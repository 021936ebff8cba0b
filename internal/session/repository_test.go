package session

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"hrms_tui/internal/attendance"
	"hrms_tui/internal/hrms"
)

func newRepo(t *testing.T) *Repository {
	t.Helper()
	repo, err := NewRepository(filepath.Join(t.TempDir(), "hrms.db"))
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestSessionRoundTrip(t *testing.T) {
	repo := newRepo(t)

	_, err := repo.LoadSession()
	require.ErrorIs(t, err, ErrNoSession)

	s := hrms.Session{Token: "tok-1", User: hrms.User{ID: 4, Name: "Uma", Email: "uma@example.com", Role: "user"}}
	require.NoError(t, repo.SaveSession(s))

	s.Token = "tok-2"
	require.NoError(t, repo.SaveSession(s))

	loaded, err := repo.LoadSession()
	require.NoError(t, err)
	require.Equal(t, s, loaded)

	require.NoError(t, repo.ClearSession())
	_, err = repo.LoadSession()
	require.ErrorIs(t, err, ErrNoSession)
}

func TestHistoryCache(t *testing.T) {
	repo := newRepo(t)

	t1 := time.Date(2024, time.August, 14, 9, 0, 0, 0, time.UTC)
	t2 := time.Date(2024, time.August, 15, 9, 30, 0, 0, time.UTC)
	out1 := t1.Add(8 * time.Hour)
	hours := 8.0

	require.NoError(t, repo.CacheHistory([]attendance.Day{
		{ID: 1, Date: "2024-08-14", CheckInTime: &t1, CheckOutTime: &out1, TotalHours: &hours},
		{ID: 2, Date: "2024-08-15", CheckInTime: &t2},
		{Date: "2024-08-16"},
	}))

	// a later fetch closes the open day
	out2 := t2.Add(time.Hour)
	one := 1.0
	require.NoError(t, repo.CacheHistory([]attendance.Day{
		{ID: 2, Date: "2024-08-15", CheckInTime: &t2, CheckOutTime: &out2, TotalHours: &one},
	}))

	days, err := repo.CachedHistory(10)
	require.NoError(t, err)
	require.Len(t, days, 2)
	require.Equal(t, int64(2), days[0].ID)
	require.True(t, days[0].CheckOutTime.Equal(out2))
	require.Equal(t, 1.0, *days[0].TotalHours)
	require.Equal(t, "2024-08-14", days[1].Date)

	days, err = repo.CachedHistory(1)
	require.NoError(t, err)
	require.Len(t, days, 1)
}
