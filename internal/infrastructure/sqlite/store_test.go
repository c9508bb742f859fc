package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/go-geonotify/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTempStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "geonotify.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func seedCampaign(t *testing.T, s *Store, token string) *domain.Campaign {
	t.Helper()
	c := &domain.Campaign{
		Name:        "Trailhead closure",
		Description: "Bridge out on the east fork",
		AdminEmail:  "ranger@example.com",
		AdminToken:  token,
		Center:      domain.Point{Lng: -119.0, Lat: 38.0},
		Zoom:        11,
	}
	require.NoError(t, s.CreateCampaign(context.Background(), c))
	return c
}

func seedUser(t *testing.T, s *Store, campaignID int64, email, token string, at domain.Point) *domain.User {
	t.Helper()
	u := &domain.User{Email: email, Token: token, Location: at, Zoom: 10, CampaignID: campaignID}
	require.NoError(t, s.CreateUser(context.Background(), u))
	return u
}

// ~50 km due north of (-119, 38).
var fiftyKmNorth = domain.Point{Lng: -119.0, Lat: 38.0 + 50000/111195.0}

func TestOpenRequiresPath(t *testing.T) {
	_, err := Open("  ")
	assert.Error(t, err)
}

func TestCampaign_RoundTrip(t *testing.T) {
	s := openTempStore(t)
	c := seedCampaign(t, s, "tok-A")
	assert.Positive(t, c.ID)

	got, err := s.GetCampaign(context.Background(), c.ID)
	require.NoError(t, err)
	assert.Equal(t, c, got)
}

func TestCampaign_EmptyDescriptionRoundTrips(t *testing.T) {
	s := openTempStore(t)
	c := &domain.Campaign{Name: "n", AdminEmail: "a@example.com", AdminToken: "t", Center: domain.Point{Lng: 1, Lat: 2}}
	require.NoError(t, s.CreateCampaign(context.Background(), c))
	got, err := s.GetCampaign(context.Background(), c.ID)
	require.NoError(t, err)
	assert.Equal(t, "", got.Description)
}

func TestGetCampaign_NotFound(t *testing.T) {
	s := openTempStore(t)
	_, err := s.GetCampaign(context.Background(), 42)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdateCampaign_CorrectToken(t *testing.T) {
	s := openTempStore(t)
	c := seedCampaign(t, s, "tok-A")
	in := domain.CampaignInput{
		Name:       "Renamed",
		AdminEmail: "new@example.com",
		Center:     &domain.Point{Lng: -118.5, Lat: 37.5},
		Zoom:       9,
	}
	got, err := s.UpdateCampaign(context.Background(), c.ID, "tok-A", in)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Name)
	assert.Equal(t, "", got.Description)
	assert.Equal(t, domain.Point{Lng: -118.5, Lat: 37.5}, got.Center)
	assert.Equal(t, "tok-A", got.AdminToken)
}

func TestUpdateCampaign_WrongTokenLeavesRecordUnchanged(t *testing.T) {
	s := openTempStore(t)
	c := seedCampaign(t, s, "tok-A")
	in := domain.CampaignInput{Name: "Hijacked", AdminEmail: "x@example.com", Center: &domain.Point{}}

	got, err := s.UpdateCampaign(context.Background(), c.ID, "tok-a", in)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	assert.Nil(t, got)

	stored, err := s.GetCampaign(context.Background(), c.ID)
	require.NoError(t, err)
	assert.Equal(t, c, stored)
}

func TestFindTargets_RadiusExample(t *testing.T) {
	s := openTempStore(t)
	c := seedCampaign(t, s, "tok-A")
	a := seedUser(t, s, c.ID, "a@example.com", "ua", c.Center)
	b := seedUser(t, s, c.ID, "b@example.com", "ub", fiftyKmNorth)

	near, err := s.FindTargets(context.Background(), c.ID, "tok-A", c.Center, 10000)
	require.NoError(t, err)
	assert.Equal(t, []domain.Target{{UserID: a.ID, Email: a.Email}}, near.Recipients)
	assert.Equal(t, c.Name, near.Campaign.Name)
	assert.Equal(t, c.AdminEmail, near.Campaign.AdminEmail)

	far, err := s.FindTargets(context.Background(), c.ID, "tok-A", c.Center, 60000)
	require.NoError(t, err)
	assert.Equal(t, []domain.Target{
		{UserID: a.ID, Email: a.Email},
		{UserID: b.ID, Email: b.Email},
	}, far.Recipients)
}

func TestFindTargets_StrictInequality(t *testing.T) {
	s := openTempStore(t)
	c := seedCampaign(t, s, "tok-A")
	seedUser(t, s, c.ID, "a@example.com", "ua", c.Center)

	// The user sits at distance exactly 0, which is not < 0.
	got, err := s.FindTargets(context.Background(), c.ID, "tok-A", c.Center, 0)
	require.NoError(t, err)
	assert.Empty(t, got.Recipients)
}

func TestFindTargets_WrongTokenIsUnauthorized(t *testing.T) {
	s := openTempStore(t)
	c := seedCampaign(t, s, "tok-A")
	seedUser(t, s, c.ID, "a@example.com", "ua", c.Center)

	for _, tok := range []string{"", "tok-a", "TOK-A", "wrong"} {
		got, err := s.FindTargets(context.Background(), c.ID, tok, c.Center, 100000)
		assert.ErrorIs(t, err, domain.ErrUnauthorized, tok)
		assert.Nil(t, got)
	}
}

func TestFindTargets_AuthorizedButNobodyInRange(t *testing.T) {
	s := openTempStore(t)
	c := seedCampaign(t, s, "tok-A")
	seedUser(t, s, c.ID, "b@example.com", "ub", fiftyKmNorth)

	got, err := s.FindTargets(context.Background(), c.ID, "tok-A", c.Center, 1000)
	require.NoError(t, err)
	assert.NotNil(t, got.Recipients)
	assert.Empty(t, got.Recipients)
}

func TestFindTargets_ScopedToCampaign(t *testing.T) {
	s := openTempStore(t)
	c1 := seedCampaign(t, s, "tok-1")
	c2 := seedCampaign(t, s, "tok-2")
	u1 := seedUser(t, s, c1.ID, "one@example.com", "u1", c1.Center)
	seedUser(t, s, c2.ID, "two@example.com", "u2", c2.Center)

	got, err := s.FindTargets(context.Background(), c1.ID, "tok-1", c1.Center, 5000)
	require.NoError(t, err)
	assert.Equal(t, []domain.Target{{UserID: u1.ID, Email: u1.Email}}, got.Recipients)

	// A valid token for another campaign grants nothing here.
	_, err = s.FindTargets(context.Background(), c1.ID, "tok-2", c1.Center, 5000)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestUser_RoundTripRequiresToken(t *testing.T) {
	s := openTempStore(t)
	c := seedCampaign(t, s, "tok-A")
	u := seedUser(t, s, c.ID, "a@example.com", "user-tok", domain.Point{Lng: -119.1, Lat: 38.1})

	got, err := s.GetUser(context.Background(), u.ID, "user-tok")
	require.NoError(t, err)
	assert.Equal(t, u, got)

	_, err = s.GetUser(context.Background(), u.ID, "tok-A")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreateUser_UnknownCampaign(t *testing.T) {
	s := openTempStore(t)
	u := &domain.User{Email: "a@example.com", Token: "t", CampaignID: 999}
	err := s.CreateUser(context.Background(), u)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdateUser(t *testing.T) {
	s := openTempStore(t)
	c := seedCampaign(t, s, "tok-A")
	u := seedUser(t, s, c.ID, "a@example.com", "user-tok", c.Center)

	req := domain.UpdateUserRequest{
		Token:    "user-tok",
		Email:    "moved@example.com",
		Location: &domain.Point{Lng: -120, Lat: 39},
		Zoom:     14,
	}
	got, err := s.UpdateUser(context.Background(), u.ID, req)
	require.NoError(t, err)
	assert.Equal(t, "moved@example.com", got.Email)
	assert.Equal(t, domain.Point{Lng: -120, Lat: 39}, got.Location)
	assert.Equal(t, c.ID, got.CampaignID)

	req.Token = "nope"
	req.Email = "hijack@example.com"
	_, err = s.UpdateUser(context.Background(), u.ID, req)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	stored, err := s.GetUser(context.Background(), u.ID, "user-tok")
	require.NoError(t, err)
	assert.Equal(t, "moved@example.com", stored.Email)
}

func TestDeleteUser(t *testing.T) {
	s := openTempStore(t)
	c := seedCampaign(t, s, "tok-A")
	u := seedUser(t, s, c.ID, "a@example.com", "user-tok", c.Center)

	deleted, err := s.DeleteUser(context.Background(), u.ID, "wrong")
	require.NoError(t, err)
	assert.False(t, deleted)
	_, err = s.GetUser(context.Background(), u.ID, "user-tok")
	require.NoError(t, err)

	deleted, err = s.DeleteUser(context.Background(), u.ID, "user-tok")
	require.NoError(t, err)
	assert.True(t, deleted)
	_, err = s.GetUser(context.Background(), u.ID, "user-tok")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreateTables_DropsData(t *testing.T) {
	s := openTempStore(t)
	c := seedCampaign(t, s, "tok-A")
	require.NoError(t, s.SetupExtensions(context.Background(), true))
	require.NoError(t, s.CreateTables(context.Background()))

	_, err := s.GetCampaign(context.Background(), c.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
