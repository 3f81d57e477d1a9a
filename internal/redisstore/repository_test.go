package redisstore_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/suite"

	"github.com/udisondev/idkfx/internal/loadout"
	"github.com/udisondev/idkfx/internal/redisstore"
)

type LoadoutRepositoryTestSuite struct {
	suite.Suite
	mr   *miniredis.Miniredis
	repo *redisstore.LoadoutRepository
	ctx  context.Context
}

func (s *LoadoutRepositoryTestSuite) SetupTest() {
	mr, err := miniredis.Run()
	s.Require().NoError(err)
	s.mr = mr

	client, err := redisstore.NewClient(mr.Addr(), nil)
	s.Require().NoError(err)

	s.repo, err = redisstore.NewLoadoutRepository(&redisstore.RedisConfig{
		Client:    client,
		KeyPrefix: "test:",
	})
	s.Require().NoError(err)
	s.ctx = context.Background()
}

func (s *LoadoutRepositoryTestSuite) TearDownTest() {
	s.mr.Close()
}

func (s *LoadoutRepositoryTestSuite) sample(name string) *loadout.Loadout {
	return &loadout.Loadout{
		Name:           name,
		Archetype:      "rogue",
		Abilities:      []string{"drain"},
		Items:          []loadout.ItemStack{{Name: "troll_blood", Count: 2}},
		CatalogVersion: "abc",
		UpdatedAt:      time.Date(2026, 5, 6, 7, 8, 9, 0, time.UTC),
	}
}

func (s *LoadoutRepositoryTestSuite) TestNewLoadoutRepository() {
	testCases := []struct {
		name   string
		config *redisstore.RedisConfig
		errMsg string
	}{
		{name: "nil config", config: nil, errMsg: "redis config cannot be nil"},
		{name: "nil client", config: &redisstore.RedisConfig{}, errMsg: "redis client cannot be nil"},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			repo, err := redisstore.NewLoadoutRepository(tc.config)
			s.Nil(repo)
			s.EqualError(err, tc.errMsg)
		})
	}
}

func (s *LoadoutRepositoryTestSuite) TestSaveAndLoad() {
	want := s.sample("bob")
	s.Require().NoError(s.repo.Save(s.ctx, want))

	got, err := s.repo.Load(s.ctx, "bob")
	s.Require().NoError(err)
	s.Equal(want, got)

	raw, err := s.mr.Get("test:data:bob")
	s.Require().NoError(err)
	var doc map[string]any
	s.Require().NoError(json.Unmarshal([]byte(raw), &doc))
	s.Equal("rogue", doc["archetype"])
	s.True(s.mr.Exists("test:names"))
}

func (s *LoadoutRepositoryTestSuite) TestLoad_NotFound() {
	_, err := s.repo.Load(s.ctx, "ghost")
	s.ErrorIs(err, loadout.ErrNotFound)
}

func (s *LoadoutRepositoryTestSuite) TestLoad_Corrupt() {
	s.Require().NoError(s.mr.Set("test:data:bob", "{not json"))

	_, err := s.repo.Load(s.ctx, "bob")
	s.ErrorContains(err, "unmarshaling loadout bob")
}

func (s *LoadoutRepositoryTestSuite) TestSave_Invalid() {
	err := s.repo.Save(s.ctx, &loadout.Loadout{Name: "bob"})
	s.ErrorIs(err, loadout.ErrInvalid)
	s.False(s.mr.Exists("test:data:bob"))
}

func (s *LoadoutRepositoryTestSuite) TestDeleteAndList() {
	for _, name := range []string{"zed", "alice", "bob"} {
		s.Require().NoError(s.repo.Save(s.ctx, s.sample(name)))
	}

	names, err := s.repo.List(s.ctx)
	s.Require().NoError(err)
	s.Equal([]string{"alice", "bob", "zed"}, names)

	s.Require().NoError(s.repo.Delete(s.ctx, "alice"))
	s.ErrorIs(s.repo.Delete(s.ctx, "alice"), loadout.ErrNotFound)

	names, err = s.repo.List(s.ctx)
	s.Require().NoError(err)
	s.Equal([]string{"bob", "zed"}, names)
}

func (s *LoadoutRepositoryTestSuite) TestServerDown() {
	s.mr.Close()

	_, err := s.repo.Load(s.ctx, "bob")
	s.Error(err)
	s.NotErrorIs(err, loadout.ErrNotFound)
}

func TestLoadoutRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(LoadoutRepositoryTestSuite))
}

func TestNewClient_RequiresAddress(t *testing.T) {
	if _, err := redisstore.NewClient("", nil); err == nil {
		t.Fatal("NewClient(\"\") error = nil, want error")
	}
}
