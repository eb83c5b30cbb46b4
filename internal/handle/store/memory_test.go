package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/Malmz/TalesFromTheSprawl/internal/handle/models"
	"github.com/Malmz/TalesFromTheSprawl/pkg/platform/sentinel"
)

type InMemoryStoreSuite struct {
	suite.Suite
	store *InMemoryStore
}

func (s *InMemoryStoreSuite) SetupTest() {
	s.store = NewInMemoryStore()
}

func TestInMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(InMemoryStoreSuite))
}

func (s *InMemoryStoreSuite) TestCreateIfFree() {
	s.Run("stores a new handle", func() {
		h := &models.Handle{ID: "shadow_weaver", ActorID: "u1", Kind: models.KindRegular}
		s.Require().NoError(s.store.CreateIfFree(context.Background(), h))

		found, err := s.store.FindByID(context.Background(), "shadow_weaver")
		s.Require().NoError(err)
		s.Equal("u1", found.ActorID)
		s.Equal(models.KindRegular, found.Kind)
	})

	s.Run("rejects a taken identifier regardless of kind or owner", func() {
		h := &models.Handle{ID: "shadow_weaver", ActorID: "u2", Kind: models.KindBurner}
		err := s.store.CreateIfFree(context.Background(), h)
		s.Require().ErrorIs(err, sentinel.ErrAlreadyUsed)

		found, err := s.store.FindByID(context.Background(), "shadow_weaver")
		s.Require().NoError(err)
		s.Equal("u1", found.ActorID, "original owner must be untouched")
	})
}

func (s *InMemoryStoreSuite) TestFindByID() {
	s.Run("returns ErrNotFound for unknown identifiers", func() {
		_, err := s.store.FindByID(context.Background(), "nobody")
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})
}

func (s *InMemoryStoreSuite) TestListByActor() {
	s.Run("returns handles in creation order", func() {
		for _, id := range []string{"first", "second", "third"} {
			h := &models.Handle{ID: id, ActorID: "u1", Kind: models.KindRegular}
			s.Require().NoError(s.store.CreateIfFree(context.Background(), h))
		}
		other := &models.Handle{ID: "unrelated", ActorID: "u2", Kind: models.KindRegular}
		s.Require().NoError(s.store.CreateIfFree(context.Background(), other))

		hs, err := s.store.ListByActor(context.Background(), "u1")
		s.Require().NoError(err)
		s.Require().Len(hs, 3)
		s.Equal("first", hs[0].ID)
		s.Equal("second", hs[1].ID)
		s.Equal("third", hs[2].ID)
	})
}

func (s *InMemoryStoreSuite) TestDeleteByActor() {
	s.Run("removes all handles of one actor and frees the identifiers", func() {
		for _, id := range []string{"mine1", "mine2"} {
			h := &models.Handle{ID: id, ActorID: "u1", Kind: models.KindRegular}
			s.Require().NoError(s.store.CreateIfFree(context.Background(), h))
		}
		other := &models.Handle{ID: "theirs", ActorID: "u2", Kind: models.KindRegular}
		s.Require().NoError(s.store.CreateIfFree(context.Background(), other))

		n, err := s.store.DeleteByActor(context.Background(), "u1")
		s.Require().NoError(err)
		s.Equal(2, n)

		_, err = s.store.FindByID(context.Background(), "mine1")
		s.Require().ErrorIs(err, sentinel.ErrNotFound)

		// Freed identifier is claimable again.
		recl := &models.Handle{ID: "mine1", ActorID: "u3", Kind: models.KindRegular}
		s.Require().NoError(s.store.CreateIfFree(context.Background(), recl))

		hs, err := s.store.ListByActor(context.Background(), "u2")
		s.Require().NoError(err)
		s.Require().Len(hs, 1)
	})

	s.Run("is a zero-count no-op for unknown actors", func() {
		n, err := s.store.DeleteByActor(context.Background(), "ghost")
		s.Require().NoError(err)
		s.Zero(n)
	})
}
