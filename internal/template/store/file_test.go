package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/Malmz/TalesFromTheSprawl/internal/template/models"
	"github.com/Malmz/TalesFromTheSprawl/pkg/platform/sentinel"
)

type FileStoreSuite struct {
	suite.Suite
	path  string
	store *FileStore
}

func (s *FileStoreSuite) SetupTest() {
	s.path = filepath.Join(s.T().TempDir(), "known_handles.yaml")
	s.store = NewFileStore(s.path)
}

func TestFileStoreSuite(t *testing.T) {
	suite.Run(t, new(FileStoreSuite))
}

func (s *FileStoreSuite) TestGet() {
	s.Run("missing file means no templates", func() {
		tmpl, err := s.store.Get(context.Background(), "anyone")
		s.Require().NoError(err)
		s.Nil(tmpl)
	})

	s.Run("reads a hand-authored template", func() {
		doc := `shadow_weaver:
  starting_balance: 10
  handles:
    - id: alt_one
      balance: 5
  burners:
    - id: burner_one
  npc_handles:
    - id: npc_one
      balance: 3
  groups:
    - syndicate
`
		s.Require().NoError(os.WriteFile(s.path, []byte(doc), 0o600))

		tmpl, err := s.store.Get(context.Background(), "Shadow_Weaver")
		s.Require().NoError(err)
		s.Require().NotNil(tmpl)
		s.Equal(10, tmpl.StartingBalance)
		s.Require().Len(tmpl.Handles, 1)
		s.Equal("alt_one", tmpl.Handles[0].ID)
		s.Equal(5, tmpl.Handles[0].Balance)
		s.Require().Len(tmpl.NPCHandles, 1)
		s.Equal(3, tmpl.NPCHandles[0].Balance)
		s.Equal([]string{"syndicate"}, tmpl.Groups)
	})

	s.Run("edits take effect without restart", func() {
		doc := `late_arrival:
  starting_balance: 7
`
		s.Require().NoError(os.WriteFile(s.path, []byte(doc), 0o600))

		tmpl, err := s.store.Get(context.Background(), "late_arrival")
		s.Require().NoError(err)
		s.Require().NotNil(tmpl)
		s.Equal(7, tmpl.StartingBalance)
	})
}

func (s *FileStoreSuite) TestAdd() {
	s.Run("creates the file with a scaffold entry", func() {
		s.Require().NoError(s.store.Add(context.Background(), "NewComer"))

		tmpl, err := s.store.Get(context.Background(), "newcomer")
		s.Require().NoError(err)
		s.Require().NotNil(tmpl)
		s.Equal(10, tmpl.StartingBalance)
		s.Require().NotEmpty(tmpl.Handles)
		s.True(models.IsPlaceholder(tmpl.Handles[0].ID))
	})

	s.Run("refuses to overwrite an existing template", func() {
		err := s.store.Add(context.Background(), "newcomer")
		s.Require().ErrorIs(err, sentinel.ErrAlreadyUsed)
	})

	s.Run("keeps other entries intact", func() {
		s.Require().NoError(s.store.Add(context.Background(), "second"))

		first, err := s.store.Get(context.Background(), "newcomer")
		s.Require().NoError(err)
		s.NotNil(first)
		second, err := s.store.Get(context.Background(), "second")
		s.Require().NoError(err)
		s.NotNil(second)
	})
}
