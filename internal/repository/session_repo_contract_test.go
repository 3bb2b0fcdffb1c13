package repository

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"genchat/internal/domain"
)

// runSessionRepositoryContract valida el comportamiento comun a todos los Session Store.
func runSessionRepositoryContract(t *testing.T, newRepo func(t *testing.T) SessionRepository) {
	t.Helper()
	ctx := context.Background()

	t.Run("create y get", func(t *testing.T) {
		repo := newRepo(t)
		id, err := repo.Create(ctx, "Hello", domain.NewTurn("Hello", "Hi there", domain.KindText))
		require.NoError(t, err)
		require.NotEmpty(t, id)

		session, err := repo.GetByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, id, session.ID)
		assert.Equal(t, "Hello", session.Title)
		assert.False(t, session.CreatedAt.IsZero())
		assert.Equal(t, []domain.Message{
			{Role: domain.RoleUser, Kind: domain.KindText, Content: "Hello"},
			{Role: domain.RoleBot, Kind: domain.KindText, Content: "Hi there"},
		}, session.Messages)
	})

	t.Run("append conserva orden", func(t *testing.T) {
		repo := newRepo(t)
		id, err := repo.Create(ctx, "t", domain.NewTurn("q1", "a1", domain.KindText))
		require.NoError(t, err)
		require.NoError(t, repo.AppendTurn(ctx, id, domain.NewTurn("q2", "https://img/2.png", domain.KindImage)))

		session, err := repo.GetByID(ctx, id)
		require.NoError(t, err)
		require.Len(t, session.Messages, 4)
		assert.Equal(t, domain.Message{Role: domain.RoleUser, Kind: domain.KindText, Content: "q2"}, session.Messages[2])
		assert.Equal(t, domain.Message{Role: domain.RoleBot, Kind: domain.KindImage, Content: "https://img/2.png"}, session.Messages[3])
	})

	t.Run("sesion desconocida", func(t *testing.T) {
		repo := newRepo(t)
		err := repo.AppendTurn(ctx, "missing", domain.NewTurn("q", "a", domain.KindText))
		assert.ErrorIs(t, err, ErrSessionNotFound)

		_, err = repo.GetByID(ctx, "missing")
		assert.ErrorIs(t, err, ErrSessionNotFound)

		list, err := repo.List(ctx)
		require.NoError(t, err)
		assert.Empty(t, list)
	})

	t.Run("turno invalido", func(t *testing.T) {
		repo := newRepo(t)
		_, err := repo.Create(ctx, "t", domain.NewTurn("q", "", domain.KindText))
		assert.ErrorIs(t, err, domain.ErrInvalidTurn)

		list, err := repo.List(ctx)
		require.NoError(t, err)
		assert.Empty(t, list)
	})

	t.Run("list de mas reciente a mas antigua", func(t *testing.T) {
		repo := newRepo(t)
		var ids []string
		for i := 0; i < 3; i++ {
			id, err := repo.Create(ctx, fmt.Sprintf("s%d", i), domain.NewTurn("q", "a", domain.KindText))
			require.NoError(t, err)
			ids = append(ids, id)
		}

		list, err := repo.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, []domain.SessionSummary{
			{ID: ids[2], Title: "s2"},
			{ID: ids[1], Title: "s1"},
			{ID: ids[0], Title: "s0"},
		}, list)
	})

	t.Run("delete idempotente", func(t *testing.T) {
		repo := newRepo(t)
		keep, err := repo.Create(ctx, "keep", domain.NewTurn("q", "a", domain.KindText))
		require.NoError(t, err)
		gone, err := repo.Create(ctx, "gone", domain.NewTurn("q", "a", domain.KindText))
		require.NoError(t, err)

		require.NoError(t, repo.Delete(ctx, gone))
		require.NoError(t, repo.Delete(ctx, gone))
		require.NoError(t, repo.Delete(ctx, "never-existed"))

		_, err = repo.GetByID(ctx, gone)
		assert.ErrorIs(t, err, ErrSessionNotFound)
		assert.ErrorIs(t, repo.AppendTurn(ctx, gone, domain.NewTurn("q", "a", domain.KindText)), ErrSessionNotFound)

		list, err := repo.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, []domain.SessionSummary{{ID: keep, Title: "keep"}}, list)
	})

	t.Run("appends concurrentes no se intercalan", func(t *testing.T) {
		repo := newRepo(t)
		id, err := repo.Create(ctx, "c", domain.NewTurn("q-init", "a-init", domain.KindText))
		require.NoError(t, err)

		const n = 40
		var wg sync.WaitGroup
		errs := make(chan error, n)
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				errs <- repo.AppendTurn(ctx, id, domain.NewTurn(fmt.Sprintf("q-%d", i), fmt.Sprintf("a-%d", i), domain.KindText))
			}(i)
		}
		wg.Wait()
		close(errs)
		for err := range errs {
			require.NoError(t, err)
		}

		session, err := repo.GetByID(ctx, id)
		require.NoError(t, err)
		require.Len(t, session.Messages, 2+2*n)

		seen := make(map[string]bool)
		for i := 0; i < len(session.Messages); i += 2 {
			user, bot := session.Messages[i], session.Messages[i+1]
			require.Equal(t, domain.RoleUser, user.Role)
			require.Equal(t, domain.RoleBot, bot.Role)
			suffix := strings.TrimPrefix(user.Content, "q-")
			require.Equal(t, "a-"+suffix, bot.Content, "turn %d interleaved", i/2)
			seen[suffix] = true
		}
		assert.Len(t, seen, n+1)
	})
}
