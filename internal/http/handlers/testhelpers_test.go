package handlers

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"vidgen/internal/domain"
	"vidgen/internal/infra"
	"vidgen/internal/provider/videogen"
	"vidgen/internal/storage"
)

type simpleRow struct {
	scan func(dest ...any) error
}

func (r simpleRow) Scan(dest ...any) error {
	if r.scan == nil {
		return pgx.ErrNoRows
	}
	return r.scan(dest...)
}

type rowsBase struct{}

func (rowsBase) CommandTag() pgconn.CommandTag               { return pgconn.CommandTag{} }
func (rowsBase) Conn() *pgx.Conn                             { return nil }
func (rowsBase) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (rowsBase) RawValues() [][]byte                         { return nil }
func (rowsBase) Values() ([]any, error) {
	return nil, fmt.Errorf("values not supported in test rows")
}

type videoRows struct {
	rowsBase
	videos []domain.Video
	idx    int
}

func (r *videoRows) Next() bool {
	if r.idx >= len(r.videos) {
		return false
	}
	r.idx++
	return true
}

func (r *videoRows) Scan(dest ...any) error {
	v := r.videos[r.idx-1]
	*dest[0].(*string) = v.ID
	*dest[1].(*string) = v.UserID
	*dest[2].(*string) = v.Prompt
	*dest[3].(*string) = v.ImageURL
	*dest[4].(*string) = v.VideoURL
	*dest[5].(*string) = string(v.Status)
	*dest[6].(*time.Time) = v.CreatedAt
	*dest[7].(*time.Time) = v.UpdatedAt
	return nil
}

func (r *videoRows) Close()    {}
func (r *videoRows) Err() error { return nil }

// fakeDB is an in-memory SQLExecutor that recognizes the inline queries the
// handlers issue, dispatching on SQL fragments. Just enough of a database to
// test against.
type fakeDB struct {
	mu     sync.Mutex
	users  map[string]*domain.User // keyed by clerk id
	videos map[string]*domain.Video
	order  []string
}

func newFakeDB() *fakeDB {
	return &fakeDB{
		users:  make(map[string]*domain.User),
		videos: make(map[string]*domain.Video),
	}
}

func (f *fakeDB) addUser(u domain.User) *domain.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	now := time.Now()
	u.CreatedAt, u.UpdatedAt = now, now
	f.users[u.ClerkID] = &u
	return &u
}

func (f *fakeDB) addVideo(v domain.Video) *domain.Video {
	f.mu.Lock()
	defer f.mu.Unlock()
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	now := time.Now()
	v.CreatedAt, v.UpdatedAt = now, now
	f.videos[v.ID] = &v
	f.order = append(f.order, v.ID)
	return &v
}

func (f *fakeDB) userByID(id string) *domain.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.ID == id {
			return u
		}
	}
	return nil
}

func (f *fakeDB) Exec(ctx context.Context, query string, args ...any) (pgconn.CommandTag, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	switch {
	case strings.Contains(query, "status     = 'COMPLETED'"):
		v := f.videos[args[0].(string)]
		if v == nil || (v.Status != domain.VideoStatusPending && v.Status != domain.VideoStatusProcessing) {
			return pgconn.NewCommandTag("UPDATE 0"), nil
		}
		v.Status = domain.VideoStatusCompleted
		v.VideoURL = args[1].(string)
		v.UpdatedAt = time.Now()
		return pgconn.NewCommandTag("UPDATE 1"), nil
	case strings.Contains(query, "status     = 'FAILED'"):
		v := f.videos[args[0].(string)]
		if v == nil || (v.Status != domain.VideoStatusPending && v.Status != domain.VideoStatusProcessing) {
			return pgconn.NewCommandTag("UPDATE 0"), nil
		}
		v.Status = domain.VideoStatusFailed
		v.UpdatedAt = time.Now()
		return pgconn.NewCommandTag("UPDATE 1"), nil
	case strings.Contains(query, "videos_used = videos_used + 1"):
		u := f.lockedUserByID(args[0].(string))
		if u == nil {
			return pgconn.NewCommandTag("UPDATE 0"), nil
		}
		u.VideosUsed++
		return pgconn.NewCommandTag("UPDATE 1"), nil
	case strings.Contains(query, "delete from videos"):
		id, owner := args[0].(string), args[1].(string)
		v := f.videos[id]
		if v == nil || v.UserID != owner {
			return pgconn.NewCommandTag("DELETE 0"), nil
		}
		delete(f.videos, id)
		for i, vid := range f.order {
			if vid == id {
				f.order = append(f.order[:i], f.order[i+1:]...)
				break
			}
		}
		return pgconn.NewCommandTag("DELETE 1"), nil
	}
	return pgconn.CommandTag{}, fmt.Errorf("unsupported exec: %s", query)
}

func (f *fakeDB) lockedUserByID(id string) *domain.User {
	for _, u := range f.users {
		if u.ID == id {
			return u
		}
	}
	return nil
}

func (f *fakeDB) QueryRow(ctx context.Context, query string, args ...any) pgx.Row {
	f.mu.Lock()
	defer f.mu.Unlock()
	switch {
	case strings.Contains(query, "select 1"):
		return simpleRow{scan: func(dest ...any) error {
			*dest[0].(*int) = 1
			return nil
		}}
	case strings.Contains(query, "insert into users"):
		clerkID := args[0].(string)
		u, ok := f.users[clerkID]
		if !ok {
			now := time.Now()
			u = &domain.User{
				ID:         uuid.NewString(),
				ClerkID:    clerkID,
				Email:      args[1].(string),
				FirstName:  args[2].(string),
				LastName:   args[3].(string),
				VideoLimit: args[4].(int),
				CreatedAt:  now,
				UpdatedAt:  now,
			}
			f.users[clerkID] = u
		}
		return userRow(u)
	case strings.Contains(query, "from users"):
		u, ok := f.users[args[0].(string)]
		if !ok {
			return simpleRow{}
		}
		return userRow(u)
	case strings.Contains(query, "insert into videos"):
		now := time.Now()
		v := &domain.Video{
			ID:        uuid.NewString(),
			UserID:    args[0].(string),
			Prompt:    args[1].(string),
			ImageURL:  args[2].(string),
			Status:    domain.VideoStatus(args[3].(string)),
			CreatedAt: now,
			UpdatedAt: now,
		}
		f.videos[v.ID] = v
		f.order = append(f.order, v.ID)
		return simpleRow{scan: func(dest ...any) error {
			*dest[0].(*string) = v.ID
			*dest[1].(*time.Time) = v.CreatedAt
			return nil
		}}
	}
	return simpleRow{scan: func(dest ...any) error {
		return fmt.Errorf("unsupported query_row: %s", query)
	}}
}

func userRow(u *domain.User) pgx.Row {
	snapshot := *u
	return simpleRow{scan: func(dest ...any) error {
		*dest[0].(*string) = snapshot.ID
		*dest[1].(*string) = snapshot.ClerkID
		*dest[2].(*string) = snapshot.Email
		*dest[3].(*string) = snapshot.FirstName
		*dest[4].(*string) = snapshot.LastName
		*dest[5].(*int) = snapshot.VideoLimit
		*dest[6].(*int) = snapshot.VideosUsed
		*dest[7].(*time.Time) = snapshot.CreatedAt
		*dest[8].(*time.Time) = snapshot.UpdatedAt
		return nil
	}}
}

func (f *fakeDB) Query(ctx context.Context, query string, args ...any) (pgx.Rows, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !strings.Contains(query, "from videos") {
		return nil, fmt.Errorf("unsupported query: %s", query)
	}
	owner := args[0].(string)
	var videos []domain.Video
	for i := len(f.order) - 1; i >= 0 && len(videos) < 50; i-- {
		v := f.videos[f.order[i]]
		if v != nil && v.UserID == owner {
			videos = append(videos, *v)
		}
	}
	return &videoRows{videos: videos}, nil
}

var _ infra.SQLExecutor = (*fakeDB)(nil)

// ctxCheckedDB refuses work once the caller's context is done, the way a
// real connection pool would.
type ctxCheckedDB struct {
	*fakeDB
}

func (c ctxCheckedDB) Exec(ctx context.Context, query string, args ...any) (pgconn.CommandTag, error) {
	if err := ctx.Err(); err != nil {
		return pgconn.CommandTag{}, err
	}
	return c.fakeDB.Exec(ctx, query, args...)
}

func (c ctxCheckedDB) QueryRow(ctx context.Context, query string, args ...any) pgx.Row {
	if err := ctx.Err(); err != nil {
		return simpleRow{scan: func(dest ...any) error { return err }}
	}
	return c.fakeDB.QueryRow(ctx, query, args...)
}

func (c ctxCheckedDB) Query(ctx context.Context, query string, args ...any) (pgx.Rows, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return c.fakeDB.Query(ctx, query, args...)
}

type stubGenerator struct {
	url string
	err error
}

func (s stubGenerator) Generate(ctx context.Context, req videogen.GenerateRequest) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return s.url, nil
}

func newTestApp(t *testing.T, db infra.SQLExecutor, gen VideoGenerator) *App {
	t.Helper()
	store, err := storage.NewFileStore(t.TempDir(), "/uploads")
	require.NoError(t, err)
	logger := zerolog.New(io.Discard)
	return NewApp(db, logger, store, gen, domain.DefaultVideoLimit)
}
