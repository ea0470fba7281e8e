package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mytube/video-gallery-api/internal/db"
	"github.com/mytube/video-gallery-api/internal/db/models"
	"github.com/mytube/video-gallery-api/internal/db/repository"
	"github.com/mytube/video-gallery-api/pkg/logger"
)

var _ = logger.Init("error", "")

// Map-backed fakes for the repository interfaces. They reproduce the
// not-found and duplicate-key behavior of the real implementations so the
// services can be exercised without a database.

type fakeVideoRepo struct {
	videos map[int64]*models.Video
	nextID int64
}

func newFakeVideoRepo() *fakeVideoRepo {
	return &fakeVideoRepo{videos: make(map[int64]*models.Video)}
}

func (f *fakeVideoRepo) add(v *models.Video) *models.Video {
	f.nextID++
	v.ID = f.nextID
	if v.CreatedAt.IsZero() {
		v.CreatedAt = time.Now()
	}
	f.videos[v.ID] = v
	return v
}

func (f *fakeVideoRepo) Create(ctx context.Context, video *models.Video) error {
	f.add(video)
	return nil
}

func (f *fakeVideoRepo) Update(ctx context.Context, video *models.Video) error {
	if _, ok := f.videos[video.ID]; !ok {
		return db.ErrNotFound
	}
	f.videos[video.ID] = video
	return nil
}

func (f *fakeVideoRepo) Delete(ctx context.Context, videoID int64) error {
	if _, ok := f.videos[videoID]; !ok {
		return db.ErrNotFound
	}
	delete(f.videos, videoID)
	return nil
}

func (f *fakeVideoRepo) GetByID(ctx context.Context, videoID int64) (*models.Video, error) {
	v, ok := f.videos[videoID]
	if !ok {
		return nil, db.ErrNotFound
	}
	copied := *v
	return &copied, nil
}

func (f *fakeVideoRepo) List(ctx context.Context, filters repository.VideoFilters) ([]*models.Video, error) {
	var results []*models.Video
	for _, v := range f.videos {
		if filters.Query != "" {
			q := strings.ToLower(filters.Query)
			if !strings.Contains(strings.ToLower(v.Title), q) &&
				!strings.Contains(strings.ToLower(v.Description), q) &&
				!strings.Contains(strings.ToLower(v.Category), q) {
				continue
			}
		}
		if filters.Category != "" && strings.TrimSpace(v.Category) != filters.Category {
			continue
		}
		results = append(results, v)
	}
	sort.Slice(results, func(i, j int) bool {
		switch filters.Sort {
		case repository.SortMostViews:
			return results[i].Views > results[j].Views
		case repository.SortMostLikes:
			return results[i].Likes > results[j].Likes
		default:
			return results[i].CreatedAt.After(results[j].CreatedAt)
		}
	})
	return results, nil
}

func (f *fakeVideoRepo) Categories(ctx context.Context) ([]string, error) {
	seen := make(map[string]bool)
	var categories []string
	for _, v := range f.videos {
		c := strings.TrimSpace(v.Category)
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		categories = append(categories, c)
	}
	sort.Strings(categories)
	return categories, nil
}

func (f *fakeVideoRepo) Recommended(ctx context.Context, excludeID int64, provider models.Provider, limit int) ([]*models.Video, error) {
	var results []*models.Video
	for _, v := range f.videos {
		if v.ID == excludeID {
			continue
		}
		results = append(results, v)
	}
	sort.Slice(results, func(i, j int) bool {
		si, sj := results[i].Provider == provider, results[j].Provider == provider
		if si != sj {
			return si
		}
		return results[i].CreatedAt.After(results[j].CreatedAt)
	})
	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

func (f *fakeVideoRepo) IncrementViews(ctx context.Context, videoID int64) error {
	v, ok := f.videos[videoID]
	if !ok {
		return db.ErrNotFound
	}
	v.Views++
	return nil
}

type fakeCommentRepo struct {
	comments []*models.Comment
	nextID   int64
}

func newFakeCommentRepo() *fakeCommentRepo {
	return &fakeCommentRepo{}
}

func (f *fakeCommentRepo) Create(ctx context.Context, comment *models.Comment) error {
	f.nextID++
	comment.ID = f.nextID
	comment.CreatedAt = time.Now()
	f.comments = append(f.comments, comment)
	return nil
}

func (f *fakeCommentRepo) ListByVideo(ctx context.Context, videoID int64) ([]*models.Comment, error) {
	var results []*models.Comment
	for i := len(f.comments) - 1; i >= 0; i-- {
		if f.comments[i].VideoID == videoID {
			results = append(results, f.comments[i])
		}
	}
	return results, nil
}

type watchKey struct {
	userID  int64
	videoID int64
}

type fakeEngagementRepo struct {
	watches map[watchKey]*models.WatchHistory
	likes   map[watchKey]bool
	videos  *fakeVideoRepo
}

func newFakeEngagementRepo(videos *fakeVideoRepo) *fakeEngagementRepo {
	return &fakeEngagementRepo{
		watches: make(map[watchKey]*models.WatchHistory),
		likes:   make(map[watchKey]bool),
		videos:  videos,
	}
}

func (f *fakeEngagementRepo) UpsertWatch(ctx context.Context, userID, videoID int64) error {
	key := watchKey{userID, videoID}
	if w, ok := f.watches[key]; ok {
		w.WatchCount++
		w.LastWatchedAt = time.Now()
		return nil
	}
	f.watches[key] = &models.WatchHistory{
		UserID:        userID,
		VideoID:       videoID,
		LastWatchedAt: time.Now(),
		WatchCount:    1,
	}
	return nil
}

func (f *fakeEngagementRepo) Like(ctx context.Context, userID, videoID int64) (int64, error) {
	v, ok := f.videos.videos[videoID]
	if !ok {
		return 0, db.ErrNotFound
	}
	key := watchKey{userID, videoID}
	if !f.likes[key] {
		f.likes[key] = true
		v.Likes++
	}
	return v.Likes, nil
}

func (f *fakeEngagementRepo) HasLiked(ctx context.Context, userID, videoID int64) (bool, error) {
	return f.likes[watchKey{userID, videoID}], nil
}

func (f *fakeEngagementRepo) History(ctx context.Context, userID int64) ([]*models.HistoryEntry, error) {
	var entries []*models.HistoryEntry
	for key, w := range f.watches {
		if key.userID != userID {
			continue
		}
		v, ok := f.videos.videos[key.videoID]
		if !ok {
			continue
		}
		entries = append(entries, &models.HistoryEntry{
			Video:         *v,
			LastWatchedAt: w.LastWatchedAt,
			WatchCount:    w.WatchCount,
		})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].LastWatchedAt.After(entries[j].LastWatchedAt)
	})
	return entries, nil
}

func (f *fakeEngagementRepo) GetWatch(ctx context.Context, userID, videoID int64) (*models.WatchHistory, error) {
	w, ok := f.watches[watchKey{userID, videoID}]
	if !ok {
		return nil, db.ErrNotFound
	}
	return w, nil
}

type playlistItem struct {
	playlistID int64
	videoID    int64
	position   int
}

type fakePlaylistRepo struct {
	playlists map[int64]*models.Playlist
	items     []playlistItem
	nextID    int64
}

func newFakePlaylistRepo() *fakePlaylistRepo {
	return &fakePlaylistRepo{playlists: make(map[int64]*models.Playlist)}
}

func (f *fakePlaylistRepo) Create(ctx context.Context, playlist *models.Playlist) error {
	f.nextID++
	playlist.ID = f.nextID
	playlist.CreatedAt = time.Now()
	f.playlists[playlist.ID] = playlist
	return nil
}

func (f *fakePlaylistRepo) GetByID(ctx context.Context, playlistID int64) (*models.Playlist, error) {
	p, ok := f.playlists[playlistID]
	if !ok {
		return nil, db.ErrNotFound
	}
	return p, nil
}

func (f *fakePlaylistRepo) List(ctx context.Context) ([]*models.Playlist, error) {
	var results []*models.Playlist
	for _, p := range f.playlists {
		results = append(results, p)
	}
	sort.Slice(results, func(i, j int) bool { return results[i].ID > results[j].ID })
	return results, nil
}

func (f *fakePlaylistRepo) MembershipForVideo(ctx context.Context, videoID int64) (*models.Playlist, error) {
	for _, item := range f.items {
		if item.videoID == videoID {
			return f.playlists[item.playlistID], nil
		}
	}
	return nil, db.ErrNotFound
}

func (f *fakePlaylistRepo) Items(ctx context.Context, playlistID int64) ([]*models.PlaylistVideo, error) {
	var results []*models.PlaylistVideo
	for _, item := range f.items {
		if item.playlistID == playlistID {
			results = append(results, &models.PlaylistVideo{
				Video:    models.Video{ID: item.videoID},
				Position: item.position,
			})
		}
	}
	sort.Slice(results, func(i, j int) bool { return results[i].Position < results[j].Position })
	return results, nil
}

func (f *fakePlaylistRepo) NextVideoID(ctx context.Context, playlistID, currentVideoID int64) (int64, error) {
	currentPos := -1
	for _, item := range f.items {
		if item.playlistID == playlistID && item.videoID == currentVideoID {
			currentPos = item.position
		}
	}
	if currentPos < 0 {
		return 0, nil
	}
	var nextID int64
	nextPos := int(^uint(0) >> 1)
	for _, item := range f.items {
		if item.playlistID == playlistID && item.position > currentPos && item.position < nextPos {
			nextPos = item.position
			nextID = item.videoID
		}
	}
	return nextID, nil
}

func (f *fakePlaylistRepo) RemoveItem(ctx context.Context, playlistID, videoID int64) error {
	for i, item := range f.items {
		if item.playlistID == playlistID && item.videoID == videoID {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return nil
		}
	}
	return nil
}

func (f *fakePlaylistRepo) UpsertItem(ctx context.Context, playlistID, videoID int64, position int) error {
	for i, item := range f.items {
		if item.playlistID == playlistID && item.videoID == videoID {
			f.items[i].position = position
			return nil
		}
	}
	f.items = append(f.items, playlistItem{playlistID, videoID, position})
	return nil
}

type fakeUserRepo struct {
	users  map[int64]*models.User
	nextID int64
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[int64]*models.User)}
}

func (f *fakeUserRepo) Create(ctx context.Context, user *models.User) error {
	for _, u := range f.users {
		if u.Username == user.Username {
			return db.ErrDuplicateKey
		}
	}
	f.nextID++
	user.ID = f.nextID
	user.CreatedAt = time.Now()
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, userID int64) (*models.User, error) {
	u, ok := f.users[userID]
	if !ok {
		return nil, db.ErrNotFound
	}
	copied := *u
	return &copied, nil
}

func (f *fakeUserRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	for _, u := range f.users {
		if u.Username == username {
			copied := *u
			return &copied, nil
		}
	}
	return nil, db.ErrNotFound
}

func (f *fakeUserRepo) List(ctx context.Context) ([]*models.User, error) {
	var results []*models.User
	for _, u := range f.users {
		results = append(results, u)
	}
	sort.Slice(results, func(i, j int) bool { return results[i].ID > results[j].ID })
	return results, nil
}

func (f *fakeUserRepo) UpdateUsername(ctx context.Context, userID int64, username string) error {
	for _, u := range f.users {
		if u.Username == username && u.ID != userID {
			return db.ErrDuplicateKey
		}
	}
	u, ok := f.users[userID]
	if !ok {
		return db.ErrNotFound
	}
	u.Username = username
	return nil
}

func (f *fakeUserRepo) SetAdmin(ctx context.Context, userID int64, isAdmin bool) error {
	u, ok := f.users[userID]
	if !ok {
		return db.ErrNotFound
	}
	u.IsAdmin = isAdmin
	return nil
}

func (f *fakeUserRepo) UpdatePassword(ctx context.Context, userID int64, passwordHash string) error {
	u, ok := f.users[userID]
	if !ok {
		return db.ErrNotFound
	}
	u.PasswordHash = passwordHash
	return nil
}

type fakeSessionRepo struct {
	sessions map[uuid.UUID]*models.Session
	users    *fakeUserRepo
}

func newFakeSessionRepo(users *fakeUserRepo) *fakeSessionRepo {
	return &fakeSessionRepo{sessions: make(map[uuid.UUID]*models.Session), users: users}
}

func (f *fakeSessionRepo) Create(ctx context.Context, session *models.Session) error {
	f.sessions[session.Token] = session
	return nil
}

func (f *fakeSessionRepo) GetUser(ctx context.Context, token uuid.UUID) (*models.User, error) {
	s, ok := f.sessions[token]
	if !ok {
		return nil, db.ErrNotFound
	}
	return f.users.GetByID(ctx, s.UserID)
}

func (f *fakeSessionRepo) Delete(ctx context.Context, token uuid.UUID) error {
	delete(f.sessions, token)
	return nil
}

// recordingPublisher captures published events for assertions.
type recordingPublisher struct {
	events []*EngagementEvent
	err    error
}

func (p *recordingPublisher) PublishEngagement(ctx context.Context, event *EngagementEvent) error {
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }
