package handler

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

// In-memory repository fakes backing the handler tests. They mirror the
// not-found and duplicate-key behavior of the real implementations.

type memVideoRepo struct {
	videos map[int64]*models.Video
	nextID int64
}

func newMemVideoRepo() *memVideoRepo {
	return &memVideoRepo{videos: make(map[int64]*models.Video)}
}

func (m *memVideoRepo) add(v *models.Video) *models.Video {
	m.nextID++
	v.ID = m.nextID
	if v.CreatedAt.IsZero() {
		v.CreatedAt = time.Now()
	}
	m.videos[v.ID] = v
	return v
}

func (m *memVideoRepo) Create(ctx context.Context, video *models.Video) error {
	m.add(video)
	return nil
}

func (m *memVideoRepo) Update(ctx context.Context, video *models.Video) error {
	if _, ok := m.videos[video.ID]; !ok {
		return db.ErrNotFound
	}
	m.videos[video.ID] = video
	return nil
}

func (m *memVideoRepo) Delete(ctx context.Context, videoID int64) error {
	if _, ok := m.videos[videoID]; !ok {
		return db.ErrNotFound
	}
	delete(m.videos, videoID)
	return nil
}

func (m *memVideoRepo) GetByID(ctx context.Context, videoID int64) (*models.Video, error) {
	v, ok := m.videos[videoID]
	if !ok {
		return nil, db.ErrNotFound
	}
	copied := *v
	return &copied, nil
}

func (m *memVideoRepo) List(ctx context.Context, filters repository.VideoFilters) ([]*models.Video, error) {
	var results []*models.Video
	for _, v := range m.videos {
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
	sort.Slice(results, func(i, j int) bool { return results[i].ID < results[j].ID })
	return results, nil
}

func (m *memVideoRepo) Categories(ctx context.Context) ([]string, error) {
	seen := make(map[string]bool)
	var categories []string
	for _, v := range m.videos {
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

func (m *memVideoRepo) Recommended(ctx context.Context, excludeID int64, provider models.Provider, limit int) ([]*models.Video, error) {
	var results []*models.Video
	for _, v := range m.videos {
		if v.ID != excludeID {
			results = append(results, v)
		}
	}
	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

func (m *memVideoRepo) IncrementViews(ctx context.Context, videoID int64) error {
	v, ok := m.videos[videoID]
	if !ok {
		return db.ErrNotFound
	}
	v.Views++
	return nil
}

type memCommentRepo struct {
	comments []*models.Comment
	nextID   int64
}

func (m *memCommentRepo) Create(ctx context.Context, comment *models.Comment) error {
	m.nextID++
	comment.ID = m.nextID
	comment.CreatedAt = time.Now()
	m.comments = append(m.comments, comment)
	return nil
}

func (m *memCommentRepo) ListByVideo(ctx context.Context, videoID int64) ([]*models.Comment, error) {
	var results []*models.Comment
	for i := len(m.comments) - 1; i >= 0; i-- {
		if m.comments[i].VideoID == videoID {
			results = append(results, m.comments[i])
		}
	}
	return results, nil
}

type pairKey struct {
	userID  int64
	videoID int64
}

type memEngagementRepo struct {
	watches map[pairKey]*models.WatchHistory
	likes   map[pairKey]bool
	videos  *memVideoRepo
}

func newMemEngagementRepo(videos *memVideoRepo) *memEngagementRepo {
	return &memEngagementRepo{
		watches: make(map[pairKey]*models.WatchHistory),
		likes:   make(map[pairKey]bool),
		videos:  videos,
	}
}

func (m *memEngagementRepo) UpsertWatch(ctx context.Context, userID, videoID int64) error {
	key := pairKey{userID, videoID}
	if w, ok := m.watches[key]; ok {
		w.WatchCount++
		w.LastWatchedAt = time.Now()
		return nil
	}
	m.watches[key] = &models.WatchHistory{
		UserID:        userID,
		VideoID:       videoID,
		LastWatchedAt: time.Now(),
		WatchCount:    1,
	}
	return nil
}

func (m *memEngagementRepo) Like(ctx context.Context, userID, videoID int64) (int64, error) {
	v, ok := m.videos.videos[videoID]
	if !ok {
		return 0, db.ErrNotFound
	}
	key := pairKey{userID, videoID}
	if !m.likes[key] {
		m.likes[key] = true
		v.Likes++
	}
	return v.Likes, nil
}

func (m *memEngagementRepo) HasLiked(ctx context.Context, userID, videoID int64) (bool, error) {
	return m.likes[pairKey{userID, videoID}], nil
}

func (m *memEngagementRepo) History(ctx context.Context, userID int64) ([]*models.HistoryEntry, error) {
	var entries []*models.HistoryEntry
	for key, w := range m.watches {
		if key.userID != userID {
			continue
		}
		v, ok := m.videos.videos[key.videoID]
		if !ok {
			continue
		}
		entries = append(entries, &models.HistoryEntry{
			Video:         *v,
			LastWatchedAt: w.LastWatchedAt,
			WatchCount:    w.WatchCount,
		})
	}
	return entries, nil
}

func (m *memEngagementRepo) GetWatch(ctx context.Context, userID, videoID int64) (*models.WatchHistory, error) {
	w, ok := m.watches[pairKey{userID, videoID}]
	if !ok {
		return nil, db.ErrNotFound
	}
	return w, nil
}

type memPlaylistItem struct {
	playlistID int64
	videoID    int64
	position   int
}

type memPlaylistRepo struct {
	playlists map[int64]*models.Playlist
	items     []memPlaylistItem
	nextID    int64
}

func newMemPlaylistRepo() *memPlaylistRepo {
	return &memPlaylistRepo{playlists: make(map[int64]*models.Playlist)}
}

func (m *memPlaylistRepo) Create(ctx context.Context, playlist *models.Playlist) error {
	m.nextID++
	playlist.ID = m.nextID
	playlist.CreatedAt = time.Now()
	m.playlists[playlist.ID] = playlist
	return nil
}

func (m *memPlaylistRepo) GetByID(ctx context.Context, playlistID int64) (*models.Playlist, error) {
	p, ok := m.playlists[playlistID]
	if !ok {
		return nil, db.ErrNotFound
	}
	return p, nil
}

func (m *memPlaylistRepo) List(ctx context.Context) ([]*models.Playlist, error) {
	var results []*models.Playlist
	for _, p := range m.playlists {
		results = append(results, p)
	}
	sort.Slice(results, func(i, j int) bool { return results[i].ID > results[j].ID })
	return results, nil
}

func (m *memPlaylistRepo) MembershipForVideo(ctx context.Context, videoID int64) (*models.Playlist, error) {
	for _, item := range m.items {
		if item.videoID == videoID {
			return m.playlists[item.playlistID], nil
		}
	}
	return nil, db.ErrNotFound
}

func (m *memPlaylistRepo) Items(ctx context.Context, playlistID int64) ([]*models.PlaylistVideo, error) {
	var results []*models.PlaylistVideo
	for _, item := range m.items {
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

func (m *memPlaylistRepo) NextVideoID(ctx context.Context, playlistID, currentVideoID int64) (int64, error) {
	currentPos := -1
	for _, item := range m.items {
		if item.playlistID == playlistID && item.videoID == currentVideoID {
			currentPos = item.position
		}
	}
	if currentPos < 0 {
		return 0, nil
	}
	var nextID int64
	nextPos := int(^uint(0) >> 1)
	for _, item := range m.items {
		if item.playlistID == playlistID && item.position > currentPos && item.position < nextPos {
			nextPos = item.position
			nextID = item.videoID
		}
	}
	return nextID, nil
}

func (m *memPlaylistRepo) RemoveItem(ctx context.Context, playlistID, videoID int64) error {
	for i, item := range m.items {
		if item.playlistID == playlistID && item.videoID == videoID {
			m.items = append(m.items[:i], m.items[i+1:]...)
			return nil
		}
	}
	return nil
}

func (m *memPlaylistRepo) UpsertItem(ctx context.Context, playlistID, videoID int64, position int) error {
	for i, item := range m.items {
		if item.playlistID == playlistID && item.videoID == videoID {
			m.items[i].position = position
			return nil
		}
	}
	m.items = append(m.items, memPlaylistItem{playlistID, videoID, position})
	return nil
}

type memUserRepo struct {
	users  map[int64]*models.User
	nextID int64
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[int64]*models.User)}
}

func (m *memUserRepo) Create(ctx context.Context, user *models.User) error {
	for _, u := range m.users {
		if u.Username == user.Username {
			return db.ErrDuplicateKey
		}
	}
	m.nextID++
	user.ID = m.nextID
	user.CreatedAt = time.Now()
	m.users[user.ID] = user
	return nil
}

func (m *memUserRepo) GetByID(ctx context.Context, userID int64) (*models.User, error) {
	u, ok := m.users[userID]
	if !ok {
		return nil, db.ErrNotFound
	}
	copied := *u
	return &copied, nil
}

func (m *memUserRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	for _, u := range m.users {
		if u.Username == username {
			copied := *u
			return &copied, nil
		}
	}
	return nil, db.ErrNotFound
}

func (m *memUserRepo) List(ctx context.Context) ([]*models.User, error) {
	var results []*models.User
	for _, u := range m.users {
		results = append(results, u)
	}
	sort.Slice(results, func(i, j int) bool { return results[i].ID > results[j].ID })
	return results, nil
}

func (m *memUserRepo) UpdateUsername(ctx context.Context, userID int64, username string) error {
	for _, u := range m.users {
		if u.Username == username && u.ID != userID {
			return db.ErrDuplicateKey
		}
	}
	u, ok := m.users[userID]
	if !ok {
		return db.ErrNotFound
	}
	u.Username = username
	return nil
}

func (m *memUserRepo) SetAdmin(ctx context.Context, userID int64, isAdmin bool) error {
	u, ok := m.users[userID]
	if !ok {
		return db.ErrNotFound
	}
	u.IsAdmin = isAdmin
	return nil
}

func (m *memUserRepo) UpdatePassword(ctx context.Context, userID int64, passwordHash string) error {
	u, ok := m.users[userID]
	if !ok {
		return db.ErrNotFound
	}
	u.PasswordHash = passwordHash
	return nil
}

type memSessionRepo struct {
	sessions map[uuid.UUID]*models.Session
	users    *memUserRepo
}

func newMemSessionRepo(users *memUserRepo) *memSessionRepo {
	return &memSessionRepo{sessions: make(map[uuid.UUID]*models.Session), users: users}
}

func (m *memSessionRepo) Create(ctx context.Context, session *models.Session) error {
	m.sessions[session.Token] = session
	return nil
}

func (m *memSessionRepo) GetUser(ctx context.Context, token uuid.UUID) (*models.User, error) {
	s, ok := m.sessions[token]
	if !ok {
		return nil, db.ErrNotFound
	}
	return m.users.GetByID(ctx, s.UserID)
}

func (m *memSessionRepo) Delete(ctx context.Context, token uuid.UUID) error {
	delete(m.sessions, token)
	return nil
}
