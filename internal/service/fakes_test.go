package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"

	"ai-portal-go/internal/model"
	"ai-portal-go/internal/repository"
	"ai-portal-go/pkg/events"
)

type fakeUserRepo struct {
	users  map[uint]*model.User
	nextID uint
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[uint]*model.User{}}
}

func (r *fakeUserRepo) Create(user *model.User) error {
	r.nextID++
	user.ID = r.nextID
	user.CreatedAt = time.Now()
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *fakeUserRepo) find(match func(*model.User) bool) (*model.User, error) {
	for _, u := range r.users {
		if match(u) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) FindByUsername(username string) (*model.User, error) {
	return r.find(func(u *model.User) bool { return u.Username == username })
}

func (r *fakeUserRepo) FindByEmail(email string) (*model.User, error) {
	return r.find(func(u *model.User) bool { return u.Email == email })
}

func (r *fakeUserRepo) FindByID(userID uint) (*model.User, error) {
	return r.find(func(u *model.User) bool { return u.ID == userID })
}

func (r *fakeUserRepo) Update(user *model.User) error {
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *fakeUserRepo) TouchLastLogin(userID uint, at time.Time) error {
	if u, ok := r.users[userID]; ok {
		u.LastLogin = &at
	}
	return nil
}

func (r *fakeUserRepo) CountActive() (int64, error) {
	var n int64
	for _, u := range r.users {
		if u.IsActive {
			n++
		}
	}
	return n, nil
}

type fakeTokenRepo struct {
	blacklist map[string]time.Duration
}

func newFakeTokenRepo() *fakeTokenRepo {
	return &fakeTokenRepo{blacklist: map[string]time.Duration{}}
}

func (r *fakeTokenRepo) Blacklist(_ context.Context, token string, ttl time.Duration) error {
	r.blacklist[token] = ttl
	return nil
}

func (r *fakeTokenRepo) IsBlacklisted(_ context.Context, token string) (bool, error) {
	_, ok := r.blacklist[token]
	return ok, nil
}

type fakeActivityRepo struct {
	activities []model.UserActivity
	err        error
}

func (r *fakeActivityRepo) Create(activity *model.UserActivity) error {
	if r.err != nil {
		return r.err
	}
	activity.ID = uint(len(r.activities) + 1)
	r.activities = append(r.activities, *activity)
	return nil
}

func (r *fakeActivityRepo) Since(since time.Time) ([]model.UserActivity, error) {
	var out []model.UserActivity
	for _, a := range r.activities {
		if !a.CreatedAt.Before(since) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *fakeActivityRepo) Recent(limit int) ([]model.UserActivity, error) {
	out := append([]model.UserActivity(nil), r.activities...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeActivityRepo) ByUserSince(userID uint, since time.Time) ([]model.UserActivity, error) {
	var out []model.UserActivity
	for _, a := range r.activities {
		if a.UserID == userID && !a.CreatedAt.Before(since) {
			out = append(out, a)
		}
	}
	return out, nil
}

type fakePublisher struct {
	published []events.ActivityEvent
	err       error
}

func (p *fakePublisher) Publish(_ context.Context, evt events.ActivityEvent) error {
	if p.err != nil {
		return p.err
	}
	p.published = append(p.published, evt)
	return nil
}

type fakeFileRepo struct {
	files  map[uint]*model.File
	nextID uint
	err    error
}

func newFakeFileRepo() *fakeFileRepo {
	return &fakeFileRepo{files: map[uint]*model.File{}}
}

func (r *fakeFileRepo) Create(file *model.File) error {
	if r.err != nil {
		return r.err
	}
	r.nextID++
	file.ID = r.nextID
	cp := *file
	r.files[file.ID] = &cp
	return nil
}

func (r *fakeFileRepo) FindByID(id uint) (*model.File, error) {
	f, ok := r.files[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *f
	return &cp, nil
}

func (r *fakeFileRepo) sorted(match func(*model.File) bool) []model.File {
	var out []model.File
	for _, f := range r.files {
		if match(f) {
			out = append(out, *f)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *fakeFileRepo) FindByUser(userID uint, offset, limit int) ([]model.File, int64, error) {
	all := r.sorted(func(f *model.File) bool { return f.UserID == userID })
	total := int64(len(all))
	if offset > len(all) {
		offset = len(all)
	}
	all = all[offset:]
	if len(all) > limit {
		all = all[:limit]
	}
	return all, total, nil
}

func (r *fakeFileRepo) Update(file *model.File) error {
	cp := *file
	r.files[file.ID] = &cp
	return nil
}

func (r *fakeFileRepo) Delete(id uint) error {
	delete(r.files, id)
	return nil
}

func (r *fakeFileRepo) IncrementDownloadCount(id uint) error {
	if f, ok := r.files[id]; ok {
		f.DownloadCount++
	}
	return nil
}

func (r *fakeFileRepo) SearchByUser(userID uint, q string, limit int) ([]model.File, error) {
	out := r.sorted(func(f *model.File) bool {
		return f.UserID == userID && strings.Contains(strings.ToLower(f.OriginalName), strings.ToLower(q))
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeFileRepo) NamesWithPrefix(userID uint, prefix string, limit int) ([]string, error) {
	var names []string
	for _, f := range r.sorted(func(f *model.File) bool { return f.UserID == userID }) {
		if strings.HasPrefix(f.OriginalName, prefix) && len(names) < limit {
			names = append(names, f.OriginalName)
		}
	}
	return names, nil
}

type fakeStore struct {
	objects map[string][]byte
	putErr  error
}

func newFakeStore() *fakeStore {
	return &fakeStore{objects: map[string][]byte{}}
}

func (s *fakeStore) Put(_ context.Context, objectName string, reader io.Reader, _ int64, _ string) error {
	if s.putErr != nil {
		return s.putErr
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}
	s.objects[objectName] = data
	return nil
}

func (s *fakeStore) Get(_ context.Context, objectName string) (io.ReadCloser, error) {
	data, ok := s.objects[objectName]
	if !ok {
		return nil, errors.New("object not found")
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (s *fakeStore) Remove(_ context.Context, objectName string) error {
	delete(s.objects, objectName)
	return nil
}

type fakeToolRepo struct {
	tools       []model.Tool
	usages      []model.ToolUsage
	rows        []model.ToolUsageRow
	prefixLimit int
}

func (r *fakeToolRepo) Count() (int64, error) { return int64(len(r.tools)), nil }

func (r *fakeToolRepo) CreateBatch(tools []model.Tool) error {
	for _, t := range tools {
		t.ID = uint(len(r.tools) + 1)
		r.tools = append(r.tools, t)
	}
	return nil
}

func (r *fakeToolRepo) visible() []model.Tool {
	var out []model.Tool
	for _, t := range r.tools {
		if t.IsActive && t.IsPublic {
			out = append(out, t)
		}
	}
	return out
}

func (r *fakeToolRepo) List(category string, offset, limit int) ([]model.Tool, error) {
	var out []model.Tool
	for _, t := range r.visible() {
		if category == "" || t.Category == category {
			out = append(out, t)
		}
	}
	if offset > len(out) {
		offset = len(out)
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeToolRepo) Categories() ([]string, error) {
	seen := map[string]bool{}
	var out []string
	for _, t := range r.visible() {
		if !seen[t.Category] {
			seen[t.Category] = true
			out = append(out, t.Category)
		}
	}
	return out, nil
}

func (r *fakeToolRepo) Hot(limit int) ([]model.Tool, error) {
	out := r.visible()
	sort.SliceStable(out, func(i, j int) bool { return out[i].UsageCount > out[j].UsageCount })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeToolRepo) FindByToolID(toolID string) (*model.Tool, error) {
	for _, t := range r.tools {
		if t.ToolID == toolID {
			cp := t
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeToolRepo) Related(category string, excludeID uint, limit int) ([]model.Tool, error) {
	var out []model.Tool
	for _, t := range r.visible() {
		if t.Category == category && t.ID != excludeID && len(out) < limit {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *fakeToolRepo) RecordUsage(usage *model.ToolUsage) error {
	usage.ID = uint(len(r.usages) + 1)
	r.usages = append(r.usages, *usage)
	for i := range r.tools {
		if r.tools[i].ID == usage.ToolID {
			r.tools[i].UsageCount++
		}
	}
	return nil
}

func (r *fakeToolRepo) UsageByUser(userID uint, offset, limit int) ([]model.ToolUsage, error) {
	var out []model.ToolUsage
	for _, u := range r.usages {
		if u.UserID == userID {
			out = append(out, u)
		}
	}
	if offset > len(out) {
		offset = len(out)
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeToolRepo) SearchPublic(q string, limit int) ([]model.Tool, error) {
	var out []model.Tool
	q = strings.ToLower(q)
	for _, t := range r.visible() {
		text := strings.ToLower(t.Name + " " + t.Description + " " + t.Category)
		if strings.Contains(text, q) && len(out) < limit {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *fakeToolRepo) NamesWithPrefix(prefix string, limit int) ([]string, error) {
	r.prefixLimit = limit
	var out []string
	for _, t := range r.visible() {
		if strings.HasPrefix(t.Name, prefix) && len(out) < limit {
			out = append(out, t.Name)
		}
	}
	return out, nil
}

func (r *fakeToolRepo) UsageSince(since time.Time, userID uint) ([]model.ToolUsageRow, error) {
	var out []model.ToolUsageRow
	for _, row := range r.rows {
		if !row.CreatedAt.Before(since) && (userID == 0 || row.UserID == userID) {
			out = append(out, row)
		}
	}
	return out, nil
}

type fakeChatRepo struct {
	sessions []*model.ChatSession
	messages []*model.ChatMessage
}

func (r *fakeChatRepo) CreateSession(session *model.ChatSession) error {
	session.ID = uint(len(r.sessions) + 1)
	session.CreatedAt = time.Now()
	session.UpdatedAt = session.CreatedAt
	cp := *session
	r.sessions = append(r.sessions, &cp)
	return nil
}

func (r *fakeChatRepo) FindSession(sessionID string, userID uint) (*model.ChatSession, error) {
	for _, s := range r.sessions {
		if s.SessionID == sessionID && s.UserID == userID && s.IsActive {
			cp := *s
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeChatRepo) ListSessions(userID uint) ([]model.ChatSession, error) {
	var out []model.ChatSession
	for _, s := range r.sessions {
		if s.UserID == userID && s.IsActive {
			out = append(out, *s)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, nil
}

func (r *fakeChatRepo) DeactivateSession(id uint) error {
	for _, s := range r.sessions {
		if s.ID == id {
			s.IsActive = false
		}
	}
	return nil
}

func (r *fakeChatRepo) ListMessages(sessionPK uint) ([]model.ChatMessage, error) {
	var out []model.ChatMessage
	for _, m := range r.messages {
		if m.SessionID == sessionPK {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (r *fakeChatRepo) ClearMessages(sessionPK uint) error {
	kept := r.messages[:0]
	for _, m := range r.messages {
		if m.SessionID != sessionPK {
			kept = append(kept, m)
		}
	}
	r.messages = kept
	return nil
}

func (r *fakeChatRepo) AppendMessages(sessionPK uint, messages ...*model.ChatMessage) error {
	for _, m := range messages {
		m.ID = uint(len(r.messages) + 1)
		m.SessionID = sessionPK
		cp := *m
		r.messages = append(r.messages, &cp)
	}
	for _, s := range r.sessions {
		if s.ID == sessionPK {
			s.UpdatedAt = time.Now().Add(time.Second)
		}
	}
	return nil
}

func (r *fakeChatRepo) SearchSessions(userID uint, q string, limit int) ([]model.ChatSession, error) {
	var out []model.ChatSession
	for _, s := range r.sessions {
		if s.UserID == userID && s.IsActive && strings.Contains(strings.ToLower(s.Title), strings.ToLower(q)) && len(out) < limit {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (r *fakeChatRepo) SearchMessages(userID uint, q string, limit int) ([]repository.MessageHit, error) {
	var out []repository.MessageHit
	for _, m := range r.messages {
		for _, s := range r.sessions {
			if s.ID != m.SessionID || s.UserID != userID || !s.IsActive {
				continue
			}
			if strings.Contains(strings.ToLower(m.Content), strings.ToLower(q)) && len(out) < limit {
				out = append(out, repository.MessageHit{
					SessionID:    s.SessionID,
					SessionTitle: s.Title,
					Role:         m.Role,
					Content:      m.Content,
					CreatedAt:    m.CreatedAt,
				})
			}
		}
	}
	return out, nil
}

func (r *fakeChatRepo) TitlesWithPrefix(userID uint, prefix string, limit int) ([]string, error) {
	var out []string
	for _, s := range r.sessions {
		if s.UserID == userID && s.IsActive && strings.HasPrefix(s.Title, prefix) && len(out) < limit {
			out = append(out, s.Title)
		}
	}
	return out, nil
}

type fakeSettingsRepo struct {
	user   map[uint]*model.UserSettings
	system map[string]*model.SystemSetting
	saves  int
}

func newFakeSettingsRepo() *fakeSettingsRepo {
	return &fakeSettingsRepo{user: map[uint]*model.UserSettings{}, system: map[string]*model.SystemSetting{}}
}

func (r *fakeSettingsRepo) FindUserSettings(userID uint) (*model.UserSettings, error) {
	s, ok := r.user[userID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *s
	return &cp, nil
}

func (r *fakeSettingsRepo) SaveUserSettings(settings *model.UserSettings) error {
	r.saves++
	cp := *settings
	r.user[settings.UserID] = &cp
	return nil
}

func (r *fakeSettingsRepo) ListSystem(publicOnly bool) ([]model.SystemSetting, error) {
	var out []model.SystemSetting
	for _, s := range r.system {
		if !publicOnly || s.IsPublic {
			out = append(out, *s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SettingKey < out[j].SettingKey })
	return out, nil
}

func (r *fakeSettingsRepo) FindSystem(key string) (*model.SystemSetting, error) {
	s, ok := r.system[key]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *s
	return &cp, nil
}

func (r *fakeSettingsRepo) SaveSystem(setting *model.SystemSetting) error {
	cp := *setting
	r.system[setting.SettingKey] = &cp
	return nil
}

func (r *fakeSettingsRepo) DeleteSystem(setting *model.SystemSetting) error {
	delete(r.system, setting.SettingKey)
	return nil
}
