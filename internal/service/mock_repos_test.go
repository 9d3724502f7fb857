package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/VotaAI/Backend-API/internal/model"
	"github.com/VotaAI/Backend-API/internal/repository"
)

var mockSeq int

func nextID(prefix string) string {
	mockSeq++
	return fmt.Sprintf("%s-%d", prefix, mockSeq)
}

// ── Mock UserRepository ──

type mockUserRepo struct {
	users     map[string]*model.User
	createErr error
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	if m.createErr != nil {
		return m.createErr
	}
	for _, u := range m.users {
		if strings.EqualFold(u.Email, user.Email) || u.CPF == user.CPF {
			return repository.ErrDuplicate
		}
	}
	if user.UserID == "" {
		user.UserID = nextID("user")
	}
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range m.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByCPF(_ context.Context, cpf string) (*model.User, error) {
	for _, u := range m.users {
		if u.CPF == cpf {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) Update(_ context.Context, user *model.User) error {
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) List(_ context.Context, filter repository.UserFilter, offset, limit int) ([]model.User, int64, error) {
	var result []model.User
	for _, u := range m.users {
		if filter.Role != "" && u.Role != filter.Role {
			continue
		}
		result = append(result, *u)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].UserID < result[j].UserID })
	return paginate(result, offset, limit), int64(len(result)), nil
}

// ── Mock CredentialRepository ──

type mockCredentialRepo struct {
	creds     map[string]*model.Credential // key: user_id
	createErr error
}

func newMockCredentialRepo() *mockCredentialRepo {
	return &mockCredentialRepo{creds: make(map[string]*model.Credential)}
}

func (m *mockCredentialRepo) Create(_ context.Context, cred *model.Credential) error {
	if m.createErr != nil {
		return m.createErr
	}
	if _, ok := m.creds[cred.UserID]; ok {
		return repository.ErrDuplicate
	}
	cred.CredentialID = nextID("cred")
	m.creds[cred.UserID] = cred
	return nil
}

func (m *mockCredentialRepo) GetByUserID(_ context.Context, userID string) (*model.Credential, error) {
	if c, ok := m.creds[userID]; ok {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCredentialRepo) UpdatePasswordHash(_ context.Context, userID, hash, _ string) error {
	c, ok := m.creds[userID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	c.PasswordHash = hash
	return nil
}

// ── Mock CategoryRepository ──

type mockCategoryRepo struct {
	categories map[string]*model.Category
}

func newMockCategoryRepo() *mockCategoryRepo {
	return &mockCategoryRepo{categories: make(map[string]*model.Category)}
}

func (m *mockCategoryRepo) Create(_ context.Context, c *model.Category) error {
	for _, existing := range m.categories {
		if existing.Name == c.Name {
			return repository.ErrDuplicate
		}
	}
	if c.CategoryID == "" {
		c.CategoryID = nextID("cat")
	}
	m.categories[c.CategoryID] = c
	return nil
}

func (m *mockCategoryRepo) GetByID(_ context.Context, id string) (*model.Category, error) {
	if c, ok := m.categories[id]; ok {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCategoryRepo) List(_ context.Context) ([]model.Category, error) {
	var result []model.Category
	for _, c := range m.categories {
		result = append(result, *c)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

// ── Mock VotingSessionRepository ──

type mockSessionRepo struct {
	sessions map[string]*model.VotingSession
}

func newMockSessionRepo() *mockSessionRepo {
	return &mockSessionRepo{sessions: make(map[string]*model.VotingSession)}
}

func (m *mockSessionRepo) Create(_ context.Context, s *model.VotingSession) error {
	if s.VotingSessionID == "" {
		s.VotingSessionID = nextID("sess")
	}
	m.sessions[s.VotingSessionID] = s
	return nil
}

func (m *mockSessionRepo) GetByID(_ context.Context, id string) (*model.VotingSession, error) {
	if s, ok := m.sessions[id]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSessionRepo) Update(_ context.Context, s *model.VotingSession) error {
	cp := *s
	m.sessions[s.VotingSessionID] = &cp
	return nil
}

func (m *mockSessionRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.sessions[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.sessions, id)
	return nil
}

func (m *mockSessionRepo) List(_ context.Context, filter repository.SessionFilter, now time.Time, offset, limit int) ([]model.VotingSession, int64, error) {
	var result []model.VotingSession
	for _, s := range m.sessions {
		if filter.Status != "" && s.EffectiveStatus(now) != filter.Status {
			continue
		}
		if filter.CategoryID != "" && (s.CategoryID == nil || *s.CategoryID != filter.CategoryID) {
			continue
		}
		if filter.Title != "" && !strings.Contains(strings.ToLower(s.Title), strings.ToLower(filter.Title)) {
			continue
		}
		result = append(result, *s)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].VotingSessionID < result[j].VotingSessionID })
	return paginate(result, offset, limit), int64(len(result)), nil
}

func (m *mockSessionRepo) CloseExpired(_ context.Context, now time.Time) (int64, error) {
	var n int64
	for _, s := range m.sessions {
		if s.Status == model.SessionOpen && s.EndDate.Before(now) {
			s.Status = model.SessionClosed
			n++
		}
	}
	return n, nil
}

// ── Mock OptionRepository ──

type mockOptionRepo struct {
	options   map[string]*model.Option
	createErr error
}

func newMockOptionRepo() *mockOptionRepo {
	return &mockOptionRepo{options: make(map[string]*model.Option)}
}

func (m *mockOptionRepo) Create(_ context.Context, o *model.Option) error {
	if m.createErr != nil {
		return m.createErr
	}
	if o.CandidacyID != nil {
		for _, existing := range m.options {
			if existing.CandidacyID != nil && *existing.CandidacyID == *o.CandidacyID {
				return repository.ErrDuplicate
			}
		}
	}
	if o.OptionID == "" {
		o.OptionID = nextID("opt")
	}
	m.options[o.OptionID] = o
	return nil
}

func (m *mockOptionRepo) GetByID(_ context.Context, id string) (*model.Option, error) {
	if o, ok := m.options[id]; ok {
		return o, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockOptionRepo) GetByCandidacyID(_ context.Context, candidacyID string) (*model.Option, error) {
	for _, o := range m.options {
		if o.CandidacyID != nil && *o.CandidacyID == candidacyID {
			return o, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockOptionRepo) Update(_ context.Context, o *model.Option) error {
	m.options[o.OptionID] = o
	return nil
}

func (m *mockOptionRepo) List(_ context.Context, offset, limit int) ([]model.Option, int64, error) {
	var result []model.Option
	for _, o := range m.options {
		result = append(result, *o)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].OptionID < result[j].OptionID })
	return paginate(result, offset, limit), int64(len(result)), nil
}

func (m *mockOptionRepo) ListBySession(_ context.Context, sessionID string) ([]model.Option, error) {
	var result []model.Option
	for _, o := range m.options {
		if o.VotingSessionID == sessionID {
			result = append(result, *o)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Title < result[j].Title })
	return result, nil
}

func (m *mockOptionRepo) countBySession(sessionID string) int {
	n := 0
	for _, o := range m.options {
		if o.VotingSessionID == sessionID {
			n++
		}
	}
	return n
}

// ── Mock CandidacyRepository ──

type mockCandidacyRepo struct {
	candidacies map[string]*model.Candidacy
	users       *mockUserRepo
}

func newMockCandidacyRepo(users *mockUserRepo) *mockCandidacyRepo {
	return &mockCandidacyRepo{candidacies: make(map[string]*model.Candidacy), users: users}
}

func (m *mockCandidacyRepo) Create(_ context.Context, c *model.Candidacy) error {
	if c.CandidacyID == "" {
		c.CandidacyID = nextID("cand")
	}
	cp := *c
	cp.User = nil
	m.candidacies[c.CandidacyID] = &cp
	return nil
}

func (m *mockCandidacyRepo) get(id string) (*model.Candidacy, error) {
	c, ok := m.candidacies[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *c
	if u, ok := m.users.users[c.UserID]; ok {
		cp.User = u
	}
	return &cp, nil
}

func (m *mockCandidacyRepo) GetByID(_ context.Context, id string) (*model.Candidacy, error) {
	return m.get(id)
}

func (m *mockCandidacyRepo) GetByIDForUpdate(_ context.Context, id string) (*model.Candidacy, error) {
	return m.get(id)
}

func (m *mockCandidacyRepo) Update(_ context.Context, c *model.Candidacy) error {
	cp := *c
	cp.User = nil
	m.candidacies[c.CandidacyID] = &cp
	return nil
}

func (m *mockCandidacyRepo) List(_ context.Context, filter repository.CandidacyFilter, offset, limit int) ([]model.Candidacy, int64, error) {
	var result []model.Candidacy
	for id, c := range m.candidacies {
		if filter.Status != "" && c.Status != filter.Status {
			continue
		}
		if filter.VotingSessionID != "" && c.VotingSessionID != filter.VotingSessionID {
			continue
		}
		cp, _ := m.get(id)
		result = append(result, *cp)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CandidacyID < result[j].CandidacyID })
	return paginate(result, offset, limit), int64(len(result)), nil
}

func (m *mockCandidacyRepo) ExistsActive(_ context.Context, userID, sessionID string) (bool, error) {
	for _, c := range m.candidacies {
		if c.UserID == userID && c.VotingSessionID == sessionID && c.Status != model.CandidacyRejected {
			return true, nil
		}
	}
	return false, nil
}

// ── Mock VoteRepository ──

type mockVoteRepo struct {
	votes   []*model.Vote
	options *mockOptionRepo
	users   *mockUserRepo
}

func newMockVoteRepo(options *mockOptionRepo, users *mockUserRepo) *mockVoteRepo {
	return &mockVoteRepo{options: options, users: users}
}

func (m *mockVoteRepo) Create(_ context.Context, v *model.Vote) error {
	for _, existing := range m.votes {
		if existing.UserID == v.UserID && existing.VotingSessionID == v.VotingSessionID {
			return repository.ErrDuplicate
		}
	}
	if v.VoteID == "" {
		v.VoteID = nextID("vote")
	}
	m.votes = append(m.votes, v)
	return nil
}

func (m *mockVoteRepo) ExistsByUserAndSession(_ context.Context, userID, sessionID string) (bool, error) {
	for _, v := range m.votes {
		if v.UserID == userID && v.VotingSessionID == sessionID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockVoteRepo) Tally(_ context.Context, sessionID string) ([]model.TallyRow, error) {
	counts := make(map[string]int64)
	for _, v := range m.votes {
		if v.VotingSessionID == sessionID {
			counts[v.OptionID]++
		}
	}
	rows := make([]model.TallyRow, 0, len(counts))
	for id, n := range counts {
		title := ""
		if o, ok := m.options.options[id]; ok {
			title = o.Title
		}
		rows = append(rows, model.TallyRow{OptionID: id, Title: title, Count: n})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Count != rows[j].Count {
			return rows[i].Count > rows[j].Count
		}
		if rows[i].Title != rows[j].Title {
			return rows[i].Title < rows[j].Title
		}
		return rows[i].OptionID < rows[j].OptionID
	})
	return rows, nil
}

func (m *mockVoteRepo) ListPublic(_ context.Context, sessionID string, offset, limit int) ([]model.PublicVoteRow, int64, error) {
	var rows []model.PublicVoteRow
	for _, v := range m.votes {
		if v.VotingSessionID != sessionID || !v.IsPublic {
			continue
		}
		row := model.PublicVoteRow{VoteID: v.VoteID, OptionID: v.OptionID, CastAt: v.CastAt}
		if u, ok := m.users.users[v.UserID]; ok {
			row.VoterName = u.FullName
		}
		if o, ok := m.options.options[v.OptionID]; ok {
			row.Title = o.Title
		}
		rows = append(rows, row)
	}
	return paginate(rows, offset, limit), int64(len(rows)), nil
}

// ── 测试辅助 ──

func paginate[T any](items []T, offset, limit int) []T {
	if offset >= len(items) {
		return []T{}
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}

// mockStore 聚合所有 mock repo，便于断言
type mockStore struct {
	users       *mockUserRepo
	creds       *mockCredentialRepo
	categories  *mockCategoryRepo
	sessions    *mockSessionRepo
	options     *mockOptionRepo
	candidacies *mockCandidacyRepo
	votes       *mockVoteRepo
}

func newMockStore() (*repository.Repository, *mockStore) {
	users := newMockUserRepo()
	options := newMockOptionRepo()
	ms := &mockStore{
		users:       users,
		creds:       newMockCredentialRepo(),
		categories:  newMockCategoryRepo(),
		sessions:    newMockSessionRepo(),
		options:     options,
		candidacies: newMockCandidacyRepo(users),
		votes:       newMockVoteRepo(options, users),
	}
	repo := &repository.Repository{
		Memory:     ms,
		User:       ms.users,
		Credential: ms.creds,
		Category:   ms.categories,
		Session:    ms.sessions,
		Option:     ms.options,
		Candidacy:  ms.candidacies,
		Vote:       ms.votes,
	}
	return repo, ms
}

// Snapshot 复制全部内存状态，返回的函数将状态恢复到复制时刻（模拟事务回滚）
func (ms *mockStore) Snapshot() func() {
	users := cloneMap(ms.users.users)
	creds := cloneMap(ms.creds.creds)
	categories := cloneMap(ms.categories.categories)
	sessions := cloneMap(ms.sessions.sessions)
	options := cloneMap(ms.options.options)
	candidacies := cloneMap(ms.candidacies.candidacies)
	votes := make([]*model.Vote, len(ms.votes.votes))
	for i, v := range ms.votes.votes {
		cp := *v
		votes[i] = &cp
	}

	return func() {
		ms.users.users = users
		ms.creds.creds = creds
		ms.categories.categories = categories
		ms.sessions.sessions = sessions
		ms.options.options = options
		ms.candidacies.candidacies = candidacies
		ms.votes.votes = votes
	}
}

func cloneMap[T any](src map[string]*T) map[string]*T {
	dst := make(map[string]*T, len(src))
	for k, v := range src {
		cp := *v
		dst[k] = &cp
	}
	return dst
}

func (ms *mockStore) addUser(fullName, email, cpf string, role model.Role) *model.User {
	u := &model.User{
		UserID:   nextID("user"),
		FullName: fullName,
		Email:    email,
		CPF:      cpf,
		Role:     role,
	}
	ms.users.users[u.UserID] = u
	return u
}

func (ms *mockStore) addSession(title string, start, end time.Time, allowsCandidacy bool) *model.VotingSession {
	s := &model.VotingSession{
		VotingSessionID: nextID("sess"),
		Title:           title,
		StartDate:       start,
		EndDate:         end,
		AllowsCandidacy: allowsCandidacy,
		Status:          model.SessionOpen,
	}
	ms.sessions.sessions[s.VotingSessionID] = s
	return s
}

func (ms *mockStore) addOption(sessionID, title string) *model.Option {
	o := &model.Option{OptionID: nextID("opt"), VotingSessionID: sessionID, Title: title}
	ms.options.options[o.OptionID] = o
	return o
}

func adminCaller(u *model.User) *Caller {
	return &Caller{UserID: u.UserID, Email: u.Email, FullName: u.FullName, Role: model.RoleAdmin}
}

func standardCaller(u *model.User) *Caller {
	return &Caller{UserID: u.UserID, Email: u.Email, FullName: u.FullName, Role: model.RoleStandard}
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

var nopLogger = zap.NewNop()
