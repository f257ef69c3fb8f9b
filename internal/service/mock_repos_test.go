package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Anirudha-Sai/Event-Attendance/config"
	"github.com/Anirudha-Sai/Event-Attendance/internal/model"
	"github.com/Anirudha-Sai/Event-Attendance/internal/policy"
	"github.com/Anirudha-Sai/Event-Attendance/internal/repository"
	pkgerrors "github.com/Anirudha-Sai/Event-Attendance/pkg/errors"
	"github.com/Anirudha-Sai/Event-Attendance/pkg/jwt"
)

// ── Mock UserRepository ──

type mockUserRepo struct {
	mu     sync.Mutex
	nextID uint64
	users  map[uint64]*model.User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[uint64]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == user.Email {
			return gorm.ErrDuplicatedKey
		}
	}
	m.nextID++
	user.ID = m.nextID
	cp := *user
	m.users[user.ID] = &cp
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id uint64) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

// ── Mock StudentRepository ──

type mockStudentRepo struct {
	mu       sync.Mutex
	students map[string]model.Student
}

func newMockStudentRepo() *mockStudentRepo {
	return &mockStudentRepo{students: make(map[string]model.Student)}
}

func (m *mockStudentRepo) GetByRoll(_ context.Context, roll string) (*model.Student, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if st, ok := m.students[roll]; ok {
		return &st, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockStudentRepo) Upsert(_ context.Context, students []model.Student) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, st := range students {
		m.students[st.Roll] = st
	}
	return nil
}

func (m *mockStudentRepo) add(roll, name, branch string) {
	_ = m.Upsert(context.Background(), []model.Student{{Roll: roll, Name: &name, Branch: &branch}})
}

// ── Mock EventRepository ──

type mockEventRepo struct {
	mu     sync.Mutex
	nextID uint64
	events map[uint64]model.Event
}

func newMockEventRepo() *mockEventRepo {
	return &mockEventRepo{events: make(map[uint64]model.Event)}
}

func (m *mockEventRepo) Create(_ context.Context, event *model.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	event.ID = m.nextID
	m.events[event.ID] = *event
	return nil
}

func (m *mockEventRepo) GetByID(_ context.Context, id uint64) (*model.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e, ok := m.events[id]; ok {
		return &e, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockEventRepo) List(_ context.Context, creatorID *uint64) ([]model.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []model.Event
	for _, e := range m.events {
		if creatorID != nil && e.CreatorID != *creatorID {
			continue
		}
		result = append(result, e)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID > result[j].ID })
	return result, nil
}

// ── Mock AttendanceRepository ──

type mockAttendanceRepo struct {
	mu       sync.Mutex
	nextID   uint64
	records  map[uint64]model.Attendance
	students *mockStudentRepo
	updates  int
}

func newMockAttendanceRepo(students *mockStudentRepo) *mockAttendanceRepo {
	return &mockAttendanceRepo{records: make(map[uint64]model.Attendance), students: students}
}

func (m *mockAttendanceRepo) Create(_ context.Context, a *model.Attendance) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	a.ID = m.nextID
	m.records[a.ID] = *a
	return nil
}

func (m *mockAttendanceRepo) GetByID(_ context.Context, id uint64) (*model.Attendance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a, ok := m.records[id]; ok {
		return &a, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAttendanceRepo) UpdateStatus(_ context.Context, a *model.Attendance, expectedVersion *int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.records[a.ID]
	if !ok || (expectedVersion != nil && stored.Version != *expectedVersion) {
		if expectedVersion != nil {
			return pkgerrors.ErrOptimisticLock
		}
		return gorm.ErrRecordNotFound
	}
	stored.Status = a.Status
	stored.HodID = a.HodID
	stored.HodActionAt = a.HodActionAt
	stored.Version++
	m.records[a.ID] = stored
	m.updates++
	return nil
}

func (m *mockAttendanceRepo) ListForEvent(ctx context.Context, eventID uint64) ([]model.AttendanceRow, error) {
	m.mu.Lock()
	var rows []model.AttendanceRow
	for _, a := range m.records {
		if a.EventID == eventID {
			rows = append(rows, model.AttendanceRow{Attendance: a})
		}
	}
	m.mu.Unlock()

	for i := range rows {
		if st, err := m.students.GetByRoll(ctx, rows[i].Roll); err == nil {
			rows[i].StudentName = st.Name
			rows[i].StudentBranch = st.Branch
		}
	}
	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].ScannedAt.Equal(rows[j].ScannedAt) {
			return rows[i].ScannedAt.After(rows[j].ScannedAt)
		}
		return rows[i].ID > rows[j].ID
	})
	return rows, nil
}

func (m *mockAttendanceRepo) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.records)
}

// ── fixtures ──

type testRepos struct {
	repo       *repository.Repository
	users      *mockUserRepo
	students   *mockStudentRepo
	events     *mockEventRepo
	attendance *mockAttendanceRepo
}

func newTestRepos() *testRepos {
	students := newMockStudentRepo()
	r := &testRepos{
		users:      newMockUserRepo(),
		students:   students,
		events:     newMockEventRepo(),
		attendance: newMockAttendanceRepo(students),
	}
	r.repo = &repository.Repository{
		User:       r.users,
		Student:    r.students,
		Event:      r.events,
		Attendance: r.attendance,
	}
	return r
}

func testConfig() *config.Config {
	return &config.Config{
		Auth: config.AuthConfig{
			JWTSecret:               "test-secret-key-for-unit-tests",
			AccessTokenTTL:          15 * time.Minute,
			RefreshTokenTTLDefault:  24 * time.Hour,
			RefreshTokenTTLRemember: 7 * 24 * time.Hour,
		},
	}
}

func testJWT(cfg *config.Config) *jwt.Manager {
	return jwt.NewManager(&cfg.Auth)
}

var testLogger = zap.NewNop()

var (
	conductorA = &policy.Caller{ID: 1, Name: "Cora", Email: "cora@example.com", Role: model.RoleConductor}
	conductorB = &policy.Caller{ID: 2, Name: "Ben", Email: "ben@example.com", Role: model.RoleConductor}
	hodH       = &policy.Caller{ID: 3, Name: "Hana", Email: "hana@example.com", Role: model.RoleHOD}
)

// fixedClock returns a clock that advances one second per call
func fixedClock(start time.Time) func() time.Time {
	var mu sync.Mutex
	t := start
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t = t.Add(time.Second)
		return t
	}
}

// ── Mock TokenBlacklist ──

type mockBlacklist struct {
	mu      sync.Mutex
	revoked map[string]time.Duration
}

func newMockBlacklist() *mockBlacklist {
	return &mockBlacklist{revoked: make(map[string]time.Duration)}
}

func (m *mockBlacklist) BlacklistToken(_ context.Context, jti string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.revoked[jti] = ttl
	return nil
}

func (m *mockBlacklist) IsBlacklisted(_ context.Context, jti string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.revoked[jti]
	return ok, nil
}
