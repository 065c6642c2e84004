package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"

	"kamu-koprusu/backend/internal/model"
	"kamu-koprusu/backend/internal/repository"
	pkgerrors "kamu-koprusu/backend/pkg/errors"
)

// ── Mock UserRepository ──

type mockUserRepo struct {
	users map[string]*model.User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	if user.UserID == "" {
		user.UserID = fmt.Sprintf("user-%03d", len(m.users)+1)
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

func (m *mockUserRepo) GetByIDForUpdate(ctx context.Context, id string) (*model.User, error) {
	return m.GetByID(ctx, id)
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range m.users {
		if u.Email == email {
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
	var matched []model.User
	for _, u := range m.users {
		if filter.Role != "" && u.Role != filter.Role {
			continue
		}
		switch filter.Status {
		case "active":
			if u.IsBanned || !u.IsApproved {
				continue
			}
		case "banned":
			if !u.IsBanned {
				continue
			}
		case "pending_approval":
			if u.IsApproved {
				continue
			}
		}
		if filter.Keyword != "" &&
			!strings.Contains(u.FullName, filter.Keyword) &&
			!strings.Contains(u.Email, filter.Keyword) {
			continue
		}
		matched = append(matched, *u)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].UserID < matched[j].UserID })
	return paginate(matched, offset, limit), int64(len(matched)), nil
}

func (m *mockUserRepo) CountTotal(_ context.Context) (int64, error) {
	return int64(len(m.users)), nil
}

func (m *mockUserRepo) CountBanned(_ context.Context) (int64, error) {
	var n int64
	for _, u := range m.users {
		if u.IsBanned {
			n++
		}
	}
	return n, nil
}

// ── Mock ProfileRepository ──

type mockProfileRepo struct {
	profiles map[string]*model.Profile // user_id → profile
}

func newMockProfileRepo() *mockProfileRepo {
	return &mockProfileRepo{profiles: make(map[string]*model.Profile)}
}

func (m *mockProfileRepo) GetByUser(_ context.Context, userID string) (*model.Profile, error) {
	if p, ok := m.profiles[userID]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockProfileRepo) Upsert(_ context.Context, profile *model.Profile) error {
	if profile.ProfileID == "" {
		profile.ProfileID = "profile-" + profile.UserID
	}
	m.profiles[profile.UserID] = profile
	return nil
}

// ── Mock InstitutionRepository ──

type mockInstitutionRepo struct {
	institutions map[string]*model.Institution
}

func newMockInstitutionRepo() *mockInstitutionRepo {
	return &mockInstitutionRepo{institutions: make(map[string]*model.Institution)}
}

func (m *mockInstitutionRepo) Create(_ context.Context, inst *model.Institution) error {
	if inst.InstitutionID == "" {
		inst.InstitutionID = "inst-" + inst.InstitutionCode
	}
	m.institutions[inst.InstitutionID] = inst
	return nil
}

func (m *mockInstitutionRepo) GetByID(_ context.Context, id string) (*model.Institution, error) {
	if inst, ok := m.institutions[id]; ok {
		return inst, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockInstitutionRepo) GetByCode(_ context.Context, code string) (*model.Institution, error) {
	for _, inst := range m.institutions {
		if inst.InstitutionCode == code {
			return inst, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockInstitutionRepo) Update(_ context.Context, inst *model.Institution) error {
	m.institutions[inst.InstitutionID] = inst
	return nil
}

func (m *mockInstitutionRepo) List(_ context.Context, filter repository.InstitutionFilter, offset, limit int) ([]model.Institution, int64, error) {
	var matched []model.Institution
	for _, inst := range m.institutions {
		if filter.Type != "" && inst.Type != filter.Type {
			continue
		}
		if filter.City != "" && !strings.Contains(inst.Address, filter.City) {
			continue
		}
		if filter.Keyword != "" && !strings.Contains(inst.Name, filter.Keyword) {
			continue
		}
		matched = append(matched, *inst)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].Name < matched[j].Name })
	return paginate(matched, offset, limit), int64(len(matched)), nil
}

func (m *mockInstitutionRepo) Count(_ context.Context) (int64, error) {
	return int64(len(m.institutions)), nil
}

// ── Mock ComplaintRepository ──

type mockComplaintRepo struct {
	complaints map[string]*model.Complaint
	updateErr  error // 预置后下一次 Update 返回该错误，用于模拟版本冲突
}

func newMockComplaintRepo() *mockComplaintRepo {
	return &mockComplaintRepo{complaints: make(map[string]*model.Complaint)}
}

func (m *mockComplaintRepo) Create(_ context.Context, complaint *model.Complaint) error {
	if complaint.ComplaintID == "" {
		complaint.ComplaintID = fmt.Sprintf("complaint-%03d", len(m.complaints)+1)
	}
	if complaint.Version == 0 {
		complaint.Version = 1
	}
	m.complaints[complaint.ComplaintID] = complaint
	return nil
}

func (m *mockComplaintRepo) GetByID(_ context.Context, id string) (*model.Complaint, error) {
	if c, ok := m.complaints[id]; ok {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockComplaintRepo) Update(_ context.Context, complaint *model.Complaint) error {
	if m.updateErr != nil {
		err := m.updateErr
		m.updateErr = nil
		return err
	}
	existing, ok := m.complaints[complaint.ComplaintID]
	if !ok || existing.Version != complaint.Version {
		return pkgerrors.ErrOptimisticLock
	}
	complaint.Version++
	m.complaints[complaint.ComplaintID] = complaint
	return nil
}

func (m *mockComplaintRepo) Delete(_ context.Context, id string) error {
	delete(m.complaints, id)
	return nil
}

func (m *mockComplaintRepo) List(_ context.Context, filter repository.ComplaintFilter, offset, limit int) ([]model.Complaint, int64, error) {
	var matched []model.Complaint
	for _, c := range m.complaints {
		if filter.Status != "" && c.Status != filter.Status {
			continue
		}
		if filter.Type != "" && c.Type != filter.Type {
			continue
		}
		if filter.UserID != "" && c.UserID != filter.UserID {
			continue
		}
		if filter.InstitutionID != "" && c.InstitutionID != filter.InstitutionID {
			continue
		}
		if filter.ApprovedOnly && !c.IsApproved {
			continue
		}
		if filter.Keyword != "" && !strings.Contains(c.Title, filter.Keyword) {
			continue
		}
		matched = append(matched, *c)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ComplaintID < matched[j].ComplaintID })
	return paginate(matched, offset, limit), int64(len(matched)), nil
}

func (m *mockComplaintRepo) CountByUser(_ context.Context, userID string) (int64, error) {
	var n int64
	for _, c := range m.complaints {
		if c.UserID == userID {
			n++
		}
	}
	return n, nil
}

func (m *mockComplaintRepo) CountResolvedByUser(_ context.Context, userID string) (int64, error) {
	var n int64
	for _, c := range m.complaints {
		if c.UserID == userID && c.Status == model.StatusResolved {
			n++
		}
	}
	return n, nil
}

func (m *mockComplaintRepo) CountWithMediaByUser(_ context.Context, userID string) (int64, error) {
	var n int64
	for _, c := range m.complaints {
		if c.UserID == userID && len(c.MediaFiles) > 0 {
			n++
		}
	}
	return n, nil
}

func (m *mockComplaintRepo) CountQuickResolvedByUser(_ context.Context, userID string, window time.Duration) (int64, error) {
	var n int64
	for _, c := range m.complaints {
		if c.UserID != userID || c.Status != model.StatusResolved || c.ResolvedAt == nil {
			continue
		}
		if c.ResolvedAt.Sub(c.CreatedAt) <= window {
			n++
		}
	}
	return n, nil
}

func (m *mockComplaintRepo) CountByInstitution(_ context.Context, institutionID string) (total, resolved int64, err error) {
	for _, c := range m.complaints {
		if c.InstitutionID != institutionID {
			continue
		}
		if c.IsApproved {
			total++
		}
		if c.Status == model.StatusResolved {
			resolved++
		}
	}
	return total, resolved, nil
}

func (m *mockComplaintRepo) CountTotal(_ context.Context) (int64, error) {
	return int64(len(m.complaints)), nil
}

func (m *mockComplaintRepo) CountByStatus(_ context.Context) (map[string]int64, error) {
	result := make(map[string]int64)
	for _, c := range m.complaints {
		result[string(c.Status)]++
	}
	return result, nil
}

func (m *mockComplaintRepo) CountByType(_ context.Context) (map[string]int64, error) {
	result := make(map[string]int64)
	for _, c := range m.complaints {
		result[string(c.Type)]++
	}
	return result, nil
}

// ── Mock ComplaintUpdateRepository ──

type mockComplaintUpdateRepo struct {
	updates []model.ComplaintUpdate
}

func newMockComplaintUpdateRepo() *mockComplaintUpdateRepo {
	return &mockComplaintUpdateRepo{}
}

func (m *mockComplaintUpdateRepo) Create(_ context.Context, update *model.ComplaintUpdate) error {
	if update.UpdateID == "" {
		update.UpdateID = fmt.Sprintf("update-%03d", len(m.updates)+1)
	}
	m.updates = append(m.updates, *update)
	return nil
}

func (m *mockComplaintUpdateRepo) ListByComplaint(_ context.Context, complaintID string) ([]model.ComplaintUpdate, error) {
	var result []model.ComplaintUpdate
	for _, u := range m.updates {
		if u.ComplaintID == complaintID {
			result = append(result, u)
		}
	}
	return result, nil
}

// ── Mock MediaRepository ──

type mockMediaRepo struct {
	media []model.Media
}

func newMockMediaRepo() *mockMediaRepo {
	return &mockMediaRepo{}
}

func (m *mockMediaRepo) CreateBatch(_ context.Context, media []model.Media) error {
	for i := range media {
		if media[i].MediaID == "" {
			media[i].MediaID = fmt.Sprintf("media-%03d", len(m.media)+i+1)
		}
	}
	m.media = append(m.media, media...)
	return nil
}

func (m *mockMediaRepo) ListByComplaint(_ context.Context, complaintID string) ([]model.Media, error) {
	var result []model.Media
	for _, md := range m.media {
		if md.ComplaintID != nil && *md.ComplaintID == complaintID {
			result = append(result, md)
		}
	}
	return result, nil
}

func (m *mockMediaRepo) DeleteByComplaint(_ context.Context, complaintID string) error {
	var kept []model.Media
	for _, md := range m.media {
		if md.ComplaintID != nil && *md.ComplaintID == complaintID {
			continue
		}
		kept = append(kept, md)
	}
	m.media = kept
	return nil
}

// ── Mock WarningRepository ──

type mockWarningRepo struct {
	warnings []model.Warning
}

func newMockWarningRepo() *mockWarningRepo {
	return &mockWarningRepo{}
}

func (m *mockWarningRepo) Create(_ context.Context, warning *model.Warning) error {
	if warning.WarningID == "" {
		warning.WarningID = fmt.Sprintf("warning-%03d", len(m.warnings)+1)
	}
	if warning.CreatedAt.IsZero() {
		warning.CreatedAt = time.Now()
	}
	m.warnings = append(m.warnings, *warning)
	return nil
}

func (m *mockWarningRepo) CountByUser(_ context.Context, userID string) (int64, error) {
	var n int64
	for _, w := range m.warnings {
		if w.UserID == userID {
			n++
		}
	}
	return n, nil
}

func (m *mockWarningRepo) ListByUser(_ context.Context, userID string, offset, limit int) ([]model.Warning, int64, error) {
	var matched []model.Warning
	for _, w := range m.warnings {
		if w.UserID == userID {
			matched = append(matched, w)
		}
	}
	return paginate(matched, offset, limit), int64(len(matched)), nil
}

// ── Mock BannedUserRepository ──

type mockBannedUserRepo struct {
	bans []*model.BannedUser
}

func newMockBannedUserRepo() *mockBannedUserRepo {
	return &mockBannedUserRepo{}
}

func (m *mockBannedUserRepo) Create(_ context.Context, ban *model.BannedUser) error {
	if ban.BanID == "" {
		ban.BanID = fmt.Sprintf("ban-%03d", len(m.bans)+1)
	}
	if ban.BannedAt.IsZero() {
		ban.BannedAt = time.Now()
	}
	m.bans = append(m.bans, ban)
	return nil
}

func (m *mockBannedUserRepo) GetActiveByUser(_ context.Context, userID string) (*model.BannedUser, error) {
	for i := len(m.bans) - 1; i >= 0; i-- {
		if m.bans[i].UserID == userID && m.bans[i].UnbannedAt == nil {
			return m.bans[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockBannedUserRepo) ExistsByEmailOrPhone(_ context.Context, email, phone string) (bool, error) {
	now := time.Now()
	for _, b := range m.bans {
		if b.UnbannedAt != nil {
			continue
		}
		if !b.IsPermanent && (b.BanExpiresAt == nil || b.BanExpiresAt.Before(now)) {
			continue
		}
		if b.BannedEmail == email {
			return true, nil
		}
		if phone != "" && b.BannedPhone == phone {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockBannedUserRepo) MarkUnbanned(_ context.Context, userID string, at time.Time) error {
	for _, b := range m.bans {
		if b.UserID == userID && b.UnbannedAt == nil {
			t := at
			b.UnbannedAt = &t
		}
	}
	return nil
}

func (m *mockBannedUserRepo) ListByUser(_ context.Context, userID string) ([]model.BannedUser, error) {
	var result []model.BannedUser
	for _, b := range m.bans {
		if b.UserID == userID {
			result = append(result, *b)
		}
	}
	return result, nil
}

// ── Mock BadgeRepository ──

type mockBadgeRepo struct {
	badges     map[string]*model.Badge
	userBadges []model.UserBadge
}

func newMockBadgeRepo() *mockBadgeRepo {
	return &mockBadgeRepo{badges: make(map[string]*model.Badge)}
}

func (m *mockBadgeRepo) Create(_ context.Context, badge *model.Badge) error {
	if badge.BadgeID == "" {
		badge.BadgeID = fmt.Sprintf("badge-%03d", len(m.badges)+1)
	}
	m.badges[badge.BadgeID] = badge
	return nil
}

func (m *mockBadgeRepo) GetByName(_ context.Context, name string) (*model.Badge, error) {
	for _, b := range m.badges {
		if b.Name == name {
			return b, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockBadgeRepo) ListAll(_ context.Context) ([]model.Badge, error) {
	var result []model.Badge
	for _, b := range m.badges {
		result = append(result, *b)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].CriteriaType != result[j].CriteriaType {
			return result[i].CriteriaType < result[j].CriteriaType
		}
		return result[i].RequiredCount < result[j].RequiredCount
	})
	return result, nil
}

func (m *mockBadgeRepo) AwardToUser(_ context.Context, userBadge *model.UserBadge) error {
	for _, ub := range m.userBadges {
		if ub.UserID == userBadge.UserID && ub.BadgeID == userBadge.BadgeID {
			return fmt.Errorf("duplicate key value violates unique constraint \"uq_user_badge\"")
		}
	}
	if userBadge.UserBadgeID == "" {
		userBadge.UserBadgeID = fmt.Sprintf("ub-%03d", len(m.userBadges)+1)
	}
	if userBadge.EarnedAt.IsZero() {
		userBadge.EarnedAt = time.Now()
	}
	m.userBadges = append(m.userBadges, *userBadge)
	return nil
}

func (m *mockBadgeRepo) ListByUser(_ context.Context, userID string) ([]model.UserBadge, error) {
	var result []model.UserBadge
	for _, ub := range m.userBadges {
		if ub.UserID == userID {
			ub.Badge = m.badges[ub.BadgeID]
			result = append(result, ub)
		}
	}
	return result, nil
}

func (m *mockBadgeRepo) HasBadge(_ context.Context, userID, badgeID string) (bool, error) {
	for _, ub := range m.userBadges {
		if ub.UserID == userID && ub.BadgeID == badgeID {
			return true, nil
		}
	}
	return false, nil
}

// ── Mock AuditLogRepository ──

type mockAuditLogRepo struct {
	logs []model.AuditLog
}

func newMockAuditLogRepo() *mockAuditLogRepo {
	return &mockAuditLogRepo{}
}

func (m *mockAuditLogRepo) Create(_ context.Context, log *model.AuditLog) error {
	if log.AuditLogID == "" {
		log.AuditLogID = fmt.Sprintf("audit-%03d", len(m.logs)+1)
	}
	m.logs = append(m.logs, *log)
	return nil
}

func (m *mockAuditLogRepo) List(_ context.Context, filter repository.AuditLogFilter, offset, limit int) ([]model.AuditLog, int64, error) {
	var matched []model.AuditLog
	for _, l := range m.logs {
		if filter.Action != "" && l.Action != filter.Action {
			continue
		}
		if filter.EntityType != "" && l.EntityType != filter.EntityType {
			continue
		}
		if filter.ActorID != "" && (l.UserID == nil || *l.UserID != filter.ActorID) {
			continue
		}
		matched = append(matched, l)
	}
	return paginate(matched, offset, limit), int64(len(matched)), nil
}

// ── Mock StatsRepository ──

type mockStatsRepo struct {
	monthly      []repository.MonthlyRow
	institutions []repository.InstitutionRow
	categories   []repository.CategoryRow
	topCitizens  []repository.TopCitizenRow
}

func newMockStatsRepo() *mockStatsRepo {
	return &mockStatsRepo{}
}

func (m *mockStatsRepo) MonthlyComplaints(_ context.Context, _, _ *time.Time) ([]repository.MonthlyRow, error) {
	return m.monthly, nil
}

func (m *mockStatsRepo) InstitutionPerformance(_ context.Context, _, _ *time.Time) ([]repository.InstitutionRow, error) {
	return m.institutions, nil
}

func (m *mockStatsRepo) CategoryDistribution(_ context.Context, _, _ *time.Time) ([]repository.CategoryRow, error) {
	return m.categories, nil
}

func (m *mockStatsRepo) TopCitizens(_ context.Context, _ int) ([]repository.TopCitizenRow, error) {
	return m.topCitizens, nil
}

// ── 公共辅助 ──

// mockRepos 聚合全部 Mock 仓储，便于测试按需预置数据
type mockRepos struct {
	user        *mockUserRepo
	profile     *mockProfileRepo
	institution *mockInstitutionRepo
	complaint   *mockComplaintRepo
	update      *mockComplaintUpdateRepo
	media       *mockMediaRepo
	warning     *mockWarningRepo
	banned      *mockBannedUserRepo
	badge       *mockBadgeRepo
	audit       *mockAuditLogRepo
	stats       *mockStatsRepo
}

func newMockRepos() (*repository.Repository, *mockRepos) {
	mocks := &mockRepos{
		user:        newMockUserRepo(),
		profile:     newMockProfileRepo(),
		institution: newMockInstitutionRepo(),
		complaint:   newMockComplaintRepo(),
		update:      newMockComplaintUpdateRepo(),
		media:       newMockMediaRepo(),
		warning:     newMockWarningRepo(),
		banned:      newMockBannedUserRepo(),
		badge:       newMockBadgeRepo(),
		audit:       newMockAuditLogRepo(),
		stats:       newMockStatsRepo(),
	}
	repo := &repository.Repository{
		User:            mocks.user,
		Profile:         mocks.profile,
		Institution:     mocks.institution,
		Complaint:       mocks.complaint,
		ComplaintUpdate: mocks.update,
		Media:           mocks.media,
		Warning:         mocks.warning,
		BannedUser:      mocks.banned,
		Badge:           mocks.badge,
		AuditLog:        mocks.audit,
		Stats:           mocks.stats,
	}
	return repo, mocks
}

func paginate[T any](items []T, offset, limit int) []T {
	if offset >= len(items) {
		return nil
	}
	end := offset + limit
	if limit <= 0 || end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}
