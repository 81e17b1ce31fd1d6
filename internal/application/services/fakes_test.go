package services

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/beemarshall/core/internal/domain/entities"
	"github.com/beemarshall/core/internal/infrastructure/config"
	"github.com/beemarshall/core/internal/infrastructure/logger"
	"github.com/beemarshall/core/internal/ports"
)

func testLogger() *logger.Logger {
	l, _ := logger.New(config.LoggerConfig{Level: "error", Format: "json", Output: "stderr"})
	return l
}

// In-memory repository fakes backing the service tests.

type memSiteRepo struct {
	mu     sync.Mutex
	nextID int
	sites  map[string]map[int]*entities.Site
}

func newMemSiteRepo() *memSiteRepo {
	return &memSiteRepo{nextID: 1, sites: make(map[string]map[int]*entities.Site)}
}

func (r *memSiteRepo) Create(ctx context.Context, site *entities.Site) (*entities.Site, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.sites[site.TenantID] == nil {
		r.sites[site.TenantID] = make(map[int]*entities.Site)
	}
	site.ID = r.nextID
	r.nextID++
	cp := *site
	r.sites[site.TenantID][site.ID] = &cp
	return site, nil
}

func (r *memSiteRepo) GetByID(ctx context.Context, tenantID string, id int) (*entities.Site, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	site, ok := r.sites[tenantID][id]
	if !ok {
		return nil, entities.ErrSiteNotFound
	}
	cp := *site
	return &cp, nil
}

func (r *memSiteRepo) Update(ctx context.Context, site *entities.Site) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sites[site.TenantID][site.ID]; !ok {
		return entities.ErrSiteNotFound
	}
	cp := *site
	r.sites[site.TenantID][site.ID] = &cp
	return nil
}

func (r *memSiteRepo) Delete(ctx context.Context, tenantID string, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sites[tenantID][id]; !ok {
		return entities.ErrSiteNotFound
	}
	delete(r.sites[tenantID], id)
	return nil
}

func (r *memSiteRepo) List(ctx context.Context, tenantID string, filter ports.SiteFilter) ([]*entities.Site, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*entities.Site, 0)
	for _, site := range r.sites[tenantID] {
		if filter.ArchivedOnly && !site.Archived {
			continue
		}
		if !filter.ArchivedOnly && !filter.IncludeArchived && site.Archived {
			continue
		}
		if filter.Functional != nil && site.Functional != *filter.Functional {
			continue
		}
		if filter.Search != nil && !strings.Contains(strings.ToLower(site.Name), strings.ToLower(*filter.Search)) {
			continue
		}
		cp := *site
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memSiteRepo) SetArchived(ctx context.Context, site *entities.Site, action *entities.Action) error {
	return r.Update(ctx, site)
}

func (r *memSiteRepo) AddHarvestRecord(ctx context.Context, tenantID string, siteID int, rec entities.HarvestRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	site, ok := r.sites[tenantID][siteID]
	if !ok {
		return entities.ErrSiteNotFound
	}
	site.HarvestRecords = append(site.HarvestRecords, rec)
	return nil
}

func (r *memSiteRepo) RemoveHarvestRecord(ctx context.Context, tenantID string, siteID int, index int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	site, ok := r.sites[tenantID][siteID]
	if !ok {
		return entities.ErrSiteNotFound
	}
	site.HarvestRecords = append(site.HarvestRecords[:index], site.HarvestRecords[index+1:]...)
	return nil
}

func (r *memSiteRepo) Stats(ctx context.Context, tenantID string) (*ports.SiteStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stats := &ports.SiteStats{}
	for _, site := range r.sites[tenantID] {
		if site.Archived {
			stats.ArchivedSites++
			continue
		}
		stats.ActiveSites++
		stats.TotalHives += site.HiveCount
		stats.StrongHives += site.HiveStrength.Strong
		stats.MediumHives += site.HiveStrength.Medium
		stats.WeakHives += site.HiveStrength.Weak
		stats.NucHives += site.HiveStrength.Nuc
		stats.DeadHives += site.HiveStrength.Dead
	}
	return stats, nil
}

type memTaskRepo struct {
	mu      sync.Mutex
	tasks   map[string]map[uuid.UUID]*entities.ScheduledTask
	actions *memActionRepo
}

func newMemTaskRepo(actions *memActionRepo) *memTaskRepo {
	return &memTaskRepo{tasks: make(map[string]map[uuid.UUID]*entities.ScheduledTask), actions: actions}
}

func (r *memTaskRepo) Create(ctx context.Context, task *entities.ScheduledTask) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.tasks[task.TenantID] == nil {
		r.tasks[task.TenantID] = make(map[uuid.UUID]*entities.ScheduledTask)
	}
	cp := *task
	r.tasks[task.TenantID][task.ID] = &cp
	return nil
}

func (r *memTaskRepo) CreateBatch(ctx context.Context, tasks []*entities.ScheduledTask) error {
	for _, task := range tasks {
		if err := r.Create(ctx, task); err != nil {
			return err
		}
	}
	return nil
}

func (r *memTaskRepo) GetByID(ctx context.Context, tenantID string, id uuid.UUID) (*entities.ScheduledTask, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	task, ok := r.tasks[tenantID][id]
	if !ok {
		return nil, entities.ErrTaskNotFound
	}
	cp := *task
	return &cp, nil
}

func (r *memTaskRepo) Update(ctx context.Context, task *entities.ScheduledTask) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tasks[task.TenantID][task.ID]; !ok {
		return entities.ErrTaskNotFound
	}
	cp := *task
	r.tasks[task.TenantID][task.ID] = &cp
	return nil
}

func (r *memTaskRepo) Delete(ctx context.Context, tenantID string, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tasks[tenantID][id]; !ok {
		return entities.ErrTaskNotFound
	}
	delete(r.tasks[tenantID], id)
	return nil
}

func (r *memTaskRepo) List(ctx context.Context, tenantID string, filter ports.TaskFilter) ([]*entities.ScheduledTask, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*entities.ScheduledTask, 0)
	for _, task := range r.tasks[tenantID] {
		if filter.SiteID != nil && task.SiteID != *filter.SiteID {
			continue
		}
		if filter.Completed != nil && task.Completed != *filter.Completed {
			continue
		}
		if filter.Priority != nil && task.Priority != *filter.Priority {
			continue
		}
		if filter.DueBefore != nil && !task.DueDate.Before(*filter.DueBefore) {
			continue
		}
		if filter.DueAfter != nil && !task.DueDate.After(*filter.DueAfter) {
			continue
		}
		cp := *task
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DueDate.Before(out[j].DueDate) })
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (r *memTaskRepo) Complete(ctx context.Context, task *entities.ScheduledTask, action *entities.Action) error {
	if err := r.Update(ctx, task); err != nil {
		return err
	}
	return r.actions.Create(ctx, action)
}

func (r *memTaskRepo) PromoteOverdue(ctx context.Context, tenantID string, asOf time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, task := range r.tasks[tenantID] {
		if task.Promote(asOf) {
			n++
		}
	}
	return n, nil
}

func (r *memTaskRepo) Tenants(ctx context.Context) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.tasks))
	for tenant := range r.tasks {
		out = append(out, tenant)
	}
	sort.Strings(out)
	return out, nil
}

type memActionRepo struct {
	mu      sync.Mutex
	actions map[string]map[uuid.UUID]*entities.Action
}

func newMemActionRepo() *memActionRepo {
	return &memActionRepo{actions: make(map[string]map[uuid.UUID]*entities.Action)}
}

func (r *memActionRepo) Create(ctx context.Context, action *entities.Action) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.actions[action.TenantID] == nil {
		r.actions[action.TenantID] = make(map[uuid.UUID]*entities.Action)
	}
	cp := *action
	r.actions[action.TenantID][action.ID] = &cp
	return nil
}

func (r *memActionRepo) CreateBatch(ctx context.Context, actions []*entities.Action) error {
	for _, action := range actions {
		if err := r.Create(ctx, action); err != nil {
			return err
		}
	}
	return nil
}

func (r *memActionRepo) GetByID(ctx context.Context, tenantID string, id uuid.UUID) (*entities.Action, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	action, ok := r.actions[tenantID][id]
	if !ok {
		return nil, entities.ErrActionNotFound
	}
	cp := *action
	return &cp, nil
}

func (r *memActionRepo) List(ctx context.Context, tenantID string, filter ports.ActionFilter) ([]*entities.Action, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*entities.Action, 0)
	for _, action := range r.actions[tenantID] {
		if filter.SiteID != nil && action.SiteID != *filter.SiteID {
			continue
		}
		if filter.Category != nil && action.TaskCategory != *filter.Category {
			continue
		}
		if filter.LoggedBy != nil && action.LoggedBy != *filter.LoggedBy {
			continue
		}
		if filter.Flag != nil && action.Flag != *filter.Flag {
			continue
		}
		if filter.FlaggedOnly && action.Flag == entities.FlagNone {
			continue
		}
		cp := *action
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (r *memActionRepo) UpdateFlag(ctx context.Context, tenantID string, id uuid.UUID, flag entities.ActionFlag) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	action, ok := r.actions[tenantID][id]
	if !ok {
		return entities.ErrActionNotFound
	}
	action.Flag = flag
	return nil
}

func (r *memActionRepo) Delete(ctx context.Context, tenantID string, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.actions[tenantID][id]; !ok {
		return entities.ErrActionNotFound
	}
	delete(r.actions[tenantID], id)
	return nil
}

func (r *memActionRepo) DeleteBatch(ctx context.Context, tenantID string, ids []uuid.UUID) error {
	for _, id := range ids {
		if err := r.Delete(ctx, tenantID, id); err != nil {
			return err
		}
	}
	return nil
}

func (r *memActionRepo) CountByTask(ctx context.Context, tenantID string, taskID int) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, action := range r.actions[tenantID] {
		if action.TaskID == taskID {
			n++
		}
	}
	return n, nil
}

type memCatalogRepo struct {
	mu      sync.Mutex
	entries map[int]*entities.TaskCatalogEntry
	deleted map[int]*entities.DeletedTaskRecord
}

func newMemCatalogRepo() *memCatalogRepo {
	repo := &memCatalogRepo{
		entries: make(map[int]*entities.TaskCatalogEntry),
		deleted: make(map[int]*entities.DeletedTaskRecord),
	}
	for i := range entities.DefaultTaskCatalog {
		entry := entities.DefaultTaskCatalog[i]
		repo.entries[entry.ID] = &entry
	}
	return repo
}

func (r *memCatalogRepo) List(ctx context.Context) ([]*entities.TaskCatalogEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*entities.TaskCatalogEntry, 0, len(r.entries))
	for _, entry := range r.entries {
		cp := *entry
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memCatalogRepo) GetByID(ctx context.Context, id int) (*entities.TaskCatalogEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.entries[id]
	if !ok {
		return nil, entities.ErrCatalogEntryNotFound
	}
	cp := *entry
	return &cp, nil
}

func (r *memCatalogRepo) Create(ctx context.Context, entry *entities.TaskCatalogEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *entry
	r.entries[entry.ID] = &cp
	return nil
}

func (r *memCatalogRepo) Rename(ctx context.Context, id int, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.entries[id]
	if !ok {
		return entities.ErrCatalogEntryNotFound
	}
	entry.Name = name
	return nil
}

func (r *memCatalogRepo) Delete(ctx context.Context, id int, tombstone *entities.DeletedTaskRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.entries[id]; !ok {
		return entities.ErrCatalogEntryNotFound
	}
	delete(r.entries, id)
	cp := *tombstone
	r.deleted[id] = &cp
	return nil
}

func (r *memCatalogRepo) GetDeleted(ctx context.Context, id int) (*entities.DeletedTaskRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	tomb, ok := r.deleted[id]
	if !ok {
		return nil, entities.ErrCatalogEntryNotFound
	}
	cp := *tomb
	return &cp, nil
}

func (r *memCatalogRepo) MaxID(ctx context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	max := 0
	for id := range r.entries {
		if id > max {
			max = id
		}
	}
	for id := range r.deleted {
		if id > max {
			max = id
		}
	}
	return max, nil
}

func (r *memCatalogRepo) Seed(ctx context.Context, entries []entities.TaskCatalogEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range entries {
		if _, ok := r.entries[entries[i].ID]; !ok {
			entry := entries[i]
			r.entries[entry.ID] = &entry
		}
	}
	return nil
}

type memComplianceRepo struct {
	mu       sync.Mutex
	profiles map[string]*entities.ComplianceProfile
	records  map[string]map[int]map[entities.ComplianceObligation]*entities.ComplianceRecord
}

func newMemComplianceRepo() *memComplianceRepo {
	return &memComplianceRepo{
		profiles: make(map[string]*entities.ComplianceProfile),
		records:  make(map[string]map[int]map[entities.ComplianceObligation]*entities.ComplianceRecord),
	}
}

func (r *memComplianceRepo) GetProfile(ctx context.Context, tenantID string) (*entities.ComplianceProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	profile, ok := r.profiles[tenantID]
	if !ok {
		return nil, entities.ErrComplianceProfileNotFound
	}
	cp := *profile
	return &cp, nil
}

func (r *memComplianceRepo) SaveProfile(ctx context.Context, profile *entities.ComplianceProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *profile
	r.profiles[profile.TenantID] = &cp
	return nil
}

func (r *memComplianceRepo) ListRecords(ctx context.Context, tenantID string, year int) ([]*entities.ComplianceRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*entities.ComplianceRecord, 0)
	for _, rec := range r.records[tenantID][year] {
		cp := *rec
		out = append(out, &cp)
	}
	return out, nil
}

func (r *memComplianceRepo) MarkCompleted(ctx context.Context, record *entities.ComplianceRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.records[record.TenantID] == nil {
		r.records[record.TenantID] = make(map[int]map[entities.ComplianceObligation]*entities.ComplianceRecord)
	}
	if r.records[record.TenantID][record.Year] == nil {
		r.records[record.TenantID][record.Year] = make(map[entities.ComplianceObligation]*entities.ComplianceRecord)
	}
	cp := *record
	r.records[record.TenantID][record.Year][record.Obligation] = &cp
	return nil
}

// newTestSite returns a valid production site for the given tenant.
func newTestSite(tenant, name string) *entities.Site {
	return &entities.Site{
		TenantID:   tenant,
		Name:       name,
		Latitude:   -41.28,
		Longitude:  174.77,
		HiveCount:  6,
		HiveStacks: entities.HiveStacks{Doubles: 4, Singles: 2},
		Functional: entities.SiteProduction,
		Seasonal:   entities.SeasonYearRound,
	}
}
