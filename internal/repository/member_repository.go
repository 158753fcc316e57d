package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/gymkit/gym-api/internal/cache"
	"github.com/gymkit/gym-api/internal/config"
	"github.com/gymkit/gym-api/internal/model"
)

const memberCols = "id, first_name, last_name, email, phone, api_key, role, active, joined_at, created_at, updated_at"

// MemberRepo provides data access for members. Reads go through the
// entity cache; writes hit the database first and then invalidate the
// affected keys. Credential lookups for authentication deliberately
// bypass the cache so a deactivated member stops authenticating the
// moment the row changes.
type MemberRepo struct {
	db    *sql.DB
	cache *cache.Store
	ttl   config.CacheConfig
}

// NewMemberRepo constructs a MemberRepo with its database handle and
// cache store. The cache store may wrap a nil Redis client.
func NewMemberRepo(db *sql.DB, store *cache.Store, ttl config.CacheConfig) *MemberRepo {
	return &MemberRepo{db: db, cache: store, ttl: ttl}
}

func scanMember(row interface{ Scan(...any) error }) (model.Member, error) {
	var m model.Member
	err := row.Scan(&m.ID, &m.FirstName, &m.LastName, &m.Email, &m.Phone,
		&m.APIKey, &m.Role, &m.Active, &m.JoinedAt, &m.CreatedAt, &m.UpdatedAt)
	return m, err
}

// FindActiveByKey looks up the member owning the given API key,
// requiring the active flag in the same query. It returns ErrNotFound
// for unknown keys and for keys of inactive members alike; callers must
// not be able to tell the two apart.
func (r *MemberRepo) FindActiveByKey(ctx context.Context, key string) (model.Member, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+memberCols+" FROM members WHERE api_key=? AND active=1 LIMIT 1", key)
	m, err := scanMember(row)
	if err == sql.ErrNoRows {
		return model.Member{}, ErrNotFound
	}
	return m, err
}

// FindByKey looks up a member by API key regardless of active state.
// Used by the admin credential-management endpoints.
func (r *MemberRepo) FindByKey(ctx context.Context, key string) (model.Member, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+memberCols+" FROM members WHERE api_key=? LIMIT 1", key)
	m, err := scanMember(row)
	if err == sql.ErrNoRows {
		return model.Member{}, ErrNotFound
	}
	return m, err
}

// FindByID fetches a member by id, read-through cached at member:{id}.
func (r *MemberRepo) FindByID(ctx context.Context, id uint64) (model.Member, error) {
	key := fmt.Sprintf("member:%d", id)
	var m model.Member
	if cacheGet(ctx, r.cache, key, &m) {
		return m, nil
	}
	row := r.db.QueryRowContext(ctx,
		"SELECT "+memberCols+" FROM members WHERE id=? LIMIT 1", id)
	m, err := scanMember(row)
	if err == sql.ErrNoRows {
		// Misses are never cached; a repeat lookup goes back to the store.
		return model.Member{}, ErrNotFound
	}
	if err != nil {
		return model.Member{}, err
	}
	cachePut(ctx, r.cache, key, m, r.ttl.EntityTTL)
	return m, nil
}

// FindAll lists every member, read-through cached at members:all.
func (r *MemberRepo) FindAll(ctx context.Context) ([]model.Member, error) {
	const key = "members:all"
	var ms []model.Member
	if cacheGet(ctx, r.cache, key, &ms) {
		return ms, nil
	}
	ms, err := r.queryMembers(ctx, "SELECT "+memberCols+" FROM members ORDER BY id")
	if err != nil {
		return nil, err
	}
	cachePut(ctx, r.cache, key, ms, r.ttl.ListTTL)
	return ms, nil
}

// FindByStatus lists members filtered by the status dimension
// ("active" or "inactive"), cached at members:status:{status}.
func (r *MemberRepo) FindByStatus(ctx context.Context, status string) ([]model.Member, error) {
	key := "members:status:" + status
	var ms []model.Member
	if cacheGet(ctx, r.cache, key, &ms) {
		return ms, nil
	}
	ms, err := r.queryMembers(ctx,
		"SELECT "+memberCols+" FROM members WHERE active=? ORDER BY id", status == "active")
	if err != nil {
		return nil, err
	}
	cachePut(ctx, r.cache, key, ms, r.ttl.ListTTL)
	return ms, nil
}

func (r *MemberRepo) queryMembers(ctx context.Context, q string, args ...any) ([]model.Member, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	ms := make([]model.Member, 0)
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, err
		}
		ms = append(ms, m)
	}
	return ms, rows.Err()
}

// Create inserts a member and populates its ID. Email normalization
// happens here so uniqueness is case-insensitive in practice.
func (r *MemberRepo) Create(ctx context.Context, m *model.Member) error {
	m.Email = strings.ToLower(strings.TrimSpace(m.Email))
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO members (first_name, last_name, email, phone, api_key, role, active, joined_at)
		 VALUES (?,?,?,?,?,?,?,?)`,
		m.FirstName, m.LastName, m.Email, m.Phone, m.APIKey, m.Role, m.Active, m.JoinedAt)
	if err != nil {
		if isDuplicate(err) {
			return ErrConflict
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	m.ID = uint64(id)
	r.invalidate(ctx, *m)
	return nil
}

// Update rewrites the mutable profile columns of an existing member and
// invalidates its cache keys. The caller supplies the full desired
// state (handlers merge patches before calling).
func (r *MemberRepo) Update(ctx context.Context, m model.Member) error {
	m.Email = strings.ToLower(strings.TrimSpace(m.Email))
	_, err := r.db.ExecContext(ctx,
		`UPDATE members SET first_name=?, last_name=?, email=?, phone=?, role=?, active=? WHERE id=?`,
		m.FirstName, m.LastName, m.Email, m.Phone, m.Role, m.Active, m.ID)
	if err != nil {
		if isDuplicate(err) {
			return ErrConflict
		}
		return err
	}
	r.invalidate(ctx, m)
	return nil
}

// Delete removes a member according to the configured policy: soft
// deletion flips the active flag, hard deletion drops the row. Either
// way the member's cache keys are invalidated from the post-write
// state.
func (r *MemberRepo) Delete(ctx context.Context, m model.Member, policy config.DeletePolicy) error {
	var err error
	if policy == config.DeleteHard {
		_, err = r.db.ExecContext(ctx, "DELETE FROM members WHERE id=?", m.ID)
	} else {
		_, err = r.db.ExecContext(ctx, "UPDATE members SET active=0 WHERE id=?", m.ID)
		m.Active = false
	}
	if err != nil {
		return err
	}
	r.invalidate(ctx, m)
	return nil
}

// SetActiveByKey toggles the active flag of the member owning the given
// API key and returns the updated record. Used by the admin
// activate/deactivate endpoints.
func (r *MemberRepo) SetActiveByKey(ctx context.Context, key string, active bool) (model.Member, error) {
	m, err := r.FindByKey(ctx, key)
	if err != nil {
		return model.Member{}, err
	}
	if _, err := r.db.ExecContext(ctx,
		"UPDATE members SET active=? WHERE id=?", active, m.ID); err != nil {
		return model.Member{}, err
	}
	m.Active = active
	r.invalidate(ctx, m)
	return m, nil
}

// invalidate deletes every cache key the member's current state maps
// to. Keys computed from pre-write values are not covered; see
// Member.InvalidationKeys.
func (r *MemberRepo) invalidate(ctx context.Context, m model.Member) {
	cacheInvalidate(ctx, r.cache, m.InvalidationKeys()...)
}
