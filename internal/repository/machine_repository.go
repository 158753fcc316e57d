package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/gymkit/gym-api/internal/cache"
	"github.com/gymkit/gym-api/internal/config"
	"github.com/gymkit/gym-api/internal/model"
)

const machineCols = "id, name, type, status, created_at, updated_at"

// MachineRepo provides data access for gym machines with read-through
// caching on every finder and invalidate-on-write on every mutation.
type MachineRepo struct {
	db    *sql.DB
	cache *cache.Store
	ttl   config.CacheConfig
}

// NewMachineRepo constructs a MachineRepo with the given DB handle and
// cache store.
func NewMachineRepo(db *sql.DB, store *cache.Store, ttl config.CacheConfig) *MachineRepo {
	return &MachineRepo{db: db, cache: store, ttl: ttl}
}

func scanMachine(row interface{ Scan(...any) error }) (model.Machine, error) {
	var m model.Machine
	err := row.Scan(&m.ID, &m.Name, &m.Type, &m.Status, &m.CreatedAt, &m.UpdatedAt)
	return m, err
}

// FindByID fetches a machine by id, cached at machine:{id}.
func (r *MachineRepo) FindByID(ctx context.Context, id uint64) (model.Machine, error) {
	key := fmt.Sprintf("machine:%d", id)
	var m model.Machine
	if cacheGet(ctx, r.cache, key, &m) {
		return m, nil
	}
	row := r.db.QueryRowContext(ctx,
		"SELECT "+machineCols+" FROM machines WHERE id=? LIMIT 1", id)
	m, err := scanMachine(row)
	if err == sql.ErrNoRows {
		return model.Machine{}, ErrNotFound
	}
	if err != nil {
		return model.Machine{}, err
	}
	cachePut(ctx, r.cache, key, m, r.ttl.EntityTTL)
	return m, nil
}

// FindAll lists every machine, cached at machines:all.
func (r *MachineRepo) FindAll(ctx context.Context) ([]model.Machine, error) {
	return r.cachedList(ctx, "machines:all",
		"SELECT "+machineCols+" FROM machines ORDER BY id")
}

// FindByStatus lists machines with the given status, cached at
// machines:status:{status}.
func (r *MachineRepo) FindByStatus(ctx context.Context, status string) ([]model.Machine, error) {
	return r.cachedList(ctx, "machines:status:"+status,
		"SELECT "+machineCols+" FROM machines WHERE status=? ORDER BY id", status)
}

// FindByType lists machines of the given type, cached at
// machines:type:{type}.
func (r *MachineRepo) FindByType(ctx context.Context, typ string) ([]model.Machine, error) {
	return r.cachedList(ctx, "machines:type:"+typ,
		"SELECT "+machineCols+" FROM machines WHERE type=? ORDER BY id", typ)
}

func (r *MachineRepo) cachedList(ctx context.Context, key, q string, args ...any) ([]model.Machine, error) {
	var ms []model.Machine
	if cacheGet(ctx, r.cache, key, &ms) {
		return ms, nil
	}
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	ms = make([]model.Machine, 0)
	for rows.Next() {
		m, err := scanMachine(rows)
		if err != nil {
			return nil, err
		}
		ms = append(ms, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	cachePut(ctx, r.cache, key, ms, r.ttl.ListTTL)
	return ms, nil
}

// Create inserts a machine and populates its ID.
func (r *MachineRepo) Create(ctx context.Context, m *model.Machine) error {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO machines (name, type, status) VALUES (?,?,?)",
		m.Name, m.Type, m.Status)
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

// Update rewrites the mutable columns of an existing machine.
// Invalidation keys come from the new field values only; the previous
// status or type list stays cached until its TTL runs out.
func (r *MachineRepo) Update(ctx context.Context, m model.Machine) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE machines SET name=?, type=?, status=? WHERE id=?",
		m.Name, m.Type, m.Status, m.ID)
	if err != nil {
		return err
	}
	r.invalidate(ctx, m)
	return nil
}

// Delete removes a machine row.
func (r *MachineRepo) Delete(ctx context.Context, m model.Machine) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM machines WHERE id=?", m.ID); err != nil {
		return err
	}
	r.invalidate(ctx, m)
	return nil
}

func (r *MachineRepo) invalidate(ctx context.Context, m model.Machine) {
	cacheInvalidate(ctx, r.cache, m.InvalidationKeys()...)
}
