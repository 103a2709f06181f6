package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/jeeace/jeeace/internal/testconfig"
)

// kvRepo implements KVRepo over the kv table.
type kvRepo struct {
	drv *entsql.Driver
	now func() time.Time
}

func (r *kvRepo) clock() time.Time {
	if r.now != nil {
		return r.now().UTC()
	}
	return time.Now().UTC()
}

func (r *kvRepo) Get(ctx context.Context, key string) (string, bool, error) {
	query, args := entsql.Dialect(r.drv.Dialect()).
		Select("value").
		From(entsql.Table(kvTable)).
		Where(entsql.EQ("key", key)).
		Query()

	rows := &entsql.Rows{}
	if err := r.drv.Query(ctx, query, args, rows); err != nil {
		return "", false, fmt.Errorf("query kv %q: %w", key, err)
	}
	defer rows.Close()

	var values []string
	if err := entsql.ScanSlice(rows, &values); err != nil {
		return "", false, fmt.Errorf("scan kv %q: %w", key, err)
	}
	if len(values) == 0 {
		return "", false, nil
	}
	return values[0], true, nil
}

func (r *kvRepo) Put(ctx context.Context, key, value string) error {
	query, args := entsql.Dialect(r.drv.Dialect()).
		Insert(kvTable).
		Columns("key", "value", "updated_at").
		Values(key, value, r.clock()).
		OnConflict(
			entsql.ConflictColumns("key"),
			entsql.ResolveWithNewValues(),
		).
		Query()

	if err := r.drv.Exec(ctx, query, args, nil); err != nil {
		return fmt.Errorf("put kv %q: %w", key, err)
	}
	return nil
}

func (r *kvRepo) Delete(ctx context.Context, key string) error {
	query, args := entsql.Dialect(r.drv.Dialect()).
		Delete(kvTable).
		Where(entsql.EQ("key", key)).
		Query()

	if err := r.drv.Exec(ctx, query, args, nil); err != nil {
		return fmt.Errorf("delete kv %q: %w", key, err)
	}
	return nil
}

func (r *kvRepo) LoadTest(ctx context.Context, key string) (*testconfig.TestConfiguration, error) {
	raw, ok, err := r.Get(ctx, key)
	if err != nil || !ok {
		return nil, err
	}
	var cfg testconfig.TestConfiguration
	if err := json.Unmarshal([]byte(raw), &cfg); err != nil {
		return nil, fmt.Errorf("decode test %q: %w", key, err)
	}
	return &cfg, nil
}

func (r *kvRepo) SaveTest(ctx context.Context, key string, cfg *testconfig.TestConfiguration) error {
	raw, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode test: %w", err)
	}
	return r.Put(ctx, key, string(raw))
}
