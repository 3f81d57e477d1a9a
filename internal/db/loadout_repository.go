package db

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/udisondev/idkfx/internal/loadout"
)

// LoadoutRepository implements loadout.Repository on PostgreSQL.
// Abilities and items live in child tables and keep their order through a
// position column.
type LoadoutRepository struct {
	db *pgxpool.Pool
}

func NewLoadoutRepository(db *pgxpool.Pool) *LoadoutRepository {
	return &LoadoutRepository{db: db}
}

var _ loadout.Repository = (*LoadoutRepository)(nil)

// Load reads a loadout with its abilities and items.
func (r *LoadoutRepository) Load(ctx context.Context, name string) (*loadout.Loadout, error) {
	l := &loadout.Loadout{Name: name}
	err := r.db.QueryRow(ctx,
		`SELECT archetype, catalog_version, updated_at FROM loadouts WHERE name = $1`,
		name,
	).Scan(&l.Archetype, &l.CatalogVersion, &l.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", loadout.ErrNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("querying loadout %q: %w", name, err)
	}
	l.UpdatedAt = l.UpdatedAt.UTC()

	rows, err := r.db.Query(ctx,
		`SELECT ability FROM loadout_abilities WHERE loadout_name = $1 ORDER BY position`,
		name,
	)
	if err != nil {
		return nil, fmt.Errorf("querying abilities for loadout %q: %w", name, err)
	}
	l.Abilities, err = pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("scanning abilities for loadout %q: %w", name, err)
	}

	rows, err = r.db.Query(ctx,
		`SELECT item, count FROM loadout_items WHERE loadout_name = $1 ORDER BY position`,
		name,
	)
	if err != nil {
		return nil, fmt.Errorf("querying items for loadout %q: %w", name, err)
	}
	defer rows.Close()

	for rows.Next() {
		var it loadout.ItemStack
		if err := rows.Scan(&it.Name, &it.Count); err != nil {
			return nil, fmt.Errorf("scanning item row: %w", err)
		}
		l.Items = append(l.Items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating item rows: %w", err)
	}

	if len(l.Abilities) == 0 {
		l.Abilities = nil
	}
	return l, nil
}

// Save creates or replaces a loadout in one transaction.
func (r *LoadoutRepository) Save(ctx context.Context, l *loadout.Loadout) error {
	if err := l.Validate(); err != nil {
		return err
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() {
		// Rollback after commit is expected to fail.
		_ = tx.Rollback(ctx)
	}()

	_, err = tx.Exec(ctx, `
		INSERT INTO loadouts (name, archetype, catalog_version, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (name) DO UPDATE SET
			archetype       = EXCLUDED.archetype,
			catalog_version = EXCLUDED.catalog_version,
			updated_at      = EXCLUDED.updated_at`,
		l.Name, l.Archetype, l.CatalogVersion, l.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upserting loadout %q: %w", l.Name, err)
	}

	if err := saveAbilities(ctx, tx, l); err != nil {
		return err
	}
	if err := saveItems(ctx, tx, l); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing loadout %q: %w", l.Name, err)
	}

	slog.Debug("saved loadout",
		"name", l.Name,
		"abilities", len(l.Abilities),
		"items", len(l.Items))
	return nil
}

func saveAbilities(ctx context.Context, tx pgx.Tx, l *loadout.Loadout) error {
	if _, err := tx.Exec(ctx, `DELETE FROM loadout_abilities WHERE loadout_name = $1`, l.Name); err != nil {
		return fmt.Errorf("deleting abilities for loadout %q: %w", l.Name, err)
	}
	if len(l.Abilities) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for i, ability := range l.Abilities {
		batch.Queue(
			`INSERT INTO loadout_abilities (loadout_name, ability, position) VALUES ($1, $2, $3)`,
			l.Name, ability, i,
		)
	}
	br := tx.SendBatch(ctx, batch)
	for range l.Abilities {
		if _, err := br.Exec(); err != nil {
			br.Close()
			return fmt.Errorf("inserting ability for loadout %q: %w", l.Name, err)
		}
	}
	if err := br.Close(); err != nil {
		return fmt.Errorf("closing ability batch: %w", err)
	}
	return nil
}

func saveItems(ctx context.Context, tx pgx.Tx, l *loadout.Loadout) error {
	if _, err := tx.Exec(ctx, `DELETE FROM loadout_items WHERE loadout_name = $1`, l.Name); err != nil {
		return fmt.Errorf("deleting items for loadout %q: %w", l.Name, err)
	}
	if len(l.Items) == 0 {
		return nil
	}

	rows := make([][]any, 0, len(l.Items))
	for i, it := range l.Items {
		rows = append(rows, []any{l.Name, it.Name, int32(it.Count), int32(i)})
	}
	_, err := tx.CopyFrom(ctx,
		pgx.Identifier{"loadout_items"},
		[]string{"loadout_name", "item", "count", "position"},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return fmt.Errorf("inserting items for loadout %q: %w", l.Name, err)
	}
	return nil
}

// Delete removes a loadout. Abilities and items are cascade-deleted.
func (r *LoadoutRepository) Delete(ctx context.Context, name string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM loadouts WHERE name = $1`, name)
	if err != nil {
		return fmt.Errorf("deleting loadout %q: %w", name, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", loadout.ErrNotFound, name)
	}
	return nil
}

// List returns every loadout name in byte order.
func (r *LoadoutRepository) List(ctx context.Context) ([]string, error) {
	rows, err := r.db.Query(ctx, `SELECT name FROM loadouts ORDER BY name COLLATE "C"`)
	if err != nil {
		return nil, fmt.Errorf("querying loadout names: %w", err)
	}
	names, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("scanning loadout names: %w", err)
	}
	return names, nil
}
