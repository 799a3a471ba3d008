// Package contentstore loads item definitions supplied by the content
// layer from Postgres, giving that layer a concrete, swappable backing
// store (internal/content and internal/buildopt have no I/O of their own).
package contentstore

import (
	"encoding/json"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/cafe1231/loadout-optimizer/internal/content"
	"github.com/cafe1231/loadout-optimizer/internal/database"
	"github.com/cafe1231/loadout-optimizer/internal/statmodel"
)

// itemRow mirrors the items table's columns (internal/database/migrations.go).
type itemRow struct {
	ID         string          `db:"id"`
	Name       string          `db:"name"`
	Cost       int             `db:"cost"`
	ItemGroups []string        `db:"item_groups"`
	Tags       []string        `db:"tags"`
	Stats      json.RawMessage `db:"stats"`
}

// Store loads and saves content.Item definitions.
type Store struct {
	db *database.DB
}

// New returns a Store backed by db.
func New(db *database.DB) *Store {
	return &Store{db: db}
}

// LoadPool fetches every item row and builds a content.Pool from them,
// the form internal/buildopt's Settings.Pool expects.
func (s *Store) LoadPool() (*content.Pool, error) {
	var rows []itemRow
	if err := s.db.Select(&rows, `SELECT id, name, cost, item_groups, tags, stats FROM items ORDER BY id`); err != nil {
		return nil, fmt.Errorf("contentstore: load items: %w", err)
	}

	items := make([]content.Item, 0, len(rows))
	for _, row := range rows {
		item, err := rowToItem(row)
		if err != nil {
			return nil, fmt.Errorf("contentstore: decode item %q: %w", row.ID, err)
		}
		items = append(items, item)
	}
	return content.NewPool(items), nil
}

// LoadByIDs fetches exactly the named items, in the order requested, used
// to resolve a job's legendary_items_pool/boots_pool/support_items_pool/
// mandatory_items settings against the stored catalog.
func (s *Store) LoadByIDs(ids []string) ([]content.Item, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var rows []itemRow
	query, args, err := sqlx.In(`SELECT id, name, cost, item_groups, tags, stats FROM items WHERE id IN (?)`, ids)
	if err != nil {
		return nil, fmt.Errorf("contentstore: build query: %w", err)
	}
	if err := s.db.Select(&rows, s.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("contentstore: load items by id: %w", err)
	}

	byID := make(map[string]itemRow, len(rows))
	for _, row := range rows {
		byID[row.ID] = row
	}

	items := make([]content.Item, 0, len(ids))
	for _, id := range ids {
		row, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("contentstore: item %q not found", id)
		}
		item, err := rowToItem(row)
		if err != nil {
			return nil, fmt.Errorf("contentstore: decode item %q: %w", id, err)
		}
		items = append(items, item)
	}
	return items, nil
}

// Put upserts one item definition. Hooks are not persisted: callback
// tables are content-compile-time code, not data, so only the
// stat/tag/group shape of an item is storable here; a content package
// registering the same ID at startup attaches the hook table in code.
func (s *Store) Put(item content.Item) error {
	statsJSON, err := json.Marshal(item.Stats)
	if err != nil {
		return fmt.Errorf("contentstore: marshal stats: %w", err)
	}

	groups := make([]string, len(item.Groups))
	for i, g := range item.Groups {
		groups[i] = string(g)
	}
	tags := make([]string, len(item.Tags))
	for i, t := range item.Tags {
		tags[i] = string(t)
	}

	const query = `
		INSERT INTO items (id, name, cost, item_groups, tags, stats)
		VALUES (:id, :name, :cost, :item_groups, :tags, :stats)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name, cost = EXCLUDED.cost,
			item_groups = EXCLUDED.item_groups, tags = EXCLUDED.tags,
			stats = EXCLUDED.stats`
	_, err = s.db.NamedExec(query, map[string]interface{}{
		"id":          item.ID,
		"name":        item.Name,
		"cost":        item.Cost,
		"item_groups": groups,
		"tags":        tags,
		"stats":       statsJSON,
	})
	if err != nil {
		return fmt.Errorf("contentstore: put item %q: %w", item.ID, err)
	}
	return nil
}

func rowToItem(row itemRow) (content.Item, error) {
	var stats statmodel.UnitStats
	if err := json.Unmarshal(row.Stats, &stats); err != nil {
		return content.Item{}, err
	}

	groups := make([]content.ItemGroup, len(row.ItemGroups))
	for i, g := range row.ItemGroups {
		groups[i] = content.ItemGroup(g)
	}
	tags := make([]content.Tag, len(row.Tags))
	for i, t := range row.Tags {
		tags[i] = content.Tag(t)
	}

	return content.Item{
		ID:     row.ID,
		Name:   row.Name,
		Cost:   row.Cost,
		Groups: groups,
		Tags:   tags,
		Stats:  stats,
	}, nil
}
