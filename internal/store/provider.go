package store

import (
	"context"

	"appointment-booking-api/internal/model"
)

func (s *Store) ListProviders(ctx context.Context) ([]model.Provider, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, name, specialty, COALESCE(bio, ''), created_at
		 FROM providers ORDER BY id`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Provider
	for rows.Next() {
		var p model.Provider
		if err := rows.Scan(&p.ID, &p.Name, &p.Specialty, &p.Bio, &p.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *Store) GetProvider(ctx context.Context, id string) (*model.Provider, error) {
	p := &model.Provider{}
	err := s.pool.QueryRow(ctx,
		`SELECT id, name, specialty, COALESCE(bio, ''), created_at
		 FROM providers WHERE id = $1`, id,
	).Scan(&p.ID, &p.Name, &p.Specialty, &p.Bio, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// SeedProviders inserts the initial provider records once; reruns are no-ops.
func (s *Store) SeedProviders(ctx context.Context, providers []model.Provider) error {
	var count int
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM providers`).Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, p := range providers {
		_, err = tx.Exec(ctx,
			`INSERT INTO providers (id, name, specialty, bio) VALUES ($1,$2,$3,$4)`,
			p.ID, p.Name, p.Specialty, p.Bio,
		)
		if err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}
