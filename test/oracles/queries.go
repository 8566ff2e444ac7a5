// Package oracles defines invariant queries over the reports table. Each
// oracle returns rows only when the invariant is violated; the stress test
// runs them periodically while the actors hammer the database.
package oracles

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Oracle struct {
	Name string
	SQL  string
}

func All() []Oracle {
	return []Oracle{
		{
			Name: "O1_coords_paired",
			SQL: `SELECT id, latitude, longitude FROM reports
                  WHERE (latitude IS NULL) <> (longitude IS NULL)`,
		},
		{
			Name: "O2_updated_not_before_created",
			SQL: `SELECT id, created_at, updated_at FROM reports
                  WHERE updated_at < created_at`,
		},
		{
			Name: "O3_name_valid",
			SQL: `SELECT id, name FROM reports
                  WHERE name !~ '^[A-Za-zΑ-Ωα-ωΆ-Ώά-ώ[:space:]]+$' OR length(name) < 5`,
		},
		{
			Name: "O4_phone_digits_only",
			SQL:  `SELECT id, telephone FROM reports WHERE telephone !~ '^[0-9]+$'`,
		},
		{
			Name: "O5_photo_ref_never_empty",
			SQL:  `SELECT id FROM reports WHERE photo_ref = ''`,
		},
	}
}

// Run executes all oracles and returns the first failure (name and sample row text) or empty name if all pass.
func Run(ctx context.Context, pool *pgxpool.Pool) (string, string, error) {
	for _, o := range All() {
		rows, err := pool.Query(ctx, o.SQL)
		if err != nil {
			return o.Name, "", fmt.Errorf("oracle %s: %w", o.Name, err)
		}
		has := rows.Next()
		if has {
			vals, err := rows.Values()
			rows.Close()
			if err != nil {
				return o.Name, "", err
			}
			return o.Name, fmt.Sprintf("%v", vals), nil
		}
		rows.Close()
	}
	return "", "", nil
}
