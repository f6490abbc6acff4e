package postgres

import (
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrateURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"postgres://u:p@db:5432/x?sslmode=disable", "pgx5://u:p@db:5432/x?sslmode=disable"},
		{"postgresql://u@db/x", "pgx5://u@db/x"},
		{"pgx5://u@db/x", "pgx5://u@db/x"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, migrateURL(tt.in))
	}
}

func TestMigrationsEmbedded(t *testing.T) {
	names, err := fs.Glob(migrationsFS, "migrations/*.sql")
	require.NoError(t, err)
	assert.Contains(t, names, "migrations/000001_init.up.sql")
	assert.Contains(t, names, "migrations/000001_init.down.sql")
	assert.Contains(t, names, "migrations/000002_payroll_withholdings.up.sql")
	assert.Contains(t, names, "migrations/000002_payroll_withholdings.down.sql")
}
