package postgres_test

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"

	"charter/config"
	"charter/infras/postgres"
)

func TestEndpoint_DSN(t *testing.T) {
	tests := []struct {
		name     string
		endpoint postgres.Endpoint
		extra    url.Values
		want     string
	}{
		{
			name:     "plain",
			endpoint: postgres.Endpoint{Host: "db", Port: "5432", Username: "charter", Password: "secret", Name: "charter"},
			want:     "postgres://charter:secret@db:5432/charter",
		},
		{
			name: "ssl and timezone",
			endpoint: postgres.Endpoint{
				Host: "db", Port: "5432", Username: "charter", Password: "secret", Name: "charter",
				SSLMode: "disable", Timezone: "Africa/Dar_es_Salaam",
			},
			want: "postgres://charter:secret@db:5432/charter?sslmode=disable&timezone=Africa%2FDar_es_Salaam",
		},
		{
			name:     "password is escaped",
			endpoint: postgres.Endpoint{Host: "db", Port: "5432", Username: "charter", Password: "p@ss/word", Name: "charter"},
			want:     "postgres://charter:p%40ss%2Fword@db:5432/charter",
		},
		{
			name:     "extra options",
			endpoint: postgres.Endpoint{Host: "db", Port: "5432", Username: "charter", Password: "secret", Name: "charter", SSLMode: "require"},
			extra:    url.Values{"x-migrations-table": {"schema_migrations"}},
			want:     "postgres://charter:secret@db:5432/charter?sslmode=require&x-migrations-table=schema_migrations",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.endpoint.DSN(tt.extra))
		})
	}
}

func TestEndpoints_UsePrefix(t *testing.T) {
	cfg := &config.Config{}
	cfg.DB.Postgres.Prefix = "staging_"
	cfg.DB.Postgres.Read.Name = "charter"
	cfg.DB.Postgres.Write.Name = "charter"

	assert.Equal(t, "staging_charter", postgres.ReadEndpoint(cfg).Name)
	assert.Equal(t, "read", postgres.ReadEndpoint(cfg).Role)
	assert.Equal(t, "staging_charter", postgres.WriteEndpoint(cfg).Name)
	assert.Equal(t, "write", postgres.WriteEndpoint(cfg).Role)
}
