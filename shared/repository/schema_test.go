package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"charter/infras/otel/mocks"
	"charter/shared/model"
)

type seatRow struct {
	ID        string `db:"id"`
	Seats     int    `db:"seats_available"`
	RouteName string `db:"route_name" table:"routes" column:"from_label"`
	Ignored   string
	model.Metadata
}

func (seatRow) GetJoinQuery() string {
	return "JOIN routes ON routes.id = time_entries.route_id"
}

func TestBuildSchema(t *testing.T) {
	s := buildSchema[seatRow]("time_entries")

	assert.Equal(t,
		"time_entries.id, time_entries.seats_available, routes.from_label AS route_name, "+
			"time_entries.created_at, time_entries.modified_at, time_entries.created_by, time_entries.modified_by",
		s.selectList)
	assert.Equal(t, []string{"id", "seats_available", "created_at", "modified_at", "created_by", "modified_by"}, s.insertable)
	assert.Equal(t, "JOIN routes ON routes.id = time_entries.route_id", s.join)
}

func TestRepository_Queries(t *testing.T) {
	repo := NewRepository[seatRow]("time entry", "time_entries", "id", nil, mocks.NewOtel())

	assert.Equal(t,
		"INSERT INTO time_entries (id, seats_available, created_at, modified_at, created_by, modified_by) "+
			"VALUES (:id, :seats_available, :created_at, :modified_at, :created_by, :modified_by)",
		repo.insertQuery())

	assert.Equal(t, "time_entries.id, routes.from_label AS route_name", repo.selectList([]string{"id", "route_name", "unknown"}))
	assert.Equal(t, repo.schema.selectList, repo.selectList(nil))
	assert.Equal(t, repo.schema.insertable, repo.InsertColumns())
}
