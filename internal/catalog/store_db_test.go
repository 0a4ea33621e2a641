package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgresStore_List(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"id", "name", "popularity_score", "weight", "images"}).
		AddRow(1, "Ring A", 60, 2.0, []byte(`{"yellow":"a.jpg"}`)).
		AddRow(2, "Ring B", 15.5, 3.25, nil)
	mock.ExpectQuery("SELECT id, name, popularity_score, weight, images\\s+FROM products").WillReturnRows(rows)

	products, err := NewPostgresStore(db).List(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 2)

	assert.Equal(t, Product{ID: 1, Name: "Ring A", PopularityScore: 60, Weight: 2, Images: map[string]string{"yellow": "a.jpg"}}, products[0])
	assert.Equal(t, 15.5, products[1].PopularityScore)
	assert.Nil(t, products[1].Images)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_ListKeepsDisplayOrder(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"id", "name", "popularity_score", "weight", "images"}).
		AddRow(7, "Featured", 90, 1.5, nil).
		AddRow(2, "Classic", 40, 2.0, nil).
		AddRow(5, "Pave", 70, 3.0, nil)
	mock.ExpectQuery("ORDER BY position ASC, id ASC").WillReturnRows(rows)

	products, err := NewPostgresStore(db).List(context.Background())
	require.NoError(t, err)

	ids := make([]int, 0, len(products))
	for _, p := range products {
		ids = append(ids, p.ID)
	}
	assert.Equal(t, []int{7, 2, 5}, ids)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_ListMissingTable(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("FROM products").WillReturnError(&pgconn.PgError{Code: pgUndefinedTable, Message: `relation "products" does not exist`})

	_, err = NewPostgresStore(db).List(context.Background())
	assert.ErrorIs(t, err, ErrSchemaMissing)
}

func TestPostgresStore_ListBadImages(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("FROM products").WillReturnRows(
		sqlmock.NewRows([]string{"id", "name", "popularity_score", "weight", "images"}).
			AddRow(1, "Ring", 10, 1.0, []byte(`[1,2]`)),
	)

	_, err = NewPostgresStore(db).List(context.Background())
	assert.Error(t, err)
	assert.False(t, errors.Is(err, ErrSchemaMissing))
}

func TestSnapshot_ValidatesRows(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("FROM products").WillReturnRows(
		sqlmock.NewRows([]string{"id", "name", "popularity_score", "weight", "images"}).
			AddRow(1, "Ring", 10, 0.0, nil),
	)

	_, err = Snapshot(context.Background(), NewPostgresStore(db))
	assert.ErrorIs(t, err, ErrBadWeight)
}

func TestPostgresStore_Ping(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectPing()
	assert.NoError(t, NewPostgresStore(db).Ping(context.Background()))
}
