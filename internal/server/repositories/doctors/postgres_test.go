package doctors

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const listQuery = `(?s)^SELECT dni, first_name, last_name, speciality, email, gender FROM doctors ORDER BY last_name, first_name$`

func TestList(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"dni", "first_name", "last_name", "speciality", "email", "gender"}).
		AddRow("20123456", "Luis", "Alvarez", "Neumonologia", "luis@clinic.test", "M").
		AddRow("27123456", "Maria", "Perez", "Radiologia", "maria@clinic.test", "F")
	mock.ExpectQuery(listQuery).WillReturnRows(rows)

	got, err := NewPostgresRepository(db).List(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Alvarez", got[0].LastName)
	assert.Equal(t, "Radiologia", got[1].Speciality)
}

func TestList_Empty(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(listQuery).WillReturnRows(sqlmock.NewRows([]string{"dni", "first_name", "last_name", "speciality", "email", "gender"}))

	got, err := NewPostgresRepository(db).List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestList_DBError(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(listQuery).WillReturnError(errors.New("db down"))

	_, err = NewPostgresRepository(db).List(context.Background())
	assert.ErrorContains(t, err, "db error: db down")
}
