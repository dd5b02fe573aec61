package gorm

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/doodlesbykumbi/oauth2-client-authn/pkg/datakey"
	"github.com/doodlesbykumbi/oauth2-client-authn/pkg/model"
	"github.com/doodlesbykumbi/oauth2-client-authn/pkg/store"
)

var clientColumns = []string{
	"client_id", "client_secret", "client_name",
	"authentication_methods", "client_id_issued_at", "client_secret_expires_at",
}

func setupTestDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, datakey.Cipher) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = mockDB.Close() })

	gormDB, err := gorm.Open(
		postgres.New(postgres.Config{
			Conn:                 mockDB,
			PreferSimpleProtocol: true,
		}),
		&gorm.Config{
			Logger:                 logger.Default.LogMode(logger.Silent),
			SkipDefaultTransaction: true,
		},
	)
	require.NoError(t, err)

	dataKey := make([]byte, datakey.KeySize)
	for i := range dataKey {
		dataKey[i] = byte(i)
	}
	cipher, err := datakey.NewSymmetric(dataKey)
	require.NoError(t, err)

	return gormDB, mock, cipher
}

func TestClientDirectory_FindByClientID(t *testing.T) {
	db, mock, cipher := setupTestDB(t)
	dir := NewClientDirectory(db, cipher)

	sealed, err := cipher.Encrypt([]byte("web-client"), []byte("secret"))
	require.NoError(t, err)
	issued := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows(clientColumns).
		AddRow("web-client", sealed, "Web Client", "client_secret_basic,client_secret_post", issued, nil)
	mock.ExpectQuery(`SELECT \* FROM "oauth2_registered_clients" WHERE client_id = \$1`).
		WithArgs("web-client").
		WillReturnRows(rows)

	client, err := dir.FindByClientID(context.Background(), "web-client")
	require.NoError(t, err)
	assert.Equal(t, "web-client", client.ClientID)
	assert.Equal(t, "secret", client.ClientSecret)
	assert.Equal(t, "Web Client", client.ClientName)
	assert.Equal(t, []model.AuthenticationMethod{model.MethodClientSecretBasic, model.MethodClientSecretPost}, client.AuthenticationMethods)
	assert.True(t, issued.Equal(client.ClientIDIssuedAt))
	assert.Nil(t, client.ClientSecretExpiresAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClientDirectory_FindByClientID_NotFound(t *testing.T) {
	db, mock, cipher := setupTestDB(t)
	dir := NewClientDirectory(db, cipher)

	mock.ExpectQuery(`SELECT \* FROM "oauth2_registered_clients"`).
		WithArgs("nonexistent").
		WillReturnRows(sqlmock.NewRows(clientColumns))

	_, err := dir.FindByClientID(context.Background(), "nonexistent")
	assert.ErrorIs(t, err, store.ErrClientNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClientDirectory_FindByClientID_DatabaseError(t *testing.T) {
	db, mock, cipher := setupTestDB(t)
	dir := NewClientDirectory(db, cipher)

	mock.ExpectQuery(`SELECT \* FROM "oauth2_registered_clients"`).
		WithArgs("web-client").
		WillReturnError(errors.New("connection reset"))

	_, err := dir.FindByClientID(context.Background(), "web-client")
	require.Error(t, err)
	assert.False(t, errors.Is(err, store.ErrClientNotFound))
	assert.Contains(t, err.Error(), "connection reset")
}

func TestClientDirectory_FindByClientID_SecretSealedForOtherClient(t *testing.T) {
	db, mock, cipher := setupTestDB(t)
	dir := NewClientDirectory(db, cipher)

	sealed, err := cipher.Encrypt([]byte("other-client"), []byte("secret"))
	require.NoError(t, err)

	rows := sqlmock.NewRows(clientColumns).
		AddRow("web-client", sealed, "", "", time.Now(), nil)
	mock.ExpectQuery(`SELECT \* FROM "oauth2_registered_clients"`).
		WithArgs("web-client").
		WillReturnRows(rows)

	_, err = dir.FindByClientID(context.Background(), "web-client")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decrypt secret")
	assert.False(t, errors.Is(err, store.ErrClientNotFound))
}

func TestClientDirectory_FindByClientID_PublicClient(t *testing.T) {
	db, mock, cipher := setupTestDB(t)
	dir := NewClientDirectory(db, cipher)

	rows := sqlmock.NewRows(clientColumns).
		AddRow("spa-client", nil, "SPA", "none", time.Now(), nil)
	mock.ExpectQuery(`SELECT \* FROM "oauth2_registered_clients"`).
		WithArgs("spa-client").
		WillReturnRows(rows)

	client, err := dir.FindByClientID(context.Background(), "spa-client")
	require.NoError(t, err)
	assert.Empty(t, client.ClientSecret)
	assert.Equal(t, []model.AuthenticationMethod{model.MethodNone}, client.AuthenticationMethods)
}

func TestClientDirectory_Save(t *testing.T) {
	db, mock, cipher := setupTestDB(t)
	dir := NewClientDirectory(db, cipher)

	mock.ExpectExec(`INSERT INTO "oauth2_registered_clients"`).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := dir.Save(context.Background(), &model.RegisteredClient{
		ClientID:     "web-client",
		ClientSecret: "secret",
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClientDirectory_Save_EmptyID(t *testing.T) {
	db, _, cipher := setupTestDB(t)
	dir := NewClientDirectory(db, cipher)

	err := dir.Save(context.Background(), &model.RegisteredClient{})
	assert.ErrorContains(t, err, "cannot be empty")
}

func TestClientDirectory_Delete(t *testing.T) {
	db, mock, cipher := setupTestDB(t)
	dir := NewClientDirectory(db, cipher)

	mock.ExpectExec(`DELETE FROM "oauth2_registered_clients" WHERE client_id = \$1`).
		WithArgs("web-client").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM "oauth2_registered_clients" WHERE client_id = \$1`).
		WithArgs("web-client").
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, dir.Delete(context.Background(), "web-client"))
	assert.ErrorIs(t, dir.Delete(context.Background(), "web-client"), store.ErrClientNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordRoundTrip(t *testing.T) {
	_, _, cipher := setupTestDB(t)
	dir := NewClientDirectory(nil, cipher)

	expires := time.Now().Add(time.Hour)
	client := &model.RegisteredClient{
		ClientID:              "web-client",
		ClientSecret:          "{noop}secret",
		AuthenticationMethods: []model.AuthenticationMethod{model.MethodClientSecretPost},
		ClientSecretExpiresAt: &expires,
	}

	rec, err := dir.toRecord(client)
	require.NoError(t, err)
	assert.NotContains(t, string(rec.ClientSecret), "secret")
	assert.Equal(t, "client_secret_post", rec.AuthenticationMethods)

	back, err := dir.fromRecord(rec)
	require.NoError(t, err)
	assert.Equal(t, client, back)
}
