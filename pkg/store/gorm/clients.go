package gorm

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/doodlesbykumbi/oauth2-client-authn/pkg/datakey"
	"github.com/doodlesbykumbi/oauth2-client-authn/pkg/model"
	"github.com/doodlesbykumbi/oauth2-client-authn/pkg/store"
)

// Ensure ClientDirectory implements store.ClientDirectory
var _ store.ClientDirectory = (*ClientDirectory)(nil)

// ClientDirectory implements store.ClientDirectory using GORM
type ClientDirectory struct {
	db     *gorm.DB
	cipher datakey.Cipher
}

// NewClientDirectory creates a new ClientDirectory
func NewClientDirectory(db *gorm.DB, cipher datakey.Cipher) *ClientDirectory {
	return &ClientDirectory{db: db, cipher: cipher}
}

// FindByClientID retrieves a registered client and opens its secret
func (s *ClientDirectory) FindByClientID(ctx context.Context, clientID string) (*model.RegisteredClient, error) {
	var rec model.RegisteredClientRecord
	tx := s.db.WithContext(ctx).Where("client_id = ?", clientID).Take(&rec)
	if tx.Error != nil {
		if errors.Is(tx.Error, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", store.ErrClientNotFound, clientID)
		}
		return nil, tx.Error
	}
	return s.fromRecord(&rec)
}

// Save inserts a registered client, sealing its secret
func (s *ClientDirectory) Save(ctx context.Context, client *model.RegisteredClient) error {
	rec, err := s.toRecord(client)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Create(rec).Error
}

// Delete removes a registered client
func (s *ClientDirectory) Delete(ctx context.Context, clientID string) error {
	tx := s.db.WithContext(ctx).Where("client_id = ?", clientID).Delete(&model.RegisteredClientRecord{})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return fmt.Errorf("%w: %s", store.ErrClientNotFound, clientID)
	}
	return nil
}

func (s *ClientDirectory) fromRecord(rec *model.RegisteredClientRecord) (*model.RegisteredClient, error) {
	methods, err := model.SplitMethods(rec.AuthenticationMethods)
	if err != nil {
		return nil, fmt.Errorf("client %s: %w", rec.ClientID, err)
	}

	var secret []byte
	if len(rec.ClientSecret) > 0 {
		secret, err = s.cipher.Decrypt([]byte(rec.ClientID), rec.ClientSecret)
		if err != nil {
			return nil, fmt.Errorf("client %s: failed to decrypt secret: %w", rec.ClientID, err)
		}
	}

	return &model.RegisteredClient{
		ClientID:              rec.ClientID,
		ClientSecret:          string(secret),
		ClientName:            rec.ClientName,
		AuthenticationMethods: methods,
		ClientIDIssuedAt:      rec.ClientIDIssuedAt,
		ClientSecretExpiresAt: rec.ClientSecretExpiresAt,
	}, nil
}

func (s *ClientDirectory) toRecord(client *model.RegisteredClient) (*model.RegisteredClientRecord, error) {
	if client.ClientID == "" {
		return nil, errors.New("client id cannot be empty")
	}

	var sealed []byte
	if client.ClientSecret != "" {
		var err error
		sealed, err = s.cipher.Encrypt([]byte(client.ClientID), []byte(client.ClientSecret))
		if err != nil {
			return nil, fmt.Errorf("client %s: failed to encrypt secret: %w", client.ClientID, err)
		}
	}

	return &model.RegisteredClientRecord{
		ClientID:              client.ClientID,
		ClientSecret:          sealed,
		ClientName:            client.ClientName,
		AuthenticationMethods: model.JoinMethods(client.AuthenticationMethods),
		ClientIDIssuedAt:      client.ClientIDIssuedAt,
		ClientSecretExpiresAt: client.ClientSecretExpiresAt,
	}, nil
}
