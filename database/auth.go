package database

import (
	"bytes"
	"context"

	"github.com/go-webauthn/webauthn/webauthn"
	pkgerrors "github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/jovidjumaev/fsas.github.io-sub002/models"
)

var ErrCredentialNotFound = pkgerrors.New("credential not found")

func (s *Store) CreateUser(ctx context.Context, srn string) (models.User, error) {
	user := models.User{SRN: srn}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		return user, pkgerrors.Wrap(err, "store.CreateUser")
	}
	return user, nil
}

func (s *Store) GetUser(ctx context.Context, srn string) (models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("srn = ?", srn).First(&user).Error
	if err != nil {
		if pkgerrors.Is(err, gorm.ErrRecordNotFound) {
			return user, gorm.ErrRecordNotFound
		}
		return user, pkgerrors.Wrap(err, "store.GetUser")
	}
	return user, nil
}

func (s *Store) AddCredential(ctx context.Context, srn string, credential *webauthn.Credential) error {
	user, err := s.GetUser(ctx, srn)
	if err != nil {
		return err
	}
	user.Credentials = append(user.Credentials, *credential)
	return pkgerrors.Wrap(s.db.WithContext(ctx).Save(&user).Error, "store.AddCredential")
}

func (s *Store) UpdateCredential(ctx context.Context, srn string, credential *webauthn.Credential) error {
	user, err := s.GetUser(ctx, srn)
	if err != nil {
		return err
	}

	updated := false
	for i, existing := range user.Credentials {
		if bytes.Equal(existing.ID, credential.ID) {
			user.Credentials[i] = *credential
			updated = true
			break
		}
	}
	if !updated {
		return ErrCredentialNotFound
	}
	return pkgerrors.Wrap(s.db.WithContext(ctx).Save(&user).Error, "store.UpdateCredential")
}
