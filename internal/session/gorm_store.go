package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"lingodocs-be/internal/model"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// GormStore is the primary, database-backed session store.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Get(ctx context.Context, sid string) (*Session, error) {
	var row model.Session
	err := s.db.WithContext(ctx).Where("sid = ?", sid).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	if !time.Now().Before(row.ExpiresAt) {
		// Lazy expiry: remove on read, the sweep catches the rest.
		_ = s.db.WithContext(ctx).Where("sid = ?", sid).Delete(&model.Session{}).Error
		return nil, nil
	}

	var principal Principal
	if err := json.Unmarshal(row.Data, &principal); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", sid, err)
	}

	return &Session{
		Sid:       row.Sid,
		Principal: principal,
		ExpiresAt: row.ExpiresAt,
	}, nil
}

func (s *GormStore) Set(ctx context.Context, sess *Session) error {
	data, err := json.Marshal(sess.Principal)
	if err != nil {
		return fmt.Errorf("encode session %s: %w", sess.Sid, err)
	}
	row := model.Session{
		Sid:       sess.Sid,
		Data:      datatypes.JSON(data),
		ExpiresAt: sess.ExpiresAt,
	}
	return s.db.WithContext(ctx).Save(&row).Error
}

func (s *GormStore) Destroy(ctx context.Context, sid string) error {
	return s.db.WithContext(ctx).Where("sid = ?", sid).Delete(&model.Session{}).Error
}

func (s *GormStore) Touch(ctx context.Context, sid string, expiresAt time.Time) error {
	return s.db.WithContext(ctx).Model(&model.Session{}).
		Where("sid = ?", sid).
		Update("expires_at", expiresAt).Error
}

// DestroyByUser matches on the serialized user id. A LIKE over the JSON text
// keeps the query portable between postgres and the sqlite test fixtures.
func (s *GormStore) DestroyByUser(ctx context.Context, userId uuid.UUID) error {
	pattern := `%"user_id":"` + userId.String() + `"%`
	return s.db.WithContext(ctx).Where("data LIKE ?", pattern).Delete(&model.Session{}).Error
}

func (s *GormStore) Cleanup(ctx context.Context, now time.Time) (int64, error) {
	res := s.db.WithContext(ctx).Where("expires_at <= ?", now).Delete(&model.Session{})
	return res.RowsAffected, res.Error
}

// Ping checks database liveness; the resilient wrapper uses it to decide
// when to leave fallback mode.
func (s *GormStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.WithContext(ctx).DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
