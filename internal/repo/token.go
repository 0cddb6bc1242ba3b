package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/Skotchmaster/foodmarket/internal/hash"
	"github.com/Skotchmaster/foodmarket/internal/models"
)

func (r *GormRepo) AddRefreshToken(ctx context.Context, t *models.RefreshToken) error {
	return r.DB.WithContext(ctx).Create(t).Error
}

func (r *GormRepo) FindRefreshByJTI(ctx context.Context, jti string) (*models.RefreshToken, error) {
	var token models.RefreshToken
	if err := r.DB.WithContext(ctx).Where("jti = ?", jti).First(&token).Error; err != nil {
		return nil, err
	}
	return &token, nil
}

func refreshExpiredOrRevoked(tx *gorm.DB, jti, tokenHash string, now time.Time) (bool, error) {
	var refresh models.RefreshToken
	if err := tx.Where("jti = ?", jti).First(&refresh).Error; err != nil {
		return false, err
	}
	if refresh.Token != tokenHash || refresh.Revoked || !refresh.ExpiresAt.After(now) {
		return true, nil
	}
	return false, nil
}

// RotateRefreshToken revokes oldJTI and stores newToken in one transaction.
func (r *GormRepo) RotateRefreshToken(ctx context.Context, oldJTI, oldToken string, newToken *models.RefreshToken, now time.Time) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		expired, err := refreshExpiredOrRevoked(tx, oldJTI, hash.Sha256Hex(oldToken), now)
		if err != nil {
			return err
		}
		if expired {
			return ErrTokenInvalid
		}

		res := tx.Model(&models.RefreshToken{}).
			Where("jti = ? AND revoked = ?", oldJTI, false).
			Update("revoked", true)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected != 1 {
			return ErrTokenInvalid
		}

		return tx.Create(newToken).Error
	})
}

func (r *GormRepo) RevokeRefreshToken(ctx context.Context, refreshToken string) error {
	return r.DB.WithContext(ctx).Model(&models.RefreshToken{}).
		Where("token = ?", hash.Sha256Hex(refreshToken)).
		Update("revoked", true).Error
}

func (r *GormRepo) CreateResetToken(ctx context.Context, t *models.PasswordResetToken) error {
	return r.DB.WithContext(ctx).Create(t).Error
}

// ConsumeResetToken marks the token used, stores the new password hash and
// revokes every refresh token of the owner. A token is consumable once.
func (r *GormRepo) ConsumeResetToken(ctx context.Context, tokenHash, passwordHash string, now time.Time) (uint, error) {
	var userID uint
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var t models.PasswordResetToken
		if err := tx.Where("token_hash = ?", tokenHash).First(&t).Error; err != nil {
			return err
		}
		if t.UsedAt != nil || !t.ExpiresAt.After(now) {
			return ErrTokenInvalid
		}

		res := tx.Model(&models.PasswordResetToken{}).
			Where("id = ? AND used_at IS NULL", t.ID).
			Update("used_at", now)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected != 1 {
			return ErrTokenInvalid
		}

		res = tx.Model(&models.User{}).Where("id = ?", t.UserID).Update("password_hash", passwordHash)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		if err := tx.Model(&models.RefreshToken{}).
			Where("user_id = ?", t.UserID).
			Update("revoked", true).Error; err != nil {
			return err
		}
		userID = t.UserID
		return nil
	})
	return userID, err
}
