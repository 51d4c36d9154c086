// Package model defines database models for persistence layer.
package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/expense-tracker/backend/internal/domain/entity"
)

// UserModel represents the users table in the database.
type UserModel struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Email          string     `gorm:"type:varchar(255);uniqueIndex;not null"`
	Name           string     `gorm:"type:varchar(100);not null"`
	PasswordHash   string     `gorm:"type:varchar(255);not null"`
	AccountType    string     `gorm:"type:varchar(20);not null;default:'simple';index"`
	ResetOTPHash   string     `gorm:"type:varchar(255)"`
	ResetOTPExpiry *time.Time `gorm:"type:timestamptz"`
	CreatedAt      time.Time  `gorm:"not null"`
	UpdatedAt      time.Time  `gorm:"not null"`
}

// TableName returns the table name for the UserModel.
func (UserModel) TableName() string {
	return "users"
}

// ToEntity converts a UserModel to a domain User entity.
func (m *UserModel) ToEntity() *entity.User {
	return &entity.User{
		ID:             m.ID,
		Email:          m.Email,
		Name:           m.Name,
		PasswordHash:   m.PasswordHash,
		AccountType:    entity.AccountType(m.AccountType),
		ResetOTPHash:   m.ResetOTPHash,
		ResetOTPExpiry: m.ResetOTPExpiry,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

// UserModelFromEntity creates a UserModel from a domain User entity.
func UserModelFromEntity(user *entity.User) *UserModel {
	return &UserModel{
		ID:             user.ID,
		Email:          entity.NormalizeEmail(user.Email),
		Name:           user.Name,
		PasswordHash:   user.PasswordHash,
		AccountType:    string(user.AccountType),
		ResetOTPHash:   user.ResetOTPHash,
		ResetOTPExpiry: user.ResetOTPExpiry,
		CreatedAt:      user.CreatedAt,
		UpdatedAt:      user.UpdatedAt,
	}
}
