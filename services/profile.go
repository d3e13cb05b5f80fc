package services

import (
	"errors"
	"log"

	"goagent-server/models"

	"gorm.io/gorm"
)

// ProfileStore is the slice of persistence the profile service needs.
// Kept as an interface so the repair branches are testable without a
// database.
type ProfileStore interface {
	FindByID(id uint) (*models.User, error)
	Create(user *models.User) error
}

type GormProfileStore struct {
	DB *gorm.DB
}

func (s *GormProfileStore) FindByID(id uint) (*models.User, error) {
	var user models.User
	if err := s.DB.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *GormProfileStore) Create(user *models.User) error {
	return s.DB.Create(user).Error
}

// SessionIdentity is what the access token knows about an authenticated
// user, enough to rebuild a missing profile row.
type SessionIdentity struct {
	ID       uint
	FullName string
	Email    string
	Phone    string
	State    string
}

type ProfileService struct {
	Store ProfileStore
}

func NewProfileService(db *gorm.DB) *ProfileService {
	return &ProfileService{Store: &GormProfileStore{DB: db}}
}

// GetOrRepairProfile is a self-healing read. A signed-up identity can lack
// a profile row (a crash between account creation and profile insert); in
// that case the row is synthesized from session metadata and persisted.
// If even the persist fails, the in-memory user is returned so a valid
// session never hard-fails on sign-in.
func (ps *ProfileService) GetOrRepairProfile(ident SessionIdentity) (*models.User, error) {
	user, err := ps.Store.FindByID(ident.ID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	repaired := &models.User{
		Model:           gorm.Model{ID: ident.ID},
		FullName:        ident.FullName,
		Email:           ident.Email,
		Phone:           ident.Phone,
		StateLocation:   ident.State,
		Role:            models.RoleAgent,
		AgreementSigned: boolPtr(false),
	}
	if repaired.FullName == "" {
		repaired.FullName = "User"
	}

	if createErr := ps.Store.Create(repaired); createErr != nil {
		log.Printf("profile repair for user %d failed, serving in-memory fallback: %v", ident.ID, createErr)
	}
	return repaired, nil
}

func boolPtr(b bool) *bool { return &b }
