package services

import (
	"errors"
	"testing"

	"goagent-server/models"

	"gorm.io/gorm"
)

type fakeProfileStore struct {
	users      map[uint]*models.User
	createErr  error
	findErr    error
	createdIDs []uint
}

func newFakeProfileStore() *fakeProfileStore {
	return &fakeProfileStore{users: map[uint]*models.User{}}
}

func (s *fakeProfileStore) FindByID(id uint) (*models.User, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	if u, ok := s.users[id]; ok {
		copy := *u
		return &copy, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *fakeProfileStore) Create(user *models.User) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.users[user.ID] = user
	s.createdIDs = append(s.createdIDs, user.ID)
	return nil
}

func TestGetOrRepairProfileReturnsExistingRow(t *testing.T) {
	store := newFakeProfileStore()
	signed := true
	store.users[7] = &models.User{
		Model:           gorm.Model{ID: 7},
		FullName:        "John Doe",
		Role:            models.RoleAdmin,
		AgreementSigned: &signed,
	}

	ps := &ProfileService{Store: store}
	user, err := ps.GetOrRepairProfile(SessionIdentity{ID: 7, FullName: "Stale Name"})
	if err != nil {
		t.Fatalf("GetOrRepairProfile: %v", err)
	}

	if user.FullName != "John Doe" || user.Role != models.RoleAdmin {
		t.Errorf("existing row not returned as-is: %+v", user)
	}
	if len(store.createdIDs) != 0 {
		t.Error("repair ran although the row existed")
	}
}

func TestGetOrRepairProfileRepairsMissingRow(t *testing.T) {
	store := newFakeProfileStore()

	ps := &ProfileService{Store: store}
	user, err := ps.GetOrRepairProfile(SessionIdentity{
		ID:       11,
		FullName: "Sarah Williams",
		Email:    "sarah@example.com",
		Phone:    "2349055667788",
		State:    "Rivers",
	})
	if err != nil {
		t.Fatalf("GetOrRepairProfile: %v", err)
	}

	if user.Role != models.RoleAgent {
		t.Errorf("repaired role = %s, want AGENT", user.Role)
	}
	if user.HasSignedAgreement() {
		t.Error("repaired profile must start unsigned")
	}
	if user.Email != "sarah@example.com" || user.FullName != "Sarah Williams" {
		t.Errorf("session metadata not carried over: %+v", user)
	}

	// The repair must persist the row as a side effect
	if len(store.createdIDs) != 1 || store.createdIDs[0] != 11 {
		t.Errorf("created ids = %v, want [11]", store.createdIDs)
	}
}

func TestGetOrRepairProfileFallsBackInMemory(t *testing.T) {
	store := newFakeProfileStore()
	store.createErr = errors.New("connection refused")

	ps := &ProfileService{Store: store}
	user, err := ps.GetOrRepairProfile(SessionIdentity{ID: 3, Email: "x@example.com"})
	if err != nil {
		t.Fatalf("expected in-memory fallback, got error: %v", err)
	}

	if user == nil || user.ID != 3 || user.Role != models.RoleAgent {
		t.Errorf("fallback user = %+v", user)
	}
	if len(store.users) != 0 {
		t.Error("nothing should have been persisted")
	}
}

func TestGetOrRepairProfileSurfacesReadErrors(t *testing.T) {
	store := newFakeProfileStore()
	store.findErr = errors.New("network unreachable")

	ps := &ProfileService{Store: store}
	if _, err := ps.GetOrRepairProfile(SessionIdentity{ID: 1}); err == nil {
		t.Fatal("a non-not-found read error must surface, not trigger repair")
	}
}
