package users

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bahacan112/satis-yonetim-sistemi-sub001/internal/platform/httpx"
	"github.com/bahacan112/satis-yonetim-sistemi-sub001/internal/rbac"
)

type memoryUsersRepo struct {
	identities  map[int64]NewIdentity
	profiles    map[int64]NewProfile
	guideNames  map[int64]string
	nextID      int64
	failProfile bool
	failDelete  bool
	inTx        bool
}

func newMemoryUsersRepo() *memoryUsersRepo {
	return &memoryUsersRepo{
		identities: make(map[int64]NewIdentity),
		profiles:   make(map[int64]NewProfile),
		guideNames: make(map[int64]string),
	}
}

// WithTx snapshots state and restores it when fn fails, mirroring a
// database rollback.
func (r *memoryUsersRepo) WithTx(ctx context.Context, fn func(context.Context, Repository) error) error {
	identities := make(map[int64]NewIdentity, len(r.identities))
	for k, v := range r.identities {
		identities[k] = v
	}
	profiles := make(map[int64]NewProfile, len(r.profiles))
	for k, v := range r.profiles {
		profiles[k] = v
	}
	savedID := r.nextID

	r.inTx = true
	err := fn(ctx, r)
	r.inTx = false
	if err != nil {
		r.identities = identities
		r.profiles = profiles
		r.nextID = savedID
	}
	return err
}

func (r *memoryUsersRepo) CreateIdentity(ctx context.Context, identity NewIdentity) (int64, error) {
	for _, existing := range r.identities {
		if existing.Email == identity.Email {
			return 0, httpx.ErrDuplicate
		}
	}
	r.nextID++
	r.identities[r.nextID] = identity
	return r.nextID, nil
}

func (r *memoryUsersRepo) DeleteIdentity(ctx context.Context, identityID int64) error {
	if r.failDelete {
		return errors.New("identity delete failed")
	}
	if _, ok := r.identities[identityID]; !ok {
		return httpx.ErrNotFound
	}
	delete(r.identities, identityID)
	return nil
}

func (r *memoryUsersRepo) CreateProfile(ctx context.Context, profile NewProfile) (int64, error) {
	if r.failProfile {
		return 0, errors.New("profile insert failed")
	}
	r.nextID++
	r.profiles[r.nextID] = profile
	return r.nextID, nil
}

func (r *memoryUsersRepo) DeleteProfile(ctx context.Context, profileID int64) error {
	if _, ok := r.profiles[profileID]; !ok {
		return httpx.ErrNotFound
	}
	delete(r.profiles, profileID)
	return nil
}

func (r *memoryUsersRepo) UpdatePassword(ctx context.Context, identityID int64, passwordHash string) error {
	identity, ok := r.identities[identityID]
	if !ok {
		return httpx.ErrNotFound
	}
	identity.PasswordHash = passwordHash
	r.identities[identityID] = identity
	return nil
}

func (r *memoryUsersRepo) GetByGuide(ctx context.Context, guideID int64) (*User, error) {
	for profileID, profile := range r.profiles {
		if profile.GuideID != nil && *profile.GuideID == guideID {
			identity := r.identities[profile.IdentityID]
			return &User{
				ProfileID:  profileID,
				IdentityID: profile.IdentityID,
				Email:      identity.Email,
				FullName:   profile.FullName,
				Role:       profile.Role,
				GuideID:    profile.GuideID,
				IsActive:   true,
			}, nil
		}
	}
	return nil, httpx.ErrNotFound
}

func (r *memoryUsersRepo) List(ctx context.Context) ([]User, error) {
	var users []User
	for profileID, profile := range r.profiles {
		users = append(users, User{ProfileID: profileID, FullName: profile.FullName, Role: profile.Role})
	}
	return users, nil
}

func (r *memoryUsersRepo) LinkedGuideIDs(ctx context.Context) ([]int64, error) {
	var ids []int64
	for _, profile := range r.profiles {
		if profile.GuideID != nil {
			ids = append(ids, *profile.GuideID)
		}
	}
	return ids, nil
}

func (r *memoryUsersRepo) GuideName(ctx context.Context, guideID int64) (string, error) {
	name, ok := r.guideNames[guideID]
	if !ok {
		return "", httpx.ErrNotFound
	}
	return name, nil
}

func TestCreateUserProvisionsIdentityAndProfile(t *testing.T) {
	repo := newMemoryUsersRepo()
	svc := NewService(repo, nil)

	user, err := svc.CreateUser(context.Background(), CreateUserRequest{
		Email:    "ops@satis.local",
		Password: "correcthorse",
		FullName: "Operasyon",
		Role:     rbac.RoleStandard,
	})
	require.NoError(t, err)
	require.NotZero(t, user.ProfileID)
	require.Len(t, repo.identities, 1)
	require.Len(t, repo.profiles, 1)
}

func TestCreateUserIdentityFailureLeavesNoProfile(t *testing.T) {
	repo := newMemoryUsersRepo()
	svc := NewService(repo, nil)

	_, err := svc.CreateUser(context.Background(), CreateUserRequest{
		Email: "dup@satis.local", Password: "correcthorse", FullName: "A", Role: rbac.RoleStandard,
	})
	require.NoError(t, err)

	// Duplicate email aborts before any profile write.
	_, err = svc.CreateUser(context.Background(), CreateUserRequest{
		Email: "dup@satis.local", Password: "correcthorse", FullName: "B", Role: rbac.RoleStandard,
	})
	require.ErrorIs(t, err, httpx.ErrDuplicate)
	require.Len(t, repo.identities, 1)
	require.Len(t, repo.profiles, 1)
}

func TestCreateUserProfileFailureRollsBackIdentity(t *testing.T) {
	repo := newMemoryUsersRepo()
	repo.failProfile = true
	svc := NewService(repo, nil)

	_, err := svc.CreateUser(context.Background(), CreateUserRequest{
		Email: "new@satis.local", Password: "correcthorse", FullName: "C", Role: rbac.RoleStandard,
	})
	require.Error(t, err)
	require.Empty(t, repo.identities, "identity must roll back with the failed profile")
	require.Empty(t, repo.profiles)
}

func TestCreateUserRejectsWeakPassword(t *testing.T) {
	repo := newMemoryUsersRepo()
	svc := NewService(repo, nil)

	_, err := svc.CreateUser(context.Background(), CreateUserRequest{
		Email: "short@satis.local", Password: "kisa", FullName: "D", Role: rbac.RoleStandard,
	})
	require.ErrorIs(t, err, httpx.ErrValidation)
	require.Empty(t, repo.identities)
}

func TestCreateGuideAccountLinksGuideID(t *testing.T) {
	repo := newMemoryUsersRepo()
	repo.guideNames[42] = "Mehmet Yılmaz"
	svc := NewService(repo, nil)

	user, err := svc.CreateGuideAccount(context.Background(), 42, "mehmet@satis.local", "correcthorse", "")
	require.NoError(t, err)
	require.Equal(t, rbac.RoleGuide, user.Role)
	require.NotNil(t, user.GuideID)
	require.Equal(t, int64(42), *user.GuideID)
	// Empty full name falls back to the registry entry.
	require.Equal(t, "Mehmet Yılmaz", user.FullName)
}

func TestCreateGuideAccountRefusesSecondAccount(t *testing.T) {
	repo := newMemoryUsersRepo()
	repo.guideNames[42] = "Mehmet Yılmaz"
	svc := NewService(repo, nil)

	_, err := svc.CreateGuideAccount(context.Background(), 42, "a@satis.local", "correcthorse", "")
	require.NoError(t, err)

	_, err = svc.CreateGuideAccount(context.Background(), 42, "b@satis.local", "correcthorse", "")
	require.ErrorIs(t, err, httpx.ErrDuplicate)
}

func TestCreateGuideAccountUnknownGuide(t *testing.T) {
	repo := newMemoryUsersRepo()
	svc := NewService(repo, nil)

	_, err := svc.CreateGuideAccount(context.Background(), 99, "x@satis.local", "correcthorse", "")
	require.ErrorIs(t, err, httpx.ErrNotFound)
}

func TestRemoveGuideAccountDeletesProfileThenIdentity(t *testing.T) {
	repo := newMemoryUsersRepo()
	repo.guideNames[42] = "Mehmet Yılmaz"
	svc := NewService(repo, nil)

	_, err := svc.CreateGuideAccount(context.Background(), 42, "m@satis.local", "correcthorse", "")
	require.NoError(t, err)

	require.NoError(t, svc.RemoveGuideAccount(context.Background(), 42))
	require.Empty(t, repo.profiles)
	require.Empty(t, repo.identities)
}

func TestRemoveGuideAccountSurfacesInconsistency(t *testing.T) {
	repo := newMemoryUsersRepo()
	repo.guideNames[42] = "Mehmet Yılmaz"
	svc := NewService(repo, nil)

	_, err := svc.CreateGuideAccount(context.Background(), 42, "m@satis.local", "correcthorse", "")
	require.NoError(t, err)

	repo.failDelete = true
	err = svc.RemoveGuideAccount(context.Background(), 42)
	require.ErrorIs(t, err, ErrInconsistentState)
	// The profile is gone, the identity is stranded; that state is reported.
	require.Empty(t, repo.profiles)
	require.Len(t, repo.identities, 1)
}
