package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "freelancehub/internal/errors"
	"freelancehub/internal/model"
	"freelancehub/internal/repository"
	"freelancehub/internal/storage"
)

// DefaultMaxAvatarBytes bounds avatar uploads when no limit is configured.
const DefaultMaxAvatarBytes int64 = 5 << 20

// ProfileUpdate is a partial profile change. Nil fields are left untouched.
type ProfileUpdate struct {
	FirstName *string
	LastName  *string
	FullName  *string

	Description        *string
	Specialization     *string
	ExperienceLevel    *string
	HourlyRate         *decimal.Decimal
	PortfolioURL       *string
	GithubURL          *string
	LinkedinURL        *string
	Location           *string
	Languages          *[]string
	Education          *[]string
	Certificates       *[]string
	PreferredWorkHours *string
	AvailableForHire   *bool
	SkillIDs           *[]uint
}

// ProfileService manages freelancer profiles and avatars.
type ProfileService interface {
	GetOwn(ctx context.Context, accountID uuid.UUID) (*model.Profile, error)
	GetByUsername(ctx context.Context, username string) (*model.Profile, error)
	Update(ctx context.Context, accountID uuid.UUID, in ProfileUpdate) (*model.Profile, error)
	UploadAvatar(ctx context.Context, accountID uuid.UUID, file io.Reader, size int64) (*model.Account, error)
}

type profileService struct {
	tx             repository.Transactor
	accounts       repository.AccountRepository
	profiles       repository.ProfileRepository
	skills         repository.SkillRepository
	accountService AccountService
	store          storage.Store
	maxAvatarBytes int64
}

// NewProfileService creates a new profile service.
func NewProfileService(
	tx repository.Transactor,
	repos repository.Repositories,
	accountService AccountService,
	store storage.Store,
	maxAvatarBytes int64,
) ProfileService {
	if maxAvatarBytes <= 0 {
		maxAvatarBytes = DefaultMaxAvatarBytes
	}
	return &profileService{
		tx:             tx,
		accounts:       repos.Accounts,
		profiles:       repos.Profiles,
		skills:         repos.Skills,
		accountService: accountService,
		store:          store,
		maxAvatarBytes: maxAvatarBytes,
	}
}

func (s *profileService) GetOwn(ctx context.Context, accountID uuid.UUID) (*model.Profile, error) {
	return s.load(ctx, accountID)
}

func (s *profileService) GetByUsername(ctx context.Context, username string) (*model.Profile, error) {
	account, err := s.accounts.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrProfileNotFound
		}
		return nil, fmt.Errorf("find account: %w", err)
	}
	return s.load(ctx, account.ID)
}

func (s *profileService) load(ctx context.Context, accountID uuid.UUID) (*model.Profile, error) {
	profile, err := s.profiles.FindByAccountID(ctx, accountID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrProfileNotFound
		}
		return nil, fmt.Errorf("find profile: %w", err)
	}
	return profile, nil
}

// Update validates the whole change first and then writes account fields,
// profile fields and the skill set in one transaction.
func (s *profileService) Update(ctx context.Context, accountID uuid.UUID, in ProfileUpdate) (*model.Profile, error) {
	v := in.validate()

	profile, err := s.load(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if profile.Account == nil {
		return nil, apperrors.ErrAccountNotFound
	}

	var skills []model.Skill
	if in.SkillIDs != nil {
		ids := uniqueIDs(*in.SkillIDs)
		skills, err = s.skills.FindByIDs(ctx, ids)
		if err != nil {
			return nil, fmt.Errorf("find skills: %w", err)
		}
		if missing := missingSkillIDs(ids, skills); len(missing) > 0 {
			v.Add("skill_ids", "Invalid skill id(s): "+missing.String()+".")
		}
	}
	if err := v.OrNil(); err != nil {
		return nil, err
	}

	accountChanged := in.applyAccount(profile.Account)
	in.applyProfile(profile)

	err = s.tx.WithTransaction(ctx, func(ctx context.Context, repos repository.Repositories) error {
		if accountChanged {
			acc := profile.Account
			if err := repos.Accounts.UpdateNames(ctx, acc.ID, acc.FirstName, acc.LastName); err != nil {
				return err
			}
		}
		if err := repos.Profiles.Update(ctx, profile); err != nil {
			return err
		}
		if in.SkillIDs != nil {
			return repos.Profiles.ReplaceSkills(ctx, profile, skills)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, model.ErrNegativeRate) {
			return nil, apperrors.FieldError("hourly_rate", err.Error())
		}
		return nil, fmt.Errorf("update profile: %w", err)
	}

	if accountChanged {
		s.accountService.Invalidate(ctx, accountID)
	}
	return s.load(ctx, accountID)
}

// UploadAvatar normalises the image and stores it under a fresh
// avatars/<account-id>/<uuid>.jpg key, then removes the previous file.
// A nil file yields ErrNoFileProvided.
func (s *profileService) UploadAvatar(ctx context.Context, accountID uuid.UUID, file io.Reader, size int64) (*model.Account, error) {
	if file == nil {
		return nil, apperrors.ErrNoFileProvided
	}
	if size > s.maxAvatarBytes {
		return nil, apperrors.FieldError("avatar", fmt.Sprintf("File too large. Maximum size is %d bytes.", s.maxAvatarBytes))
	}

	account, err := s.accounts.FindByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrAccountNotFound
		}
		return nil, fmt.Errorf("find account: %w", err)
	}

	// size may be unknown or wrong, so the read itself is bounded too
	data, err := storage.NormalizeAvatar(io.LimitReader(file, s.maxAvatarBytes+1))
	switch {
	case errors.Is(err, storage.ErrImageTooLarge):
		return nil, apperrors.FieldError("avatar", fmt.Sprintf("Image too large. Maximum is %dx%d pixels.", storage.MaxAvatarSide, storage.MaxAvatarSide))
	case errors.Is(err, storage.ErrInvalidImage):
		return nil, apperrors.FieldError("avatar", "Upload a valid image. The file you uploaded was either not an image or a corrupted image.")
	case err != nil:
		return nil, fmt.Errorf("normalize avatar: %w", err)
	}

	key := avatarKey(accountID)
	if err := s.store.Save(ctx, key, bytes.NewReader(data), int64(len(data)), storage.AvatarContentType); err != nil {
		return nil, fmt.Errorf("store avatar: %w", err)
	}
	if err := s.accounts.UpdateAvatar(ctx, accountID, key); err != nil {
		s.removeAvatar(ctx, key)
		return nil, fmt.Errorf("update avatar: %w", err)
	}
	s.accountService.Invalidate(ctx, accountID)

	if previous := account.AvatarKey(); previous != "" && previous != key {
		s.removeAvatar(ctx, previous)
	}
	account.Avatar = &key
	return account, nil
}

func avatarKey(accountID uuid.UUID) string {
	return "avatars/" + accountID.String() + "/" + uuid.NewString() + ".jpg"
}

// removeAvatar deletes an unreferenced avatar file. Failures only leave an orphan behind.
func (s *profileService) removeAvatar(ctx context.Context, key string) {
	if err := s.store.Delete(ctx, key); err != nil {
		slog.WarnContext(ctx, "delete avatar", "key", key, "error", err)
	}
}

func (in *ProfileUpdate) validate() *apperrors.ValidationError {
	v := apperrors.NewValidationError()

	trim := func(p *string) {
		if p != nil {
			*p = strings.TrimSpace(*p)
		}
	}
	for _, p := range []*string{
		in.FirstName, in.LastName, in.FullName, in.Specialization, in.ExperienceLevel,
		in.PortfolioURL, in.GithubURL, in.LinkedinURL, in.Location, in.PreferredWorkHours,
	} {
		trim(p)
	}

	validateName(v, "first_name", in.FirstName)
	validateName(v, "last_name", in.LastName)
	if in.FullName != nil {
		first, last := model.SplitFullName(*in.FullName)
		validateName(v, "full_name", &first)
		if !v.Has("full_name") {
			validateName(v, "full_name", &last)
		}
	}

	validateMaxLen(v, "specialization", in.Specialization, shortTextMaxLen)
	validateMaxLen(v, "location", in.Location, shortTextMaxLen)
	validateMaxLen(v, "preferred_work_hours", in.PreferredWorkHours, shortTextMaxLen)
	validateExperienceLevel(v, in.ExperienceLevel)
	if in.HourlyRate != nil && in.HourlyRate.IsNegative() {
		v.Add("hourly_rate", "Ensure this value is greater than or equal to 0.")
	}
	validateURL(v, "portfolio_url", in.PortfolioURL)
	validateURL(v, "github_url", in.GithubURL)
	validateURL(v, "linkedin_url", in.LinkedinURL)

	if in.Languages != nil {
		*in.Languages = cleanStringList(v, "languages", *in.Languages)
	}
	if in.Education != nil {
		*in.Education = cleanStringList(v, "education", *in.Education)
	}
	if in.Certificates != nil {
		*in.Certificates = cleanStringList(v, "certificates", *in.Certificates)
	}
	return v
}

// applyAccount copies the name fields onto account and reports whether it changed.
// Explicit first and last names win over the halves of a full name.
func (in *ProfileUpdate) applyAccount(account *model.Account) bool {
	first, last := account.FirstName, account.LastName
	if in.FullName != nil {
		first, last = model.SplitFullName(*in.FullName)
	}
	if in.FirstName != nil {
		first = *in.FirstName
	}
	if in.LastName != nil {
		last = *in.LastName
	}
	if first == account.FirstName && last == account.LastName {
		return false
	}
	account.FirstName, account.LastName = first, last
	return true
}

func (in *ProfileUpdate) applyProfile(p *model.Profile) {
	setString := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	setString(&p.Description, in.Description)
	setString(&p.Specialization, in.Specialization)
	setString(&p.PortfolioURL, in.PortfolioURL)
	setString(&p.GithubURL, in.GithubURL)
	setString(&p.LinkedinURL, in.LinkedinURL)
	setString(&p.Location, in.Location)
	setString(&p.PreferredWorkHours, in.PreferredWorkHours)

	if in.ExperienceLevel != nil {
		p.ExperienceLevel = model.ExperienceLevel(*in.ExperienceLevel)
	}
	if in.HourlyRate != nil {
		rate := in.HourlyRate.Round(2)
		p.HourlyRate = &rate
	}
	if in.Languages != nil {
		p.Languages = *in.Languages
	}
	if in.Education != nil {
		p.Education = *in.Education
	}
	if in.Certificates != nil {
		p.Certificates = *in.Certificates
	}
	if in.AvailableForHire != nil {
		p.AvailableForHire = *in.AvailableForHire
	}
}

type idList []uint

func (l idList) String() string {
	parts := make([]string, len(l))
	for i, id := range l {
		parts[i] = strconv.FormatUint(uint64(id), 10)
	}
	return strings.Join(parts, ", ")
}

func missingSkillIDs(want []uint, found []model.Skill) idList {
	have := make(map[uint]struct{}, len(found))
	for _, s := range found {
		have[s.ID] = struct{}{}
	}
	var missing idList
	for _, id := range want {
		if _, ok := have[id]; !ok {
			missing = append(missing, id)
		}
	}
	sort.Slice(missing, func(i, j int) bool { return missing[i] < missing[j] })
	return missing
}
