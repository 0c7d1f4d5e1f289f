package handler

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"freelancehub/internal/model"
	"freelancehub/internal/storage"
)

// MediaResolver turns stored avatar keys into absolute URLs for the current request.
type MediaResolver struct {
	store storage.Store
}

// NewMediaResolver creates a resolver over store.
func NewMediaResolver(store storage.Store) *MediaResolver {
	return &MediaResolver{store: store}
}

// AvatarURL returns nil when key is empty. Relative URLs are resolved against
// the scheme and host of the request.
func (m *MediaResolver) AvatarURL(c echo.Context, key string) *string {
	if key == "" {
		return nil
	}
	u := m.store.URL(key)
	if strings.HasPrefix(u, "/") {
		u = c.Scheme() + "://" + c.Request().Host + u
	}
	return &u
}

// UserResponse is the caller's identity returned by /user and the auth endpoints.
type UserResponse struct {
	ID         uuid.UUID `json:"id" swaggertype:"string" format:"uuid"`
	Username   string    `json:"username"`
	Email      string    `json:"email"`
	FirstName  string    `json:"first_name"`
	LastName   string    `json:"last_name"`
	FullName   string    `json:"full_name"`
	Balance    string    `json:"balance" example:"0.00"`
	Avatar     *string   `json:"avatar"`
	DateJoined time.Time `json:"date_joined"`
}

func (m *MediaResolver) user(c echo.Context, a *model.Account) UserResponse {
	return UserResponse{
		ID:         a.ID,
		Username:   a.Username,
		Email:      a.Email,
		FirstName:  a.FirstName,
		LastName:   a.LastName,
		FullName:   a.FullName(),
		Balance:    a.Balance.StringFixed(2),
		Avatar:     m.AvatarURL(c, a.AvatarKey()),
		DateJoined: a.CreatedAt,
	}
}

// AuthorResponse summarises the author of a task.
type AuthorResponse struct {
	ID       uuid.UUID `json:"id" swaggertype:"string" format:"uuid"`
	Username string    `json:"username"`
	FullName string    `json:"full_name"`
	Avatar   *string   `json:"avatar"`
}

// SkillResponse is a catalog entry.
type SkillResponse struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

func skillResponses(skills []model.Skill) []SkillResponse {
	out := make([]SkillResponse, 0, len(skills))
	for _, s := range skills {
		out = append(out, SkillResponse{ID: s.ID, Name: s.Name})
	}
	return out
}

// ProfileUser is the account part embedded in a profile.
type ProfileUser struct {
	ID        uuid.UUID `json:"id" swaggertype:"string" format:"uuid"`
	Username  string    `json:"username"`
	Email     string    `json:"email,omitempty"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
}

// ProfileResponse is the shape of own and public profiles.
type ProfileResponse struct {
	User               ProfileUser     `json:"user"`
	FullName           string          `json:"full_name"`
	Avatar             *string         `json:"avatar"`
	Description        string          `json:"description"`
	Specialization     string          `json:"specialization"`
	ExperienceLevel    string          `json:"experience_level"`
	HourlyRate         *string         `json:"hourly_rate" example:"45.00"`
	PortfolioURL       string          `json:"portfolio_url"`
	GithubURL          string          `json:"github_url"`
	LinkedinURL        string          `json:"linkedin_url"`
	Location           string          `json:"location"`
	Languages          []string        `json:"languages"`
	Education          []string        `json:"education"`
	Certificates       []string        `json:"certificates"`
	PreferredWorkHours string          `json:"preferred_work_hours"`
	AvailableForHire   bool            `json:"available_for_hire"`
	Rating             string          `json:"rating" example:"0.00"`
	CompletedProjects  int             `json:"completed_projects"`
	Skills             []SkillResponse `json:"skills"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

// profile shapes p; the email is included only for the owner.
func (m *MediaResolver) profile(c echo.Context, p *model.Profile, withEmail bool) ProfileResponse {
	resp := ProfileResponse{
		Description:        p.Description,
		Specialization:     p.Specialization,
		ExperienceLevel:    string(p.ExperienceLevel),
		PortfolioURL:       p.PortfolioURL,
		GithubURL:          p.GithubURL,
		LinkedinURL:        p.LinkedinURL,
		Location:           p.Location,
		Languages:          nonNil(p.Languages),
		Education:          nonNil(p.Education),
		Certificates:       nonNil(p.Certificates),
		PreferredWorkHours: p.PreferredWorkHours,
		AvailableForHire:   p.AvailableForHire,
		Rating:             p.Rating.StringFixed(2),
		CompletedProjects:  p.CompletedProjects,
		Skills:             skillResponses(p.Skills),
		CreatedAt:          p.CreatedAt,
		UpdatedAt:          p.UpdatedAt,
	}
	if p.HourlyRate != nil {
		rate := p.HourlyRate.StringFixed(2)
		resp.HourlyRate = &rate
	}
	if a := p.Account; a != nil {
		resp.User = ProfileUser{ID: a.ID, Username: a.Username, FirstName: a.FirstName, LastName: a.LastName}
		if withEmail {
			resp.User.Email = a.Email
		}
		resp.FullName = a.FullName()
		resp.Avatar = m.AvatarURL(c, a.AvatarKey())
	}
	return resp
}

// TaskResponse is the shape of a task.
type TaskResponse struct {
	ID          uint            `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Budget      string          `json:"budget" example:"150.00"`
	Deadline    string          `json:"deadline" example:"2025-01-01"`
	Skills      []string        `json:"skills"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	Author      *AuthorResponse `json:"author"`
	AuthorName  string          `json:"author_name"`
}

func (m *MediaResolver) task(c echo.Context, t *model.Task) TaskResponse {
	resp := TaskResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Budget:      t.Budget.StringFixed(2),
		Deadline:    t.Deadline.Format(model.DateLayout),
		Skills:      nonNil(t.Skills),
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
	if a := t.Author; a != nil {
		resp.Author = &AuthorResponse{
			ID:       a.ID,
			Username: a.Username,
			FullName: a.FullName(),
			Avatar:   m.AvatarURL(c, a.AvatarKey()),
		}
		resp.AuthorName = a.Username
	}
	return resp
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
