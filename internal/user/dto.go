package user

import "github.com/dunecrest/realty-api/internal/media"

// AccountDTO is the identity block returned by login and profile.
type AccountDTO struct {
	ID      uint   `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Role    string `json:"role"`
	IsAdmin bool   `json:"is_admin"`
	IsAgent bool   `json:"is_agent"`
}

type LoginResponse struct {
	User  AccountDTO `json:"user"`
	Token string     `json:"token"`
}

// PublicAgentDTO is the marketing-site view of an agent: profile fields
// only, photo as an absolute URL, no account data.
type PublicAgentDTO struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Title string `json:"title"`
	Phone string `json:"phone"`
	Bio   string `json:"bio"`
	Photo string `json:"photo,omitempty"`
}

func toAccountDTO(u *User) AccountDTO {
	return AccountDTO{
		ID:      u.ID,
		Name:    u.Name,
		Email:   u.Email,
		Role:    u.Role,
		IsAdmin: u.IsAdmin(),
		IsAgent: u.IsAgent(),
	}
}

func toPublicAgentDTO(u User, origin string) PublicAgentDTO {
	return PublicAgentDTO{
		ID:    u.ID,
		Name:  u.Name,
		Title: u.Title,
		Phone: u.Phone,
		Bio:   u.Bio,
		Photo: media.AbsoluteURL(origin, u.Photo),
	}
}

func toPublicAgentDTOs(users []User, origin string) []PublicAgentDTO {
	out := make([]PublicAgentDTO, 0, len(users))
	for _, u := range users {
		out = append(out, toPublicAgentDTO(u, origin))
	}
	return out
}
