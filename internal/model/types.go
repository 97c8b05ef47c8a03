package model

import "time"

// Author identifies the creator of a public paste.
type Author struct {
	Name      string `json:"name"`
	AvatarURL string `json:"avatarUrl,omitempty"`
}

// PasteSummary is one row of a paste listing. The preview is truncated
// server-side; the full content requires a detail fetch.
type PasteSummary struct {
	ID        string     `json:"id"`
	Title     string     `json:"title,omitempty"`
	Language  string     `json:"language"`
	CreatedAt time.Time  `json:"createdAt"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
	Views     int        `json:"views"`
	Preview   string     `json:"preview"`
	Author    *Author    `json:"author,omitempty"`
}

// Paste is the full detail view of a single paste.
type Paste struct {
	ID        string     `json:"id"`
	Content   string     `json:"content"`
	Title     string     `json:"title,omitempty"`
	Language  string     `json:"language"`
	CreatedAt time.Time  `json:"createdAt"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
	Views     int        `json:"views"`
	URL       string     `json:"url,omitempty"`
	IsOwner   bool       `json:"isOwner"`
	Author    *Author    `json:"author,omitempty"`
}

// IsExpired reports whether the paste's expiry timestamp has passed.
func (p *Paste) IsExpired() bool {
	if p.ExpiresAt == nil {
		return false
	}
	return time.Now().After(*p.ExpiresAt)
}

// DisplayTitle returns the title or the untitled placeholder.
func (p *PasteSummary) DisplayTitle() string {
	if p.Title == "" {
		return "Untitled Paste"
	}
	return p.Title
}

// DisplayTitle returns the title or the untitled placeholder.
func (p *Paste) DisplayTitle() string {
	if p.Title == "" {
		return "Untitled Paste"
	}
	return p.Title
}

// ListResult is the outcome of executing a listing query. It is replaced
// wholesale on every fetch; items are server-ordered per the sort key.
type ListResult struct {
	Items      []PasteSummary `json:"pastes"`
	TotalCount int            `json:"totalCount"`
	TotalPages int            `json:"totalPages"`
}

// UserStats is the owner-scoped aggregate summary shown on the dashboard.
type UserStats struct {
	TotalPastes     int    `json:"totalPastes"`
	TotalViews      int    `json:"totalViews"`
	ActivePastes    int    `json:"activePastes"`
	MostViewedPaste string `json:"mostViewedPaste,omitempty"`
}

// LanguageCount pairs a language tag with how many pastes use it.
type LanguageCount struct {
	Language string `json:"language"`
	Count    int    `json:"count"`
}

// PublicStats is the anonymous aggregate view for the landing page.
type PublicStats struct {
	TotalPastes   int             `json:"totalPastes"`
	TotalViews    int             `json:"totalViews"`
	TopLanguages  []LanguageCount `json:"topLanguages"`
	PopularPastes []PasteSummary  `json:"popularPastes"`
}

// User is the authenticated identity returned by the auth endpoint.
type User struct {
	ID        int64  `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name,omitempty"`
	AvatarURL string `json:"avatarUrl,omitempty"`
	Provider  string `json:"provider"`
}

// DisplayName returns the user's name, falling back to the email address.
func (u *User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	return u.Email
}

// CreatePasteRequest is the payload for creating a paste.
type CreatePasteRequest struct {
	Content   string `json:"content"`
	Title     string `json:"title,omitempty"`
	Language  string `json:"language,omitempty"`
	ExpiresIn string `json:"expiresIn,omitempty"`
}

// UpdatePasteRequest is the partial payload for editing an owned paste.
type UpdatePasteRequest struct {
	Content  string `json:"content"`
	Title    string `json:"title,omitempty"`
	Language string `json:"language,omitempty"`
}
