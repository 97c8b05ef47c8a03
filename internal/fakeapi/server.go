// Package fakeapi is an in-memory Pasteor API server used by integration
// and end-to-end tests. It implements the client's full REST contract with
// real pagination, filtering, and ownership semantics, but keeps everything
// in process memory.
package fakeapi

import (
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pasteor/pasteor-cli/internal/model"
)

const previewLen = 120

type storedPaste struct {
	model.Paste
	OwnerToken string
}

// Server is an in-memory paste API bound to an httptest listener.
type Server struct {
	mu     sync.Mutex
	pastes map[string]*storedPaste
	users  map[string]model.User // token -> user

	httpSrv *httptest.Server
}

// New starts a fake API server. Call Close when done.
func New() *Server {
	gin.SetMode(gin.TestMode)
	s := &Server{
		pastes: make(map[string]*storedPaste),
		users:  make(map[string]model.User),
	}

	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/api/pastes/recent", s.handleRecent)
	r.GET("/api/pastes/my", s.handleMyPastes)
	r.GET("/api/pastes/:id", s.handleGetPaste)
	r.POST("/api/pastes", s.handleCreate)
	r.PUT("/api/pastes/:id", s.handleUpdate)
	r.DELETE("/api/pastes/:id", s.handleDelete)
	r.GET("/api/stats/me", s.handleUserStats)
	r.GET("/api/languages/me", s.handleUserLanguages)
	r.GET("/api/stats/public", s.handlePublicStats)
	r.GET("/api/auth/me", s.handleMe)

	s.httpSrv = httptest.NewServer(r)
	return s
}

// URL returns the server's base URL.
func (s *Server) URL() string { return s.httpSrv.URL }

// Close shuts the server down.
func (s *Server) Close() { s.httpSrv.Close() }

// AddUser registers a token and the identity it resolves to.
func (s *Server) AddUser(token string, user model.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[token] = user
}

// PasteCount reports how many pastes are stored, for test assertions.
func (s *Server) PasteCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pastes)
}

func bearerToken(c *gin.Context) string {
	h := c.GetHeader("Authorization")
	if strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	return ""
}

// authed resolves the request's bearer token, failing the request with 401
// when it is missing or unknown.
func (s *Server) authed(c *gin.Context) (string, bool) {
	token := bearerToken(c)
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return "", false
	}
	s.mu.Lock()
	_, known := s.users[token]
	s.mu.Unlock()
	if !known {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return "", false
	}
	return token, true
}

func parseExpiry(expiresIn string, now time.Time) *time.Time {
	var d time.Duration
	switch expiresIn {
	case "1h":
		d = time.Hour
	case "24h":
		d = 24 * time.Hour
	case "7d":
		d = 7 * 24 * time.Hour
	case "30d":
		d = 30 * 24 * time.Hour
	default:
		return nil
	}
	at := now.Add(d)
	return &at
}

func preview(content string) string {
	if len(content) <= previewLen {
		return content
	}
	return content[:previewLen]
}

func (s *Server) summarize(p *storedPaste, withAuthor bool) model.PasteSummary {
	sum := model.PasteSummary{
		ID:        p.ID,
		Title:     p.Title,
		Language:  p.Language,
		CreatedAt: p.CreatedAt,
		ExpiresAt: p.ExpiresAt,
		Views:     p.Views,
		Preview:   preview(p.Content),
	}
	if withAuthor && p.OwnerToken != "" {
		if u, ok := s.users[p.OwnerToken]; ok {
			sum.Author = &model.Author{Name: u.DisplayName(), AvatarURL: u.AvatarURL}
		}
	}
	return sum
}

func (s *Server) handleCreate(c *gin.Context) {
	var req model.CreatePasteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.Content == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "content is required"})
		return
	}
	if len(req.Content) > model.MaxContentBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "content exceeds the 512KB limit"})
		return
	}

	language := req.Language
	if language == "" {
		language = "plaintext"
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	p := &storedPaste{
		Paste: model.Paste{
			ID:        uuid.NewString(),
			Content:   req.Content,
			Title:     req.Title,
			Language:  language,
			CreatedAt: now,
			ExpiresAt: parseExpiry(req.ExpiresIn, now),
		},
		OwnerToken: bearerToken(c),
	}
	p.URL = s.httpSrv.URL + "/api/pastes/" + p.ID
	s.pastes[p.ID] = p

	out := p.Paste
	out.IsOwner = p.OwnerToken != ""
	c.JSON(http.StatusCreated, out)
}

func (s *Server) handleGetPaste(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.pastes[c.Param("id")]
	if !ok || p.IsExpired() {
		c.JSON(http.StatusNotFound, gin.H{"error": "paste not found"})
		return
	}

	p.Views++

	out := p.Paste
	token := bearerToken(c)
	out.IsOwner = token != "" && token == p.OwnerToken
	if p.OwnerToken != "" {
		if u, ok := s.users[p.OwnerToken]; ok {
			out.Author = &model.Author{Name: u.DisplayName(), AvatarURL: u.AvatarURL}
		}
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) handleUpdate(c *gin.Context) {
	token, ok := s.authed(c)
	if !ok {
		return
	}

	var req model.UpdatePasteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p, exists := s.pastes[c.Param("id")]
	if !exists {
		c.JSON(http.StatusNotFound, gin.H{"error": "paste not found"})
		return
	}
	if p.OwnerToken != token {
		c.JSON(http.StatusForbidden, gin.H{"error": "you can only edit your own pastes"})
		return
	}

	if req.Content != "" {
		p.Content = req.Content
	}
	p.Title = req.Title
	if req.Language != "" {
		p.Language = req.Language
	}

	out := p.Paste
	out.IsOwner = true
	c.JSON(http.StatusOK, out)
}

func (s *Server) handleDelete(c *gin.Context) {
	token, ok := s.authed(c)
	if !ok {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p, exists := s.pastes[c.Param("id")]
	if !exists {
		c.JSON(http.StatusNotFound, gin.H{"error": "paste not found"})
		return
	}
	if p.OwnerToken != token {
		c.JSON(http.StatusForbidden, gin.H{"error": "you can only delete your own pastes"})
		return
	}

	delete(s.pastes, p.ID)
	c.Status(http.StatusNoContent)
}

func (s *Server) handleRecent(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if limit <= 0 {
		limit = 10
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	live := s.livePastes()
	sort.Slice(live, func(i, j int) bool { return live[i].CreatedAt.After(live[j].CreatedAt) })
	if len(live) > limit {
		live = live[:limit]
	}

	out := make([]model.PasteSummary, len(live))
	for i, p := range live {
		out[i] = s.summarize(p, true)
	}
	c.JSON(http.StatusOK, gin.H{"pastes": out})
}

func (s *Server) handleMyPastes(c *gin.Context) {
	token, ok := s.authed(c)
	if !ok {
		return
	}

	search := strings.ToLower(c.Query("search"))
	language := c.Query("language")
	sortBy := c.DefaultQuery("sortBy", "date")
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", strconv.Itoa(model.DefaultPageSize)))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = model.DefaultPageSize
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var mine []*storedPaste
	for _, p := range s.livePastes() {
		if p.OwnerToken != token {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(p.Title), search) &&
			!strings.Contains(strings.ToLower(p.Content), search) {
			continue
		}
		if language != "" && language != model.AllLanguages && p.Language != language {
			continue
		}
		mine = append(mine, p)
	}

	switch sortBy {
	case "views":
		sort.Slice(mine, func(i, j int) bool { return mine[i].Views > mine[j].Views })
	case "title":
		sort.Slice(mine, func(i, j int) bool {
			return strings.ToLower(mine[i].Title) < strings.ToLower(mine[j].Title)
		})
	default:
		sort.Slice(mine, func(i, j int) bool { return mine[i].CreatedAt.After(mine[j].CreatedAt) })
	}

	totalCount := len(mine)
	totalPages := (totalCount + pageSize - 1) / pageSize
	if totalPages < 1 {
		totalPages = 1
	}

	start := (page - 1) * pageSize
	if start > totalCount {
		start = totalCount
	}
	end := start + pageSize
	if end > totalCount {
		end = totalCount
	}

	items := make([]model.PasteSummary, 0, end-start)
	for _, p := range mine[start:end] {
		items = append(items, s.summarize(p, false))
	}

	c.JSON(http.StatusOK, model.ListResult{
		Items:      items,
		TotalCount: totalCount,
		TotalPages: totalPages,
	})
}

func (s *Server) handleUserStats(c *gin.Context) {
	token, ok := s.authed(c)
	if !ok {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stats := model.UserStats{}
	mostViews := -1
	for _, p := range s.pastes {
		if p.OwnerToken != token {
			continue
		}
		stats.TotalPastes++
		stats.TotalViews += p.Views
		if !p.IsExpired() {
			stats.ActivePastes++
		}
		if p.Views > mostViews {
			mostViews = p.Views
			stats.MostViewedPaste = p.ID
		}
	}
	c.JSON(http.StatusOK, stats)
}

func (s *Server) handleUserLanguages(c *gin.Context) {
	token, ok := s.authed(c)
	if !ok {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[string]bool)
	var languages []string
	for _, p := range s.pastes {
		if p.OwnerToken == token && !seen[p.Language] {
			seen[p.Language] = true
			languages = append(languages, p.Language)
		}
	}
	sort.Strings(languages)
	c.JSON(http.StatusOK, gin.H{"languages": languages})
}

func (s *Server) handlePublicStats(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := model.PublicStats{}
	byLanguage := make(map[string]int)
	var popular []*storedPaste

	for _, p := range s.livePastes() {
		stats.TotalPastes++
		stats.TotalViews += p.Views
		byLanguage[p.Language]++
		popular = append(popular, p)
	}

	for lang, n := range byLanguage {
		stats.TopLanguages = append(stats.TopLanguages, model.LanguageCount{Language: lang, Count: n})
	}
	sort.Slice(stats.TopLanguages, func(i, j int) bool {
		if stats.TopLanguages[i].Count != stats.TopLanguages[j].Count {
			return stats.TopLanguages[i].Count > stats.TopLanguages[j].Count
		}
		return stats.TopLanguages[i].Language < stats.TopLanguages[j].Language
	})

	sort.Slice(popular, func(i, j int) bool { return popular[i].Views > popular[j].Views })
	if len(popular) > 5 {
		popular = popular[:5]
	}
	for _, p := range popular {
		stats.PopularPastes = append(stats.PopularPastes, s.summarize(p, true))
	}

	c.JSON(http.StatusOK, stats)
}

func (s *Server) handleMe(c *gin.Context) {
	token := bearerToken(c)
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[token]
	if token == "" || !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}
	c.JSON(http.StatusOK, user)
}

// livePastes returns all non-expired pastes. Callers hold s.mu.
func (s *Server) livePastes() []*storedPaste {
	out := make([]*storedPaste, 0, len(s.pastes))
	for _, p := range s.pastes {
		if !p.IsExpired() {
			out = append(out, p)
		}
	}
	return out
}
