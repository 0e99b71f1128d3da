package httpx

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/AngelCh415/attributely-go/internal/auth"
	"github.com/AngelCh415/attributely-go/internal/models"
	"github.com/AngelCh415/attributely-go/internal/store"
	"github.com/AngelCh415/attributely-go/internal/utils"
)

// bcrypt no acepta más de 72 bytes
type registerRequest struct {
	Email       string `json:"email" validate:"required,email,max=255"`
	Password    string `json:"password" validate:"required,min=6,max=72"`
	CompanyName string `json:"company_name" validate:"max=255"`
	Industry    string `json:"industry" validate:"max=255"`
}

func (r *registerRequest) normalize() {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	UserID      string `json:"user_id"`
	PixelID     string `json:"pixel_id,omitempty"`
}

func (a *api) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decode(w, r, &req) {
		return
	}
	hash, err := auth.HashPassword(req.Password)
	if errors.Is(err, auth.ErrPasswordTooLong) {
		utils.WriteError(w, http.StatusBadRequest, "password must be at most 72 bytes")
		return
	}
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "could not hash password")
		return
	}
	u := &models.User{
		ID:           uuid.NewString(),
		Email:        req.Email,
		PasswordHash: hash,
		CompanyName:  req.CompanyName,
		Industry:     req.Industry,
		CreatedAt:    a.now().UTC(),
	}
	if err := a.Store.CreateUser(r.Context(), u); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			utils.WriteError(w, http.StatusConflict, "Email already registered")
			return
		}
		a.Log.Error("register failed", slog.String("err", err.Error()))
		utils.WriteError(w, http.StatusInternalServerError, "registration error")
		return
	}
	tok, err := a.JWT.Generate(u.ID, u.Email)
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "could not issue token")
		return
	}
	utils.WriteJSON(w, http.StatusCreated, tokenResponse{
		AccessToken: tok,
		TokenType:   "bearer",
		UserID:      u.ID,
		PixelID:     "attr_" + u.ID[:8],
	})
}

func (a *api) login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !decode(w, r, &req) {
		return
	}
	u, err := a.Store.UserByEmail(r.Context(), strings.TrimSpace(req.Email))
	if err != nil || !auth.CheckPassword(u.PasswordHash, req.Password) {
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			a.Log.Error("login lookup failed", slog.String("err", err.Error()))
		}
		utils.WriteError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	tok, err := a.JWT.Generate(u.ID, u.Email)
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "could not issue token")
		return
	}
	writeJSON(w, tokenResponse{AccessToken: tok, TokenType: "bearer", UserID: u.ID})
}

type campaignRequest struct {
	Name      string          `json:"name" validate:"required,max=255"`
	Platform  string          `json:"platform" validate:"required,max=50"`
	Budget    float64         `json:"budget" validate:"gte=0"`
	StartDate time.Time       `json:"start_date"`
	EndDate   *time.Time      `json:"end_date" validate:"omitempty,gtefield=StartDate"`
	Targeting json.RawMessage `json:"targeting"`
	Status    string          `json:"status" validate:"max=20"`
}

func (c *campaignRequest) normalize() {
	c.Name = strings.TrimSpace(c.Name)
	c.Platform = strings.ToLower(strings.TrimSpace(c.Platform))
	c.Status = strings.TrimSpace(c.Status)
}

func (a *api) createCampaign(w http.ResponseWriter, r *http.Request) {
	var req campaignRequest
	if !decode(w, r, &req) {
		return
	}
	c := &models.Campaign{
		ID:        uuid.NewString(),
		UserID:    utils.Claims(r.Context()).Subject,
		Name:      req.Name,
		Platform:  req.Platform,
		Budget:    req.Budget,
		StartDate: req.StartDate.UTC(),
		EndDate:   req.EndDate,
		Targeting: string(req.Targeting),
		Status:    req.Status,
		CreatedAt: a.now().UTC(),
	}
	if c.Status == "" {
		c.Status = "draft"
	}
	if err := a.Store.CreateCampaign(r.Context(), c); err != nil {
		utils.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.WriteJSON(w, http.StatusCreated, map[string]string{"campaign_id": c.ID, "status": "created"})
}

func (a *api) listCampaigns(w http.ResponseWriter, r *http.Request) {
	cs, err := a.Store.CampaignsByUser(r.Context(), utils.Claims(r.Context()).Subject)
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if cs == nil {
		cs = []models.Campaign{}
	}
	writeJSON(w, cs)
}
