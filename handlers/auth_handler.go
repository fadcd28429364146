package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"golang.org/x/crypto/bcrypt"

	"go-convo/backend/models"
	"go-convo/backend/utils"
)

// Register creates an account and, in the same request, the chat user the
// messaging side references. A registered account without a chat profile
// cannot use any conversation endpoint, so the profile is never optional.
func (a *API) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendJSONError(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	if req.Email == "" || req.Username == "" || req.Password == "" {
		sendJSONError(w, "Email, username, and password are required", http.StatusBadRequest)
		return
	}

	ctx := r.Context()

	existing, err := a.store.AccountByEmail(ctx, req.Email)
	if err != nil {
		a.log.WithError(err).Error("Failed to check existing email")
		sendJSONError(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	if existing != nil {
		sendJSONError(w, "Email already registered", http.StatusConflict)
		return
	}

	existing, err = a.store.AccountByUsername(ctx, req.Username)
	if err != nil {
		a.log.WithError(err).Error("Failed to check existing username")
		sendJSONError(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	if existing != nil {
		sendJSONError(w, "Username already taken", http.StatusConflict)
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		a.log.WithError(err).Error("Failed to hash password")
		sendJSONError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	account := models.Account{
		Email:    req.Email,
		Username: req.Username,
		Password: string(hashed),
	}
	if err := a.store.CreateAccount(ctx, &account); err != nil {
		a.log.WithError(err).Error("Failed to create account")
		sendJSONError(w, "Failed to register user", http.StatusInternalServerError)
		return
	}

	chatUser := models.ChatUser{
		AccountID: account.ID,
		Name:      account.Username,
		Email:     account.Email,
		CreatedAt: time.Now(),
	}
	if err := a.store.CreateChatUser(ctx, &chatUser); err != nil {
		a.log.WithError(err).WithField("account_id", account.ID.Hex()).
			Error("Failed to create chat user for new account")
		sendJSONError(w, "Failed to register user", http.StatusInternalServerError)
		return
	}

	a.log.WithField("account_id", account.ID.Hex()).Info("User registered")
	sendJSON(w, http.StatusCreated, map[string]string{
		"message": "User registered successfully",
		"id":      account.ID.Hex(),
	})
}

// Login verifies credentials and issues a session token.
func (a *API) Login(w http.ResponseWriter, r *http.Request) {
	var credentials struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&credentials); err != nil {
		sendJSONError(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	if credentials.Email == "" || credentials.Password == "" {
		sendJSONError(w, "Email and password are required", http.StatusBadRequest)
		return
	}

	account, err := a.store.AccountByEmail(r.Context(), credentials.Email)
	if err != nil {
		a.log.WithError(err).Error("Failed to look up account")
		sendJSONError(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	if account == nil {
		sendJSONError(w, "Invalid credentials", http.StatusUnauthorized)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.Password), []byte(credentials.Password)); err != nil {
		sendJSONError(w, "Invalid credentials", http.StatusUnauthorized)
		return
	}

	token, err := utils.GenerateJWT(*account, a.secret)
	if err != nil {
		a.log.WithError(err).Error("Failed to sign session token")
		sendJSONError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	a.log.WithField("email", account.Email).Info("User logged in")
	sendJSON(w, http.StatusOK, map[string]string{
		"token":    token,
		"id":       account.ID.Hex(),
		"username": account.Username,
	})
}
