package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"smartbin-backend/internal/config"
	"smartbin-backend/internal/middleware"
	"smartbin-backend/pkg/utils"
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	OK    bool   `json:"ok"`
	Token string `json:"token,omitempty"`
	Role  string `json:"role,omitempty"`
}

// Login checks the configured admin credentials and issues a JWT.
func Login(cfg config.Config, log *logrus.Entry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.Error(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		log.Infof("🔐 Login attempt for: %s", req.Email)

		if cfg.Admin.JWTSecret == "" || cfg.Admin.Email == "" || cfg.Admin.PasswordHash == "" {
			log.Error("admin credentials not configured")
			utils.JSON(w, http.StatusInternalServerError, LoginResponse{OK: false})
			return
		}

		if req.Email != cfg.Admin.Email ||
			bcrypt.CompareHashAndPassword([]byte(cfg.Admin.PasswordHash), []byte(req.Password)) != nil {
			log.Infof("❌ Invalid credentials for: %s", req.Email)
			utils.JSON(w, http.StatusUnauthorized, LoginResponse{OK: false})
			return
		}

		token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"email": req.Email,
			"role":  "admin",
			"iat":   time.Now().Unix(),
			"exp":   time.Now().Add(7 * 24 * time.Hour).Unix(),
		})
		tokenString, err := token.SignedString([]byte(cfg.Admin.JWTSecret))
		if err != nil {
			utils.Error(w, http.StatusInternalServerError, "Failed to create token")
			return
		}

		log.Infof("✅ Login successful: %s", req.Email)
		utils.Success(w, LoginResponse{OK: true, Token: tokenString, Role: "admin"})
	}
}

// GetAuthStatus echoes the authenticated identity; must run behind the Auth
// middleware.
func GetAuthStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetUserFromContext(r)
		if !ok {
			utils.Error(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		utils.Success(w, map[string]string{
			"email": claims.Email,
			"role":  claims.Role,
		})
	}
}
