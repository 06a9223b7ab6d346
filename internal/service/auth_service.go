package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"repairdesk/internal/models"
	"repairdesk/internal/repository"
	"repairdesk/internal/utils"
)

const sessionTTL = 24 * time.Hour

type AuthService struct {
	users         repository.UserRepository
	sessionSecret string
	adminLogin    string
}

func NewAuthService(users repository.UserRepository, sessionSecret, adminLogin string) *AuthService {
	return &AuthService{users: users, sessionSecret: sessionSecret, adminLogin: adminLogin}
}

// Register creates an account with a bcrypt-hashed credential. A taken
// login surfaces as models.ErrDuplicateLogin, never as a silent success.
func (a *AuthService) Register(ctx context.Context, fullName, phone, login, password string, role models.Role) (*models.User, error) {
	fullName = strings.TrimSpace(fullName)
	login = strings.TrimSpace(login)
	if fullName == "" || login == "" || len(password) < 6 {
		return nil, errors.New("invalid input")
	}
	if !role.Valid() {
		return nil, errors.New("unknown role")
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, err
	}
	return a.users.Create(ctx, fullName, strings.TrimSpace(phone), login, hash, role)
}

// Login verifies the credential and issues a session token. An unknown
// login and a bad password both come back as ErrAuthenticationFailed.
// The superuser flag is decided here, once, by login comparison.
func (a *AuthService) Login(ctx context.Context, login, password string) (string, *models.User, error) {
	u, hash, err := a.users.GetByLogin(ctx, login)
	if err != nil {
		return "", nil, err
	}
	if u == nil || !utils.CheckPassword(hash, password) {
		return "", nil, models.ErrAuthenticationFailed
	}
	u.IsAdmin = u.Login == a.adminLogin

	tok, err := utils.SignJWT(a.sessionSecret, u.ID, string(u.Role), u.IsAdmin, sessionTTL)
	if err != nil {
		return "", nil, err
	}
	return tok, u, nil
}
