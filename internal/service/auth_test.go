package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"zapis/config"
	"zapis/internal/domain"
)

type userRepoStub struct {
	users     []domain.User
	passwords map[int64]string
	deleted   []int64
}

func (u *userRepoStub) Create(ctx context.Context, dto domain.CreateUserDTO) (int64, error) {
	user := domain.User{
		ID:           int64(len(u.users) + 1),
		FirstName:    dto.FirstName,
		LastName:     dto.LastName,
		Email:        dto.Email,
		Phone:        dto.Phone,
		PasswordHash: dto.Password,
		Role:         dto.Role,
		OrgID:        dto.OrgID,
		IsActive:     true,
	}
	u.users = append(u.users, user)
	return user.ID, nil
}

func (u *userRepoStub) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	for i := range u.users {
		if u.users[i].ID == id {
			copied := u.users[i]
			return &copied, nil
		}
	}
	return nil, errors.New("пользователь не найден")
}

func (u *userRepoStub) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	for i := range u.users {
		if u.users[i].Email == email {
			copied := u.users[i]
			return &copied, nil
		}
	}
	return nil, errors.New("пользователь не найден")
}

func (u *userRepoStub) GetByPhone(ctx context.Context, phone string) (*domain.User, error) {
	for i := range u.users {
		if u.users[i].Phone == phone {
			copied := u.users[i]
			return &copied, nil
		}
	}
	return nil, errors.New("пользователь не найден")
}

func (u *userRepoStub) Update(ctx context.Context, id int64, dto domain.UpdateUserDTO) error {
	for i := range u.users {
		if u.users[i].ID == id {
			if dto.FirstName != nil {
				u.users[i].FirstName = *dto.FirstName
			}
			if dto.Email != nil {
				u.users[i].Email = *dto.Email
			}
			if dto.IsActive != nil {
				u.users[i].IsActive = *dto.IsActive
			}
		}
	}
	return nil
}

func (u *userRepoStub) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	if u.passwords == nil {
		u.passwords = make(map[int64]string)
	}
	u.passwords[id] = passwordHash
	return nil
}

func (u *userRepoStub) Delete(ctx context.Context, id int64) error {
	u.deleted = append(u.deleted, id)
	return nil
}

func (u *userRepoStub) List(ctx context.Context, limit, offset int) ([]domain.User, error) {
	return append([]domain.User(nil), u.users...), nil
}

type authRepoStub struct {
	sessions []domain.Session
	deleted  []string
}

func (a *authRepoStub) CreateSession(ctx context.Context, session domain.Session) error {
	a.sessions = append(a.sessions, session)
	return nil
}

func (a *authRepoStub) GetSessionByRefreshToken(ctx context.Context, refreshToken string) (*domain.Session, error) {
	for i := range a.sessions {
		if a.sessions[i].RefreshToken == refreshToken {
			copied := a.sessions[i]
			return &copied, nil
		}
	}
	return nil, nil
}

func (a *authRepoStub) DeleteSession(ctx context.Context, id string) error {
	a.deleted = append(a.deleted, id)
	for i := range a.sessions {
		if a.sessions[i].ID == id {
			a.sessions = append(a.sessions[:i], a.sessions[i+1:]...)
			break
		}
	}
	return nil
}

func (a *authRepoStub) DeleteSessionsByUserID(ctx context.Context, userID int64) error {
	var kept []domain.Session
	for _, s := range a.sessions {
		if s.UserID != userID {
			kept = append(kept, s)
		}
	}
	a.sessions = kept
	return nil
}

func newAuthService(authRepo *authRepoStub, userRepo *userRepoStub) *AuthServiceImpl {
	return NewAuthService(authRepo, userRepo, config.JWTConfig{
		SigningKey:      "test-signing-key",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 24 * time.Hour,
	}, zap.NewNop())
}

func registeredStub(t *testing.T, password string) *userRepoStub {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("ошибка подготовки хеша: %v", err)
	}
	return &userRepoStub{
		users: []domain.User{
			{
				ID:           1,
				Email:        "user@example.com",
				Phone:        "+79001234567",
				PasswordHash: string(hash),
				Role:         domain.UserRoleClient,
				IsActive:     true,
			},
		},
	}
}

func TestRegister_CreatesClientWithHashedPassword(t *testing.T) {
	userRepo := &userRepoStub{}
	svc := newAuthService(&authRepoStub{}, userRepo)

	id, err := svc.Register(context.Background(), domain.RegisterRequest{
		FirstName: "Иван",
		LastName:  "Петров",
		Email:     "ivan@example.com",
		Phone:     "+79001234567",
		Password:  "secret123",
	})
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}
	if id == 0 {
		t.Fatal("ожидался идентификатор пользователя")
	}

	created := userRepo.users[0]
	if created.Role != domain.UserRoleClient {
		t.Errorf("регистрация должна создавать клиента, роль %s", created.Role)
	}
	if created.PasswordHash == "secret123" {
		t.Error("пароль сохранён в открытом виде")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(created.PasswordHash), []byte("secret123")); err != nil {
		t.Errorf("хеш не соответствует паролю: %v", err)
	}
}

func TestRegister_Duplicates(t *testing.T) {
	tests := []struct {
		name  string
		email string
		phone string
	}{
		{"занятый email", "user@example.com", "+79007654321"},
		{"занятый телефон", "new@example.com", "+79001234567"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newAuthService(&authRepoStub{}, registeredStub(t, "secret123"))

			_, err := svc.Register(context.Background(), domain.RegisterRequest{
				FirstName: "Иван",
				LastName:  "Петров",
				Email:     tt.email,
				Phone:     tt.phone,
				Password:  "secret123",
			})
			if err == nil {
				t.Error("ожидалась ошибка регистрации")
			}
		})
	}
}

func TestLogin_SuccessCreatesSession(t *testing.T) {
	authRepo := &authRepoStub{}
	svc := newAuthService(authRepo, registeredStub(t, "secret123"))

	tokens, err := svc.Login(context.Background(), domain.LoginRequest{
		Login:    "user@example.com",
		Password: "secret123",
	}, "test-agent", "127.0.0.1")
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}
	if tokens.AccessToken == "" || tokens.RefreshToken == "" {
		t.Fatal("ожидались оба токена")
	}

	if len(authRepo.sessions) != 1 {
		t.Fatalf("ожидалась одна сессия, было %d", len(authRepo.sessions))
	}
	session := authRepo.sessions[0]
	if session.UserID != 1 || session.RefreshToken != tokens.RefreshToken {
		t.Errorf("неверная сессия: %+v", session)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	svc := newAuthService(&authRepoStub{}, registeredStub(t, "secret123"))

	_, err := svc.Login(context.Background(), domain.LoginRequest{
		Login:    "user@example.com",
		Password: "wrong",
	}, "test-agent", "127.0.0.1")
	if err == nil {
		t.Error("ожидалась ошибка неверного пароля")
	}
}

func TestLogin_InactiveAccount(t *testing.T) {
	userRepo := registeredStub(t, "secret123")
	userRepo.users[0].IsActive = false
	svc := newAuthService(&authRepoStub{}, userRepo)

	_, err := svc.Login(context.Background(), domain.LoginRequest{
		Login:    "user@example.com",
		Password: "secret123",
	}, "test-agent", "127.0.0.1")
	if err == nil {
		t.Error("ожидалась ошибка деактивированного аккаунта")
	}
}

func TestParseToken_Roundtrip(t *testing.T) {
	svc := newAuthService(&authRepoStub{}, registeredStub(t, "secret123"))

	tokens, err := svc.Login(context.Background(), domain.LoginRequest{
		Login:    "user@example.com",
		Password: "secret123",
	}, "test-agent", "127.0.0.1")
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}

	userID, role, err := svc.ParseToken(context.Background(), tokens.AccessToken)
	if err != nil {
		t.Fatalf("ошибка разбора токена: %v", err)
	}
	if userID != 1 || role != domain.UserRoleClient {
		t.Errorf("неверные данные токена: userID=%d role=%s", userID, role)
	}
}

func TestLogout_UnknownSessionIsNoop(t *testing.T) {
	authRepo := &authRepoStub{}
	svc := newAuthService(authRepo, &userRepoStub{})

	if err := svc.Logout(context.Background(), "unknown-token"); err != nil {
		t.Fatalf("выход с неизвестным токеном не должен возвращать ошибку: %v", err)
	}
	if len(authRepo.deleted) != 0 {
		t.Errorf("удалений не ожидалось: %v", authRepo.deleted)
	}
}

func TestLogout_DeletesSession(t *testing.T) {
	authRepo := &authRepoStub{
		sessions: []domain.Session{
			{ID: "session-1", UserID: 1, RefreshToken: "refresh-1", ExpiresAt: time.Now().Add(time.Hour)},
		},
	}
	svc := newAuthService(authRepo, &userRepoStub{})

	if err := svc.Logout(context.Background(), "refresh-1"); err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}
	if len(authRepo.deleted) != 1 || authRepo.deleted[0] != "session-1" {
		t.Errorf("сессия не удалена: %v", authRepo.deleted)
	}
}

func TestRefreshTokens_UnknownToken(t *testing.T) {
	svc := newAuthService(&authRepoStub{}, &userRepoStub{})

	_, err := svc.RefreshTokens(context.Background(), "unknown-token", "test-agent", "127.0.0.1")
	if err == nil {
		t.Error("ожидалась ошибка недействительного refresh token")
	}
}

func TestRefreshTokens_ExpiredSession(t *testing.T) {
	authRepo := &authRepoStub{
		sessions: []domain.Session{
			{ID: "session-1", UserID: 1, RefreshToken: "refresh-1", ExpiresAt: time.Now().Add(-time.Hour)},
		},
	}
	svc := newAuthService(authRepo, registeredStub(t, "secret123"))

	_, err := svc.RefreshTokens(context.Background(), "refresh-1", "test-agent", "127.0.0.1")
	if err == nil {
		t.Fatal("ожидалась ошибка просроченной сессии")
	}
	if len(authRepo.deleted) != 1 {
		t.Errorf("просроченная сессия должна удаляться: %v", authRepo.deleted)
	}
}

func TestRefreshTokens_RotatesSession(t *testing.T) {
	authRepo := &authRepoStub{
		sessions: []domain.Session{
			{ID: "session-1", UserID: 1, RefreshToken: "refresh-1", ExpiresAt: time.Now().Add(time.Hour)},
		},
	}
	svc := newAuthService(authRepo, registeredStub(t, "secret123"))

	tokens, err := svc.RefreshTokens(context.Background(), "refresh-1", "test-agent", "127.0.0.1")
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}

	if len(authRepo.sessions) != 1 {
		t.Fatalf("ожидалась одна сессия после ротации, было %d", len(authRepo.sessions))
	}
	if authRepo.sessions[0].RefreshToken != tokens.RefreshToken {
		t.Error("в хранилище осталась старая сессия")
	}
}

func TestUserUpdatePassword(t *testing.T) {
	userRepo := registeredStub(t, "secret123")
	svc := NewUserService(userRepo, zap.NewNop())

	err := svc.UpdatePassword(context.Background(), 1, domain.PasswordUpdateDTO{
		OldPassword: "secret123",
		NewPassword: "newsecret",
	})
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}

	hash, ok := userRepo.passwords[1]
	if !ok {
		t.Fatal("новый хеш не сохранён")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte("newsecret")); err != nil {
		t.Errorf("хеш не соответствует новому паролю: %v", err)
	}
}

func TestUserUpdatePassword_WrongCurrent(t *testing.T) {
	userRepo := registeredStub(t, "secret123")
	svc := NewUserService(userRepo, zap.NewNop())

	err := svc.UpdatePassword(context.Background(), 1, domain.PasswordUpdateDTO{
		OldPassword: "wrong",
		NewPassword: "newsecret",
	})
	if err == nil {
		t.Error("ожидалась ошибка неверного текущего пароля")
	}
	if len(userRepo.passwords) != 0 {
		t.Errorf("пароль не должен был обновиться: %v", userRepo.passwords)
	}
}

func TestUserUpdate_EmailTakenByOther(t *testing.T) {
	userRepo := registeredStub(t, "secret123")
	userRepo.users = append(userRepo.users, domain.User{
		ID:    2,
		Email: "other@example.com",
		Phone: "+79007654321",
	})
	svc := NewUserService(userRepo, zap.NewNop())

	email := "user@example.com"
	err := svc.Update(context.Background(), 2, domain.UpdateUserDTO{Email: &email})
	if err == nil {
		t.Error("ожидалась ошибка занятого email")
	}
}
