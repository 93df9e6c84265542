package auth

import (
	"context"
	"errors"
	"regexp"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/ventas-api/internal/application/dto"
	"github.com/jhoicas/ventas-api/internal/domain"
	"github.com/jhoicas/ventas-api/internal/domain/entity"
	"github.com/jhoicas/ventas-api/internal/domain/repository"
	"github.com/jhoicas/ventas-api/pkg/jwt"
)

// Ventana de limpieza de refresh tokens viejos y umbral de aviso de expiración.
const (
	pruneAfter         = 30 * 24 * time.Hour
	expiringSoonWindow = 5 * time.Minute
)

var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// AuthUseCase orquesta el ciclo de vida de sesión: registro, login, rotación
// de refresh tokens, logout y validación de access tokens.
type AuthUseCase struct {
	userRepo  repository.UserRepository
	tokenRepo repository.RefreshTokenRepository
	txRunner  TxRunner
	jwtCfg    jwt.Config
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(userRepo repository.UserRepository, tokenRepo repository.RefreshTokenRepository, txRunner TxRunner, jwtCfg jwt.Config) *AuthUseCase {
	return &AuthUseCase{userRepo: userRepo, tokenRepo: tokenRepo, txRunner: txRunner, jwtCfg: jwtCfg}
}

// Register crea un usuario: valida entrada, hashea password con bcrypt,
// persiste y emite el primer par de tokens. Devuelve ErrEmailAlreadyExists si
// el email ya está registrado.
func (uc *AuthUseCase) Register(ctx context.Context, in dto.RegisterRequest) (*dto.TokenPairResponse, error) {
	if in.Name == "" || in.Email == "" || in.Password == "" {
		return nil, domain.ErrInvalidInput
	}
	if !emailRegex.MatchString(in.Email) {
		return nil, domain.ErrInvalidInput
	}
	if len(in.Password) < 6 {
		return nil, domain.ErrInvalidInput
	}
	existing, err := uc.userRepo.GetByEmail(in.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	user := &entity.User{
		ID:           uuid.New().String(),
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.userRepo.Create(user); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, domain.ErrEmailAlreadyExists
		}
		return nil, err
	}
	return uc.issuePair(user)
}

// Login verifica email/password, limpia los refresh tokens viejos del usuario
// y emite un par access+refresh nuevo. Usuario ausente y password incorrecto
// devuelven la misma ErrInvalidCredentials.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.TokenPairResponse, error) {
	if in.Email == "" || in.Password == "" {
		return nil, domain.ErrInvalidInput
	}
	user, err := uc.userRepo.GetByEmail(in.Email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	// Limpia tokens expirados o con más de 30 días antes de emitir el nuevo
	if err := uc.tokenRepo.PruneStale(user.ID, time.Now()); err != nil {
		return nil, err
	}
	return uc.issuePair(user)
}

// Refresh rota un refresh token: verificación criptográfica, consumo atómico
// del registro (un token es de un solo uso) y emisión de un par nuevo, todo
// dentro de una transacción. Un token ya rotado devuelve ErrTokenNotFound;
// uno expirado devuelve ErrTokenExpired y elimina el registro obsoleto.
func (uc *AuthUseCase) Refresh(ctx context.Context, refreshToken string) (*dto.TokenPairResponse, error) {
	if refreshToken == "" {
		return nil, domain.ErrInvalidInput
	}
	claims, err := jwt.Parse(uc.jwtCfg, refreshToken, jwt.TypeRefresh)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrExpired):
			// El registro quedó obsoleto: se elimina para que lookups posteriores den not found
			_, _ = uc.tokenRepo.DeleteByToken(refreshToken)
			return nil, domain.ErrTokenExpired
		case errors.Is(err, jwt.ErrWrongType):
			return nil, domain.ErrWrongTokenType
		default:
			return nil, domain.ErrTokenMalformed
		}
	}

	user, err := uc.userRepo.GetByID(claims.Subject)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}

	accessToken, err := jwt.GenerateAccess(uc.jwtCfg, user.ID, user.Email)
	if err != nil {
		return nil, err
	}
	newRefresh, err := jwt.GenerateRefresh(uc.jwtCfg, user.ID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	err = uc.txRunner.RunAuth(ctx, func(tokenRepo repository.RefreshTokenRepository) error {
		stored, err := tokenRepo.GetByToken(refreshToken)
		if err != nil {
			return err
		}
		if stored == nil {
			return domain.ErrTokenNotFound
		}
		if stored.Expired(now) {
			if _, err := tokenRepo.DeleteByToken(refreshToken); err != nil {
				return err
			}
			return domain.ErrTokenExpired
		}
		// Consumo: un solo DELETE decide el ganador entre rotaciones concurrentes
		deleted, err := tokenRepo.DeleteByToken(refreshToken)
		if err != nil {
			return err
		}
		if deleted == 0 {
			return domain.ErrTokenNotFound
		}
		return tokenRepo.Create(&entity.RefreshToken{
			ID:        uuid.New().String(),
			UserID:    user.ID,
			Token:     newRefresh,
			ExpiresAt: now.Add(uc.jwtCfg.RefreshTTL),
			CreatedAt: now,
		})
	})
	if err != nil {
		return nil, err
	}

	return &dto.TokenPairResponse{
		AccessToken:  accessToken,
		RefreshToken: newRefresh,
		User:         *toUserResponse(user),
	}, nil
}

// Logout revoca el refresh token si existe. Idempotente: un token ausente no es error.
func (uc *AuthUseCase) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	_, err := uc.tokenRepo.DeleteByToken(refreshToken)
	return err
}

// Validate verifica un access token y devuelve el usuario autenticado.
// ExpiringSoon avisa cuando el TTL restante es menor a 5 minutos.
func (uc *AuthUseCase) Validate(ctx context.Context, accessToken string) (*dto.ValidateResponse, error) {
	claims, err := jwt.Parse(uc.jwtCfg, accessToken, jwt.TypeAccess)
	if err != nil {
		return nil, mapTokenError(err)
	}
	user, err := uc.userRepo.GetByID(claims.Subject)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	return &dto.ValidateResponse{
		User:         *toUserResponse(user),
		ExpiringSoon: claims.RemainingTTL(time.Now()) < expiringSoonWindow,
	}, nil
}

// issuePair genera access+refresh y persiste el refresh.
func (uc *AuthUseCase) issuePair(user *entity.User) (*dto.TokenPairResponse, error) {
	accessToken, err := jwt.GenerateAccess(uc.jwtCfg, user.ID, user.Email)
	if err != nil {
		return nil, err
	}
	refreshToken, err := jwt.GenerateRefresh(uc.jwtCfg, user.ID)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	if err := uc.tokenRepo.Create(&entity.RefreshToken{
		ID:        uuid.New().String(),
		UserID:    user.ID,
		Token:     refreshToken,
		ExpiresAt: now.Add(uc.jwtCfg.RefreshTTL),
		CreatedAt: now,
	}); err != nil {
		return nil, err
	}
	return &dto.TokenPairResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         *toUserResponse(user),
	}, nil
}

// mapTokenError traduce los errores de pkg/jwt a la taxonomía de dominio.
func mapTokenError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrExpired):
		return domain.ErrTokenExpired
	case errors.Is(err, jwt.ErrWrongType):
		return domain.ErrWrongTokenType
	case errors.Is(err, jwt.ErrMissingSubject):
		return domain.ErrMissingSubject
	default:
		return domain.ErrTokenMalformed
	}
}

func toUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
