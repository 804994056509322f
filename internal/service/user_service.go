package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Kavy522/TrainTicketBooking-sub002/internal/model"
	"go.uber.org/zap"
)

type UserService struct {
	userRepo UserStore
	isAdmin  func(telegramID int64) bool
	logger   *zap.Logger
}

func NewUserService(userRepo UserStore, isAdmin func(telegramID int64) bool, logger *zap.Logger) *UserService {
	if isAdmin == nil {
		isAdmin = func(int64) bool { return false }
	}
	return &UserService{
		userRepo: userRepo,
		isAdmin:  isAdmin,
		logger:   logger,
	}
}

// RegisterUser регистрирует или обновляет пользователя
func (s *UserService) RegisterUser(ctx context.Context, telegramID int64, username, firstName, lastName string) (*model.User, error) {
	// Проверяем существует ли пользователь
	existingUser, err := s.userRepo.GetByTelegramID(ctx, telegramID)
	if err != nil && !errors.Is(err, model.ErrUserNotFound) {
		return nil, fmt.Errorf("check existing user: %w", err)
	}

	// Если пользователь уже существует, обновляем данные
	if existingUser != nil {
		existingUser.Username = username
		existingUser.FirstName = firstName
		existingUser.LastName = lastName
		existingUser.IsAdmin = s.isAdmin(telegramID)

		err = s.userRepo.Update(ctx, existingUser)
		if err != nil {
			return nil, fmt.Errorf("update user: %w", err)
		}

		s.logger.Info("User updated",
			zap.Int64("telegram_id", telegramID),
			zap.String("username", username),
		)

		return existingUser, nil
	}

	// Создаём нового пользователя
	user := &model.User{
		TelegramID: telegramID,
		Username:   username,
		FirstName:  firstName,
		LastName:   lastName,
		IsAdmin:    s.isAdmin(telegramID),
	}

	err = s.userRepo.Create(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.logger.Info("New user registered",
		zap.Int64("user_id", user.ID),
		zap.Int64("telegram_id", telegramID),
		zap.String("username", username),
		zap.Bool("is_admin", user.IsAdmin),
	)

	return user, nil
}

// GetByTelegramID получает пользователя по Telegram ID
func (s *UserService) GetByTelegramID(ctx context.Context, telegramID int64) (*model.User, error) {
	return s.userRepo.GetByTelegramID(ctx, telegramID)
}

// GetByID получает пользователя по ID
func (s *UserService) GetByID(ctx context.Context, id int64) (*model.User, error) {
	return s.userRepo.GetByID(ctx, id)
}
