package service

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"minesweeper/internal/domain"
	"minesweeper/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid name or password")
	ErrInvalidName        = errors.New("name must be 3-32 characters")
	ErrWeakPassword       = errors.New("password must be at least 6 characters")
)

type PlayerService struct {
	store repository.PlayerStore
	cost  int
}

func NewPlayerService(store repository.PlayerStore) *PlayerService {
	return &PlayerService{store: store, cost: bcrypt.DefaultCost}
}

// NewPlayerServiceWithCost uses a custom bcrypt cost (tests, tooling).
func NewPlayerServiceWithCost(store repository.PlayerStore, cost int) *PlayerService {
	return &PlayerService{store: store, cost: cost}
}

// Register creates a player. repository.ErrNameTaken is returned as is.
func (s *PlayerService) Register(ctx context.Context, name, password string) (*domain.Player, error) {
	name = strings.TrimSpace(name)
	if n := utf8.RuneCountInString(name); n < 3 || n > 32 {
		return nil, ErrInvalidName
	}
	if len(password) < 6 {
		return nil, ErrWeakPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, err
	}
	p := &domain.Player{Name: name, PasswordHash: string(hash)}
	if err := s.store.CreatePlayer(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *PlayerService) Login(ctx context.Context, name, password string) (*domain.Player, error) {
	p, err := s.store.GetPlayerByName(ctx, strings.TrimSpace(name))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(p.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return p, nil
}

func (s *PlayerService) Get(ctx context.Context, id int64) (*domain.Player, error) {
	return s.store.GetPlayerByID(ctx, id)
}
