package credstore

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/crypto/bcrypt"

	domain "github.com/bryanwahyu/report-vault/internal/domain/auth"
)

// Store persists the username -> credential mapping as a single JSON file.
// On first use, when no file exists yet, it bootstraps two default accounts:
// an administrative role with every permission and a standard role with the
// analysis permission only.
type Store struct {
	path string
}

func New(path string) *Store {
	return &Store{path: path}
}

// Load reads the mapping, bootstrapping defaults exactly once
func (s *Store) Load(ctx context.Context) (map[string]domain.Credential, error) {
	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		if err := s.bootstrap(); err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("credstore: read %s: %w", s.path, err)
	}
	var users map[string]domain.Credential
	if err := json.Unmarshal(data, &users); err != nil {
		return nil, fmt.Errorf("credstore: parse %s: %w", s.path, err)
	}
	return users, nil
}

func (s *Store) bootstrap() error {
	adminHash, err := hashPassword("admin123")
	if err != nil {
		return err
	}
	userHash, err := hashPassword("user123")
	if err != nil {
		return err
	}

	now := time.Now()
	defaults := map[string]domain.Credential{
		"admin": {
			PasswordHash: adminHash,
			Role:         "admin",
			Permissions:  []domain.Permission{domain.PermAnalysis, domain.PermConfig, domain.PermAdmin},
			CreatedAt:    now,
		},
		"user": {
			PasswordHash: userHash,
			Role:         "user",
			Permissions:  []domain.Permission{domain.PermAnalysis},
			CreatedAt:    now,
		},
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("credstore: create config dir: %w", err)
	}
	data, err := json.MarshalIndent(defaults, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("credstore: write %s: %w", s.path, err)
	}
	log.Printf("credstore: bootstrapped default accounts at %s", s.path)
	return nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("credstore: hash password: %w", err)
	}
	return string(hash), nil
}
