package users

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

type PGRepo struct {
	DB *sql.DB
}

const userColumns = `id, email, name, bio, skills, experience, education, certifications,
  linkedin_url, github_url, portfolio_url, picture_url, created_at, updated_at`

func (r *PGRepo) GetByID(ctx context.Context, userID string) (User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1 LIMIT 1`
	user, err := scanUser(r.DB.QueryRowContext(ctx, query, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, err
	}
	return user, nil
}

func (r *PGRepo) Save(ctx context.Context, user User) (User, error) {
	skills, err := json.Marshal(nonNil(user.Skills))
	if err != nil {
		return User{}, fmt.Errorf("encode skills: %w", err)
	}
	certs, err := json.Marshal(nonNil(user.Certifications))
	if err != nil {
		return User{}, fmt.Errorf("encode certifications: %w", err)
	}
	query := `
INSERT INTO users (id, email, name, bio, skills, experience, education, certifications,
  linkedin_url, github_url, portfolio_url, picture_url, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, now(), now())
ON CONFLICT (id) DO UPDATE SET
  email = EXCLUDED.email,
  name = EXCLUDED.name,
  bio = EXCLUDED.bio,
  skills = EXCLUDED.skills,
  experience = EXCLUDED.experience,
  education = EXCLUDED.education,
  certifications = EXCLUDED.certifications,
  linkedin_url = EXCLUDED.linkedin_url,
  github_url = EXCLUDED.github_url,
  portfolio_url = EXCLUDED.portfolio_url,
  picture_url = EXCLUDED.picture_url,
  updated_at = now()
RETURNING ` + userColumns
	return scanUser(r.DB.QueryRowContext(ctx, query,
		user.ID,
		user.Email,
		user.Name,
		user.Bio,
		skills,
		user.Experience,
		user.Education,
		certs,
		user.LinkedInURL,
		user.GitHubURL,
		user.PortfolioURL,
		user.PictureURL,
	))
}

func (r *PGRepo) UpsertIdentity(ctx context.Context, user User) error {
	const query = `
INSERT INTO users (id, email, name, picture_url, created_at, updated_at)
VALUES ($1, $2, $3, $4, now(), now())
ON CONFLICT (id) DO UPDATE SET
  email = COALESCE(NULLIF(EXCLUDED.email, ''), users.email),
  name = COALESCE(NULLIF(EXCLUDED.name, ''), users.name),
  picture_url = COALESCE(NULLIF(EXCLUDED.picture_url, ''), users.picture_url),
  updated_at = now()`
	_, err := r.DB.ExecContext(ctx, query, user.ID, user.Email, user.Name, user.PictureURL)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (User, error) {
	var user User
	var skills, certs []byte
	if err := row.Scan(
		&user.ID,
		&user.Email,
		&user.Name,
		&user.Bio,
		&skills,
		&user.Experience,
		&user.Education,
		&certs,
		&user.LinkedInURL,
		&user.GitHubURL,
		&user.PortfolioURL,
		&user.PictureURL,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		return User{}, err
	}
	if err := decodeList(skills, &user.Skills); err != nil {
		return User{}, fmt.Errorf("decode skills: %w", err)
	}
	if err := decodeList(certs, &user.Certifications); err != nil {
		return User{}, fmt.Errorf("decode certifications: %w", err)
	}
	return user, nil
}

func decodeList(raw []byte, dst *[]string) error {
	if len(raw) == 0 {
		*dst = []string{}
		return nil
	}
	return json.Unmarshal(raw, dst)
}

func nonNil(v []string) []string {
	if v == nil {
		return []string{}
	}
	return v
}
