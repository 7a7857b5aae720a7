package restapi

import (
	"context"
	"fmt"
	"sort"
	"time"

	"civicfund/internal/domain"
)

// UserRepository talks to /users. The backend answers a duplicate POST with
// "User already exists" and leaves the stored record alone.
type UserRepository struct {
	client *Client
	now    func() time.Time
}

func NewUserRepository(client *Client) *UserRepository {
	return &UserRepository{client: client, now: time.Now}
}

func (r *UserRepository) Upsert(ctx context.Context, user *domain.User) (*domain.User, error) {
	name := user.Name
	if name == "" {
		name = "No Name"
	}
	body := wireUser{
		Name:      name,
		Email:     domain.NormalizeEmail(user.Email),
		Photo:     user.PhotoURL,
		Role:      "user",
		CreatedAt: r.now().UTC(),
	}
	var res insertResult
	resp, err := r.client.request(ctx).SetBody(body).SetResult(&res).Post("/users")
	if err := r.client.check("register user", resp, err); err != nil {
		return nil, err
	}

	users, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		if domain.SameEmail(u.Email, body.Email) {
			return &u, nil
		}
	}
	return nil, fmt.Errorf("register user: %w", domain.ErrNotFound)
}

func (r *UserRepository) List(ctx context.Context) ([]domain.User, error) {
	var ws []wireUser
	resp, err := r.client.request(ctx).SetResult(&ws).Get("/users")
	if err := r.client.check("list users", resp, err); err != nil {
		return nil, err
	}
	users := make([]domain.User, 0, len(ws))
	for _, w := range ws {
		users = append(users, w.domain())
	}
	sort.SliceStable(users, func(i, j int) bool {
		return users[i].CreatedAt.Before(users[j].CreatedAt)
	})
	return users, nil
}

func (r *UserRepository) Count(ctx context.Context) (int, error) {
	users, err := r.List(ctx)
	if err != nil {
		return 0, err
	}
	return len(users), nil
}

var _ domain.UserRepository = (*UserRepository)(nil)
