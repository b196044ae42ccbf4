package memrepo

import (
	"context"
	"sort"

	"shopflow/internal/model"
)

type userRepo struct{ s *Store }

func (r *userRepo) emailTaken(email string, selfID uint) bool {
	for id, u := range r.s.st.data.users {
		if id != selfID && u.Email == email {
			return true
		}
	}
	return false
}

func (r *userRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	release, err := r.s.begin("users.find")
	if err != nil {
		return nil, err
	}
	defer release()

	for _, u := range r.s.st.data.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, notFound()
}

func (r *userRepo) FindByID(ctx context.Context, id uint) (*model.User, error) {
	release, err := r.s.begin("users.find")
	if err != nil {
		return nil, err
	}
	defer release()

	u, ok := r.s.st.data.users[id]
	if !ok {
		return nil, notFound()
	}
	return &u, nil
}

func (r *userRepo) Create(ctx context.Context, user *model.User) error {
	release, err := r.s.begin("users.create")
	if err != nil {
		return err
	}
	defer release()

	if r.emailTaken(user.Email, 0) {
		return duplicate("users_email_key")
	}
	d := r.s.st.data
	now := r.s.st.now()
	user.ID = d.next("users")
	user.CreatedAt, user.UpdatedAt = now, now
	if user.Role == "" {
		user.Role = model.RoleUser
	}
	if user.Status == "" {
		user.Status = model.StatusActive
	}
	d.users[user.ID] = *user
	return nil
}

func (r *userRepo) Update(ctx context.Context, user *model.User) error {
	release, err := r.s.begin("users.update")
	if err != nil {
		return err
	}
	defer release()

	d := r.s.st.data
	if _, ok := d.users[user.ID]; !ok {
		return notFound()
	}
	if r.emailTaken(user.Email, user.ID) {
		return duplicate("users_email_key")
	}
	user.UpdatedAt = r.s.st.now()
	d.users[user.ID] = *user
	return nil
}

func (r *userRepo) Delete(ctx context.Context, id uint) error {
	release, err := r.s.begin("users.delete")
	if err != nil {
		return err
	}
	defer release()

	d := r.s.st.data
	if _, ok := d.users[id]; !ok {
		return notFound()
	}
	delete(d.users, id)

	// ON DELETE SET NULL
	for i := range d.movements {
		if d.movements[i].UserID != nil && *d.movements[i].UserID == id {
			d.movements[i].UserID = nil
		}
	}
	for i := range d.sales {
		if d.sales[i].UserID != nil && *d.sales[i].UserID == id {
			d.sales[i].UserID = nil
		}
	}
	for i := range d.activities {
		if d.activities[i].UserID != nil && *d.activities[i].UserID == id {
			d.activities[i].UserID = nil
		}
	}
	return nil
}

func (r *userRepo) List(ctx context.Context) ([]model.User, error) {
	release, err := r.s.begin("users.list")
	if err != nil {
		return nil, err
	}
	defer release()

	users := []model.User{}
	for _, u := range r.s.st.data.users {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID > users[j].ID })
	return users, nil
}

func (r *userRepo) UpdateLastLogin(ctx context.Context, id uint) error {
	release, err := r.s.begin("users.update_last_login")
	if err != nil {
		return err
	}
	defer release()

	d := r.s.st.data
	u, ok := d.users[id]
	if !ok {
		return notFound()
	}
	now := r.s.st.now()
	u.LastLogin = &now
	d.users[id] = u
	return nil
}

func (r *userRepo) CountActive(ctx context.Context) (int64, error) {
	release, err := r.s.begin("users.count_active")
	if err != nil {
		return 0, err
	}
	defer release()

	var n int64
	for _, u := range r.s.st.data.users {
		if u.Status == model.StatusActive {
			n++
		}
	}
	return n, nil
}
