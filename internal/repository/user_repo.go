package repository

import (
	"time"

	"github.com/adinaninacerdine/sgg-project/internal/model"

	"gorm.io/gorm"
)

// UserStats is the aggregate overview returned by /api/users/stats.
type UserStats struct {
	Total   int64 `json:"total"`
	Active  int64 `json:"active"`
	Pending int64 `json:"pending"`
	Admins  int64 `json:"admins"`
	Users   int64 `json:"users"`
}

// UserMinistryCount groups user counts by declared ministry.
type UserMinistryCount struct {
	Ministry string `json:"ministry"`
	Count    int64  `json:"count"`
	Active   int64  `json:"active"`
}

// SignupCount groups signups per day.
type SignupCount struct {
	Date    string `json:"date"`
	Signups int64  `json:"signups"`
}

type UserRepository interface {
	FindByEmail(email string) (*model.User, error)
	FindByID(id uint) (*model.User, error)
	FindAll() ([]model.User, error)
	FindPending() ([]model.User, error)
	Create(user *model.User) error
	Update(user *model.User) error
	UpdateFields(id uint, fields map[string]interface{}) error
	Delete(id uint) error
	CountAdmins(activeOnly bool) (int64, error)
	GetStats() (*UserStats, error)
	CountByMinistry() ([]UserMinistryCount, error)
	RecentSignups(since time.Time) ([]SignupCount, error)
}

type userRepo struct {
	db *gorm.DB
}

func NewUserRepo(db *gorm.DB) UserRepository {
	return &userRepo{db}
}

func (r *userRepo) FindByEmail(email string) (*model.User, error) {
	var user model.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) FindByID(id uint) (*model.User, error) {
	var user model.User
	if err := r.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) FindAll() ([]model.User, error) {
	var users []model.User
	err := r.db.Order("created_at DESC").Find(&users).Error
	return users, err
}

func (r *userRepo) FindPending() ([]model.User, error) {
	var users []model.User
	err := r.db.Where("is_active = ?", false).Order("created_at ASC").Find(&users).Error
	return users, err
}

func (r *userRepo) Create(user *model.User) error {
	return r.db.Create(user).Error
}

func (r *userRepo) Update(user *model.User) error {
	return r.db.Save(user).Error
}

func (r *userRepo) UpdateFields(id uint, fields map[string]interface{}) error {
	return r.db.Model(&model.User{}).Where("id = ?", id).Updates(fields).Error
}

func (r *userRepo) Delete(id uint) error {
	return r.db.Delete(&model.User{}, id).Error
}

func (r *userRepo) CountAdmins(activeOnly bool) (int64, error) {
	var count int64
	query := r.db.Model(&model.User{}).Where("role = ?", model.RoleAdmin)
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	err := query.Count(&count).Error
	return count, err
}

func (r *userRepo) GetStats() (*UserStats, error) {
	var stats UserStats
	err := r.db.Model(&model.User{}).
		Select(`
			COUNT(*) as total,
			COUNT(CASE WHEN is_active = true THEN 1 END) as active,
			COUNT(CASE WHEN is_active = false THEN 1 END) as pending,
			COUNT(CASE WHEN role = 'admin' THEN 1 END) as admins,
			COUNT(CASE WHEN role = 'user' THEN 1 END) as users
		`).
		Scan(&stats).Error
	return &stats, err
}

func (r *userRepo) CountByMinistry() ([]UserMinistryCount, error) {
	var counts []UserMinistryCount
	err := r.db.Model(&model.User{}).
		Select(`ministry, COUNT(*) as count, COUNT(CASE WHEN is_active = true THEN 1 END) as active`).
		Group("ministry").
		Order("count DESC").
		Scan(&counts).Error
	return counts, err
}

func (r *userRepo) RecentSignups(since time.Time) ([]SignupCount, error) {
	var signups []SignupCount
	err := r.db.Model(&model.User{}).
		Select(`DATE(created_at) as date, COUNT(*) as signups`).
		Where("created_at > ?", since).
		Group("DATE(created_at)").
		Order("date DESC").
		Scan(&signups).Error
	return signups, err
}
