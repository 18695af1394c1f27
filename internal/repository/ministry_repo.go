package repository

import (
	"strconv"

	"github.com/adinaninacerdine/sgg-project/internal/model"

	"gorm.io/gorm"
)

type MinistryRepository interface {
	FindAll() ([]model.Ministry, error)
	FindByID(id uint) (*model.Ministry, error)
	FindByName(name string) (*model.Ministry, error)
	Resolve(ref string) (*model.Ministry, error)
	Create(ministry *model.Ministry) error
	SeedDefaults() error
}

type ministryRepo struct {
	db *gorm.DB
}

func NewMinistryRepo(db *gorm.DB) MinistryRepository {
	return &ministryRepo{db}
}

func (r *ministryRepo) FindAll() ([]model.Ministry, error) {
	var ministries []model.Ministry
	err := r.db.Order("name ASC").Find(&ministries).Error
	return ministries, err
}

func (r *ministryRepo) FindByID(id uint) (*model.Ministry, error) {
	var ministry model.Ministry
	if err := r.db.First(&ministry, id).Error; err != nil {
		return nil, err
	}
	return &ministry, nil
}

func (r *ministryRepo) FindByName(name string) (*model.Ministry, error) {
	var ministry model.Ministry
	if err := r.db.Where("name = ?", name).First(&ministry).Error; err != nil {
		return nil, err
	}
	return &ministry, nil
}

// Resolve accepts either a numeric id or a ministry name. Source data is
// ambiguous about which one callers send, so the numeric form is tried
// first and the name is the fallback.
func (r *ministryRepo) Resolve(ref string) (*model.Ministry, error) {
	if id, err := strconv.ParseUint(ref, 10, 32); err == nil {
		if ministry, err := r.FindByID(uint(id)); err == nil {
			return ministry, nil
		}
	}
	return r.FindByName(ref)
}

func (r *ministryRepo) Create(ministry *model.Ministry) error {
	return r.db.Create(ministry).Error
}

// SeedDefaults creates the ministry directory if entries don't exist
func (r *ministryRepo) SeedDefaults() error {
	for _, m := range model.DefaultMinistries {
		var existing model.Ministry
		if err := r.db.Where("name = ?", m.Name).First(&existing).Error; err == gorm.ErrRecordNotFound {
			if err := r.db.Create(&m).Error; err != nil {
				return err
			}
		}
	}
	return nil
}
