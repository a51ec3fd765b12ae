package postgres

import (
	"pos-service/internal/models"

	"gorm.io/gorm"
)

type ProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db}
}

func (r *ProductRepository) Create(product *models.Product) error {
	return r.db.Create(product).Error
}

func (r *ProductRepository) Update(product *models.Product) error {
	return r.db.Save(product).Error
}

func (r *ProductRepository) SetAvailability(productID uint, available bool) error {
	return r.db.Model(&models.Product{}).Where("id = ?", productID).Update("available", available).Error
}

func (r *ProductRepository) Delete(productID uint) error {
	return r.db.Delete(&models.Product{}, productID).Error
}

func (r *ProductRepository) GetByID(productID uint) (*models.Product, error) {
	var p models.Product
	err := r.db.First(&p, productID).Error
	return &p, err
}

func (r *ProductRepository) GetByIDs(productIDs []uint) ([]models.Product, error) {
	var products []models.Product
	err := r.db.Where("id IN ?", productIDs).Find(&products).Error
	return products, err
}

func (r *ProductRepository) GetAll() ([]models.Product, error) {
	var products []models.Product
	err := r.db.Order("category ASC, name ASC").Find(&products).Error
	return products, err
}

func (r *ProductRepository) GetAvailable() ([]models.Product, error) {
	var products []models.Product
	err := r.db.
		Where("available = ?", true).
		Order("category ASC, name ASC").
		Find(&products).Error
	return products, err
}
