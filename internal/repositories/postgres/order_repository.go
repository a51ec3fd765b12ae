package postgres

import (
	"pos-service/internal/models"

	"gorm.io/gorm"
)

type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db}
}

func (r *OrderRepository) Create(order *models.Order) error {
	return r.db.Create(order).Error
}

func (r *OrderRepository) Update(order *models.Order) error {
	return r.db.Save(order).Error
}

func (r *OrderRepository) UpdateStatus(orderID uint, status string) error {
	return r.db.Model(&models.Order{}).Where("id = ?", orderID).Update("status", status).Error
}

func (r *OrderRepository) UpdateItemPreparedCount(itemID uint, preparedCount int) error {
	return r.db.Model(&models.OrderItem{}).Where("id = ?", itemID).Update("prepared_count", preparedCount).Error
}

func (r *OrderRepository) Delete(orderID uint) error {
	if err := r.db.Where("order_id = ?", orderID).Delete(&models.OrderItem{}).Error; err != nil {
		return err
	}
	return r.db.Delete(&models.Order{}, orderID).Error
}

func (r *OrderRepository) GetByID(orderID uint) (*models.Order, error) {
	var o models.Order
	err := r.db.Preload("Items").First(&o, orderID).Error
	return &o, err
}

func (r *OrderRepository) GetAll() ([]models.Order, error) {
	var orders []models.Order
	err := r.db.
		Preload("Items").
		Order("created_at DESC").
		Find(&orders).Error
	return orders, err
}

func (r *OrderRepository) GetByStatus(status string) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.
		Preload("Items").
		Where("status = ?", status).
		Order("created_at ASC").
		Find(&orders).Error
	return orders, err
}

func (r *OrderRepository) GetItemByID(itemID uint) (*models.OrderItem, error) {
	var item models.OrderItem
	err := r.db.First(&item, itemID).Error
	return &item, err
}
