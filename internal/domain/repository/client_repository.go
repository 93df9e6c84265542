package repository

import "github.com/jhoicas/ventas-api/internal/domain/entity"

// ClientRepository define el puerto de persistencia para Client (DIP).
type ClientRepository interface {
	Create(client *entity.Client) error
	GetByID(id string) (*entity.Client, error)
	Update(client *entity.Client) error
	List(limit, offset int) ([]*entity.Client, error)
	// Search busca por nombre, email o teléfono normalizados (sin tildes, minúsculas).
	Search(normalizedQuery string) ([]*entity.Client, error)
	Delete(id string) error
}
