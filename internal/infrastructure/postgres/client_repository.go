package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/ventas-api/internal/domain"
	"github.com/jhoicas/ventas-api/internal/domain/entity"
	"github.com/jhoicas/ventas-api/internal/domain/repository"
)

var _ repository.ClientRepository = (*ClientRepo)(nil)

const clientColumns = `id, name, phone, email, address, created_at, updated_at`

// ClientRepo implementación del puerto ClientRepository sobre PostgreSQL.
type ClientRepo struct {
	q Querier
}

// NewClientRepository construye el adaptador de persistencia para clientes.
func NewClientRepository(q Querier) *ClientRepo {
	return &ClientRepo{q: q}
}

// Create persiste un nuevo cliente.
func (r *ClientRepo) Create(client *entity.Client) error {
	_, err := r.q.Exec(context.Background(), `
		INSERT INTO clients (`+clientColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		client.ID, client.Name, client.Phone, client.Email, client.Address,
		client.CreatedAt, client.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert client: %w", err)
	}
	return nil
}

// GetByID obtiene un cliente por ID. Retorna nil, nil si no existe.
func (r *ClientRepo) GetByID(id string) (*entity.Client, error) {
	var c entity.Client
	err := r.q.QueryRow(context.Background(),
		`SELECT `+clientColumns+` FROM clients WHERE id = $1`, id,
	).Scan(&c.ID, &c.Name, &c.Phone, &c.Email, &c.Address, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get client: %w", err)
	}
	return &c, nil
}

// Update actualiza los datos del cliente.
func (r *ClientRepo) Update(client *entity.Client) error {
	_, err := r.q.Exec(context.Background(), `
		UPDATE clients SET name = $2, phone = $3, email = $4, address = $5, updated_at = $6
		WHERE id = $1`,
		client.ID, client.Name, client.Phone, client.Email, client.Address, client.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update client: %w", err)
	}
	return nil
}

// List lista clientes con paginación (orden alfabético por nombre).
func (r *ClientRepo) List(limit, offset int) ([]*entity.Client, error) {
	return r.list(
		`SELECT `+clientColumns+` FROM clients ORDER BY name LIMIT $1 OFFSET $2`,
		limit, offset)
}

// Search busca clientes por nombre, email o teléfono con coincidencia parcial
// insensible a mayúsculas y acentos. El llamador ya normaliza el término (ver
// usecase.Normalize); del lado de la base se aplica unaccent + lower.
func (r *ClientRepo) Search(normalizedQuery string) ([]*entity.Client, error) {
	return r.list(`
		SELECT `+clientColumns+` FROM clients
		WHERE unaccent(lower(name)) LIKE '%' || $1 || '%'
		   OR lower(email) LIKE '%' || $1 || '%'
		   OR phone LIKE '%' || $1 || '%'
		ORDER BY name`,
		normalizedQuery)
}

func (r *ClientRepo) list(query string, args ...any) ([]*entity.Client, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	defer rows.Close()
	var list []*entity.Client
	for rows.Next() {
		var c entity.Client
		if err := rows.Scan(&c.ID, &c.Name, &c.Phone, &c.Email, &c.Address, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan client: %w", err)
		}
		list = append(list, &c)
	}
	return list, rows.Err()
}

// Delete elimina un cliente por ID.
func (r *ClientRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM clients WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete client: %w", err)
	}
	return nil
}
