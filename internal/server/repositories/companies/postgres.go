package companies

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/bitnet/internal/common"
	"github.com/dmitrijs2005/bitnet/internal/dbx"
	"github.com/dmitrijs2005/bitnet/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const companyColumns = `id, owner_id, name, industry, description, contact_email, contact_phone, website, address, logo, social_media, contact_persons, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCompany(row rowScanner) (*models.Company, error) {
	c := &models.Company{}
	var address, social, persons []byte
	err := row.Scan(&c.ID, &c.OwnerID, &c.Name, &c.Industry, &c.Description,
		&c.ContactEmail, &c.ContactPhone, &c.Website, &address, &c.Logo,
		&social, &persons, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if err := unmarshalJSONB(address, &c.Address); err != nil {
		return nil, fmt.Errorf("address: %w", err)
	}
	if err := unmarshalJSONB(social, &c.SocialMedia); err != nil {
		return nil, fmt.Errorf("social_media: %w", err)
	}
	if err := unmarshalJSONB(persons, &c.ContactPersons); err != nil {
		return nil, fmt.Errorf("contact_persons: %w", err)
	}
	if c.ContactPersons == nil {
		c.ContactPersons = []models.ContactPerson{}
	}
	return c, nil
}

func unmarshalJSONB(b []byte, v any) error {
	if len(b) == 0 {
		return nil
	}
	return json.Unmarshal(b, v)
}

// jsonbArgs marshals the nested columns in column order: address, social_media, contact_persons.
func jsonbArgs(c *models.Company) (string, string, string, error) {
	address, err := json.Marshal(c.Address)
	if err != nil {
		return "", "", "", err
	}
	social, err := json.Marshal(c.SocialMedia)
	if err != nil {
		return "", "", "", err
	}
	persons := c.ContactPersons
	if persons == nil {
		persons = []models.ContactPerson{}
	}
	contacts, err := json.Marshal(persons)
	if err != nil {
		return "", "", "", err
	}
	return string(address), string(social), string(contacts), nil
}

func (r *PostgresRepository) Create(ctx context.Context, company *models.Company) (*models.Company, error) {
	address, social, persons, err := jsonbArgs(company)
	if err != nil {
		return nil, fmt.Errorf("encode company: %w", err)
	}

	query :=
		`INSERT INTO companies (owner_id, name, industry, description, contact_email, contact_phone, website, address, logo, social_media, contact_persons)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		 RETURNING id, created_at, updated_at`

	err = r.db.QueryRowContext(ctx, query,
		company.OwnerID, company.Name, company.Industry, company.Description,
		company.ContactEmail, company.ContactPhone, company.Website,
		address, company.Logo, social, persons,
	).Scan(&company.ID, &company.CreatedAt, &company.UpdatedAt)

	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return nil, common.ErrAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	if company.ContactPersons == nil {
		company.ContactPersons = []models.ContactPerson{}
	}

	return company, nil
}

func (r *PostgresRepository) getOne(ctx context.Context, where string, arg any) (*models.Company, error) {
	query := `SELECT ` + companyColumns + ` FROM companies WHERE ` + where + ` = $1`

	c, err := scanCompany(r.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return c, nil
}

func (r *PostgresRepository) GetByOwner(ctx context.Context, ownerID int64) (*models.Company, error) {
	return r.getOne(ctx, "owner_id", ownerID)
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.Company, error) {
	return r.getOne(ctx, "id", id)
}

func (r *PostgresRepository) UpdateByOwner(ctx context.Context, company *models.Company) (*models.Company, error) {
	address, social, persons, err := jsonbArgs(company)
	if err != nil {
		return nil, fmt.Errorf("encode company: %w", err)
	}

	query :=
		`UPDATE companies
		 SET name = $2, industry = $3, description = $4, contact_email = $5, contact_phone = $6,
		     website = $7, address = $8, logo = $9, social_media = $10, contact_persons = $11,
		     updated_at = now()
		 WHERE owner_id = $1
		 RETURNING id, created_at, updated_at`

	err = r.db.QueryRowContext(ctx, query,
		company.OwnerID, company.Name, company.Industry, company.Description,
		company.ContactEmail, company.ContactPhone, company.Website,
		address, company.Logo, social, persons,
	).Scan(&company.ID, &company.CreatedAt, &company.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return company, nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]*models.Company, error) {
	query := `SELECT ` + companyColumns + ` FROM companies ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]*models.Company, 0)
	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}
