package repository

import (
	"database/sql"
	"divmetrics/internal/db/models/postgres/public/model"
	"divmetrics/internal/db/models/postgres/public/table"
	"divmetrics/internal/domain"
	"errors"
	"time"

	"github.com/go-jet/jet/v2/postgres"
	"github.com/go-jet/jet/v2/qrm"
)

type UserAccountRepository interface {
	GetOrCreate(email string, firstName, lastName *string) (*model.UserAccount, error)
}

type userAccountRepositoryHandler struct {
	DB *sql.DB
}

func NewUserAccountRepository(db *sql.DB) UserAccountRepository {
	return userAccountRepositoryHandler{
		DB: db,
	}
}

func (h userAccountRepositoryHandler) GetOrCreate(email string, firstName, lastName *string) (*model.UserAccount, error) {
	t := table.UserAccount

	getQuery := t.SELECT(t.AllColumns).WHERE(t.Email.EQ(postgres.String(email)))
	out := model.UserAccount{}
	err := getQuery.Query(h.DB, &out)
	if err != nil && !errors.Is(err, qrm.ErrNoRows) {
		return nil, domain.StorageError{Op: "get user account", Err: err}
	} else if err == nil {
		return &out, nil
	}

	newModel := model.UserAccount{
		Email:     email,
		FirstName: firstName,
		LastName:  lastName,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
	createQuery := t.INSERT(t.MutableColumns).MODEL(newModel).RETURNING(t.AllColumns)

	err = createQuery.Query(h.DB, &out)
	if err != nil {
		return nil, domain.StorageError{Op: "create user", Err: err}
	}

	return &out, nil
}
