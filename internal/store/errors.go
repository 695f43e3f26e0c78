package store

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrNotFound 查無目標資料列
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateEmail email 唯一約束衝突，為「email 已存在」的唯一判斷來源
	ErrDuplicateEmail = errors.New("email already exists")
)

// uniqueViolation PostgreSQL error code 23505
const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
