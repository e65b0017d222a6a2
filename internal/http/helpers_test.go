package http

import (
	"strconv"

	"todo-backend/internal/domain"
)

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}

func domainUser(id int64) domain.User {
	return domain.User{ID: id, Email: "x@x.com"}
}
