package sql

import "github.com/iyhunko/shop-with-sqs/internal/repository"

// TranslateError exposes error translation to tests.
func TranslateError(err error) error {
	return translateError(err)
}

var _ repository.OrderEventWriter = (*TransactionalRepository)(nil)
