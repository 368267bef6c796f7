// internal/blockchain/solbc/errors.go
package solbc

import (
	"errors"
	"fmt"
)

var (
	// ErrAccountNotFound возникает, когда аккаунт отсутствует в сети
	ErrAccountNotFound = errors.New("account not found")

	// ErrConfirmationTimeout возникает при превышении времени ожидания подтверждения
	ErrConfirmationTimeout = errors.New("confirmation timeout")

	// ErrTransactionFailed возникает, когда транзакция попала в блок с ошибкой
	ErrTransactionFailed = errors.New("transaction failed")
)

// RPCError представляет ошибку RPC с дополнительным контекстом
type RPCError struct {
	Err      error
	Endpoint string
	Method   string
}

// Error реализует интерфейс error
func (e *RPCError) Error() string {
	return fmt.Sprintf("RPC error [%s] at %s: %v", e.Method, e.Endpoint, e.Err)
}

// Unwrap возвращает оригинальную ошибку
func (e *RPCError) Unwrap() error {
	return e.Err
}

// NewRPCError создает новую ошибку RPC
func NewRPCError(err error, endpoint, method string) error {
	return &RPCError{
		Err:      err,
		Endpoint: endpoint,
		Method:   method,
	}
}
