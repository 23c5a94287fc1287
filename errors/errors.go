package errors

import "fmt"

var (
	ErrWorkerPanic      = fmt.Errorf("worker panic")
	ErrDuplicateMessage = fmt.Errorf("message already stored")
	ErrMessageNotFound  = fmt.Errorf("no stored message for key")
	ErrUnknownCommand   = fmt.Errorf("unknown command")
	ErrBadCommandArgs   = fmt.Errorf("malformed command arguments")
	ErrGatewayDown      = fmt.Errorf("gateway not connected")
)
