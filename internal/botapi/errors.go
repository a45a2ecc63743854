package botapi

import (
	"errors"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// TooLargeError means Telegram rejected an upload for exceeding the size
// the bot is allowed to send.
type TooLargeError struct {
	Err error
}

func (e *TooLargeError) Error() string {
	return fmt.Sprintf("upload too large: %v", e.Err)
}

func (e *TooLargeError) Unwrap() error { return e.Err }

// PermissionError means the bot lacks access to the target chat or
// channel.
type PermissionError struct {
	Err error
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("no permission: %v", e.Err)
}

func (e *PermissionError) Unwrap() error { return e.Err }

// classifyError maps Telegram API error codes onto the typed errors
// callers branch on. Anything unrecognized passes through unchanged.
func classifyError(err error) error {
	if err == nil {
		return nil
	}
	var tgErr *tgbotapi.Error
	if errors.As(err, &tgErr) {
		switch tgErr.Code {
		case 413:
			return &TooLargeError{Err: err}
		case 403:
			return &PermissionError{Err: err}
		}
	}
	return err
}
