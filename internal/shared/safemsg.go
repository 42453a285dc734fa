package shared

import (
	"errors"

	"github.com/bahacan112/satis-yonetim-sistemi-sub001/internal/platform/httpx"
)

// UserSafeMessage converts an internal error into a message that can be
// shown to the actor, with a remediation hint where one exists.
func UserSafeMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, httpx.ErrDuplicate):
		return "Kayıt zaten mevcut. Farklı bir değer deneyin."
	case errors.Is(err, httpx.ErrNotFound):
		return "Kayıt bulunamadı."
	case errors.Is(err, httpx.ErrValidation):
		return "Gönderilen bilgiler eksik veya hatalı."
	case errors.Is(err, httpx.ErrForbidden):
		return "Bu işlem için yetkiniz yok."
	case errors.Is(err, ErrInvalidCredentials):
		return "E-posta veya şifre hatalı."
	default:
		return "İşlem tamamlanamadı. Lütfen tekrar deneyin."
	}
}
