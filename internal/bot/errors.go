package bot

import (
	"errors"

	"smartstudio/internal/database"
	"smartstudio/internal/service"
)

func (b *Bot) getErrorMessage(err error) string {
	if err == nil {
		return ""
	}

	if errors.Is(err, database.ErrSlotTaken) {
		return "⚠️ Maaf, jam itu sudah penuh. Coba pilih jam lain ya."
	}

	if errors.Is(err, database.ErrNotFound) {
		return "⚠️ Data tidak ditemukan. Cek lagi ID atau namanya ya."
	}

	if errors.Is(err, service.ErrDraftIncomplete) {
		return "⚠️ Datanya belum lengkap. Yuk lanjutkan dulu obrolannya."
	}

	// Default error message
	return "❌ Waduh, ada gangguan di sistem. Coba lagi sebentar lagi atau hubungi admin ya."
}
