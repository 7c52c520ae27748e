package telegram

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	app "smartcity-ml/internal/application"
	"smartcity-ml/internal/domain/entity"
)

const (
	msgStart = `👋 Привет! Я помогаю городским службам следить за дорогами и потреблением энергии.

📸 Пришлите фото дорожного покрытия, и я оценю повреждение.
📊 Пришлите CSV с журналом потребления, и я найду выбросы.

📋 Команды:
/damage — проверить покрытие
/anomaly — проверить журнал потребления
/help — справка
/cancel — отменить текущую операцию`

	msgHelp = `ℹ️ Как пользоваться ботом:

1️⃣ /damage и фото дороги. Подпись "yolo" включает нейросетевую модель.
2️⃣ /anomaly и CSV-файл: первая строка — заголовок, значения во второй колонке.
3️⃣ Бот вернёт оценку, а для дорог ещё и фото с подсветкой повреждений.

💡 Снимайте покрытие сверху при дневном свете.`

	msgAwaitingPhoto    = "📸 Отправьте фото дорожного покрытия."
	msgAwaitingUsageLog = "📊 Отправьте CSV-файл с журналом потребления."
	msgCancelled        = "❌ Операция отменена. Отправьте /damage или /anomaly для новой проверки."
	msgSendPhoto        = "📸 Пожалуйста, отправьте фото дороги или CSV-файл с журналом потребления."
	msgUnknownCommand   = "❓ Неизвестная команда. Используйте /help для справки."
	msgProcessing       = "⏳ Анализирую изображение..."
	msgBusy             = "⏳ Предыдущий запрос ещё обрабатывается, подождите."
	msgNotCSV           = "📄 Нужен файл в формате CSV."
	msgFileTooLarge     = "📄 Файл слишком большой."
	msgProcessingError  = "⚠️ Не удалось обработать файл. Попробуйте ещё раз."
	msgBadImage         = "⚠️ Не удалось прочитать изображение. Пришлите другое фото."
	msgBadTable         = "⚠️ Неверный формат CSV: %v"
	msgNotEnoughData    = "⚠️ Недостаточно данных для анализа."
	msgModelUnavailable = "⚠️ Модель сейчас недоступна. Отправьте фото без подписи для классической оценки."
	msgTimeout          = "⌛ Анализ занял слишком много времени. Попробуйте позже."
)

var damageTitles = map[entity.DamageType]string{
	entity.DamageNormal:  "✅ Покрытие в норме",
	entity.DamageCrack:   "⚠️ Трещина",
	entity.DamagePothole: "🚧 Выбоина",
}

// formatDamage текст ответа на проверку покрытия.
func formatDamage(r entity.DamageResult) string {
	title, ok := damageTitles[r.DamageType]
	if !ok {
		title = string(r.DamageType)
	}

	var sb strings.Builder
	sb.WriteString(title)
	sb.WriteString("\n\n")
	fmt.Fprintf(&sb, "Степень повреждения: %s\n", strconv.FormatFloat(r.Severity, 'f', 3, 64))
	fmt.Fprintf(&sb, "Индекс состояния: %d/100", r.HealthScore)
	if r.BoxesDetected != nil {
		fmt.Fprintf(&sb, "\nНайдено областей: %d", *r.BoxesDetected)
	}
	return sb.String()
}

// formatAnomaly текст ответа на проверку журнала потребления.
func formatAnomaly(r *entity.AnomalyResult) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "📊 Среднее потребление: %.2f\n", r.MeanUsage)
	fmt.Fprintf(&sb, "Порог выброса: %.2f\n\n", r.Threshold)

	if !r.AnomalyDetected {
		sb.WriteString("✅ Выбросов не обнаружено.")
		return sb.String()
	}

	rows := make([]string, 0, len(r.AnomalyIndices))
	for _, idx := range r.AnomalyIndices {
		rows = append(rows, strconv.Itoa(idx))
	}
	fmt.Fprintf(&sb, "⚠️ Выбросы в строках: %s", strings.Join(rows, ", "))
	return sb.String()
}

// errorMessage переводит ошибку анализа в ответ пользователю.
func errorMessage(err error) string {
	switch {
	case errors.Is(err, entity.ErrDecode):
		return msgBadImage
	case errors.Is(err, entity.ErrSchema):
		return fmt.Sprintf(msgBadTable, err)
	case errors.Is(err, entity.ErrEmptyInput), errors.Is(err, entity.ErrInsufficientData):
		return msgNotEnoughData
	case errors.Is(err, app.ErrModelUnavailable):
		return msgModelUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return msgTimeout
	case errors.Is(err, errFileTooLarge):
		return msgFileTooLarge
	default:
		return msgProcessingError
	}
}

// isUsageLog проверяет, что документ похож на CSV.
func isUsageLog(doc *tgbotapi.Document) bool {
	switch strings.ToLower(doc.MimeType) {
	case "text/csv", "application/csv", "text/comma-separated-values":
		return true
	}
	return strings.EqualFold(filepath.Ext(doc.FileName), ".csv")
}
