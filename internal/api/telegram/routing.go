package telegram

import (
	"errors"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"smartcity-ml/internal/domain/entity"
)

// errFileTooLarge файл больше допустимого размера.
var errFileTooLarge = errors.New("file is too large")

// uploadKind что прислал пользователь
type uploadKind int

const (
	uploadNone uploadKind = iota
	uploadPhoto
	uploadUsageLog
	uploadOtherDocument
)

// action реакция бота на сообщение
type action int

const (
	actionHint action = iota
	actionScoreDamage
	actionScoreUsage
	actionBusy
	actionRemindPhoto
	actionRemindUsageLog
	actionNotCSV
)

func classifyUpload(msg *tgbotapi.Message) uploadKind {
	switch {
	case len(msg.Photo) > 0:
		return uploadPhoto
	case msg.Document != nil && isUsageLog(msg.Document):
		return uploadUsageLog
	case msg.Document != nil:
		return uploadOtherDocument
	default:
		return uploadNone
	}
}

// decide выбирает реакцию по состоянию диалога. Из главного меню принимаются
// и фото, и CSV; после /damage или /anomaly ждём только свой тип файла.
func decide(state entity.UserState, upload uploadKind) action {
	if state == entity.StateProcessing {
		return actionBusy
	}

	switch upload {
	case uploadPhoto:
		if state == entity.StateAwaitingUsageLog {
			return actionRemindUsageLog
		}
		return actionScoreDamage
	case uploadUsageLog:
		if state == entity.StateAwaitingRoadPhoto {
			return actionRemindPhoto
		}
		return actionScoreUsage
	case uploadOtherDocument:
		return actionNotCSV
	}

	switch state {
	case entity.StateAwaitingRoadPhoto:
		return actionRemindPhoto
	case entity.StateAwaitingUsageLog:
		return actionRemindUsageLog
	default:
		return actionHint
	}
}

// uploadSize размер файла по данным Telegram, 0 если неизвестен.
func uploadSize(msg *tgbotapi.Message, upload uploadKind) int {
	switch upload {
	case uploadPhoto:
		return msg.Photo[len(msg.Photo)-1].FileSize
	case uploadUsageLog, uploadOtherDocument:
		return msg.Document.FileSize
	default:
		return 0
	}
}
