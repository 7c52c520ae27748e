package telegram

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog/log"

	app "smartcity-ml/internal/application"
	"smartcity-ml/internal/domain/entity"
)

const (
	// Пользователи без активности дольше idleTimeout забываются.
	idleTimeout   = 24 * time.Hour
	purgeInterval = time.Hour
)

// Bot представляет Telegram-бота
type Bot struct {
	api       *tgbotapi.BotAPI
	users     *app.UserService
	damage    *app.DamageService
	analytics *app.AnalyticsService
	maxFile   int64
	client    *http.Client
	wg        sync.WaitGroup
}

// NewBot создаёт нового бота
func NewBot(token string, users *app.UserService, damage *app.DamageService, analytics *app.AnalyticsService, maxFile int64) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	log.Info().Str("account", api.Self.UserName).Msg("telegram bot authorized")

	return &Bot{
		api:       api,
		users:     users,
		damage:    damage,
		analytics: analytics,
		maxFile:   maxFile,
		client:    &http.Client{Timeout: time.Minute},
	}, nil
}

// Run запускает основной цикл обработки сообщений и завершается по отмене ctx.
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	purge := time.NewTicker(purgeInterval)
	defer purge.Stop()

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			b.wg.Wait()
			return nil

		case <-purge.C:
			n, err := b.users.PurgeIdle(ctx, idleTimeout)
			if err != nil {
				log.Error().Err(err).Msg("purge idle users")
				continue
			}
			if n > 0 {
				log.Debug().Int("purged", n).Msg("idle users purged")
			}

		case update, ok := <-updates:
			if !ok {
				b.wg.Wait()
				return nil
			}
			if update.Message == nil || update.Message.From == nil {
				continue
			}

			b.wg.Add(1)
			go func(msg *tgbotapi.Message) {
				defer b.wg.Done()
				b.handleMessage(ctx, msg)
			}(update.Message)
		}
	}
}

// handleMessage обрабатывает входящее сообщение
func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	user, err := b.users.Get(ctx, msg.From.ID, msg.Chat.ID)
	if err != nil {
		log.Error().Err(err).Int64("user_id", msg.From.ID).Msg("get user")
		return
	}

	// Обработка команд
	if msg.IsCommand() {
		b.handleCommand(ctx, msg)
		return
	}

	upload := classifyUpload(msg)
	act := decide(user.State, upload)
	switch act {
	case actionScoreDamage, actionScoreUsage:
		b.process(ctx, msg, upload)
	case actionBusy:
		b.sendMessage(msg.Chat.ID, msgBusy)
	case actionRemindPhoto:
		b.sendMessage(msg.Chat.ID, msgAwaitingPhoto)
	case actionRemindUsageLog:
		b.sendMessage(msg.Chat.ID, msgAwaitingUsageLog)
	case actionNotCSV:
		b.sendMessage(msg.Chat.ID, msgNotCSV)
	default:
		b.sendMessage(msg.Chat.ID, msgSendPhoto)
	}
}

// process занимает пользователя на время анализа. Параллельный второй файл
// от того же пользователя получает отказ.
func (b *Bot) process(ctx context.Context, msg *tgbotapi.Message, upload uploadKind) {
	if b.maxFile > 0 && int64(uploadSize(msg, upload)) > b.maxFile {
		b.sendMessage(msg.Chat.ID, msgFileTooLarge)
		return
	}

	if _, err := b.users.StartProcessing(ctx, msg.From.ID, msg.Chat.ID); err != nil {
		if errors.Is(err, entity.ErrBusy) {
			b.sendMessage(msg.Chat.ID, msgBusy)
			return
		}
		log.Error().Err(err).Int64("user_id", msg.From.ID).Msg("start processing")
		b.sendMessage(msg.Chat.ID, msgProcessingError)
		return
	}
	defer b.setState(ctx, msg, entity.StateMainMenu)

	if upload == uploadPhoto {
		b.handlePhoto(ctx, msg)
		return
	}
	b.handleUsageLog(ctx, msg)
}

// handleCommand обрабатывает команды бота
func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	var (
		reply string
		err   error
	)

	switch msg.Command() {
	case "start":
		_, err = b.users.Cancel(ctx, msg.From.ID, msg.Chat.ID)
		reply = msgStart
	case "help":
		reply = msgHelp
	case "damage", "check":
		_, err = b.users.BeginDamageCheck(ctx, msg.From.ID, msg.Chat.ID)
		reply = msgAwaitingPhoto
	case "anomaly":
		_, err = b.users.BeginUsageCheck(ctx, msg.From.ID, msg.Chat.ID)
		reply = msgAwaitingUsageLog
	case "cancel":
		_, err = b.users.Cancel(ctx, msg.From.ID, msg.Chat.ID)
		reply = msgCancelled
	default:
		reply = msgUnknownCommand
	}

	if err != nil {
		log.Error().Err(err).Str("command", msg.Command()).Msg("update user state")
	}
	b.sendMessage(msg.Chat.ID, reply)
}

// handlePhoto оценивает дорожное покрытие. Подпись "yolo" выбирает модель.
func (b *Bot) handlePhoto(ctx context.Context, msg *tgbotapi.Message) {
	b.sendMessage(msg.Chat.ID, msgProcessing)

	// Получаем файл с максимальным разрешением
	photo := msg.Photo[len(msg.Photo)-1]

	imageData, err := b.downloadFile(ctx, photo.FileID)
	if err != nil {
		log.Error().Err(err).Int64("chat_id", msg.Chat.ID).Msg("download photo")
		b.sendMessage(msg.Chat.ID, errorMessage(err))
		return
	}

	// произвольная подпись означает вариант по умолчанию
	kind, _ := app.ParseScorerKind(msg.Caption)

	insp, err := b.damage.Predict(ctx, imageData, kind)
	if err != nil {
		log.Warn().Err(err).Int64("chat_id", msg.Chat.ID).Msg("damage scoring failed")
		b.sendMessage(msg.Chat.ID, errorMessage(err))
		return
	}

	text := formatDamage(insp.Result)

	highlighted, err := b.damage.Highlight(imageData, insp)
	if err != nil {
		log.Warn().Err(err).Msg("highlight regions")
	}
	if len(highlighted) == 0 {
		b.sendMessage(msg.Chat.ID, text)
		return
	}

	reply := tgbotapi.NewPhoto(msg.Chat.ID, tgbotapi.FileBytes{Name: "damage.jpg", Bytes: highlighted})
	reply.Caption = text
	if _, err := b.api.Send(reply); err != nil {
		log.Error().Err(err).Msg("send photo")
		b.sendMessage(msg.Chat.ID, text)
	}
}

// handleUsageLog ищет выбросы в присланном CSV.
func (b *Bot) handleUsageLog(ctx context.Context, msg *tgbotapi.Message) {
	data, err := b.downloadFile(ctx, msg.Document.FileID)
	if err != nil {
		log.Error().Err(err).Int64("chat_id", msg.Chat.ID).Msg("download document")
		b.sendMessage(msg.Chat.ID, errorMessage(err))
		return
	}

	result, err := b.analytics.DetectAnomaly(ctx, bytes.NewReader(data))
	if err != nil {
		log.Warn().Err(err).Int64("chat_id", msg.Chat.ID).Msg("anomaly detection failed")
		b.sendMessage(msg.Chat.ID, errorMessage(err))
		return
	}

	b.sendMessage(msg.Chat.ID, formatAnomaly(result))
}

func (b *Bot) setState(ctx context.Context, msg *tgbotapi.Message, state entity.UserState) {
	if _, err := b.users.SetState(ctx, msg.From.ID, msg.Chat.ID, state); err != nil {
		log.Error().Err(err).Str("state", string(state)).Msg("update user state")
	}
}

// downloadFile скачивает файл из Telegram
func (b *Bot) downloadFile(ctx context.Context, fileID string) ([]byte, error) {
	file, err := b.api.GetFile(tgbotapi.FileConfig{FileID: fileID})
	if err != nil {
		return nil, fmt.Errorf("get file: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, file.Link(b.api.Token), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := b.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download file: unexpected status %s", resp.Status)
	}

	return readLimited(resp.Body, b.maxFile)
}

// readLimited читает не больше limit байт. Если файл длиннее, возвращает errFileTooLarge.
func readLimited(r io.Reader, limit int64) ([]byte, error) {
	if limit <= 0 {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("read file: %w", err)
		}
		return data, nil
	}

	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("%w: more than %d bytes", errFileTooLarge, limit)
	}
	return data, nil
}

// sendMessage отправляет текстовое сообщение
func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		log.Error().Err(err).Int64("chat_id", chatID).Msg("send message")
	}
}
