package telegram

import (
	"bytes"
	"strings"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/require"

	"smartcity-ml/internal/domain/entity"
)

func TestClassifyUpload(t *testing.T) {
	photo := &tgbotapi.Message{Photo: []tgbotapi.PhotoSize{{FileID: "small", FileSize: 10}, {FileID: "big", FileSize: 900}}}
	require.Equal(t, uploadPhoto, classifyUpload(photo))
	require.Equal(t, 900, uploadSize(photo, uploadPhoto))

	csv := &tgbotapi.Message{Document: &tgbotapi.Document{FileName: "usage.csv", FileSize: 42}}
	require.Equal(t, uploadUsageLog, classifyUpload(csv))
	require.Equal(t, 42, uploadSize(csv, uploadUsageLog))

	pdf := &tgbotapi.Message{Document: &tgbotapi.Document{FileName: "report.pdf"}}
	require.Equal(t, uploadOtherDocument, classifyUpload(pdf))

	require.Equal(t, uploadNone, classifyUpload(&tgbotapi.Message{Text: "привет"}))
}

func TestDecide(t *testing.T) {
	tests := []struct {
		state  entity.UserState
		upload uploadKind
		want   action
	}{
		{entity.StateMainMenu, uploadPhoto, actionScoreDamage},
		{entity.StateMainMenu, uploadUsageLog, actionScoreUsage},
		{entity.StateMainMenu, uploadNone, actionHint},
		{entity.StateMainMenu, uploadOtherDocument, actionNotCSV},

		{entity.StateAwaitingRoadPhoto, uploadPhoto, actionScoreDamage},
		{entity.StateAwaitingRoadPhoto, uploadUsageLog, actionRemindPhoto},
		{entity.StateAwaitingRoadPhoto, uploadNone, actionRemindPhoto},

		{entity.StateAwaitingUsageLog, uploadUsageLog, actionScoreUsage},
		{entity.StateAwaitingUsageLog, uploadPhoto, actionRemindUsageLog},
		{entity.StateAwaitingUsageLog, uploadNone, actionRemindUsageLog},
		{entity.StateAwaitingUsageLog, uploadOtherDocument, actionNotCSV},

		{entity.StateProcessing, uploadPhoto, actionBusy},
		{entity.StateProcessing, uploadUsageLog, actionBusy},
		{entity.StateProcessing, uploadNone, actionBusy},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, decide(tt.state, tt.upload), "state %s upload %d", tt.state, tt.upload)
	}
}

func TestReadLimited(t *testing.T) {
	data, err := readLimited(strings.NewReader("12345"), 5)
	require.NoError(t, err)
	require.Equal(t, []byte("12345"), data)

	_, err = readLimited(strings.NewReader("123456"), 5)
	require.ErrorIs(t, err, errFileTooLarge)
	require.Equal(t, msgFileTooLarge, errorMessage(err))

	data, err = readLimited(bytes.NewReader(make([]byte, 1024)), 0)
	require.NoError(t, err)
	require.Len(t, data, 1024)
}
