package game

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sukalov/karaokemadness/internal/bot"
	"github.com/sukalov/karaokemadness/internal/logger"
	"github.com/sukalov/karaokemadness/internal/redis"
	"github.com/sukalov/karaokemadness/internal/schedule"
	"github.com/sukalov/karaokemadness/internal/songbook"
	"github.com/sukalov/karaokemadness/internal/state"
	"github.com/sukalov/karaokemadness/internal/utils"
)

var difficultyNames = map[schedule.Difficulty]string{
	schedule.DifficultySection: "по куплетам",
	schedule.DifficultyLine:    "по строчкам",
	schedule.DifficultyPhrase:  "по фразам",
	schedule.DifficultyWord:    "по словам",
}

type GameHandlers struct {
	gameManager *state.Manager
	db          *redis.DBManager
}

func NewGameHandlers(gameManager *state.Manager, db *redis.DBManager) *GameHandlers {
	return &GameHandlers{
		gameManager: gameManager,
		db:          db,
	}
}

func (h *GameHandlers) GetCommandHandlers() map[string]func(b *bot.Bot, update tgbotapi.Update) error {
	return map[string]func(b *bot.Bot, update tgbotapi.Update) error{
		"songs":      h.songsHandler,
		"play":       h.playHandler,
		"difficulty": h.difficultyHandler,
		"reshuffle":  h.reshuffleHandler,
		"assignment": h.assignmentHandler,
		"finish":     h.finishHandler,
		"cancel":     h.cancelHandler,
		"wins":       h.winsHandler,
	}
}

func (h *GameHandlers) GetMessageHandlers() []func(b *bot.Bot, update tgbotapi.Update) error {
	return []func(b *bot.Bot, update tgbotapi.Update) error{
		h.playerNamesHandler,
	}
}

func (h *GameHandlers) songsHandler(b *bot.Bot, update tgbotapi.Update) error {
	entries := songbook.All()
	if len(entries) == 0 {
		return b.SendMessage(update.Message.Chat.ID, "сонгбук пока пуст")
	}

	var list strings.Builder
	list.WriteString("что поём:\n\n")
	for _, entry := range entries {
		list.WriteString(fmt.Sprintf(
			"`%s` — %s (%s)\n",
			entry.Song.ID,
			songbook.FormatSongName(entry),
			utils.FormatClock(entry.Timing.DurationMs()),
		))
	}
	list.WriteString("\nчтобы начать: /play <id>")
	return b.SendMessageWithMarkdown(update.Message.Chat.ID, list.String())
}

func (h *GameHandlers) playHandler(b *bot.Bot, update tgbotapi.Update) error {
	message := update.Message
	songID := strings.TrimSpace(message.CommandArguments())
	if songID == "" {
		return b.SendMessage(message.Chat.ID, "нужен id песни: /play <id>\nсписок в /songs")
	}

	entry, found := songbook.FindSongByID(songID)
	if !found {
		return b.SendMessage(message.Chat.ID, "извините, песни с таким id нет")
	}

	session := state.Session{
		ChatID:   message.Chat.ID,
		SongID:   entry.Song.ID,
		SongName: songbook.FormatSongName(entry),
	}
	if err := h.gameManager.BeginSetup(context.Background(), session, entry.Timing.Lines, entry.Timing.Sections); err != nil {
		return b.SendMessage(message.Chat.ID, "в этом чате уже идёт игра. закончить — /finish, отменить — /cancel")
	}

	logger.Info(fmt.Sprintf("chat %d picked song %s", message.Chat.ID, entry.Song.ID))
	return b.SendMessage(message.Chat.ID,
		fmt.Sprintf("выбрана песня \"%s\". кто поёт? напишите имена через запятую (от 2 до 6 человек)", session.SongName))
}

// playerNamesHandler closes the setup stage: the first plain message after
// /play is read as the comma-separated player list.
func (h *GameHandlers) playerNamesHandler(b *bot.Bot, update tgbotapi.Update) error {
	message := update.Message
	if message == nil || message.Text == "" || message.IsCommand() {
		return nil
	}

	session, ok := h.gameManager.Session(message.Chat.ID)
	if !ok || session.Stage != state.StageAskingPlayers {
		return nil
	}

	var names []string
	for _, name := range strings.Split(message.Text, ",") {
		if trimmed := strings.TrimSpace(name); trimmed != "" {
			names = append(names, trimmed)
		}
	}

	seed := time.Now().UnixNano()
	assignment, err := h.gameManager.StartGame(context.Background(), message.Chat.ID, names, seed)
	if err != nil {
		return b.SendMessage(message.Chat.ID, fmt.Sprintf("так не получится: %v\nпопробуйте ещё раз", err))
	}

	logger.Success(fmt.Sprintf("game started in chat %d: %s, %d players", message.Chat.ID, session.SongID, len(names)))
	started, _ := h.gameManager.Session(message.Chat.ID)
	header := fmt.Sprintf("поехали! сложность: %s\n\n", difficultyNames[started.Difficulty])
	return b.SendMessageWithMarkdown(message.Chat.ID, header+formatAssignment(assignment, names))
}

func (h *GameHandlers) difficultyHandler(b *bot.Bot, update tgbotapi.Update) error {
	message := update.Message
	level, err := strconv.Atoi(strings.TrimSpace(message.CommandArguments()))
	if err != nil {
		return b.SendMessage(message.Chat.ID, "какая сложность? /difficulty 0 — по куплетам, 1 — по строчкам, 2 — по фразам, 3 — по словам")
	}

	assignment, err := h.gameManager.SetDifficulty(context.Background(), message.Chat.ID, schedule.Difficulty(level))
	if err != nil {
		return b.SendMessage(message.Chat.ID, fmt.Sprintf("не вышло: %v", err))
	}

	session, _ := h.gameManager.Session(message.Chat.ID)
	header := fmt.Sprintf("теперь %s\n\n", difficultyNames[session.Difficulty])
	return b.SendMessageWithMarkdown(message.Chat.ID, header+formatAssignment(assignment, session.PlayerNames))
}

func (h *GameHandlers) reshuffleHandler(b *bot.Bot, update tgbotapi.Update) error {
	message := update.Message
	assignment, err := h.gameManager.Reshuffle(context.Background(), message.Chat.ID, time.Now().UnixNano())
	if err != nil {
		return b.SendMessage(message.Chat.ID, fmt.Sprintf("не вышло: %v", err))
	}

	session, _ := h.gameManager.Session(message.Chat.ID)
	return b.SendMessageWithMarkdown(message.Chat.ID, "перемешали!\n\n"+formatAssignment(assignment, session.PlayerNames))
}

func (h *GameHandlers) assignmentHandler(b *bot.Bot, update tgbotapi.Update) error {
	message := update.Message
	assignment, session, ok := h.gameManager.Assignment(message.Chat.ID)
	if !ok {
		return b.SendMessage(message.Chat.ID, "сейчас никто не поёт. начать — /play <id>")
	}
	return b.SendMessageWithMarkdown(message.Chat.ID, formatAssignment(assignment, session.PlayerNames))
}

func (h *GameHandlers) finishHandler(b *bot.Bot, update tgbotapi.Update) error {
	message := update.Message
	ctx := context.Background()

	stats, session, err := h.gameManager.Finish(ctx, message.Chat.ID)
	if err != nil {
		return b.SendMessage(message.Chat.ID, "нечего заканчивать: игра не идёт")
	}

	if err := songbook.IncrementPlays(session.SongID); err != nil {
		logger.LogWithErr(fmt.Sprintf("failed to count play of %s", session.SongID), err)
	}
	if stats.MostWords.Count > 0 {
		if err := h.db.IncrementWinCount(ctx, message.Chat.ID, stats.MostWords.Name); err != nil {
			logger.LogWithErr("failed to increment win count", err)
		}
	}

	logger.Success(fmt.Sprintf("game finished in chat %d: %s", message.Chat.ID, session.SongID))
	return b.SendMessageWithMarkdown(message.Chat.ID, formatStats(stats, session))
}

func (h *GameHandlers) cancelHandler(b *bot.Bot, update tgbotapi.Update) error {
	message := update.Message
	if err := h.gameManager.Abort(context.Background(), message.Chat.ID); err != nil {
		return b.SendMessage(message.Chat.ID, "отменять нечего")
	}
	return b.SendMessage(message.Chat.ID, "игра отменена")
}

func (h *GameHandlers) winsHandler(b *bot.Bot, update tgbotapi.Update) error {
	message := update.Message
	wins, err := h.db.GetWinCounts(context.Background(), message.Chat.ID)
	if err != nil {
		logger.LogWithErr("failed to load win counts", err)
		return b.SendMessage(message.Chat.ID, "произошла ошибка при загрузке статистики")
	}
	if len(wins) == 0 {
		return b.SendMessage(message.Chat.ID, "в этом чате ещё никто не выигрывал")
	}

	var text strings.Builder
	text.WriteString("зал славы:\n\n")
	for name, count := range wins {
		text.WriteString(fmt.Sprintf("%s — %d\n", name, count))
	}
	return b.SendMessage(message.Chat.ID, text.String())
}

// formatAssignment renders the split line by line. Consecutive words with
// one owner collapse into a single labelled run, so a line reads like
// "даша: новый поворот | миша: и мотор ревёт".
func formatAssignment(assignment schedule.PlayerAssignment, names []string) string {
	var text strings.Builder
	for _, line := range assignment.Lines {
		if len(line.Words) == 0 {
			continue
		}
		text.WriteString(fmt.Sprintf("%d. ", line.LineIndex+1))
		for i, w := range line.Words {
			if i > 0 && w.Owner == line.Words[i-1].Owner {
				text.WriteString(" " + w.Word.Word)
				continue
			}
			if i > 0 {
				text.WriteString(" | ")
			}
			text.WriteString(fmt.Sprintf("*%s:* %s", ownerLabel(w.Owner, names), w.Word.Word))
		}
		text.WriteString("\n")
	}
	return text.String()
}

func ownerLabel(owner int, names []string) string {
	if owner == schedule.Everyone {
		return "ВСЕ"
	}
	if owner >= 0 && owner < len(names) {
		return names[owner]
	}
	return "?"
}

func formatStats(stats schedule.GameStats, session state.Session) string {
	var text strings.Builder
	text.WriteString(fmt.Sprintf("🎤 спели \"%s\"! итоги:\n\n", session.SongName))
	for i, name := range session.PlayerNames {
		text.WriteString(fmt.Sprintf(
			"%s — %d слов, %s с микрофоном\n",
			name,
			stats.WordCounts[i],
			utils.FormatClock(stats.TotalDurationMs[i]),
		))
	}
	if stats.MostWords.Count > 0 {
		text.WriteString(fmt.Sprintf("\nбольше всех слов у *%s* (%d) 👑", stats.MostWords.Name, stats.MostWords.Count))
	}
	return text.String()
}
