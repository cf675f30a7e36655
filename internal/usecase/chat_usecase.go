package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"

	"github.com/eslsoft/lingolive/internal/entity"
	"github.com/eslsoft/lingolive/internal/store"
)

// Conversation XP.
const (
	UserMessageXP  = 5
	TutorMessageXP = 10
)

// TutorHistoryLimit caps how many recent messages are sent to the tutor.
const TutorHistoryLimit = 20

// ChatTurn is the result of one exchange with the tutor.
type ChatTurn struct {
	UserMessage       entity.Message      `json:"userMessage"`
	Reply             *entity.Message     `json:"reply,omitempty"`
	AddedWords        []entity.Word       `json:"addedWords,omitempty"`
	XPAwarded         int                 `json:"xpAwarded"`
	MessagesRemaining int                 `json:"messagesRemaining"`
	Progress          entity.UserProgress `json:"progress"`
}

// ChatUsecase runs conversation turns against the tutor.
type ChatUsecase interface {
	SendMessage(ctx context.Context, userID, content string) (*ChatTurn, error)
}

// NewChatUsecase wires the sessions and the tutor.
func NewChatUsecase(sessions SessionRegistry, tutor Tutor, logger *logrus.Logger) ChatUsecase {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &chatUsecase{sessions: sessions, tutor: tutor, logger: logger, clock: time.Now}
}

type chatUsecase struct {
	sessions SessionRegistry
	tutor    Tutor
	logger   *logrus.Logger
	clock    func() time.Time
}

func (u *chatUsecase) SendMessage(ctx context.Context, userID, content string) (*ChatTurn, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, entity.ErrEmptyMessage
	}

	ctx, span := tracer.Start(ctx, "Chat.SendMessage")
	defer span.End()
	span.SetAttributes(attribute.String("user.id", userID))

	st, err := u.sessions.Open(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !st.UseMessage() {
		return nil, entity.ErrMessageQuotaExhausted
	}

	userMsg := entity.Message{
		ID:        uuid.NewString(),
		Role:      entity.RoleUser,
		Content:   content,
		Timestamp: u.clock(),
	}
	st.AddMessage(userMsg)
	st.AddXP(UserMessageXP)
	turn := &ChatTurn{UserMessage: userMsg, XPAwarded: UserMessageXP}

	lang := entity.DefaultTutorLanguage
	if selected, ok := st.TargetLanguage(); ok {
		lang = selected
	}
	req := entity.TutorRequest{Language: lang.Name, History: recentMessages(st.Messages(), TutorHistoryLimit)}
	if id, ok := st.StoryMode(); ok {
		if mode, found := entity.LookupStoryMode(id); found {
			req.Scenario = mode.Scenario
		}
	}

	reply, err := u.tutor.Reply(ctx, req)
	if err != nil {
		span.RecordError(err)
		u.logger.WithError(err).WithField("user_id", userID).Warn("tutor reply failed")
		if saveErr := u.sessions.Save(ctx, userID); saveErr != nil {
			u.logger.WithError(saveErr).WithField("user_id", userID).Error("save session after tutor failure")
		}
		return nil, fmt.Errorf("tutor reply: %w", err)
	}

	assistant := entity.Message{
		ID:          uuid.NewString(),
		Role:        entity.RoleAssistant,
		Content:     reply.Text,
		Translation: reply.Translation,
		Words:       annotateWords(st, reply.Words),
		Timestamp:   u.clock(),
	}
	st.AddMessage(assistant)
	st.AddXP(TutorMessageXP)
	turn.Reply = &assistant
	turn.XPAwarded += TutorMessageXP
	turn.AddedWords = addContextWords(st, lang.Code, assistant.Words)

	if err := u.sessions.Save(ctx, userID); err != nil {
		return nil, err
	}
	progress := st.Progress()
	turn.Progress = progress
	turn.MessagesRemaining = progress.MessagesRemaining()
	return turn, nil
}

// annotateWords marks reply words the learner already knows and flags the
// rest as new.
func annotateWords(st *store.Store, words []entity.WordInContext) []entity.WordInContext {
	if len(words) == 0 {
		return nil
	}
	known := lo.SliceToMap(st.Vocabulary(), func(w entity.Word) (string, entity.Word) {
		return entity.NormalizeWordToken(w.Word), w
	})
	out := make([]entity.WordInContext, 0, len(words))
	for _, w := range words {
		if strings.TrimSpace(w.Word) == "" {
			continue
		}
		if existing, ok := known[entity.NormalizeWordToken(w.Word)]; ok {
			w.IsNew = false
			w.IsKnown = existing.IsKnown()
		} else {
			w.IsNew = true
			w.IsKnown = false
		}
		out = append(out, w)
	}
	return out
}

func addContextWords(st *store.Store, code string, words []entity.WordInContext) []entity.Word {
	var added []entity.Word
	for _, w := range words {
		if !w.IsNew || w.Translation == "" {
			continue
		}
		word := entity.Word{
			ID:            entity.ContextWordID(code, w.Word),
			Word:          strings.TrimSpace(w.Word),
			Translation:   w.Translation,
			Pronunciation: w.Pronunciation,
			PartOfSpeech:  w.PartOfSpeech,
		}
		if st.AddWord(word) {
			added = append(added, word)
		}
	}
	return added
}

func recentMessages(msgs []entity.Message, n int) []entity.Message {
	if len(msgs) <= n {
		return msgs
	}
	return msgs[len(msgs)-n:]
}
