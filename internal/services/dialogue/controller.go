package dialogue

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/killallgit/telehotels/internal/models"
	"github.com/killallgit/telehotels/internal/services/history"
	"github.com/killallgit/telehotels/internal/services/hotels"
	"github.com/killallgit/telehotels/internal/services/results"
	apperrors "github.com/killallgit/telehotels/pkg/errors"
)

// Config tunes the controller
type Config struct {
	// BestDealPageSize is how many hotels a best-deal search fetches before
	// the distance band is applied
	BestDealPageSize int
}

// Session is the per-chat dialogue state
type Session struct {
	ID        string
	ChatID    int64
	UserID    int64
	Username  string
	Step      StepName
	Request   models.SearchRequest
	UpdatedAt time.Time
}

// Controller runs the search dialogues of every chat
type Controller struct {
	messenger Messenger
	search    SearchClient
	formatter Formatter
	store     history.Store
	cfg       Config
	logger    *slog.Logger
	now       func() time.Time

	mu       sync.Mutex
	sessions map[int64]*Session
}

// NewController creates a dialogue controller
func NewController(messenger Messenger, search SearchClient, formatter Formatter, store history.Store, cfg Config, logger *slog.Logger) *Controller {
	if cfg.BestDealPageSize < models.MaxResultCount {
		cfg.BestDealPageSize = 25
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{
		messenger: messenger,
		search:    search,
		formatter: formatter,
		store:     store,
		cfg:       cfg,
		logger:    logger.With("component", "dialogue"),
		now:       time.Now,
		sessions:  make(map[int64]*Session),
	}
}

// Start begins flow in chatID, replacing any dialogue already running there
func (c *Controller) Start(ctx context.Context, chatID, userID int64, username string, flow models.Flow) error {
	if !flow.Valid() {
		return fmt.Errorf("unknown flow %q", flow)
	}

	first := flowSteps[flow][0]
	sess := &Session{
		ID:        uuid.NewString(),
		ChatID:    chatID,
		UserID:    userID,
		Username:  username,
		Step:      first,
		Request:   models.NewSearchRequest(flow),
		UpdatedAt: c.now(),
	}

	c.mu.Lock()
	_, replaced := c.sessions[chatID]
	c.sessions[chatID] = sess
	c.mu.Unlock()

	c.logger.Info("dialogue started",
		"session_id", sess.ID, "chat_id", chatID, "user_id", userID, "flow", flow, "replaced", replaced)

	c.send(ctx, chatID, steps[first].prompt())
	return nil
}

// HandleReply feeds a free-text reply to the chat's dialogue. It reports
// false when no dialogue is active in chatID.
func (c *Controller) HandleReply(ctx context.Context, chatID int64, text string) bool {
	sess, ok := c.Session(chatID)
	if !ok {
		return false
	}

	current := steps[sess.Step]
	c.logger.Info("dialogue reply",
		"session_id", sess.ID,
		"user_id", sess.UserID,
		"username", sess.Username,
		"step", current.name,
		"reply", text)

	req := sess.Request
	reason, err := current.validate(ctx, c, text, &req)
	if err != nil {
		c.end(chatID, sess.ID)
		c.abort(ctx, c.logger.With("session_id", sess.ID, "step", current.name), chatID, err)
		return true
	}

	if reason != "" {
		if current.resetOnReject {
			sess.Request = models.NewSearchRequest(sess.Request.Flow)
		}
		c.update(sess)
		c.send(ctx, chatID, string(reason)+"\n"+current.prompt())
		return true
	}

	sess.Request = req
	next := nextStep(req.Flow, current.name)
	if next == "" {
		c.end(chatID, sess.ID)
		c.complete(ctx, sess)
		return true
	}

	sess.Step = next
	c.update(sess)
	c.send(ctx, chatID, steps[next].prompt())
	return true
}

// Cancel drops the chat's dialogue and reports whether one was active
func (c *Controller) Cancel(chatID int64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.sessions[chatID]; !ok {
		return false
	}
	delete(c.sessions, chatID)
	return true
}

// Session returns a copy of the chat's dialogue state
func (c *Controller) Session(chatID int64) (Session, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	sess, ok := c.sessions[chatID]
	if !ok {
		return Session{}, false
	}
	return *sess, true
}

// ActiveSessions returns the number of running dialogues
func (c *Controller) ActiveSessions() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.sessions)
}

// ExpireIdle drops dialogues untouched for longer than maxIdle and returns
// how many were dropped
func (c *Controller) ExpireIdle(maxIdle time.Duration) int {
	cutoff := c.now().Add(-maxIdle)

	c.mu.Lock()
	defer c.mu.Unlock()

	expired := 0
	for chatID, sess := range c.sessions {
		if sess.UpdatedAt.Before(cutoff) {
			delete(c.sessions, chatID)
			expired++
			c.logger.Info("dialogue expired", "session_id", sess.ID, "chat_id", chatID, "step", sess.Step)
		}
	}
	return expired
}

// update stores sess unless it was replaced or cancelled meanwhile
func (c *Controller) update(sess Session) {
	sess.UpdatedAt = c.now()

	c.mu.Lock()
	defer c.mu.Unlock()
	if cur, ok := c.sessions[sess.ChatID]; ok && cur.ID == sess.ID {
		c.sessions[sess.ChatID] = &sess
	}
}

func (c *Controller) end(chatID int64, sessionID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if cur, ok := c.sessions[chatID]; ok && cur.ID == sessionID {
		delete(c.sessions, chatID)
	}
}

// complete runs the search, delivers the results and records history
func (c *Controller) complete(ctx context.Context, sess Session) {
	req := sess.Request
	log := c.logger.With("session_id", sess.ID, "chat_id", sess.ChatID, "flow", req.Flow)

	statusID, statusErr := c.messenger.SendText(ctx, sess.ChatID, msgSearching)
	if statusErr != nil {
		log.Warn("failed to send status message", "error", statusErr)
	}

	list, err := c.runSearch(ctx, req)

	if statusErr == nil {
		if err := c.messenger.DeleteMessage(ctx, sess.ChatID, statusID); err != nil {
			log.Warn("failed to delete status message", "error", err)
		}
	}

	if err != nil {
		c.abort(ctx, log, sess.ChatID, err)
		return
	}

	if len(list) == 0 {
		log.Info("search returned nothing")
		c.send(ctx, sess.ChatID, fmt.Sprintf(msgNothingFoundFmt, req.Flow))
		return
	}

	units := c.formatter.Build(ctx, list, req.PhotoCount)
	for _, unit := range units {
		c.deliver(ctx, sess.ChatID, unit)
	}
	log.Info("results delivered", "count", len(units))

	c.record(ctx, sess)
}

func (c *Controller) runSearch(ctx context.Context, req models.SearchRequest) ([]hotels.Hotel, error) {
	switch req.Flow {
	case models.FlowLowPrice:
		return c.search.SearchByPrice(ctx, req.DestinationID, hotels.SortPriceAscending, req.ResultCount)
	case models.FlowHighPrice:
		return c.search.SearchByPrice(ctx, req.DestinationID, hotels.SortPriceDescending, req.ResultCount)
	case models.FlowBestDeal:
		list, err := c.search.SearchBestDeal(ctx, req.DestinationID, c.cfg.BestDealPageSize, req.PriceMin, req.PriceMax)
		if err != nil {
			return nil, err
		}
		list = results.FilterByCenterDistance(list, req.DistanceMin, req.DistanceMax)
		if len(list) > req.ResultCount {
			list = list[:req.ResultCount]
		}
		return list, nil
	default:
		return nil, fmt.Errorf("unknown flow %q", req.Flow)
	}
}

// deliver sends one unit: the photo album first, then the text
func (c *Controller) deliver(ctx context.Context, chatID int64, unit results.DisplayUnit) {
	var err error
	if len(unit.Photos) > 0 {
		err = c.messenger.SendPhotoGroup(ctx, chatID, unit.Photos)
	}
	if err == nil {
		_, err = c.messenger.SendText(ctx, chatID, unit.Text)
	}
	if err != nil {
		c.logger.Error("failed to deliver result", "chat_id", chatID, "hotel_id", unit.HotelID, "error", err)
		c.send(ctx, chatID, msgDeliveryError)
	}
}

func (c *Controller) record(ctx context.Context, sess Session) {
	if err := c.store.UpsertUser(ctx, sess.UserID, sess.Username); err != nil {
		c.logger.Error("failed to upsert user", "user_id", sess.UserID, "error", err)
	}
	if err := c.store.AppendHistory(ctx, sess.Request.HistoryEntry(sess.UserID)); err != nil {
		c.logger.Error("failed to append history", "user_id", sess.UserID, "error", err)
	}
}

// abort reports a failed lookup or search. Only transport failures are
// presented to the user as connection problems.
func (c *Controller) abort(ctx context.Context, log *slog.Logger, chatID int64, err error) {
	if apperrors.IsTransport(err) {
		log.Error("hotel search unavailable", "chat_id", chatID, "code", apperrors.GetCode(err), "error", err)
		c.send(ctx, chatID, msgConnectionError)
		return
	}
	log.Error("unexpected search failure", "chat_id", chatID, "error", err)
	c.send(ctx, chatID, msgSearchFailed)
}

func (c *Controller) send(ctx context.Context, chatID int64, text string) {
	if _, err := c.messenger.SendText(ctx, chatID, text); err != nil {
		c.logger.Error("failed to send message", "chat_id", chatID, "error", err)
	}
}
