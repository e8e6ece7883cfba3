package dispatch

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/xaenox/datalake-chat/internal/lake"
	"github.com/xaenox/datalake-chat/internal/loader"
	"github.com/xaenox/datalake-chat/internal/models"
	"github.com/xaenox/datalake-chat/internal/storage"
	"go.uber.org/zap"
)

const MsgUnavailable = "Invalid file type or no data available for the specified type."

// Categories in the order they are offered to the user
var Categories = []models.Category{models.CategoryCSV, models.CategoryExcel}

// Loader reads a folder into datasets
type Loader interface {
	Load(ctx context.Context, folder string) (*loader.Result, error)
}

// Request is one user interaction: the folder, the selected file type and the question
type Request struct {
	Folder   string          `json:"folder"`
	Category models.Category `json:"category"`
	Question string          `json:"question"`
}

// Outcome is everything shown to the user for one interaction
type Outcome struct {
	Notices       []models.Notice   `json:"notices"`
	Available     []models.Category `json:"available"`
	Error         string            `json:"error,omitempty"`
	Message       string            `json:"message,omitempty"`
	Label         string            `json:"label,omitempty"`
	Response      *models.Response  `json:"response,omitempty"`
	InteractionID string            `json:"interaction_id,omitempty"`
}

// Session runs interactions. Nothing is kept between runs: every Run loads the folder
// again (unless the loader caches) and builds fresh datalakes.
type Session struct {
	loader Loader
	client lake.LLM
	opts   lake.Options
	store  storage.Storage
	logger *zap.Logger
}

func NewSession(l Loader, client lake.LLM, opts lake.Options, store storage.Storage, logger *zap.Logger) *Session {
	return &Session{
		loader: l,
		client: client,
		opts:   opts,
		store:  store,
		logger: logger,
	}
}

// Run loads the folder, aggregates the datasets per category and forwards the question to
// the selected category. An invalid folder is reported in Outcome.Error; failures while
// answering the question are returned as the error.
func (s *Session) Run(ctx context.Context, req Request) (*Outcome, error) {
	out := &Outcome{Notices: []models.Notice{}, Available: []models.Category{}}

	folder := strings.TrimSpace(req.Folder)
	if folder == "" {
		return out, nil
	}

	res, err := s.loader.Load(ctx, folder)
	if err != nil {
		if errors.Is(err, loader.ErrInvalidFolder) {
			s.logger.Warn("Invalid folder", zap.String("folder", folder))
			out.Error = fmt.Sprintf("Error: Invalid folder path: %s", folder)
			return out, nil
		}
		return nil, err
	}
	out.Notices = append(out.Notices, res.Notices...)

	lakes := s.aggregate(res)
	for _, c := range Categories {
		if lakes[c] != nil {
			out.Available = append(out.Available, c)
		}
	}
	if len(out.Available) == 0 || strings.TrimSpace(req.Question) == "" {
		return out, nil
	}

	category := req.Category
	if category == "" {
		category = models.CategoryCSV
	}

	dl := lakes[category]
	if dl == nil {
		out.Message = MsgUnavailable
		return out, nil
	}

	resp, err := dl.Chat(ctx, req.Question)
	out.InteractionID = s.record(ctx, folder, category, req.Question, resp, err)
	if err != nil {
		s.logger.Error("Failed to answer question",
			zap.Error(err),
			zap.String("folder", folder),
			zap.String("category", string(category)))
		return nil, fmt.Errorf("answer %s question: %w", category.Label(), err)
	}

	out.Label = fmt.Sprintf("Response for %s files:", category.Label())
	out.Response = resp
	return out, nil
}

// aggregate builds one datalake per category that loaded at least one file
func (s *Session) aggregate(res *loader.Result) map[models.Category]*lake.Datalake {
	lakes := make(map[models.Category]*lake.Datalake, len(Categories))
	for _, c := range Categories {
		datasets := res.Datasets(c)
		frames := make([]*lake.Dataframe, 0, len(datasets))
		for _, ds := range datasets {
			frames = append(frames, lake.NewDataframe(ds, s.client, s.opts, s.logger))
		}
		if dl := lake.NewDatalake(frames, s.client, s.opts, s.logger); dl != nil {
			lakes[c] = dl
		}
	}
	return lakes
}

func (s *Session) record(ctx context.Context, folder string, category models.Category, question string, resp *models.Response, chatErr error) string {
	interaction := &models.Interaction{
		ID:        uuid.New().String(),
		Folder:    folder,
		Category:  category,
		Question:  question,
		CreatedAt: time.Now().UTC(),
	}
	if chatErr != nil {
		interaction.Error = chatErr.Error()
	} else {
		interaction.ResponseType = resp.Type
		interaction.Answer = resp.Text()
	}

	if err := s.store.SaveInteraction(ctx, interaction); err != nil {
		s.logger.Error("Failed to save interaction",
			zap.Error(err),
			zap.String("interaction_id", interaction.ID))
	}
	return interaction.ID
}

// History returns the most recent interactions, newest first
func (s *Session) History(ctx context.Context, limit int) ([]*models.Interaction, error) {
	return s.store.ListInteractions(ctx, limit)
}
