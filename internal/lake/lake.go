package lake

import (
	"context"
	"fmt"

	"github.com/xaenox/datalake-chat/internal/llm"
	"github.com/xaenox/datalake-chat/internal/models"
	"go.uber.org/zap"
)

// LLM is the language-model client shared by every handle of a run
type LLM interface {
	Complete(ctx context.Context, messages []llm.Message) (string, error)
}

type Options struct {
	SampleRows    int
	MaxRetries    int
	MaxResultRows int
}

func DefaultOptions() Options {
	return Options{
		SampleRows:    3,
		MaxRetries:    3,
		MaxResultRows: 200,
	}
}

// Dataframe binds one dataset to the shared client so it can be queried on its own
type Dataframe struct {
	dataset *models.Dataset
	client  LLM
	opts    Options
	logger  *zap.Logger
}

func NewDataframe(ds *models.Dataset, client LLM, opts Options, logger *zap.Logger) *Dataframe {
	return &Dataframe{
		dataset: ds,
		client:  client,
		opts:    opts,
		logger:  logger,
	}
}

func (df *Dataframe) Name() string {
	return df.dataset.Name
}

func (df *Dataframe) Dataset() *models.Dataset {
	return df.dataset
}

// Chat answers a question against this dataframe alone
func (df *Dataframe) Chat(ctx context.Context, question string) (*models.Response, error) {
	return NewDatalake([]*Dataframe{df}, df.client, df.opts, df.logger).Chat(ctx, question)
}

// Datalake groups dataframes of one category so they can be queried together
type Datalake struct {
	frames []*Dataframe
	client LLM
	opts   Options
	logger *zap.Logger
}

// NewDatalake returns nil when there is nothing to query
func NewDatalake(frames []*Dataframe, client LLM, opts Options, logger *zap.Logger) *Datalake {
	if len(frames) == 0 {
		return nil
	}
	return &Datalake{
		frames: frames,
		client: client,
		opts:   opts,
		logger: logger,
	}
}

func (l *Datalake) Dataframes() []*Dataframe {
	return l.frames
}

func (l *Datalake) tables() []table {
	files := make([]string, len(l.frames))
	for i, df := range l.frames {
		files[i] = df.dataset.Name
	}
	names := uniqueTableNames(files)

	tables := make([]table, len(l.frames))
	for i, df := range l.frames {
		tables[i] = table{name: names[i], dataset: df.dataset}
	}
	return tables
}

// Chat asks the model for a query answering question, runs it over the lake's tables and
// returns the typed result. A query that fails validation or execution is sent back to the
// model with the error, up to MaxRetries times. Model errors are returned immediately.
func (l *Datalake) Chat(ctx context.Context, question string) (*models.Response, error) {
	tables := l.tables()

	exec, err := newExecutor(ctx, tables)
	if err != nil {
		return nil, err
	}
	defer exec.Close()

	messages := []llm.Message{
		{Role: llm.RoleSystem, Content: buildSystemPrompt(tables, l.opts.SampleRows)},
		{Role: llm.RoleUser, Content: question},
	}

	var lastErr error
	for attempt := 0; attempt <= l.opts.MaxRetries; attempt++ {
		raw, err := l.client.Complete(ctx, messages)
		if err != nil {
			return nil, err
		}

		resp, err := l.answer(ctx, exec, raw)
		if err == nil {
			l.logger.Info("Question answered",
				zap.Int("tables", len(tables)),
				zap.Int("attempt", attempt+1),
				zap.String("type", string(resp.Type)))
			return resp, nil
		}

		l.logger.Warn("Model reply rejected",
			zap.Error(err),
			zap.Int("attempt", attempt+1),
			zap.String("reply", raw))
		lastErr = err
		messages = append(messages,
			llm.Message{Role: llm.RoleAssistant, Content: raw},
			llm.Message{Role: llm.RoleUser, Content: correctionPrompt(err)},
		)
	}

	return nil, fmt.Errorf("no usable answer after %d attempts: %w", l.opts.MaxRetries+1, lastErr)
}

func (l *Datalake) answer(ctx context.Context, exec *executor, raw string) (*models.Response, error) {
	r, err := parseReply(raw)
	if err != nil {
		return nil, err
	}
	if r.Type == replyText {
		return &models.Response{Type: models.ResponseString, Value: r.Answer}, nil
	}

	query, err := validateSQL(r.SQL)
	if err != nil {
		return nil, err
	}

	res, err := exec.query(ctx, query, l.opts.MaxResultRows)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}

	if res.scalar != nil {
		value, numeric := formatValue(res.scalar)
		typ := models.ResponseString
		if numeric {
			typ = models.ResponseNumber
		}
		return &models.Response{Type: typ, Value: value, Query: query}, nil
	}

	return &models.Response{Type: models.ResponseDataframe, Table: res.table, Query: query}, nil
}
