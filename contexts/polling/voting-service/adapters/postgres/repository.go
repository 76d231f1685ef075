package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"pollhub/contexts/polling/voting-service/domain/entities"
	domainerrors "pollhub/contexts/polling/voting-service/domain/errors"
	"pollhub/contexts/polling/voting-service/ports"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// Migrate creates or updates the questions, choices and votes tables with
// their cascade foreign keys and the (user_id, question_id) unique index.
func (r *Repository) Migrate(ctx context.Context) error {
	if err := r.db.WithContext(ctx).AutoMigrate(&questionModel{}, &choiceModel{}, &voteModel{}); err != nil {
		return r.logError("polls_repo_migrate_failed", err)
	}
	return nil
}

func (r *Repository) GetQuestion(ctx context.Context, questionID string) (entities.Question, error) {
	var row questionModel
	err := r.conn(ctx).
		Where("id = ?", strings.TrimSpace(questionID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Question{}, domainerrors.ErrQuestionNotFound
		}
		return entities.Question{}, r.logError("polls_repo_get_question_failed", err, "question_id", strings.TrimSpace(questionID))
	}
	return row.toEntity(), nil
}

func (r *Repository) ListRecentQuestions(ctx context.Context, now time.Time, limit int) ([]entities.Question, error) {
	var rows []questionModel
	err := r.conn(ctx).
		Where("publish_at <= ?", now.UTC()).
		Order("publish_at DESC").
		Order("id ASC").
		Limit(ports.NormalizeLimit(limit)).
		Find(&rows).
		Error
	if err != nil {
		return nil, r.logError("polls_repo_list_recent_questions_failed", err, "limit", limit)
	}
	items := make([]entities.Question, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) SaveQuestion(ctx context.Context, question entities.Question) error {
	row := questionModelFromEntity(question)
	create := r.conn(ctx).Omit(clause.Associations).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"question_text": row.Text,
			"publish_at":    row.PublishAt,
			"close_at":      row.CloseAt,
		}),
	}).Create(&row)
	if create.Error != nil {
		return r.logError("polls_repo_save_question_failed", create.Error, "question_id", row.ID)
	}
	return nil
}

// DeleteQuestion relies on ON DELETE CASCADE for choices and votes.
func (r *Repository) DeleteQuestion(ctx context.Context, questionID string) error {
	result := r.conn(ctx).
		Where("id = ?", strings.TrimSpace(questionID)).
		Delete(&questionModel{})
	if result.Error != nil {
		return r.logError("polls_repo_delete_question_failed", result.Error, "question_id", strings.TrimSpace(questionID))
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrQuestionNotFound
	}
	return nil
}

func (r *Repository) GetChoice(ctx context.Context, choiceID string) (entities.Choice, error) {
	var row choiceModel
	err := r.conn(ctx).
		Where("id = ?", strings.TrimSpace(choiceID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Choice{}, domainerrors.ErrChoiceNotFound
		}
		return entities.Choice{}, r.logError("polls_repo_get_choice_failed", err, "choice_id", strings.TrimSpace(choiceID))
	}
	return row.toEntity(), nil
}

func (r *Repository) ListChoices(ctx context.Context, questionID string) ([]entities.Choice, error) {
	var rows []choiceModel
	err := r.conn(ctx).
		Where("question_id = ?", strings.TrimSpace(questionID)).
		Order("created_at ASC").
		Order("id ASC").
		Find(&rows).
		Error
	if err != nil {
		return nil, r.logError("polls_repo_list_choices_failed", err, "question_id", strings.TrimSpace(questionID))
	}
	items := make([]entities.Choice, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) SaveChoice(ctx context.Context, choice entities.Choice) error {
	row := choiceModelFromEntity(choice)
	create := r.conn(ctx).Omit(clause.Associations).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"choice_text": row.Text,
		}),
	}).Create(&row)
	if create.Error != nil {
		if isForeignKeyViolation(create.Error) {
			return domainerrors.ErrQuestionNotFound
		}
		return r.logError("polls_repo_save_choice_failed", create.Error,
			"choice_id", row.ID,
			"question_id", row.QuestionID,
		)
	}
	return nil
}

func (r *Repository) FindVote(ctx context.Context, userID string, questionID string) (entities.Vote, bool, error) {
	var row voteModel
	err := r.conn(ctx).
		Where("user_id = ?", strings.TrimSpace(userID)).
		Where("question_id = ?", strings.TrimSpace(questionID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Vote{}, false, nil
		}
		return entities.Vote{}, false, r.logError("polls_repo_find_vote_failed", err,
			"user_id", strings.TrimSpace(userID),
			"question_id", strings.TrimSpace(questionID),
		)
	}
	return row.toEntity(), true, nil
}

// SaveVote upserts by vote id. question_id is taken from the referenced choice.
func (r *Repository) SaveVote(ctx context.Context, vote entities.Vote) (entities.Vote, error) {
	choice, err := r.GetChoice(ctx, vote.ChoiceID)
	if err != nil {
		return entities.Vote{}, err
	}
	vote.QuestionID = choice.QuestionID
	row := voteModelFromEntity(vote)
	create := r.conn(ctx).Omit(clause.Associations).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"choice_id":   row.ChoiceID,
			"question_id": row.QuestionID,
			"updated_at":  row.UpdatedAt,
		}),
	}).Create(&row)
	if create.Error != nil {
		if isUniqueViolation(create.Error) {
			return entities.Vote{}, domainerrors.ErrConflict
		}
		if isForeignKeyViolation(create.Error) {
			return entities.Vote{}, domainerrors.ErrChoiceNotFound
		}
		return entities.Vote{}, r.logError("polls_repo_save_vote_failed", create.Error,
			"vote_id", row.ID,
			"user_id", row.UserID,
			"question_id", row.QuestionID,
		)
	}
	return row.toEntity(), nil
}

func (r *Repository) CountVotes(ctx context.Context, questionID string) (map[string]int, error) {
	var rows []struct {
		ChoiceID string `gorm:"column:choice_id"`
		Votes    int    `gorm:"column:votes"`
	}
	err := r.conn(ctx).Model(&voteModel{}).
		Select("choice_id, COUNT(*) AS votes").
		Where("question_id = ?", strings.TrimSpace(questionID)).
		Group("choice_id").
		Scan(&rows).
		Error
	if err != nil {
		return nil, r.logError("polls_repo_count_votes_failed", err, "question_id", strings.TrimSpace(questionID))
	}
	counts := make(map[string]int, len(rows))
	for _, row := range rows {
		counts[row.ChoiceID] = row.Votes
	}
	return counts, nil
}

// WithVoteLock runs fn inside a transaction holding a transaction-scoped
// advisory lock on the (user, question) key. Repository calls made with the
// ctx passed to fn use that transaction.
func (r *Repository) WithVoteLock(
	ctx context.Context,
	userID string,
	questionID string,
	fn func(ctx context.Context) error,
) error {
	key := strings.TrimSpace(userID) + ":" + strings.TrimSpace(questionID)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("SELECT pg_advisory_xact_lock(hashtextextended(?, 0))", key).Error; err != nil {
			return r.logError("polls_repo_vote_lock_failed", err,
				"user_id", strings.TrimSpace(userID),
				"question_id", strings.TrimSpace(questionID),
			)
		}
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

type txKey struct{}

func (r *Repository) conn(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok && tx != nil {
		return tx.WithContext(ctx)
	}
	return r.db.WithContext(ctx)
}

func (r *Repository) logError(event string, err error, attrs ...any) error {
	fields := make([]any, 0, len(attrs)+8)
	fields = append(fields,
		"event", event,
		"module", "polling/voting-service",
		"layer", "adapter",
		"error", err.Error(),
	)
	fields = append(fields, attrs...)
	r.logger.Error("polls repository operation failed", fields...)
	return err
}

type questionModel struct {
	ID        string     `gorm:"column:id;primaryKey"`
	Text      string     `gorm:"column:question_text;size:200;not null"`
	PublishAt time.Time  `gorm:"column:publish_at;not null;index"`
	CloseAt   *time.Time `gorm:"column:close_at;check:chk_questions_window,close_at IS NULL OR close_at >= publish_at"`
	CreatedAt time.Time  `gorm:"column:created_at"`
}

func (questionModel) TableName() string {
	return "questions"
}

func questionModelFromEntity(question entities.Question) questionModel {
	row := questionModel{
		ID:        strings.TrimSpace(question.QuestionID),
		Text:      strings.TrimSpace(question.Text),
		PublishAt: question.PublishAt.UTC(),
		CloseAt:   normalizeOptionalTime(question.CloseAt),
		CreatedAt: question.CreatedAt.UTC(),
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	return row
}

func (m questionModel) toEntity() entities.Question {
	return entities.Question{
		QuestionID: m.ID,
		Text:       m.Text,
		PublishAt:  m.PublishAt.UTC(),
		CloseAt:    normalizeOptionalTime(m.CloseAt),
		CreatedAt:  m.CreatedAt.UTC(),
	}
}

type choiceModel struct {
	ID         string         `gorm:"column:id;primaryKey"`
	QuestionID string         `gorm:"column:question_id;not null;index"`
	Question   *questionModel `gorm:"foreignKey:QuestionID;references:ID;constraint:OnDelete:CASCADE"`
	Text       string         `gorm:"column:choice_text;size:200;not null"`
	CreatedAt  time.Time      `gorm:"column:created_at"`
}

func (choiceModel) TableName() string {
	return "choices"
}

func choiceModelFromEntity(choice entities.Choice) choiceModel {
	row := choiceModel{
		ID:         strings.TrimSpace(choice.ChoiceID),
		QuestionID: strings.TrimSpace(choice.QuestionID),
		Text:       strings.TrimSpace(choice.Text),
		CreatedAt:  choice.CreatedAt.UTC(),
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	return row
}

func (m choiceModel) toEntity() entities.Choice {
	return entities.Choice{
		ChoiceID:   m.ID,
		QuestionID: m.QuestionID,
		Text:       m.Text,
		CreatedAt:  m.CreatedAt.UTC(),
	}
}

type voteModel struct {
	ID         string         `gorm:"column:id;primaryKey"`
	UserID     string         `gorm:"column:user_id;not null;uniqueIndex:ux_votes_user_question,priority:1"`
	QuestionID string         `gorm:"column:question_id;not null;uniqueIndex:ux_votes_user_question,priority:2"`
	Question   *questionModel `gorm:"foreignKey:QuestionID;references:ID;constraint:OnDelete:CASCADE"`
	ChoiceID   string         `gorm:"column:choice_id;not null;index"`
	Choice     *choiceModel   `gorm:"foreignKey:ChoiceID;references:ID;constraint:OnDelete:CASCADE"`
	CreatedAt  time.Time      `gorm:"column:created_at"`
	UpdatedAt  time.Time      `gorm:"column:updated_at"`
}

func (voteModel) TableName() string {
	return "votes"
}

func voteModelFromEntity(vote entities.Vote) voteModel {
	row := voteModel{
		ID:         strings.TrimSpace(vote.VoteID),
		UserID:     strings.TrimSpace(vote.UserID),
		QuestionID: strings.TrimSpace(vote.QuestionID),
		ChoiceID:   strings.TrimSpace(vote.ChoiceID),
		CreatedAt:  vote.CreatedAt.UTC(),
		UpdatedAt:  vote.UpdatedAt.UTC(),
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	if row.UpdatedAt.IsZero() {
		row.UpdatedAt = row.CreatedAt
	}
	return row
}

func (m voteModel) toEntity() entities.Vote {
	return entities.Vote{
		VoteID:     m.ID,
		UserID:     m.UserID,
		ChoiceID:   m.ChoiceID,
		QuestionID: m.QuestionID,
		CreatedAt:  m.CreatedAt.UTC(),
		UpdatedAt:  m.UpdatedAt.UTC(),
	}
}

func normalizeOptionalTime(value *time.Time) *time.Time {
	if value == nil {
		return nil
	}
	timestamp := value.UTC()
	return &timestamp
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}

var _ ports.EntityStore = (*Repository)(nil)
