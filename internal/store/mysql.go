package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/abhijit2512/EDUTALK-WEBAPP/internal/config"
	"github.com/abhijit2512/EDUTALK-WEBAPP/internal/model"
)

// MySQLStore implements Store interface using MySQL database.
// Comments and ratings live in JSON columns so each video stays a single row.
type MySQLStore struct {
	db *gorm.DB
}

// videoRow is the videos table row
type videoRow struct {
	ID          uint         `gorm:"primaryKey"`
	Title       string       `gorm:"size:500;not null"`
	Publisher   string       `gorm:"size:200"`
	Producer    string       `gorm:"size:200"`
	Genre       string       `gorm:"size:100"`
	Age         string       `gorm:"size:20"`
	PlaybackURL string       `gorm:"column:playback_url;size:1000;not null"`
	External    bool         `gorm:"default:false;index"`
	Comments    []commentRow `gorm:"type:json;serializer:json"`
	Ratings     []int        `gorm:"type:json;serializer:json"`
	CreatedAt   time.Time    `gorm:"index"`
}

type commentRow struct {
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

// TableName returns the table name for videoRow
func (videoRow) TableName() string {
	return "videos"
}

// NewMySQLStore creates a new MySQL store instance
func NewMySQLStore(cfg *config.DBConfig) (*MySQLStore, error) {
	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	}

	db, err := gorm.Open(mysql.Open(cfg.DSN()), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	// Configure connection pool
	sqlDB.SetMaxOpenConns(cfg.MaxConns)
	sqlDB.SetMaxIdleConns(cfg.MaxConns / 2)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := db.AutoMigrate(&videoRow{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &MySQLStore{db: db}, nil
}

// ListVideos retrieves all videos ordered by created_at DESC
func (s *MySQLStore) ListVideos(ctx context.Context) ([]*model.Video, error) {
	var rows []*videoRow
	result := s.db.WithContext(ctx).
		Order("created_at DESC").
		Order("id DESC").
		Find(&rows)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list videos: %w", result.Error)
	}

	videos := make([]*model.Video, 0, len(rows))
	for _, r := range rows {
		videos = append(videos, r.toModel())
	}
	return videos, nil
}

// InsertVideo saves a new video and assigns its ID
func (s *MySQLStore) InsertVideo(ctx context.Context, video *model.Video) error {
	row := rowFromModel(video)
	if err := s.db.WithContext(ctx).Create(row).Error; err != nil {
		return fmt.Errorf("failed to save video: %w", err)
	}
	video.ID = strconv.FormatUint(uint64(row.ID), 10)
	return nil
}

// GetVideo retrieves a video by its numeric id
func (s *MySQLStore) GetVideo(ctx context.Context, id string) (*model.Video, error) {
	rowID, ok := parseRowID(id)
	if !ok {
		return nil, ErrNotFound
	}
	return s.get(ctx, rowID)
}

func (s *MySQLStore) get(ctx context.Context, rowID uint64) (*model.Video, error) {
	var row videoRow
	result := s.db.WithContext(ctx).Where("id = ?", rowID).First(&row)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get video: %w", result.Error)
	}
	return row.toModel(), nil
}

// CountVideos returns the total count of videos
func (s *MySQLStore) CountVideos(ctx context.Context) (int64, error) {
	var count int64
	result := s.db.WithContext(ctx).Model(&videoRow{}).Count(&count)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to count videos: %w", result.Error)
	}
	return count, nil
}

// AppendComment appends to the comments JSON array in a single UPDATE
func (s *MySQLStore) AppendComment(ctx context.Context, id string, comment model.Comment) (*model.Video, error) {
	payload, err := json.Marshal(commentRow{Text: comment.Text, CreatedAt: comment.CreatedAt})
	if err != nil {
		return nil, fmt.Errorf("failed to encode comment: %w", err)
	}
	return s.appendJSON(ctx, id, "comments",
		gorm.Expr("JSON_ARRAY_APPEND(COALESCE(comments, JSON_ARRAY()), '$', CAST(? AS JSON))", string(payload)))
}

// AppendRating appends to the ratings JSON array in a single UPDATE
func (s *MySQLStore) AppendRating(ctx context.Context, id string, rating int) (*model.Video, error) {
	return s.appendJSON(ctx, id, "ratings",
		gorm.Expr("JSON_ARRAY_APPEND(COALESCE(ratings, JSON_ARRAY()), '$', ?)", rating))
}

func (s *MySQLStore) appendJSON(ctx context.Context, id, column string, expr clause.Expr) (*model.Video, error) {
	rowID, ok := parseRowID(id)
	if !ok {
		return nil, ErrNotFound
	}

	result := s.db.WithContext(ctx).
		Model(&videoRow{}).
		Where("id = ?", rowID).
		Update(column, expr)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to append to %s: %w", column, result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return s.get(ctx, rowID)
}

// DeleteVideo deletes a video by id
func (s *MySQLStore) DeleteVideo(ctx context.Context, id string) error {
	rowID, ok := parseRowID(id)
	if !ok {
		return ErrNotFound
	}

	result := s.db.WithContext(ctx).Where("id = ?", rowID).Delete(&videoRow{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete video: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteByURLHosts deletes every video whose playback URL contains one of hosts
func (s *MySQLStore) DeleteByURLHosts(ctx context.Context, hosts []string) (int64, error) {
	var conds []string
	var args []interface{}
	for _, h := range hosts {
		if h == "" {
			continue
		}
		conds = append(conds, "LOWER(playback_url) LIKE ?")
		args = append(args, "%"+escapeLike(strings.ToLower(h))+"%")
	}
	if len(conds) == 0 {
		return 0, nil
	}

	result := s.db.WithContext(ctx).
		Where(strings.Join(conds, " OR "), args...).
		Delete(&videoRow{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete videos by host: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// Ping checks database connectivity
func (s *MySQLStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying db: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

// Close closes the database connection
func (s *MySQLStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying db: %w", err)
	}
	return sqlDB.Close()
}

func parseRowID(id string) (uint64, bool) {
	n, err := strconv.ParseUint(id, 10, 64)
	if err != nil || n == 0 {
		return 0, false
	}
	return n, true
}

// escapeLike escapes LIKE wildcards using MySQL's default escape character
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

func rowFromModel(v *model.Video) *videoRow {
	row := &videoRow{
		Title:       v.Title,
		Publisher:   v.Publisher,
		Producer:    v.Producer,
		Genre:       v.Genre,
		Age:         v.Age,
		PlaybackURL: v.PlaybackURL,
		External:    v.External,
		Comments:    make([]commentRow, 0, len(v.Comments)),
		Ratings:     append(make([]int, 0, len(v.Ratings)), v.Ratings...),
		CreatedAt:   v.CreatedAt,
	}
	for _, c := range v.Comments {
		row.Comments = append(row.Comments, commentRow{Text: c.Text, CreatedAt: c.CreatedAt})
	}
	return row
}

func (r *videoRow) toModel() *model.Video {
	v := &model.Video{
		ID:          strconv.FormatUint(uint64(r.ID), 10),
		Title:       r.Title,
		Publisher:   r.Publisher,
		Producer:    r.Producer,
		Genre:       r.Genre,
		Age:         r.Age,
		PlaybackURL: r.PlaybackURL,
		External:    r.External,
		Comments:    make([]model.Comment, 0, len(r.Comments)),
		Ratings:     append(make([]int, 0, len(r.Ratings)), r.Ratings...),
		CreatedAt:   r.CreatedAt,
	}
	for _, c := range r.Comments {
		v.Comments = append(v.Comments, model.Comment{Text: c.Text, CreatedAt: c.CreatedAt})
	}
	return v
}
