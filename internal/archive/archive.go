package archive

import (
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/farmhunt/backend/internal/match"
)

// MatchRecord is the persisted summary of one finished match.
type MatchRecord struct {
	ID        uint   `gorm:"primaryKey"`
	Code      string `gorm:"index"`
	Winner    string
	Ticks     int64
	Players   int
	CardsSold int
	GoldSpent int
	CreatedAt time.Time
}

// Archive writes completed-match summaries to postgres. A nil *Archive is a
// valid no-op sink, so the server runs fine without a database configured.
type Archive struct {
	db  *gorm.DB
	log *zap.Logger
}

func Open(dsn string, log *zap.Logger) (*Archive, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&MatchRecord{}); err != nil {
		return nil, err
	}
	return &Archive{db: db, log: log}, nil
}

// Record stores one summary. Called from a match completion hook, off the
// actor goroutine, so blocking on the database here is fine.
func (a *Archive) Record(code string, sum match.Summary) {
	if a == nil {
		return
	}
	rec := MatchRecord{
		Code:      code,
		Winner:    sum.Winner,
		Ticks:     sum.Ticks,
		Players:   sum.Players,
		CardsSold: sum.CardsSold,
		GoldSpent: sum.GoldSpent,
	}
	if err := a.db.Create(&rec).Error; err != nil {
		a.log.Error("archive write failed", zap.String("match", code), zap.Error(err))
	}
}
