package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DrawStatus represents the lifecycle status of a draw
type DrawStatus string

const (
	DrawStatusScheduled DrawStatus = "SCHEDULED"
	DrawStatusOpen      DrawStatus = "OPEN"
	DrawStatusClosed    DrawStatus = "CLOSED"
	DrawStatusDrawn     DrawStatus = "DRAWN"
	DrawStatusSettled   DrawStatus = "SETTLED"
	DrawStatusCancelled DrawStatus = "CANCELLED"
)

// DrawType represents the time-of-day slot of a draw
type DrawType string

const (
	DrawTypeMorning   DrawType = "MORNING"
	DrawTypeAfternoon DrawType = "AFTERNOON"
	DrawTypeEvening   DrawType = "EVENING"
)

// Draw represents one scheduled drawing event of the tambiolo
type Draw struct {
	ID             primitive.ObjectID  `bson:"_id,omitempty" json:"id,omitempty"`
	ScheduleID     primitive.ObjectID  `bson:"scheduleId,omitempty" json:"scheduleId,omitempty"`
	DrawDate       time.Time           `bson:"drawDate" json:"drawDate"`
	DrawType       DrawType            `bson:"drawType" json:"drawType"`
	ScheduledAt    time.Time           `bson:"scheduledAt" json:"scheduledAt"`
	Status         DrawStatus          `bson:"status" json:"status"`
	OpenedAt       *time.Time          `bson:"openedAt,omitempty" json:"openedAt,omitempty"`
	ClosedAt       *time.Time          `bson:"closedAt,omitempty" json:"closedAt,omitempty"`
	DrawnAt        *time.Time          `bson:"drawnAt,omitempty" json:"drawnAt,omitempty"`
	SettledAt      *time.Time          `bson:"settledAt,omitempty" json:"settledAt,omitempty"`
	Number1        *int                `bson:"number1,omitempty" json:"number1,omitempty"`
	Number2        *int                `bson:"number2,omitempty" json:"number2,omitempty"`
	CombinationKey string              `bson:"combinationKey,omitempty" json:"combinationKey,omitempty"`
	BoladorID      *primitive.ObjectID `bson:"boladorId,omitempty" json:"boladorId,omitempty"`
	TotalBets      int                 `bson:"totalBets" json:"totalBets"`
	TotalStake     float64             `bson:"totalStake" json:"totalStake"`
	TotalPayout    float64             `bson:"totalPayout" json:"totalPayout"`
	GrossProfit    float64             `bson:"grossProfit" json:"grossProfit"`
	CreatedAt      time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time           `bson:"updatedAt" json:"updatedAt"`
}

// DrawSchedule defines the recurring slot draws are created from
type DrawSchedule struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	DrawType      DrawType           `bson:"drawType" json:"drawType"`
	TimeOfDay     string             `bson:"timeOfDay" json:"timeOfDay"` // "15:04" 24h format
	CutoffMinutes int                `bson:"cutoffMinutes" json:"cutoffMinutes"`
	Active        bool               `bson:"active" json:"active"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// CutoffAt returns the moment bets for the draw must stop being accepted
func (d *Draw) CutoffAt(schedule *DrawSchedule) time.Time {
	if schedule == nil {
		return d.ScheduledAt
	}
	return d.ScheduledAt.Add(-time.Duration(schedule.CutoffMinutes) * time.Minute)
}
