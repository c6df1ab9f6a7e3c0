package models

import (
	"time"

	"gorm.io/datatypes"
)

// ProposalStatus - статус предложения; терминальный после рассмотрения
type ProposalStatus string

const (
	ProposalStatusPending  ProposalStatus = "pending"
	ProposalStatusApproved ProposalStatus = "approved"
	ProposalStatusRejected ProposalStatus = "rejected"
)

type PollProposal struct {
	BaseModel
	RoomID     string         `gorm:"type:uuid;not null;index"`
	ProposerID string         `gorm:"type:uuid;not null"`
	Question   string         `gorm:"not null"`
	Type       PollType       `gorm:"type:varchar(20);not null"`
	Options    datatypes.JSON `gorm:"not null"` // JSON массив строк
	Status     ProposalStatus `gorm:"type:varchar(20);default:'pending'"`
	ReviewedAt *time.Time
}
