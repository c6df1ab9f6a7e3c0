package models

import "time"

// PollType - семантика голосования и подсчета
type PollType string

const (
	PollTypeSingle       PollType = "single"        // один вариант на пользователя
	PollTypeMultiple     PollType = "multiple"      // несколько вариантов одним бюллетенем
	PollTypeRatedOptions PollType = "rated_options" // оценка каждого варианта 1-5
)

// ValidPollType проверяет значение против фиксированного набора типов.
func ValidPollType(t PollType) bool {
	switch t {
	case PollTypeSingle, PollTypeMultiple, PollTypeRatedOptions:
		return true
	}
	return false
}

type Poll struct {
	BaseModel
	RoomID    string   `gorm:"type:uuid;not null;index"`
	Question  string   `gorm:"not null"`
	Type      PollType `gorm:"type:varchar(20);not null"` // неизменяем после создания
	CreatedBy string   `gorm:"type:uuid;not null"`

	// Заполняется при промоушене предложения (аудит-связь, FK не навешиваем)
	ProposalID *string `gorm:"type:uuid"`

	// Relations
	Options []PollOption `gorm:"foreignKey:PollID;constraint:OnDelete:CASCADE"`
	Votes   []Vote       `gorm:"foreignKey:PollID;constraint:OnDelete:CASCADE"`
}

type PollOption struct {
	BaseModel
	PollID string `gorm:"type:uuid;not null;index"`
	Text   string `gorm:"not null"`
}

// Vote - факт, не изменяемая сущность. Составной ключ повторяет
// первичный ключ таблицы votes: (poll_id, user_id, option_id).
type Vote struct {
	PollID   string    `gorm:"type:uuid;primaryKey"`
	UserID   string    `gorm:"type:uuid;primaryKey"`
	OptionID string    `gorm:"type:uuid;primaryKey"`
	Rating   *int      `gorm:"check:rating BETWEEN 1 AND 5"` // только для rated_options
	VotedAt  time.Time `gorm:"autoCreateTime"`
}
